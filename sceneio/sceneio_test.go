package sceneio_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermat-boruvka/gngp/geom3"
	"github.com/fermat-boruvka/gngp/obbtree"
	"github.com/fermat-boruvka/gngp/sceneio"
	"github.com/fermat-boruvka/gngp/shapes"
)

func TestReadRawTriangles(t *testing.T) {
	in := "0 0 0  1 0 0  0 1 0\n-1 -1 0 1 -1 0 0 1 0.25\n"
	coords, err := sceneio.ReadRawTriangles(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, coords, 18)
	assert.Equal(t, 0.25, coords[17])
}

func TestReadRawTrianglesRejectsPartialTriangle(t *testing.T) {
	_, err := sceneio.ReadRawTriangles(strings.NewReader("1 2 3 4"))
	require.ErrorIs(t, err, sceneio.ErrTriangleCount)
}

func TestReadRawTrianglesRejectsNonNumber(t *testing.T) {
	_, err := sceneio.ReadRawTriangles(strings.NewReader("a b c d e f g h i"))
	require.ErrorIs(t, err, sceneio.ErrSyntax)
}

func TestRawTrianglesRoundTrip(t *testing.T) {
	coords := []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, -2.5, 0.125, 3, 1, 1, 1, 0, 0, 9}
	var buf bytes.Buffer
	require.NoError(t, sceneio.WriteRawTriangles(&buf, coords))

	back, err := sceneio.ReadRawTriangles(&buf)
	require.NoError(t, err)
	assert.Equal(t, coords, back)
}

func sampleRecord(t *testing.T) *sceneio.GeomRecord {
	t.Helper()

	sphere, err := shapes.NewSphere(r3.Vector{X: 1, Y: 2, Z: 3}, 0.5)
	require.NoError(t, err)
	tri, err := shapes.NewTriangle(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Y: 1})
	require.NoError(t, err)

	seeds := append(sphere.LeafSeeds(0), tri.LeafSeeds(1)...)
	res, err := obbtree.Build(seeds, obbtree.DefaultBuildFlags())
	require.NoError(t, err)

	all := []shapes.Shape{sphere, tri}
	pose := geom3.Pose{
		Rotation:    geom3.RotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/6),
		Translation: r3.Vector{X: -1, Y: 0.5, Z: 2},
	}

	return sceneio.FromTree(pose, []*obbtree.Tree{res.Root}, func(i int) shapes.Shape { return all[i] })
}

func TestGeomRoundTripPreservesStructure(t *testing.T) {
	rec := sampleRecord(t)

	var buf bytes.Buffer
	require.NoError(t, sceneio.WriteGeom(&buf, rec))

	back, err := sceneio.ReadGeom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Len(t, back.Roots, 1)
	assert.InDelta(t, rec.Pose.Translation.X, back.Pose.Translation.X, 0)
	assert.Equal(t, rec.Pose.Rotation, back.Pose.Rotation)

	wantShapes := rec.Shapes()
	gotShapes := back.Shapes()
	require.Len(t, gotShapes, len(wantShapes))
	for i := range wantShapes {
		assert.Equal(t, wantShapes[i].Kind(), gotShapes[i].Kind())
	}
}

func TestGeomRoundTripIsByteExact(t *testing.T) {
	rec := sampleRecord(t)

	var first bytes.Buffer
	require.NoError(t, sceneio.WriteGeom(&first, rec))

	back, err := sceneio.ReadGeom(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, sceneio.WriteGeom(&second, back))
	assert.Equal(t, first.String(), second.String())
}

func TestReadGeomWithOffsetShape(t *testing.T) {
	in := "(geom 0 0 0 1 0 0 0 1 0 0 0 1 " +
		"(obb 0 0 0 1 0 0 0 1 0 0 0 1 2 2 2 " +
		"(off 1 0 0 1 0 0 0 1 0 0 0 1 (sphere 0 0 0 1))))"

	g, err := sceneio.ReadGeom(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, g.Roots, 1)
	require.True(t, g.Roots[0].IsLeaf())

	off, ok := g.Roots[0].Shape.(*shapes.Offset)
	require.True(t, ok)
	assert.Equal(t, shapes.KindSphere, off.Inner.Kind())
	assert.InDelta(t, 1.0, off.Center().X, 1e-12)
}

func TestReadGeomRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"(geom 0 0 0 1 0 0 0 1 0 0 0 1",                        // unbalanced
		"(geom 0 0 0 1 0 0 0 1 0 0 0 1 (obb 0 0 x))",           // non-number
		"(geom 0 0 0 1 0 0 0 1 0 0 0 1 (cube 1))",              // unknown form
		"(geom 0 0 0 1 0 0 0 1 0 0 0 1) extra",                 // trailing tokens
	}
	for _, in := range cases {
		_, err := sceneio.ReadGeom(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}
