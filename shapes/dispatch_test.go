package shapes_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermat-boruvka/gngp/geom3"
	"github.com/fermat-boruvka/gngp/shapes"
)

func unitSphere(t *testing.T, x, y, z float64) *shapes.Sphere {
	t.Helper()
	s, err := shapes.NewSphere(r3.Vector{X: x, Y: y, Z: z}, 1)
	require.NoError(t, err)
	return s
}

func axisBox(t *testing.T, center r3.Vector, he r3.Vector) *shapes.Box {
	t.Helper()
	b, err := shapes.NewBox(center, [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}, he)
	require.NoError(t, err)
	return b
}

func TestNewSphereRejectsZeroRadius(t *testing.T) {
	_, err := shapes.NewSphere(r3.Vector{}, 0)
	require.ErrorIs(t, err, shapes.ErrDegenerateShape)
}

func TestNewTriangleRejectsZeroArea(t *testing.T) {
	_, err := shapes.NewTriangle(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 2})
	require.ErrorIs(t, err, shapes.ErrDegenerateShape)
}

func TestSphereSphereSeparation(t *testing.T) {
	a := unitSphere(t, 0, 0, 0)
	b := unitSphere(t, 1.5, 0, 0)

	assert.True(t, shapes.Collide(a, b))

	c, err := shapes.Separate(a, b, 4)
	require.NoError(t, err)
	require.Equal(t, 1, c.N())
	assert.InDelta(t, 0.5, c.Penetration[0], 1e-12)
	assert.InDelta(t, 1.0, c.Direction[0].X, 1e-12)
	assert.InDelta(t, 0.0, c.Direction[0].Y, 1e-12)
	assert.InDelta(t, 0.0, c.Direction[0].Z, 1e-12)
}

func TestSeparateDirectionFlipsWithOperandOrder(t *testing.T) {
	pairs := []struct {
		name string
		a, b shapes.Shape
	}{
		{"sphere-sphere", unitSphere(t, 0, 0, 0), unitSphere(t, 1.2, 0.3, 0)},
		{"sphere-box", unitSphere(t, 1.6, 0, 0), axisBox(t, r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})},
		{"sphere-capsule", unitSphere(t, 0, 1.4, 0), mustCapsule(t, r3.Vector{X: -1}, r3.Vector{X: 1}, 0.5)},
	}

	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			fwd, err := shapes.Separate(tc.a, tc.b, 4)
			require.NoError(t, err)
			rev, err := shapes.Separate(tc.b, tc.a, 4)
			require.NoError(t, err)

			require.Equal(t, fwd.N(), rev.N())
			require.Greater(t, fwd.N(), 0)
			for i := 0; i < fwd.N(); i++ {
				assert.InDelta(t, fwd.Position[i].X, rev.Position[i].X, 1e-9)
				assert.InDelta(t, fwd.Position[i].Y, rev.Position[i].Y, 1e-9)
				assert.InDelta(t, fwd.Position[i].Z, rev.Position[i].Z, 1e-9)
				assert.InDelta(t, -fwd.Direction[i].X, rev.Direction[i].X, 1e-9)
				assert.InDelta(t, -fwd.Direction[i].Y, rev.Direction[i].Y, 1e-9)
				assert.InDelta(t, -fwd.Direction[i].Z, rev.Direction[i].Z, 1e-9)
				assert.InDelta(t, fwd.Penetration[i], rev.Penetration[i], 1e-9)
			}
		})
	}
}

func mustCapsule(t *testing.T, a, b r3.Vector, r float64) *shapes.Capsule {
	t.Helper()
	c, err := shapes.NewCapsule(a, b, r)
	require.NoError(t, err)
	return c
}

func TestBoxBoxAt45Degrees(t *testing.T) {
	rot := geom3.RotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/4)
	rotated, err := shapes.NewBox(
		r3.Vector{},
		[3]r3.Vector{rot.Col(0), rot.Col(1), rot.Col(2)},
		r3.Vector{X: 1, Y: 1, Z: 1},
	)
	require.NoError(t, err)

	far := axisBox(t, r3.Vector{X: 2.5}, r3.Vector{X: 1, Y: 1, Z: 1})
	assert.False(t, shapes.Collide(rotated, far))

	near := axisBox(t, r3.Vector{X: math.Sqrt2}, r3.Vector{X: 1, Y: 1, Z: 1})
	assert.True(t, shapes.Collide(rotated, near))
}

func TestCollideSymmetry(t *testing.T) {
	tri, err := shapes.NewTriangle(r3.Vector{X: -1}, r3.Vector{X: 1}, r3.Vector{Y: 1, Z: 0.2})
	require.NoError(t, err)
	cyl, err := shapes.NewCylinder(r3.Vector{Z: -1}, r3.Vector{Z: 1}, 0.4)
	require.NoError(t, err)
	sph := unitSphere(t, 0.2, 0.1, 0)

	cases := []struct {
		name string
		a, b shapes.Shape
	}{
		{"sphere-tri", sph, tri},
		{"sphere-cyl", sph, cyl},
		{"cyl-tri", cyl, tri},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, shapes.Collide(tc.a, tc.b), shapes.Collide(tc.b, tc.a))
		})
	}
}

func TestPlaneDispatch(t *testing.T) {
	floor, err := shapes.NewPlane(r3.Vector{Z: 1}, 0)
	require.NoError(t, err)

	resting := unitSphere(t, 0, 0, 0.5)
	assert.True(t, shapes.Collide(floor, resting))
	assert.True(t, shapes.Collide(resting, floor))

	hovering := unitSphere(t, 0, 0, 1.5)
	assert.False(t, shapes.Collide(floor, hovering))

	c, err := shapes.Separate(floor, resting, 4)
	require.NoError(t, err)
	require.Equal(t, 1, c.N())
	assert.InDelta(t, 0.5, c.Penetration[0], 1e-12)
	assert.InDelta(t, 1.0, c.Direction[0].Z, 1e-12)

	// Swapped order pushes the plane the other way.
	cr, err := shapes.Separate(resting, floor, 4)
	require.NoError(t, err)
	require.Equal(t, 1, cr.N())
	assert.InDelta(t, -1.0, cr.Direction[0].Z, 1e-12)
}

func TestPlaneBoxContactsPenetratingCorners(t *testing.T) {
	floor, err := shapes.NewPlane(r3.Vector{Z: 1}, 0)
	require.NoError(t, err)
	sunk := axisBox(t, r3.Vector{Z: 0.5}, r3.Vector{X: 1, Y: 1, Z: 1})

	c, err := shapes.Separate(floor, sunk, 8)
	require.NoError(t, err)
	require.Equal(t, 4, c.N())
	for i := 0; i < c.N(); i++ {
		assert.InDelta(t, 0.5, c.Penetration[i], 1e-12)
		assert.InDelta(t, 0.0, c.Position[i].Z, 1e-12)
	}
}

func TestPlanePlaneHasNoSupportFallback(t *testing.T) {
	p1, err := shapes.NewPlane(r3.Vector{Z: 1}, 0)
	require.NoError(t, err)
	p2, err := shapes.NewPlane(r3.Vector{X: 1}, 0)
	require.NoError(t, err)

	assert.False(t, shapes.Collide(p1, p2))
	_, err = shapes.Separate(p1, p2, 1)
	require.ErrorIs(t, err, shapes.ErrNoSupportFunction)
}

func TestTriTriSymmetricOverlap(t *testing.T) {
	a, err := shapes.NewTriangle(r3.Vector{X: -1, Y: -1}, r3.Vector{X: 1, Y: -1}, r3.Vector{Y: 1})
	require.NoError(t, err)
	b, err := shapes.NewTriangle(r3.Vector{X: -1, Z: -0.5}, r3.Vector{X: 1, Z: -0.5}, r3.Vector{Z: 1})
	require.NoError(t, err)

	assert.True(t, shapes.Collide(a, b))
	assert.Equal(t, shapes.Collide(a, b), shapes.Collide(b, a))

	c, err := shapes.Separate(a, b, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, c.N())
}

func TestGJKFallbackCapsuleBox(t *testing.T) {
	cap1 := mustCapsule(t, r3.Vector{X: -1, Z: 0.2}, r3.Vector{X: 1, Z: 0.2}, 0.5)
	bx := axisBox(t, r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})

	assert.True(t, shapes.Collide(cap1, bx))

	farCap := mustCapsule(t, r3.Vector{X: -1, Z: 3}, r3.Vector{X: 1, Z: 3}, 0.5)
	assert.False(t, shapes.Collide(farCap, bx))

	c, err := shapes.Separate(cap1, bx, 2)
	require.NoError(t, err)
	require.Greater(t, c.N(), 0)
	assert.Greater(t, c.Penetration[0], 0.0)
}

func TestOffsetComposesBeforeDispatch(t *testing.T) {
	base := unitSphere(t, 0, 0, 0)
	shift := geom3.Pose{Rotation: geom3.Identity3(), Translation: r3.Vector{X: 1.5}}
	moved := shapes.NewOffset(base, shift)

	other := unitSphere(t, 0, 0, 0)
	assert.True(t, shapes.Collide(moved, other))

	c, err := shapes.Separate(other, moved, 2)
	require.NoError(t, err)
	require.Equal(t, 1, c.N())
	assert.InDelta(t, 0.5, c.Penetration[0], 1e-12)
	assert.InDelta(t, 1.0, c.Direction[0].X, 1e-12)
}

func TestNestedOffsetsCollapse(t *testing.T) {
	base := unitSphere(t, 0, 0, 0)
	p1 := geom3.Pose{Rotation: geom3.Identity3(), Translation: r3.Vector{X: 1}}
	p2 := geom3.Pose{Rotation: geom3.RotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2), Translation: r3.Vector{Y: 2}}

	inner := shapes.NewOffset(base, p1)
	outer := shapes.NewOffset(inner, p2)

	_, stillNested := outer.Inner.(*shapes.Offset)
	assert.False(t, stillNested)

	// Rotating (1,0,0) by 90 deg about Z gives (0,1,0); plus (0,2,0) = (0,3,0).
	got := outer.Center()
	assert.InDelta(t, 0.0, got.X, 1e-12)
	assert.InDelta(t, 3.0, got.Y, 1e-12)
	assert.InDelta(t, 0.0, got.Z, 1e-12)
}

func TestTriMeshDispatchesPerFace(t *testing.T) {
	mesh, err := shapes.NewTriMesh(
		[]r3.Vector{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	)
	require.NoError(t, err)

	touching := unitSphere(t, 0, 0, 0.5)
	assert.True(t, shapes.Collide(mesh, touching))
	assert.True(t, shapes.Collide(touching, mesh))

	clear := unitSphere(t, 0, 0, 2)
	assert.False(t, shapes.Collide(mesh, clear))

	c, err := shapes.Separate(touching, mesh, 8)
	require.NoError(t, err)
	require.Greater(t, c.N(), 0)
	for i := 0; i < c.N(); i++ {
		assert.InDelta(t, -1.0, c.Direction[i].Z, 1e-9)
	}
}

func TestContactsRespectMaxContacts(t *testing.T) {
	floor, err := shapes.NewPlane(r3.Vector{Z: 1}, 0)
	require.NoError(t, err)
	sunk := axisBox(t, r3.Vector{Z: 0.5}, r3.Vector{X: 1, Y: 1, Z: 1})

	c, err := shapes.Separate(floor, sunk, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.N())
}
