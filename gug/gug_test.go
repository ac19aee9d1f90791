package gug_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermat-boruvka/gngp/gug"
	"github.com/fermat-boruvka/gngp/vecd"
)

func newTestGrid(t *testing.T, approx bool) *gug.Grid {
	t.Helper()
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{10, 10})
	require.NoError(t, err)
	g, err := gug.New(2, box, 16, 2.0, 1.5, approx)
	require.NoError(t, err)

	return g
}

func TestAddRemoveRestoresTopology(t *testing.T) {
	g := newTestGrid(t, false)

	el, err := g.Add(vecd.Vec{5, 5}, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())

	require.NoError(t, g.Remove(el))
	assert.Equal(t, 0, g.Len())

	els, _, err := g.Nearest(vecd.Vec{5, 5}, 1)
	require.NoError(t, err)
	assert.Empty(t, els)
}

func TestNearestExactMatchesBruteForce(t *testing.T) {
	g := newTestGrid(t, false)

	rng := rand.New(rand.NewSource(1))
	type pt struct {
		p vecd.Vec
	}
	var pts []pt
	for i := 0; i < 200; i++ {
		p := vecd.Vec{rng.Float64() * 10, rng.Float64() * 10}
		_, err := g.Add(p, i)
		require.NoError(t, err)
		pts = append(pts, pt{p})
	}

	q := vecd.Vec{3.3, 7.1}
	const k = 5

	els, dists, err := g.Nearest(q, k)
	require.NoError(t, err)
	require.Len(t, els, k)

	// Brute-force baseline.
	bf := make([]float64, len(pts))
	for i, pp := range pts {
		d2, _ := vecd.Dist2(q, pp.p)
		bf[i] = d2
	}
	sort.Float64s(bf)

	for i := 0; i < k; i++ {
		assert.InDelta(t, bf[i], dists[i], 1e-9)
	}
	for i := 1; i < len(dists); i++ {
		assert.LessOrEqual(t, dists[i-1], dists[i])
	}
}

func TestNearestReturnsFewerThanKWhenSparse(t *testing.T) {
	g := newTestGrid(t, false)
	_, err := g.Add(vecd.Vec{1, 1}, "only")
	require.NoError(t, err)

	els, _, err := g.Nearest(vecd.Vec{9, 9}, 5)
	require.NoError(t, err)
	assert.Len(t, els, 1)
}

func TestRehashTriggersUnderDensity(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0, 0}, vecd.Vec{1, 1, 1})
	require.NoError(t, err)
	g, err := gug.New(3, box, 10, 1, 2.0, false)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	var handles []*gug.Element
	for i := 0; i < 500; i++ {
		p := vecd.Vec{rng.Float64(), rng.Float64(), rng.Float64()}
		el, err := g.Add(p, i)
		require.NoError(t, err)
		handles = append(handles, el)
	}

	// At max_density=1, 500 insertions into the initial grid force repeated
	// rehashes; every element must stay registered through them.
	assert.Equal(t, 500, g.Len())

	// The grid still answers k-NN queries after rehashing.
	q := vecd.Vec{0.5, 0.5, 0.5}
	els, _, err := g.Nearest(q, 10)
	require.NoError(t, err)
	assert.Len(t, els, 10)
	_ = handles
}

func TestUpdateMovesElement(t *testing.T) {
	g := newTestGrid(t, false)
	el, err := g.Add(vecd.Vec{0.5, 0.5}, "x")
	require.NoError(t, err)

	require.NoError(t, g.Update(el, vecd.Vec{9.5, 9.5}))
	assert.InDelta(t, 9.5, el.Pos()[0], 1e-12)

	els, dists, err := g.Nearest(vecd.Vec{9.5, 9.5}, 1)
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.InDelta(t, 0.0, math.Sqrt(dists[0]), 1e-9)
}

func TestApproxModeReturnsSomeCandidates(t *testing.T) {
	g := newTestGrid(t, true)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		p := vecd.Vec{rng.Float64() * 10, rng.Float64() * 10}
		_, err := g.Add(p, i)
		require.NoError(t, err)
	}

	els, _, err := g.Nearest(vecd.Vec{5, 5}, 5)
	require.NoError(t, err)
	assert.Len(t, els, 5)
}

func TestNewValidation(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{1, 1})
	require.NoError(t, err)

	_, err = gug.New(0, box, 10, 1, 1.5, false)
	assert.ErrorIs(t, err, gug.ErrBadDim)

	_, err = gug.New(2, box, 0, 1, 1.5, false)
	assert.ErrorIs(t, err, gug.ErrBadInitialCells)

	_, err = gug.New(2, box, 10, 0, 1.5, false)
	assert.ErrorIs(t, err, gug.ErrBadMaxDensity)

	_, err = gug.New(2, box, 10, 1, 1.0, false)
	assert.ErrorIs(t, err, gug.ErrBadExpandRate)
}
