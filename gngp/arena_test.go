package gngp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocFreeReuse(t *testing.T) {
	a := newArena()

	idx1, n1 := a.allocNode()
	n1.w = []float64{1, 2}

	idx2, _ := a.allocNode()
	assert.NotEqual(t, idx1.slot, idx2.slot)

	a.freeNode(idx1)

	idx3, _ := a.allocNode()
	assert.Equal(t, idx1.slot, idx3.slot, "freed slot should be reused")
	assert.NotEqual(t, idx1.gen, idx3.gen, "reused slot bumps generation")

	_, err := a.node(idx1)
	assert.ErrorIs(t, err, ErrStaleHandle)

	got, err := a.node(idx3)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestArenaEdgeAllocFree(t *testing.T) {
	a := newArena()
	na, _ := a.allocNode()
	nb, _ := a.allocNode()

	eidx, e := a.allocEdge(na, nb)
	assert.Equal(t, na, e.a)
	assert.Equal(t, nb, e.b)

	a.freeEdge(eidx)
	_, err := a.edge(eidx)
	assert.ErrorIs(t, err, ErrStaleHandle)
}

func TestNilHandlesAreInvalid(t *testing.T) {
	assert.False(t, nilNode.valid())
	assert.False(t, nilEdge.valid())
}
