package gngp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHeapMaxOrdering(t *testing.T) {
	h := newErrorHeap()
	h.insert(nodeIdx{slot: 1}, 5)
	h.insert(nodeIdx{slot: 2}, 9)
	h.insert(nodeIdx{slot: 3}, 1)

	id, pri, ok := h.max()
	require.True(t, ok)
	assert.Equal(t, uint32(2), id.slot)
	assert.Equal(t, 9.0, pri)
}

func TestErrorHeapDeleteMaxDrainsInOrder(t *testing.T) {
	h := newErrorHeap()
	priorities := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	for i, p := range priorities {
		h.insert(nodeIdx{slot: uint32(i)}, p)
	}

	var drained []float64
	for h.Len() > 0 {
		_, pri, ok := h.deleteMax()
		require.True(t, ok)
		drained = append(drained, pri)
	}

	for i := 1; i < len(drained); i++ {
		assert.GreaterOrEqual(t, drained[i-1], drained[i])
	}
}

func TestErrorHeapFixupReordersOnIncrease(t *testing.T) {
	h := newErrorHeap()
	n1 := h.insert(nodeIdx{slot: 1}, 1)
	h.insert(nodeIdx{slot: 2}, 2)

	h.fixup(n1, 100)

	id, pri, ok := h.max()
	require.True(t, ok)
	assert.Equal(t, uint32(1), id.slot)
	assert.Equal(t, 100.0, pri)
}

func TestErrorHeapFixupSinksRootOnDecrease(t *testing.T) {
	h := newErrorHeap()
	top := h.insert(nodeIdx{slot: 1}, 10)
	h.insert(nodeIdx{slot: 2}, 8)
	h.insert(nodeIdx{slot: 3}, 6)

	// Lowering the current max below its children must surface the next
	// highest node, the way a growth step's alpha-scaling of the popped
	// winner does.
	h.fixup(top, 1)

	id, pri, ok := h.max()
	require.True(t, ok)
	assert.Equal(t, uint32(2), id.slot)
	assert.Equal(t, 8.0, pri)

	var drained []float64
	for h.Len() > 0 {
		_, p, ok := h.deleteMax()
		require.True(t, ok)
		drained = append(drained, p)
	}
	assert.Equal(t, []float64{8, 6, 1}, drained)
}

func TestErrorHeapRandomizedFixupAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := newErrorHeap()
	handles := make([]*heapNode, 0, 200)
	prios := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		p := rng.Float64() * 100
		handles = append(handles, h.insert(nodeIdx{slot: uint32(i)}, p))
		prios = append(prios, p)
	}

	// Random mix of increases and decreases, root included.
	for i := 0; i < 500; i++ {
		j := rng.Intn(len(handles))
		p := rng.Float64() * 100
		h.fixup(handles[j], p)
		prios[j] = p
	}

	var got []float64
	for h.Len() > 0 {
		_, p, ok := h.deleteMax()
		require.True(t, ok)
		got = append(got, p)
	}
	require.Len(t, got, len(prios))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1], got[i])
	}
}

func TestErrorHeapRemoveInterior(t *testing.T) {
	h := newErrorHeap()
	h.insert(nodeIdx{slot: 1}, 10)
	n2 := h.insert(nodeIdx{slot: 2}, 5)
	h.insert(nodeIdx{slot: 3}, 7)

	h.remove(n2)
	assert.Equal(t, 2, h.Len())

	id, _, ok := h.max()
	require.True(t, ok)
	assert.Equal(t, uint32(1), id.slot)
}

func TestErrorHeapRandomizedAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	h := newErrorHeap()
	var want []float64
	for i := 0; i < 500; i++ {
		p := rng.Float64() * 1000
		h.insert(nodeIdx{slot: uint32(i)}, p)
		want = append(want, p)
	}

	var got []float64
	for h.Len() > 0 {
		_, pri, ok := h.deleteMax()
		require.True(t, ok)
		got = append(got, pri)
	}

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1], got[i])
	}
	assert.Len(t, got, len(want))
}
