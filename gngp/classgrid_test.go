package gngp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermat-boruvka/gngp/vecd"
)

func testBox2D(t *testing.T) vecd.AABB {
	t.Helper()
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{10, 10})
	require.NoError(t, err)

	return box
}

func TestClassGridMergeRuleFreeBeatsUnknown(t *testing.T) {
	g := newClassGrid(testBox2D(t), 4)
	cell := g.cellOf(vecd.Vec{1, 1})

	got := g.enter(cell, labelUnknown)
	assert.Equal(t, labelUnknown, got)

	got = g.enter(cell, labelFree)
	assert.Equal(t, labelFree, got)
}

func TestClassGridMergeRuleObstOnlyWhenUnanimous(t *testing.T) {
	g := newClassGrid(testBox2D(t), 4)
	cell := g.cellOf(vecd.Vec{1, 1})

	g.enter(cell, labelObst)
	got := g.enter(cell, labelObst)
	assert.Equal(t, labelObst, got)

	got = g.enter(cell, labelFree)
	assert.Equal(t, labelFree, got, "a single FREE node must override unanimous OBST")
}

func TestClassGridLeaveRestoresMerge(t *testing.T) {
	g := newClassGrid(testBox2D(t), 4)
	cell := g.cellOf(vecd.Vec{1, 1})

	g.enter(cell, labelObst)
	g.enter(cell, labelFree)
	g.leave(cell, labelFree)

	assert.Equal(t, labelObst, g.cells[cell].merged())
}

func TestClassGridEmptyCellIsUnknown(t *testing.T) {
	g := newClassGrid(testBox2D(t), 4)
	assert.Equal(t, labelUnknown, g.Label(vecd.Vec{9, 9}))
}
