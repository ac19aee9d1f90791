package gngp

import (
	"math"

	"github.com/fermat-boruvka/gngp/vecd"
)

// classGrid is the cell-classification grid: a dense array over the same
// AABB as the GUG, storing a three-state label per cell. It is intentionally
// not a *gug.Grid — a gug.Grid exists to answer "nearest", which this
// structure never needs; it only needs O(1) cell lookup and a small
// per-cell tally of live node labels so the merge rule can be recomputed
// whenever a node enters, leaves, or re-labels a cell.
type classGrid struct {
	box        vecd.AABB
	cellCounts []int
	cellEdge   vecd.Vec
	cells      []cellTally
}

type cellTally struct {
	free, obst, unknown int
}

func newClassGrid(box vecd.AABB, cellsPerAxis int) *classGrid {
	d := box.Dim()
	counts := make([]int, d)
	edge := make(vecd.Vec, d)
	flat := 1
	for i := 0; i < d; i++ {
		counts[i] = cellsPerAxis
		edge[i] = box.Extent(i) / float64(cellsPerAxis)
		flat *= cellsPerAxis
	}

	return &classGrid{
		box:        box,
		cellCounts: counts,
		cellEdge:   edge,
		cells:      make([]cellTally, flat),
	}
}

// cellOf quantizes p into a flat cell index (same scheme as gug.cellIndex).
func (g *classGrid) cellOf(p vecd.Vec) int {
	flat := 0
	for i := range g.cellCounts {
		edge := g.cellEdge[i]
		c := 0
		if edge > 0 {
			c = int((p[i] - g.box.Min[i]) / edge)
		}
		if c < 0 {
			c = 0
		}
		if c >= g.cellCounts[i] {
			c = g.cellCounts[i] - 1
		}
		flat = flat*g.cellCounts[i] + c
	}

	return flat
}

// enter records that a node labelled lbl has entered cell, and returns the
// cell's resulting merged label.
func (g *classGrid) enter(cell int, lbl cellLabel) cellLabel {
	t := &g.cells[cell]
	switch lbl {
	case labelFree:
		t.free++
	case labelObst:
		t.obst++
	default:
		t.unknown++
	}

	return t.merged()
}

// leave undoes a prior enter for the same (cell, lbl) pair, called when a
// node moves out of cell or is deleted.
func (g *classGrid) leave(cell int, lbl cellLabel) cellLabel {
	t := &g.cells[cell]
	switch lbl {
	case labelFree:
		if t.free > 0 {
			t.free--
		}
	case labelObst:
		if t.obst > 0 {
			t.obst--
		}
	default:
		if t.unknown > 0 {
			t.unknown--
		}
	}

	return t.merged()
}

func (t cellTally) merged() cellLabel {
	if t.free == 0 && t.obst == 0 && t.unknown == 0 {
		return labelUnknown
	}
	if t.obst > 0 && t.free == 0 && t.unknown == 0 {
		return labelObst
	}
	if t.free > 0 {
		return labelFree
	}
	if t.obst > 0 {
		return labelObst
	}

	return labelUnknown
}

// Label returns the merged label currently stored for the cell containing p.
func (g *classGrid) Label(p vecd.Vec) cellLabel {
	return g.cells[g.cellOf(p)].merged()
}

// cellsPerAxisFromDensity picks a reasonable per-axis cell count for the
// classification grid from the GUG's own initial cell count, so the two
// grids start at comparable resolution without the classification grid
// needing its own max-density/rehash policy (it never grows: unlike the
// GUG, false precision here only costs memory, not correctness, since the
// merge rule is still exact per-cell at whatever resolution is chosen).
func cellsPerAxisFromDensity(initialCells, dim int) int {
	perAxis := int(math.Ceil(math.Pow(float64(initialCells), 1.0/float64(dim))))
	if perAxis < 1 {
		perAxis = 1
	}

	return perAxis
}
