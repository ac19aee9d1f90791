package gug

import "github.com/fermat-boruvka/gngp/vecd"

// Element is a handle to a single registered point. Callers obtain one from
// Add and may pass it to Remove/Update; the handle's address is stable
// across rehashing.
type Element struct {
	pos  vecd.Vec
	cell int // flat index into the owning grid's cells slice
	data any // caller payload, opaque to gug

	prev, next *Element // intrusive doubly-linked cell list
}

// Pos returns the element's current registered position. The returned Vec
// must not be mutated; call Update after moving the underlying payload.
func (e *Element) Pos() vecd.Vec { return e.pos }

// Data returns the opaque payload supplied at Add time.
func (e *Element) Data() any { return e.data }

// Grid is a Generalised Uniform Grid spatial index over ℝᵈ.
type Grid struct {
	dim        int
	box        vecd.AABB
	cellCounts []int // per-axis cell count
	cellEdge   vecd.Vec
	cells      []*Element // flat array of cell-list heads, row-major
	approx     bool
	maxDensity float64
	expandRate float64

	n int // total registered elements
}

// New builds a Grid over box with initialCells total cells (apportioned
// evenly across axes), rehashing to roughly expandRate*cellCount cells
// whenever stored/cellCount exceeds maxDensity. approx selects approximate
// k-NN termination (stop once the heap fills) over exact termination (stop
// once the border-distance rule is satisfied).
func New(dim int, box vecd.AABB, initialCells int, maxDensity, expandRate float64, approx bool) (*Grid, error) {
	if dim <= 0 {
		return nil, ErrBadDim
	}
	if box.Dim() != dim {
		return nil, ErrDimMismatch
	}
	if initialCells <= 0 {
		return nil, ErrBadInitialCells
	}
	if maxDensity <= 0 {
		return nil, ErrBadMaxDensity
	}
	if expandRate <= 1 {
		return nil, ErrBadExpandRate
	}

	g := &Grid{
		dim:        dim,
		box:        box,
		approx:     approx,
		maxDensity: maxDensity,
		expandRate: expandRate,
	}
	g.reshape(initialCells)

	return g, nil
}

// Len returns the number of currently registered elements.
func (g *Grid) Len() int { return g.n }

// Dim returns the grid's dimension.
func (g *Grid) Dim() int { return g.dim }
