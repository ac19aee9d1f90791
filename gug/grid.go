package gug

import (
	"math"

	"github.com/fermat-boruvka/gngp/vecd"
)

// reshape (re)builds the cell-count/cell-edge layout with ceil(totalCells^(1/d))
// cells on every axis, so the grid holds at least totalCells cells (exactly
// totalCells only when it is a perfect d-th power), without touching any
// registered elements; it is
// called both at construction and during rehash (where the caller reinserts
// every element afterward).
func (g *Grid) reshape(totalCells int) {
	perAxis := int(math.Ceil(math.Pow(float64(totalCells), 1.0/float64(g.dim))))
	if perAxis < 1 {
		perAxis = 1
	}
	g.cellCounts = make([]int, g.dim)
	g.cellEdge = make(vecd.Vec, g.dim)
	flat := 1
	for i := 0; i < g.dim; i++ {
		g.cellCounts[i] = perAxis
		g.cellEdge[i] = g.box.Extent(i) / float64(perAxis)
		flat *= perAxis
	}
	g.cells = make([]*Element, flat)
}

// cellIndex quantizes a position into per-axis cell coordinates, clamped
// into [0, cellCounts[i]-1].
func (g *Grid) cellIndex(p vecd.Vec) []int {
	idx := make([]int, g.dim)
	for i := 0; i < g.dim; i++ {
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
		idx[i] = c
	}

	return idx
}

// flatten converts per-axis cell coordinates into a flat row-major index.
func (g *Grid) flatten(idx []int) int {
	flat := 0
	for i := 0; i < g.dim; i++ {
		flat = flat*g.cellCounts[i] + idx[i]
	}

	return flat
}

// Add registers a new element at pos carrying the opaque payload data, and
// returns a stable handle to it. O(1) amortised; may trigger a rehash when
// the resulting density exceeds maxDensity.
func (g *Grid) Add(pos vecd.Vec, data any) (*Element, error) {
	if len(pos) != g.dim {
		return nil, ErrDimMismatch
	}
	if !g.box.Contains(pos) {
		return nil, ErrOutOfBounds
	}

	el := &Element{pos: pos.Clone(), data: data}
	g.link(el)
	g.n++

	if float64(g.n)/float64(len(g.cells)) > g.maxDensity {
		g.rehash()
	}

	return el, nil
}

// link inserts el into the head of its cell's list and sets el.cell.
func (g *Grid) link(el *Element) {
	idx := g.cellIndex(el.pos)
	flat := g.flatten(idx)
	el.cell = flat

	head := g.cells[flat]
	el.prev = nil
	el.next = head
	if head != nil {
		head.prev = el
	}
	g.cells[flat] = el
}

// unlink removes el from its current cell's list without touching n.
func (g *Grid) unlink(el *Element) {
	if el.prev != nil {
		el.prev.next = el.next
	} else {
		g.cells[el.cell] = el.next
	}
	if el.next != nil {
		el.next.prev = el.prev
	}
	el.prev, el.next = nil, nil
}

// Remove deregisters el. O(1).
func (g *Grid) Remove(el *Element) error {
	if el == nil {
		return ErrUnknownElement
	}
	g.unlink(el)
	g.n--

	return nil
}

// Update moves el to newPos, equivalent to Remove followed by Add but
// reusing the same handle.
func (g *Grid) Update(el *Element, newPos vecd.Vec) error {
	if el == nil {
		return ErrUnknownElement
	}
	if len(newPos) != g.dim {
		return ErrDimMismatch
	}
	if !g.box.Contains(newPos) {
		return ErrOutOfBounds
	}

	g.unlink(el)
	el.pos = newPos.Clone()
	g.link(el)

	return nil
}

// rehash rebuilds the grid via reshape(ceil(expandRate*cellCount)), which
// rounds the per-axis count up, and reinserts every currently registered element by spatial position. Element
// handles are preserved: callers holding a *Element see no change other than
// Pos() continuing to report the correct position.
func (g *Grid) rehash() {
	oldCells := g.cells
	newTotal := int(math.Ceil(g.expandRate * float64(len(oldCells))))
	if newTotal < 1 {
		newTotal = 1
	}
	g.reshape(newTotal)

	for _, head := range oldCells {
		for el := head; el != nil; {
			next := el.next
			el.prev, el.next = nil, nil
			g.link(el)
			el = next
		}
	}
}
