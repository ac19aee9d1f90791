package gug

import (
	"container/heap"
	"sort"

	"github.com/fermat-boruvka/gngp/vecd"
)

type candidate struct {
	el    *Element
	dist2 float64
}

// candHeap is a bounded max-heap ordered by squared distance: the root
// (index 0) is always the current worst of the retained candidates, so a
// single Pop-then-Push evicts it in O(log k) when a better candidate arrives.
type candHeap []candidate

func (h candHeap) Len() int            { return len(h) }
func (h candHeap) Less(i, j int) bool  { return h[i].dist2 > h[j].dist2 }
func (h candHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}

// Nearest returns up to k elements nearest q, sorted ascending by squared
// distance, together with their squared distances. In exact mode the result
// is guaranteed to be the true k nearest registered elements; in
// approximate mode the search stops as soon as the candidate
// heap fills, which may return a good-but-not-guaranteed-optimal set.
func (g *Grid) Nearest(q vecd.Vec, k int) ([]*Element, []float64, error) {
	if len(q) != g.dim {
		return nil, nil, ErrDimMismatch
	}
	if k <= 0 {
		return nil, nil, ErrBadK
	}

	h := make(candHeap, 0, k)
	center := g.cellIndex(q)

	minEdge := g.cellEdge[0]
	for _, e := range g.cellEdge {
		if e < minEdge {
			minEdge = e
		}
	}

	maxRadius := 0
	for i, c := range g.cellCounts {
		far := center[i]
		if c-1-center[i] > far {
			far = c - 1 - center[i]
		}
		if far > maxRadius {
			maxRadius = far
		}
	}

	for r := 0; r <= maxRadius; r++ {
		for _, flat := range g.shellCells(center, r) {
			for el := g.cells[flat]; el != nil; el = el.next {
				d2, err := vecd.Dist2(q, el.pos)
				if err != nil {
					return nil, nil, err
				}
				if h.Len() < k {
					heap.Push(&h, candidate{el: el, dist2: d2})
				} else if d2 < h[0].dist2 {
					heap.Pop(&h)
					heap.Push(&h, candidate{el: el, dist2: d2})
				}
			}
		}

		if h.Len() < k {
			continue
		}
		if g.approx {
			break
		}
		border := float64(r) * minEdge
		if h[0].dist2 < border*border {
			break
		}
	}

	items := make([]candidate, len(h))
	copy(items, h)
	sort.Slice(items, func(i, j int) bool { return items[i].dist2 < items[j].dist2 })

	els := make([]*Element, len(items))
	dists := make([]float64, len(items))
	for i, it := range items {
		els[i] = it.el
		dists[i] = it.dist2
	}

	return els, dists, nil
}

// shellCells returns the flat cell indices at Chebyshev radius r around
// center, clipped to the grid's bounds. d=2 uses a specialised perimeter
// walk; general d recurses, pinning one axis' offset per call.
func (g *Grid) shellCells(center []int, r int) []int {
	if g.dim == 2 {
		return g.shellCells2D(center, r)
	}

	return g.shellCellsND(center, r)
}

func (g *Grid) shellCells2D(center []int, r int) []int {
	cx, cy := center[0], center[1]
	if r == 0 {
		return []int{g.flatten([]int{cx, cy})}
	}

	var out []int
	add := func(x, y int) {
		if x < 0 || x >= g.cellCounts[0] || y < 0 || y >= g.cellCounts[1] {
			return
		}
		out = append(out, g.flatten([]int{x, y}))
	}
	for x := cx - r; x <= cx+r; x++ {
		add(x, cy-r)
		add(x, cy+r)
	}
	for y := cy - r + 1; y <= cy+r-1; y++ {
		add(cx-r, y)
		add(cx+r, y)
	}

	return out
}

func (g *Grid) shellCellsND(center []int, r int) []int {
	if r == 0 {
		return []int{g.flatten(center)}
	}

	seen := make(map[int]bool)
	var out []int
	offset := make([]int, g.dim)

	var recurse func(axis int)
	recurse = func(axis int) {
		if axis == g.dim {
			maxAbs := 0
			for _, o := range offset {
				if o < 0 {
					o = -o
				}
				if o > maxAbs {
					maxAbs = o
				}
			}
			if maxAbs != r {
				return
			}
			idx := make([]int, g.dim)
			for i := 0; i < g.dim; i++ {
				c := center[i] + offset[i]
				if c < 0 || c >= g.cellCounts[i] {
					return
				}
				idx[i] = c
			}
			flat := g.flatten(idx)
			if !seen[flat] {
				seen[flat] = true
				out = append(out, flat)
			}
			return
		}
		for o := -r; o <= r; o++ {
			offset[axis] = o
			recurse(axis + 1)
		}
	}
	recurse(0)

	return out
}
