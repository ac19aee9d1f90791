package gngp

import (
	"github.com/fermat-boruvka/gngp/gug"
	"github.com/fermat-boruvka/gngp/vecd"
)

// cellLabel is the three-state classification stored per AABB cell, also
// cached per node as its own last evaluation.
type cellLabel int

const (
	labelUnknown cellLabel = iota
	labelFree
	labelObst
)

// nodeIdx is a generation-tagged handle into the node arena.
type nodeIdx struct {
	slot uint32
	gen  uint32
}

// edgeIdx is the edge-arena equivalent of nodeIdx.
type edgeIdx struct {
	slot uint32
	gen  uint32
}

const invalidSlot = ^uint32(0)

var nilNode = nodeIdx{slot: invalidSlot}
var nilEdge = edgeIdx{slot: invalidSlot}

func (n nodeIdx) valid() bool { return n.slot != invalidSlot }
func (e edgeIdx) valid() bool { return e.slot != invalidSlot }

// node is one GNG-P node.
type node struct {
	gen  uint32
	live bool

	w   vecd.Vec
	err float64
	// errCycle is the adaptation-step count at which err was last "fixed up"
	// (had its pending lazy β-decay applied); see betaTable.decayedAt.
	errCycle uint64

	label cellLabel
	cell  int // flat index into the classification grid

	gugHandle *gug.Element // nil once removed from the spatial index

	edges []edgeIdx // incident edges, order irrelevant

	hn *heapNode // this node's entry in the planner's error heap, nil if absent
}

// edge is one GNG-P edge: at most one edge exists
// between any pair of nodes, enforced by the planner, not the arena.
type edge struct {
	gen  uint32
	live bool

	a, b nodeIdx
	age  int
}

// arena owns the node and edge slot storage for one Planner. Free slots are
// tracked on simple freelists and reused, bumping the slot's generation so
// any previously issued nodeIdx/edgeIdx pointing at it becomes stale.
type arena struct {
	nodes    []node
	nodeFree []uint32
	edges    []edge
	edgeFree []uint32
}

func newArena() *arena {
	return &arena{}
}

// allocNode reserves a node slot and returns its handle. The caller must
// finish populating the returned *node before it is visible to any other
// arena operation (single-threaded planner, so this is safe).
func (a *arena) allocNode() (nodeIdx, *node) {
	var slot uint32
	if n := len(a.nodeFree); n > 0 {
		slot = a.nodeFree[n-1]
		a.nodeFree = a.nodeFree[:n-1]
		a.nodes[slot].live = true
		a.nodes[slot].gen++
	} else {
		slot = uint32(len(a.nodes))
		a.nodes = append(a.nodes, node{gen: 1, live: true})
	}
	a.nodes[slot].hn = nil
	a.nodes[slot].edges = a.nodes[slot].edges[:0]

	return nodeIdx{slot: slot, gen: a.nodes[slot].gen}, &a.nodes[slot]
}

// node resolves idx to its *node, returning ErrStaleHandle if idx no longer
// names a live slot at the expected generation.
func (a *arena) node(idx nodeIdx) (*node, error) {
	if !idx.valid() || int(idx.slot) >= len(a.nodes) {
		return nil, ErrStaleHandle
	}
	n := &a.nodes[idx.slot]
	if !n.live || n.gen != idx.gen {
		return nil, ErrStaleHandle
	}

	return n, nil
}

// freeNode releases idx's slot back to the freelist. Callers must have
// already detached every incident edge.
func (a *arena) freeNode(idx nodeIdx) {
	if int(idx.slot) >= len(a.nodes) {
		return
	}
	n := &a.nodes[idx.slot]
	if !n.live || n.gen != idx.gen {
		return
	}
	n.live = false
	n.w = nil
	n.edges = nil
	n.gugHandle = nil
	a.nodeFree = append(a.nodeFree, idx.slot)
}

func (a *arena) allocEdge(x, y nodeIdx) (edgeIdx, *edge) {
	var slot uint32
	if n := len(a.edgeFree); n > 0 {
		slot = a.edgeFree[n-1]
		a.edgeFree = a.edgeFree[:n-1]
		a.edges[slot].live = true
		a.edges[slot].gen++
	} else {
		slot = uint32(len(a.edges))
		a.edges = append(a.edges, edge{gen: 1, live: true})
	}
	a.edges[slot].a = x
	a.edges[slot].b = y
	a.edges[slot].age = 0

	return edgeIdx{slot: slot, gen: a.edges[slot].gen}, &a.edges[slot]
}

func (a *arena) edge(idx edgeIdx) (*edge, error) {
	if !idx.valid() || int(idx.slot) >= len(a.edges) {
		return nil, ErrStaleHandle
	}
	e := &a.edges[idx.slot]
	if !e.live || e.gen != idx.gen {
		return nil, ErrStaleHandle
	}

	return e, nil
}

func (a *arena) freeEdge(idx edgeIdx) {
	if int(idx.slot) >= len(a.edges) {
		return
	}
	e := &a.edges[idx.slot]
	if !e.live || e.gen != idx.gen {
		return
	}
	e.live = false
	a.edgeFree = append(a.edgeFree, idx.slot)
}
