package gngp

import (
	"container/heap"
	"math"

	"github.com/fermat-boruvka/gngp/vecd"
)

// extractPath runs Dijkstra over the current GNG-P network to find a path
// from the configured start to goal, connecting each to its MaxNeighbors
// closest reachable network nodes first.
// Returns ErrNoPath if no such path currently exists.
func (p *Planner) extractPath() ([]vecd.Vec, error) {
	startLinks := p.candidateLinks(p.params.Start)
	goalLinks := p.candidateLinks(p.params.Goal)
	if len(startLinks) == 0 || len(goalLinks) == 0 {
		return nil, ErrNoPath
	}

	dist := make(map[nodeIdx]float64, len(p.ar.nodes))
	prev := make(map[nodeIdx]nodeIdx, len(p.ar.nodes))
	visited := make(map[nodeIdx]bool, len(p.ar.nodes))

	pq := &distHeap{}
	heap.Init(pq)

	for _, l := range startLinks {
		if d, ok := dist[l.idx]; !ok || l.dist < d {
			dist[l.idx] = l.dist
			prev[l.idx] = nilNode
			heap.Push(pq, distEntry{idx: l.idx, dist: l.dist})
		}
	}

	goalSet := make(map[nodeIdx]float64, len(goalLinks))
	for _, l := range goalLinks {
		goalSet[l.idx] = l.dist
	}

	// The search stops at the first goal-linked node popped; the final
	// node-to-goal hop is not folded into the frontier priority, so the
	// result is a valid free path, not necessarily the globally shortest
	// one.
	var reached nodeIdx
	found := false

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(distEntry)
		if visited[cur.idx] {
			continue
		}
		visited[cur.idx] = true

		if _, ok := goalSet[cur.idx]; ok {
			reached = cur.idx
			found = true

			break
		}

		n, err := p.ar.node(cur.idx)
		if err != nil {
			continue
		}
		for _, nb := range p.neighbors(cur.idx) {
			if visited[nb] {
				continue
			}
			nn, err := p.ar.node(nb)
			if err != nil {
				continue
			}
			// A node may have drifted into an obstacle since its last
			// evaluation; re-check before routing through it.
			if !p.ops.Eval(nn.w) {
				continue
			}
			d2, err := vecd.Dist2(n.w, nn.w)
			if err != nil {
				continue
			}
			cost := cur.dist + math.Sqrt(d2)
			if existing, ok := dist[nb]; !ok || cost < existing {
				dist[nb] = cost
				prev[nb] = cur.idx
				heap.Push(pq, distEntry{idx: nb, dist: cost})
			}
		}
	}

	if !found {
		return nil, ErrNoPath
	}

	var chain []nodeIdx
	cur := reached
	for cur.valid() {
		chain = append([]nodeIdx{cur}, chain...)
		cur = prev[cur]
	}

	out := make([]vecd.Vec, 0, len(chain)+2)
	out = append(out, p.params.Start.Clone())
	for _, idx := range chain {
		n, err := p.ar.node(idx)
		if err != nil {
			continue
		}
		out = append(out, n.w.Clone())
	}
	out = append(out, p.params.Goal.Clone())

	return out, nil
}

type link struct {
	idx  nodeIdx
	dist float64
}

// candidateLinks finds the MaxNeighbors closest live network nodes to p that
// pass the free-path predicate, used to splice a virtual start/goal point
// into the graph for Dijkstra. MaxDist, when positive, caps how far such a
// link may reach.
func (p *Planner) candidateLinks(w vecd.Vec) []link {
	els, d2s, err := p.nearest(w, p.params.MaxNeighbors)
	if err != nil {
		return nil
	}

	maxD2 := math.Inf(1)
	if p.params.MaxDist > 0 {
		maxD2 = p.params.MaxDist * p.params.MaxDist
	}

	out := make([]link, 0, len(els))
	for i, el := range els {
		idx, ok := el.Data().(nodeIdx)
		if !ok {
			continue
		}
		if d2s[i] > maxD2 {
			continue
		}
		n, err := p.ar.node(idx)
		if err != nil {
			continue
		}
		if !p.freePath(w, n.w) {
			continue
		}
		out = append(out, link{idx: idx, dist: math.Sqrt(d2s[i])})
	}

	return out
}

// freePath reports whether the straight segment a-b can be treated as
// collision-free, via the user's Operations.FindPath if supplied, otherwise
// by sampling cell classification along the segment.
func (p *Planner) freePath(a, b vecd.Vec) bool {
	if p.ops.FindPath != nil {
		return p.ops.FindPath(a, b)
	}

	const samples = 8
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		pt, err := vecd.Lerp(a, b, t)
		if err != nil {
			return false
		}
		if p.class.Label(pt) == labelObst {
			return false
		}
	}

	return true
}

// distEntry is one entry in the Dijkstra frontier priority queue.
type distEntry struct {
	idx  nodeIdx
	dist float64
}

type distHeap []distEntry

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x interface{}) { *h = append(*h, x.(distEntry)) }
func (h *distHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
