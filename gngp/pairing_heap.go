package gngp

// errorHeap is a hand-rolled pairing heap ordering nodeIdx values by
// decreasing fixed-up error (max at top). container/heap cannot express
// this: lazy error decay needs arbitrary-key *increase*-key (a node's error
// only ever grows between fix-ups, since decay is folded in lazily at read
// time) in amortized O(log n), which a slice-backed binary heap only offers
// for decrease-key-by-rebuild at O(n). A pairing heap gives O(1) amortized
// meld/insert and O(log n) amortized delete-min (here: delete-max), with a
// cheap cut-and-meld fixup suiting keys that strictly increase between
// fix-ups.
//
// Each heap node caches its own "priority" value as recorded at the last
// fix-up; callers must call fixup after recomputing a
// node's true decayed error so the heap's ordering stays consistent: the
// heap holds every live node exactly once, with the maximum fixed-up error
// at the top.
type errorHeap struct {
	root *heapNode
	size int
}

type heapNode struct {
	id       nodeIdx
	priority float64

	child, sibling, parent *heapNode
}

func newErrorHeap() *errorHeap {
	return &errorHeap{}
}

func (h *errorHeap) Len() int { return h.size }

// meld merges two heaps, the higher-priority root winning (max-heap).
func meld(a, b *heapNode) *heapNode {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.priority < b.priority {
		a, b = b, a
	}
	// b becomes a's new leftmost child.
	b.parent = a
	b.sibling = a.child
	a.child = b
	a.sibling = nil
	a.parent = nil

	return a
}

// insert adds id with the given priority and returns the heapNode handle so
// the caller can later update it via fixup.
func (h *errorHeap) insert(id nodeIdx, priority float64) *heapNode {
	n := &heapNode{id: id, priority: priority}
	h.root = meld(h.root, n)
	h.size++

	return n
}

// max returns the id and priority of the top node without removing it.
func (h *errorHeap) max() (nodeIdx, float64, bool) {
	if h.root == nil {
		return nilNode, 0, false
	}

	return h.root.id, h.root.priority, true
}

// mergePairs implements the standard two-pass pairing-heap merge used by
// deleteMax to recombine a root's former children.
func mergePairs(first *heapNode) *heapNode {
	if first == nil {
		return nil
	}
	if first.sibling == nil {
		first.parent = nil

		return first
	}

	second := first.sibling
	rest := second.sibling
	first.sibling, second.sibling = nil, nil
	first.parent, second.parent = nil, nil

	return meld(meld(first, second), mergePairs(rest))
}

// deleteMax removes and returns the top node.
func (h *errorHeap) deleteMax() (nodeIdx, float64, bool) {
	if h.root == nil {
		return nilNode, 0, false
	}
	top := h.root
	h.root = mergePairs(top.child)
	h.size--

	return top.id, top.priority, true
}

// remove detaches n from the heap regardless of its position, used when a
// node is deleted outright (age-out, zero-degree) rather than re-prioritized.
func (h *errorHeap) remove(n *heapNode) {
	if n == h.root {
		h.deleteMax()

		return
	}

	h.detach(n)
	h.size--
	merged := mergePairs(n.child)
	h.root = meld(h.root, merged)
}

// detach splices n out of its parent's child list.
func (h *errorHeap) detach(n *heapNode) {
	parent := n.parent
	if parent == nil {
		return
	}
	if parent.child == n {
		parent.child = n.sibling
	} else {
		cur := parent.child
		for cur != nil && cur.sibling != n {
			cur = cur.sibling
		}
		if cur != nil {
			cur.sibling = n.sibling
		}
	}
	n.sibling = nil
	n.parent = nil
}

// fixup updates n's priority and restores heap order. An interior node is
// cut out and re-melded at the root, which covers both increase and
// decrease (pairing heaps have no cheaper decrease-key primitive than
// cut-and-meld for an interior node). A root increase is free, but a root
// decrease — a growth step scaling the popped max node's error by α — must
// sink the node, or it would sit above children whose keys now exceed its
// own.
func (h *errorHeap) fixup(n *heapNode, newPriority float64) {
	old := n.priority
	n.priority = newPriority
	if n == h.root {
		if newPriority >= old {
			return
		}
		merged := mergePairs(n.child)
		n.child = nil
		h.root = meld(merged, n)

		return
	}

	h.detach(n)
	merged := mergePairs(n.child)
	n.child = nil
	h.root = meld(h.root, n)
	h.root = meld(h.root, merged)
}
