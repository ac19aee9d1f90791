package obbtree

import (
	"github.com/golang/geo/r3"

	"github.com/fermat-boruvka/gngp/geom3"
)

// LeafPair is one leaf-leaf overlap reported by Traverse.
type LeafPair struct {
	ShapeA, ShapeB int
}

// Traverse walks two OBB trees in lockstep, descending only into branches
// whose boxes actually overlap and always recursing into the larger-volume
// side first. relB carries B's frame relative to A's: every one of B's
// local boxes is transformed through relB before the overlap test, so the
// comparison always happens in A's frame. report is called once per
// surviving leaf-leaf pair; if it returns false, traversal stops
// immediately (the "cut" sentinel, e.g. once the caller only needed one hit).
func Traverse(a, b *Tree, relB geom3.Pose, report func(LeafPair) bool) {
	traverse(a, b, relB, report)
}

func traverse(a, b *Tree, relB geom3.Pose, report func(LeafPair) bool) bool {
	if a == nil || b == nil {
		return true
	}

	aWorld := WorldOBB{Center: a.Center, Axes: a.Axes, HalfExtents: a.HalfExtents}
	bWorld := worldViaPose(b, relB)
	if !Overlap(aWorld, bWorld) {
		return true
	}

	if a.IsLeaf() && b.IsLeaf() {
		return report(LeafPair{ShapeA: a.ShapeIndex(), ShapeB: b.ShapeIndex()})
	}

	// Descend into the larger-volume side first so that, for a deeply
	// imbalanced pair (one mesh, one small probe), the many-leaf side
	// narrows down before the few-leaf side fans out.
	if a.IsLeaf() || (!b.IsLeaf() && b.Volume() >= a.Volume()) {
		if !traverse(a, b.Left, relB, report) {
			return false
		}
		return traverse(a, b.Right, relB, report)
	}

	if !traverse(a.Left, b, relB, report) {
		return false
	}
	return traverse(a.Right, b, relB, report)
}

// worldViaPose expresses t's local box in A's frame via relB (B's pose
// relative to A).
func worldViaPose(t *Tree, relB geom3.Pose) WorldOBB {
	center := relB.Apply(t.Center)
	axes := [3]r3.Vector{
		relB.ApplyVector(t.Axes[0]),
		relB.ApplyVector(t.Axes[1]),
		relB.ApplyVector(t.Axes[2]),
	}

	return WorldOBB{Center: center, Axes: axes, HalfExtents: t.HalfExtents}
}
