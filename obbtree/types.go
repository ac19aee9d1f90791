package obbtree

import "github.com/golang/geo/r3"

// FitMode selects how a merged OBB's axes are derived from its contained
// points.
type FitMode int

const (
	// FitCovariance fits axes from the eigenvectors of the point covariance.
	FitCovariance FitMode = iota
	// FitNaive searches NaiveSamples candidate rotations about each axis and
	// keeps the one with smallest resulting volume.
	FitNaive
)

// PairOrder selects the tree construction strategy.
type PairOrder int

const (
	// PairBottomUp repeatedly merges the two nearest-centroid leaves/subtrees
	// until one root remains.
	PairBottomUp PairOrder = iota
	// PairTopDown recursively splits the leaf set by the largest-extent axis
	// median, descending until singleton leaves remain.
	PairTopDown
)

// BuildFlags configures Build.
type BuildFlags struct {
	FitMode      FitMode
	PairOrder    PairOrder
	Threads      int // > 1 enables parallel sibling subtree construction
	NaiveSamples int // rotation samples for FitNaive; 0 defaults to 5
}

// DefaultBuildFlags returns the default build configuration.
func DefaultBuildFlags() BuildFlags {
	return BuildFlags{FitMode: FitCovariance, PairOrder: PairBottomUp, Threads: 1, NaiveSamples: 5}
}

// Tree is one node of an OBB hierarchy: either a Leaf wrapping one shape
// index, or an Internal node with two children. Center,
// Axes, and HalfExtents are expressed in the owning geom's local frame.
type Tree struct {
	Center      r3.Vector
	Axes        [3]r3.Vector // orthonormal, local frame
	HalfExtents r3.Vector

	leaf       bool
	shapeIndex int

	Left, Right *Tree
}

// IsLeaf reports whether t wraps a single shape.
func (t *Tree) IsLeaf() bool { return t.leaf }

// ShapeIndex returns the wrapped shape's index; valid only if IsLeaf.
func (t *Tree) ShapeIndex() int { return t.shapeIndex }

// Volume returns 8*he.X*he.Y*he.Z, used to pick the larger-volume side
// during pairwise traversal.
func (t *Tree) Volume() float64 {
	return 8 * t.HalfExtents.X * t.HalfExtents.Y * t.HalfExtents.Z
}

// corners returns the 8 world-frame... here local-frame corner points of t's
// box, used as the point cloud fed to the parent fit during bottom-up/
// top-down merge.
func (t *Tree) corners() []r3.Vector {
	out := make([]r3.Vector, 0, 8)
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				offset := t.Axes[0].Mul(sx * t.HalfExtents.X).
					Add(t.Axes[1].Mul(sy * t.HalfExtents.Y)).
					Add(t.Axes[2].Mul(sz * t.HalfExtents.Z))
				out = append(out, t.Center.Add(offset))
			}
		}
	}

	return out
}

// LeafSeed is one shape's contribution to Build: either a triangle (fit via
// the dedicated longest-edge/normal/completion-axis rule) or a generic point
// cloud (fit via FitMode).
type LeafSeed struct {
	ShapeIndex int
	IsTriangle bool
	TriVerts   [3]r3.Vector
	Points     []r3.Vector // ignored if IsTriangle
}
