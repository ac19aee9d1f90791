package obbtree

import (
	"context"
	"sort"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"
)

// BuildResult carries the tree along with bookkeeping the caller may want to
// surface.
type BuildResult struct {
	Root    *Tree
	Skipped int
}

// Build merges seeds into a single OBB tree per flags. Degenerate seeds (collinear triangle or empty point
// cloud) are skipped and counted rather than failing the whole build.
func Build(seeds []LeafSeed, flags BuildFlags) (*BuildResult, error) {
	if len(seeds) == 0 {
		return nil, ErrEmptyLeafSet
	}
	if flags.Threads < 0 {
		return nil, ErrBadThreadCount
	}

	leaves := make([]*Tree, 0, len(seeds))
	skipped := 0
	for _, s := range seeds {
		leaf, err := fitLeaf(s, flags)
		if err != nil {
			skipped++
			continue
		}
		leaves = append(leaves, leaf)
	}
	if len(leaves) == 0 {
		return nil, ErrEmptyLeafSet
	}

	var root *Tree
	if flags.PairOrder == PairTopDown {
		root = buildTopDown(leaves, flags)
	} else {
		root = buildBottomUp(leaves, flags)
	}

	return &BuildResult{Root: root, Skipped: skipped}, nil
}

func fitLeaf(s LeafSeed, flags BuildFlags) (*Tree, error) {
	var leaf *Tree
	var err error
	if s.IsTriangle {
		leaf, err = fitTriangle(s.TriVerts[0], s.TriVerts[1], s.TriVerts[2])
	} else {
		leaf, err = fitPoints(s.Points, flags)
	}
	if err != nil {
		return nil, err
	}
	leaf.leaf = true
	leaf.shapeIndex = s.ShapeIndex

	return leaf, nil
}

// mergeFit fits a parent OBB over the corner points of its two children.
func mergeFit(left, right *Tree, flags BuildFlags) (*Tree, error) {
	points := append(left.corners(), right.corners()...)
	parent, err := fitPoints(points, flags)
	if err != nil {
		return nil, err
	}
	parent.Left, parent.Right = left, right

	return parent, nil
}

// buildBottomUp repeatedly merges the two nearest-centroid nodes until one
// root remains.
func buildBottomUp(leaves []*Tree, flags BuildFlags) *Tree {
	live := make([]*Tree, len(leaves))
	copy(live, leaves)

	for len(live) > 1 {
		bi, bj := 0, 1
		best := live[0].Center.Sub(live[1].Center).Norm2()
		for i := 0; i < len(live); i++ {
			for j := i + 1; j < len(live); j++ {
				d := live[i].Center.Sub(live[j].Center).Norm2()
				if d < best {
					best = d
					bi, bj = i, j
				}
			}
		}

		merged, err := mergeFit(live[bi], live[bj], flags)
		if err != nil {
			// Degenerate corner set should never happen (8+8 non-collinear
			// points), but fall back to an axis-aligned box over both rather
			// than propagating an error from a best-effort merge step.
			merged = fallbackMerge(live[bi], live[bj])
		}

		// Remove bj first (higher index) then bi, then append merged.
		live = append(live[:bj], live[bj+1:]...)
		live = append(live[:bi], live[bi+1:]...)
		live = append(live, merged)
	}

	return live[0]
}

// buildTopDown recursively splits the leaf set along the axis of greatest
// extent (by centroid spread), descending until singleton leaves remain.
// Sibling subtrees are built concurrently when flags.Threads > 1.
func buildTopDown(leaves []*Tree, flags BuildFlags) *Tree {
	if len(leaves) == 1 {
		return leaves[0]
	}

	axis := splitAxis(leaves)
	sorted := make([]*Tree, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(i, j int) bool {
		return component(sorted[i].Center, axis) < component(sorted[j].Center, axis)
	})

	mid := len(sorted) / 2
	leftLeaves, rightLeaves := sorted[:mid], sorted[mid:]

	var left, right *Tree
	if flags.Threads > 1 {
		g, _ := errgroup.WithContext(context.Background())
		g.Go(func() error {
			left = buildTopDown(leftLeaves, flags)
			return nil
		})
		g.Go(func() error {
			right = buildTopDown(rightLeaves, flags)
			return nil
		})
		_ = g.Wait()
	} else {
		left = buildTopDown(leftLeaves, flags)
		right = buildTopDown(rightLeaves, flags)
	}

	merged, err := mergeFit(left, right, flags)
	if err != nil {
		merged = fallbackMerge(left, right)
	}

	return merged
}

func splitAxis(leaves []*Tree) int {
	min := r3.Vector{X: 1e300, Y: 1e300, Z: 1e300}
	max := r3.Vector{X: -1e300, Y: -1e300, Z: -1e300}
	for _, l := range leaves {
		c := l.Center
		min = r3.Vector{X: minf(min.X, c.X), Y: minf(min.Y, c.Y), Z: minf(min.Z, c.Z)}
		max = r3.Vector{X: maxf(max.X, c.X), Y: maxf(max.Y, c.Y), Z: maxf(max.Z, c.Z)}
	}
	spread := max.Sub(min)
	if spread.X >= spread.Y && spread.X >= spread.Z {
		return 0
	}
	if spread.Y >= spread.Z {
		return 1
	}

	return 2
}

func component(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// fallbackMerge builds a world-axis-aligned box spanning both children's
// corners, used only if mergeFit's point-cloud fit degenerates (near-zero
// extent on every axis).
func fallbackMerge(left, right *Tree) *Tree {
	points := append(left.corners(), right.corners()...)
	axes := [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
	parent := fitAxesToPoints(axes, points)
	parent.Left, parent.Right = left, right

	return parent
}
