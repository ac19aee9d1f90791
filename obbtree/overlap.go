package obbtree

import (
	"math"

	"github.com/golang/geo/r3"
)

// WorldOBB is an OBB expressed in a single shared (world, or a chosen
// reference) frame — the form the separating-axis test operates on.
type WorldOBB struct {
	Center      r3.Vector
	Axes        [3]r3.Vector
	HalfExtents r3.Vector
}

const satEps = 1e-9

// Overlap runs the standard 15-axis separating-axis test between two OBBs
// already expressed in the same frame. Returns
// false as soon as any candidate axis separates them.
func Overlap(a, b WorldOBB) bool {
	t := b.Center.Sub(a.Center)

	// Rotation matrix R: R[i][j] = a.Axes[i] . b.Axes[j]
	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a.Axes[i].Dot(b.Axes[j])
			absR[i][j] = math.Abs(r[i][j]) + satEps
		}
	}

	tA := [3]float64{t.Dot(a.Axes[0]), t.Dot(a.Axes[1]), t.Dot(a.Axes[2])}
	ea := [3]float64{a.HalfExtents.X, a.HalfExtents.Y, a.HalfExtents.Z}
	eb := [3]float64{b.HalfExtents.X, b.HalfExtents.Y, b.HalfExtents.Z}

	// L = A's axes (3 tests).
	for i := 0; i < 3; i++ {
		ra := ea[i]
		rb := eb[0]*absR[i][0] + eb[1]*absR[i][1] + eb[2]*absR[i][2]
		if math.Abs(tA[i]) > ra+rb {
			return false
		}
	}

	// L = B's axes (3 tests).
	for j := 0; j < 3; j++ {
		ra := ea[0]*absR[0][j] + ea[1]*absR[1][j] + ea[2]*absR[2][j]
		rb := eb[j]
		tProj := tA[0]*r[0][j] + tA[1]*r[1][j] + tA[2]*r[2][j]
		if math.Abs(tProj) > ra+rb {
			return false
		}
	}

	// L = cross products of each pair of axes (9 tests).
	cases := [9][2]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}
	for _, c := range cases {
		i, j := c[0], c[1]
		if !satCrossAxis(i, j, r, absR, tA, ea, eb) {
			return false
		}
	}

	return true
}

// satCrossAxis tests the separating axis L = Ai x Bj, following the
// standard Gottschalk/Eberly OBB-OBB derivation.
func satCrossAxis(i, j int, r, absR [3][3]float64, tA [3]float64, ea, eb [3]float64) bool {
	i1, i2 := (i+1)%3, (i+2)%3
	j1, j2 := (j+1)%3, (j+2)%3

	ra := ea[i1]*absR[i2][j] + ea[i2]*absR[i1][j]
	rb := eb[j1]*absR[i][j2] + eb[j2]*absR[i][j1]

	tProj := tA[i2]*r[i1][j] - tA[i1]*r[i2][j]

	return math.Abs(tProj) <= ra+rb
}

// WorldOf returns t's OBB expressed in the coordinate frame reached by
// applying the local-to-frame rotation rot and translation trans to t's
// local centre and axes (used to bring a Tree node's local-frame OBB into
// whatever shared frame Overlap/Traverse operate in).
func (t *Tree) WorldOf(rotate func(r3.Vector) r3.Vector, translate r3.Vector) WorldOBB {
	return WorldOBB{
		Center:      rotate(t.Center).Add(translate),
		Axes:        [3]r3.Vector{rotate(t.Axes[0]), rotate(t.Axes[1]), rotate(t.Axes[2])},
		HalfExtents: t.HalfExtents,
	}
}
