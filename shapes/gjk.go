package shapes

import (
	"math"

	"github.com/golang/geo/r3"
)

// GJK/EPA fallback used by the default dispatch arm: any convex pair that
// exposes a finite Support function can be tested (collide) and separated
// (contact direction + penetration depth) without a dedicated routine.
//
// The Minkowski difference A-B is sampled through both shapes' Support
// functions; GJK evolves a simplex toward the origin, EPA expands the
// terminal tetrahedron into a polytope whose closest face to the origin
// yields the minimum translation vector.

const (
	gjkMaxIters = 64
	epaMaxIters = 128
	epaTol      = 1e-9
)

// supportable reports whether s can participate in the GJK/EPA fallback.
// A plane has no finite support point, so plane pairs must be served by a
// dedicated table entry or the query degrades to "no collision".
func supportable(s Shape) bool {
	return s.Kind() != KindPlane
}

func minkowskiSupport(a, b Shape, dir r3.Vector) r3.Vector {
	return a.Support(dir).Sub(b.Support(dir.Mul(-1)))
}

// gjkIntersect runs GJK on the pair and, on intersection, returns the final
// simplex (up to 4 Minkowski points) for EPA to seed from.
func gjkIntersect(a, b Shape) (bool, []r3.Vector) {
	dir := b.Center().Sub(a.Center())
	if dir.Norm() < 1e-12 {
		dir = r3.Vector{X: 1}
	}

	simplex := []r3.Vector{minkowskiSupport(a, b, dir)}
	dir = simplex[0].Mul(-1)

	for iter := 0; iter < gjkMaxIters; iter++ {
		if dir.Norm() < 1e-14 {
			// Origin lies on the simplex boundary: touching contact.
			return true, simplex
		}
		p := minkowskiSupport(a, b, dir)
		if p.Dot(dir) < 0 {
			return false, nil
		}
		simplex = append(simplex, p)

		var contains bool
		simplex, dir, contains = evolveSimplex(simplex)
		if contains {
			return true, simplex
		}
	}

	return false, nil
}

// evolveSimplex reduces the simplex to the feature closest to the origin and
// returns the next search direction; contains is true once the origin is
// enclosed by a tetrahedron.
func evolveSimplex(s []r3.Vector) ([]r3.Vector, r3.Vector, bool) {
	switch len(s) {
	case 2:
		return lineCase(s)
	case 3:
		return triangleCase(s)
	default:
		return tetrahedronCase(s)
	}
}

func lineCase(s []r3.Vector) ([]r3.Vector, r3.Vector, bool) {
	a, b := s[1], s[0] // a is the most recently added point
	ab := b.Sub(a)
	ao := a.Mul(-1)
	if ab.Dot(ao) > 0 {
		return s, ab.Cross(ao).Cross(ab), false
	}

	return []r3.Vector{a}, ao, false
}

func triangleCase(s []r3.Vector) ([]r3.Vector, r3.Vector, bool) {
	a, b, c := s[2], s[1], s[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	abc := ab.Cross(ac)

	if abc.Cross(ac).Dot(ao) > 0 {
		if ac.Dot(ao) > 0 {
			return []r3.Vector{c, a}, ac.Cross(ao).Cross(ac), false
		}
		return lineCase([]r3.Vector{b, a})
	}
	if ab.Cross(abc).Dot(ao) > 0 {
		return lineCase([]r3.Vector{b, a})
	}
	if abc.Dot(ao) > 0 {
		return []r3.Vector{c, b, a}, abc, false
	}

	return []r3.Vector{b, c, a}, abc.Mul(-1), false
}

func tetrahedronCase(s []r3.Vector) ([]r3.Vector, r3.Vector, bool) {
	a, b, c, d := s[3], s[2], s[1], s[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	abc := ab.Cross(ac)
	acd := ac.Cross(ad)
	adb := ad.Cross(ab)

	if abc.Dot(ao) > 0 {
		return triangleCase([]r3.Vector{c, b, a})
	}
	if acd.Dot(ao) > 0 {
		return triangleCase([]r3.Vector{d, c, a})
	}
	if adb.Dot(ao) > 0 {
		return triangleCase([]r3.Vector{b, d, a})
	}

	return s, r3.Vector{}, true
}

type epaFace struct {
	a, b, c int
	normal  r3.Vector // unit, pointing away from the origin
	dist    float64   // distance of the face plane from the origin
}

// epaPenetration expands the GJK terminal simplex into a polytope and
// returns the minimum translation direction (from the first shape toward
// the second) and penetration depth.
func epaPenetration(a, b Shape, simplex []r3.Vector) (dir r3.Vector, depth float64, ok bool) {
	verts := padSimplex(a, b, simplex)
	if len(verts) < 4 {
		return r3.Vector{}, 0, false
	}

	faces := initialFaces(verts)
	if len(faces) == 0 {
		return r3.Vector{}, 0, false
	}

	for iter := 0; iter < epaMaxIters; iter++ {
		best := closestFace(faces)
		f := faces[best]

		p := minkowskiSupport(a, b, f.normal)
		grow := p.Dot(f.normal) - f.dist
		if grow < epaTol {
			return f.normal, f.dist, true
		}

		verts = append(verts, p)
		faces = expandPolytope(verts, faces, len(verts)-1)
		if len(faces) == 0 {
			return f.normal, f.dist, true
		}
	}

	best := closestFace(faces)

	return faces[best].normal, faces[best].dist, true
}

// padSimplex grows a degenerate (point/line/triangle) terminal simplex into
// a tetrahedron by probing supports along the coordinate axes.
func padSimplex(a, b Shape, simplex []r3.Vector) []r3.Vector {
	verts := append([]r3.Vector(nil), simplex...)
	probes := []r3.Vector{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	for _, d := range probes {
		if len(verts) >= 4 && !coplanar(verts) {
			break
		}
		p := minkowskiSupport(a, b, d)
		if !containsPoint(verts, p) {
			verts = append(verts, p)
		}
	}
	if coplanar(verts) {
		return nil
	}

	return verts[:4]
}

func containsPoint(verts []r3.Vector, p r3.Vector) bool {
	for _, v := range verts {
		if v.Sub(p).Norm() < 1e-12 {
			return true
		}
	}

	return false
}

func coplanar(verts []r3.Vector) bool {
	if len(verts) < 4 {
		return true
	}
	n := verts[1].Sub(verts[0]).Cross(verts[2].Sub(verts[0]))

	return math.Abs(n.Dot(verts[3].Sub(verts[0]))) < 1e-12
}

func initialFaces(verts []r3.Vector) []epaFace {
	idx := [4][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2}}
	faces := make([]epaFace, 0, 4)
	for _, f := range idx {
		if face, ok := makeFace(verts, f[0], f[1], f[2]); ok {
			faces = append(faces, face)
		}
	}

	return faces
}

// makeFace orients the face normal away from the polytope interior, using
// the origin-side test (the polytope contains the origin throughout EPA).
func makeFace(verts []r3.Vector, a, b, c int) (epaFace, bool) {
	n := verts[b].Sub(verts[a]).Cross(verts[c].Sub(verts[a]))
	ln := n.Norm()
	if ln < 1e-14 {
		return epaFace{}, false
	}
	n = n.Mul(1 / ln)
	d := n.Dot(verts[a])
	if d < 0 {
		n = n.Mul(-1)
		d = -d
		a, c = c, a
	}

	return epaFace{a: a, b: b, c: c, normal: n, dist: d}, true
}

func closestFace(faces []epaFace) int {
	best, bestDist := 0, math.Inf(1)
	for i, f := range faces {
		if f.dist < bestDist {
			best, bestDist = i, f.dist
		}
	}

	return best
}

// expandPolytope removes every face visible from the new vertex and
// re-triangulates the horizon edge loop against it.
func expandPolytope(verts []r3.Vector, faces []epaFace, newIdx int) []epaFace {
	p := verts[newIdx]
	kept := faces[:0]
	type edge struct{ a, b int }
	edgeCount := map[edge]int{}

	for _, f := range faces {
		if f.normal.Dot(p.Sub(verts[f.a])) > 0 {
			// Visible: its edges may lie on the horizon.
			for _, e := range [3]edge{{f.a, f.b}, {f.b, f.c}, {f.c, f.a}} {
				key := e
				if key.a > key.b {
					key.a, key.b = key.b, key.a
				}
				edgeCount[key]++
			}
			continue
		}
		kept = append(kept, f)
	}

	// Horizon edges are those shared by exactly one removed face.
	for e, n := range edgeCount {
		if n != 1 {
			continue
		}
		if face, ok := makeFace(verts, e.a, e.b, newIdx); ok {
			kept = append(kept, face)
		}
	}

	return kept
}
