package geom3

import (
	"math"

	"github.com/golang/geo/r3"
)

// TriTriOverlap implements a Guigue-Devillers-style triangle-triangle
// overlap predicate: each triangle's plane is used to compute signed distances of
// the other triangle's vertices; if one triangle doesn't straddle the
// other's plane, they cannot intersect. Otherwise the two triangles'
// intersection with the common line of their two planes is reduced to two
// intervals, and overlap holds iff those intervals overlap. Intervals that
// only touch also count as overlapping, so a reported overlap may have a
// zero-length intersection segment.
//
// Returns overlap, and (when overlap is true) the two endpoints of the
// shared segment (degenerate to a point when the intervals touch at a
// single value).
func TriTriOverlap(a0, a1, a2, b0, b1, b2 r3.Vector) (overlap bool, segA, segB r3.Vector) {
	nA := TriangleNormal(a0, a1, a2)
	if nA.Norm() < 1e-300 {
		return false, r3.Vector{}, r3.Vector{}
	}
	dA := -nA.Dot(a0)
	distB0 := nA.Dot(b0) + dA
	distB1 := nA.Dot(b1) + dA
	distB2 := nA.Dot(b2) + dA
	if sameSign(distB0, distB1, distB2) {
		return false, r3.Vector{}, r3.Vector{}
	}

	nB := TriangleNormal(b0, b1, b2)
	if nB.Norm() < 1e-300 {
		return false, r3.Vector{}, r3.Vector{}
	}
	dB := -nB.Dot(b0)
	distA0 := nB.Dot(a0) + dB
	distA1 := nB.Dot(a1) + dB
	distA2 := nB.Dot(a2) + dB
	if sameSign(distA0, distA1, distA2) {
		return false, r3.Vector{}, r3.Vector{}
	}

	// Direction of the line common to both planes.
	dLine := nA.Cross(nB)
	if dLine.Norm() < 1e-300 {
		// Coplanar: fall back to a 2-D overlap test projected onto the
		// dominant axis of nA.
		return triTriCoplanar(a0, a1, a2, b0, b1, b2, nA)
	}

	// Project each triangle's vertices onto the common line and compute the
	// interval of the triangle's intersection with the line, using the
	// signed plane distances already computed as interpolation weights.
	pA0, pA1, pA2 := dLine.Dot(a0), dLine.Dot(a1), dLine.Dot(a2)
	lowA, highA, okA := triInterval(pA0, pA1, pA2, distA0, distA1, distA2)
	if !okA {
		return false, r3.Vector{}, r3.Vector{}
	}
	pB0, pB1, pB2 := dLine.Dot(b0), dLine.Dot(b1), dLine.Dot(b2)
	lowB, highB, okB := triInterval(pB0, pB1, pB2, distB0, distB1, distB2)
	if !okB {
		return false, r3.Vector{}, r3.Vector{}
	}

	if lowA > highB || lowB > highA {
		return false, r3.Vector{}, r3.Vector{}
	}

	start := math.Max(lowA, lowB)
	end := math.Min(highA, highB)

	// Solve for the point on the common line closest to the origin: the
	// 3x3 system [nA; nB; dLine]·X = [-dA; -dB; 0] pins X to the
	// intersection of both planes along the direction orthogonal to the
	// line itself, i.e. a valid reference point P0 on the line.
	sys := Mat3{
		{nA.X, nA.Y, nA.Z},
		{nB.X, nB.Y, nB.Z},
		{dLine.X, dLine.Y, dLine.Z},
	}
	rhs := r3.Vector{X: -dA, Y: -dB, Z: 0}
	p0, ok := solve3x3(sys, rhs)
	if !ok {
		return false, r3.Vector{}, r3.Vector{}
	}

	// lowA/highA/lowB/highB were computed from raw p_i = dLine.Dot(vertex);
	// convert those into actual displacement-along-dLine parameters t such
	// that point = p0 + t*dLine, by subtracting dLine.Dot(p0) and dividing
	// by |dLine|^2. The affine shift/scale is common to both triangles, so
	// it does not affect the overlap comparison above, only this
	// reconstruction.
	dLen2 := dLine.Dot(dLine)
	origin := dLine.Dot(p0)
	tStart := (start - origin) / dLen2
	tEnd := (end - origin) / dLen2
	segA = p0.Add(dLine.Mul(tStart))
	segB = p0.Add(dLine.Mul(tEnd))

	return true, segA, segB
}

// solve3x3 solves m*x = rhs via Cramer's rule.
func solve3x3(m Mat3, rhs r3.Vector) (r3.Vector, bool) {
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if math.Abs(det) < 1e-300 {
		return r3.Vector{}, false
	}

	replaceCol := func(col int, v r3.Vector) Mat3 {
		out := m
		out[0][col], out[1][col], out[2][col] = v.X, v.Y, v.Z

		return out
	}
	det3 := func(mm Mat3) float64 {
		return mm[0][0]*(mm[1][1]*mm[2][2]-mm[1][2]*mm[2][1]) -
			mm[0][1]*(mm[1][0]*mm[2][2]-mm[1][2]*mm[2][0]) +
			mm[0][2]*(mm[1][0]*mm[2][1]-mm[1][1]*mm[2][0])
	}

	x := det3(replaceCol(0, rhs)) / det
	y := det3(replaceCol(1, rhs)) / det
	z := det3(replaceCol(2, rhs)) / det

	return r3.Vector{X: x, Y: y, Z: z}, true
}

func sameSign(a, b, c float64) bool {
	const eps = 1e-12
	pos := 0
	neg := 0
	for _, v := range []float64{a, b, c} {
		if v > eps {
			pos++
		} else if v < -eps {
			neg++
		}
	}

	return pos == 3 || neg == 3
}

// triInterval computes, for a triangle whose vertices have line-projections
// p0,p1,p2 and plane signed-distances d0,d1,d2 (where d gives the side of
// the other triangle's plane), the interval [low,high] of intersection
// between this triangle and the common line, by linear interpolation
// between the vertex that lies alone on one side and the two on the other.
func triInterval(p0, p1, p2, d0, d1, d2 float64) (low, high float64, ok bool) {
	// Identify the vertex whose sign differs from the other two.
	type pv struct{ p, d float64 }
	vs := [3]pv{{p0, d0}, {p1, d1}, {p2, d2}}

	signOf := func(d float64) int {
		switch {
		case d > 1e-12:
			return 1
		case d < -1e-12:
			return -1
		default:
			return 0
		}
	}

	s0, s1, s2 := signOf(d0), signOf(d1), signOf(d2)
	var lone int
	switch {
	case s0 != s1 && s0 != s2:
		lone = 0
	case s1 != s0 && s1 != s2:
		lone = 1
	case s2 != s0 && s2 != s1:
		lone = 2
	default:
		// all on the same side after the caller's sameSign filter should
		// not happen, but guard defensively.
		return 0, 0, false
	}

	other := [2]pv{}
	idx := 0
	for i := 0; i < 3; i++ {
		if i != lone {
			other[idx] = vs[i]
			idx++
		}
	}
	loneV := vs[lone]

	t0 := loneV.d / (loneV.d - other[0].d)
	i0 := loneV.p + t0*(other[0].p-loneV.p)
	t1 := loneV.d / (loneV.d - other[1].d)
	i1 := loneV.p + t1*(other[1].p-loneV.p)

	if i0 > i1 {
		i0, i1 = i1, i0
	}

	return i0, i1, true
}

// triTriCoplanar handles the coplanar special case by projecting both
// triangles onto the two axes orthogonal to the shared normal and running a
// 2-D segment/point containment test. Coplanar triangles are treated as
// overlapping if any edge pair crosses or one triangle contains a vertex of
// the other; no 3-D witness segment is computed here, so the returned
// points are simply the first vertex of each triangle (a0 and b0).
func triTriCoplanar(a0, a1, a2, b0, b1, b2, normal r3.Vector) (bool, r3.Vector, r3.Vector) {
	u, v := orthonormalBasis(normal)
	proj := func(p r3.Vector) [2]float64 { return [2]float64{p.Dot(u), p.Dot(v)} }

	pa := [3][2]float64{proj(a0), proj(a1), proj(a2)}
	pb := [3][2]float64{proj(b0), proj(b1), proj(b2)}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if segSeg2D(pa[i], pa[(i+1)%3], pb[j], pb[(j+1)%3]) {
				return true, a0, b0
			}
		}
	}
	if pointInTri2D(pa[0], pb) || pointInTri2D(pb[0], pa) {
		return true, a0, b0
	}

	return false, r3.Vector{}, r3.Vector{}
}

func orthonormalBasis(n r3.Vector) (u, v r3.Vector) {
	n = n.Normalize()
	ref := r3.Vector{X: 1}
	if math.Abs(n.X) > 0.9 {
		ref = r3.Vector{Y: 1}
	}
	u = n.Cross(ref).Normalize()
	v = n.Cross(u)

	return u, v
}

func segSeg2D(a, b, c, d [2]float64) bool {
	d1 := cross2(sub2(d, c), sub2(a, c))
	d2 := cross2(sub2(d, c), sub2(b, c))
	d3 := cross2(sub2(b, a), sub2(c, a))
	d4 := cross2(sub2(b, a), sub2(d, a))

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func pointInTri2D(p [2]float64, tri [3][2]float64) bool {
	sign := func(p1, p2, p3 [2]float64) float64 {
		return (p1[0]-p3[0])*(p2[1]-p3[1]) - (p2[0]-p3[0])*(p1[1]-p3[1])
	}
	d1 := sign(p, tri[0], tri[1])
	d2 := sign(p, tri[1], tri[2])
	d3 := sign(p, tri[2], tri[0])
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0

	return !(hasNeg && hasPos)
}

func sub2(a, b [2]float64) [2]float64 { return [2]float64{a[0] - b[0], a[1] - b[1]} }
func cross2(a, b [2]float64) float64  { return a[0]*b[1] - a[1]*b[0] }
