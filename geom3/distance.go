package geom3

import (
	"math"

	"github.com/golang/geo/r3"
)

// ClosestPointOnSegment returns the closest point to p on segment [a,b] and
// the parameter t in [0,1] such that the point equals a+t*(b-a). Used by
// sphere-capsule and point-to-segment predicates.
func ClosestPointOnSegment(p, a, b r3.Vector) (closest r3.Vector, t float64) {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-300 {
		return a, 0
	}
	t = p.Sub(a).Dot(ab) / denom
	t = clamp01(t)

	return a.Add(ab.Mul(t)), t
}

// DistPointSegment returns the distance from p to segment [a,b] and the
// witness point on the segment.
func DistPointSegment(p, a, b r3.Vector) (dist float64, witness r3.Vector) {
	witness, _ = ClosestPointOnSegment(p, a, b)

	return p.Sub(witness).Norm(), witness
}

// ClosestPointOnTriangle returns the closest point to p on triangle (a,b,c)
// using the standard Voronoi-region decomposition (Ericson, Real-Time
// Collision Detection §5.1.5): test the three vertex regions, the three
// edge regions, and the face region in turn.
func ClosestPointOnTriangle(p, a, b, c r3.Vector) r3.Vector {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a // vertex region a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b // vertex region b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v)) // edge ab
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c // vertex region c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w)) // edge ac
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w)) // edge bc
	}

	// Face region: barycentric (u,v,w).
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom

	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// DistPointTriangle returns the distance from p to triangle (a,b,c) and the
// witness point on the triangle.
func DistPointTriangle(p, a, b, c r3.Vector) (dist float64, witness r3.Vector) {
	witness = ClosestPointOnTriangle(p, a, b, c)

	return p.Sub(witness).Norm(), witness
}

// TriangleNormal returns the (non-unit) normal a->b cross a->c.
func TriangleNormal(a, b, c r3.Vector) r3.Vector {
	return b.Sub(a).Cross(c.Sub(a))
}

// TriangleArea2 returns twice the triangle's area (the norm of its normal).
func TriangleArea2(a, b, c r3.Vector) float64 {
	return TriangleNormal(a, b, c).Norm()
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
