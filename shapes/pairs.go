package shapes

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/fermat-boruvka/gngp/geom3"
)

// Dedicated collide/separate routines for the pairs the dispatch table
// serves directly. Every separate function reports directions pointing from
// its first operand toward its second; the dispatcher flips them when an
// entry is used with swapped operands.

func collideSphereSphere(a, b Shape) bool {
	s1, s2 := a.(*Sphere), b.(*Sphere)

	return s2.C.Sub(s1.C).Norm() <= s1.Radius+s2.Radius
}

func separateSphereSphere(a, b Shape, out *Contacts) error {
	s1, s2 := a.(*Sphere), b.(*Sphere)
	d := s2.C.Sub(s1.C)
	dist := d.Norm()
	depth := s1.Radius + s2.Radius - dist
	if depth < 0 {
		return nil
	}

	dir := r3.Vector{X: 1}
	if dist > 1e-12 {
		dir = d.Mul(1 / dist)
	}
	pos := s1.C.Add(dir.Mul(s1.Radius - depth/2))
	out.add(pos, dir, depth)

	return nil
}

// closestPointOnBox returns the point of box bx closest to p, plus whether p
// lies strictly inside the box.
func closestPointOnBox(p r3.Vector, bx *Box) (r3.Vector, bool) {
	d := p.Sub(bx.C)
	q := bx.C
	inside := true
	for i, ax := range bx.Axes {
		he := component(bx.HalfExtents, i)
		proj := d.Dot(ax)
		if proj > he {
			proj, inside = he, false
		} else if proj < -he {
			proj, inside = -he, false
		}
		q = q.Add(ax.Mul(proj))
	}

	return q, inside
}

func collideSphereBox(a, b Shape) bool {
	s, bx := a.(*Sphere), b.(*Box)
	q, inside := closestPointOnBox(s.C, bx)

	return inside || q.Sub(s.C).Norm() <= s.Radius
}

func separateSphereBox(a, b Shape, out *Contacts) error {
	s, bx := a.(*Sphere), b.(*Box)
	q, inside := closestPointOnBox(s.C, bx)

	if !inside {
		gap := q.Sub(s.C)
		dist := gap.Norm()
		depth := s.Radius - dist
		if depth < 0 {
			return nil
		}
		if dist > 1e-12 {
			out.add(q, gap.Mul(1/dist), depth)
			return nil
		}
		// Centre sits exactly on the surface: fall through to face logic.
	}

	// Centre inside the box: exit through the nearest face. The box moves
	// opposite the face's outward normal to free the sphere.
	d := s.C.Sub(bx.C)
	bestAxis, bestPen, bestSign := 0, math.Inf(1), 1.0
	for i, ax := range bx.Axes {
		he := component(bx.HalfExtents, i)
		proj := d.Dot(ax)
		sign := 1.0
		if proj < 0 {
			sign = -1.0
		}
		if pen := he - math.Abs(proj); pen < bestPen {
			bestAxis, bestPen, bestSign = i, pen, sign
		}
	}
	n := bx.Axes[bestAxis].Mul(bestSign)
	out.add(s.C.Add(n.Mul(bestPen)), n.Mul(-1), bestPen+s.Radius)

	return nil
}

func collideSphereCapsule(a, b Shape) bool {
	s, c := a.(*Sphere), b.(*Capsule)
	dist, _ := geom3.DistPointSegment(s.C, c.A, c.B)

	return dist <= s.Radius+c.Radius
}

func separateSphereCapsule(a, b Shape, out *Contacts) error {
	s, c := a.(*Sphere), b.(*Capsule)
	dist, w := geom3.DistPointSegment(s.C, c.A, c.B)
	depth := s.Radius + c.Radius - dist
	if depth < 0 {
		return nil
	}

	dir := r3.Vector{X: 1}
	if dist > 1e-12 {
		dir = w.Sub(s.C).Mul(1 / dist)
	}
	out.add(s.C.Add(dir.Mul(s.Radius-depth/2)), dir, depth)

	return nil
}

func collideSphereTriangle(a, b Shape) bool {
	s, t := a.(*Sphere), b.(*Triangle)
	dist, _ := geom3.DistPointTriangle(s.C, t.A, t.B, t.C)

	return dist <= s.Radius
}

func separateSphereTriangle(a, b Shape, out *Contacts) error {
	s, t := a.(*Sphere), b.(*Triangle)
	dist, w := geom3.DistPointTriangle(s.C, t.A, t.B, t.C)
	depth := s.Radius - dist
	if depth < 0 {
		return nil
	}

	var dir r3.Vector
	if dist > 1e-12 {
		dir = w.Sub(s.C).Mul(1 / dist)
	} else {
		dir = geom3.TriangleNormal(t.A, t.B, t.C).Normalize()
	}
	out.add(w, dir, depth)

	return nil
}

func collideBoxBox(a, b Shape) bool {
	b1, b2 := a.(*Box), b.(*Box)
	o1 := worldOBBOfBox(b1)
	o2 := worldOBBOfBox(b2)

	return obbOverlap(o1, o2)
}

// separateBoxBox defers to the generic GJK/EPA path after the cheap SAT
// rejection, since SAT alone yields no contact manifold.
func separateBoxBox(a, b Shape, out *Contacts) error {
	if !collideBoxBox(a, b) {
		return nil
	}

	return defaultSeparate(a, b, out)
}

// planeSignedDistance returns the signed distance of p from the plane, > 0
// on the normal side.
func planeSignedDistance(pl *Plane, p r3.Vector) float64 {
	return pl.Normal.Dot(p) - pl.Offset
}

func collidePlaneAny(a, b Shape) bool {
	pl := a.(*Plane)
	deepest := b.Support(pl.Normal.Mul(-1))

	return planeSignedDistance(pl, deepest) <= 0
}

func separatePlaneSphere(a, b Shape, out *Contacts) error {
	pl, s := a.(*Plane), b.(*Sphere)
	sd := planeSignedDistance(pl, s.C)
	depth := s.Radius - sd
	if depth < 0 {
		return nil
	}
	out.add(s.C.Sub(pl.Normal.Mul(sd)), pl.Normal, depth)

	return nil
}

// planeContactPoints adds one contact per penetrating point, pushing the
// second shape out along the plane normal.
func planeContactPoints(pl *Plane, points []r3.Vector, out *Contacts) {
	for _, p := range points {
		if sd := planeSignedDistance(pl, p); sd <= 0 {
			out.add(p.Sub(pl.Normal.Mul(sd)), pl.Normal, -sd)
		}
	}
}

func separatePlaneBox(a, b Shape, out *Contacts) error {
	pl, bx := a.(*Plane), b.(*Box)
	planeContactPoints(pl, bx.corners(), out)

	return nil
}

func separatePlaneCapsule(a, b Shape, out *Contacts) error {
	pl, c := a.(*Plane), b.(*Capsule)
	for _, e := range [2]r3.Vector{c.A, c.B} {
		if sd := planeSignedDistance(pl, e); sd <= c.Radius {
			out.add(e.Sub(pl.Normal.Mul(sd)), pl.Normal, c.Radius-sd)
		}
	}

	return nil
}

func separatePlaneCylinder(a, b Shape, out *Contacts) error {
	pl, c := a.(*Plane), b.(*Cylinder)
	axis := c.B.Sub(c.A).Normalize()
	radial := pl.Normal.Sub(axis.Mul(pl.Normal.Dot(axis)))
	for _, e := range [2]r3.Vector{c.A, c.B} {
		rim := e
		if radial.Norm() > 1e-12 {
			rim = e.Sub(radial.Normalize().Mul(c.Radius))
		}
		if sd := planeSignedDistance(pl, rim); sd <= 0 {
			out.add(rim.Sub(pl.Normal.Mul(sd)), pl.Normal, -sd)
		}
	}

	return nil
}

func separatePlaneTriangle(a, b Shape, out *Contacts) error {
	pl, t := a.(*Plane), b.(*Triangle)
	planeContactPoints(pl, []r3.Vector{t.A, t.B, t.C}, out)

	return nil
}

func collideTriTri(a, b Shape) bool {
	t1, t2 := a.(*Triangle), b.(*Triangle)
	overlap, _, _ := geom3.TriTriOverlap(t1.A, t1.B, t1.C, t2.A, t2.B, t2.C)

	return overlap
}

// separateTriTri extracts the shared intersection segment and reports its
// endpoints as the contact pair.
func separateTriTri(a, b Shape, out *Contacts) error {
	t1, t2 := a.(*Triangle), b.(*Triangle)
	overlap, segA, segB := geom3.TriTriOverlap(t1.A, t1.B, t1.C, t2.A, t2.B, t2.C)
	if !overlap {
		return nil
	}

	dir := geom3.TriangleNormal(t1.A, t1.B, t1.C).Normalize()
	if dir.Dot(t2.Center().Sub(t1.Center())) < 0 {
		dir = dir.Mul(-1)
	}

	// Depth: how far the second triangle extends behind the first one's
	// plane, against the reported direction.
	dA := dir.Dot(t1.A)
	depth := 0.0
	for _, v := range [3]r3.Vector{t2.A, t2.B, t2.C} {
		if pen := dA - dir.Dot(v); pen > depth {
			depth = pen
		}
	}

	out.add(segA, dir, depth)
	out.add(segB, dir, depth)

	return nil
}

func worldOBBOfBox(b *Box) boxFrame {
	return boxFrame{center: b.C, axes: b.Axes, he: b.HalfExtents}
}

// boxFrame and obbOverlap mirror the OBB-tree separating-axis test locally
// so the narrow phase carries no dependency on tree internals.
type boxFrame struct {
	center r3.Vector
	axes   [3]r3.Vector
	he     r3.Vector
}

const satEps = 1e-9

func obbOverlap(a, b boxFrame) bool {
	t := b.center.Sub(a.center)

	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a.axes[i].Dot(b.axes[j])
			absR[i][j] = math.Abs(r[i][j]) + satEps
		}
	}

	tA := [3]float64{t.Dot(a.axes[0]), t.Dot(a.axes[1]), t.Dot(a.axes[2])}
	ea := [3]float64{a.he.X, a.he.Y, a.he.Z}
	eb := [3]float64{b.he.X, b.he.Y, b.he.Z}

	for i := 0; i < 3; i++ {
		ra := ea[i]
		rb := eb[0]*absR[i][0] + eb[1]*absR[i][1] + eb[2]*absR[i][2]
		if math.Abs(tA[i]) > ra+rb {
			return false
		}
	}
	for j := 0; j < 3; j++ {
		ra := ea[0]*absR[0][j] + ea[1]*absR[1][j] + ea[2]*absR[2][j]
		rb := eb[j]
		tProj := tA[0]*r[0][j] + tA[1]*r[1][j] + tA[2]*r[2][j]
		if math.Abs(tProj) > ra+rb {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			i1, i2 := (i+1)%3, (i+2)%3
			j1, j2 := (j+1)%3, (j+2)%3
			ra := ea[i1]*absR[i2][j] + ea[i2]*absR[i1][j]
			rb := eb[j1]*absR[i][j2] + eb[j2]*absR[i][j1]
			tProj := tA[i2]*r[i1][j] - tA[i1]*r[i2][j]
			if math.Abs(tProj) > ra+rb {
				return false
			}
		}
	}

	return true
}
