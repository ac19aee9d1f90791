package shapes

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/fermat-boruvka/gngp/geom3"
	"github.com/fermat-boruvka/gngp/obbtree"
)

// Kind tags a Shape's concrete type for dispatch-table lookup.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindCapsule
	KindCylinder
	KindPlane
	KindTriangle
	KindTriMesh
	KindOffset
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindCapsule:
		return "capsule"
	case KindCylinder:
		return "cylinder"
	case KindPlane:
		return "plane"
	case KindTriangle:
		return "triangle"
	case KindTriMesh:
		return "trimesh"
	case KindOffset:
		return "offset"
	default:
		return "unknown"
	}
}

// Shape is the capability set every collision primitive exposes: a type
// tag, a support function, a centre, OBB leaf seeds, and per-axis extents.
type Shape interface {
	Kind() Kind
	// Support returns the point of the shape farthest along dir, used by the
	// generic GJK/EPA fallback.
	Support(dir r3.Vector) r3.Vector
	Center() r3.Vector
	// LeafSeeds returns one or more OBB-tree leaf seeds covering the shape's
	// extent, consumed by obbtree.Build when a geom rebuilds its OBB roots.
	LeafSeeds(shapeIndex int) []obbtree.LeafSeed
	// AxisProjection returns [min,max] of the shape's extent along world axis
	// (0=X,1=Y,2=Z), used by the SAP broad-phase.
	AxisProjection(axis int) (min, max float64)
}

// Sphere is a ball of the given radius centred at Center.
type Sphere struct {
	C      r3.Vector
	Radius float64
}

// NewSphere validates Radius > 0.
func NewSphere(center r3.Vector, radius float64) (*Sphere, error) {
	if radius <= 0 {
		return nil, ErrDegenerateShape
	}
	return &Sphere{C: center, Radius: radius}, nil
}

func (s *Sphere) Kind() Kind        { return KindSphere }
func (s *Sphere) Center() r3.Vector { return s.C }
func (s *Sphere) Support(dir r3.Vector) r3.Vector {
	if dir.Norm() < 1e-300 {
		return s.C
	}
	return s.C.Add(dir.Normalize().Mul(s.Radius))
}
func (s *Sphere) LeafSeeds(idx int) []obbtree.LeafSeed {
	r := s.Radius
	pts := make([]r3.Vector, 0, 8)
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				pts = append(pts, s.C.Add(r3.Vector{X: sx * r, Y: sy * r, Z: sz * r}))
			}
		}
	}
	return []obbtree.LeafSeed{{ShapeIndex: idx, Points: pts}}
}
func (s *Sphere) AxisProjection(axis int) (float64, float64) {
	c := component(s.C, axis)
	return c - s.Radius, c + s.Radius
}

// Box is an oriented box in local frame, expressed by its own centre, axes,
// and half-extents (independent of any owning geom's OBB roots).
type Box struct {
	C           r3.Vector
	Axes        [3]r3.Vector
	HalfExtents r3.Vector
}

func NewBox(center r3.Vector, axes [3]r3.Vector, halfExtents r3.Vector) (*Box, error) {
	if halfExtents.X <= 0 || halfExtents.Y <= 0 || halfExtents.Z <= 0 {
		return nil, ErrDegenerateShape
	}
	return &Box{C: center, Axes: axes, HalfExtents: halfExtents}, nil
}

func (b *Box) Kind() Kind        { return KindBox }
func (b *Box) Center() r3.Vector { return b.C }
func (b *Box) Support(dir r3.Vector) r3.Vector {
	p := b.C
	for i, ax := range b.Axes {
		sign := 1.0
		if ax.Dot(dir) < 0 {
			sign = -1.0
		}
		p = p.Add(ax.Mul(sign * component(b.HalfExtents, i)))
	}
	return p
}
func (b *Box) LeafSeeds(idx int) []obbtree.LeafSeed {
	return []obbtree.LeafSeed{{ShapeIndex: idx, Points: b.corners()}}
}
func (b *Box) corners() []r3.Vector {
	out := make([]r3.Vector, 0, 8)
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				offset := b.Axes[0].Mul(sx * b.HalfExtents.X).
					Add(b.Axes[1].Mul(sy * b.HalfExtents.Y)).
					Add(b.Axes[2].Mul(sz * b.HalfExtents.Z))
				out = append(out, b.C.Add(offset))
			}
		}
	}
	return out
}
func (b *Box) AxisProjection(axis int) (float64, float64) {
	return projectPoints(b.corners(), axis)
}

// Capsule is a sphere-swept segment from A to B with the given radius.
type Capsule struct {
	A, B   r3.Vector
	Radius float64
}

func NewCapsule(a, b r3.Vector, radius float64) (*Capsule, error) {
	if radius <= 0 {
		return nil, ErrDegenerateShape
	}
	return &Capsule{A: a, B: b, Radius: radius}, nil
}

func (c *Capsule) Kind() Kind        { return KindCapsule }
func (c *Capsule) Center() r3.Vector { return c.A.Add(c.B).Mul(0.5) }
func (c *Capsule) Support(dir r3.Vector) r3.Vector {
	base := c.A
	if dir.Dot(c.B.Sub(c.A)) > 0 {
		base = c.B
	}
	if dir.Norm() < 1e-300 {
		return base
	}
	return base.Add(dir.Normalize().Mul(c.Radius))
}
func (c *Capsule) LeafSeeds(idx int) []obbtree.LeafSeed {
	r := c.Radius
	pts := make([]r3.Vector, 0, 16)
	for _, p := range [2]r3.Vector{c.A, c.B} {
		for _, sx := range [2]float64{-1, 1} {
			for _, sy := range [2]float64{-1, 1} {
				for _, sz := range [2]float64{-1, 1} {
					pts = append(pts, p.Add(r3.Vector{X: sx * r, Y: sy * r, Z: sz * r}))
				}
			}
		}
	}
	return []obbtree.LeafSeed{{ShapeIndex: idx, Points: pts}}
}
func (c *Capsule) AxisProjection(axis int) (float64, float64) {
	a, b := component(c.A, axis), component(c.B, axis)
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo - c.Radius, hi + c.Radius
}

// Cylinder is a finite right cylinder from A to B with the given radius.
type Cylinder struct {
	A, B   r3.Vector
	Radius float64
}

func NewCylinder(a, b r3.Vector, radius float64) (*Cylinder, error) {
	if radius <= 0 || a.Sub(b).Norm() < 1e-12 {
		return nil, ErrDegenerateShape
	}
	return &Cylinder{A: a, B: b, Radius: radius}, nil
}

func (c *Cylinder) Kind() Kind        { return KindCylinder }
func (c *Cylinder) Center() r3.Vector { return c.A.Add(c.B).Mul(0.5) }
func (c *Cylinder) Support(dir r3.Vector) r3.Vector {
	axis := c.B.Sub(c.A).Normalize()
	radial := dir.Sub(axis.Mul(dir.Dot(axis)))
	base := c.A
	if dir.Dot(axis) > 0 {
		base = c.B
	}
	if radial.Norm() < 1e-300 {
		return base
	}
	return base.Add(radial.Normalize().Mul(c.Radius))
}
func (c *Cylinder) LeafSeeds(idx int) []obbtree.LeafSeed {
	r := c.Radius
	pts := make([]r3.Vector, 0, 16)
	for _, p := range [2]r3.Vector{c.A, c.B} {
		for _, sx := range [2]float64{-1, 1} {
			for _, sy := range [2]float64{-1, 1} {
				for _, sz := range [2]float64{-1, 1} {
					pts = append(pts, p.Add(r3.Vector{X: sx * r, Y: sy * r, Z: sz * r}))
				}
			}
		}
	}
	return []obbtree.LeafSeed{{ShapeIndex: idx, Points: pts}}
}
func (c *Cylinder) AxisProjection(axis int) (float64, float64) {
	a, b := component(c.A, axis), component(c.B, axis)
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo - c.Radius, hi + c.Radius
}

// Plane is an infinite half-space {x : Normal.Dot(x) = Offset}, with
// Normal pointing away from the solid side.
type Plane struct {
	Normal r3.Vector
	Offset float64
}

func NewPlane(normal r3.Vector, offset float64) (*Plane, error) {
	if normal.Norm() < 1e-12 {
		return nil, ErrDegenerateShape
	}
	return &Plane{Normal: normal.Normalize(), Offset: offset}, nil
}

func (p *Plane) Kind() Kind        { return KindPlane }
func (p *Plane) Center() r3.Vector { return p.Normal.Mul(p.Offset) }
func (p *Plane) Support(dir r3.Vector) r3.Vector {
	// A plane has no finite support in general. The GJK/EPA fallback never
	// calls this (supportable excludes planes); it returns a point far out
	// in the query direction projected onto the plane.
	onPlane := dir.Sub(p.Normal.Mul(dir.Dot(p.Normal)))
	return p.Center().Add(onPlane.Mul(1e6))
}
func (p *Plane) LeafSeeds(idx int) []obbtree.LeafSeed {
	u, v := orthonormalComplement(p.Normal)
	const half = 1e4
	c := p.Center()
	return []obbtree.LeafSeed{{ShapeIndex: idx, Points: []r3.Vector{
		c.Add(u.Mul(half)).Add(v.Mul(half)),
		c.Add(u.Mul(-half)).Add(v.Mul(half)),
		c.Add(u.Mul(half)).Add(v.Mul(-half)),
		c.Add(u.Mul(-half)).Add(v.Mul(-half)),
	}}}
}
func (p *Plane) AxisProjection(axis int) (float64, float64) {
	return math.Inf(-1), math.Inf(1)
}

// Triangle is a single flat triangle.
type Triangle struct {
	A, B, C r3.Vector
}

func NewTriangle(a, b, c r3.Vector) (*Triangle, error) {
	if geom3.TriangleArea2(a, b, c) < 1e-18 {
		return nil, ErrDegenerateShape
	}
	return &Triangle{A: a, B: b, C: c}, nil
}

func (t *Triangle) Kind() Kind        { return KindTriangle }
func (t *Triangle) Center() r3.Vector { return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0) }
func (t *Triangle) Support(dir r3.Vector) r3.Vector {
	best, bestD := t.A, t.A.Dot(dir)
	for _, p := range [2]r3.Vector{t.B, t.C} {
		if d := p.Dot(dir); d > bestD {
			best, bestD = p, d
		}
	}
	return best
}
func (t *Triangle) LeafSeeds(idx int) []obbtree.LeafSeed {
	return []obbtree.LeafSeed{{ShapeIndex: idx, IsTriangle: true, TriVerts: [3]r3.Vector{t.A, t.B, t.C}}}
}
func (t *Triangle) AxisProjection(axis int) (float64, float64) {
	return projectPoints([]r3.Vector{t.A, t.B, t.C}, axis)
}

// TriMesh is an indexed triangle soup.
type TriMesh struct {
	Vertices []r3.Vector
	Indices  [][3]int
}

func NewTriMesh(vertices []r3.Vector, indices [][3]int) (*TriMesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, ErrDegenerateShape
	}
	return &TriMesh{Vertices: vertices, Indices: indices}, nil
}

func (m *TriMesh) Kind() Kind { return KindTriMesh }
func (m *TriMesh) Center() r3.Vector {
	c := r3.Vector{}
	for _, v := range m.Vertices {
		c = c.Add(v)
	}
	return c.Mul(1.0 / float64(len(m.Vertices)))
}
func (m *TriMesh) Support(dir r3.Vector) r3.Vector {
	best, bestD := m.Vertices[0], m.Vertices[0].Dot(dir)
	for _, v := range m.Vertices[1:] {
		if d := v.Dot(dir); d > bestD {
			best, bestD = v, d
		}
	}
	return best
}
func (m *TriMesh) LeafSeeds(idx int) []obbtree.LeafSeed {
	seeds := make([]obbtree.LeafSeed, 0, len(m.Indices))
	for _, tri := range m.Indices {
		seeds = append(seeds, obbtree.LeafSeed{
			ShapeIndex: idx,
			IsTriangle: true,
			TriVerts:   [3]r3.Vector{m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]},
		})
	}
	return seeds
}
func (m *TriMesh) AxisProjection(axis int) (float64, float64) {
	return projectPoints(m.Vertices, axis)
}

// Triangles returns the mesh's faces as individual Triangle values, used by
// the tri-tri and default dispatch arms when colliding against a mesh.
func (m *TriMesh) Triangles() []Triangle {
	out := make([]Triangle, len(m.Indices))
	for i, tri := range m.Indices {
		out[i] = Triangle{A: m.Vertices[tri[0]], B: m.Vertices[tri[1]], C: m.Vertices[tri[2]]}
	}
	return out
}

// Offset wraps Inner with a rigid transform applied before any query. Two
// nested Offsets always collapse into one at construction.
type Offset struct {
	Inner Shape
	Pose  geom3.Pose
}

// NewOffset composes pose with inner's existing pose if inner is itself an
// Offset, so Offsets never nest.
func NewOffset(inner Shape, pose geom3.Pose) *Offset {
	if o, ok := inner.(*Offset); ok {
		return &Offset{Inner: o.Inner, Pose: geom3.Compose(pose, o.Pose)}
	}
	return &Offset{Inner: inner, Pose: pose}
}

func (o *Offset) Kind() Kind        { return KindOffset }
func (o *Offset) Center() r3.Vector { return o.Pose.Apply(o.Inner.Center()) }
func (o *Offset) Support(dir r3.Vector) r3.Vector {
	localDir := o.Pose.Rotation.Transpose().MulVec(dir)
	return o.Pose.Apply(o.Inner.Support(localDir))
}
func (o *Offset) LeafSeeds(idx int) []obbtree.LeafSeed {
	inner := o.Inner.LeafSeeds(idx)
	out := make([]obbtree.LeafSeed, len(inner))
	for i, s := range inner {
		out[i] = s
		if s.IsTriangle {
			out[i].TriVerts = [3]r3.Vector{
				o.Pose.Apply(s.TriVerts[0]), o.Pose.Apply(s.TriVerts[1]), o.Pose.Apply(s.TriVerts[2]),
			}
		} else {
			pts := make([]r3.Vector, len(s.Points))
			for j, p := range s.Points {
				pts[j] = o.Pose.Apply(p)
			}
			out[i].Points = pts
		}
	}
	return out
}
func (o *Offset) AxisProjection(axis int) (float64, float64) {
	return projectPoints(corners8(o), axis)
}

func corners8(o *Offset) []r3.Vector {
	seeds := o.LeafSeeds(0)
	var pts []r3.Vector
	for _, s := range seeds {
		if s.IsTriangle {
			pts = append(pts, s.TriVerts[:]...)
		} else {
			pts = append(pts, s.Points...)
		}
	}
	return pts
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

func projectPoints(points []r3.Vector, axis int) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		c := component(p, axis)
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return min, max
}

func orthonormalComplement(n r3.Vector) (u, v r3.Vector) {
	ref := r3.Vector{X: 1}
	if math.Abs(n.X) > 0.9 {
		ref = r3.Vector{Y: 1}
	}
	u = ref.Sub(n.Mul(ref.Dot(n))).Normalize()
	v = n.Cross(u)
	return u, v
}
