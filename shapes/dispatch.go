package shapes

type collideFn func(a, b Shape) bool

type separateFn func(a, b Shape, out *Contacts) error

type pairKey struct{ a, b Kind }

type pairEntry struct {
	collide  collideFn
	separate separateFn
}

// pairTable holds one entry per supported ordered pair; the dispatcher
// consults the swapped key before falling back to GJK/EPA, flipping contact
// directions so callers always see directions relative to their own operand
// order.
var pairTable = map[pairKey]pairEntry{
	{KindSphere, KindSphere}:   {collideSphereSphere, separateSphereSphere},
	{KindSphere, KindBox}:      {collideSphereBox, separateSphereBox},
	{KindSphere, KindCapsule}:  {collideSphereCapsule, separateSphereCapsule},
	{KindSphere, KindTriangle}: {collideSphereTriangle, separateSphereTriangle},
	{KindBox, KindBox}:         {collideBoxBox, separateBoxBox},
	{KindPlane, KindSphere}:    {collidePlaneAny, separatePlaneSphere},
	{KindPlane, KindBox}:       {collidePlaneAny, separatePlaneBox},
	{KindPlane, KindCapsule}:   {collidePlaneAny, separatePlaneCapsule},
	{KindPlane, KindCylinder}:  {collidePlaneAny, separatePlaneCylinder},
	{KindPlane, KindTriangle}:  {collidePlaneAny, separatePlaneTriangle},
	{KindTriangle, KindTriangle}: {collideTriTri, separateTriTri},
}

// Collide reports whether the two shapes intersect. Offset operands are
// resolved by composing their rigid transforms into the wrapped shape before
// dispatch; triangle meshes dispatch per face.
func Collide(a, b Shape) bool {
	a, b = Bake(a), Bake(b)

	if m, ok := a.(*TriMesh); ok {
		tris := m.Triangles()
		for i := range tris {
			if Collide(&tris[i], b) {
				return true
			}
		}
		return false
	}
	if m, ok := b.(*TriMesh); ok {
		tris := m.Triangles()
		for i := range tris {
			if Collide(a, &tris[i]) {
				return true
			}
		}
		return false
	}

	if e, ok := pairTable[pairKey{a.Kind(), b.Kind()}]; ok {
		return e.collide(a, b)
	}
	if e, ok := pairTable[pairKey{b.Kind(), a.Kind()}]; ok {
		return e.collide(b, a)
	}

	return defaultCollide(a, b)
}

// Separate computes up to maxContacts contact points between the shapes.
// Returned directions point from a toward b regardless of which table
// ordering served the pair. A non-intersecting pair yields zero contacts and
// a nil error.
func Separate(a, b Shape, maxContacts int) (*Contacts, error) {
	out := newContacts(maxContacts)
	if err := separateInto(Bake(a), Bake(b), out); err != nil {
		return nil, err
	}

	return out, nil
}

func separateInto(a, b Shape, out *Contacts) error {
	if m, ok := a.(*TriMesh); ok {
		tris := m.Triangles()
		for i := range tris {
			if err := separateInto(&tris[i], b, out); err != nil {
				return err
			}
			if out.N() >= out.MaxContacts {
				return nil
			}
		}
		return nil
	}
	if m, ok := b.(*TriMesh); ok {
		tris := m.Triangles()
		for i := range tris {
			if err := separateInto(a, &tris[i], out); err != nil {
				return err
			}
			if out.N() >= out.MaxContacts {
				return nil
			}
		}
		return nil
	}

	if e, ok := pairTable[pairKey{a.Kind(), b.Kind()}]; ok {
		return e.separate(a, b, out)
	}
	if e, ok := pairTable[pairKey{b.Kind(), a.Kind()}]; ok {
		flipped := newContacts(out.MaxContacts - out.N())
		if err := e.separate(b, a, flipped); err != nil {
			return err
		}
		f := flipped.flip()
		for i := range f.Position {
			out.add(f.Position[i], f.Direction[i], f.Penetration[i])
		}
		return nil
	}

	return defaultSeparate(a, b, out)
}

// defaultCollide is the table's fallback arm: generic GJK over the two
// shapes' support functions. Pairs without a usable support function (a
// plane against anything not covered above) report no collision.
func defaultCollide(a, b Shape) bool {
	if !supportable(a) || !supportable(b) {
		return false
	}
	hit, _ := gjkIntersect(a, b)

	return hit
}

// defaultSeparate runs GJK and, on intersection, EPA for the penetration
// direction and depth. The contact position is approximated by the midpoint
// of the two deepest support points.
func defaultSeparate(a, b Shape, out *Contacts) error {
	if !supportable(a) || !supportable(b) {
		return ErrNoSupportFunction
	}

	hit, simplex := gjkIntersect(a, b)
	if !hit {
		return nil
	}

	dir, depth, ok := epaPenetration(a, b, simplex)
	if !ok {
		return nil
	}

	pA := a.Support(dir)
	pB := b.Support(dir.Mul(-1))
	out.add(pA.Add(pB).Mul(0.5), dir, depth)

	return nil
}
