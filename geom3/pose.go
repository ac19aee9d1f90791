package geom3

import "github.com/golang/geo/r3"

// Pose is a rigid transform: a rotation followed by a translation, i.e.
// world = Rotation*local + Translation. Geom (package cd) carries exactly
// one Pose for its world placement; OBB tree nodes carry no Pose, only a
// centre, axes and half-extents in their owning geom's local frame.
type Pose struct {
	Rotation    Mat3
	Translation r3.Vector
}

// IdentityPose returns the identity rigid transform.
func IdentityPose() Pose {
	return Pose{Rotation: Identity3()}
}

// Apply maps a local-frame point into the frame this pose represents.
func (p Pose) Apply(local r3.Vector) r3.Vector {
	return p.Rotation.MulVec(local).Add(p.Translation)
}

// ApplyVector maps a local-frame free vector (no translation).
func (p Pose) ApplyVector(local r3.Vector) r3.Vector {
	return p.Rotation.MulVec(local)
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	rt := p.Rotation.Transpose()

	return Pose{
		Rotation:    rt,
		Translation: rt.MulVec(p.Translation).Mul(-1),
	}
}

// Compose returns the pose equivalent to applying inner first, then outer:
// Compose(outer, inner).Apply(x) == outer.Apply(inner.Apply(x)).
//
// Offset shapes collapse Off(Off(s,R1,t1),R2,t2) into
// Off(s, R2*R1, R2*t1+t2) at creation time via this function, so two live
// Pose compositions never nest at query time.
func Compose(outer, inner Pose) Pose {
	return Pose{
		Rotation:    outer.Rotation.Mul(inner.Rotation),
		Translation: outer.Rotation.MulVec(inner.Translation).Add(outer.Translation),
	}
}

// RelativeTo returns the pose of `p` expressed in the frame of `frame`:
// Compose(frame, result) == p.
func RelativeTo(p, frame Pose) Pose {
	return Compose(frame.Inverse(), p)
}
