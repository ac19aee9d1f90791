package shapes

import (
	"github.com/golang/geo/r3"

	"github.com/fermat-boruvka/gngp/geom3"
)

// Bake resolves an Offset chain into the underlying concrete shape with the
// composed rigid transform applied to its defining data. Dispatch always
// bakes both operands first, so the pair table and the GJK fallback only
// ever see the seven concrete kinds. Non-Offset shapes pass through
// unchanged.
func Bake(s Shape) Shape {
	o, ok := s.(*Offset)
	if !ok {
		return s
	}

	return bakeWith(o.Inner, o.Pose)
}

func bakeWith(s Shape, pose geom3.Pose) Shape {
	switch v := s.(type) {
	case *Sphere:
		return &Sphere{C: pose.Apply(v.C), Radius: v.Radius}
	case *Box:
		return &Box{
			C: pose.Apply(v.C),
			Axes: [3]r3.Vector{
				pose.ApplyVector(v.Axes[0]),
				pose.ApplyVector(v.Axes[1]),
				pose.ApplyVector(v.Axes[2]),
			},
			HalfExtents: v.HalfExtents,
		}
	case *Capsule:
		return &Capsule{A: pose.Apply(v.A), B: pose.Apply(v.B), Radius: v.Radius}
	case *Cylinder:
		return &Cylinder{A: pose.Apply(v.A), B: pose.Apply(v.B), Radius: v.Radius}
	case *Plane:
		n := pose.ApplyVector(v.Normal)
		// A plane point maps through the full transform; the new offset is
		// its projection onto the rotated normal.
		p := pose.Apply(v.Normal.Mul(v.Offset))
		return &Plane{Normal: n, Offset: n.Dot(p)}
	case *Triangle:
		return &Triangle{A: pose.Apply(v.A), B: pose.Apply(v.B), C: pose.Apply(v.C)}
	case *TriMesh:
		verts := make([]r3.Vector, len(v.Vertices))
		for i, p := range v.Vertices {
			verts[i] = pose.Apply(p)
		}
		return &TriMesh{Vertices: verts, Indices: v.Indices}
	case *Offset:
		// NewOffset collapses nested Offsets, but a hand-built literal may
		// still nest; compose and keep going.
		return bakeWith(v.Inner, geom3.Compose(pose, v.Pose))
	default:
		return s
	}
}
