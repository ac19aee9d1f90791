package cd

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"github.com/fermat-boruvka/gngp/broadphase"
	"github.com/fermat-boruvka/gngp/geom3"
	"github.com/fermat-boruvka/gngp/obbtree"
	"github.com/fermat-boruvka/gngp/shapes"
)

// Geom is one rigid body: a world pose plus the OBB trees built over its
// shapes. Shapes are expressed in the geom's local frame; the pose maps
// local to world. A geom is owned by exactly one Context.
type Geom struct {
	ctx *Context
	id  uint64
	uid uuid.UUID

	pose    geom3.Pose
	shapes  []shapes.Shape
	roots   []*obbtree.Tree
	skipped int

	built bool
	dirty bool
	inSAP bool
}

// ID returns the context-local numeric id.
func (g *Geom) ID() uint64 { return g.id }

// UID returns the globally unique id attached to this geom's log events.
func (g *Geom) UID() uuid.UUID { return g.uid }

// Pose returns the geom's current world pose.
func (g *Geom) Pose() geom3.Pose { return g.pose }

// Shapes returns the geom's local-frame shapes in insertion order.
func (g *Geom) Shapes() []shapes.Shape { return g.shapes }

// Roots returns the finalised OBB tree roots; empty until Build.
func (g *Geom) Roots() []*obbtree.Tree { return g.roots }

// Skipped reports how many degenerate OBB leaf seeds the last Build omitted
// (a triangle mesh contributes one seed per face).
func (g *Geom) Skipped() int { return g.skipped }

// AddShape appends a local-frame shape; the OBB tree must be re-finalised
// with Build before the geom participates in queries again.
func (g *Geom) AddShape(s shapes.Shape) {
	g.shapes = append(g.shapes, s)
	g.built = false
}

// AddSphere appends a sphere at center with the given radius.
func (g *Geom) AddSphere(center r3.Vector, radius float64) error {
	s, err := shapes.NewSphere(center, radius)
	if err != nil {
		return err
	}
	g.AddShape(s)

	return nil
}

// AddBox appends an oriented box.
func (g *Geom) AddBox(center r3.Vector, axes [3]r3.Vector, halfExtents r3.Vector) error {
	b, err := shapes.NewBox(center, axes, halfExtents)
	if err != nil {
		return err
	}
	g.AddShape(b)

	return nil
}

// AddCylinder appends a finite cylinder from a to b.
func (g *Geom) AddCylinder(a, b r3.Vector, radius float64) error {
	c, err := shapes.NewCylinder(a, b, radius)
	if err != nil {
		return err
	}
	g.AddShape(c)

	return nil
}

// AddCapsule appends a sphere-swept segment from a to b.
func (g *Geom) AddCapsule(a, b r3.Vector, radius float64) error {
	c, err := shapes.NewCapsule(a, b, radius)
	if err != nil {
		return err
	}
	g.AddShape(c)

	return nil
}

// AddTriMesh appends an indexed triangle mesh.
func (g *Geom) AddTriMesh(vertices []r3.Vector, indices [][3]int) error {
	m, err := shapes.NewTriMesh(vertices, indices)
	if err != nil {
		return err
	}
	g.AddShape(m)

	return nil
}

// AddTrisFromRaw appends a triangle soup given as nine coordinates per
// triangle (three full vertices each).
func (g *Geom) AddTrisFromRaw(coords []float64) error {
	if len(coords) == 0 || len(coords)%9 != 0 {
		return fmt.Errorf("cd: raw triangle list needs 9 floats per triangle, got %d", len(coords))
	}

	n := len(coords) / 9
	verts := make([]r3.Vector, 0, 3*n)
	indices := make([][3]int, 0, n)
	for t := 0; t < n; t++ {
		base := t * 9
		for v := 0; v < 3; v++ {
			verts = append(verts, r3.Vector{
				X: coords[base+3*v],
				Y: coords[base+3*v+1],
				Z: coords[base+3*v+2],
			})
		}
		indices = append(indices, [3]int{3 * t, 3*t + 1, 3*t + 2})
	}

	return g.AddTriMesh(verts, indices)
}

// worldIntervals projects the geom's shapes, placed at its world pose, onto
// the three broad-phase axes.
func (g *Geom) worldIntervals() [broadphase.NumAxes][2]float64 {
	var out [broadphase.NumAxes][2]float64
	for axis := 0; axis < broadphase.NumAxes; axis++ {
		out[axis] = [2]float64{0, 0}
	}

	first := true
	for _, s := range g.shapes {
		world := shapes.NewOffset(s, g.pose)
		for axis := 0; axis < broadphase.NumAxes; axis++ {
			lo, hi := world.AxisProjection(axis)
			if first {
				out[axis] = [2]float64{lo, hi}
				continue
			}
			if lo < out[axis][0] {
				out[axis][0] = lo
			}
			if hi > out[axis][1] {
				out[axis][1] = hi
			}
		}
		first = false
	}

	return out
}

// worldShape returns shape i placed at the geom's world pose.
func (g *Geom) worldShape(i int) shapes.Shape {
	return shapes.NewOffset(g.shapes[i], g.pose)
}
