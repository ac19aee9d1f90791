package sceneio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/fermat-boruvka/gngp/geom3"
	"github.com/fermat-boruvka/gngp/obbtree"
	"github.com/fermat-boruvka/gngp/shapes"
)

// GeomRecord is the persisted form of a rigid body: its world transform and
// the OBB trees over its shapes.
type GeomRecord struct {
	Pose  geom3.Pose
	Roots []*OBBRecord
}

// OBBRecord is one node of a persisted OBB tree: an internal node carries
// two children, a leaf carries the wrapped shape.
type OBBRecord struct {
	Center      r3.Vector
	Axes        [3]r3.Vector
	HalfExtents r3.Vector

	Left, Right *OBBRecord
	Shape       shapes.Shape
}

// IsLeaf reports whether the record wraps a shape.
func (o *OBBRecord) IsLeaf() bool { return o.Shape != nil }

// FromTree converts a built OBB tree into its persisted form. shapeOf maps
// a leaf's shape index back to the shape it bounds.
func FromTree(pose geom3.Pose, roots []*obbtree.Tree, shapeOf func(int) shapes.Shape) *GeomRecord {
	rec := &GeomRecord{Pose: pose}
	for _, root := range roots {
		rec.Roots = append(rec.Roots, obbRecordOf(root, shapeOf))
	}

	return rec
}

func obbRecordOf(t *obbtree.Tree, shapeOf func(int) shapes.Shape) *OBBRecord {
	if t == nil {
		return nil
	}
	rec := &OBBRecord{Center: t.Center, Axes: t.Axes, HalfExtents: t.HalfExtents}
	if t.IsLeaf() {
		rec.Shape = shapeOf(t.ShapeIndex())
		return rec
	}
	rec.Left = obbRecordOf(t.Left, shapeOf)
	rec.Right = obbRecordOf(t.Right, shapeOf)

	return rec
}

// Shapes collects every leaf shape of the record, depth-first, left to
// right — the order a rebuild should re-add them in.
func (g *GeomRecord) Shapes() []shapes.Shape {
	var out []shapes.Shape
	var walk func(o *OBBRecord)
	walk = func(o *OBBRecord) {
		if o == nil {
			return
		}
		if o.IsLeaf() {
			out = append(out, o.Shape)
			return
		}
		walk(o.Left)
		walk(o.Right)
	}
	for _, root := range g.Roots {
		walk(root)
	}

	return out
}

// WriteGeom writes the record in its canonical s-expression rendering:
//
//	(geom tx ty tz r11 ... r33 obb...)
func WriteGeom(w io.Writer, g *GeomRecord) error {
	var sb strings.Builder
	sb.WriteString("(geom")
	writeVec(&sb, g.Pose.Translation)
	writeMat(&sb, g.Pose.Rotation)
	for _, root := range g.Roots {
		sb.WriteByte(' ')
		if err := writeOBB(&sb, root); err != nil {
			return err
		}
	}
	sb.WriteString(")\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeOBB(sb *strings.Builder, o *OBBRecord) error {
	sb.WriteString("(obb")
	writeVec(sb, o.Center)
	writeVec(sb, o.Axes[0])
	writeVec(sb, o.Axes[1])
	writeVec(sb, o.Axes[2])
	writeVec(sb, o.HalfExtents)
	sb.WriteByte(' ')
	if o.IsLeaf() {
		if err := writeShape(sb, o.Shape); err != nil {
			return err
		}
	} else {
		if err := writeOBB(sb, o.Left); err != nil {
			return err
		}
		sb.WriteByte(' ')
		if err := writeOBB(sb, o.Right); err != nil {
			return err
		}
	}
	sb.WriteByte(')')

	return nil
}

func writeShape(sb *strings.Builder, s shapes.Shape) error {
	switch v := s.(type) {
	case *shapes.Triangle:
		sb.WriteString("(tri")
		writeVec(sb, v.A)
		writeVec(sb, v.B)
		writeVec(sb, v.C)
		sb.WriteByte(')')
	case *shapes.Box:
		sb.WriteString("(box")
		writeVec(sb, v.C)
		writeVec(sb, v.Axes[0])
		writeVec(sb, v.Axes[1])
		writeVec(sb, v.Axes[2])
		writeVec(sb, v.HalfExtents)
		sb.WriteByte(')')
	case *shapes.Sphere:
		sb.WriteString("(sphere")
		writeVec(sb, v.C)
		sb.WriteByte(' ')
		sb.WriteString(formatFloat(v.Radius))
		sb.WriteByte(')')
	case *shapes.Cylinder:
		sb.WriteString("(cyl")
		writeVec(sb, v.A)
		writeVec(sb, v.B)
		sb.WriteByte(' ')
		sb.WriteString(formatFloat(v.Radius))
		sb.WriteByte(')')
	case *shapes.Offset:
		sb.WriteString("(off")
		writeVec(sb, v.Pose.Translation)
		writeMat(sb, v.Pose.Rotation)
		sb.WriteByte(' ')
		if err := writeShape(sb, v.Inner); err != nil {
			return err
		}
		sb.WriteByte(')')
	default:
		// The persisted grammar covers tri/box/sphere/cyl/off only.
		return fmt.Errorf("%w: shape kind %s has no persisted form", ErrSyntax, s.Kind())
	}

	return nil
}

func writeVec(sb *strings.Builder, v r3.Vector) {
	sb.WriteByte(' ')
	sb.WriteString(formatFloat(v.X))
	sb.WriteByte(' ')
	sb.WriteString(formatFloat(v.Y))
	sb.WriteByte(' ')
	sb.WriteString(formatFloat(v.Z))
}

func writeMat(sb *strings.Builder, m geom3.Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(m[i][j]))
		}
	}
}

// ReadGeom parses one persisted geom.
func ReadGeom(r io.Reader) (*GeomRecord, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	g, err := p.geom()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("%w: trailing input", ErrSyntax)
	}

	return g, nil
}

func tokenize(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := string(data)
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")

	return strings.Fields(s), nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() string {
	if p.done() {
		return ""
	}

	return p.toks[p.pos]
}

func (p *parser) next() (string, error) {
	if p.done() {
		return "", fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	}
	t := p.toks[p.pos]
	p.pos++

	return t, nil
}

func (p *parser) expect(tok string) error {
	t, err := p.next()
	if err != nil {
		return err
	}
	if t != tok {
		return fmt.Errorf("%w: expected %q, got %q", ErrSyntax, tok, t)
	}

	return nil
}

func (p *parser) float() (float64, error) {
	t, err := p.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, t)
	}

	return v, nil
}

func (p *parser) vec() (r3.Vector, error) {
	var v r3.Vector
	var err error
	if v.X, err = p.float(); err != nil {
		return v, err
	}
	if v.Y, err = p.float(); err != nil {
		return v, err
	}
	v.Z, err = p.float()

	return v, err
}

func (p *parser) mat() (geom3.Mat3, error) {
	var m geom3.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, err := p.float()
			if err != nil {
				return m, err
			}
			m[i][j] = v
		}
	}

	return m, nil
}

func (p *parser) geom() (*GeomRecord, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	if err := p.expect("geom"); err != nil {
		return nil, err
	}

	g := &GeomRecord{}
	var err error
	if g.Pose.Translation, err = p.vec(); err != nil {
		return nil, err
	}
	if g.Pose.Rotation, err = p.mat(); err != nil {
		return nil, err
	}

	for p.peek() == "(" {
		o, err := p.obb()
		if err != nil {
			return nil, err
		}
		g.Roots = append(g.Roots, o)
	}

	return g, p.expect(")")
}

func (p *parser) obb() (*OBBRecord, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	if err := p.expect("obb"); err != nil {
		return nil, err
	}

	o := &OBBRecord{}
	var err error
	if o.Center, err = p.vec(); err != nil {
		return nil, err
	}
	for i := 0; i < 3; i++ {
		if o.Axes[i], err = p.vec(); err != nil {
			return nil, err
		}
	}
	if o.HalfExtents, err = p.vec(); err != nil {
		return nil, err
	}

	// The tail is either two child obb forms or one shape form.
	if err := p.expect("("); err != nil {
		return nil, err
	}
	head := p.peek()
	p.pos-- // rewind the "("

	if head == "obb" {
		if o.Left, err = p.obb(); err != nil {
			return nil, err
		}
		if o.Right, err = p.obb(); err != nil {
			return nil, err
		}
	} else {
		if o.Shape, err = p.shape(); err != nil {
			return nil, err
		}
	}

	return o, p.expect(")")
}

func (p *parser) shape() (shapes.Shape, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	head, err := p.next()
	if err != nil {
		return nil, err
	}

	var s shapes.Shape
	switch head {
	case "tri":
		var a, b, c r3.Vector
		if a, err = p.vec(); err != nil {
			return nil, err
		}
		if b, err = p.vec(); err != nil {
			return nil, err
		}
		if c, err = p.vec(); err != nil {
			return nil, err
		}
		if s, err = shapes.NewTriangle(a, b, c); err != nil {
			return nil, err
		}
	case "box":
		var center, he r3.Vector
		var axes [3]r3.Vector
		if center, err = p.vec(); err != nil {
			return nil, err
		}
		for i := 0; i < 3; i++ {
			if axes[i], err = p.vec(); err != nil {
				return nil, err
			}
		}
		if he, err = p.vec(); err != nil {
			return nil, err
		}
		if s, err = shapes.NewBox(center, axes, he); err != nil {
			return nil, err
		}
	case "sphere":
		var center r3.Vector
		var radius float64
		if center, err = p.vec(); err != nil {
			return nil, err
		}
		if radius, err = p.float(); err != nil {
			return nil, err
		}
		if s, err = shapes.NewSphere(center, radius); err != nil {
			return nil, err
		}
	case "cyl":
		var a, b r3.Vector
		var radius float64
		if a, err = p.vec(); err != nil {
			return nil, err
		}
		if b, err = p.vec(); err != nil {
			return nil, err
		}
		if radius, err = p.float(); err != nil {
			return nil, err
		}
		if s, err = shapes.NewCylinder(a, b, radius); err != nil {
			return nil, err
		}
	case "off":
		var pose geom3.Pose
		if pose.Translation, err = p.vec(); err != nil {
			return nil, err
		}
		if pose.Rotation, err = p.mat(); err != nil {
			return nil, err
		}
		inner, err := p.shape()
		if err != nil {
			return nil, err
		}
		s = shapes.NewOffset(inner, pose)
	default:
		return nil, fmt.Errorf("%w: unknown shape form %q", ErrSyntax, head)
	}

	return s, p.expect(")")
}
