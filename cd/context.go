package cd

import (
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fermat-boruvka/gngp/broadphase"
	"github.com/fermat-boruvka/gngp/geom3"
	"github.com/fermat-boruvka/gngp/obbtree"
	"github.com/fermat-boruvka/gngp/shapes"
)

// Context owns a set of geoms, the broad phase, and the build
// configuration. A Context (and everything it owns) is driven by a single
// logical thread; two Contexts over disjoint geoms may run concurrently.
type Context struct {
	cfg    config
	log    zerolog.Logger
	geoms  map[uint64]*Geom
	nextID uint64
	sap    *broadphase.SAP
	dirty  map[uint64]*Geom
}

// NewContext builds a collision context.
func NewContext(opts ...Option) *Context {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := &Context{
		cfg:   cfg,
		log:   cfg.logger,
		geoms: make(map[uint64]*Geom),
		dirty: make(map[uint64]*Geom),
	}
	if cfg.useSAP {
		ctx.sap = broadphase.New(cfg.sapSize)
	}

	return ctx
}

// NewGeom registers an empty geom at the identity pose.
func (c *Context) NewGeom() *Geom {
	c.nextID++
	g := &Geom{
		ctx:  c,
		id:   c.nextID,
		uid:  uuid.New(),
		pose: geom3.IdentityPose(),
	}
	c.geoms[g.id] = g

	return g
}

// Build finalises g's OBB tree from its shapes, using the context's build
// flags. Degenerate leaf seeds are skipped and counted, not fatal.
func (c *Context) Build(g *Geom) error {
	if g.ctx != c {
		return ErrForeignGeom
	}
	if len(g.shapes) == 0 {
		return ErrNoShapes
	}

	var seeds []obbtree.LeafSeed
	for i, s := range g.shapes {
		seeds = append(seeds, s.LeafSeeds(i)...)
	}

	res, err := obbtree.Build(seeds, c.cfg.flags)
	if err != nil {
		return err
	}
	g.roots = []*obbtree.Tree{res.Root}
	g.skipped = res.Skipped
	g.built = true

	if res.Skipped > 0 {
		c.log.Warn().
			Str("geom_uid", g.uid.String()).
			Int("skipped", res.Skipped).
			Msg("degenerate leaf seeds omitted from OBB tree")
	}

	c.markDirty(g)

	return nil
}

// SetTranslation replaces g's world translation and marks it dirty for the
// broad phase.
func (c *Context) SetTranslation(g *Geom, tr r3.Vector) {
	g.pose.Translation = tr
	c.markDirty(g)
}

// SetRotation replaces g's world rotation and marks it dirty.
func (c *Context) SetRotation(g *Geom, rot geom3.Mat3) {
	g.pose.Rotation = rot
	c.markDirty(g)
}

// SetPose replaces g's whole world pose and marks it dirty.
func (c *Context) SetPose(g *Geom, pose geom3.Pose) {
	g.pose = pose
	c.markDirty(g)
}

func (c *Context) markDirty(g *Geom) {
	g.dirty = true
	c.dirty[g.id] = g
}

// flushDirty re-reads every dirty geom's world AABB into the broad phase.
// Runs lazily at the start of each global query.
func (c *Context) flushDirty() {
	if c.sap == nil || len(c.dirty) == 0 {
		return
	}

	c.log.Debug().Int("dirty", len(c.dirty)).Msg("flushing dirty geoms into broad phase")
	for id, g := range c.dirty {
		if !g.built {
			continue
		}
		intervals := g.worldIntervals()
		if g.inSAP {
			_ = c.sap.Update(id, intervals)
		} else if err := c.sap.Add(id, intervals); err == nil {
			g.inSAP = true
		}
		g.dirty = false
		delete(c.dirty, id)
	}
}

// Remove drops g from the context and the broad phase.
func (c *Context) Remove(g *Geom) error {
	if g.ctx != c {
		return ErrForeignGeom
	}
	if c.sap != nil && g.inSAP {
		_ = c.sap.Remove(g.id)
		g.inSAP = false
	}
	delete(c.dirty, g.id)
	delete(c.geoms, g.id)
	g.ctx = nil

	return nil
}

// GeomCollide reports whether the two geoms intersect: their OBB trees are
// traversed in g1's frame and every surviving leaf-leaf pair goes through
// the narrow-phase shape dispatch until one hit cuts the traversal.
func (c *Context) GeomCollide(g1, g2 *Geom) (bool, error) {
	if g1.ctx != c || g2.ctx != c {
		return false, ErrForeignGeom
	}
	if !g1.built || !g2.built {
		return false, ErrNotBuilt
	}

	relB := geom3.RelativeTo(g2.pose, g1.pose)
	hit := false
	for _, ra := range g1.roots {
		for _, rb := range g2.roots {
			obbtree.Traverse(ra, rb, relB, func(p obbtree.LeafPair) bool {
				if shapes.Collide(g1.worldShape(p.ShapeA), g2.worldShape(p.ShapeB)) {
					hit = true
					return false
				}
				return true
			})
			if hit {
				return true, nil
			}
		}
	}

	return false, nil
}

// GeomSeparate computes up to the context's contact budget between the two
// geoms, directions pointing from g1 toward g2.
func (c *Context) GeomSeparate(g1, g2 *Geom) (*shapes.Contacts, error) {
	if g1.ctx != c || g2.ctx != c {
		return nil, ErrForeignGeom
	}
	if !g1.built || !g2.built {
		return nil, ErrNotBuilt
	}

	out := &shapes.Contacts{MaxContacts: c.cfg.maxContacts}
	relB := geom3.RelativeTo(g2.pose, g1.pose)
	var dispatchErr error
	// Several tree leaves can map to the same shape pair (a mesh contributes
	// one leaf per face under a single shape index); dispatch each shape pair
	// once.
	seen := make(map[obbtree.LeafPair]struct{})
	for _, ra := range g1.roots {
		for _, rb := range g2.roots {
			obbtree.Traverse(ra, rb, relB, func(p obbtree.LeafPair) bool {
				if _, dup := seen[p]; dup {
					return true
				}
				seen[p] = struct{}{}
				cts, err := shapes.Separate(
					g1.worldShape(p.ShapeA), g2.worldShape(p.ShapeB),
					out.MaxContacts-out.N(),
				)
				if err != nil {
					dispatchErr = err
					return false
				}
				for i := 0; i < cts.N(); i++ {
					out.Position = append(out.Position, cts.Position[i])
					out.Direction = append(out.Direction, cts.Direction[i])
					out.Penetration = append(out.Penetration, cts.Penetration[i])
				}
				return out.N() < out.MaxContacts
			})
			if dispatchErr != nil || out.N() >= out.MaxContacts {
				break
			}
		}
	}

	return out, dispatchErr
}

// CandidateFn receives one broad-phase candidate pair; returning false
// stops the iteration.
type CandidateFn func(g1, g2 *Geom) bool

// Collide iterates every candidate geom pair and invokes fn for each pair
// that actually intersects. Dirty geoms are flushed into the broad phase
// first.
func (c *Context) Collide(fn CandidateFn) error {
	return c.eachCandidate(func(g1, g2 *Geom) (bool, error) {
		hit, err := c.GeomCollide(g1, g2)
		if err != nil {
			return false, err
		}
		if hit && !fn(g1, g2) {
			return false, nil
		}
		return true, nil
	})
}

// SeparateFn receives one colliding pair's contact set; returning false
// stops the iteration.
type SeparateFn func(g1, g2 *Geom, contacts *shapes.Contacts) bool

// Separate iterates every candidate geom pair and invokes fn with the
// contact set of each pair that actually intersects.
func (c *Context) Separate(fn SeparateFn) error {
	return c.eachCandidate(func(g1, g2 *Geom) (bool, error) {
		cts, err := c.GeomSeparate(g1, g2)
		if err != nil {
			return false, err
		}
		if cts.N() > 0 && !fn(g1, g2, cts) {
			return false, nil
		}
		return true, nil
	})
}

// eachCandidate drives visit over broad-phase candidates, or over all built
// geom pairs when the broad phase is disabled.
func (c *Context) eachCandidate(visit func(g1, g2 *Geom) (bool, error)) error {
	c.flushDirty()

	if c.sap != nil {
		var visitErr error
		c.sap.Pairs(func(a, b uint64) bool {
			g1, ok1 := c.geoms[a]
			g2, ok2 := c.geoms[b]
			if !ok1 || !ok2 {
				return true
			}
			cont, err := visit(g1, g2)
			if err != nil {
				visitErr = err
				return false
			}
			return cont
		})
		return visitErr
	}

	ids := make([]uint64, 0, len(c.geoms))
	for id, g := range c.geoms {
		if g.built {
			ids = append(ids, id)
		}
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			cont, err := visit(c.geoms[ids[i]], c.geoms[ids[j]])
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
	}

	return nil
}
