package gngp

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fermat-boruvka/gngp/gug"
	"github.com/fermat-boruvka/gngp/vecd"
)

// Planner runs the GNG-P adaptation loop over one configuration space. It
// owns the node/edge arena, the spatial index, the error heap, and
// the cell-classification grid; none of these are shared across Planner
// instances.
type Planner struct {
	ops    Operations
	params Parameters
	log    zerolog.Logger
	runID  uuid.UUID

	ar    *arena
	grid  *gug.Grid
	class *classGrid
	heap  *errorHeap
	beta  *betaTable
	rng   *rand.Rand

	step  uint64
	cycle uint64

	path      []vecd.Vec
	pathFound bool

	skipped int // degenerate samples skipped
}

// New constructs a Planner from the given options.
func New(opts ...Option) (*Planner, error) {
	cfg := config{params: DefaultParameters(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateParameters(cfg.params); err != nil {
		return nil, err
	}
	if cfg.ops.InputSignal == nil && cfg.ops.InputSignalSeed == nil {
		return nil, ErrMissingInputSignal
	}
	if cfg.ops.Eval == nil {
		return nil, ErrMissingEval
	}
	if cfg.ops.Terminate == nil {
		return nil, ErrMissingTerminate
	}
	if !cfg.params.AABB.Contains(cfg.params.Start) {
		return nil, ErrStartOutsideAABB
	}
	if !cfg.params.AABB.Contains(cfg.params.Goal) {
		return nil, ErrGoalOutsideAABB
	}

	grid, err := gug.New(cfg.params.D, cfg.params.AABB, cfg.params.GUGInitialCells,
		cfg.params.GUGMaxDensity, cfg.params.GUGExpandRate, cfg.params.GUGApprox)
	if err != nil {
		return nil, err
	}

	p := &Planner{
		ops:    cfg.ops,
		params: cfg.params,
		log:    cfg.logger,
		runID:  uuid.New(),
		ar:     newArena(),
		grid:   grid,
		class:  newClassGrid(cfg.params.AABB, cellsPerAxisFromDensity(cfg.params.GUGInitialCells, cfg.params.D)),
		heap:   newErrorHeap(),
		beta:   newBetaTable(cfg.params.Beta, cfg.params.Lambda),
	}
	if cfg.ops.InputSignalSeed != nil {
		p.rng = rand.New(rand.NewSource(*cfg.ops.InputSignalSeed))
	}
	p.log = p.log.With().Str("run_id", p.runID.String()).Logger()

	p.log.Info().Int("dim", cfg.params.D).Msg("gngp: planner constructed")

	p.initSeeds()

	return p, nil
}

func validateParameters(p Parameters) error {
	switch p.D {
	case 2, 3, 6:
	default:
		return ErrInvalidDim
	}
	if p.AABB.Dim() != p.D {
		return ErrInvalidAABB
	}
	if p.Lambda <= 0 {
		return ErrInvalidLambda
	}
	if p.Alpha < 0 || p.Alpha > 1 || p.Beta < 0 || p.Beta > 1 {
		return ErrInvalidRate
	}
	if p.EpsilonB < 0 || p.EpsilonB > 1 || p.EpsilonN < 0 || p.EpsilonN > 1 {
		return ErrInvalidLearningRate
	}

	return nil
}

// defaultSample draws a uniform sample from the AABB using the seeded RNG,
// used when Operations.InputSignal is left nil.
func (p *Planner) defaultSample() vecd.Vec {
	box := p.params.AABB
	x := make(vecd.Vec, box.Dim())
	for i := range x {
		x[i] = box.Min[i] + p.rng.Float64()*box.Extent(i)
	}

	return x
}

func (p *Planner) sample() vecd.Vec {
	if p.ops.InputSignal != nil {
		return p.ops.InputSignal()
	}

	return p.defaultSample()
}

// nearest dispatches the k-NN query through Operations.Nearest when the
// caller supplied one, falling back to the internal spatial index.
func (p *Planner) nearest(q vecd.Vec, k int) ([]*gug.Element, []float64, error) {
	if p.ops.Nearest != nil {
		return p.ops.Nearest(p.grid, q, k)
	}

	return p.grid.Nearest(q, k)
}

// initSeeds creates the two starting nodes connected by an age-0 edge, and
// registers both with the GUG and classification grid.
func (p *Planner) initSeeds() {
	var wa, wb vecd.Vec
	if p.params.Start != nil && p.params.Goal != nil {
		wa, wb = p.params.Start.Clone(), p.params.Goal.Clone()
	} else {
		wa, wb = p.sample(), p.sample()
	}

	if p.ops.Init != nil {
		p.ops.Init(wa, wb)
	}

	na := p.createNode(wa)
	nb := p.createNode(wb)
	p.connect(na, nb)
}

// createNode allocates a node at w, registers it with the GUG and
// classification grid, and inserts it into the error heap with zero error.
func (p *Planner) createNode(w vecd.Vec) nodeIdx {
	idx, n := p.ar.allocNode()
	n.w = w.Clone()
	n.errCycle = p.step
	n.err = 0

	label := labelUnknown
	if p.ops.Eval != nil {
		if p.ops.Eval(n.w) {
			label = labelFree
		} else {
			label = labelObst
		}
	}
	n.label = label
	n.cell = p.class.cellOf(n.w)
	p.class.enter(n.cell, n.label)

	el, err := p.grid.Add(n.w, idx)
	if err == nil {
		n.gugHandle = el
	}

	n.hn = p.heap.insert(idx, p.beta.comparableKey(0, p.step))

	if p.ops.NewNode != nil {
		p.ops.NewNode(n.w)
	}

	return idx
}

// deleteNode removes a node from the heap, grid, classification grid, and
// arena. Callers must have already removed every incident edge (a node
// with zero edges is deleted immediately, so this is only ever called once
// a node's edge list is already empty).
func (p *Planner) deleteNode(idx nodeIdx) {
	n, err := p.ar.node(idx)
	if err != nil {
		return
	}

	if n.hn != nil {
		p.heap.remove(n.hn)
		n.hn = nil
	}
	if n.gugHandle != nil {
		_ = p.grid.Remove(n.gugHandle)
		n.gugHandle = nil
	}
	p.class.leave(n.cell, n.label)

	if p.ops.DelNode != nil {
		p.ops.DelNode(n.w)
	}

	p.ar.freeNode(idx)
}

// connect creates an edge of age 0 between a and b if one does not already
// exist (endpoints distinct, at most one edge per pair).
func (p *Planner) connect(a, b nodeIdx) edgeIdx {
	if existing, ok := p.findEdge(a, b); ok {
		if e, err := p.ar.edge(existing); err == nil {
			e.age = 0
		}

		return existing
	}

	idx, _ := p.ar.allocEdge(a, b)
	if na, err := p.ar.node(a); err == nil {
		na.edges = append(na.edges, idx)
	}
	if nb, err := p.ar.node(b); err == nil {
		nb.edges = append(nb.edges, idx)
	}

	return idx
}

func (p *Planner) findEdge(a, b nodeIdx) (edgeIdx, bool) {
	na, err := p.ar.node(a)
	if err != nil {
		return nilEdge, false
	}
	for _, eidx := range na.edges {
		e, err := p.ar.edge(eidx)
		if err != nil {
			continue
		}
		if (e.a == a && e.b == b) || (e.a == b && e.b == a) {
			return eidx, true
		}
	}

	return nilEdge, false
}

// removeEdge detaches an edge from both endpoints' edge lists and frees it;
// if an endpoint is left with zero edges, it is deleted too.
func (p *Planner) removeEdge(eidx edgeIdx) {
	e, err := p.ar.edge(eidx)
	if err != nil {
		return
	}
	a, b := e.a, e.b
	p.detachEdgeFromNode(a, eidx)
	p.detachEdgeFromNode(b, eidx)
	p.ar.freeEdge(eidx)

	p.maybeDeleteZeroDegree(a)
	p.maybeDeleteZeroDegree(b)
}

func (p *Planner) detachEdgeFromNode(idx nodeIdx, eidx edgeIdx) {
	n, err := p.ar.node(idx)
	if err != nil {
		return
	}
	for i, e := range n.edges {
		if e == eidx {
			n.edges = append(n.edges[:i], n.edges[i+1:]...)
			break
		}
	}
}

func (p *Planner) maybeDeleteZeroDegree(idx nodeIdx) {
	n, err := p.ar.node(idx)
	if err != nil || len(n.edges) > 0 {
		return
	}

	// At the MinNodes floor, re-attach the orphan to its nearest surviving
	// node instead of shrinking the network further.
	if p.params.MinNodes > 0 && p.NumNodes() <= p.params.MinNodes {
		if els, _, err := p.nearest(n.w, 2); err == nil {
			for _, el := range els {
				other, ok := el.Data().(nodeIdx)
				if !ok || other == idx {
					continue
				}
				p.connect(idx, other)

				return
			}
		}
	}

	p.deleteNode(idx)
}

// neighbors returns the nodeIdx of every node adjacent to idx.
func (p *Planner) neighbors(idx nodeIdx) []nodeIdx {
	n, err := p.ar.node(idx)
	if err != nil {
		return nil
	}
	out := make([]nodeIdx, 0, len(n.edges))
	for _, eidx := range n.edges {
		e, err := p.ar.edge(eidx)
		if err != nil {
			continue
		}
		if e.a == idx {
			out = append(out, e.b)
		} else {
			out = append(out, e.a)
		}
	}

	return out
}

// fixedUpError returns n's true current decayed error.
func (p *Planner) fixedUpError(n *node) float64 {
	return p.beta.decayedAt(n.err, p.step-n.errCycle)
}

// bumpError adds delta to n's error, normalizing through the current step
// first, and refreshes its heap entry.
func (p *Planner) bumpError(idx nodeIdx, n *node, delta float64) {
	n.err = p.fixedUpError(n) + delta
	n.errCycle = p.step
	if n.hn != nil {
		p.heap.fixup(n.hn, p.beta.comparableKey(n.err, n.errCycle))
	} else {
		n.hn = p.heap.insert(idx, p.beta.comparableKey(n.err, n.errCycle))
	}
}

// moveNode moves n toward target by frac, re-registers it with the GUG and
// classification grid at the new position, and clamps into the AABB.
func (p *Planner) moveNode(idx nodeIdx, n *node, target vecd.Vec, frac float64) {
	dst := n.w.Clone()
	move := p.ops.MoveToward
	if move == nil {
		move = vecd.MoveToward
	}
	if err := move(dst, n.w, target, frac); err != nil {
		return
	}
	_, _ = vecd.Clamp(dst, p.params.AABB)

	oldCell := n.cell
	oldLabel := n.label
	n.w = dst

	if n.gugHandle != nil {
		_ = p.grid.Update(n.gugHandle, n.w)
	}

	newCell := p.class.cellOf(n.w)
	if newCell != oldCell {
		p.class.leave(oldCell, oldLabel)
		var lbl cellLabel
		if p.ops.Eval(n.w) {
			lbl = labelFree
		} else {
			lbl = labelObst
		}
		n.label = lbl
		n.cell = newCell
		p.class.enter(newCell, lbl)
	}
}

// AdaptationStep runs one competitive-Hebbian adaptation iteration.
func (p *Planner) AdaptationStep() {
	x := p.sample()

	els, _, err := p.nearest(x, 2)
	if err != nil || len(els) < 2 {
		p.skipped++
		p.step++

		return
	}
	n1idx := els[0].Data().(nodeIdx)
	n2idx := els[1].Data().(nodeIdx)

	p.connect(n1idx, n2idx)

	n1, err := p.ar.node(n1idx)
	if err != nil {
		p.skipped++
		p.step++

		return
	}

	d2, err := vecd.Dist2(x, n1.w)
	if err == nil {
		stepInCycle := p.step % uint64(p.params.Lambda)
		decay := p.beta.pow(uint64(p.params.Lambda) - stepInCycle)
		p.bumpError(n1idx, n1, d2*decay)
	}

	p.moveNode(n1idx, n1, x, p.params.EpsilonB)

	for _, nb := range p.neighbors(n1idx) {
		if nn, err := p.ar.node(nb); err == nil {
			p.moveNode(nb, nn, x, p.params.EpsilonN)
		}
	}

	p.ageEdges(n1idx)

	p.step++
}

// ageEdges increments the age of every edge incident to idx, removing any
// that exceed age_max.
func (p *Planner) ageEdges(idx nodeIdx) {
	n, err := p.ar.node(idx)
	if err != nil {
		return
	}
	edges := make([]edgeIdx, len(n.edges))
	copy(edges, n.edges)

	for _, eidx := range edges {
		e, err := p.ar.edge(eidx)
		if err != nil {
			continue
		}
		e.age++
		if e.age > p.params.AgeMax {
			p.removeEdge(eidx)
		}
	}
}

// GrowthStep splits the highest-error node.
func (p *Planner) GrowthStep() {
	for {
		qidx, _, ok := p.heap.max()
		if !ok {
			return
		}
		qn, err := p.ar.node(qidx)
		if err != nil {
			return
		}

		nbs := p.neighbors(qidx)
		if len(nbs) == 0 {
			// A heap-resident node should always keep neighbors; guard and retry.
			p.deleteNode(qidx)
			continue
		}

		fidx := p.maxErrorAmong(nbs)
		fn, err := p.ar.node(fidx)
		if err != nil {
			return
		}

		// Splitting two nodes closer than the resolution floor would insert
		// a near-duplicate; damp their errors instead so another region is
		// picked next time.
		if d2, err := vecd.Dist2(qn.w, fn.w); err == nil &&
			p.params.MinDist > 0 && d2 < p.params.MinDist*p.params.MinDist {
			qErr := p.fixedUpError(qn)
			fErr := p.fixedUpError(fn)
			p.bumpError(qidx, qn, qErr*p.params.Alpha-qErr)
			p.bumpError(fidx, fn, fErr*p.params.Alpha-fErr)

			return
		}

		rw, err := vecd.Lerp(qn.w, fn.w, 0.5)
		if err != nil {
			return
		}

		if p.ops.NewNodeBetween != nil {
			p.ops.NewNodeBetween(qn.w, fn.w, rw)
		}

		qErr := p.fixedUpError(qn)
		fErr := p.fixedUpError(fn)

		oldEdge, hadEdge := p.findEdge(qidx, fidx)

		ridx := p.createNode(rw)
		p.connect(qidx, ridx)
		p.connect(fidx, ridx)

		// q and f are now each wired to r, so removing their direct edge (if
		// any) cannot drop either to zero degree.
		if hadEdge {
			p.removeEdge(oldEdge)
		}

		if qn, err := p.ar.node(qidx); err == nil {
			p.bumpError(qidx, qn, qErr*p.params.Alpha-qErr)
		}
		if fn, err := p.ar.node(fidx); err == nil {
			p.bumpError(fidx, fn, fErr*p.params.Alpha-fErr)
		}
		if rn, err := p.ar.node(ridx); err == nil {
			p.bumpError(ridx, rn, (qErr+fErr)/2-p.fixedUpError(rn))
		}

		p.cycle++
		p.log.Debug().Uint64("cycle", p.cycle).Msg("gngp: growth step")

		return
	}
}

func (p *Planner) maxErrorAmong(idxs []nodeIdx) nodeIdx {
	best := idxs[0]
	bestErr := -1.0
	for _, idx := range idxs {
		n, err := p.ar.node(idx)
		if err != nil {
			continue
		}
		e := p.fixedUpError(n)
		if e > bestErr {
			bestErr = e
			best = idx
		}
	}

	return best
}

// NumNodes and NumEdges report live arena occupancy.
func (p *Planner) NumNodes() int {
	count := 0
	for i := range p.ar.nodes {
		if p.ar.nodes[i].live {
			count++
		}
	}

	return count
}

func (p *Planner) NumEdges() int {
	count := 0
	for i := range p.ar.edges {
		if p.ar.edges[i].live {
			count++
		}
	}

	return count
}

// Skipped returns the number of adaptation steps that drew a sample but
// could not find two distinct network nodes to adapt.
func (p *Planner) Skipped() int {
	return p.skipped
}

// BestError returns the current maximum fixed-up error in the network.
func (p *Planner) BestError() float64 {
	idx, _, ok := p.heap.max()
	if !ok {
		return 0
	}
	n, err := p.ar.node(idx)
	if err != nil {
		return 0
	}

	return p.fixedUpError(n)
}

// Nodes returns a snapshot of every live node's weight, for inspection after
// Run returns.
func (p *Planner) Nodes() []vecd.Vec {
	out := make([]vecd.Vec, 0, p.NumNodes())
	for i := range p.ar.nodes {
		if p.ar.nodes[i].live {
			out = append(out, p.ar.nodes[i].w.Clone())
		}
	}

	return out
}

// Label is the public view of a classification-grid cell state.
type Label int

const (
	LabelUnknown Label = iota
	LabelFree
	LabelObst
)

// LabelAt reports the merged classification of the cell containing q.
func (p *Planner) LabelAt(q vecd.Vec) Label {
	if len(q) != p.params.D {
		return LabelUnknown
	}

	return Label(p.class.Label(q))
}

// Edges returns a snapshot of every live edge as its two endpoint weights,
// for inspection after Run returns.
func (p *Planner) Edges() [][2]vecd.Vec {
	out := make([][2]vecd.Vec, 0, p.NumEdges())
	for i := range p.ar.edges {
		e := &p.ar.edges[i]
		if !e.live {
			continue
		}
		na, errA := p.ar.node(e.a)
		nb, errB := p.ar.node(e.b)
		if errA != nil || errB != nil {
			continue
		}
		out = append(out, [2]vecd.Vec{na.w.Clone(), nb.w.Clone()})
	}

	return out
}

// Path returns the most recently extracted path, or nil if none has been
// found yet.
func (p *Planner) Path() []vecd.Vec {
	if !p.pathFound {
		return nil
	}
	out := make([]vecd.Vec, len(p.path))
	for i, w := range p.path {
		out[i] = w.Clone()
	}

	return out
}

// Run executes the adaptation loop until Terminate reports true or a
// path is found.
func (p *Planner) Run() error {
	for {
		stats := p.currentStats()
		if p.ops.Terminate(stats) {
			return nil
		}

		p.AdaptationStep()

		if p.step%uint64(p.params.Lambda) == 0 {
			p.GrowthStep()
		}

		if p.params.CallbackPeriod > 0 && p.step%p.params.CallbackPeriod == 0 && p.ops.Callback != nil {
			p.ops.Callback(p.currentStats())
		}

		if p.cycle >= p.params.WarmStart && p.params.FindPathPeriod > 0 &&
			p.cycle%p.params.FindPathPeriod == 0 {
			if path, err := p.extractPath(); err == nil {
				p.path = path
				p.pathFound = true

				return nil
			}
		}
	}
}

func (p *Planner) currentStats() Stats {
	return Stats{
		Step:       p.step,
		Cycle:      p.cycle,
		NumNodes:   p.NumNodes(),
		NumEdges:   p.NumEdges(),
		LastGrowth: p.cycle,
		BestError:  p.BestError(),
		PathFound:  p.pathFound,
	}
}
