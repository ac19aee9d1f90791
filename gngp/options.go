package gngp

import (
	"github.com/rs/zerolog"

	"github.com/fermat-boruvka/gngp/gug"
	"github.com/fermat-boruvka/gngp/vecd"
)

// Stats is the progress telemetry passed to Operations.Callback, mirroring
// the rich-telemetry-struct habit of the pack's space-time planner
// (mapf-het-research/internal/algo/astar3d.go) rather than threading bare
// scalars through the adaptation loop.
type Stats struct {
	Step       uint64
	Cycle      uint64
	NumNodes   int
	NumEdges   int
	LastGrowth uint64
	BestError  float64
	PathFound  bool
}

// Operations is the set of user-supplied callbacks a Planner is built from
//.
type Operations struct {
	// Init, if set, is called once before the first adaptation step with the
	// two seed node weights the planner is about to create.
	Init func(seedA, seedB vecd.Vec)

	// NewNode, if set, is called whenever a node is created directly (seed
	// nodes); NewNodeBetween is called when a node is created by splitting
	// an edge during a growth step.
	NewNode        func(w vecd.Vec)
	NewNodeBetween func(q, f, r vecd.Vec)

	// DelNode, if set, is called whenever a node is deleted.
	DelNode func(w vecd.Vec)

	// InputSignal draws the next sample from the configured AABB. Required
	// unless InputSignalSeed is set.
	InputSignal func() vecd.Vec

	// InputSignalSeed, if non-nil, seeds a deterministic RNG used by the
	// default InputSignal sampler (when InputSignal itself is left nil) so a
	// run can be replayed exactly, which the randomized invariant tests
	// rely on.
	InputSignalSeed *int64

	// Nearest overrides the k-nearest-neighbour query used by the
	// adaptation loop and by path extraction. It receives the planner's
	// spatial index and must return up to k elements sorted ascending by
	// squared distance, with their squared distances. If nil, the planner
	// calls the index's own Nearest.
	Nearest func(grid *gug.Grid, q vecd.Vec, k int) ([]*gug.Element, []float64, error)

	// Eval classifies a sample as FREE or OBST. Required.
	Eval func(x vecd.Vec) bool // true == FREE

	// MoveToward computes dst = a moved a fraction frac toward b; if nil,
	// the planner uses vecd.MoveToward.
	MoveToward func(dst, a, b vecd.Vec, frac float64) error

	// Terminate is polled once per adaptation step; returning true ends Run.
	// Required.
	Terminate func(s Stats) bool

	// Callback, if set, is invoked every CallbackPeriod adaptation steps.
	Callback func(s Stats)

	// FindPath, if set, overrides the straight-line free-path predicate used
	// to connect virtual start/goal nodes to the network during path
	// extraction; if nil, a straight segment is accepted unless one of the
	// points sampled along it (endpoints included) lies in a cell whose
	// merged classification is OBST.
	FindPath func(a, b vecd.Vec) bool
}

// Parameters is the planner's tunable parameter record.
type Parameters struct {
	D     int
	AABB  vecd.AABB
	Start vecd.Vec
	Goal  vecd.Vec

	// MaxDist, when > 0, bounds how far a virtual start/goal link may reach
	// during path extraction; non-positive means unlimited.
	MaxDist float64
	// MinDist is the network's resolution floor: a growth step whose two
	// split endpoints lie closer than MinDist is skipped (their errors are
	// still damped) rather than inserting a near-duplicate node.
	MinDist float64
	// MinNodes is the floor below which eviction never shrinks the network:
	// an orphaned node at the floor is re-attached to its nearest surviving
	// node instead of being deleted.
	MinNodes int

	Lambda    int
	AgeMax    int
	Alpha     float64
	Beta      float64
	EpsilonB  float64
	EpsilonN  float64
	WarmStart uint64

	// GUGInitialCells, GUGMaxDensity, GUGExpandRate, GUGApprox configure the
	// internal *gug.Grid.
	GUGInitialCells int
	GUGMaxDensity   float64
	GUGExpandRate   float64
	GUGApprox       bool

	// CallbackPeriod is how often (in adaptation steps) Callback fires.
	CallbackPeriod uint64
	// FindPathPeriod is how often (in adaptation cycles, post WarmStart) a
	// path-extraction attempt is made.
	FindPathPeriod uint64
	// MaxNeighbors bounds how many nearby GNG nodes a virtual start/goal
	// node connects to during path extraction.
	MaxNeighbors int
}

// Option configures a Planner at construction time, following the
// functional-options idiom used throughout the pack. Options themselves do
// not validate; New reports invalid parameters and missing required
// callbacks as errors.
type Option func(*config)

type config struct {
	ops    Operations
	params Parameters
	logger zerolog.Logger
}

// WithOperations sets the operations record.
func WithOperations(ops Operations) Option {
	return func(c *config) { c.ops = ops }
}

// WithParameters sets the parameters record.
func WithParameters(p Parameters) Option {
	return func(c *config) { c.params = p }
}

// WithLogger attaches a zerolog.Logger for structured run diagnostics
// (planner construction and growth steps). Defaults to
// zerolog.Nop() — logging is opt-in, never required to use the package.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// DefaultParameters returns sensible defaults for every Parameters field
// except D, AABB, Start, Goal, which have no meaningful default and must be
// supplied by the caller.
func DefaultParameters() Parameters {
	return Parameters{
		MaxDist:         0,
		MinDist:         1e-6,
		MinNodes:        2,
		Lambda:          200,
		AgeMax:          50,
		Alpha:           0.5,
		Beta:            0.995,
		EpsilonB:        0.2,
		EpsilonN:        0.006,
		WarmStart:       0,
		GUGInitialCells: 64,
		GUGMaxDensity:   2.0,
		GUGExpandRate:   1.5,
		GUGApprox:       false,
		CallbackPeriod:  100,
		FindPathPeriod:  50,
		MaxNeighbors:    5,
	}
}
