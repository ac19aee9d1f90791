package gngp_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermat-boruvka/gngp/gngp"
	"github.com/fermat-boruvka/gngp/gug"
	"github.com/fermat-boruvka/gngp/vecd"
)

func emptyBoxPlanner(t *testing.T, seed int64, maxSteps uint64) *gngp.Planner {
	t.Helper()

	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{10, 10})
	require.NoError(t, err)

	params := gngp.DefaultParameters()
	params.D = 2
	params.AABB = box
	params.Start = vecd.Vec{0.5, 0.5}
	params.Goal = vecd.Vec{9.5, 9.5}
	params.Lambda = 20
	params.CallbackPeriod = 20
	params.FindPathPeriod = 20
	params.WarmStart = 2

	seedCopy := seed
	ops := gngp.Operations{
		InputSignalSeed: &seedCopy,
		Eval:            func(vecd.Vec) bool { return true },
		Terminate: func(s gngp.Stats) bool {
			return s.Step >= maxSteps
		},
	}

	p, err := gngp.New(gngp.WithParameters(params), gngp.WithOperations(ops))
	require.NoError(t, err)

	return p
}

func TestNewValidatesDimension(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0, 0, 0}, vecd.Vec{1, 1, 1, 1})
	require.NoError(t, err)

	params := gngp.DefaultParameters()
	params.D = 4
	params.AABB = box
	params.Start = vecd.Vec{0, 0, 0, 0}
	params.Goal = vecd.Vec{1, 1, 1, 1}

	seed := int64(1)
	ops := gngp.Operations{
		InputSignalSeed: &seed,
		Eval:            func(vecd.Vec) bool { return true },
		Terminate:       func(gngp.Stats) bool { return true },
	}

	_, err = gngp.New(gngp.WithParameters(params), gngp.WithOperations(ops))
	assert.ErrorIs(t, err, gngp.ErrInvalidDim)
}

func TestNewRequiresEvalAndTerminate(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{1, 1})
	require.NoError(t, err)

	params := gngp.DefaultParameters()
	params.D = 2
	params.AABB = box
	params.Start = vecd.Vec{0, 0}
	params.Goal = vecd.Vec{1, 1}

	seed := int64(1)
	_, err = gngp.New(gngp.WithParameters(params),
		gngp.WithOperations(gngp.Operations{InputSignalSeed: &seed}))
	assert.ErrorIs(t, err, gngp.ErrMissingEval)

	_, err = gngp.New(gngp.WithParameters(params),
		gngp.WithOperations(gngp.Operations{InputSignalSeed: &seed, Eval: func(vecd.Vec) bool { return true }}))
	assert.ErrorIs(t, err, gngp.ErrMissingTerminate)
}

func TestNewRejectsOutOfBoundsStartGoal(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{1, 1})
	require.NoError(t, err)

	seed := int64(1)
	baseOps := gngp.Operations{
		InputSignalSeed: &seed,
		Eval:            func(vecd.Vec) bool { return true },
		Terminate:       func(gngp.Stats) bool { return true },
	}

	params := gngp.DefaultParameters()
	params.D = 2
	params.AABB = box
	params.Start = vecd.Vec{5, 5}
	params.Goal = vecd.Vec{0.5, 0.5}
	_, err = gngp.New(gngp.WithParameters(params), gngp.WithOperations(baseOps))
	assert.ErrorIs(t, err, gngp.ErrStartOutsideAABB)

	params.Start = vecd.Vec{0.5, 0.5}
	params.Goal = vecd.Vec{5, 5}
	_, err = gngp.New(gngp.WithParameters(params), gngp.WithOperations(baseOps))
	assert.ErrorIs(t, err, gngp.ErrGoalOutsideAABB)
}

func TestPlannerGrowsNetworkOverSteps(t *testing.T) {
	p := emptyBoxPlanner(t, 7, 0)
	initial := p.NumNodes()
	assert.Equal(t, 2, initial)

	for i := 0; i < 500; i++ {
		p.AdaptationStep()
		if (i+1)%20 == 0 {
			p.GrowthStep()
		}
	}

	assert.Greater(t, p.NumNodes(), initial)
}

func TestPlannerRunTerminatesOnStepBudget(t *testing.T) {
	p := emptyBoxPlanner(t, 11, 300)
	err := p.Run()
	require.NoError(t, err)
}

func TestOperationsNearestOverrideIsConsulted(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{10, 10})
	require.NoError(t, err)

	params := gngp.DefaultParameters()
	params.D = 2
	params.AABB = box
	params.Start = vecd.Vec{0.5, 0.5}
	params.Goal = vecd.Vec{9.5, 9.5}

	seed := int64(5)
	calls := 0
	ops := gngp.Operations{
		InputSignalSeed: &seed,
		Eval:            func(vecd.Vec) bool { return true },
		Terminate:       func(gngp.Stats) bool { return true },
		Nearest: func(grid *gug.Grid, q vecd.Vec, k int) ([]*gug.Element, []float64, error) {
			calls++
			return grid.Nearest(q, k)
		},
	}

	p, err := gngp.New(gngp.WithParameters(params), gngp.WithOperations(ops))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		p.AdaptationStep()
	}
	assert.Greater(t, calls, 0)
}

func TestMinNodesFloorPreventsCollapse(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{10, 10})
	require.NoError(t, err)

	params := gngp.DefaultParameters()
	params.D = 2
	params.AABB = box
	params.Start = vecd.Vec{0.5, 0.5}
	params.Goal = vecd.Vec{9.5, 9.5}
	// Edges die on the very next aging pass; without the floor the whole
	// network would evaporate.
	params.AgeMax = 0
	params.MinNodes = 2
	params.Lambda = 1000

	seed := int64(13)
	ops := gngp.Operations{
		InputSignalSeed: &seed,
		Eval:            func(vecd.Vec) bool { return true },
		Terminate:       func(gngp.Stats) bool { return true },
	}

	p, err := gngp.New(gngp.WithParameters(params), gngp.WithOperations(ops))
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		p.AdaptationStep()
	}
	assert.GreaterOrEqual(t, p.NumNodes(), params.MinNodes)
}

func TestPlannerThinWallPathStaysFree(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{10, 10})
	require.NoError(t, err)

	// Vertical wall at x=5 with a passage along the top edge.
	free := func(w vecd.Vec) bool {
		return w[0] < 4.9 || w[0] > 5.1 || w[1] > 9
	}

	params := gngp.DefaultParameters()
	params.D = 2
	params.AABB = box
	params.Start = vecd.Vec{0.5, 0.5}
	params.Goal = vecd.Vec{9.5, 0.5}
	params.Lambda = 20
	params.FindPathPeriod = 10
	params.CallbackPeriod = 1000
	params.WarmStart = 5
	params.MaxNeighbors = 8

	rng := rand.New(rand.NewSource(19))
	ops := gngp.Operations{
		InputSignal: func() vecd.Vec {
			return vecd.Vec{rng.Float64() * 10, rng.Float64() * 10}
		},
		Eval: free,
		Terminate: func(s gngp.Stats) bool {
			return s.PathFound || s.Step > 20000
		},
	}

	p, err := gngp.New(gngp.WithParameters(params), gngp.WithOperations(ops))
	require.NoError(t, err)
	require.NoError(t, p.Run())

	for _, w := range p.Path() {
		assert.True(t, free(w), "path waypoint %v inside the wall", w)
	}
}

func TestPlannerEnumerationSurface(t *testing.T) {
	p := emptyBoxPlanner(t, 23, 0)
	for i := 0; i < 200; i++ {
		p.AdaptationStep()
		if (i+1)%20 == 0 {
			p.GrowthStep()
		}
	}

	nodes := p.Nodes()
	assert.Equal(t, p.NumNodes(), len(nodes))

	edges := p.Edges()
	assert.Equal(t, p.NumEdges(), len(edges))
	for _, e := range edges {
		assert.NotEqual(t, e[0], e[1])
	}

	// Every eval in the empty box reports free, so any populated cell is
	// either still unknown or labelled free — never obstacle.
	for _, w := range nodes {
		assert.NotEqual(t, gngp.LabelObst, p.LabelAt(w))
	}
}

func TestPlannerFindsPathInEmptyBox(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{10, 10})
	require.NoError(t, err)

	params := gngp.DefaultParameters()
	params.D = 2
	params.AABB = box
	params.Start = vecd.Vec{0.5, 0.5}
	params.Goal = vecd.Vec{9.5, 9.5}
	params.Lambda = 20
	params.FindPathPeriod = 10
	params.CallbackPeriod = 1000
	params.WarmStart = 0
	params.MaxNeighbors = 8

	rng := rand.New(rand.NewSource(3))
	ops := gngp.Operations{
		InputSignal: func() vecd.Vec {
			return vecd.Vec{rng.Float64() * 10, rng.Float64() * 10}
		},
		Eval: func(vecd.Vec) bool { return true },
		Terminate: func(s gngp.Stats) bool {
			return s.PathFound || s.Step > 5000
		},
	}

	p, err := gngp.New(gngp.WithParameters(params), gngp.WithOperations(ops))
	require.NoError(t, err)

	require.NoError(t, p.Run())
	if p.Path() != nil {
		path := p.Path()
		assert.Equal(t, params.Start, path[0])
		assert.Equal(t, params.Goal, path[len(path)-1])
	}
}
