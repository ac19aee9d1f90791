package gngp

import "errors"

// Sentinel errors for gngp operations
// DegenerateInput / NoPath error kinds.
var (
	// ErrInvalidDim indicates d is not a supported planner dimension.
	ErrInvalidDim = errors.New("gngp: dimension must be 2, 3 or 6")
	// ErrInvalidAABB indicates the configured AABB is inverted or mismatched with d.
	ErrInvalidAABB = errors.New("gngp: AABB invalid for configured dimension")
	// ErrInvalidLambda indicates λ (split period) was not positive.
	ErrInvalidLambda = errors.New("gngp: lambda must be > 0")
	// ErrInvalidRate indicates α or β was outside [0,1].
	ErrInvalidRate = errors.New("gngp: alpha/beta must be in [0,1]")
	// ErrInvalidLearningRate indicates εb or εn was outside [0,1].
	ErrInvalidLearningRate = errors.New("gngp: epsilon_b/epsilon_n must be in [0,1]")
	// ErrMissingInputSignal indicates no input-signal sampler was configured.
	ErrMissingInputSignal = errors.New("gngp: input_signal operation is required")
	// ErrMissingEval indicates no FREE/OBST evaluator was configured.
	ErrMissingEval = errors.New("gngp: eval operation is required")
	// ErrMissingTerminate indicates no terminate predicate was configured.
	ErrMissingTerminate = errors.New("gngp: terminate operation is required")
	// ErrStartOutsideAABB indicates the start point lies outside the AABB.
	ErrStartOutsideAABB = errors.New("gngp: start point outside AABB")
	// ErrGoalOutsideAABB indicates the goal point lies outside the AABB.
	ErrGoalOutsideAABB = errors.New("gngp: goal point outside AABB")
	// ErrStaleHandle indicates a nodeIdx/edgeIdx's generation no longer matches
	// the arena slot (the node or edge it once named has been deleted/reused).
	ErrStaleHandle = errors.New("gngp: stale node or edge handle")
	// ErrNoPath indicates Dijkstra exhausted the in-arena graph without
	// reaching the goal.
	ErrNoPath = errors.New("gngp: no path from start to goal")
)
