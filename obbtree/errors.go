package obbtree

import "errors"

var (
	// ErrEmptyLeafSet indicates Build was called with zero leaves.
	ErrEmptyLeafSet = errors.New("obbtree: cannot build a tree over zero leaves")

	// ErrDegenerateSeed indicates a leaf's fitted OBB has a zero-length axis
	// (collinear points) and was skipped.
	ErrDegenerateSeed = errors.New("obbtree: degenerate (collinear) seed points")

	// ErrBadThreadCount indicates BuildFlags.Threads was negative.
	ErrBadThreadCount = errors.New("obbtree: Threads must be >= 0")

	// ErrBadFitMode indicates an unrecognised FitMode value.
	ErrBadFitMode = errors.New("obbtree: unrecognised FitMode")
)
