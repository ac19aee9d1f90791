package gug

import "errors"

// Sentinel errors for gug operations.
var (
	// ErrBadDim indicates a requested dimension is not positive.
	ErrBadDim = errors.New("gug: dimension must be > 0")
	// ErrDimMismatch indicates a position's dimension does not match the grid's.
	ErrDimMismatch = errors.New("gug: position dimension mismatch")
	// ErrOutOfBounds indicates a position lies outside the grid's AABB.
	ErrOutOfBounds = errors.New("gug: position outside grid AABB")
	// ErrBadInitialCells indicates initialCells was not positive.
	ErrBadInitialCells = errors.New("gug: initialCells must be > 0")
	// ErrBadMaxDensity indicates maxDensity was not positive.
	ErrBadMaxDensity = errors.New("gug: maxDensity must be > 0")
	// ErrBadExpandRate indicates expandRate was not greater than 1.
	ErrBadExpandRate = errors.New("gug: expandRate must be > 1")
	// ErrUnknownElement indicates an element handle does not belong to this grid.
	ErrUnknownElement = errors.New("gug: element does not belong to this grid")
	// ErrBadK indicates a non-positive k was passed to Nearest.
	ErrBadK = errors.New("gug: k must be > 0")
)
