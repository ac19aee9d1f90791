package vecd

import "errors"

// Sentinel errors for the vecd package.
var (
	// ErrDimMismatch indicates two vectors (or a vector and an AABB) have
	// incompatible lengths for the requested operation.
	ErrDimMismatch = errors.New("vecd: dimension mismatch")

	// ErrBadDim indicates a requested dimension is not positive.
	ErrBadDim = errors.New("vecd: dimension must be > 0")

	// ErrInvertedAABB indicates an AABB whose Min exceeds its Max on some axis.
	ErrInvertedAABB = errors.New("vecd: AABB min exceeds max on some axis")
)
