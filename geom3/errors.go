package geom3

import "errors"

// Sentinel errors for the geom3 package.
var (
	// ErrDegenerateTriangle indicates a triangle whose three points are
	// collinear (zero area), so no normal/axes can be derived.
	ErrDegenerateTriangle = errors.New("geom3: degenerate (zero-area) triangle")

	// ErrSingularMatrix indicates a 3x3 matrix could not be inverted.
	ErrSingularMatrix = errors.New("geom3: singular matrix")
)
