package shapes

import "errors"

var (
	// ErrDegenerateShape indicates a zero-radius sphere, zero-area triangle,
	// or similarly degenerate shape was rejected at construction.
	ErrDegenerateShape = errors.New("shapes: degenerate shape parameters")

	// ErrNoSupportFunction indicates the GJK/EPA fallback was reached for a
	// shape pair where at least one side has no usable support function
	//.
	ErrNoSupportFunction = errors.New("shapes: no support function available for GJK/EPA fallback")
)
