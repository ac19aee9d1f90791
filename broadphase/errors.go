package broadphase

import "errors"

var (
	// ErrUnknownID indicates an Update or Remove for an id that was never
	// added (or already removed).
	ErrUnknownID = errors.New("broadphase: unknown geom id")

	// ErrDuplicateID indicates an Add for an id already registered.
	ErrDuplicateID = errors.New("broadphase: duplicate geom id")
)
