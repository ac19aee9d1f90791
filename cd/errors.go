package cd

import "errors"

var (
	// ErrNotBuilt indicates a collision query against a geom whose OBB tree
	// has not been finalised with Build since its last shape change.
	ErrNotBuilt = errors.New("cd: geom not built")

	// ErrNoShapes indicates Build was called on a geom with no shapes added.
	ErrNoShapes = errors.New("cd: geom has no shapes")

	// ErrForeignGeom indicates a geom owned by a different Context was passed
	// in.
	ErrForeignGeom = errors.New("cd: geom belongs to another context")
)
