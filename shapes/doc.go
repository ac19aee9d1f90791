// Package shapes implements the narrow-phase collision primitives: a sum
// type over {Sphere, Box, Capsule, Cylinder, Plane, Triangle, TriMesh,
// Offset}, a 2-D dispatch table of (collide, separate) function pairs keyed
// by shape-kind pair, and a generic GJK/EPA fallback for any pair the table
// doesn't cover.
//
// Every Shape exposes Support (for GJK/EPA), Center, and an OBB-fit leaf
// seed; symmetric table entries are derived from one direction via a
// direction-flip wrapper rather than being registered twice. Offset
// composes a rigid transform with an inner shape and always collapses two
// nested Offsets into one at construction time.
package shapes
