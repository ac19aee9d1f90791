// Package cd ties the collision-detection subsystems together: a Context
// owns the broad phase and the build configuration, a Geom is one rigid body
// (world pose plus OBB tree roots over its shapes). Pairwise queries walk
// the two geoms' OBB trees in a shared frame and hand every surviving
// leaf-leaf pair to the narrow-phase shape dispatch; global queries iterate
// the sweep-and-prune candidates instead of all pairs.
//
// A geom whose pose changed is only re-read by the broad phase at the start
// of the next global query, so repeated pose updates between queries cost
// nothing.
package cd
