// Package gngp implements the Growing-Neural-Gas Planner: a topology-learning
// network that incrementally discovers the free configuration space of a
// robot by competitive Hebbian adaptation of weighted graph nodes, driven by
// samples labelled free/obstacle through a user-supplied evaluator.
//
// A Planner owns four pieces of state: the node/edge graph (stored in an
// arena of generation-tagged indices rather than pointers, so stale handles
// from a deleted node are detected rather than silently dereferenced), a
// *gug.Grid spatial index over node weights, a max-error pairing heap driving
// growth, and a cell-classification grid recording FREE/OBST/UNKNOWN labels
// independent of the GUG.
//
// Run executes the adaptation loop to termination: draw a sample, find its
// two nearest nodes, adapt weights and edge ages, periodically split the
// highest-error node, and periodically attempt a warm-start path extraction.
// The loop is single-threaded; see the package-level Parameters and
// Operations types for the full configuration surface.
package gngp
