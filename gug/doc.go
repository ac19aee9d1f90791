// Package gug implements the Generalised Uniform Grid: an auto-resizing
// spatial-hashing nearest-neighbour index over ℝᵈ. It underlies every
// sampling query made by the gngp planner and is independent of it — a Grid
// can be used standalone to index any set of positioned elements.
//
// A Grid partitions its axis-aligned bounding box into a d-dimensional array
// of cells, each holding a doubly-linked list of elements. Locating the
// elements nearest a query point walks outward from the query's own cell in
// expanding "shells"; a bounded max-heap tracks the best candidates seen so
// far, and the search stops as soon as no unscanned cell could possibly hold
// a closer point (exact mode) or as soon as the heap fills (approximate
// mode).
//
// Element handles returned by Add remain valid and stable across Remove,
// Update, and internal rehashing: a rehash rewrites cell storage only, never
// the handles held by callers.
package gug
