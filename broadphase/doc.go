// Package broadphase maintains the candidate colliding pairs of a set of
// moving axis-aligned bounding boxes via sweep-and-prune: each box's
// [min,max] projection on every axis is kept in a sorted endpoint list, and
// a sweep along the first axis admits exactly the pairs whose intervals
// overlap on all axes. Updates repair the near-sorted endpoint lists by
// insertion, so coherent motion costs far less than a fresh sort.
package broadphase
