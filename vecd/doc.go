// Package vecd implements the dimension-generic arithmetic kernels that the
// rest of Fermat/Boruvka treats as known primitives: fixed-length vectors
// over ℝᵈ, an axis-aligned bounding box, and the handful of O(d) operations
// (dot, add/sub/scale, squared distance, clamp, lerp) that the GUG spatial
// index and the GNG-P planner build on.
//
// github.com/golang/geo/r3 (used by the 3-D collision core) is fixed at
// three dimensions, so these dimension-generic helpers are written by hand
// rather than pulled from a dependency.
//
// Every Vec carries its dimension implicitly as len(v); callers that mix
// vectors of different lengths get ErrDimMismatch rather than a silent
// truncation or out-of-range panic.
package vecd
