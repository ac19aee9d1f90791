// Package geom3 provides the fixed-dimension (3-D) arithmetic kernels
// consumed by the collision-detection core: 3×3 rotation matrices,
// quaternions, rigid poses (rotation + translation), point/segment/triangle
// distance predicates with witness points, and the Guigue-Devillers
// triangle-triangle overlap test.
//
// Points and free vectors are represented with github.com/golang/geo/r3;
// everything dimension-generic lives in package vecd instead.
package geom3
