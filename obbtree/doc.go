// Package obbtree builds and queries bounding-volume hierarchies of oriented
// bounding boxes (OBBs) over a set of leaf shapes.
//
// A Tree is either a Leaf, wrapping exactly one shape index, or an Internal
// node with two children; every node carries a centre, three orthonormal
// axes, and half-extents, all expressed in the owning geom's local frame.
// Construction merges leaves bottom-up (or top-down, per BuildFlags) into a
// single root; the merged OBB at each internal node is fit either by
// covariance analysis (eigenvectors of the point covariance as axes) or by a
// naive N-rotation-sample search
//
// Overlap testing between two OBBs in world frame uses the 15-axis
// separating-axis test (3 face-normal pairs plus 9 edge-edge cross
// products). Pairwise tree traversal descends into the larger-volume side at
// each overlapping internal pair and invokes a user callback on every
// leaf-leaf overlap, which may cut the traversal early by returning a
// sentinel.
package obbtree
