// Package gngp (Fermat/Boruvka) is a sampling-based robot motion-planning
// toolkit for Go.
//
// 🚀 What is Fermat/Boruvka?
//
//	Three tightly coupled subsystems that together discover the free
//	configuration space of a robot and plan through it:
//
//	  • GNG-P planner: a growing-neural-gas network that learns free vs.
//	    obstacle regions from labelled samples and extracts a path
//	  • GUG index: an auto-rehashing uniform-grid nearest-neighbour index
//	    over ℝᵈ backing every sampling query
//	  • Collision core: OBB trees over primitive shapes, pairwise
//	    collide/separate dispatch with a GJK/EPA fallback, and a
//	    sweep-and-prune broad phase
//
// ✨ Why choose Fermat/Boruvka?
//
//   - Single-writer design   — no locks, no sharing; one planner per thread
//   - Stable handles         — arena-backed nodes and grid elements survive
//     rehashing and growth
//   - Extensible             — user-supplied samplers, evaluators and
//     termination predicates drive the planner
//
// Under the hood, everything is organized in leaves-first order:
//
//	vecd/       — ℝᵈ vectors, AABBs and the arithmetic kernels
//	geom3/      — 3-D rotations, rigid poses, distance and overlap predicates
//	gug/        — generalised uniform grid with online re-gridding
//	obbtree/    — oriented-bounding-box hierarchy build, overlap, traversal
//	shapes/     — collision primitives and the pairwise dispatch table
//	broadphase/ — sweep-and-prune candidate-pair maintenance
//	cd/         — rigid-body geoms and the collision context
//	gngp/       — the growing-neural-gas planner and path extraction
//	sceneio/    — boundary file formats (raw triangles, persisted geoms)
//
// Quick ASCII example:
//
//	    start ●───○───○
//	              │   │      the network grows around obstacles
//	          ▓▓▓▓▓   ○───● goal
//
// Dive into DESIGN.md for the architecture notes and the reasoning behind
// each subsystem.
//
//	go get github.com/fermat-boruvka/gngp
package gngp
