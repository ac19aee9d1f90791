// Package sceneio reads and writes the two boundary file formats: flat
// whitespace-separated triangle soups (nine floats per triangle) and the
// parenthesised s-expression form of a persisted geom (world transform plus
// its OBB tree with leaf shapes). It is a pluggable layer over the core
// types — nothing in cd, shapes, or obbtree depends on it.
//
// The s-expression writer emits a canonical rendering, so a
// write/read/write cycle is byte-identical.
package sceneio
