// Package scene holds the reconstructed stage model: the Stage and its
// metadata, the typed Prim tree, and the classified Property values attached
// to prims. It also carries the closed set of concrete prim schemas and one
// reconstruct function per schema; internal/usdc dispatches into these by
// type name while rebuilding the tree.
package scene
