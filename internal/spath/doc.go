// Package spath models scene-graph paths as decoded from Crate path tables.
//
// A path addresses either a prim ("/root/geo/mesh") or one of its properties
// ("/root/geo/mesh.points"). Property names may be namespaced with ':'
// ("primvars:st"). Methods of the internal/usdc Reader resolve Crate path
// indices into these values; this package only carries the structure.
package spath
