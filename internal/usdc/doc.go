// Package usdc reconstructs a scene.Stage from decoded Crate tables.
//
// The Reader drives internal/crate through the wire sections, then walks
// the node hierarchy depth-first: the pseudo-root yields stage metadata,
// Prim specs are parsed, classified, and dispatched to the schema set in
// internal/scene, and Attribute/Relationship specs are folded into their
// owning prim's property map. Fatal errors and warnings accumulate in an
// internal/diag sink and surface as tagged strings.
package usdc
