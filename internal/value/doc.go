// Package value carries the tagged value container used throughout Crate
// decoding and Stage reconstruction.
//
// A Value owns exactly one payload drawn from a closed set of scene types:
// scalars, fixed-lane vectors and matrices in half/float/double precision,
// tokens and strings, typed arrays, dictionaries, time-sample series,
// list-edit operations, and paths. Typed extraction is tag-checked via As;
// TypeID and TypeName answer type queries without copying the payload.
//
// The package also owns the scene enumerations whose numeric order is
// wire-visible (Specifier, Variability, Permission, SpecType ordering lives
// in internal/crate) and the half-to-float widening rules applied when a
// declared attribute type outranks the inlined storage type.
package value
