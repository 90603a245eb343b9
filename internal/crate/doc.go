// Package crate decodes the binary Crate container into low-level tables:
// interned tokens, strings, field descriptors, fieldset index runs, paths,
// and spec records. It owns the wire-level concerns (section table, LZ4
// block envelopes, integer coding, packed value representations) and stops
// at typed tables; internal/usdc turns those tables into a Stage.
package crate
