package scene

import (
	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

// TypedPrim is implemented by every concrete prim schema. The set is closed;
// adding a schema means adding a type here and an entry in the reconstruct
// dispatch table.
type TypedPrim interface {
	// PrimTypeName returns the schema's type name ("Xform", "GeomMesh", ...).
	PrimTypeName() string
	// PrimName returns the prim's name.
	PrimName() string
	// SetPrimName sets the prim's name. The caller keeps it in sync with
	// the element path.
	SetPrimName(name string)
	// PrimMeta exposes the prim metadata for attachment after reconstruct.
	PrimMeta() *PrimMeta
}

// Prim is one vertex of the reconstructed scene tree.
type Prim struct {
	ElementPath spath.Path
	Specifier   value.Specifier
	Value       TypedPrim
	Children    []Prim
}

// Name returns the prim name carried by the concrete value.
func (p *Prim) Name() string {
	if p.Value == nil {
		return ""
	}
	return p.Value.PrimName()
}

// SetElementPath updates the element path and keeps the concrete value's
// name in sync.
func (p *Prim) SetElementPath(path spath.Path) {
	p.ElementPath = path
	if p.Value != nil {
		p.Value.SetPrimName(path.Element())
	}
}

// TypeName returns the concrete schema name, or "" for an empty prim.
func (p *Prim) TypeName() string {
	if p.Value == nil {
		return ""
	}
	return p.Value.PrimTypeName()
}

// Stage is the reconstructed scene: layer metadata plus the root prims.
type Stage struct {
	Metas     StageMetas
	RootPrims []Prim
}

// PrimCount walks the tree and counts prims.
func (s *Stage) PrimCount() int {
	var walk func(prims []Prim) int
	walk = func(prims []Prim) int {
		n := len(prims)
		for i := range prims {
			n += walk(prims[i].Children)
		}
		return n
	}
	return walk(s.RootPrims)
}
