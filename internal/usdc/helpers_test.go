package usdc

import (
	"stagecrate/internal/crate"
	"stagecrate/internal/scene"
	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

// testReader builds a Reader over injected tables, bypassing the byte
// decoder.
func testReader(cfg Config, nodes []crate.Node, specs []crate.Spec, live map[crate.Index]crate.FieldValuePairs, paths, elemPaths []spath.Path) *Reader {
	r := NewReader(nil, cfg)
	r.cr = nil
	r.nodes = nodes
	r.specs = specs
	r.live = live
	r.paths = paths
	r.elemPaths = elemPaths
	return r
}

func fv(name string, v any) crate.FieldValue {
	return crate.FieldValue{Name: name, Value: value.New(v)}
}

func primPath(s string) spath.Path { return spath.NewPrimPath(s) }

func propPath(prim, prop string) spath.Path {
	return spath.NewPrimPath(prim).AppendProperty(prop)
}

// singleXformTables builds the minimal pseudo-root + Xform + property
// hierarchy used by several tests.
func singleXformTables() ([]crate.Node, []crate.Spec, map[crate.Index]crate.FieldValuePairs, []spath.Path, []spath.Path) {
	nodes := []crate.Node{
		{Path: spath.Root(), LocalPath: spath.Root(), Parent: -1, Children: []uint32{1}},
		{Path: primPath("/rig"), LocalPath: spath.NewElementPath("rig"), Parent: 0, Children: []uint32{2}},
		{Path: propPath("/rig", "xformOpOrder"), LocalPath: spath.NewElementPath("xformOpOrder"), Parent: 1},
	}
	specs := []crate.Spec{
		{PathIndex: 0, FieldSetIndex: 0, Type: crate.SpecTypePseudoRoot},
		{PathIndex: 1, FieldSetIndex: 1, Type: crate.SpecTypePrim},
		{PathIndex: 2, FieldSetIndex: 2, Type: crate.SpecTypeAttribute},
	}
	live := map[crate.Index]crate.FieldValuePairs{
		0: {fv("upAxis", value.Token("Y"))},
		1: {fv("specifier", value.SpecifierDef), fv("typeName", value.Token("Xform"))},
		2: {fv("typeName", value.Token("token[]")), fv("default", []value.Token{"xformOp:translate"})},
	}
	paths := []spath.Path{nodes[0].Path, nodes[1].Path, nodes[2].Path}
	elemPaths := []spath.Path{spath.Root(), spath.NewElementPath("rig"), spath.NewElementPath("xformOpOrder")}
	return nodes, specs, live, paths, elemPaths
}

func mustReconstruct(r *Reader) (*scene.Stage, error) {
	var stage scene.Stage
	err := r.ReconstructStage(&stage)
	return &stage, err
}
