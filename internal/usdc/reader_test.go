package usdc

import (
	"strings"
	"testing"

	"stagecrate/internal/crate"
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

func TestReconstructEmptyRoot(t *testing.T) {
	nodes := []crate.Node{{Path: spath.Root(), LocalPath: spath.Root(), Parent: -1}}
	specs := []crate.Spec{{PathIndex: 0, FieldSetIndex: 0, Type: crate.SpecTypePseudoRoot}}
	live := map[crate.Index]crate.FieldValuePairs{
		0: {fv("upAxis", value.Token("Y")), fv("metersPerUnit", float64(0.01))},
	}
	paths := []spath.Path{spath.Root()}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, paths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v\n%s", err, r.Error())
	}

	if stage.Metas.UpAxis == nil || *stage.Metas.UpAxis != value.AxisY {
		t.Errorf("upAxis = %v", stage.Metas.UpAxis)
	}
	if stage.Metas.MetersPerUnit == nil || *stage.Metas.MetersPerUnit != 0.01 {
		t.Errorf("metersPerUnit = %v", stage.Metas.MetersPerUnit)
	}
	if len(stage.RootPrims) != 0 {
		t.Errorf("root prims = %d, want 0", len(stage.RootPrims))
	}
	if r.Error() != "" {
		t.Errorf("error = %q", r.Error())
	}
}

func TestReconstructEmptyScene(t *testing.T) {
	r := testReader(DefaultConfig(), nil, nil, nil, nil, nil)
	if _, err := mustReconstruct(r); err != nil {
		t.Fatalf("empty scene must succeed: %v", err)
	}
	if !strings.Contains(r.Warning(), "empty scene") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestReconstructSingleXform(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v\n%s", err, r.Error())
	}

	if len(stage.RootPrims) != 1 {
		t.Fatalf("root prims = %d, want 1", len(stage.RootPrims))
	}
	prim := stage.RootPrims[0]
	if prim.TypeName() != "Xform" {
		t.Errorf("type = %q, want Xform", prim.TypeName())
	}
	if prim.Name() != "rig" {
		t.Errorf("name = %q, want rig", prim.Name())
	}
	if prim.Specifier != value.SpecifierDef {
		t.Errorf("specifier = %v", prim.Specifier)
	}

	xform := prim.Value.(*scene.Xform)
	if len(xform.XformOpOrder) != 1 || xform.XformOpOrder[0] != "xformOp:translate" {
		t.Errorf("xformOpOrder = %v", xform.XformOpOrder)
	}
	if r.Warning() != "" {
		t.Errorf("warnings = %q, want none", r.Warning())
	}
}

func TestReconstructOverSpecifierSkipsSubtree(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	live[1] = crate.FieldValuePairs{fv("specifier", value.SpecifierOver), fv("typeName", value.Token("Xform"))}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v", err)
	}
	if len(stage.RootPrims) != 0 {
		t.Errorf("root prims = %d, want 0", len(stage.RootPrims))
	}
	if !strings.Contains(r.Warning(), "`over` specifier") || !strings.Contains(r.Warning(), "skipping subtree") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestReconstructClassSpecifierSkipsSubtree(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	live[1] = crate.FieldValuePairs{fv("specifier", value.SpecifierClass)}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v", err)
	}
	if len(stage.RootPrims) != 0 {
		t.Errorf("root prims = %d, want 0", len(stage.RootPrims))
	}
	if !strings.Contains(r.Warning(), "`class` specifier") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestReconstructMissingSpecifier(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	live[1] = crate.FieldValuePairs{fv("typeName", value.Token("Xform"))}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	if _, err := mustReconstruct(r); err == nil {
		t.Fatal("missing specifier must fail")
	}
	if !r.Diagnostics().HasErrorKind(diag.KindMissingSpecifier) {
		t.Errorf("error = %q", r.Error())
	}
}

func TestReconstructDuplicatePathIndex(t *testing.T) {
	nodes, _, live, paths, elemPaths := singleXformTables()
	specs := []crate.Spec{
		{PathIndex: 5, FieldSetIndex: 0, Type: crate.SpecTypePrim},
		{PathIndex: 5, FieldSetIndex: 1, Type: crate.SpecTypePrim},
	}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	if _, err := mustReconstruct(r); err == nil {
		t.Fatal("duplicate path index must fail")
	}
	if !r.Diagnostics().HasErrorKind(diag.KindDuplicatePathIndex) {
		t.Errorf("error = %q", r.Error())
	}
}

func TestReconstructSentinelPathIndexSkipped(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	specs = append(specs,
		crate.Spec{PathIndex: crate.InvalidIndex, FieldSetIndex: 0, Type: crate.SpecTypePrim},
		crate.Spec{PathIndex: crate.InvalidIndex, FieldSetIndex: 1, Type: crate.SpecTypePrim},
	)

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	if _, err := mustReconstruct(r); err != nil {
		t.Fatalf("sentinel path indices must not collide: %v", err)
	}
}

func TestReconstructUnknownPrimTypeWarns(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	live[1] = crate.FieldValuePairs{fv("specifier", value.SpecifierDef), fv("typeName", value.Token("HoloDisplay"))}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v", err)
	}
	if len(stage.RootPrims) != 0 {
		t.Errorf("unknown type must not produce a prim")
	}
	if !strings.Contains(r.Warning(), "unsupported prim type `HoloDisplay`") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestReconstructMissingTypeNameDefaultsToModel(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	live[1] = crate.FieldValuePairs{fv("specifier", value.SpecifierDef)}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v", err)
	}
	if len(stage.RootPrims) != 1 || stage.RootPrims[0].TypeName() != "Model" {
		t.Fatalf("root prims = %+v", stage.RootPrims)
	}
	if !strings.Contains(r.Warning(), "treating it as Model") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestReconstructNestedPrims(t *testing.T) {
	nodes := []crate.Node{
		{Path: spath.Root(), LocalPath: spath.Root(), Parent: -1, Children: []uint32{1}},
		{Path: primPath("/world"), LocalPath: spath.NewElementPath("world"), Parent: 0, Children: []uint32{2}},
		{Path: primPath("/world/geo"), LocalPath: spath.NewElementPath("geo"), Parent: 1},
	}
	specs := []crate.Spec{
		{PathIndex: 0, FieldSetIndex: 0, Type: crate.SpecTypePseudoRoot},
		{PathIndex: 1, FieldSetIndex: 1, Type: crate.SpecTypePrim},
		{PathIndex: 2, FieldSetIndex: 2, Type: crate.SpecTypePrim},
	}
	live := map[crate.Index]crate.FieldValuePairs{
		0: {},
		1: {fv("specifier", value.SpecifierDef), fv("typeName", value.Token("Xform"))},
		2: {fv("specifier", value.SpecifierDef), fv("typeName", value.Token("Scope"))},
	}
	paths := []spath.Path{nodes[0].Path, nodes[1].Path, nodes[2].Path}
	elemPaths := []spath.Path{spath.Root(), spath.NewElementPath("world"), spath.NewElementPath("geo")}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v\n%s", err, r.Error())
	}

	if len(stage.RootPrims) != 1 {
		t.Fatalf("root prims = %d", len(stage.RootPrims))
	}
	world := stage.RootPrims[0]
	if world.Name() != "world" || len(world.Children) != 1 {
		t.Fatalf("world = %q children=%d", world.Name(), len(world.Children))
	}
	if got := world.Children[0].TypeName(); got != "Scope" {
		t.Errorf("child type = %q", got)
	}
}

func TestReconstructDepthExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPrimNestLevel = 2

	// Chain: root -> a -> b -> c nests past the limit.
	nodes := []crate.Node{
		{Path: spath.Root(), LocalPath: spath.Root(), Parent: -1, Children: []uint32{1}},
		{Path: primPath("/a"), LocalPath: spath.NewElementPath("a"), Parent: 0, Children: []uint32{2}},
		{Path: primPath("/a/b"), LocalPath: spath.NewElementPath("b"), Parent: 1, Children: []uint32{3}},
		{Path: primPath("/a/b/c"), LocalPath: spath.NewElementPath("c"), Parent: 2},
	}
	def := crate.FieldValuePairs{fv("specifier", value.SpecifierDef), fv("typeName", value.Token("Scope"))}
	specs := []crate.Spec{
		{PathIndex: 0, FieldSetIndex: 0, Type: crate.SpecTypePseudoRoot},
		{PathIndex: 1, FieldSetIndex: 1, Type: crate.SpecTypePrim},
		{PathIndex: 2, FieldSetIndex: 1, Type: crate.SpecTypePrim},
		{PathIndex: 3, FieldSetIndex: 1, Type: crate.SpecTypePrim},
	}
	live := map[crate.Index]crate.FieldValuePairs{0: {}, 1: def}
	paths := []spath.Path{nodes[0].Path, nodes[1].Path, nodes[2].Path, nodes[3].Path}
	elemPaths := []spath.Path{spath.Root(), spath.NewElementPath("a"), spath.NewElementPath("b"), spath.NewElementPath("c")}

	r := testReader(cfg, nodes, specs, live, paths, elemPaths)
	if _, err := mustReconstruct(r); err == nil {
		t.Fatal("nesting past the limit must fail")
	}
	if !r.Diagnostics().HasErrorKind(diag.KindDepthExceeded) {
		t.Errorf("error = %q", r.Error())
	}
}

func TestReconstructVariantSetWarns(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	specs[1] = crate.Spec{PathIndex: 1, FieldSetIndex: 1, Type: crate.SpecTypeVariantSet}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	if _, err := mustReconstruct(r); err != nil {
		t.Fatalf("ReconstructStage: %v", err)
	}
	if !strings.Contains(r.Warning(), "VariantSet spec") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestReconstructNodeWithoutSpecIsTransparent(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	// Drop the prim spec; its property child keeps a spec but the walk
	// reaches it with a non-prim parent.
	specs = []crate.Spec{specs[0], specs[2]}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v\n%s", err, r.Error())
	}
	if len(stage.RootPrims) != 0 {
		t.Errorf("root prims = %d", len(stage.RootPrims))
	}
	if !strings.Contains(r.Warning(), "no owning prim") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestReconstructOversizedPrimFieldSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFieldValuePairs = 2

	nodes, specs, live, paths, elemPaths := singleXformTables()
	live[1] = crate.FieldValuePairs{
		fv("specifier", value.SpecifierDef),
		fv("typeName", value.Token("Xform")),
		fv("active", true),
	}

	r := testReader(cfg, nodes, specs, live, paths, elemPaths)
	if _, err := mustReconstruct(r); err == nil {
		t.Fatal("oversized fieldset must fail")
	}
	if !r.Diagnostics().HasErrorKind(diag.KindOversizedFieldSet) {
		t.Errorf("error = %q", r.Error())
	}
}

func TestReconstructPrimMetaAttachment(t *testing.T) {
	nodes, specs, live, paths, elemPaths := singleXformTables()
	live[1] = crate.FieldValuePairs{
		fv("specifier", value.SpecifierDef),
		fv("typeName", value.Token("Xform")),
		fv("active", false),
		fv("kind", value.Token("component")),
		fv("documentation", "a rig\nwith two lines"),
	}

	r := testReader(DefaultConfig(), nodes, specs, live, paths, elemPaths)
	stage, err := mustReconstruct(r)
	if err != nil {
		t.Fatalf("ReconstructStage: %v\n%s", err, r.Error())
	}

	meta := stage.RootPrims[0].Value.PrimMeta()
	if meta.Active == nil || *meta.Active {
		t.Errorf("active = %v", meta.Active)
	}
	if meta.Kind == nil || *meta.Kind != value.KindComponent {
		t.Errorf("kind = %v", meta.Kind)
	}
	if meta.Doc == nil || !meta.Doc.TripleQuoted {
		t.Errorf("doc = %+v", meta.Doc)
	}
}

func TestPathLookupBounds(t *testing.T) {
	r := testReader(DefaultConfig(), nil, nil, nil, []spath.Path{spath.Root()}, []spath.Path{spath.Root()})

	if _, err := r.path(0); err != nil {
		t.Fatalf("path(0): %v", err)
	}
	_, err := r.path(9)
	if err == nil {
		t.Fatal("out-of-range path index must fail")
	}
	var de *diag.Error
	if !errorAs(err, &de) || de.Kind != diag.KindTableBounds {
		t.Errorf("err = %v", err)
	}
}

func errorAs(err error, target **diag.Error) bool {
	de, ok := err.(*diag.Error)
	if ok {
		*target = de
	}
	return ok
}

func TestConfigNormalization(t *testing.T) {
	cfg := Config{NumThreads: -1}.normalized()
	if cfg.NumThreads < 1 || cfg.NumThreads > 1024 {
		t.Errorf("NumThreads = %d", cfg.NumThreads)
	}
	if cfg.MaxFieldValuePairs != 4096 || cfg.MaxElementSize != 1024 || cfg.MaxPrimNestLevel != 256 {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	huge := Config{NumThreads: 1 << 20}.normalized()
	if huge.NumThreads != 1024 {
		t.Errorf("NumThreads = %d, want clamp to 1024", huge.NumThreads)
	}
}
