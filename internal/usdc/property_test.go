package usdc

import (
	"strings"
	"testing"

	"github.com/x448/float16"

	"stagecrate/internal/crate"
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

func parsePropHelper(t *testing.T, specType crate.SpecType, fvs crate.FieldValuePairs) (scene.Property, *Reader, error) {
	t.Helper()
	r := testReader(DefaultConfig(), nil, nil, nil, nil, nil)
	prop, err := r.parseProperty(specType, fvs)
	return prop, r, err
}

func half3(a, b, c float32) value.Half3 {
	return value.Half3{float16.Fromfloat32(a), float16.Fromfloat32(b), float16.Fromfloat32(c)}
}

func TestParsePropertyScalarAttr(t *testing.T) {
	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float")),
		fv("default", float32(1.25)),
		fv("variability", value.VariabilityUniform),
		fv("custom", true),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Type != scene.PropertyAttribute {
		t.Fatalf("type = %v", prop.Type)
	}
	if !prop.Custom {
		t.Error("custom flag lost")
	}
	if prop.Attr.Variability != value.VariabilityUniform {
		t.Errorf("variability = %v", prop.Attr.Variability)
	}
	if got, ok := value.As[float32](prop.Attr.Scalar); !ok || got != 1.25 {
		t.Errorf("scalar = %v, %v", got, ok)
	}
}

func TestParsePropertyHalfToFloatUpcast(t *testing.T) {
	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float3")),
		fv("default", half3(1, 2, 3)),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	got, ok := value.As[value.Float3](prop.Attr.Scalar)
	if !ok {
		t.Fatalf("stored type = %s, want float3", prop.Attr.Scalar.TypeName())
	}
	if got != (value.Float3{1, 2, 3}) {
		t.Errorf("scalar = %v", got)
	}
}

func TestParsePropertyRoleUpcast(t *testing.T) {
	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("color3f")),
		fv("default", half3(1, 0, 0)),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Attr.Scalar.TypeName() != "float3" {
		t.Errorf("stored type = %s, want float3", prop.Attr.Scalar.TypeName())
	}
}

func TestParsePropertyTimeSamples(t *testing.T) {
	var ts value.TimeSamples
	ts.Add(0, value.New(float64(1)))
	ts.Add(10, value.New(float64(2)))

	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("double")),
		fv("timeSamples", ts),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Type != scene.PropertyAttribute || !prop.Attr.HasSamples() {
		t.Fatalf("prop = %+v", prop)
	}
	if prop.Attr.Samples.Len() != 2 {
		t.Errorf("samples = %d", prop.Attr.Samples.Len())
	}
}

func TestParsePropertyEmptyAttr(t *testing.T) {
	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float3")),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Type != scene.PropertyEmptyAttribute {
		t.Fatalf("type = %v", prop.Type)
	}
	if prop.Attr.TypeName != "float3" {
		t.Errorf("declared type = %q", prop.Attr.TypeName)
	}
}

func TestParsePropertyMissingTypeName(t *testing.T) {
	_, r, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("custom", false),
	})
	if err == nil {
		t.Fatal("attribute without typeName must fail")
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.KindMissingTypeName {
		t.Errorf("err = %v", err)
	}
	_ = r
}

func TestParsePropertyNoTargetRelationship(t *testing.T) {
	prop, _, err := parsePropHelper(t, crate.SpecTypeRelationship, crate.FieldValuePairs{})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Type != scene.PropertyNoTargetRelationship {
		t.Fatalf("type = %v", prop.Type)
	}
	if prop.Rel.Form != scene.RelationshipEmpty {
		t.Errorf("form = %v", prop.Rel.Form)
	}
}

func TestParsePropertyConnectionSingle(t *testing.T) {
	target := propPath("/mat/shader", "outputs:rgb")
	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float3")),
		fv("connectionPaths", value.NewExplicitListOp([]spath.Path{target})),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Type != scene.PropertyConnection {
		t.Fatalf("type = %v", prop.Type)
	}
	if prop.Rel.Form != scene.RelationshipPath || prop.Rel.Target.String() != "/mat/shader.outputs:rgb" {
		t.Errorf("target = %+v", prop.Rel)
	}
	if prop.Attr.TypeName != "float3" {
		t.Errorf("declared type = %q", prop.Attr.TypeName)
	}
}

func TestParsePropertyConnectionMulti(t *testing.T) {
	targets := []spath.Path{primPath("/a"), primPath("/b")}
	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float3")),
		fv("connectionPaths", value.NewExplicitListOp(targets)),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Rel.Form != scene.RelationshipPathVector || len(prop.Rel.Targets) != 2 {
		t.Errorf("targets = %+v", prop.Rel)
	}
}

func TestParsePropertyConnectionRequiresExplicit(t *testing.T) {
	op := value.ListOp[spath.Path]{AppendedItems: []spath.Path{primPath("/a")}}
	_, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float3")),
		fv("connectionPaths", op),
	})
	if err == nil {
		t.Fatal("non-explicit connectionPaths must fail")
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.KindListOpUnsupported {
		t.Errorf("err = %v", err)
	}
}

func TestParsePropertyRelationshipSingleBucket(t *testing.T) {
	op := value.ListOp[spath.Path]{PrependedItems: []spath.Path{primPath("/skel")}}
	prop, r, err := parsePropHelper(t, crate.SpecTypeRelationship, crate.FieldValuePairs{
		fv("targetPaths", op),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Type != scene.PropertyRelationship {
		t.Fatalf("type = %v", prop.Type)
	}
	if prop.Rel.ListEdit != value.ListEditPrepend {
		t.Errorf("qualifier = %v", prop.Rel.ListEdit)
	}
	if r.Warning() != "" {
		t.Errorf("unexpected warning %q", r.Warning())
	}
}

func TestParsePropertyRelationshipMultiBucketWarns(t *testing.T) {
	op := value.ListOp[spath.Path]{
		PrependedItems: []spath.Path{primPath("/p1"), primPath("/p2")},
		AppendedItems:  []spath.Path{primPath("/a1")},
	}
	prop, r, err := parsePropHelper(t, crate.SpecTypeRelationship, crate.FieldValuePairs{
		fv("targetPaths", op),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	// Bucket order is explicit, add, append, delete, prepend, order; the
	// first non-empty one wins.
	if prop.Rel.ListEdit != value.ListEditAppend {
		t.Errorf("qualifier = %v", prop.Rel.ListEdit)
	}
	if !strings.Contains(r.Warning(), "multiple list-edit qualifiers") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestParsePropertyRelationshipEmptyTargets(t *testing.T) {
	_, _, err := parsePropHelper(t, crate.SpecTypeRelationship, crate.FieldValuePairs{
		fv("targetPaths", value.ListOp[spath.Path]{}),
	})
	if err == nil {
		t.Fatal("empty targetPaths must fail")
	}
}

func TestParsePropertyElementSizeRange(t *testing.T) {
	for _, size := range []int32{0, 1025} {
		_, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
			fv("typeName", value.Token("float")),
			fv("elementSize", size),
		})
		if err == nil {
			t.Fatalf("elementSize %d must fail", size)
		}
		de, ok := err.(*diag.Error)
		if !ok || de.Kind != diag.KindOutOfRangeValue {
			t.Errorf("err = %v", err)
		}
	}

	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float")),
		fv("elementSize", int32(4)),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Attr.Meta.ElementSize == nil || *prop.Attr.Meta.ElementSize != 4 {
		t.Errorf("elementSize = %v", prop.Attr.Meta.ElementSize)
	}
}

func TestParsePropertyInterpolation(t *testing.T) {
	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float3[]")),
		fv("interpolation", value.Token("faceVarying")),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Attr.Meta.Interpolation == nil || *prop.Attr.Meta.Interpolation != value.InterpolationFaceVarying {
		t.Errorf("interpolation = %v", prop.Attr.Meta.Interpolation)
	}

	_, _, err = parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float3[]")),
		fv("interpolation", value.Token("sideways")),
	})
	if err == nil {
		t.Fatal("invalid interpolation token must fail")
	}
}

func TestParsePropertyCommentTripleQuote(t *testing.T) {
	prop, _, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float")),
		fv("comment", "line one\nline two"),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if prop.Attr.Meta.Comment == nil || !prop.Attr.Meta.Comment.TripleQuoted {
		t.Errorf("comment = %+v", prop.Attr.Meta.Comment)
	}
}

func TestParsePropertyUnknownFieldWarns(t *testing.T) {
	_, r, err := parsePropHelper(t, crate.SpecTypeAttribute, crate.FieldValuePairs{
		fv("typeName", value.Token("float")),
		fv("glitterFactor", float32(11)),
	})
	if err != nil {
		t.Fatalf("parseProperty: %v", err)
	}
	if !strings.Contains(r.Warning(), "glitterFactor") {
		t.Errorf("warning = %q", r.Warning())
	}
}

func TestParsePropertyTypeMismatches(t *testing.T) {
	tests := []struct {
		name string
		fvs  crate.FieldValuePairs
	}{
		{"custom not bool", crate.FieldValuePairs{fv("custom", int32(1))}},
		{"typeName not token", crate.FieldValuePairs{fv("typeName", "float")}},
		{"timeSamples wrong type", crate.FieldValuePairs{fv("timeSamples", float32(1))}},
		{"elementSize not int", crate.FieldValuePairs{fv("typeName", value.Token("float")), fv("elementSize", float32(2))}},
		{"customData not dict", crate.FieldValuePairs{fv("typeName", value.Token("float")), fv("customData", "x")}},
		{"targetChildren not path vector", crate.FieldValuePairs{fv("typeName", value.Token("float")), fv("targetChildren", "x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parsePropHelper(t, crate.SpecTypeAttribute, tt.fvs)
			if err == nil {
				t.Fatal("type mismatch must fail")
			}
			de, ok := err.(*diag.Error)
			if !ok || de.Kind != diag.KindFieldTypeMismatch {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestParsePropertyOversizedFieldSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFieldValuePairs = 3

	fvs := make(crate.FieldValuePairs, 4)
	for i := range fvs {
		fvs[i] = fv("custom", true)
	}
	r := testReader(cfg, nil, nil, nil, nil, nil)
	_, err := r.parseProperty(crate.SpecTypeAttribute, fvs)
	if err == nil {
		t.Fatal("oversized fieldset must fail")
	}
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.KindOversizedFieldSet {
		t.Errorf("err = %v", err)
	}
}
