package value

import (
	"testing"

	"github.com/x448/float16"

	"stagecrate/internal/spath"
)

func TestTypeIDAndName(t *testing.T) {
	tests := []struct {
		name     string
		val      Value
		id       TypeID
		typeName string
	}{
		{"bool", New(true), TypeIDBool, "bool"},
		{"int", New(int32(7)), TypeIDInt, "int"},
		{"uint64", New(uint64(1)), TypeIDUInt64, "uint64"},
		{"half", New(float16.Fromfloat32(1.5)), TypeIDHalf, "half"},
		{"float", New(float32(2)), TypeIDFloat, "float"},
		{"double", New(float64(2)), TypeIDDouble, "double"},
		{"float3", New(Float3{1, 2, 3}), TypeIDFloat3, "float3"},
		{"half3", New(Half3{}), TypeIDHalf3, "half3"},
		{"matrix4d", New(Matrix4d{}), TypeIDMatrix4d, "matrix4d"},
		{"token", New(Token("Xform")), TypeIDToken, "token"},
		{"string", New("hello"), TypeIDString, "string"},
		{"asset", New(AssetPath("tex.png")), TypeIDAssetPath, "asset"},
		{"specifier", New(SpecifierDef), TypeIDSpecifier, "specifier"},
		{"variability", New(VariabilityUniform), TypeIDVariability, "variability"},
		{"dictionary", New(Dictionary{}), TypeIDDictionary, "dictionary"},
		{"timesamples", New(TimeSamples{}), TypeIDTimeSamples, "TimeSamples"},
		{"listop path", New(ListOp[spath.Path]{}), TypeIDListOpPath, "ListOp[Path]"},
		{"listop token", New(ListOp[Token]{}), TypeIDListOpToken, "ListOp[token]"},
		{"path", New(spath.NewPrimPath("/a")), TypeIDPath, "Path"},
		{"path vector", New(PathVector{}), TypeIDPathVector, "Path[]"},
		{"block", New(Block{}), TypeIDBlock, "None"},
		{"token array", New([]Token{"a"}), TypeIDToken | TypeIDArrayBit, "token[]"},
		{"float3 array", New([]Float3{{1, 2, 3}}), TypeIDFloat3 | TypeIDArrayBit, "float3[]"},
		{"int array", New([]int32{1, 2}), TypeIDInt | TypeIDArrayBit, "int[]"},
		{"empty", Value{}, TypeIDInvalid, "[[Invalid]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.TypeID(); got != tt.id {
				t.Errorf("TypeID() = %v, want %v", got, tt.id)
			}
			if got := tt.val.TypeName(); got != tt.typeName {
				t.Errorf("TypeName() = %q, want %q", got, tt.typeName)
			}
		})
	}
}

func TestAsTagCheck(t *testing.T) {
	v := New(Float3{1, 2, 3})

	if got, ok := As[Float3](v); !ok || got != (Float3{1, 2, 3}) {
		t.Fatalf("As[Float3] = %v, %v", got, ok)
	}
	if _, ok := As[Double3](v); ok {
		t.Fatal("As[Double3] must fail on a float3 payload")
	}
	if _, ok := As[float32](v); ok {
		t.Fatal("As[float32] must fail on a float3 payload")
	}
}

func TestEnumRoundTrip(t *testing.T) {
	for _, i := range []Interpolation{InterpolationConstant, InterpolationUniform, InterpolationVarying, InterpolationVertex, InterpolationFaceVarying} {
		got, ok := InterpolationFromString(i.String())
		if !ok || got != i {
			t.Errorf("interpolation %v did not round-trip: got %v, ok=%v", i, got, ok)
		}
	}
	for _, k := range []Kind{KindModel, KindGroup, KindAssembly, KindComponent, KindSubcomponent, KindSceneLibrary} {
		got, ok := KindFromString(k.String())
		if !ok || got != k {
			t.Errorf("kind %v did not round-trip: got %v, ok=%v", k, got, ok)
		}
	}
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		got, ok := AxisFromString(a.String())
		if !ok || got != a {
			t.Errorf("axis %v did not round-trip: got %v, ok=%v", a, got, ok)
		}
	}
	for _, s := range []Specifier{SpecifierDef, SpecifierOver, SpecifierClass} {
		got, ok := SpecifierFromString(s.String())
		if !ok || got != s {
			t.Errorf("specifier %v did not round-trip: got %v, ok=%v", s, got, ok)
		}
	}
}

func TestSpecifierWireOrder(t *testing.T) {
	if SpecifierDef != 0 || SpecifierOver != 1 || SpecifierClass != 2 {
		t.Fatal("Specifier numeric order is wire-visible and must stay Def=0, Over=1, Class=2")
	}
}

func TestStringDataTripleQuote(t *testing.T) {
	if NewStringData("one line").TripleQuoted {
		t.Error("single-line string must not be triple-quoted")
	}
	if !NewStringData("two\nlines").TripleQuoted {
		t.Error("multi-line string must be triple-quoted")
	}
}
