package value

import (
	"strings"

	"github.com/x448/float16"

	"stagecrate/internal/spath"
)

// Half is an IEEE 754 half-precision float as stored on the wire.
type Half = float16.Float16

// Fixed-lane vector types. Quaternions store (x, y, z, w) with w the real
// part, matching the Crate layout.
type (
	Half2 [2]Half
	Half3 [3]Half
	Half4 [4]Half

	Float2 [2]float32
	Float3 [3]float32
	Float4 [4]float32

	Double2 [2]float64
	Double3 [3]float64
	Double4 [4]float64

	Int2 [2]int32
	Int3 [3]int32
	Int4 [4]int32

	Quath [4]Half
	Quatf [4]float32
	Quatd [4]float64
)

// Matrices are row-major NxN doubles.
type (
	Matrix2d [2][2]float64
	Matrix3d [3][3]float64
	Matrix4d [4][4]float64
)

// Token is an interned name string.
type Token string

func (t Token) String() string { return string(t) }

// AssetPath references an external asset by path.
type AssetPath string

// StringData is a string metadatum. TripleQuoted records whether the value
// round-trips as a triple-quoted literal (set when it contains a newline).
type StringData struct {
	Value        string
	TripleQuoted bool
}

// NewStringData builds a StringData, marking it triple-quoted iff the value
// contains a newline.
func NewStringData(s string) StringData {
	return StringData{Value: s, TripleQuoted: strings.ContainsRune(s, '\n')}
}

// LayerOffset shifts and scales time values of a referenced layer.
type LayerOffset struct {
	Offset float64
	Scale  float64
}

// Payload is a deferred composition arc target.
type Payload struct {
	AssetPath   string
	PrimPath    spath.Path
	LayerOffset LayerOffset
}

// Reference is a composition arc target with optional custom data.
type Reference struct {
	AssetPath   AssetPath
	PrimPath    spath.Path
	LayerOffset LayerOffset
	CustomData  Dictionary
}

// Extent is an axis-aligned bound.
type Extent struct {
	Lower Float3
	Upper Float3
}

// Block marks an attribute value explicitly blocked (authored None).
type Block struct{}

// PathVector is a list of scene paths, the payload of relationship fields
// such as targetChildren.
type PathVector []spath.Path
