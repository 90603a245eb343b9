package value

import (
	"stagecrate/internal/spath"
)

// TypeID identifies a payload type. Array types set TypeIDArrayBit over
// their element's id.
type TypeID uint32

// TypeIDArrayBit marks one-dimensional array types.
const TypeIDArrayBit TypeID = 1 << 20

const (
	TypeIDInvalid TypeID = iota
	TypeIDBool
	TypeIDUChar
	TypeIDInt
	TypeIDUInt
	TypeIDInt64
	TypeIDUInt64
	TypeIDHalf
	TypeIDFloat
	TypeIDDouble
	TypeIDHalf2
	TypeIDHalf3
	TypeIDHalf4
	TypeIDFloat2
	TypeIDFloat3
	TypeIDFloat4
	TypeIDDouble2
	TypeIDDouble3
	TypeIDDouble4
	TypeIDInt2
	TypeIDInt3
	TypeIDInt4
	TypeIDQuath
	TypeIDQuatf
	TypeIDQuatd
	TypeIDMatrix2d
	TypeIDMatrix3d
	TypeIDMatrix4d
	TypeIDToken
	TypeIDString
	TypeIDStringData
	TypeIDAssetPath
	TypeIDSpecifier
	TypeIDPermission
	TypeIDVariability
	TypeIDDictionary
	TypeIDTimeSamples
	TypeIDListOpToken
	TypeIDListOpString
	TypeIDListOpPath
	TypeIDListOpReference
	TypeIDListOpPayload
	TypeIDListOpInt
	TypeIDListOpUInt
	TypeIDListOpInt64
	TypeIDListOpUInt64
	TypeIDPath
	TypeIDPathVector
	TypeIDPayload
	TypeIDReference
	TypeIDLayerOffset
	TypeIDExtent
	TypeIDBlock
)

// Value is the tagged container for one scene value. The zero Value holds
// nothing and reports TypeIDInvalid.
type Value struct {
	v any
}

// New wraps a payload. The payload must be one of the closed type set;
// anything else reports TypeIDInvalid from TypeID.
func New(v any) Value { return Value{v: v} }

// Raw exposes the payload for re-wrapping (e.g. up-cast). Prefer As.
func (v Value) Raw() any { return v.v }

// IsEmpty reports whether the container holds no payload.
func (v Value) IsEmpty() bool { return v.v == nil }

// As extracts the payload if and only if the runtime tag matches T.
func As[T any](v Value) (T, bool) {
	t, ok := v.v.(T)
	return t, ok
}

// TypeID returns the runtime tag of the payload.
func (v Value) TypeID() TypeID {
	switch v.v.(type) {
	case nil:
		return TypeIDInvalid
	case bool:
		return TypeIDBool
	case uint8:
		return TypeIDUChar
	case int32:
		return TypeIDInt
	case uint32:
		return TypeIDUInt
	case int64:
		return TypeIDInt64
	case uint64:
		return TypeIDUInt64
	case Half:
		return TypeIDHalf
	case float32:
		return TypeIDFloat
	case float64:
		return TypeIDDouble
	case Half2:
		return TypeIDHalf2
	case Half3:
		return TypeIDHalf3
	case Half4:
		return TypeIDHalf4
	case Float2:
		return TypeIDFloat2
	case Float3:
		return TypeIDFloat3
	case Float4:
		return TypeIDFloat4
	case Double2:
		return TypeIDDouble2
	case Double3:
		return TypeIDDouble3
	case Double4:
		return TypeIDDouble4
	case Int2:
		return TypeIDInt2
	case Int3:
		return TypeIDInt3
	case Int4:
		return TypeIDInt4
	case Quath:
		return TypeIDQuath
	case Quatf:
		return TypeIDQuatf
	case Quatd:
		return TypeIDQuatd
	case Matrix2d:
		return TypeIDMatrix2d
	case Matrix3d:
		return TypeIDMatrix3d
	case Matrix4d:
		return TypeIDMatrix4d
	case Token:
		return TypeIDToken
	case string:
		return TypeIDString
	case StringData:
		return TypeIDStringData
	case AssetPath:
		return TypeIDAssetPath
	case Specifier:
		return TypeIDSpecifier
	case Permission:
		return TypeIDPermission
	case Variability:
		return TypeIDVariability
	case Dictionary:
		return TypeIDDictionary
	case TimeSamples:
		return TypeIDTimeSamples
	case ListOp[Token]:
		return TypeIDListOpToken
	case ListOp[string]:
		return TypeIDListOpString
	case ListOp[spath.Path]:
		return TypeIDListOpPath
	case ListOp[Reference]:
		return TypeIDListOpReference
	case ListOp[Payload]:
		return TypeIDListOpPayload
	case ListOp[int32]:
		return TypeIDListOpInt
	case ListOp[uint32]:
		return TypeIDListOpUInt
	case ListOp[int64]:
		return TypeIDListOpInt64
	case ListOp[uint64]:
		return TypeIDListOpUInt64
	case spath.Path:
		return TypeIDPath
	case PathVector:
		return TypeIDPathVector
	case Payload:
		return TypeIDPayload
	case Reference:
		return TypeIDReference
	case LayerOffset:
		return TypeIDLayerOffset
	case Extent:
		return TypeIDExtent
	case Block:
		return TypeIDBlock

	case []bool:
		return TypeIDBool | TypeIDArrayBit
	case []uint8:
		return TypeIDUChar | TypeIDArrayBit
	case []int32:
		return TypeIDInt | TypeIDArrayBit
	case []uint32:
		return TypeIDUInt | TypeIDArrayBit
	case []int64:
		return TypeIDInt64 | TypeIDArrayBit
	case []uint64:
		return TypeIDUInt64 | TypeIDArrayBit
	case []Half:
		return TypeIDHalf | TypeIDArrayBit
	case []float32:
		return TypeIDFloat | TypeIDArrayBit
	case []float64:
		return TypeIDDouble | TypeIDArrayBit
	case []Half2:
		return TypeIDHalf2 | TypeIDArrayBit
	case []Half3:
		return TypeIDHalf3 | TypeIDArrayBit
	case []Half4:
		return TypeIDHalf4 | TypeIDArrayBit
	case []Float2:
		return TypeIDFloat2 | TypeIDArrayBit
	case []Float3:
		return TypeIDFloat3 | TypeIDArrayBit
	case []Float4:
		return TypeIDFloat4 | TypeIDArrayBit
	case []Double2:
		return TypeIDDouble2 | TypeIDArrayBit
	case []Double3:
		return TypeIDDouble3 | TypeIDArrayBit
	case []Double4:
		return TypeIDDouble4 | TypeIDArrayBit
	case []Int2:
		return TypeIDInt2 | TypeIDArrayBit
	case []Int3:
		return TypeIDInt3 | TypeIDArrayBit
	case []Int4:
		return TypeIDInt4 | TypeIDArrayBit
	case []Quath:
		return TypeIDQuath | TypeIDArrayBit
	case []Quatf:
		return TypeIDQuatf | TypeIDArrayBit
	case []Quatd:
		return TypeIDQuatd | TypeIDArrayBit
	case []Matrix2d:
		return TypeIDMatrix2d | TypeIDArrayBit
	case []Matrix3d:
		return TypeIDMatrix3d | TypeIDArrayBit
	case []Matrix4d:
		return TypeIDMatrix4d | TypeIDArrayBit
	case []Token:
		return TypeIDToken | TypeIDArrayBit
	case []string:
		return TypeIDString | TypeIDArrayBit
	case []AssetPath:
		return TypeIDAssetPath | TypeIDArrayBit
	default:
		return TypeIDInvalid
	}
}

var typeNames = map[TypeID]string{
	TypeIDInvalid:         "[[Invalid]]",
	TypeIDBool:            "bool",
	TypeIDUChar:           "uchar",
	TypeIDInt:             "int",
	TypeIDUInt:            "uint",
	TypeIDInt64:           "int64",
	TypeIDUInt64:          "uint64",
	TypeIDHalf:            "half",
	TypeIDFloat:           "float",
	TypeIDDouble:          "double",
	TypeIDHalf2:           "half2",
	TypeIDHalf3:           "half3",
	TypeIDHalf4:           "half4",
	TypeIDFloat2:          "float2",
	TypeIDFloat3:          "float3",
	TypeIDFloat4:          "float4",
	TypeIDDouble2:         "double2",
	TypeIDDouble3:         "double3",
	TypeIDDouble4:         "double4",
	TypeIDInt2:            "int2",
	TypeIDInt3:            "int3",
	TypeIDInt4:            "int4",
	TypeIDQuath:           "quath",
	TypeIDQuatf:           "quatf",
	TypeIDQuatd:           "quatd",
	TypeIDMatrix2d:        "matrix2d",
	TypeIDMatrix3d:        "matrix3d",
	TypeIDMatrix4d:        "matrix4d",
	TypeIDToken:           "token",
	TypeIDString:          "string",
	TypeIDStringData:      "string",
	TypeIDAssetPath:       "asset",
	TypeIDSpecifier:       "specifier",
	TypeIDPermission:      "permission",
	TypeIDVariability:     "variability",
	TypeIDDictionary:      "dictionary",
	TypeIDTimeSamples:     "TimeSamples",
	TypeIDListOpToken:     "ListOp[token]",
	TypeIDListOpString:    "ListOp[string]",
	TypeIDListOpPath:      "ListOp[Path]",
	TypeIDListOpReference: "ListOp[Reference]",
	TypeIDListOpPayload:   "ListOp[Payload]",
	TypeIDListOpInt:       "ListOp[int]",
	TypeIDListOpUInt:      "ListOp[uint]",
	TypeIDListOpInt64:     "ListOp[int64]",
	TypeIDListOpUInt64:    "ListOp[uint64]",
	TypeIDPath:            "Path",
	TypeIDPathVector:      "Path[]",
	TypeIDPayload:         "Payload",
	TypeIDReference:       "Reference",
	TypeIDLayerOffset:     "LayerOffset",
	TypeIDExtent:          "float3[]",
	TypeIDBlock:           "None",
}

// TypeName returns the declared-type spelling of the payload ("float3",
// "token[]", ...). Arrays render as the element name plus "[]".
func (v Value) TypeName() string { return TypeName(v.TypeID()) }

// TypeName spells a TypeID.
func TypeName(id TypeID) string {
	if id&TypeIDArrayBit != 0 {
		elem, ok := typeNames[id&^TypeIDArrayBit]
		if !ok {
			return "[[Invalid]]"
		}
		return elem + "[]"
	}
	name, ok := typeNames[id]
	if !ok {
		return "[[Invalid]]"
	}
	return name
}
