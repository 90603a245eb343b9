package value

// Role-type spellings and their arithmetic base types. Role information is
// not preserved through up-cast; only the base type is normalized.
var roleTypes = map[string]string{
	"color3h":    "half3",
	"color3f":    "float3",
	"color3d":    "double3",
	"color4h":    "half4",
	"color4f":    "float4",
	"color4d":    "double4",
	"point3h":    "half3",
	"point3f":    "float3",
	"point3d":    "double3",
	"normal3h":   "half3",
	"normal3f":   "float3",
	"normal3d":   "double3",
	"vector3h":   "half3",
	"vector3f":   "float3",
	"vector3d":   "double3",
	"texCoord2h": "half2",
	"texCoord2f": "float2",
	"texCoord2d": "double2",
	"texCoord3h": "half3",
	"texCoord3f": "float3",
	"texCoord3d": "double3",
	"frame4d":    "matrix4d",
	"timecode":   "double",
}

var baseTypeIDs = func() map[string]TypeID {
	m := make(map[string]TypeID, len(typeNames))
	for id, name := range typeNames {
		if _, exists := m[name]; !exists {
			m[name] = id
		}
	}
	// StringData shares the "string" spelling; declared "string" means the
	// plain string type.
	m["string"] = TypeIDString
	return m
}()

// UnderlyingTypeID resolves a declared type name, role spellings included,
// to the arithmetic base TypeID.
func UnderlyingTypeID(name string) (TypeID, bool) {
	if base, ok := roleTypes[name]; ok {
		name = base
	}
	id, ok := baseTypeIDs[name]
	return id, ok
}

func halfToFloat(h Half) float32 { return h.Float32() }

// Upcast widens a half-precision payload to the float or double counterpart
// demanded by the declared type name. It returns the widened value and true
// when a conversion applied; otherwise the input value and false. No other
// conversions are performed.
func Upcast(declared string, v Value) (Value, bool) {
	tyid, ok := UnderlyingTypeID(declared)
	if !ok {
		return v, false
	}

	switch tyid {
	case TypeIDFloat:
		if h, ok := As[Half](v); ok {
			return New(halfToFloat(h)), true
		}
	case TypeIDFloat2:
		if h, ok := As[Half2](v); ok {
			return New(Float2{halfToFloat(h[0]), halfToFloat(h[1])}), true
		}
	case TypeIDFloat3:
		if h, ok := As[Half3](v); ok {
			return New(Float3{halfToFloat(h[0]), halfToFloat(h[1]), halfToFloat(h[2])}), true
		}
	case TypeIDFloat4:
		if h, ok := As[Half4](v); ok {
			return New(Float4{halfToFloat(h[0]), halfToFloat(h[1]), halfToFloat(h[2]), halfToFloat(h[3])}), true
		}
	case TypeIDDouble:
		if h, ok := As[Half](v); ok {
			return New(float64(halfToFloat(h))), true
		}
	case TypeIDDouble2:
		if h, ok := As[Half2](v); ok {
			return New(Double2{float64(halfToFloat(h[0])), float64(halfToFloat(h[1]))}), true
		}
	case TypeIDDouble3:
		if h, ok := As[Half3](v); ok {
			return New(Double3{float64(halfToFloat(h[0])), float64(halfToFloat(h[1])), float64(halfToFloat(h[2]))}), true
		}
	case TypeIDDouble4:
		if h, ok := As[Half4](v); ok {
			return New(Double4{float64(halfToFloat(h[0])), float64(halfToFloat(h[1])), float64(halfToFloat(h[2])), float64(halfToFloat(h[3]))}), true
		}
	}

	return v, false
}
