package crate

// DataType is the wire enumeration of value types carried in a ValueRep.
type DataType uint8

const (
	DataTypeInvalid DataType = iota
	DataTypeBool
	DataTypeUChar
	DataTypeInt
	DataTypeUInt
	DataTypeInt64
	DataTypeUInt64
	DataTypeHalf
	DataTypeFloat
	DataTypeDouble
	DataTypeString
	DataTypeToken
	DataTypeAssetPath
	DataTypeMatrix2d
	DataTypeMatrix3d
	DataTypeMatrix4d
	DataTypeQuatd
	DataTypeQuatf
	DataTypeQuath
	DataTypeVec2d
	DataTypeVec2f
	DataTypeVec2h
	DataTypeVec2i
	DataTypeVec3d
	DataTypeVec3f
	DataTypeVec3h
	DataTypeVec3i
	DataTypeVec4d
	DataTypeVec4f
	DataTypeVec4h
	DataTypeVec4i
	DataTypeDictionary
	DataTypeTokenListOp
	DataTypeStringListOp
	DataTypePathListOp
	DataTypeReferenceListOp
	DataTypeIntListOp
	DataTypeInt64ListOp
	DataTypeUIntListOp
	DataTypeUInt64ListOp
	DataTypePathVector
	DataTypeTokenVector
	DataTypeSpecifier
	DataTypePermission
	DataTypeVariability
	DataTypeVariantSelectionMap
	DataTypeTimeSamples
	DataTypePayload
	DataTypeDoubleVector
	DataTypeLayerOffsetVector
	DataTypeStringVector
	DataTypeValueBlock
	DataTypeValue
	DataTypeUnregisteredValue
	DataTypeUnregisteredValueListOp
	DataTypePayloadListOp
	DataTypeTimeCode
)

// ValueRep packs a value into 64 bits: the payload (an inlined value or a
// file offset) in the low 48 bits, the data type in bits 48-55, and flag
// bits above.
type ValueRep uint64

const (
	valueRepIsArrayBit      ValueRep = 1 << 63
	valueRepIsInlinedBit    ValueRep = 1 << 62
	valueRepIsCompressedBit ValueRep = 1 << 61
	valueRepPayloadMask     ValueRep = (1 << 48) - 1
)

// NewValueRep packs the parts back into a rep. Used by tests and the
// fieldset builder.
func NewValueRep(ty DataType, inlined, array, compressed bool, payload uint64) ValueRep {
	rep := ValueRep(payload) & valueRepPayloadMask
	rep |= ValueRep(ty) << 48
	if inlined {
		rep |= valueRepIsInlinedBit
	}
	if array {
		rep |= valueRepIsArrayBit
	}
	if compressed {
		rep |= valueRepIsCompressedBit
	}
	return rep
}

// Type extracts the data type.
func (r ValueRep) Type() DataType { return DataType((r >> 48) & 0xff) }

// IsArray reports the array flag.
func (r ValueRep) IsArray() bool { return r&valueRepIsArrayBit != 0 }

// IsInlined reports whether the payload holds the value itself.
func (r ValueRep) IsInlined() bool { return r&valueRepIsInlinedBit != 0 }

// IsCompressed reports whether the out-of-line payload is compressed.
func (r ValueRep) IsCompressed() bool { return r&valueRepIsCompressedBit != 0 }

// Payload extracts the low 48 bits.
func (r ValueRep) Payload() uint64 { return uint64(r & valueRepPayloadMask) }
