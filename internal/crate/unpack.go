package crate

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"

	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

// unpackValueRep turns a packed rep into a tagged value. Inlined reps carry
// the value in the payload bits; everything else reads from the payload
// offset.
func (r *Reader) unpackValueRep(rep ValueRep) (value.Value, error) {
	if rep.IsInlined() {
		return r.unpackInlined(rep)
	}
	if rep.IsArray() {
		return r.unpackArray(rep)
	}
	return r.unpackOutOfLine(rep)
}

func (r *Reader) unpackInlined(rep ValueRep) (value.Value, error) {
	payload := rep.Payload()

	switch rep.Type() {
	case DataTypeBool:
		return value.New(payload != 0), nil
	case DataTypeUChar:
		return value.New(uint8(payload)), nil
	case DataTypeInt:
		return value.New(int32(uint32(payload))), nil
	case DataTypeUInt:
		return value.New(uint32(payload)), nil
	case DataTypeInt64:
		return value.New(int64(int32(uint32(payload)))), nil
	case DataTypeUInt64:
		return value.New(uint64(uint32(payload))), nil
	case DataTypeHalf:
		return value.New(float16.Frombits(uint16(payload))), nil
	case DataTypeFloat:
		return value.New(math.Float32frombits(uint32(payload))), nil
	case DataTypeDouble:
		// Inlined doubles are stored as their float32 form.
		return value.New(float64(math.Float32frombits(uint32(payload)))), nil
	case DataTypeToken:
		tok, err := r.token(Index(payload))
		if err != nil {
			return value.Value{}, err
		}
		return value.New(value.Token(tok)), nil
	case DataTypeString:
		s, err := r.stringValue(Index(payload))
		if err != nil {
			return value.Value{}, err
		}
		return value.New(s), nil
	case DataTypeAssetPath:
		tok, err := r.token(Index(payload))
		if err != nil {
			return value.Value{}, err
		}
		return value.New(value.AssetPath(tok)), nil
	case DataTypeSpecifier:
		if payload > uint64(value.SpecifierClass) {
			return value.Value{}, fmt.Errorf("inlined specifier %d out of range", payload)
		}
		return value.New(value.Specifier(payload)), nil
	case DataTypePermission:
		if payload > uint64(value.PermissionPrivate) {
			return value.Value{}, fmt.Errorf("inlined permission %d out of range", payload)
		}
		return value.New(value.Permission(payload)), nil
	case DataTypeVariability:
		if payload > uint64(value.VariabilityConfig) {
			return value.Value{}, fmt.Errorf("inlined variability %d out of range", payload)
		}
		return value.New(value.Variability(payload)), nil
	case DataTypeVec2i:
		return value.New(value.Int2{int32(int8(payload)), int32(int8(payload >> 8))}), nil
	case DataTypeVec3i:
		return value.New(value.Int3{int32(int8(payload)), int32(int8(payload >> 8)), int32(int8(payload >> 16))}), nil
	case DataTypeVec4i:
		return value.New(value.Int4{int32(int8(payload)), int32(int8(payload >> 8)), int32(int8(payload >> 16)), int32(int8(payload >> 24))}), nil
	case DataTypeVec2f:
		return value.New(value.Float2{float32(int8(payload)), float32(int8(payload >> 8))}), nil
	case DataTypeVec3f:
		return value.New(value.Float3{float32(int8(payload)), float32(int8(payload >> 8)), float32(int8(payload >> 16))}), nil
	case DataTypeVec4f:
		return value.New(value.Float4{float32(int8(payload)), float32(int8(payload >> 8)), float32(int8(payload >> 16)), float32(int8(payload >> 24))}), nil
	case DataTypeVec2d:
		return value.New(value.Double2{float64(int8(payload)), float64(int8(payload >> 8))}), nil
	case DataTypeVec3d:
		return value.New(value.Double3{float64(int8(payload)), float64(int8(payload >> 8)), float64(int8(payload >> 16))}), nil
	case DataTypeVec4d:
		return value.New(value.Double4{float64(int8(payload)), float64(int8(payload >> 8)), float64(int8(payload >> 16)), float64(int8(payload >> 24))}), nil
	case DataTypeVec2h:
		return value.New(value.Half2{float16.Fromfloat32(float32(int8(payload))), float16.Fromfloat32(float32(int8(payload >> 8)))}), nil
	case DataTypeVec3h:
		return value.New(value.Half3{float16.Fromfloat32(float32(int8(payload))), float16.Fromfloat32(float32(int8(payload >> 8))), float16.Fromfloat32(float32(int8(payload >> 16)))}), nil
	case DataTypeVec4h:
		return value.New(value.Half4{float16.Fromfloat32(float32(int8(payload))), float16.Fromfloat32(float32(int8(payload >> 8))), float16.Fromfloat32(float32(int8(payload >> 16))), float16.Fromfloat32(float32(int8(payload >> 24)))}), nil
	case DataTypeMatrix2d:
		var m value.Matrix2d
		for i := 0; i < 2; i++ {
			m[i][i] = float64(int8(payload >> uint(i*8)))
		}
		return value.New(m), nil
	case DataTypeMatrix3d:
		var m value.Matrix3d
		for i := 0; i < 3; i++ {
			m[i][i] = float64(int8(payload >> uint(i*8)))
		}
		return value.New(m), nil
	case DataTypeMatrix4d:
		var m value.Matrix4d
		for i := 0; i < 4; i++ {
			m[i][i] = float64(int8(payload >> uint(i*8)))
		}
		return value.New(m), nil
	case DataTypeValueBlock:
		return value.New(value.Block{}), nil
	case DataTypeTokenVector:
		if payload != 0 {
			return value.Value{}, fmt.Errorf("inlined token vector with non-zero payload")
		}
		return value.New([]value.Token{}), nil
	case DataTypeDictionary:
		if payload != 0 {
			return value.Value{}, fmt.Errorf("inlined dictionary with non-zero payload")
		}
		return value.New(value.Dictionary{}), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported inlined data type %d", rep.Type())
	}
}

func (r *Reader) unpackArray(rep ValueRep) (value.Value, error) {
	c, err := r.cursorAt(rep.Payload())
	if err != nil {
		return value.Value{}, err
	}
	count, err := c.u64()
	if err != nil {
		return value.Value{}, err
	}
	n := int(count)

	switch rep.Type() {
	case DataTypeInt:
		if rep.IsCompressed() {
			ints, err := readCompressedInts32(c, n)
			if err != nil {
				return value.Value{}, err
			}
			return value.New(ints), nil
		}
		out := make([]int32, n)
		for i := range out {
			v, err := c.u32()
			if err != nil {
				return value.Value{}, err
			}
			out[i] = int32(v)
		}
		return value.New(out), nil
	case DataTypeUInt:
		out := make([]uint32, n)
		for i := range out {
			if out[i], err = c.u32(); err != nil {
				return value.Value{}, err
			}
		}
		return value.New(out), nil
	case DataTypeInt64:
		out := make([]int64, n)
		for i := range out {
			v, err := c.u64()
			if err != nil {
				return value.Value{}, err
			}
			out[i] = int64(v)
		}
		return value.New(out), nil
	case DataTypeUInt64:
		out := make([]uint64, n)
		for i := range out {
			if out[i], err = c.u64(); err != nil {
				return value.Value{}, err
			}
		}
		return value.New(out), nil
	case DataTypeHalf:
		out := make([]value.Half, n)
		for i := range out {
			b, err := c.bytes(2)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = float16.Frombits(binary.LittleEndian.Uint16(b))
		}
		return value.New(out), nil
	case DataTypeFloat:
		out := make([]float32, n)
		for i := range out {
			if out[i], err = c.f32(); err != nil {
				return value.Value{}, err
			}
		}
		return value.New(out), nil
	case DataTypeDouble:
		out := make([]float64, n)
		for i := range out {
			if out[i], err = c.f64(); err != nil {
				return value.Value{}, err
			}
		}
		return value.New(out), nil
	case DataTypeVec2f:
		out := make([]value.Float2, n)
		for i := range out {
			for l := 0; l < 2; l++ {
				if out[i][l], err = c.f32(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(out), nil
	case DataTypeVec3f:
		out := make([]value.Float3, n)
		for i := range out {
			for l := 0; l < 3; l++ {
				if out[i][l], err = c.f32(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(out), nil
	case DataTypeVec4f:
		out := make([]value.Float4, n)
		for i := range out {
			for l := 0; l < 4; l++ {
				if out[i][l], err = c.f32(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(out), nil
	case DataTypeVec2d:
		out := make([]value.Double2, n)
		for i := range out {
			for l := 0; l < 2; l++ {
				if out[i][l], err = c.f64(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(out), nil
	case DataTypeVec3d:
		out := make([]value.Double3, n)
		for i := range out {
			for l := 0; l < 3; l++ {
				if out[i][l], err = c.f64(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(out), nil
	case DataTypeVec4d:
		out := make([]value.Double4, n)
		for i := range out {
			for l := 0; l < 4; l++ {
				if out[i][l], err = c.f64(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(out), nil
	case DataTypeMatrix4d:
		out := make([]value.Matrix4d, n)
		for i := range out {
			for row := 0; row < 4; row++ {
				for col := 0; col < 4; col++ {
					if out[i][row][col], err = c.f64(); err != nil {
						return value.Value{}, err
					}
				}
			}
		}
		return value.New(out), nil
	case DataTypeToken:
		out := make([]value.Token, n)
		for i := range out {
			idx, err := c.u32()
			if err != nil {
				return value.Value{}, err
			}
			tok, err := r.token(Index(idx))
			if err != nil {
				return value.Value{}, err
			}
			out[i] = value.Token(tok)
		}
		return value.New(out), nil
	case DataTypeString:
		out := make([]string, n)
		for i := range out {
			idx, err := c.u32()
			if err != nil {
				return value.Value{}, err
			}
			if out[i], err = r.stringValue(Index(idx)); err != nil {
				return value.Value{}, err
			}
		}
		return value.New(out), nil
	case DataTypeAssetPath:
		out := make([]value.AssetPath, n)
		for i := range out {
			idx, err := c.u32()
			if err != nil {
				return value.Value{}, err
			}
			tok, err := r.token(Index(idx))
			if err != nil {
				return value.Value{}, err
			}
			out[i] = value.AssetPath(tok)
		}
		return value.New(out), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported array data type %d", rep.Type())
	}
}

func (r *Reader) unpackOutOfLine(rep ValueRep) (value.Value, error) {
	c, err := r.cursorAt(rep.Payload())
	if err != nil {
		return value.Value{}, err
	}

	switch rep.Type() {
	case DataTypeInt64:
		v, err := c.u64()
		if err != nil {
			return value.Value{}, err
		}
		return value.New(int64(v)), nil
	case DataTypeUInt64:
		v, err := c.u64()
		if err != nil {
			return value.Value{}, err
		}
		return value.New(v), nil
	case DataTypeDouble:
		v, err := c.f64()
		if err != nil {
			return value.Value{}, err
		}
		return value.New(v), nil
	case DataTypeVec2f, DataTypeVec3f, DataTypeVec4f:
		return readVecF(c, rep.Type())
	case DataTypeVec2d, DataTypeVec3d, DataTypeVec4d:
		return readVecD(c, rep.Type())
	case DataTypeVec2h, DataTypeVec3h, DataTypeVec4h:
		return readVecH(c, rep.Type())
	case DataTypeQuath:
		var q value.Quath
		for i := range q {
			b, err := c.bytes(2)
			if err != nil {
				return value.Value{}, err
			}
			q[i] = float16.Frombits(binary.LittleEndian.Uint16(b))
		}
		return value.New(q), nil
	case DataTypeQuatf:
		var q value.Quatf
		for i := range q {
			if q[i], err = c.f32(); err != nil {
				return value.Value{}, err
			}
		}
		return value.New(q), nil
	case DataTypeQuatd:
		var q value.Quatd
		for i := range q {
			if q[i], err = c.f64(); err != nil {
				return value.Value{}, err
			}
		}
		return value.New(q), nil
	case DataTypeMatrix2d:
		var m value.Matrix2d
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				if m[i][j], err = c.f64(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(m), nil
	case DataTypeMatrix3d:
		var m value.Matrix3d
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if m[i][j], err = c.f64(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(m), nil
	case DataTypeMatrix4d:
		var m value.Matrix4d
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				if m[i][j], err = c.f64(); err != nil {
					return value.Value{}, err
				}
			}
		}
		return value.New(m), nil
	case DataTypeTokenVector:
		n, err := c.u64()
		if err != nil {
			return value.Value{}, err
		}
		out := make([]value.Token, n)
		for i := range out {
			idx, err := c.u32()
			if err != nil {
				return value.Value{}, err
			}
			tok, err := r.token(Index(idx))
			if err != nil {
				return value.Value{}, err
			}
			out[i] = value.Token(tok)
		}
		return value.New(out), nil
	case DataTypePathVector:
		n, err := c.u64()
		if err != nil {
			return value.Value{}, err
		}
		out := make(value.PathVector, n)
		for i := range out {
			idx, err := c.u32()
			if err != nil {
				return value.Value{}, err
			}
			p, err := r.pathAt(Index(idx))
			if err != nil {
				return value.Value{}, err
			}
			out[i] = p
		}
		return value.New(out), nil
	case DataTypePathListOp:
		op, err := readListOp(c, func(c *cursor) (spath.Path, error) {
			idx, err := c.u32()
			if err != nil {
				return spath.Path{}, err
			}
			return r.pathAt(Index(idx))
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypeTokenListOp:
		op, err := readListOp(c, func(c *cursor) (value.Token, error) {
			idx, err := c.u32()
			if err != nil {
				return "", err
			}
			tok, err := r.token(Index(idx))
			return value.Token(tok), err
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypeStringListOp:
		op, err := readListOp(c, func(c *cursor) (string, error) {
			idx, err := c.u32()
			if err != nil {
				return "", err
			}
			return r.stringValue(Index(idx))
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypeIntListOp:
		op, err := readListOp(c, func(c *cursor) (int32, error) {
			v, err := c.u32()
			return int32(v), err
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypeUIntListOp:
		op, err := readListOp(c, func(c *cursor) (uint32, error) { return c.u32() })
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypeInt64ListOp:
		op, err := readListOp(c, func(c *cursor) (int64, error) {
			v, err := c.u64()
			return int64(v), err
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypeUInt64ListOp:
		op, err := readListOp(c, func(c *cursor) (uint64, error) { return c.u64() })
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypeReferenceListOp:
		op, err := readListOp(c, r.readReference)
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypePayloadListOp:
		op, err := readListOp(c, r.readPayload)
		if err != nil {
			return value.Value{}, err
		}
		return value.New(op), nil
	case DataTypeDictionary:
		d, err := r.readDictionary(c)
		if err != nil {
			return value.Value{}, err
		}
		return value.New(d), nil
	case DataTypeTimeSamples:
		ts, err := r.readTimeSamples(c)
		if err != nil {
			return value.Value{}, err
		}
		return value.New(ts), nil
	case DataTypePayload:
		p, err := r.readPayload(c)
		if err != nil {
			return value.Value{}, err
		}
		return value.New(p), nil
	case DataTypeValueBlock:
		return value.New(value.Block{}), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported data type %d", rep.Type())
	}
}

func readVecF(c *cursor, ty DataType) (value.Value, error) {
	lanes := map[DataType]int{DataTypeVec2f: 2, DataTypeVec3f: 3, DataTypeVec4f: 4}[ty]
	var vals [4]float32
	for i := 0; i < lanes; i++ {
		v, err := c.f32()
		if err != nil {
			return value.Value{}, err
		}
		vals[i] = v
	}
	switch lanes {
	case 2:
		return value.New(value.Float2{vals[0], vals[1]}), nil
	case 3:
		return value.New(value.Float3{vals[0], vals[1], vals[2]}), nil
	default:
		return value.New(value.Float4{vals[0], vals[1], vals[2], vals[3]}), nil
	}
}

func readVecD(c *cursor, ty DataType) (value.Value, error) {
	lanes := map[DataType]int{DataTypeVec2d: 2, DataTypeVec3d: 3, DataTypeVec4d: 4}[ty]
	var vals [4]float64
	for i := 0; i < lanes; i++ {
		v, err := c.f64()
		if err != nil {
			return value.Value{}, err
		}
		vals[i] = v
	}
	switch lanes {
	case 2:
		return value.New(value.Double2{vals[0], vals[1]}), nil
	case 3:
		return value.New(value.Double3{vals[0], vals[1], vals[2]}), nil
	default:
		return value.New(value.Double4{vals[0], vals[1], vals[2], vals[3]}), nil
	}
}

func readVecH(c *cursor, ty DataType) (value.Value, error) {
	lanes := map[DataType]int{DataTypeVec2h: 2, DataTypeVec3h: 3, DataTypeVec4h: 4}[ty]
	var vals [4]value.Half
	for i := 0; i < lanes; i++ {
		b, err := c.bytes(2)
		if err != nil {
			return value.Value{}, err
		}
		vals[i] = float16.Frombits(binary.LittleEndian.Uint16(b))
	}
	switch lanes {
	case 2:
		return value.New(value.Half2{vals[0], vals[1]}), nil
	case 3:
		return value.New(value.Half3{vals[0], vals[1], vals[2]}), nil
	default:
		return value.New(value.Half4{vals[0], vals[1], vals[2], vals[3]}), nil
	}
}

// readListOp decodes the header byte and each flagged bucket: a count then
// that many items.
func readListOp[T any](c *cursor, readItem func(*cursor) (T, error)) (value.ListOp[T], error) {
	var op value.ListOp[T]

	header, err := c.u8()
	if err != nil {
		return op, err
	}
	op.Explicit = header&ListOpIsExplicitBit != 0

	readBucket := func() ([]T, error) {
		n, err := c.u64()
		if err != nil {
			return nil, err
		}
		items := make([]T, n)
		for i := range items {
			if items[i], err = readItem(c); err != nil {
				return nil, err
			}
		}
		return items, nil
	}

	if header&ListOpHasExplicitItemsBit != 0 {
		if op.ExplicitItems, err = readBucket(); err != nil {
			return op, err
		}
	}
	if header&ListOpHasAddedItemsBit != 0 {
		if op.AddedItems, err = readBucket(); err != nil {
			return op, err
		}
	}
	if header&ListOpHasDeletedItemsBit != 0 {
		if op.DeletedItems, err = readBucket(); err != nil {
			return op, err
		}
	}
	if header&ListOpHasOrderedItemsBit != 0 {
		if op.OrderedItems, err = readBucket(); err != nil {
			return op, err
		}
	}
	if header&ListOpHasPrependedItemsBit != 0 {
		if op.PrependedItems, err = readBucket(); err != nil {
			return op, err
		}
	}
	if header&ListOpHasAppendedItemsBit != 0 {
		if op.AppendedItems, err = readBucket(); err != nil {
			return op, err
		}
	}

	return op, nil
}

func (r *Reader) pathAt(idx Index) (spath.Path, error) {
	if uint64(idx) >= uint64(len(r.paths)) {
		return spath.Path{}, fmt.Errorf("path index %d out of range [0, %d)", idx, len(r.paths))
	}
	return r.paths[idx], nil
}

func (r *Reader) readLayerOffset(c *cursor) (value.LayerOffset, error) {
	var lo value.LayerOffset
	var err error
	if lo.Offset, err = c.f64(); err != nil {
		return lo, err
	}
	if lo.Scale, err = c.f64(); err != nil {
		return lo, err
	}
	return lo, nil
}

func (r *Reader) readReference(c *cursor) (value.Reference, error) {
	var ref value.Reference

	assetIdx, err := c.u32()
	if err != nil {
		return ref, err
	}
	asset, err := r.token(Index(assetIdx))
	if err != nil {
		return ref, err
	}
	ref.AssetPath = value.AssetPath(asset)

	pathIdx, err := c.u32()
	if err != nil {
		return ref, err
	}
	if ref.PrimPath, err = r.pathAt(Index(pathIdx)); err != nil {
		return ref, err
	}
	if ref.LayerOffset, err = r.readLayerOffset(c); err != nil {
		return ref, err
	}
	return ref, nil
}

func (r *Reader) readPayload(c *cursor) (value.Payload, error) {
	var p value.Payload

	assetIdx, err := c.u32()
	if err != nil {
		return p, err
	}
	asset, err := r.token(Index(assetIdx))
	if err != nil {
		return p, err
	}
	p.AssetPath = asset

	pathIdx, err := c.u32()
	if err != nil {
		return p, err
	}
	if p.PrimPath, err = r.pathAt(Index(pathIdx)); err != nil {
		return p, err
	}
	if p.LayerOffset, err = r.readLayerOffset(c); err != nil {
		return p, err
	}
	return p, nil
}

// readDictionary decodes count entries of (key token index, nested rep).
func (r *Reader) readDictionary(c *cursor) (value.Dictionary, error) {
	count, err := c.u64()
	if err != nil {
		return nil, err
	}
	if count > uint64(len(r.data)) {
		return nil, fmt.Errorf("implausible dictionary size %d", count)
	}

	dict := make(value.Dictionary, count)
	for i := uint64(0); i < count; i++ {
		keyIdx, err := c.u32()
		if err != nil {
			return nil, err
		}
		key, err := r.token(Index(keyIdx))
		if err != nil {
			return nil, err
		}
		repBits, err := c.u64()
		if err != nil {
			return nil, err
		}
		v, err := r.unpackValueRep(ValueRep(repBits))
		if err != nil {
			return nil, fmt.Errorf("dictionary entry %q: %w", key, err)
		}
		dict[key] = value.MetaVariable{Name: key, Value: v}
	}
	return dict, nil
}

// readTimeSamples decodes count (time, nested rep) pairs: the times as a
// double array followed by the packed reps.
func (r *Reader) readTimeSamples(c *cursor) (value.TimeSamples, error) {
	var ts value.TimeSamples

	count, err := c.u64()
	if err != nil {
		return ts, err
	}
	if count > uint64(len(r.data)) {
		return ts, fmt.Errorf("implausible time-sample count %d", count)
	}

	times := make([]float64, count)
	for i := range times {
		if times[i], err = c.f64(); err != nil {
			return ts, err
		}
	}
	for i := uint64(0); i < count; i++ {
		repBits, err := c.u64()
		if err != nil {
			return ts, err
		}
		v, err := r.unpackValueRep(ValueRep(repBits))
		if err != nil {
			return ts, fmt.Errorf("time sample %g: %w", times[i], err)
		}
		ts.Add(times[i], v)
	}
	return ts, nil
}
