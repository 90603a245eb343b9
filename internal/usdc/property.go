package usdc

import (
	"stagecrate/internal/crate"
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

// parseProperty classifies one property fieldset. The outcome follows the
// field bundle: a default or timeSamples makes an attribute, connectionPaths
// a connection, targetPaths a relationship, a bare typeName an empty
// attribute; a bare Relationship spec is a relationship with no target.
func (r *Reader) parseProperty(specType crate.SpecType, fvs crate.FieldValuePairs) (scene.Property, error) {
	var prop scene.Property

	if len(fvs) > r.cfg.MaxFieldValuePairs {
		return prop, diag.Errorf(diag.KindOversizedFieldSet, "property fieldset holds %d pairs, limit %d", len(fvs), r.cfg.MaxFieldValuePairs)
	}

	var (
		custom      bool
		typeName    *value.Token
		variability value.Variability
		meta        scene.AttrMeta

		sawValue      bool // default or timeSamples
		sawConnection bool
		sawTarget     bool

		scalar   value.Value
		isScalar bool
		samples  *value.TimeSamples
		rel      scene.Relationship
	)

	for _, fv := range fvs {
		switch fv.Name {
		case "custom":
			b, ok := value.As[bool](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`custom` must be `bool`, got `%s`", fv.Value.TypeName())
			}
			custom = b

		case "variability":
			v, ok := value.As[value.Variability](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`variability` must be `variability`, got `%s`", fv.Value.TypeName())
			}
			variability = v

		case "typeName":
			tok, ok := value.As[value.Token](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`typeName` must be `token`, got `%s`", fv.Value.TypeName())
			}
			typeName = &tok

		case "default":
			sawValue = true
			scalar = fv.Value
			isScalar = true

		case "timeSamples":
			ts, ok := value.As[value.TimeSamples](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`timeSamples` must be `TimeSamples`, got `%s`", fv.Value.TypeName())
			}
			sawValue = true
			samples = &ts

		case "interpolation":
			tok, ok := value.As[value.Token](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`interpolation` must be `token`, got `%s`", fv.Value.TypeName())
			}
			interp, valid := value.InterpolationFromString(tok.String())
			if !valid {
				return prop, diag.Errorf(diag.KindInvalidEnumToken, "invalid `interpolation` token `%s`", tok)
			}
			meta.Interpolation = &interp

		case "elementSize":
			n, ok := value.As[int32](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`elementSize` must be `int`, got `%s`", fv.Value.TypeName())
			}
			if n < 1 || int(n) > r.cfg.MaxElementSize {
				return prop, diag.Errorf(diag.KindOutOfRangeValue, "`elementSize` must be within [1, %d], got %d", r.cfg.MaxElementSize, n)
			}
			size := int(n)
			meta.ElementSize = &size

		case "connectionPaths":
			op, ok := value.As[value.ListOp[spath.Path]](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`connectionPaths` must be `ListOp[Path]`, got `%s`", fv.Value.TypeName())
			}
			if !op.IsExplicit() {
				return prop, diag.Errorf(diag.KindListOpUnsupported, "`connectionPaths` must be composed of explicit items")
			}
			items := op.ExplicitItems
			if len(items) == 0 {
				return prop, diag.Errorf(diag.KindListOpUnsupported, "`connectionPaths` has empty explicit items")
			}
			if len(items) == 1 {
				rel.SetPath(items[0])
			} else {
				rel.SetPaths(items)
			}
			sawConnection = true

		case "targetPaths":
			op, ok := value.As[value.ListOp[spath.Path]](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`targetPaths` must be `ListOp[Path]`, got `%s`", fv.Value.TypeName())
			}
			buckets := value.DecodeListOp(op)
			if len(buckets) == 0 {
				return prop, diag.Errorf(diag.KindListOpUnsupported, "`targetPaths` is empty")
			}
			if len(buckets) > 1 {
				r.sink.Warnf("`targetPaths` uses multiple list-edit qualifiers; using the first one: %s", buckets[0].Qual)
			}
			items := buckets[0].Items
			if len(items) == 1 {
				rel.SetPath(items[0])
			} else {
				rel.SetPaths(items)
			}
			rel.ListEdit = buckets[0].Qual
			sawTarget = true

		case "targetChildren", "connectionChildren":
			// Presence-only: type-checked, never validated against the
			// resolved tree.
			if _, ok := value.As[value.PathVector](fv.Value); !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`%s` must be `PathVector`, got `%s`", fv.Name, fv.Value.TypeName())
			}

		case "customData":
			d, ok := value.As[value.Dictionary](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`customData` must be `dictionary`, got `%s`", fv.Value.TypeName())
			}
			meta.CustomData = d

		case "comment":
			s, ok := value.As[string](fv.Value)
			if !ok {
				return prop, diag.Errorf(diag.KindFieldTypeMismatch, "`comment` must be `string`, got `%s`", fv.Value.TypeName())
			}
			sd := value.NewStringData(s)
			meta.Comment = &sd

		default:
			r.sink.Warnf("unsupported property field `%s`", fv.Name)
		}
	}

	// Inlined values may use a narrower storage type than the declared
	// one; widen before storing.
	if isScalar && typeName != nil && typeName.String() != scalar.TypeName() {
		scalar, _ = value.Upcast(typeName.String(), scalar)
	}

	declared := ""
	if typeName != nil {
		declared = typeName.String()
	}

	switch {
	case sawValue:
		attr := scene.Attribute{
			TypeName:    declared,
			Variability: variability,
			Samples:     samples,
			Meta:        meta,
		}
		if isScalar {
			attr.Scalar = scalar
		}
		return scene.NewAttribute(attr, custom), nil

	case sawConnection:
		return scene.NewConnection(rel, declared, custom, meta), nil

	case sawTarget:
		return scene.NewRelationship(rel, custom, meta), nil

	case typeName != nil:
		return scene.NewEmptyAttribute(declared, custom, meta), nil

	case specType == crate.SpecTypeRelationship:
		return scene.NewNoTargetRelationship(custom, meta), nil

	default:
		return prop, diag.Errorf(diag.KindMissingTypeName, "`typeName` field is missing")
	}
}
