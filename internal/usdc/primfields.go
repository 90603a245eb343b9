package usdc

import (
	"stagecrate/internal/crate"
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/value"
)

// primFields is the parsed outcome of a Prim-spec fieldset.
type primFields struct {
	typeName   *string
	specifier  *value.Specifier
	properties []value.Token
	meta       scene.PrimMeta
}

// parsePrimFields extracts the prim identity fields and metadata from a
// Prim-spec fieldset. Recognized fields reject on type mismatch; unknown
// fields warn.
func (r *Reader) parsePrimFields(fvs crate.FieldValuePairs) (primFields, error) {
	var out primFields

	for _, fv := range fvs {
		switch fv.Name {
		case "typeName":
			tok, ok := value.As[value.Token](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`typeName` must be `token`, got `%s`", fv.Value.TypeName())
			}
			name := tok.String()
			out.typeName = &name

		case "specifier":
			s, ok := value.As[value.Specifier](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`specifier` must be `specifier`, got `%s`", fv.Value.TypeName())
			}
			out.specifier = &s

		case "properties":
			toks, ok := value.As[[]value.Token](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`properties` must be `token[]`, got `%s`", fv.Value.TypeName())
			}
			out.properties = toks

		case "primChildren":
			// Advisory only; the node hierarchy is authoritative.
			if _, ok := value.As[[]value.Token](fv.Value); !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`primChildren` must be `token[]`, got `%s`", fv.Value.TypeName())
			}

		case "active":
			b, ok := value.As[bool](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`active` must be `bool`, got `%s`", fv.Value.TypeName())
			}
			out.meta.Active = &b

		case "hidden":
			b, ok := value.As[bool](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`hidden` must be `bool`, got `%s`", fv.Value.TypeName())
			}
			out.meta.Hidden = &b

		case "assetInfo":
			d, ok := value.As[value.Dictionary](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`assetInfo` must be `dictionary`, got `%s`", fv.Value.TypeName())
			}
			out.meta.AssetInfo = d

		case "kind":
			tok, ok := value.As[value.Token](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`kind` must be `token`, got `%s`", fv.Value.TypeName())
			}
			kind, valid := value.KindFromString(tok.String())
			if !valid {
				return out, diag.Errorf(diag.KindInvalidEnumToken, "invalid token for `kind` prim metadata: `%s`", tok)
			}
			out.meta.Kind = &kind

		case "apiSchemas":
			op, ok := value.As[value.ListOp[value.Token]](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`apiSchemas` must be `ListOp[token]`, got `%s`", fv.Value.TypeName())
			}
			schemas, err := r.toAPISchemas(op)
			if err != nil {
				return out, err
			}
			out.meta.APISchemas = &schemas

		case "documentation":
			s, ok := value.As[string](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`documentation` must be `string`, got `%s`", fv.Value.TypeName())
			}
			sd := value.NewStringData(s)
			out.meta.Doc = &sd

		case "comment":
			s, ok := value.As[string](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`comment` must be `string`, got `%s`", fv.Value.TypeName())
			}
			sd := value.NewStringData(s)
			out.meta.Comment = &sd

		case "customData":
			d, ok := value.As[value.Dictionary](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`customData` must be `dictionary`, got `%s`", fv.Value.TypeName())
			}
			out.meta.CustomData = d

		case "sceneName":
			s, ok := value.As[string](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`sceneName` must be `string`, got `%s`", fv.Value.TypeName())
			}
			out.meta.SceneName = &s

		case "displayName":
			s, ok := value.As[string](fv.Value)
			if !ok {
				return out, diag.Errorf(diag.KindFieldTypeMismatch, "`displayName` must be `string`, got `%s`", fv.Value.TypeName())
			}
			out.meta.DisplayName = &s

		default:
			r.sink.Warnf("unsupported prim field `%s`", fv.Name)
		}
	}

	return out, nil
}
