package usdc

import (
	"stagecrate/internal/crate"
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/value"
)

// timeCodeValue accepts float or double and promotes to double.
func timeCodeValue(fieldName string, v value.Value) (float64, error) {
	if f, ok := value.As[float32](v); ok {
		return float64(f), nil
	}
	if d, ok := value.As[float64](v); ok {
		return d, nil
	}
	return 0, diag.Errorf(diag.KindFieldTypeMismatch, "`%s` must be `double` or `float`, got `%s`", fieldName, v.TypeName())
}

// reconstructStageMeta parses the pseudo-root fieldset into stage-level
// metadata. primChildren is decoded separately for callers that want the
// advisory root ordering.
func (r *Reader) reconstructStageMeta(fvs crate.FieldValuePairs, metas *scene.StageMetas, primChildren *[]value.Token) error {
	for _, fv := range fvs {
		switch fv.Name {
		case "upAxis":
			tok, ok := value.As[value.Token](fv.Value)
			if !ok {
				return diag.Errorf(diag.KindFieldTypeMismatch, "`upAxis` must be `token`, got `%s`", fv.Value.TypeName())
			}
			axis, valid := value.AxisFromString(tok.String())
			if !valid {
				return diag.Errorf(diag.KindInvalidEnumToken, "`upAxis` must be 'X', 'Y' or 'Z' but got '%s' (case sensitive)", tok)
			}
			metas.UpAxis = &axis

		case "metersPerUnit":
			d, err := timeCodeValue(fv.Name, fv.Value)
			if err != nil {
				return err
			}
			metas.MetersPerUnit = &d

		case "timeCodesPerSecond":
			d, err := timeCodeValue(fv.Name, fv.Value)
			if err != nil {
				return err
			}
			metas.TimeCodesPerSecond = &d

		case "startTimeCode":
			d, err := timeCodeValue(fv.Name, fv.Value)
			if err != nil {
				return err
			}
			metas.StartTimeCode = &d

		case "endTimeCode":
			d, err := timeCodeValue(fv.Name, fv.Value)
			if err != nil {
				return err
			}
			metas.EndTimeCode = &d

		case "defaultPrim":
			tok, ok := value.As[value.Token](fv.Value)
			if !ok {
				return diag.Errorf(diag.KindFieldTypeMismatch, "`defaultPrim` must be `token`, got `%s`", fv.Value.TypeName())
			}
			metas.DefaultPrim = tok

		case "customLayerData":
			d, ok := value.As[value.Dictionary](fv.Value)
			if !ok {
				return diag.Errorf(diag.KindFieldTypeMismatch, "`customLayerData` must be `dictionary`, got `%s`", fv.Value.TypeName())
			}
			metas.CustomLayerData = d

		case "primChildren":
			toks, ok := value.As[[]value.Token](fv.Value)
			if !ok {
				return diag.Errorf(diag.KindFieldTypeMismatch, "`primChildren` must be `token[]`, got `%s`", fv.Value.TypeName())
			}
			if primChildren != nil {
				*primChildren = toks
			}

		case "documentation":
			s, ok := value.As[string](fv.Value)
			if !ok {
				return diag.Errorf(diag.KindFieldTypeMismatch, "`documentation` must be `string`, got `%s`", fv.Value.TypeName())
			}
			sd := value.NewStringData(s)
			metas.Doc = &sd

		case "comment":
			s, ok := value.As[string](fv.Value)
			if !ok {
				return diag.Errorf(diag.KindFieldTypeMismatch, "`comment` must be `string`, got `%s`", fv.Value.TypeName())
			}
			sd := value.NewStringData(s)
			metas.Comment = &sd

		default:
			r.sink.Warnf("unsupported stage metadatum `%s`", fv.Name)
		}
	}

	return nil
}
