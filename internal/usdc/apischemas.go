package usdc

import (
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/value"
)

// toAPISchemas validates and collapses an apiSchemas list-op into a single
// qualified list of recognized schema names. The op must use exactly one
// non-empty bucket; the Order bucket is unsupported.
func (r *Reader) toAPISchemas(op value.ListOp[value.Token]) (scene.APISchemas, error) {
	var schemas scene.APISchemas

	resolve := func(qual value.ListEditQual, items []value.Token) error {
		for _, tok := range items {
			name, ok := scene.APINameFromToken(tok.String())
			if !ok {
				return diag.Errorf(diag.KindInvalidEnumToken, "invalid or unsupported API schema: %s", tok)
			}
			// Instance names are only carried by multi-apply schemas,
			// which the recognized set does not include yet.
			schemas.Names = append(schemas.Names, scene.APISchemaEntry{Name: name})
		}
		schemas.Qual = qual
		return nil
	}

	if op.IsExplicit() {
		if err := resolve(value.ListEditResetToExplicit, op.ExplicitItems); err != nil {
			return scene.APISchemas{}, err
		}
		return schemas, nil
	}

	buckets := value.DecodeListOp(op)
	switch {
	case len(buckets) == 0:
		return scene.APISchemas{}, diag.Errorf(diag.KindInternal, "apiSchemas list-op has no items")
	case len(buckets) > 1:
		return scene.APISchemas{}, diag.Errorf(diag.KindListOpMultiQualifier, "apiSchemas list-op uses %d list-edit qualifiers, want exactly one", len(buckets))
	}

	bucket := buckets[0]
	if bucket.Qual == value.ListEditOrder {
		return scene.APISchemas{}, diag.Errorf(diag.KindListOpUnsupported, "ordered apiSchemas items are not supported")
	}
	if err := resolve(bucket.Qual, bucket.Items); err != nil {
		return scene.APISchemas{}, err
	}
	return schemas, nil
}
