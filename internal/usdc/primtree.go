package usdc

import (
	"stagecrate/internal/crate"
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/value"
)

func validPrimName(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// reconstructPrimFromTypeName builds the property map and dispatches the
// type name against the closed schema set. Unknown type names warn and
// produce no prim.
func (r *Reader) reconstructPrimFromTypeName(typeName, primName string, node crate.Node, psmap pathToSpecMap, meta scene.PrimMeta) (*scene.Prim, error) {
	props := make(scene.PropertyMap)
	if err := r.buildPropertyMap(node.Children, psmap, props); err != nil {
		return nil, err
	}

	// Composition arcs are not evaluated; the reference list is empty.
	var refs scene.ReferenceList

	typed, known, err := scene.Reconstruct(typeName, props, refs)
	if err != nil {
		return nil, diag.Errorf(diag.KindInternal, "failed to reconstruct prim of type %s: %v", typeName, err)
	}
	if !known {
		r.sink.Warnf("unsupported prim type `%s`", typeName)
		return nil, nil
	}

	*typed.PrimMeta() = meta
	typed.SetPrimName(primName)

	return &scene.Prim{Value: typed}, nil
}

// reconstructPrimNode processes one node. It returns the reconstructed prim
// (nil when the node contributes none) and whether the node's subtree
// should be skipped.
func (r *Reader) reconstructPrimNode(parent, current, level int, psmap pathToSpecMap, stage *scene.Stage) (prim *scene.Prim, skipSubtree bool, err error) {
	specIndex, ok := psmap[uint32(current)]
	if !ok {
		// A node without a spec is transparent; its children still walk.
		return nil, false, nil
	}
	if uint64(specIndex) >= uint64(len(r.specs)) {
		return nil, false, diag.Errorf(diag.KindTableBounds, "spec index %d out of range [0, %d)", specIndex, len(r.specs))
	}
	spec := r.specs[specIndex]

	if spec.Type == crate.SpecTypeAttribute || spec.Type == crate.SpecTypeRelationship {
		if _, parentIsPrim := r.primTable[parent]; parentIsPrim {
			// Property node, already consumed by the parent prim's
			// property map.
			return nil, false, nil
		}
	}

	fvs, err := r.fieldSet(spec.FieldSetIndex)
	if err != nil {
		return nil, false, err
	}

	if current == 0 {
		if _, err := r.elementPath(uint32(current)); err != nil {
			return nil, false, diag.Errorf(diag.KindInternal, "root element path not found")
		}
		if spec.Type != crate.SpecTypePseudoRoot {
			return nil, false, diag.Errorf(diag.KindInternal, "PseudoRoot spec type expected for the root node, got %s", spec.Type)
		}
		var primChildren []value.Token
		if err := r.reconstructStageMeta(fvs, &stage.Metas, &primChildren); err != nil {
			return nil, false, err
		}
		r.primTable[current] = struct{}{}
		return nil, false, nil
	}

	switch spec.Type {
	case crate.SpecTypePrim:
		fields, err := r.parsePrimFields(fvs)
		if err != nil {
			return nil, false, err
		}

		elemPath, err := r.elementPath(uint32(current))
		if err != nil {
			return nil, false, diag.Errorf(diag.KindInternal, "element path not found for node %d", current)
		}

		if fields.specifier == nil {
			return nil, false, diag.Errorf(diag.KindMissingSpecifier, "`specifier` field is missing for a Prim spec")
		}
		switch *fields.specifier {
		case value.SpecifierDef:
			// ok
		case value.SpecifierClass:
			r.sink.Warnf("`class` specifier at %s: skipping subtree", elemPath)
			return nil, true, nil
		case value.SpecifierOver:
			r.sink.Warnf("`over` specifier at %s: skipping subtree", elemPath)
			return nil, true, nil
		default:
			return nil, false, diag.Errorf(diag.KindInvalidSpecifier, "invalid specifier value %d", int(*fields.specifier))
		}

		typeName := "Model"
		if fields.typeName != nil {
			typeName = *fields.typeName
		} else {
			r.sink.Warnf("prim at %s has no `typeName`; treating it as Model", elemPath)
		}

		primName := elemPath.PrimPart()
		if !validPrimName(elemPath.Element()) {
			return nil, false, diag.Errorf(diag.KindInternal, "invalid prim name %q", primName)
		}

		node := r.nodes[current]
		prim, err := r.reconstructPrimFromTypeName(typeName, elemPath.Element(), node, psmap, fields.meta)
		if err != nil {
			return nil, false, err
		}
		if prim != nil {
			prim.Specifier = *fields.specifier
			prim.SetElementPath(elemPath)
		}

		r.primTable[current] = struct{}{}
		return prim, false, nil

	case crate.SpecTypeVariantSet:
		// Variant subtree merging is undefined; acknowledged only.
		r.sink.Warnf("VariantSet spec at node %d is not reconstructed", current)
		return nil, false, nil

	case crate.SpecTypeVariant:
		r.sink.Warnf("Variant spec at node %d is not reconstructed", current)
		return nil, false, nil

	case crate.SpecTypeAttribute, crate.SpecTypeRelationship:
		// Parent is not a prim: a spec-less node or a VariantSet/Variant
		// spec. Class/Over subtrees are never walked, so they do not reach here.
		r.sink.Warnf("%s spec at node %d has no owning prim", spec.Type, current)
		return nil, false, nil

	default:
		return nil, false, diag.Errorf(diag.KindInternal, "unsupported spec type %s at node %d", spec.Type, current)
	}
}

// reconstructPrimRecursively walks the node hierarchy depth-first,
// preserving decoder-reported child order. Children are reconstructed
// before the prim is attached to its parent.
func (r *Reader) reconstructPrimRecursively(parent, current int, parentPrim *scene.Prim, level int, psmap pathToSpecMap, stage *scene.Stage) error {
	if level > r.cfg.MaxPrimNestLevel {
		return diag.Errorf(diag.KindDepthExceeded, "prim hierarchy deeper than %d levels", r.cfg.MaxPrimNestLevel)
	}
	if current < 0 || current >= len(r.nodes) {
		return diag.Errorf(diag.KindTableBounds, "node index %d out of range [0, %d)", current, len(r.nodes))
	}

	prim, skipSubtree, err := r.reconstructPrimNode(parent, current, level, psmap, stage)
	if err != nil {
		return err
	}
	if skipSubtree {
		return nil
	}

	childParent := parentPrim
	if prim != nil {
		childParent = prim
	}
	for _, child := range r.nodes[current].Children {
		if err := r.reconstructPrimRecursively(current, int(child), childParent, level+1, psmap, stage); err != nil {
			return err
		}
	}

	if prim == nil {
		return nil
	}
	if parent == 0 {
		stage.RootPrims = append(stage.RootPrims, *prim)
	} else if parentPrim != nil {
		parentPrim.Children = append(parentPrim.Children, *prim)
	}
	return nil
}
