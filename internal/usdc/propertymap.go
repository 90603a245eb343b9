package usdc

import (
	"stagecrate/internal/crate"
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
)

// buildPropertyMap assembles a prim's name-to-property map from its
// property-child node indices. Prim children are handled by the tree walk;
// Connection specs arrive folded into the Attribute spec type on the wire.
func (r *Reader) buildPropertyMap(childIndices []uint32, psmap pathToSpecMap, props scene.PropertyMap) error {
	for _, childIndex := range childIndices {
		if uint64(childIndex) >= uint64(len(r.nodes)) {
			return diag.Errorf(diag.KindTableBounds, "child node index %d out of range [0, %d)", childIndex, len(r.nodes))
		}

		specIndex, ok := psmap[childIndex]
		if !ok {
			// No spec assigned to this child node.
			continue
		}
		if uint64(specIndex) >= uint64(len(r.specs)) {
			return diag.Errorf(diag.KindTableBounds, "spec index %d out of range [0, %d)", specIndex, len(r.specs))
		}
		spec := r.specs[specIndex]

		if spec.Type != crate.SpecTypeAttribute && spec.Type != crate.SpecTypeRelationship {
			continue
		}

		path, err := r.path(uint32(spec.PathIndex))
		if err != nil {
			return err
		}
		propName := path.PropPart()
		if propName == "" {
			return diag.Errorf(diag.KindInternal, "property spec at path %q has no property part", path)
		}

		fvs, err := r.fieldSet(spec.FieldSetIndex)
		if err != nil {
			return err
		}

		prop, err := r.parseProperty(spec.Type, fvs)
		if err != nil {
			return err
		}

		if _, dup := props[propName]; dup {
			r.sink.Warnf("duplicate property name `%s`; later entry wins", propName)
		}
		props[propName] = prop
	}

	return nil
}
