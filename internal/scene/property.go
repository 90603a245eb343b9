package scene

import (
	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

// PropertyType tags the classification outcome of a parsed property.
type PropertyType int

const (
	// PropertyEmptyAttribute is an attribute declared without value,
	// time samples, or connection.
	PropertyEmptyAttribute PropertyType = iota
	// PropertyAttribute carries a scalar or time-sampled value.
	PropertyAttribute
	// PropertyConnection is a typed property targeting other paths.
	PropertyConnection
	// PropertyRelationship holds paths with a list-edit qualifier.
	PropertyRelationship
	// PropertyNoTargetRelationship is a relationship declared without
	// targets ("rel target").
	PropertyNoTargetRelationship
)

func (t PropertyType) String() string {
	switch t {
	case PropertyEmptyAttribute:
		return "emptyAttribute"
	case PropertyAttribute:
		return "attribute"
	case PropertyConnection:
		return "connection"
	case PropertyRelationship:
		return "relationship"
	case PropertyNoTargetRelationship:
		return "noTargetRelationship"
	default:
		return "invalid"
	}
}

// AttrMeta is attribute-level metadata.
type AttrMeta struct {
	Interpolation *value.Interpolation
	ElementSize   *int
	Hidden        *bool
	Comment       *value.StringData
	CustomData    value.Dictionary

	// Extra holds recognized-but-untyped metadata entries; Strings holds
	// string-only metadata lines.
	Extra   map[string]value.MetaVariable
	Strings []value.StringData
}

// Authored reports whether any metadatum was set.
func (m AttrMeta) Authored() bool {
	return m.Interpolation != nil || m.ElementSize != nil || m.Hidden != nil ||
		m.Comment != nil || m.CustomData != nil || len(m.Extra) > 0 || len(m.Strings) > 0
}

// Attribute is a typed, possibly time-sampled value bound to a property
// name. Scalar is set when the spec authors a default and Samples when it
// authors time samples; a spec that authors both carries both. Neither is
// set for an empty declaration.
type Attribute struct {
	TypeName    string
	Variability value.Variability
	Scalar      value.Value
	Samples     *value.TimeSamples
	Meta        AttrMeta
}

// HasScalar reports whether a scalar default is present.
func (a Attribute) HasScalar() bool { return !a.Scalar.IsEmpty() }

// HasSamples reports whether time samples are present.
func (a Attribute) HasSamples() bool { return a.Samples != nil }

// RelationshipForm distinguishes the target arities a relationship or
// connection can carry.
type RelationshipForm int

const (
	RelationshipEmpty RelationshipForm = iota
	RelationshipPath
	RelationshipPathVector
)

// Relationship holds connection or relationship targets.
type Relationship struct {
	Form     RelationshipForm
	Target   spath.Path
	Targets  []spath.Path
	ListEdit value.ListEditQual
}

// SetPath sets a single target.
func (r *Relationship) SetPath(p spath.Path) {
	r.Form = RelationshipPath
	r.Target = p
	r.Targets = nil
}

// SetPaths sets multiple targets.
func (r *Relationship) SetPaths(ps []spath.Path) {
	r.Form = RelationshipPathVector
	r.Targets = ps
	r.Target = spath.Path{}
}

// SetEmpty clears all targets.
func (r *Relationship) SetEmpty() {
	r.Form = RelationshipEmpty
	r.Target = spath.Path{}
	r.Targets = nil
}

// Property is the classified sum over attribute, connection, and
// relationship outcomes. Type selects which payload fields are meaningful.
type Property struct {
	Type   PropertyType
	Attr   Attribute
	Rel    Relationship
	Custom bool
}

// NewEmptyAttribute builds an attribute declared without a value.
func NewEmptyAttribute(typeName string, custom bool, meta AttrMeta) Property {
	return Property{
		Type:   PropertyEmptyAttribute,
		Attr:   Attribute{TypeName: typeName, Meta: meta},
		Custom: custom,
	}
}

// NewAttribute builds a valued attribute property.
func NewAttribute(attr Attribute, custom bool) Property {
	return Property{Type: PropertyAttribute, Attr: attr, Custom: custom}
}

// NewConnection builds a connection property.
func NewConnection(rel Relationship, typeName string, custom bool, meta AttrMeta) Property {
	return Property{
		Type:   PropertyConnection,
		Attr:   Attribute{TypeName: typeName, Meta: meta},
		Rel:    rel,
		Custom: custom,
	}
}

// NewRelationship builds a relationship property.
func NewRelationship(rel Relationship, custom bool, meta AttrMeta) Property {
	return Property{
		Type:   PropertyRelationship,
		Attr:   Attribute{Meta: meta},
		Rel:    rel,
		Custom: custom,
	}
}

// NewNoTargetRelationship builds a relationship declared without targets.
func NewNoTargetRelationship(custom bool, meta AttrMeta) Property {
	rel := Relationship{}
	rel.SetEmpty()
	return Property{
		Type:   PropertyNoTargetRelationship,
		Attr:   Attribute{Meta: meta},
		Rel:    rel,
		Custom: custom,
	}
}

// PropertyMap maps property names to classified properties. Iteration order
// is not contractual.
type PropertyMap map[string]Property
