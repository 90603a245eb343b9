package crate

import (
	"stagecrate/internal/spath"
	"stagecrate/internal/value"
)

// Index is an opaque 32-bit index into one of the decoded tables.
type Index uint32

// InvalidIndex is the sentinel index (all bits set). It terminates fieldset
// runs and marks specs without a path.
const InvalidIndex Index = ^Index(0)

// SpecType categorizes a spec record. The numeric values are wire-visible
// and must keep this exact order.
type SpecType uint32

const (
	SpecTypeUnknown SpecType = iota
	SpecTypeAttribute
	SpecTypeConnection
	SpecTypeExpression
	SpecTypeMapper
	SpecTypeMapperArg
	SpecTypePrim
	SpecTypePseudoRoot
	SpecTypeRelationship
	SpecTypeRelationshipTarget
	SpecTypeVariant
	SpecTypeVariantSet
	SpecTypeInvalid
)

func (t SpecType) String() string {
	switch t {
	case SpecTypeUnknown:
		return "Unknown"
	case SpecTypeAttribute:
		return "Attribute"
	case SpecTypeConnection:
		return "Connection"
	case SpecTypeExpression:
		return "Expression"
	case SpecTypeMapper:
		return "Mapper"
	case SpecTypeMapperArg:
		return "MapperArg"
	case SpecTypePrim:
		return "Prim"
	case SpecTypePseudoRoot:
		return "PseudoRoot"
	case SpecTypeRelationship:
		return "Relationship"
	case SpecTypeRelationshipTarget:
		return "RelationshipTarget"
	case SpecTypeVariant:
		return "Variant"
	case SpecTypeVariantSet:
		return "VariantSet"
	default:
		return "Invalid"
	}
}

// Spec links a path, a fieldset, and a spec-type category.
type Spec struct {
	PathIndex     Index
	FieldSetIndex Index
	Type          SpecType
}

// Field is one entry of the field table: a token-index name plus a packed
// value representation.
type Field struct {
	TokenIndex Index
	Rep        ValueRep
}

// FieldValue is one decoded (field name, value) pair.
type FieldValue struct {
	Name  string
	Value value.Value
}

// FieldValuePairs is one decoded fieldset.
type FieldValuePairs []FieldValue

// Node is one vertex of the decoded path hierarchy. Node index and path
// index share the same space.
type Node struct {
	Path      spath.Path
	LocalPath spath.Path
	Parent    int64
	Children  []uint32
}

// ListOpHeader bit positions, wire-visible.
const (
	ListOpIsExplicitBit        = 1 << 0
	ListOpHasExplicitItemsBit  = 1 << 1
	ListOpHasAddedItemsBit     = 1 << 2
	ListOpHasDeletedItemsBit   = 1 << 3
	ListOpHasOrderedItemsBit   = 1 << 4
	ListOpHasPrependedItemsBit = 1 << 5
	ListOpHasAppendedItemsBit  = 1 << 6
)

// Section names of the table of contents.
const (
	sectionTokens    = "TOKENS"
	sectionStrings   = "STRINGS"
	sectionFields    = "FIELDS"
	sectionFieldSets = "FIELDSETS"
	sectionPaths     = "PATHS"
	sectionSpecs     = "SPECS"
)

// crateMagic opens every Crate file.
const crateMagic = "PXR-USDC"

// sectionNameLen is the fixed width of a TOC section name.
const sectionNameLen = 16
