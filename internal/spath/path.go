package spath

import "strings"

// Kind classifies what a path addresses within the scene graph. The values
// mirror the categories the Crate path table distinguishes.
type Kind int

const (
	KindInvalid Kind = iota
	KindRoot
	KindPrim
	KindPrimProperty
	KindRelationalAttribute
	KindTarget
	KindMapper
	KindMapperArg
	KindExpression
	KindPrimVariantSelection
)

// Path addresses a prim or one of its properties. The zero value is invalid;
// construct paths with Root, NewPrimPath, or the Append helpers.
type Path struct {
	primPart    string
	propPart    string
	elementName string
	variantPart string
	kind        Kind
	valid       bool
}

// Root returns the absolute root path "/".
func Root() Path {
	return Path{primPart: "/", kind: KindRoot, valid: true}
}

// NewPrimPath builds an absolute prim path from a slash-separated string.
func NewPrimPath(prim string) Path {
	if prim == "" {
		return Path{}
	}
	if prim == "/" {
		return Root()
	}
	p := Path{primPart: prim, kind: KindPrim, valid: true}
	if idx := strings.LastIndex(prim, "/"); idx >= 0 {
		p.elementName = prim[idx+1:]
	} else {
		p.elementName = prim
	}
	return p
}

// NewPropertyPath builds a path addressing property prop on prim.
func NewPropertyPath(prim, prop string) Path {
	if prim == "" || prop == "" {
		return Path{}
	}
	return Path{
		primPart:    prim,
		propPart:    prop,
		elementName: prop,
		kind:        KindPrimProperty,
		valid:       true,
	}
}

// NewElementPath builds a path holding only a local element name. Element
// paths are what the Crate path table stores per node; the prim part is the
// element itself.
func NewElementPath(name string) Path {
	if name == "" {
		return Path{}
	}
	return Path{primPart: name, elementName: name, kind: KindPrim, valid: true}
}

// AppendElement returns the path of a child prim named name.
func (p Path) AppendElement(name string) Path {
	if !p.valid || name == "" {
		return Path{}
	}
	child := p
	child.kind = KindPrim
	child.elementName = name
	if p.primPart == "/" {
		child.primPart = "/" + name
	} else {
		child.primPart = p.primPart + "/" + name
	}
	return child
}

// AppendProperty returns the path of property name on this prim.
func (p Path) AppendProperty(name string) Path {
	if !p.valid || name == "" {
		return Path{}
	}
	child := p
	child.kind = KindPrimProperty
	child.propPart = name
	child.elementName = name
	return child
}

// AppendVariantSelection returns the path with a {set=variant} selection
// appended. Only the textual form is retained.
func (p Path) AppendVariantSelection(set, variant string) Path {
	if !p.valid {
		return Path{}
	}
	child := p
	child.kind = KindPrimVariantSelection
	child.variantPart = "{" + set + "=" + variant + "}"
	child.elementName = child.variantPart
	return child
}

// PrimPart returns the prim portion of the path ("/root/geo").
func (p Path) PrimPart() string { return p.primPart }

// PropPart returns the property portion ("points"), empty for prim paths.
func (p Path) PropPart() string { return p.propPart }

// Element returns the local element name: the last prim component for prim
// paths, the property name for property paths.
func (p Path) Element() string { return p.elementName }

// Kind reports what the path addresses.
func (p Path) Kind() Kind { return p.kind }

// IsValid reports whether the path was constructed from non-empty parts.
func (p Path) IsValid() bool { return p.valid }

// IsRoot reports whether the path is the absolute root "/".
func (p Path) IsRoot() bool { return p.valid && p.primPart == "/" && p.propPart == "" }

// IsProperty reports whether the path addresses a property.
func (p Path) IsProperty() bool { return p.valid && p.propPart != "" }

// String renders the full path: the prim part, then "." and the property
// part when present.
func (p Path) String() string {
	if !p.valid {
		return ""
	}
	s := p.primPart
	if p.variantPart != "" {
		s += p.variantPart
	}
	if p.propPart != "" {
		s += "." + p.propPart
	}
	return s
}
