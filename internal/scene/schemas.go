package scene

import (
	"fmt"

	"stagecrate/internal/value"
)

// ReferenceList is the (qualifier, references) pair handed to every schema
// reconstruct function. Composition arcs are not evaluated; the list is
// carried through for callers that inspect it.
type ReferenceList struct {
	Qual value.ListEditQual
	Refs []value.Reference
}

// Core carries the fields every concrete schema shares. Schemas embed it;
// properties a schema does not bind stay in Props.
type Core struct {
	Name  string
	Meta  PrimMeta
	Props PropertyMap
}

// PrimName implements TypedPrim.
func (c *Core) PrimName() string { return c.Name }

// SetPrimName implements TypedPrim.
func (c *Core) SetPrimName(name string) { c.Name = name }

// PrimMeta implements TypedPrim.
func (c *Core) PrimMeta() *PrimMeta { return &c.Meta }

// PropertyMap exposes the full property map, bound and unbound alike.
func (c *Core) PropertyMap() PropertyMap { return c.Props }

func newCore(props PropertyMap) Core {
	return Core{Props: props}
}

// scalarAs binds a scalar attribute payload when present and of type T.
func scalarAs[T any](props PropertyMap, name string) (T, bool) {
	var zero T
	prop, ok := props[name]
	if !ok || prop.Type != PropertyAttribute || !prop.Attr.HasScalar() {
		return zero, false
	}
	return value.As[T](prop.Attr.Scalar)
}

// requireScalarAs is scalarAs with a type-mismatch error when the property
// exists with a scalar of the wrong type.
func requireScalarAs[T any](props PropertyMap, name string) (T, bool, error) {
	var zero T
	prop, ok := props[name]
	if !ok || prop.Type != PropertyAttribute || !prop.Attr.HasScalar() {
		return zero, false, nil
	}
	v, ok := value.As[T](prop.Attr.Scalar)
	if !ok {
		return zero, false, fmt.Errorf("attribute %q: unexpected type %s", name, prop.Attr.Scalar.TypeName())
	}
	return v, true, nil
}

//
// Concrete schemas. Typed fields cover the well-known attributes each
// schema cares about; everything else remains reachable through Props.
//

// Xform is a transformable grouping prim.
type Xform struct {
	Core
	XformOpOrder []value.Token
}

func (*Xform) PrimTypeName() string { return "Xform" }

// Model is the fallback prim type for specs without a typeName.
type Model struct {
	Core
}

func (*Model) PrimTypeName() string { return "Model" }

// Scope is an untransformed grouping prim.
type Scope struct {
	Core
}

func (*Scope) PrimTypeName() string { return "Scope" }

// GeomMesh is a polygonal mesh.
type GeomMesh struct {
	Core
	Points            []value.Float3
	Normals           []value.Float3
	FaceVertexCounts  []int32
	FaceVertexIndices []int32
	DoubleSided       *bool
	Extent            *value.Extent
}

func (*GeomMesh) PrimTypeName() string { return "Mesh" }

// GeomSphere is a sphere primitive.
type GeomSphere struct {
	Core
	Radius *float64
}

func (*GeomSphere) PrimTypeName() string { return "Sphere" }

// GeomCube is a cube primitive.
type GeomCube struct {
	Core
	Size *float64
}

func (*GeomCube) PrimTypeName() string { return "Cube" }

// GeomCamera is a camera prim.
type GeomCamera struct {
	Core
	FocalLength        *float32
	FocusDistance      *float32
	ClippingRange      *value.Float2
	HorizontalAperture *float32
	VerticalAperture   *float32
}

func (*GeomCamera) PrimTypeName() string { return "Camera" }

// Material is a shading material prim.
type Material struct {
	Core
	SurfaceOutput      *Relationship
	DisplacementOutput *Relationship
	VolumeOutput       *Relationship
}

func (*Material) PrimTypeName() string { return "Material" }

// Shader is a shading node prim.
type Shader struct {
	Core
	ID value.Token
}

func (*Shader) PrimTypeName() string { return "Shader" }

// SphereLight is a spherical area light.
type SphereLight struct {
	Core
	Intensity *float32
	Radius    *float32
	Color     *value.Float3
}

func (*SphereLight) PrimTypeName() string { return "SphereLight" }

// DomeLight is an environment dome light.
type DomeLight struct {
	Core
	Intensity   *float32
	Color       *value.Float3
	TextureFile *value.AssetPath
}

func (*DomeLight) PrimTypeName() string { return "DomeLight" }

// SkelRoot anchors a skeleton hierarchy.
type SkelRoot struct {
	Core
}

func (*SkelRoot) PrimTypeName() string { return "SkelRoot" }

// Skeleton is a joint hierarchy.
type Skeleton struct {
	Core
	Joints         []value.Token
	BindTransforms []value.Matrix4d
	RestTransforms []value.Matrix4d
}

func (*Skeleton) PrimTypeName() string { return "Skeleton" }

// SkelAnimation is a joint animation prim.
type SkelAnimation struct {
	Core
	Joints      []value.Token
	BlendShapes []value.Token
}

func (*SkelAnimation) PrimTypeName() string { return "SkelAnimation" }

//
// Reconstruct functions. Each consumes the property map, binds the
// attributes the schema recognizes, and returns the typed prim.
//

// ReconstructXform builds an Xform from its property map.
func ReconstructXform(props PropertyMap, refs ReferenceList) (*Xform, error) {
	x := &Xform{Core: newCore(props)}
	order, found, err := requireScalarAs[[]value.Token](props, "xformOpOrder")
	if err != nil {
		return nil, err
	}
	if found {
		x.XformOpOrder = order
	}
	return x, nil
}

// ReconstructModel builds the typeless fallback prim.
func ReconstructModel(props PropertyMap, refs ReferenceList) (*Model, error) {
	return &Model{Core: newCore(props)}, nil
}

// ReconstructScope builds a Scope.
func ReconstructScope(props PropertyMap, refs ReferenceList) (*Scope, error) {
	return &Scope{Core: newCore(props)}, nil
}

// ReconstructGeomMesh builds a Mesh, binding topology and point data.
func ReconstructGeomMesh(props PropertyMap, refs ReferenceList) (*GeomMesh, error) {
	m := &GeomMesh{Core: newCore(props)}

	if pts, found, err := requireScalarAs[[]value.Float3](props, "points"); err != nil {
		return nil, err
	} else if found {
		m.Points = pts
	}
	if ns, found, err := requireScalarAs[[]value.Float3](props, "normals"); err != nil {
		return nil, err
	} else if found {
		m.Normals = ns
	}
	if counts, found, err := requireScalarAs[[]int32](props, "faceVertexCounts"); err != nil {
		return nil, err
	} else if found {
		m.FaceVertexCounts = counts
	}
	if indices, found, err := requireScalarAs[[]int32](props, "faceVertexIndices"); err != nil {
		return nil, err
	} else if found {
		m.FaceVertexIndices = indices
	}
	if ds, ok := scalarAs[bool](props, "doubleSided"); ok {
		m.DoubleSided = &ds
	}
	if ext, ok := scalarAs[[]value.Float3](props, "extent"); ok && len(ext) == 2 {
		m.Extent = &value.Extent{Lower: ext[0], Upper: ext[1]}
	}

	return m, nil
}

// ReconstructGeomSphere builds a Sphere.
func ReconstructGeomSphere(props PropertyMap, refs ReferenceList) (*GeomSphere, error) {
	s := &GeomSphere{Core: newCore(props)}
	if r, found, err := requireScalarAs[float64](props, "radius"); err != nil {
		return nil, err
	} else if found {
		s.Radius = &r
	}
	return s, nil
}

// ReconstructGeomCube builds a Cube.
func ReconstructGeomCube(props PropertyMap, refs ReferenceList) (*GeomCube, error) {
	c := &GeomCube{Core: newCore(props)}
	if size, found, err := requireScalarAs[float64](props, "size"); err != nil {
		return nil, err
	} else if found {
		c.Size = &size
	}
	return c, nil
}

// ReconstructGeomCamera builds a Camera.
func ReconstructGeomCamera(props PropertyMap, refs ReferenceList) (*GeomCamera, error) {
	c := &GeomCamera{Core: newCore(props)}
	if fl, ok := scalarAs[float32](props, "focalLength"); ok {
		c.FocalLength = &fl
	}
	if fd, ok := scalarAs[float32](props, "focusDistance"); ok {
		c.FocusDistance = &fd
	}
	if cr, ok := scalarAs[value.Float2](props, "clippingRange"); ok {
		c.ClippingRange = &cr
	}
	if ha, ok := scalarAs[float32](props, "horizontalAperture"); ok {
		c.HorizontalAperture = &ha
	}
	if va, ok := scalarAs[float32](props, "verticalAperture"); ok {
		c.VerticalAperture = &va
	}
	return c, nil
}

func relationshipProp(props PropertyMap, name string) *Relationship {
	prop, ok := props[name]
	if !ok {
		return nil
	}
	switch prop.Type {
	case PropertyConnection, PropertyRelationship, PropertyNoTargetRelationship:
		rel := prop.Rel
		return &rel
	default:
		return nil
	}
}

// ReconstructMaterial builds a Material, binding its terminal outputs.
func ReconstructMaterial(props PropertyMap, refs ReferenceList) (*Material, error) {
	m := &Material{Core: newCore(props)}
	m.SurfaceOutput = relationshipProp(props, "outputs:surface")
	m.DisplacementOutput = relationshipProp(props, "outputs:displacement")
	m.VolumeOutput = relationshipProp(props, "outputs:volume")
	return m, nil
}

// ReconstructShader builds a Shader, binding its info:id token.
func ReconstructShader(props PropertyMap, refs ReferenceList) (*Shader, error) {
	s := &Shader{Core: newCore(props)}
	if id, found, err := requireScalarAs[value.Token](props, "info:id"); err != nil {
		return nil, err
	} else if found {
		s.ID = id
	}
	return s, nil
}

// ReconstructSphereLight builds a SphereLight.
func ReconstructSphereLight(props PropertyMap, refs ReferenceList) (*SphereLight, error) {
	l := &SphereLight{Core: newCore(props)}
	if i, ok := scalarAs[float32](props, "inputs:intensity"); ok {
		l.Intensity = &i
	}
	if r, ok := scalarAs[float32](props, "inputs:radius"); ok {
		l.Radius = &r
	}
	if c, ok := scalarAs[value.Float3](props, "inputs:color"); ok {
		l.Color = &c
	}
	return l, nil
}

// ReconstructDomeLight builds a DomeLight.
func ReconstructDomeLight(props PropertyMap, refs ReferenceList) (*DomeLight, error) {
	l := &DomeLight{Core: newCore(props)}
	if i, ok := scalarAs[float32](props, "inputs:intensity"); ok {
		l.Intensity = &i
	}
	if c, ok := scalarAs[value.Float3](props, "inputs:color"); ok {
		l.Color = &c
	}
	if tex, ok := scalarAs[value.AssetPath](props, "inputs:texture:file"); ok {
		l.TextureFile = &tex
	}
	return l, nil
}

// ReconstructSkelRoot builds a SkelRoot.
func ReconstructSkelRoot(props PropertyMap, refs ReferenceList) (*SkelRoot, error) {
	return &SkelRoot{Core: newCore(props)}, nil
}

// ReconstructSkeleton builds a Skeleton.
func ReconstructSkeleton(props PropertyMap, refs ReferenceList) (*Skeleton, error) {
	s := &Skeleton{Core: newCore(props)}
	if joints, found, err := requireScalarAs[[]value.Token](props, "joints"); err != nil {
		return nil, err
	} else if found {
		s.Joints = joints
	}
	if bind, ok := scalarAs[[]value.Matrix4d](props, "bindTransforms"); ok {
		s.BindTransforms = bind
	}
	if rest, ok := scalarAs[[]value.Matrix4d](props, "restTransforms"); ok {
		s.RestTransforms = rest
	}
	return s, nil
}

// ReconstructSkelAnimation builds a SkelAnimation.
func ReconstructSkelAnimation(props PropertyMap, refs ReferenceList) (*SkelAnimation, error) {
	a := &SkelAnimation{Core: newCore(props)}
	if joints, found, err := requireScalarAs[[]value.Token](props, "joints"); err != nil {
		return nil, err
	} else if found {
		a.Joints = joints
	}
	if bs, ok := scalarAs[[]value.Token](props, "blendShapes"); ok {
		a.BlendShapes = bs
	}
	return a, nil
}

// reconstructors dispatches type-name strings to schema reconstruct
// functions. The set is closed; extending it means a new schema type plus
// one entry here.
var reconstructors = map[string]func(PropertyMap, ReferenceList) (TypedPrim, error){
	"Xform":         func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructXform(p, r) },
	"Model":         func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructModel(p, r) },
	"Scope":         func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructScope(p, r) },
	"Mesh":          func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructGeomMesh(p, r) },
	"Sphere":        func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructGeomSphere(p, r) },
	"Cube":          func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructGeomCube(p, r) },
	"Camera":        func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructGeomCamera(p, r) },
	"Material":      func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructMaterial(p, r) },
	"Shader":        func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructShader(p, r) },
	"SphereLight":   func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructSphereLight(p, r) },
	"DomeLight":     func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructDomeLight(p, r) },
	"SkelRoot":      func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructSkelRoot(p, r) },
	"Skeleton":      func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructSkeleton(p, r) },
	"SkelAnimation": func(p PropertyMap, r ReferenceList) (TypedPrim, error) { return ReconstructSkelAnimation(p, r) },
}

// Reconstruct dispatches typeName against the closed schema set. The second
// return is false when the type name is unknown.
func Reconstruct(typeName string, props PropertyMap, refs ReferenceList) (TypedPrim, bool, error) {
	fn, ok := reconstructors[typeName]
	if !ok {
		return nil, false, nil
	}
	prim, err := fn(props, refs)
	if err != nil {
		return nil, true, err
	}
	return prim, true, nil
}

// KnownSchema reports whether typeName is in the closed schema set.
func KnownSchema(typeName string) bool {
	_, ok := reconstructors[typeName]
	return ok
}
