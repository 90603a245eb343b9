package value

// Specifier is the prim specifier. The numeric order is wire-visible and
// must not change: Def=0, Over, Class.
type Specifier int

const (
	SpecifierDef Specifier = iota
	SpecifierOver
	SpecifierClass
	SpecifierInvalid
)

func (s Specifier) String() string {
	switch s {
	case SpecifierDef:
		return "def"
	case SpecifierOver:
		return "over"
	case SpecifierClass:
		return "class"
	default:
		return "[[InvalidSpecifier]]"
	}
}

// SpecifierFromString maps the textual form back to the enum.
func SpecifierFromString(s string) (Specifier, bool) {
	switch s {
	case "def":
		return SpecifierDef, true
	case "over":
		return SpecifierOver, true
	case "class":
		return SpecifierClass, true
	default:
		return SpecifierInvalid, false
	}
}

// Variability of an attribute. Varying=0, Uniform, Config.
type Variability int

const (
	VariabilityVarying Variability = iota
	VariabilityUniform
	VariabilityConfig
	VariabilityInvalid
)

func (v Variability) String() string {
	switch v {
	case VariabilityVarying:
		return "varying"
	case VariabilityUniform:
		return "uniform"
	case VariabilityConfig:
		return "config"
	default:
		return "[[InvalidVariability]]"
	}
}

// Permission of a property. Public=0, Private.
type Permission int

const (
	PermissionPublic Permission = iota
	PermissionPrivate
	PermissionInvalid
)

func (p Permission) String() string {
	switch p {
	case PermissionPublic:
		return "public"
	case PermissionPrivate:
		return "private"
	default:
		return "[[InvalidPermission]]"
	}
}

// Interpolation of a primvar attribute.
type Interpolation int

const (
	InterpolationConstant Interpolation = iota
	InterpolationUniform
	InterpolationVarying
	InterpolationVertex
	InterpolationFaceVarying
	InterpolationInvalid
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationConstant:
		return "constant"
	case InterpolationUniform:
		return "uniform"
	case InterpolationVarying:
		return "varying"
	case InterpolationVertex:
		return "vertex"
	case InterpolationFaceVarying:
		return "faceVarying"
	default:
		return "[[InvalidInterpolation]]"
	}
}

// InterpolationFromString maps the token form back to the enum.
func InterpolationFromString(s string) (Interpolation, bool) {
	switch s {
	case "constant":
		return InterpolationConstant, true
	case "uniform":
		return InterpolationUniform, true
	case "varying":
		return InterpolationVarying, true
	case "vertex":
		return InterpolationVertex, true
	case "faceVarying":
		return InterpolationFaceVarying, true
	default:
		return InterpolationInvalid, false
	}
}

// Kind is the prim kind metadatum. sceneLibrary is the USDZ AR extension.
type Kind int

const (
	KindModel Kind = iota
	KindGroup
	KindAssembly
	KindComponent
	KindSubcomponent
	KindSceneLibrary
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindGroup:
		return "group"
	case KindAssembly:
		return "assembly"
	case KindComponent:
		return "component"
	case KindSubcomponent:
		return "subcomponent"
	case KindSceneLibrary:
		return "sceneLibrary"
	default:
		return "[[InvalidKind]]"
	}
}

// KindFromString maps the token form back to the enum.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "model":
		return KindModel, true
	case "group":
		return KindGroup, true
	case "assembly":
		return KindAssembly, true
	case "component":
		return KindComponent, true
	case "subcomponent":
		return KindSubcomponent, true
	case "sceneLibrary":
		return KindSceneLibrary, true
	default:
		return KindInvalid, false
	}
}

// Axis is the stage up-axis. Matching is case sensitive.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisInvalid
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "[[InvalidAxis]]"
	}
}

// AxisFromString maps "X", "Y" or "Z" back to the enum.
func AxisFromString(s string) (Axis, bool) {
	switch s {
	case "X":
		return AxisX, true
	case "Y":
		return AxisY, true
	case "Z":
		return AxisZ, true
	default:
		return AxisInvalid, false
	}
}

// ListEditQual qualifies how a list-edit bucket composes.
type ListEditQual int

const (
	ListEditResetToExplicit ListEditQual = iota
	ListEditAppend
	ListEditAdd
	ListEditDelete
	ListEditPrepend
	ListEditOrder
	ListEditInvalid
)

func (q ListEditQual) String() string {
	switch q {
	case ListEditResetToExplicit:
		return "unqualified"
	case ListEditAppend:
		return "append"
	case ListEditAdd:
		return "add"
	case ListEditDelete:
		return "delete"
	case ListEditPrepend:
		return "prepend"
	case ListEditOrder:
		return "order"
	default:
		return "[[InvalidListEditQual]]"
	}
}
