package scene

import "stagecrate/internal/value"

// APIName is one of the recognized applied API schemas. The set is closed;
// unknown tokens fail validation.
type APIName int

const (
	APIMaterialBindingAPI APIName = iota
	APISkelBindingAPI
	APIPreliminaryAnchoringAPI
	APIPreliminaryPhysicsColliderAPI
	APIPreliminaryPhysicsMaterialAPI
	APIPreliminaryPhysicsRigidBodyAPI
)

func (n APIName) String() string {
	switch n {
	case APIMaterialBindingAPI:
		return "MaterialBindingAPI"
	case APISkelBindingAPI:
		return "SkelBindingAPI"
	case APIPreliminaryAnchoringAPI:
		return "Preliminary_AnchoringAPI"
	case APIPreliminaryPhysicsColliderAPI:
		return "Preliminary_PhysicsColliderAPI"
	case APIPreliminaryPhysicsMaterialAPI:
		return "Preliminary_PhysicsMaterialAPI"
	case APIPreliminaryPhysicsRigidBodyAPI:
		return "Preliminary_PhysicsRigidBodyAPI"
	default:
		return "[[InvalidAPIName]]"
	}
}

// APINameFromToken maps a schema token to the enum.
func APINameFromToken(tok string) (APIName, bool) {
	switch tok {
	case "MaterialBindingAPI":
		return APIMaterialBindingAPI, true
	case "SkelBindingAPI":
		return APISkelBindingAPI, true
	case "Preliminary_AnchoringAPI":
		return APIPreliminaryAnchoringAPI, true
	case "Preliminary_PhysicsColliderAPI":
		return APIPreliminaryPhysicsColliderAPI, true
	case "Preliminary_PhysicsMaterialAPI":
		return APIPreliminaryPhysicsMaterialAPI, true
	case "Preliminary_PhysicsRigidBodyAPI":
		return APIPreliminaryPhysicsRigidBodyAPI, true
	default:
		return 0, false
	}
}

// APISchemaEntry is one applied schema with its instance name (used by
// multi-apply schemas; empty for single-apply).
type APISchemaEntry struct {
	Name     APIName
	Instance string
}

// APISchemas is the normalized apiSchemas list-op: one qualifier over the
// recognized schema names.
type APISchemas struct {
	Qual  value.ListEditQual
	Names []APISchemaEntry
}

// PrimMeta is prim-level metadata.
type PrimMeta struct {
	Active      *bool
	Hidden      *bool
	Kind        *value.Kind
	AssetInfo   value.Dictionary
	CustomData  value.Dictionary
	Doc         *value.StringData
	Comment     *value.StringData
	APISchemas  *APISchemas
	SceneName   *string
	DisplayName *string

	Extra   map[string]value.MetaVariable
	Strings []value.StringData
}

// Authored reports whether any prim metadatum was set.
func (m PrimMeta) Authored() bool {
	return m.Active != nil || m.Hidden != nil || m.Kind != nil || m.AssetInfo != nil ||
		m.CustomData != nil || m.Doc != nil || m.Comment != nil || m.APISchemas != nil ||
		m.SceneName != nil || m.DisplayName != nil || len(m.Extra) > 0 || len(m.Strings) > 0
}

// StageMetas is the pseudo-root (layer-level) metadata.
type StageMetas struct {
	UpAxis             *value.Axis
	MetersPerUnit      *float64
	TimeCodesPerSecond *float64
	StartTimeCode      *float64
	EndTimeCode        *float64
	DefaultPrim        value.Token
	CustomLayerData    value.Dictionary
	Doc                *value.StringData
	Comment            *value.StringData
}
