package value

// MetaVariable is a single dictionary entry: a named value of any supported
// type. Nested dictionaries are Values holding a Dictionary.
type MetaVariable struct {
	Name  string
	Value Value
}

// Dictionary is the customData/assetInfo payload type.
type Dictionary map[string]MetaVariable
