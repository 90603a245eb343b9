package config

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"

	defaultNumThreads         = -1
	defaultMaxFieldValuePairs = 4096
	defaultMaxElementSize     = 1024
	defaultMaxPrimNestLevel   = 256

	defaultCatalogEnabled = true
	defaultCatalogPath    = "~/.local/share/stagecrate/catalog.db"
)
