package config

const (
	// DefaultStorePath is the default provider profile store location.
	DefaultStorePath = "data/providers.yaml"
	// DefaultExportDir is the directory exports are written to.
	DefaultExportDir = "exports"
)
