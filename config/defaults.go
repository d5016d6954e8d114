package config

import "github.com/spf13/viper"

// DefaultDirPermissions is the mode for config directories created on save
const DefaultDirPermissions = 0755

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("catalog.source", "")

	// Dispatch defaults
	v.SetDefault("dispatch.threshold", 500)   // Part count at which computation offloads
	v.SetDefault("dispatch.debounce_ms", 100) // Debounce window for rapid input changes

	// Server defaults
	v.SetDefault("server.port", 8741)
	v.SetDefault("server.requests_per_second", 20.0)
	v.SetDefault("server.burst", 40)

	// Log defaults
	v.SetDefault("log.json", false)
}
