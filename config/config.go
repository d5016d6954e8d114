// Package config manages partbench configuration: defaults, a discovered
// project file, user overrides, and PARTBENCH_* environment variables.
package config

import "time"

// Config is the root partbench configuration
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog" toml:"catalog"`
	Dispatch DispatchConfig `mapstructure:"dispatch" toml:"dispatch"`
	Server   ServerConfig   `mapstructure:"server" toml:"server"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

// CatalogConfig configures where the part catalog is loaded from
type CatalogConfig struct {
	// Source is a local path or go-getter URL of the catalog document
	Source string `mapstructure:"source" toml:"source"`
}

// DispatchConfig configures the computation dispatcher
type DispatchConfig struct {
	// Threshold is the input size at which calculations offload to the
	// background worker (default: 500)
	Threshold int `mapstructure:"threshold" toml:"threshold"`
	// DebounceMS is the debounce window for rapid input changes, in
	// milliseconds (default: 100)
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"`
}

// Debounce returns the debounce window as a duration
func (c DispatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ServerConfig configures the websocket analytics endpoint
type ServerConfig struct {
	// Port is the listen port (default: 8741)
	Port int `mapstructure:"port" toml:"port"`
	// RequestsPerSecond is the per-connection rate limit (default: 20)
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second"`
	// Burst is the per-connection burst allowance (default: 40)
	Burst int `mapstructure:"burst" toml:"burst"`
}

// LogConfig configures logger output
type LogConfig struct {
	// JSON switches to JSON structured output instead of console formatting
	JSON bool `mapstructure:"json" toml:"json"`
}
