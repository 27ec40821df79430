// Package config provides configuration management for the refinery CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	DataDir       string `koanf:"data_dir"`
	WarehousePath string `koanf:"warehouse"`
	StatePath     string `koanf:"state_path"`
	Environment   string `koanf:"environment"`
	Verbose       bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultDataDir   = "data"
	DefaultWarehouse = "warehouse.db"
	DefaultStateFile = ".refinery/state.db"
	DefaultEnv       = "dev"
)
