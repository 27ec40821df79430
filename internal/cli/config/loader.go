package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configKey and loggerKey store the loaded config and logger in the command
// context.
type (
	configKey struct{}
	loggerKey struct{}
)

var configFileUsed string

// findConfigFile finds the config file to use.
// Priority: explicit path > refinery.yaml > refinery.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"refinery.yaml", "refinery.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Relative paths from the config file are resolved against its directory;
// relative paths from flags stay relative to the working directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data_dir":    DefaultDataDir,
		"warehouse":   DefaultWarehouse,
		"state_path":  DefaultStateFile,
		"environment": DefaultEnv,
		"verbose":     false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, if present.
	configFileUsed = findConfigFile(cfgFile)
	baseDir := ""
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			baseDir = filepath.Dir(abs)
		}
	}

	// 3. Environment variables: REFINERY_DATA_DIR -> data_dir.
	if err := k.Load(env.Provider("REFINERY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "REFINERY_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority). Only explicitly set flags are loaded.
	var flagPaths map[string]string
	if flags != nil {
		flagPaths = changedPathFlags(flags)
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// Bridge flag spellings to config keys.
			switch key {
			case "state":
				key = "state_path"
			case "env":
				key = "environment"
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Paths from the config file resolve relative to it; paths given as
	// flags were already made absolute relative to the working directory.
	if p, ok := flagPaths["data-dir"]; ok {
		cfg.DataDir = p
	} else {
		cfg.DataDir = resolvePathRelativeTo(cfg.DataDir, baseDir)
	}
	if p, ok := flagPaths["warehouse"]; ok {
		cfg.WarehousePath = p
	} else {
		cfg.WarehousePath = resolvePathRelativeTo(cfg.WarehousePath, baseDir)
	}
	if p, ok := flagPaths["state"]; ok {
		cfg.StatePath = p
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, baseDir)
	}

	return &cfg, nil
}

// changedPathFlags returns absolute paths for path-valued flags that were
// explicitly set, to prevent double resolution against the config directory.
func changedPathFlags(flags *pflag.FlagSet) map[string]string {
	paths := make(map[string]string)
	for _, name := range []string{"data-dir", "warehouse", "state"} {
		if !flags.Changed(name) {
			continue
		}
		v, _ := flags.GetString(name)
		if v == "" {
			continue
		}
		if v != ":memory:" {
			if abs, err := filepath.Abs(v); err == nil {
				v = abs
			}
		}
		paths[name] = v
	}
	return paths
}

// resolvePathRelativeTo resolves a path relative to baseDir if it is not
// absolute. Returns the path unchanged when empty, absolute, or :memory:.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// NewContext stores the config and logger in a context.
func NewContext(ctx context.Context, cfg *Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves the config from the command context, falling back
// to defaults when none was stored.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{
		DataDir:       DefaultDataDir,
		WarehousePath: DefaultWarehouse,
		StatePath:     DefaultStateFile,
		Environment:   DefaultEnv,
	}
}

// LoggerFromContext retrieves the logger from the command context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
