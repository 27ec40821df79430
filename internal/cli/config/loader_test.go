package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data-dir", "", "")
	flags.String("warehouse", "", "")
	flags.String("state", "", "")
	flags.String("env", "", "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", newFlagSet())
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultWarehouse, cfg.WarehousePath)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultEnv, cfg.Environment)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refinery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: sources
warehouse: retail.db
environment: staging
`), 0o644))

	cfg, err := Load(path, newFlagSet())
	require.NoError(t, err)

	// Relative paths in the config file resolve against its directory.
	assert.Equal(t, filepath.Join(dir, "sources"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "retail.db"), cfg.WarehousePath)
	assert.Equal(t, "staging", cfg.Environment)
	// Untouched keys keep their defaults.
	assert.Equal(t, filepath.Join(dir, DefaultStateFile), cfg.StatePath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refinery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: staging\n"), 0o644))

	t.Setenv("REFINERY_ENVIRONMENT", "prod")

	cfg, err := Load(path, newFlagSet())
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Environment)
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refinery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: staging\n"), 0o644))

	t.Setenv("REFINERY_ENVIRONMENT", "prod")

	flags := newFlagSet()
	require.NoError(t, flags.Set("env", "local"))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Environment)
}

func TestLoadFlagPathsResolveAgainstWorkingDirectory(t *testing.T) {
	flags := newFlagSet()
	require.NoError(t, flags.Set("warehouse", "local.db"))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "local.db"), cfg.WarehousePath)
}

func TestLoadMemoryPathPreserved(t *testing.T) {
	flags := newFlagSet()
	require.NoError(t, flags.Set("warehouse", ":memory:"))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.WarehousePath)
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), newFlagSet())
	assert.Error(t, err)
}

func TestFromContextFallsBackToDefaults(t *testing.T) {
	cfg := FromContext(t.Context())
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultEnv, cfg.Environment)
}
