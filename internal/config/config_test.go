package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a directory without a config.yaml so only defaults apply.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gws.lavb.de", cfg.Lookup.BaseURL)
	assert.Equal(t, 15, cfg.Lookup.TimeoutSecs)
	assert.Equal(t, "data.json", cfg.Harvest.Output)
	assert.Equal(t, 4, cfg.Harvest.Concurrency)
	assert.Len(t, cfg.Harvest.IDFiles, 4)
	assert.Equal(t, 50.0, cfg.Query.DefaultRadiusKm)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/config.yaml", []byte(`
lookup:
  base_url: http://localhost:9999
harvest:
  concurrency: 8
store:
  driver: postgres
  database_url: postgres://localhost/spots
`), 0o644))
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Lookup.BaseURL)
	assert.Equal(t, 8, cfg.Harvest.Concurrency)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	// Untouched keys keep defaults.
	assert.Equal(t, "data.json", cfg.Harvest.Output)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))

	err := InitLogger(LogConfig{Level: "verbose", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
