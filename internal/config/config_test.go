package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHasUnboundedCache(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0, cfg.Cache.MaxEntries)
	assert.False(t, cfg.Features.LegacyMutableRefVariance)
	assert.Equal(t, "std", cfg.StdlibPath)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typecore.yaml")
	content := []byte(`
module_search_paths:
  - vendor/types
  - ./local
stdlib_path: stdlib
features:
  legacy_mutable_ref_variance: true
cache:
  max_entries: 5000
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/types", "./local"}, cfg.ModuleSearchPaths)
	assert.Equal(t, "stdlib", cfg.StdlibPath)
	assert.True(t, cfg.Features.LegacyMutableRefVariance)
	assert.Equal(t, 5000, cfg.Cache.MaxEntries)
}

func TestLoadOrDefaultMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOrDefaultEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestMergeFromOverlaysNonZeroFields(t *testing.T) {
	base := Default()
	base.MergeFrom(&Config{Features: Features{LegacyMutableRefVariance: true}})
	assert.True(t, base.Features.LegacyMutableRefVariance)
	assert.Equal(t, "std", base.StdlibPath) // untouched field keeps its value
}
