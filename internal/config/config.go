// Package config loads the core's YAML-driven configuration: module
// search paths for the loader, feature flags that alter otherwise-fixed
// component behavior, and subtype-cache sizing knobs (SPEC_FULL.md
// AMBIENT STACK / Configuration).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Features holds the feature flags consulted by individual components.
// Each flag is named after the behavior it toggles, not the component
// that reads it, since a flag may be read from more than one place.
type Features struct {
	// LegacyMutableRefVariance relaxes RefMut from invariant to covariant
	// when read by the Subtype Oracle (§9 open question; types.RefMut's
	// own doc comment reserves this exact name). The Type Model and
	// Unifier never consult this flag — only internal/subtype does.
	LegacyMutableRefVariance bool `yaml:"legacy_mutable_ref_variance"`
}

// CacheConfig sizes the process-wide subtype cache (§5 "Shared state").
type CacheConfig struct {
	// MaxEntries is loaded and merged like any other setting, but the
	// subtype Cache does not read it: the cache has no size bound and
	// never evicts, growing monotonically.
	MaxEntries int `yaml:"max_entries"`
}

// Config is the root configuration shape, deserialized from a YAML
// document.
type Config struct {
	// ModuleSearchPaths are repo-relative module roots. They are loaded
	// and merged, but FileLoader.resolvePath does not consult them: it
	// resolves names against its base path and stdlib path only.
	ModuleSearchPaths []string `yaml:"module_search_paths"`
	// StdlibPath is the root "std/..." imports resolve under.
	StdlibPath string `yaml:"stdlib_path"`
	Features   Features    `yaml:"features"`
	Cache      CacheConfig `yaml:"cache"`
}

// Default returns the configuration used when no YAML file is supplied:
// no extra search paths, an unbounded cache, and every legacy flag off.
func Default() *Config {
	return &Config{
		StdlibPath: "std",
		Cache:      CacheConfig{MaxEntries: 0},
	}
}

// Load reads and parses a YAML config file at path. Missing fields keep
// their zero value; callers that need defaults should start from
// Default() and call MergeFrom, or call LoadOrDefault.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists, overlaying it onto Default();
// a missing file is not an error, matching the teacher's
// eval_harness convention of treating absent config as "use defaults".
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	loaded, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	cfg.MergeFrom(loaded)
	return cfg, nil
}

// MergeFrom overlays non-zero fields of other onto c.
func (c *Config) MergeFrom(other *Config) {
	if other == nil {
		return
	}
	if len(other.ModuleSearchPaths) > 0 {
		c.ModuleSearchPaths = other.ModuleSearchPaths
	}
	if other.StdlibPath != "" {
		c.StdlibPath = other.StdlibPath
	}
	c.Features.LegacyMutableRefVariance = c.Features.LegacyMutableRefVariance || other.Features.LegacyMutableRefVariance
	if other.Cache.MaxEntries != 0 {
		c.Cache.MaxEntries = other.Cache.MaxEntries
	}
}
