package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SizeMode controls whether project byte sizes are computed during a scan.
type SizeMode string

const (
	// SizeModeExact computes exact byte totals and caches them in the catalog.
	SizeModeExact SizeMode = "exact_cached"
	// SizeModeNone skips size computation entirely.
	SizeModeNone SizeMode = "none"
)

// VCSConfig holds version-control related settings.
type VCSConfig struct {
	UseCLIFallback bool `json:"use_cli_fallback"`
}

// Config is the process-wide scan configuration, loaded once per invocation
// from the per-user settings file. A scan never mutates it.
type Config struct {
	Roots         []string  `json:"roots"`
	GlobalIgnores []string  `json:"global_ignores"`
	SizeMode      SizeMode  `json:"size_mode"`
	Concurrency   int       `json:"concurrency"`
	VCS           VCSConfig `json:"git"`
}

// Default returns the built-in configuration used when no settings file exists.
func Default() *Config {
	return &Config{
		Roots: []string{ExpandTilde("~/Code")},
		GlobalIgnores: []string{
			".git",
			"node_modules",
			"target",
			"build",
			"dist",
			".venv",
			"Pods",
			"DerivedData",
			".cache",
		},
		SizeMode:    SizeModeExact,
		Concurrency: 8,
		VCS:         VCSConfig{UseCLIFallback: false},
	}
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, "projcat"), nil
}

// ConfigPath returns the location of the JSON settings document.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DataDir returns the per-user data directory holding the catalog.
func DataDir() (string, error) {
	// Config and data share a directory; SQLite and settings live side by side.
	return ConfigDir()
}

// DBPath returns the default catalog location.
func DBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects.sqlite"), nil
}

// AppIgnorePath returns the app-level ignore file next to config.json.
func AppIgnorePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ignore"), nil
}

// LegacyIgnorePath returns the legacy user ignore file location,
// ~/.config/project-browser/ignore.
func LegacyIgnorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}
	return filepath.Join(home, ".config", "project-browser", "ignore")
}

// Load reads the settings file at the well-known location, returning the
// built-in defaults when the file does not exist. A file that exists but
// cannot be read or parsed is a fatal configuration error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the settings file at an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for i, root := range cfg.Roots {
		cfg.Roots[i] = ExpandTilde(root)
	}
	return cfg, nil
}

// Save writes the configuration as pretty-printed JSON, creating the
// config directory if needed.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return c.SaveTo(filepath.Join(dir, "config.json"))
}

// SaveTo writes the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// ExpandTilde replaces a leading "~" with the current user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
