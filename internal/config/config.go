// Package config defines the per-run search configuration and loads
// optional defaults from a .linegrep.yaml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultWorkers is the worker count used when neither the flags nor the
// config file specify one.
const DefaultWorkers = 6

// FileName is the name of the optional defaults file, looked up in the
// current directory first and the user's home directory second.
const FileName = ".linegrep.yaml"

// Search is the configuration one search operates under. It is copied by
// value into every recursive walk call and every submitted job, so no
// branch or job can observe a sibling's mutation.
type Search struct {
	// Query is the literal string to look for.
	Query string

	// TargetPath is the current target, always absolute once the walk
	// has started: the walker rebinds it to each file's resolved path
	// before submitting a job.
	TargetPath string

	// Root is the directory linegrep was invoked from. Used only to
	// shorten paths for display.
	Root string

	// IgnoreCase matches without regard to case.
	IgnoreCase bool

	// Hidden includes entries whose name starts with a dot.
	Hidden bool

	// NoIgnore disables gitignore consultation. Orthogonal to Hidden:
	// hidden-file filtering still applies when NoIgnore is set.
	NoIgnore bool
}

// HistoryConfig configures the search-history store.
type HistoryConfig struct {
	// Enabled turns history recording on or off.
	Enabled bool `yaml:"enabled"`

	// DBPath overrides the database location. Empty means the default
	// of ~/.linegrep/history.db.
	DBPath string `yaml:"db_path"`
}

// Config holds the defaults a .linegrep.yaml file can provide.
type Config struct {
	// Workers is the pool size for directory searches.
	Workers int `yaml:"workers"`

	// Hidden includes hidden files and directories by default.
	Hidden bool `yaml:"hidden"`

	// NoIgnore disables gitignore filtering by default.
	NoIgnore bool `yaml:"no_ignore"`

	// LogLevel sets diagnostic verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// History configures the search-history store.
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with the built-in default values.
func DefaultConfig() *Config {
	return &Config{
		Workers:  DefaultWorkers,
		Hidden:   false,
		NoIgnore: false,
		LogLevel: "info",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
	}
}

// LoadConfig loads configuration from the given file path.
// If the file doesn't exist, it returns the defaults without error.
// If the file exists but is malformed, it returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("config file %s: workers must be at least 1, got %d", path, cfg.Workers)
	}

	return cfg, nil
}

// LoadDefault loads the defaults file from the current directory,
// falling back to the user's home directory, falling back to built-in
// defaults when neither file exists.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(FileName); err == nil {
		return LoadConfig(FileName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(filepath.Join(home, FileName))
}

// DatabasePath resolves the history database location, honoring the
// db_path override.
func (h HistoryConfig) DatabasePath() (string, error) {
	if h.DBPath != "" {
		return h.DBPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".linegrep", "history.db"), nil
}
