// Package config loads dircomp configuration from YAML files and merges it
// with command line flags. Flags take precedence over file settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Engine names accepted by the engine setting.
const (
	EngineGit    = "git"
	EngineNative = "native"
)

// Config represents dircomp configuration options.
type Config struct {
	// Engine selects the comparison engine: "git" (external git diff) or
	// "native" (in-process).
	Engine string `yaml:"engine"`

	// GitPath is the git binary invoked by the git engine.
	GitPath string `yaml:"git_path"`

	// RenameThreshold is the minimum similarity (0-100) for a removed/added
	// pair to be reported as a rename.
	RenameThreshold int `yaml:"rename_threshold"`

	// Jobs is the number of concurrent hunk retrievals. 1 preserves strictly
	// sequential behavior.
	Jobs int `yaml:"jobs"`

	// HunkTimeout bounds each per-file hunk retrieval. Expiry degrades that
	// record's hunk to a placeholder instead of failing the run. 0 disables
	// the timeout.
	HunkTimeout time.Duration `yaml:"hunk_timeout"`

	// LogLevel sets diagnostic verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// ShowUnchanged includes the Unchanged section in text output.
	ShowUnchanged bool `yaml:"show_unchanged"`

	// BinaryExtensions lists additional file extensions routed through the
	// text extraction registry as plain text, beyond the built-in office and
	// PDF formats.
	BinaryExtensions []string `yaml:"binary_extensions"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Engine:          EngineGit,
		GitPath:         "git",
		RenameThreshold: 50, // Matches git's -M default.
		Jobs:            1,
		HunkTimeout:     30 * time.Second,
		LogLevel:        "info",
		ShowUnchanged:   true,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings ("30s", "2m") in YAML.
	type yamlConfig struct {
		Engine           string   `yaml:"engine"`
		GitPath          string   `yaml:"git_path"`
		RenameThreshold  *int     `yaml:"rename_threshold"`
		Jobs             int      `yaml:"jobs"`
		HunkTimeout      string   `yaml:"hunk_timeout"`
		LogLevel         string   `yaml:"log_level"`
		ShowUnchanged    *bool    `yaml:"show_unchanged"`
		BinaryExtensions []string `yaml:"binary_extensions"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Engine != "" {
		cfg.Engine = yamlCfg.Engine
	}
	if yamlCfg.GitPath != "" {
		cfg.GitPath = yamlCfg.GitPath
	}
	if yamlCfg.RenameThreshold != nil {
		cfg.RenameThreshold = *yamlCfg.RenameThreshold
	}
	if yamlCfg.Jobs != 0 {
		cfg.Jobs = yamlCfg.Jobs
	}
	if yamlCfg.HunkTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.HunkTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid hunk_timeout format %q: %w", yamlCfg.HunkTimeout, err)
		}
		cfg.HunkTimeout = timeout
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.ShowUnchanged != nil {
		cfg.ShowUnchanged = *yamlCfg.ShowUnchanged
	}
	if len(yamlCfg.BinaryExtensions) > 0 {
		cfg.BinaryExtensions = yamlCfg.BinaryExtensions
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .dircomp/config.yaml in the
// specified directory. A missing directory or file yields defaults.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".dircomp", "config.yaml"))
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Engine != EngineGit && c.Engine != EngineNative {
		return fmt.Errorf("invalid engine %q, must be %q or %q", c.Engine, EngineGit, EngineNative)
	}

	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if c.RenameThreshold < 0 || c.RenameThreshold > 100 {
		return fmt.Errorf("rename_threshold must be between 0 and 100, got %d", c.RenameThreshold)
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be >= 1, got %d", c.Jobs)
	}

	if c.HunkTimeout < 0 {
		return fmt.Errorf("hunk_timeout must be >= 0, got %v", c.HunkTimeout)
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}
