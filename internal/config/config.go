// Package config holds deckdiff configuration: report presentation, output
// target and logging. Values come from defaults, an optional yaml file, env
// overrides and finally command-line flags, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all deckdiff configuration.
type Config struct {
	// Output is the HTML report path. Empty means a timestamped name in
	// the working directory.
	Output string `yaml:"output"`

	// Context is the number of context lines shown around each change in
	// the section diffs. Negative means full, unwindowed display.
	Context int `yaml:"context"`

	// Separators draws a rule between bulk-data field columns in the
	// report.
	Separators bool `yaml:"separators"`

	// LaunchBrowser opens the finished report in the system browser.
	LaunchBrowser bool `yaml:"launch_browser"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Context:       -1,
		LaunchBrowser: true,
	}
}

// ContextLines translates the Context setting into the form the diff layer
// takes: nil for full display, otherwise the window size.
func (c *Config) ContextLines() *int {
	if c.Context < 0 {
		return nil
	}
	n := c.Context
	return &n
}

// Load reads configuration from path, falling back to defaults if the file
// does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path as yaml.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if out := os.Getenv("DECKDIFF_OUTPUT"); out != "" {
		c.Output = out
	}
	if os.Getenv("DECKDIFF_NO_BROWSER") != "" {
		c.LaunchBrowser = false
	}
	if os.Getenv("DECKDIFF_VERBOSE") != "" {
		c.Logging.Verbose = true
	}
}
