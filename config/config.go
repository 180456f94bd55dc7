// Package config loads optional scan defaults from a YAML file. Command-line
// flags always override file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultPath is consulted when no --config flag is given; a missing file at
// this path is not an error.
const DefaultPath = "cpescan.yaml"

// Config holds scan and push defaults
type Config struct {
	Server        string `yaml:"server"`
	Output        string `yaml:"output"`
	Format        string `yaml:"format"`
	Detailed      bool   `yaml:"detailed"`
	SkipSoftware  bool   `yaml:"skip_software"`
	LimitSoftware int    `yaml:"limit_software"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: "http://localhost:8080",
		Format: "xlsx",
	}
}

// Load reads the configuration at path, layered over the defaults. When
// required is false a missing file silently yields the defaults.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}
