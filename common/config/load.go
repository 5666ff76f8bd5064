package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load returns the defaults overlaid with the YAML file at path. An empty
// path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the values the builder cannot recover from.
func (c *Config) Validate() error {
	if c.Build.CellSize <= 0 {
		return fmt.Errorf("build.cell_size must be positive, got %v", c.Build.CellSize)
	}
	if c.Build.CellHeight <= 0 {
		return fmt.Errorf("build.cell_height must be positive, got %v", c.Build.CellHeight)
	}
	if c.Build.MaxVertsPerPoly < 3 || c.Build.MaxVertsPerPoly > 6 {
		return fmt.Errorf("build.max_verts_per_poly must be in [3, 6], got %d", c.Build.MaxVertsPerPoly)
	}
	switch c.Output.Format {
	case "bin", "proto":
	default:
		return fmt.Errorf("output.format must be bin or proto, got %q", c.Output.Format)
	}
	return nil
}

// Save writes cfg as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
