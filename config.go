package molshape

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/molshape/molshape/overlay"
)

// Config is the file-based counterpart of the functional options. Zero
// values keep the library defaults, so a partial file is fine.
type Config struct {
	// Device is the execution backend id. 0 is the host.
	Device int `yaml:"device"`
	// Lanes overrides the device's parallel lane count. 0 keeps the
	// device default.
	Lanes int `yaml:"lanes"`
	// MaxIterations caps the ascent iterations per optimizer seed.
	MaxIterations int `yaml:"max_iterations"`
	// Tolerance is the relative improvement threshold for convergence.
	Tolerance float64 `yaml:"tolerance"`
	// ColorWeight weights color overlap in the optimization objective.
	// nil keeps the default of 1; an explicit 0 optimizes shape only.
	ColorWeight *float64 `yaml:"color_weight"`
	// Seeds selects the starting-orientation strategy: "inertial"
	// (default) or "identity".
	Seeds string `yaml:"seeds"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Options converts the config into functional options for New.
func (c *Config) Options() ([]Option, error) {
	opts := []Option{WithDevice(c.Device)}
	if c.Lanes > 0 {
		opts = append(opts, WithLanes(c.Lanes))
	}
	if c.MaxIterations > 0 {
		opts = append(opts, WithMaxIterations(c.MaxIterations))
	}
	if c.Tolerance > 0 {
		opts = append(opts, WithTolerance(c.Tolerance))
	}
	if c.ColorWeight != nil {
		opts = append(opts, WithColorWeight(*c.ColorWeight))
	}
	switch c.Seeds {
	case "", "inertial":
		// default
	case "identity":
		opts = append(opts, WithSeedMode(overlay.SeedIdentity))
	default:
		return nil, fmt.Errorf("unknown seed mode %q", c.Seeds)
	}
	return opts, nil
}
