package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/physics"
)

// Preset edits a default config in place.
type Preset func(*Config)

var Presets = map[string]map[string]Preset{
	"pendulum": {
		"small": func(c *Config) {
			c.Pendulum.InitialAngle = 0.2
			c.Pendulum.Damping = 0
			c.Duration = 20
		},
		"large": func(c *Config) {
			c.Pendulum.InitialAngle = 0.85 * math.Pi
			c.Duration = 20
		},
		"moon": func(c *Config) {
			c.Pendulum.Gravity = 1.62
			c.Pendulum.Damping = 0
			c.Duration = 30
		},
		"heavy_damping": func(c *Config) {
			c.Pendulum.Damping = 0.2
		},
	},
	"capillary": {
		"mercury": func(c *Config) {
			c.Capillary.Liquid = physics.Mercury
		},
		"oil_full": func(c *Config) {
			c.Capillary.Liquid = physics.Oil
			c.Capillary.FillLevel = 0.95
		},
		"empty": func(c *Config) {
			c.Capillary.FillLevel = 0
		},
	},
	"wave": {
		"calm": func(c *Config) {
			c.Wave.Amplitude = 0.2
			c.Wave.Frequency = 0.5
		},
		"storm": func(c *Config) {
			c.Wave.Amplitude = 1.5
			c.Wave.Frequency = 3
			c.Wave.Damping = 0
			c.Wave.Medium = "air"
		},
		"metal": func(c *Config) {
			c.Wave.Medium = "metal"
			c.Wave.Points = 150
		},
	},
}

// GetPreset returns a default config for demo with the named preset applied.
func GetPreset(demo, preset string) (*Config, error) {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil, fmt.Errorf("%q: %w", demo, dynamo.ErrUnknownScene)
	}
	apply, ok := demoPresets[preset]
	if !ok {
		return nil, fmt.Errorf("preset %q for %s: %w", preset, demo, dynamo.ErrUnknownPreset)
	}
	cfg := DefaultConfig()
	cfg.Demo = demo
	apply(cfg)
	return cfg, nil
}

// ListPresets returns the preset names of demo in sorted order.
func ListPresets(demo string) []string {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(demoPresets))
	for name := range demoPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
