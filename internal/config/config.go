package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/physics"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 10.0
	DefaultDemo     = "pendulum"
)

type Config struct {
	Demo      string                  `yaml:"demo"`
	Dt        float64                 `yaml:"dt"`
	Duration  float64                 `yaml:"duration"`
	Pendulum  physics.PendulumParams  `yaml:"pendulum"`
	Capillary physics.CapillaryParams `yaml:"capillary"`
	Wave      physics.WaveSettings    `yaml:"wave"`
}

func DefaultConfig() *Config {
	return &Config{
		Demo:      DefaultDemo,
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		Pendulum:  physics.DefaultPendulumParams(),
		Capillary: physics.DefaultCapillaryParams(),
		Wave:      physics.DefaultWaveSettings(),
	}
}

// Load reads a YAML config over the defaults, so a file only needs the
// fields it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// RunConfig is the driver view of the config.
func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{Dt: c.Dt, Duration: c.Duration, ValidateFrame: true}
}

// Validate checks the enumerations and the driver timing. Numeric demo
// parameters are not checked here; Clamp brings them into range.
func (c *Config) Validate() error {
	if _, err := physics.LookupLiquid(string(c.Capillary.Liquid)); err != nil {
		return err
	}
	if _, err := physics.LookupMedium(c.Wave.Medium); err != nil {
		return err
	}
	if !(c.Dt > 0) || c.Dt > dynamo.MaxFrameDt {
		return fmt.Errorf("dt %v outside (0, %v]: %w", c.Dt, dynamo.MaxFrameDt, dynamo.ErrParameterBounds)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration %v: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}

// Bounds is the inclusive range a user-facing control may take.
type Bounds struct {
	Min, Max float64
}

func (b Bounds) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return b.Min
	}
	return math.Max(b.Min, math.Min(b.Max, v))
}

var (
	LengthBounds      = Bounds{0.5, 5}
	MassBounds        = Bounds{0.1, 3}
	AngleBounds       = Bounds{0, 0.9 * math.Pi}
	GravityBounds     = Bounds{1, 20}
	DampingBounds     = Bounds{0, 0.2}
	FillBounds        = Bounds{0, 1}
	AmplitudeBounds   = Bounds{0.1, 1.5}
	FrequencyBounds   = Bounds{0.2, 3}
	WaveDampingBounds = Bounds{0, 0.1}
	PointsBounds      = Bounds{physics.MinWavePoints, 150}
	TubeHeightBounds  = Bounds{1, 10}
	TubeRadiusBounds  = Bounds{0.05, 1}
)

var ParamBoundsByDemo = map[string]map[string]Bounds{
	"pendulum": {
		"length":        LengthBounds,
		"mass":          MassBounds,
		"gravity":       GravityBounds,
		"damping":       DampingBounds,
		"initial_angle": AngleBounds,
	},
	"capillary": {
		"fill_level":  FillBounds,
		"tube_height": TubeHeightBounds,
		"tube_radius": TubeRadiusBounds,
	},
	"wave": {
		"amplitude": AmplitudeBounds,
		"frequency": FrequencyBounds,
		"damping":   WaveDampingBounds,
		"points":    PointsBounds,
	},
}

// ClampParam clamps a single named demo parameter. Unknown names pass through
// unchanged so the scene can reject them.
func ClampParam(demo, name string, v float64) float64 {
	if b, ok := ParamBoundsByDemo[demo][name]; ok {
		return b.Clamp(v)
	}
	return v
}

func ClampPendulum(p physics.PendulumParams) physics.PendulumParams {
	p.Length = LengthBounds.Clamp(p.Length)
	p.Mass = MassBounds.Clamp(p.Mass)
	p.Gravity = GravityBounds.Clamp(p.Gravity)
	p.Damping = DampingBounds.Clamp(p.Damping)
	p.InitialAngle = AngleBounds.Clamp(p.InitialAngle)
	return p
}

func ClampCapillary(p physics.CapillaryParams) physics.CapillaryParams {
	p.FillLevel = FillBounds.Clamp(p.FillLevel)
	p.TubeHeight = TubeHeightBounds.Clamp(p.TubeHeight)
	p.TubeRadius = TubeRadiusBounds.Clamp(p.TubeRadius)
	return p
}

func ClampWave(w physics.WaveSettings) physics.WaveSettings {
	w.Amplitude = AmplitudeBounds.Clamp(w.Amplitude)
	w.Frequency = FrequencyBounds.Clamp(w.Frequency)
	w.Damping = WaveDampingBounds.Clamp(w.Damping)
	w.Points = int(PointsBounds.Clamp(float64(w.Points)))
	return w
}

// Clamp brings every demo parameter into its control range.
func (c *Config) Clamp() {
	c.Pendulum = ClampPendulum(c.Pendulum)
	c.Capillary = ClampCapillary(c.Capillary)
	c.Wave = ClampWave(c.Wave)
}
