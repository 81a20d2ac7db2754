package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/labsim/internal/analysis"
	"github.com/san-kum/labsim/internal/config"
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/experiment"
	"github.com/san-kum/labsim/internal/physics"
	"github.com/san-kum/labsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// eventSlack absorbs the rounding of an accumulated clock so an event at
// t=1 fires on the tick that starts at 100×0.01.
const eventSlack = 1e-9

// Scenario is a scripted run: one demo driven at a fixed tick while events
// change its parameters, the way a user dragging sliders would. Dt and
// Duration override the embedded config when set.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Demo        string         `yaml:"demo"`
	Dt          float64        `yaml:"dt"`
	Duration    float64        `yaml:"duration"`
	Config      *config.Config `yaml:"config,omitempty"`
	Events      []Event        `yaml:"events"`
}

// Event fires before the first tick whose start time is at or after At.
// Exactly one of Param, Liquid, Medium or Reset should be set.
type Event struct {
	At     float64 `yaml:"at"`
	Param  string  `yaml:"param,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
	Liquid string  `yaml:"liquid,omitempty"`
	Medium string  `yaml:"medium,omitempty"`
	Reset  bool    `yaml:"reset,omitempty"`
}

func (e Event) String() string {
	switch {
	case e.Param != "":
		return fmt.Sprintf("t=%.3f %s=%g", e.At, e.Param, e.Value)
	case e.Liquid != "":
		return fmt.Sprintf("t=%.3f liquid=%s", e.At, e.Liquid)
	case e.Medium != "":
		return fmt.Sprintf("t=%.3f medium=%s", e.At, e.Medium)
	default:
		return fmt.Sprintf("t=%.3f reset", e.At)
	}
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	scenario := Scenario{Config: config.DefaultConfig()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	if s.Config != nil {
		c := *s.Config
		cfg = &c
	}
	if s.Demo != "" {
		cfg.Demo = s.Demo
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	return cfg
}

type liquidSetter interface {
	SetLiquid(physics.LiquidKind) error
}

type mediumSetter interface {
	SetMedium(string) error
}

// Scripted wraps a scene and applies due events before each tick.
type Scripted struct {
	dynamo.Scene
	demo    string
	events  []Event
	next    int
	clock   float64
	applied []Event
	err     error
}

func NewScripted(demo string, scene dynamo.Scene, events []Event) *Scripted {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &Scripted{Scene: scene, demo: demo, events: sorted}
}

func (s *Scripted) Tick(dt float64) dynamo.Frame {
	for s.err == nil && s.next < len(s.events) && s.events[s.next].At <= s.clock+eventSlack {
		ev := s.events[s.next]
		if err := s.apply(ev); err != nil {
			s.err = fmt.Errorf("event %d (%s): %w", s.next, ev, err)
			break
		}
		s.applied = append(s.applied, ev)
		s.next++
	}
	if h, ok := dynamo.GuardDt(dt); ok {
		s.clock += h
	}
	return s.Scene.Tick(dt)
}

func (s *Scripted) apply(ev Event) error {
	switch {
	case ev.Param != "":
		c, ok := s.Scene.(dynamo.Configurable)
		if !ok {
			return fmt.Errorf("%s has no parameters: %w", s.demo, dynamo.ErrUnknownParam)
		}
		return c.SetParam(ev.Param, config.ClampParam(s.demo, ev.Param, ev.Value))
	case ev.Liquid != "":
		c, ok := s.Scene.(liquidSetter)
		if !ok {
			return fmt.Errorf("%s has no liquid: %w", s.demo, dynamo.ErrUnknownParam)
		}
		return c.SetLiquid(physics.LiquidKind(ev.Liquid))
	case ev.Medium != "":
		c, ok := s.Scene.(mediumSetter)
		if !ok {
			return fmt.Errorf("%s has no medium: %w", s.demo, dynamo.ErrUnknownParam)
		}
		return c.SetMedium(ev.Medium)
	case ev.Reset:
		s.Scene.Reset()
		return nil
	default:
		return fmt.Errorf("empty event at t=%.3f", ev.At)
	}
}

// Applied lists the events fired so far, in order.
func (s *Scripted) Applied() []Event { return s.applied }

// Err is the first event that could not be applied. No further events fire
// after it.
func (s *Scripted) Err() error { return s.err }

// RunScenario builds the scenario's demo, drives it for the whole duration and
// fails if any event could not be applied.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) (*dynamo.Result, []Event, error) {
	cfg := scenario.baseConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	scene, err := registry.GetScene(cfg.Demo, cfg)
	if err != nil {
		return nil, nil, err
	}

	scripted := NewScripted(cfg.Demo, scene, scenario.Events)
	s := sim.New(scripted)
	for _, m := range registry.DefaultMetrics(scene) {
		s.AddMetric(m)
	}

	result, err := s.Run(ctx, cfg.RunConfig())
	if err != nil {
		return result, scripted.Applied(), err
	}
	if err := scripted.Err(); err != nil {
		return result, scripted.Applied(), err
	}
	return result, scripted.Applied(), nil
}

// ParameterSweep runs one pendulum per value of a parameter
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Base      physics.PendulumParams
	Duration  float64
	Dt        float64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue        float64
	MeasuredPeriod    float64
	TheoreticalPeriod float64
	MaxEnergy         float64
	MinEnergy         float64
}

// RunSweep runs every pendulum of the sweep concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d: %w", sweep.NumSteps, dynamo.ErrParameterBounds)
	}

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	pendulums := make([]*physics.Pendulum, sweep.NumSteps)
	jobs := make([]sim.Job, sweep.NumSteps)
	values := make([]float64, sweep.NumSteps)

	for i := range jobs {
		values[i] = sweep.ParamMin + float64(i)*paramStep
		p := physics.NewPendulum(sweep.Base)
		if err := p.SetParam(sweep.ParamName, values[i]); err != nil {
			return nil, err
		}
		pendulums[i] = p
		jobs[i] = sim.Job{Scene: p}
	}

	cfg := dynamo.Config{Dt: sweep.Dt, Duration: sweep.Duration, ValidateFrame: true}
	runs, err := sim.RunBatch(ctx, jobs, cfg)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i, res := range runs {
		p := pendulums[i]
		period, _ := analysis.CrossingPeriod(res.Column(0), sweep.Dt)

		var maxE, minE float64
		for k, s := range res.Samples {
			e := p.Energy(dynamo.State{s[0], s[1]})
			if k == 0 || e > maxE {
				maxE = e
			}
			if k == 0 || e < minE {
				minE = e
			}
		}

		results = append(results, SweepResult{
			ParamValue:        values[i],
			MeasuredPeriod:    period,
			TheoreticalPeriod: p.TheoreticalPeriod(),
			MaxEnergy:         maxE,
			MinEnergy:         minE,
		})
	}

	return results, nil
}
