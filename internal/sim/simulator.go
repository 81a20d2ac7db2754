package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/labsim/internal/dynamo"
)

// Simulator drives one scene headlessly at a fixed tick, the way a render
// loop would, and records every frame.
type Simulator struct {
	scene     dynamo.Scene
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(scene dynamo.Scene) *Simulator {
	return &Simulator{
		scene:     scene,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Scene() dynamo.Scene { return s.scene }

// Run ticks the scene Duration/Dt times starting from its current state.
// The frame before the first tick is recorded at t=0.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &dynamo.Result{
		Scene:   s.scene.Name(),
		Labels:  s.scene.SampleLabels(),
		Samples: make([][]float64, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	frame := s.scene.Tick(0)
	result.Samples = append(result.Samples, frame.Samples())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		frame = s.scene.Tick(cfg.Dt)
		t += cfg.Dt

		samples := frame.Samples()
		if cfg.ValidateFrame && !dynamo.AllFinite(samples) {
			err := dynamo.SimError{Time: t, Step: i, Message: "invalid frame (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		for _, m := range s.metrics {
			m.Observe(frame, t)
		}
		for _, obs := range s.observers {
			obs.OnFrame(frame, t)
		}

		result.StepsTaken++
		result.Samples = append(result.Samples, samples)
		result.Times = append(result.Times, t)
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback ticks the scene until Duration elapses or the callback
// returns false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg dynamo.Config, callback func(dynamo.Frame, float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	frame := s.scene.Tick(0)

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(frame, t) {
			return nil
		}

		frame = s.scene.Tick(cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateFrame && !dynamo.AllFinite(frame.Samples()) {
			return fmt.Errorf("invalid frame at t=%.4f: %w", t, dynamo.ErrInvalidState)
		}
	}

	return nil
}

func validateConfig(cfg dynamo.Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrParameterBounds)
	}
	if cfg.Dt > dynamo.MaxFrameDt {
		return fmt.Errorf("dt %f exceeds the %.2fs frame cap: %w", cfg.Dt, dynamo.MaxFrameDt, dynamo.ErrParameterBounds)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}
