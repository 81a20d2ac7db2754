package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/labsim/internal/config"
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/sim"
)

// Experiment is one configured demo ready to be driven headlessly.
type Experiment struct {
	cfg       *config.Config
	scene     dynamo.Scene
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the scene named by cfg.Demo and attaches its default metrics.
func (e *Experiment) Setup(r *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	scene, err := r.GetScene(e.cfg.Demo, e.cfg)
	if err != nil {
		return err
	}
	e.scene = scene
	e.simulator = sim.New(scene)
	for _, m := range r.DefaultMetrics(scene) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.RunConfig())
}

func (e *Experiment) Scene() dynamo.Scene { return e.scene }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
