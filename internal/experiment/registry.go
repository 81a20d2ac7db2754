package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/labsim/internal/config"
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/integrators"
	"github.com/san-kum/labsim/internal/metrics"
	"github.com/san-kum/labsim/internal/physics"
)

// SceneFactory builds a fresh scene from the demo's section of cfg.
type SceneFactory func(cfg *config.Config) (dynamo.Scene, error)

type Registry struct {
	scenes map[string]SceneFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes: make(map[string]SceneFactory),
	}

	r.scenes["pendulum"] = func(cfg *config.Config) (dynamo.Scene, error) {
		return physics.NewPendulum(cfg.Pendulum), nil
	}
	r.scenes["capillary"] = func(cfg *config.Config) (dynamo.Scene, error) {
		return physics.NewCapillary(cfg.Capillary)
	}
	r.scenes["wave"] = func(cfg *config.Config) (dynamo.Scene, error) {
		return physics.NewWaveField(cfg.Wave)
	}

	return r
}

// Register adds or replaces a demo.
func (r *Registry) Register(name string, fn SceneFactory) {
	r.scenes[name] = fn
}

func (r *Registry) GetScene(name string, cfg *config.Config) (dynamo.Scene, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownScene)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return fn(cfg)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	return integrators.New(name)
}

// ListScenes returns the registered demo names in sorted order.
func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics picks the observers worth reporting for a scene.
func (r *Registry) DefaultMetrics(scene dynamo.Scene) []dynamo.Metric {
	switch s := scene.(type) {
	case *physics.Pendulum:
		return []dynamo.Metric{
			metrics.NewEnergy(s),
			metrics.NewEnergyDrift(s),
			metrics.NewEnergyRise(s, 1e-3),
			metrics.NewStability(1e3),
		}
	case *physics.Capillary:
		return []dynamo.Metric{
			metrics.NewPeak("peak_offset", 2),
			metrics.NewStability(s.Params().TubeHeight + 1),
		}
	case *physics.WaveField:
		return []dynamo.Metric{
			metrics.NewPeak("peak_height", 2),
			metrics.NewPeak("origin_extent", 1),
		}
	default:
		return nil
	}
}
