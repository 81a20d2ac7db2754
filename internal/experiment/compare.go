package experiment

import (
	"math"
	"time"

	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/integrators"
	"github.com/san-kum/labsim/internal/physics"
)

// IntegratorReport summarises one integrator on the pendulum equations.
type IntegratorReport struct {
	Integrator  string
	FinalAngle  float64
	EnergyDrift float64
	Elapsed     time.Duration
	Err         error
}

// CompareIntegrators integrates the same pendulum with each named integrator
// at a fixed dt and reports the largest relative energy drift. An unknown
// name is reported in its row rather than failing the comparison.
func CompareIntegrators(params physics.PendulumParams, names []string, dt, duration float64) []IntegratorReport {
	p := physics.NewPendulum(params)
	x0 := dynamo.State{p.Params().InitialAngle, 0}
	steps := 0
	if dt > 0 {
		steps = int(duration / dt)
	}

	reports := make([]IntegratorReport, 0, len(names))
	for _, name := range names {
		report := IntegratorReport{Integrator: name}
		integ, err := integrators.New(name)
		if err != nil {
			report.Err = err
			reports = append(reports, report)
			continue
		}

		start := time.Now()
		x := x0.Clone()
		e0 := p.Energy(x)
		t := 0.0
		for i := 0; i < steps; i++ {
			x = integ.Step(p, x, nil, t, dt)
			t += dt
			if !x.IsValid() {
				report.Err = dynamo.SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
				break
			}
			if e0 != 0 {
				report.EnergyDrift = math.Max(report.EnergyDrift, math.Abs(p.Energy(x)-e0)/math.Abs(e0))
			}
		}
		report.Elapsed = time.Since(start)
		report.FinalAngle = x[0]
		reports = append(reports, report)
	}
	return reports
}
