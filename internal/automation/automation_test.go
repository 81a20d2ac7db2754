package automation_test

import (
	"context"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/labsim/internal/automation"
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/experiment"
	"github.com/san-kum/labsim/internal/physics"
)

// firstIndexAfter is the first recorded frame whose time is past t.
func firstIndexAfter(res *dynamo.Result, t float64) int {
	for i, tt := range res.Times {
		if tt > t+1e-6 {
			return i
		}
	}
	return -1
}

var _ = Describe("Scenario", func() {
	var (
		ctx      context.Context
		registry *experiment.Registry
	)

	BeforeEach(func() {
		ctx = context.Background()
		registry = experiment.NewRegistry()
	})

	pendulumScenario := func(ev automation.Event) *automation.Scenario {
		sc, err := automation.ParseScenario([]byte("demo: pendulum\ndt: 0.01\nduration: 2\n"))
		Expect(err).NotTo(HaveOccurred())
		sc.Events = []automation.Event{ev}
		return sc
	}

	Describe("parsing", func() {
		It("reads events and keeps config defaults for missing fields", func() {
			sc, err := automation.ParseScenario([]byte(`
name: fill-and-swap
demo: capillary
dt: 0.02
duration: 3
config:
  capillary:
    fill_level: 0.3
events:
  - at: 1
    liquid: mercury
  - at: 0.5
    param: fill_level
    value: 0.9
`))
			Expect(err).NotTo(HaveOccurred())
			Expect(sc.Name).To(Equal("fill-and-swap"))
			Expect(sc.Events).To(HaveLen(2))
			Expect(sc.Config.Capillary.FillLevel).To(Equal(0.3))
			Expect(sc.Config.Capillary.TubeHeight).To(Equal(5.0))
			Expect(sc.Config.Pendulum.Length).To(Equal(2.0))
		})

		It("loads from disk", func() {
			path := filepath.Join(GinkgoT().TempDir(), "s.yaml")
			Expect(os.WriteFile(path, []byte("demo: wave\nevents:\n  - at: 0.1\n    medium: metal\n"), 0644)).To(Succeed())

			sc, err := automation.LoadScenario(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(sc.Events[0].Medium).To(Equal("metal"))
		})

		It("rejects malformed yaml", func() {
			_, err := automation.ParseScenario([]byte("events: [at: 1"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("pendulum reset law", func() {
		It("keeps the swing going when gravity changes", func() {
			res, applied, err := automation.RunScenario(ctx, pendulumScenario(automation.Event{At: 1, Param: "gravity", Value: 15}), registry)
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(HaveLen(1))

			i := firstIndexAfter(res, 1)
			Expect(i).To(BeNumerically(">", 0))
			before, after := res.Samples[i-1][0], res.Samples[i][0]
			Expect(math.Abs(after - before)).To(BeNumerically("<", 0.05))
			Expect(math.Abs(after - math.Pi/4)).To(BeNumerically(">", 0.1))
		})

		It("restarts from the initial angle when length changes", func() {
			res, _, err := automation.RunScenario(ctx, pendulumScenario(automation.Event{At: 1, Param: "length", Value: 3}), registry)
			Expect(err).NotTo(HaveOccurred())

			i := firstIndexAfter(res, 1)
			Expect(res.Samples[i-1][0]).NotTo(BeNumerically("~", math.Pi/4, 0.1))
			Expect(res.Samples[i][0]).To(BeNumerically("~", math.Pi/4, 1e-3))
			Expect(res.Samples[i][1]).To(BeNumerically("~", 0, 0.05))
		})

		It("clamps scripted values to the control range", func() {
			sc := pendulumScenario(automation.Event{At: 0, Param: "gravity", Value: 500})
			p := physics.NewPendulum(sc.Config.Pendulum)
			s := automation.NewScripted("pendulum", p, sc.Events)
			s.Tick(0)
			Expect(s.Err()).NotTo(HaveOccurred())
			Expect(p.Params().Gravity).To(Equal(20.0))
		})
	})

	Describe("capillary and wave events", func() {
		It("swaps the liquid without restarting the surface clock", func() {
			c, err := physics.NewCapillary(physics.DefaultCapillaryParams())
			Expect(err).NotTo(HaveOccurred())
			s := automation.NewScripted("capillary", c, []automation.Event{{At: 0.5, Liquid: "mercury"}})

			for i := 0; i < 60; i++ {
				s.Tick(0.01)
			}
			Expect(s.Applied()).To(HaveLen(1))
			Expect(c.Liquid().Kind).To(Equal(physics.Mercury))
			Expect(c.Clock()).To(BeNumerically("~", 0.6, 1e-9))
		})

		It("changes the wave medium", func() {
			sc, err := automation.ParseScenario([]byte("demo: wave\ndt: 0.05\nduration: 1\nevents:\n  - at: 0.5\n    medium: air\n"))
			Expect(err).NotTo(HaveOccurred())

			_, applied, err := automation.RunScenario(ctx, sc, registry)
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(ConsistOf(automation.Event{At: 0.5, Medium: "air"}))
		})

		It("stops firing after a bad event and reports it", func() {
			sc, err := automation.ParseScenario([]byte(`
demo: capillary
duration: 1
events:
  - at: 0.1
    liquid: honey
  - at: 0.2
    param: fill_level
    value: 0.1
`))
			Expect(err).NotTo(HaveOccurred())

			_, applied, err := automation.RunScenario(ctx, sc, registry)
			Expect(err).To(MatchError(dynamo.ErrUnknownLiquid))
			Expect(applied).To(BeEmpty())
		})

		It("rejects events the demo cannot take", func() {
			sc := pendulumScenario(automation.Event{At: 0.1, Medium: "metal"})
			_, _, err := automation.RunScenario(ctx, sc, registry)
			Expect(err).To(MatchError(dynamo.ErrUnknownParam))
		})

		It("rejects an unknown demo", func() {
			sc, _ := automation.ParseScenario([]byte("demo: lava\n"))
			_, _, err := automation.RunScenario(ctx, sc, registry)
			Expect(err).To(MatchError(dynamo.ErrUnknownScene))
		})
	})

	Describe("RunSweep", func() {
		It("tracks the small-angle period across lengths", func() {
			base := physics.PendulumParams{Length: 1, Mass: 1, Gravity: 9.81, InitialAngle: 0.1}
			results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
				ParamName: "length",
				ParamMin:  0.5,
				ParamMax:  2,
				NumSteps:  4,
				Base:      base,
				Dt:        0.001,
				Duration:  8,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(4))

			for _, r := range results {
				Expect(r.MeasuredPeriod).To(BeNumerically("~", r.TheoreticalPeriod, 0.05*r.TheoreticalPeriod))
				Expect(r.MaxEnergy).To(BeNumerically(">=", r.MinEnergy))
			}
			Expect(results[3].ParamValue).To(BeNumerically("~", 2, 1e-12))
		})

		It("needs at least two steps", func() {
			_, err := automation.RunSweep(ctx, &automation.ParameterSweep{ParamName: "length", NumSteps: 1, Dt: 0.01, Duration: 1})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})
})
