package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/metrics"
	"github.com/san-kum/labsim/internal/physics"
	"github.com/san-kum/labsim/internal/sim"
)

type valuesFrame []float64

func (f valuesFrame) Samples() []float64 { return f }

// blowUp emits a NaN on its third tick.
type blowUp struct{ ticks int }

func (b *blowUp) Name() string           { return "blowup" }
func (b *blowUp) Reset()                 { b.ticks = 0 }
func (b *blowUp) SampleLabels() []string { return []string{"x"} }
func (b *blowUp) Tick(dt float64) dynamo.Frame {
	if dt > 0 {
		b.ticks++
	}
	if b.ticks == 3 {
		return valuesFrame{math.NaN()}
	}
	return valuesFrame{float64(b.ticks)}
}

type countingObserver struct{ frames int }

func (c *countingObserver) OnFrame(dynamo.Frame, float64) { c.frames++ }

var _ = Describe("Simulator", func() {
	var (
		ctx context.Context
		cfg dynamo.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = dynamo.Config{Dt: 0.01, Duration: 1.0, ValidateFrame: true}
	})

	Describe("Run", func() {
		It("records the initial frame plus one frame per tick", func() {
			p := physics.NewPendulum(physics.DefaultPendulumParams())
			res, err := sim.New(p).Run(ctx, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Scene).To(Equal("pendulum"))
			Expect(res.StepsTaken).To(Equal(int(cfg.Duration / cfg.Dt)))
			Expect(res.Samples).To(HaveLen(res.StepsTaken + 1))
			Expect(res.Times).To(HaveLen(res.StepsTaken + 1))
			Expect(res.Labels).To(Equal(p.SampleLabels()))
			Expect(res.Samples[0][0]).To(BeNumerically("~", math.Pi/4, 1e-12))
			Expect(res.Times[len(res.Times)-1]).To(BeNumerically("~", cfg.Duration, 1e-9))
		})

		It("reports metric values by name", func() {
			p := physics.NewPendulum(physics.PendulumParams{Length: 1, Mass: 1, Gravity: 9.81, InitialAngle: 0.3})
			s := sim.New(p)
			s.AddMetric(metrics.NewEnergyDrift(p))
			obs := &countingObserver{}
			s.AddObserver(obs)

			res, err := s.Run(ctx, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metrics).To(HaveKey("energy_drift"))
			Expect(res.Metrics["energy_drift"]).To(BeNumerically("<", 0.05))
			Expect(obs.frames).To(Equal(res.StepsTaken))
		})

		It("stops at the first non-finite frame", func() {
			res, err := sim.New(&blowUp{}).Run(ctx, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(2))
			Expect(res.Errors).To(HaveLen(1))

			var simErr dynamo.SimError
			Expect(errors.As(res.Errors[0], &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(2))
		})

		It("returns what it has when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			res, err := sim.New(physics.NewPendulum(physics.DefaultPendulumParams())).Run(cctx, cfg)

			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Samples).To(HaveLen(1))
		})

		DescribeTable("rejects unusable configs",
			func(dt, duration float64) {
				_, err := sim.New(&blowUp{}).Run(ctx, dynamo.Config{Dt: dt, Duration: duration})
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("zero dt", 0.0, 1.0),
			Entry("negative dt", -0.1, 1.0),
			Entry("NaN dt", math.NaN(), 1.0),
			Entry("dt above the frame cap", 0.5, 1.0),
			Entry("zero duration", 0.01, 0.0),
			Entry("negative duration", 0.01, -1.0),
		)
	})

	Describe("RunWithCallback", func() {
		It("stops when the callback declines", func() {
			w, err := physics.NewWaveField(physics.DefaultWaveSettings())
			Expect(err).NotTo(HaveOccurred())

			calls := 0
			err = sim.New(w).RunWithCallback(ctx, cfg, func(f dynamo.Frame, t float64) bool {
				calls++
				return calls < 5
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(5))
			Expect(w.Phase()).To(BeNumerically("~", 4*cfg.Dt*w.Settings().Frequency, 1e-12))
		})

		It("fails on a non-finite frame", func() {
			err := sim.New(&blowUp{}).RunWithCallback(ctx, cfg, func(dynamo.Frame, float64) bool { return true })
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
		})
	})

	Describe("RunBatch", func() {
		It("keeps job order and isolates scenes", func() {
			short := physics.DefaultPendulumParams()
			short.Length = 0.5
			long := physics.DefaultPendulumParams()
			long.Length = 4

			jobs := []sim.Job{
				{Scene: physics.NewPendulum(short)},
				{Scene: physics.NewPendulum(long)},
			}
			results, err := sim.RunBatch(ctx, jobs, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			serial, err := sim.New(physics.NewPendulum(short)).Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Samples).To(Equal(serial.Samples))
			Expect(results[1].Samples).NotTo(Equal(serial.Samples))
		})

		It("surfaces the failing job", func() {
			_, err := sim.RunBatch(ctx, []sim.Job{{Scene: &blowUp{}}}, dynamo.Config{Dt: 0, Duration: 1})
			Expect(err).To(MatchError(ContainSubstring("blowup")))
		})
	})
})
