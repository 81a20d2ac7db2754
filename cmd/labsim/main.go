package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/labsim/internal/physics"
	"github.com/san-kum/labsim/internal/viz"
)

var (
	dt         float64
	duration   float64
	configFile string
	preset     string
	csvOut     bool
	jsonOut    bool
	svgOut     bool
	// pendulum
	length  float64
	mass    float64
	gravity float64
	damping float64
	angle   float64
	// capillary
	liquid     string
	fill       float64
	tubeHeight float64
	tubeRadius float64
	// wave
	amplitude   float64
	frequency   float64
	waveDamping float64
	medium      string
	points      int
	// phase plot axes
	xAxis int
	yAxis int
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("labsim: ")

	rootCmd := &cobra.Command{
		Use:           "labsim",
		Short:         "classroom physics demos: pendulum, capillary tube, wave field",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(nil)
		},
	}

	runCmd := &cobra.Command{
		Use:       "run [demo]",
		Short:     "run a demo headlessly and print its metrics",
		Args:      cobra.ExactArgs(1),
		ValidArgs: demoNames(),
		RunE:      runDemo,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&csvOut, "csv", false, "dump the recorded trace as CSV to stdout")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "dump the recorded trace and metrics as JSON to stdout")
	runCmd.MarkFlagsMutuallyExclusive("csv", "json")

	plotCmd := &cobra.Command{
		Use:   "plot [demo]",
		Short: "plot a demo's trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotDemo,
	}
	addSceneFlags(plotCmd)

	phaseCmd := &cobra.Command{
		Use:   "phase [demo]",
		Short: "phase plot of two recorded samples",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	addSceneFlags(phaseCmd)
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "sample index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "sample index for y-axis")
	phaseCmd.Flags().BoolVar(&svgOut, "svg", false, "print the trajectory as SVG")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [demo]",
		Short: "print the demo's frame at the end of the run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotDemo,
	}
	addSceneFlags(snapshotCmd)

	liveCmd := &cobra.Command{
		Use:   "live [demo]",
		Short: "run a demo with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	periodCmd := &cobra.Command{
		Use:   "period",
		Short: "measure the pendulum period against 2π√(L/g)",
		Args:  cobra.NoArgs,
		RunE:  measurePeriod,
	}
	addSceneFlags(periodCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [min] [max] [steps]",
		Short: "measure the pendulum period across a parameter range",
		Args:  cobra.ExactArgs(4),
		RunE:  sweepParam,
	}
	addSceneFlags(sweepCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the pendulum",
		RunE:  compareIntegrators,
	}
	addSceneFlags(compareCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of parameter changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	liquidsCmd := &cobra.Command{
		Use:   "liquids",
		Short: "list the liquid catalog",
		Args:  cobra.NoArgs,
		RunE:  listLiquids,
	}

	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "list the wave media",
		Args:  cobra.NoArgs,
		RunE:  listMedia,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [demo]",
		Short: "list available presets for a demo",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective config as YAML",
		Args:  cobra.NoArgs,
		RunE:  printConfig,
	}
	addSceneFlags(configCmd)

	rootCmd.AddCommand(runCmd, plotCmd, phaseCmd, snapshotCmd, liveCmd, periodCmd, sweepCmd, compareCmd, scenarioCmd, liquidsCmd, mediaCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

// addSceneFlags registers the timing and demo parameter flags. Defaults are
// display only; values reach the config only when the flag is set.
func addSceneFlags(cmd *cobra.Command) {
	p := physics.DefaultPendulumParams()
	c := physics.DefaultCapillaryParams()
	w := physics.DefaultWaveSettings()

	f := cmd.Flags()
	f.Float64Var(&dt, "dt", 1.0/60.0, "tick length in seconds")
	f.Float64Var(&duration, "time", 10.0, "duration in seconds")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")

	f.Float64Var(&length, "length", p.Length, "pendulum length")
	f.Float64Var(&mass, "mass", p.Mass, "bob mass (display only)")
	f.Float64Var(&gravity, "gravity", p.Gravity, "gravitational acceleration")
	f.Float64Var(&damping, "damping", p.Damping, "pendulum damping")
	f.Float64Var(&angle, "angle", p.InitialAngle, "initial angle in radians")

	f.StringVar(&liquid, "liquid", string(c.Liquid), "liquid: water, mercury, oil, alcohol")
	f.Float64Var(&fill, "fill", c.FillLevel, "fill level in [0, 1]")
	f.Float64Var(&tubeHeight, "tube-height", c.TubeHeight, "tube height")
	f.Float64Var(&tubeRadius, "tube-radius", c.TubeRadius, "tube radius")

	f.Float64Var(&amplitude, "amplitude", w.Amplitude, "wave amplitude")
	f.Float64Var(&frequency, "frequency", w.Frequency, "wave frequency")
	f.Float64Var(&waveDamping, "wave-damping", w.Damping, "radial wave damping")
	f.StringVar(&medium, "medium", w.Medium, "medium: water, air, string, metal")
	f.IntVar(&points, "points", w.Points, "grid points per side")
}
