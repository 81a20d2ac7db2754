package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/labsim/internal/analysis"
	"github.com/san-kum/labsim/internal/automation"
	"github.com/san-kum/labsim/internal/config"
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/experiment"
	"github.com/san-kum/labsim/internal/export"
	"github.com/san-kum/labsim/internal/integrators"
	"github.com/san-kum/labsim/internal/physics"
	"github.com/san-kum/labsim/internal/store"
	"github.com/san-kum/labsim/internal/viz"
)

func demoNames() []string {
	return experiment.NewRegistry().ListScenes()
}

// loadConfig layers defaults, preset, config file, LABSIM_* environment and
// explicitly set flags, in that order, then clamps every parameter to its
// control range.
func loadConfig(cmd *cobra.Command, demo string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if demo != "" {
		cfg.Demo = demo
	}

	env := config.LoadEnv()
	if preset == "" && env.Preset != "" {
		if _, err := config.GetPreset(cfg.Demo, env.Preset); err == nil {
			preset = env.Preset
		}
	}
	if configFile == "" {
		configFile = env.ConfigFile
	}

	if preset != "" {
		p, err := config.GetPreset(cfg.Demo, preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets(cfg.Demo))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if demo != "" {
			cfg.Demo = demo
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	if changed("dt") {
		cfg.Dt = dt
	}
	if changed("time") {
		cfg.Duration = duration
	}
	if changed("length") {
		cfg.Pendulum.Length = length
	}
	if changed("mass") {
		cfg.Pendulum.Mass = mass
	}
	if changed("gravity") {
		cfg.Pendulum.Gravity = gravity
	}
	if changed("damping") {
		cfg.Pendulum.Damping = damping
	}
	if changed("angle") {
		cfg.Pendulum.InitialAngle = angle
	}
	if changed("liquid") {
		cfg.Capillary.Liquid = physics.LiquidKind(liquid)
	}
	if changed("fill") {
		cfg.Capillary.FillLevel = fill
	}
	if changed("tube-height") {
		cfg.Capillary.TubeHeight = tubeHeight
	}
	if changed("tube-radius") {
		cfg.Capillary.TubeRadius = tubeRadius
	}
	if changed("amplitude") {
		cfg.Wave.Amplitude = amplitude
	}
	if changed("frequency") {
		cfg.Wave.Frequency = frequency
	}
	if changed("wave-damping") {
		cfg.Wave.Damping = waveDamping
	}
	if changed("medium") {
		cfg.Wave.Medium = medium
	}
	if changed("points") {
		cfg.Wave.Points = points
	}

	cfg.Clamp()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func record(cmd *cobra.Command, demo string) (*config.Config, *experiment.Experiment, *dynamo.Result, error) {
	cfg, err := loadConfig(cmd, demo)
	if err != nil {
		return nil, nil, nil, err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, exp, result, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg, _, result, err := record(cmd, args[0])
	if err != nil {
		return err
	}

	switch {
	case csvOut:
		return store.WriteCSV(os.Stdout, result)
	case jsonOut:
		return store.WriteJSON(os.Stdout, store.NewTrace(cfg.RunConfig(), result))
	}

	fmt.Printf("%s: %d ticks of %.4fs in %v\n", cfg.Demo, result.StepsTaken, cfg.Dt, time.Since(start))
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

// plotColumn is the sample worth plotting per demo.
var plotColumn = map[string]int{
	"pendulum":  0,
	"capillary": 1,
	"wave":      1,
}

func plotDemo(cmd *cobra.Command, args []string) error {
	cfg, exp, result, err := record(cmd, args[0])
	if err != nil {
		return err
	}

	idx := plotColumn[cfg.Demo]
	data := result.Column(idx)
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("demo: %s\nsamples: %d\n\n", cfg.Demo, len(data))
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs time", result.Labels[idx])),
	))
	fmt.Println()

	if c, ok := exp.Scene().(*physics.Capillary); ok {
		fill := c.Fill()
		if fill.Empty {
			fmt.Println("tube is empty")
			return nil
		}
		ys := make([]float64, len(fill.Meniscus))
		for i, p := range fill.Meniscus {
			ys[i] = p.Y()
		}
		fmt.Println(asciigraph.Plot(ys,
			asciigraph.Height(6),
			asciigraph.Width(64),
			asciigraph.Caption(fmt.Sprintf("%s meniscus (%s)", c.Liquid().Kind, c.Liquid().MeniscusType)),
		))
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, _, result, err := record(cmd, args[0])
	if err != nil {
		return err
	}

	portrait := analysis.PhasePortrait(result, xAxis, yAxis)
	if portrait == nil {
		return fmt.Errorf("%s records %d samples, axes %d and %d out of range", cfg.Demo, len(result.Labels), xAxis, yAxis)
	}

	if svgOut {
		fmt.Print(export.TrajectoryToSVG(portrait.Points, 600, 400, "#3498db"))
		return nil
	}

	fmt.Printf("phase space plot: %s\n", cfg.Demo)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", portrait.XLabel, portrait.YLabel)
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 20))
	return nil
}

// snapshotDemo runs the demo for the configured duration and prints its
// final frame as SVG.
func snapshotDemo(cmd *cobra.Command, args []string) error {
	_, exp, _, err := record(cmd, args[0])
	if err != nil {
		return err
	}
	canvas := viz.Snapshot(exp.Scene(), 60, 20)
	fmt.Print(export.CanvasToSVG(canvas, 4, "#00ff00"))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	demo := ""
	if len(args) > 0 {
		demo = args[0]
	}
	cfg, err := loadConfig(cmd, demo)
	if err != nil {
		return err
	}
	if demo == "" {
		return viz.RunInteractive(cfg)
	}

	scene, err := experiment.NewRegistry().GetScene(cfg.Demo, cfg)
	if err != nil {
		return err
	}
	return viz.Run(cfg.Demo, scene)
}

func measurePeriod(cmd *cobra.Command, args []string) error {
	cfg, exp, result, err := record(cmd, "pendulum")
	if err != nil {
		return err
	}

	p := exp.Scene().(*physics.Pendulum)
	theory := p.TheoreticalPeriod()
	angles := result.Column(0)

	fmt.Printf("length %.3f m, gravity %.3f m/s², initial angle %.3f rad\n\n", cfg.Pendulum.Length, cfg.Pendulum.Gravity, cfg.Pendulum.InitialAngle)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPERIOD\tERROR")
	fmt.Fprintf(w, "2π√(L/g)\t%.4fs\t-\n", theory)
	if spectral := analysis.DominantPeriod(angles, cfg.Dt); spectral > 0 {
		fmt.Fprintf(w, "fft\t%.4fs\t%+.2f%%\n", spectral, 100*(spectral-theory)/theory)
	} else {
		fmt.Fprintln(w, "fft\t-\tno signal")
	}
	if crossing, ok := analysis.CrossingPeriod(angles, cfg.Dt); ok {
		fmt.Fprintf(w, "zero crossings\t%.4fs\t%+.2f%%\n", crossing, 100*(crossing-theory)/theory)
	} else {
		fmt.Fprintln(w, "zero crossings\t-\trun too short")
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(angles)
	if n := len(ps) / 8; n > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[:n],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (angle)"),
		))
	}
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "pendulum")
	if err != nil {
		return err
	}

	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("max: %w", err)
	}
	n, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("steps: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		ParamName: args[0],
		ParamMin:  config.ClampParam("pendulum", args[0], lo),
		ParamMax:  config.ClampParam("pendulum", args[0], hi),
		NumSteps:  n,
		Base:      cfg.Pendulum,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEASURED\tTHEORY\tMIN_E\tMAX_E\n", strings.ToUpper(args[0]))
	for _, r := range results {
		measured := "-"
		if r.MeasuredPeriod > 0 {
			measured = fmt.Sprintf("%.4fs", r.MeasuredPeriod)
		}
		fmt.Fprintf(w, "%.4f\t%s\t%.4fs\t%.4f\t%.4f\n", r.ParamValue, measured, r.TheoreticalPeriod, r.MinEnergy, r.MaxEnergy)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "pendulum")
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing integrators for pendulum (dt=%.4f, duration=%.1fs)\n\n", cfg.Dt, cfg.Duration)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "integrator", "final_angle", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 54))

	for _, r := range experiment.CompareIntegrators(cfg.Pendulum, names, cfg.Dt, cfg.Duration) {
		if r.Err != nil {
			fmt.Printf("%-12s  error: %v\n", r.Integrator, r.Err)
			continue
		}
		fmt.Printf("%-12s  %12.6f  %12.2e  %12.2f\n", r.Integrator, r.FinalAngle, r.EnergyDrift, float64(r.Elapsed.Microseconds())/1000)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, applied, err := automation.RunScenario(ctx, sc, experiment.NewRegistry())
	for _, ev := range applied {
		fmt.Printf("applied %s\n", ev)
	}
	if err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	fmt.Printf("\n%s: %d ticks\n", sc.Name, result.StepsTaken)
	printMetrics(result.Metrics)
	return nil
}

func listLiquids(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LIQUID\tMENISCUS\tHEIGHT\tVISCOSITY\tOPACITY\tCOLOR")
	for _, l := range physics.Liquids() {
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.2f\t%.2f\t%s\n", l.Kind, l.MeniscusType, l.MeniscusHeight, l.Viscosity, l.Opacity, l.Color)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	for _, l := range physics.Liquids() {
		fmt.Printf("%-8s %s\n", l.Kind, l.Description)
	}
	return nil
}

func listMedia(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEDIUM\tSPEED\tCOLOR\tDESCRIPTION")
	for _, m := range physics.Media() {
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\n", m.Name, m.Speed, m.Color, m.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		return fmt.Errorf("no presets for demo %q: %w", args[0], dynamo.ErrUnknownScene)
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
