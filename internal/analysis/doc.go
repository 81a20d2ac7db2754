// Package analysis post-processes recorded runs.
//
//   - [PowerSpectrum] and [DominantPeriod]: spectral period estimate
//   - [CrossingPeriod]: period from interpolated zero crossings
//   - [PhasePortrait]: two recorded columns plotted against each other
//   - [PoincareSection]: samples taken at each upward threshold crossing
//
// A pendulum's measured period can be checked against its small-angle value:
//
//	res, _ := sim.New(p).Run(ctx, cfg)
//	measured, ok := analysis.CrossingPeriod(res.Column(0), cfg.Dt)
//	_ = measured - p.TheoreticalPeriod()
package analysis
