// Package viz renders the demos in the terminal.
//
// [Canvas] is a Braille dot grid with a world-space viewport; [DrawPendulum],
// [DrawCapillary] and [DrawWave] paint one frame onto it. [Model] is the
// Bubble Tea live view that owns the tick loop and hands wall-clock dt to the
// scene; [RunInteractive] adds a demo picker in front of it.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset parameters and scene
//	Tab   - Cycle parameters
//	↑/↓   - Tune the selected parameter within its range
//	L     - Next liquid (capillary)
//	M     - Next medium (wave)
//	Q     - Quit
package viz
