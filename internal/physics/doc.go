// Package physics implements the three lab demos as per-frame cores.
//
// Each core owns its state exclusively and advances only when the driver
// hands it the elapsed time of a rendered frame:
//
//   - [Pendulum]: damped nonlinear pendulum, semi-implicit Euler
//   - [Capillary]: liquid column, meniscus curve and surface jitter
//   - [WaveField]: radially damped traveling wave over a square grid
//
// All three implement [dynamo.Scene] and [dynamo.Configurable]; the pendulum
// also implements [dynamo.System] and [dynamo.Hamiltonian].
//
// Frames are snapshots. Nothing a frame references is mutated by later ticks,
// so a renderer may keep the previous frame while the next one is computed.
//
// # Resets
//
// Parameter changes are last-write-wins between ticks. A change that alters
// the geometry the state is defined on restarts the core:
//
//	pendulum: initial_angle, length
//	wave:     medium, points
//
// Every other parameter keeps the running state.
package physics
