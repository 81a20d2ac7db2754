// Package dynamo provides the shared primitives of the lab's simulation cores.
//
// Every demo is driven by an external render clock. The driver owns time and
// hands each core the elapsed wall-clock seconds since the previous tick:
//
//   - [State]: flat vector used by the integrators
//   - [System]: ODE view of a core (dX/dt = f(X, u, t))
//   - [Integrator]: one numerical step over a [System]
//   - [Scene]: a per-frame simulation that advances by dt and emits a [Frame]
//   - [Configurable]: named parameter access for sliders and scenarios
//
// # Example
//
//	p := physics.NewPendulum(physics.DefaultPendulumParams())
//	for range ticks {
//	    frame := p.Step(dt)
//	    draw(frame.Pose)
//	}
//
// # Thread Safety
//
// Scenes are NOT thread-safe. Each scene is owned by exactly one driver and
// parameter changes must be applied between ticks.
package dynamo
