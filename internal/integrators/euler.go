package integrators

import "github.com/san-kum/labsim/internal/dynamo"

// Euler is the explicit forward method. It gains energy on oscillators and is
// kept only as a baseline for comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
