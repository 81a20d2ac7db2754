package integrators

import "github.com/san-kum/labsim/internal/dynamo"

// SymplecticEuler is the semi-implicit Euler method for second-order systems
// laid out as [q..., v...]. Velocities are kicked first with the acceleration
// at the current state, then positions drift with the new velocities.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	dx := dyn.Derive(x, u, t)

	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		v := x[half+i] + dx[half+i]*dt
		result[half+i] = v
		result[i] = x[i] + v*dt
	}
	return result
}
