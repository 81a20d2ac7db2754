package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/integrators"
)

const (
	minLength  = 1e-3
	minMass    = 1e-3
	minGravity = 1e-3
)

type PendulumParams struct {
	Length       float64 `yaml:"length"`
	Mass         float64 `yaml:"mass"`
	Gravity      float64 `yaml:"gravity"`
	Damping      float64 `yaml:"damping"`
	InitialAngle float64 `yaml:"initial_angle"`
}

func DefaultPendulumParams() PendulumParams {
	return PendulumParams{
		Length:       2,
		Mass:         1,
		Gravity:      9.8,
		Damping:      0.05,
		InitialAngle: math.Pi / 4,
	}
}

// Sanitize replaces values the integrator cannot use with the nearest usable
// ones. Non-finite values fall back to the defaults.
func (p PendulumParams) Sanitize() PendulumParams {
	d := DefaultPendulumParams()
	p.Length = clampMin(finiteOr(p.Length, d.Length), minLength)
	p.Mass = clampMin(finiteOr(p.Mass, d.Mass), minMass)
	p.Gravity = clampMin(finiteOr(p.Gravity, d.Gravity), minGravity)
	p.Damping = clampMin(finiteOr(p.Damping, d.Damping), 0)
	p.InitialAngle = finiteOr(p.InitialAngle, d.InitialAngle)
	return p
}

// PendulumState is the mutable integration state. AngularAcceleration is
// whatever the last step computed; it never feeds into the next step.
type PendulumState struct {
	Angle               float64
	AngularVelocity     float64
	AngularAcceleration float64
}

// Pose is the render transform for one frame: pivot at the origin, the rod
// centred between pivot and bob and rotated about z.
type Pose struct {
	Pivot       mgl64.Vec3
	Bob         mgl64.Vec3
	RodMidpoint mgl64.Vec3
	RodRotation float64
	RodLength   float64
	BobRadius   float64
}

type PendulumFrame struct {
	State PendulumState
	Pose  Pose
}

func (f PendulumFrame) Samples() []float64 {
	return []float64{
		f.State.Angle,
		f.State.AngularVelocity,
		f.State.AngularAcceleration,
		f.Pose.Bob.X(),
		f.Pose.Bob.Y(),
	}
}

// Vector is the integrator view of the frame: [angle, angular velocity].
func (f PendulumFrame) Vector() dynamo.State {
	return dynamo.State{f.State.Angle, f.State.AngularVelocity}
}

// Pendulum integrates a single damped nonlinear pendulum with semi-implicit
// Euler, one step per rendered frame.
type Pendulum struct {
	params PendulumParams
	state  PendulumState
	integ  *integrators.SymplecticEuler
}

func NewPendulum(params PendulumParams) *Pendulum {
	p := &Pendulum{
		params: params.Sanitize(),
		integ:  integrators.NewSymplecticEuler(),
	}
	p.Reset()
	return p
}

func (p *Pendulum) Name() string { return "pendulum" }

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) ControlDim() int {
	return 0
}

func (p *Pendulum) acceleration(theta, omega float64) float64 {
	return -(p.params.Gravity/p.params.Length)*math.Sin(theta) - p.params.Damping*omega
}

func (p *Pendulum) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta, omega := x[0], x[1]
	return dynamo.State{omega, p.acceleration(theta, omega)}
}

// Energy is the mechanical energy per unit mass.
func (p *Pendulum) Energy(x dynamo.State) float64 {
	l, g := p.params.Length, p.params.Gravity
	v := l * x[1]
	return 0.5*v*v + g*l*(1.0-math.Cos(x[0]))
}

// Step advances the pendulum by dt seconds of wall-clock time. A dt that is
// not finite or not positive leaves the state untouched; an oversized dt is
// truncated to dynamo.MaxFrameDt.
func (p *Pendulum) Step(dt float64) PendulumFrame {
	h, ok := dynamo.GuardDt(dt)
	if ok {
		x := dynamo.State{p.state.Angle, p.state.AngularVelocity}
		p.state.AngularAcceleration = p.acceleration(x[0], x[1])
		next := p.integ.Step(p, x, nil, 0, h)
		p.state.Angle, p.state.AngularVelocity = next[0], next[1]
	}
	return p.Frame()
}

func (p *Pendulum) Tick(dt float64) dynamo.Frame {
	return p.Step(dt)
}

// Frame returns the current state and pose without advancing.
func (p *Pendulum) Frame() PendulumFrame {
	return PendulumFrame{State: p.state, Pose: p.Pose()}
}

func (p *Pendulum) SampleLabels() []string {
	return []string{"angle", "angular_velocity", "angular_acceleration", "bob_x", "bob_y"}
}

func (p *Pendulum) Pose() Pose {
	l := p.params.Length
	bob := mgl64.Vec3{l * math.Sin(p.state.Angle), -l * math.Cos(p.state.Angle), 0}
	pivot := mgl64.Vec3{}
	offset := bob.Sub(pivot)
	return Pose{
		Pivot:       pivot,
		Bob:         bob,
		RodMidpoint: pivot.Add(bob).Mul(0.5),
		RodRotation: math.Atan2(offset.X(), offset.Y()),
		RodLength:   l,
		BobRadius:   BobRadius(p.params.Mass),
	}
}

// BobRadius scales the rendered bob with mass. Mass has no effect on motion.
func BobRadius(mass float64) float64 {
	return math.Max(0.1, math.Min(0.5, mass*0.2))
}

// TheoreticalPeriod is the small-angle period 2π√(L/g).
func (p *Pendulum) TheoreticalPeriod() float64 {
	return 2 * math.Pi * math.Sqrt(p.params.Length/p.params.Gravity)
}

func (p *Pendulum) State() PendulumState   { return p.state }
func (p *Pendulum) Params() PendulumParams { return p.params }

// Reset puts the bob back at the initial angle, at rest.
func (p *Pendulum) Reset() {
	p.state = PendulumState{Angle: p.params.InitialAngle}
}

// SetParams replaces the parameters wholesale. Only a change of initial angle
// or length restarts the swing; mass, gravity and damping apply from the next
// step onwards.
func (p *Pendulum) SetParams(next PendulumParams) {
	next = next.Sanitize()
	restart := next.InitialAngle != p.params.InitialAngle || next.Length != p.params.Length
	p.params = next
	if restart {
		p.Reset()
	}
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"length":        p.params.Length,
		"mass":          p.params.Mass,
		"gravity":       p.params.Gravity,
		"damping":       p.params.Damping,
		"initial_angle": p.params.InitialAngle,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	next := p.params
	switch name {
	case "length":
		next.Length = value
	case "mass":
		next.Mass = value
	case "gravity":
		next.Gravity = value
	case "damping":
		next.Damping = value
	case "initial_angle":
		next.InitialAngle = value
	default:
		return fmt.Errorf("pendulum %q: %w", name, dynamo.ErrUnknownParam)
	}
	p.SetParams(next)
	return nil
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func clampMin(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}
