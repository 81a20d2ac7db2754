package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/labsim/internal/dynamo"
)

func undamped() PendulumParams {
	return PendulumParams{Length: 2, Mass: 1, Gravity: 9.8, Damping: 0, InitialAngle: math.Pi / 4}
}

func TestPendulumSingleStep(t *testing.T) {
	p := NewPendulum(undamped())

	f := p.Step(0.01)

	if math.Abs(f.State.AngularAcceleration-(-3.4648232)) > 1e-6 {
		t.Errorf("acceleration = %.7f, want -3.4648232", f.State.AngularAcceleration)
	}
	if math.Abs(f.State.AngularVelocity-(-0.034648232)) > 1e-8 {
		t.Errorf("angular velocity = %.9f, want -0.034648232", f.State.AngularVelocity)
	}
	if math.Abs(f.State.Angle-0.785051681) > 1e-8 {
		t.Errorf("angle = %.9f, want 0.785051681", f.State.Angle)
	}
}

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum(undamped())

	dx := p.Derive(dynamo.State{0, 0}, nil, 0)

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumEnergyConservedWithoutDamping(t *testing.T) {
	p := NewPendulum(undamped())
	x := func() dynamo.State {
		s := p.State()
		return dynamo.State{s.Angle, s.AngularVelocity}
	}
	e0 := p.Energy(x())

	maxDrift := 0.0
	for i := 0; i < 20000; i++ {
		p.Step(0.001)
		drift := math.Abs(p.Energy(x())-e0) / e0
		maxDrift = math.Max(maxDrift, drift)
	}

	if maxDrift > 0.01 {
		t.Errorf("energy drift %.5f exceeds 1%%", maxDrift)
	}
}

func TestPendulumEnergyDecaysWithDamping(t *testing.T) {
	params := undamped()
	params.Damping = 0.1
	p := NewPendulum(params)

	energy := func() float64 {
		s := p.State()
		return p.Energy(dynamo.State{s.Angle, s.AngularVelocity})
	}

	// Compare energies once per swing, at the same phase point.
	var turns []float64
	prev := p.State().AngularVelocity
	for i := 0; i < 20000; i++ {
		p.Step(0.001)
		w := p.State().AngularVelocity
		if prev < 0 && w >= 0 {
			turns = append(turns, energy())
		}
		prev = w
	}

	if len(turns) < 3 {
		t.Fatalf("expected several swings, got %d", len(turns))
	}
	for i := 1; i < len(turns); i++ {
		if turns[i] >= turns[i-1] {
			t.Errorf("energy rose between swings %d and %d: %.6f -> %.6f", i-1, i, turns[i-1], turns[i])
		}
	}
}

func TestPendulumResetLaw(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		value   float64
		restart bool
	}{
		{"gravity keeps state", "gravity", 3.7, false},
		{"mass keeps state", "mass", 2.5, false},
		{"damping keeps state", "damping", 0.15, false},
		{"initial angle restarts", "initial_angle", 0.3, true},
		{"length restarts", "length", 1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPendulum(DefaultPendulumParams())
			for i := 0; i < 50; i++ {
				p.Step(0.016)
			}
			before := p.State()

			if err := p.SetParam(tt.param, tt.value); err != nil {
				t.Fatalf("SetParam: %v", err)
			}
			after := p.State()

			if tt.restart {
				if after.Angle != p.Params().InitialAngle || after.AngularVelocity != 0 {
					t.Errorf("expected restart at %v at rest, got %+v", p.Params().InitialAngle, after)
				}
				return
			}
			if after.Angle != before.Angle || after.AngularVelocity != before.AngularVelocity {
				t.Errorf("state changed: before %+v, after %+v", before, after)
			}
		})
	}
}

func TestPendulumSetParamsSameValuesKeepsState(t *testing.T) {
	p := NewPendulum(DefaultPendulumParams())
	p.Step(0.05)
	before := p.State()

	p.SetParams(p.Params())

	if p.State() != before {
		t.Errorf("identical params reset the state: %+v -> %+v", before, p.State())
	}
}

func TestPendulumDtGuard(t *testing.T) {
	p := NewPendulum(DefaultPendulumParams())
	p.Step(0.02)
	before := p.State()

	for _, dt := range []float64{math.NaN(), math.Inf(1), 0, -1} {
		p.Step(dt)
		if got := p.State(); got.Angle != before.Angle || got.AngularVelocity != before.AngularVelocity {
			t.Errorf("dt=%v advanced the state: %+v -> %+v", dt, before, got)
		}
	}

	a := NewPendulum(DefaultPendulumParams())
	b := NewPendulum(DefaultPendulumParams())
	a.Step(30)
	b.Step(dynamo.MaxFrameDt)
	if a.State() != b.State() {
		t.Errorf("oversized dt not clamped: %+v vs %+v", a.State(), b.State())
	}
}

func TestPendulumPose(t *testing.T) {
	params := undamped()
	params.InitialAngle = math.Pi / 6
	p := NewPendulum(params)

	pose := p.Pose()

	wantX := 2 * math.Sin(math.Pi/6)
	wantY := -2 * math.Cos(math.Pi/6)
	if math.Abs(pose.Bob.X()-wantX) > 1e-12 || math.Abs(pose.Bob.Y()-wantY) > 1e-12 || pose.Bob.Z() != 0 {
		t.Errorf("bob = %v, want (%v, %v, 0)", pose.Bob, wantX, wantY)
	}
	if !pose.RodMidpoint.ApproxEqual(pose.Bob.Mul(0.5)) {
		t.Errorf("rod midpoint = %v, want %v", pose.RodMidpoint, pose.Bob.Mul(0.5))
	}
	if want := math.Atan2(wantX, wantY); math.Abs(pose.RodRotation-want) > 1e-12 {
		t.Errorf("rod rotation = %v, want %v", pose.RodRotation, want)
	}
	if pose.RodLength != 2 {
		t.Errorf("rod length = %v, want 2", pose.RodLength)
	}
}

func TestBobRadius(t *testing.T) {
	tests := []struct {
		mass, want float64
	}{
		{0.1, 0.1},
		{1, 0.2},
		{2, 0.4},
		{3, 0.5},
	}
	for _, tt := range tests {
		if got := BobRadius(tt.mass); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("BobRadius(%v) = %v, want %v", tt.mass, got, tt.want)
		}
	}
}

func TestPendulumSanitize(t *testing.T) {
	p := NewPendulum(PendulumParams{Length: -1, Mass: 0, Gravity: math.NaN(), Damping: -0.5, InitialAngle: 0.2})
	got := p.Params()

	if got.Length <= 0 {
		t.Errorf("length not clamped: %v", got.Length)
	}
	if got.Gravity != DefaultPendulumParams().Gravity {
		t.Errorf("NaN gravity should fall back to default, got %v", got.Gravity)
	}
	if got.Damping != 0 {
		t.Errorf("negative damping should clamp to 0, got %v", got.Damping)
	}

	f := p.Step(0.016)
	if !dynamo.AllFinite(f.Samples()) {
		t.Errorf("frame not finite: %v", f.Samples())
	}
}

func TestPendulumTheoreticalPeriod(t *testing.T) {
	p := NewPendulum(PendulumParams{Length: 9.8, Mass: 1, Gravity: 9.8})
	if got := p.TheoreticalPeriod(); math.Abs(got-2*math.Pi) > 1e-12 {
		t.Errorf("period = %v, want 2π", got)
	}
}

func TestPendulumUnknownParam(t *testing.T) {
	p := NewPendulum(DefaultPendulumParams())
	if err := p.SetParam("friction", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
