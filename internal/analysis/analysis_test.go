package analysis

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/physics"
	"github.com/san-kum/labsim/internal/sim"
)

func swing(t *testing.T, params physics.PendulumParams, dt, duration float64) (*physics.Pendulum, *dynamo.Result) {
	t.Helper()
	p := physics.NewPendulum(params)
	res, err := sim.New(p).Run(context.Background(), dynamo.Config{Dt: dt, Duration: duration, ValidateFrame: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return p, res
}

func TestDominantFrequencyPureTone(t *testing.T) {
	const n = 256
	dt := 1.0 / n
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*8*float64(i)*dt)
	}

	if f := DominantFrequency(data, dt); math.Abs(f-8) > 1e-9 {
		t.Errorf("dominant frequency = %v, want 8", f)
	}
	if p := DominantPeriod(data, dt); math.Abs(p-0.125) > 1e-9 {
		t.Errorf("dominant period = %v, want 0.125", p)
	}
}

func TestDominantFrequencyNoSignal(t *testing.T) {
	if f := DominantFrequency([]float64{1, 1, 1, 1}, 0.1); f != 0 {
		t.Errorf("flat signal gave %v Hz", f)
	}
	if p := DominantPeriod(nil, 0.1); p != 0 {
		t.Errorf("empty signal gave period %v", p)
	}
	if f := DominantFrequency([]float64{0, 1, 0, -1}, 0); f != 0 {
		t.Errorf("zero dt gave %v Hz", f)
	}
}

func TestSmallAnglePeriodMatchesTheory(t *testing.T) {
	params := physics.PendulumParams{Length: 1, Mass: 1, Gravity: 9.81, InitialAngle: 0.1}
	p, res := swing(t, params, 0.001, 10)
	want := p.TheoreticalPeriod()

	crossing, ok := CrossingPeriod(res.Column(0), 0.001)
	if !ok {
		t.Fatal("no crossings found")
	}
	if math.Abs(crossing-want)/want > 0.05 {
		t.Errorf("crossing period %.4f, theory %.4f", crossing, want)
	}

	spectral := DominantPeriod(res.Column(0), 0.001)
	if math.Abs(spectral-want)/want > 0.05 {
		t.Errorf("spectral period %.4f, theory %.4f", spectral, want)
	}
}

func TestCrossingPeriodNeedsTwoCrossings(t *testing.T) {
	if _, ok := CrossingPeriod([]float64{-1, 1, 2, 3}, 0.1); ok {
		t.Error("one crossing should not yield a period")
	}
}

func TestPhasePortrait(t *testing.T) {
	_, res := swing(t, physics.DefaultPendulumParams(), 0.01, 5)

	portrait := PhasePortrait(res, 0, 1)
	if portrait == nil {
		t.Fatal("nil portrait")
	}
	if portrait.XLabel != "angle" || portrait.YLabel != "angular_velocity" {
		t.Errorf("labels = %q, %q", portrait.XLabel, portrait.YLabel)
	}
	if len(portrait.Points) != len(res.Samples) {
		t.Errorf("got %d points for %d samples", len(portrait.Points), len(res.Samples))
	}

	art := PhasePortraitToASCII(portrait, 40, 12)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 12 {
		t.Errorf("got %d rows, want 12", len(lines))
	}
	if !strings.ContainsRune(art, '•') {
		t.Error("no trajectory drawn")
	}

	if PhasePortrait(res, 0, 99) != nil {
		t.Error("out of range column should give nil")
	}
}

func TestPoincareSectionOncePerSwing(t *testing.T) {
	params := physics.PendulumParams{Length: 1, Mass: 1, Gravity: 9.81, InitialAngle: 0.2}
	p, res := swing(t, params, 0.001, 10)

	points := PoincareSection(res, 0, 0, 0, 1)
	swings := 10 / p.TheoreticalPeriod()
	if math.Abs(float64(len(points))-swings) > 1.5 {
		t.Errorf("got %d crossings over %.1f swings", len(points), swings)
	}
	for _, pt := range points {
		if pt.Y <= 0 {
			t.Errorf("upward crossing with ω=%v", pt.Y)
		}
	}
}
