package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/labsim/internal/physics"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestModelAdvanceUsesWallClock(t *testing.T) {
	p := physics.NewPendulum(physics.DefaultPendulumParams())
	m := NewModel("pendulum", p)

	start := time.Unix(0, 0)
	next, _ := m.Update(TickMsg(start))
	m = next.(Model)
	if m.t != 0 {
		t.Fatalf("first tick has no previous frame, t = %v", m.t)
	}

	next, _ = m.Update(TickMsg(start.Add(20 * time.Millisecond)))
	m = next.(Model)
	if math.Abs(m.t-0.02) > 1e-9 {
		t.Errorf("t = %v, want 0.02", m.t)
	}

	next, _ = m.Update(TickMsg(start.Add(10 * time.Second)))
	m = next.(Model)
	if math.Abs(m.t-0.12) > 1e-9 {
		t.Errorf("stalled frame should be capped, t = %v", m.t)
	}
	if len(m.trace) != 3 || len(m.trail) != 3 {
		t.Errorf("trace %d, trail %d", len(m.trace), len(m.trail))
	}
}

func TestModelPauseAndReset(t *testing.T) {
	p := physics.NewPendulum(physics.DefaultPendulumParams())
	m := NewModel("pendulum", p)

	m.Advance(0.05)
	m = press(m, " ")
	before := p.State()
	m.Advance(0.05)
	if p.State() != before {
		t.Error("paused model advanced the scene")
	}

	m = press(m, "r")
	if p.State().Angle != math.Pi/4 || m.t != 0 || len(m.trace) != 0 {
		t.Errorf("reset left state %+v, t=%v", p.State(), m.t)
	}
}

func TestModelTuneWithinBounds(t *testing.T) {
	p := physics.NewPendulum(physics.DefaultPendulumParams())
	m := NewModel("pendulum", p)

	// keys sort as damping, gravity, initial_angle, length, mass
	m = press(m, "tab")
	if m.paramKeys[m.selected] != "gravity" {
		t.Fatalf("selected %q", m.paramKeys[m.selected])
	}
	for i := 0; i < 100; i++ {
		m = press(m, "up")
	}
	if got := p.Params().Gravity; got != 20 {
		t.Errorf("gravity = %v, want clamped to 20", got)
	}

	m = press(m, "r")
	if got := p.Params().Gravity; got != 9.8 {
		t.Errorf("reset should restore gravity, got %v", got)
	}
}

func TestModelCyclesLiquidAndMedium(t *testing.T) {
	c, err := physics.NewCapillary(physics.DefaultCapillaryParams())
	if err != nil {
		t.Fatal(err)
	}
	m := press(NewModel("capillary", c), "l")
	if c.Liquid().Kind != physics.Mercury {
		t.Errorf("liquid = %s, want mercury", c.Liquid().Kind)
	}
	press(m, "r")
	if c.Liquid().Kind != physics.Water {
		t.Errorf("reset liquid = %s, want water", c.Liquid().Kind)
	}

	w, err := physics.NewWaveField(physics.DefaultWaveSettings())
	if err != nil {
		t.Fatal(err)
	}
	press(NewModel("wave", w), "m")
	if w.Medium().Name != "air" {
		t.Errorf("medium = %s, want air", w.Medium().Name)
	}
}

func TestModelViewRendersEveryDemo(t *testing.T) {
	c, _ := physics.NewCapillary(physics.DefaultCapillaryParams())
	w, _ := physics.NewWaveField(physics.WaveSettings{Amplitude: 0.5, Frequency: 1, Damping: 0.02, Medium: "water", Points: 30})

	models := []Model{
		NewModel("pendulum", physics.NewPendulum(physics.DefaultPendulumParams())),
		NewModel("capillary", c),
		NewModel("wave", w),
	}
	for _, m := range models {
		m.Advance(0.016)
		m.Advance(0.016)
		out := m.View()
		if !strings.Contains(out, strings.ToUpper(m.demo)) {
			t.Errorf("%s view lacks its header", m.demo)
		}
		m.draw()
		lit := false
		for _, row := range m.canvas.Grid {
			for _, r := range row {
				if r != blank {
					lit = true
				}
			}
		}
		if !lit {
			t.Errorf("%s drew nothing", m.demo)
		}
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel("pendulum", physics.NewPendulum(physics.DefaultPendulumParams()))
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return the quit command")
	}
}
