package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/labsim/internal/dynamo"
)

const (
	// WaveExtent is the side of the square the grid spans, centred on the origin.
	WaveExtent = 10.0
	// MinWavePoints is the smallest usable grid resolution.
	MinWavePoints = 2
	// MaxWavePoints bounds the grid so a bad setting cannot exhaust memory.
	MaxWavePoints = 1024

	// spatial wavenumber of the traveling sine
	waveNumber = 2.0
	// rows evaluated per goroutine before the grid is split
	rowsPerWorker = 32
)

type WaveSettings struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
	Medium    string  `yaml:"medium"`
	Points    int     `yaml:"points"`
}

func DefaultWaveSettings() WaveSettings {
	return WaveSettings{
		Amplitude: 0.5,
		Frequency: 1.0,
		Damping:   0.02,
		Medium:    "water",
		Points:    100,
	}
}

// Sanitize clamps numeric settings. The medium is validated separately.
func (s WaveSettings) Sanitize() WaveSettings {
	d := DefaultWaveSettings()
	s.Amplitude = clampMin(finiteOr(s.Amplitude, d.Amplitude), 0)
	s.Frequency = clampMin(finiteOr(s.Frequency, d.Frequency), 0)
	s.Damping = clampMin(finiteOr(s.Damping, d.Damping), 0)
	if s.Points < MinWavePoints {
		s.Points = MinWavePoints
	}
	if s.Points > MaxWavePoints {
		s.Points = MaxWavePoints
	}
	return s
}

// WaveFrame is an immutable snapshot of the height field. Heights are stored
// row-major, Points×Points, matching WaveField.Positions.
type WaveFrame struct {
	Points  int
	Phase   float64
	Origin  float64
	Peak    float64
	Heights []float64
}

func (f WaveFrame) Height(row, col int) float64 {
	return f.Heights[row*f.Points+col]
}

func (f WaveFrame) Samples() []float64 {
	return []float64{f.Phase, f.Origin, f.Peak}
}

// WaveField generates a radially damped traveling wave over a square grid.
type WaveField struct {
	settings  WaveSettings
	medium    Medium
	positions []mgl64.Vec2
	dist      []float64
	phase     float64
}

func NewWaveField(settings WaveSettings) (*WaveField, error) {
	medium, err := LookupMedium(settings.Medium)
	if err != nil {
		return nil, err
	}
	w := &WaveField{settings: settings.Sanitize(), medium: medium}
	w.rebuild()
	return w, nil
}

// rebuild lays out the grid and zeroes the phase accumulator.
func (w *WaveField) rebuild() {
	n := w.settings.Points
	spacing := WaveExtent / float64(n-1)
	w.positions = make([]mgl64.Vec2, n*n)
	w.dist = make([]float64, n*n)
	for row := 0; row < n; row++ {
		z := -WaveExtent/2 + float64(row)*spacing
		for col := 0; col < n; col++ {
			x := -WaveExtent/2 + float64(col)*spacing
			p := mgl64.Vec2{x, z}
			w.positions[row*n+col] = p
			w.dist[row*n+col] = p.Len()
		}
	}
	w.phase = 0
}

func (w *WaveField) Name() string { return "wave" }

func (w *WaveField) height(dist float64) float64 {
	s := w.settings
	return s.Amplitude * math.Sin(waveNumber*dist-w.phase*w.medium.Speed) * math.Exp(-s.Damping*dist)
}

// Advance accumulates dt·frequency into the phase and evaluates every vertex.
func (w *WaveField) Advance(dt float64) WaveFrame {
	if h, ok := dynamo.GuardDt(dt); ok {
		w.phase += h * w.settings.Frequency
	}
	return w.Frame()
}

func (w *WaveField) Tick(dt float64) dynamo.Frame {
	return w.Advance(dt)
}

// Frame evaluates the field at the current phase without advancing it.
func (w *WaveField) Frame() WaveFrame {
	n := w.settings.Points
	heights := make([]float64, n*n)
	dynamo.ParallelFor(n, rowsPerWorker, func(start, end int) {
		for i := start * n; i < end*n; i++ {
			heights[i] = w.height(w.dist[i])
		}
	})

	peak := 0.0
	for _, h := range heights {
		if a := math.Abs(h); a > peak {
			peak = a
		}
	}

	return WaveFrame{
		Points:  n,
		Phase:   w.phase,
		Origin:  w.height(0),
		Peak:    peak,
		Heights: heights,
	}
}

// SampleAt evaluates the field at an arbitrary point of the plane.
func (w *WaveField) SampleAt(x, z float64) float64 {
	return w.height(math.Hypot(x, z))
}

func (w *WaveField) SampleLabels() []string {
	return []string{"phase", "origin", "peak"}
}

// Reset zeroes the phase and keeps the grid.
func (w *WaveField) Reset() {
	w.phase = 0
}

func (w *WaveField) Phase() float64         { return w.phase }
func (w *WaveField) Speed() float64         { return w.medium.Speed }
func (w *WaveField) Medium() Medium         { return w.medium }
func (w *WaveField) Settings() WaveSettings { return w.settings }

// Positions returns a copy of the grid sample positions as (x, z).
func (w *WaveField) Positions() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(w.positions))
	copy(out, w.positions)
	return out
}

// SetSettings applies new settings between frames. A new medium or grid
// resolution rebuilds the grid and restarts the phase; amplitude, frequency
// and damping only change the next evaluation.
func (w *WaveField) SetSettings(next WaveSettings) error {
	medium, err := LookupMedium(next.Medium)
	if err != nil {
		return err
	}
	next = next.Sanitize()
	rebuild := next.Medium != w.settings.Medium || next.Points != w.settings.Points
	w.settings = next
	w.medium = medium
	if rebuild {
		w.rebuild()
	}
	return nil
}

func (w *WaveField) SetMedium(name string) error {
	next := w.settings
	next.Medium = name
	return w.SetSettings(next)
}

func (w *WaveField) GetParams() map[string]float64 {
	return map[string]float64{
		"amplitude": w.settings.Amplitude,
		"frequency": w.settings.Frequency,
		"damping":   w.settings.Damping,
		"points":    float64(w.settings.Points),
	}
}

func (w *WaveField) SetParam(name string, value float64) error {
	next := w.settings
	switch name {
	case "amplitude":
		next.Amplitude = value
	case "frequency":
		next.Frequency = value
	case "damping":
		next.Damping = value
	case "points":
		if !isFinite(value) {
			return fmt.Errorf("wave points %v: %w", value, dynamo.ErrParameterBounds)
		}
		next.Points = int(math.Round(math.Max(math.Min(value, MaxWavePoints), 0)))
	default:
		return fmt.Errorf("wave %q: %w", name, dynamo.ErrUnknownParam)
	}
	return w.SetSettings(next)
}
