package metrics

import (
	"math"

	"github.com/san-kum/labsim/internal/dynamo"
)

// Stability is the fraction of frames whose samples all stay finite and
// within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Frame, t float64) {
	s.samples++
	for _, val := range f.Samples() {
		if math.IsNaN(val) || math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Peak records the largest magnitude seen at one sample index.
type Peak struct {
	name  string
	index int
	peak  float64
}

func NewPeak(name string, index int) *Peak {
	return &Peak{name: name, index: index}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(f dynamo.Frame, t float64) {
	vals := f.Samples()
	if p.index < len(vals) {
		p.peak = math.Max(p.peak, math.Abs(vals[p.index]))
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }
