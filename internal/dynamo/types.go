package dynamo

import "math"

// MaxFrameDt is the largest elapsed time a single tick may integrate.
// Longer gaps (a suspended tab, a stalled terminal) are truncated to it.
const MaxFrameDt = 0.1

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	return AllFinite(s)
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// AllFinite reports whether no value is NaN or Inf.
func AllFinite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// GuardDt turns a raw frame delta into one that is safe to integrate.
// It reports false when the tick must not advance the simulation at all.
func GuardDt(dt float64) (float64, bool) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return 0, false
	}
	if dt > MaxFrameDt {
		return MaxFrameDt, true
	}
	return dt, true
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Frame is the immutable snapshot a scene emits for one tick.
type Frame interface {
	// Samples flattens the frame into the scalars worth recording per tick.
	Samples() []float64
}

// StateFrame is a frame that also exposes the integrator state it came from.
type StateFrame interface {
	Frame
	Vector() State
}

// Scene is one running demo. The driver calls Tick once per rendered frame.
type Scene interface {
	Name() string
	Tick(dt float64) Frame
	Reset()
	// SampleLabels names the values returned by Frame.Samples.
	SampleLabels() []string
}

type Metric interface {
	Name() string
	Observe(f Frame, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateFrame bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Duration:      10.0,
		ValidateFrame: true,
	}
}

type Result struct {
	Scene      string
	Labels     []string
	Samples    [][]float64
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Column returns the recorded values of sample i, or nil when i is out of range.
func (r *Result) Column(i int) []float64 {
	if i < 0 || i >= len(r.Labels) {
		return nil
	}
	col := make([]float64, len(r.Samples))
	for k, s := range r.Samples {
		col[k] = s[i]
	}
	return col
}
