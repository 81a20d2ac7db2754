package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/labsim/internal/dynamo"
)

const (
	// DefaultMeniscusSegments is the sampling resolution of the surface curve.
	DefaultMeniscusSegments = 64
	// DefaultExtrudeDepth is the thickness given to the curve when extruded.
	DefaultExtrudeDepth = 0.001
	// InnerRadiusRatio shrinks the liquid column so it sits inside the glass.
	InnerRadiusRatio = 0.95

	oscillationAmplitude = 0.0015
	oscillationRate      = 2.0
	minViscosity         = 1e-3
	scaleMarkCount       = 11
)

// FillHeight is the physical liquid column height, tubeHeight × fillLevel
// with fillLevel clamped to [0, 1].
func FillHeight(fillLevel, tubeHeight float64) float64 {
	return clampUnit(fillLevel) * clampMin(finiteOr(tubeHeight, 0), 0)
}

// Oscillation is the cosmetic surface jitter at time t. More viscous liquids
// move less.
func Oscillation(t, viscosity float64) float64 {
	v := clampMin(finiteOr(viscosity, 1), minViscosity)
	return math.Sin(t*oscillationRate) * oscillationAmplitude / v
}

// MeniscusCurve samples the surface profile y(x) over [-radius, radius].
// Concave profiles follow h·sin(πu), convex ones h·(1−sin(πu)), with
// u = (x+radius)/(2·radius). Unusable inputs yield a flat segment.
func MeniscusCurve(kind MeniscusType, height, radius float64, segments int) []mgl64.Vec2 {
	if !isFinite(radius) || radius <= 0 {
		return flatCurve(0)
	}
	if !isFinite(height) || height < 0 {
		return flatCurve(radius)
	}
	if segments < 1 {
		segments = DefaultMeniscusSegments
	}

	curve := make([]mgl64.Vec2, segments+1)
	for i := 0; i <= segments; i++ {
		u := float64(i) / float64(segments)
		x := -radius + 2*radius*u
		s := math.Sin(math.Pi * u)
		y := height * s
		if kind == Convex {
			y = height * (1 - s)
		}
		curve[i] = mgl64.Vec2{x, y}
	}
	return curve
}

func flatCurve(radius float64) []mgl64.Vec2 {
	return []mgl64.Vec2{{-radius, 0}, {radius, 0}}
}

// Extrude turns the curve into a thin surface: the front ring at z=0 followed
// by the back ring at z=depth.
func Extrude(curve []mgl64.Vec2, depth float64) []mgl64.Vec3 {
	if !isFinite(depth) || depth <= 0 {
		depth = DefaultExtrudeDepth
	}
	out := make([]mgl64.Vec3, 0, 2*len(curve))
	for _, p := range curve {
		out = append(out, p.Vec3(0))
	}
	for _, p := range curve {
		out = append(out, p.Vec3(depth))
	}
	return out
}

// ScaleMarks returns the heights of the measuring scale beside the tube,
// bottom to top, in tube-centred coordinates.
func ScaleMarks(tubeHeight float64) []float64 {
	h := clampMin(finiteOr(tubeHeight, 0), 0)
	marks := make([]float64, scaleMarkCount)
	for i := range marks {
		marks[i] = -h/2 + float64(i)*h/float64(scaleMarkCount-1)
	}
	return marks
}

// Fill is the geometry of the liquid for one frame. Positions are in
// tube-centred coordinates, the tube spanning [-H/2, H/2].
type Fill struct {
	Empty          bool
	LiquidHeight   float64
	VerticalOffset float64
	Radius         float64
	BodyY          float64
	SurfaceY       float64
	Meniscus       []mgl64.Vec2
}

func (f Fill) Samples() []float64 {
	return []float64{f.LiquidHeight, f.SurfaceY, f.VerticalOffset}
}

// ComputeFill produces the liquid geometry at time t. The physical height is
// computed first; the oscillation offset is layered on the placements only.
// A fill level of zero or below is an empty tube with no liquid geometry.
func ComputeFill(liquid LiquidProfile, fillLevel, tubeHeight, tubeRadius, t float64) Fill {
	h := FillHeight(fillLevel, tubeHeight)
	if h <= 0 {
		return Fill{Empty: true}
	}

	tubeHeight = clampMin(finiteOr(tubeHeight, 0), 0)
	offset := Oscillation(t, liquid.Viscosity)
	r := InnerRadiusRatio * tubeRadius
	base := -tubeHeight / 2

	return Fill{
		LiquidHeight:   h,
		VerticalOffset: offset,
		Radius:         r,
		BodyY:          base + h/2 + offset,
		SurfaceY:       base + h + offset,
		Meniscus:       MeniscusCurve(liquid.MeniscusType, liquid.MeniscusHeight, r, DefaultMeniscusSegments),
	}
}

type CapillaryParams struct {
	Liquid     LiquidKind `yaml:"liquid"`
	FillLevel  float64    `yaml:"fill_level"`
	TubeHeight float64    `yaml:"tube_height"`
	TubeRadius float64    `yaml:"tube_radius"`
}

func DefaultCapillaryParams() CapillaryParams {
	return CapillaryParams{
		Liquid:     Water,
		FillLevel:  0.6,
		TubeHeight: 5,
		TubeRadius: 0.2,
	}
}

// Capillary is the capillary tube demo: a fixed liquid in a glass tube whose
// surface jitters with elapsed time.
type Capillary struct {
	params CapillaryParams
	liquid LiquidProfile
	clock  float64
}

func NewCapillary(params CapillaryParams) (*Capillary, error) {
	liquid, err := LookupLiquid(string(params.Liquid))
	if err != nil {
		return nil, err
	}
	return &Capillary{params: params, liquid: liquid}, nil
}

func (c *Capillary) Name() string { return "capillary" }

// Step advances the surface clock by dt and returns the frame geometry.
func (c *Capillary) Step(dt float64) Fill {
	if h, ok := dynamo.GuardDt(dt); ok {
		c.clock += h
	}
	return c.Fill()
}

func (c *Capillary) Tick(dt float64) dynamo.Frame {
	return c.Step(dt)
}

func (c *Capillary) Fill() Fill {
	p := c.params
	return ComputeFill(c.liquid, p.FillLevel, p.TubeHeight, p.TubeRadius, c.clock)
}

func (c *Capillary) SampleLabels() []string {
	return []string{"liquid_height", "surface_y", "offset"}
}

func (c *Capillary) Reset() {
	c.clock = 0
}

func (c *Capillary) Clock() float64          { return c.clock }
func (c *Capillary) Liquid() LiquidProfile   { return c.liquid }
func (c *Capillary) Params() CapillaryParams { return c.params }

// SetLiquid swaps the liquid. The surface clock keeps running.
func (c *Capillary) SetLiquid(kind LiquidKind) error {
	liquid, err := LookupLiquid(string(kind))
	if err != nil {
		return err
	}
	c.liquid = liquid
	c.params.Liquid = kind
	return nil
}

func (c *Capillary) GetParams() map[string]float64 {
	return map[string]float64{
		"fill_level":  c.params.FillLevel,
		"tube_height": c.params.TubeHeight,
		"tube_radius": c.params.TubeRadius,
	}
}

func (c *Capillary) SetParam(name string, value float64) error {
	switch name {
	case "fill_level":
		c.params.FillLevel = clampUnit(value)
	case "tube_height":
		c.params.TubeHeight = clampMin(finiteOr(value, c.params.TubeHeight), 0)
	case "tube_radius":
		c.params.TubeRadius = clampMin(finiteOr(value, c.params.TubeRadius), 0)
	default:
		return fmt.Errorf("capillary %q: %w", name, dynamo.ErrUnknownParam)
	}
	return nil
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
