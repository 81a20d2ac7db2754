package viz

import (
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/physics"
)

const (
	trailCapacity = 100
	waveRows      = 14
	waveDepthX    = 0.3
	waveDepthY    = 0.35
)

// DrawPendulum draws the rod, the bob sized by mass and the recent bob trail.
func DrawPendulum(c *Canvas, f physics.PendulumFrame, trail [][2]float64) {
	pose := f.Pose
	reach := pose.RodLength + pose.BobRadius
	c.Fit(0, -reach/2, reach*1.1, reach*0.6)

	for _, pt := range trail {
		c.Point(pt[0], pt[1])
	}
	c.Disc(pose.Pivot.X(), pose.Pivot.Y(), 0.02*reach)
	c.Line(pose.Pivot.X(), pose.Pivot.Y(), pose.Bob.X(), pose.Bob.Y())
	c.Disc(pose.Bob.X(), pose.Bob.Y(), pose.BobRadius)
}

// DrawCapillary draws the tube, its scale and the liquid column. The tube is
// stretched sideways so the meniscus stays visible.
func DrawCapillary(c *Canvas, f physics.Fill, params physics.CapillaryParams) {
	h, r := params.TubeHeight, params.TubeRadius
	if r <= 0 || h <= 0 {
		return
	}
	c.SetViewport(Viewport{MinX: -3 * r, MaxX: 3 * r, MinY: -h * 0.55, MaxY: h * 0.55})

	c.Line(-r, -h/2, -r, h/2)
	c.Line(r, -h/2, r, h/2)
	c.Line(-r, -h/2, r, -h/2)
	for i, y := range physics.ScaleMarks(h) {
		tick := 0.25 * r
		if i%5 == 0 {
			tick = 0.5 * r
		}
		c.Line(r*1.2, y, r*1.2+tick, y)
	}

	if f.Empty {
		return
	}

	c.FillRect(-f.Radius, -h/2, f.Radius, f.SurfaceY)
	xs := make([]float64, len(f.Meniscus))
	ys := make([]float64, len(f.Meniscus))
	for i, p := range f.Meniscus {
		xs[i] = p.X()
		ys[i] = f.SurfaceY + p.Y()
	}
	c.Polyline(xs, ys)
}

// DrawWave draws a waterfall of grid rows, far rows raised and shifted right.
func DrawWave(c *Canvas, f physics.WaveFrame, amplitude float64) {
	n := f.Points
	if n < 2 || len(f.Heights) < n*n {
		return
	}
	half := physics.WaveExtent / 2
	c.Fit(0, 0, half*(1+waveDepthX)+0.1, half*waveDepthY+amplitude+0.1)

	stride := n / waveRows
	if stride < 1 {
		stride = 1
	}
	spacing := physics.WaveExtent / float64(n-1)

	xs := make([]float64, n)
	ys := make([]float64, n)
	for row := n - 1; row >= 0; row -= stride {
		z := -half + float64(row)*spacing
		for col := 0; col < n; col++ {
			x := -half + float64(col)*spacing
			xs[col] = x + waveDepthX*z
			ys[col] = f.Height(row, col) + waveDepthY*z
		}
		c.Polyline(xs, ys)
	}
}

// DrawFrame draws f with the renderer for its demo. The scene supplies the
// settings the frame does not carry. Unknown frame types draw nothing.
func DrawFrame(c *Canvas, scene dynamo.Scene, f dynamo.Frame, trail [][2]float64) {
	switch f := f.(type) {
	case physics.PendulumFrame:
		DrawPendulum(c, f, trail)
	case physics.Fill:
		if tube, ok := scene.(*physics.Capillary); ok {
			DrawCapillary(c, f, tube.Params())
		}
	case physics.WaveFrame:
		if w, ok := scene.(*physics.WaveField); ok {
			DrawWave(c, f, w.Settings().Amplitude)
		}
	}
}

// Snapshot draws the scene's current frame on a fresh w×h canvas.
func Snapshot(scene dynamo.Scene, w, h int) *Canvas {
	c := NewCanvas(w, h)
	DrawFrame(c, scene, scene.Tick(0), nil)
	return c
}
