package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Braille dot grid of Width×Height cells, each cell holding 2×4
// dots. World coordinates map onto it through the viewport.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	view          Viewport
}

// Viewport is the world rectangle shown on the canvas, y pointing up.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		view:   Viewport{-1, 1, -1, 1},
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// DotsX and DotsY are the canvas size in sub-pixels.
func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

func (c *Canvas) SetViewport(v Viewport) {
	if v.MaxX <= v.MinX || v.MaxY <= v.MinY {
		return
	}
	c.view = v
}

// Fit sets a viewport centred on (cx, cy) that shows at least halfW×halfH in
// each direction while keeping dots square on screen.
func (c *Canvas) Fit(cx, cy, halfW, halfH float64) {
	aspect := float64(c.DotsX()) / float64(c.DotsY())
	if halfW/halfH < aspect {
		halfW = halfH * aspect
	} else {
		halfH = halfW / aspect
	}
	c.SetViewport(Viewport{cx - halfW, cx + halfW, cy - halfH, cy + halfH})
}

// Project maps a world point to sub-pixel coordinates.
func (c *Canvas) Project(x, y float64) (int, int) {
	v := c.view
	px := (x - v.MinX) / (v.MaxX - v.MinX) * float64(c.DotsX()-1)
	py := (v.MaxY - y) / (v.MaxY - v.MinY) * float64(c.DotsY()-1)
	return int(math.Round(px)), int(math.Round(py))
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether a sub-pixel is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) Point(x, y float64) {
	c.Set(c.Project(x, y))
}

func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	px0, py0 := c.Project(x0, y0)
	px1, py1 := c.Project(x1, y1)
	c.DrawLine(px0, py0, px1, py1)
}

// Polyline joins consecutive points.
func (c *Canvas) Polyline(xs, ys []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	for i := 1; i < n; i++ {
		c.Line(xs[i-1], ys[i-1], xs[i], ys[i])
	}
}

// Disc fills a circle of world radius r, at least one dot across.
func (c *Canvas) Disc(x, y, r float64) {
	cx, cy := c.Project(x, y)
	rx, _ := c.Project(x+r, y)
	rad := absInt(rx - cx)
	for dy := -rad; dy <= rad; dy++ {
		for dx := -rad; dx <= rad; dx++ {
			if dx*dx+dy*dy <= rad*rad {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// FillRect lights every dot of the world rectangle.
func (c *Canvas) FillRect(x0, y0, x1, y1 float64) {
	px0, py0 := c.Project(x0, y0)
	px1, py1 := c.Project(x1, y1)
	if px0 > px1 {
		px0, px1 = px1, px0
	}
	if py0 > py1 {
		py0, py1 = py1, py0
	}
	for y := py0; y <= py1; y++ {
		for x := px0; x <= px1; x++ {
			c.Set(x, y)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
