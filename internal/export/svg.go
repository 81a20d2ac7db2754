package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/labsim/internal/analysis"
	"github.com/san-kum/labsim/internal/viz"
)

const background = "#0a0a0a"

// dot bits of a Braille cell, row by row
var pixelMap = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG draws every set Braille dot of the canvas as a circle, scale
// pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil || scale <= 0 {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.DotsX())*scale, float64(canvas.DotsY())*scale)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", color)

	r := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := range pixelMap {
				for dx, bit := range pixelMap[dy] {
					if pattern&bit == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrajectoryToSVG draws points as one polyline scaled into width×height with
// a 10% margin. Non-finite points are skipped.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	pts := make([]analysis.Point, 0, len(points))
	for _, p := range points {
		if !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) {
			pts = append(pts, p)
		}
	}
	if len(pts) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range pts {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
