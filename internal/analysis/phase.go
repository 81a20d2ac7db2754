package analysis

import (
	"strings"

	"github.com/san-kum/labsim/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D is the trajectory of two recorded samples against each other.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

// PhasePortrait pulls columns xIdx and yIdx out of a recorded run.
func PhasePortrait(res *dynamo.Result, xIdx, yIdx int) *PhasePortrait2D {
	if res == nil || xIdx >= len(res.Labels) || yIdx >= len(res.Labels) || xIdx < 0 || yIdx < 0 {
		return nil
	}

	portrait := &PhasePortrait2D{
		XLabel: res.Labels[xIdx],
		YLabel: res.Labels[yIdx],
		Points: make([]Point, 0, len(res.Samples)),
	}
	for _, s := range res.Samples {
		portrait.Points = append(portrait.Points, Point{X: s[xIdx], Y: s[yIdx]})
	}
	return portrait
}

// PoincareSection keeps the (recordX, recordY) samples at every upward
// crossing of threshold by column crossIdx.
func PoincareSection(res *dynamo.Result, crossIdx int, threshold float64, recordX, recordY int) []Point {
	if res == nil || len(res.Samples) == 0 {
		return nil
	}
	width := len(res.Samples[0])
	if crossIdx >= width || recordX >= width || recordY >= width {
		return nil
	}

	points := make([]Point, 0)
	prev := res.Samples[0][crossIdx]
	for _, s := range res.Samples[1:] {
		curr := s[crossIdx]
		if prev < threshold && curr >= threshold {
			points = append(points, Point{X: s[recordX], Y: s[recordY]})
		}
		prev = curr
	}
	return points
}

// PhasePortraitToASCII plots the portrait on a width×height character grid
// with axes drawn where they fall inside the padded bounds.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	return plotPoints(portrait.Points, width, height)
}

func plotPoints(points []Point, width, height int) string {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y

	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
