package analysis

import (
	"strings"
)

// Trace is the path of one parameter's output in its (x, y) plane.
type Trace struct {
	Points []struct{ X, Y float64 }
}

// NewTrace pairs up two equally long component series.
func NewTrace(xs, ys []float64) *Trace {
	n := min(len(xs), len(ys))
	t := &Trace{Points: make([]struct{ X, Y float64 }, n)}
	for i := 0; i < n; i++ {
		t.Points[i].X, t.Points[i].Y = xs[i], ys[i]
	}
	return t
}

// TraceToASCII draws a trace, with axes where they are visible.
func TraceToASCII(trace *Trace, width, height int) string {
	if trace == nil || len(trace.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := trace.Points[0].X, trace.Points[0].X
	minY, maxY := trace.Points[0].Y, trace.Points[0].Y

	for _, p := range trace.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
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
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// later points overwrite earlier ones
	marks := []rune{'.', 'o', '•'}
	for i, p := range trace.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = marks[i*len(marks)/len(trace.Points)]
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
