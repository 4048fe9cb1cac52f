package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/dangle/internal/analysis"
	"github.com/san-kum/dangle/internal/viz"
)

const background = "#0a0a0a"

// Palette strokes successive traces in WriteTraces.
var Palette = []string{"#00ff9f", "#ff2a6d", "#05d9e8", "#f9c80e", "#d1f7ff"}

// WriteCanvas draws every set dot of a braille canvas as a circle.
func WriteCanvas(w io.Writer, c *viz.Canvas, scale float64) error {
	if c == nil {
		return fmt.Errorf("nil canvas")
	}
	bw := bufio.NewWriter(w)

	dw, dh := c.Dots()
	width, height := float64(dw)*scale, float64(dh)*scale
	header(bw, width, height)
	fmt.Fprintf(bw, "<g fill=\"%s\">\n", Palette[0])

	r := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
		}
	}

	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}

// WriteTraces draws each trace as a polyline in one shared frame. Screen
// space is kept: +y points down.
func WriteTraces(w io.Writer, traces []*analysis.Trace, width, height int) error {
	var pts int
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for _, t := range traces {
		if t == nil {
			continue
		}
		for _, p := range t.Points {
			if pts == 0 {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			}
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
			pts++
		}
	}
	if pts < 2 {
		return fmt.Errorf("nothing to draw")
	}

	rangeX, rangeY := maxX-minX, maxY-minY
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

	bw := bufio.NewWriter(w)
	header(bw, float64(width), float64(height))

	for i, t := range traces {
		if t == nil || len(t.Points) == 0 {
			continue
		}
		fmt.Fprintf(bw, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", Palette[i%len(Palette)])
		for j, p := range t.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := (p.Y - minY) / rangeY * float64(height)
			if j == 0 {
				fmt.Fprintf(bw, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
			}
		}
		bw.WriteString("\"/>\n")
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func header(w *bufio.Writer, width, height float64) {
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}
