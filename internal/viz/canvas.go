package viz

import (
	"math"
	"strings"

	"github.com/san-kum/dangle/internal/dynamo"
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

const blank = rune(0x2800)

// Canvas is a grid of braille cells, 2x4 dots each.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots is the canvas size in dots.
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set sets the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

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

// DrawBox draws a filled square of side 2r+1 centred on (x, y).
func (c *Canvas) DrawBox(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps scene pixels onto canvas dots with a uniform scale.
// Scene and canvas share the +y down convention.
type Viewport struct {
	Min, Max dynamo.Vec2
}

// Grow extends the viewport to include p, padded by margin.
func (v *Viewport) Grow(p dynamo.Vec2, margin float64) {
	if !dynamo.Finite(p) {
		return
	}
	v.Min = dynamo.Vec2{math.Min(v.Min[0], p[0]-margin), math.Min(v.Min[1], p[1]-margin)}
	v.Max = dynamo.Vec2{math.Max(v.Max[0], p[0]+margin), math.Max(v.Max[1], p[1]+margin)}
}

// Project returns the dot for scene point p on a dotsW x dotsH canvas.
func (v Viewport) Project(p dynamo.Vec2, dotsW, dotsH int) (int, int) {
	size := v.Max.Sub(v.Min)
	scale := math.Min(float64(dotsW-1)/math.Max(size[0], 1e-9), float64(dotsH-1)/math.Max(size[1], 1e-9))
	// centre the shorter axis
	offX := (float64(dotsW-1) - size[0]*scale) / 2
	offY := (float64(dotsH-1) - size[1]*scale) / 2
	x := offX + (p[0]-v.Min[0])*scale
	y := offY + (p[1]-v.Min[1])*scale
	return int(math.Round(x)), int(math.Round(y))
}
