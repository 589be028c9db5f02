package visualizer

import "strings"

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Canvas is a dot raster backed by braille cells. Each cell is a 2x4 dot
// grid, so a cols x rows canvas has 2*cols x 4*rows dots. Every cell also
// keeps the highest level drawn into it, which picks its color.
type Canvas struct {
	cols, rows int
	dots       []uint8
	level      []float32
}

// NewCanvas creates a canvas of cols x rows cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the canvas size and clears it.
func (c *Canvas) Resize(cols, rows int) {
	c.cols = max(cols, 1)
	c.rows = max(rows, 1)
	n := c.cols * c.rows
	if cap(c.dots) < n {
		c.dots = make([]uint8, n)
		c.level = make([]float32, n)
	}
	c.dots = c.dots[:n]
	c.level = c.level[:n]
	c.Clear()
}

// Clear removes every dot.
func (c *Canvas) Clear() {
	clear(c.dots)
	for i := range c.level {
		c.level[i] = -1
	}
}

// Dots returns the dot resolution.
func (c *Canvas) Dots() (w, h int) {
	return c.cols * 2, c.rows * 4
}

// Plot sets the dot at (x, y), origin top-left. Dots outside the canvas are
// ignored.
func (c *Canvas) Plot(x, y int, level float32) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	cell := (y/4)*c.cols + x/2
	c.dots[cell] |= 1 << brailleBits[x%2][y%4]
	if level > c.level[cell] {
		c.level[cell] = level
	}
}

// Render draws the canvas as rows of braille runes, colored by palette
// under the given color profile.
func (c *Canvas) Render(palette Palette, profile colorProfile) string {
	rows := make([]string, c.rows)
	for row := range c.rows {
		var line strings.Builder
		ansi := ansiState{profile: profile}
		for col := range c.cols {
			cell := row*c.cols + col
			if c.dots[cell] != 0 {
				ansi.set(&line, palette(float64(c.level[cell])))
			}
			line.WriteRune(rune(0x2800 + uint(c.dots[cell])))
		}
		ansi.reset(&line)
		rows[row] = line.String()
	}
	return strings.Join(rows, "\n")
}
