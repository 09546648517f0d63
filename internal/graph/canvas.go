// Package graph rasterizes cpu/mem history into a character canvas and text frame.
package graph

import "math"

// Cell is one canvas position.
type Cell byte

const (
	Blank   Cell = ' '
	CPUMark Cell = '#'
	MemMark Cell = '*'
	Overlap Cell = '@'
)

// Canvas is a height x width grid; row 0 is 100%, row height-1 is 0%.
type Canvas struct {
	Height int
	Width  int
	cells  [][]Cell
}

// NewCanvas allocates a blank grid.
func NewCanvas(height, width int) *Canvas {
	if height < 1 {
		height = 1
	}
	if width < 0 {
		width = 0
	}
	cells := make([][]Cell, height)
	for r := range cells {
		row := make([]Cell, width)
		for x := range row {
			row[x] = Blank
		}
		cells[r] = row
	}
	return &Canvas{Height: height, Width: width, cells: cells}
}

// At returns the cell at (row, col).
func (c *Canvas) At(row, col int) Cell { return c.cells[row][col] }

// Line returns one canvas row as text.
func (c *Canvas) Line(row int) string {
	b := make([]byte, c.Width)
	for x, cell := range c.cells[row] {
		b[x] = byte(cell)
	}
	return string(b)
}

// Row maps a percentage to a canvas row: 100 -> 0, 0 -> height-1.
// Values are clamped and rounded half to even.
func Row(value float64, height int) int {
	if height <= 1 {
		return 0
	}
	if math.IsNaN(value) {
		value = 0
	}
	value = math.Max(0, math.Min(100, value))
	r := int(math.RoundToEven(value / 100 * float64(height-1)))
	return (height - 1) - r
}

// Render plots cpu and mem column by column. Width is the shorter of the two
// sequences. A column whose two values land on the same row gets a single
// overlap marker.
func Render(cpu, mem []float64, height int) *Canvas {
	width := len(cpu)
	if len(mem) < width {
		width = len(mem)
	}
	c := NewCanvas(height, width)
	for x := 0; x < width; x++ {
		rc := Row(cpu[x], c.Height)
		rm := Row(mem[x], c.Height)
		if rc == rm {
			c.cells[rc][x] = Overlap
			continue
		}
		c.cells[rc][x] = CPUMark
		c.cells[rm][x] = MemMark
	}
	return c
}

// Ticks returns the labeled rows for nominal 100/75/50/25/0 percent, ascending
// and without duplicates. The last tick is always the bottom row.
func Ticks(height int) []int {
	if height < 1 {
		return nil
	}
	candidates := []int{
		0,
		int(float64(height) * 0.25),
		int(float64(height) * 0.5),
		int(float64(height) * 0.75),
		height - 1,
	}
	ticks := make([]int, 0, len(candidates))
	for _, r := range candidates {
		if len(ticks) > 0 && ticks[len(ticks)-1] >= r {
			continue
		}
		ticks = append(ticks, r)
	}
	return ticks
}

// TickLabel converts a row back to the percentage it represents.
func TickLabel(row, height int) int {
	if height <= 1 {
		return 100
	}
	return int(math.RoundToEven(100 * (1 - float64(row)/float64(height-1))))
}

// Dimensions derives canvas width and height from the terminal size, leaving
// room for the legend, axis labels, baseline and caption.
func Dimensions(cols, rows int) (width, height int) {
	width = cols - 8
	if width < 30 {
		width = 30
	}
	height = rows - 5
	if height > 24 {
		height = 24
	}
	if height < 10 {
		height = 10
	}
	return width, height
}
