package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/usagemon/internal/model"
)

// Legend is the marker key shown before the latest reading.
const Legend = "CPU=#, MEM=* (@ overlap)"

// Painter decorates a run of identical cells, e.g. with terminal colors.
// A nil Painter leaves cells as plain characters.
type Painter func(c Cell, run string) string

// FrameInput is everything one graph frame depends on.
type FrameInput struct {
	CPU      []float64 // window, oldest first, already clamped
	Mem      []float64
	Height   int
	Interval float64 // seconds
	Paint    Painter
}

// Frame renders the legend, the labeled canvas, the baseline, and the caption.
// The result has no trailing newline.
func Frame(in FrameInput) string {
	c := Render(in.CPU, in.Mem, in.Height)

	var latestCPU, latestMem *float64
	if c.Width > 0 {
		latestCPU = model.Percent(in.CPU[c.Width-1])
		latestMem = model.Percent(in.Mem[c.Width-1])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | interval %ss\n", Legend, model.FormatLine(latestCPU, latestMem), FormatSeconds(in.Interval))

	ticks := make(map[int]bool, 5)
	for _, r := range Ticks(c.Height) {
		ticks[r] = true
	}
	for row := 0; row < c.Height; row++ {
		if ticks[row] {
			fmt.Fprintf(&b, "%3d", TickLabel(row, c.Height))
		} else {
			b.WriteString("   ")
		}
		b.WriteByte('|')
		b.WriteString(paintLine(c, row, in.Paint))
		b.WriteByte('\n')
	}

	b.WriteString("   +" + strings.Repeat("-", c.Width) + "\n")
	fmt.Fprintf(&b, "    time →  (last %d samples)", c.Width)
	return b.String()
}

func paintLine(c *Canvas, row int, paint Painter) string {
	line := c.Line(row)
	if paint == nil || line == "" {
		return line
	}
	var b strings.Builder
	start := 0
	for x := 1; x <= len(line); x++ {
		if x == len(line) || line[x] != line[start] {
			b.WriteString(paint(Cell(line[start]), line[start:x]))
			start = x
		}
	}
	return b.String()
}

// FormatSeconds prints an interval the way it was given: whole numbers keep
// one decimal ("1.0"), fractions keep their digits ("0.25"). Magnitudes below
// 1e-4 or from 1e16 up switch to exponent form ("1e-05").
func FormatSeconds(v float64) string {
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
