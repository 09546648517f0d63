package display

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Fallback terminal size when nothing better is known.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// TermSizer reports the current terminal size in columns and rows.
type TermSizer interface {
	Size() (cols, rows int)
}

// SizerFunc adapts a function to TermSizer.
type SizerFunc func() (cols, rows int)

func (f SizerFunc) Size() (int, int) { return f() }

// Terminal queries a file descriptor, letting COLUMNS and LINES override each
// dimension, and falls back to 80x24.
type Terminal struct {
	fd      int
	getenv  func(string) string
	getSize func(fd int) (width, height int, err error)
}

// NewTerminal returns a sizer for stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		fd:      int(os.Stdout.Fd()),
		getenv:  os.Getenv,
		getSize: term.GetSize,
	}
}

func (t *Terminal) Size() (cols, rows int) {
	cols = t.envInt("COLUMNS")
	rows = t.envInt("LINES")
	if cols > 0 && rows > 0 {
		return cols, rows
	}

	w, h, err := t.getSize(t.fd)
	if err != nil || w <= 0 || h <= 0 {
		w, h = DefaultCols, DefaultRows
	}
	if cols <= 0 {
		cols = w
	}
	if rows <= 0 {
		rows = h
	}
	return cols, rows
}

func (t *Terminal) envInt(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(t.getenv(key)))
	if err != nil {
		return 0
	}
	return n
}
