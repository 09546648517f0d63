// Package display drives the sampling cadence and writes lines or graph frames.
package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dicklesworthstone/usagemon/internal/config"
	"github.com/Dicklesworthstone/usagemon/internal/graph"
	"github.com/Dicklesworthstone/usagemon/internal/history"
	"github.com/Dicklesworthstone/usagemon/internal/logger"
	"github.com/Dicklesworthstone/usagemon/internal/model"
)

const clearScreen = "\x1b[2J\x1b[H"

// Reader yields one reading per call, blocking for about the interval.
type Reader interface {
	ReadMetrics(ctx context.Context, interval time.Duration) model.Sample
}

// Runner owns the loop for the once, live, and graph modes. Sampling and
// rendering alternate strictly; cancellation is noticed between iterations.
type Runner struct {
	Reader   Reader
	Out      io.Writer
	Size     TermSizer
	Log      logger.Logger
	Interval float64 // seconds, already normalized
}

func (r *Runner) interval() time.Duration {
	return time.Duration(r.Interval * float64(time.Second))
}

func (r *Runner) log() logger.Logger {
	if r.Log == nil {
		return logger.Noop()
	}
	return r.Log
}

// Run dispatches to the loop for mode. samples limits graph mode (0 = unbounded).
func (r *Runner) Run(ctx context.Context, mode config.Mode, samples int) error {
	switch mode {
	case config.ModeOnce:
		return r.Once(ctx)
	case config.ModeGraph:
		return r.Graph(ctx, samples)
	case config.ModeLive:
		return r.Live(ctx)
	default:
		return fmt.Errorf("display: mode %s is not handled by the line runner", mode)
	}
}

// Once samples a single time and prints the formatted line.
func (r *Runner) Once(ctx context.Context) error {
	s := r.Reader.ReadMetrics(ctx, r.interval())
	_, err := fmt.Fprintln(r.Out, s.Line())
	return err
}

// Live rewrites a single status line in place until ctx is cancelled.
func (r *Runner) Live(ctx context.Context) error {
	if _, err := fmt.Fprintln(r.Out, "Press Ctrl+C to stop."); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return r.stopped()
		}
		s := r.Reader.ReadMetrics(ctx, r.interval())
		if ctx.Err() != nil {
			return r.stopped()
		}
		r.log().Debug("live sample from %q", s.Backend)
		if _, err := fmt.Fprint(r.Out, "\r"+s.Line()+strings.Repeat(" ", 10)); err != nil {
			return err
		}
	}
}

// Graph redraws the full-screen history graph after every sample. It stops
// after limit samples when limit > 0, or when ctx is cancelled.
func (r *Runner) Graph(ctx context.Context, limit int) error {
	hist := history.New(history.DefaultCapacity)
	count := 0
	for {
		if ctx.Err() != nil {
			return r.stopped()
		}
		s := r.Reader.ReadMetrics(ctx, r.interval())
		if ctx.Err() != nil {
			return r.stopped()
		}
		hist.Append(s)
		count++

		// re-query every frame; the terminal may have been resized
		cols, rows := r.size()
		width, height := graph.Dimensions(cols, rows)
		cpu, mem := hist.Window(width)
		r.log().Debug("frame %d: %dx%d from %q", count, width, height, s.Backend)

		frame := graph.Frame(graph.FrameInput{
			CPU:      cpu,
			Mem:      mem,
			Height:   height,
			Interval: r.Interval,
		})
		if _, err := fmt.Fprint(r.Out, clearScreen+frame+"\n"); err != nil {
			return err
		}

		if limit > 0 && count >= limit {
			_, err := fmt.Fprintln(r.Out, "Done.")
			return err
		}
	}
}

func (r *Runner) size() (int, int) {
	if r.Size == nil {
		return DefaultCols, DefaultRows
	}
	return r.Size.Size()
}

func (r *Runner) stopped() error {
	_, err := fmt.Fprintln(r.Out, "\nStopped.")
	return err
}
