// Package cli wires the usagemon command line to the sampler and display loops.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/usagemon/internal/config"
	"github.com/Dicklesworthstone/usagemon/internal/display"
	"github.com/Dicklesworthstone/usagemon/internal/errors"
	"github.com/Dicklesworthstone/usagemon/internal/logger"
	"github.com/Dicklesworthstone/usagemon/internal/sampler"
	"github.com/Dicklesworthstone/usagemon/internal/ui"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCmd builds the usagemon command writing frames to out and logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "usagemon",
		Short: "Live CPU and memory usage monitor",
		Long: `Sample CPU and memory usage at a fixed interval and show it as a refreshing
line, a single reading, a scrolling ASCII graph, or a full-screen dashboard.

Readings come from gopsutil when it works, otherwise from /proc on Linux or
typeperf on Windows.

Examples:
  usagemon
  usagemon --once
  usagemon --graph -i 0.5
  usagemon --graph --samples 60
  usagemon --tui`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Resolve(cmd.Flags(), &cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, out, errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	config.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

func run(ctx context.Context, cfg config.Config, out, errOut io.Writer) error {
	log := logger.New(errOut, "[usagemon]", cfg.Debug)
	sel := sampler.NewSelector(log, sampler.DefaultBackends(sampler.Options{
		NoLibrary:   cfg.NoLibrary,
		StatPath:    cfg.StatPath,
		MeminfoPath: cfg.MeminfoPath,
		Logger:      log,
	})...)
	log.Debug("mode=%s interval=%vs backends=%v", cfg.Mode(), cfg.Interval, sel.Names())

	if cfg.Mode() == config.ModeTUI {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New(errors.ErrTerm,
				"--tui needs an interactive terminal",
				"Use --graph when piping or redirecting output")
		}
		return ui.RunTUI(ctx, cfg, sel)
	}

	r := &display.Runner{
		Reader:   sel,
		Out:      out,
		Size:     display.NewTerminal(),
		Log:      log,
		Interval: cfg.Interval,
	}
	return r.Run(ctx, cfg.Mode(), cfg.Samples)
}

// Execute runs the root command against the process streams and exits non-zero on error.
func Execute() {
	cmd := NewRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		msg := err.Error()
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		fmt.Fprint(os.Stderr, msg)
		os.Exit(1)
	}
}
