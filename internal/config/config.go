package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Dicklesworthstone/usagemon/internal/errors"
)

// EnvPrefix namespaces environment overrides, e.g. USAGEMON_INTERVAL=0.5.
const EnvPrefix = "USAGEMON"

// Config carries runtime options for usagemon.
type Config struct {
	Interval    float64 // seconds
	Once        bool
	Graph       bool
	TUI         bool
	Samples     int // 0 = unbounded
	NoLibrary   bool
	Debug       bool
	StatPath    string
	MeminfoPath string
}

// Mode is the display mode selected by the flags.
type Mode int

const (
	ModeLive Mode = iota
	ModeOnce
	ModeGraph
	ModeTUI
)

func (m Mode) String() string {
	switch m {
	case ModeOnce:
		return "once"
	case ModeGraph:
		return "graph"
	case ModeTUI:
		return "tui"
	default:
		return "live"
	}
}

func Default() Config {
	return Config{
		Interval:    1.0,
		StatPath:    "/proc/stat",
		MeminfoPath: "/proc/meminfo",
	}
}

// BindFlags registers the usagemon flags on fs with cfg's values as defaults.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.Float64VarP(&cfg.Interval, "interval", "i", cfg.Interval, "sampling interval in seconds")
	fs.BoolVar(&cfg.Once, "once", cfg.Once, "print one sample and exit")
	fs.BoolVar(&cfg.Graph, "graph", cfg.Graph, "show scrolling ASCII history graph")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "show the interactive full-screen dashboard")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "when >0, number of samples to collect then exit")
	fs.BoolVar(&cfg.NoLibrary, "no-library", cfg.NoLibrary, "skip the gopsutil sampler and use the platform reader")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log sampler decisions to stderr")
	fs.StringVar(&cfg.StatPath, "proc-stat", cfg.StatPath, "path of the cumulative CPU counters file")
	fs.StringVar(&cfg.MeminfoPath, "proc-meminfo", cfg.MeminfoPath, "path of the memory info file")
}

// Resolve layers USAGEMON_* environment overrides under explicitly set flags,
// then normalizes and validates the result.
func Resolve(fs *pflag.FlagSet, cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to bind command-line flags",
			"This is a bug; please report it")
	}

	if f := fs.Lookup("interval"); f != nil && !f.Changed {
		if d, ok := parseInterval(v.GetString("interval")); ok {
			cfg.Interval = d
		}
	}
	cfg.Once = v.GetBool("once")
	cfg.Graph = v.GetBool("graph")
	cfg.TUI = v.GetBool("tui")
	cfg.Samples = v.GetInt("samples")
	cfg.NoLibrary = v.GetBool("no-library")
	cfg.Debug = v.GetBool("debug")
	cfg.StatPath = v.GetString("proc-stat")
	cfg.MeminfoPath = v.GetString("proc-meminfo")

	cfg.Normalize()
	return cfg.Validate()
}

// FromFlags parses args on a fresh flag set and resolves environment overrides.
func FromFlags(args []string) (Config, error) {
	cfg := Default()
	fs := pflag.NewFlagSet("usagemon", pflag.ContinueOnError)
	BindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid command-line flags",
			"Run 'usagemon --help' for usage")
	}
	err := Resolve(fs, &cfg)
	return cfg, err
}

// Normalize substitutes 1s for a non-positive interval and treats a negative
// sample limit as unbounded.
func (c *Config) Normalize() {
	if c.Interval <= 0 {
		c.Interval = 1.0
	}
	if c.Samples < 0 {
		c.Samples = 0
	}
}

// Validate rejects flag combinations that have no sensible meaning.
func (c Config) Validate() error {
	if c.TUI && c.Once {
		return errors.New(errors.ErrConfig,
			"--tui and --once cannot be combined",
			"Use --once for a single line, or --tui for the dashboard")
	}
	return nil
}

// Mode resolves the mutually exclusive display mode.
func (c Config) Mode() Mode {
	switch {
	case c.TUI:
		return ModeTUI
	case c.Graph:
		return ModeGraph
	case c.Once:
		return ModeOnce
	default:
		return ModeLive
	}
}

// IntervalDuration returns the sampling interval as a time.Duration.
func (c Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}

// parseInterval accepts plain seconds ("0.5") or a Go duration ("500ms").
func parseInterval(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d.Seconds(), true
	}
	return 0, false
}
