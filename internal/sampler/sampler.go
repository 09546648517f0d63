// Package sampler produces CPU/memory readings from an ordered list of backends.
package sampler

import (
	"context"
	"errors"
	"math"
	"runtime"
	"time"

	"github.com/Dicklesworthstone/usagemon/internal/logger"
	"github.com/Dicklesworthstone/usagemon/internal/model"
)

// ErrUnavailable marks a backend that cannot run on this host right now.
var ErrUnavailable = errors.New("backend unavailable")

// Backend is one strategy for obtaining a CPU/memory reading.
// TrySample may block for up to interval. ok is false when the backend
// could not produce a usable reading; a partial sample may still be returned.
type Backend interface {
	Name() string
	TrySample(ctx context.Context, interval time.Duration) (s model.Sample, ok bool)
}

// Selector tries its backends in priority order on every call.
type Selector struct {
	backends []Backend
	log      logger.Logger
}

// NewSelector returns a selector over backends in the given priority order.
func NewSelector(log logger.Logger, backends ...Backend) *Selector {
	if log == nil {
		log = logger.Noop()
	}
	return &Selector{backends: backends, log: log}
}

// Options configures DefaultBackends.
type Options struct {
	NoLibrary   bool
	StatPath    string
	MeminfoPath string
	GOOS        string // defaults to runtime.GOOS
	Logger      logger.Logger
}

// DefaultBackends returns the library-backed sampler (unless disabled)
// followed by the native sampler for the target OS.
func DefaultBackends(opts Options) []Backend {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var backends []Backend
	if !opts.NoLibrary {
		backends = append(backends, NewLibrary(log))
	}
	switch goos {
	case "windows":
		backends = append(backends, NewTypeperf(ExecRunner{}, log))
	default:
		backends = append(backends, NewProcfs(opts.StatPath, opts.MeminfoPath, log))
	}
	return backends
}

// ReadMetrics returns the first complete sample any backend yields. Partial
// samples are misses and are not merged across backends; when every backend
// misses, both metrics are absent.
func (s *Selector) ReadMetrics(ctx context.Context, interval time.Duration) model.Sample {
	for _, b := range s.backends {
		if ctx.Err() != nil {
			break
		}
		got, ok := b.TrySample(ctx, interval)
		if ok && got.Complete() {
			if got.Timestamp.IsZero() {
				got.Timestamp = time.Now()
			}
			got.Backend = b.Name()
			return got
		}
		s.log.Debug("%s missed (cpu=%v mem=%v)", b.Name(), got.CPU != nil, got.Mem != nil)
	}
	return model.Absent()
}

// Names lists the backends in priority order.
func (s *Selector) Names() []string {
	names := make([]string, len(s.backends))
	for i, b := range s.backends {
		names[i] = b.Name()
	}
	return names
}

// effective returns the interval used by the blocking readers: zero means one second.
func effective(interval time.Duration) time.Duration {
	if interval <= 0 {
		return time.Second
	}
	return interval
}

// finitePercent wraps v as a reading, or returns nil when v is NaN or infinite.
func finitePercent(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return model.Percent(v)
}
