package sampler

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Dicklesworthstone/usagemon/internal/logger"
	"github.com/Dicklesworthstone/usagemon/internal/model"
)

// Library samples through gopsutil. cpu.Percent with a non-zero interval
// measures across that interval itself, so the first call is already valid.
type Library struct {
	log           logger.Logger
	cpuPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

func NewLibrary(log logger.Logger) *Library {
	return &Library{
		log:           log,
		cpuPercent:    cpu.PercentWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
	}
}

func (l *Library) Name() string { return "gopsutil" }

func (l *Library) TrySample(ctx context.Context, interval time.Duration) (model.Sample, bool) {
	var s model.Sample

	pcts, err := l.cpuPercent(ctx, effective(interval), false)
	if err != nil {
		l.log.Debug("gopsutil cpu: %v", err)
	} else if len(pcts) > 0 {
		s.CPU = finitePercent(pcts[0])
	}

	vm, err := l.virtualMemory(ctx)
	if err != nil {
		l.log.Debug("gopsutil mem: %v", err)
	} else if vm != nil {
		// UsedPercent is NaN when Total is zero
		s.Mem = finitePercent(vm.UsedPercent)
	}

	s.Timestamp = time.Now()
	return s, s.Complete()
}
