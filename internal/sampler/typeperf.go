package sampler

import (
	"context"
	"encoding/csv"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/usagemon/internal/logger"
	"github.com/Dicklesworthstone/usagemon/internal/model"
)

const typeperfBinary = "typeperf"

var typeperfCounters = []string{
	`\Processor(_Total)\% Processor Time`,
	`\Memory\% Committed Bytes In Use`,
}

// Typeperf queries Windows performance counters through typeperf.exe.
type Typeperf struct {
	run CommandRunner
	log logger.Logger
}

func NewTypeperf(run CommandRunner, log logger.Logger) *Typeperf {
	return &Typeperf{run: run, log: log}
}

func (t *Typeperf) Name() string { return "typeperf" }

// TypeperfArgs builds the argument list for exactly one sample. typeperf only
// takes whole seconds, so the interval is truncated with a floor of one.
func TypeperfArgs(interval time.Duration) []string {
	secs := int(interval / time.Second)
	if secs < 1 {
		secs = 1
	}
	args := []string{"-sc", "1", "-si", strconv.Itoa(secs)}
	return append(args, typeperfCounters...)
}

func (t *Typeperf) TrySample(ctx context.Context, interval time.Duration) (model.Sample, bool) {
	out, err := t.run.Run(ctx, typeperfBinary, TypeperfArgs(interval)...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			t.log.Debug("typeperf: %v", ErrUnavailable)
			return model.Sample{}, false
		}
		// typeperf may exit non-zero after printing a valid row
		t.log.Debug("typeperf: %v", err)
	}
	s := ParseTypeperf(out)
	s.Timestamp = time.Now()
	return s, s.Complete()
}

// ParseTypeperf reads the last non-empty line of typeperf output as a CSV row
// of timestamp, cpu, mem. Anything malformed yields an absent sample.
func ParseTypeperf(out string) model.Sample {
	var lines []string
	for _, ln := range strings.Split(out, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, strings.TrimRight(ln, "\r"))
		}
	}
	// header + data
	if len(lines) < 2 {
		return model.Sample{}
	}

	r := csv.NewReader(strings.NewReader(lines[len(lines)-1]))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	row, err := r.Read()
	if err != nil || len(row) < 3 {
		return model.Sample{}
	}

	cpu, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return model.Sample{}
	}
	mem, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return model.Sample{}
	}
	s := model.Sample{CPU: finitePercent(cpu), Mem: finitePercent(mem)}
	if !s.Complete() {
		return model.Sample{}
	}
	return s
}
