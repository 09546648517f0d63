package sampler

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/usagemon/internal/logger"
	"github.com/Dicklesworthstone/usagemon/internal/model"
)

// maxCPUFields caps the aggregate line at user..guest_nice.
const maxCPUFields = 10

// CPUSnapshot holds cumulative tick counters since boot.
type CPUSnapshot struct {
	Idle  uint64 // idle + iowait
	Total uint64 // sum of all fields
}

// Procfs reads /proc/stat twice across the interval and /proc/meminfo once.
type Procfs struct {
	StatPath    string
	MeminfoPath string

	log   logger.Logger
	sleep func(time.Duration)
}

func NewProcfs(statPath, meminfoPath string, log logger.Logger) *Procfs {
	if statPath == "" {
		statPath = "/proc/stat"
	}
	if meminfoPath == "" {
		meminfoPath = "/proc/meminfo"
	}
	return &Procfs{
		StatPath:    statPath,
		MeminfoPath: meminfoPath,
		log:         log,
		sleep:       time.Sleep,
	}
}

func (p *Procfs) Name() string { return "procfs" }

func (p *Procfs) TrySample(_ context.Context, interval time.Duration) (model.Sample, bool) {
	if _, err := os.Stat(p.StatPath); err != nil {
		p.log.Debug("procfs: %v", fmt.Errorf("%w: %v", ErrUnavailable, err))
		return model.Sample{}, false
	}

	var s model.Sample
	first, err1 := p.readCPU()
	p.sleep(effective(interval))
	second, err2 := p.readCPU()
	switch {
	case err1 != nil:
		p.log.Debug("procfs cpu: %v", err1)
	case err2 != nil:
		p.log.Debug("procfs cpu: %v", err2)
	default:
		if pct, ok := CPUPercent(first, second); ok {
			s.CPU = model.Percent(pct)
		} else {
			p.log.Debug("procfs cpu: counters did not advance (%+v -> %+v)", first, second)
		}
	}

	if pct, err := p.readMem(); err != nil {
		p.log.Debug("procfs mem: %v", err)
	} else {
		s.Mem = model.Percent(pct)
	}

	s.Timestamp = time.Now()
	return s, s.Complete()
}

func (p *Procfs) readCPU() (CPUSnapshot, error) {
	b, err := os.ReadFile(p.StatPath)
	if err != nil {
		return CPUSnapshot{}, err
	}
	return ParseCPUSnapshot(string(b))
}

func (p *Procfs) readMem() (float64, error) {
	b, err := os.ReadFile(p.MeminfoPath)
	if err != nil {
		return 0, err
	}
	return ParseMeminfo(string(b))
}

// ParseCPUSnapshot extracts the aggregate "cpu " line from /proc/stat text.
// idle includes iowait when the kernel reports it.
func ParseCPUSnapshot(procStat string) (CPUSnapshot, error) {
	sc := bufio.NewScanner(strings.NewReader(procStat))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)[1:]
		if len(fields) < 4 {
			return CPUSnapshot{}, fmt.Errorf("cpu line has %d counters, need at least 4", len(fields))
		}
		if len(fields) > maxCPUFields {
			fields = fields[:maxCPUFields]
		}
		var snap CPUSnapshot
		for i, f := range fields {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return CPUSnapshot{}, fmt.Errorf("cpu field %d: %w", i+1, err)
			}
			snap.Total += v
			if i == 3 || i == 4 {
				snap.Idle += v
			}
		}
		return snap, nil
	}
	if err := sc.Err(); err != nil {
		return CPUSnapshot{}, err
	}
	return CPUSnapshot{}, fmt.Errorf("no aggregate cpu line")
}

// CPUPercent computes busy time between two snapshots. It reports false when
// the counters did not advance or went backwards.
func CPUPercent(prev, cur CPUSnapshot) (float64, bool) {
	if cur.Total <= prev.Total || cur.Idle < prev.Idle {
		return 0, false
	}
	dt := float64(cur.Total - prev.Total)
	di := float64(cur.Idle - prev.Idle)
	if di > dt {
		return 0, false
	}
	return 100 * (1 - di/dt), true
}

// ParseMeminfo returns used memory as 100*(1-MemAvailable/MemTotal).
func ParseMeminfo(procMeminfo string) (float64, error) {
	var total, avail float64
	var haveTotal, haveAvail bool

	sc := bufio.NewScanner(strings.NewReader(procMeminfo))
	for sc.Scan() {
		key, rest, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		switch strings.TrimSpace(key) {
		case "MemTotal":
			v, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return 0, fmt.Errorf("MemTotal: %w", err)
			}
			total, haveTotal = v, true
		case "MemAvailable":
			v, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return 0, fmt.Errorf("MemAvailable: %w", err)
			}
			avail, haveAvail = v, true
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if !haveTotal || !haveAvail {
		return 0, fmt.Errorf("MemTotal/MemAvailable not found")
	}
	if total <= 0 {
		return 0, fmt.Errorf("MemTotal is %v", total)
	}
	return 100 * (1 - avail/total), nil
}
