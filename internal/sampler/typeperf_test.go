package sampler

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/usagemon/internal/logger"
)

const typeperfOutput = "\r\n" +
	`"(PDH-CSV 4.0)","\\HOST\Processor(_Total)\% Processor Time","\\HOST\Memory\% Committed Bytes In Use"` + "\r\n" +
	`"10/15/2026 14:35:52.123","2.000000","40.000000"` + "\r\n"

func TestParseTypeperf(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantCPU float64
		wantMem float64
		wantOK  bool
	}{
		{"real output", typeperfOutput, 2.0, 40.0, true},
		{"unquoted row", "header\n09/05/2025 14:35:52.123,12.5,33.25\n", 12.5, 33.25, true},
		{"trailing blank lines", "header\n\"t\",\"1\",\"2\"\n\n   \n", 1, 2, true},
		{"only header", "\"(PDH-CSV 4.0)\",\"a\",\"b\"\n", 0, 0, false},
		{"empty", "", 0, 0, false},
		{"too few columns", "header\n\"t\",\"1\"\n", 0, 0, false},
		{"non numeric", "header\n\"t\",\" \",\"2\"\n", 0, 0, false},
		{"nan cpu", "header\n\"t\",\"NaN\",\"40.0\"\n", 0, 0, false},
		{"infinite mem", "header\n\"t\",\"2.0\",\"+Inf\"\n", 0, 0, false},
		{"status line last", "header\n\"t\",\"1\",\"2\"\nThe command completed successfully.\n", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseTypeperf(tt.out)
			assert.Equal(t, tt.wantOK, s.Complete())
			if !tt.wantOK {
				assert.Nil(t, s.CPU)
				assert.Nil(t, s.Mem)
				return
			}
			assert.InDelta(t, tt.wantCPU, *s.CPU, 1e-9)
			assert.InDelta(t, tt.wantMem, *s.Mem, 1e-9)
		})
	}
}

func TestTypeperfArgs(t *testing.T) {
	tests := []struct {
		interval time.Duration
		want     string
	}{
		{0, "1"},
		{500 * time.Millisecond, "1"},
		{1900 * time.Millisecond, "1"},
		{3 * time.Second, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.interval.String(), func(t *testing.T) {
			args := TypeperfArgs(tt.interval)
			require.Len(t, args, 6)
			assert.Equal(t, []string{"-sc", "1", "-si", tt.want}, args[:4])
			assert.Equal(t, typeperfCounters, args[4:])
		})
	}
}

func TestTypeperf_TrySample(t *testing.T) {
	var gotName string
	var gotArgs []string
	run := RunnerFunc(func(_ context.Context, name string, args ...string) (string, error) {
		gotName, gotArgs = name, args
		return typeperfOutput, nil
	})

	s, ok := NewTypeperf(run, logger.Noop()).TrySample(context.Background(), 2*time.Second)

	require.True(t, ok)
	assert.Equal(t, 2.0, *s.CPU)
	assert.Equal(t, 40.0, *s.Mem)
	assert.Equal(t, "typeperf", gotName)
	assert.Equal(t, "2", gotArgs[3])
}

func TestTypeperf_MissingBinary(t *testing.T) {
	run := RunnerFunc(func(context.Context, string, ...string) (string, error) {
		return "", &exec.Error{Name: "typeperf", Err: exec.ErrNotFound}
	})
	log := logger.NewBufferLogger()

	s, ok := NewTypeperf(run, log).TrySample(context.Background(), time.Second)

	assert.False(t, ok)
	assert.Nil(t, s.CPU)
	assert.Nil(t, s.Mem)
	assert.True(t, log.HasLevel("debug"))
}

func TestTypeperf_NonZeroExitStillParsed(t *testing.T) {
	run := RunnerFunc(func(context.Context, string, ...string) (string, error) {
		return typeperfOutput, fmt.Errorf("exit status 1: %w", errors.New("boom"))
	})

	s, ok := NewTypeperf(run, logger.Noop()).TrySample(context.Background(), time.Second)

	assert.True(t, ok)
	assert.Equal(t, 2.0, *s.CPU)
}
