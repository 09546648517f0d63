package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/usagemon/internal/errors"
)

func fakeProc(t *testing.T) (statPath, meminfoPath string) {
	t.Helper()
	dir := t.TempDir()
	statPath = filepath.Join(dir, "stat")
	meminfoPath = filepath.Join(dir, "meminfo")
	require.NoError(t, os.WriteFile(statPath, []byte("cpu 10 0 10 80 0 0 0 0 0 0\n"), 0o644))
	require.NoError(t, os.WriteFile(meminfoPath, []byte("MemTotal: 1000 kB\nMemAvailable: 250 kB\n"), 0o644))
	return statPath, meminfoPath
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("USAGEMON_DEBUG", "")
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_OnceWithStalledCountersIsAllAbsent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("procfs backend is not selected on windows")
	}
	statPath, memPath := fakeProc(t)

	// the stat file never changes, so cpu is absent and the partial reading is a miss
	out, _, err := execute(t, "--once", "--no-library", "-i", "0.01",
		"--proc-stat", statPath, "--proc-meminfo", memPath)

	require.NoError(t, err)
	assert.Equal(t, "CPU: N/A | Memory: N/A\n", out)
}

func TestRoot_GraphSampleLimit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("procfs backend is not selected on windows")
	}
	statPath, memPath := fakeProc(t)

	out, _, err := execute(t, "--graph", "--samples", "2", "--no-library", "-i", "0.01",
		"--proc-stat", statPath, "--proc-meminfo", memPath)

	require.NoError(t, err)
	assert.Contains(t, out, "CPU=#, MEM=* (@ overlap) | CPU:   0.0% | Memory:   0.0% | interval 0.01s")
	assert.Contains(t, out, "(last 2 samples)")
	assert.Contains(t, out, "Done.\n")
}

func TestRoot_DebugLogsToErrOut(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("procfs backend is not selected on windows")
	}
	statPath, memPath := fakeProc(t)

	out, errOut, err := execute(t, "--once", "--no-library", "--debug", "-i", "0.01",
		"--proc-stat", statPath, "--proc-meminfo", memPath)

	require.NoError(t, err)
	assert.NotContains(t, out, "DEBUG")
	assert.Contains(t, errOut, "backends=[procfs]")
	assert.Contains(t, errOut, "procfs missed")
}

func TestRoot_TUIWithOnceIsConfigError(t *testing.T) {
	_, _, err := execute(t, "--tui", "--once")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestRoot_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, "extra")
	assert.Error(t, err)
}

func TestRoot_Version(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-10-15")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3 (commit abc123, built 2026-10-15)")
}
