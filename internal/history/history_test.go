package history

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/usagemon/internal/model"
)

func sample(cpu, mem float64) model.Sample {
	return model.Sample{CPU: model.Percent(cpu), Mem: model.Percent(mem)}
}

func TestAppend_ClampsAndZeroesAbsent(t *testing.T) {
	h := New(10)
	raw := model.Sample{CPU: model.Percent(101.5), Mem: nil}
	h.Append(raw)
	h.Append(sample(-3, 42))

	cpu, mem := h.Window(10)
	assert.Equal(t, []float64{100, 0}, cpu)
	assert.Equal(t, []float64{0, 42}, mem)
	assert.Equal(t, 101.5, *raw.CPU, "raw sample must keep its true value")
}

func TestWindow(t *testing.T) {
	h := New(0)
	for i := 1; i <= 5; i++ {
		h.Append(sample(float64(i), float64(i*10)))
	}

	tests := []struct {
		name    string
		width   int
		wantCPU []float64
		wantMem []float64
	}{
		{"narrower than history", 3, []float64{3, 4, 5}, []float64{30, 40, 50}},
		{"exact", 5, []float64{1, 2, 3, 4, 5}, []float64{10, 20, 30, 40, 50}},
		{"wider than history", 80, []float64{1, 2, 3, 4, 5}, []float64{10, 20, 30, 40, 50}},
		{"zero width", 0, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu, mem := h.Window(tt.width)
			assert.Equal(t, tt.wantCPU, cpu)
			assert.Equal(t, tt.wantMem, mem)
			assert.LessOrEqual(t, len(cpu), tt.width)
		})
	}
}

func TestWindow_EmptyHistory(t *testing.T) {
	cpu, mem := New(4).Window(10)
	assert.Empty(t, cpu)
	assert.Empty(t, mem)
}

func TestWindow_ReturnsCopies(t *testing.T) {
	h := New(4)
	h.Append(sample(1, 1))
	cpu, _ := h.Window(1)
	cpu[0] = 99

	again, _ := h.Window(1)
	assert.Equal(t, 1.0, again[0])
}

func TestCapacityWrap(t *testing.T) {
	h := New(3)
	for i := 1; i <= 7; i++ {
		h.Append(sample(float64(i), 0))
	}

	cpu, _ := h.Window(10)
	assert.Equal(t, []float64{5, 6, 7}, cpu)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 7, h.Total())
}

func TestAppend_NonFiniteValues(t *testing.T) {
	h := New(4)
	h.Append(sample(12, math.NaN()))
	h.Append(sample(math.Inf(1), math.Inf(-1)))

	cpu, mem := h.Window(4)
	assert.Equal(t, []float64{12, 100}, cpu)
	assert.Equal(t, []float64{0, 0}, mem)
}

func TestClamp(t *testing.T) {
	for _, v := range []float64{-1e9, -0.1, 0, 50, 100, 100.01, 1e9, math.NaN(), math.Inf(1), math.Inf(-1)} {
		got := Clamp(v)
		require.GreaterOrEqual(t, got, 0.0)
		require.LessOrEqual(t, got, 100.0)
	}
	assert.Equal(t, 37.5, Clamp(37.5))
}
