// Package history keeps the per-metric sample sequences that feed the graph.
package history

import (
	"math"

	"github.com/Dicklesworthstone/usagemon/internal/model"
)

// DefaultCapacity bounds retained samples per metric. It is far wider than
// any terminal, so every renderable window is always available.
const DefaultCapacity = 4096

// History holds cpu and mem sequences in insertion order. It is owned by a
// single display loop and is not safe for concurrent use.
type History struct {
	cpu   *ringBuffer
	mem   *ringBuffer
	total int
}

// New creates a history retaining up to capacity samples per metric.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		cpu: newRingBuffer(capacity),
		mem: newRingBuffer(capacity),
	}
}

// Append records s for graphing. Absent metrics become 0 and both values are
// clamped into [0,100]; the sample itself is left untouched.
func (h *History) Append(s model.Sample) {
	h.cpu.push(displayValue(s.CPU))
	h.mem.push(displayValue(s.Mem))
	h.total++
}

// Window returns the most recent min(Len, width) entries of each sequence,
// oldest first.
func (h *History) Window(width int) (cpu, mem []float64) {
	return h.cpu.getLast(width), h.mem.getLast(width)
}

// Len returns the number of retained samples.
func (h *History) Len() int { return h.cpu.count }

// Total returns the number of samples ever appended.
func (h *History) Total() int { return h.total }

func displayValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return Clamp(*v)
}

// Clamp limits v to the [0,100] percent range. NaN is treated like an
// absent reading.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{data: make([]float64, size), size: size}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order.
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}
	result := make([]float64, count)
	// head is the next write position
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
