package model

import "time"

// Sample is one CPU/memory reading exchanged between sampler, history, and views.
// A nil field means the backend could not determine that metric this round.
// Values are raw percentages; clamping happens only at the render boundary.
type Sample struct {
	Timestamp time.Time
	Backend   string
	CPU       *float64
	Mem       *float64
}

// Percent returns a pointer to v for building samples.
func Percent(v float64) *float64 { return &v }

// Absent returns a sample with neither metric present.
func Absent() Sample { return Sample{Timestamp: time.Now()} }

// Complete reports whether both metrics are present.
func (s Sample) Complete() bool { return s.CPU != nil && s.Mem != nil }
