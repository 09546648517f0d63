package model

import (
	"fmt"
	"strings"
)

// FormatLine renders the single-line status used by once/live modes and the graph legend.
func FormatLine(cpu, mem *float64) string {
	parts := make([]string, 0, 2)
	if cpu != nil {
		parts = append(parts, fmt.Sprintf("CPU: %5.1f%%", *cpu))
	} else {
		parts = append(parts, "CPU: N/A")
	}
	if mem != nil {
		parts = append(parts, fmt.Sprintf("Memory: %5.1f%%", *mem))
	} else {
		parts = append(parts, "Memory: N/A")
	}
	return strings.Join(parts, " | ")
}

// Line is FormatLine applied to the sample's own fields.
func (s Sample) Line() string { return FormatLine(s.CPU, s.Mem) }
