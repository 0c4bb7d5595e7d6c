package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const bytesPerGB = 1024 * 1024 * 1024

// MemorySummary is a whole-system memory snapshot in GB. Field names follow
// the procclean wire format.
type MemorySummary struct {
	TotalGB     float64 `json:"total_gb"`
	UsedGB      float64 `json:"used_gb"`
	FreeGB      float64 `json:"free_gb"`
	Percent     float64 `json:"percent"`
	SwapTotalGB float64 `json:"swap_total_gb"`
	SwapUsedGB  float64 `json:"swap_used_gb"`
}

// Memory reads /proc/meminfo and returns the system summary. "Used" is
// total minus available, and "free" reports available memory, matching what
// operators expect from modern tools rather than the raw MemFree counter.
func (c *Collector) Memory() (MemorySummary, error) {
	raw, err := os.ReadFile(filepath.Join(c.root, "meminfo"))
	if err != nil {
		return MemorySummary{}, fmt.Errorf("reading meminfo: %w", err)
	}
	return parseMeminfo(string(raw))
}

// parseMeminfo extracts the summary fields from meminfo content. Values in
// the file are kB.
func parseMeminfo(raw string) (MemorySummary, error) {
	fields := map[string]float64{}
	for _, line := range strings.Split(raw, "\n") {
		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch name {
		case "MemTotal", "MemFree", "MemAvailable", "SwapTotal", "SwapFree":
			parts := strings.Fields(rest)
			if len(parts) == 0 {
				continue
			}
			kb, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				continue
			}
			fields[name] = kb * 1024
		}
	}

	total, ok := fields["MemTotal"]
	if !ok {
		return MemorySummary{}, fmt.Errorf("meminfo missing MemTotal")
	}

	available, ok := fields["MemAvailable"]
	if !ok {
		// Older kernels lack MemAvailable; MemFree is the best estimate.
		available = fields["MemFree"]
	}
	used := total - available
	swapTotal := fields["SwapTotal"]
	swapUsed := swapTotal - fields["SwapFree"]

	percent := 0.0
	if total > 0 {
		percent = used / total * 100
	}

	return MemorySummary{
		TotalGB:     total / bytesPerGB,
		UsedGB:      used / bytesPerGB,
		FreeGB:      available / bytesPerGB,
		Percent:     percent,
		SwapTotalGB: swapTotal / bytesPerGB,
		SwapUsedGB:  swapUsed / bytesPerGB,
	}, nil
}
