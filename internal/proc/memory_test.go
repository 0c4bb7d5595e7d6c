package proc

import (
	"math"
	"testing"
)

const meminfoFixture = `MemTotal:       16384000 kB
MemFree:         2048000 kB
MemAvailable:    8192000 kB
Buffers:          512000 kB
Cached:          4096000 kB
SwapCached:            0 kB
SwapTotal:       4096000 kB
SwapFree:        3072000 kB
`

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseMeminfo(t *testing.T) {
	sum, err := parseMeminfo(meminfoFixture)
	if err != nil {
		t.Fatalf("parseMeminfo: %v", err)
	}

	const kb = 1024.0
	wantTotal := 16384000 * kb / bytesPerGB
	wantFree := 8192000 * kb / bytesPerGB // reports MemAvailable
	wantUsed := (16384000 - 8192000) * kb / bytesPerGB
	wantSwapTotal := 4096000 * kb / bytesPerGB
	wantSwapUsed := (4096000 - 3072000) * kb / bytesPerGB

	if !almostEqual(sum.TotalGB, wantTotal) {
		t.Errorf("TotalGB = %v, want %v", sum.TotalGB, wantTotal)
	}
	if !almostEqual(sum.FreeGB, wantFree) {
		t.Errorf("FreeGB = %v, want %v", sum.FreeGB, wantFree)
	}
	if !almostEqual(sum.UsedGB, wantUsed) {
		t.Errorf("UsedGB = %v, want %v", sum.UsedGB, wantUsed)
	}
	if !almostEqual(sum.SwapTotalGB, wantSwapTotal) {
		t.Errorf("SwapTotalGB = %v, want %v", sum.SwapTotalGB, wantSwapTotal)
	}
	if !almostEqual(sum.SwapUsedGB, wantSwapUsed) {
		t.Errorf("SwapUsedGB = %v, want %v", sum.SwapUsedGB, wantSwapUsed)
	}
	if !almostEqual(sum.Percent, 50) {
		t.Errorf("Percent = %v, want 50", sum.Percent)
	}
}

func TestParseMeminfoOldKernel(t *testing.T) {
	// No MemAvailable line: MemFree stands in.
	raw := "MemTotal: 1000 kB\nMemFree: 400 kB\nSwapTotal: 0 kB\nSwapFree: 0 kB\n"
	sum, err := parseMeminfo(raw)
	if err != nil {
		t.Fatalf("parseMeminfo: %v", err)
	}
	if !almostEqual(sum.FreeGB, 400*1024.0/bytesPerGB) {
		t.Errorf("FreeGB = %v, want MemFree fallback", sum.FreeGB)
	}
	if !almostEqual(sum.Percent, 60) {
		t.Errorf("Percent = %v, want 60", sum.Percent)
	}
}

func TestParseMeminfoMissingTotal(t *testing.T) {
	if _, err := parseMeminfo("MemFree: 1 kB\n"); err == nil {
		t.Error("expected error when MemTotal is absent")
	}
}
