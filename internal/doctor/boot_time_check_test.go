package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBootTimeCheck_Metadata(t *testing.T) {
	check := NewBootTimeCheck()
	if check.Name() != "boot-time" {
		t.Errorf("Name() = %q", check.Name())
	}
	if check.CanFix() {
		t.Error("CanFix() should be false")
	}
}

func writeStat(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stat")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBootTimeCheck_ParsesBtime(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	boot := now.Add(-36 * time.Hour)

	check := NewBootTimeCheck()
	check.statPathForTest = writeStat(t, fmt.Sprintf("cpu  123 0 456 789\nbtime %d\nprocesses 9999\n", boot.Unix()))
	check.nowForTest = func() time.Time { return now }

	result := check.Run(&CheckContext{})
	if result.Status != StatusOK {
		t.Fatalf("Status = %v: %s", result.Status, result.Message)
	}
	if !strings.Contains(result.Message, "up 1d12h") {
		t.Errorf("Message = %q, want uptime 1d12h", result.Message)
	}
}

func TestBootTimeCheck_MissingBtime(t *testing.T) {
	check := NewBootTimeCheck()
	check.statPathForTest = writeStat(t, "cpu  123 0 456 789\nprocesses 9999\n")

	result := check.Run(&CheckContext{})
	if result.Status != StatusWarning {
		t.Errorf("Status = %v, want warning without btime", result.Status)
	}
}

func TestBootTimeCheck_UnreadableStat(t *testing.T) {
	check := NewBootTimeCheck()
	check.statPathForTest = filepath.Join(t.TempDir(), "missing")

	result := check.Run(&CheckContext{})
	if result.Status != StatusError {
		t.Errorf("Status = %v, want error for unreadable stat", result.Status)
	}
}

func TestBootTimeCheck_FutureBootTime(t *testing.T) {
	check := NewBootTimeCheck()
	check.statPathForTest = writeStat(t, fmt.Sprintf("btime %d\n", time.Now().Add(time.Hour).Unix()))

	result := check.Run(&CheckContext{})
	if result.Status != StatusWarning {
		t.Errorf("Status = %v, want warning for a boot time in the future", result.Status)
	}
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Minute, "30m"},
		{5*time.Hour + 12*time.Minute, "5h12m"},
		{49 * time.Hour, "2d1h"},
	}
	for _, tc := range cases {
		if got := formatUptime(tc.d); got != tc.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
