package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// BootTimeCheck verifies that the kernel boot time is readable from
// /proc/stat. Boot time anchors per-process start ticks to wall-clock
// times, which the CPU percentages depend on.
type BootTimeCheck struct {
	BaseCheck
	statPathForTest string           // Injectable for testing; empty uses the live stat file
	nowForTest      func() time.Time // Injectable for testing; nil uses time.Now
}

// NewBootTimeCheck creates the boot time check.
func NewBootTimeCheck() *BootTimeCheck {
	return &BootTimeCheck{
		BaseCheck: BaseCheck{
			CheckName:        "boot-time",
			CheckDescription: "Check that the kernel boot time is readable",
			CheckCategory:    CategoryInfrastructure,
		},
	}
}

// Run parses the btime line and sanity-checks the value.
func (c *BootTimeCheck) Run(ctx *CheckContext) *CheckResult {
	path := c.statPathForTest
	if path == "" {
		path = filepath.Join(proc.DefaultRoot(), "stat")
	}
	now := time.Now
	if c.nowForTest != nil {
		now = c.nowForTest
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("cannot read %s: %v", path, err),
			Details: []string{"CPU percentages need the boot time to anchor process start times"},
		}
	}

	boot, ok := parseBtime(string(data))
	if !ok {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("no btime line in %s", path),
			Details: []string{"CPU percentages fall back to snapshot time and read near zero"},
		}
	}

	uptime := now().Sub(boot)
	if uptime < 0 || uptime > 10*365*24*time.Hour {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("implausible boot time %s", boot.Format(time.RFC3339)),
			Details: []string{"the system clock and the kernel boot time disagree"},
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("booted %s, up %s", boot.Format("2006-01-02 15:04"), formatUptime(uptime)),
	}
}

func parseBtime(stat string) (time.Time, bool) {
	for _, line := range strings.Split(stat, "\n") {
		if !strings.HasPrefix(line, "btime") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return time.Time{}, false
		}
		sec, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(sec, 0), true
	}
	return time.Time{}, false
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
