package doctor

import (
	"fmt"
	"os"

	"github.com/xcawolfe-amzn/procclean/internal/kill"
)

// StateDirCheck verifies that the state directory exists and is
// writable. The kill journal lives there; a read-only directory means
// kills succeed but history silently stops.
type StateDirCheck struct {
	FixableCheck
	dirForTest string // Injectable for testing; empty uses the default state dir

	dir string // resolved by Run, consumed by Fix
}

// NewStateDirCheck creates the state directory check.
func NewStateDirCheck() *StateDirCheck {
	return &StateDirCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "state-dir",
				CheckDescription: "Check that the state directory is writable",
				CheckCategory:    CategoryInfrastructure,
			},
		},
	}
}

// Run resolves the state directory and probes writability.
func (c *StateDirCheck) Run(ctx *CheckContext) *CheckResult {
	dir := c.dirForTest
	if dir == "" {
		var err error
		dir, err = kill.StateDir()
		if err != nil {
			return &CheckResult{
				Name:    c.Name(),
				Status:  StatusError,
				Message: fmt.Sprintf("cannot resolve state directory: %v", err),
			}
		}
	}
	c.dir = dir

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("state directory missing: %s", dir),
			Details: []string{"created automatically on the first recorded kill"},
			FixHint: "Run 'procclean doctor --fix' to create it now",
		}
	}
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("cannot stat %s: %v", dir, err),
		}
	}
	if !info.IsDir() {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("%s exists but is not a directory", dir),
			FixHint: fmt.Sprintf("move %s aside so procclean can create its state directory", dir),
		}
	}

	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("state directory not writable: %v", err),
			FixHint: fmt.Sprintf("check permissions on %s", dir),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("writable (%s)", dir),
	}
}

// Fix creates the state directory.
func (c *StateDirCheck) Fix(ctx *CheckContext) error {
	if c.dir == "" {
		return nil
	}
	return os.MkdirAll(c.dir, 0755)
}
