package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// ProcfsCheck verifies that procfs is mounted and readable. Everything
// procclean shows comes from /proc; without it there is no table.
type ProcfsCheck struct {
	BaseCheck
	procRootForTest string // Injectable for testing; empty uses the live root
}

// NewProcfsCheck creates the procfs availability check.
func NewProcfsCheck() *ProcfsCheck {
	return &ProcfsCheck{
		BaseCheck: BaseCheck{
			CheckName:        "procfs-readable",
			CheckDescription: "Check that /proc is mounted and readable",
			CheckCategory:    CategoryInfrastructure,
		},
	}
}

// Run lists the procfs root and counts visible processes.
func (c *ProcfsCheck) Run(ctx *CheckContext) *CheckResult {
	root := c.procRootForTest
	if root == "" {
		root = proc.DefaultRoot()
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("cannot read %s: %v", root, err),
			Details: []string{"every procclean surface reads the process table from procfs"},
			FixHint: "check that procfs is mounted at /proc",
		}
	}

	visible := 0
	for _, entry := range entries {
		if entry.IsDir() && isAllDigits(entry.Name()) {
			visible++
		}
	}
	if visible == 0 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("no process directories under %s", root),
			FixHint: "check that procfs is mounted at /proc",
		}
	}

	if _, err := os.ReadFile(filepath.Join(root, "self", "status")); err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("%s mounted but self/status unreadable: %v", root, err),
			Details: []string{"per-process fields may be incomplete"},
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%d processes visible", visible),
		Details: []string{fmt.Sprintf("procfs root: %s", root)},
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
