package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// StaleSelfCheck applies the staleness predicate to procclean itself:
// a deleted exe link means the binary was replaced after launch, and
// this very process would show up in the stale view.
type StaleSelfCheck struct {
	BaseCheck
	exeLinkForTest string // Injectable for testing; empty uses the live self link
}

// NewStaleSelfCheck creates the own-binary staleness check.
func NewStaleSelfCheck() *StaleSelfCheck {
	return &StaleSelfCheck{
		BaseCheck: BaseCheck{
			CheckName:        "stale-self",
			CheckDescription: "Check that the running binary still exists on disk",
			CheckCategory:    CategoryCleanup,
		},
	}
}

// Run readlinks the process's own exe entry.
func (c *StaleSelfCheck) Run(ctx *CheckContext) *CheckResult {
	link := c.exeLinkForTest
	if link == "" {
		link = filepath.Join(proc.DefaultRoot(), "self", "exe")
	}

	target, err := os.Readlink(link)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusSkip,
			Message: fmt.Sprintf("cannot read %s: %v", link, err),
		}
	}

	if strings.Contains(target, " (deleted)") {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "running a deleted binary",
			Details: []string{fmt.Sprintf("exe resolves to %s", target)},
			FixHint: "restart procclean to pick up the rebuilt binary",
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("binary present at %s", target),
	}
}
