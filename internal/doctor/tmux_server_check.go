package doctor

import (
	"fmt"

	"github.com/xcawolfe-amzn/procclean/internal/tmux"
)

// tmuxClient is the slice of the tmux API this check needs.
type tmuxClient interface {
	IsAvailable() bool
	ServerVersion() (string, error)
	ListSessions() ([]string, error)
}

// TmuxServerCheck reports on the local tmux installation. Shielding
// itself reads TMUX from the process environment and works without the
// binary; tmux is only needed to name sessions in diagnostics.
type TmuxServerCheck struct {
	BaseCheck
	tmuxForTest tmuxClient // Injectable for testing; nil uses real tmux
}

// NewTmuxServerCheck creates the tmux availability check.
func NewTmuxServerCheck() *TmuxServerCheck {
	return &TmuxServerCheck{
		BaseCheck: BaseCheck{
			CheckName:        "tmux-server",
			CheckDescription: "Check tmux availability and server state",
			CheckCategory:    CategoryInfrastructure,
		},
	}
}

// Run probes the tmux binary and, if present, the running server.
func (c *TmuxServerCheck) Run(ctx *CheckContext) *CheckResult {
	var t tmuxClient
	if c.tmuxForTest != nil {
		t = c.tmuxForTest
	} else {
		t = tmux.NewTmux()
	}

	if !t.IsAvailable() {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "tmux not on PATH",
			Details: []string{
				"tmux shielding still works; it reads TMUX from the process environment",
				"install tmux to see session names in diagnostics",
			},
		}
	}

	version, err := t.ServerVersion()
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("tmux present but not responding: %v", err),
		}
	}

	sessions, err := t.ListSessions()
	if err != nil {
		// No server running is the common case, not a problem.
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: fmt.Sprintf("%s installed, no server running", version),
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%s, %d session(s)", version, len(sessions)),
		Details: sessions,
	}
}
