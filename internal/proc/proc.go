// Package proc reads process facts from the /proc filesystem.
//
// A Collector produces immutable snapshots of the live process table plus a
// whole-system memory summary. Everything downstream (classification,
// filtering, the TUI, the dashboard) consumes these snapshots and never
// touches /proc directly.
package proc

import "strings"

// Process holds the observed facts for one process. Field names follow the
// procclean wire format used by JSON output and the dashboard API.
type Process struct {
	PID        int     `json:"pid"`
	Name       string  `json:"name"`
	Cmdline    string  `json:"cmdline"`
	Cwd        string  `json:"cwd"`
	PPID       int     `json:"ppid"`
	ParentName string  `json:"parent_name"`
	RSSMB      float64 `json:"rss_mb"`
	CPUPercent float64 `json:"cpu_percent"`
	Username   string  `json:"username"`
	CreateTime float64 `json:"create_time"`
	IsOrphan   bool    `json:"is_orphan"`
	InTmux     bool    `json:"in_tmux"`
	Status     string  `json:"status"`
	ExeDeleted bool    `json:"exe_deleted"`
}

// DisplayStatus returns the run state plus classification markers, e.g.
// "sleeping [orphan] [stale]". Marker order is fixed: orphan, tmux, stale.
func (p Process) DisplayStatus() string {
	parts := []string{p.Status}
	if p.IsOrphan {
		parts = append(parts, "[orphan]")
	}
	if p.InTmux {
		parts = append(parts, "[tmux]")
	}
	if p.ExeDeleted {
		parts = append(parts, "[stale]")
	}
	return strings.Join(parts, " ")
}

// Provider is the snapshot source consumed by the CLI, TUI, and dashboard.
// The procfs Collector is the only production implementation; tests and the
// dashboard substitute fakes.
type Provider interface {
	Snapshot() ([]Process, error)
	Memory() (MemorySummary, error)
}

// statusName maps a /proc stat state letter to its textual run state.
func statusName(state byte) string {
	switch state {
	case 'R':
		return "running"
	case 'S':
		return "sleeping"
	case 'D':
		return "disk-sleep"
	case 'Z':
		return "zombie"
	case 'T':
		return "stopped"
	case 't':
		return "tracing-stop"
	case 'X', 'x':
		return "dead"
	case 'I':
		return "idle"
	case 'P':
		return "parked"
	default:
		return strings.ToLower(string(state))
	}
}
