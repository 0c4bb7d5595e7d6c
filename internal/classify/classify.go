// Package classify implements the process classification predicates.
//
// All predicates are pure functions over proc.Process facts: no I/O, no
// side effects, no retained state. A Rules value carries the tunable parts
// (protected names, system path prefixes, the memory threshold); everything
// else derives from the snapshot alone.
package classify

import (
	"strings"

	"github.com/xcawolfe-amzn/procclean/internal/constants"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// Rules carries the tunable classification inputs.
type Rules struct {
	// SystemPaths are command-line prefixes that mark system services.
	SystemPaths []string

	// CriticalServices are protected process names, matched
	// case-insensitively.
	CriticalServices []string

	// HighMemoryThresholdMB is the strict lower bound for the
	// high-memory predicate.
	HighMemoryThresholdMB float64
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		SystemPaths:           constants.SystemExePaths,
		CriticalServices:      constants.CriticalServices,
		HighMemoryThresholdMB: constants.HighMemoryThresholdMB,
	}
}

// IsOrphan reports whether the process has been reparented to init.
func IsOrphan(p proc.Process) bool {
	return p.PPID == 1
}

// IsStale reports whether the executable backing the process is gone.
func IsStale(p proc.Process) bool {
	return p.ExeDeleted
}

// IsSystemService reports whether the process looks like part of the
// system rather than operator work. Intentionally conservative: a false
// positive only prevents a kill suggestion, never causes one.
func (r Rules) IsSystemService(p proc.Process) bool {
	for _, path := range r.SystemPaths {
		if strings.HasPrefix(p.Cmdline, path) {
			return true
		}
	}
	for _, critical := range r.CriticalServices {
		if strings.EqualFold(p.Name, critical) {
			return true
		}
	}
	return false
}

// IsKillable reports whether the process is a cleanup candidate: orphaned,
// not inside a tmux session, and not a system service.
func (r Rules) IsKillable(p proc.Process) bool {
	return IsOrphan(p) && !p.InTmux && !r.IsSystemService(p)
}

// IsHighMemory reports whether the process RSS strictly exceeds the
// threshold.
func (r Rules) IsHighMemory(p proc.Process) bool {
	return p.RSSMB > r.HighMemoryThresholdMB
}
