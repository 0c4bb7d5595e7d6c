package inspect

import (
	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// Selection tracks marked processes by PID. Keying by PID instead of
// display position means a refresh that reorders or shrinks the list can
// never silently reassign a mark to a different process; marks whose PID
// left the displayed list are dropped at the next prune.
type Selection struct {
	pids map[int]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{pids: make(map[int]struct{})}
}

// Toggle flips the mark for one PID.
func (s *Selection) Toggle(pid int) {
	if _, ok := s.pids[pid]; ok {
		delete(s.pids, pid)
	} else {
		s.pids[pid] = struct{}{}
	}
}

// SelectAll replaces the selection with every displayed process.
func (s *Selection) SelectAll(displayed []proc.Process) {
	s.pids = make(map[int]struct{}, len(displayed))
	for _, p := range displayed {
		s.pids[p.PID] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.pids = make(map[int]struct{})
}

// Has reports whether pid is marked.
func (s *Selection) Has(pid int) bool {
	_, ok := s.pids[pid]
	return ok
}

// Count returns the number of marked processes.
func (s *Selection) Count() int {
	return len(s.pids)
}

// Prune drops marks whose PID is not in the displayed list. Call after
// every operation that changes the displayed list.
func (s *Selection) Prune(displayed []proc.Process) {
	if len(s.pids) == 0 {
		return
	}
	present := make(map[int]struct{}, len(displayed))
	for _, p := range displayed {
		present[p.PID] = struct{}{}
	}
	for pid := range s.pids {
		if _, ok := present[pid]; !ok {
			delete(s.pids, pid)
		}
	}
}

// Targets returns the marked processes in display order.
func (s *Selection) Targets(displayed []proc.Process) []proc.Process {
	if len(s.pids) == 0 {
		return nil
	}
	out := make([]proc.Process, 0, len(s.pids))
	for _, p := range displayed {
		if s.Has(p.PID) {
			out = append(out, p)
		}
	}
	return out
}
