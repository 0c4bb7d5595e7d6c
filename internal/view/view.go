// Package view implements the process display pipeline: view presets, cwd
// filtering, and sorting.
//
// The pipeline stages always run in the same order (view filter, then cwd
// filter, then sort) so every surface (CLI, TUI, dashboard) shows the same
// list for the same inputs.
package view

import (
	"fmt"

	"github.com/xcawolfe-amzn/procclean/internal/classify"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// View selects which classification preset the pipeline shows.
type View int

const (
	// ViewAll shows every collected process.
	ViewAll View = iota
	// ViewOrphans shows processes reparented to init.
	ViewOrphans
	// ViewKillable shows orphans that are safe cleanup candidates.
	ViewKillable
	// ViewHighMemory shows processes above the memory threshold.
	ViewHighMemory
	// ViewStale shows processes whose executable was deleted.
	ViewStale
)

// viewNames is indexed by View.
var viewNames = []string{"all", "orphans", "killable", "high-memory", "stale"}

func (v View) String() string {
	if int(v) < 0 || int(v) >= len(viewNames) {
		return "all"
	}
	return viewNames[v]
}

// Names returns the canonical view names in cycle order.
func Names() []string {
	return append([]string(nil), viewNames...)
}

// Next returns the following view in the TUI cycle order.
func (v View) Next() View {
	switch v {
	case ViewAll:
		return ViewOrphans
	case ViewOrphans:
		return ViewKillable
	case ViewKillable:
		return ViewHighMemory
	case ViewHighMemory:
		return ViewStale
	default:
		return ViewAll
	}
}

// ParseView converts a CLI filter name to a View.
func ParseView(s string) (View, error) {
	for i, name := range viewNames {
		if s == name {
			return View(i), nil
		}
	}
	return ViewAll, fmt.Errorf("unknown filter %q (valid: orphans, killable, high-memory, stale)", s)
}

// ResolveView merges the boolean preset flags with the --filter value.
// Precedence is fixed: killable beats orphans beats high-memory beats stale.
func ResolveView(killable, orphans, highMemory, stale bool, filter string) (View, error) {
	switch {
	case killable || filter == "killable":
		return ViewKillable, nil
	case orphans || filter == "orphans":
		return ViewOrphans, nil
	case highMemory || filter == "high-memory":
		return ViewHighMemory, nil
	case stale || filter == "stale":
		return ViewStale, nil
	case filter == "" || filter == "all":
		return ViewAll, nil
	default:
		return ViewAll, fmt.Errorf("unknown filter %q (valid: orphans, killable, high-memory, stale)", filter)
	}
}

// Pipeline bundles the display transformation for one surface.
type Pipeline struct {
	View    View
	Cwd     string
	Sort    Key
	Reverse bool
}

// Apply runs the pipeline stages in their fixed order and returns a fresh
// slice. The input is never mutated.
func (pl Pipeline) Apply(rules classify.Rules, procs []proc.Process) []proc.Process {
	out := filterView(pl.View, rules, procs)
	if pl.Cwd != "" {
		out = FilterCwd(out, pl.Cwd)
	}
	Sort(out, pl.Sort, pl.Reverse)
	return out
}

// filterView applies the preset predicate, always copying.
func filterView(v View, rules classify.Rules, procs []proc.Process) []proc.Process {
	keep := func(proc.Process) bool { return true }
	switch v {
	case ViewOrphans:
		keep = classify.IsOrphan
	case ViewKillable:
		keep = rules.IsKillable
	case ViewHighMemory:
		keep = rules.IsHighMemory
	case ViewStale:
		keep = classify.IsStale
	}

	out := make([]proc.Process, 0, len(procs))
	for _, p := range procs {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
