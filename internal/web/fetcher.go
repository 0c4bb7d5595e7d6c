// Package web serves the read-only dashboard: an HTML view of the
// process table plus the JSON API feeding it. The dashboard never
// kills anything; it shares the classification and pipeline code with
// the CLI and session but exposes no mutating endpoint.
package web

import (
	"fmt"

	"github.com/xcawolfe-amzn/procclean/internal/classify"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

// ProcessRow is one process as served to the dashboard: the collector
// facts plus the classification verdicts the page colors rows by.
type ProcessRow struct {
	proc.Process
	Killable   bool `json:"killable"`
	HighMemory bool `json:"high_memory"`
}

// Query selects and orders the processes a fetch returns.
type Query struct {
	View    view.View
	Sort    view.Key
	Cwd     string
	Reverse bool
}

// Fetcher supplies the dashboard with table data.
type Fetcher interface {
	FetchProcesses(q Query) ([]ProcessRow, error)
	FetchMemory() (proc.MemorySummary, error)
	FetchGroups() ([]view.Group, error)
}

// LiveFetcher reads the real process table.
type LiveFetcher struct {
	provider proc.Provider
	rules    classify.Rules
}

// NewLiveFetcher creates a fetcher over a fresh procfs collector.
func NewLiveFetcher(rules classify.Rules, minMemoryMB float64) *LiveFetcher {
	return &LiveFetcher{
		provider: proc.NewCollector(proc.Options{MinMemoryMB: minMemoryMB}),
		rules:    rules,
	}
}

// FetchProcesses snapshots the table and applies the standard
// view/cwd/sort pipeline, so the dashboard shows exactly what the CLI
// would print for the same arguments.
func (f *LiveFetcher) FetchProcesses(q Query) ([]ProcessRow, error) {
	procs, err := f.provider.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshotting processes: %w", err)
	}

	pl := view.Pipeline{View: q.View, Cwd: q.Cwd, Sort: q.Sort, Reverse: q.Reverse}
	procs = pl.Apply(f.rules, procs)

	rows := make([]ProcessRow, len(procs))
	for i, p := range procs {
		rows[i] = ProcessRow{
			Process:    p,
			Killable:   f.rules.IsKillable(p),
			HighMemory: f.rules.IsHighMemory(p),
		}
	}
	return rows, nil
}

// FetchMemory returns the whole-system memory summary.
func (f *LiveFetcher) FetchMemory() (proc.MemorySummary, error) {
	return f.provider.Memory()
}

// FetchGroups returns name-grouped processes, biggest first.
func (f *LiveFetcher) FetchGroups() ([]view.Group, error) {
	procs, err := f.provider.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshotting processes: %w", err)
	}
	return view.SimilarGroups(procs), nil
}
