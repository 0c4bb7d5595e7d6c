// Package doctor diagnoses the environment procclean runs in: procfs
// access, state files, configuration, and terminal capabilities.
//
// Each diagnostic is a Check. The doctor runs them in registration
// order, streams one line per check, and aggregates a summary. Checks
// that know how to repair what they find implement Fixable; --fix
// runs the repair and then re-runs the check to confirm.
package doctor

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xcawolfe-amzn/procclean/internal/style"
	"github.com/xcawolfe-amzn/procclean/internal/ui"
)

// Status is the outcome level of one check.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusSkip    Status = "skip"
)

// Categories group related checks in help text and reports.
const (
	CategoryInfrastructure = "Infrastructure"
	CategoryConfig         = "Configuration"
	CategoryCleanup        = "Cleanup"
)

// CheckContext carries shared state into every check.
type CheckContext struct {
	// Verbose enables detail lines for passing checks too.
	Verbose bool
}

// CheckResult is the outcome of running one check.
type CheckResult struct {
	Name    string
	Status  Status
	Message string
	Details []string
	FixHint string
}

// Check is a single diagnostic.
type Check interface {
	Name() string
	Description() string
	Category() string
	CanFix() bool
	Run(ctx *CheckContext) *CheckResult
}

// Fixable is a check that can repair the problem it reports. Fix may
// rely on state the preceding Run discovered.
type Fixable interface {
	Check
	Fix(ctx *CheckContext) error
}

// BaseCheck provides the metadata methods shared by all checks.
type BaseCheck struct {
	CheckName        string
	CheckDescription string
	CheckCategory    string
}

func (b BaseCheck) Name() string        { return b.CheckName }
func (b BaseCheck) Description() string { return b.CheckDescription }
func (b BaseCheck) Category() string    { return b.CheckCategory }
func (b BaseCheck) CanFix() bool        { return false }

// FixableCheck marks an embedding check as fixable.
type FixableCheck struct {
	BaseCheck
}

func (f FixableCheck) CanFix() bool { return true }

// TimedResult pairs a check result with how long the check took.
type TimedResult struct {
	*CheckResult
	Duration time.Duration
	Fixed    bool
	FixErr   error
}

// Summary counts results by outcome.
type Summary struct {
	OK       int
	Warnings int
	Errors   int
	Skipped  int
	Fixed    int
}

// Report is the outcome of a full doctor run.
type Report struct {
	Results []TimedResult
	Summary Summary
}

// HasErrors reports whether any check ended in StatusError.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

func (r *Report) add(tr TimedResult) {
	r.Results = append(r.Results, tr)
	switch tr.Status {
	case StatusOK:
		r.Summary.OK++
	case StatusWarning:
		r.Summary.Warnings++
	case StatusError:
		r.Summary.Errors++
	case StatusSkip:
		r.Summary.Skipped++
	}
	if tr.Fixed {
		r.Summary.Fixed++
	}
}

// PrintSummaryOnly prints the closing summary line. The per-check
// lines were already streamed, so this only totals them, plus a
// slowest-checks list when a slow threshold is set.
func (r *Report) PrintSummaryOnly(w io.Writer, verbose bool, slowThreshold time.Duration) {
	fmt.Fprintln(w)

	parts := []string{fmt.Sprintf("%d ok", r.Summary.OK)}
	if r.Summary.Warnings > 0 {
		parts = append(parts, style.Warning.Render(fmt.Sprintf("%d warning(s)", r.Summary.Warnings)))
	}
	if r.Summary.Errors > 0 {
		parts = append(parts, style.Error.Render(fmt.Sprintf("%d error(s)", r.Summary.Errors)))
	}
	if r.Summary.Skipped > 0 {
		parts = append(parts, style.Dim.Render(fmt.Sprintf("%d skipped", r.Summary.Skipped)))
	}
	if r.Summary.Fixed > 0 {
		parts = append(parts, style.Success.Render(fmt.Sprintf("%d fixed", r.Summary.Fixed)))
	}
	fmt.Fprintf(w, "Summary: %s\n", strings.Join(parts, ", "))

	if slowThreshold > 0 {
		slow := make([]TimedResult, 0, len(r.Results))
		for _, tr := range r.Results {
			if tr.Duration >= slowThreshold {
				slow = append(slow, tr)
			}
		}
		if len(slow) > 0 {
			sort.Slice(slow, func(i, j int) bool { return slow[i].Duration > slow[j].Duration })
			fmt.Fprintln(w, "Slowest checks:")
			for _, tr := range slow {
				fmt.Fprintf(w, "  %-20s %s\n", tr.Name, formatDuration(tr.Duration))
			}
		}
	}
}

// Doctor runs registered checks in order.
type Doctor struct {
	checks []Check
}

// NewDoctor creates an empty doctor.
func NewDoctor() *Doctor {
	return &Doctor{}
}

// Register adds a check to the run list.
func (d *Doctor) Register(c Check) {
	d.checks = append(d.checks, c)
}

// RegisterAll adds several checks at once.
func (d *Doctor) RegisterAll(cs ...Check) {
	d.checks = append(d.checks, cs...)
}

// RunStreaming runs every check, printing one line per check as it
// completes, and returns the aggregated report.
func (d *Doctor) RunStreaming(ctx *CheckContext, w io.Writer, slowThreshold time.Duration) *Report {
	report := &Report{}
	for _, check := range d.checks {
		tr := d.runOne(ctx, check)
		printResult(w, tr, ctx.Verbose, slowThreshold)
		report.add(tr)
	}
	return report
}

// FixStreaming is RunStreaming plus repairs: when a fixable check does
// not pass, its Fix runs and the check runs again so the printed
// status reflects the state after the repair.
func (d *Doctor) FixStreaming(ctx *CheckContext, w io.Writer, slowThreshold time.Duration) *Report {
	report := &Report{}
	for _, check := range d.checks {
		tr := d.runOne(ctx, check)

		if tr.Status == StatusWarning || tr.Status == StatusError {
			if fixable, ok := check.(Fixable); ok && check.CanFix() {
				if err := fixable.Fix(ctx); err != nil {
					tr.FixErr = err
				} else {
					tr.CheckResult = check.Run(ctx)
					tr.Fixed = tr.Status == StatusOK
				}
			}
		}

		printResult(w, tr, ctx.Verbose, slowThreshold)
		report.add(tr)
	}
	return report
}

func (d *Doctor) runOne(ctx *CheckContext, check Check) TimedResult {
	start := time.Now()
	res := check.Run(ctx)
	return TimedResult{CheckResult: res, Duration: time.Since(start)}
}

func printResult(w io.Writer, tr TimedResult, verbose bool, slowThreshold time.Duration) {
	line := fmt.Sprintf("  %s %s: %s", statusIcon(tr.Status), tr.Name, tr.Message)
	if tr.Fixed {
		line += " " + style.Success.Render("(fixed)")
	}
	if slowThreshold > 0 && tr.Duration >= slowThreshold {
		line += " " + style.Dim.Render("("+formatDuration(tr.Duration)+")")
	}
	fmt.Fprintln(w, line)

	if tr.FixErr != nil {
		fmt.Fprintf(w, "      %s\n", style.Error.Render(fmt.Sprintf("fix failed: %v", tr.FixErr)))
	}

	if verbose || tr.Status == StatusError {
		for _, detail := range tr.Details {
			fmt.Fprintf(w, "      %s\n", style.Dim.Render(detail))
		}
	}
	if (tr.Status == StatusWarning || tr.Status == StatusError) && tr.FixHint != "" {
		fmt.Fprintf(w, "      %s\n", style.Dim.Render("hint: "+tr.FixHint))
	}
}

func statusIcon(s Status) string {
	switch s {
	case StatusOK:
		return style.Success.Render(ui.IconPass)
	case StatusWarning:
		return style.Warning.Render(ui.IconWarn)
	case StatusSkip:
		return style.Dim.Render(ui.IconSkip)
	default:
		return style.Error.Render(ui.IconFail)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
