package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/xcawolfe-amzn/procclean/internal/classify"
	"github.com/xcawolfe-amzn/procclean/internal/config"
	"github.com/xcawolfe-amzn/procclean/internal/constants"
	"github.com/xcawolfe-amzn/procclean/internal/format"
	"github.com/xcawolfe-amzn/procclean/internal/kill"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

// buildRules derives the classification rules from config. threshold < 0
// means the flag was not set and the config default applies.
func buildRules(cfg *config.Config, threshold float64) classify.Rules {
	t := cfg.GetHighMemoryThresholdMB()
	if threshold >= 0 {
		t = threshold
	}
	return classify.Rules{
		SystemPaths:           cfg.GetSystemPaths(),
		CriticalServices:      cfg.GetCriticalServices(),
		HighMemoryThresholdMB: t,
	}
}

// renderProcesses writes the process list to stdout in the given format.
func renderProcesses(procs []proc.Process, columnKeys []string, formatName string, noHeader bool) error {
	cols, err := format.Resolve(columnKeys)
	if err != nil {
		return err
	}
	opts := format.Options{NoHeader: noHeader}
	out, err := format.RenderWith(procs, format.ParseFormat(formatName), cols, opts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// sumRSS totals the resident memory of the given processes.
func sumRSS(procs []proc.Process) float64 {
	total := 0.0
	for _, p := range procs {
		total += p.RSSMB
	}
	return total
}

// printKillPreview shows what a kill batch would do without doing it.
func printKillPreview(targets []proc.Process) {
	fmt.Printf("Would kill %d process(es):\n", len(targets))
	for i, p := range targets {
		if i == constants.PreviewLimit {
			fmt.Printf("  ... and %d more\n", len(targets)-constants.PreviewLimit)
			break
		}
		fmt.Printf("  PID %d - %s (%.1f MB)\n", p.PID, p.Name, p.RSSMB)
	}
	fmt.Printf("Would free ~%.1f MB\n", sumRSS(targets))
}

// confirmKill prompts before a kill batch. A non-interactive stdin skips
// the prompt and proceeds, so piped and scripted usage is not blocked on
// a read that can never be answered.
func confirmKill(targets []proc.Process, force bool) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}

	verb := "Kill"
	if force {
		verb = "Force kill"
	}
	fmt.Printf("%s %d process(es)? Will free ~%.1f MB\n", verb, len(targets), sumRSS(targets))
	for i, p := range targets {
		if i == constants.PreviewLimit {
			fmt.Printf("  ... and %d more\n", len(targets)-constants.PreviewLimit)
			break
		}
		fmt.Printf("  PID %d - %s (%.1f MB)\n", p.PID, p.Name, p.RSSMB)
	}
	fmt.Print("\nContinue? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// runKillBatch signals the targets, prints per-PID outcomes and appends
// the batch to the journal.
func runKillBatch(targets []proc.Process, force bool) error {
	pids := make([]int, len(targets))
	for i, p := range targets {
		pids[i] = p.PID
	}

	killer := kill.New()
	rep := killer.Run(kill.Request{PIDs: pids, Force: force})

	for _, res := range rep.Results {
		if res.Success() {
			fmt.Printf("✓ %s\n", res)
		} else {
			fmt.Fprintf(os.Stderr, "✗ %s\n", res)
		}
	}
	fmt.Printf("\nKilled %d of %d processes\n", rep.Succeeded, len(rep.Results))

	if j := defaultJournal(); j != nil {
		if _, err := j.Append(force, rep); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording kill batch: %v\n", err)
		}
	}
	if rep.Succeeded == 0 {
		return fmt.Errorf("no processes were killed")
	}
	return nil
}

// snapshotPipeline takes a snapshot and runs it through the pipeline.
func snapshotPipeline(cfg *config.Config, minMemory, threshold float64, pl view.Pipeline) ([]proc.Process, error) {
	collector := buildCollector(cfg, minMemory)
	procs, err := collector.Snapshot()
	if err != nil {
		return nil, err
	}
	return pl.Apply(buildRules(cfg, threshold), procs), nil
}
