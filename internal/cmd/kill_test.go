package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

func resetKillFlags() {
	killFilter = ""
	killKillable = false
	killOrphans = false
	killHighMemory = false
	killStale = false
	killCwd = ""
	killMinMemory = -1
	killThreshold = -1
	killForce = false
	killPreview = false
	killYes = false
}

func TestParsePIDs(t *testing.T) {
	pids, err := parsePIDs([]string{"12", "34"})
	if err != nil {
		t.Fatalf("parsePIDs: %v", err)
	}
	if len(pids) != 2 || pids[0] != 12 || pids[1] != 34 {
		t.Errorf("pids = %v, want [12 34]", pids)
	}

	if _, err := parsePIDs([]string{"12", "abc"}); err == nil {
		t.Error("expected error for non-numeric PID")
	} else if !strings.Contains(err.Error(), "invalid PID") {
		t.Errorf("error = %v, want invalid PID message", err)
	}
}

func TestRunKill_DryRunExplicitPID(t *testing.T) {
	setupFakeProcfs(t, []fakeEntry{
		{pid: 4242, name: "leftover", ppid: 1, rssPages: pagesForMB(25)},
	})

	resetKillFlags()
	killPreview = true
	defer resetKillFlags()

	output := captureStdout(t, func() {
		if err := runKill(&cobra.Command{}, []string{"4242"}); err != nil {
			t.Fatalf("runKill: %v", err)
		}
	})

	if !strings.Contains(output, "Would kill 1 process(es)") {
		t.Errorf("output = %q, want the dry-run header", output)
	}
	if !strings.Contains(output, "PID 4242 - leftover") {
		t.Errorf("output = %q, want the target line", output)
	}
	if !strings.Contains(output, "Would free") {
		t.Errorf("output = %q, want the freed-memory estimate", output)
	}
}

func TestRunKill_UnknownPIDSkipped(t *testing.T) {
	setupFakeProcfs(t, []fakeEntry{
		{pid: 4242, name: "leftover", ppid: 1, rssPages: pagesForMB(25)},
	})

	resetKillFlags()
	killPreview = true
	defer resetKillFlags()

	output := captureStdout(t, func() {
		if err := runKill(&cobra.Command{}, []string{"99999"}); err != nil {
			t.Fatalf("runKill: %v", err)
		}
	})

	if !strings.Contains(output, "No processes to kill") {
		t.Errorf("output = %q, want the empty-target message", output)
	}
}

func TestRunKill_NoKillableTargets(t *testing.T) {
	// Every process above the floor is tmux-sheltered or parented, so the
	// default killable view comes back empty.
	setupFakeProcfs(t, []fakeEntry{
		{pid: 100, name: "nvim", ppid: 1, rssPages: pagesForMB(25),
			environ: "TMUX=/tmp/tmux-0/default,9,2\x00TERM=screen"},
		{pid: 101, name: "worker", ppid: 100, rssPages: pagesForMB(25)},
	})

	resetKillFlags()
	defer resetKillFlags()

	output := captureStdout(t, func() {
		if err := runKill(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runKill: %v", err)
		}
	})

	if !strings.Contains(output, "No processes to kill") {
		t.Errorf("output = %q, want the empty-target message", output)
	}
}

func TestPrintKillPreviewTruncation(t *testing.T) {
	targets := make([]proc.Process, 8)
	for i := range targets {
		targets[i] = proc.Process{PID: 1000 + i, Name: "stray", RSSMB: 12.5}
	}

	output := captureStdout(t, func() {
		printKillPreview(targets)
	})

	if !strings.Contains(output, "Would kill 8 process(es)") {
		t.Errorf("output = %q, want the batch size", output)
	}
	if !strings.Contains(output, "... and 3 more") {
		t.Errorf("output = %q, want truncation after the preview limit", output)
	}
	if !strings.Contains(output, "Would free ~100.0 MB") {
		t.Errorf("output = %q, want the summed estimate", output)
	}
}
