package kill

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestJournalAppendAndRecent(t *testing.T) {
	j := NewJournal(t.TempDir())

	first, err := j.Append(false, Report{
		Succeeded: 1,
		Results:   []Result{{PID: 10, Outcome: OutcomeKilled, Message: "Terminated (SIGTERM)"}},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := j.Append(true, Report{
		Succeeded: 2,
		Results: []Result{
			{PID: 20, Outcome: OutcomeKilled, Message: "Force killed (SIGKILL)"},
			{PID: 21, Outcome: OutcomeKilled, Message: "Force killed (SIGKILL)"},
		},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if first.ID == "" || first.ID == second.ID {
		t.Errorf("batch IDs not unique: %q, %q", first.ID, second.ID)
	}
	if first.At.IsZero() || first.At.Location() != time.UTC {
		t.Errorf("batch timestamp not UTC: %v", first.At)
	}

	recent, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d batches, want 2", len(recent))
	}
	// Newest first.
	if recent[0].ID != second.ID || recent[1].ID != first.ID {
		t.Errorf("Recent order: %s, %s", recent[0].ID, recent[1].ID)
	}
	if !recent[0].Force || recent[0].Succeeded != 2 || len(recent[0].Results) != 2 {
		t.Errorf("batch fields did not round-trip: %+v", recent[0])
	}
}

func TestJournalRecentLimit(t *testing.T) {
	j := NewJournal(t.TempDir())
	var last Batch
	for i := 0; i < 3; i++ {
		b, err := j.Append(false, Report{Succeeded: i})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		last = b
	}

	recent, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d batches, want 2", len(recent))
	}
	if recent[0].ID != last.ID {
		t.Errorf("newest batch missing from Recent")
	}
}

func TestJournalLoadMissing(t *testing.T) {
	j := NewJournal(filepath.Join(t.TempDir(), "nonexistent"))

	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Version != journalVersion || len(state.Batches) != 0 {
		t.Errorf("empty state = %+v", state)
	}
}

func TestJournalLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir)
	if err := os.WriteFile(j.Path(), []byte("not json{"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := j.Load()
	if err == nil || !strings.Contains(err.Error(), "parsing kill journal") {
		t.Errorf("Load error = %v", err)
	}
}

func TestJournalCapsBatches(t *testing.T) {
	j := NewJournal(t.TempDir())

	full := &State{Version: journalVersion}
	for i := 0; i < maxBatches; i++ {
		full.Batches = append(full.Batches, Batch{ID: "old", At: time.Now().UTC()})
	}
	if err := os.MkdirAll(j.dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := j.write(full); err != nil {
		t.Fatalf("write: %v", err)
	}

	added, err := j.Append(false, Report{})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Batches) != maxBatches {
		t.Errorf("journal grew to %d batches, cap is %d", len(state.Batches), maxBatches)
	}
	if state.Batches[len(state.Batches)-1].ID != added.ID {
		t.Errorf("newest batch missing after trim")
	}
}
