package inspect

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xcawolfe-amzn/procclean/internal/classify"
	"github.com/xcawolfe-amzn/procclean/internal/kill"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

type fakeProvider struct {
	mu    sync.Mutex
	procs []proc.Process
	mem   proc.MemorySummary
	err   error
	calls int
}

func (f *fakeProvider) Snapshot() ([]proc.Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]proc.Process, len(f.procs))
	copy(out, f.procs)
	return out, nil
}

func (f *fakeProvider) Memory() (proc.MemorySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mem, nil
}

func testProcs() []proc.Process {
	return []proc.Process{
		{PID: 1001, Name: "node", Cmdline: "/home/dev/bin/node server.js",
			Cwd: "/home/dev/app", PPID: 1, ParentName: "systemd",
			RSSMB: 300, CPUPercent: 2.5, Status: "sleeping", IsOrphan: true},
		{PID: 1002, Name: "python", Cmdline: "/usr/bin/python worker.py",
			Cwd: "/home/dev/worker", PPID: 700, ParentName: "bash",
			RSSMB: 100, CPUPercent: 0.5, Status: "sleeping"},
		{PID: 1003, Name: "cargo", Cmdline: "/home/dev/.cargo/bin/cargo watch",
			Cwd: "/home/dev/rs", PPID: 1, ParentName: "systemd",
			RSSMB: 50, CPUPercent: 1.0, Status: "running", IsOrphan: true},
	}
}

func newTestModel(t *testing.T, f *fakeProvider) *Model {
	t.Helper()
	m, err := New(Options{
		Provider: f,
		Rules:    classify.DefaultRules(),
		Pipeline: view.Pipeline{View: view.ViewAll, Sort: view.SortMemory},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("New without a provider succeeded")
	}
}

// TestNewTakesFirstSnapshot verifies the model opens with data: the first
// snapshot is synchronous and already sorted by the pipeline.
func TestNewTakesFirstSnapshot(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	if f.calls != 1 {
		t.Errorf("snapshot calls = %d, want 1", f.calls)
	}
	if len(m.displayed) != 3 {
		t.Fatalf("displayed = %d rows, want 3", len(m.displayed))
	}
	// Default sort is memory, biggest first.
	wantOrder := []int{1001, 1002, 1003}
	for i, want := range wantOrder {
		if m.displayed[i].PID != want {
			t.Errorf("displayed[%d].PID = %d, want %d", i, m.displayed[i].PID, want)
		}
	}
}

func TestNewPropagatesSnapshotError(t *testing.T) {
	f := &fakeProvider{err: errors.New("procfs gone")}
	_, err := New(Options{
		Provider: f,
		Rules:    classify.DefaultRules(),
	})
	if err == nil || !strings.Contains(err.Error(), "first snapshot") {
		t.Fatalf("err = %v, want first snapshot failure", err)
	}
}

// TestSnapshotMsgReplacesAndPrunes verifies a refresh swaps the process
// list, drops selections for vanished PIDs and clamps the cursor.
func TestSnapshotMsgReplacesAndPrunes(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.mu.Lock()
	m.selection.Toggle(1003)
	m.cursor = 2
	m.mu.Unlock()

	m.Update(snapshotMsg{procs: testProcs()[:2]})

	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.displayed) != 2 {
		t.Fatalf("displayed = %d rows, want 2", len(m.displayed))
	}
	if m.selection.Count() != 0 {
		t.Errorf("selection survived the PID vanishing: count = %d", m.selection.Count())
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want clamped to 1", m.cursor)
	}
}

// TestSnapshotErrorKeepsList verifies a failed refresh leaves the previous
// snapshot on screen and surfaces the failure as a status message.
func TestSnapshotErrorKeepsList(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	_, cmd := m.Update(snapshotMsg{err: errors.New("boom")})
	if cmd == nil {
		t.Error("no expiry command scheduled for the status message")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.displayed) != 3 {
		t.Errorf("displayed = %d rows, want previous 3", len(m.displayed))
	}
	if !strings.Contains(m.status, "refresh failed") || !m.statusErr {
		t.Errorf("status = %q statusErr = %v, want refresh failure", m.status, m.statusErr)
	}
}

func TestCursorWrapsAround(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.Update(keyRunes('k'))
	if m.cursor != 2 {
		t.Errorf("up from 0: cursor = %d, want wrap to 2", m.cursor)
	}
	m.Update(keyRunes('j'))
	if m.cursor != 0 {
		t.Errorf("down from 2: cursor = %d, want wrap to 0", m.cursor)
	}
}

func TestSelectKeyTogglesCursorRow(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.Update(keyRunes(' '))
	if !m.selection.Has(1001) {
		t.Error("space did not select the cursor row")
	}
	m.Update(keyRunes(' '))
	if m.selection.Has(1001) {
		t.Error("second space did not deselect the cursor row")
	}
}

// TestCycleViewResetsCursor verifies switching presets refilters, homes the
// cursor and prunes selections that left the view.
func TestCycleViewResetsCursor(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.mu.Lock()
	m.cursor = 2
	m.selection.Toggle(1002) // not an orphan; must not survive the switch
	m.mu.Unlock()

	m.Update(keyRunes('f'))

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pipeline.View != view.ViewOrphans {
		t.Fatalf("view = %v, want orphans", m.pipeline.View)
	}
	if len(m.displayed) != 2 {
		t.Fatalf("displayed = %d rows, want the 2 orphans", len(m.displayed))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after view change", m.cursor)
	}
	if m.selection.Count() != 0 {
		t.Errorf("selection = %d entries, want pruned to 0", m.selection.Count())
	}
}

func TestReverseKeyFlipsOrder(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.Update(keyRunes('R'))
	if m.displayed[0].PID != 1003 {
		t.Errorf("displayed[0].PID = %d, want smallest memory first", m.displayed[0].PID)
	}
}

// TestKillKeyTargetsCursorRow verifies x with no selection confirms just
// the row under the cursor.
func TestKillKeyTargetsCursorRow(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.Update(keyRunes('x'))

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.confirm == nil {
		t.Fatal("no confirm dialog opened")
	}
	if m.confirm.Force {
		t.Error("x opened a force-kill dialog")
	}
	if len(m.confirm.Targets) != 1 || m.confirm.Targets[0].PID != 1001 {
		t.Errorf("targets = %v, want just the cursor row 1001", m.confirm.PIDs())
	}
}

func TestForceKillTargetsSelection(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.mu.Lock()
	m.selection.Toggle(1002)
	m.selection.Toggle(1003)
	m.mu.Unlock()

	m.Update(keyRunes('X'))

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.confirm == nil {
		t.Fatal("no confirm dialog opened")
	}
	if !m.confirm.Force {
		t.Error("X did not set force")
	}
	if len(m.confirm.Targets) != 2 {
		t.Errorf("targets = %d, want the 2 selected", len(m.confirm.Targets))
	}
}

func TestKillKeyWithNoRows(t *testing.T) {
	f := &fakeProvider{procs: nil}
	m := newTestModel(t, f)

	m.Update(keyRunes('x'))
	if m.confirm != nil {
		t.Fatal("confirm dialog opened over an empty list")
	}
}

// TestConfirmYesDispatchesKill verifies y confirms and closes the dialog,
// and the resulting batch reports per-PID outcomes. The fake PID is beyond
// pid_max so the real signal path safely reports not-found.
func TestConfirmYesDispatchesKill(t *testing.T) {
	f := &fakeProvider{procs: []proc.Process{
		{PID: 999999998, Name: "ghost", PPID: 1, RSSMB: 10, IsOrphan: true},
	}}
	m := newTestModel(t, f)

	m.Update(keyRunes('x'))
	_, cmd := m.Update(keyRunes('y'))
	if cmd == nil {
		t.Fatal("y produced no kill command")
	}
	if m.confirm != nil {
		t.Fatal("dialog still open after y")
	}

	raw := cmd()
	msg, ok := raw.(killDoneMsg)
	if !ok {
		t.Fatalf("command produced %T, want killDoneMsg", raw)
	}
	if msg.total != 1 || msg.report.Succeeded != 0 {
		t.Errorf("total = %d succeeded = %d, want 1 and 0", msg.total, msg.report.Succeeded)
	}
}

func TestConfirmEnterOnNoCancels(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.Update(keyRunes('x'))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("enter on the default No still dispatched a kill")
	}
	if m.confirm != nil {
		t.Error("dialog still open after enter")
	}
}

func TestConfirmEscCancels(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.Update(keyRunes('x'))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.confirm != nil {
		t.Fatal("esc did not close the dialog")
	}
}

func TestConfirmTabThenEnterKills(t *testing.T) {
	f := &fakeProvider{procs: []proc.Process{
		{PID: 999999998, Name: "ghost", PPID: 1, RSSMB: 10, IsOrphan: true},
	}}
	m := newTestModel(t, f)

	m.Update(keyRunes('x'))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("enter on Yes produced no kill command")
	}
	if m.confirm != nil {
		t.Fatal("dialog still open after enter")
	}
}

// TestQuitDeferredWhileModalOpen verifies q does not leak through the
// dialog: the modal owns the keyboard until it closes.
func TestQuitDeferredWhileModalOpen(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.Update(keyRunes('x'))
	_, cmd := m.Update(keyRunes('q'))

	if cmd != nil {
		t.Error("q produced a command while the dialog was open")
	}
	if m.confirm == nil {
		t.Error("q closed the dialog")
	}
}

// TestKillDoneClearsSelectionAndRefreshes verifies the post-kill message
// clears the selection, reports the count and schedules a refresh.
func TestKillDoneClearsSelectionAndRefreshes(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.mu.Lock()
	m.selection.Toggle(1001)
	m.mu.Unlock()

	_, cmd := m.Update(killDoneMsg{
		report: kill.Report{
			Results:   []kill.Result{{PID: 1001, Outcome: kill.OutcomeKilled, Message: "Terminated (SIGTERM)"}},
			Succeeded: 1,
		},
		total: 1,
	})
	if cmd == nil {
		t.Error("no follow-up commands scheduled")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.selection.Count() != 0 {
		t.Errorf("selection = %d entries after kill, want 0", m.selection.Count())
	}
	if !strings.Contains(m.status, "Killed 1 of 1") {
		t.Errorf("status = %q, want kill summary", m.status)
	}
	if m.statusErr {
		t.Error("fully successful batch flagged as error")
	}
}

func TestKillDoneReportsFirstFailure(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	m.Update(killDoneMsg{
		report: kill.Report{
			Results: []kill.Result{{PID: 4242, Outcome: kill.OutcomeNotFound, Message: "Process not found"}},
		},
		total: 1,
	})

	m.mu.RLock()
	defer m.mu.RUnlock()
	if !strings.Contains(m.status, "Killed 0 of 1") ||
		!strings.Contains(m.status, "Failed to kill process 4242") {
		t.Errorf("status = %q, want failure detail", m.status)
	}
	if !m.statusErr {
		t.Error("partial batch not flagged as error")
	}
}

func TestViewLoadingBeforeFirstResize(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)

	if got := m.View(); got != "Loading..." {
		t.Errorf("View before resize = %q, want Loading...", got)
	}
}

func TestViewRendersProcessRows(t *testing.T) {
	f := &fakeProvider{
		procs: testProcs(),
		mem:   proc.MemorySummary{TotalGB: 32, UsedGB: 16, Percent: 50},
	}
	m := newTestModel(t, f)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	out := m.View()
	for _, want := range []string{"procclean", "node", "python", "cargo", "RAM (MB)"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestViewShowsConfirmModal(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m.mu.Lock()
	m.selection.Toggle(1001)
	m.selection.Toggle(1002)
	m.mu.Unlock()
	m.Update(keyRunes('X'))

	out := m.View()
	for _, want := range []string{
		"Force Kill 2 process(es)?",
		"Will free ~400.0 MB",
		"PID 1001 - node (300.0 MB)",
		"[Y]es",
		"[N]o",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("modal missing %q", want)
		}
	}
}

// TestViewConcurrentWithSnapshots verifies that snapshot updates racing
// View() do not trip the race detector.
func TestViewConcurrentWithSnapshots(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			m.Update(snapshotMsg{procs: testProcs()})
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = m.View()
		}
	}()

	wg.Wait()
}

// TestViewConcurrentWithNavigation verifies cursor and help key handling
// racing View() stays race-free.
func TestViewConcurrentWithNavigation(t *testing.T) {
	f := &fakeProvider{procs: testProcs()}
	m := newTestModel(t, f)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			m.Update(keyRunes('j'))
			m.Update(keyRunes('k'))
			m.Update(keyRunes('?'))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = m.View()
		}
	}()

	wg.Wait()
}
