// Package inspect is the interactive process-table session: a live view
// over periodic snapshots with filtering, sorting, multi-selection and a
// confirm-gated kill flow.
package inspect

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xcawolfe-amzn/procclean/internal/classify"
	"github.com/xcawolfe-amzn/procclean/internal/constants"
	"github.com/xcawolfe-amzn/procclean/internal/kill"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

// Options configure a session.
type Options struct {
	Provider proc.Provider
	Rules    classify.Rules
	Pipeline view.Pipeline
	Killer   *kill.Killer
	Journal  *kill.Journal // nil disables journaling

	// Refresh overrides the snapshot period; zero uses the default.
	Refresh time.Duration
}

// Model is the bubbletea model for the inspect session.
type Model struct {
	provider proc.Provider
	rules    classify.Rules
	killer   *kill.Killer
	journal  *kill.Journal
	refresh  time.Duration

	width  int
	height int

	// procs is the last snapshot; displayed is the pipeline output the
	// cursor and selection operate on. Snapshots replace procs wholesale.
	procs     []proc.Process
	displayed []proc.Process
	pipeline  view.Pipeline
	memory    proc.MemorySummary
	memoryOK  bool

	cursor    int
	selection *Selection
	confirm   *Confirm

	showMemory bool
	showHelp   bool
	keys       KeyMap
	help       help.Model

	status      string
	statusErr   bool
	statusAt    time.Time
	lastRefresh time.Time

	// mu protects all fields read by View() from concurrent access:
	// width, height, procs, displayed, pipeline, memory, memoryOK,
	// cursor, selection, confirm, showMemory, showHelp, help, status,
	// statusErr, statusAt, lastRefresh. Write lock is held during
	// Update/handleKey mutations; read lock during View/render.
	mu sync.RWMutex
}

// New creates a session model and takes the first snapshot synchronously
// so the screen opens with data.
func New(opts Options) (*Model, error) {
	if opts.Provider == nil {
		return nil, errors.New("inspect: provider required")
	}
	killer := opts.Killer
	if killer == nil {
		killer = kill.New()
	}
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = constants.RefreshInterval
	}

	h := help.New()
	h.ShowAll = false

	m := &Model{
		provider:   opts.Provider,
		rules:      opts.Rules,
		killer:     killer,
		journal:    opts.Journal,
		refresh:    refresh,
		pipeline:   opts.Pipeline,
		selection:  NewSelection(),
		showMemory: true,
		keys:       DefaultKeyMap(),
		help:       h,
	}

	procs, err := opts.Provider.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("taking first snapshot: %w", err)
	}
	m.procs = procs
	if mem, err := opts.Provider.Memory(); err == nil {
		m.memory = mem
		m.memoryOK = true
	}
	m.lastRefresh = time.Now()
	m.reapplyLocked()

	return m, nil
}

// Init starts the refresh tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshTick(),
		tea.SetWindowTitle("procclean"),
	)
}

// snapshotMsg carries the result of an async snapshot.
type snapshotMsg struct {
	procs    []proc.Process
	memory   proc.MemorySummary
	memoryOK bool
	err      error
}

// killDoneMsg carries the result of an executed kill batch.
type killDoneMsg struct {
	report     kill.Report
	total      int
	journalErr error
}

// refreshTickMsg fires the periodic refresh.
type refreshTickMsg time.Time

// statusExpiredMsg clears a transient status message.
type statusExpiredMsg time.Time

func (m *Model) refreshTick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// fetchSnapshot returns a command that enumerates the process table off
// the event loop. Failures are non-fatal: the previous list stays up.
func (m *Model) fetchSnapshot() tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		procs, err := provider.Snapshot()
		if err != nil {
			return snapshotMsg{err: err}
		}
		msg := snapshotMsg{procs: procs}
		if mem, err := provider.Memory(); err == nil {
			msg.memory = mem
			msg.memoryOK = true
		}
		return msg
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.mu.Lock()
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.mu.Unlock()
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(m.fetchSnapshot(), m.refreshTick())

	case snapshotMsg:
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("refresh failed: %v", msg.err), true)
		}
		m.mu.Lock()
		m.procs = msg.procs
		if msg.memoryOK {
			m.memory = msg.memory
			m.memoryOK = true
		}
		m.lastRefresh = time.Now()
		m.reapplyLocked()
		m.mu.Unlock()
		return m, nil

	case killDoneMsg:
		m.mu.Lock()
		m.selection.Clear()
		m.mu.Unlock()
		text := fmt.Sprintf("Killed %d of %d", msg.report.Succeeded, msg.total)
		if first := firstFailure(msg.report); first != nil {
			text += " | " + first.String()
		}
		if msg.journalErr != nil {
			text += fmt.Sprintf(" | journal: %v", msg.journalErr)
		}
		return m, tea.Batch(
			m.setStatus(text, msg.report.Succeeded < msg.total),
			m.fetchSnapshot(),
		)

	case statusExpiredMsg:
		m.mu.Lock()
		if !m.statusAt.IsZero() && time.Since(m.statusAt) >= constants.StatusMessageTTL {
			m.status = ""
			m.statusErr = false
		}
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// handleKey processes key presses. The confirm modal owns the keyboard
// while open.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mu.RLock()
	modal := m.confirm != nil
	m.mu.RUnlock()
	if modal {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mu.Lock()
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.mu.Lock()
		m.moveCursorLocked(-1)
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.mu.Lock()
		m.moveCursorLocked(1)
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.mu.Lock()
		m.cursor = 0
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.mu.Lock()
		if len(m.displayed) > 0 {
			m.cursor = len(m.displayed) - 1
		}
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.mu.Lock()
		if m.cursor < len(m.displayed) {
			m.selection.Toggle(m.displayed[m.cursor].PID)
		}
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.mu.Lock()
		m.selection.SelectAll(m.displayed)
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.ClearSel):
		m.mu.Lock()
		m.selection.Clear()
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.Kill):
		return m, m.openConfirm(false)

	case key.Matches(msg, m.keys.ForceKill):
		return m, m.openConfirm(true)

	case key.Matches(msg, m.keys.CycleView):
		m.mu.Lock()
		m.pipeline.View = m.pipeline.View.Next()
		m.cursor = 0
		m.reapplyLocked()
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.mu.Lock()
		m.pipeline.Sort = m.pipeline.Sort.Next()
		m.reapplyLocked()
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.Reverse):
		m.mu.Lock()
		m.pipeline.Reverse = !m.pipeline.Reverse
		m.reapplyLocked()
		m.mu.Unlock()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchSnapshot()

	case key.Matches(msg, m.keys.Memory):
		m.mu.Lock()
		m.showMemory = !m.showMemory
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// handleConfirmKey drives the modal: y confirms immediately, n and esc
// cancel, tab/arrows toggle the highlighted button, enter takes it. Quit
// is deferred until the modal is closed.
func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mu.Lock()
		m.confirm.SelectYes()
		cmd := m.executeKillLocked()
		m.confirm = nil
		m.mu.Unlock()
		return m, cmd

	case "n", "N", "esc":
		m.mu.Lock()
		m.confirm = nil
		m.mu.Unlock()
		return m, nil

	case "left", "right", "tab", "h", "l":
		m.mu.Lock()
		m.confirm.ToggleChoice()
		m.mu.Unlock()
		return m, nil

	case "enter":
		m.mu.Lock()
		var cmd tea.Cmd
		if m.confirm.Confirmed() {
			cmd = m.executeKillLocked()
		}
		m.confirm = nil
		m.mu.Unlock()
		return m, cmd
	}

	return m, nil
}

// openConfirm opens the modal for the current selection, or for the
// cursor row when nothing is selected.
func (m *Model) openConfirm(force bool) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	targets := m.selection.Targets(m.displayed)
	if len(targets) == 0 && m.cursor < len(m.displayed) {
		targets = []proc.Process{m.displayed[m.cursor]}
	}
	m.confirm = NewConfirm(targets, force)
	return nil
}

// executeKillLocked dispatches the confirmed batch. Caller must hold the
// write lock with a non-nil confirm.
func (m *Model) executeKillLocked() tea.Cmd {
	req := kill.Request{PIDs: m.confirm.PIDs(), Force: m.confirm.Force}
	killer := m.killer
	journal := m.journal
	total := len(req.PIDs)

	return func() tea.Msg {
		rep := killer.Run(req)
		var jerr error
		if journal != nil {
			_, jerr = journal.Append(req.Force, rep)
		}
		return killDoneMsg{report: rep, total: total, journalErr: jerr}
	}
}

// setStatus records a transient status line and schedules its expiry.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.mu.Lock()
	m.status = text
	m.statusErr = isErr
	m.statusAt = time.Now()
	m.mu.Unlock()
	return tea.Tick(constants.StatusMessageTTL, func(t time.Time) tea.Msg {
		return statusExpiredMsg(t)
	})
}

// reapplyLocked reruns the pipeline over the current snapshot, prunes the
// selection against the new displayed list and clamps the cursor.
// Caller must hold m.mu write lock.
func (m *Model) reapplyLocked() {
	m.displayed = m.pipeline.Apply(m.rules, m.procs)
	m.selection.Prune(m.displayed)
	m.clampCursorLocked()
}

// clampCursorLocked pins the cursor inside [0, len(displayed)-1]; an
// empty list pins it at 0. Caller must hold m.mu.
func (m *Model) clampCursorLocked() {
	if len(m.displayed) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(m.displayed) {
		m.cursor = len(m.displayed) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// moveCursorLocked moves by delta with wraparound. Caller must hold m.mu.
func (m *Model) moveCursorLocked(delta int) {
	n := len(m.displayed)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func firstFailure(rep kill.Report) *kill.Result {
	for i := range rep.Results {
		if !rep.Results[i].Success() {
			return &rep.Results[i]
		}
	}
	return nil
}

// View renders the session.
// Acquires the read lock to safely access model state from the render path.
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.render()
}
