package inspect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xcawolfe-amzn/procclean/internal/constants"
	"github.com/xcawolfe-amzn/procclean/internal/format"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

const (
	selColWidth    = 3
	pidColWidth    = 8
	nameColWidth   = 20
	ramColWidth    = 9
	cpuColWidth    = 6
	cwdColWidth    = 35
	ppidColWidth   = 6
	parentColWidth = 15

	gaugeWidth = 30
)

// render produces the full session output.
// Caller must hold m.mu (read or write).
func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.confirm != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderConfirm())
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if m.showMemory {
		sections = append(sections, m.renderMemory())
	}
	sections = append(sections, m.renderTable())
	sections = append(sections, m.renderStatusBar())
	if m.status != "" {
		line := m.status
		if m.statusErr {
			line = ErrorStyle.Render(line)
		} else {
			line = SelectedStyle.Render(line)
		}
		sections = append(sections, line)
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title line with the active view on the right.
func (m *Model) renderHeader() string {
	title := TitleStyle.Render("procclean") +
		StatusBarStyle.Render(fmt.Sprintf(" - %d processes", len(m.displayed)))
	viewLabel := HeaderStyle.Render("[" + m.pipeline.View.String() + "]")

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(viewLabel) - 1
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + viewLabel
}

// renderMemory renders the memory gauge panel.
func (m *Model) renderMemory() string {
	if !m.memoryOK {
		return StatusBarStyle.Render("Memory: unavailable")
	}

	s := m.memory
	label := fmt.Sprintf("Memory: %.1f/%.1f GB (%.0f%%) | Swap: %.1f/%.1f GB",
		s.UsedGB, s.TotalGB, s.Percent, s.SwapUsedGB, s.SwapTotalGB)

	filled := int(s.Percent / 100 * gaugeWidth)
	if filled > gaugeWidth {
		filled = gaugeWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := gaugeStyle(s.Percent).Render(strings.Repeat("█", filled)) +
		StatusBarStyle.Render(strings.Repeat("░", gaugeWidth-filled))

	return label + "  " + bar
}

// renderTable renders the header row and the visible window of processes.
func (m *Model) renderTable() string {
	header := "  " + HeaderStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %*s %*s %-*s %*s %-*s %s",
		selColWidth, "Sel",
		pidColWidth, "PID",
		nameColWidth, "Name",
		ramColWidth, "RAM (MB)",
		cpuColWidth, "CPU%",
		cwdColWidth, "CWD",
		ppidColWidth, "PPID",
		parentColWidth, "Parent",
		"Status"))

	if len(m.displayed) == 0 {
		return header + "\n\n" + EmptyStyle.Render("  No processes match the current view")
	}

	rows := m.visibleRows()
	start := m.rowWindowStart(rows)
	end := start + rows
	if end > len(m.displayed) {
		end = len(m.displayed)
	}

	lines := make([]string, 0, end-start+1)
	lines = append(lines, header)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(i))
	}
	if end < len(m.displayed) {
		lines = append(lines, StatusBarStyle.Render(fmt.Sprintf("  ... %d more below", len(m.displayed)-end)))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one process line with cursor and selection markers.
func (m *Model) renderRow(i int) string {
	p := m.displayed[i]

	prefix := "  "
	if i == m.cursor {
		prefix = CursorStyle.Render("> ")
	}

	mark := "[ ]"
	if m.selection.Has(p.PID) {
		mark = SelectedStyle.Render("[x]")
	}

	line := fmt.Sprintf("%-*d %-*s %*.1f %*.1f %-*s %*d %-*s %s",
		pidColWidth, p.PID,
		nameColWidth, format.Clip(p.Name, nameColWidth, format.ClipRight),
		ramColWidth, p.RSSMB,
		cpuColWidth, p.CPUPercent,
		cwdColWidth, format.Clip(p.Cwd, cwdColWidth, format.ClipLeft),
		ppidColWidth, p.PPID,
		parentColWidth, format.Clip(p.ParentName, parentColWidth, format.ClipRight),
		p.DisplayStatus())

	style := rowStyle(
		m.rules.IsKillable(p),
		p.IsOrphan,
		p.InTmux,
		p.ExeDeleted,
		m.rules.IsHighMemory(p),
	)
	return prefix + mark + " " + style.Render(line)
}

// visibleRows returns how many process rows fit the current height.
func (m *Model) visibleRows() int {
	overhead := 5 // title, table header, status bar, help, slack
	if m.showMemory {
		overhead += 1
	}
	if m.status != "" {
		overhead += 1
	}
	if m.showHelp {
		overhead += 4
	}
	rows := m.height - overhead
	if rows < 3 {
		rows = 3
	}
	return rows
}

// rowWindowStart keeps the cursor inside the visible window.
func (m *Model) rowWindowStart(rows int) int {
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	if len(m.displayed)-start < rows {
		start = len(m.displayed) - rows
	}
	if start < 0 {
		start = 0
	}
	return start
}

// renderStatusBar renders view, sort, filter and selection state.
func (m *Model) renderStatusBar() string {
	arrow := "↑"
	if view.Descending(m.pipeline.Sort, m.pipeline.Reverse) {
		arrow = "↓"
	}

	parts := []string{
		fmt.Sprintf("sort: %s %s", m.pipeline.Sort, arrow),
	}
	if m.pipeline.Cwd != "" {
		parts = append(parts, "cwd: "+m.pipeline.Cwd)
	}
	if n := m.selection.Count(); n > 0 {
		var mb float64
		for _, p := range m.selection.Targets(m.displayed) {
			mb += p.RSSMB
		}
		parts = append(parts, fmt.Sprintf("selected: %d (%.1f MB)", n, mb))
	}
	parts = append(parts, "refreshed "+m.lastRefresh.Format("15:04:05"))

	return StatusBarStyle.Render(strings.Join(parts, " | "))
}

// renderConfirm renders the kill confirmation dialog.
func (m *Model) renderConfirm() string {
	c := m.confirm

	verb := "Kill"
	if c.Force {
		verb = "Force Kill"
	}

	var b strings.Builder
	b.WriteString(ModalTitleStyle.Render(fmt.Sprintf("%s %d process(es)?", verb, len(c.Targets))))
	b.WriteString("\n")
	b.WriteString(StatusBarStyle.Render(fmt.Sprintf("Will free ~%.1f MB", c.TotalMB())))
	b.WriteString("\n\n")

	for i, p := range c.Targets {
		if i == constants.ConfirmPreviewLimit {
			b.WriteString(StatusBarStyle.Render(fmt.Sprintf("... and %d more", len(c.Targets)-constants.ConfirmPreviewLimit)))
			b.WriteString("\n")
			break
		}
		b.WriteString(fmt.Sprintf("PID %d - %s (%.1f MB)\n", p.PID, p.Name, p.RSSMB))
	}
	b.WriteString("\n")

	yes := YesButtonStyle.Render("[Y]es")
	no := NoButtonActiveStyle.Render("[N]o")
	if c.Confirmed() {
		yes = YesButtonActiveStyle.Render("[Y]es")
		no = NoButtonStyle.Render("[N]o")
	}
	b.WriteString("  " + yes + "  " + no)

	return ModalStyle.Render(b.String())
}
