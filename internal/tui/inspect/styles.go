package inspect

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xcawolfe-amzn/procclean/internal/ui"
)

// Styles for the inspect session. Classification row colors come from the
// shared ui palette so the TUI and CLI agree on what killable looks like.
var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorAccent)
	HeaderStyle    = lipgloss.NewStyle().Bold(true)
	CursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorAccent)
	SelectedStyle  = lipgloss.NewStyle().Foreground(ui.ColorPass)
	StatusBarStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	ErrorStyle     = lipgloss.NewStyle().Foreground(ui.ColorFail)
	HelpKeyStyle   = lipgloss.NewStyle().Foreground(ui.ColorAccent)
	HelpDescStyle  = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	EmptyStyle     = lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true)

	GaugeLowStyle  = lipgloss.NewStyle().Foreground(ui.ColorPass)
	GaugeMidStyle  = lipgloss.NewStyle().Foreground(ui.ColorWarn)
	GaugeHighStyle = lipgloss.NewStyle().Foreground(ui.ColorFail)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorWarn).
			Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorWarn)

	YesButtonStyle       = lipgloss.NewStyle().Foreground(ui.ColorPass)
	YesButtonActiveStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(ui.ColorPass)
	NoButtonStyle        = lipgloss.NewStyle().Foreground(ui.ColorFail)
	NoButtonActiveStyle  = lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(ui.ColorFail)
)

// rowStyle picks the classification color for a displayed row.
// Killable wins over the softer markers; high-memory only adds emphasis
// when nothing scarier applies.
func rowStyle(killable, orphan, tmux, stale, highMem bool) lipgloss.Style {
	switch {
	case killable:
		return ui.KillableStyle
	case stale:
		return ui.StaleStyle
	case orphan:
		return ui.OrphanStyle
	case tmux:
		return ui.TmuxStyle
	case highMem:
		return ui.HighMemoryStyle
	default:
		return lipgloss.NewStyle()
	}
}

// gaugeStyle colors the memory gauge by pressure.
func gaugeStyle(percent float64) lipgloss.Style {
	switch {
	case percent > 80:
		return GaugeHighStyle
	case percent > 60:
		return GaugeMidStyle
	default:
		return GaugeLowStyle
	}
}
