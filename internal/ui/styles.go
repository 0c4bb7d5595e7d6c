// Package ui provides terminal styling for procclean CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
// Design philosophy: semantic colors that communicate meaning at a glance,
// minimal visual noise, and consistent rendering across all commands.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	if !ShouldUseColor() {
		// disable colors when not appropriate (non-TTY, NO_COLOR, etc.)
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		// use TrueColor for distinct classification colors in modern terminals
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// ApplyThemeMode applies the theme mode settings to lipgloss.
// This should be called after InitTheme() has been called.
func ApplyThemeMode() {
	if !ShouldUseColor() {
		return
	}
	// Set lipgloss dark background flag based on theme mode
	lipgloss.SetHasDarkBackground(HasDarkBackground())
}

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
// Source: https://github.com/ayu-theme/ayu-colors
var (
	// Core semantic colors (Ayu theme - adaptive light/dark)
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}

	// === Classification Colors ===
	// Only states an operator should act on get strong color.
	ColorKillable = lipgloss.AdaptiveColor{
		Light: "#f07171", // red - safe-to-kill candidates stand out
		Dark:  "#f26d78",
	}
	ColorOrphan = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // yellow - orphaned but possibly protected
		Dark:  "#ffb454",
	}
	ColorTmux = lipgloss.AdaptiveColor{
		Light: "#4cbf99", // teal - attached to a live multiplexer session
		Dark:  "#95e6cb",
	}
	ColorStale = lipgloss.AdaptiveColor{
		Light: "#d2a6ff", // purple - executable replaced or deleted
		Dark:  "#d2a6ff",
	}
	ColorHighMemory = lipgloss.AdaptiveColor{
		Light: "#ff8f40", // orange - above the memory threshold
		Dark:  "#ff8f40",
	}
)

// Core styles - consistent across all commands
var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// Classification styles for process table rows and badges
var (
	KillableStyle   = lipgloss.NewStyle().Foreground(ColorKillable)
	OrphanStyle     = lipgloss.NewStyle().Foreground(ColorOrphan)
	TmuxStyle       = lipgloss.NewStyle().Foreground(ColorTmux)
	StaleStyle      = lipgloss.NewStyle().Foreground(ColorStale)
	HighMemoryStyle = lipgloss.NewStyle().Foreground(ColorHighMemory).Bold(true)
)

// CategoryStyle for section headers - bold with accent color
var CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// BoldStyle for emphasis
var BoldStyle = lipgloss.NewStyle().Bold(true)

// Status icons - consistent semantic indicators
// Design: small Unicode symbols, NOT emoji-style icons for visual consistency
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✖"
	IconSkip = "○"
	IconInfo = "ℹ"
)

// Classification markers appended to a process status line.
const (
	MarkerOrphan = "[orphan]"
	MarkerTmux   = "[tmux]"
	MarkerStale  = "[stale]"
)

// Separators - 42 characters wide
const (
	SeparatorLight = "──────────────────────────────────────────"
	SeparatorHeavy = "══════════════════════════════════════════"
)

// === Core Render Functions ===

// RenderPass renders text with pass (green) styling
func RenderPass(s string) string {
	return PassStyle.Render(s)
}

// RenderWarn renders text with warning (yellow) styling
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderFail renders text with fail (red) styling
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderAccent renders text with accent (blue) styling
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderBold renders text in bold
func RenderBold(s string) string {
	return BoldStyle.Render(s)
}

// RenderSeparator renders the light separator line in muted color
func RenderSeparator() string {
	return MutedStyle.Render(SeparatorLight)
}

// RenderMarker renders one classification marker with its semantic color.
// Unknown markers pass through unstyled.
func RenderMarker(marker string) string {
	switch marker {
	case MarkerOrphan:
		return OrphanStyle.Render(marker)
	case MarkerTmux:
		return TmuxStyle.Render(marker)
	case MarkerStale:
		return StaleStyle.Render(marker)
	default:
		return marker
	}
}
