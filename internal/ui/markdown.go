package ui

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown text with glamour styling.
// Returns raw markdown on failure for graceful degradation.
func RenderMarkdown(markdown string) string {
	// no styling when colors are disabled
	if !ShouldUseColor() {
		return markdown
	}

	wrapWidth := markdownWrapWidth()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	return rendered
}

// markdownWrapWidth returns the terminal width for word wrapping.
// Caps at 100 chars for readability. Falls back to 80 if detection fails.
func markdownWrapWidth() int {
	const (
		defaultWidth = 80
		maxWidth     = 100
	)

	width := TerminalWidth(defaultWidth)
	if width > maxWidth {
		return maxWidth
	}
	return width
}
