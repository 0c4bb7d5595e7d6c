package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/style"
)

// Format selects an output serialization.
type Format int

const (
	Table Format = iota
	JSON
	CSV
	Markdown
)

// ParseFormat maps a user-supplied name to a Format. Unrecognized names
// fall back to Table.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return JSON
	case "csv":
		return CSV
	case "md", "markdown":
		return Markdown
	default:
		return Table
	}
}

// Options tweaks rendering. NoHeader drops the header row from table
// and csv output; json and markdown are unaffected since markdown
// tables need their delimiter row to parse.
type Options struct {
	NoHeader bool
}

// Render serializes processes in the given format using the column set.
func Render(procs []proc.Process, f Format, cols []ColumnSpec) (string, error) {
	return RenderWith(procs, f, cols, Options{})
}

// RenderWith is Render with explicit options.
func RenderWith(procs []proc.Process, f Format, cols []ColumnSpec, opts Options) (string, error) {
	switch f {
	case JSON:
		return renderJSON(procs)
	case CSV:
		return renderCSV(procs, cols, opts), nil
	case Markdown:
		return renderMarkdown(procs, cols), nil
	default:
		return renderTable(procs, cols, opts), nil
	}
}

func renderTable(procs []proc.Process, cols []ColumnSpec, opts Options) string {
	cells := extractAll(procs, cols)
	widths := columnWidths(cols, cells)

	tableCols := make([]style.Column, len(cols))
	for i, col := range cols {
		align := style.AlignLeft
		if col.Numeric {
			align = style.AlignRight
		}
		tableCols[i] = style.Column{Name: col.Header, Width: widths[i], Align: align}
	}

	t := style.NewTable(tableCols...).SetIndent("").SetShowHeader(!opts.NoHeader)
	for _, row := range cells {
		t.AddRow(row...)
	}
	return t.Render()
}

func renderJSON(procs []proc.Process) (string, error) {
	if procs == nil {
		procs = []proc.Process{}
	}
	data, err := json.MarshalIndent(procs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding processes: %w", err)
	}
	return string(data), nil
}

// renderCSV emits column keys as the header row and quotes only fields
// that need it.
func renderCSV(procs []proc.Process, cols []ColumnSpec, opts Options) string {
	var sb strings.Builder

	if !opts.NoHeader {
		keys := make([]string, len(cols))
		for i, col := range cols {
			keys[i] = col.Key
		}
		sb.WriteString(strings.Join(keys, ","))
		sb.WriteByte('\n')
	}

	for _, p := range procs {
		fields := make([]string, len(cols))
		for i, col := range cols {
			fields[i] = csvEscape(col.Extract(p))
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func csvEscape(val string) string {
	if strings.ContainsAny(val, ",\"\n") {
		return "\"" + strings.ReplaceAll(val, "\"", "\"\"") + "\""
	}
	return val
}

func renderMarkdown(procs []proc.Process, cols []ColumnSpec) string {
	cells := extractAll(procs, cols)
	widths := columnWidths(cols, cells)

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteByte('|')
		for i, cell := range row {
			sb.WriteByte(' ')
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-len([]rune(cell))))
			sb.WriteString(" |")
		}
		sb.WriteByte('\n')
	}

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Header
	}
	writeRow(headers)

	sb.WriteByte('|')
	for range cols {
		sb.WriteString("---|")
	}
	sb.WriteByte('\n')

	for _, row := range cells {
		writeRow(row)
	}
	return sb.String()
}

// extractAll renders every cell up front so column widths can be
// computed before layout.
func extractAll(procs []proc.Process, cols []ColumnSpec) [][]string {
	cells := make([][]string, len(procs))
	for i, p := range procs {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = col.Extract(p)
		}
		cells[i] = row
	}
	return cells
}

func columnWidths(cols []ColumnSpec, cells [][]string) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = len([]rune(col.Header))
	}
	for _, row := range cells {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}
