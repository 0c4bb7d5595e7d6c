// Package format serializes process snapshots for non-interactive output:
// aligned tables, JSON, CSV and Markdown.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xcawolfe-amzn/procclean/internal/constants"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// ClipSide selects which end of an overlong value survives truncation.
type ClipSide int

const (
	// ClipRight keeps the head and appends "...".
	ClipRight ClipSide = iota
	// ClipLeft keeps the tail and prepends "...".
	ClipLeft
)

// Clip truncates s to max runes, marking the cut end with an ellipsis.
func Clip(s string, max int, side ClipSide) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	keep := max - 3
	if keep < 0 {
		keep = 0
	}
	if side == ClipLeft {
		return "..." + string(runes[len(runes)-keep:])
	}
	return string(runes[:keep]) + "..."
}

// ColumnSpec describes one output column.
type ColumnSpec struct {
	Key      string
	Header   string
	MaxWidth int // 0 means unbounded
	Side     ClipSide
	Numeric  bool
}

// Extract renders the column's value for p, clipped to the column width.
func (c ColumnSpec) Extract(p proc.Process) string {
	var v string
	switch c.Key {
	case "pid":
		v = strconv.Itoa(p.PID)
	case "name":
		v = p.Name
	case "rss_mb":
		v = fmt.Sprintf("%.1f", p.RSSMB)
	case "cpu_percent":
		v = fmt.Sprintf("%.1f", p.CPUPercent)
	case "cwd":
		v = p.Cwd
	case "ppid":
		v = strconv.Itoa(p.PPID)
	case "parent_name":
		v = p.ParentName
	case "status":
		v = p.DisplayStatus()
	case "cmdline":
		v = p.Cmdline
	case "username":
		v = p.Username
	default:
		v = "?"
	}
	if c.MaxWidth > 0 {
		return Clip(v, c.MaxWidth, c.Side)
	}
	return v
}

// Columns lists every available column in canonical order.
var Columns = []ColumnSpec{
	{Key: "pid", Header: "PID", Numeric: true},
	{Key: "name", Header: "Name", MaxWidth: constants.NameMaxWidth, Side: ClipRight},
	{Key: "rss_mb", Header: "RAM (MB)", Numeric: true},
	{Key: "cpu_percent", Header: "CPU%", Numeric: true},
	{Key: "cwd", Header: "CWD", MaxWidth: constants.CwdMaxWidth, Side: ClipLeft},
	{Key: "ppid", Header: "PPID", Numeric: true},
	{Key: "parent_name", Header: "Parent", MaxWidth: 20, Side: ClipRight},
	{Key: "status", Header: "Status", MaxWidth: 40, Side: ClipRight},
	{Key: "cmdline", Header: "Command", MaxWidth: 60, Side: ClipRight},
	{Key: "username", Header: "User", MaxWidth: 15, Side: ClipRight},
}

// DefaultColumnKeys is the column set used when the caller doesn't pick one.
var DefaultColumnKeys = []string{"pid", "name", "rss_mb", "cpu_percent", "cwd", "ppid", "status"}

// Resolve maps keys to column specs, rejecting unknown keys by name.
func Resolve(keys []string) ([]ColumnSpec, error) {
	cols := make([]ColumnSpec, 0, len(keys))
	for _, key := range keys {
		found := false
		for _, spec := range Columns {
			if spec.Key == key {
				cols = append(cols, spec)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown column %q (valid: %s)", key, strings.Join(columnKeys(), ", "))
		}
	}
	return cols, nil
}

// DefaultColumns returns the default column set.
func DefaultColumns() []ColumnSpec {
	cols, err := Resolve(DefaultColumnKeys)
	if err != nil {
		panic(err) // DefaultColumnKeys only names registry entries
	}
	return cols
}

func columnKeys() []string {
	keys := make([]string, len(Columns))
	for i, spec := range Columns {
		keys[i] = spec.Key
	}
	return keys
}
