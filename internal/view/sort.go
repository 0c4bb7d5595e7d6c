package view

import (
	"sort"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// Key names a sortable process attribute.
type Key string

const (
	SortMemory Key = "memory"
	SortCPU    Key = "cpu"
	SortPID    Key = "pid"
	SortName   Key = "name"
	SortCwd    Key = "cwd"
)

// ParseKey maps a user-supplied sort name to a Key. Unknown names fall back
// to memory, the most useful default for a cleanup tool.
func ParseKey(s string) Key {
	switch s {
	case "memory", "mem", "rss":
		return SortMemory
	case "cpu":
		return SortCPU
	case "pid":
		return SortPID
	case "name":
		return SortName
	case "cwd":
		return SortCwd
	default:
		return SortMemory
	}
}

// ValidKey reports whether s names a sort key ParseKey will honor.
// ParseKey itself is forgiving; callers that want to reject typos
// instead of defaulting check here first.
func ValidKey(s string) bool {
	switch s {
	case "memory", "mem", "rss", "cpu", "pid", "name", "cwd":
		return true
	}
	return false
}

// Next returns the following key in the TUI cycle order.
func (k Key) Next() Key {
	switch k {
	case SortMemory:
		return SortCPU
	case SortCPU:
		return SortPID
	case SortPID:
		return SortName
	case SortName:
		return SortCwd
	default:
		return SortMemory
	}
}

// Sort orders processes in place. Each key has a natural direction, biggest
// first for the numeric keys and A to Z for the lexical ones, and reverse
// inverts it:
//
//	key      reverse=false    reverse=true
//	memory   descending       ascending
//	cpu      descending       ascending
//	pid      descending       ascending
//	name     ascending        descending
//	cwd      ascending        descending
//
// The sort is stable: ties keep their snapshot encounter order.
func Sort(procs []proc.Process, key Key, reverse bool) {
	less := naturalLess(key)
	sort.SliceStable(procs, func(i, j int) bool {
		if reverse {
			return less(procs[j], procs[i])
		}
		return less(procs[i], procs[j])
	})
}

// Descending reports whether the effective order for key+reverse runs
// biggest-first. Display surfaces use this for the direction arrow.
func Descending(key Key, reverse bool) bool {
	switch key {
	case SortName, SortCwd:
		return reverse
	default:
		return !reverse
	}
}

// naturalLess returns the strict ordering for a key's natural direction.
func naturalLess(key Key) func(a, b proc.Process) bool {
	switch key {
	case SortCPU:
		return func(a, b proc.Process) bool { return a.CPUPercent > b.CPUPercent }
	case SortPID:
		return func(a, b proc.Process) bool { return a.PID > b.PID }
	case SortName:
		return func(a, b proc.Process) bool { return a.Name < b.Name }
	case SortCwd:
		return func(a, b proc.Process) bool { return a.Cwd < b.Cwd }
	default:
		return func(a, b proc.Process) bool { return a.RSSMB > b.RSSMB }
	}
}
