package view

import (
	"path/filepath"
	"sort"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// Group is a set of processes sharing a name, typically duplicated workers
// or leaked restarts of the same program.
type Group struct {
	Name      string         `json:"name"`
	Processes []proc.Process `json:"processes"`
	TotalMB   float64        `json:"total_mb"`
}

// SimilarGroups clusters processes by name and returns the groups with at
// least two members, biggest total memory first. A process with an empty
// name groups under the basename of its command line.
func SimilarGroups(procs []proc.Process) []Group {
	byName := make(map[string][]proc.Process)
	for _, p := range procs {
		key := p.Name
		if key == "" {
			if p.Cmdline == "" {
				key = "unknown"
			} else {
				key = filepath.Base(p.Cmdline)
			}
		}
		byName[key] = append(byName[key], p)
	}

	groups := make([]Group, 0, len(byName))
	for name, members := range byName {
		if len(members) < 2 {
			continue
		}
		total := 0.0
		for _, p := range members {
			total += p.RSSMB
		}
		groups = append(groups, Group{Name: name, Processes: members, TotalMB: total})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalMB != groups[j].TotalMB {
			return groups[i].TotalMB > groups[j].TotalMB
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}
