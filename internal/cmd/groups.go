package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/view"
)

var (
	groupsMinMemory float64
	groupsJSON      bool
)

var groupsCmd = &cobra.Command{
	Use:     "groups",
	Aliases: []string{"g"},
	GroupID: GroupInspect,
	Short:   "Show groups of similar processes",
	Long: `Cluster processes by name and show groups with two or more members.

Duplicated workers and leaked restarts of the same program show up as
groups; singletons are dropped. Groups are ordered biggest total memory
first.

Examples:
  procclean groups
  procclean g --min-memory 50
  procclean groups --json`,
	RunE: runGroups,
}

func init() {
	groupsCmd.Flags().Float64Var(&groupsMinMemory, "min-memory", -1, "Minimum RSS in MB to consider (overrides config)")
	groupsCmd.Flags().BoolVar(&groupsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(groupsCmd)
}

func runGroups(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	procs, err := snapshotPipeline(cfg, groupsMinMemory, -1, view.Pipeline{Sort: view.SortMemory})
	if err != nil {
		return err
	}
	groups := view.SimilarGroups(procs)

	if groupsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}

	fmt.Printf("\n%d process groups found\n", len(groups))
	for _, g := range groups {
		fmt.Printf("  %s (%d processes, %.1f MB total)\n", g.Name, len(g.Processes), g.TotalMB)
		for _, p := range g.Processes {
			fmt.Printf("    PID %d - %.1f MB\n", p.PID, p.RSSMB)
		}
	}
	return nil
}
