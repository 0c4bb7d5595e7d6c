package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/format"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

var (
	listFilter     string
	listKillable   bool
	listOrphans    bool
	listHighMemory bool
	listStale      bool
	listCwd        string
	listSort       string
	listAscending  bool
	listMinMemory  float64
	listThreshold  float64
	listFormat     string
	listColumns    []string
	listNoHeader   bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	GroupID: GroupInspect,
	Short:   "List processes matching a view",
	Long: `List processes in a one-shot, scriptable form.

The view presets mirror the interactive session:
  --orphans      processes reparented to init
  --killable     orphans that are safe cleanup candidates
  --high-memory  processes above the memory threshold
  --stale        processes whose executable was deleted

Preset flags win over --filter; killable beats orphans beats
high-memory beats stale.

Examples:
  procclean list                        # Everything above the memory floor
  procclean ls -k                       # Killable processes
  procclean list --orphans --cwd '~/p*' # Orphans under matching directories
  procclean list -s cpu --format json   # JSON sorted by CPU
  procclean list --columns pid,name,cwd # Custom columns`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "F", "", "View name: orphans, killable, high-memory, stale")
	listCmd.Flags().BoolVarP(&listKillable, "killable", "k", false, "Show killable processes")
	listCmd.Flags().BoolVarP(&listOrphans, "orphans", "o", false, "Show orphaned processes")
	listCmd.Flags().BoolVarP(&listHighMemory, "high-memory", "m", false, "Show high-memory processes")
	listCmd.Flags().BoolVar(&listStale, "stale", false, "Show processes whose executable was deleted")
	listCmd.Flags().StringVar(&listCwd, "cwd", "", "Filter by working directory glob")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort key: memory, cpu, pid, name, cwd")
	listCmd.Flags().BoolVar(&listAscending, "ascending", false, "Reverse the sort direction")
	listCmd.Flags().Float64Var(&listMinMemory, "min-memory", -1, "Minimum RSS in MB to show (overrides config)")
	listCmd.Flags().Float64Var(&listThreshold, "high-memory-threshold", -1, "High-memory threshold in MB (overrides config)")
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, json, csv, markdown")
	listCmd.Flags().StringSliceVar(&listColumns, "columns", nil, "Columns to show (comma-separated keys)")
	listCmd.Flags().BoolVar(&listNoHeader, "no-header", false, "Omit the header row (table and csv output)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	v, err := view.ResolveView(listKillable, listOrphans, listHighMemory, listStale, listFilter)
	if err != nil {
		return err
	}

	sortKey := view.SortMemory
	if s := firstNonEmpty(listSort, cfg.GetSort()); s != "" {
		sortKey = view.ParseKey(s)
	}

	procs, err := snapshotPipeline(cfg, listMinMemory, listThreshold, view.Pipeline{
		View:    v,
		Cwd:     listCwd,
		Sort:    sortKey,
		Reverse: listAscending,
	})
	if err != nil {
		return err
	}

	columns := listColumns
	if len(columns) == 0 {
		columns = cfg.GetColumns()
	}
	if len(columns) == 0 {
		columns = format.DefaultColumnKeys
	}
	return renderProcesses(procs, columns, listFormat, listNoHeader)
}
