package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

var (
	killFilter     string
	killKillable   bool
	killOrphans    bool
	killHighMemory bool
	killStale      bool
	killCwd        string
	killMinMemory  float64
	killThreshold  float64
	killForce      bool
	killPreview    bool
	killYes        bool
)

var killCmd = &cobra.Command{
	Use:     "kill [pid...]",
	GroupID: GroupAct,
	Short:   "Kill processes by PID or view",
	Long: `Kill processes, either explicit PIDs or everything in a view.

With PID arguments, kills exactly those processes; PIDs that are not in
the current process table are skipped. Without arguments the killable
view is used, or another view via the preset flags.

Signals are fire-and-forget: SIGTERM by default, SIGKILL with --force,
one signal per process, no waiting and no escalation.

Examples:
  procclean kill 12345 67890        # Kill specific PIDs
  procclean kill                    # Kill the killable view
  procclean kill --orphans --cwd '~/work/*'
  procclean kill --preview          # Show the batch without killing
  procclean kill -9 --yes           # SIGKILL without confirmation`,
	RunE: runKill,
}

func init() {
	killCmd.Flags().StringVarP(&killFilter, "filter", "F", "", "View name: orphans, killable, high-memory, stale")
	killCmd.Flags().BoolVarP(&killKillable, "killable", "k", false, "Kill killable processes")
	killCmd.Flags().BoolVarP(&killOrphans, "orphans", "o", false, "Kill orphaned processes")
	killCmd.Flags().BoolVarP(&killHighMemory, "high-memory", "m", false, "Kill high-memory processes")
	killCmd.Flags().BoolVar(&killStale, "stale", false, "Kill processes whose executable was deleted")
	killCmd.Flags().StringVar(&killCwd, "cwd", "", "Filter by working directory glob")
	killCmd.Flags().Float64Var(&killMinMemory, "min-memory", -1, "Minimum RSS in MB to consider (overrides config)")
	killCmd.Flags().Float64Var(&killThreshold, "high-memory-threshold", -1, "High-memory threshold in MB (overrides config)")
	killCmd.Flags().BoolVarP(&killForce, "force", "9", false, "Send SIGKILL instead of SIGTERM")
	killCmd.Flags().BoolVarP(&killPreview, "preview", "n", false, "Show what would be killed without killing")
	killCmd.Flags().BoolVar(&killPreview, "dry-run", false, "Alias for --preview")
	killCmd.Flags().BoolVar(&killPreview, "dry", false, "Alias for --preview")
	_ = killCmd.Flags().MarkHidden("dry-run")
	_ = killCmd.Flags().MarkHidden("dry")
	killCmd.Flags().BoolVarP(&killYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(killCmd)
}

func runKill(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	var targets []proc.Process
	if len(args) > 0 {
		pids, err := parsePIDs(args)
		if err != nil {
			return err
		}
		targets, err = resolvePIDs(pids)
		if err != nil {
			return err
		}
	} else {
		v, err := view.ResolveView(killKillable, killOrphans, killHighMemory, killStale, killFilter)
		if err != nil {
			return err
		}
		if v == view.ViewAll {
			// Bare kill means the killable view, never the whole table.
			v = view.ViewKillable
		}
		targets, err = snapshotPipeline(cfg, killMinMemory, killThreshold, view.Pipeline{
			View: v,
			Cwd:  killCwd,
			Sort: view.SortMemory,
		})
		if err != nil {
			return err
		}
	}

	if len(targets) == 0 {
		fmt.Println("No processes to kill")
		return nil
	}

	if killPreview {
		printKillPreview(targets)
		return nil
	}

	if !killYes && !confirmKill(targets, killForce) {
		fmt.Println("Cancelled")
		return nil
	}

	return runKillBatch(targets, killForce)
}

func parsePIDs(args []string) ([]int, error) {
	pids := make([]int, 0, len(args))
	for _, arg := range args {
		pid, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid PID %q", arg)
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// resolvePIDs looks explicit PIDs up in the process table so the preview
// and confirmation show names and memory. The snapshot floor is zero:
// an explicitly named process is a target no matter how small it is.
// PIDs not in the table are dropped.
func resolvePIDs(pids []int) ([]proc.Process, error) {
	collector := proc.NewCollector(proc.Options{})
	procs, err := collector.Snapshot()
	if err != nil {
		return nil, err
	}

	byPID := make(map[int]proc.Process, len(procs))
	for _, p := range procs {
		byPID[p.PID] = p
	}

	targets := make([]proc.Process, 0, len(pids))
	for _, pid := range pids {
		if p, ok := byPID[pid]; ok {
			targets = append(targets, p)
		}
	}
	return targets, nil
}
