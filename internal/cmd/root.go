// Package cmd provides the CLI commands for procclean.
package cmd

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/config"
	"github.com/xcawolfe-amzn/procclean/internal/kill"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/style"
	"github.com/xcawolfe-amzn/procclean/internal/tui/inspect"
	"github.com/xcawolfe-amzn/procclean/internal/ui"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

// Version and Build identify the binary; both are overridable via ldflags.
var (
	Version = "2.0.0"
	Build   = "dev"
)

// Command groups for help output.
const (
	GroupInspect = "inspect"
	GroupAct     = "act"
	GroupConfig  = "config"
	GroupDiag    = "diag"
)

var (
	rootFilter     string
	rootKillable   bool
	rootOrphans    bool
	rootHighMemory bool
	rootStale      bool
	rootCwd        string
	rootSort       string
	rootAscending  bool
	rootMinMemory  float64
	rootThreshold  float64
)

var rootCmd = &cobra.Command{
	Use:     "procclean",
	Short:   "A fast, interactive process cleaner",
	Version: Version,
	Long: `procclean finds and cleans up leftover development processes:
orphaned servers, stale binaries, and memory hogs.

Run without arguments to open the interactive session. Use the
subcommands for scriptable one-shot output.

Examples:
  procclean                   # Interactive session
  procclean -k                # Interactive session, killable view
  procclean list --orphans    # One-shot orphan listing
  procclean kill --killable   # Clean up killable processes`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSession,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupInspect, Title: "Inspection Commands:"},
		&cobra.Group{ID: GroupAct, Title: "Action Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics Commands:"},
	)
	rootCmd.SetVersionTemplate(fmt.Sprintf("procclean v{{.Version}} (%s)\n", Build))

	rootCmd.Flags().StringVarP(&rootFilter, "filter", "F", "", "Start in a view: orphans, killable, high-memory, stale")
	rootCmd.Flags().BoolVarP(&rootKillable, "killable", "k", false, "Start in the killable view")
	rootCmd.Flags().BoolVarP(&rootOrphans, "orphans", "o", false, "Start in the orphans view")
	rootCmd.Flags().BoolVarP(&rootHighMemory, "high-memory", "m", false, "Start in the high-memory view")
	rootCmd.Flags().BoolVar(&rootStale, "stale", false, "Start in the stale view")
	rootCmd.Flags().StringVar(&rootCwd, "cwd", "", "Filter by working directory glob")
	rootCmd.Flags().StringVarP(&rootSort, "sort", "s", "", "Initial sort key: memory, cpu, pid, name, cwd")
	rootCmd.Flags().BoolVar(&rootAscending, "ascending", false, "Reverse the sort direction")
	rootCmd.Flags().Float64Var(&rootMinMemory, "min-memory", -1, "Minimum RSS in MB to show (overrides config)")
	rootCmd.Flags().Float64Var(&rootThreshold, "high-memory-threshold", -1, "High-memory threshold in MB (overrides config)")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ui.InitTheme(loadConfig().GetTheme())

	if err := rootCmd.Execute(); err != nil {
		style.PrintError("%v", err)
		return 1
	}
	return 0
}

// runSession opens the interactive process table.
func runSession(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	v, err := view.ResolveView(rootKillable, rootOrphans, rootHighMemory, rootStale, rootFilter)
	if err != nil {
		return err
	}

	sortKey := view.SortMemory
	if s := firstNonEmpty(rootSort, cfg.GetSort()); s != "" {
		sortKey = view.ParseKey(s)
	}

	m, err := inspect.New(inspect.Options{
		Provider: buildCollector(cfg, rootMinMemory),
		Rules:    buildRules(cfg, rootThreshold),
		Pipeline: view.Pipeline{
			View:    v,
			Cwd:     rootCwd,
			Sort:    sortKey,
			Reverse: rootAscending,
		},
		Journal: defaultJournal(),
		Refresh: cfg.GetRefreshInterval(),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running session: %w", err)
	}
	return nil
}

var (
	cfgOnce   sync.Once
	cachedCfg *config.Config
)

// loadConfig loads the config file once, falling back to defaults on
// any problem. A broken config file must not lock the user out of the
// tool; the getters are nil-safe.
func loadConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: loading config: %v (using defaults)\n", err)
			return
		}
		cachedCfg = cfg
	})
	return cachedCfg
}

// defaultJournal builds the kill journal in the state directory. A nil
// journal just disables history; kills still work.
func defaultJournal() *kill.Journal {
	j, err := kill.DefaultJournal()
	if err != nil {
		return nil
	}
	return j
}

// buildCollector builds the snapshot provider. minMemory < 0 means the
// flag was not set and the config default applies.
func buildCollector(cfg *config.Config, minMemory float64) *proc.Collector {
	floor := cfg.GetMinMemoryMB()
	if minMemory >= 0 {
		floor = minMemory
	}
	return proc.NewCollector(proc.Options{MinMemoryMB: floor})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
