package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/config"
	"github.com/xcawolfe-amzn/procclean/internal/kill"
	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/tmux"
	"github.com/xcawolfe-amzn/procclean/internal/ui"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:     "info",
	GroupID: GroupDiag,
	Short:   "Show procclean installation information",
	Long: `Display information about this procclean installation: version,
platform, procfs root, config and journal locations, tmux availability,
and terminal color support.

Examples:
  procclean info
  procclean info --json`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	configPath, _ := config.Path()

	journalPath := ""
	if j, err := kill.DefaultJournal(); err == nil {
		journalPath = j.Path()
	}

	t := tmux.NewTmux()
	tmuxVersion := ""
	if t.IsAvailable() {
		tmuxVersion, _ = t.ServerVersion()
	}

	procRoot := proc.DefaultRoot()
	colors := ui.ProfileName(termenv.ColorProfile())

	info := map[string]interface{}{
		"version":  Version,
		"build":    Build,
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
		"procfs":   procRoot,
		"config":   configPath,
		"journal":  journalPath,
		"colors":   colors,
	}
	if tmuxVersion != "" {
		info["tmux"] = tmuxVersion
	}

	if infoJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("procclean v%s (%s)\n", Version, Build)
	fmt.Printf("  platform: %s\n", info["platform"])
	fmt.Printf("  procfs:   %s\n", procRoot)
	fmt.Printf("  config:   %s\n", configPath)
	if journalPath != "" {
		fmt.Printf("  journal:  %s\n", journalPath)
	}
	if tmuxVersion != "" {
		fmt.Printf("  tmux:     %s\n", tmuxVersion)
	} else {
		fmt.Println("  tmux:     not available")
	}
	fmt.Printf("  colors:   %s\n", colors)
	return nil
}
