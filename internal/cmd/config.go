package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/config"
)

var configShowJSON bool

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupConfig,
	Short:   "Show procclean configuration",
	RunE:    requireSubcommand,
	Long: `Inspect the procclean configuration.

Configuration lives in a single TOML file; a missing file means
built-in defaults. Set PROCCLEAN_CONFIG to override the location.

Commands:
  procclean config show    Show the resolved configuration
  procclean config path    Show the config file location`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Show the effective configuration: file values merged with the
built-in defaults.

Examples:
  procclean config show
  procclean config show --json`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file location",
	RunE:  runConfigPath,
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "Output in JSON format")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	resolved := map[string]interface{}{
		"high_memory_threshold_mb": cfg.GetHighMemoryThresholdMB(),
		"min_memory_mb":            cfg.GetMinMemoryMB(),
		"critical_services":        cfg.GetCriticalServices(),
		"system_paths":             cfg.GetSystemPaths(),
		"refresh_interval":         cfg.GetRefreshInterval().String(),
		"sort":                     firstNonEmpty(cfg.GetSort(), "memory"),
		"dashboard_port":           cfg.GetDashboardPort(),
	}

	if configShowJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resolved)
	}

	path, _ := config.Path()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file: %s\n\n", path)
	} else {
		fmt.Printf("Config file: %s (not present, using defaults)\n\n", path)
	}
	fmt.Printf("  high_memory_threshold_mb = %v\n", resolved["high_memory_threshold_mb"])
	fmt.Printf("  min_memory_mb            = %v\n", resolved["min_memory_mb"])
	fmt.Printf("  refresh_interval         = %v\n", resolved["refresh_interval"])
	fmt.Printf("  sort                     = %v\n", resolved["sort"])
	fmt.Printf("  dashboard_port           = %v\n", resolved["dashboard_port"])
	fmt.Printf("  critical_services        = %d names\n", len(cfg.GetCriticalServices()))
	fmt.Printf("  system_paths             = %v\n", cfg.GetSystemPaths())
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// requireSubcommand is the RunE for parent commands that do nothing on
// their own.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}
