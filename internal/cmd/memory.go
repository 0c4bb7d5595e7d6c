package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

var memoryJSON bool

var memoryCmd = &cobra.Command{
	Use:     "memory",
	Aliases: []string{"mem"},
	GroupID: GroupInspect,
	Short:   "Show the system memory summary",
	Long: `Show total, used, free and swap memory.

Examples:
  procclean memory
  procclean mem --json`,
	RunE: runMemory,
}

func init() {
	memoryCmd.Flags().BoolVar(&memoryJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(memoryCmd)
}

func runMemory(cmd *cobra.Command, args []string) error {
	collector := proc.NewCollector(proc.Options{})
	summary, err := collector.Memory()
	if err != nil {
		return err
	}

	if memoryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Println("\nMemory Summary:")
	fmt.Printf("  Total:      %.2f GB\n", summary.TotalGB)
	fmt.Printf("  Used:       %.2f GB (%.1f%%)\n", summary.UsedGB, summary.Percent)
	fmt.Printf("  Free:       %.2f GB\n", summary.FreeGB)
	fmt.Printf("  Swap Total: %.2f GB\n", summary.SwapTotalGB)
	fmt.Printf("  Swap Used:  %.2f GB\n", summary.SwapUsedGB)
	return nil
}
