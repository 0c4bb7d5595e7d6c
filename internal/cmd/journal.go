package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/kill"
)

var (
	journalLimit int
	journalJSON  bool
)

var journalCmd = &cobra.Command{
	Use:     "journal",
	Aliases: []string{"hist"},
	GroupID: GroupAct,
	Short:   "Show recent kill batches",
	Long: `Show the kill journal, newest batch first.

Every kill batch (CLI or interactive) is recorded with its per-PID
outcomes. The journal is informational only; it never replays or
retries kills.

Examples:
  procclean journal
  procclean hist -n 3
  procclean journal --json`,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 10, "Number of batches to show")
	journalCmd.Flags().BoolVar(&journalJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	j, err := kill.DefaultJournal()
	if err != nil {
		return fmt.Errorf("locating journal: %w", err)
	}

	batches, err := j.Recent(journalLimit)
	if err != nil {
		return err
	}

	if journalJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if batches == nil {
			batches = []kill.Batch{}
		}
		return enc.Encode(batches)
	}

	if len(batches) == 0 {
		fmt.Println("No kill batches recorded")
		return nil
	}

	for _, b := range batches {
		signal := "SIGTERM"
		if b.Force {
			signal = "SIGKILL"
		}
		fmt.Printf("%s  %s  %s  %d/%d succeeded\n",
			b.At.Local().Format("2006-01-02 15:04:05"), b.ID[:8], signal,
			b.Succeeded, len(b.Results))
		for _, res := range b.Results {
			marker := "✓"
			if !res.Success() {
				marker = "✗"
			}
			fmt.Printf("  %s PID %d: %s\n", marker, res.PID, res.Message)
		}
	}
	return nil
}
