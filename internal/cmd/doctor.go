package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/doctor"
)

var (
	doctorFix     bool
	doctorVerbose bool
	doctorSlow    string
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: GroupDiag,
	Short:   "Run health checks on this installation",
	Long: `Run diagnostic checks on the procclean installation.

Checks:
  procfs-readable    Process table is readable
  boot-time          Boot time is available for CPU accounting
  passwd-resolvable  Uids resolve to usernames
  tmux-server        Tmux server reachability (informational)
  state-dir          State directory exists and is writable (fixable)
  config-file        Config file parses (when present)
  kill-journal       Kill journal parses and is within its cap (fixable)
  color-support      Terminal color support
  stale-self         Own binary still exists on disk

Use --fix to attempt automatic fixes for issues that support it.
Use --slow to highlight slow checks (default threshold 1s, e.g. --slow=500ms).`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt to automatically fix issues")
	doctorCmd.Flags().BoolVarP(&doctorVerbose, "verbose", "v", false, "Show detailed output")
	doctorCmd.Flags().StringVar(&doctorSlow, "slow", "", "Highlight slow checks (optional threshold, default 1s)")
	doctorCmd.Flags().Lookup("slow").NoOptDefVal = "1s"
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := &doctor.CheckContext{
		Verbose: doctorVerbose,
	}

	d := doctor.NewDoctor()
	d.Register(doctor.NewProcfsCheck())
	d.Register(doctor.NewBootTimeCheck())
	d.Register(doctor.NewPasswdCheck())
	d.Register(doctor.NewTmuxServerCheck())
	d.Register(doctor.NewStateDirCheck())
	d.Register(doctor.NewConfigCheck())
	d.Register(doctor.NewJournalCheck())
	d.Register(doctor.NewColorSupportCheck())
	d.Register(doctor.NewStaleSelfCheck())

	var slowThreshold time.Duration
	if doctorSlow != "" {
		var err error
		slowThreshold, err = time.ParseDuration(doctorSlow)
		if err != nil {
			return fmt.Errorf("invalid --slow duration %q: %w", doctorSlow, err)
		}
	}

	fmt.Println()
	var report *doctor.Report
	if doctorFix {
		report = d.FixStreaming(ctx, os.Stdout, slowThreshold)
	} else {
		report = d.RunStreaming(ctx, os.Stdout, slowThreshold)
	}

	report.PrintSummaryOnly(os.Stdout, doctorVerbose, slowThreshold)

	if report.HasErrors() {
		return fmt.Errorf("doctor found %d error(s)", report.Summary.Errors)
	}
	return nil
}
