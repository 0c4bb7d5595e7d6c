package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	GroupID: GroupDiag,
	Short:   "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if commit := vcsRevision(); commit != "" {
			fmt.Printf("procclean v%s (%s: %s)\n", Version, Build, commit)
			return
		}
		fmt.Printf("procclean v%s (%s)\n", Version, Build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// vcsRevision reports the commit the binary was built from, when the
// build embedded VCS info. Raw `go build` outside a checkout embeds
// nothing; that is fine.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return s.Value[:12]
		}
	}
	return ""
}
