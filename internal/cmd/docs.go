package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/xcawolfe-amzn/procclean/internal/docs"
	"github.com/xcawolfe-amzn/procclean/internal/ui"
)

var docsWrite string

var docsCmd = &cobra.Command{
	Use:     "docs [topic]",
	GroupID: GroupDiag,
	Short:   "Read the built-in documentation",
	Long: `Read the built-in documentation in the terminal.

With no argument, lists the available topics. With a topic name,
renders that page. With --write, generates a Markdown reference page
per command into a directory instead.

Examples:
  procclean docs             # list topics
  procclean docs views       # how views and classification work
  procclean docs session     # interactive key bindings
  procclean docs --write ./reference`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocs,
}

func init() {
	docsCmd.Flags().StringVar(&docsWrite, "write", "", "Write per-command Markdown files into this directory")
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	if docsWrite != "" {
		if err := os.MkdirAll(docsWrite, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", docsWrite, err)
		}
		if err := doc.GenMarkdownTree(rootCmd, docsWrite); err != nil {
			return fmt.Errorf("generating command reference: %w", err)
		}
		fmt.Printf("Wrote command reference to %s\n", docsWrite)
		return nil
	}

	if len(args) == 0 {
		fmt.Println("Topics:")
		for _, topic := range docs.Topics() {
			fmt.Printf("  %-12s %s\n", topic.Name, topic.Title)
		}
		fmt.Println("\nRead one with: procclean docs <topic>")
		return nil
	}

	topic, err := docs.Get(args[0])
	if err != nil {
		names := make([]string, 0, len(docs.Topics()))
		for _, t := range docs.Topics() {
			names = append(names, t.Name)
		}
		return fmt.Errorf("%v (available: %s)", err, strings.Join(names, ", "))
	}

	fmt.Print(ui.RenderMarkdown(topic.Body))
	return nil
}
