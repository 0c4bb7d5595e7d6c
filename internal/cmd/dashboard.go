package cmd

import (
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/xcawolfe-amzn/procclean/internal/web"
)

var (
	dashboardPort int
	dashboardOpen bool
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	GroupID: GroupDiag,
	Short:   "Start the process dashboard web server",
	Long: `Start a web server that displays the live process table.

The dashboard shows the same classified views as the CLI and the
interactive session, plus the memory summary and similar-process
groups, with an auto-refreshing table.

Example:
  procclean dashboard              # Start on the configured port
  procclean dashboard --port 3000  # Start on port 3000
  procclean dashboard --open       # Start and open the browser`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().IntVar(&dashboardPort, "port", 0, "HTTP port to listen on (0 uses config)")
	dashboardCmd.Flags().BoolVar(&dashboardOpen, "open", false, "Open browser automatically")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	port := dashboardPort
	if port == 0 {
		port = cfg.GetDashboardPort()
	}

	fetcher := web.NewLiveFetcher(buildRules(cfg, -1), cfg.GetMinMemoryMB())
	handler, err := web.NewDashboardMux(fetcher)
	if err != nil {
		return fmt.Errorf("creating dashboard handler: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	if dashboardOpen {
		go openBrowser(url)
	}

	fmt.Printf("procclean dashboard at %s  (api: %s/api/processes, ctrl+c to stop)\n", url, url)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return server.ListenAndServe()
}

// openBrowser opens the specified URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}
