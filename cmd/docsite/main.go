// Command docsite renders the embedded procclean manual as a static
// HTML site, optionally capturing a live dashboard screenshot into it.
package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/xcawolfe-amzn/procclean/internal/classify"
	"github.com/xcawolfe-amzn/procclean/internal/constants"
	"github.com/xcawolfe-amzn/procclean/internal/docs"
	"github.com/xcawolfe-amzn/procclean/internal/docsite"
	"github.com/xcawolfe-amzn/procclean/internal/web"
)

func main() {
	sourceDir := flag.String("source", "", "Render Markdown from this directory instead of the embedded manual")
	outputDir := flag.String("out", "site/docs", "Output directory for generated HTML files")
	templateFile := flag.String("template", "", "Override the built-in page template")
	screenshots := flag.Bool("screenshots", false, "Capture a live dashboard screenshot into the site assets")
	flag.Parse()

	if err := run(*sourceDir, *outputDir, *templateFile, *screenshots); err != nil {
		fmt.Fprintf(os.Stderr, "docsite: %v\n", err)
		os.Exit(1)
	}
}

func run(sourceDir, outputDir, templateFile string, screenshots bool) error {
	source, err := docs.Content()
	if err != nil {
		return err
	}
	if sourceDir != "" {
		source = os.DirFS(sourceDir)
	}

	gen, err := docsite.NewGenerator(source, outputDir, templateFile)
	if err != nil {
		return err
	}
	if err := gen.Generate(); err != nil {
		return err
	}
	fmt.Printf("docsite: rendered manual into %s\n", outputDir)

	if !screenshots {
		return nil
	}
	// The site is already on disk at this point; a screenshot problem
	// (no browser, sandboxed CI) should not take the text down with it.
	if err := captureDashboard(outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "docsite: screenshot skipped: %v\n", err)
	}
	return nil
}

// captureDashboard serves the real dashboard on a loopback port and
// screenshots it into the generated site.
func captureDashboard(outputDir string) error {
	fetcher := web.NewLiveFetcher(classify.DefaultRules(), constants.MinMemoryMB)
	handler, err := web.NewDashboardMux(fetcher)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("starting dashboard: %w", err)
	}
	server := &http.Server{Handler: handler}
	go server.Serve(ln)
	defer server.Close()

	shooter, err := docsite.NewScreenshotter()
	if err != nil {
		return err
	}
	defer shooter.Close()

	url := fmt.Sprintf("http://%s/", ln.Addr())
	out := filepath.Join(outputDir, "assets", "dashboard.png")
	if err := shooter.Capture(url, out, 1280, 860); err != nil {
		return err
	}
	fmt.Printf("docsite: captured %s\n", out)
	return nil
}
