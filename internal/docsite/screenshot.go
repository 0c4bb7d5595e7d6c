package docsite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Screenshotter captures dashboard pages with a headless browser.
type Screenshotter struct {
	browser *rod.Browser
}

// NewScreenshotter connects to a browser, launching a headless one if
// none is configured through the usual rod environment knobs.
func NewScreenshotter() (*Screenshotter, error) {
	browser := rod.New()
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &Screenshotter{browser: browser}, nil
}

// Close shuts the browser down.
func (s *Screenshotter) Close() error {
	return s.browser.Close()
}

// Capture renders url at the given viewport and writes a PNG to
// outPath, creating parent directories as needed.
func (s *Screenshotter) Capture(url, outPath string, width, height int) error {
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	defer page.Close()

	page = page.Timeout(30 * time.Second)
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 2,
	}); err != nil {
		return fmt.Errorf("setting viewport: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s: %w", url, err)
	}

	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("capturing %s: %w", url, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", outPath, err)
	}
	return os.WriteFile(outPath, data, 0o644)
}
