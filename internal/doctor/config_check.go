package doctor

import (
	"fmt"
	"os"
	"time"

	"github.com/xcawolfe-amzn/procclean/internal/config"
	"github.com/xcawolfe-amzn/procclean/internal/view"
)

// ConfigCheck validates the config file: parseable TOML and values
// the other commands will accept. A missing file passes; defaults are
// a fully supported configuration.
type ConfigCheck struct {
	BaseCheck
}

// NewConfigCheck creates the config file check.
func NewConfigCheck() *ConfigCheck {
	return &ConfigCheck{
		BaseCheck: BaseCheck{
			CheckName:        "config-file",
			CheckDescription: "Check that the config file parses and its values are sane",
			CheckCategory:    CategoryConfig,
		},
	}
}

// Run loads the config file and lints its values.
func (c *ConfigCheck) Run(ctx *CheckContext) *CheckResult {
	path, err := config.Path()
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("cannot resolve config path: %v", err),
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: "no config file (defaults in effect)",
			Details: []string{fmt.Sprintf("would be read from %s", path)},
		}
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("config file invalid: %v", err),
			Details: []string{path},
			FixHint: fmt.Sprintf("fix or remove %s", path),
		}
	}
	if cfg == nil {
		// Deleted between the stat and the read.
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: "no config file (defaults in effect)",
		}
	}

	issues := lintConfig(cfg)
	if len(issues) > 0 {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("config has %d issue(s)", len(issues)),
			Details: issues,
			FixHint: fmt.Sprintf("edit %s", path),
		}
	}

	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("valid (%s)", path),
	}
}

// lintConfig flags values the commands would reject or quietly ignore.
func lintConfig(cfg *config.Config) []string {
	var issues []string

	if cfg.Filters.HighMemoryThresholdMB < 0 {
		issues = append(issues, fmt.Sprintf("high_memory_threshold_mb is negative (%.1f)", cfg.Filters.HighMemoryThresholdMB))
	}
	if cfg.Filters.MinMemoryMB < 0 {
		issues = append(issues, fmt.Sprintf("min_memory_mb is negative (%.1f)", cfg.Filters.MinMemoryMB))
	}

	if raw := cfg.UI.RefreshInterval; raw != "" {
		d, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			issues = append(issues, fmt.Sprintf("refresh_interval %q is not a duration", raw))
		case d < time.Second:
			issues = append(issues, fmt.Sprintf("refresh_interval %s is below 1s and will hammer procfs", d))
		}
	}

	if s := cfg.UI.Sort; s != "" && !view.ValidKey(s) {
		issues = append(issues, fmt.Sprintf("unknown sort key %q (memory, cpu, pid, name, cwd)", s))
	}

	switch cfg.UI.Theme {
	case "", "auto", "dark", "light":
	default:
		issues = append(issues, fmt.Sprintf("unknown theme %q (auto, dark, light)", cfg.UI.Theme))
	}

	if port := cfg.Dashboard.Port; port < 0 || port > 65535 {
		issues = append(issues, fmt.Sprintf("dashboard port %d out of range", port))
	}

	return issues
}
