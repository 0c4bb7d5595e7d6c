// Package config provides configuration loading for procclean.
//
// Configuration lives in a single TOML file. A missing file is not an
// error: every getter is nil-safe and falls back to the built-in
// defaults, so the zero state of a fresh install needs no setup.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/xcawolfe-amzn/procclean/internal/constants"
)

// Config represents the procclean configuration file.
type Config struct {
	// Filters tunes classification thresholds and rule lists.
	Filters FiltersConfig `toml:"filters"`

	// UI tunes the interactive session.
	UI UIConfig `toml:"ui"`

	// Dashboard configures the web dashboard.
	Dashboard DashboardConfig `toml:"dashboard"`
}

// FiltersConfig tunes classification thresholds and rule lists.
type FiltersConfig struct {
	// HighMemoryThresholdMB marks processes above it as high-memory.
	HighMemoryThresholdMB float64 `toml:"high_memory_threshold_mb"`

	// MinMemoryMB is the snapshot collection floor.
	MinMemoryMB float64 `toml:"min_memory_mb"`

	// ExtraCriticalServices extends the built-in protected name list.
	ExtraCriticalServices []string `toml:"extra_critical_services"`

	// ExtraSystemPaths extends the built-in system path prefixes.
	ExtraSystemPaths []string `toml:"extra_system_paths"`
}

// UIConfig tunes the interactive session.
type UIConfig struct {
	// RefreshInterval is the snapshot refresh period, e.g. "5s".
	RefreshInterval string `toml:"refresh_interval"`

	// Sort is the initial sort key: memory, cpu, pid, name, or cwd.
	Sort string `toml:"sort"`

	// Columns is the list command's default column set.
	Columns []string `toml:"columns"`

	// Theme forces the color theme: "auto", "dark", or "light".
	Theme string `toml:"theme"`
}

// DashboardConfig configures the web dashboard.
type DashboardConfig struct {
	// Port is the HTTP listen port.
	Port int `toml:"port"`
}

// Path returns the config file location. PROCCLEAN_CONFIG overrides the
// default ~/.config/procclean/config.toml.
func Path() (string, error) {
	if env := os.Getenv(constants.EnvConfig); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", constants.AppDirName, constants.ConfigFileName), nil
}

// Load loads the procclean configuration.
// Returns nil config and nil error if the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the config from a specific path.
// Returns nil config and nil error if the file doesn't exist.
func LoadFromPath(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// GetHighMemoryThresholdMB returns the configured threshold or the default.
func (c *Config) GetHighMemoryThresholdMB() float64 {
	if c != nil && c.Filters.HighMemoryThresholdMB > 0 {
		return c.Filters.HighMemoryThresholdMB
	}
	return constants.HighMemoryThresholdMB
}

// GetMinMemoryMB returns the configured collection floor or the default.
func (c *Config) GetMinMemoryMB() float64 {
	if c != nil && c.Filters.MinMemoryMB > 0 {
		return c.Filters.MinMemoryMB
	}
	return constants.MinMemoryMB
}

// GetCriticalServices returns the built-in protected names plus any
// configured extras.
func (c *Config) GetCriticalServices() []string {
	services := append([]string(nil), constants.CriticalServices...)
	if c != nil {
		services = append(services, c.Filters.ExtraCriticalServices...)
	}
	return services
}

// GetSystemPaths returns the built-in system path prefixes plus any
// configured extras.
func (c *Config) GetSystemPaths() []string {
	paths := append([]string(nil), constants.SystemExePaths...)
	if c != nil {
		paths = append(paths, c.Filters.ExtraSystemPaths...)
	}
	return paths
}

// GetRefreshInterval returns the configured refresh period or the default.
// Invalid or non-positive durations fall back to the default.
func (c *Config) GetRefreshInterval() time.Duration {
	if c == nil || c.UI.RefreshInterval == "" {
		return constants.RefreshInterval
	}
	d, err := time.ParseDuration(c.UI.RefreshInterval)
	if err != nil || d <= 0 {
		return constants.RefreshInterval
	}
	return d
}

// GetSort returns the configured initial sort key, or empty for the
// built-in default.
func (c *Config) GetSort() string {
	if c != nil {
		return c.UI.Sort
	}
	return ""
}

// GetColumns returns the configured default column set, or nil for the
// built-in default.
func (c *Config) GetColumns() []string {
	if c != nil && len(c.UI.Columns) > 0 {
		return c.UI.Columns
	}
	return nil
}

// GetTheme returns the configured theme, or empty for auto-detection.
func (c *Config) GetTheme() string {
	if c != nil {
		return c.UI.Theme
	}
	return ""
}

// GetDashboardPort returns the configured dashboard port or the default.
func (c *Config) GetDashboardPort() int {
	if c != nil && c.Dashboard.Port > 0 {
		return c.Dashboard.Port
	}
	return constants.DefaultDashboardPort
}
