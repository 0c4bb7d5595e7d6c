// Package constants defines shared constant values used throughout procclean.
// Centralizing these magic numbers and lists keeps the CLI, TUI, and web
// surfaces in agreement.
package constants

import "time"

// Timing constants for the interactive session.
const (
	// RefreshInterval is how often the TUI re-snapshots the process table.
	RefreshInterval = 5 * time.Second

	// InputPollInterval bounds the event-loop wait so ticks are serviced
	// even when no key arrives.
	InputPollInterval = 100 * time.Millisecond

	// StatusMessageTTL is how long transient status-bar messages persist.
	StatusMessageTTL = 4 * time.Second
)

// Display limits.
const (
	// PreviewLimit is the number of sample targets shown by CLI
	// confirmations and kill previews.
	PreviewLimit = 5

	// ConfirmPreviewLimit is the number of targets listed in the TUI
	// confirmation modal.
	ConfirmPreviewLimit = 10

	// CwdMaxWidth is the display width of the CWD column.
	CwdMaxWidth = 35

	// NameMaxWidth is the display width of the process name column.
	NameMaxWidth = 25
)

// Classification defaults. Config may extend the lists or move the
// thresholds; these are the built-in values.
const (
	// HighMemoryThresholdMB marks a process as high-memory when its RSS
	// strictly exceeds this many MB.
	HighMemoryThresholdMB = 500.0

	// MinMemoryMB is the default collection floor: processes below it are
	// skipped at snapshot time. Zero disables the floor.
	MinMemoryMB = 10.0
)

// SystemExePaths are command-line prefixes that mark a process as a system
// service. Matched against the raw command line, not just the first token,
// mirroring how init-spawned services present themselves.
var SystemExePaths = []string{"/usr/lib", "/usr/libexec", "/lib"}

// CriticalServices are process names that must never be suggested for
// killing, compared case-insensitively. A false positive here only prevents
// a kill, never causes one.
var CriticalServices = []string{
	// Display/session managers
	"gnome-shell",
	"kwin",
	"kwin_x11",
	"kwin_wayland",
	"plasmashell",
	"mutter",
	// Audio
	"pipewire",
	"pipewire-pulse",
	"wireplumber",
	"pulseaudio",
	// Remote sessions
	"tmux",
	"tmux: server",
	"mosh-server",
	// Shells (login shells show up with a leading dash)
	"zsh",
	"-zsh",
	"bash",
	"-bash",
	"fish",
	"-fish",
	"ssh",
	"sshd",
	// Core system
	"systemd",
	"init",
	"dbus-daemon",
	"dbus-broker",
	// Desktop services
	"ibus-daemon",
	"gjs",
	"gnome-keyring-daemon",
}

// File and directory names for configuration and state.
const (
	// AppDirName is the per-user directory name under the OS config and
	// state roots.
	AppDirName = "procclean"

	// ConfigFileName is the TOML configuration file inside the config dir.
	ConfigFileName = "config.toml"

	// JournalFileName is the kill-batch journal inside the state dir.
	JournalFileName = "journal.json"

	// LockSuffix is appended to state files to form their flock sidecar.
	LockSuffix = ".lock"
)

// Environment variable names.
const (
	// EnvConfig overrides the config file path.
	EnvConfig = "PROCCLEAN_CONFIG"

	// EnvTheme forces the color theme: "dark", "light", or "auto".
	EnvTheme = "PROCCLEAN_THEME"

	// EnvProcRoot overrides the procfs mount point, mainly for tests.
	EnvProcRoot = "PROCCLEAN_PROC"
)

// DefaultDashboardPort is the web dashboard listen port.
const DefaultDashboardPort = 8080
