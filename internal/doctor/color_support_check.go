package doctor

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"

	"github.com/xcawolfe-amzn/procclean/internal/ui"
)

// ColorSupportCheck reports what the terminal can display and why
// color might be off. Informational: a plain terminal is a supported
// configuration, not a defect.
type ColorSupportCheck struct {
	BaseCheck
}

// NewColorSupportCheck creates the terminal color check.
func NewColorSupportCheck() *ColorSupportCheck {
	return &ColorSupportCheck{
		BaseCheck: BaseCheck{
			CheckName:        "color-support",
			CheckDescription: "Check terminal color capabilities",
			CheckCategory:    CategoryConfig,
		},
	}
}

// Run inspects the color environment.
func (c *ColorSupportCheck) Run(ctx *CheckContext) *CheckResult {
	details := []string{
		fmt.Sprintf("TERM=%s", os.Getenv("TERM")),
	}
	if colorterm := os.Getenv("COLORTERM"); colorterm != "" {
		details = append(details, fmt.Sprintf("COLORTERM=%s", colorterm))
	}

	if !ui.ShouldUseColor() {
		reasons := colorOffReasons()
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "color output disabled",
			Details: append(details, reasons...),
		}
	}

	profile := termenv.ColorProfile()
	theme := ui.GetThemeMode()
	if theme == "" {
		theme = ui.ThemeModeAuto
	}

	result := &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%s, %s theme", ui.ProfileName(profile), theme),
		Details: details,
	}
	if profile == termenv.Ascii {
		result.Status = StatusWarning
		result.Message = "terminal reports no color support"
		result.Details = append(result.Details, "the session falls back to plain text")
	}
	return result
}

func colorOffReasons() []string {
	var reasons []string
	if _, set := os.LookupEnv("NO_COLOR"); set {
		reasons = append(reasons, "NO_COLOR is set")
	}
	if os.Getenv("CLICOLOR") == "0" {
		reasons = append(reasons, "CLICOLOR=0")
	}
	if !ui.IsTerminal() {
		reasons = append(reasons, "stdout is not a terminal")
	}
	return reasons
}
