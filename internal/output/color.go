// Package output provides styled terminal rendering for uxpulse reports.
package output

import "github.com/charmbracelet/lipgloss"

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for calm states and low severities.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for high severities and negative emotions.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for medium severities.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style
	StyleLabel   lipgloss.Style
	StyleValue   lipgloss.Style
)

// noColor tracks whether color output is disabled.
var noColor bool

func init() {
	applyStyles(false)
}

// SetNoColor disables or enables color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

func applyStyles(plain bool) {
	base := lipgloss.NewStyle()
	StyleLabel = base.Width(26)
	if plain {
		StyleHeader = base
		StyleSuccess = base
		StyleError = base
		StyleWarning = base
		StyleMuted = base
		StyleBold = base
		StyleValue = base.Width(12)
		return
	}
	StyleHeader = base.Foreground(ColorPrimary).Bold(true)
	StyleSuccess = base.Foreground(ColorSuccess)
	StyleError = base.Foreground(ColorError)
	StyleWarning = base.Foreground(ColorWarning)
	StyleMuted = base.Foreground(ColorMuted)
	StyleBold = base.Bold(true)
	StyleValue = base.Bold(true).Width(12)
}
