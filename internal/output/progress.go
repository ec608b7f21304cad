package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SeverityBar renders a 1-5 severity score as a bar, colored by how bad it is.
// Example: "■■■■□ 4/5"
func SeverityBar(score, scale int) string {
	if scale <= 0 {
		scale = 5
	}
	filled := min(max(score, 0), scale)
	bar := strings.Repeat("■", filled) + strings.Repeat("□", scale-filled)
	return fmt.Sprintf("%s %s", severityStyle(score, scale).Render(bar),
		StyleMuted.Render(fmt.Sprintf("%d/%d", score, scale)))
}

func severityStyle(score, scale int) lipgloss.Style {
	switch {
	case score*5 >= scale*4:
		return StyleError
	case score*5 >= scale*3:
		return StyleWarning
	default:
		return StyleSuccess
	}
}

// LevelBadge styles a LOW / MEDIUM / HIGH classification.
func LevelBadge(level string) string {
	switch strings.ToUpper(level) {
	case "HIGH":
		return StyleError.Render(level)
	case "MEDIUM":
		return StyleWarning.Render(level)
	default:
		return StyleSuccess.Render(level)
	}
}

// PercentBar renders a 0-100 share as a fixed-width bar.
// Example: "██████░░░░ 60.0%"
func PercentBar(pct float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((pct / 100.0) * float64(width))
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s", StyleHeader.Render(bar), StyleMuted.Render(fmt.Sprintf("%.1f%%", pct)))
}

// Section returns a styled section header with a horizontal rule of the
// given width.
func Section(title string, width int) string {
	if width <= 0 {
		width = 66
	}
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", width))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// KeyValue renders a label/value pair aligned on the label column.
func KeyValue(label, value string) string {
	return fmt.Sprintf(" %s%s", StyleLabel.Render(label), value)
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
// higherIsBetter decides whether the move is colored as an improvement.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := isPositive == higherIsBetter

	arrow := fmt.Sprintf("▼ %g", delta)
	if isPositive {
		arrow = fmt.Sprintf("▲ +%g", delta)
	}
	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}
