package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/output"
)

var compareCmd = &cobra.Command{
	Use:   "compare <before-id> <after-id>",
	Short: "Compare two saved analyses",
	Long: `Show how the headline numbers moved between two saved analyses, for
example the same flow before and after a design change.

Example:
  uxpulse history compare 3f1c... 9a2e...`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	historyCmd.AddCommand(compareCmd)
}

// metricDelta is the change in one headline number between two analyses.
type metricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}

// comparison is the JSON-serializable result of the compare command.
type comparison struct {
	Before string        `json:"before"`
	After  string        `json:"after"`
	Deltas []metricDelta `json:"deltas"`
}

// headlineMetrics are compared in this order. Every one of them is better
// when lower.
var headlineMetrics = []struct {
	name  string
	value func(d *analyzer.Diagnostics) float64
}{
	{"friction_points", func(d *analyzer.Diagnostics) float64 { return float64(d.OverallAssessment.Summary.TotalFrictionPoints) }},
	{"rage_clicks", func(d *analyzer.Diagnostics) float64 { return float64(d.OverallAssessment.Summary.RageClicks) }},
	{"scroll_confusions", func(d *analyzer.Diagnostics) float64 { return float64(d.OverallAssessment.Summary.ScrollConfusions) }},
	{"correlated_points", func(d *analyzer.Diagnostics) float64 { return float64(d.OverallAssessment.Summary.CorrelatedPoints) }},
	{"high_severity_issues", func(d *analyzer.Diagnostics) float64 { return float64(d.OverallAssessment.Summary.HighSeverityIssues) }},
	{"max_severity", func(d *analyzer.Diagnostics) float64 { return float64(d.OverallAssessment.Summary.MaxSeverity) }},
	{"emotion_changes", func(d *analyzer.Diagnostics) float64 { return float64(len(d.EmotionAnalysis.EmotionChanges)) }},
	{"negative_emotion_share", func(d *analyzer.Diagnostics) float64 { return d.EmotionAnalysis.StressIndicators.NegativeEmotionFrequency }},
	{"emotional_volatility", func(d *analyzer.Diagnostics) float64 { return d.EmotionAnalysis.StressIndicators.EmotionalVolatility }},
}

func computeDeltas(prev, curr *analyzer.Diagnostics) []metricDelta {
	deltas := make([]metricDelta, 0, len(headlineMetrics))
	for _, m := range headlineMetrics {
		p, c := m.value(prev), m.value(curr)
		delta := c - p

		direction := "unchanged"
		switch {
		case delta < 0:
			direction = "improved"
		case delta > 0:
			direction = "regressed"
		}
		deltas = append(deltas, metricDelta{Name: m.name, Previous: p, Current: c, Delta: delta, Direction: direction})
	}
	return deltas
}

func runCompare(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	before, err := db.GetAnalysis(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	after, err := db.GetAnalysis(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	deltas := computeDeltas(before.Result, after.Result)
	if flagJSON {
		return writeJSON(comparison{Before: before.ID, After: after.ID, Deltas: deltas})
	}

	fmt.Println(output.Section("Comparison", cfg.Output.Width))
	fmt.Printf(" %s  %s (%s)\n", output.StyleMuted.Render("before"), before.SessionID, before.AnalyzedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf(" %s   %s (%s)\n\n", output.StyleMuted.Render("after"), after.SessionID, after.AnalyzedAt.Local().Format("2006-01-02 15:04"))

	tbl := output.NewTable("Metric", "Before", "After", "Trend")
	for _, d := range deltas {
		tbl.AddRow(d.Name, fmt.Sprintf("%.2f", d.Previous), fmt.Sprintf("%.2f", d.Current), output.TrendArrow(d.Delta, false))
	}
	return tbl.Fprint(os.Stdout)
}
