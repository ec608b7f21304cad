package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/output"
)

// maxHotspots caps the click heatmap rows in the report.
const maxHotspots = 5

// renderDiagnostics writes the human-readable report for one session.
func renderDiagnostics(w io.Writer, d *analyzer.Diagnostics, width int) {
	var sb strings.Builder
	sum := d.OverallAssessment.Summary

	title := "Session"
	if d.SessionID != "" {
		title = "Session " + d.SessionID
	}
	fmt.Fprintln(&sb, output.Section(title, width))
	fmt.Fprintln(&sb, output.KeyValue("Friction points", strconv.Itoa(sum.TotalFrictionPoints)))
	fmt.Fprintln(&sb, output.KeyValue("  Rage clicks", strconv.Itoa(sum.RageClicks)))
	fmt.Fprintln(&sb, output.KeyValue("  Scroll confusion", strconv.Itoa(sum.ScrollConfusions)))
	fmt.Fprintln(&sb, output.KeyValue("Correlated with emotion", strconv.Itoa(sum.CorrelatedPoints)))
	fmt.Fprintln(&sb, output.KeyValue("High severity issues", strconv.Itoa(sum.HighSeverityIssues)))
	if sum.TotalFrictionPoints > 0 {
		fmt.Fprintln(&sb, output.KeyValue("Worst severity", output.SeverityBar(sum.MaxSeverity, analyzer.MaxSeverity)))
	}

	if len(d.OverallAssessment.Prioritized) > 0 {
		fmt.Fprintln(&sb, output.Section("Issues by severity", width))
		tbl := output.NewTable("Type", "At", "Location", "Level", "Severity")
		for _, is := range d.OverallAssessment.Prioritized {
			tbl.AddRow(string(is.Type), formatMs(is.Timestamp), formatLocation(is.Location),
				output.LevelBadge(string(is.Level)), output.SeverityBar(is.Severity, analyzer.MaxSeverity))
		}
		sb.WriteString(indent(tbl.Render()))
	}

	if len(d.Correlations) > 0 {
		fmt.Fprintln(&sb, output.Section("Emotional responses", width))
		tbl := output.NewTable("Friction", "At", "Responses", "Closest")
		for _, c := range d.Correlations {
			changes := make([]string, len(c.EmotionalResponses))
			for i, ch := range c.EmotionalResponses {
				changes[i] = ch.From + "→" + ch.To
			}
			tbl.AddRow(string(c.FrictionPoint.Type), formatMs(c.FrictionPoint.Timestamp),
				strings.Join(changes, ", "), formatMs(c.TimeGap))
		}
		sb.WriteString(indent(tbl.Render()))
	}

	renderEmotion(&sb, d.EmotionAnalysis, width)
	renderEngagement(&sb, d.Engagement, width)

	fmt.Fprint(w, sb.String())
}

func renderEmotion(sb *strings.Builder, ea analyzer.EmotionAnalysis, width int) {
	fmt.Fprintln(sb, output.Section("Emotion", width))
	fmt.Fprintln(sb, output.KeyValue("Dominant emotion", output.StyleBold.Render(ea.DominantEmotion)))
	fmt.Fprintln(sb, output.KeyValue("Changes", strconv.Itoa(len(ea.EmotionChanges))))
	fmt.Fprintln(sb, output.KeyValue("Volatility", fmt.Sprintf("%.2f per 60 samples", ea.StressIndicators.EmotionalVolatility)))
	fmt.Fprintln(sb, output.KeyValue("Negative share", fmt.Sprintf("%.0f%%", ea.StressIndicators.NegativeEmotionFrequency*100)))
	fmt.Fprintln(sb, output.KeyValue("Rapid changes", strconv.Itoa(ea.StressIndicators.RapidChanges)))

	if len(ea.EmotionDistribution) > 0 {
		fmt.Fprintln(sb)
		for _, share := range ea.EmotionDistribution {
			fmt.Fprintln(sb, output.KeyValue("  "+share.Emotion, output.PercentBar(share.Percentage, 20)))
		}
	}
}

func renderEngagement(sb *strings.Builder, em analyzer.EngagementMetrics, width int) {
	if len(em.AveragePageDuration) > 0 {
		fmt.Fprintln(sb, output.Section("Pages", width))
		tbl := output.NewTable("Path", "Views", "Avg duration")
		for _, p := range em.AveragePageDuration {
			avg := "-"
			if p.AverageDuration != nil {
				avg = formatMs(int64(*p.AverageDuration))
			}
			tbl.AddRow(p.Path, strconv.Itoa(p.Views), avg)
		}
		sb.WriteString(indent(tbl.Render()))
	}

	var moods []analyzer.PageEmotion
	for _, pe := range em.PageEmotions {
		if pe.DominantEmotion != "" {
			moods = append(moods, pe)
		}
	}
	if len(moods) > 0 {
		fmt.Fprintln(sb, output.Section("Page emotions", width))
		tbl := output.NewTable("Path", "Emotion", "Confidence", "")
		for _, pe := range moods {
			flag := ""
			if pe.Problematic {
				flag = output.StyleWarning.Render("problematic")
			}
			tbl.AddRow(pe.Path, pe.DominantEmotion, fmt.Sprintf("%.0f%%", pe.Confidence*100), flag)
		}
		sb.WriteString(indent(tbl.Render()))
	}

	if len(em.ClickHeatmap) > 0 {
		fmt.Fprintln(sb, output.Section("Click hotspots", width))
		tbl := output.NewTable("Position", "Clicks")
		for _, c := range em.ClickHeatmap[:min(len(em.ClickHeatmap), maxHotspots)] {
			tbl.AddRow(fmt.Sprintf("(%g, %g)", c.X, c.Y), strconv.Itoa(c.Clicks))
		}
		sb.WriteString(indent(tbl.Render()))
	}

	if len(em.Navigation) > 0 {
		fmt.Fprintln(sb, output.Section("Navigation", width))
		tbl := output.NewTable("#", "Path", "Entered", "Stayed")
		for i, step := range em.Navigation {
			stayed := output.StyleMuted.Render("open")
			if step.Duration != nil {
				stayed = formatMs(*step.Duration)
			}
			tbl.AddRow(strconv.Itoa(i+1), step.Path, formatMs(step.Start), stayed)
		}
		sb.WriteString(indent(tbl.Render()))
	}

	total := 0
	for _, b := range em.ScrollDepthDistribution {
		total += b.Count
	}
	if total > 0 {
		fmt.Fprintln(sb, output.Section("Scroll depth", width))
		lower := 0
		for _, b := range em.ScrollDepthDistribution {
			label := fmt.Sprintf("  %d-%d%%", lower, b.Range)
			fmt.Fprintln(sb, output.KeyValue(label, output.PercentBar(float64(b.Count)/float64(total)*100, 20)))
			lower = b.Range
		}
	}

	if len(em.HoverDwell) > 0 {
		fmt.Fprintln(sb, output.Section("Hover dwell", width))
		tbl := output.NewTable("Element", "Hovers", "Total")
		for _, h := range em.HoverDwell {
			tbl.AddRow(h.Element, strconv.Itoa(h.Hovers), formatMs(int64(h.TotalDuration)))
		}
		sb.WriteString(indent(tbl.Render()))
	}

	if len(em.InteractionFrequency) > 0 {
		fmt.Fprintln(sb, output.Section("Activity per window", width))
		tbl := output.NewTable("Window", "Clicks", "Scrolls", "Moves")
		for i, wc := range em.InteractionFrequency {
			tbl.AddRow(strconv.Itoa(i+1), strconv.Itoa(wc.Clicks), strconv.Itoa(wc.Scrolls), strconv.Itoa(wc.Mousemoves))
		}
		sb.WriteString(indent(tbl.Render()))
	}
}

// formatMs renders a millisecond offset compactly: 850ms, 12.4s, 3m05s.
func formatMs(ms int64) string {
	switch {
	case ms < 0:
		return "-" + formatMs(-ms)
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	default:
		return fmt.Sprintf("%dm%02ds", ms/60_000, (ms%60_000)/1000)
	}
}

func formatLocation(l analyzer.Location) string {
	switch {
	case l.Position != nil:
		return fmt.Sprintf("(%g, %g)", l.Position.X, l.Position.Y)
	case l.Depth != nil:
		return fmt.Sprintf("depth %g%%", *l.Depth)
	default:
		return "-"
	}
}

// indent shifts every line of a rendered table under the section rule.
func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(line)
	}
	return sb.String()
}
