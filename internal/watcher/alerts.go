package watcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
)

// Evaluate turns one session's diagnostics into alerts: critical for each
// high-severity issue, warning for rage clicks met with a negative
// reaction, and an info summary for every analyzed session.
func Evaluate(d *analyzer.Diagnostics, now time.Time) []Alert {
	var alerts []Alert
	sum := d.OverallAssessment.Summary

	for _, is := range d.OverallAssessment.Prioritized {
		if is.Severity < analyzer.HighSeverity {
			continue
		}
		alerts = append(alerts, Alert{
			Level:     "critical",
			SessionID: d.SessionID,
			Title:     fmt.Sprintf("Severe %s", describe(is.Type)),
			Message:   fmt.Sprintf("Severity %d/%d at %dms (%s)", is.Severity, analyzer.MaxSeverity, is.Timestamp, is.Level),
			Time:      now,
		})
	}

	correlatedRage := 0
	for _, c := range d.Correlations {
		if c.FrictionPoint.Type == analyzer.FrictionRageClicks {
			correlatedRage++
		}
	}
	if correlatedRage > 0 {
		alerts = append(alerts, Alert{
			Level:     "warning",
			SessionID: d.SessionID,
			Title:     "Frustrated clicking",
			Message:   fmt.Sprintf("%d rage click burst(s) followed by an emotion change", correlatedRage),
			Time:      now,
		})
	}

	alerts = append(alerts, Alert{
		Level:     "info",
		SessionID: d.SessionID,
		Title:     "Session analyzed",
		Message: fmt.Sprintf("%d friction point(s), %d correlated, dominant emotion %s",
			sum.TotalFrictionPoints, sum.CorrelatedPoints, d.EmotionAnalysis.DominantEmotion),
		Time: now,
	})
	return alerts
}

func describe(t analyzer.FrictionType) string {
	switch t {
	case analyzer.FrictionRageClicks:
		return "rage clicks"
	case analyzer.FrictionScrollConfusion:
		return "scroll confusion"
	default:
		return string(t)
	}
}

var levelRank = map[string]int{"critical": 0, "warning": 1, "info": 2}

// sortAlerts orders alerts by session, then by level, critical first.
func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].SessionID != alerts[j].SessionID {
			return alerts[i].SessionID < alerts[j].SessionID
		}
		return levelRank[alerts[i].Level] < levelRank[alerts[j].Level]
	})
}
