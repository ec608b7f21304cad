package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
)

func diagnostics(issues []analyzer.ScoredIssue, correlations []analyzer.Correlation) *analyzer.Diagnostics {
	return &analyzer.Diagnostics{
		SessionID:       "s-1",
		EmotionAnalysis: analyzer.EmotionAnalysis{DominantEmotion: "Anger"},
		Correlations:    correlations,
		OverallAssessment: analyzer.Assessment{
			Prioritized: issues,
			Summary:     analyzer.AssessmentSummary{TotalFrictionPoints: len(issues), CorrelatedPoints: len(correlations)},
		},
	}
}

func TestEvaluate_QuietSession(t *testing.T) {
	alerts := Evaluate(diagnostics(nil, nil), time.Unix(0, 0))
	require.Len(t, alerts, 1)
	assert.Equal(t, "info", alerts[0].Level)
	assert.Equal(t, "s-1", alerts[0].SessionID)
	assert.Contains(t, alerts[0].Message, "dominant emotion Anger")
}

func TestEvaluate_HighSeverityIsCritical(t *testing.T) {
	issues := []analyzer.ScoredIssue{
		{Type: analyzer.FrictionRageClicks, Timestamp: 1200, Level: analyzer.LevelHigh, Severity: 5},
		{Type: analyzer.FrictionScrollConfusion, Timestamp: 3000, Level: analyzer.LevelMedium, Severity: 3},
	}
	alerts := Evaluate(diagnostics(issues, nil), time.Unix(0, 0))

	require.Len(t, alerts, 2)
	assert.Equal(t, "critical", alerts[0].Level)
	assert.Equal(t, "Severe rage clicks", alerts[0].Title)
	assert.Equal(t, "Severity 5/5 at 1200ms (HIGH)", alerts[0].Message)
	assert.Equal(t, "info", alerts[1].Level)
}

func TestEvaluate_CorrelatedRageClicksWarn(t *testing.T) {
	correlations := []analyzer.Correlation{
		{FrictionPoint: analyzer.FrictionPoint{Type: analyzer.FrictionRageClicks}},
		{FrictionPoint: analyzer.FrictionPoint{Type: analyzer.FrictionScrollConfusion}},
	}
	alerts := Evaluate(diagnostics(nil, correlations), time.Unix(0, 0))

	require.Len(t, alerts, 2)
	assert.Equal(t, "warning", alerts[0].Level)
	assert.Equal(t, "1 rage click burst(s) followed by an emotion change", alerts[0].Message)
}

func TestSortAlerts(t *testing.T) {
	alerts := []Alert{
		{SessionID: "b", Level: "info"},
		{SessionID: "a", Level: "info"},
		{SessionID: "a", Level: "critical"},
		{SessionID: "a", Level: "warning"},
	}
	sortAlerts(alerts)

	got := make([]string, len(alerts))
	for i, a := range alerts {
		got[i] = a.SessionID + ":" + a.Level
	}
	assert.Equal(t, []string{"a:critical", "a:warning", "a:info", "b:info"}, got)
}

func TestEvaluate_CriticalFromHighSeverityBoundary(t *testing.T) {
	issues := []analyzer.ScoredIssue{
		{Type: analyzer.FrictionScrollConfusion, Timestamp: 10, Level: analyzer.LevelMedium, Severity: analyzer.HighSeverity},
		{Type: analyzer.FrictionScrollConfusion, Timestamp: 20, Level: analyzer.LevelMedium, Severity: analyzer.HighSeverity - 1},
	}
	alerts := Evaluate(diagnostics(issues, nil), time.Unix(0, 0))

	critical := 0
	for _, a := range alerts {
		if a.Level == "critical" {
			critical++
			assert.Contains(t, a.Message, "at 10ms")
		}
	}
	assert.Equal(t, 1, critical)
}
