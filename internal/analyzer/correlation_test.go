package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rage(ts int64) FrictionPoint {
	return FrictionPoint{Type: FrictionRageClicks, Timestamp: ts, Severity: LevelHigh, ClickCount: 3}
}

func confusion(ts int64, reversals int) FrictionPoint {
	return FrictionPoint{Type: FrictionScrollConfusion, Timestamp: ts, Severity: LevelMedium, DirectionChanges: reversals}
}

func changeAt(ts int64) EmotionChange {
	return EmotionChange{From: "Neutral", To: "Anger", Timestamp: ts, ConfidenceChange: 0.4}
}

func TestCorrelate_WindowBoundaryIsInclusive(t *testing.T) {
	e := newEngine(t)

	corr := e.Correlate([]FrictionPoint{rage(1000)}, []EmotionChange{changeAt(6000)})
	require.Len(t, corr, 1)
	assert.Equal(t, int64(5000), corr[0].TimeGap)

	corr = e.Correlate([]FrictionPoint{rage(1000)}, []EmotionChange{changeAt(6001)})
	assert.NotNil(t, corr)
	assert.Empty(t, corr)
}

func TestCorrelate_ChangeBeforeFriction(t *testing.T) {
	corr := newEngine(t).Correlate([]FrictionPoint{rage(10000)}, []EmotionChange{changeAt(6000)})
	require.Len(t, corr, 1)
	assert.Equal(t, int64(4000), corr[0].TimeGap)
}

func TestCorrelate_MinimumGapAcrossResponses(t *testing.T) {
	corr := newEngine(t).Correlate(
		[]FrictionPoint{rage(10000)},
		[]EmotionChange{changeAt(7000), changeAt(11000), changeAt(20000)},
	)
	require.Len(t, corr, 1)
	assert.Len(t, corr[0].EmotionalResponses, 2)
	assert.Equal(t, int64(1000), corr[0].TimeGap)
}

func TestCorrelate_UnmatchedPointsAreOmitted(t *testing.T) {
	corr := newEngine(t).Correlate(
		[]FrictionPoint{rage(0), confusion(10000, 3), rage(50000)},
		[]EmotionChange{changeAt(12000)},
	)
	require.Len(t, corr, 1)
	assert.Equal(t, FrictionScrollConfusion, corr[0].FrictionPoint.Type)
	assert.Equal(t, int64(2000), corr[0].TimeGap)
}

func TestScoreIssues(t *testing.T) {
	calm := StressIndicators{}
	stressed := StressIndicators{EmotionalVolatility: 1, NegativeEmotionFrequency: 0.5}

	cases := []struct {
		name   string
		point  FrictionPoint
		stress StressIndicators
		want   int
	}{
		{"rage calm", rage(0), calm, 4},
		{"few reversals calm", confusion(0, 3), calm, 3},
		{"many reversals calm", confusion(0, 6), calm, 4},
		{"reversals at escalation limit", confusion(0, 5), calm, 3},
		{"volatile only", confusion(0, 3), StressIndicators{EmotionalVolatility: 0.6}, 4},
		{"negative only", confusion(0, 3), StressIndicators{NegativeEmotionFrequency: 0.31}, 4},
		{"boundary stress is not escalated", confusion(0, 3), StressIndicators{EmotionalVolatility: 0.5, NegativeEmotionFrequency: 0.3}, 3},
		{"rage stressed clamps", rage(0), stressed, 5},
		{"scroll stressed", confusion(0, 6), stressed, 5},
	}
	e := newEngine(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := e.ScoreIssues([]FrictionPoint{tc.point}, tc.stress)
			require.Len(t, issues, 1)
			assert.Equal(t, tc.want, issues[0].Severity)
			assert.Equal(t, tc.point.Severity, issues[0].Level)
		})
	}
}

func TestScoreIssues_AlwaysWithinRange(t *testing.T) {
	e := newEngine(t)
	points := []FrictionPoint{rage(0), confusion(1, 0), confusion(2, 100), {Type: "UNKNOWN"}}
	for _, vol := range []float64{0, 0.5, 0.51, 100} {
		for _, neg := range []float64{0, 0.3, 0.31, 1} {
			for _, is := range e.ScoreIssues(points, StressIndicators{EmotionalVolatility: vol, NegativeEmotionFrequency: neg}) {
				assert.GreaterOrEqual(t, is.Severity, 1)
				assert.LessOrEqual(t, is.Severity, 5)
			}
		}
	}
}

func TestIntegrate_PrioritizesStably(t *testing.T) {
	points := []FrictionPoint{confusion(1, 3), rage(2), confusion(3, 3), rage(4)}
	in := newEngine(t).Integrate(points, []EmotionChange{changeAt(3)}, StressIndicators{})

	var order []int64
	for _, is := range in.OverallAssessment.Prioritized {
		order = append(order, is.Timestamp)
	}
	assert.Equal(t, []int64{2, 4, 1, 3}, order)

	// IssuesSeverity keeps detection order.
	assert.Equal(t, int64(1), in.IssuesSeverity[0].Timestamp)

	s := in.OverallAssessment.Summary
	assert.Equal(t, 4, s.TotalFrictionPoints)
	assert.Equal(t, 2, s.RageClicks)
	assert.Equal(t, 2, s.ScrollConfusions)
	assert.Equal(t, 4, s.CorrelatedPoints)
	assert.Equal(t, 1, s.EmotionChanges)
	assert.Equal(t, 2, s.HighSeverityIssues)
	assert.Equal(t, 4, s.MaxSeverity)
}

func TestIntegrate_NoFriction(t *testing.T) {
	in := newEngine(t).Integrate(nil, []EmotionChange{changeAt(0)}, StressIndicators{EmotionalVolatility: 9})
	assert.Empty(t, in.Correlations)
	assert.Empty(t, in.IssuesSeverity)
	assert.Empty(t, in.OverallAssessment.Prioritized)
	assert.Zero(t, in.OverallAssessment.Summary.MaxSeverity)
}
