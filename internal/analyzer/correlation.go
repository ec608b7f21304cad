package analyzer

import "sort"

const (
	baseSeverity = 3
	minSeverity  = 1
)

// Issue severity scale.
const (
	// MaxSeverity is the top of the 1-5 issue severity scale.
	MaxSeverity = 5

	// HighSeverity is the score from which an issue counts as high
	// severity.
	HighSeverity = 4
)

// Integrate correlates friction points with emotion changes, scores every
// friction point against the stress indicators and builds the overall
// assessment.
func (e *Engine) Integrate(points []FrictionPoint, changes []EmotionChange, stress StressIndicators) Integration {
	correlations := e.Correlate(points, changes)
	issues := e.ScoreIssues(points, stress)
	return Integration{
		Correlations:      correlations,
		IssuesSeverity:    issues,
		OverallAssessment: assess(points, changes, correlations, issues),
	}
}

// Correlate pairs each friction point with the emotion changes within the
// correlation window, inclusive. Friction points without a match are left
// out of the result.
func (e *Engine) Correlate(points []FrictionPoint, changes []EmotionChange) []Correlation {
	correlations := make([]Correlation, 0)
	for _, fp := range points {
		var (
			related []EmotionChange
			minGap  int64
		)
		for _, c := range changes {
			gap := absDiff(c.Timestamp, fp.Timestamp)
			if gap > e.th.CorrelationWindowMs {
				continue
			}
			if len(related) == 0 || gap < minGap {
				minGap = gap
			}
			related = append(related, c)
		}
		if len(related) == 0 {
			continue
		}
		correlations = append(correlations, Correlation{
			FrictionPoint:      fp,
			EmotionalResponses: related,
			TimeGap:            minGap,
		})
	}
	return correlations
}

// ScoreIssues assigns every friction point a 1-5 severity, in detection
// order.
func (e *Engine) ScoreIssues(points []FrictionPoint, stress StressIndicators) []ScoredIssue {
	issues := make([]ScoredIssue, 0, len(points))
	for _, fp := range points {
		issues = append(issues, ScoredIssue{
			Type:             fp.Type,
			Timestamp:        fp.Timestamp,
			Location:         fp.Location,
			Level:            fp.Severity,
			Severity:         e.issueSeverity(fp, stress),
			ClickCount:       fp.ClickCount,
			DirectionChanges: fp.DirectionChanges,
		})
	}
	return issues
}

func (e *Engine) issueSeverity(fp FrictionPoint, stress StressIndicators) int {
	score := baseSeverity
	if stress.EmotionalVolatility > e.th.Severity.Volatility {
		score++
	}
	if stress.NegativeEmotionFrequency > e.th.Severity.NegativeFrequency {
		score++
	}
	switch fp.Type {
	case FrictionRageClicks:
		score++
	case FrictionScrollConfusion:
		if fp.DirectionChanges > e.th.Severity.ScrollReversals {
			score++
		}
	}
	return min(max(score, minSeverity), MaxSeverity)
}

func assess(points []FrictionPoint, changes []EmotionChange, correlations []Correlation, issues []ScoredIssue) Assessment {
	prioritized := make([]ScoredIssue, len(issues))
	copy(prioritized, issues)
	sort.SliceStable(prioritized, func(i, j int) bool {
		return prioritized[i].Severity > prioritized[j].Severity
	})

	summary := AssessmentSummary{
		TotalFrictionPoints: len(points),
		CorrelatedPoints:    len(correlations),
		EmotionChanges:      len(changes),
	}
	for _, fp := range points {
		switch fp.Type {
		case FrictionRageClicks:
			summary.RageClicks++
		case FrictionScrollConfusion:
			summary.ScrollConfusions++
		}
	}
	for _, is := range issues {
		if is.Severity >= HighSeverity {
			summary.HighSeverityIssues++
		}
		summary.MaxSeverity = max(summary.MaxSeverity, is.Severity)
	}

	return Assessment{Prioritized: prioritized, Summary: summary}
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
