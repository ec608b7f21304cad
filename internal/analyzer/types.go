// Package analyzer is the behavior-emotion correlation engine: friction
// detection, engagement aggregation, emotion dynamics and severity-scored
// correlation over one session's events.
package analyzer

import (
	"encoding/json"
	"time"

	"github.com/blackwell-systems/uxpulse/internal/event"
)

// FrictionType names a detected usability pattern.
type FrictionType string

// Friction types.
const (
	FrictionRageClicks      FrictionType = "RAGE_CLICKS"
	FrictionScrollConfusion FrictionType = "SCROLL_CONFUSION"
)

// Level is the detector's coarse severity for a friction point.
type Level string

// Severity levels.
const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Location is where a friction point happened: a pointer position for rage
// clicks, a scroll depth for scroll confusion. It encodes to JSON as either a
// position object or a bare number.
type Location struct {
	Position *event.Position
	Depth    *float64
}

// MarshalJSON implements json.Marshaler.
func (l Location) MarshalJSON() ([]byte, error) {
	switch {
	case l.Position != nil:
		return json.Marshal(l.Position)
	case l.Depth != nil:
		return json.Marshal(*l.Depth)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Location) UnmarshalJSON(data []byte) error {
	*l = Location{}
	if string(data) == "null" {
		return nil
	}
	var depth float64
	if err := json.Unmarshal(data, &depth); err == nil {
		l.Depth = &depth
		return nil
	}
	var pos event.Position
	if err := json.Unmarshal(data, &pos); err != nil {
		return err
	}
	l.Position = &pos
	return nil
}

// FrictionPoint is a detected usability incident.
type FrictionPoint struct {
	Type      FrictionType `json:"type"`
	Timestamp int64        `json:"timestamp"`
	Location  Location     `json:"location"`
	Severity  Level        `json:"severity"`

	// ClickCount is the size of a rage-click group.
	ClickCount int `json:"clickCount,omitempty"`

	// DirectionChanges is the reversal count when a scroll-confusion point
	// was emitted. Severity scoring reads it.
	DirectionChanges int `json:"directionChanges,omitempty"`
}

// EngagementMetrics is the aggregate engagement view of a session.
type EngagementMetrics struct {
	AveragePageDuration     []PageDuration   `json:"averagePageDuration"`
	PageEmotions            []PageEmotion    `json:"pageEmotions"`
	ScrollDepthDistribution []DepthBucket    `json:"scrollDepthDistribution"`
	InteractionFrequency    []WindowCounts   `json:"interactionFrequency"`
	Navigation              []NavigationStep `json:"navigation"`
	HoverDwell              []HoverDwell     `json:"hoverDwell"`
	ClickHeatmap            []HeatCell       `json:"clickHeatmap"`
}

// PageDuration is the mean time spent on a path. AverageDuration is nil when
// none of the path's page views carried a duration.
type PageDuration struct {
	Path            string   `json:"path"`
	AverageDuration *float64 `json:"averageDuration"`
	Views           int      `json:"views"`
}

// PageEmotion is the emotion most often tagged on a path's page views.
// Confidence is that emotion's mean confidence. DominantEmotion is empty
// when no page view of the path carried a tag.
type PageEmotion struct {
	Path            string  `json:"path"`
	Views           int     `json:"views"`
	DominantEmotion string  `json:"dominantEmotion,omitempty"`
	Confidence      float64 `json:"confidence"`
	Problematic     bool    `json:"problematic"`
}

// HeatCell is the number of clicks landing on one position.
type HeatCell struct {
	event.Position
	Clicks int `json:"clicks"`
}

// DepthBucket counts scroll events whose depth is at most Range and above the
// previous bucket's boundary.
type DepthBucket struct {
	Range int `json:"range"`
	Count int `json:"count"`
}

// WindowCounts is the number of interactions in one engagement window.
type WindowCounts struct {
	Clicks     int `json:"clicks"`
	Scrolls    int `json:"scrolls"`
	Mousemoves int `json:"mousemoves"`
}

// NavigationStep is one page visit bounded by the next page view. End and
// Duration are nil for the page still open at the end of the batch.
type NavigationStep struct {
	Path     string `json:"path"`
	Start    int64  `json:"start"`
	End      *int64 `json:"end"`
	Duration *int64 `json:"duration"`
}

// HoverDwell is the accumulated hover time over one element.
type HoverDwell struct {
	Element       string  `json:"element"`
	Hovers        int     `json:"hovers"`
	TotalDuration float64 `json:"totalDuration"`
}

// EmotionChange is a detected transition between emotion labels.
type EmotionChange struct {
	From             string  `json:"from"`
	To               string  `json:"to"`
	Timestamp        int64   `json:"timestamp"`
	ConfidenceChange float64 `json:"confidenceChange"`
}

// StressIndicators summarize emotional instability over a session.
type StressIndicators struct {
	// EmotionalVolatility is changes per 60 samples.
	EmotionalVolatility      float64 `json:"emotionalVolatility"`
	NegativeEmotionFrequency float64 `json:"negativeEmotionFrequency"`
	RapidChanges             int     `json:"rapidChanges"`
}

// EmotionShare is one label's share of the sample batch.
type EmotionShare struct {
	Emotion    string  `json:"emotion"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// EmotionSummary is a frequently observed label with its mean confidence.
type EmotionSummary struct {
	Emotion           string  `json:"emotion"`
	Count             int     `json:"count"`
	AverageConfidence float64 `json:"averageConfidence"`
}

// EmotionAnalysis is the result of analyzing one emotion sample batch.
type EmotionAnalysis struct {
	DominantEmotion     string           `json:"dominantEmotion"`
	EmotionChanges      []EmotionChange  `json:"emotionChanges"`
	StressIndicators    StressIndicators `json:"stressIndicators"`
	EmotionDistribution []EmotionShare   `json:"emotionDistribution"`
	TopEmotions         []EmotionSummary `json:"topEmotions"`
}

// Correlation links a friction point to the emotion changes near it.
type Correlation struct {
	FrictionPoint      FrictionPoint   `json:"frictionPoint"`
	EmotionalResponses []EmotionChange `json:"emotionalResponses"`
	// TimeGap is the smallest absolute gap in milliseconds.
	TimeGap int64 `json:"timeGap"`
}

// ScoredIssue is a friction point with its 1-5 severity score. Level keeps
// the detector's original classification.
type ScoredIssue struct {
	Type             FrictionType `json:"type"`
	Timestamp        int64        `json:"timestamp"`
	Location         Location     `json:"location"`
	Level            Level        `json:"level"`
	Severity         int          `json:"severity"`
	ClickCount       int          `json:"clickCount,omitempty"`
	DirectionChanges int          `json:"directionChanges,omitempty"`
}

// Assessment is the overall verdict of an integration pass.
type Assessment struct {
	// Prioritized lists issues by severity, highest first. Equal scores keep
	// detection order.
	Prioritized []ScoredIssue     `json:"prioritized"`
	Summary     AssessmentSummary `json:"summary"`
}

// AssessmentSummary holds the headline counts.
type AssessmentSummary struct {
	TotalFrictionPoints int `json:"totalFrictionPoints"`
	RageClicks          int `json:"rageClicks"`
	ScrollConfusions    int `json:"scrollConfusions"`
	CorrelatedPoints    int `json:"correlatedPoints"`
	EmotionChanges      int `json:"emotionChanges"`
	HighSeverityIssues  int `json:"highSeverityIssues"`
	MaxSeverity         int `json:"maxSeverity"`
}

// Integration is the correlation engine's output.
type Integration struct {
	Correlations      []Correlation `json:"correlations"`
	IssuesSeverity    []ScoredIssue `json:"issuesSeverity"`
	OverallAssessment Assessment    `json:"overallAssessment"`
}

// Diagnostics is the full result of analyzing one session.
type Diagnostics struct {
	SessionID         string            `json:"sessionId,omitempty"`
	AnalyzedAt        time.Time         `json:"analyzedAt"`
	FrictionPoints    []FrictionPoint   `json:"frictionPoints"`
	Engagement        EngagementMetrics `json:"engagement"`
	EmotionAnalysis   EmotionAnalysis   `json:"emotionAnalysis"`
	Correlations      []Correlation     `json:"correlations"`
	IssuesSeverity    []ScoredIssue     `json:"issuesSeverity"`
	OverallAssessment Assessment        `json:"overallAssessment"`
}
