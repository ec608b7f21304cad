package analyzer

import "fmt"

// Thresholds holds every tunable of the engine. It is passed by value into
// the Engine so concurrent sessions can use different tunings.
type Thresholds struct {
	RageClicks      RageClickThresholds       `json:"rageClicks" mapstructure:"rage_clicks"`
	DeadClicks      DeadClickThresholds       `json:"deadClicks" mapstructure:"dead_clicks"`
	ScrollConfusion ScrollConfusionThresholds `json:"scrollConfusion" mapstructure:"scroll_confusion"`

	// EmotionChangeThreshold is the minimum absolute confidence delta for a
	// label transition to count as an emotion change.
	EmotionChangeThreshold float64 `json:"emotionChangeThreshold" mapstructure:"emotion_change_threshold"`

	// CorrelationWindowMs is the maximum gap, inclusive, between a friction
	// point and an emotion change for the two to be correlated.
	CorrelationWindowMs int64 `json:"correlationWindow" mapstructure:"correlation_window_ms"`

	// EngagementWindowMs is the width of interaction frequency windows.
	EngagementWindowMs int64 `json:"engagementWindow" mapstructure:"engagement_window_ms"`

	Severity SeverityThresholds `json:"severity" mapstructure:"severity"`
}

// RageClickThresholds tunes rage-click grouping.
type RageClickThresholds struct {
	TimeWindowMs int64 `json:"timeWindow" mapstructure:"time_window_ms"`
	MinClicks    int   `json:"minClicks" mapstructure:"min_clicks"`
}

// DeadClickThresholds tunes rage-click severity.
type DeadClickThresholds struct {
	ResponseTimeMs int64 `json:"responseTime" mapstructure:"response_time_ms"`
}

// ScrollConfusionThresholds tunes scroll-confusion detection.
type ScrollConfusionThresholds struct {
	DirectionChanges int `json:"directionChanges" mapstructure:"direction_changes"`

	// ResetAfterEmit zeroes the reversal counter after each emitted friction
	// point. When false the counter is cumulative and every scroll event past
	// the threshold emits again.
	ResetAfterEmit bool `json:"resetAfterEmit" mapstructure:"reset_after_emit"`
}

// SeverityThresholds tunes the 1-5 issue severity score.
type SeverityThresholds struct {
	Volatility        float64 `json:"volatility" mapstructure:"volatility"`
	NegativeFrequency float64 `json:"negativeFrequency" mapstructure:"negative_frequency"`
	ScrollReversals   int     `json:"scrollReversals" mapstructure:"scroll_reversals"`
}

// DefaultThresholds returns the stock tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RageClicks:             RageClickThresholds{TimeWindowMs: 1000, MinClicks: 3},
		DeadClicks:             DeadClickThresholds{ResponseTimeMs: 500},
		ScrollConfusion:        ScrollConfusionThresholds{DirectionChanges: 3},
		EmotionChangeThreshold: 0.3,
		CorrelationWindowMs:    5000,
		EngagementWindowMs:     60000,
		Severity: SeverityThresholds{
			Volatility:        0.5,
			NegativeFrequency: 0.3,
			ScrollReversals:   5,
		},
	}
}

// Validate returns an ErrInvalidConfiguration error naming the first
// non-positive threshold or window.
func (t Thresholds) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"rage_clicks.time_window_ms", t.RageClicks.TimeWindowMs > 0},
		{"rage_clicks.min_clicks", t.RageClicks.MinClicks > 0},
		{"dead_clicks.response_time_ms", t.DeadClicks.ResponseTimeMs > 0},
		{"scroll_confusion.direction_changes", t.ScrollConfusion.DirectionChanges > 0},
		{"emotion_change_threshold", t.EmotionChangeThreshold > 0},
		{"correlation_window_ms", t.CorrelationWindowMs > 0},
		{"engagement_window_ms", t.EngagementWindowMs > 0},
		{"severity.volatility", t.Severity.Volatility > 0},
		{"severity.negative_frequency", t.Severity.NegativeFrequency > 0},
		{"severity.scroll_reversals", t.Severity.ScrollReversals > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfiguration, c.name)
		}
	}
	return nil
}
