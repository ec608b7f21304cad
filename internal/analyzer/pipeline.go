package analyzer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/uxpulse/internal/event"
)

// Bundle is everything the engine needs to analyze one session.
type Bundle struct {
	SessionID string         `json:"sessionId"`
	Events    event.Sequence `json:"interactionEvents"`
	Samples   []event.Sample `json:"emotionSamples"`
}

// TimeRange bounds a session query in milliseconds since session start.
// Start is inclusive; End is inclusive when positive and open otherwise.
type TimeRange struct {
	Start int64
	End   int64
}

// Contains reports whether ts falls inside r.
func (r TimeRange) Contains(ts int64) bool {
	if ts < r.Start {
		return false
	}
	return r.End <= 0 || ts <= r.End
}

// EventStore is the read side of wherever sessions are recorded.
type EventStore interface {
	LoadBundle(ctx context.Context, sessionID string, r TimeRange) (Bundle, error)
}

// Analyze runs the full pipeline over a bundle. Friction detection,
// engagement and emotion analysis run concurrently; integration waits for
// all three. When the bundle has no emotion stream the tags carried on its
// events are used instead. Any stage failure fails the whole analysis.
func (e *Engine) Analyze(ctx context.Context, b Bundle) (*Diagnostics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := event.Normalize(b.Events)
	samples := b.Samples
	if len(samples) == 0 {
		samples = event.SamplesFromTags(events)
	}

	d := &Diagnostics{SessionID: b.SessionID, AnalyzedAt: e.now().UTC()}
	var g errgroup.Group
	g.Go(func() error {
		d.FrictionPoints = e.DetectFrictionPoints(events)
		return nil
	})
	g.Go(func() error {
		d.Engagement = e.CalculateEngagement(events)
		return nil
	})
	g.Go(func() error {
		ea, err := e.AnalyzeEmotionalState(samples)
		if err != nil {
			return fmt.Errorf("session %q: %w", b.SessionID, err)
		}
		d.EmotionAnalysis = ea
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in := e.Integrate(d.FrictionPoints, d.EmotionAnalysis.EmotionChanges, d.EmotionAnalysis.StressIndicators)
	d.Correlations = in.Correlations
	d.IssuesSeverity = in.IssuesSeverity
	d.OverallAssessment = in.OverallAssessment
	return d, nil
}

// AnalyzeSession loads a session from store and analyzes it.
func (e *Engine) AnalyzeSession(ctx context.Context, store EventStore, sessionID string, r TimeRange) (*Diagnostics, error) {
	b, err := store.LoadBundle(ctx, sessionID, r)
	if err != nil {
		return nil, fmt.Errorf("loading session %q: %w", sessionID, err)
	}
	return e.Analyze(ctx, b)
}
