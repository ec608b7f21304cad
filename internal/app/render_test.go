package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/uxpulse/internal/analyzer"
	"github.com/blackwell-systems/uxpulse/internal/event"
	"github.com/blackwell-systems/uxpulse/internal/output"
)

func ptr[T any](v T) *T { return &v }

func checkoutBundle() analyzer.Bundle {
	click := func(ts int64) event.Event {
		return event.Click{Base: event.Base{Timestamp: ts, Path: "/checkout"}, Position: event.Position{X: 120, Y: 48}}
	}
	return analyzer.Bundle{
		SessionID: "checkout-1",
		Events: event.Sequence{
			event.Pageview{Base: event.Base{Timestamp: 0, Path: "/cart"}, Duration: ptr(3000.0)},
			event.Pageview{Base: event.Base{Timestamp: 3000, Path: "/checkout", Tag: &event.Tag{Emotion: "Anger", Confidence: 0.8}}},
			click(3100), click(3300), click(3500),
			event.Scroll{Base: event.Base{Timestamp: 4000}, Depth: 30},
			event.Hover{Base: event.Base{Timestamp: 4500}, Element: "#help", Duration: 800},
		},
		Samples: []event.Sample{
			{Emotion: "Neutral", Confidence: 0.2, Timestamp: 0},
			{Emotion: "Anger", Confidence: 0.9, Timestamp: 3600},
		},
	}
}

func TestRenderDiagnostics(t *testing.T) {
	output.SetNoColor(true)
	defer output.SetNoColor(false)

	e, err := analyzer.New(analyzer.DefaultThresholds())
	require.NoError(t, err)
	d, err := e.Analyze(context.Background(), checkoutBundle())
	require.NoError(t, err)

	var sb strings.Builder
	renderDiagnostics(&sb, d, 40)
	out := sb.String()

	for _, want := range []string{
		"Session checkout-1",
		"Issues by severity",
		"RAGE_CLICKS",
		"(120, 48)",
		"Emotional responses",
		"Neutral→Anger",
		"Dominant emotion",
		"/checkout",
		"open",
		"#help",
		"Scroll depth",
		"Page emotions",
		"problematic",
		"Click hotspots",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderDiagnostics_QuietSession(t *testing.T) {
	output.SetNoColor(true)
	defer output.SetNoColor(false)

	d := &analyzer.Diagnostics{EmotionAnalysis: analyzer.EmotionAnalysis{DominantEmotion: "Joy"}}
	var sb strings.Builder
	renderDiagnostics(&sb, d, 40)

	out := sb.String()
	assert.Contains(t, out, "Joy")
	assert.NotContains(t, out, "Issues by severity")
	assert.NotContains(t, out, "Worst severity")
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0ms"},
		{850, "850ms"},
		{12400, "12.4s"},
		{185000, "3m05s"},
		{-300, "-300ms"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, formatMs(tc.ms))
	}
}

func TestFormatLocation(t *testing.T) {
	assert.Equal(t, "(1.5, 2)", formatLocation(analyzer.Location{Position: &event.Position{X: 1.5, Y: 2}}))
	assert.Equal(t, "depth 40%", formatLocation(analyzer.Location{Depth: ptr(40.0)}))
	assert.Equal(t, "-", formatLocation(analyzer.Location{}))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, " a\n b\n", indent("a\nb\n"))
	assert.Empty(t, indent(""))
}

func TestClip(t *testing.T) {
	b := checkoutBundle()
	assert.Equal(t, b, clip(b, analyzer.TimeRange{}))

	c := clip(b, analyzer.TimeRange{Start: 3100, End: 3500})
	assert.Equal(t, "checkout-1", c.SessionID)
	assert.Len(t, c.Events, 3)
	assert.Len(t, c.Samples, 0)

	tail := clip(b, analyzer.TimeRange{Start: 3600})
	assert.Len(t, tail.Events, 2)
	assert.Len(t, tail.Samples, 1)
}

func TestKindBreakdown(t *testing.T) {
	assert.Equal(t, "-", kindBreakdown(nil))
	assert.Equal(t, "1 pageview, 3 click", kindBreakdown(map[event.Kind]int{event.KindClick: 3, event.KindPageview: 1}))
}
