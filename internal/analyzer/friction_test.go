package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/uxpulse/internal/event"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultThresholds())
	require.NoError(t, err)
	return e
}

func clicksAt(ts ...int64) []event.Event {
	events := make([]event.Event, 0, len(ts))
	for _, t := range ts {
		events = append(events, event.Click{
			Base:     event.Base{Timestamp: t},
			Position: event.Position{X: 120, Y: 48},
		})
	}
	return events
}

func scrollsAt(depths ...float64) []event.Event {
	events := make([]event.Event, 0, len(depths))
	for i, d := range depths {
		events = append(events, event.Scroll{
			Base:  event.Base{Timestamp: int64(i+1) * 100},
			Depth: d,
		})
	}
	return events
}

func TestDetectFrictionPoints_Empty(t *testing.T) {
	points := newEngine(t).DetectFrictionPoints(nil)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestDetectFrictionPoints_RageClicks(t *testing.T) {
	points := newEngine(t).DetectFrictionPoints(clicksAt(0, 300, 600))

	require.Len(t, points, 1)
	fp := points[0]
	assert.Equal(t, FrictionRageClicks, fp.Type)
	assert.Equal(t, int64(0), fp.Timestamp)
	require.NotNil(t, fp.Location.Position)
	assert.Equal(t, event.Position{X: 120, Y: 48}, *fp.Location.Position)
	assert.Equal(t, LevelHigh, fp.Severity)
	assert.Equal(t, 3, fp.ClickCount)
}

func TestDetectFrictionPoints_SparseClicksAreNotFriction(t *testing.T) {
	ts := make([]int64, 10)
	for i := range ts {
		ts[i] = int64(i) * 5000
	}
	assert.Empty(t, newEngine(t).DetectFrictionPoints(clicksAt(ts...)))
}

func TestDetectFrictionPoints_TrailingGroupIsEvaluated(t *testing.T) {
	points := newEngine(t).DetectFrictionPoints(clicksAt(0, 5000, 5100, 5200))
	require.Len(t, points, 1)
	assert.Equal(t, int64(5000), points[0].Timestamp)
}

func TestDetectFrictionPoints_RageClickLevels(t *testing.T) {
	cases := []struct {
		name string
		ts   []int64
		want Level
	}{
		{"only first click fast", []int64{0, 900, 1800}, LevelMedium},
		{"first click plus one fast gap", []int64{0, 900, 1200}, LevelHigh},
		{"exactly half fast", []int64{0, 900, 1800, 2100}, LevelMedium},
		{"most clicks fast", []int64{0, 900, 1200, 1400}, LevelHigh},
		{"boundary gap counts as dead", []int64{0, 500, 1000}, LevelHigh},
		{"slow gaps outvote the first click", []int64{0, 900, 1800, 2700}, LevelMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			points := newEngine(t).DetectFrictionPoints(clicksAt(tc.ts...))
			require.Len(t, points, 1)
			assert.Equal(t, tc.want, points[0].Severity)
		})
	}
}

func TestDetectFrictionPoints_LevelNeverDropsBelowMedium(t *testing.T) {
	e := newEngine(t)
	ts := []int64{0, 900, 1800}
	for next := int64(2100); next <= 6000; next += 300 {
		ts = append(ts, next)
		points := e.DetectFrictionPoints(clicksAt(ts...))
		require.Len(t, points, 1)
		assert.Contains(t, []Level{LevelMedium, LevelHigh}, points[0].Severity)
	}
}

func TestDetectFrictionPoints_UnsortedInputIsNormalized(t *testing.T) {
	e := newEngine(t)
	sorted := e.DetectFrictionPoints(clicksAt(0, 300, 600))
	shuffled := e.DetectFrictionPoints(clicksAt(600, 0, 300))
	assert.Equal(t, sorted, shuffled)
}

func TestDetectFrictionPoints_Deterministic(t *testing.T) {
	e := newEngine(t)
	events := append(clicksAt(0, 200, 400, 3000, 3100, 3150, 9000), scrollsAt(10, 20, 15, 30, 5)...)
	first := e.DetectFrictionPoints(events)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.DetectFrictionPoints(events))
	}
}

func TestDetectFrictionPoints_ScrollConfusionIsCumulative(t *testing.T) {
	// down, up, down, up, down, down: reversals 0,1,2,3,4,4.
	points := newEngine(t).DetectFrictionPoints(scrollsAt(10, 20, 15, 30, 5, 50, 60))

	require.Len(t, points, 3, "every event past the threshold emits again")
	wantTS := []int64{500, 600, 700}
	wantChanges := []int{3, 4, 4}
	for i, fp := range points {
		assert.Equal(t, FrictionScrollConfusion, fp.Type)
		assert.Equal(t, LevelMedium, fp.Severity)
		assert.Equal(t, wantTS[i], fp.Timestamp)
		assert.Equal(t, wantChanges[i], fp.DirectionChanges)
	}
	require.NotNil(t, points[0].Location.Depth)
	assert.Equal(t, 5.0, *points[0].Location.Depth)
}

func TestDetectFrictionPoints_ScrollConfusionResetAfterEmit(t *testing.T) {
	th := DefaultThresholds()
	th.ScrollConfusion.ResetAfterEmit = true
	e, err := New(th)
	require.NoError(t, err)

	points := e.DetectFrictionPoints(scrollsAt(10, 20, 15, 30, 5, 50, 60))
	require.Len(t, points, 1)
	assert.Equal(t, int64(500), points[0].Timestamp)
	assert.Equal(t, 3, points[0].DirectionChanges)
}

func TestDetectFrictionPoints_EqualDepthScrollsUp(t *testing.T) {
	// 0 -> 10 down, 10 -> 10 up, 10 -> 20 down, 20 -> 20 up.
	points := newEngine(t).DetectFrictionPoints(scrollsAt(0, 10, 10, 20, 20))
	require.Len(t, points, 1)
	assert.Equal(t, int64(500), points[0].Timestamp)
}

func TestDetectFrictionPoints_RageClicksBeforeScrollConfusion(t *testing.T) {
	events := append(scrollsAt(10, 20, 15, 30, 5), clicksAt(5000, 5100, 5200)...)
	points := newEngine(t).DetectFrictionPoints(events)
	require.Len(t, points, 2)
	assert.Equal(t, FrictionRageClicks, points[0].Type)
	assert.Equal(t, FrictionScrollConfusion, points[1].Type)
}

func TestGroupClicks(t *testing.T) {
	clicks := event.Only[event.Click](clicksAt(0, 1000, 2001, 2002))
	groups := groupClicks(clicks, 1000)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 2)
	assert.Empty(t, groupClicks(nil, 1000))
}
