package analyzer

import (
	"time"

	"github.com/blackwell-systems/uxpulse/internal/event"
)

// Engine runs the analyses with a fixed, validated set of thresholds. It has
// no mutable state and is safe for concurrent use.
type Engine struct {
	th  Thresholds
	now func() time.Time
}

// New returns an Engine for the given thresholds.
func New(th Thresholds) (*Engine, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Engine{th: th, now: time.Now}, nil
}

// Thresholds returns the engine's tuning.
func (e *Engine) Thresholds() Thresholds {
	return e.th
}

// DetectFrictionPoints finds rage clicks and scroll confusion in events.
// Rage clicks come first, then scroll confusion, each in chronological order.
func (e *Engine) DetectFrictionPoints(events []event.Event) []FrictionPoint {
	events = event.Normalize(events)
	points := make([]FrictionPoint, 0)
	points = append(points, e.detectRageClicks(event.Only[event.Click](events))...)
	points = append(points, e.detectScrollConfusion(event.Only[event.Scroll](events))...)
	return points
}

func (e *Engine) detectRageClicks(clicks []event.Click) []FrictionPoint {
	var points []FrictionPoint
	for _, group := range groupClicks(clicks, e.th.RageClicks.TimeWindowMs) {
		if len(group) < e.th.RageClicks.MinClicks {
			continue
		}
		pos := group[0].Position
		points = append(points, FrictionPoint{
			Type:       FrictionRageClicks,
			Timestamp:  group[0].Timestamp,
			Location:   Location{Position: &pos},
			Severity:   e.rageClickLevel(group),
			ClickCount: len(group),
		})
	}
	return points
}

// groupClicks splits a chronological click sequence into maximal runs where
// each click follows the previous one within window milliseconds.
func groupClicks(clicks []event.Click, window int64) [][]event.Click {
	var groups [][]event.Click
	var current []event.Click
	for i, c := range clicks {
		if i > 0 && c.Timestamp-clicks[i-1].Timestamp > window {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// rageClickLevel is HIGH when more than half of the clicks in the group
// got no visible response: the first click counts as a 0ms response, every
// later one as the gap to its predecessor, and a response at or under the
// dead-click time is dead.
func (e *Engine) rageClickLevel(group []event.Click) Level {
	if len(group) == 0 {
		return LevelMedium
	}
	dead := 0
	for i, c := range group {
		var response int64
		if i > 0 {
			response = c.Timestamp - group[i-1].Timestamp
		}
		if response <= e.th.DeadClicks.ResponseTimeMs {
			dead++
		}
	}
	if dead*2 > len(group) {
		return LevelHigh
	}
	return LevelMedium
}

type direction int

const (
	dirNone direction = iota
	dirDown
	dirUp
)

// scrollState is the accumulator folded over a scroll sequence.
type scrollState struct {
	seen      bool
	prevDepth float64
	lastDir   direction
	reversals int
}

// step folds one scroll event into s and returns the next state plus the
// friction point emitted at this event, if any.
func (s scrollState) step(ev event.Scroll, th ScrollConfusionThresholds) (scrollState, *FrictionPoint) {
	next := s
	next.seen = true
	next.prevDepth = ev.Depth
	if !s.seen {
		return next, nil
	}

	dir := dirUp
	if ev.Depth > s.prevDepth {
		dir = dirDown
	}
	if s.lastDir != dirNone && dir != s.lastDir {
		next.reversals++
	}
	next.lastDir = dir

	if next.reversals < th.DirectionChanges {
		return next, nil
	}
	depth := ev.Depth
	fp := &FrictionPoint{
		Type:             FrictionScrollConfusion,
		Timestamp:        ev.Timestamp,
		Location:         Location{Depth: &depth},
		Severity:         LevelMedium,
		DirectionChanges: next.reversals,
	}
	if th.ResetAfterEmit {
		next.reversals = 0
	}
	return next, fp
}

func (e *Engine) detectScrollConfusion(scrolls []event.Scroll) []FrictionPoint {
	var (
		points []FrictionPoint
		state  scrollState
		fp     *FrictionPoint
	)
	for _, ev := range scrolls {
		state, fp = state.step(ev, e.th.ScrollConfusion)
		if fp != nil {
			points = append(points, *fp)
		}
	}
	return points
}
