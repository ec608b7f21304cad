package analyzer

import (
	"sort"

	"github.com/blackwell-systems/uxpulse/internal/event"
)

// depthRanges are the scroll-depth bucket boundaries. Depths above the last
// boundary fall outside every bucket and are dropped.
var depthRanges = []int{0, 25, 50, 75, 100}

// CalculateEngagement aggregates page durations, per-page emotions, scroll
// depth, interaction frequency, navigation, hover dwell and the click
// heatmap. An empty batch yields empty lists and zeroed depth buckets.
func (e *Engine) CalculateEngagement(events []event.Event) EngagementMetrics {
	events = event.Normalize(events)
	return EngagementMetrics{
		AveragePageDuration:     averagePageDuration(events),
		PageEmotions:            pageEmotions(events),
		ScrollDepthDistribution: scrollDepthDistribution(events),
		InteractionFrequency:    interactionFrequency(events, e.th.EngagementWindowMs),
		Navigation:              navigation(events),
		HoverDwell:              hoverDwell(events),
		ClickHeatmap:            clickHeatmap(events),
	}
}

func averagePageDuration(events []event.Event) []PageDuration {
	type acc struct {
		total float64
		timed int
		views int
	}
	var order []string
	byPath := make(map[string]*acc)

	for _, pv := range event.Only[event.Pageview](events) {
		a, ok := byPath[pv.Path]
		if !ok {
			a = &acc{}
			byPath[pv.Path] = a
			order = append(order, pv.Path)
		}
		a.views++
		if pv.Duration != nil {
			a.total += *pv.Duration
			a.timed++
		}
	}

	out := make([]PageDuration, 0, len(order))
	for _, path := range order {
		a := byPath[path]
		pd := PageDuration{Path: path, Views: a.views}
		if a.timed > 0 {
			avg := a.total / float64(a.timed)
			pd.AverageDuration = &avg
		}
		out = append(out, pd)
	}
	return out
}

// pageEmotions reports the dominant emotion tagged on each path's page
// views, in order of first visit. A path is problematic when its dominant
// emotion is negative.
func pageEmotions(events []event.Event) []PageEmotion {
	var order []string
	views := make(map[string]int)
	tags := make(map[string][]event.Sample)

	for _, pv := range event.Only[event.Pageview](events) {
		if _, ok := views[pv.Path]; !ok {
			order = append(order, pv.Path)
		}
		views[pv.Path]++
		if pv.Tag != nil {
			tags[pv.Path] = append(tags[pv.Path], event.Sample{
				Emotion:    pv.Tag.Emotion,
				Confidence: pv.Tag.Confidence,
				Timestamp:  pv.Timestamp,
			})
		}
	}

	out := make([]PageEmotion, 0, len(order))
	for _, path := range order {
		pe := PageEmotion{Path: path, Views: views[path]}
		if tallies := tallyEmotions(tags[path]); len(tallies) > 0 {
			top := tallies[0]
			pe.DominantEmotion = top.Emotion
			pe.Confidence = top.ConfidenceSum / float64(top.Count)
			pe.Problematic = isNegative(top.Emotion)
		}
		out = append(out, pe)
	}
	return out
}

// clickHeatmap counts clicks per exact position, most clicked first. Ties
// keep the order of the first click.
func clickHeatmap(events []event.Event) []HeatCell {
	cells := make([]HeatCell, 0)
	index := make(map[event.Position]int)
	for _, c := range event.Only[event.Click](events) {
		i, ok := index[c.Position]
		if !ok {
			i = len(cells)
			index[c.Position] = i
			cells = append(cells, HeatCell{Position: c.Position})
		}
		cells[i].Clicks++
	}
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].Clicks > cells[j].Clicks })
	return cells
}

func scrollDepthDistribution(events []event.Event) []DepthBucket {
	buckets := make([]DepthBucket, len(depthRanges))
	for i, r := range depthRanges {
		buckets[i].Range = r
	}
	for _, s := range event.Only[event.Scroll](events) {
		for i, r := range depthRanges {
			if s.Depth <= float64(r) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// interactionFrequency counts interactions per fixed window keyed by
// floor(timestamp / window). Windows appear in ascending key order; windows
// holding only page views or hovers report zero counts.
func interactionFrequency(events []event.Event, window int64) []WindowCounts {
	windows := make(map[int64]*WindowCounts)
	for _, ev := range events {
		key := floorDiv(ev.At(), window)
		w, ok := windows[key]
		if !ok {
			w = &WindowCounts{}
			windows[key] = w
		}
		switch ev.Kind() {
		case event.KindClick:
			w.Clicks++
		case event.KindScroll:
			w.Scrolls++
		case event.KindMousemove:
			w.Mousemoves++
		}
	}

	keys := make([]int64, 0, len(windows))
	for k := range windows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]WindowCounts, 0, len(keys))
	for _, k := range keys {
		out = append(out, *windows[k])
	}
	return out
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// navigation turns consecutive page views into visits. Each page view closes
// the visit opened by the previous one.
func navigation(events []event.Event) []NavigationStep {
	pageviews := event.Only[event.Pageview](events)
	out := make([]NavigationStep, 0, len(pageviews))
	for i, pv := range pageviews {
		step := NavigationStep{Path: pv.Path, Start: pv.Timestamp}
		if i+1 < len(pageviews) {
			end := pageviews[i+1].Timestamp
			dur := end - pv.Timestamp
			step.End, step.Duration = &end, &dur
		}
		out = append(out, step)
	}
	return out
}

// hoverDwell folds hover events into per-element totals, in order of first
// hover. Hovers without an element are keyed by their path.
func hoverDwell(events []event.Event) []HoverDwell {
	dwell := make([]HoverDwell, 0)
	index := make(map[string]int)
	for _, h := range event.Only[event.Hover](events) {
		key := h.Element
		if key == "" {
			key = h.Path
		}
		i, ok := index[key]
		if !ok {
			i = len(dwell)
			index[key] = i
			dwell = append(dwell, HoverDwell{Element: key})
		}
		dwell[i].Hovers++
		dwell[i].TotalDuration += h.Duration
	}
	return dwell
}
