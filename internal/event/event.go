// Package event defines the interaction events and emotion samples that
// uxpulse analyzes.
package event

// Kind discriminates interaction event variants.
type Kind string

// Recognized event kinds.
const (
	KindClick     Kind = "click"
	KindScroll    Kind = "scroll"
	KindMousemove Kind = "mousemove"
	KindPageview  Kind = "pageview"
	KindHover     Kind = "hover"
)

// Kinds lists the recognized kinds in display order.
var Kinds = []Kind{KindPageview, KindClick, KindScroll, KindMousemove, KindHover}

// Valid reports whether k is a recognized kind.
func (k Kind) Valid() bool {
	switch k {
	case KindClick, KindScroll, KindMousemove, KindPageview, KindHover:
		return true
	}
	return false
}

// Position is a pointer location in viewport pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tag is an emotion label sampled at the moment an event was captured.
type Tag struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Event is one captured UI event. The concrete type is one of Click, Scroll,
// Mousemove, Pageview or Hover.
type Event interface {
	Kind() Kind
	// At returns milliseconds since session start.
	At() int64
	// Emotion returns the tag captured with the event, or nil.
	Emotion() *Tag
}

// Base holds the fields shared by every variant.
type Base struct {
	Timestamp int64
	Path      string
	Tag       *Tag
}

// At implements Event.
func (b Base) At() int64 { return b.Timestamp }

// Emotion implements Event.
func (b Base) Emotion() *Tag { return b.Tag }

// Click is a pointer click.
type Click struct {
	Base
	Position Position
	Element  string
}

// Kind implements Event.
func (Click) Kind() Kind { return KindClick }

// Scroll is a scroll position report. Depth is the scrolled percentage of the
// page, normally 0-100.
type Scroll struct {
	Base
	Depth float64
}

// Kind implements Event.
func (Scroll) Kind() Kind { return KindScroll }

// Mousemove is a sampled pointer movement.
type Mousemove struct {
	Base
	Position Position
}

// Kind implements Event.
func (Mousemove) Kind() Kind { return KindMousemove }

// Pageview marks entry into a page. Duration is nil while the page is still
// open.
type Pageview struct {
	Base
	Duration *float64
}

// Kind implements Event.
func (Pageview) Kind() Kind { return KindPageview }

// Hover is a completed hover over a page element.
type Hover struct {
	Base
	Element  string
	Duration float64
}

// Kind implements Event.
func (Hover) Kind() Kind { return KindHover }

// Only returns the events of variant T, preserving order.
func Only[T Event](events []Event) []T {
	var out []T
	for _, e := range events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// CountByKind returns the number of events of each kind.
func CountByKind(events []Event) map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range events {
		counts[e.Kind()]++
	}
	return counts
}
