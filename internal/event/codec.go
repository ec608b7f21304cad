package event

import (
	"encoding/json"
	"fmt"
)

// Record is the flat wire form of an event. Which optional fields are set
// depends on Type.
type Record struct {
	Type      Kind      `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Position  *Position `json:"position,omitempty"`
	Depth     *float64  `json:"depth,omitempty"`
	Path      string    `json:"path,omitempty"`
	Duration  *float64  `json:"duration,omitempty"`
	Element   string    `json:"element,omitempty"`
	Emotion   *Tag      `json:"emotion,omitempty"`
}

// FromRecord converts a wire record into its typed variant.
func FromRecord(r Record) (Event, error) {
	base := Base{Timestamp: r.Timestamp, Path: r.Path, Tag: r.Emotion}
	switch r.Type {
	case KindClick:
		if r.Position == nil {
			return nil, fmt.Errorf("click at %d: missing position", r.Timestamp)
		}
		return Click{Base: base, Position: *r.Position, Element: r.Element}, nil
	case KindMousemove:
		if r.Position == nil {
			return nil, fmt.Errorf("mousemove at %d: missing position", r.Timestamp)
		}
		return Mousemove{Base: base, Position: *r.Position}, nil
	case KindScroll:
		if r.Depth == nil {
			return nil, fmt.Errorf("scroll at %d: missing depth", r.Timestamp)
		}
		return Scroll{Base: base, Depth: *r.Depth}, nil
	case KindPageview:
		return Pageview{Base: base, Duration: r.Duration}, nil
	case KindHover:
		h := Hover{Base: base, Element: r.Element}
		if r.Duration != nil {
			h.Duration = *r.Duration
		}
		return h, nil
	default:
		return nil, fmt.Errorf("unknown event type %q at %d", r.Type, r.Timestamp)
	}
}

// ToRecord converts a typed event into its wire record.
func ToRecord(e Event) Record {
	r := Record{Type: e.Kind(), Timestamp: e.At(), Emotion: e.Emotion()}
	switch v := e.(type) {
	case Click:
		pos := v.Position
		r.Position, r.Path, r.Element = &pos, v.Path, v.Element
	case Mousemove:
		pos := v.Position
		r.Position, r.Path = &pos, v.Path
	case Scroll:
		depth := v.Depth
		r.Depth, r.Path = &depth, v.Path
	case Pageview:
		r.Path, r.Duration = v.Path, v.Duration
	case Hover:
		d := v.Duration
		r.Path, r.Element, r.Duration = v.Path, v.Element, &d
	}
	return r
}

// Sequence is an ordered batch of events with JSON support.
type Sequence []Event

// MarshalJSON implements json.Marshaler.
func (s Sequence) MarshalJSON() ([]byte, error) {
	records := make([]Record, len(s))
	for i, e := range s {
		records[i] = ToRecord(e)
	}
	return json.Marshal(records)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Sequence) UnmarshalJSON(data []byte) error {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	out := make(Sequence, 0, len(records))
	for i, r := range records {
		e, err := FromRecord(r)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, e)
	}
	*s = out
	return nil
}
