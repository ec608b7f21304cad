package event

import (
	"cmp"
	"slices"
)

// Sample is one labeled emotional-state observation from the emotion source.
type Sample struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

// Normalize returns a copy of events stable-sorted by timestamp. Events that
// share a timestamp keep their capture order.
func Normalize(events []Event) []Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b Event) int {
		return cmp.Compare(a.At(), b.At())
	})
	return out
}

// IsSorted reports whether events are in chronological order.
func IsSorted(events []Event) bool {
	return slices.IsSortedFunc(events, func(a, b Event) int {
		return cmp.Compare(a.At(), b.At())
	})
}

// SortSamples returns a copy of samples stable-sorted by timestamp.
func SortSamples(samples []Sample) []Sample {
	out := slices.Clone(samples)
	slices.SortStableFunc(out, func(a, b Sample) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	return out
}

// SamplesFromTags builds an emotion stream from the tags carried on events,
// in event order. Untagged events are skipped.
func SamplesFromTags(events []Event) []Sample {
	var samples []Sample
	for _, e := range events {
		tag := e.Emotion()
		if tag == nil || tag.Emotion == "" {
			continue
		}
		samples = append(samples, Sample{
			Emotion:    tag.Emotion,
			Confidence: tag.Confidence,
			Timestamp:  e.At(),
		})
	}
	return samples
}
