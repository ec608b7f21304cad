package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/blackwell-systems/uxpulse/internal/event"
)

// negativeEmotions are the labels counted by NegativeEmotionFrequency,
// compared case-insensitively.
var negativeEmotions = []string{"anger", "sadness"}

// topEmotionCount caps EmotionAnalysis.TopEmotions.
const topEmotionCount = 3

// AnalyzeEmotionalState computes the dominant emotion, label transitions,
// stress indicators and label distribution of a sample batch. It returns
// ErrInsufficientData for an empty batch.
func (e *Engine) AnalyzeEmotionalState(samples []event.Sample) (EmotionAnalysis, error) {
	if len(samples) == 0 {
		return EmotionAnalysis{}, fmt.Errorf("%w: no emotion samples", ErrInsufficientData)
	}
	samples = event.SortSamples(samples)

	counts := tallyEmotions(samples)
	changes := e.DetectEmotionChanges(samples)

	return EmotionAnalysis{
		DominantEmotion:     counts[0].Emotion,
		EmotionChanges:      changes,
		StressIndicators:    e.stressIndicators(samples, changes),
		EmotionDistribution: distribution(counts, len(samples)),
		TopEmotions:         topEmotions(counts, topEmotionCount),
	}, nil
}

// DetectEmotionChanges records a change when a sample's label differs from
// the previous sample's and the confidence moved by more than the change
// threshold. A label change with a small confidence delta is not a change.
// Samples must already be in chronological order.
func (e *Engine) DetectEmotionChanges(samples []event.Sample) []EmotionChange {
	changes := make([]EmotionChange, 0)
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		delta := cur.Confidence - prev.Confidence
		if cur.Emotion != prev.Emotion && math.Abs(delta) > e.th.EmotionChangeThreshold {
			changes = append(changes, EmotionChange{
				From:             prev.Emotion,
				To:               cur.Emotion,
				Timestamp:        cur.Timestamp,
				ConfidenceChange: delta,
			})
		}
	}
	return changes
}

func (e *Engine) stressIndicators(samples []event.Sample, changes []EmotionChange) StressIndicators {
	n := float64(len(samples))

	negative := 0
	for _, s := range samples {
		if isNegative(s.Emotion) {
			negative++
		}
	}

	rapid := 0
	for _, c := range changes {
		if math.Abs(c.ConfidenceChange) > 2*e.th.EmotionChangeThreshold {
			rapid++
		}
	}

	return StressIndicators{
		EmotionalVolatility:      float64(len(changes)) / (n / 60),
		NegativeEmotionFrequency: float64(negative) / n,
		RapidChanges:             rapid,
	}
}

func isNegative(label string) bool {
	for _, neg := range negativeEmotions {
		if strings.EqualFold(label, neg) {
			return true
		}
	}
	return false
}

// emotionTally is one label's occurrences within a batch.
type emotionTally struct {
	Emotion       string
	Count         int
	ConfidenceSum float64
}

// tallyEmotions counts labels and returns them by count descending. The sort
// is stable over first-seen order, so ties go to the label seen first.
func tallyEmotions(samples []event.Sample) []emotionTally {
	var tallies []emotionTally
	index := make(map[string]int)
	for _, s := range samples {
		i, ok := index[s.Emotion]
		if !ok {
			i = len(tallies)
			index[s.Emotion] = i
			tallies = append(tallies, emotionTally{Emotion: s.Emotion})
		}
		tallies[i].Count++
		tallies[i].ConfidenceSum += s.Confidence
	}
	sort.SliceStable(tallies, func(i, j int) bool {
		return tallies[i].Count > tallies[j].Count
	})
	return tallies
}

func distribution(tallies []emotionTally, total int) []EmotionShare {
	shares := make([]EmotionShare, 0, len(tallies))
	for _, t := range tallies {
		shares = append(shares, EmotionShare{
			Emotion:    t.Emotion,
			Count:      t.Count,
			Percentage: float64(t.Count) / float64(total) * 100,
		})
	}
	return shares
}

func topEmotions(tallies []emotionTally, limit int) []EmotionSummary {
	if len(tallies) > limit {
		tallies = tallies[:limit]
	}
	out := make([]EmotionSummary, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, EmotionSummary{
			Emotion:           t.Emotion,
			Count:             t.Count,
			AverageConfidence: t.ConfidenceSum / float64(t.Count),
		})
	}
	return out
}
