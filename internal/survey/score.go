// Package survey scores SUS and UEQ questionnaire answers with dimension
// weights adjusted to the respondent's profile.
package survey

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for a profile or response set that cannot be
// scored.
var ErrInvalidInput = errors.New("invalid survey input")

// Profile describes the respondent. Unknown enum values leave the weights
// untouched.
type Profile struct {
	Age                   int    `json:"age"`
	Education             string `json:"education,omitempty"`             // high_school, bachelors, masters_or_higher
	Occupation            string `json:"occupation,omitempty"`            // office_worker, student, professional, other
	UIPreference          string `json:"uiPreference,omitempty"`          // minimal, detailed
	InteractionPreference string `json:"interactionPreference,omitempty"` // keyboard, click
}

// Responses are the raw questionnaire answers. SUS items cycle through the
// five SUS dimensions; UEQ holds one answer per UEQ dimension.
type Responses struct {
	SUS []float64 `json:"susResponses"`
	UEQ []float64 `json:"ueqResponses"`
}

// SUSWeights weight the System Usability Scale dimensions.
type SUSWeights struct {
	Learnability float64 `json:"learnability"`
	Efficiency   float64 `json:"efficiency"`
	Memorability float64 `json:"memorability"`
	Errors       float64 `json:"errors"`
	Satisfaction float64 `json:"satisfaction"`
}

func (w *SUSWeights) fields() []*float64 {
	return []*float64{&w.Learnability, &w.Efficiency, &w.Memorability, &w.Errors, &w.Satisfaction}
}

// UEQWeights weight the User Experience Questionnaire dimensions.
type UEQWeights struct {
	Attractiveness float64 `json:"attractiveness"`
	Perspicuity    float64 `json:"perspicuity"`
	Efficiency     float64 `json:"efficiency"`
	Dependability  float64 `json:"dependability"`
	Stimulation    float64 `json:"stimulation"`
	Novelty        float64 `json:"novelty"`
}

func (w *UEQWeights) fields() []*float64 {
	return []*float64{&w.Attractiveness, &w.Perspicuity, &w.Efficiency, &w.Dependability, &w.Stimulation, &w.Novelty}
}

// Weights is a full weight set. Each questionnaire's weights sum to 1 once
// adjusted.
type Weights struct {
	SUS SUSWeights `json:"sus"`
	UEQ UEQWeights `json:"ueq"`
}

// BaseWeights is the unadjusted weight set.
func BaseWeights() Weights {
	const u = 0.167
	return Weights{
		SUS: SUSWeights{Learnability: 0.2, Efficiency: 0.2, Memorability: 0.2, Errors: 0.2, Satisfaction: 0.2},
		UEQ: UEQWeights{Attractiveness: u, Perspicuity: u, Efficiency: u, Dependability: u, Stimulation: u, Novelty: u},
	}
}

// Result is a personalized score.
type Result struct {
	SUS     float64 `json:"sus"`
	UEQ     float64 `json:"ueq"`
	Weights Weights `json:"appliedWeights"`
}

// Score validates the input, adjusts the base weights to p and scores r.
func Score(r Responses, p Profile) (Result, error) {
	if p.Age <= 0 {
		return Result{}, fmt.Errorf("%w: age must be positive", ErrInvalidInput)
	}
	if len(r.SUS) == 0 {
		return Result{}, fmt.Errorf("%w: no SUS responses", ErrInvalidInput)
	}
	if len(r.UEQ) < ueqDimensions {
		return Result{}, fmt.Errorf("%w: need %d UEQ responses, got %d", ErrInvalidInput, ueqDimensions, len(r.UEQ))
	}

	w := AdjustWeights(p)
	return Result{
		SUS:     susScore(r.SUS, &w.SUS),
		UEQ:     ueqScore(r.UEQ, &w.UEQ),
		Weights: w,
	}, nil
}

const ueqDimensions = 6

// AdjustWeights applies the profile multipliers to the base weights and
// normalizes each questionnaire.
func AdjustWeights(p Profile) Weights {
	w := BaseWeights()
	s, u := &w.SUS, &w.UEQ

	switch {
	case p.Age < 30:
		s.Efficiency *= 1.2
		u.Novelty *= 1.2
		u.Stimulation *= 1.1
	case p.Age < 50:
		s.Efficiency *= 1.15
		u.Dependability *= 1.15
	default:
		s.Learnability *= 1.3
		u.Perspicuity *= 1.2
		s.Errors *= 1.2
	}

	switch p.Education {
	case "high_school":
		s.Learnability *= 1.2
		u.Perspicuity *= 1.2
	case "bachelors":
		s.Efficiency *= 1.1
		u.Efficiency *= 1.1
	case "masters_or_higher":
		s.Efficiency *= 1.2
		u.Novelty *= 1.1
	}

	switch p.Occupation {
	case "office_worker":
		s.Efficiency *= 1.3
		u.Efficiency *= 1.2
	case "student":
		s.Learnability *= 1.2
		u.Novelty *= 1.2
	case "professional":
		s.Efficiency *= 1.3
		u.Dependability *= 1.2
	}

	switch p.UIPreference {
	case "minimal":
		s.Efficiency *= 1.3
		u.Perspicuity *= 1.2
		u.Attractiveness *= 1.1
	case "detailed":
		s.Learnability *= 1.2
		u.Dependability *= 1.2
		u.Perspicuity *= 1.1
	}

	switch p.InteractionPreference {
	case "keyboard":
		s.Efficiency *= 1.3
		u.Efficiency *= 1.2
		s.Memorability *= 1.1
	case "click":
		s.Learnability *= 1.2
		u.Perspicuity *= 1.2
		u.Attractiveness *= 1.1
	}

	normalize(s.fields())
	normalize(u.fields())
	return w
}

func normalize(weights []*float64) {
	sum := 0.0
	for _, w := range weights {
		sum += *w
	}
	for _, w := range weights {
		*w /= sum
	}
}

// susScore weights each answer's distance from the scale floor by its
// dimension, item i belonging to dimension i mod 5.
func susScore(responses []float64, w *SUSWeights) float64 {
	dims := w.fields()
	total := 0.0
	for i, r := range responses {
		total += (r - 1) * *dims[i%len(dims)]
	}
	return total * 2.5 / float64(len(responses))
}

// ueqScore is the mean weighted answer over the six dimensions. Answers past
// the sixth are ignored.
func ueqScore(responses []float64, w *UEQWeights) float64 {
	dims := w.fields()
	total := 0.0
	for i, d := range dims {
		total += responses[i] * *d
	}
	return total / float64(len(dims))
}
