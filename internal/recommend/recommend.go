// Package recommend suggests a therapy from free-text symptoms.
//
// Placeholder is not a classifier. It picks uniformly among the four
// Panchakarma therapies with a fixed confidence and reasoning, and exists so
// the booking surface has a stable contract to call.
package recommend

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
)

// ErrNoSymptoms is returned when the symptom text is blank.
var ErrNoSymptoms = errors.New("Please describe your symptoms.")

const (
	placeholderConfidence = 0.85
	placeholderReasoning  = "Based on your symptoms, this therapy appears most suitable."
)

// Recommendation is a suggested therapy.
type Recommendation struct {
	RecommendedTherapyID string             `json:"recommendedTherapyId"`
	Confidence           float64            `json:"confidence"`
	Reasoning            string             `json:"reasoning"`
	Therapy              *therapies.Therapy `json:"therapy,omitempty"`
}

// Recommender maps symptoms to a therapy.
type Recommender interface {
	Recommend(ctx context.Context, symptoms string) (Recommendation, error)
}

// Placeholder returns a random therapy id.
type Placeholder struct {
	ids  []string
	pick func(n int) int
}

// NewPlaceholder creates a placeholder recommender. pick returns an index in
// [0, n); nil uses math/rand.
func NewPlaceholder(pick func(n int) int) *Placeholder {
	if pick == nil {
		pick = rand.IntN
	}
	return &Placeholder{
		ids:  []string{"vamana", "virechana", "nasya", "basti"},
		pick: pick,
	}
}

// Recommend ignores the content of symptoms beyond requiring it.
func (p *Placeholder) Recommend(ctx context.Context, symptoms string) (Recommendation, error) {
	if strings.TrimSpace(symptoms) == "" {
		return Recommendation{}, ErrNoSymptoms
	}
	return Recommendation{
		RecommendedTherapyID: p.ids[p.pick(len(p.ids))],
		Confidence:           placeholderConfidence,
		Reasoning:            placeholderReasoning,
	}, nil
}

// Resolve attaches the catalog entry for the recommended id, if any.
func Resolve(rec Recommendation, items []therapies.Therapy) Recommendation {
	if t, ok := therapies.Lookup(items, rec.RecommendedTherapyID); ok {
		rec.Therapy = &t
	}
	return rec
}

// SymptomSuggestions are quick-pick phrases offered next to the symptom box.
func SymptomSuggestions() []string {
	return []string{
		"Constant headaches and neck stiffness",
		"Chronic stress and anxiety",
		"Digestive issues and bloating",
		"Joint pain and muscle stiffness",
		"Fatigue and low energy",
		"Skin problems and allergies",
		"Insomnia and sleep disorders",
		"High blood pressure",
	}
}
