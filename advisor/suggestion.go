package advisor

import (
	"fmt"
	"math"
)

// Payload is the variant-specific data carried by a suggestion. Each payload
// type belongs to exactly one variant and reports it, so a suggestion's tag
// and data cannot disagree.
type Payload interface {
	Variant() VariantID
}

// Marker is a payload for variants that carry no data.
type Marker VariantID

// Variant implements Payload.
func (m Marker) Variant() VariantID { return VariantID(m) }

// Suggestion is one evaluator's proposal for one tick. Never mutated after creation.
type Suggestion struct {
	Variant VariantID
	Score   float64
	Payload Payload

	seq int // submission order within the cycle, assigned by Collector
}

// NewSuggestion builds a suggestion for payload's variant.
// Panics on a nil payload.
func NewSuggestion(score float64, payload Payload) Suggestion {
	if payload == nil {
		panic("NewSuggestion: nil payload")
	}
	return Suggestion{Variant: payload.Variant(), Score: score, Payload: payload}
}

// String renders the suggestion for logs and test failures.
func (s Suggestion) String() string {
	return fmt.Sprintf("%d(%g)", s.Variant, s.Score)
}

// ValidateScore returns an *InvalidScoreError for NaN or infinite scores.
func ValidateScore(variant VariantID, score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return &InvalidScoreError{Variant: variant, Score: score}
	}
	return nil
}
