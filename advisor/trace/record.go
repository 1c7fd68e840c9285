// Package trace provides decision-trace recording for behavior selection analysis.
// This package has no dependencies on advisor/ or advisor/world/; it stores pure data types.
package trace

// CandidateScore captures a counterfactual champion with its score.
type CandidateScore struct {
	Variant string  `json:"variant"`
	Score   float64 `json:"score"`
}

// DecisionRecord captures one entity's decision cycle.
type DecisionRecord struct {
	Tick     uint64 `json:"tick"`
	EntityID string `json:"entity"`
	Outcome  string `json:"outcome"`
	// Variant is the decision after the cycle; empty when no behavior is active.
	Variant     string           `json:"variant,omitempty"`
	Score       float64          `json:"score"`
	BestVariant string           `json:"best_variant,omitempty"`
	BestScore   float64          `json:"best_score"`
	Regret      float64          `json:"regret"` // best score - chosen score; 0 if chosen is best
	Reason      string           `json:"reason"`
	Events      []string         `json:"events,omitempty"`
	Dropped     int              `json:"dropped,omitempty"`    // suggestions rejected for invalid scores
	Candidates  []CandidateScore `json:"candidates,omitempty"` // top-k champions sorted by score desc (nil if k=0)
}

// Switched reports whether the cycle changed the active variant.
func (r DecisionRecord) Switched() bool {
	return r.Outcome == "adopted" || r.Outcome == "switched"
}
