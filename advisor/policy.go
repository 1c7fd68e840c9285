package advisor

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// TieBreak names the rule that orders champions with exactly equal scores.
type TieBreak string

const (
	// TieBreakDeclarationOrder prefers the variant declared first in the Catalog.
	TieBreakDeclarationOrder TieBreak = "declaration-order"
)

// validTieBreaks maps accepted tie-break names. Unexported to prevent mutation.
var validTieBreaks = map[TieBreak]bool{
	TieBreakDeclarationOrder: true,
	"":                       true, // empty defaults to declaration-order
}

// IsValidTieBreak returns true if name is a recognized tie-break rule.
func IsValidTieBreak(name string) bool { return validTieBreaks[TieBreak(name)] }

// ValidTieBreakNames returns sorted non-empty tie-break names.
func ValidTieBreakNames() []string {
	names := make([]string, 0, len(validTieBreaks))
	for name := range validTieBreaks {
		if name != "" {
			names = append(names, string(name))
		}
	}
	sort.Strings(names)
	return names
}

// Policy configures the Decision Engine. Not mutated at runtime.
type Policy struct {
	// HysteresisMargin is added to the incumbent's score when comparing it
	// against the best challenger. Zero means pure highest-score-wins.
	HysteresisMargin float64
	TieBreak         TieBreak
	// DecisionStage names the host stage at which the decision phase runs.
	DecisionStage string
}

// DefaultPolicy returns a policy with no hysteresis and the default stage.
func DefaultPolicy() Policy {
	return Policy{
		TieBreak:      TieBreakDeclarationOrder,
		DecisionStage: DefaultDecisionStage,
	}
}

// NewPolicy returns a validated policy with the given margin and defaults elsewhere.
func NewPolicy(margin float64) (Policy, error) {
	p := DefaultPolicy()
	p.HysteresisMargin = margin
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks the margin is finite and non-negative and the tie-break is known.
func (p Policy) Validate() error {
	if math.IsNaN(p.HysteresisMargin) || math.IsInf(p.HysteresisMargin, 0) {
		return fmt.Errorf("hysteresis_margin must be a finite number, got %v", p.HysteresisMargin)
	}
	if p.HysteresisMargin < 0 {
		return fmt.Errorf("hysteresis_margin must be non-negative, got %v", p.HysteresisMargin)
	}
	if !IsValidTieBreak(string(p.TieBreak)) {
		return fmt.Errorf("unknown tie_break %q; valid: %s", p.TieBreak, strings.Join(ValidTieBreakNames(), ", "))
	}
	if strings.ContainsAny(p.DecisionStage, " \t\n") {
		return fmt.Errorf("decision_stage %q must not contain whitespace", p.DecisionStage)
	}
	return nil
}

// Stage returns the decision stage, falling back to DefaultDecisionStage.
func (p Policy) Stage() string {
	if p.DecisionStage == "" {
		return DefaultDecisionStage
	}
	return p.DecisionStage
}

// ParseMargin parses a hysteresis margin from a flag value.
// Returns an error for NaN, Inf, negative or malformed input.
func ParseMargin(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hysteresis margin %q: %w", s, err)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("hysteresis margin must be a finite non-negative number, got %v", v)
	}
	return v, nil
}
