package advisor

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them via errors.Is.
var (
	// ErrInvalidScore reports a NaN or infinite suggestion score. The
	// suggestion is dropped; the rest of the cycle is unaffected.
	ErrInvalidScore = errors.New("invalid score")

	// ErrPhaseViolation reports a call made outside its phase. It is a host
	// wiring bug, never a runtime data condition.
	ErrPhaseViolation = errors.New("phase violation")

	// ErrPayloadMismatch reports a payload whose type or variant disagrees
	// with the registration for its variant.
	ErrPayloadMismatch = errors.New("payload mismatch")
)

// InvalidScoreError carries the rejected suggestion's variant and score.
type InvalidScoreError struct {
	Variant VariantID
	Score   float64
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("invalid score %v for variant %d: must be a finite number", e.Score, e.Variant)
}

// Is matches ErrInvalidScore.
func (e *InvalidScoreError) Is(target error) bool { return target == ErrInvalidScore }

// PhaseViolationError names the offending operation and the phase it was called in.
type PhaseViolationError struct {
	Op    string
	Phase Phase
}

func (e *PhaseViolationError) Error() string {
	return fmt.Sprintf("%s called during %s phase", e.Op, e.Phase)
}

// Is matches ErrPhaseViolation.
func (e *PhaseViolationError) Is(target error) bool { return target == ErrPhaseViolation }

// PayloadMismatchError describes a registration or payload typing error.
type PayloadMismatchError struct {
	Variant VariantID
	Reason  string
}

func (e *PayloadMismatchError) Error() string {
	return fmt.Sprintf("variant %d: %s", e.Variant, e.Reason)
}

// Is matches ErrPayloadMismatch.
func (e *PayloadMismatchError) Is(target error) bool { return target == ErrPayloadMismatch }
