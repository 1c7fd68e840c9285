package trace

import "github.com/google/uuid"

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelChanges captures only cycles that emitted lifecycle events.
	TraceLevelChanges TraceLevel = "changes"
	// TraceLevelDecisions captures every decision cycle, including idle ones.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelChanges:   true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level           TraceLevel
	CounterfactualK int // number of counterfactual candidates per decision
}

// Enabled reports whether any records are collected.
func (c TraceConfig) Enabled() bool {
	return c.Level != "" && c.Level != TraceLevelNone
}

// DecisionTrace collects decision records during a world run.
type DecisionTrace struct {
	RunID     string
	Config    TraceConfig
	Decisions []DecisionRecord
}

// NewDecisionTrace creates a DecisionTrace with a fresh run ID.
func NewDecisionTrace(config TraceConfig) *DecisionTrace {
	return &DecisionTrace{
		RunID:     uuid.NewString(),
		Config:    config,
		Decisions: make([]DecisionRecord, 0),
	}
}

// RecordDecision appends a decision record if the trace level keeps it.
func (dt *DecisionTrace) RecordDecision(record DecisionRecord) {
	switch dt.Config.Level {
	case TraceLevelDecisions:
	case TraceLevelChanges:
		if len(record.Events) == 0 {
			return
		}
	default:
		return
	}
	dt.Decisions = append(dt.Decisions, record)
}

// ForEntity returns the records of one entity in recording order.
func (dt *DecisionTrace) ForEntity(entityID string) []DecisionRecord {
	var out []DecisionRecord
	for _, r := range dt.Decisions {
		if r.EntityID == entityID {
			out = append(out, r)
		}
	}
	return out
}
