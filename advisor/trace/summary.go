package trace

// TraceSummary aggregates statistics from a DecisionTrace.
type TraceSummary struct {
	TotalDecisions int
	OutcomeCounts  map[string]int // outcome → cycles
	EventCounts    map[string]int // "activate"/"deactivate"/"update" → events
	DroppedCount   int
	MeanRegret     float64
	MaxRegret      float64
	UniqueVariants int
	// VariantDistribution counts cycles that ended with each variant active.
	VariantDistribution map[string]int
	// SwitchesPerEntity counts adoptions and switches per entity.
	SwitchesPerEntity map[string]int
}

// Summarize computes aggregate statistics from a DecisionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(dt *DecisionTrace) *TraceSummary {
	summary := &TraceSummary{
		OutcomeCounts:       make(map[string]int),
		EventCounts:         make(map[string]int),
		VariantDistribution: make(map[string]int),
		SwitchesPerEntity:   make(map[string]int),
	}
	if dt == nil {
		return summary
	}

	summary.TotalDecisions = len(dt.Decisions)
	totalRegret := 0.0
	for _, r := range dt.Decisions {
		summary.OutcomeCounts[r.Outcome]++
		summary.DroppedCount += r.Dropped
		for _, ev := range r.Events {
			summary.EventCounts[eventKind(ev)]++
		}
		if r.Variant != "" {
			summary.VariantDistribution[r.Variant]++
		}
		if r.Switched() {
			summary.SwitchesPerEntity[r.EntityID]++
		}
		totalRegret += r.Regret
		if r.Regret > summary.MaxRegret {
			summary.MaxRegret = r.Regret
		}
	}
	if summary.TotalDecisions > 0 {
		summary.MeanRegret = totalRegret / float64(summary.TotalDecisions)
	}
	summary.UniqueVariants = len(summary.VariantDistribution)

	return summary
}

// eventKind extracts the kind from a rendered event such as "activate(chase)".
func eventKind(ev string) string {
	for i := 0; i < len(ev); i++ {
		if ev[i] == '(' {
			return ev[:i]
		}
	}
	return ev
}
