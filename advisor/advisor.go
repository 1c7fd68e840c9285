package advisor

// Cycle is what one decision phase produced for one entity.
type Cycle struct {
	Tick    uint64
	Verdict Verdict
	// Events are the lifecycle transitions to apply, in order.
	Events []Event
	// Dropped counts suggestions rejected for invalid scores this cycle.
	Dropped int
	// Previous is the decision before this cycle.
	Previous Decision
}

// Advisor is the per-entity decision state: the open collector, the current
// decision and the phase machine guarding them. Hosts own one Advisor per
// entity and pass it around by pointer; there is no global registry.
//
// Phase violations are host wiring bugs: Advisor panics with a
// *PhaseViolationError instead of returning them.
type Advisor struct {
	policy    Policy
	equal     PayloadEqualFunc
	collector Collector
	decision  Decision
	phase     Phase
}

// New creates an idle advisor. Panics if policy fails validation.
// A nil equal falls back to DeepEqualPayloads.
func New(policy Policy, equal PayloadEqualFunc) *Advisor {
	if err := policy.Validate(); err != nil {
		panic("advisor.New: " + err.Error())
	}
	if equal == nil {
		equal = DeepEqualPayloads
	}
	return &Advisor{policy: policy, equal: equal}
}

// Policy returns the advisor's policy.
func (a *Advisor) Policy() Policy { return a.policy }

// Phase returns the current phase.
func (a *Advisor) Phase() Phase { return a.phase }

// Decision returns a copy of the current decision.
func (a *Advisor) Decision() Decision { return a.decision }

// Current returns the active variant and its payload. ok is false when no
// behavior is active. Stable between decision phases.
func (a *Advisor) Current() (variant VariantID, payload Payload, ok bool) {
	if !a.decision.Active {
		return 0, nil, false
	}
	return a.decision.Variant, a.decision.Payload, true
}

// BeginCycle opens the collection window. Legal only in PhaseIdle, i.e. once
// per tick after the previous apply phase completed.
func (a *Advisor) BeginCycle() {
	a.expect("BeginCycle", PhaseIdle)
	if err := a.collector.BeginCycle(); err != nil {
		panic(err)
	}
	a.phase = PhaseCollect
}

// Submit proposes payload's variant with score. Returns an InvalidScoreError
// (and drops the suggestion) for NaN or infinite scores.
func (a *Advisor) Submit(score float64, payload Payload) error {
	a.expect("Submit", PhaseCollect)
	return a.collector.Submit(NewSuggestion(score, payload))
}

// Think runs the decision phase: drains the collector, decides and diffs.
// The advisor then waits in PhaseApply until Applied is called.
func (a *Advisor) Think(tick uint64) Cycle {
	a.expect("Think", PhaseCollect)
	a.phase = PhaseDecide
	dropped := a.collector.Dropped()
	batch, err := a.collector.Drain()
	if err != nil {
		panic(err)
	}
	prev := a.decision
	verdict := Decide(prev, batch, a.policy, tick)
	events := Synchronize(prev, verdict.Decision, a.equal)
	a.decision = verdict.Decision
	a.phase = PhaseApply
	return Cycle{
		Tick:     tick,
		Verdict:  verdict,
		Events:   events,
		Dropped:  dropped,
		Previous: prev,
	}
}

// Applied marks the apply phase complete.
func (a *Advisor) Applied() {
	a.expect("Applied", PhaseApply)
	a.phase = PhaseIdle
}

// Reset drops the active decision without emitting events, for hosts that
// tear the entity's behavior state down themselves. Legal in PhaseIdle.
func (a *Advisor) Reset() {
	a.expect("Reset", PhaseIdle)
	a.decision = Idle()
}

func (a *Advisor) expect(op string, want Phase) {
	if a.phase != want {
		panic(&PhaseViolationError{Op: op, Phase: a.phase})
	}
}
