package advisor

// Phase is a step of the per-tick decision cycle. The host's scheduler drives
// the phases in order; Advisor only checks that it does.
//
//	PhaseIdle ──BeginCycle──▶ PhaseCollect ──Think──▶ PhaseApply ──Applied──▶ PhaseIdle
//
// PhaseDecide is observable only while Think runs.
type Phase uint8

const (
	// PhaseIdle: no cycle open. BeginCycle is the only legal call.
	PhaseIdle Phase = iota
	// PhaseCollect: evaluators submit suggestions.
	PhaseCollect
	// PhaseDecide: the Decision Engine and State Synchronizer run.
	PhaseDecide
	// PhaseApply: the host applies lifecycle events to its own state.
	PhaseApply
)

var phaseNames = [...]string{
	PhaseIdle:    "idle",
	PhaseCollect: "collect",
	PhaseDecide:  "decide",
	PhaseApply:   "apply",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// DefaultDecisionStage is the host stage at which the decision phase runs
// when a Policy does not name one.
const DefaultDecisionStage = "think"

// Stage names used by hosts that follow the suggest/think/act layout.
const (
	StageSuggest = "suggest"
	StageAct     = "act"
)
