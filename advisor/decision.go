package advisor

import (
	"fmt"
	"sort"
)

// Decision is the active behavior of one entity. Active == false is the
// "no active behavior" state; Variant and Payload are meaningless then.
type Decision struct {
	Active         bool
	Variant        VariantID
	Payload        Payload
	Score          float64 // champion score of the cycle that produced this decision
	LastSwitchTick uint64
}

// Idle is the decision of an entity that has never received a suggestion.
func Idle() Decision { return Decision{} }

// Outcome classifies how a Verdict was reached.
type Outcome uint8

const (
	// OutcomeIdle: the batch was empty; the previous decision is retained.
	OutcomeIdle Outcome = iota
	// OutcomeAdopted: no incumbent; the best champion was adopted.
	OutcomeAdopted
	// OutcomeKept: the incumbent is the best champion.
	OutcomeKept
	// OutcomeHeld: a challenger scored higher, but not by more than the margin.
	OutcomeHeld
	// OutcomeSwitched: the incumbent lost or was absent; the best champion took over.
	OutcomeSwitched
)

var outcomeNames = [...]string{
	OutcomeIdle:     "idle",
	OutcomeAdopted:  "adopted",
	OutcomeKept:     "kept",
	OutcomeHeld:     "held",
	OutcomeSwitched: "switched",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Verdict is the result of one decision cycle.
type Verdict struct {
	Decision  Decision
	Outcome   Outcome
	Best      Suggestion   // globally best champion; zero value when the batch was empty
	Champions []Suggestion // best suggestion per variant, in declaration order
	// Regret = Best.Score - chosen score; 0 when the chosen variant is the best,
	// at most the hysteresis margin when the incumbent is held.
	Regret float64
	Reason string
}

// Switched reports whether the verdict changed the active variant.
func (v Verdict) Switched() bool {
	return v.Outcome == OutcomeAdopted || v.Outcome == OutcomeSwitched
}

// Champions reduces batch to the highest-scoring suggestion per variant,
// sorted by VariantID. Equal-score duplicates of one variant resolve to the
// earliest submission.
func Champions(batch []Suggestion) []Suggestion {
	if len(batch) == 0 {
		return nil
	}
	index := make(map[VariantID]int, len(batch))
	champions := make([]Suggestion, 0, len(batch))
	for _, s := range batch {
		i, seen := index[s.Variant]
		if !seen {
			index[s.Variant] = len(champions)
			champions = append(champions, s)
			continue
		}
		cur := champions[i]
		if s.Score > cur.Score || (s.Score == cur.Score && s.seq < cur.seq) {
			champions[i] = s
		}
	}
	sort.Slice(champions, func(i, j int) bool {
		return champions[i].Variant < champions[j].Variant
	})
	return champions
}

// bestChampion returns the argmax over champions sorted by variant.
// Ties broken by first occurrence, i.e. declaration order (strict >).
func bestChampion(champions []Suggestion) Suggestion {
	best := champions[0]
	for _, c := range champions[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best
}

// Decide selects the new decision from the previous one and this cycle's batch.
// It is a pure function of its arguments.
//
// An empty batch retains prev. Otherwise the incumbent is kept while its
// champion score plus the hysteresis margin is at least the best score;
// anything else switches to the best champion and records tick as the switch tick.
func Decide(prev Decision, batch []Suggestion, policy Policy, tick uint64) Verdict {
	if len(batch) == 0 {
		return Verdict{
			Decision: prev,
			Outcome:  OutcomeIdle,
			Reason:   "idle (no suggestions)",
		}
	}

	champions := Champions(batch)
	best := bestChampion(champions)

	if prev.Active {
		for _, c := range champions {
			if c.Variant != prev.Variant {
				continue
			}
			if c.Score+policy.HysteresisMargin >= best.Score {
				outcome := OutcomeKept
				reason := fmt.Sprintf("kept %d (score=%.3f)", c.Variant, c.Score)
				if best.Variant != c.Variant {
					outcome = OutcomeHeld
					reason = fmt.Sprintf("held %d (score=%.3f, challenger %d=%.3f, margin=%.3f)",
						c.Variant, c.Score, best.Variant, best.Score, policy.HysteresisMargin)
				}
				return Verdict{
					Decision: Decision{
						Active:         true,
						Variant:        c.Variant,
						Payload:        c.Payload,
						Score:          c.Score,
						LastSwitchTick: prev.LastSwitchTick,
					},
					Outcome:   outcome,
					Best:      best,
					Champions: champions,
					Regret:    best.Score - c.Score,
					Reason:    reason,
				}
			}
			break
		}
	}

	outcome := OutcomeSwitched
	reason := fmt.Sprintf("switched %d -> %d (score=%.3f)", prev.Variant, best.Variant, best.Score)
	if !prev.Active {
		outcome = OutcomeAdopted
		reason = fmt.Sprintf("adopted %d (score=%.3f)", best.Variant, best.Score)
	}
	return Verdict{
		Decision: Decision{
			Active:         true,
			Variant:        best.Variant,
			Payload:        best.Payload,
			Score:          best.Score,
			LastSwitchTick: tick,
		},
		Outcome:   outcome,
		Best:      best,
		Champions: champions,
		Reason:    reason,
	}
}
