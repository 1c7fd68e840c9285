package world

import (
	"fmt"

	"github.com/idanarye/yoetz/advisor"
)

// Entity is one agent in the world: its advisor, its evaluators and the
// behavior state the registry callbacks maintain on it.
type Entity struct {
	ID      string
	Advisor *advisor.Advisor

	evaluators []Evaluator

	// Attached is the payload of the currently attached behavior; nil when none.
	Attached advisor.Payload
	// Attaches, Detaches and Updates count registry callbacks received.
	Attaches int
	Detaches int
	Updates  int
}

// Evaluators returns the entity's evaluators in run order.
func (e *Entity) Evaluators() []Evaluator { return e.evaluators }

// TrackingBehavior returns a Behavior that records the attached payload on
// the entity. Update fails when the entity's attached state does not belong
// to the updated variant, which makes the registry re-attach.
func TrackingBehavior(prototype advisor.Payload) advisor.Behavior[*Entity] {
	return advisor.Behavior[*Entity]{
		Prototype: prototype,
		Attach: func(e *Entity, p advisor.Payload) {
			e.Attached = p
			e.Attaches++
		},
		Detach: func(e *Entity) {
			e.Attached = nil
			e.Detaches++
		},
		Update: func(e *Entity, p advisor.Payload) error {
			if e.Attached == nil || e.Attached.Variant() != p.Variant() {
				return fmt.Errorf("entity %s has no attached state for variant %d", e.ID, p.Variant())
			}
			e.Attached = p
			e.Updates++
			return nil
		},
	}
}
