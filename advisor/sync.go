package advisor

import (
	"fmt"
	"reflect"
)

// EventKind is the lifecycle transition a host must apply.
type EventKind uint8

const (
	EventDeactivate EventKind = iota + 1
	EventActivate
	EventUpdate
)

func (k EventKind) String() string {
	switch k {
	case EventDeactivate:
		return "deactivate"
	case EventActivate:
		return "activate"
	case EventUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Event is one lifecycle transition. Payload is nil for EventDeactivate.
type Event struct {
	Kind    EventKind
	Variant VariantID
	Payload Payload
}

func (e Event) String() string {
	if e.Kind == EventDeactivate {
		return fmt.Sprintf("%s(%d)", e.Kind, e.Variant)
	}
	return fmt.Sprintf("%s(%d, %v)", e.Kind, e.Variant, e.Payload)
}

// PayloadEqualFunc reports whether two payloads of the same variant are
// equivalent, i.e. no Update is needed.
type PayloadEqualFunc func(variant VariantID, a, b Payload) bool

// DeepEqualPayloads is the fallback PayloadEqualFunc.
func DeepEqualPayloads(_ VariantID, a, b Payload) bool {
	return reflect.DeepEqual(a, b)
}

// Synchronize diffs two decisions into the ordered events the host must apply:
// Deactivate(old) then Activate(new) on a variant change, a single Update when
// the variant is unchanged but the payload differs, nothing otherwise.
// A nil equal falls back to DeepEqualPayloads.
func Synchronize(prev, next Decision, equal PayloadEqualFunc) []Event {
	if equal == nil {
		equal = DeepEqualPayloads
	}

	if prev.Active && next.Active && prev.Variant == next.Variant {
		if equal(next.Variant, prev.Payload, next.Payload) {
			return nil
		}
		return []Event{{Kind: EventUpdate, Variant: next.Variant, Payload: next.Payload}}
	}

	var events []Event
	if prev.Active {
		events = append(events, Event{Kind: EventDeactivate, Variant: prev.Variant})
	}
	if next.Active {
		events = append(events, Event{Kind: EventActivate, Variant: next.Variant, Payload: next.Payload})
	}
	return events
}
