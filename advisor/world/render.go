package world

import (
	"fmt"
	"io"
	"strings"

	"github.com/idanarye/yoetz/advisor"
)

// RenderEvent formats ev with variant names, e.g. "deactivate(wander)" or
// "activate(chase {rat 2})". Marker payloads are omitted.
func RenderEvent(catalog *advisor.Catalog, ev advisor.Event) string {
	name := catalog.Name(ev.Variant)
	if ev.Kind == advisor.EventDeactivate || ev.Payload == nil {
		return fmt.Sprintf("%s(%s)", ev.Kind, name)
	}
	if _, marker := ev.Payload.(advisor.Marker); marker {
		return fmt.Sprintf("%s(%s)", ev.Kind, name)
	}
	return fmt.Sprintf("%s(%s %v)", ev.Kind, name, ev.Payload)
}

// WriteTransitions writes one line per transition that emitted events:
// "[tick 0000003] npc-1: deactivate(wander) activate(chase)".
func WriteTransitions(w io.Writer, catalog *advisor.Catalog, transitions []Transition) error {
	for _, t := range transitions {
		if len(t.Cycle.Events) == 0 {
			continue
		}
		parts := make([]string, len(t.Cycle.Events))
		for i, ev := range t.Cycle.Events {
			parts[i] = RenderEvent(catalog, ev)
		}
		if _, err := fmt.Fprintf(w, "[tick %07d] %s: %s\n", t.Cycle.Tick, t.EntityID, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
