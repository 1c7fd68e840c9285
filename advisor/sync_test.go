package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynchronize_Transitions(t *testing.T) {
	tests := []struct {
		name string
		prev Decision
		next Decision
		want []Event
	}{
		{
			name: "idle to idle emits nothing",
			prev: Idle(),
			next: Idle(),
			want: nil,
		},
		{
			name: "adoption activates",
			prev: Idle(),
			next: active(vB, Marker(vB), 7, 1),
			want: []Event{{Kind: EventActivate, Variant: vB, Payload: Marker(vB)}},
		},
		{
			name: "switch deactivates then activates",
			prev: active(vA, Marker(vA), 5, 0),
			next: active(vB, Marker(vB), 8, 1),
			want: []Event{
				{Kind: EventDeactivate, Variant: vA},
				{Kind: EventActivate, Variant: vB, Payload: Marker(vB)},
			},
		},
		{
			name: "going idle deactivates",
			prev: active(vA, Marker(vA), 5, 0),
			next: Idle(),
			want: []Event{{Kind: EventDeactivate, Variant: vA}},
		},
		{
			name: "same variant same payload emits nothing",
			prev: active(vChase, chase{Target: "rat"}, 5, 0),
			next: active(vChase, chase{Target: "rat"}, 6, 0),
			want: nil,
		},
		{
			name: "same variant new payload updates",
			prev: active(vChase, chase{Target: "rat"}, 5, 0),
			next: active(vChase, chase{Target: "cat"}, 5, 0),
			want: []Event{{Kind: EventUpdate, Variant: vChase, Payload: chase{Target: "cat"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synchronize(tt.prev, tt.next, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSynchronize_CustomEqual_SuppressesUpdate(t *testing.T) {
	// GIVEN an equality that ignores Speed
	equal := func(_ VariantID, a, b Payload) bool {
		return a.(chase).Target == b.(chase).Target
	}
	prev := active(vChase, chase{Target: "rat", Speed: 1}, 5, 0)
	next := active(vChase, chase{Target: "rat", Speed: 9}, 5, 0)

	// WHEN synchronizing
	events := Synchronize(prev, next, equal)

	// THEN no Update is emitted
	assert.Empty(t, events)
}

// TestSynchronize_SingleEventInvariant walks every pair of decisions drawn
// from a small pool and checks the per-cycle event bounds.
func TestSynchronize_SingleEventInvariant(t *testing.T) {
	pool := []Decision{
		Idle(),
		active(vA, Marker(vA), 1, 0),
		active(vB, Marker(vB), 1, 0),
		active(vChase, chase{Target: "rat"}, 1, 0),
		active(vChase, chase{Target: "cat"}, 1, 0),
	}
	for _, prev := range pool {
		for _, next := range pool {
			events := Synchronize(prev, next, nil)
			counts := map[EventKind]int{}
			for _, ev := range events {
				counts[ev.Kind]++
			}
			assert.LessOrEqual(t, counts[EventDeactivate], 1)
			assert.LessOrEqual(t, counts[EventActivate]+counts[EventUpdate], 1)
			if len(events) == 2 {
				assert.Equal(t, EventDeactivate, events[0].Kind, "deactivate must precede activate")
			}
		}
	}
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "deactivate(1)", Event{Kind: EventDeactivate, Variant: vB}.String())
	assert.Equal(t, "activate(0, 0)", Event{Kind: EventActivate, Variant: vA, Payload: Marker(vA)}.String())
}
