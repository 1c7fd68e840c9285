package advisor

// Variants used across advisor tests, in declaration order.
const (
	vA VariantID = iota
	vB
	vX
	vChase
)

var testCatalog = MustCatalog("a", "b", "x", "chase")

// chase is a payload with data, used to exercise Update detection.
type chase struct {
	Target string
	Speed  float64
}

func (chase) Variant() VariantID { return vChase }

// tagged is a payload for vA/vB carrying a label, so tests can tell
// duplicates of the same variant apart.
type tagged struct {
	V     VariantID
	Label string
}

func (t tagged) Variant() VariantID { return t.V }

func sugg(score float64, p Payload) Suggestion { return NewSuggestion(score, p) }

func mustPolicy(margin float64) Policy {
	p, err := NewPolicy(margin)
	if err != nil {
		panic(err)
	}
	return p
}

func active(v VariantID, p Payload, score float64, tick uint64) Decision {
	return Decision{Active: true, Variant: v, Payload: p, Score: score, LastSwitchTick: tick}
}
