package advisor

// Collector accumulates the suggestions submitted for one entity during one
// tick's collection window. It performs no selection.
//
// Thread-safety: NOT thread-safe. One writer per entity per phase.
type Collector struct {
	suggestions []Suggestion
	open        bool
	nextSeq     int
	dropped     int
}

// BeginCycle discards the previous tick's suggestions and opens the window.
// Returns a PhaseViolationError if the window is already open.
func (c *Collector) BeginCycle() error {
	if c.open {
		return &PhaseViolationError{Op: "BeginCycle", Phase: PhaseCollect}
	}
	c.suggestions = c.suggestions[:0]
	c.nextSeq = 0
	c.dropped = 0
	c.open = true
	return nil
}

// Open reports whether the collection window is open.
func (c *Collector) Open() bool { return c.open }

// Submit stores s. NaN or infinite scores are dropped with an InvalidScoreError;
// calls outside the window return a PhaseViolationError.
func (c *Collector) Submit(s Suggestion) error {
	if !c.open {
		return &PhaseViolationError{Op: "Submit", Phase: PhaseIdle}
	}
	if err := ValidateScore(s.Variant, s.Score); err != nil {
		c.dropped++
		return err
	}
	s.seq = c.nextSeq
	c.nextSeq++
	c.suggestions = append(c.suggestions, s)
	return nil
}

// Drain returns the valid suggestions of this cycle and closes the window.
// The returned slice is owned by the caller. Draining a closed collector
// returns a PhaseViolationError.
func (c *Collector) Drain() ([]Suggestion, error) {
	if !c.open {
		return nil, &PhaseViolationError{Op: "Drain", Phase: PhaseIdle}
	}
	c.open = false
	out := make([]Suggestion, len(c.suggestions))
	copy(out, c.suggestions)
	c.suggestions = c.suggestions[:0]
	return out, nil
}

// Len returns the number of valid suggestions collected so far this cycle.
func (c *Collector) Len() int { return len(c.suggestions) }

// Dropped returns the number of suggestions rejected for invalid scores since
// the last BeginCycle.
func (c *Collector) Dropped() int { return c.dropped }
