package trace

import (
	"encoding/json"
	"fmt"
	"io"
)

// jsonTrace is the on-disk JSON shape of a DecisionTrace.
type jsonTrace struct {
	RunID     string           `json:"run_id"`
	Level     TraceLevel       `json:"level"`
	Decisions []DecisionRecord `json:"decisions"`
}

// WriteJSON writes dt as indented JSON.
func WriteJSON(w io.Writer, dt *DecisionTrace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonTrace{RunID: dt.RunID, Level: dt.Config.Level, Decisions: dt.Decisions}); err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	return nil
}

// ReadJSON parses a trace written by WriteJSON.
func ReadJSON(r io.Reader) (*DecisionTrace, error) {
	var jt jsonTrace
	if err := json.NewDecoder(r).Decode(&jt); err != nil {
		return nil, fmt.Errorf("decoding trace: %w", err)
	}
	return &DecisionTrace{
		RunID:     jt.RunID,
		Config:    TraceConfig{Level: jt.Level},
		Decisions: jt.Decisions,
	}, nil
}
