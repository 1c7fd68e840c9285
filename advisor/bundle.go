package advisor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyBundle holds policy configuration loadable from YAML.
// Nil pointer fields mean "not set in YAML"; they do not override defaults.
type PolicyBundle struct {
	HysteresisMargin *float64 `yaml:"hysteresis_margin"`
	TieBreak         string   `yaml:"tie_break"`
	DecisionStage    string   `yaml:"decision_stage"`
}

// LoadPolicyBundle reads and parses a YAML policy file.
// Uses strict parsing: unrecognized keys are rejected.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	return ParsePolicyBundle(data)
}

// ParsePolicyBundle parses YAML policy configuration from data.
func ParsePolicyBundle(data []byte) (*PolicyBundle, error) {
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// Validate checks parameter ranges and names in the bundle.
func (b *PolicyBundle) Validate() error {
	_, err := b.Policy(DefaultPolicy())
	return err
}

// Policy overlays the bundle's set fields onto base and validates the result.
func (b *PolicyBundle) Policy(base Policy) (Policy, error) {
	p := base
	if b.HysteresisMargin != nil {
		p.HysteresisMargin = *b.HysteresisMargin
	}
	if b.TieBreak != "" {
		p.TieBreak = TieBreak(b.TieBreak)
	}
	if b.DecisionStage != "" {
		p.DecisionStage = b.DecisionStage
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
