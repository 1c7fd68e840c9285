// Package scenario describes reproducible advisor runs in YAML: the variant
// catalog, the policy, the entities and the evaluators that score them.
// A Spec builds a world.World ready to step.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/idanarye/yoetz/advisor"
	"github.com/idanarye/yoetz/advisor/trace"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// UpgradeV1ToV2 rewrites a v1 Spec in place: the top-level margin moves into
// policy.hysteresis_margin. Idempotent. Emits a deprecation warning when a
// field is moved.
func UpgradeV1ToV2(s *Spec) {
	if s.Version == "" || s.Version == "1" {
		s.Version = "2"
	}
	if s.Margin != nil {
		if s.Policy.HysteresisMargin == nil {
			logrus.Warnf("deprecated top-level margin auto-mapped to policy.hysteresis_margin; update your scenario")
			s.Policy.HysteresisMargin = s.Margin
		} else {
			logrus.Warnf("deprecated top-level margin ignored; policy.hysteresis_margin is set")
		}
		s.Margin = nil
	}
}

// Spec is the top-level scenario configuration.
// Loaded from YAML via Load(path).
type Spec struct {
	Version  string               `yaml:"version"`
	Name     string               `yaml:"name,omitempty"`
	Seed     int64                `yaml:"seed"`
	Ticks    int                  `yaml:"ticks"`
	Variants []string             `yaml:"variants"`
	Policy   advisor.PolicyBundle `yaml:"policy,omitempty"`
	Trace    TraceSpec            `yaml:"trace,omitempty"`
	Entities []EntitySpec         `yaml:"entities"`

	// Margin is the v1 spelling of policy.hysteresis_margin.
	Margin *float64 `yaml:"margin,omitempty"`
}

// TraceSpec configures decision tracing for the run.
type TraceSpec struct {
	Level           string `yaml:"level,omitempty"`
	CounterfactualK int    `yaml:"counterfactual_k,omitempty"`
}

// EntitySpec declares one entity, or Count identical ones.
type EntitySpec struct {
	ID string `yaml:"id"`
	// Count > 1 creates instances "<id>-001".."<id>-<count>", each with its
	// own RNG streams.
	Count      int             `yaml:"count,omitempty"`
	Evaluators []EvaluatorSpec `yaml:"evaluators"`
}

// EvaluatorSpec scores one variant. Exactly one of Script or Curve is set.
type EvaluatorSpec struct {
	Variant string             `yaml:"variant"`
	Params  map[string]float64 `yaml:"params,omitempty"`
	Script  []ScriptEntry      `yaml:"script,omitempty"`
	Curve   *CurveSpec         `yaml:"curve,omitempty"`
	// WhenActive is added to the score while the variant is the entity's
	// active behavior.
	WhenActive float64 `yaml:"when_active,omitempty"`
}

// ScriptEntry is one scripted suggestion. NaN or infinite scores are
// allowed and exercise invalid-score handling.
type ScriptEntry struct {
	Tick   uint64             `yaml:"tick"`
	Score  float64            `yaml:"score"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// CurveSpec is a score generated every tick in [From, Until].
type CurveSpec struct {
	Type      string  `yaml:"type"`
	Base      float64 `yaml:"base"`
	Amplitude float64 `yaml:"amplitude,omitempty"`
	Period    float64 `yaml:"period,omitempty"` // ticks, sine only
	Phase     float64 `yaml:"phase,omitempty"`  // ticks, sine only
	From      uint64  `yaml:"from,omitempty"`
	Until     uint64  `yaml:"until,omitempty"` // 0 = no end
}

// Curve types.
const (
	CurveConstant = "constant"
	CurveSine     = "sine"
	CurveNoise    = "noise"
	CurveWalk     = "walk"
)

var validCurveTypes = map[string]bool{
	CurveConstant: true, CurveSine: true, CurveNoise: true, CurveWalk: true,
}

// Load reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML scenario and upgrades v1 fields.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing scenario: empty document")
		}
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	UpgradeV1ToV2(&spec)
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *Spec) Validate() error {
	if s.Version != "2" {
		return fmt.Errorf("unsupported version %q; valid: 1, 2", s.Version)
	}
	if s.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", s.Ticks)
	}
	catalog, err := advisor.NewCatalog(s.Variants...)
	if err != nil {
		return fmt.Errorf("variants: %w", err)
	}
	if err := s.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if !trace.IsValidTraceLevel(s.Trace.Level) {
		return fmt.Errorf("trace.level: unknown level %q; valid: none, changes, decisions", s.Trace.Level)
	}
	if s.Trace.CounterfactualK < 0 {
		return fmt.Errorf("trace.counterfactual_k must be non-negative, got %d", s.Trace.CounterfactualK)
	}
	if len(s.Entities) == 0 {
		return fmt.Errorf("at least one entity required")
	}
	seen := make(map[string]bool)
	for i, e := range s.Entities {
		prefix := fmt.Sprintf("entities[%d]", i)
		if e.ID == "" {
			return fmt.Errorf("%s: id must not be empty", prefix)
		}
		if e.Count < 0 {
			return fmt.Errorf("%s: count must be non-negative, got %d", prefix, e.Count)
		}
		for _, id := range e.instanceIDs() {
			if seen[id] {
				return fmt.Errorf("%s: duplicate entity ID %q", prefix, id)
			}
			seen[id] = true
		}
		for j := range e.Evaluators {
			if err := validateEvaluator(catalog, &e.Evaluators[j], fmt.Sprintf("%s.evaluators[%d]", prefix, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateEvaluator(catalog *advisor.Catalog, ev *EvaluatorSpec, prefix string) error {
	if _, ok := catalog.Lookup(ev.Variant); !ok {
		return fmt.Errorf("%s: unknown variant %q: %w", prefix, ev.Variant, advisor.ErrPayloadMismatch)
	}
	if (ev.Curve == nil) == (len(ev.Script) == 0) {
		return fmt.Errorf("%s: exactly one of script or curve is required", prefix)
	}
	if err := validateFinite(prefix+".when_active", ev.WhenActive); err != nil {
		return err
	}
	if err := validateParams(prefix+".params", ev.Params); err != nil {
		return err
	}
	for k, entry := range ev.Script {
		if entry.Tick == 0 {
			return fmt.Errorf("%s.script[%d]: tick must be >= 1", prefix, k)
		}
		if err := validateParams(fmt.Sprintf("%s.script[%d].params", prefix, k), entry.Params); err != nil {
			return err
		}
	}
	if c := ev.Curve; c != nil {
		if !validCurveTypes[c.Type] {
			return fmt.Errorf("%s.curve: unknown type %q; valid: constant, sine, noise, walk", prefix, c.Type)
		}
		for name, v := range map[string]float64{"base": c.Base, "amplitude": c.Amplitude, "period": c.Period, "phase": c.Phase} {
			if err := validateFinite(prefix+".curve."+name, v); err != nil {
				return err
			}
		}
		if c.Type == CurveSine && c.Period <= 0 {
			return fmt.Errorf("%s.curve: sine period must be positive, got %v", prefix, c.Period)
		}
		if c.Until != 0 && c.Until < c.From {
			return fmt.Errorf("%s.curve: until (%d) before from (%d)", prefix, c.Until, c.From)
		}
	}
	return nil
}

func validateParams(prefix string, params map[string]float64) error {
	for name, v := range params {
		if err := validateFinite(prefix+"."+name, v); err != nil {
			return err
		}
	}
	return nil
}

func validateFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	return nil
}

// instanceIDs expands Count into concrete entity IDs.
func (e EntitySpec) instanceIDs() []string {
	if e.Count <= 1 {
		return []string{e.ID}
	}
	ids := make([]string, e.Count)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%03d", e.ID, i+1)
	}
	return ids
}
