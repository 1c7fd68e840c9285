package scenario

import (
	"context"
	"math"
	"math/rand"

	"github.com/idanarye/yoetz/advisor"
	"github.com/idanarye/yoetz/advisor/world"
)

// payloadFunc builds the payload of one variant from merged params.
type payloadFunc func(params map[string]float64) advisor.Payload

// scriptEvaluator replays a per-tick table of suggestions.
type scriptEvaluator struct {
	variant    advisor.VariantID
	payload    payloadFunc
	base       map[string]float64
	byTick     map[uint64][]ScriptEntry
	whenActive float64
}

func newScriptEvaluator(variant advisor.VariantID, payload payloadFunc, spec EvaluatorSpec) *scriptEvaluator {
	byTick := make(map[uint64][]ScriptEntry)
	for _, entry := range spec.Script {
		byTick[entry.Tick] = append(byTick[entry.Tick], entry)
	}
	return &scriptEvaluator{
		variant:    variant,
		payload:    payload,
		base:       spec.Params,
		byTick:     byTick,
		whenActive: spec.WhenActive,
	}
}

func (e *scriptEvaluator) Evaluate(_ context.Context, s *world.Suggester) error {
	for _, entry := range e.byTick[s.Tick()] {
		score := entry.Score + activeBonus(s, e.variant, e.whenActive)
		if err := s.Suggest(score, e.payload(mergeParams(e.base, entry.Params))); err != nil {
			return err
		}
	}
	return nil
}

// curveEvaluator suggests its variant every tick inside its window with a
// score drawn from a curve. Noise and walk curves own their RNG.
type curveEvaluator struct {
	variant    advisor.VariantID
	payload    advisor.Payload
	curve      CurveSpec
	whenActive float64
	rng        *rand.Rand
	walk       float64
}

func newCurveEvaluator(variant advisor.VariantID, payload advisor.Payload, spec EvaluatorSpec, rng *rand.Rand) *curveEvaluator {
	return &curveEvaluator{
		variant:    variant,
		payload:    payload,
		curve:      *spec.Curve,
		whenActive: spec.WhenActive,
		rng:        rng,
		walk:       spec.Curve.Base,
	}
}

func (e *curveEvaluator) Evaluate(_ context.Context, s *world.Suggester) error {
	tick := s.Tick()
	if tick < e.curve.From || (e.curve.Until != 0 && tick > e.curve.Until) {
		return nil
	}
	score := e.sample(tick) + activeBonus(s, e.variant, e.whenActive)
	return s.Suggest(score, e.payload)
}

func (e *curveEvaluator) sample(tick uint64) float64 {
	c := e.curve
	switch c.Type {
	case CurveSine:
		return c.Base + c.Amplitude*math.Sin(2*math.Pi*(float64(tick)+c.Phase)/c.Period)
	case CurveNoise:
		return c.Base + c.Amplitude*(2*e.rng.Float64()-1)
	case CurveWalk:
		e.walk += c.Amplitude * (2*e.rng.Float64() - 1)
		return e.walk
	default:
		return c.Base
	}
}

func activeBonus(s *world.Suggester, variant advisor.VariantID, bonus float64) float64 {
	if bonus == 0 {
		return 0
	}
	if v, _, ok := s.Current(); ok && v == variant {
		return bonus
	}
	return 0
}
