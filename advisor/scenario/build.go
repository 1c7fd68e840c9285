package scenario

import (
	"fmt"

	"github.com/idanarye/yoetz/advisor"
	"github.com/idanarye/yoetz/advisor/trace"
	"github.com/idanarye/yoetz/advisor/world"
)

// Catalog returns the variant catalog in declaration order.
func (s *Spec) Catalog() (*advisor.Catalog, error) {
	return advisor.NewCatalog(s.Variants...)
}

// dataVariants reports which variants carry Params payloads: those with
// params on any evaluator or script entry. The rest use advisor.Marker.
func (s *Spec) dataVariants(catalog *advisor.Catalog) []bool {
	data := make([]bool, catalog.Len())
	for _, e := range s.Entities {
		for _, ev := range e.Evaluators {
			id, ok := catalog.Lookup(ev.Variant)
			if !ok {
				continue
			}
			if len(ev.Params) > 0 {
				data[id] = true
			}
			for _, entry := range ev.Script {
				if len(entry.Params) > 0 {
					data[id] = true
				}
			}
		}
	}
	return data
}

// Registry returns a registry with a world.TrackingBehavior for every variant.
func (s *Spec) Registry() (*advisor.Registry[*world.Entity], error) {
	catalog, err := s.Catalog()
	if err != nil {
		return nil, err
	}
	registry := advisor.NewRegistry[*world.Entity](catalog)
	for id, data := range s.dataVariants(catalog) {
		v := advisor.VariantID(id)
		var prototype advisor.Payload = advisor.Marker(v)
		if data {
			prototype = Params{V: v}
		}
		if err := registry.Register(v, world.TrackingBehavior(prototype)); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// WorldConfig resolves the scenario's policy over base and its trace settings.
func (s *Spec) WorldConfig(base advisor.Policy) (world.Config, error) {
	policy, err := s.Policy.Policy(base)
	if err != nil {
		return world.Config{}, fmt.Errorf("policy: %w", err)
	}
	return world.Config{
		Policy: policy,
		Trace: trace.TraceConfig{
			Level:           trace.TraceLevel(s.Trace.Level),
			CounterfactualK: s.Trace.CounterfactualK,
		},
	}, nil
}

// Build validates the spec and creates a world with every entity instance
// and its evaluators. Curve evaluators draw from per-evaluator RNG streams
// derived from the scenario seed.
func (s *Spec) Build(cfg world.Config, metrics *world.Metrics) (*world.World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	registry, err := s.Registry()
	if err != nil {
		return nil, err
	}
	w, err := world.New(cfg, registry, metrics)
	if err != nil {
		return nil, err
	}

	catalog := registry.Catalog()
	data := s.dataVariants(catalog)
	rng := NewPartitionedRNG(Seed(s.Seed))
	for _, es := range s.Entities {
		for _, id := range es.instanceIDs() {
			evaluators := make([]world.Evaluator, 0, len(es.Evaluators))
			for i, ev := range es.Evaluators {
				v, _ := catalog.Lookup(ev.Variant)
				payload := payloadBuilder(v, data[v])
				if ev.Curve != nil {
					evaluators = append(evaluators, newCurveEvaluator(v, payload(mergeParams(ev.Params, nil)), ev,
						rng.ForSubsystem(SubsystemEvaluator(id, i))))
				} else {
					evaluators = append(evaluators, newScriptEvaluator(v, payload, ev))
				}
			}
			if _, err := w.AddEntity(id, evaluators...); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}

func payloadBuilder(v advisor.VariantID, data bool) payloadFunc {
	if !data {
		return func(map[string]float64) advisor.Payload { return advisor.Marker(v) }
	}
	return func(params map[string]float64) advisor.Payload { return Params{V: v, Values: params} }
}
