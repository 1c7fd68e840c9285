package world

import (
	"context"
	"errors"

	"github.com/idanarye/yoetz/advisor"
	"github.com/sirupsen/logrus"
)

// Evaluator inspects one entity during the suggest stage and proposes
// behaviors through the Suggester. Evaluators of one entity run sequentially;
// different entities are evaluated concurrently.
type Evaluator interface {
	Evaluate(ctx context.Context, s *Suggester) error
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, s *Suggester) error

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, s *Suggester) error { return f(ctx, s) }

// Suggester is an evaluator's view of one entity for one tick.
type Suggester struct {
	tick     uint64
	entity   *Entity
	registry *advisor.Registry[*Entity]
}

// Tick returns the tick being evaluated.
func (s *Suggester) Tick() uint64 { return s.tick }

// EntityID returns the evaluated entity's ID.
func (s *Suggester) EntityID() string { return s.entity.ID }

// Current returns the entity's active variant as decided last tick.
func (s *Suggester) Current() (advisor.VariantID, advisor.Payload, bool) {
	return s.entity.Advisor.Current()
}

// Catalog returns the world's variant catalog.
func (s *Suggester) Catalog() *advisor.Catalog { return s.registry.Catalog() }

// Suggest submits payload with score. A payload whose type does not match
// its registered variant is a configuration error and is returned. Invalid
// scores are dropped and counted without failing the evaluator.
func (s *Suggester) Suggest(score float64, payload advisor.Payload) error {
	if err := s.registry.Check(payload); err != nil {
		return err
	}
	err := s.entity.Advisor.Submit(score, payload)
	if errors.Is(err, advisor.ErrInvalidScore) {
		logrus.Debugf("[tick %07d] %s: dropped suggestion: %v", s.tick, s.entity.ID, err)
		return nil
	}
	return err
}
