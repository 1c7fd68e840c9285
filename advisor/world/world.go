// Package world is a reference host for the advisor core: a tick loop over
// many entities that runs the suggest, decide and act stages with a barrier
// between them.
//
// # Tick anatomy
//
//  1. BeginCycle on every advisor.
//  2. suggest: evaluators run, concurrently across entities and
//     sequentially within one entity.
//  3. decision stage (Policy.Stage()): every advisor thinks, concurrently.
//  4. act: lifecycle events are applied through the registry serially in
//     entity-ID order, then each advisor is released with Applied.
//
// Steps 2 and 3 are barriers: no entity enters a stage before every entity
// finished the previous one.
package world

import (
	"context"
	"fmt"
	"sort"

	"github.com/idanarye/yoetz/advisor"
	"github.com/idanarye/yoetz/advisor/trace"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Config controls a World.
type Config struct {
	Policy advisor.Policy
	Trace  trace.TraceConfig
	// Workers bounds concurrent entity evaluation; 0 means unbounded.
	Workers int
}

// Transition is one entity's result for one tick.
type Transition struct {
	EntityID string
	Cycle    advisor.Cycle
}

// World owns the entities and drives their advisors tick by tick.
type World struct {
	config   Config
	registry *advisor.Registry[*Entity]
	entities []*Entity // sorted by ID
	byID     map[string]*Entity
	tick     uint64
	trace    *trace.DecisionTrace
	metrics  *Metrics
	err      error
}

// New creates an empty world. The registry must have a behavior for every
// catalog variant. metrics may be nil.
func New(config Config, registry *advisor.Registry[*Entity], metrics *Metrics) (*World, error) {
	if err := config.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("world policy: %w", err)
	}
	if registry == nil {
		return nil, fmt.Errorf("world: nil registry")
	}
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("world registry: %w", err)
	}
	if !trace.IsValidTraceLevel(string(config.Trace.Level)) {
		return nil, fmt.Errorf("world: unknown trace level %q", config.Trace.Level)
	}
	if config.Workers < 0 {
		return nil, fmt.Errorf("world: workers must be >= 0, got %d", config.Workers)
	}
	w := &World{
		config:   config,
		registry: registry,
		byID:     make(map[string]*Entity),
		metrics:  metrics,
	}
	if config.Trace.Enabled() {
		w.trace = trace.NewDecisionTrace(config.Trace)
	}
	return w, nil
}

// AddEntity creates an idle entity with the given evaluators.
func (w *World) AddEntity(id string, evaluators ...Evaluator) (*Entity, error) {
	if id == "" {
		return nil, fmt.Errorf("entity ID must not be empty")
	}
	if _, dup := w.byID[id]; dup {
		return nil, fmt.Errorf("duplicate entity ID %q", id)
	}
	e := &Entity{
		ID:         id,
		Advisor:    advisor.New(w.config.Policy, w.registry.Equal()),
		evaluators: evaluators,
	}
	i := sort.Search(len(w.entities), func(i int) bool { return w.entities[i].ID >= id })
	w.entities = append(w.entities, nil)
	copy(w.entities[i+1:], w.entities[i:])
	w.entities[i] = e
	w.byID[id] = e
	return e, nil
}

// Entity returns the entity with the given ID, or nil.
func (w *World) Entity(id string) *Entity { return w.byID[id] }

// Entities returns all entities sorted by ID.
func (w *World) Entities() []*Entity { return w.entities }

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 { return w.tick }

// Catalog returns the world's variant catalog.
func (w *World) Catalog() *advisor.Catalog { return w.registry.Catalog() }

// Trace returns the decision trace, or nil when tracing is disabled.
func (w *World) Trace() *trace.DecisionTrace { return w.trace }

// Stages returns the stage names in run order.
func (w *World) Stages() []string {
	return []string{advisor.StageSuggest, w.config.Policy.Stage(), advisor.StageAct}
}

// Step runs one tick and returns every entity's transition in ID order.
// An evaluator error aborts the tick and leaves the world unusable; later
// calls return the same error.
func (w *World) Step(ctx context.Context) ([]Transition, error) {
	if w.err != nil {
		return nil, w.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tick := w.tick + 1

	for _, e := range w.entities {
		e.Advisor.BeginCycle()
	}

	logrus.Debugf("[tick %07d] stage %s", tick, advisor.StageSuggest)
	if err := w.suggest(ctx, tick); err != nil {
		w.err = fmt.Errorf("tick %d: %w", tick, err)
		return nil, w.err
	}

	logrus.Debugf("[tick %07d] stage %s", tick, w.config.Policy.Stage())
	cycles := w.decide(tick)

	logrus.Debugf("[tick %07d] stage %s", tick, advisor.StageAct)
	transitions := make([]Transition, len(w.entities))
	for i, e := range w.entities {
		c := cycles[i]
		if err := w.registry.Apply(e, c.Events); err != nil {
			// Registry.Validate ran in New, so every variant has a behavior.
			panic(fmt.Sprintf("World.Step: apply on %s: %v", e.ID, err))
		}
		e.Advisor.Applied()
		w.record(e, c)
		transitions[i] = Transition{EntityID: e.ID, Cycle: c}
	}

	w.tick = tick
	return transitions, nil
}

// Run executes ticks steps, stopping early on error or cancellation.
func (w *World) Run(ctx context.Context, ticks int) error {
	for i := 0; i < ticks; i++ {
		if _, err := w.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) suggest(ctx context.Context, tick uint64) error {
	g, gctx := errgroup.WithContext(ctx)
	if w.config.Workers > 0 {
		g.SetLimit(w.config.Workers)
	}
	for _, e := range w.entities {
		e := e
		g.Go(func() error {
			s := &Suggester{tick: tick, entity: e, registry: w.registry}
			for _, ev := range e.evaluators {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := ev.Evaluate(gctx, s); err != nil {
					return fmt.Errorf("entity %s: %w", e.ID, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *World) decide(tick uint64) []advisor.Cycle {
	cycles := make([]advisor.Cycle, len(w.entities))
	var g errgroup.Group
	if w.config.Workers > 0 {
		g.SetLimit(w.config.Workers)
	}
	for i, e := range w.entities {
		i, e := i, e
		g.Go(func() error {
			cycles[i] = e.Advisor.Think(tick)
			return nil
		})
	}
	_ = g.Wait()
	return cycles
}

func (w *World) record(e *Entity, c advisor.Cycle) {
	catalog := w.registry.Catalog()
	v := c.Verdict
	logrus.Debugf("[tick %07d] %s: %s", c.Tick, e.ID, v.Reason)
	if c.Dropped > 0 {
		logrus.Debugf("[tick %07d] %s: %d invalid suggestion(s) dropped", c.Tick, e.ID, c.Dropped)
	}
	w.metrics.observe(c)

	if w.trace == nil {
		return
	}
	rec := trace.DecisionRecord{
		Tick:     c.Tick,
		EntityID: e.ID,
		Outcome:  v.Outcome.String(),
		Reason:   v.Reason,
		Dropped:  c.Dropped,
		Regret:   v.Regret,
	}
	if v.Decision.Active {
		rec.Variant = catalog.Name(v.Decision.Variant)
		rec.Score = v.Decision.Score
	}
	if len(v.Champions) > 0 {
		rec.BestVariant = catalog.Name(v.Best.Variant)
		rec.BestScore = v.Best.Score
	}
	for _, ev := range c.Events {
		rec.Events = append(rec.Events, RenderEvent(catalog, ev))
	}
	rec.Candidates = computeCounterfactual(catalog, v, w.config.Trace.CounterfactualK)
	w.trace.RecordDecision(rec)
}
