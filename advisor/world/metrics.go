package world

import (
	"fmt"
	"io"

	"github.com/idanarye/yoetz/advisor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const metricsNamespace = "yoetz"

// Metrics counts decision outcomes and lifecycle events across a world run.
type Metrics struct {
	// DecisionsTotal counts decision cycles by outcome (idle, adopted, kept, held, switched).
	DecisionsTotal *prometheus.CounterVec
	// EventsTotal counts lifecycle events by kind (activate, deactivate, update).
	EventsTotal *prometheus.CounterVec
	// InvalidSuggestionsTotal counts suggestions dropped for NaN or infinite scores.
	InvalidSuggestionsTotal prometheus.Counter
	// Regret observes best score minus chosen score for non-idle cycles.
	Regret prometheus.Histogram
}

// NewMetrics creates the world metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "advisor",
			Name:      "decisions_total",
			Help:      "Decision cycles by outcome",
		}, []string{"outcome"}),
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "advisor",
			Name:      "lifecycle_events_total",
			Help:      "Behavior lifecycle events applied, by kind",
		}, []string{"kind"}),
		InvalidSuggestionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "advisor",
			Name:      "invalid_suggestions_total",
			Help:      "Suggestions dropped for non-finite scores",
		}),
		Regret: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "advisor",
			Name:      "regret",
			Help:      "Best champion score minus chosen score",
			Buckets:   []float64{0, 0.25, 0.5, 1, 2, 4, 8},
		}),
	}
}

func (m *Metrics) observe(c advisor.Cycle) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(c.Verdict.Outcome.String()).Inc()
	for _, ev := range c.Events {
		m.EventsTotal.WithLabelValues(ev.Kind.String()).Inc()
	}
	m.InvalidSuggestionsTotal.Add(float64(c.Dropped))
	if c.Verdict.Outcome != advisor.OutcomeIdle {
		m.Regret.Observe(c.Verdict.Regret)
	}
}

// WriteMetricsText writes every metric family gathered from g in the
// Prometheus text exposition format.
func WriteMetricsText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
