// Package metrics exposes Prometheus counters for the state engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what the engine does with fetches and push events. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	events    *prometheus.CounterVec
	fetches   *prometheus.CounterVec
	dedup     *prometheus.CounterVec
	stale     prometheus.Counter
	rollbacks *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedmirror",
			Name:      "events_total",
			Help:      "Push events handled, by type and whether they changed state.",
		}, []string{"type", "changed"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedmirror",
			Name:      "fetches_total",
			Help:      "REST fetches issued by the engine, by operation and outcome.",
		}, []string{"op", "outcome"}),
		dedup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedmirror",
			Name:      "dedup_joins_total",
			Help:      "Fetches served by an identical in-flight request.",
		}, []string{"op"}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedmirror",
			Name:      "stale_responses_total",
			Help:      "Feed responses dropped because a newer fetch was started.",
		}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedmirror",
			Name:      "optimistic_rollbacks_total",
			Help:      "Optimistic mutations reverted after the server rejected them.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.events, m.fetches, m.dedup, m.stale, m.rollbacks)
	return m
}

func (m *Metrics) Event(eventType string, changed bool) {
	if m == nil {
		return
	}
	label := "false"
	if changed {
		label = "true"
	}
	m.events.WithLabelValues(eventType, label).Inc()
}

func (m *Metrics) Fetch(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.fetches.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) DedupJoin(op string) {
	if m == nil {
		return
	}
	m.dedup.WithLabelValues(op).Inc()
}

func (m *Metrics) StaleResponse() {
	if m == nil {
		return
	}
	m.stale.Inc()
}

func (m *Metrics) Rollback(op string) {
	if m == nil {
		return
	}
	m.rollbacks.WithLabelValues(op).Inc()
}
