// Package metrics exports memory store outcomes as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ethical_memory"

// Metrics holds the store collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	stored        prometheus.Counter
	escalations   prometheus.Counter
	healings      *prometheus.CounterVec
	reflections   prometheus.Counter
	entanglements *prometheus.CounterVec
	suffering     prometheus.Histogram
	memories      *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. A nil reg
// creates unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "memories_stored_total",
			Help:      "Total number of memories ingested",
		}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "escalations_total",
			Help:      "Memories escalated to guardian consensus on ingestion",
		}),
		healings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "healings_total",
			Help:      "Semantic healing attempts by outcome",
		}, []string{"outcome"}),
		reflections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "reflections_total",
			Help:      "Reflections recorded, derived and in place",
		}),
		entanglements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "entanglements_total",
			Help:      "Entanglement attempts by outcome",
		}, []string{"outcome"}),
		suffering: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "initial_suffering_index",
			Help:      "Suffering index computed on ingestion",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		memories: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "memories",
			Help:      "Stored memories by quantum state",
		}, []string{"state"}),
	}

	if reg != nil {
		reg.MustRegister(m.stored, m.escalations, m.healings, m.reflections, m.entanglements, m.suffering, m.memories)
	}
	return m
}

// Stored records an ingested memory and its initial suffering index.
func (m *Metrics) Stored(suffering float64, escalated bool) {
	if m == nil {
		return
	}
	m.stored.Inc()
	m.suffering.Observe(suffering)
	if escalated {
		m.escalations.Inc()
	}
}

// Healing records a healing attempt.
func (m *Metrics) Healing(accepted bool) {
	if m == nil {
		return
	}
	m.healings.WithLabelValues(outcome(accepted)).Inc()
}

// Reflection records a reflection.
func (m *Metrics) Reflection() {
	if m == nil {
		return
	}
	m.reflections.Inc()
}

// Entanglement records an entanglement attempt.
func (m *Metrics) Entanglement(accepted bool) {
	if m == nil {
		return
	}
	m.entanglements.WithLabelValues(outcome(accepted)).Inc()
}

// States publishes the per-state memory counts.
func (m *Metrics) States(counts map[string]int) {
	if m == nil {
		return
	}
	for state, n := range counts {
		m.memories.WithLabelValues(state).Set(float64(n))
	}
}

func outcome(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "rejected"
}
