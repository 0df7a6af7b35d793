// Package metrics exposes the simulation engine's counters as
// Prometheus instruments, independent of any particular registry so
// tests and multiple concurrent engines can each use their own.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics mirrors one simulation engine's delivery-fabric
// counters and agent-pause gauge into Prometheus.
type EngineMetrics struct {
	Delivered   prometheus.Counter
	Dropped     prometheus.Counter
	PausedNodes prometheus.Gauge
}

// NewEngineMetrics builds a metrics set registered against reg. A nil
// reg uses the default global registry.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &EngineMetrics{
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netsim",
			Subsystem: "engine",
			Name:      "messages_delivered_total",
			Help:      "Total messages the delivery fabric handed to a neighbor's inbound queue.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netsim",
			Subsystem: "engine",
			Name:      "messages_dropped_total",
			Help:      "Total messages dropped due to a full inbound, outbound, or delivery-staging queue.",
		}),
		PausedNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netsim",
			Subsystem: "engine",
			Name:      "paused_nodes",
			Help:      "Number of agents currently paused.",
		}),
	}
	reg.MustRegister(m.Delivered, m.Dropped, m.PausedNodes)
	return m
}

// RecordDelivered increments the delivered-message counter. Safe to
// call on a nil receiver (no-op), so callers that skip metrics wiring
// don't need a guard at every call site.
func (m *EngineMetrics) RecordDelivered() {
	if m == nil {
		return
	}
	m.Delivered.Inc()
}

// RecordDrop increments the dropped-message counter.
func (m *EngineMetrics) RecordDrop() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

// SetPausedNodes sets the paused-agent gauge to n.
func (m *EngineMetrics) SetPausedNodes(n int) {
	if m == nil {
		return
	}
	m.PausedNodes.Set(float64(n))
}
