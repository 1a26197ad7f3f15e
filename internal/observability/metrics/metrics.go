package metrics

import "github.com/prometheus/client_golang/prometheus"

// TurnMetrics exposes counters/histograms for chat turn processing.
// All methods are safe on a nil receiver so wiring stays optional.
type TurnMetrics struct {
	turnsTotal          *prometheus.CounterVec
	classifierFallbacks prometheus.Counter
	actionsTotal        *prometheus.CounterVec
	turnLatency         prometheus.Histogram
}

func NewTurnMetrics(reg prometheus.Registerer) *TurnMetrics {
	m := &TurnMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Total chat turns by resolved intent",
		}, []string{"intent"}),
		classifierFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "dialogue",
			Name:      "classifier_fallback_total",
			Help:      "Turns where the intent classifier failed and the local fallback was used",
		}),
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "dialogue",
			Name:      "appointment_actions_total",
			Help:      "Appointment actions attempted by the dialogue engine",
		}, []string{"action", "status"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "booking",
			Subsystem: "dialogue",
			Name:      "turn_latency_seconds",
			Help:      "Latency of full turn handling",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.classifierFallbacks, m.actionsTotal, m.turnLatency)
	return m
}

func (m *TurnMetrics) ObserveTurn(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent).Inc()
	m.turnLatency.Observe(seconds)
}

func (m *TurnMetrics) ClassifierFallback() {
	if m == nil {
		return
	}
	m.classifierFallbacks.Inc()
}

func (m *TurnMetrics) ObserveAction(action, status string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(action, status).Inc()
}
