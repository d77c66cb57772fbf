package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the inspection module.
type Metrics struct {
	// Evaluation outcomes by resulting inspection status
	EvaluationOutcome *prometheus.CounterVec

	// Full evaluation latency including rule loading and persistence
	EvaluateLatency prometheus.Histogram

	// Out-of-service items produced per evaluation
	OOSItems prometheus.Histogram

	// Inspections created
	InspectionsCreated prometheus.Counter
}

// New creates a new Metrics instance with all inspection module metrics registered.
func New() *Metrics {
	return &Metrics{
		EvaluationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "roadcheck_inspection_evaluations_total",
			Help: "Total inspection evaluations by resulting status",
		}, []string{"status"}), // status: "PASS", "FAIL", "OOS"

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadcheck_inspection_evaluate_duration_seconds",
			Help:    "Duration of full inspection evaluation including rule loading and persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		OOSItems: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadcheck_inspection_oos_items_per_evaluation",
			Help:    "Number of out-of-service items produced per evaluation",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
		}),

		InspectionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "roadcheck_inspections_created_total",
			Help: "Total inspections created",
		}),
	}
}

// IncrementEvaluation records one evaluation outcome.
func (m *Metrics) IncrementEvaluation(status string) {
	if m != nil {
		m.EvaluationOutcome.WithLabelValues(status).Inc()
	}
}

// ObserveEvaluateLatency records the duration of one evaluation call.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveOOSItems records how many out-of-service items one evaluation produced.
func (m *Metrics) ObserveOOSItems(count int) {
	if m != nil {
		m.OOSItems.Observe(float64(count))
	}
}

// IncrementCreated records one created inspection.
func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.InspectionsCreated.Inc()
	}
}
