package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the rules module.
type Metrics struct {
	// Version cache hits and misses by result
	CacheLookups *prometheus.CounterVec

	// Active version resolution latency
	ResolveLatency prometheus.Histogram

	// Resolution outcomes by result ("resolved", "not_found")
	ResolveOutcome *prometheus.CounterVec

	// Rules loaded per repository fetch
	RulesLoaded prometheus.Histogram
}

// New creates a new Metrics instance with all rules module metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "roadcheck_rules_cache_lookups_total",
			Help: "Total version cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss"

		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadcheck_rules_resolve_duration_seconds",
			Help:    "Duration of active rule version resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		ResolveOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "roadcheck_rules_resolve_outcomes_total",
			Help: "Total version resolution outcomes by result",
		}, []string{"result"}),

		RulesLoaded: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadcheck_rules_loaded_per_fetch",
			Help:    "Number of rules returned per repository fetch",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

// IncrementCacheLookup records a version cache hit or miss.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// ObserveResolveLatency records the duration of one version resolution.
func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}

// IncrementResolveOutcome records a resolution outcome.
func (m *Metrics) IncrementResolveOutcome(result string) {
	if m != nil {
		m.ResolveOutcome.WithLabelValues(result).Inc()
	}
}

// ObserveRulesLoaded records how many rules one repository fetch returned.
func (m *Metrics) ObserveRulesLoaded(count int) {
	if m != nil {
		m.RulesLoaded.Observe(float64(count))
	}
}
