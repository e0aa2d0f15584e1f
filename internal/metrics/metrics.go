// Package metrics provides the centralized Prometheus metrics registry for the service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EventsAnalyzedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "outclass",
		Name:      "events_analyzed_total",
		Help:      "Total number of events analyzed, by result status",
	}, []string{"status"})
	ArbitragesFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "outclass",
		Name:      "arbitrages_found_total",
		Help:      "Total number of events with an arbitrage opportunity",
	})
	OddsRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "outclass",
		Name:      "odds_requests_total",
		Help:      "Total number of odds provider requests, by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	OddsCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "outclass",
		Name:      "odds_cache_hit_ratio",
		Help:      "Hit ratio of the odds response cache",
	})
)

// Histogram metrics
var (
	EventAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "outclass",
		Name:      "event_analysis_duration_seconds",
		Help:      "Duration of a single event analysis in seconds",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
	})
	BatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "outclass",
		Name:      "batch_size_events",
		Help:      "Number of events per analysis batch",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})
	OddsRequestLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "outclass",
		Name:      "odds_request_latency_seconds",
		Help:      "Latency of odds provider requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EventsAnalyzedTotal)
		registry.MustRegister(ArbitragesFoundTotal)
		registry.MustRegister(OddsRequestsTotal)

		registry.MustRegister(OddsCacheHitRatio)

		registry.MustRegister(EventAnalysisDuration)
		registry.MustRegister(BatchSize)
		registry.MustRegister(OddsRequestLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEventAnalyzed records one analyzed event.
func RecordEventAnalyzed(status string, duration time.Duration) {
	EventsAnalyzedTotal.WithLabelValues(status).Inc()
	EventAnalysisDuration.Observe(duration.Seconds())
	if status == "arbitrage" {
		ArbitragesFoundTotal.Inc()
	}
}

// RecordBatch records the size of an analysis batch.
func RecordBatch(events int) {
	BatchSize.Observe(float64(events))
}

// RecordOddsRequest records an odds provider request.
func RecordOddsRequest(outcome string, duration time.Duration) {
	OddsRequestsTotal.WithLabelValues(outcome).Inc()
	OddsRequestLatency.Observe(duration.Seconds())
}

// UpdateOddsCacheHitRatio updates the odds cache hit ratio gauge.
func UpdateOddsCacheHitRatio(ratio float64) {
	OddsCacheHitRatio.Set(ratio)
}
