// Package metrics provides Prometheus instrumentation for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestLatency tracks end-to-end request latency in seconds.
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_latency_seconds",
			Help:    "End-to-end request latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"cache_status"}, // "hit", "miss", "error", "bypass"
	)

	// RequestsTotal tracks total requests by outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_total",
			Help: "Total number of requests by outcome.",
		},
		[]string{"status"}, // "success", "bad_request", "config_error", "invoke_error", "cache_hit"
	)

	// AttachmentsTotal tracks accepted attachments by kind.
	AttachmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachments_total",
			Help: "Total number of accepted attachments by kind.",
		},
		[]string{"kind"}, // "image", "document"
	)

	// ValidationFailuresTotal tracks rejected requests by validation reason.
	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Total number of attachment validation failures by reason.",
		},
		[]string{"reason"},
	)

	// ResponseShapeTotal tracks which provider response shape each call
	// matched. The "none" label counts normalization gaps.
	ResponseShapeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_shape_total",
			Help: "Total number of provider responses by matched shape.",
		},
		[]string{"shape"},
	)

	// CacheHitsTotal tracks the total number of response cache hits.
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of response cache hits.",
		},
	)

	// CacheLookupsTotal tracks the total number of response cache lookups.
	CacheLookupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of response cache lookups.",
		},
	)

	// CacheHitRatio is a derived gauge: cache_hits_total / cache_lookups_total.
	// Prometheus can compute this in queries, but we also expose it as a
	// gauge for convenience.
	CacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_hit_ratio",
			Help: "Current cache hit ratio (hits / lookups). Computed per-update.",
		},
	)

	// ActiveRequests tracks the number of currently in-flight requests.
	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_requests",
			Help: "Number of currently in-flight requests.",
		},
	)

	totalHits    float64
	totalLookups float64
)

// RecordCacheLookup records a cache lookup and updates the hit ratio.
func RecordCacheLookup(hit bool) {
	CacheLookupsTotal.Inc()
	totalLookups++

	if hit {
		CacheHitsTotal.Inc()
		totalHits++
	}

	if totalLookups > 0 {
		CacheHitRatio.Set(totalHits / totalLookups)
	}
}
