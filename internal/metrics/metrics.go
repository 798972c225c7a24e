package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitwall_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pitwall_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pitwall_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pitwall_api_rate_limited_total",
			Help: "Requests rejected by the inbound rate limiter",
		},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitwall_upstream_requests_total",
			Help: "Upstream requests by host and outcome (ok, network, status, decode)",
		},
		[]string{"host", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pitwall_upstream_request_duration_seconds",
			Help:    "Upstream request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"host"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitwall_cache_lookups_total",
			Help: "Cache lookups by key and result (hit, miss)",
		},
		[]string{"key", "result"},
	)

	CacheTTLSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pitwall_cache_ttl_seconds",
			Help: "TTL assigned on the most recent refresh of each key",
		},
		[]string{"key", "source"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route, status string, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordUpstreamRequest records one upstream call.
func RecordUpstreamRequest(host, outcome string, d time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(host, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(host).Observe(d.Seconds())
}

// RecordCacheLookup records a cache hit or miss for key.
func RecordCacheLookup(key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(key, result).Inc()
}

// RecordCacheTTL records the TTL chosen for key and whether it came from a
// resolved horizon or a fallback.
func RecordCacheTTL(key, source string, ttl time.Duration) {
	CacheTTLSeconds.WithLabelValues(key, source).Set(ttl.Seconds())
}
