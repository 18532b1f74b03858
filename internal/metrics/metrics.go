package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Proxy traffic
	ProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamecompare_proxy_requests_total",
		Help: "Total number of proxy API requests by endpoint and response status.",
	}, []string{"endpoint", "status"})

	// Upstream providers
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamecompare_upstream_duration_seconds",
		Help:    "Duration of calls to upstream data providers in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamecompare_upstream_errors_total",
		Help: "Total number of failed calls to upstream data providers.",
	}, []string{"provider"})

	// Comparison pipeline
	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamecompare_resolutions_total",
		Help: "Total number of Steam app id resolutions by winning match tier.",
	}, []string{"tier"}) // tier: exact, prefix, substring, first, none

	Comparisons = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamecompare_comparisons_total",
		Help: "Total number of comparison runs by outcome.",
	}, []string{"outcome"}) // outcome: complete, stale, incomplete
)

// RecordProxyRequest counts one proxy response.
func RecordProxyRequest(endpoint string, status int) {
	ProxyRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// RecordUpstream records the time taken by an upstream call and counts it as
// failed when err is non-nil.
func RecordUpstream(provider string, start time.Time, err error) {
	UpstreamDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		UpstreamErrors.WithLabelValues(provider).Inc()
	}
}

// RecordResolution counts a resolved (or unresolved) statistics id.
func RecordResolution(tier string) {
	Resolutions.WithLabelValues(tier).Inc()
}

// RecordComparison counts a finished comparison run.
func RecordComparison(outcome string) {
	Comparisons.WithLabelValues(outcome).Inc()
}
