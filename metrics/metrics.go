package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source kinds used as the "kind" label.
const (
	KindPlaylist = "playlist"
	KindGuide    = "guide"
)

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
)

// Table names used as the "table" label.
const (
	TableChannels = "channels"
	TableGuide    = "guide"
)

var (
	// UpstreamFetches counts source fetches by kind and outcome
	UpstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_upstream_fetches_total",
		Help: "Total number of upstream source fetches",
	}, []string{"kind", "outcome"})

	// UpstreamFetchDuration observes how long a source took to fetch and parse
	UpstreamFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "iptv_upstream_fetch_duration_seconds",
		Help:    "Duration of upstream source fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// ChannelsServed tracks the channel count of the last playlist served per mode
	ChannelsServed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "iptv_channels_served",
		Help: "Number of channels in the last playlist served",
	}, []string{"mode"})

	// GuideNamesRewritten counts display names replaced in served guides
	GuideNamesRewritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iptv_guide_names_rewritten_total",
		Help: "Total number of guide display names rewritten",
	})

	// TableLoadErrors counts correction tables that failed to load
	TableLoadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_table_load_errors_total",
		Help: "Total number of correction table load failures",
	}, []string{"table"})

	// HTTPRequests counts served requests by route and status code
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "code"})

	// HTTPRequestDuration observes request latency by route
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "iptv_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// RateLimited counts requests rejected by the inbound rate limiter
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iptv_http_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})

	// HealthCheckFailures tracks health check failures
	HealthCheckFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iptv_health_check_failures_total",
		Help: "Total number of health check failures",
	})
)

// RecordUpstreamFetch records one source fetch with its outcome and duration
func RecordUpstreamFetch(kind, outcome string, elapsed time.Duration) {
	UpstreamFetches.WithLabelValues(kind, outcome).Inc()
	UpstreamFetchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// SetChannelsServed sets the channel count for a playlist mode
func SetChannelsServed(mode string, count int) {
	ChannelsServed.WithLabelValues(mode).Set(float64(count))
}

// AddGuideNamesRewritten adds to the rewritten display name counter
func AddGuideNamesRewritten(count int) {
	GuideNamesRewritten.Add(float64(count))
}

// RecordTableLoadError increments the load failure counter for a table
func RecordTableLoadError(table string) {
	TableLoadErrors.WithLabelValues(table).Inc()
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(route, code string, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(route, code).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordRateLimited increments the rate limited counter
func RecordRateLimited() {
	RateLimited.Inc()
}

// RecordHealthCheckFailure increments the health check failure counter
func RecordHealthCheckFailure() {
	HealthCheckFailures.Inc()
}
