package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(promhttp.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

func TestMetricsEndpoint(t *testing.T) {
	RecordUpstreamFetch(KindPlaylist, OutcomeOK, 10*time.Millisecond)
	SetChannelsServed("filtered", 0)
	AddGuideNamesRewritten(0)
	RecordTableLoadError(TableGuide)
	RecordHTTPRequest("/health", "200", time.Millisecond)
	RecordRateLimited()
	RecordHealthCheckFailure()

	output := scrape(t)

	expectedMetrics := []string{
		"iptv_upstream_fetches_total",
		"iptv_upstream_fetch_duration_seconds",
		"iptv_channels_served",
		"iptv_guide_names_rewritten_total",
		"iptv_table_load_errors_total",
		"iptv_http_requests_total",
		"iptv_http_request_duration_seconds",
		"iptv_http_rate_limited_total",
		"iptv_health_check_failures_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(output, metric) {
			t.Errorf("Expected metric %s not found in output", metric)
		}
	}
}

func TestMetricsValues(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		get    func() float64
		delta  float64
	}{
		{
			name:   "upstream fetch",
			record: func() { RecordUpstreamFetch(KindGuide, OutcomeUnavailable, time.Second) },
			get: func() float64 {
				return testutil.ToFloat64(UpstreamFetches.WithLabelValues(KindGuide, OutcomeUnavailable))
			},
			delta: 1,
		},
		{
			name:   "table load error",
			record: func() { RecordTableLoadError(TableChannels) },
			get: func() float64 {
				return testutil.ToFloat64(TableLoadErrors.WithLabelValues(TableChannels))
			},
			delta: 1,
		},
		{
			name:   "guide names rewritten",
			record: func() { AddGuideNamesRewritten(4) },
			get:    func() float64 { return testutil.ToFloat64(GuideNamesRewritten) },
			delta:  4,
		},
		{
			name:   "http request",
			record: func() { RecordHTTPRequest("/iptv/read", "503", time.Millisecond) },
			get: func() float64 {
				return testutil.ToFloat64(HTTPRequests.WithLabelValues("/iptv/read", "503"))
			},
			delta: 1,
		},
		{
			name:   "rate limited",
			record: RecordRateLimited,
			get:    func() float64 { return testutil.ToFloat64(RateLimited) },
			delta:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.get()
			tt.record()
			if got := tt.get() - before; got != tt.delta {
				t.Errorf("metric grew by %v, want %v", got, tt.delta)
			}
		})
	}
}

func TestSetChannelsServed(t *testing.T) {
	SetChannelsServed("unfiltered", 42)
	SetChannelsServed("filtered", 7)

	if got := testutil.ToFloat64(ChannelsServed.WithLabelValues("unfiltered")); got != 42 {
		t.Errorf("unfiltered = %v, want 42", got)
	}
	if got := testutil.ToFloat64(ChannelsServed.WithLabelValues("filtered")); got != 7 {
		t.Errorf("filtered = %v, want 7", got)
	}

	output := scrape(t)
	for _, line := range []string{
		`iptv_channels_served{mode="unfiltered"} 42`,
		`iptv_channels_served{mode="filtered"} 7`,
	} {
		if !strings.Contains(output, line) {
			t.Errorf("Expected to find %s in output", line)
		}
	}
}
