package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RecordsCounters(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.ObserveFeedRequest(OutcomeOK, 20*time.Millisecond)
	m.ObserveFeedRequest(OutcomeOK, 30*time.Millisecond)
	m.ObserveFeedRequest(OutcomeTransport, time.Second)
	m.ObserveEventScored(OutcomeEmpty)
	m.AddSkippedEntries("outside_window", 3)
	m.AddSkippedEntries("outside_window", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.feedRequests.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedRequests.WithLabelValues(OutcomeTransport)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsScored.WithLabelValues(OutcomeEmpty)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.entriesSkipped.WithLabelValues("outside_window")))
}

func TestManager_HandlerExposesNamespace(t *testing.T) {
	t.Parallel()

	m := NewManager(WithNamespace("np_test"))
	m.ObserveHTTPRequest("/healthz", http.MethodGet, http.StatusOK, time.Millisecond)
	m.SetBreakerState("orf", 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `np_test_http_requests_total{method="GET",route="/healthz",status_code="200"} 1`), body)
	assert.True(t, strings.Contains(body, `np_test_feed_circuit_state{breaker="orf"} 2`), body)
}

func TestManager_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Manager
	m.ObserveFeedRequest(OutcomeOK, time.Second)
	m.ObserveEventScored(OutcomeOK)
	m.AddSkippedEntries("x", 1)
	m.ObserveBatch(3)
	m.SetBreakerState("orf", 1)
	m.ObserveHTTPRequest("/", http.MethodGet, 200, time.Second)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManager_WithBucketsOverridesLatencyBounds(t *testing.T) {
	t.Parallel()

	m := NewManager(WithNamespace("np_buckets"), WithBuckets([]float64{0.25, 1}))
	m.ObserveFeedRequest(OutcomeOK, 100*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `np_buckets_feed_request_duration_seconds_bucket{outcome="ok",le="0.25"} 1`)
	assert.NotContains(t, body, `le="0.005"`)
}
