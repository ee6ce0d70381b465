// Package metrics exposes the Prometheus collectors of the nation-points service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "nation_points"
)

// Outcome labels shared by the feed client and the scoring service.
const (
	OutcomeOK          = "ok"
	OutcomeInvalidURL  = "invalid_url"
	OutcomeTransport   = "transport_failure"
	OutcomeUnavailable = "unavailable"
	OutcomeEmpty       = "empty_result_set"
	OutcomeError       = "error"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithBuckets overrides the latency histogram buckets (seconds).
func WithBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRuntimeCollectors registers the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.runtime = true
	}
}

// Manager owns a private registry and the service collectors.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace string
	buckets   []float64
	runtime   bool
	registry  *prometheus.Registry

	feedRequests *prometheus.CounterVec
	feedLatency  *prometheus.HistogramVec
	breakerState *prometheus.GaugeVec

	eventsScored   *prometheus.CounterVec
	entriesSkipped *prometheus.CounterVec
	batchSize      prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	auto := promauto.With(m.registry)
	if m.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.feedRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "feed",
		Name:      "requests_total",
		Help:      "Feed requests by outcome.",
	}, []string{"outcome"})
	m.feedLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "feed",
		Name:      "request_duration_seconds",
		Help:      "Feed request latency including retries.",
		Buckets:   m.buckets,
	}, []string{"outcome"})
	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "feed",
		Name:      "circuit_state",
		Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
	}, []string{"breaker"})

	m.eventsScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "events_total",
		Help:      "Scored events by outcome.",
	}, []string{"outcome"})
	m.entriesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "entries_skipped_total",
		Help:      "Result entries dropped during normalization by reason.",
	}, []string{"reason"})
	m.batchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "batch_size",
		Help:      "Number of events per batch request.",
		Buckets:   []float64{1, 2, 5, 10, 20, 50},
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})
	m.httpLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   m.buckets,
	}, []string{"route", "method"})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveFeedRequest(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.feedRequests.WithLabelValues(outcome).Inc()
	m.feedLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Manager) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Manager) ObserveEventScored(outcome string) {
	if m == nil {
		return
	}
	m.eventsScored.WithLabelValues(outcome).Inc()
}

func (m *Manager) AddSkippedEntries(reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.entriesSkipped.WithLabelValues(reason).Add(float64(count))
}

func (m *Manager) ObserveBatch(size int) {
	if m == nil {
		return
	}
	m.batchSize.Observe(float64(size))
}

func (m *Manager) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
