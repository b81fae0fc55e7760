package service

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

// MetricsService owns the Prometheus registry. It implements the gateway
// observer, the list controller metrics and the mutation observer so a single
// instance can be handed to every component.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	upstreamTotal   *prometheus.CounterVec
	fetchInflight   *prometheus.GaugeVec
	fetchDuration   *prometheus.HistogramVec
	staleDiscarded  *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	exportJobs      *prometheus.CounterVec
	unreadAlerts    prometheus.Gauge
	cacheLatency    prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
}

// NewMetricsService registers the console collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of console HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of console HTTP requests",
		}, []string{"method", "path", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of calls to the ZOOM WIFI backend",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "method"}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Calls to the ZOOM WIFI backend by outcome",
		}, []string{"resource", "method", "status", "error_kind"}),
		fetchInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "list_fetches_inflight",
			Help: "List fetches dispatched but not yet settled",
		}, []string{"resource"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "list_fetch_duration_seconds",
			Help:    "Time from list fetch dispatch to settlement",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "outcome"}),
		staleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "list_stale_responses_total",
			Help: "List responses discarded because a newer fetch was dispatched",
		}, []string{"resource"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mutations_total",
			Help: "Mutation commands by outcome",
		}, []string{"resource", "operation", "outcome"}),
		exportJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "export_jobs_total",
			Help: "Export jobs by format and outcome",
		}, []string{"format", "outcome"}),
		unreadAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alerts_unread",
			Help: "Unread alerts seen by the last poll",
		}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"result"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.upstreamLatency, m.upstreamTotal,
		m.fetchInflight, m.fetchDuration, m.staleDiscarded,
		m.mutations, m.exportJobs, m.unreadAlerts,
		m.cacheLatency, m.cacheLookups,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records console request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, label).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, label).Inc()
}

// ObserveRequest records one backend call.
func (m *MetricsService) ObserveRequest(resource, method string, status int, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(resource, method).Observe(elapsed.Seconds())
	m.upstreamTotal.WithLabelValues(resource, method, strconv.Itoa(status), errorKind(err)).Inc()
}

// FetchDispatched marks a list fetch in flight.
func (m *MetricsService) FetchDispatched(resource string) {
	if m == nil {
		return
	}
	m.fetchInflight.WithLabelValues(resource).Inc()
}

// FetchSettled records a list fetch outcome.
func (m *MetricsService) FetchSettled(resource, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetchInflight.WithLabelValues(resource).Dec()
	m.fetchDuration.WithLabelValues(resource, outcome).Observe(elapsed.Seconds())
}

// StaleDiscarded counts superseded responses.
func (m *MetricsService) StaleDiscarded(resource string) {
	if m == nil {
		return
	}
	m.staleDiscarded.WithLabelValues(resource).Inc()
}

// MutationCompleted counts mutation outcomes.
func (m *MetricsService) MutationCompleted(resource, operation, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(resource, operation, outcome).Inc()
}

// ExportFinished counts export job outcomes.
func (m *MetricsService) ExportFinished(format, outcome string) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(format, outcome).Inc()
}

// SetUnreadAlerts publishes the unread alert count.
func (m *MetricsService) SetUnreadAlerts(n int) {
	if m == nil {
		return
	}
	m.unreadAlerts.Set(float64(n))
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func errorKind(err error) string {
	if err == nil {
		return "none"
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "unknown"
}
