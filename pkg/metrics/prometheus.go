// Package metrics provides Prometheus metrics for the arena rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Rating engine
	outcomesRecorded prometheus.Counter
	outcomesDeleted  prometheus.Counter
	outcomesRejected *prometheus.CounterVec
	duplicateSubmits prometheus.Counter
	replayDuration   prometheus.Histogram
	replayOutcomes   prometheus.Histogram
	glickoResets     prometheus.Counter

	// Collection size
	totalArenas prometheus.Gauge
	totalItems  prometheus.Gauge

	// Persistence
	persistSaves   *prometheus.CounterVec
	persistLatency prometheus.Histogram
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.outcomesRecorded = m.counter("outcomes_recorded_total", "Total number of recorded head-to-head outcomes")
	m.outcomesDeleted = m.counter("outcomes_deleted_total", "Total number of outcomes removed from history, including cascades")
	m.outcomesRejected = m.counterVec("outcomes_rejected_total", "Outcome submissions rejected by validation", "reason")
	m.duplicateSubmits = m.counter("outcomes_duplicate_total", "Outcome submissions ignored because the request id was already applied")
	m.replayDuration = m.histogram("replay_duration_milliseconds", "Duration of a full history replay in milliseconds", m.histogramBuckets)
	m.replayOutcomes = m.histogram("replay_outcomes", "Number of outcomes replayed per replay",
		prometheus.ExponentialBuckets(1, 2, 12))
	m.glickoResets = m.counter("glicko_resets_total", "Glicko-2 updates that produced non-finite values and were reset")

	m.totalArenas = m.gauge("arenas", "Number of arenas")
	m.totalItems = m.gauge("items", "Number of items across all arenas")

	m.persistSaves = m.counterVec("persist_saves_total", "Snapshot saves by result", "result")
	m.persistLatency = m.histogram("persist_latency_milliseconds", "Snapshot save latency in milliseconds", m.histogramBuckets)
	m.queueSize = m.gauge("persist_queue_size", "Snapshots waiting to be persisted")
	m.queueCapacity = m.gauge("persist_queue_capacity", "Capacity of the persistence queue")

	auto := promauto.With(m.registry)
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordOutcomeRecorded increments the recorded outcomes counter.
func RecordOutcomeRecorded() {
	globalManager.outcomesRecorded.Inc()
}

// RecordOutcomesDeleted adds n removed outcomes.
func RecordOutcomesDeleted(n int) {
	globalManager.outcomesDeleted.Add(float64(n))
}

// RecordOutcomeRejected counts a rejected submission by reason.
func RecordOutcomeRejected(reason string) {
	globalManager.outcomesRejected.WithLabelValues(reason).Inc()
}

// RecordDuplicateSubmission counts a deduplicated submission.
func RecordDuplicateSubmission() {
	globalManager.duplicateSubmits.Inc()
}

// RecordReplay observes one replay.
func RecordReplay(durationMs float64, outcomes, resets int) {
	globalManager.replayDuration.Observe(durationMs)
	globalManager.replayOutcomes.Observe(float64(outcomes))
	if resets > 0 {
		globalManager.glickoResets.Add(float64(resets))
	}
}

// UpdateCollectionSize sets the arena and item gauges.
func UpdateCollectionSize(arenas, items int) {
	globalManager.totalArenas.Set(float64(arenas))
	globalManager.totalItems.Set(float64(items))
}

// RecordPersist records a snapshot save and its latency.
func RecordPersist(ok bool, latencyMs float64) {
	result := "ok"
	if !ok {
		result = "error"
	}
	globalManager.persistSaves.WithLabelValues(result).Inc()
	globalManager.persistLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current persistence queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the persistence queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent counts an error raised by a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint counts an HTTP error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the global manager reports to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
