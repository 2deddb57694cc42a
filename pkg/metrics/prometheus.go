// Package metrics provides Prometheus metrics for the SIMONEV participation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default histogram buckets in milliseconds.
var (
	defaultLatencyBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}
	defaultSummaryBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000}
	gcPauseBuckets        = []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// Manager manages all Prometheus metrics for the SIMONEV service.
type Manager struct {
	namespace      string
	subsystem      string
	metricPrefix   string
	latencyBuckets []float64
	summaryBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Core business metrics
	eventsCreated    prometheus.Counter
	eventsDuplicate  prometheus.Counter
	rostersUploaded  *prometheus.CounterVec
	rosterLines      prometheus.Counter
	unmatchedLines   prometheus.Counter
	schoolsCredited  prometheus.Counter
	creditsSkipped   prometheus.Counter
	unknownEventRefs prometheus.Counter
	creditLatency    prometheus.Histogram
	restores         *prometheus.CounterVec

	// State gauges
	totalSchools     prometheus.Gauge
	totalEvents      prometheus.Gauge
	tierDistribution *prometheus.GaugeVec

	// Summary collaborator
	summaryRequests *prometheus.CounterVec
	summaryLatency  prometheus.Histogram

	// Persistence
	persistSaves      prometheus.Counter
	persistErrors     prometheus.Counter
	persistLatency    prometheus.Histogram
	persistQueueSize  prometheus.Gauge
	persistQueueDrops prometheus.Counter

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error breakdown
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

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
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "simonev",
		subsystem:      "participation",
		latencyBuckets: defaultLatencyBuckets,
		summaryBuckets: defaultSummaryBuckets,
		constLabels:    prometheus.Labels{},
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Core business metrics
	m.eventsCreated = m.counter("events_created_total", "Total number of events created")
	m.eventsDuplicate = m.counter("events_duplicate_total", "Event creation requests rejected by idempotency key")
	m.rostersUploaded = m.counterVec("rosters_uploaded_total", "Total number of roster uploads by data kind", "kind")
	m.rosterLines = m.counter("roster_lines_total", "Total number of non-empty roster lines received")
	m.unmatchedLines = m.counter("roster_unmatched_lines_total", "Roster lines that matched no school")
	m.schoolsCredited = m.counter("schools_credited_total", "School credits granted for an event")
	m.creditsSkipped = m.counter("credits_skipped_total", "Matched schools skipped because they were already credited")
	m.unknownEventRefs = m.counter("unknown_event_refs_total", "Uploads that referenced an unknown event id")
	m.creditLatency = m.histogram("credit_latency_milliseconds", "Latency of a matcher plus scoring pass in milliseconds", m.latencyBuckets)
	m.restores = m.counterVec("restores_total", "Snapshot restore attempts by outcome", "outcome")

	// State gauges
	m.totalSchools = m.gauge("schools", "Number of schools in the entity store")
	m.totalEvents = m.gauge("events", "Number of events in the entity store")
	m.tierDistribution = m.counterlessGaugeVec("tier_schools", "Number of schools per performance tier", "tier")

	// Summary collaborator
	m.summaryRequests = m.counterVec("summary_requests_total", "Executive summary requests by outcome", "outcome")
	m.summaryLatency = m.histogram("summary_latency_milliseconds", "Executive summary latency in milliseconds", m.summaryBuckets)

	// Persistence
	m.persistSaves = m.counter("persist_saves_total", "Snapshots written to the persistence backend")
	m.persistErrors = m.counter("persist_errors_total", "Snapshot writes that failed")
	m.persistLatency = m.histogram("persist_latency_milliseconds", "Snapshot write latency in milliseconds", m.latencyBuckets)
	m.persistQueueSize = m.gauge("persist_queue_size", "Snapshots waiting to be persisted")
	m.persistQueueDrops = m.counter("persist_queue_superseded_total", "Queued snapshots superseded by a newer snapshot")

	// HTTP performance
	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.latencyBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error breakdown
	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component",
		"component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")
	m.errorLatency = promauto.With(m.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of failed operations in milliseconds",
			Buckets:     m.latencyBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"component", "error_type"},
	)

	// System
	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds", gcPauseBuckets)
}

func (m *Manager) counterlessGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

// RecordEventCreated increments the events created counter.
func RecordEventCreated() {
	globalManager.eventsCreated.Inc()
}

// RecordEventDuplicate increments the duplicate event creation counter.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordRosterUpload records one roster upload with its line statistics.
func RecordRosterUpload(kind string, lines, unmatched int) {
	globalManager.rostersUploaded.WithLabelValues(kind).Inc()
	globalManager.rosterLines.Add(float64(nonNegative(lines)))
	globalManager.unmatchedLines.Add(float64(nonNegative(unmatched)))
}

// RecordCredits records the outcome of one scoring pass.
func RecordCredits(credited, skipped int) {
	globalManager.schoolsCredited.Add(float64(nonNegative(credited)))
	globalManager.creditsSkipped.Add(float64(nonNegative(skipped)))
}

// RecordUnknownEvent increments the unknown event reference counter.
func RecordUnknownEvent() {
	globalManager.unknownEventRefs.Inc()
}

// RecordCreditLatency records matcher plus scoring latency in milliseconds.
func RecordCreditLatency(latencyMs float64) {
	globalManager.creditLatency.Observe(latencyMs)
}

// RecordRestore records a restore attempt; outcome is "ok" or "rejected".
func RecordRestore(outcome string) {
	globalManager.restores.WithLabelValues(outcome).Inc()
}

// UpdateTotalSchools sets the number of schools.
func UpdateTotalSchools(count int) {
	globalManager.totalSchools.Set(float64(count))
}

// UpdateTotalEvents sets the number of events.
func UpdateTotalEvents(count int) {
	globalManager.totalEvents.Set(float64(count))
}

// UpdateTierDistribution sets the number of schools in one tier.
func UpdateTierDistribution(tier string, count int) {
	globalManager.tierDistribution.WithLabelValues(tier).Set(float64(count))
}

// RecordSummaryRequest records an executive summary request outcome and latency.
func RecordSummaryRequest(outcome string, latencyMs float64) {
	globalManager.summaryRequests.WithLabelValues(outcome).Inc()
	globalManager.summaryLatency.Observe(latencyMs)
}

// RecordPersistSave records a successful snapshot write.
func RecordPersistSave(latencyMs float64) {
	globalManager.persistSaves.Inc()
	globalManager.persistLatency.Observe(latencyMs)
}

// RecordPersistError records a failed snapshot write.
func RecordPersistError() {
	globalManager.persistErrors.Inc()
}

// UpdatePersistQueueSize sets the number of snapshots waiting to be written.
func UpdatePersistQueueSize(size int) {
	globalManager.persistQueueSize.Set(float64(size))
}

// RecordPersistSuperseded counts snapshots replaced before they were written.
func RecordPersistSuperseded() {
	globalManager.persistQueueDrops.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
