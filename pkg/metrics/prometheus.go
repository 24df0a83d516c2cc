// Package metrics provides Prometheus metrics for the pattern analysis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset ingestion
	rowsLoaded    prometheus.Counter
	rowsDuplicate prometheus.Counter
	rowsInvalid   prometheus.Counter

	// Analysis runs
	analysisRuns         prometheus.Counter
	analysisErrors       prometheus.Counter
	analysisDuration     prometheus.Histogram
	contestants          prometheus.Gauge
	patternsMaterialized *prometheus.GaugeVec
	clusterContestants   *prometheus.GaugeVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerPartitions        prometheus.Counter
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Standings store
	standingsRecords       prometheus.Gauge
	standingsUpdateLatency prometheus.Histogram
	standingsQueryLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "quizpattern",
		subsystem:        "analyzer",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounter(m.counter("dataset_rows_loaded_total", "Dataset rows accepted into the event log"))
	m.rowsDuplicate = auto.NewCounter(m.counter("dataset_rows_duplicate_total", "Dataset rows dropped as repeats of an earlier question"))
	m.rowsInvalid = auto.NewCounter(m.counter("dataset_rows_invalid_total", "Dataset rows rejected as unparsable"))

	m.analysisRuns = auto.NewCounter(m.counter("analysis_runs_total", "Completed analysis runs"))
	m.analysisErrors = auto.NewCounter(m.counter("analysis_errors_total", "Failed analysis runs"))
	m.analysisDuration = auto.NewHistogram(m.histogram("analysis_duration_milliseconds", "Wall time of one analysis run in milliseconds"))
	m.contestants = auto.NewGauge(m.gauge("contestants", "Contestants in the current event log"))
	m.patternsMaterialized = auto.NewGaugeVec(
		m.gauge("patterns_materialized", "Distinct pattern keys per table in the last run"),
		[]string{"table"},
	)
	m.clusterContestants = auto.NewGaugeVec(
		m.gauge("cluster_contestants", "Contestants per performance cluster in the last run"),
		[]string{"cluster"},
	)

	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Partitions waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gauge("queue_capacity", "Maximum queue capacity"))
	m.queueEnqueue = auto.NewCounter(m.counter("queue_enqueue_total", "Partitions enqueued"))
	m.queueDequeue = auto.NewCounter(m.counter("queue_dequeue_total", "Partitions dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counter("queue_enqueue_errors_total", "Rejected enqueues"))

	m.workerCount = auto.NewGauge(m.gauge("worker_count", "Workers of the running pool"))
	m.workerPartitions = auto.NewCounter(m.counter("worker_partitions_total", "Contestant partitions folded into worker accumulators"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogram("worker_processing_latency_milliseconds", "Time spent folding one partition in milliseconds"))
	m.workerErrors = auto.NewCounter(m.counter("worker_errors_total", "Worker failures"))

	m.standingsRecords = auto.NewGauge(m.gauge("standings_records_total", "Contestants held in the standings store"))
	m.standingsUpdateLatency = auto.NewHistogram(m.histogram("standings_update_latency_milliseconds", "Standings upsert latency in milliseconds"))
	m.standingsQueryLatency = auto.NewHistogram(m.histogram("standings_query_latency_milliseconds", "Standings query latency in milliseconds"))

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counter("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "Heap memory in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
}

// RecordRowLoaded counts one accepted dataset row.
func RecordRowLoaded() { globalManager.rowsLoaded.Inc() }

// RecordRowDuplicate counts one dropped duplicate row.
func RecordRowDuplicate() { globalManager.rowsDuplicate.Inc() }

// RecordRowInvalid counts one rejected row.
func RecordRowInvalid() { globalManager.rowsInvalid.Inc() }

// RecordAnalysisRun records a completed run and its duration.
func RecordAnalysisRun(durationMs float64) {
	globalManager.analysisRuns.Inc()
	globalManager.analysisDuration.Observe(durationMs)
}

// RecordAnalysisError counts a failed run.
func RecordAnalysisError() { globalManager.analysisErrors.Inc() }

// UpdateContestants sets the contestant count of the loaded log.
func UpdateContestants(count int) { globalManager.contestants.Set(float64(count)) }

// UpdatePatternsMaterialized sets the key count of one pattern table.
func UpdatePatternsMaterialized(table string, count int) {
	globalManager.patternsMaterialized.WithLabelValues(table).Set(float64(count))
}

// UpdateClusterContestants sets the size of one cluster.
func UpdateClusterContestants(cluster string, count int) {
	globalManager.clusterContestants.WithLabelValues(cluster).Set(float64(count))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueue.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeue.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the worker count of the running pool.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerPartition records one folded partition and its latency.
func RecordWorkerPartition(latencyMs float64) {
	globalManager.workerPartitions.Inc()
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateStandingsRecords sets the number of stored standings.
func UpdateStandingsRecords(count int) { globalManager.standingsRecords.Set(float64(count)) }

// RecordStandingsUpdateLatency records one upsert latency.
func RecordStandingsUpdateLatency(latencyMs float64) {
	globalManager.standingsUpdateLatency.Observe(latencyMs)
}

// RecordStandingsQueryLatency records one query latency.
func RecordStandingsQueryLatency(latencyMs float64) {
	globalManager.standingsQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
