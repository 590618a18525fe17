package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Game metrics
	handsRecorded      *prometheus.CounterVec
	meldResolutions    *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	handCorrections    prometheus.Counter
	gamesStarted       *prometheus.CounterVec
	gamesCompleted     *prometheus.CounterVec
	activeGame         prometheus.Gauge
	registeredPlayers  prometheus.Gauge

	// Store metrics
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pinochle",
		subsystem:        "scorekeeper",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.handsRecorded = m.counterVec("hands_recorded_total",
		"Hands added to a game by outcome", "outcome")
	m.meldResolutions = m.counterVec("meld_resolutions_total",
		"Non-bidder meld decisions by status", "status")
	m.validationFailures = m.counterVec("validation_failures_total",
		"Rejected inputs by operation", "operation")
	m.handCorrections = promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "hand_corrections_total",
		Help:        "Recorded hands corrected after the fact",
		ConstLabels: m.constLabels,
	})
	m.gamesStarted = m.counterVec("games_started_total",
		"Games started by table size", "players")
	m.gamesCompleted = m.counterVec("games_completed_total",
		"Games ended by win mode", "mode")
	m.activeGame = m.gauge("active_game", "1 while a game is open")
	m.registeredPlayers = m.gauge("registered_players", "Players in the registry")

	m.storeLatency = m.histogramVec("store_operation_duration_milliseconds",
		"Store call latency in milliseconds", "operation", "result")
	m.storeErrors = m.counterVec("store_errors_total",
		"Failed store calls by operation", "operation")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Total number of errors by type", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordHandRecorded counts a hand added to a game.
func RecordHandRecorded(outcome string) {
	globalManager.handsRecorded.WithLabelValues(outcome).Inc()
}

// RecordMeldResolution counts a non-bidder meld decision.
func RecordMeldResolution(status string) {
	globalManager.meldResolutions.WithLabelValues(status).Inc()
}

// RecordValidationFailure counts a rejected input.
func RecordValidationFailure(operation string) {
	globalManager.validationFailures.WithLabelValues(operation).Inc()
}

// RecordHandCorrection counts a corrected hand.
func RecordHandCorrection() {
	globalManager.handCorrections.Inc()
}

// RecordGameStarted counts a new game.
func RecordGameStarted(players string) {
	globalManager.gamesStarted.WithLabelValues(players).Inc()
}

// RecordGameCompleted counts an ended game.
func RecordGameCompleted(mode string) {
	globalManager.gamesCompleted.WithLabelValues(mode).Inc()
}

// UpdateActiveGame sets whether a game is open.
func UpdateActiveGame(open bool) {
	if open {
		globalManager.activeGame.Set(1)
		return
	}
	globalManager.activeGame.Set(0)
}

// UpdateRegisteredPlayers sets the registry size.
func UpdateRegisteredPlayers(count int) {
	globalManager.registeredPlayers.Set(float64(count))
}

// RecordStoreOperation records a store call and whether it failed.
func RecordStoreOperation(operation string, latencyMs float64, err error) {
	result := resultOK
	if err != nil {
		result = resultError
		globalManager.storeErrors.WithLabelValues(operation).Inc()
	}
	globalManager.storeLatency.WithLabelValues(operation, result).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
