package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "spaceconquest"
	// Subsystem for client metrics
	subsystem = "client"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalAPICollector records game server requests.
	// Set by SetGlobalAPICollector() when metrics are enabled
	globalAPICollector APIMetricsRecorder

	// globalSyncCollector records planet synchronization events.
	// Set by SetGlobalSyncCollector() when metrics are enabled
	globalSyncCollector SyncMetricsRecorder
)

// APIMetricsRecorder defines the interface for recording game server requests
type APIMetricsRecorder interface {
	RecordAPIRequest(method, endpoint string, statusCode int, duration float64)
	RecordRateLimitWait(method, endpoint string, duration float64)
	RecordRetry(endpoint string)
}

// SyncMetricsRecorder defines the interface for recording synchronization events
type SyncMetricsRecorder interface {
	RecordPoll(outcome string, duration float64)
	RecordStaleDiscard()
	RecordNotification(kind string)
	RecordReportAck(success bool)
	RecordCountdownRefresh(field string)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalAPICollector sets the global API metrics collector
func SetGlobalAPICollector(collector APIMetricsRecorder) {
	globalAPICollector = collector
}

// RecordAPIRequest records a game server request globally
func RecordAPIRequest(method, endpoint string, statusCode int, duration float64) {
	if globalAPICollector != nil {
		globalAPICollector.RecordAPIRequest(method, endpoint, statusCode, duration)
	}
}

// RecordRateLimitWait records limiter wait time globally
func RecordRateLimitWait(method, endpoint string, duration float64) {
	if globalAPICollector != nil {
		globalAPICollector.RecordRateLimitWait(method, endpoint, duration)
	}
}

// RecordRetry records a GET being sent again after a network failure
func RecordRetry(endpoint string) {
	if globalAPICollector != nil {
		globalAPICollector.RecordRetry(endpoint)
	}
}

// SetGlobalSyncCollector sets the global sync metrics collector
func SetGlobalSyncCollector(collector SyncMetricsRecorder) {
	globalSyncCollector = collector
}

// RecordPoll records a poll outcome globally
func RecordPoll(outcome string, duration float64) {
	if globalSyncCollector != nil {
		globalSyncCollector.RecordPoll(outcome, duration)
	}
}

// RecordStaleDiscard records a discarded out-of-order response globally
func RecordStaleDiscard() {
	if globalSyncCollector != nil {
		globalSyncCollector.RecordStaleDiscard()
	}
}

// RecordNotification records a synthesized notification globally
func RecordNotification(kind string) {
	if globalSyncCollector != nil {
		globalSyncCollector.RecordNotification(kind)
	}
}

// RecordReportAck records an inbound report acknowledgement globally
func RecordReportAck(success bool) {
	if globalSyncCollector != nil {
		globalSyncCollector.RecordReportAck(success)
	}
}

// RecordCountdownRefresh records a refresh triggered by a countdown reaching zero
func RecordCountdownRefresh(field string) {
	if globalSyncCollector != nil {
		globalSyncCollector.RecordCountdownRefresh(field)
	}
}

// Setup initializes the registry and registers every collector.
// The returned command collector feeds PrometheusMiddleware.
func Setup() (*CommandMetricsCollector, error) {
	InitRegistry()

	api := NewAPIMetricsCollector()
	if err := api.Register(); err != nil {
		return nil, err
	}
	sync := NewSyncMetricsCollector()
	if err := sync.Register(); err != nil {
		return nil, err
	}
	commands := NewCommandMetricsCollector()
	if err := commands.Register(); err != nil {
		return nil, err
	}

	SetGlobalAPICollector(api)
	SetGlobalSyncCollector(sync)
	return commands, nil
}

// Reset drops the registry and global collectors
func Reset() {
	Registry = nil
	globalAPICollector = nil
	globalSyncCollector = nil
}
