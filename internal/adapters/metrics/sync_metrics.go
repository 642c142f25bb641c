package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetricsCollector handles planet polling and change detection metrics
type SyncMetricsCollector struct {
	pollsTotal         *prometheus.CounterVec
	pollDuration       prometheus.Histogram
	staleDiscards      prometheus.Counter
	notificationsTotal *prometheus.CounterVec
	reportAcksTotal    *prometheus.CounterVec
	countdownRefreshes *prometheus.CounterVec
}

// NewSyncMetricsCollector creates a new sync metrics collector
func NewSyncMetricsCollector() *SyncMetricsCollector {
	return &SyncMetricsCollector{
		// Poll outcomes: applied, stale, network_error, unauthorized, error
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "polls_total",
				Help:      "Total number of planet polls by outcome",
			},
			[]string{"outcome"},
		),

		pollDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "poll_duration_seconds",
				Help:      "Planet poll round-trip duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
			},
		),

		staleDiscards: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stale_responses_discarded_total",
				Help:      "Planet responses dropped because a newer one was already applied",
			},
		),

		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_total",
				Help:      "Notifications derived from snapshot changes by kind",
			},
			[]string{"kind"},
		),

		reportAcksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "report_acks_total",
				Help:      "Inbound report acknowledgements by status",
			},
			[]string{"status"},
		),

		countdownRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "countdown_refreshes_total",
				Help:      "Refreshes requested by countdowns reaching zero",
			},
			[]string{"field"},
		),
	}
}

// Register registers all sync metrics with the Prometheus registry
func (c *SyncMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.pollsTotal,
		c.pollDuration,
		c.staleDiscards,
		c.notificationsTotal,
		c.reportAcksTotal,
		c.countdownRefreshes,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordPoll records one poll and its duration
func (c *SyncMetricsCollector) RecordPoll(outcome string, duration float64) {
	c.pollsTotal.WithLabelValues(outcome).Inc()
	c.pollDuration.Observe(duration)
}

func (c *SyncMetricsCollector) RecordStaleDiscard() {
	c.staleDiscards.Inc()
}

func (c *SyncMetricsCollector) RecordNotification(kind string) {
	c.notificationsTotal.WithLabelValues(kind).Inc()
}

// RecordReportAck records whether clear-report succeeded
func (c *SyncMetricsCollector) RecordReportAck(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.reportAcksTotal.WithLabelValues(status).Inc()
}

func (c *SyncMetricsCollector) RecordCountdownRefresh(field string) {
	c.countdownRefreshes.WithLabelValues(field).Inc()
}
