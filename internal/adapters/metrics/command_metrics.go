package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// Outcome labels for game actions and queries.
const (
	OutcomeSuccess      = "success"
	OutcomeRejected     = "rejected"
	OutcomeUnauthorized = "unauthorized"
	OutcomeNoSession    = "no_session"
	OutcomeNetwork      = "network"
	OutcomeError        = "error"
)

// CommandMetricsCollector counts and times every request that goes through
// the mediator, split by how it ended.
type CommandMetricsCollector struct {
	latency *prometheus.HistogramVec
	total   *prometheus.CounterVec
}

func NewCommandMetricsCollector() *CommandMetricsCollector {
	labels := []string{"command", "outcome"}
	return &CommandMetricsCollector{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Time from dispatch to handler return, local checks included",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			labels,
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Game actions and queries dispatched, by outcome",
			},
			labels,
		),
	}
}

func (c *CommandMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, collector := range []prometheus.Collector{c.latency, c.total} {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Observe records one finished dispatch.
func (c *CommandMetricsCollector) Observe(command string, seconds float64, err error) {
	outcome := ClassifyOutcome(err)
	c.latency.WithLabelValues(command, outcome).Observe(seconds)
	c.total.WithLabelValues(command, outcome).Inc()
}

// ClassifyOutcome maps a handler error onto an outcome label. Rejections are
// the game refusing the action (short of resources, queue busy, bad input or
// a server 4xx), which are normal play and kept apart from real failures.
func ClassifyOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case shared.IsNoSessionError(err):
		return OutcomeNoSession
	case shared.IsAuthorizationError(err):
		return OutcomeUnauthorized
	case shared.IsBusinessError(err):
		return OutcomeRejected
	case shared.IsNetworkError(err):
		return OutcomeNetwork
	default:
		return OutcomeError
	}
}
