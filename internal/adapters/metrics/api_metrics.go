package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetricsCollector watches the REST traffic between the client and the
// game server. Endpoints are route templates such as "/planets/{id}" so the
// label set stays small.
type APIMetricsCollector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	throttle *prometheus.HistogramVec
	retries  *prometheus.CounterVec
}

func NewAPIMetricsCollector() *APIMetricsCollector {
	route := []string{"method", "endpoint"}
	return &APIMetricsCollector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_requests_total",
				Help:      "Requests sent to the game server; status_code is 0 when no response arrived",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_request_duration_seconds",
				Help:      "Round trip to the game server, excluding limiter wait",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2.5, 9),
			},
			route,
		),
		throttle: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_rate_limit_wait_seconds",
				Help:      "Time a request was held back by the client-side limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
			},
			route,
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_retries_total",
				Help:      "Read requests sent again after a network failure",
			},
			[]string{"endpoint"},
		),
	}
}

func (c *APIMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, collector := range []prometheus.Collector{c.requests, c.latency, c.throttle, c.retries} {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func (c *APIMetricsCollector) RecordAPIRequest(method, endpoint string, statusCode int, duration float64) {
	c.requests.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(method, endpoint).Observe(duration)
}

func (c *APIMetricsCollector) RecordRateLimitWait(method, endpoint string, duration float64) {
	c.throttle.WithLabelValues(method, endpoint).Observe(duration)
}

func (c *APIMetricsCollector) RecordRetry(endpoint string) {
	c.retries.WithLabelValues(endpoint).Inc()
}
