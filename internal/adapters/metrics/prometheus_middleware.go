package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
)

// PrometheusMiddleware times each dispatch and counts it under the request's
// type name. A nil collector turns it into a pass-through.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}
		start := time.Now()
		response, err := next(ctx, request)
		collector.Observe(mediator.RequestName(request), time.Since(start).Seconds(), err)
		return response, err
	}
}
