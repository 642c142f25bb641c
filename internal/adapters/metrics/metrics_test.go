package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/metrics"
	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

type upgradeCommand struct{}

func findFamily(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func counterTotal(f *dto.MetricFamily) float64 {
	total := 0.0
	for _, m := range f.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	return total
}

func TestRecordersAreNoOpsWhenDisabled(t *testing.T) {
	metrics.Reset()

	assert.False(t, metrics.IsEnabled())
	assert.NotPanics(t, func() {
		metrics.RecordAPIRequest("GET", "/planets/{id}", 200, 0.1)
		metrics.RecordPoll("applied", 0.1)
		metrics.RecordStaleDiscard()
		metrics.RecordRetry("/planets/{id}")
	})
}

func TestSetup_RecordsSyncAndAPIMetrics(t *testing.T) {
	// Arrange
	_, err := metrics.Setup()
	require.NoError(t, err)
	t.Cleanup(metrics.Reset)

	// Act
	metrics.RecordAPIRequest("GET", "/planets/{id}", 200, 0.05)
	metrics.RecordPoll("applied", 0.05)
	metrics.RecordPoll("stale", 0.05)
	metrics.RecordStaleDiscard()
	metrics.RecordNotification("CONSTRUCTION_COMPLETE")
	metrics.RecordReportAck(false)
	metrics.RecordCountdownRefresh("building")
	metrics.RecordRetry("/planets/{id}")

	// Assert
	require.NotNil(t, findFamily(t, "spaceconquest_client_api_requests_total"))
	assert.Equal(t, 2.0, counterTotal(findFamily(t, "spaceconquest_client_polls_total")))
	assert.Equal(t, 1.0, counterTotal(findFamily(t, "spaceconquest_client_stale_responses_discarded_total")))
	assert.Equal(t, 1.0, counterTotal(findFamily(t, "spaceconquest_client_report_acks_total")))
	assert.Equal(t, 1.0, counterTotal(findFamily(t, "spaceconquest_client_api_retries_total")))
}

func TestPrometheusMiddleware_RecordsCommandOutcome(t *testing.T) {
	// Arrange
	collector, err := metrics.Setup()
	require.NoError(t, err)
	t.Cleanup(metrics.Reset)
	mw := metrics.PrometheusMiddleware(collector)

	// Act
	_, _ = mw(context.Background(), &upgradeCommand{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, nil
	})
	_, err = mw(context.Background(), &upgradeCommand{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, shared.NewQueueBusyError("building")
	})

	// Assert
	assert.Error(t, err)
	family := findFamily(t, "spaceconquest_client_commands_total")
	require.NotNil(t, family)
	assert.Equal(t, 2.0, counterTotal(family))
	outcomes := map[string]bool{}
	for _, m := range family.GetMetric() {
		for _, label := range m.GetLabel() {
			switch label.GetName() {
			case "command":
				assert.Equal(t, "upgradeCommand", label.GetValue())
			case "outcome":
				outcomes[label.GetValue()] = true
			}
		}
	}
	assert.Equal(t, map[string]bool{metrics.OutcomeSuccess: true, metrics.OutcomeRejected: true}, outcomes)
}

func TestPrometheusMiddleware_PassesThroughWhenDisabled(t *testing.T) {
	mw := metrics.PrometheusMiddleware(nil)

	resp, err := mw(context.Background(), &upgradeCommand{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestClassifyOutcome(t *testing.T) {
	cases := map[string]error{
		metrics.OutcomeSuccess:      nil,
		metrics.OutcomeNoSession:    fmt.Errorf("status: %w", shared.NewNoSessionError()),
		metrics.OutcomeUnauthorized: shared.NewAuthorizationError(401, "token expired"),
		metrics.OutcomeRejected:     shared.NewInsufficientResourcesError("metal", 60, 10),
		metrics.OutcomeNetwork:      shared.NewNetworkError(errors.New("connection refused")),
		metrics.OutcomeError:        errors.New("boom"),
	}
	for want, err := range cases {
		t.Run(want, func(t *testing.T) {
			assert.Equal(t, want, metrics.ClassifyOutcome(err))
		})
	}
}

func TestServer_ExposesRegistry(t *testing.T) {
	// Arrange
	_, err := metrics.Setup()
	require.NoError(t, err)
	t.Cleanup(metrics.Reset)
	metrics.RecordPoll("applied", 0.01)
	server := metrics.NewServer("localhost:0", "/metrics")

	// Act
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "spaceconquest_client_polls_total")
}
