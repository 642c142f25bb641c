package shared_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

func TestSubmissionStateMachine_BeginConfirm(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 1, 9, 22, 0, 0, 0, time.UTC))
	sm := shared.NewSubmissionStateMachine(clock)

	// Act
	require.NoError(t, sm.Begin())
	clock.Advance(3 * time.Second)

	// Assert
	assert.True(t, sm.IsSubmitting())
	assert.Equal(t, 3*time.Second, sm.PendingFor())
	require.NoError(t, sm.Confirm())
	assert.Equal(t, shared.SubmissionStatusIdle, sm.Status())
	assert.Equal(t, shared.SubmissionOutcomeConfirmed, sm.Outcome())
	assert.NotNil(t, sm.SettledAt())
	assert.Zero(t, sm.PendingFor())
}

func TestSubmissionStateMachine_SingleOutstanding(t *testing.T) {
	sm := shared.NewSubmissionStateMachine(shared.NewMockClock(time.Time{}))

	require.NoError(t, sm.Begin())

	assert.Error(t, sm.Begin())
}

func TestSubmissionStateMachine_FailRecordsError(t *testing.T) {
	sm := shared.NewSubmissionStateMachine(shared.NewMockClock(time.Time{}))
	cause := errors.New("boom")

	require.NoError(t, sm.Begin())
	require.NoError(t, sm.Fail(cause))

	assert.Equal(t, shared.SubmissionOutcomeFailed, sm.Outcome())
	assert.Equal(t, cause, sm.LastError())
}

func TestSubmissionStateMachine_SettleFromIdleFails(t *testing.T) {
	sm := shared.NewSubmissionStateMachine(nil)

	assert.Error(t, sm.Confirm())
	assert.Error(t, sm.Expire())
}

func TestSubmissionStateMachine_Expire(t *testing.T) {
	sm := shared.NewSubmissionStateMachine(shared.NewMockClock(time.Time{}))

	require.NoError(t, sm.Begin())
	require.NoError(t, sm.Expire())

	assert.Equal(t, shared.SubmissionOutcomeExpired, sm.Outcome())
	assert.False(t, sm.IsSubmitting())
}
