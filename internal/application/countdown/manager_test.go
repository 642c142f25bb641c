package countdown_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/application/countdown"
	"github.com/andrescamacho/spaceconquest-go/internal/application/polling"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

type countingRefresher struct{ count int }

func (r *countingRefresher) Refresh() { r.count++ }

var start = time.Date(2026, 1, 9, 22, 0, 0, 0, time.UTC)

func buildingSnapshot(end string) *planet.Snapshot {
	return planet.Normalize(map[string]any{"construction_end": end, "construction_type": "metal"})
}

func TestTick_ExactlyOneRefreshOnZero(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(start)
	refresher := &countingRefresher{}
	m := countdown.NewManager(clock, refresher)
	m.Sync(buildingSnapshot("2026-01-09T22:00:03"))

	// Act + Assert
	var seen []int64
	for i := 0; i < 6; i++ {
		readings := m.Tick(context.Background())
		require.Len(t, readings, 1)
		seen = append(seen, readings[0].Remaining)
		clock.Advance(time.Second)
	}

	assert.Equal(t, []int64{3, 2, 1, 0, 0, 0}, seen)
	assert.Equal(t, 1, refresher.count)
}

func TestSync_SameEndDoesNotRearm(t *testing.T) {
	// Arrange: the server still reports the elapsed end after the refresh
	clock := shared.NewMockClock(start)
	refresher := &countingRefresher{}
	m := countdown.NewManager(clock, refresher)
	snap := buildingSnapshot("2026-01-09T22:00:00")

	// Act
	m.Sync(snap)
	m.Tick(context.Background())
	m.Sync(buildingSnapshot("2026-01-09T22:00:00"))
	m.Tick(context.Background())

	// Assert
	assert.Equal(t, 1, refresher.count)
}

func TestSync_NewEndRestartsCountdown(t *testing.T) {
	clock := shared.NewMockClock(start)
	refresher := &countingRefresher{}
	m := countdown.NewManager(clock, refresher)

	m.Sync(buildingSnapshot("2026-01-09T22:00:00"))
	m.Tick(context.Background())
	m.Sync(buildingSnapshot("2026-01-09T22:00:10"))

	remaining, ok := m.Remaining(planet.TimerBuilding)
	require.True(t, ok)
	assert.Equal(t, int64(10), remaining)

	clock.Advance(10 * time.Second)
	m.Tick(context.Background())
	assert.Equal(t, 2, refresher.count)
}

func TestSync_ClearedFieldStopsCountdown(t *testing.T) {
	m := countdown.NewManager(shared.NewMockClock(start), nil)
	m.Sync(buildingSnapshot("2026-01-09T22:00:30"))

	m.Sync(planet.Normalize(map[string]any{}))

	_, ok := m.Remaining(planet.TimerBuilding)
	assert.False(t, ok)
	assert.Empty(t, m.Tick(context.Background()))
}

func TestTick_FieldsAreIndependent(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(start)
	refresher := &countingRefresher{}
	m := countdown.NewManager(clock, refresher)
	m.Sync(planet.Normalize(map[string]any{
		"construction_end":          "2026-01-09T22:00:01",
		"shipyard_construction_end": "2026-01-09T22:00:05",
		"expedition_end":            "2026-01-09T22:01:00",
	}))

	// Act
	clock.Advance(2 * time.Second)
	readings := m.Tick(context.Background())

	// Assert
	require.Len(t, readings, 3)
	assert.Equal(t, countdown.Reading{Field: planet.TimerBuilding, End: start.Add(time.Second), Remaining: 0}, readings[0])
	assert.Equal(t, int64(3), readings[1].Remaining)
	assert.Equal(t, int64(58), readings[2].Remaining)
	assert.Equal(t, 1, refresher.count)
}

func TestRun_FollowsStoreAndStopsOnCancel(t *testing.T) {
	// Arrange
	store := polling.NewStore()
	m := countdown.NewManager(shared.NewRealClock(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, store, 5*time.Millisecond)
		close(done)
	}()

	// Act
	end := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	require.Eventually(t, func() bool {
		store.Replace(planet.Normalize(map[string]any{"expedition_end": end}))
		_, ok := m.Remaining(planet.TimerExpedition)
		return ok
	}, time.Second, 10*time.Millisecond)
	cancel()

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown manager did not stop")
	}
	_, ok := m.Remaining(planet.TimerExpedition)
	assert.False(t, ok, "teardown discards countdowns")
}
