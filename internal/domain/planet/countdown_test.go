package planet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
)

func TestRemaining(t *testing.T) {
	end := time.Date(2026, 1, 9, 22, 10, 0, 0, time.UTC)

	assert.Equal(t, int64(90), planet.Remaining(end, end.Add(-90*time.Second)))
	assert.Equal(t, int64(0), planet.Remaining(end, end.Add(-500*time.Millisecond)))
	assert.Equal(t, int64(0), planet.Remaining(end, end))
	assert.Equal(t, int64(0), planet.Remaining(end, end.Add(time.Hour)))
}

func TestRemaining_NonIncreasingAndReachesZero(t *testing.T) {
	// Arrange
	end := time.Date(2026, 1, 9, 22, 10, 0, 0, time.UTC)
	now := end.Add(-10 * time.Second)
	last := planet.Remaining(end, now)

	// Act / Assert
	for i := 0; i < 50; i++ {
		now = now.Add(333 * time.Millisecond)
		got := planet.Remaining(end, now)
		assert.LessOrEqual(t, got, last)
		assert.GreaterOrEqual(t, got, int64(0))
		last = got
	}
	assert.Equal(t, int64(0), last)
}

func TestEndOf(t *testing.T) {
	end := time.Date(2026, 1, 9, 22, 10, 0, 0, time.UTC)
	s := &planet.Snapshot{
		Building:      &planet.BuildingQueue{Type: planet.BuildingResearchLab, End: end},
		ExpeditionEnd: &end,
	}

	require.NotNil(t, s.EndOf(planet.TimerBuilding))
	assert.Equal(t, end, *s.EndOf(planet.TimerBuilding))
	assert.Nil(t, s.EndOf(planet.TimerShipyard))
	assert.NotNil(t, s.EndOf(planet.TimerExpedition))

	var none *planet.Snapshot
	assert.Nil(t, none.EndOf(planet.TimerBuilding))
}
