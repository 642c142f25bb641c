package planet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
)

func fullPayload() map[string]any {
	return map[string]any{
		"id":                        "7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11",
		"name":                      "Caladan",
		"owner_id":                  "2d4b9a0e-0000-4000-8000-000000000001",
		"galaxy":                    float64(1),
		"system":                    float64(42),
		"position":                  float64(7),
		"metal_amount":              1234.5,
		"crystal_amount":            float64(800),
		"deuterium_amount":          float64(10),
		"metal_mine_level":          float64(3),
		"crystal_mine_level":        float64(2),
		"deuterium_mine_level":      float64(1),
		"energy_tech_level":         float64(1),
		"research_lab_level":        float64(2),
		"laser_battery_level":       float64(0),
		"espionage_tech_level":      float64(4),
		"light_hunter_count":        float64(12),
		"cruiser_count":             float64(3),
		"recycler_count":            float64(1),
		"spy_probe_count":           float64(5),
		"missile_launcher_count":    float64(20),
		"plasma_turret_count":       float64(1),
		"construction_end":          "2026-01-09T22:10:05.123456",
		"construction_type":         "metal",
		"shipyard_construction_end": "2026-01-09T22:11:00Z",
		"pending_fleet_type":        "cruiser",
		"pending_fleet_count":       float64(2),
		"expedition_end":            nil,
		"unread_report":             `{"winner":"defender","log":["raid"],"is_defense":true}`,
		"last_update":               "2026-01-09T22:09:00",
		"moon_size":                 float64(3),
	}
}

func TestNormalize_FullPayload(t *testing.T) {
	// Act
	s := planet.Normalize(fullPayload())

	// Assert
	assert.Equal(t, "Caladan", s.Name)
	assert.Equal(t, planet.Coordinates{Galaxy: 1, System: 42, Position: 7}, s.Coordinates)
	assert.Equal(t, 1234.5, s.Resources.Metal)
	assert.Equal(t, 3, s.Mines.Metal)
	assert.Equal(t, 4, s.Tech.Espionage)
	assert.Equal(t, 12, s.Fleet.LightHunter)
	assert.Equal(t, 20, s.Defenses.MissileLauncher)

	require.NotNil(t, s.Building)
	assert.Equal(t, planet.BuildingMetalMine, s.Building.Type)
	assert.Equal(t, time.Date(2026, 1, 9, 22, 10, 5, 123456000, time.UTC), s.Building.End)

	require.NotNil(t, s.Shipyard)
	assert.Equal(t, planet.UnitCruiser, s.Shipyard.Type)
	assert.Equal(t, 2, s.Shipyard.Count)

	assert.Nil(t, s.ExpeditionEnd)
	assert.True(t, s.HasPendingReport())
	assert.True(t, s.BuildingBusy())
	assert.True(t, s.ShipyardBusy())
	assert.False(t, s.ExpeditionActive())
}

func TestNormalize_MissingAndNullFieldsBecomeZero(t *testing.T) {
	// Arrange
	raw := map[string]any{
		"id":                 "7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11",
		"metal_amount":       nil,
		"crystal_amount":     "not-a-number",
		"deuterium_amount":   float64(-50),
		"metal_mine_level":   nil,
		"light_hunter_count": true,
	}

	// Act
	s := planet.Normalize(raw)

	// Assert
	assert.Zero(t, s.Resources.Metal)
	assert.Zero(t, s.Resources.Crystal)
	assert.Zero(t, s.Resources.Deuterium)
	assert.Zero(t, s.Mines.Metal)
	assert.Zero(t, s.Mines.Crystal)
	assert.Zero(t, s.Fleet.LightHunter)
	assert.Zero(t, s.Defenses.PlasmaTurret)
	assert.Nil(t, s.Building)
	assert.Nil(t, s.Shipyard)
	assert.False(t, s.HasPendingReport())
}

func TestNormalize_EmptyPayloadNeverFails(t *testing.T) {
	s := planet.Normalize(nil)

	require.NotNil(t, s)
	assert.Empty(t, s.ID)
	assert.Nil(t, s.Extra)
}

func TestNormalize_EveryNumericFieldNonNegative(t *testing.T) {
	// Arrange: every known numeric field negative or garbage
	raw := fullPayload()
	for key, value := range raw {
		if _, ok := value.(float64); ok {
			raw[key] = float64(-1)
		}
	}

	// Act
	s := planet.Normalize(raw)

	// Assert
	for _, v := range []float64{s.Resources.Metal, s.Resources.Crystal, s.Resources.Deuterium, s.Debris.Metal, s.Debris.Crystal} {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	for _, v := range []int{
		s.Mines.Metal, s.Mines.Crystal, s.Mines.Deuterium,
		s.Tech.Energy, s.Tech.ResearchLab, s.Tech.LaserBattery, s.Tech.Espionage, s.Tech.Shipyard,
		s.Fleet.LightHunter, s.Fleet.Cruiser, s.Fleet.Recycler, s.Fleet.SpyProbe,
		s.Defenses.MissileLauncher, s.Defenses.PlasmaTurret,
		s.Coordinates.Galaxy, s.Coordinates.System, s.Coordinates.Position,
	} {
		assert.GreaterOrEqual(t, v, 0)
	}
}

func TestNormalize_UnknownFieldsPassThrough(t *testing.T) {
	s := planet.Normalize(fullPayload())

	require.Contains(t, s.Extra, "moon_size")
	assert.Equal(t, float64(3), s.Extra["moon_size"])
	assert.NotContains(t, s.Extra, "metal_amount")
}

func TestNormalize_Idempotent(t *testing.T) {
	// Arrange
	once := planet.Normalize(fullPayload())

	// Act
	twice := planet.Normalize(planet.Denormalize(once))

	// Assert
	assert.Equal(t, once, twice)
}

func TestNormalize_IdempotentOnSparsePayload(t *testing.T) {
	once := planet.Normalize(map[string]any{"metal_amount": nil, "extra": "x"})

	twice := planet.Normalize(planet.Denormalize(once))

	assert.Equal(t, once, twice)
}

func TestNormalizeJSON(t *testing.T) {
	// Arrange
	body := []byte(`{"id":"7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11","metal_amount":500,"expedition_end":"2026-01-09T22:15:00"}`)

	// Act
	s, err := planet.NormalizeJSON(body)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 500.0, s.Resources.Metal)
	require.NotNil(t, s.ExpeditionEnd)
	assert.Equal(t, time.Date(2026, 1, 9, 22, 15, 0, 0, time.UTC), *s.ExpeditionEnd)
}

func TestNormalizeJSON_InvalidBody(t *testing.T) {
	_, err := planet.NormalizeJSON([]byte(`{not json`))

	assert.Error(t, err)
}

func TestNormalize_StructuredReportIsEncoded(t *testing.T) {
	raw := map[string]any{
		"unread_report": map[string]any{"winner": "defender"},
	}

	s := planet.Normalize(raw)

	assert.JSONEq(t, `{"winner":"defender"}`, s.PendingReport)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"naive", "2026-01-09T22:10:05", time.Date(2026, 1, 9, 22, 10, 5, 0, time.UTC)},
		{"naive fractional", "2026-01-09T22:10:05.5", time.Date(2026, 1, 9, 22, 10, 5, 500000000, time.UTC)},
		{"zulu", "2026-01-09T22:10:05Z", time.Date(2026, 1, 9, 22, 10, 5, 0, time.UTC)},
		{"offset", "2026-01-09T23:10:05+01:00", time.Date(2026, 1, 9, 22, 10, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := planet.ParseTimestamp(tt.input)

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestNormalize_UnparseableTimestampIsAbsent(t *testing.T) {
	s := planet.Normalize(map[string]any{"construction_end": "tomorrow"})

	assert.Nil(t, s.Building)
	assert.False(t, s.BuildingBusy())
}
