package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/application/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/application/notify"
	"github.com/andrescamacho/spaceconquest-go/internal/application/reveal"
	"github.com/andrescamacho/spaceconquest-go/internal/application/world"
	domainGalaxy "github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ranking"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00"},
		{65, "01:05"},
		{3723, "1:02:03"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatClock(tt.seconds))
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "M 1,500", formatCost(planet.Cost{Metal: 1500}))
	assert.Equal(t, "M 60  C 15", formatCost(planet.Cost{Metal: 60, Crystal: 15}))
	assert.Equal(t, "free", formatCost(planet.Cost{}))
}

func rowFor(rows []buildingRow, b planet.BuildingType) buildingRow {
	for _, r := range rows {
		if r.Building == b {
			return r
		}
	}
	return buildingRow{}
}

func TestBuildingRows_DisabledWhileConstructing(t *testing.T) {
	// Arrange
	snap := &planet.Snapshot{
		Resources: planet.Resources{Metal: 10000, Crystal: 10000, Deuterium: 10000},
		Building:  &planet.BuildingQueue{Type: planet.BuildingMetalMine, End: time.Now().Add(time.Minute)},
	}

	// Act
	rows := buildingRows(snap, Timers{planet.TimerBuilding: 65}, false)

	// Assert
	require.Len(t, rows, len(planet.Buildings))
	metal := rowFor(rows, planet.BuildingMetalMine)
	assert.False(t, metal.Enabled)
	assert.Contains(t, metal.Text, "upgrading 01:05")
	crystal := rowFor(rows, planet.BuildingCrystalMine)
	assert.False(t, crystal.Enabled)
	assert.Contains(t, crystal.Text, "queue busy")
}

func TestBuildingRows_SubmittingShowsInitializing(t *testing.T) {
	snap := &planet.Snapshot{Resources: planet.Resources{Metal: 10000, Crystal: 10000, Deuterium: 10000}}

	rows := buildingRows(snap, Timers{}, true)

	for _, r := range rows {
		assert.False(t, r.Enabled)
		assert.Contains(t, r.Text, initLabel)
	}
}

func TestBuildingRows_ShortOfFundsStillSelectable(t *testing.T) {
	snap := &planet.Snapshot{Resources: planet.Resources{Metal: 10}}

	metal := rowFor(buildingRows(snap, Timers{}, false), planet.BuildingMetalMine)

	assert.True(t, metal.Enabled)
	assert.Contains(t, metal.Text, "short")
}

func TestBuildingRows_NoSnapshot(t *testing.T) {
	rows := buildingRows(nil, nil, false)

	require.Len(t, rows, len(planet.Buildings))
	for _, r := range rows {
		assert.False(t, r.Enabled)
	}
}

func TestUnitRows_ShipyardBusy(t *testing.T) {
	// Arrange
	snap := &planet.Snapshot{
		Fleet:    planet.Fleet{Cruiser: 3},
		Shipyard: &planet.ShipyardQueue{Type: planet.UnitCruiser, Count: 2, End: time.Now().Add(time.Minute)},
	}

	// Act
	fleet := unitRows(snap, planet.CategoryFleet, Timers{planet.TimerShipyard: 30}, false)
	defenses := unitRows(snap, planet.CategoryDefense, Timers{planet.TimerShipyard: 30}, false)

	// Assert
	for _, r := range append(fleet, defenses...) {
		assert.False(t, r.Enabled, r.Unit)
	}
	var cruiser unitRow
	for _, r := range fleet {
		if r.Unit == planet.UnitCruiser {
			cruiser = r
		}
	}
	assert.Contains(t, cruiser.Text, "x3")
	assert.Contains(t, cruiser.Text, "building 2, 00:30")
}

func TestRenderExpedition(t *testing.T) {
	end := time.Now().Add(2 * time.Minute)
	active := &planet.Snapshot{ExpeditionEnd: &end}
	idle := &planet.Snapshot{}

	text, enabled := renderExpedition(idle, Timers{}, true)
	assert.Contains(t, text, initLabel)
	assert.False(t, enabled)

	text, enabled = renderExpedition(active, Timers{planet.TimerExpedition: 120}, false)
	assert.Contains(t, text, "returning in 02:00")
	assert.False(t, enabled)

	_, enabled = renderExpedition(idle, Timers{}, false)
	assert.True(t, enabled)

	_, enabled = renderExpedition(nil, Timers{}, false)
	assert.False(t, enabled)
}

func TestRenderResources_ShowsStockAndEnergy(t *testing.T) {
	snap := &planet.Snapshot{
		Resources: planet.Resources{Metal: 1234567, Crystal: 800},
		Mines:     planet.Mines{Metal: 1},
		Debris:    planet.Debris{Metal: 500},
	}

	out := renderResources(snap, 1)

	assert.Contains(t, out, "1,234,567")
	assert.Contains(t, out, "Energy")
	assert.Contains(t, out, "Debris")
}

func TestRenderSlots(t *testing.T) {
	addr := domainGalaxy.Address{Galaxy: 1, System: 42}
	slots := []domainGalaxy.Slot{
		{Position: 1},
		{Position: 7, PlanetID: "p7", PlanetName: "Caladan", OwnerName: "ada", IsMine: true},
		{Position: 9, PlanetID: "p9", PlanetName: "Giedi", OwnerName: "vlad", HasDebris: true},
	}

	out := renderSlots(addr, slots, 2)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "1:42")
	assert.Contains(t, lines[1], "(vacant)")
	assert.Contains(t, lines[2], "[you]")
	assert.Contains(t, lines[3], "> ")
	assert.Contains(t, lines[3], "[debris]")
}

func TestRenderStarMap_MarksSystems(t *testing.T) {
	stars := domainGalaxy.Layout(1)
	m := &galaxy.StarMap{
		Galaxy: 1,
		Stars:  stars,
		Summaries: map[int]domainGalaxy.SystemSummary{
			stars[0].System: {System: stars[0].System, PlanetCount: 2, HasMe: true},
		},
	}

	out := renderStarMap(m, stars[1].System, 60, 20)

	assert.Contains(t, out, "Galaxy 1")
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "O")
	assert.Empty(t, renderStarMap(nil, 1, 60, 20))
}

func TestRenderRanking_HighlightsOwnRow(t *testing.T) {
	own := ranking.Entry{Rank: 2, PlanetName: "Caladan", Score: 12345, IsMine: true}
	resp := &world.GetRankingResponse{
		Entries: []ranking.Entry{{Rank: 1, PlanetName: "Giedi", Score: 99999}, own},
		Own:     &own,
	}

	out := renderRanking(resp)

	assert.Contains(t, out, accentTag+"   2  Caladan")
	assert.Contains(t, out, "12,345")
	assert.NotContains(t, out, "not ranked")
}

func TestRenderReports_RelativeDates(t *testing.T) {
	now := time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)
	entries := []report.HistoryEntry{{
		Mission: report.MissionAttack, TargetName: "Giedi", Result: "victory",
		LootMetal: 1500, Date: now.Add(-2 * time.Hour),
	}}

	out := renderReports(entries, now)

	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "attack")
	assert.Contains(t, out, "loot M 1,500")
}

func TestRenderReportFrame_OutcomeOnlyWhenDone(t *testing.T) {
	rep := &report.Report{Winner: "player", Log: []string{"Fleet engaged", "Enemy routed"}, Loot: report.Loot{Metal: 200}}

	partial := renderReportFrame(reveal.Frame{Report: rep, Lines: rep.Log[:1]})
	full := renderReportFrame(reveal.Frame{Report: rep, Lines: rep.Log, Done: true})

	assert.Contains(t, partial, "Fleet engaged")
	assert.NotContains(t, partial, string(report.OutcomeVictory))
	assert.Contains(t, full, string(report.OutcomeVictory))
	assert.Contains(t, full, "Loot: M 200")
	assert.Empty(t, renderReportFrame(reveal.Frame{}))
}

func TestRenderToasts(t *testing.T) {
	out := renderToasts([]notify.Toast{
		{Level: notify.LevelSuccess, Message: "Construction complete: Metal Mine"},
		{Level: notify.LevelError, Message: "Lost link with command."},
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], okTag))
	assert.True(t, strings.HasPrefix(lines[1], errTag))
}
