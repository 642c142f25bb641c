package world_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/application/world"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ranking"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
	"github.com/andrescamacho/spaceconquest-go/test/helpers"
)

func setup(t *testing.T) (*helpers.MockGameClient, mediator.Mediator, context.Context) {
	t.Helper()
	client := helpers.NewMockGameClient()
	m := mediator.NewMediator()
	require.NoError(t, world.Register(m, client))
	s, err := session.NewSession("ada", client.Token(), helpers.DefaultPlanetID, time.Now())
	require.NoError(t, err)
	return client, m, auth.WithSession(context.Background(), s)
}

func TestGetRanking_SortsAndFindsOwnRow(t *testing.T) {
	// Arrange
	client, m, ctx := setup(t)
	client.SetRanking([]ranking.Entry{
		{Rank: 2, PlanetName: "Caladan", Score: 300, IsMine: true, TargetID: "p2"},
		{Rank: 1, PlanetName: "Giedi Prime", Score: 900, TargetID: "p1"},
	})

	// Act
	resp, err := m.Send(ctx, &world.GetRankingQuery{})

	// Assert
	require.NoError(t, err)
	ranked := resp.(*world.GetRankingResponse)
	assert.Equal(t, "Giedi Prime", ranked.Entries[0].PlanetName)
	require.NotNil(t, ranked.Own)
	assert.Equal(t, 2, ranked.Own.Rank)
}

func TestGetRanking_RequiresSession(t *testing.T) {
	client, m, _ := setup(t)

	_, err := m.Send(context.Background(), &world.GetRankingQuery{})

	assert.True(t, shared.IsNoSessionError(err))
	assert.Zero(t, client.CallCount(helpers.MethodRanking))
}

func TestGetReports_NewestFirstWithLimit(t *testing.T) {
	client, m, ctx := setup(t)
	base := time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)
	client.SetReports([]report.HistoryEntry{
		{ID: "old", Date: base},
		{ID: "new", Date: base.Add(2 * time.Hour)},
		{ID: "mid", Date: base.Add(time.Hour)},
	})

	resp, err := m.Send(ctx, &world.GetReportsQuery{Limit: 2})

	require.NoError(t, err)
	entries := resp.(*world.GetReportsResponse).Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "new", entries[0].ID)
	assert.Equal(t, "mid", entries[1].ID)
}

func TestGetGameConfig_FetchedOnce(t *testing.T) {
	client, m, _ := setup(t)
	client.SetSpeed(5)

	first, err := m.Send(context.Background(), &world.GetGameConfigQuery{})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), &world.GetGameConfigQuery{})
	require.NoError(t, err)

	assert.Equal(t, 5.0, first.(*world.GetGameConfigResponse).Config.SpeedMultiplier)
	assert.Equal(t, 1, client.CallCount(helpers.MethodGameConfig))
}
