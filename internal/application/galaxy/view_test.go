package galaxy_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/galaxy"
	domainGalaxy "github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
	"github.com/andrescamacho/spaceconquest-go/test/helpers"
)

type staticSessions struct{ s *session.Session }

func (p staticSessions) Current() *session.Session { return p.s }

func newView(t *testing.T, client *helpers.MockGameClient) *galaxy.View {
	t.Helper()
	s, err := session.NewSession("ada", client.Token(), helpers.DefaultPlanetID, time.Now())
	require.NoError(t, err)
	return galaxy.NewView(client, staticSessions{s: s}, domainGalaxy.Address{Galaxy: 1, System: 42})
}

func TestScan_FetchesOncePerSystem(t *testing.T) {
	// Arrange
	client := helpers.NewMockGameClient()
	addr := domainGalaxy.Address{Galaxy: 1, System: 42}
	client.SetSlots(addr, []domainGalaxy.Slot{
		{Position: 7, PlanetID: "p7", PlanetName: "Caladan"},
		{Position: 2},
	})
	view := newView(t, client)

	// Act
	first, err := view.Scan(context.Background(), addr)
	require.NoError(t, err)
	view.ToggleMode()
	second, err := view.ScanCurrent(context.Background())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, second)
	assert.Equal(t, 2, first[0].Position, "slots are ordered by position")
	assert.Equal(t, 1, client.CallCount(helpers.MethodScanSystem))
	assert.Equal(t, galaxy.ModeMap, view.Mode())
}

func TestScan_ConcurrentReadersShareRequest(t *testing.T) {
	client := helpers.NewMockGameClient()
	view := newView(t, client)
	addr := domainGalaxy.Address{Galaxy: 2, System: 3}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = view.Scan(context.Background(), addr)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, client.CallCount(helpers.MethodScanSystem), 8)
	_, err := view.Scan(context.Background(), addr)
	require.NoError(t, err)
	calls := client.CallCount(helpers.MethodScanSystem)
	_, _ = view.Scan(context.Background(), addr)
	assert.Equal(t, calls, client.CallCount(helpers.MethodScanSystem))
}

func TestScan_ErrorsAreNotCached(t *testing.T) {
	client := helpers.NewMockGameClient()
	view := newView(t, client)
	addr := domainGalaxy.Address{Galaxy: 1, System: 1}
	client.SetError(helpers.MethodScanSystem, shared.NewBusinessError(404, "Système introuvable"))

	_, err := view.Scan(context.Background(), addr)
	require.Error(t, err)
	client.SetError(helpers.MethodScanSystem, nil)
	_, err = view.Scan(context.Background(), addr)

	require.NoError(t, err)
	assert.Equal(t, 2, client.CallCount(helpers.MethodScanSystem))
}

func TestScan_WithoutSession(t *testing.T) {
	view := galaxy.NewView(helpers.NewMockGameClient(), staticSessions{}, domainGalaxy.Address{})

	_, err := view.ScanCurrent(context.Background())

	assert.True(t, shared.IsNoSessionError(err))
}

func TestScan_ContextSessionWins(t *testing.T) {
	client := helpers.NewMockGameClient()
	view := galaxy.NewView(client, staticSessions{}, domainGalaxy.Address{})
	s, err := session.NewSession("ada", client.Token(), helpers.DefaultPlanetID, time.Now())
	require.NoError(t, err)

	_, err = view.ScanCurrent(auth.WithSession(context.Background(), s))

	assert.NoError(t, err)
}

func TestNavigation(t *testing.T) {
	view := newView(t, helpers.NewMockGameClient())

	assert.Equal(t, domainGalaxy.Address{Galaxy: 1, System: 43}, view.Next())
	assert.Equal(t, domainGalaxy.Address{Galaxy: 1, System: 42}, view.Prev())

	_, err := view.Goto(9, 1)
	assert.Error(t, err)

	addr, err := view.Goto(2, 50)
	require.NoError(t, err)
	assert.Equal(t, domainGalaxy.Address{Galaxy: 3, System: 1}, view.Next())
	assert.Equal(t, 2, addr.Galaxy)
}

func TestMap_UsesOverviewAndDeterministicLayout(t *testing.T) {
	// Arrange
	client := helpers.NewMockGameClient()
	client.SetSummaries(1, []domainGalaxy.SystemSummary{{System: 42, PlanetCount: 3, HasMe: true}})
	view := newView(t, client)

	// Act
	first, err := view.Map(context.Background())
	require.NoError(t, err)
	second, err := view.Map(context.Background())
	require.NoError(t, err)

	// Assert
	assert.Len(t, first.Stars, domainGalaxy.MaxSystem)
	assert.Equal(t, first.Stars, second.Stars)
	assert.True(t, first.Summaries[42].HasMe)
	assert.Equal(t, 1, client.CallCount(helpers.MethodScanGalaxy))
}

func TestInvalidate_Refetches(t *testing.T) {
	client := helpers.NewMockGameClient()
	view := newView(t, client)

	_, _ = view.ScanCurrent(context.Background())
	view.Invalidate()
	_, _ = view.ScanCurrent(context.Background())

	assert.Equal(t, 2, client.CallCount(helpers.MethodScanSystem))
}
