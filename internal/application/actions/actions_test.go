package actions_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/persistence"
	"github.com/andrescamacho/spaceconquest-go/internal/application/actions"
	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/application/notify"
	"github.com/andrescamacho/spaceconquest-go/internal/application/polling"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
	"github.com/andrescamacho/spaceconquest-go/test/helpers"
)

const enemyPlanetID = "2d4b9a0e-0000-4000-8000-0000000000ff"

type countingRefresher struct {
	mu    sync.Mutex
	count int
}

func (r *countingRefresher) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

func (r *countingRefresher) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

type capturingPresenter struct {
	mu    sync.Mutex
	shown []*report.Report
}

func (p *capturingPresenter) ShowReport(ctx context.Context, r *report.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, r)
}

type actionsFixture struct {
	client     *helpers.MockGameClient
	clock      *shared.MockClock
	controller *auth.Controller
	store      *polling.Store
	toasts     *notify.Center
	refresher  *countingRefresher
	presenter  *capturingPresenter
	dispatcher *actions.Dispatcher
}

func newActionsFixture(t *testing.T, planetState map[string]any) *actionsFixture {
	t.Helper()
	client := helpers.NewMockGameClient()
	clock := shared.NewMockClock(time.Date(2026, 1, 9, 22, 0, 0, 0, time.UTC))

	controller := auth.NewController(persistence.NewGormSessionRepository(helpers.NewTestDB(t)))
	s, err := session.NewSession("ada", client.Token(), helpers.DefaultPlanetID, clock.Now())
	require.NoError(t, err)
	require.NoError(t, controller.Establish(context.Background(), s))

	store := polling.NewStore()
	if planetState != nil {
		store.Replace(planet.Normalize(planetState))
	}

	refresher := &countingRefresher{}
	presenter := &capturingPresenter{}
	m := mediator.NewMediator()
	m.RegisterMiddleware(auth.SessionMiddleware(controller))
	require.NoError(t, actions.Register(m, &actions.Deps{
		Client:    client,
		Store:     store,
		Refresher: refresher,
		Reports:   presenter,
		Clock:     clock,
	}))

	toasts := notify.NewCenter(clock, time.Minute)
	tracker := actions.NewTracker(clock, 10*time.Second)
	return &actionsFixture{
		client:     client,
		clock:      clock,
		controller: controller,
		store:      store,
		toasts:     toasts,
		refresher:  refresher,
		presenter:  presenter,
		dispatcher: actions.NewDispatcher(m, tracker, toasts, controller, store),
	}
}

func (f *actionsFixture) lastToast(t *testing.T) notify.Toast {
	t.Helper()
	active := f.toasts.Active()
	require.NotEmpty(t, active)
	return active[len(active)-1]
}

func TestUpgrade_InsufficientResourcesNeverReachesServer(t *testing.T) {
	// Arrange
	f := newActionsFixture(t, map[string]any{"metal_amount": 50.0, "crystal_amount": 500.0, "metal_mine_level": 1.0})

	// Act
	_, err := f.dispatcher.Submit(context.Background(), &actions.UpgradeBuildingCommand{Building: planet.BuildingMetalMine})

	// Assert
	var insufficient *shared.InsufficientResourcesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "metal", insufficient.Resource)
	assert.Zero(t, f.client.CallCount(helpers.MethodUpgradeBuilding))
	assert.False(t, f.dispatcher.Tracker().IsSubmitting(actions.KeyUpgrade))
	assert.Equal(t, shared.SubmissionOutcomeFailed, f.dispatcher.Tracker().Outcome(actions.KeyUpgrade))
	assert.Equal(t, "insufficient metal: need 90, have 50", f.lastToast(t).Message)
}

func TestUpgrade_StaysSubmittingUntilSnapshotConfirms(t *testing.T) {
	// Arrange
	f := newActionsFixture(t, map[string]any{"metal_amount": 1000.0, "crystal_amount": 1000.0})
	tracker := f.dispatcher.Tracker()

	// Act
	resp, err := f.dispatcher.Submit(context.Background(), &actions.UpgradeBuildingCommand{Building: planet.BuildingMetalMine})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Upgrade started: Metal Mine", resp.Message)
	assert.Equal(t, 1, f.client.CallCount(helpers.MethodUpgradeBuilding))
	assert.Equal(t, 1, f.refresher.Count())
	assert.True(t, tracker.IsSubmitting(actions.KeyUpgrade))

	tracker.Observe(planet.Normalize(map[string]any{"construction_end": "2026-01-09T22:05:00", "construction_type": "metal"}))
	assert.False(t, tracker.IsSubmitting(actions.KeyUpgrade))
	assert.Equal(t, shared.SubmissionOutcomeConfirmed, tracker.Outcome(actions.KeyUpgrade))
}

func TestUpgrade_FallsBackToIdleAfterTimeout(t *testing.T) {
	// Arrange
	f := newActionsFixture(t, map[string]any{"metal_amount": 1000.0, "crystal_amount": 1000.0})
	tracker := f.dispatcher.Tracker()
	_, err := f.dispatcher.Submit(context.Background(), &actions.UpgradeBuildingCommand{Building: planet.BuildingMetalMine})
	require.NoError(t, err)

	// Act
	f.clock.Advance(9 * time.Second)
	early := tracker.ExpireOverdue()
	f.clock.Advance(time.Second)
	late := tracker.ExpireOverdue()

	// Assert
	assert.Empty(t, early)
	assert.Equal(t, []actions.Key{actions.KeyUpgrade}, late)
	assert.False(t, tracker.IsSubmitting(actions.KeyUpgrade))
	assert.Equal(t, shared.SubmissionOutcomeExpired, tracker.Outcome(actions.KeyUpgrade))
}

func TestSubmit_RejectsDoubleSubmission(t *testing.T) {
	f := newActionsFixture(t, map[string]any{"metal_amount": 1000.0, "crystal_amount": 1000.0})
	cmd := &actions.UpgradeBuildingCommand{Building: planet.BuildingCrystalMine}

	_, first := f.dispatcher.Submit(context.Background(), cmd)
	_, second := f.dispatcher.Submit(context.Background(), cmd)

	require.NoError(t, first)
	assert.True(t, shared.IsBusinessError(second))
	assert.Equal(t, 1, f.client.CallCount(helpers.MethodUpgradeBuilding))
}

func TestUpgrade_BusyQueueRejectedLocally(t *testing.T) {
	f := newActionsFixture(t, map[string]any{
		"metal_amount":      1000.0,
		"crystal_amount":    1000.0,
		"construction_end":  "2026-01-09T22:05:00",
		"construction_type": "crystal",
	})

	_, err := f.dispatcher.Submit(context.Background(), &actions.UpgradeBuildingCommand{Building: planet.BuildingMetalMine})

	var busy *shared.QueueBusyError
	require.ErrorAs(t, err, &busy)
	assert.Equal(t, "building", busy.Queue)
	assert.Zero(t, f.client.CallCount(helpers.MethodUpgradeBuilding))
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name  string
		state map[string]any
		cmd   *actions.BuildUnitsCommand
	}{
		{"zero quantity", map[string]any{"metal_amount": 1e6}, &actions.BuildUnitsCommand{Unit: planet.UnitCruiser, Quantity: 0}},
		{"unknown unit", map[string]any{"metal_amount": 1e6}, &actions.BuildUnitsCommand{Unit: "death_star", Quantity: 1}},
		{"shipyard busy", map[string]any{"metal_amount": 1e6, "crystal_amount": 1e6, "shipyard_construction_end": "2026-01-09T22:05:00"}, &actions.BuildUnitsCommand{Unit: planet.UnitCruiser, Quantity: 1}},
		{"batch unaffordable", map[string]any{"metal_amount": 30000.0, "crystal_amount": 30000.0}, &actions.BuildUnitsCommand{Unit: planet.UnitCruiser, Quantity: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newActionsFixture(t, tt.state)

			_, err := f.dispatcher.Submit(context.Background(), tt.cmd)

			assert.True(t, shared.IsBusinessError(err), "got %v", err)
			assert.Zero(t, f.client.CallCount(helpers.MethodBuildUnits))
		})
	}
}

func TestBuild_Success(t *testing.T) {
	f := newActionsFixture(t, map[string]any{"metal_amount": 60000.0, "crystal_amount": 20000.0})

	resp, err := f.dispatcher.Submit(context.Background(), &actions.BuildUnitsCommand{Unit: planet.UnitCruiser, Quantity: 2})

	require.NoError(t, err)
	assert.Equal(t, "Ordered 2 x Cruiser", resp.Message)
	assert.True(t, f.dispatcher.Tracker().IsSubmitting(actions.KeyShipyard))
}

func TestExpedition_RequiresHunters(t *testing.T) {
	f := newActionsFixture(t, map[string]any{"light_hunter_count": 0.0})

	_, err := f.dispatcher.Submit(context.Background(), &actions.LaunchExpeditionCommand{})

	assert.True(t, shared.IsBusinessError(err))
	assert.Zero(t, f.client.CallCount(helpers.MethodLaunchExpedition))
}

func TestExpedition_ReturnedPlanetReplacesSnapshot(t *testing.T) {
	// Arrange
	f := newActionsFixture(t, map[string]any{"light_hunter_count": 5.0})
	f.client.SetActionResult(helpers.MethodLaunchExpedition, &ports.ActionResult{
		Planet: planet.Payload{"light_hunter_count": 5.0, "expedition_end": "2026-01-09T22:10:00"},
		Report: []byte(`{"winner":"player","log":["Pirates scattered"],"loot":250}`),
	})

	// Act
	resp, err := f.dispatcher.Submit(context.Background(), &actions.LaunchExpeditionCommand{})

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.SnapshotApplied)
	assert.True(t, f.store.Snapshot().ExpeditionActive())
	require.NotNil(t, resp.Report)
	assert.Equal(t, report.OutcomeVictory, resp.Report.Outcome())
	assert.Len(t, f.presenter.shown, 1)
	assert.Zero(t, f.refresher.Count(), "the returned planet makes a refresh unnecessary")
	assert.False(t, f.dispatcher.Tracker().IsSubmitting(actions.KeyExpedition), "confirmed by the applied planet")
}

func TestAttack_LocalChecks(t *testing.T) {
	tests := []struct {
		name string
		cmd  *actions.AttackCommand
	}{
		{"own planet", &actions.AttackCommand{TargetPlanetID: helpers.DefaultPlanetID, Hunters: 1}},
		{"no ships", &actions.AttackCommand{TargetPlanetID: enemyPlanetID}},
		{"more hunters than stationed", &actions.AttackCommand{TargetPlanetID: enemyPlanetID, Hunters: 4}},
		{"negative cruisers", &actions.AttackCommand{TargetPlanetID: enemyPlanetID, Hunters: 1, Cruisers: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newActionsFixture(t, map[string]any{"light_hunter_count": 3.0, "cruiser_count": 1.0})

			_, err := f.dispatcher.Submit(context.Background(), tt.cmd)

			assert.True(t, shared.IsBusinessError(err), "got %v", err)
			assert.Zero(t, f.client.CallCount(helpers.MethodAttack))
		})
	}
}

func TestAttack_ReportOpensModal(t *testing.T) {
	// Arrange
	f := newActionsFixture(t, map[string]any{"light_hunter_count": 3.0})
	f.client.SetActionResult(helpers.MethodAttack, &ports.ActionResult{
		Status: "success",
		Report: []byte(`{"winner":"attacker","log":["Shields down"],"loot":{"metal":100,"crystal":40}}`),
	})

	// Act
	resp, err := f.dispatcher.Submit(context.Background(), &actions.AttackCommand{TargetPlanetID: enemyPlanetID, Hunters: 3})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp.Report)
	assert.Equal(t, 100.0, resp.Report.Loot.Metal)
	assert.Len(t, f.presenter.shown, 1)
	assert.Equal(t, 1, f.refresher.Count())
	assert.False(t, f.dispatcher.Tracker().IsSubmitting(actions.KeyAttack))
}

func TestSpyAndRecycle_Succeed(t *testing.T) {
	f := newActionsFixture(t, map[string]any{"spy_probe_count": 2.0, "recycler_count": 1.0})

	_, spyErr := f.dispatcher.Submit(context.Background(), &actions.SpyCommand{TargetPlanetID: enemyPlanetID, Probes: 2})
	_, recycleErr := f.dispatcher.Submit(context.Background(), &actions.RecycleCommand{TargetPlanetID: enemyPlanetID, Recyclers: 1})

	require.NoError(t, errors.Join(spyErr, recycleErr))
	assert.Equal(t, 1, f.client.CallCount(helpers.MethodSpy))
	assert.Equal(t, 1, f.client.CallCount(helpers.MethodRecycle))
}

func TestSubmit_ServerRejectionShowsServerMessage(t *testing.T) {
	f := newActionsFixture(t, map[string]any{"light_hunter_count": 3.0})
	f.client.SetError(helpers.MethodAttack, shared.NewBusinessError(400, "Flotte insuffisante"))

	_, err := f.dispatcher.Submit(context.Background(), &actions.AttackCommand{TargetPlanetID: enemyPlanetID, Hunters: 1})

	require.Error(t, err)
	toast := f.lastToast(t)
	assert.Equal(t, "Flotte insuffisante", toast.Message)
	assert.Equal(t, notify.LevelWarning, toast.Level)
	assert.NotNil(t, f.controller.Current())
}

func TestSubmit_NetworkFailureShowsLostLink(t *testing.T) {
	f := newActionsFixture(t, map[string]any{"metal_amount": 1000.0, "crystal_amount": 1000.0})
	f.client.SetError(helpers.MethodUpgradeBuilding, shared.NewNetworkError(errors.New("dial tcp: refused")))

	_, err := f.dispatcher.Submit(context.Background(), &actions.UpgradeBuildingCommand{Building: planet.BuildingMetalMine})

	assert.True(t, shared.IsNetworkError(err))
	assert.Equal(t, actions.LostLinkToast, f.lastToast(t).Message)
	assert.Equal(t, 1, f.client.CallCount(helpers.MethodUpgradeBuilding), "mutations are not retried")
}

func TestSubmit_UnauthorizedEndsSession(t *testing.T) {
	f := newActionsFixture(t, map[string]any{"metal_amount": 1000.0, "crystal_amount": 1000.0})
	f.client.SetError(helpers.MethodUpgradeBuilding, shared.NewAuthorizationError(401, "Token invalide"))

	_, err := f.dispatcher.Submit(context.Background(), &actions.UpgradeBuildingCommand{Building: planet.BuildingMetalMine})

	assert.True(t, shared.IsAuthorizationError(err))
	assert.Nil(t, f.controller.Current())
	assert.Nil(t, f.store.Snapshot())
	assert.Equal(t, actions.SessionExpiredText, f.lastToast(t).Message)
}

func TestSubmit_WithoutSessionIsNoop(t *testing.T) {
	f := newActionsFixture(t, nil)
	require.NoError(t, f.controller.Terminate(context.Background(), auth.ReasonLogout))

	_, err := f.dispatcher.Submit(context.Background(), &actions.LaunchExpeditionCommand{})

	assert.True(t, shared.IsNoSessionError(err))
	assert.Empty(t, f.client.Calls())
	assert.Equal(t, actions.NotLoggedInText, f.lastToast(t).Message)
}

func TestClearReport(t *testing.T) {
	f := newActionsFixture(t, nil)

	_, err := f.dispatcher.Submit(context.Background(), &actions.ClearReportCommand{})

	require.NoError(t, err)
	assert.Equal(t, 1, f.client.CallCount(helpers.MethodClearReport))
}
