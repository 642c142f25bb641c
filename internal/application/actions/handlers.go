package actions

import (
	"context"
	"fmt"

	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/application/polling"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// Refresher requests an out-of-cycle poll
type Refresher interface {
	Refresh()
}

// Installer applies a planet returned by the server and runs change
// detection on it
type Installer interface {
	Install(ctx context.Context, snap *planet.Snapshot) bool
}

// Deps are the collaborators shared by every action handler
type Deps struct {
	Client    ports.GameClient
	Store     *polling.Store
	Refresher Refresher
	Installer Installer
	Reports   polling.ReportPresenter
	Clock     shared.Clock
}

func (d *Deps) refresh() {
	if d.Refresher != nil {
		d.Refresher.Refresh()
	}
}

// present parses a mission report and opens the modal. A report that cannot
// be read is logged; the action itself still succeeded.
func (d *Deps) present(ctx context.Context, raw []byte) *report.Report {
	if len(raw) == 0 {
		return nil
	}
	parsed, err := report.Parse(raw)
	if err != nil {
		logging.Component(ctx, "actions").Warn("mission report unreadable", "error", err)
		return nil
	}
	if d.Reports != nil {
		d.Reports.ShowReport(ctx, parsed)
	}
	return parsed
}

// apply installs a planet returned with a response. Without an Installer the
// store is written directly and no notification is derived.
func (d *Deps) apply(ctx context.Context, payload planet.Payload) bool {
	if payload == nil {
		return false
	}
	snap := planet.Normalize(payload).WithFetchedAt(d.Clock.Now())
	if d.Installer != nil {
		return d.Installer.Install(ctx, snap)
	}
	if d.Store == nil {
		return false
	}
	_, applied := d.Store.Replace(snap)
	return applied
}

// UpgradeBuildingHandler - Handles building and technology upgrades
type UpgradeBuildingHandler struct {
	deps *Deps
}

func NewUpgradeBuildingHandler(deps *Deps) *UpgradeBuildingHandler {
	return &UpgradeBuildingHandler{deps: deps}
}

// Handle executes the upgrade command
func (h *UpgradeBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UpgradeBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	s, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkUpgrade(h.deps.Store.Snapshot(), cmd.Building); err != nil {
		return nil, err
	}

	if err := h.deps.Client.UpgradeBuilding(ctx, s.PlanetID, cmd.Building, s.Token); err != nil {
		return nil, fmt.Errorf("upgrade %s: %w", cmd.Building, err)
	}

	h.deps.refresh()
	return &ActionResponse{Message: upgradeStarted(cmd.Building)}, nil
}

// BuildUnitsHandler - Handles shipyard orders for ships and defenses
type BuildUnitsHandler struct {
	deps *Deps
}

func NewBuildUnitsHandler(deps *Deps) *BuildUnitsHandler {
	return &BuildUnitsHandler{deps: deps}
}

// Handle executes the build command
func (h *BuildUnitsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*BuildUnitsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	s, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkBuild(h.deps.Store.Snapshot(), cmd.Unit, cmd.Quantity); err != nil {
		return nil, err
	}

	if err := h.deps.Client.BuildUnits(ctx, s.PlanetID, cmd.Unit, cmd.Quantity, s.Token); err != nil {
		return nil, fmt.Errorf("build %d %s: %w", cmd.Quantity, cmd.Unit, err)
	}

	h.deps.refresh()
	return &ActionResponse{Message: unitsOrdered(cmd.Unit, cmd.Quantity)}, nil
}

// LaunchExpeditionHandler - Handles expedition launches
type LaunchExpeditionHandler struct {
	deps *Deps
}

func NewLaunchExpeditionHandler(deps *Deps) *LaunchExpeditionHandler {
	return &LaunchExpeditionHandler{deps: deps}
}

// Handle executes the expedition command. The server answers with the
// updated planet, which replaces the snapshot without waiting for a poll.
func (h *LaunchExpeditionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*LaunchExpeditionCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	s, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkExpedition(h.deps.Store.Snapshot()); err != nil {
		return nil, err
	}

	result, err := h.deps.Client.LaunchExpedition(ctx, s.PlanetID, s.Token)
	if err != nil {
		return nil, fmt.Errorf("launch expedition: %w", err)
	}

	resp := &ActionResponse{Message: "Expedition launched"}
	resp.SnapshotApplied = h.deps.apply(ctx, result.Planet)
	if !resp.SnapshotApplied {
		h.deps.refresh()
	}
	resp.Report = h.deps.present(ctx, result.Report)
	return resp, nil
}

// MissionHandler - Handles attack, spy and recycle missions; they share the
// request/report round-trip and differ only in pre-flight checks
type MissionHandler struct {
	deps *Deps
}

func NewMissionHandler(deps *Deps) *MissionHandler {
	return &MissionHandler{deps: deps}
}

// Handle executes a mission command
func (h *MissionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	s, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	snap := h.deps.Store.Snapshot()

	var (
		result  *ports.ActionResult
		message string
	)
	switch cmd := request.(type) {
	case *AttackCommand:
		if err := checkAttack(snap, s.PlanetID, cmd); err != nil {
			return nil, err
		}
		result, err = h.deps.Client.Attack(ctx, s.PlanetID, cmd.TargetPlanetID, cmd.Hunters, cmd.Cruisers, s.Token)
		message = "Attack fleet returned"
	case *SpyCommand:
		if err := checkSpy(snap, s.PlanetID, cmd); err != nil {
			return nil, err
		}
		result, err = h.deps.Client.Spy(ctx, s.PlanetID, cmd.TargetPlanetID, cmd.Probes, s.Token)
		message = "Espionage report received"
	case *RecycleCommand:
		if err := checkRecycle(snap, cmd); err != nil {
			return nil, err
		}
		result, err = h.deps.Client.Recycle(ctx, s.PlanetID, cmd.TargetPlanetID, cmd.Recyclers, s.Token)
		message = "Recyclers returned"
	default:
		return nil, fmt.Errorf("invalid request type")
	}
	if err != nil {
		return nil, fmt.Errorf("mission failed: %w", err)
	}

	resp := &ActionResponse{Message: message}
	resp.SnapshotApplied = h.deps.apply(ctx, result.Planet)
	if !resp.SnapshotApplied {
		h.deps.refresh()
	}
	resp.Report = h.deps.present(ctx, result.Report)
	return resp, nil
}

// ClearReportHandler - Handles manual acknowledgement of the pending report
type ClearReportHandler struct {
	deps *Deps
}

func NewClearReportHandler(deps *Deps) *ClearReportHandler {
	return &ClearReportHandler{deps: deps}
}

// Handle executes the clear report command
func (h *ClearReportHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ClearReportCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	s, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.deps.Client.ClearReport(ctx, s.PlanetID, s.Token); err != nil {
		return nil, fmt.Errorf("clear report: %w", err)
	}

	h.deps.refresh()
	return &ActionResponse{Message: "Report archived"}, nil
}

// Register wires every action handler into the mediator
func Register(m mediator.Mediator, deps *Deps) error {
	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}

	mission := NewMissionHandler(deps)
	registrations := []func() error{
		func() error { return mediator.RegisterHandler[*UpgradeBuildingCommand](m, NewUpgradeBuildingHandler(deps)) },
		func() error { return mediator.RegisterHandler[*BuildUnitsCommand](m, NewBuildUnitsHandler(deps)) },
		func() error { return mediator.RegisterHandler[*LaunchExpeditionCommand](m, NewLaunchExpeditionHandler(deps)) },
		func() error { return mediator.RegisterHandler[*AttackCommand](m, mission) },
		func() error { return mediator.RegisterHandler[*SpyCommand](m, mission) },
		func() error { return mediator.RegisterHandler[*RecycleCommand](m, mission) },
		func() error { return mediator.RegisterHandler[*ClearReportCommand](m, NewClearReportHandler(deps)) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register action handler: %w", err)
		}
	}
	return nil
}
