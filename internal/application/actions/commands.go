package actions

import (
	"fmt"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

// Key identifies an action trigger whose submitting state is tracked
type Key string

const (
	KeyUpgrade     Key = "upgrade"
	KeyShipyard    Key = "shipyard"
	KeyExpedition  Key = "expedition"
	KeyAttack      Key = "attack"
	KeySpy         Key = "spy"
	KeyRecycle     Key = "recycle"
	KeyClearReport Key = "clear_report"
)

// Confirmation reports whether a snapshot reflects a submitted action.
// A nil Confirmation means the response alone settles the action.
type Confirmation func(snap *planet.Snapshot) bool

// Command is a game action the dispatcher can submit
type Command interface {
	Key() Key
	Confirmation() Confirmation
}

// UpgradeBuildingCommand starts the next level of a mine or technology
type UpgradeBuildingCommand struct {
	Building planet.BuildingType
}

func (c *UpgradeBuildingCommand) Key() Key { return KeyUpgrade }

func (c *UpgradeBuildingCommand) Confirmation() Confirmation {
	return func(snap *planet.Snapshot) bool { return snap.BuildingBusy() }
}

// BuildUnitsCommand orders ships or defenses from the shipyard
type BuildUnitsCommand struct {
	Unit     planet.UnitType
	Quantity int
}

func (c *BuildUnitsCommand) Key() Key { return KeyShipyard }

func (c *BuildUnitsCommand) Confirmation() Confirmation {
	return func(snap *planet.Snapshot) bool { return snap.ShipyardBusy() }
}

// LaunchExpeditionCommand sends the hunters out against pirates
type LaunchExpeditionCommand struct{}

func (c *LaunchExpeditionCommand) Key() Key { return KeyExpedition }

func (c *LaunchExpeditionCommand) Confirmation() Confirmation {
	return func(snap *planet.Snapshot) bool { return snap.ExpeditionActive() }
}

// AttackCommand raids another commander's planet
type AttackCommand struct {
	TargetPlanetID string
	Hunters        int
	Cruisers       int
}

func (c *AttackCommand) Key() Key                   { return KeyAttack }
func (c *AttackCommand) Confirmation() Confirmation { return nil }

// SpyCommand sends espionage probes to a planet
type SpyCommand struct {
	TargetPlanetID string
	Probes         int
}

func (c *SpyCommand) Key() Key                   { return KeySpy }
func (c *SpyCommand) Confirmation() Confirmation { return nil }

// RecycleCommand harvests a debris field
type RecycleCommand struct {
	TargetPlanetID string
	Recyclers      int
}

func (c *RecycleCommand) Key() Key                   { return KeyRecycle }
func (c *RecycleCommand) Confirmation() Confirmation { return nil }

// ClearReportCommand acknowledges the pending inbound report
type ClearReportCommand struct{}

func (c *ClearReportCommand) Key() Key                   { return KeyClearReport }
func (c *ClearReportCommand) Confirmation() Confirmation { return nil }

// ActionResponse is returned by every action handler
type ActionResponse struct {
	Message string

	// Report is the mission report returned by the server, if any
	Report *report.Report

	// SnapshotApplied is true when the response carried a planet that was
	// installed in the store directly
	SnapshotApplied bool
}

func upgradeStarted(b planet.BuildingType) string {
	return fmt.Sprintf("Upgrade started: %s", b.Label())
}

func unitsOrdered(u planet.UnitType, qty int) string {
	return fmt.Sprintf("Ordered %d x %s", qty, u.Label())
}
