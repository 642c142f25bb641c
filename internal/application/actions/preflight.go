package actions

import (
	"fmt"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// Local pre-flight checks. They mirror server rules only to avoid obviously
// doomed requests; the server remains authoritative. A nil snapshot (no poll
// yet) skips every check that needs planet state.

func checkUpgrade(snap *planet.Snapshot, b planet.BuildingType) error {
	if _, err := planet.ParseBuildingType(string(b)); err != nil {
		return shared.NewValidationError("building", err.Error())
	}
	if snap == nil {
		return nil
	}
	if snap.BuildingBusy() {
		return shared.NewQueueBusyError("building")
	}
	return snap.Resources.Afford(snap.NextUpgradeCost(b))
}

func checkBuild(snap *planet.Snapshot, u planet.UnitType, qty int) error {
	spec, ok := planet.SpecFor(u)
	if !ok {
		return shared.NewValidationError("unit", fmt.Sprintf("unknown unit type %q", u))
	}
	if qty <= 0 {
		return shared.NewValidationError("quantity", "must be positive")
	}
	if snap == nil {
		return nil
	}
	if snap.ShipyardBusy() {
		return shared.NewQueueBusyError("shipyard")
	}
	return snap.Resources.Afford(spec.Cost.Times(qty))
}

func checkExpedition(snap *planet.Snapshot) error {
	if snap == nil {
		return nil
	}
	if snap.ExpeditionActive() {
		return shared.NewBusinessError(0, "an expedition is already underway")
	}
	if snap.Fleet.LightHunter <= 0 {
		return shared.NewBusinessError(0, "an expedition needs at least one light hunter")
	}
	return nil
}

func checkTarget(own shared.PlanetID, target string) error {
	if target == "" {
		return shared.NewValidationError("target", "cannot be empty")
	}
	if target == own.Value() {
		return shared.NewBusinessError(0, "cannot target your own planet")
	}
	return nil
}

func checkAttack(snap *planet.Snapshot, own shared.PlanetID, cmd *AttackCommand) error {
	if err := checkTarget(own, cmd.TargetPlanetID); err != nil {
		return err
	}
	if cmd.Hunters < 0 || cmd.Cruisers < 0 {
		return shared.NewValidationError("fleet", "ship counts cannot be negative")
	}
	if cmd.Hunters+cmd.Cruisers == 0 {
		return shared.NewValidationError("fleet", "no ships sent")
	}
	if snap == nil {
		return nil
	}
	if err := checkShips(planet.UnitLightHunter, cmd.Hunters, snap.Fleet.LightHunter); err != nil {
		return err
	}
	return checkShips(planet.UnitCruiser, cmd.Cruisers, snap.Fleet.Cruiser)
}

func checkSpy(snap *planet.Snapshot, own shared.PlanetID, cmd *SpyCommand) error {
	if err := checkTarget(own, cmd.TargetPlanetID); err != nil {
		return err
	}
	if cmd.Probes <= 0 {
		return shared.NewValidationError("probes", "must be positive")
	}
	if snap == nil {
		return nil
	}
	return checkShips(planet.UnitSpyProbe, cmd.Probes, snap.Fleet.SpyProbe)
}

// checkRecycle allows the own planet: its debris field can be harvested too
func checkRecycle(snap *planet.Snapshot, cmd *RecycleCommand) error {
	if cmd.TargetPlanetID == "" {
		return shared.NewValidationError("target", "cannot be empty")
	}
	if cmd.Recyclers <= 0 {
		return shared.NewValidationError("recyclers", "must be positive")
	}
	if snap == nil {
		return nil
	}
	return checkShips(planet.UnitRecycler, cmd.Recyclers, snap.Fleet.Recycler)
}

func checkShips(u planet.UnitType, sent, stationed int) error {
	if sent > stationed {
		return shared.NewBusinessError(0, fmt.Sprintf("insufficient fleet: %d %s requested, %d available", sent, u.Label(), stationed))
	}
	return nil
}
