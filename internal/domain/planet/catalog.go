package planet

import (
	"fmt"
	"time"
)

// BuildingType identifies a mine or technology that can be upgraded
type BuildingType string

const (
	BuildingMetalMine     BuildingType = "metal"
	BuildingCrystalMine   BuildingType = "crystal"
	BuildingDeuteriumMine BuildingType = "deuterium"
	BuildingEnergyTech    BuildingType = "energy_tech"
	BuildingResearchLab   BuildingType = "research"
	BuildingLaserBattery  BuildingType = "laser"
	BuildingEspionageTech BuildingType = "espionage"
)

// Buildings lists upgradeable types in display order
var Buildings = []BuildingType{
	BuildingMetalMine,
	BuildingCrystalMine,
	BuildingDeuteriumMine,
	BuildingResearchLab,
	BuildingEnergyTech,
	BuildingLaserBattery,
	BuildingEspionageTech,
}

var buildingLabels = map[BuildingType]string{
	BuildingMetalMine:     "Metal Mine",
	BuildingCrystalMine:   "Crystal Mine",
	BuildingDeuteriumMine: "Deuterium Synthesizer",
	BuildingEnergyTech:    "Energy Technology",
	BuildingResearchLab:   "Research Lab",
	BuildingLaserBattery:  "Laser Battery",
	BuildingEspionageTech: "Espionage Technology",
}

// ParseBuildingType validates a wire/CLI building identifier
func ParseBuildingType(s string) (BuildingType, error) {
	b := BuildingType(s)
	if _, ok := buildingLabels[b]; !ok {
		return "", fmt.Errorf("unknown building type %q", s)
	}
	return b, nil
}

func (b BuildingType) Label() string {
	if label, ok := buildingLabels[b]; ok {
		return label
	}
	return string(b)
}

// IsMine reports whether the building produces resources
func (b BuildingType) IsMine() bool {
	return b == BuildingMetalMine || b == BuildingCrystalMine || b == BuildingDeuteriumMine
}

// UnitCategory separates ships from planetary defenses; both share the shipyard queue
type UnitCategory string

const (
	CategoryFleet   UnitCategory = "fleet"
	CategoryDefense UnitCategory = "defense"
)

// UnitType identifies a ship or defense that the shipyard produces
type UnitType string

const (
	UnitLightHunter     UnitType = "light_hunter"
	UnitCruiser         UnitType = "cruiser"
	UnitRecycler        UnitType = "recycler"
	UnitSpyProbe        UnitType = "spy_probe"
	UnitMissileLauncher UnitType = "missile_launcher"
	UnitPlasmaTurret    UnitType = "plasma_turret"
)

// UnitSpec is the client's local copy of a unit's stats; server values win
type UnitSpec struct {
	Type      UnitType
	Label     string
	Category  UnitCategory
	Cost      Cost
	BuildTime time.Duration
	Attack    int
	Defense   int
}

var unitSpecs = []UnitSpec{
	{Type: UnitLightHunter, Label: "Light Hunter", Category: CategoryFleet, Cost: Cost{Metal: 3000, Crystal: 1000}, BuildTime: 20 * time.Second, Attack: 50, Defense: 400},
	{Type: UnitCruiser, Label: "Cruiser", Category: CategoryFleet, Cost: Cost{Metal: 20000, Crystal: 7000}, BuildTime: 60 * time.Second, Attack: 400, Defense: 2700},
	{Type: UnitRecycler, Label: "Recycler", Category: CategoryFleet, Cost: Cost{Metal: 10000, Crystal: 6000}, BuildTime: 40 * time.Second, Attack: 1, Defense: 1600},
	{Type: UnitSpyProbe, Label: "Spy Probe", Category: CategoryFleet, Cost: Cost{Crystal: 1000}, BuildTime: 8 * time.Second, Attack: 0, Defense: 100},
	{Type: UnitMissileLauncher, Label: "Missile Launcher", Category: CategoryDefense, Cost: Cost{Metal: 2000}, BuildTime: 10 * time.Second, Attack: 80, Defense: 200},
	{Type: UnitPlasmaTurret, Label: "Plasma Turret", Category: CategoryDefense, Cost: Cost{Metal: 50000, Crystal: 50000}, BuildTime: 120 * time.Second, Attack: 3000, Defense: 10000},
}

// ParseUnitType validates a wire/CLI unit identifier
func ParseUnitType(s string) (UnitType, error) {
	u := UnitType(s)
	if _, ok := SpecFor(u); !ok {
		return "", fmt.Errorf("unknown unit type %q", s)
	}
	return u, nil
}

// SpecFor returns the local stats for a unit type
func SpecFor(u UnitType) (UnitSpec, bool) {
	for _, spec := range unitSpecs {
		if spec.Type == u {
			return spec, true
		}
	}
	return UnitSpec{}, false
}

// UnitsIn returns the specs of one category in display order
func UnitsIn(category UnitCategory) []UnitSpec {
	var specs []UnitSpec
	for _, spec := range unitSpecs {
		if spec.Category == category {
			specs = append(specs, spec)
		}
	}
	return specs
}

func (u UnitType) Label() string {
	if spec, ok := SpecFor(u); ok {
		return spec.Label
	}
	return string(u)
}
