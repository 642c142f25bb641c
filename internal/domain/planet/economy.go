package planet

import (
	"math"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// The figures in this file are local predictions for display and pre-flight
// checks. The server applies its own formulas and may disagree; its snapshot
// always wins.

// Cost is an amount of each resource
type Cost struct {
	Metal     float64
	Crystal   float64
	Deuterium float64
}

// Times scales a unit cost to a batch
func (c Cost) Times(n int) Cost {
	f := float64(n)
	return Cost{Metal: c.Metal * f, Crystal: c.Crystal * f, Deuterium: c.Deuterium * f}
}

// Afford returns an InsufficientResourcesError naming the first short resource
func (r Resources) Afford(c Cost) error {
	switch {
	case r.Metal < c.Metal:
		return shared.NewInsufficientResourcesError("metal", c.Metal, r.Metal)
	case r.Crystal < c.Crystal:
		return shared.NewInsufficientResourcesError("crystal", c.Crystal, r.Crystal)
	case r.Deuterium < c.Deuterium:
		return shared.NewInsufficientResourcesError("deuterium", c.Deuterium, r.Deuterium)
	}
	return nil
}

// DefaultSpeed is used until the server reports its multiplier
const DefaultSpeed = 1.0

var baseProduction = map[BuildingType]float64{
	BuildingMetalMine:     30,
	BuildingCrystalMine:   20,
	BuildingDeuteriumMine: 10,
}

// ProductionPerHour predicts a mine's hourly output at the given level
func ProductionPerHour(mine BuildingType, level int, speed float64) float64 {
	base, ok := baseProduction[mine]
	if !ok || level <= 0 {
		return 0
	}
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return base * float64(level) * math.Pow(1.1, float64(level)) * speed
}

// Production predicts hourly output for all mines on the snapshot
func (s *Snapshot) Production(speed float64) Resources {
	return Resources{
		Metal:     ProductionPerHour(BuildingMetalMine, s.Mines.Metal, speed),
		Crystal:   ProductionPerHour(BuildingCrystalMine, s.Mines.Crystal, speed),
		Deuterium: ProductionPerHour(BuildingDeuteriumMine, s.Mines.Deuterium, speed),
	}
}

type costCurve struct {
	base   Cost
	growth float64
}

var upgradeCurves = map[BuildingType]costCurve{
	BuildingMetalMine:     {base: Cost{Metal: 60, Crystal: 15}, growth: 1.5},
	BuildingCrystalMine:   {base: Cost{Metal: 48, Crystal: 24}, growth: 1.6},
	BuildingDeuteriumMine: {base: Cost{Metal: 225, Crystal: 75}, growth: 1.5},
	BuildingResearchLab:   {base: Cost{Metal: 200, Crystal: 400, Deuterium: 200}, growth: 2},
	BuildingLaserBattery:  {base: Cost{Metal: 500, Crystal: 250}, growth: 1.8},
	BuildingEnergyTech:    {base: Cost{Crystal: 800, Deuterium: 400}, growth: 2},
	BuildingEspionageTech: {base: Cost{Metal: 200, Crystal: 1000, Deuterium: 200}, growth: 2},
}

// UpgradeCost predicts the price of raising a building from currentLevel by one
func UpgradeCost(b BuildingType, currentLevel int) Cost {
	curve, ok := upgradeCurves[b]
	if !ok {
		return Cost{Metal: 100, Crystal: 100}
	}
	if currentLevel < 0 {
		currentLevel = 0
	}
	factor := math.Pow(curve.growth, float64(currentLevel))
	return Cost{
		Metal:     curve.base.Metal * factor,
		Crystal:   curve.base.Crystal * factor,
		Deuterium: curve.base.Deuterium * factor,
	}
}

// NextUpgradeCost predicts the cost of the next level for this planet
func (s *Snapshot) NextUpgradeCost(b BuildingType) Cost {
	return UpgradeCost(b, s.LevelOf(b))
}

// EnergyConsumption predicts how much energy the mines draw
func EnergyConsumption(mines Mines) float64 {
	draw := func(factor float64, level int) float64 {
		return factor * float64(level) * math.Pow(1.1, float64(level))
	}
	return draw(10, mines.Metal) + draw(10, mines.Crystal) + draw(12, mines.Deuterium)
}

// EnergyCapacity is the energy budget granted by energy technology
func EnergyCapacity(tech Tech) float64 {
	return 100 + 50*float64(tech.Energy)
}

// Score approximates the leaderboard score from levels and ship counts
func (s *Snapshot) Score() int {
	levels := s.Mines.Metal + s.Mines.Crystal + s.Mines.Deuterium +
		s.Tech.Energy + s.Tech.ResearchLab + s.Tech.LaserBattery + s.Tech.Espionage
	ships := s.Fleet.LightHunter + s.Fleet.Cruiser + s.Fleet.Recycler
	return levels*100 + ships*10
}
