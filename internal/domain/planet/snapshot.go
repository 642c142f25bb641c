package planet

import (
	"fmt"
	"time"
)

// Coordinates locate a planet in the universe
type Coordinates struct {
	Galaxy   int
	System   int
	Position int
}

func (c Coordinates) String() string {
	return fmt.Sprintf("[%d:%d:%d]", c.Galaxy, c.System, c.Position)
}

// Resources holds stockpiled amounts
type Resources struct {
	Metal     float64
	Crystal   float64
	Deuterium float64
}

// Debris is the salvage field orbiting a planet after combat
type Debris struct {
	Metal   float64
	Crystal float64
}

func (d Debris) IsEmpty() bool {
	return d.Metal <= 0 && d.Crystal <= 0
}

type Mines struct {
	Metal     int
	Crystal   int
	Deuterium int
}

type Tech struct {
	Energy       int
	ResearchLab  int
	LaserBattery int
	Espionage    int
	Shipyard     int
}

type Fleet struct {
	LightHunter int
	Cruiser     int
	Recycler    int
	SpyProbe    int
}

// Total counts every ship
func (f Fleet) Total() int {
	return f.LightHunter + f.Cruiser + f.Recycler + f.SpyProbe
}

type Defenses struct {
	MissileLauncher int
	PlasmaTurret    int
}

// BuildingQueue marks the single building or technology under construction
type BuildingQueue struct {
	Type BuildingType
	End  time.Time
}

// ShipyardQueue marks the single batch of ships or defenses in production
type ShipyardQueue struct {
	Type  UnitType
	Count int
	End   time.Time
}

// Snapshot is one planet's state as last received from the server.
// A Snapshot is never mutated after it is published to the store.
type Snapshot struct {
	ID          string
	Name        string
	OwnerID     string
	Coordinates Coordinates

	Resources Resources
	Debris    Debris
	Mines     Mines
	Tech      Tech
	Fleet     Fleet
	Defenses  Defenses

	Building      *BuildingQueue
	Shipyard      *ShipyardQueue
	ExpeditionEnd *time.Time

	// PendingReport is the raw inbound report payload, empty when none is waiting
	PendingReport string

	LastUpdate *time.Time

	// Extra carries payload fields this client does not model
	Extra map[string]any

	// FetchedAt is set by the poller; it is not part of the wire payload
	FetchedAt time.Time
}

// BuildingBusy reports whether upgrade actions must be disabled
func (s *Snapshot) BuildingBusy() bool {
	return s != nil && s.Building != nil
}

// ShipyardBusy reports whether fleet and defense production must be disabled
func (s *Snapshot) ShipyardBusy() bool {
	return s != nil && s.Shipyard != nil
}

// ExpeditionActive reports whether an expedition is out
func (s *Snapshot) ExpeditionActive() bool {
	return s != nil && s.ExpeditionEnd != nil
}

func (s *Snapshot) HasPendingReport() bool {
	return s != nil && s.PendingReport != ""
}

// LevelOf returns the current level of a building or technology
func (s *Snapshot) LevelOf(b BuildingType) int {
	switch b {
	case BuildingMetalMine:
		return s.Mines.Metal
	case BuildingCrystalMine:
		return s.Mines.Crystal
	case BuildingDeuteriumMine:
		return s.Mines.Deuterium
	case BuildingEnergyTech:
		return s.Tech.Energy
	case BuildingResearchLab:
		return s.Tech.ResearchLab
	case BuildingLaserBattery:
		return s.Tech.LaserBattery
	case BuildingEspionageTech:
		return s.Tech.Espionage
	}
	return 0
}

// CountOf returns how many units of a type are stationed on the planet
func (s *Snapshot) CountOf(u UnitType) int {
	switch u {
	case UnitLightHunter:
		return s.Fleet.LightHunter
	case UnitCruiser:
		return s.Fleet.Cruiser
	case UnitRecycler:
		return s.Fleet.Recycler
	case UnitSpyProbe:
		return s.Fleet.SpyProbe
	case UnitMissileLauncher:
		return s.Defenses.MissileLauncher
	case UnitPlasmaTurret:
		return s.Defenses.PlasmaTurret
	}
	return 0
}

// WithFetchedAt returns a shallow copy stamped with the receive time
func (s *Snapshot) WithFetchedAt(t time.Time) *Snapshot {
	clone := *s
	clone.FetchedAt = t
	return &clone
}

// Payload is a planet as decoded from the wire, before normalization
type Payload map[string]any
