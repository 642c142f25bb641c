package planet

import (
	"math"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Wire field names of the planet payload
const (
	fieldID                = "id"
	fieldName              = "name"
	fieldOwnerID           = "owner_id"
	fieldGalaxy            = "galaxy"
	fieldSystem            = "system"
	fieldPosition          = "position"
	fieldMetal             = "metal_amount"
	fieldCrystal           = "crystal_amount"
	fieldDeuterium         = "deuterium_amount"
	fieldDebrisMetal       = "debris_metal"
	fieldDebrisCrystal     = "debris_crystal"
	fieldMetalMine         = "metal_mine_level"
	fieldCrystalMine       = "crystal_mine_level"
	fieldDeuteriumMine     = "deuterium_mine_level"
	fieldEnergyTech        = "energy_tech_level"
	fieldResearchLab       = "research_lab_level"
	fieldLaserBattery      = "laser_battery_level"
	fieldEspionageTech     = "espionage_tech_level"
	fieldShipyardLevel     = "shipyard_level"
	fieldLightHunter       = "light_hunter_count"
	fieldCruiser           = "cruiser_count"
	fieldRecycler          = "recycler_count"
	fieldSpyProbe          = "spy_probe_count"
	fieldMissileLauncher   = "missile_launcher_count"
	fieldPlasmaTurret      = "plasma_turret_count"
	fieldConstructionEnd   = "construction_end"
	fieldConstructionType  = "construction_type"
	fieldShipyardEnd       = "shipyard_construction_end"
	fieldPendingFleetType  = "pending_fleet_type"
	fieldPendingFleetCount = "pending_fleet_count"
	fieldExpeditionEnd     = "expedition_end"
	fieldUnreadReport      = "unread_report"
	fieldLastUpdate        = "last_update"
)

var knownFields = map[string]struct{}{
	fieldID: {}, fieldName: {}, fieldOwnerID: {},
	fieldGalaxy: {}, fieldSystem: {}, fieldPosition: {},
	fieldMetal: {}, fieldCrystal: {}, fieldDeuterium: {},
	fieldDebrisMetal: {}, fieldDebrisCrystal: {},
	fieldMetalMine: {}, fieldCrystalMine: {}, fieldDeuteriumMine: {},
	fieldEnergyTech: {}, fieldResearchLab: {}, fieldLaserBattery: {}, fieldEspionageTech: {}, fieldShipyardLevel: {},
	fieldLightHunter: {}, fieldCruiser: {}, fieldRecycler: {}, fieldSpyProbe: {},
	fieldMissileLauncher: {}, fieldPlasmaTurret: {},
	fieldConstructionEnd: {}, fieldConstructionType: {},
	fieldShipyardEnd: {}, fieldPendingFleetType: {}, fieldPendingFleetCount: {},
	fieldExpeditionEnd: {}, fieldUnreadReport: {}, fieldLastUpdate: {},
}

// naiveLayout is the server's timestamp format: UTC without a zone suffix
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Normalize converts a raw planet payload into a Snapshot.
//
// Missing, null, non-numeric, negative or non-finite numeric fields become zero.
// Unparseable timestamps are treated as absent. Unrecognised keys are kept
// verbatim in Extra. Normalize never fails.
func Normalize(raw map[string]any) *Snapshot {
	s := &Snapshot{
		ID:      str(raw[fieldID]),
		Name:    str(raw[fieldName]),
		OwnerID: str(raw[fieldOwnerID]),
		Coordinates: Coordinates{
			Galaxy:   count(raw[fieldGalaxy]),
			System:   count(raw[fieldSystem]),
			Position: count(raw[fieldPosition]),
		},
		Resources: Resources{
			Metal:     amount(raw[fieldMetal]),
			Crystal:   amount(raw[fieldCrystal]),
			Deuterium: amount(raw[fieldDeuterium]),
		},
		Debris: Debris{
			Metal:   amount(raw[fieldDebrisMetal]),
			Crystal: amount(raw[fieldDebrisCrystal]),
		},
		Mines: Mines{
			Metal:     count(raw[fieldMetalMine]),
			Crystal:   count(raw[fieldCrystalMine]),
			Deuterium: count(raw[fieldDeuteriumMine]),
		},
		Tech: Tech{
			Energy:       count(raw[fieldEnergyTech]),
			ResearchLab:  count(raw[fieldResearchLab]),
			LaserBattery: count(raw[fieldLaserBattery]),
			Espionage:    count(raw[fieldEspionageTech]),
			Shipyard:     count(raw[fieldShipyardLevel]),
		},
		Fleet: Fleet{
			LightHunter: count(raw[fieldLightHunter]),
			Cruiser:     count(raw[fieldCruiser]),
			Recycler:    count(raw[fieldRecycler]),
			SpyProbe:    count(raw[fieldSpyProbe]),
		},
		Defenses: Defenses{
			MissileLauncher: count(raw[fieldMissileLauncher]),
			PlasmaTurret:    count(raw[fieldPlasmaTurret]),
		},
		PendingReport: reportPayload(raw[fieldUnreadReport]),
		LastUpdate:    timestamp(raw[fieldLastUpdate]),
		ExpeditionEnd: timestamp(raw[fieldExpeditionEnd]),
	}

	if end := timestamp(raw[fieldConstructionEnd]); end != nil {
		s.Building = &BuildingQueue{
			Type: BuildingType(str(raw[fieldConstructionType])),
			End:  *end,
		}
	}

	if end := timestamp(raw[fieldShipyardEnd]); end != nil {
		s.Shipyard = &ShipyardQueue{
			Type:  UnitType(str(raw[fieldPendingFleetType])),
			Count: count(raw[fieldPendingFleetCount]),
			End:   *end,
		}
	}

	for key, value := range raw {
		if _, known := knownFields[key]; known {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[key] = value
	}

	return s
}

// NormalizeJSON decodes a planet payload and normalizes it
func NormalizeJSON(body []byte) (*Snapshot, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return Normalize(raw), nil
}

// Denormalize renders a Snapshot back into wire form.
// Normalize(Denormalize(s)) reproduces s apart from FetchedAt.
func Denormalize(s *Snapshot) map[string]any {
	raw := make(map[string]any, len(knownFields)+len(s.Extra))
	for key, value := range s.Extra {
		raw[key] = value
	}

	raw[fieldID] = s.ID
	raw[fieldName] = s.Name
	raw[fieldOwnerID] = s.OwnerID
	raw[fieldGalaxy] = s.Coordinates.Galaxy
	raw[fieldSystem] = s.Coordinates.System
	raw[fieldPosition] = s.Coordinates.Position
	raw[fieldMetal] = s.Resources.Metal
	raw[fieldCrystal] = s.Resources.Crystal
	raw[fieldDeuterium] = s.Resources.Deuterium
	raw[fieldDebrisMetal] = s.Debris.Metal
	raw[fieldDebrisCrystal] = s.Debris.Crystal
	raw[fieldMetalMine] = s.Mines.Metal
	raw[fieldCrystalMine] = s.Mines.Crystal
	raw[fieldDeuteriumMine] = s.Mines.Deuterium
	raw[fieldEnergyTech] = s.Tech.Energy
	raw[fieldResearchLab] = s.Tech.ResearchLab
	raw[fieldLaserBattery] = s.Tech.LaserBattery
	raw[fieldEspionageTech] = s.Tech.Espionage
	raw[fieldShipyardLevel] = s.Tech.Shipyard
	raw[fieldLightHunter] = s.Fleet.LightHunter
	raw[fieldCruiser] = s.Fleet.Cruiser
	raw[fieldRecycler] = s.Fleet.Recycler
	raw[fieldSpyProbe] = s.Fleet.SpyProbe
	raw[fieldMissileLauncher] = s.Defenses.MissileLauncher
	raw[fieldPlasmaTurret] = s.Defenses.PlasmaTurret
	raw[fieldLastUpdate] = formatTimestamp(s.LastUpdate)
	raw[fieldExpeditionEnd] = formatTimestamp(s.ExpeditionEnd)

	raw[fieldConstructionEnd] = nil
	raw[fieldConstructionType] = nil
	if s.Building != nil {
		raw[fieldConstructionEnd] = formatTimestamp(&s.Building.End)
		raw[fieldConstructionType] = string(s.Building.Type)
	}

	raw[fieldShipyardEnd] = nil
	raw[fieldPendingFleetType] = nil
	raw[fieldPendingFleetCount] = 0
	if s.Shipyard != nil {
		raw[fieldShipyardEnd] = formatTimestamp(&s.Shipyard.End)
		raw[fieldPendingFleetType] = string(s.Shipyard.Type)
		raw[fieldPendingFleetCount] = s.Shipyard.Count
	}

	raw[fieldUnreadReport] = nil
	if s.PendingReport != "" {
		raw[fieldUnreadReport] = s.PendingReport
	}

	return raw
}

// ParseTimestamp accepts RFC 3339 or the server's zone-less UTC form
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(naiveLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func formatTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func timestamp(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil
	}
	return &t
}

func str(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case jsoniter.Number:
		return typed.String()
	}
	return ""
}

// reportPayload keeps string reports as-is and re-encodes structured ones
func reportPayload(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		encoded, err := json.MarshalToString(typed)
		if err != nil {
			return ""
		}
		return encoded
	}
	return ""
}

// amount coerces a resource quantity; anything unusable becomes zero
func amount(v any) float64 {
	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// count coerces a level or unit count; fractional values are truncated
func count(v any) int {
	f := amount(v)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func number(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case jsoniter.Number:
		f, err := typed.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	}
	return 0, false
}
