package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ranking"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

var _ ports.GameClient = (*GameServerClient)(nil)

// Wire DTOs

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	PlanetID string `json:"planet_id"`
}

type actionResponse struct {
	Status string              `json:"status"`
	Planet map[string]any      `json:"planet"`
	Report jsoniter.RawMessage `json:"report"`
}

type attackRequest struct {
	TargetPlanetID string `json:"target_planet_id"`
	Hunters        int    `json:"hunters"`
	Cruisers       int    `json:"cruisers"`
}

type spyRequest struct {
	TargetPlanetID string `json:"target_planet_id"`
	Probes         int    `json:"probes"`
}

type recycleRequest struct {
	TargetPlanetID string `json:"target_planet_id"`
	Recyclers      int    `json:"recyclers"`
}

type slotDTO struct {
	Position   int     `json:"position"`
	PlanetID   *string `json:"planet_id"`
	PlanetName *string `json:"planet_name"`
	OwnerName  *string `json:"owner_name"`
	IsMe       bool    `json:"is_me"`
	HasDebris  bool    `json:"has_debris"`
}

type systemSummaryDTO struct {
	System      int  `json:"system"`
	PlanetCount int  `json:"planet_count"`
	HasMe       bool `json:"has_me"`
}

type rankingDTO struct {
	Rank       int    `json:"rank"`
	PlanetName string `json:"planet_name"`
	Score      int    `json:"score"`
	IsMe       bool   `json:"is_me"`
	ID         string `json:"id"`
}

type historyDTO struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	TargetName  string  `json:"target_name"`
	MissionType string  `json:"mission_type"`
	Result      string  `json:"result"`
	LootMetal   float64 `json:"loot_metal"`
	LootCrystal float64 `json:"loot_crystal"`
	ShipsLost   int     `json:"ships_lost"`
}

type gameConfigDTO struct {
	SpeedMultiplier float64 `json:"speed_multiplier"`
}

// Auth operations

func (c *GameServerClient) Register(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", username, password)
}

func (c *GameServerClient) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", username, password)
}

func (c *GameServerClient) authenticate(ctx context.Context, path, username, password string) (*ports.AuthResult, error) {
	var resp authResponse
	body := credentialsRequest{Username: username, Password: password}
	if err := c.request(ctx, http.MethodPost, path, path, "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.PlanetID == "" {
		return nil, shared.NewMalformedPayloadError("auth response", fmt.Errorf("missing token or planet_id"))
	}
	return &ports.AuthResult{Token: resp.Token, PlanetID: resp.PlanetID}, nil
}

// Planet state

func (c *GameServerClient) GetPlanet(ctx context.Context, planetID shared.PlanetID, token string) (planet.Payload, error) {
	var raw map[string]any
	path := "/planets/" + url.PathEscape(planetID.Value())
	if err := c.request(ctx, http.MethodGet, "/planets/{id}", path, token, nil, &raw); err != nil {
		return nil, err
	}
	return planet.Payload(raw), nil
}

func (c *GameServerClient) ClearReport(ctx context.Context, planetID shared.PlanetID, token string) error {
	path := fmt.Sprintf("/planets/%s/clear-report", url.PathEscape(planetID.Value()))
	return c.request(ctx, http.MethodPost, "/planets/{id}/clear-report", path, token, nil, nil)
}

// Planet-scoped mutations

func (c *GameServerClient) UpgradeBuilding(ctx context.Context, planetID shared.PlanetID, building planet.BuildingType, token string) error {
	path := fmt.Sprintf("/planets/%s/upgrade/%s", url.PathEscape(planetID.Value()), url.PathEscape(string(building)))
	return c.request(ctx, http.MethodPost, "/planets/{id}/upgrade/{type}", path, token, nil, nil)
}

func (c *GameServerClient) BuildUnits(ctx context.Context, planetID shared.PlanetID, unit planet.UnitType, quantity int, token string) error {
	path := fmt.Sprintf("/planets/%s/build-fleet/%s/%d", url.PathEscape(planetID.Value()), url.PathEscape(string(unit)), quantity)
	return c.request(ctx, http.MethodPost, "/planets/{id}/build-fleet/{type}/{qty}", path, token, nil, nil)
}

func (c *GameServerClient) LaunchExpedition(ctx context.Context, planetID shared.PlanetID, token string) (*ports.ActionResult, error) {
	path := fmt.Sprintf("/planets/%s/expedition", url.PathEscape(planetID.Value()))
	return c.mission(ctx, "/planets/{id}/expedition", path, token, nil)
}

// Target-scoped missions

func (c *GameServerClient) Attack(ctx context.Context, planetID shared.PlanetID, target string, hunters, cruisers int, token string) (*ports.ActionResult, error) {
	body := attackRequest{TargetPlanetID: target, Hunters: hunters, Cruisers: cruisers}
	return c.mission(ctx, "/attack", withCurrentPlanet("/attack", planetID), token, body)
}

func (c *GameServerClient) Spy(ctx context.Context, planetID shared.PlanetID, target string, probes int, token string) (*ports.ActionResult, error) {
	body := spyRequest{TargetPlanetID: target, Probes: probes}
	return c.mission(ctx, "/spy", withCurrentPlanet("/spy", planetID), token, body)
}

func (c *GameServerClient) Recycle(ctx context.Context, planetID shared.PlanetID, target string, recyclers int, token string) (*ports.ActionResult, error) {
	body := recycleRequest{TargetPlanetID: target, Recyclers: recyclers}
	return c.mission(ctx, "/recycle", withCurrentPlanet("/recycle", planetID), token, body)
}

func (c *GameServerClient) mission(ctx context.Context, route, path, token string, body interface{}) (*ports.ActionResult, error) {
	var resp actionResponse
	if err := c.request(ctx, http.MethodPost, route, path, token, body, &resp); err != nil {
		return nil, err
	}

	result := &ports.ActionResult{Status: resp.Status}
	if resp.Planet != nil {
		result.Planet = planet.Payload(resp.Planet)
	}
	result.Report = reportBytes(resp.Report)
	return result, nil
}

// reportBytes accepts a report inlined as an object or double-encoded as a string
func reportBytes(raw jsoniter.RawMessage) []byte {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil || inner == "" {
			return nil
		}
		return []byte(inner)
	}
	return []byte(raw)
}

// World queries

func (c *GameServerClient) ScanSystem(ctx context.Context, planetID shared.PlanetID, address galaxy.Address, token string) ([]galaxy.Slot, error) {
	var resp []slotDTO
	path := withCurrentPlanet(fmt.Sprintf("/galaxy/%d/%d", address.Galaxy, address.System), planetID)
	if err := c.request(ctx, http.MethodGet, "/galaxy/{g}/{s}", path, token, nil, &resp); err != nil {
		return nil, err
	}

	slots := make([]galaxy.Slot, 0, len(resp))
	for _, dto := range resp {
		slots = append(slots, galaxy.Slot{
			Position:   dto.Position,
			PlanetID:   deref(dto.PlanetID),
			PlanetName: deref(dto.PlanetName),
			OwnerName:  deref(dto.OwnerName),
			HasDebris:  dto.HasDebris,
			IsMine:     dto.IsMe,
		})
	}
	return slots, nil
}

func (c *GameServerClient) ScanGalaxy(ctx context.Context, planetID shared.PlanetID, galaxyNumber int, token string) ([]galaxy.SystemSummary, error) {
	var resp []systemSummaryDTO
	path := withCurrentPlanet("/galaxy/"+strconv.Itoa(galaxyNumber)+"/scan", planetID)
	if err := c.request(ctx, http.MethodGet, "/galaxy/{g}/scan", path, token, nil, &resp); err != nil {
		return nil, err
	}

	summaries := make([]galaxy.SystemSummary, 0, len(resp))
	for _, dto := range resp {
		summaries = append(summaries, galaxy.SystemSummary{
			System:      dto.System,
			PlanetCount: dto.PlanetCount,
			HasMe:       dto.HasMe,
		})
	}
	return summaries, nil
}

func (c *GameServerClient) Ranking(ctx context.Context, planetID shared.PlanetID, token string) ([]ranking.Entry, error) {
	var resp []rankingDTO
	if err := c.request(ctx, http.MethodGet, "/ranking", withCurrentPlanet("/ranking", planetID), token, nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]ranking.Entry, 0, len(resp))
	for _, dto := range resp {
		entries = append(entries, ranking.Entry{
			Rank:       dto.Rank,
			PlanetName: dto.PlanetName,
			Score:      dto.Score,
			IsMine:     dto.IsMe,
			TargetID:   dto.ID,
		})
	}
	return entries, nil
}

func (c *GameServerClient) Reports(ctx context.Context, planetID shared.PlanetID, token string) ([]report.HistoryEntry, error) {
	var resp []historyDTO
	path := fmt.Sprintf("/planets/%s/reports", url.PathEscape(planetID.Value()))
	if err := c.request(ctx, http.MethodGet, "/planets/{id}/reports", path, token, nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]report.HistoryEntry, 0, len(resp))
	for _, dto := range resp {
		entry := report.HistoryEntry{
			ID:          dto.ID,
			TargetName:  dto.TargetName,
			Mission:     report.Mission(dto.MissionType),
			Result:      dto.Result,
			LootMetal:   dto.LootMetal,
			LootCrystal: dto.LootCrystal,
			ShipsLost:   dto.ShipsLost,
		}
		if date, err := planet.ParseTimestamp(dto.Date); err == nil {
			entry.Date = date
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *GameServerClient) GameConfig(ctx context.Context) (*ranking.GameConfig, error) {
	var resp gameConfigDTO
	if err := c.request(ctx, http.MethodGet, "/config", "/config", "", nil, &resp); err != nil {
		return nil, err
	}
	speed := resp.SpeedMultiplier
	if speed <= 0 {
		speed = 1
	}
	return &ranking.GameConfig{SpeedMultiplier: speed}, nil
}

func withCurrentPlanet(path string, planetID shared.PlanetID) string {
	return path + "?current_planet_id=" + url.QueryEscape(planetID.Value())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
