package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ranking"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// Method names used for call tracking and error injection
const (
	MethodRegister         = "Register"
	MethodLogin            = "Login"
	MethodGetPlanet        = "GetPlanet"
	MethodClearReport      = "ClearReport"
	MethodUpgradeBuilding  = "UpgradeBuilding"
	MethodBuildUnits       = "BuildUnits"
	MethodLaunchExpedition = "LaunchExpedition"
	MethodAttack           = "Attack"
	MethodSpy              = "Spy"
	MethodRecycle          = "Recycle"
	MethodScanSystem       = "ScanSystem"
	MethodScanGalaxy       = "ScanGalaxy"
	MethodRanking          = "Ranking"
	MethodReports          = "Reports"
	MethodGameConfig       = "GameConfig"
)

// DefaultPlanetID is the planet every account created by the mock owns
const DefaultPlanetID = "7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11"

// MockGameClient is a test double for ports.GameClient.
// It serves one planet payload and records every call.
type MockGameClient struct {
	mu sync.RWMutex

	// Account storage: username -> password
	accounts map[string]string
	token    string
	planetID string

	payload planet.Payload

	// Canned responses
	actionResults map[string]*ports.ActionResult
	slots         map[galaxy.Address][]galaxy.Slot
	summaries     map[int][]galaxy.SystemSummary
	ranking       []ranking.Entry
	reports       []report.HistoryEntry
	speed         float64

	// Error injection per method
	errs map[string]error

	// Call tracking
	calls []string

	// Custom function handlers
	getPlanetFunc func(ctx context.Context, call int) (planet.Payload, error)
}

// NewMockGameClient creates a mock with an empty planet and one token
func NewMockGameClient() *MockGameClient {
	return &MockGameClient{
		accounts:      make(map[string]string),
		token:         "token-" + uuid.NewString(),
		planetID:      DefaultPlanetID,
		payload:       planet.Payload{"id": DefaultPlanetID, "name": "Homeworld"},
		actionResults: make(map[string]*ports.ActionResult),
		slots:         make(map[galaxy.Address][]galaxy.Slot),
		summaries:     make(map[int][]galaxy.SystemSummary),
		speed:         1,
		errs:          make(map[string]error),
	}
}

// Token returns the bearer token the mock hands out and accepts
func (m *MockGameClient) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// AddAccount registers credentials accepted by Login
func (m *MockGameClient) AddAccount(username, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[username] = password
}

// SetPlanet replaces the served planet payload
func (m *MockGameClient) SetPlanet(payload planet.Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = clonePayload(payload)
}

// UpdatePlanet mutates the served payload in place
func (m *MockGameClient) UpdatePlanet(fn func(p planet.Payload)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.payload)
}

// SetGetPlanetFunc overrides GetPlanet; call is the 1-based invocation number
func (m *MockGameClient) SetGetPlanetFunc(fn func(ctx context.Context, call int) (planet.Payload, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getPlanetFunc = fn
}

// SetError makes every call to method fail with err; nil clears it
func (m *MockGameClient) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, method)
		return
	}
	m.errs[method] = err
}

// SetActionResult sets the response of a mission method
func (m *MockGameClient) SetActionResult(method string, result *ports.ActionResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionResults[method] = result
}

func (m *MockGameClient) SetSlots(address galaxy.Address, slots []galaxy.Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[address] = slots
}

func (m *MockGameClient) SetSummaries(galaxyNumber int, summaries []galaxy.SystemSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[galaxyNumber] = summaries
}

func (m *MockGameClient) SetRanking(entries []ranking.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ranking = entries
}

func (m *MockGameClient) SetReports(entries []report.HistoryEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = entries
}

func (m *MockGameClient) SetSpeed(speed float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speed = speed
}

// Calls returns every recorded call in order
func (m *MockGameClient) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times a method was called
func (m *MockGameClient) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, call := range m.calls {
		if call == method {
			n++
		}
	}
	return n
}

// record appends a call and returns the call number and the injected error.
// Caller must hold the lock.
func (m *MockGameClient) record(method string) (int, error) {
	m.calls = append(m.calls, method)
	n := 0
	for _, call := range m.calls {
		if call == method {
			n++
		}
	}
	return n, m.errs[method]
}

func (m *MockGameClient) authorize(token string) error {
	if token != m.token {
		return shared.NewAuthorizationError(401, "Token invalide")
	}
	return nil
}

// Auth operations

func (m *MockGameClient) Register(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodRegister); err != nil {
		return nil, err
	}
	if _, exists := m.accounts[username]; exists {
		return nil, shared.NewBusinessError(400, "Ce nom est déjà pris")
	}
	m.accounts[username] = password
	return &ports.AuthResult{Token: m.token, PlanetID: m.planetID}, nil
}

func (m *MockGameClient) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodLogin); err != nil {
		return nil, err
	}
	if stored, ok := m.accounts[username]; !ok || stored != password {
		return nil, shared.NewAuthorizationError(401, "Identifiants invalides")
	}
	return &ports.AuthResult{Token: m.token, PlanetID: m.planetID}, nil
}

// Planet state

func (m *MockGameClient) GetPlanet(ctx context.Context, planetID shared.PlanetID, token string) (planet.Payload, error) {
	m.mu.Lock()
	call, err := m.record(MethodGetPlanet)
	fn := m.getPlanetFunc
	payload := clonePayload(m.payload)
	if err == nil {
		err = m.authorize(token)
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx, call)
	}
	return payload, nil
}

func (m *MockGameClient) ClearReport(ctx context.Context, planetID shared.PlanetID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodClearReport); err != nil {
		return err
	}
	if err := m.authorize(token); err != nil {
		return err
	}
	m.payload["unread_report"] = nil
	return nil
}

// Planet-scoped mutations

func (m *MockGameClient) UpgradeBuilding(ctx context.Context, planetID shared.PlanetID, building planet.BuildingType, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodUpgradeBuilding); err != nil {
		return err
	}
	return m.authorize(token)
}

func (m *MockGameClient) BuildUnits(ctx context.Context, planetID shared.PlanetID, unit planet.UnitType, quantity int, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodBuildUnits); err != nil {
		return err
	}
	if quantity <= 0 {
		return shared.NewBusinessError(400, fmt.Sprintf("invalid quantity %d", quantity))
	}
	return m.authorize(token)
}

func (m *MockGameClient) LaunchExpedition(ctx context.Context, planetID shared.PlanetID, token string) (*ports.ActionResult, error) {
	return m.mission(MethodLaunchExpedition, token)
}

// Target-scoped missions

func (m *MockGameClient) Attack(ctx context.Context, planetID shared.PlanetID, target string, hunters, cruisers int, token string) (*ports.ActionResult, error) {
	return m.mission(MethodAttack, token)
}

func (m *MockGameClient) Spy(ctx context.Context, planetID shared.PlanetID, target string, probes int, token string) (*ports.ActionResult, error) {
	return m.mission(MethodSpy, token)
}

func (m *MockGameClient) Recycle(ctx context.Context, planetID shared.PlanetID, target string, recyclers int, token string) (*ports.ActionResult, error) {
	return m.mission(MethodRecycle, token)
}

func (m *MockGameClient) mission(method, token string) (*ports.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(method); err != nil {
		return nil, err
	}
	if err := m.authorize(token); err != nil {
		return nil, err
	}
	if result, ok := m.actionResults[method]; ok {
		return result, nil
	}
	return &ports.ActionResult{Status: "success"}, nil
}

// World queries

func (m *MockGameClient) ScanSystem(ctx context.Context, planetID shared.PlanetID, address galaxy.Address, token string) ([]galaxy.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodScanSystem); err != nil {
		return nil, err
	}
	return m.slots[address], m.authorize(token)
}

func (m *MockGameClient) ScanGalaxy(ctx context.Context, planetID shared.PlanetID, galaxyNumber int, token string) ([]galaxy.SystemSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodScanGalaxy); err != nil {
		return nil, err
	}
	return m.summaries[galaxyNumber], m.authorize(token)
}

func (m *MockGameClient) Ranking(ctx context.Context, planetID shared.PlanetID, token string) ([]ranking.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodRanking); err != nil {
		return nil, err
	}
	return m.ranking, m.authorize(token)
}

func (m *MockGameClient) Reports(ctx context.Context, planetID shared.PlanetID, token string) ([]report.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodReports); err != nil {
		return nil, err
	}
	return m.reports, m.authorize(token)
}

func (m *MockGameClient) GameConfig(ctx context.Context) (*ranking.GameConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.record(MethodGameConfig); err != nil {
		return nil, err
	}
	return &ranking.GameConfig{SpeedMultiplier: m.speed}, nil
}

func clonePayload(p planet.Payload) planet.Payload {
	if p == nil {
		return planet.Payload{}
	}
	out := make(planet.Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

var _ ports.GameClient = (*MockGameClient)(nil)
