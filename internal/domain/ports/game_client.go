package ports

import (
	"context"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ranking"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// GameClient defines the domain's interface to the remote game server.
//
// The server is authoritative for every rule; the client only reads state and
// submits requests. Implementations classify failures as
// *shared.AuthorizationError, *shared.BusinessError or *shared.NetworkError
// and never retry mutations.
type GameClient interface {
	// Auth operations
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// Planet state
	GetPlanet(ctx context.Context, planetID shared.PlanetID, token string) (planet.Payload, error)
	ClearReport(ctx context.Context, planetID shared.PlanetID, token string) error

	// Planet-scoped mutations
	UpgradeBuilding(ctx context.Context, planetID shared.PlanetID, building planet.BuildingType, token string) error
	BuildUnits(ctx context.Context, planetID shared.PlanetID, unit planet.UnitType, quantity int, token string) error
	LaunchExpedition(ctx context.Context, planetID shared.PlanetID, token string) (*ActionResult, error)

	// Target-scoped missions
	Attack(ctx context.Context, planetID shared.PlanetID, target string, hunters, cruisers int, token string) (*ActionResult, error)
	Spy(ctx context.Context, planetID shared.PlanetID, target string, probes int, token string) (*ActionResult, error)
	Recycle(ctx context.Context, planetID shared.PlanetID, target string, recyclers int, token string) (*ActionResult, error)

	// World queries
	ScanSystem(ctx context.Context, planetID shared.PlanetID, address galaxy.Address, token string) ([]galaxy.Slot, error)
	ScanGalaxy(ctx context.Context, planetID shared.PlanetID, galaxyNumber int, token string) ([]galaxy.SystemSummary, error)
	Ranking(ctx context.Context, planetID shared.PlanetID, token string) ([]ranking.Entry, error)
	Reports(ctx context.Context, planetID shared.PlanetID, token string) ([]report.HistoryEntry, error)
	GameConfig(ctx context.Context) (*ranking.GameConfig, error)
}

// AuthResult is what register and login hand back
type AuthResult struct {
	Token    string
	PlanetID string
}

// ActionResult is the body of a mission response. Either part may be absent.
type ActionResult struct {
	Status string
	Planet planet.Payload
	Report []byte
}
