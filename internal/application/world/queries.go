package world

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ranking"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

// GetRankingQuery fetches the leaderboard
type GetRankingQuery struct{}

type GetRankingResponse struct {
	Entries []ranking.Entry
	// Own is the viewer's row, nil when unranked
	Own *ranking.Entry
}

// GetReportsQuery fetches the planet's mission history, newest first
type GetReportsQuery struct {
	// Limit caps the number of entries; 0 means all
	Limit int
}

type GetReportsResponse struct {
	Entries []report.HistoryEntry
}

// GetGameConfigQuery fetches server tuning such as the speed multiplier
type GetGameConfigQuery struct{}

type GetGameConfigResponse struct {
	Config ranking.GameConfig
}

// GetRankingHandler - Handles leaderboard queries
type GetRankingHandler struct {
	client ports.GameClient
}

func NewGetRankingHandler(client ports.GameClient) *GetRankingHandler {
	return &GetRankingHandler{client: client}
}

// Handle executes the ranking query
func (h *GetRankingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetRankingQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	s, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := h.client.Ranking(ctx, s.PlanetID, s.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ranking: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })

	resp := &GetRankingResponse{Entries: entries}
	if own, ok := ranking.Own(entries); ok {
		resp.Own = &own
	}
	return resp, nil
}

// GetReportsHandler - Handles mission history queries
type GetReportsHandler struct {
	client ports.GameClient
}

func NewGetReportsHandler(client ports.GameClient) *GetReportsHandler {
	return &GetReportsHandler{client: client}
}

// Handle executes the reports query
func (h *GetReportsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetReportsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	s, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := h.client.Reports(ctx, s.PlanetID, s.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	if query.Limit > 0 && len(entries) > query.Limit {
		entries = entries[:query.Limit]
	}
	return &GetReportsResponse{Entries: entries}, nil
}

// GetGameConfigHandler - Handles game config queries. The config does not
// change while the server runs, so the first successful answer is kept.
type GetGameConfigHandler struct {
	client ports.GameClient

	mu     sync.Mutex
	cached *ranking.GameConfig
}

func NewGetGameConfigHandler(client ports.GameClient) *GetGameConfigHandler {
	return &GetGameConfigHandler{client: client}
}

// Handle executes the game config query; it needs no session
func (h *GetGameConfigHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetGameConfigQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cached == nil {
		cfg, err := h.client.GameConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch game config: %w", err)
		}
		h.cached = cfg
	}
	return &GetGameConfigResponse{Config: *h.cached}, nil
}

// Register wires the world query handlers into the mediator
func Register(m mediator.Mediator, client ports.GameClient) error {
	if err := mediator.RegisterHandler[*GetRankingQuery](m, NewGetRankingHandler(client)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*GetReportsQuery](m, NewGetReportsHandler(client)); err != nil {
		return err
	}
	return mediator.RegisterHandler[*GetGameConfigQuery](m, NewGetGameConfigHandler(client))
}
