package galaxy

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	domainGalaxy "github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// Mode selects how the current system is drawn
type Mode string

const (
	ModeList Mode = "list"
	ModeMap  Mode = "map"
)

// View is the galaxy navigator. Each system and each galaxy overview is
// fetched at most once for the life of the view; both display modes read
// the same cached data.
type View struct {
	client   ports.GameClient
	sessions auth.Provider

	group singleflight.Group

	mu       sync.RWMutex
	current  domainGalaxy.Address
	mode     Mode
	systems  map[domainGalaxy.Address][]domainGalaxy.Slot
	galaxies map[int][]domainGalaxy.SystemSummary
}

// NewView creates a navigator positioned at start
func NewView(client ports.GameClient, sessions auth.Provider, start domainGalaxy.Address) *View {
	if start.Galaxy == 0 || start.System == 0 {
		start = domainGalaxy.Address{Galaxy: domainGalaxy.MinGalaxy, System: domainGalaxy.MinSystem}
	}
	return &View{
		client:   client,
		sessions: sessions,
		current:  start,
		mode:     ModeList,
		systems:  make(map[domainGalaxy.Address][]domainGalaxy.Slot),
		galaxies: make(map[int][]domainGalaxy.SystemSummary),
	}
}

func (v *View) Current() domainGalaxy.Address {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

func (v *View) Mode() Mode {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mode
}

// ToggleMode switches between list and map without refetching
func (v *View) ToggleMode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode == ModeList {
		v.mode = ModeMap
	} else {
		v.mode = ModeList
	}
	return v.mode
}

// Goto moves to a validated address
func (v *View) Goto(galaxyNumber, system int) (domainGalaxy.Address, error) {
	addr, err := domainGalaxy.NewAddress(galaxyNumber, system)
	if err != nil {
		return domainGalaxy.Address{}, shared.NewValidationError("address", err.Error())
	}
	v.mu.Lock()
	v.current = addr
	v.mu.Unlock()
	return addr, nil
}

// Next moves to the following system
func (v *View) Next() domainGalaxy.Address {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = v.current.Next()
	return v.current
}

// Prev moves to the preceding system
func (v *View) Prev() domainGalaxy.Address {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = v.current.Prev()
	return v.current
}

// Scan returns the slots of a system, fetching them on first use.
// Concurrent scans of the same system share one request.
func (v *View) Scan(ctx context.Context, addr domainGalaxy.Address) ([]domainGalaxy.Slot, error) {
	v.mu.RLock()
	cached, ok := v.systems[addr]
	v.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, _ := v.group.Do("system:"+addr.String(), func() (interface{}, error) {
		s, err := auth.SessionFromContext(v.sessionContext(ctx))
		if err != nil {
			return nil, err
		}
		slots, err := v.client.ScanSystem(ctx, s.PlanetID, addr, s.Token)
		if err != nil {
			return nil, fmt.Errorf("scan system %s: %w", addr, err)
		}
		slots = append([]domainGalaxy.Slot(nil), slots...)
		sort.Slice(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })

		v.mu.Lock()
		v.systems[addr] = slots
		v.mu.Unlock()
		return slots, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domainGalaxy.Slot), nil
}

// ScanCurrent scans the system the navigator is positioned at
func (v *View) ScanCurrent(ctx context.Context) ([]domainGalaxy.Slot, error) {
	return v.Scan(ctx, v.Current())
}

// Overview returns the per-system summaries of a galaxy, fetched on first use
func (v *View) Overview(ctx context.Context, galaxyNumber int) ([]domainGalaxy.SystemSummary, error) {
	v.mu.RLock()
	cached, ok := v.galaxies[galaxyNumber]
	v.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, _ := v.group.Do("galaxy:"+strconv.Itoa(galaxyNumber), func() (interface{}, error) {
		s, err := auth.SessionFromContext(v.sessionContext(ctx))
		if err != nil {
			return nil, err
		}
		summaries, err := v.client.ScanGalaxy(ctx, s.PlanetID, galaxyNumber, s.Token)
		if err != nil {
			return nil, fmt.Errorf("scan galaxy %d: %w", galaxyNumber, err)
		}

		v.mu.Lock()
		v.galaxies[galaxyNumber] = summaries
		v.mu.Unlock()
		return summaries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domainGalaxy.SystemSummary), nil
}

// Invalidate drops every cached scan so the next read refetches
func (v *View) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.systems = make(map[domainGalaxy.Address][]domainGalaxy.Slot)
	v.galaxies = make(map[int][]domainGalaxy.SystemSummary)
}

// StarMap lays out the current galaxy, marking systems from the overview
type StarMap struct {
	Galaxy    int
	Stars     []domainGalaxy.Star
	Links     []domainGalaxy.Link
	Summaries map[int]domainGalaxy.SystemSummary
}

// Map builds the star map of the current galaxy
func (v *View) Map(ctx context.Context) (*StarMap, error) {
	g := v.Current().Galaxy
	summaries, err := v.Overview(ctx, g)
	if err != nil {
		return nil, err
	}

	stars := domainGalaxy.Layout(g)
	byStar := make(map[int]domainGalaxy.SystemSummary, len(summaries))
	for _, s := range summaries {
		byStar[s.System] = s
	}
	return &StarMap{
		Galaxy:    g,
		Stars:     stars,
		Links:     domainGalaxy.Links(stars),
		Summaries: byStar,
	}, nil
}

func (v *View) sessionContext(ctx context.Context) context.Context {
	if _, err := auth.SessionFromContext(ctx); err == nil || v.sessions == nil {
		return ctx
	}
	return auth.WithSession(ctx, v.sessions.Current())
}
