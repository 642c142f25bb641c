package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/metrics"
	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/application/polling"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// DefaultTick is how often remaining seconds are recomputed
const DefaultTick = time.Second

// Refresher requests an out-of-cycle poll
type Refresher interface {
	Refresh()
}

// Reading is the displayed state of one countdown
type Reading struct {
	Field     planet.TimerField
	End       time.Time
	Remaining int64
}

type timer struct {
	end   time.Time
	fired bool
}

// Manager keeps one countdown per snapshot end-timestamp. Each countdown
// requests a single refresh when it reaches zero.
type Manager struct {
	clock     shared.Clock
	refresher Refresher

	mu       sync.Mutex
	timers   map[planet.TimerField]*timer
	onChange func([]Reading)
}

func NewManager(clock shared.Clock, refresher Refresher) *Manager {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Manager{
		clock:     clock,
		refresher: refresher,
		timers:    make(map[planet.TimerField]*timer),
	}
}

// SetOnChange registers a callback invoked with fresh readings on every tick
func (m *Manager) SetOnChange(fn func([]Reading)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Sync starts, restarts or stops countdowns to match snap.
// A countdown restarts only when its end timestamp changes.
func (m *Manager) Sync(snap *planet.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, field := range planet.TimerFields {
		end := snap.EndOf(field)
		existing, running := m.timers[field]

		switch {
		case end == nil:
			delete(m.timers, field)
		case !running || !existing.end.Equal(*end):
			m.timers[field] = &timer{end: *end}
		}
	}
}

// Tick recomputes every countdown and fires the zero-transition refresh
func (m *Manager) Tick(ctx context.Context) []Reading {
	now := m.clock.Now()

	m.mu.Lock()
	readings := make([]Reading, 0, len(m.timers))
	var due []planet.TimerField
	for _, field := range planet.TimerFields {
		t, ok := m.timers[field]
		if !ok {
			continue
		}
		remaining := planet.Remaining(t.end, now)
		readings = append(readings, Reading{Field: field, End: t.end, Remaining: remaining})
		if remaining == 0 && !t.fired {
			t.fired = true
			due = append(due, field)
		}
	}
	onChange := m.onChange
	m.mu.Unlock()

	for _, field := range due {
		logging.Component(ctx, "countdown").Debug("countdown reached zero", "field", string(field))
		metrics.RecordCountdownRefresh(string(field))
		if m.refresher != nil {
			m.refresher.Refresh()
		}
	}
	if onChange != nil {
		onChange(readings)
	}
	return readings
}

// Remaining returns the seconds left on a field, or false when it is not running
func (m *Manager) Remaining(field planet.TimerField) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.timers[field]
	if !ok {
		return 0, false
	}
	return planet.Remaining(t.end, m.clock.Now()), true
}

// Stop discards every countdown
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers = make(map[planet.TimerField]*timer)
}

// Run follows store updates and ticks every interval until ctx is cancelled
func (m *Manager) Run(ctx context.Context, store *polling.Store, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTick
	}
	events, cancel := store.Subscribe(4)
	defer cancel()
	defer m.Stop()

	m.Sync(store.Snapshot())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			m.Sync(ev.Current)
			m.Tick(ctx)
		case <-ticker.C:
			m.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}
