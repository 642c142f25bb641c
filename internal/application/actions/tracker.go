package actions

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/application/polling"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// DefaultSubmitTimeout bounds how long a trigger stays disabled while
// waiting for a snapshot that confirms the action
const DefaultSubmitTimeout = 10 * time.Second

type pending struct {
	confirm  Confirmation
	deadline time.Time
}

// Tracker holds the idle/submitting state of every action trigger
type Tracker struct {
	clock   shared.Clock
	timeout time.Duration

	mu       sync.Mutex
	machines map[Key]*shared.SubmissionStateMachine
	waiting  map[Key]pending
}

// NewTracker creates a tracker; timeout <= 0 selects DefaultSubmitTimeout
func NewTracker(clock shared.Clock, timeout time.Duration) *Tracker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &Tracker{
		clock:    clock,
		timeout:  timeout,
		machines: make(map[Key]*shared.SubmissionStateMachine),
		waiting:  make(map[Key]pending),
	}
}

func (t *Tracker) machine(key Key) *shared.SubmissionStateMachine {
	sm, ok := t.machines[key]
	if !ok {
		sm = shared.NewSubmissionStateMachine(t.clock)
		t.machines[key] = sm
	}
	return sm
}

// Begin moves key to submitting. It fails while a submission is outstanding.
func (t *Tracker) Begin(key Key) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.machine(key).Begin(); err != nil {
		return shared.NewBusinessError(0, "action already in progress")
	}
	return nil
}

// Await keeps key submitting until a snapshot satisfies confirm or the
// timeout passes. A nil confirm settles immediately.
func (t *Tracker) Await(key Key, confirm Confirmation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sm := t.machine(key)
	if !sm.IsSubmitting() {
		return
	}
	if confirm == nil {
		_ = sm.Confirm()
		return
	}
	t.waiting[key] = pending{confirm: confirm, deadline: t.clock.Now().Add(t.timeout)}
}

// Fail returns key to idle after a rejected request
func (t *Tracker) Fail(key Key, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.waiting, key)
	_ = t.machine(key).Fail(err)
}

// IsSubmitting reports whether key's trigger must be shown disabled
func (t *Tracker) IsSubmitting(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	sm, ok := t.machines[key]
	return ok && sm.IsSubmitting()
}

// Outcome returns how key's last submission settled
func (t *Tracker) Outcome(key Key) shared.SubmissionOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	sm, ok := t.machines[key]
	if !ok {
		return shared.SubmissionOutcomeNone
	}
	return sm.Outcome()
}

// Observe confirms every waiting action that snap reflects
func (t *Tracker) Observe(snap *planet.Snapshot) []Key {
	if snap == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var confirmed []Key
	for key, p := range t.waiting {
		if p.confirm(snap) {
			delete(t.waiting, key)
			_ = t.machine(key).Confirm()
			confirmed = append(confirmed, key)
		}
	}
	return confirmed
}

// ExpireOverdue returns actions to idle once their confirmation is overdue
func (t *Tracker) ExpireOverdue() []Key {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	var expired []Key
	for key, p := range t.waiting {
		if !now.Before(p.deadline) {
			delete(t.waiting, key)
			_ = t.machine(key).Expire()
			expired = append(expired, key)
		}
	}
	return expired
}

// Reset returns every trigger to idle and forgets pending confirmations
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.machines = make(map[Key]*shared.SubmissionStateMachine)
	t.waiting = make(map[Key]pending)
}

// Run confirms actions from store updates and expires overdue ones until
// ctx is cancelled
func (t *Tracker) Run(ctx context.Context, store *polling.Store, interval time.Duration) {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	logger := logging.Component(ctx, "tracker")
	events, cancel := store.Subscribe(4)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			t.Observe(ev.Current)
		case <-ticker.C:
			for _, key := range t.ExpireOverdue() {
				logger.Debug("action confirmation timed out", "action", string(key))
			}
		case <-ctx.Done():
			return
		}
	}
}
