package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
)

// EndReason says why a session was terminated
type EndReason string

const (
	ReasonLogout       EndReason = "logout"
	ReasonUnauthorized EndReason = "unauthorized"
)

// Ended is published once per terminated session
type Ended struct {
	Username string
	Reason   EndReason
}

// Controller owns the single active session. It is the only component that
// reads or writes the durable session store.
type Controller struct {
	repo session.Repository

	mu          sync.RWMutex
	current     *session.Session
	subscribers map[chan Ended]struct{}
}

// NewController creates a controller without loading anything; call Init
func NewController(repo session.Repository) *Controller {
	return &Controller{
		repo:        repo,
		subscribers: make(map[chan Ended]struct{}),
	}
}

// Init restores a previously saved session, if any.
// Returns nil without error when the store is empty.
func (c *Controller) Init(ctx context.Context) (*session.Session, error) {
	s, err := c.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	c.mu.Lock()
	c.current = s
	c.mu.Unlock()

	if s != nil {
		logging.Component(ctx, "session").Info("session restored",
			"username", s.Username, "planet_id", s.PlanetID.String())
	}
	return s, nil
}

// Current returns the active session or nil
func (c *Controller) Current() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Establish persists a fresh session and makes it current
func (c *Controller) Establish(ctx context.Context, s *session.Session) error {
	if !s.Valid() {
		return fmt.Errorf("cannot establish incomplete session")
	}
	if err := c.repo.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	c.mu.Lock()
	c.current = s
	c.mu.Unlock()

	logging.Component(ctx, "session").Info("session established",
		"username", s.Username, "planet_id", s.PlanetID.String())
	return nil
}

// Terminate clears the stored session and notifies subscribers.
// Calling it without an active session only clears storage.
func (c *Controller) Terminate(ctx context.Context, reason EndReason) error {
	c.mu.Lock()
	previous := c.current
	c.current = nil
	subscribers := make([]chan Ended, 0, len(c.subscribers))
	for ch := range c.subscribers {
		subscribers = append(subscribers, ch)
	}
	c.mu.Unlock()

	err := c.repo.Clear(ctx)
	if err != nil {
		err = fmt.Errorf("failed to clear session: %w", err)
	}

	if previous == nil {
		return err
	}

	logging.Component(ctx, "session").Info("session terminated",
		"username", previous.Username, "reason", string(reason))

	event := Ended{Username: previous.Username, Reason: reason}
	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
		}
	}
	return err
}

// Subscribe returns a channel receiving session-ended events and a cancel func
func (c *Controller) Subscribe() (<-chan Ended, func()) {
	ch := make(chan Ended, 1)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, ch)
			c.mu.Unlock()
		})
	}
}
