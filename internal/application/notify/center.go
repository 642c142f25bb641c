package notify

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// DefaultTTL is how long a toast stays visible
const DefaultTTL = 4 * time.Second

// Level sets a toast's styling
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is one transient message
type Toast struct {
	ID        uint64
	Level     Level
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Center holds the visible toasts and dismisses them once their TTL passes
type Center struct {
	clock shared.Clock
	ttl   time.Duration

	mu          sync.Mutex
	nextID      uint64
	toasts      []Toast
	subscribers map[chan Toast]struct{}
}

// NewCenter creates a toast center; ttl <= 0 selects DefaultTTL
func NewCenter(clock shared.Clock, ttl time.Duration) *Center {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		clock:       clock,
		ttl:         ttl,
		subscribers: make(map[chan Toast]struct{}),
	}
}

// Push shows a message and returns the created toast
func (c *Center) Push(level Level, message string) Toast {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	toast := Toast{
		ID:        c.nextID,
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.toasts = append(c.toasts, toast)

	for ch := range c.subscribers {
		select {
		case ch <- toast:
		default:
		}
	}
	return toast
}

// Notify turns a snapshot-derived notification into a success toast
func (c *Center) Notify(n planet.Notification) {
	c.Push(LevelSuccess, n.Message())
}

// Active returns the toasts that have not yet expired, oldest first
func (c *Center) Active() []Toast {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	active := make([]Toast, 0, len(c.toasts))
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			active = append(active, t)
		}
	}
	return active
}

// Dismiss removes a toast before its TTL
func (c *Center) Dismiss(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return
		}
	}
}

// Prune drops expired toasts and returns how many were removed
func (c *Center) Prune() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	removed := len(c.toasts) - len(kept)
	c.toasts = kept
	return removed
}

// Run prunes expired toasts every interval until ctx is cancelled
func (c *Center) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.Prune(); n > 0 {
				logging.Component(ctx, "notify").Debug("toasts expired", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Subscribe returns a channel receiving every pushed toast and a cancel func
func (c *Center) Subscribe() (<-chan Toast, func()) {
	ch := make(chan Toast, 8)

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
