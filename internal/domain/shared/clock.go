package shared

import (
	"sync"
	"time"
)

// Clock is the time source for countdowns, toast expiry and retry backoff.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type RealClock struct{}

func NewRealClock() Clock { return RealClock{} }

// Now is UTC so that it compares directly with server timestamps.
func (RealClock) Now() time.Time { return time.Now().UTC() }

func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// MockClock only moves when told to. Sleep advances it instead of blocking,
// so a retry loop under test finishes immediately.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMockClock starts at start, or at the wall clock when start is zero.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *MockClock) Sleep(d time.Duration) { m.Advance(d) }

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
