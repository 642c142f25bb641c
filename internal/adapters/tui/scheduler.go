package tui

import (
	"sync"
	"time"
)

// frameScheduler coalesces pane updates and caps the redraw rate.
// Only the latest update per pane id survives until the next frame.
type frameScheduler struct {
	draw         func(func())
	pending      map[string]func()
	mu           sync.Mutex
	quit         chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	frameTime    time.Duration
	drainTimeout time.Duration
}

// newFrameScheduler batches updates into draw, which must run them on the UI goroutine
func newFrameScheduler(draw func(func()), targetFPS int, drainTimeout time.Duration) *frameScheduler {
	if targetFPS <= 0 {
		targetFPS = 20
	}
	if drainTimeout <= 0 {
		drainTimeout = 100 * time.Millisecond
	}
	return &frameScheduler{
		draw:         draw,
		pending:      make(map[string]func()),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		frameTime:    time.Second / time.Duration(targetFPS),
		drainTimeout: drainTimeout,
	}
}

func (f *frameScheduler) Start() {
	go f.run()
}

// Stop flushes what is pending, bounded by the drain timeout. Safe to call twice.
func (f *frameScheduler) Stop() {
	f.stopOnce.Do(func() {
		close(f.quit)
		select {
		case <-f.done:
		case <-time.After(f.drainTimeout):
		}
	})
}

func (f *frameScheduler) Schedule(id string, fn func()) {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.pending[id] = fn
	f.mu.Unlock()
}

func (f *frameScheduler) run() {
	defer close(f.done)

	ticker := time.NewTicker(f.frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.flush()
		case <-f.quit:
			f.flush()
			return
		}
	}
}

func (f *frameScheduler) flush() {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return
	}
	batch := make([]func(), 0, len(f.pending))
	for id, fn := range f.pending {
		batch = append(batch, fn)
		delete(f.pending, id)
	}
	f.mu.Unlock()

	f.draw(func() {
		for _, fn := range batch {
			fn()
		}
	})
}
