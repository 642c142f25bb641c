package reveal

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

// DefaultInterval is the delay between two revealed log lines
const DefaultInterval = 400 * time.Millisecond

// Frame is what the combat modal shows at one instant
type Frame struct {
	Report *report.Report

	// Lines are the log lines revealed so far
	Lines []string

	// Done is set once every line is visible; the outcome and loot are
	// shown only then
	Done bool
}

// Open reports whether the modal is showing anything
func (f Frame) Open() bool {
	return f.Report != nil
}

// Reveal drives the combat report modal. Opening a new report or closing
// the modal cancels any reveal in progress.
type Reveal struct {
	interval time.Duration

	mu       sync.Mutex
	current  *report.Report
	visible  int
	gen      uint64
	cancel   context.CancelFunc
	onChange func(Frame)
	wg       sync.WaitGroup
}

// New creates a reveal; interval <= 0 selects DefaultInterval
func New(interval time.Duration) *Reveal {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reveal{interval: interval}
}

// SetOnChange registers a callback invoked after every visible change
func (r *Reveal) SetOnChange(fn func(Frame)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// ShowReport opens rep, replacing whatever the modal showed
func (r *Reveal) ShowReport(ctx context.Context, rep *report.Report) {
	r.Open(ctx, rep)
}

// Open starts revealing rep line by line
func (r *Reveal) Open(ctx context.Context, rep *report.Report) {
	if rep == nil {
		return
	}

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	r.current = rep
	r.visible = 0
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel
	frame := r.frameLocked()
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(frame)
	}
	if frame.Done {
		return
	}

	r.wg.Add(1)
	go r.run(runCtx, gen)
}

func (r *Reveal) run(ctx context.Context, gen uint64) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.advance(gen) {
				return
			}
		}
	}
}

// advance reveals one more line of report gen. It returns false once the
// reveal is finished or superseded.
func (r *Reveal) advance(gen uint64) bool {
	r.mu.Lock()
	if gen != r.gen || r.current == nil {
		r.mu.Unlock()
		return false
	}
	if r.visible < len(r.current.Log) {
		r.visible++
	}
	frame := r.frameLocked()
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(frame)
	}
	return !frame.Done
}

// Skip reveals every remaining line at once
func (r *Reveal) Skip() {
	r.mu.Lock()
	if r.current == nil {
		r.mu.Unlock()
		return
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	r.visible = len(r.current.Log)
	frame := r.frameLocked()
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(frame)
	}
}

// Close hides the modal and stops the reveal
func (r *Reveal) Close() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	wasOpen := r.current != nil
	r.current = nil
	r.visible = 0
	onChange := r.onChange
	r.mu.Unlock()

	if wasOpen && onChange != nil {
		onChange(Frame{})
	}
}

// Wait blocks until every reveal goroutine has exited
func (r *Reveal) Wait() {
	r.wg.Wait()
}

// Frame returns the modal's current state
func (r *Reveal) Frame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameLocked()
}

func (r *Reveal) frameLocked() Frame {
	if r.current == nil {
		return Frame{}
	}
	lines := make([]string, r.visible)
	copy(lines, r.current.Log[:r.visible])
	return Frame{
		Report: r.current,
		Lines:  lines,
		Done:   r.visible >= len(r.current.Log),
	}
}
