package tui

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func direct(fn func()) { fn() }

func TestFrameScheduler_CoalescesLatestPerID(t *testing.T) {
	// Arrange
	f := newFrameScheduler(direct, 60, 50*time.Millisecond)
	var seq []string
	f.Schedule("pane-a", func() { seq = append(seq, "a1") })
	f.Schedule("pane-a", func() { seq = append(seq, "a2") })
	f.Schedule("pane-b", func() { seq = append(seq, "b1") })

	// Act
	f.flush()

	// Assert
	assert.ElementsMatch(t, []string{"a2", "b1"}, seq)
	f.flush()
	assert.Len(t, seq, 2)
}

func TestFrameScheduler_FlushesPendingOnStop(t *testing.T) {
	f := newFrameScheduler(direct, 1, 50*time.Millisecond)
	var called atomic.Int32

	f.Start()
	f.Schedule("pane", func() { called.Add(1) })
	f.Stop()

	assert.Equal(t, int32(1), called.Load())
}

func TestFrameScheduler_StopIdempotent(t *testing.T) {
	f := newFrameScheduler(direct, 60, 50*time.Millisecond)
	f.Start()
	f.Stop()
	f.Stop()
}

func TestFrameScheduler_CapsDrawRate(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	draws := 0
	f := newFrameScheduler(func(fn func()) {
		mu.Lock()
		draws++
		mu.Unlock()
		fn()
	}, 10, 50*time.Millisecond)

	// Act: a burst of updates within one frame
	f.Start()
	for i := 0; i < 100; i++ {
		f.Schedule("planet", func() {})
	}
	time.Sleep(150 * time.Millisecond)
	f.Stop()

	// Assert
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, draws, 3)
	assert.GreaterOrEqual(t, draws, 1)
}
