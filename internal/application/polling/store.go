package polling

import (
	"sync"
	"sync/atomic"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/metrics"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

// Event is published after every applied snapshot and on reset
type Event struct {
	Seq      uint64
	Previous *planet.Snapshot
	Current  *planet.Snapshot
}

// Store holds the latest planet snapshot.
//
// Writers take a sequence number before issuing their request and apply the
// response with it; a response older than the last applied one is discarded.
// Readers always get an immutable snapshot.
type Store struct {
	issued atomic.Uint64

	mu          sync.RWMutex
	applied     uint64
	current     *planet.Snapshot
	reportMark  report.Fingerprint
	subscribers map[chan Event]struct{}
}

func NewStore() *Store {
	return &Store{
		subscribers: make(map[chan Event]struct{}),
	}
}

// NextSeq reserves the next request sequence number
func (s *Store) NextSeq() uint64 {
	return s.issued.Add(1)
}

// Snapshot returns the latest applied snapshot, or nil before the first poll
func (s *Store) Snapshot() *planet.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Apply installs snap if seq is newer than the last applied sequence.
// Returns the replaced snapshot and whether snap was applied.
func (s *Store) Apply(seq uint64, snap *planet.Snapshot) (*planet.Snapshot, bool) {
	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		metrics.RecordStaleDiscard()
		return nil, false
	}
	prev := s.current
	s.current = snap
	s.applied = seq
	if snap != nil && !snap.HasPendingReport() {
		// the server dropped its unread report; an identical one later is new
		s.reportMark = 0
	}
	s.publish(Event{Seq: seq, Previous: prev, Current: snap})
	s.mu.Unlock()

	return prev, true
}

// Replace applies a snapshot obtained outside the poll cycle, such as the
// planet returned with an expedition launch
func (s *Store) Replace(snap *planet.Snapshot) (*planet.Snapshot, bool) {
	return s.Apply(s.NextSeq(), snap)
}

// Reset drops the snapshot and invalidates every request already issued
func (s *Store) Reset() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.applied = s.issued.Load()
	s.reportMark = 0
	if prev != nil {
		s.publish(Event{Seq: s.applied, Previous: prev})
	}
	s.mu.Unlock()
}

// ReportMark returns the fingerprint of the last report surfaced
func (s *Store) ReportMark() report.Fingerprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reportMark
}

// ClaimReport marks fp as surfaced. It returns false when fp was already
// claimed, so overlapping polls show a report once.
func (s *Store) ClaimReport(fp report.Fingerprint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reportMark == fp {
		return false
	}
	s.reportMark = fp
	return true
}

// ReleaseReport forgets fp so the report surfaces again on the next poll.
// Used when the server did not accept the acknowledgement.
func (s *Store) ReleaseReport(fp report.Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reportMark == fp {
		s.reportMark = 0
	}
}

// Subscribe returns a channel of store events and a cancel func.
// Slow subscribers miss events rather than block the writer.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			s.mu.Unlock()
		})
	}
}

// publish delivers event in apply order without blocking. Caller must hold the lock.
func (s *Store) publish(event Event) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
