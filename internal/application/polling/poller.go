package polling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/metrics"
	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// DefaultInterval is how often the planet is refreshed
const DefaultInterval = 2 * time.Second

// Poll outcomes recorded in metrics
const (
	OutcomeApplied      = "applied"
	OutcomeStale        = "stale"
	OutcomeUnauthorized = "unauthorized"
	OutcomeNetworkError = "network_error"
)

// LostLinkMessage is logged and shown when the server cannot be reached
const LostLinkMessage = "Lost link with command"

// SessionSource is the poller's view of the session controller
type SessionSource interface {
	Current() *session.Session
	Terminate(ctx context.Context, reason auth.EndReason) error
}

// Notifier receives completion notifications derived from consecutive snapshots
type Notifier interface {
	Notify(n planet.Notification)
}

// ReportPresenter opens the combat report modal
type ReportPresenter interface {
	ShowReport(ctx context.Context, r *report.Report)
}

// Poller fetches the active planet on a fixed interval and is the only
// writer of the snapshot store's poll cycle
type Poller struct {
	client   ports.GameClient
	sessions SessionSource
	store    *Store
	clock    shared.Clock
	interval time.Duration

	notifier Notifier
	reports  ReportPresenter

	refresh  chan struct{}
	inflight sync.WaitGroup
}

// NewPoller creates a poller; interval <= 0 selects DefaultInterval.
// If clock is nil, uses RealClock for production
func NewPoller(client ports.GameClient, sessions SessionSource, store *Store, clock shared.Clock, interval time.Duration) *Poller {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		client:   client,
		sessions: sessions,
		store:    store,
		clock:    clock,
		interval: interval,
		refresh:  make(chan struct{}, 1),
	}
}

// SetNotifier sets where completion notifications go
func (p *Poller) SetNotifier(n Notifier) {
	p.notifier = n
}

// SetReportPresenter sets where incoming combat reports are shown
func (p *Poller) SetReportPresenter(r ReportPresenter) {
	p.reports = r
}

// Refresh requests an out-of-cycle poll. Requests made while one is
// already pending are coalesced.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Run polls immediately, then on every tick and refresh request, until ctx
// is cancelled or the session ends. Polls may overlap; the store orders them.
func (p *Poller) Run(ctx context.Context) {
	logger := logging.Component(ctx, "poller")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.inflight.Wait()

	logger.Info("planet poller started", "interval", p.interval.String())
	p.spawn(ctx)

	for {
		select {
		case <-ticker.C:
		case <-p.refresh:
		case <-ctx.Done():
			logger.Info("planet poller stopped")
			return
		}

		if !p.sessions.Current().Valid() {
			logger.Info("planet poller stopped: no session")
			return
		}
		p.spawn(ctx)
	}
}

func (p *Poller) spawn(ctx context.Context) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		_ = p.PollOnce(ctx)
	}()
}

// PollOnce performs one fetch-normalize-apply cycle synchronously
func (p *Poller) PollOnce(ctx context.Context) error {
	s := p.sessions.Current()
	if !s.Valid() {
		return shared.NewNoSessionError()
	}

	seq := p.store.NextSeq()
	start := time.Now()

	payload, err := p.client.GetPlanet(ctx, s.PlanetID, s.Token)
	if err != nil {
		return p.handleFailure(ctx, err, time.Since(start))
	}

	snap := planet.Normalize(payload).WithFetchedAt(p.clock.Now())
	prev, applied := p.store.Apply(seq, snap)
	if !applied {
		metrics.RecordPoll(OutcomeStale, time.Since(start).Seconds())
		logging.Component(ctx, "poller").Debug("discarded stale planet response", "seq", seq)
		return nil
	}
	metrics.RecordPoll(OutcomeApplied, time.Since(start).Seconds())

	p.processChanges(ctx, s, prev, snap)
	return nil
}

// Install applies a planet that arrived outside the poll cycle, such as the
// one returned with an expedition launch, and derives notifications from it
// exactly as a poll would.
func (p *Poller) Install(ctx context.Context, snap *planet.Snapshot) bool {
	prev, applied := p.store.Replace(snap)
	if !applied {
		return false
	}
	if s := p.sessions.Current(); s.Valid() {
		p.processChanges(ctx, s, prev, snap)
	}
	return true
}

func (p *Poller) handleFailure(ctx context.Context, err error, elapsed time.Duration) error {
	logger := logging.Component(ctx, "poller")

	switch {
	case shared.IsAuthorizationError(err):
		metrics.RecordPoll(OutcomeUnauthorized, elapsed.Seconds())
		logger.Warn("server rejected session, logging out", "error", err)
		p.endSession(ctx)
	case errors.Is(err, context.Canceled):
		// shutting down
	default:
		metrics.RecordPoll(OutcomeNetworkError, elapsed.Seconds())
		logger.Warn(LostLinkMessage, "error", err)
	}
	return err
}

func (p *Poller) endSession(ctx context.Context) {
	p.store.Reset()
	if err := p.sessions.Terminate(ctx, auth.ReasonUnauthorized); err != nil {
		logging.Component(ctx, "poller").Error("failed to clear session", "error", err)
	}
}

func (p *Poller) processChanges(ctx context.Context, s *session.Session, prev, next *planet.Snapshot) {
	for _, n := range planet.DetectChanges(prev, next, p.store.ReportMark()) {
		metrics.RecordNotification(string(n.Kind))

		if n.Kind == planet.NotificationIncomingReport {
			p.surfaceReport(ctx, s, n)
			continue
		}
		if p.notifier != nil {
			p.notifier.Notify(n)
		}
	}
}

// surfaceReport shows an inbound report once and acknowledges it.
// An unreadable report is dropped but still acknowledged.
func (p *Poller) surfaceReport(ctx context.Context, s *session.Session, n planet.Notification) {
	logger := logging.Component(ctx, "poller")

	if !p.store.ClaimReport(n.Fingerprint) {
		return
	}

	parsed, err := report.ParseString(n.RawReport)
	if err != nil {
		logger.Warn("dropping unreadable combat report", "fingerprint", n.Fingerprint.String(), "error", err)
	} else if p.reports != nil {
		p.reports.ShowReport(ctx, parsed)
	}

	if err := p.client.ClearReport(ctx, s.PlanetID, s.Token); err != nil {
		metrics.RecordReportAck(false)
		p.store.ReleaseReport(n.Fingerprint)
		logger.Warn("failed to acknowledge combat report", "fingerprint", n.Fingerprint.String(), "error", err)
		if shared.IsAuthorizationError(err) {
			p.endSession(ctx)
		}
		return
	}
	metrics.RecordReportAck(true)
}
