package game

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/metrics"
	"github.com/andrescamacho/spaceconquest-go/internal/application/actions"
	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/countdown"
	"github.com/andrescamacho/spaceconquest-go/internal/application/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/application/notify"
	"github.com/andrescamacho/spaceconquest-go/internal/application/polling"
	"github.com/andrescamacho/spaceconquest-go/internal/application/reveal"
	"github.com/andrescamacho/spaceconquest-go/internal/application/world"
	domainGalaxy "github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ranking"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/config"
)

// Options are the collaborators the controller is built from
type Options struct {
	Config   *config.Config
	Client   ports.GameClient
	Sessions session.Repository

	// Clock defaults to RealClock
	Clock shared.Clock

	// Commands records mediator executions; nil disables command metrics
	Commands *metrics.CommandMetricsCollector

	// GalaxyStart is where the galaxy view opens
	GalaxyStart domainGalaxy.Address
}

// Controller owns every client-side component for one process and the
// lifetime of their background tasks. Nothing here is global: a second
// controller is fully independent of the first.
type Controller struct {
	cfg   *config.Config
	clock shared.Clock

	Mediator   mediator.Mediator
	Sessions   *auth.Controller
	Store      *polling.Store
	Poller     *polling.Poller
	Toasts     *notify.Center
	Reveal     *reveal.Reveal
	Countdowns *countdown.Manager
	Dispatcher *actions.Dispatcher
	Galaxy     *galaxy.View

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
	closed bool
}

// New wires the components together. No goroutine is started until Start.
func New(opts Options) (*Controller, error) {
	if opts.Client == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("game client and session repository are required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}

	c := &Controller{
		cfg:      cfg,
		clock:    clock,
		Mediator: mediator.NewMediator(),
		Sessions: auth.NewController(opts.Sessions),
		Store:    polling.NewStore(),
		Toasts:   notify.NewCenter(clock, cfg.Actions.ToastTTL),
		Reveal:   reveal.New(cfg.UI.RevealInterval),
	}

	c.Poller = polling.NewPoller(opts.Client, c.Sessions, c.Store, clock, cfg.Sync.PollInterval)
	c.Poller.SetNotifier(c.Toasts)
	c.Poller.SetReportPresenter(c.Reveal)
	c.Countdowns = countdown.NewManager(clock, c.Poller)
	c.Galaxy = galaxy.NewView(opts.Client, c.Sessions, opts.GalaxyStart)

	// Middleware runs outermost first
	c.Mediator.RegisterMiddleware(metrics.PrometheusMiddleware(opts.Commands))
	c.Mediator.RegisterMiddleware(auth.SessionMiddleware(c.Sessions))

	if err := auth.Register(c.Mediator, opts.Client, c.Sessions, clock); err != nil {
		return nil, fmt.Errorf("failed to register auth handlers: %w", err)
	}
	deps := &actions.Deps{
		Client:    opts.Client,
		Store:     c.Store,
		Refresher: c.Poller,
		Installer: c.Poller,
		Reports:   c.Reveal,
		Clock:     clock,
	}
	if err := actions.Register(c.Mediator, deps); err != nil {
		return nil, fmt.Errorf("failed to register action handlers: %w", err)
	}
	if err := world.Register(c.Mediator, opts.Client); err != nil {
		return nil, fmt.Errorf("failed to register world queries: %w", err)
	}

	tracker := actions.NewTracker(clock, cfg.Actions.SubmitTimeout)
	c.Dispatcher = actions.NewDispatcher(c.Mediator, tracker, c.Toasts, c.Sessions, c.Store)
	return c, nil
}

// Init restores the saved session, if any
func (c *Controller) Init(ctx context.Context) (*session.Session, error) {
	return c.Sessions.Init(ctx)
}

// Login authenticates and persists the session. register selects account creation.
func (c *Controller) Login(ctx context.Context, username, password string, register bool) (*session.Session, error) {
	var cmd mediator.Request = &auth.LoginCommand{Username: username, Password: password}
	if register {
		cmd = &auth.RegisterCommand{Username: username, Password: password}
	}
	resp, err := c.Mediator.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return resp.(*auth.LoginResponse).Session, nil
}

// Logout ends the session; running tasks stop through the session watcher
func (c *Controller) Logout(ctx context.Context) error {
	_, err := c.Mediator.Send(ctx, &auth.LogoutCommand{})
	return err
}

// Start launches the session-scoped background tasks: poller, countdowns,
// action confirmation and toast expiry. They all stop when ctx is cancelled,
// when Stop or Close is called, or when the session ends.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("controller is closed")
	}
	if c.group != nil {
		return fmt.Errorf("controller already started")
	}
	if !c.Sessions.Current().Valid() {
		return shared.NewNoSessionError()
	}

	ended, unsubscribe := c.Sessions.Subscribe()
	runCtx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(runCtx)
	c.cancel = cancel
	c.group = group

	logger := logging.Component(ctx, "game")
	logger.Info("background tasks starting", "username", c.Sessions.Current().Username)

	group.Go(func() error {
		defer unsubscribe()
		select {
		case ev := <-ended:
			logger.Info("session ended, stopping background tasks", "reason", string(ev.Reason))
			c.teardown()
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	group.Go(func() error {
		c.Poller.Run(gctx)
		return nil
	})
	group.Go(func() error {
		c.Countdowns.Run(gctx, c.Store, c.cfg.Sync.CountdownTick)
		return nil
	})
	group.Go(func() error {
		c.Dispatcher.Tracker().Run(gctx, c.Store, 0)
		return nil
	})
	group.Go(func() error {
		c.Toasts.Run(gctx, 0)
		return nil
	})
	return nil
}

// Running reports whether background tasks are active
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.group != nil
}

// Stop cancels the background tasks and waits for them to exit.
// The controller can be started again afterwards.
func (c *Controller) Stop() error {
	c.mu.Lock()
	cancel, group := c.cancel, c.group
	c.cancel, c.group = nil, nil
	c.mu.Unlock()

	if group == nil {
		return nil
	}
	cancel()
	return group.Wait()
}

// Close stops everything including an open report reveal. Further Start calls fail.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	err := c.Stop()
	c.Reveal.Close()
	c.Reveal.Wait()
	return err
}

// teardown drops session-bound state so nothing from the old session leaks
// into the next one
func (c *Controller) teardown() {
	c.Store.Reset()
	c.Dispatcher.Tracker().Reset()
	c.Countdowns.Stop()
	c.Reveal.Close()
	c.Galaxy.Invalidate()
}

// Submit dispatches a game action
func (c *Controller) Submit(ctx context.Context, cmd actions.Command) (*actions.ActionResponse, error) {
	return c.Dispatcher.Submit(ctx, cmd)
}

// Ranking returns the leaderboard and the viewer's row
func (c *Controller) Ranking(ctx context.Context) (*world.GetRankingResponse, error) {
	resp, err := c.Mediator.Send(ctx, &world.GetRankingQuery{})
	if err != nil {
		return nil, err
	}
	return resp.(*world.GetRankingResponse), nil
}

// Reports returns the mission history, newest first
func (c *Controller) Reports(ctx context.Context, limit int) ([]report.HistoryEntry, error) {
	resp, err := c.Mediator.Send(ctx, &world.GetReportsQuery{Limit: limit})
	if err != nil {
		return nil, err
	}
	return resp.(*world.GetReportsResponse).Entries, nil
}

// GameConfig returns the server tuning
func (c *Controller) GameConfig(ctx context.Context) (ranking.GameConfig, error) {
	resp, err := c.Mediator.Send(ctx, &world.GetGameConfigQuery{})
	if err != nil {
		return ranking.GameConfig{}, err
	}
	return resp.(*world.GetGameConfigResponse).Config, nil
}

// Refresh fetches the planet now, outside the poll cycle
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Poller.PollOnce(ctx)
}
