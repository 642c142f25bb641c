package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/api"
	"github.com/andrescamacho/spaceconquest-go/internal/adapters/metrics"
	"github.com/andrescamacho/spaceconquest-go/internal/adapters/persistence"
	"github.com/andrescamacho/spaceconquest-go/internal/application/game"
	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/config"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/database"
	infraLogging "github.com/andrescamacho/spaceconquest-go/internal/infrastructure/logging"
)

// newGameClient builds the server client; tests swap in a fake
var newGameClient = func(cfg config.ServerConfig) ports.GameClient {
	return api.NewGameServerClient(cfg, nil)
}

type runtimeOptions struct {
	// logToFile keeps log output off the terminal the dashboard draws on
	logToFile bool

	// metrics registers collectors when metrics are enabled in config
	metrics bool
}

// runtime is everything a command needs: config, logger, session store and
// the game controller. Close releases them in reverse order.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	prefs   *config.UserConfigHandler
	game    *game.Controller
	closers []func() error
}

func openRuntime(opts runtimeOptions) (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if opts.logToFile {
		cfg.Logging.Output = "file"
	}

	logger, logCloser, err := infraLogging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: logger}
	rt.closers = append(rt.closers, logCloser.Close)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	rt.closers = append(rt.closers, func() error { return database.Close(db) })

	var commands *metrics.CommandMetricsCollector
	if opts.metrics && cfg.Metrics.Enabled {
		commands, err = metrics.Setup()
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		rt.closers = append(rt.closers, func() error {
			metrics.Reset()
			return nil
		})
	}

	rt.prefs, err = config.NewUserConfigHandler()
	if err != nil {
		rt.Close()
		return nil, err
	}

	ctrl, err := game.New(game.Options{
		Config:      cfg,
		Client:      newGameClient(cfg.Server),
		Sessions:    persistence.NewGormSessionRepository(db),
		Commands:    commands,
		GalaxyStart: rt.galaxyStart(),
	})
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build game controller: %w", err)
	}
	rt.game = ctrl
	rt.closers = append(rt.closers, ctrl.Close)

	return rt, nil
}

// galaxyStart reopens the galaxy view where the user left it
func (r *runtime) galaxyStart() galaxy.Address {
	start := galaxy.Address{Galaxy: galaxy.MinGalaxy, System: galaxy.MinSystem}
	prefs, err := r.prefs.Load()
	if err != nil {
		return start
	}
	if addr, err := galaxy.NewAddress(prefs.LastGalaxy, prefs.LastSystem); err == nil {
		return addr
	}
	return start
}

// context carries the process logger
func (r *runtime) context(parent context.Context) context.Context {
	return logging.WithLogger(parent, r.logger)
}

// requireSession restores the saved session or explains how to get one
func (r *runtime) requireSession(ctx context.Context) (*session.Session, error) {
	s, err := r.game.Init(ctx)
	if err != nil {
		return nil, err
	}
	if !s.Valid() {
		return nil, fmt.Errorf("%w: run 'spaceconquest login' first", shared.NewNoSessionError())
	}
	return s, nil
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.logger.Warn("shutdown step failed", "error", err)
		}
	}
	r.closers = nil
}
