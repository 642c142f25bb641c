package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/metrics"
	"github.com/andrescamacho/spaceconquest-go/internal/adapters/tui"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/pidfile"
)

// NewPlayCommand creates the play command
func NewPlayCommand() *cobra.Command {
	var noLock bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the live dashboard",
		Long: `Open the full-screen dashboard for your planet.

The planet is polled every two seconds while you are logged in. Countdowns
tick locally and trigger a refresh the moment a queue finishes. If no
session is saved the login form is shown first.

Logs are written to the configured log file so they never draw over the
dashboard. Only one dashboard may run per state directory; pass --no-lock
to skip that check.

Keys:
  F1 help   F2 dashboard   F3 galaxy   F4 ranking   F5 reports
  Tab cycles panels, Ctrl+L logs out, q quits

Examples:
  spaceconquest play
  spaceconquest play --config ./staging.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(runtimeOptions{logToFile: true, metrics: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			if !noLock {
				lock := pidfile.New(rt.cfg.UI.PIDFile)
				if err := lock.Acquire(); err != nil {
					return err
				}
				defer func() {
					if err := lock.Release(); err != nil {
						rt.logger.Warn("failed to release pid file", "error", err)
					}
				}()
			}

			ctx, stop := signal.NotifyContext(rt.context(context.Background()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if rt.cfg.Metrics.Enabled {
				server := metrics.NewServer(rt.cfg.Metrics.Address(), rt.cfg.Metrics.Path)
				go func() {
					if err := server.Run(ctx); err != nil {
						rt.logger.Error("metrics server stopped", "error", err)
					}
				}()
				rt.logger.Info("metrics endpoint listening",
					"address", rt.cfg.Metrics.Address(), "path", rt.cfg.Metrics.Path)
			}

			if _, err := rt.game.Init(ctx); err != nil {
				return err
			}

			ui := tui.New(rt.game, rt.prefs, rt.cfg.UI.RefreshFPS)
			go func() {
				<-ctx.Done()
				ui.Stop()
			}()

			if err := ui.Run(ctx); err != nil {
				return fmt.Errorf("dashboard failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLock, "no-lock", false, "Allow a second dashboard on the same state directory")

	return cmd
}
