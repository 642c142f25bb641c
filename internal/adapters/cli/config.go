package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect client configuration",
		Long: `Inspect the effective configuration and the saved preferences.

Configuration is read from config.yaml and SC_* environment variables,
e.g. SC_SERVER_BASE_URL or SC_SYNC_POLL_INTERVAL.`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			printConfig(out, cfg)

			prefs, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			uc, err := prefs.Load()
			if err != nil {
				return fmt.Errorf("failed to load preferences: %w", err)
			}

			fmt.Fprintln(out, "\nPreferences:")
			fmt.Fprintf(out, "  File:            %s\n", prefs.GetConfigPath())
			if uc.LastUsername != "" {
				fmt.Fprintf(out, "  Last Username:   %s\n", uc.LastUsername)
			} else {
				fmt.Fprintln(out, "  Last Username:   (not set)")
			}
			if uc.LastGalaxy > 0 {
				fmt.Fprintf(out, "  Last System:     %d:%d\n", uc.LastGalaxy, uc.LastSystem)
			}
			return nil
		},
	}

	return cmd
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Server:")
	fmt.Fprintf(out, "  Base URL:        %s\n", cfg.Server.BaseURL)
	fmt.Fprintf(out, "  Timeout:         %s\n", cfg.Server.Timeout)
	fmt.Fprintf(out, "  Rate Limit:      %d req/s (burst %d)\n", cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Burst)
	fmt.Fprintf(out, "  Read Retries:    %d\n", cfg.Server.Retry.MaxAttempts)

	fmt.Fprintln(out, "\nSync:")
	fmt.Fprintf(out, "  Poll Interval:   %s\n", cfg.Sync.PollInterval)
	fmt.Fprintf(out, "  Countdown Tick:  %s\n", cfg.Sync.CountdownTick)

	fmt.Fprintln(out, "\nActions:")
	fmt.Fprintf(out, "  Submit Timeout:  %s\n", cfg.Actions.SubmitTimeout)
	fmt.Fprintf(out, "  Toast TTL:       %s\n", cfg.Actions.ToastTTL)

	fmt.Fprintln(out, "\nDashboard:")
	fmt.Fprintf(out, "  Reveal Interval: %s\n", cfg.UI.RevealInterval)
	fmt.Fprintf(out, "  Refresh FPS:     %d\n", cfg.UI.RefreshFPS)
	fmt.Fprintf(out, "  PID File:        %s\n", cfg.UI.PIDFile)

	fmt.Fprintln(out, "\nSession Store:")
	fmt.Fprintf(out, "  Type:            %s\n", cfg.Database.Type)
	if cfg.Database.Type == "sqlite" {
		fmt.Fprintf(out, "  Path:            %s\n", cfg.Database.Path)
	} else {
		fmt.Fprintln(out, "  URL:             (set)")
	}

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:           %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:          %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:          %s\n", cfg.Logging.Output)
	fmt.Fprintf(out, "  File:            %s\n", cfg.Logging.FilePath)

	fmt.Fprintln(out, "\nMetrics:")
	fmt.Fprintf(out, "  Enabled:         %t\n", cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Endpoint:        http://%s%s\n", cfg.Metrics.Address(), cfg.Metrics.Path)
	}
}
