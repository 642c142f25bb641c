package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spaceconquest",
		Short: "Space Conquest terminal client",
		Long: `spaceconquest is a terminal client for the Space Conquest strategy game.

Run 'spaceconquest play' for the live dashboard: your planet refreshes every
two seconds, construction countdowns tick locally, and combat reports play
out line by line.

Every dashboard action is also available as a one-shot command for scripts.

Examples:
  spaceconquest login --username nova
  spaceconquest play
  spaceconquest status
  spaceconquest upgrade metal
  spaceconquest build light_hunter 10
  spaceconquest galaxy 1 42`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./config.yaml or the state directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewRegisterCommand())
	rootCmd.AddCommand(NewLogoutCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewUpgradeCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewExpeditionCommand())
	rootCmd.AddCommand(NewAttackCommand())
	rootCmd.AddCommand(NewSpyCommand())
	rootCmd.AddCommand(NewRecycleCommand())
	rootCmd.AddCommand(NewGalaxyCommand())
	rootCmd.AddCommand(NewRankingCommand())
	rootCmd.AddCommand(NewReportsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	rootCmd.CompletionOptions = cobra.CompletionOptions{
		DisableDefaultCmd: true,
	}

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
