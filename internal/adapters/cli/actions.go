package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/spaceconquest-go/internal/application/actions"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
)

// submitAction restores the session, loads the planet so local checks see
// current resources, and submits cmd
func submitAction(cmd *cobra.Command, action actions.Command) error {
	rt, err := openRuntime(runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithTimeout(rt.context(cmd.Context()), 15*time.Second)
	defer cancel()

	if _, err := rt.requireSession(ctx); err != nil {
		return err
	}
	if err := rt.game.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to fetch planet: %w", err)
	}

	resp, err := rt.game.Submit(ctx, action)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ %s\n", resp.Message)
	if resp.Report != nil {
		fmt.Fprintln(out)
		printReport(out, resp.Report)
	}
	return nil
}

// NewUpgradeCommand creates the upgrade command
func NewUpgradeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade <building>",
		Short: "Start the next level of a mine or technology",
		Long: `Start upgrading a building. Only one building or technology can be under
construction at a time, and the full cost must be in stock.

Buildings: metal, crystal, deuterium, research, energy_tech, laser, espionage

Examples:
  spaceconquest upgrade metal
  spaceconquest upgrade espionage`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			building, err := planet.ParseBuildingType(args[0])
			if err != nil {
				return err
			}
			return submitAction(cmd, &actions.UpgradeBuildingCommand{Building: building})
		},
	}

	return cmd
}

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <unit> <quantity>",
		Short: "Order ships or defenses from the shipyard",
		Long: `Queue a batch of ships or defenses. The shipyard builds one batch at a time.

Units: light_hunter, cruiser, recycler, spy_probe, missile_launcher, plasma_turret

Examples:
  spaceconquest build light_hunter 10
  spaceconquest build plasma_turret 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := planet.ParseUnitType(args[0])
			if err != nil {
				return err
			}
			qty, err := parseCount("quantity", args[1])
			if err != nil {
				return err
			}
			return submitAction(cmd, &actions.BuildUnitsCommand{Unit: unit, Quantity: qty})
		},
	}

	return cmd
}

// NewExpeditionCommand creates the expedition command
func NewExpeditionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expedition",
		Short: "Send your light hunters against the pirates",
		Long: `Launch an expedition with every light hunter on the planet. The battle
report is printed as soon as the server resolves it.

Examples:
  spaceconquest expedition`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitAction(cmd, &actions.LaunchExpeditionCommand{})
		},
	}

	return cmd
}

// NewAttackCommand creates the attack command
func NewAttackCommand() *cobra.Command {
	var hunters, cruisers int

	cmd := &cobra.Command{
		Use:   "attack <planet-id>",
		Short: "Raid another commander's planet",
		Long: `Send hunters and cruisers against a planet. Find planet ids with
'spaceconquest galaxy'.

Examples:
  spaceconquest attack 7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11 --hunters 20 --cruisers 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitAction(cmd, &actions.AttackCommand{
				TargetPlanetID: args[0],
				Hunters:        hunters,
				Cruisers:       cruisers,
			})
		},
	}

	cmd.Flags().IntVar(&hunters, "hunters", 0, "Light hunters to send")
	cmd.Flags().IntVar(&cruisers, "cruisers", 0, "Cruisers to send")

	return cmd
}

// NewSpyCommand creates the spy command
func NewSpyCommand() *cobra.Command {
	var probes int

	cmd := &cobra.Command{
		Use:   "spy <planet-id>",
		Short: "Send espionage probes to a planet",
		Long: `Send spy probes to a planet and print what they saw.

Examples:
  spaceconquest spy 7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11 --probes 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitAction(cmd, &actions.SpyCommand{TargetPlanetID: args[0], Probes: probes})
		},
	}

	cmd.Flags().IntVar(&probes, "probes", 1, "Spy probes to send")

	return cmd
}

// NewRecycleCommand creates the recycle command
func NewRecycleCommand() *cobra.Command {
	var recyclers int

	cmd := &cobra.Command{
		Use:   "recycle <planet-id>",
		Short: "Harvest the debris field orbiting a planet",
		Long: `Send recyclers to collect a debris field left after combat.

Examples:
  spaceconquest recycle 7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11 --recyclers 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitAction(cmd, &actions.RecycleCommand{TargetPlanetID: args[0], Recyclers: recyclers})
		},
	}

	cmd.Flags().IntVar(&recyclers, "recyclers", 1, "Recyclers to send")

	return cmd
}

func parseCount(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive whole number, got %q", name, raw)
	}
	return n, nil
}
