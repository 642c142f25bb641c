package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show your planet",
		Long: `Fetch your planet once and print resources, buildings, fleet, defenses and
running queues. A combat report waiting in your inbox is printed in full
and marked as read.

Examples:
  spaceconquest status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(rt.context(cmd.Context()), 10*time.Second)
			defer cancel()

			s, err := rt.requireSession(ctx)
			if err != nil {
				return err
			}
			if err := rt.game.Refresh(ctx); err != nil {
				return fmt.Errorf("failed to fetch planet: %w", err)
			}
			snap := rt.game.Store.Snapshot()
			if snap == nil {
				return fmt.Errorf("no planet data received")
			}

			speed := planet.DefaultSpeed
			if gc, err := rt.game.GameConfig(ctx); err == nil && gc.SpeedMultiplier > 0 {
				speed = gc.SpeedMultiplier
			}

			out := cmd.OutOrStdout()
			printPlanet(out, snap, s.Username, speed, time.Now())
			if frame := rt.game.Reveal.Frame(); frame.Open() {
				fmt.Fprintln(out)
				printReport(out, frame.Report)
			}
			return nil
		},
	}

	return cmd
}

func printPlanet(out io.Writer, snap *planet.Snapshot, username string, speed float64, now time.Time) {
	fmt.Fprintf(out, "%s %s\n", snap.Name, snap.Coordinates)
	fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", len(snap.Name)+len(snap.Coordinates.String())+1))
	fmt.Fprintf(out, "Commander:   %s\n", username)
	fmt.Fprintf(out, "Score:       %s\n", humanize.Comma(int64(snap.Score())))
	fmt.Fprintf(out, "Speed:       x%s\n\n", humanize.Ftoa(speed))

	prod := snap.Production(speed)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tSTOCK\tPER HOUR")
	fmt.Fprintln(w, "--------\t-----\t--------")
	fmt.Fprintf(w, "Metal\t%s\t+%s\n", humanize.Comma(int64(snap.Resources.Metal)), humanize.Comma(int64(prod.Metal)))
	fmt.Fprintf(w, "Crystal\t%s\t+%s\n", humanize.Comma(int64(snap.Resources.Crystal)), humanize.Comma(int64(prod.Crystal)))
	fmt.Fprintf(w, "Deuterium\t%s\t+%s\n", humanize.Comma(int64(snap.Resources.Deuterium)), humanize.Comma(int64(prod.Deuterium)))
	w.Flush()
	fmt.Fprintf(out, "Energy:      %s / %s\n",
		humanize.Comma(int64(planet.EnergyConsumption(snap.Mines))),
		humanize.Comma(int64(planet.EnergyCapacity(snap.Tech))))
	if !snap.Debris.IsEmpty() {
		fmt.Fprintf(out, "Debris:      M %s  C %s\n",
			humanize.Comma(int64(snap.Debris.Metal)), humanize.Comma(int64(snap.Debris.Crystal)))
	}
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUILDING\tLEVEL\tNEXT LEVEL COST")
	fmt.Fprintln(w, "--------\t-----\t---------------")
	for _, b := range planet.Buildings {
		fmt.Fprintf(w, "%s\t%d\t%s\n", b.Label(), snap.LevelOf(b), costText(snap.NextUpgradeCost(b)))
	}
	w.Flush()
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UNIT\tKIND\tCOUNT")
	fmt.Fprintln(w, "----\t----\t-----")
	for _, category := range []planet.UnitCategory{planet.CategoryFleet, planet.CategoryDefense} {
		for _, spec := range planet.UnitsIn(category) {
			fmt.Fprintf(w, "%s\t%s\t%d\n", spec.Label, category, snap.CountOf(spec.Type))
		}
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Queues:")
	fmt.Fprintf(out, "  Construction:  %s\n", queueText(snap, planet.TimerBuilding, now))
	fmt.Fprintf(out, "  Shipyard:      %s\n", queueText(snap, planet.TimerShipyard, now))
	fmt.Fprintf(out, "  Expedition:    %s\n", queueText(snap, planet.TimerExpedition, now))
}

func queueText(snap *planet.Snapshot, field planet.TimerField, now time.Time) string {
	end := snap.EndOf(field)
	if end == nil {
		return "idle"
	}
	left := durationText(planet.Remaining(*end, now))
	switch field {
	case planet.TimerBuilding:
		return fmt.Sprintf("%s, %s left", snap.Building.Type.Label(), left)
	case planet.TimerShipyard:
		return fmt.Sprintf("%d x %s, %s left", snap.Shipyard.Count, snap.Shipyard.Type.Label(), left)
	}
	return fmt.Sprintf("returning in %s", left)
}

// durationText prints whole seconds as mm:ss or h:mm:ss
func durationText(seconds int64) string {
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func costText(c planet.Cost) string {
	var parts []string
	if c.Metal > 0 {
		parts = append(parts, "M "+humanize.Comma(int64(c.Metal)))
	}
	if c.Crystal > 0 {
		parts = append(parts, "C "+humanize.Comma(int64(c.Crystal)))
	}
	if c.Deuterium > 0 {
		parts = append(parts, "D "+humanize.Comma(int64(c.Deuterium)))
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, "  ")
}

// printReport prints a combat report in full, without the staged reveal
func printReport(out io.Writer, rep *report.Report) {
	title := "Combat Report"
	if rep.IsDefense {
		title = "Inbound Attack"
	}
	fmt.Fprintf(out, "%s: %s\n", title, rep.Outcome())
	for _, line := range rep.Log {
		fmt.Fprintf(out, "  %s\n", line)
	}
	if rep.Loot.Metal > 0 || rep.Loot.Crystal > 0 {
		fmt.Fprintf(out, "Loot:    M %s  C %s\n",
			humanize.Comma(int64(rep.Loot.Metal)), humanize.Comma(int64(rep.Loot.Crystal)))
	} else if rep.Loot.Total > 0 {
		fmt.Fprintf(out, "Loot:    %s\n", humanize.Comma(int64(rep.Loot.Total)))
	}
	if lines := rep.LossLines(); len(lines) > 0 {
		fmt.Fprintf(out, "Losses:  %s\n", strings.Join(lines, ", "))
	}
}
