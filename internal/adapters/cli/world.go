package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/spaceconquest-go/internal/application/world"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

// NewGalaxyCommand creates the galaxy command
func NewGalaxyCommand() *cobra.Command {
	var overview bool

	cmd := &cobra.Command{
		Use:   "galaxy [galaxy] [system]",
		Short: "Scan a solar system",
		Long: `List the planets of a solar system with their owners and debris fields.
Without arguments the system you looked at last is scanned. With --overview
every system of the galaxy is summarized instead.

Examples:
  spaceconquest galaxy 1 42
  spaceconquest galaxy 2 --overview`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(rt.context(cmd.Context()), 10*time.Second)
			defer cancel()

			if _, err := rt.requireSession(ctx); err != nil {
				return err
			}

			view := rt.game.Galaxy
			addr := view.Current()
			if len(args) > 0 {
				g, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid galaxy %q", args[0])
				}
				system := addr.System
				if len(args) > 1 {
					if system, err = strconv.Atoi(args[1]); err != nil {
						return fmt.Errorf("invalid system %q", args[1])
					}
				}
				if addr, err = view.Goto(g, system); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if overview {
				summaries, err := view.Overview(ctx, addr.Galaxy)
				if err != nil {
					return fmt.Errorf("failed to scan galaxy: %w", err)
				}
				printOverview(out, addr.Galaxy, summaries)
				return nil
			}

			slots, err := view.Scan(ctx, addr)
			if err != nil {
				return fmt.Errorf("failed to scan system: %w", err)
			}
			if err := rt.prefs.SetLastSystem(addr.Galaxy, addr.System); err != nil {
				rt.logger.Warn("failed to save preferences", "error", err)
			}
			printSystem(out, addr, slots)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overview, "overview", false, "Summarize every system of the galaxy")

	return cmd
}

func printSystem(out io.Writer, addr galaxy.Address, slots []galaxy.Slot) {
	fmt.Fprintf(out, "System %s\n\n", addr)
	if len(slots) == 0 {
		fmt.Fprintln(out, "No planets in this system.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tPLANET\tOWNER\tDEBRIS\tPLANET ID")
	fmt.Fprintln(w, "---\t------\t-----\t------\t---------")
	for _, slot := range slots {
		if !slot.Occupied() {
			fmt.Fprintf(w, "%d\t-\t-\t-\t-\n", slot.Position)
			continue
		}
		owner := slot.OwnerName
		if slot.IsMine {
			owner += " (you)"
		}
		debris := "-"
		if slot.HasDebris {
			debris = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", slot.Position, slot.PlanetName, owner, debris, slot.PlanetID)
	}
	w.Flush()
}

func printOverview(out io.Writer, galaxyNumber int, summaries []galaxy.SystemSummary) {
	fmt.Fprintf(out, "Galaxy %d\n\n", galaxyNumber)
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No inhabited systems.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tPLANETS\tYOURS")
	fmt.Fprintln(w, "------\t-------\t-----")
	for _, s := range summaries {
		mine := ""
		if s.HasMe {
			mine = "✓"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\n", s.System, s.PlanetCount, mine)
	}
	w.Flush()
}

// NewRankingCommand creates the ranking command
func NewRankingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Show the leaderboard",
		Long: `Show every ranked planet by score. Your own row is marked.

Examples:
  spaceconquest ranking`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(rt.context(cmd.Context()), 10*time.Second)
			defer cancel()

			if _, err := rt.requireSession(ctx); err != nil {
				return err
			}
			resp, err := rt.game.Ranking(ctx)
			if err != nil {
				return fmt.Errorf("failed to load ranking: %w", err)
			}
			printRanking(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	return cmd
}

func printRanking(out io.Writer, resp *world.GetRankingResponse) {
	if len(resp.Entries) == 0 {
		fmt.Fprintln(out, "Nobody is ranked yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLANET\tSCORE\t")
	fmt.Fprintln(w, "----\t------\t-----\t")
	for _, e := range resp.Entries {
		marker := ""
		if e.IsMine {
			marker = "<- you"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Rank, e.PlanetName, humanize.Comma(int64(e.Score)), marker)
	}
	w.Flush()

	if resp.Own == nil {
		fmt.Fprintln(out, "\nYou are not ranked yet.")
	}
}

// NewReportsCommand creates the reports command
func NewReportsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Show your mission history",
		Long: `List past attacks, defenses, expeditions, spy runs and recycling missions,
newest first.

Examples:
  spaceconquest reports
  spaceconquest reports --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(rt.context(cmd.Context()), 10*time.Second)
			defer cancel()

			if _, err := rt.requireSession(ctx); err != nil {
				return err
			}
			entries, err := rt.game.Reports(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to load reports: %w", err)
			}
			printHistory(cmd.OutOrStdout(), entries, time.Now())
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of reports (0 for all)")

	return cmd
}

func printHistory(out io.Writer, entries []report.HistoryEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No missions yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tMISSION\tTARGET\tRESULT\tLOOT M\tLOOT C\tSHIPS LOST")
	fmt.Fprintln(w, "----\t-------\t------\t------\t------\t------\t----------")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			humanize.RelTime(e.Date, now, "ago", "from now"),
			e.Mission,
			e.TargetName,
			e.Result,
			humanize.Comma(int64(e.LootMetal)),
			humanize.Comma(int64(e.LootCrystal)),
			e.ShipsLost,
		)
	}
	w.Flush()
}
