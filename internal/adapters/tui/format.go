package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"

	"github.com/andrescamacho/spaceconquest-go/internal/application/countdown"
	"github.com/andrescamacho/spaceconquest-go/internal/application/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/application/notify"
	"github.com/andrescamacho/spaceconquest-go/internal/application/reveal"
	"github.com/andrescamacho/spaceconquest-go/internal/application/world"
	domainGalaxy "github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

const (
	accentTag   = "[#ff69b4]"
	mutedTag    = "[gray]"
	okTag       = "[green]"
	warnTag     = "[yellow]"
	errTag      = "[red]"
	colorReset  = "[-]"
	initLabel   = "Initializing..."
	noDataLabel = "Waiting for planet data..."
)

func accentText(s string) string {
	return accentTag + s + colorReset
}

// Timers holds the remaining seconds of every running countdown
type Timers map[planet.TimerField]int64

// timersFrom converts countdown readings for rendering
func timersFrom(readings []countdown.Reading) Timers {
	t := make(Timers, len(readings))
	for _, r := range readings {
		t[r.Field] = r.Remaining
	}
	return t
}

// formatClock renders seconds as mm:ss, or h:mm:ss past an hour
func formatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// amount renders a resource quantity with thousands separators
func amount(v float64) string {
	return humanize.Comma(int64(v))
}

func formatCost(c planet.Cost) string {
	parts := make([]string, 0, 3)
	if c.Metal > 0 {
		parts = append(parts, "M "+amount(c.Metal))
	}
	if c.Crystal > 0 {
		parts = append(parts, "C "+amount(c.Crystal))
	}
	if c.Deuterium > 0 {
		parts = append(parts, "D "+amount(c.Deuterium))
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, "  ")
}

// renderHeader shows planet identity and server speed
func renderHeader(snap *planet.Snapshot, username string, speed float64) string {
	if snap == nil {
		return mutedTag + noDataLabel + colorReset
	}
	return fmt.Sprintf("%s %s  Commander %s  Score ~%s  Speed x%s",
		accentText(tview.Escape(snap.Name)),
		snap.Coordinates.String(),
		tview.Escape(username),
		humanize.Comma(int64(snap.Score())),
		humanize.Ftoa(speed),
	)
}

// renderResources shows stock, predicted hourly production and energy balance
func renderResources(snap *planet.Snapshot, speed float64) string {
	if snap == nil {
		return mutedTag + noDataLabel + colorReset
	}
	prod := snap.Production(speed)
	energyUsed := planet.EnergyConsumption(snap.Mines)
	energyCap := planet.EnergyCapacity(snap.Tech)

	var b strings.Builder
	fmt.Fprintf(&b, "Metal      %12s  %s+%s/h%s\n", amount(snap.Resources.Metal), mutedTag, amount(prod.Metal), colorReset)
	fmt.Fprintf(&b, "Crystal    %12s  %s+%s/h%s\n", amount(snap.Resources.Crystal), mutedTag, amount(prod.Crystal), colorReset)
	fmt.Fprintf(&b, "Deuterium  %12s  %s+%s/h%s\n", amount(snap.Resources.Deuterium), mutedTag, amount(prod.Deuterium), colorReset)
	energyTag := okTag
	if energyUsed > energyCap {
		energyTag = errTag
	}
	fmt.Fprintf(&b, "Energy     %s%12s%s / %s", energyTag, amount(energyUsed), colorReset, amount(energyCap))
	if !snap.Debris.IsEmpty() {
		fmt.Fprintf(&b, "\nDebris     M %s  C %s", amount(snap.Debris.Metal), amount(snap.Debris.Crystal))
	}
	return b.String()
}

// buildingRow is one line of the construction list
type buildingRow struct {
	Building planet.BuildingType
	Text     string
	Enabled  bool
}

// buildingRows lists every building with its next cost. Upgrades are
// disabled while a construction runs or an upgrade is being submitted.
func buildingRows(snap *planet.Snapshot, timers Timers, submitting bool) []buildingRow {
	rows := make([]buildingRow, 0, len(planet.Buildings))
	for _, b := range planet.Buildings {
		row := buildingRow{Building: b}
		if snap == nil {
			row.Text = fmt.Sprintf("%-22s %s-%s", b.Label(), mutedTag, colorReset)
			rows = append(rows, row)
			continue
		}

		level := snap.LevelOf(b)
		cost := snap.NextUpgradeCost(b)
		status := ""
		switch {
		case snap.Building != nil && snap.Building.Type == b:
			status = warnTag + "upgrading " + clockFor(timers, planet.TimerBuilding) + colorReset
		case submitting:
			status = mutedTag + initLabel + colorReset
		case snap.BuildingBusy():
			status = mutedTag + "queue busy" + colorReset
		case snap.Resources.Afford(cost) != nil:
			status = errTag + "short" + colorReset
			row.Enabled = true
		default:
			status = okTag + "ready" + colorReset
			row.Enabled = true
		}
		row.Text = fmt.Sprintf("%-22s Lv %-3d %-28s %s", b.Label(), level, formatCost(cost), status)
		rows = append(rows, row)
	}
	return rows
}

// unitRow is one line of the shipyard or defense list
type unitRow struct {
	Unit    planet.UnitType
	Text    string
	Enabled bool
}

// unitRows lists the units of a category with stock and unit price
func unitRows(snap *planet.Snapshot, category planet.UnitCategory, timers Timers, submitting bool) []unitRow {
	specs := planet.UnitsIn(category)
	rows := make([]unitRow, 0, len(specs))
	for _, spec := range specs {
		row := unitRow{Unit: spec.Type}
		if snap == nil {
			row.Text = fmt.Sprintf("%-18s %s-%s", spec.Label, mutedTag, colorReset)
			rows = append(rows, row)
			continue
		}

		status := okTag + "ready" + colorReset
		switch {
		case snap.Shipyard != nil && snap.Shipyard.Type == spec.Type:
			status = fmt.Sprintf("%sbuilding %d, %s%s", warnTag, snap.Shipyard.Count, clockFor(timers, planet.TimerShipyard), colorReset)
		case submitting:
			status = mutedTag + initLabel + colorReset
		case snap.ShipyardBusy():
			status = mutedTag + "shipyard busy" + colorReset
		default:
			row.Enabled = true
		}
		row.Text = fmt.Sprintf("%-18s x%-6s %-24s atk %-5d def %-6d %s",
			spec.Label, humanize.Comma(int64(snap.CountOf(spec.Type))), formatCost(spec.Cost), spec.Attack, spec.Defense, status)
		rows = append(rows, row)
	}
	return rows
}

// renderExpedition shows the expedition trigger state
func renderExpedition(snap *planet.Snapshot, timers Timers, submitting bool) (string, bool) {
	switch {
	case snap == nil:
		return mutedTag + noDataLabel + colorReset, false
	case submitting:
		return mutedTag + initLabel + colorReset, false
	case snap.ExpeditionActive():
		return warnTag + "Fleet out, returning in " + clockFor(timers, planet.TimerExpedition) + colorReset, false
	default:
		return okTag + "Fleet ready. Press Enter to launch an expedition." + colorReset, true
	}
}

func clockFor(timers Timers, field planet.TimerField) string {
	if left, ok := timers[field]; ok {
		return formatClock(left)
	}
	return "--:--"
}

// renderSlots draws the list mode of the galaxy view
func renderSlots(addr domainGalaxy.Address, slots []domainGalaxy.Slot, selected int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", accentText("System "+addr.String()))
	if len(slots) == 0 {
		b.WriteString(mutedTag + "empty system" + colorReset)
		return b.String()
	}
	for i, s := range slots {
		marker := "  "
		if i == selected {
			marker = accentText("> ")
		}
		if !s.Occupied() {
			fmt.Fprintf(&b, "%s%2d  %s(vacant)%s\n", marker, s.Position, mutedTag, colorReset)
			continue
		}
		flags := ""
		if s.IsMine {
			flags += okTag + " [you]" + colorReset
		}
		if s.HasDebris {
			flags += warnTag + " [debris]" + colorReset
		}
		fmt.Fprintf(&b, "%s%2d  %-20s %-16s%s\n", marker, s.Position, tview.Escape(s.PlanetName), tview.Escape(s.OwnerName), flags)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderStarMap draws the map mode on a width x height character grid
func renderStarMap(m *galaxy.StarMap, current int, width, height int) string {
	if m == nil || width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	for _, star := range m.Stars {
		x := star.X * (width - 1) / 100
		y := star.Y * (height - 1) / 100
		glyph := mutedTag + "." + colorReset
		if summary, ok := m.Summaries[star.System]; ok {
			switch {
			case summary.HasMe:
				glyph = okTag + "@" + colorReset
			case summary.PlanetCount > 0:
				glyph = "*"
			}
		}
		if star.System == current {
			glyph = accentText("O")
		}
		grid[y][x] = glyph
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", accentText(fmt.Sprintf("Galaxy %d", m.Galaxy)))
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	b.WriteString(mutedTag + "@ you  * inhabited  O selected" + colorReset)
	return b.String()
}

// renderRanking draws the leaderboard, highlighting the viewer
func renderRanking(resp *world.GetRankingResponse) string {
	if resp == nil || len(resp.Entries) == 0 {
		return mutedTag + "No ranking yet" + colorReset
	}
	var b strings.Builder
	for _, e := range resp.Entries {
		line := fmt.Sprintf("%4d  %-24s %12s", e.Rank, tview.Escape(e.PlanetName), humanize.Comma(int64(e.Score)))
		if e.IsMine {
			line = accentText(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if resp.Own == nil {
		b.WriteString(mutedTag + "You are not ranked yet" + colorReset)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderReports draws the mission history relative to now
func renderReports(entries []report.HistoryEntry, now time.Time) string {
	if len(entries) == 0 {
		return mutedTag + "No reports" + colorReset
	}
	var b strings.Builder
	for _, e := range entries {
		loot := ""
		if e.LootMetal > 0 || e.LootCrystal > 0 {
			loot = fmt.Sprintf(" loot M %s C %s", amount(e.LootMetal), amount(e.LootCrystal))
		}
		lost := ""
		if e.ShipsLost > 0 {
			lost = fmt.Sprintf(" lost %d", e.ShipsLost)
		}
		fmt.Fprintf(&b, "%-14s %-10s %-20s %s%s%s\n",
			humanize.RelTime(e.Date, now, "ago", "from now"),
			string(e.Mission),
			tview.Escape(e.TargetName),
			tview.Escape(e.Result), loot, lost)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderReportFrame draws the combat modal body. Outcome and loot appear
// only once every log line has been revealed.
func renderReportFrame(f reveal.Frame) string {
	if !f.Open() {
		return ""
	}
	var b strings.Builder
	for _, line := range f.Lines {
		b.WriteString(tview.Escape(line))
		b.WriteString("\n")
	}
	if !f.Done {
		b.WriteString(mutedTag + "..." + colorReset)
		return b.String()
	}

	outcome := f.Report.Outcome()
	tag := warnTag
	switch outcome {
	case report.OutcomeVictory:
		tag = okTag
	case report.OutcomeDefeat:
		tag = errTag
	}
	fmt.Fprintf(&b, "\n%s%s%s\n", tag, outcome, colorReset)
	loot := f.Report.Loot
	if loot.Metal > 0 || loot.Crystal > 0 {
		fmt.Fprintf(&b, "Loot: M %s  C %s\n", amount(loot.Metal), amount(loot.Crystal))
	} else if loot.Total > 0 {
		fmt.Fprintf(&b, "Loot: %s\n", amount(loot.Total))
	}
	for _, line := range f.Report.LossLines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(mutedTag + "Enter to close" + colorReset)
	return b.String()
}

// renderToasts stacks the visible toasts, newest last
func renderToasts(toasts []notify.Toast) string {
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		tag := ""
		switch t.Level {
		case notify.LevelSuccess:
			tag = okTag
		case notify.LevelWarning:
			tag = warnTag
		case notify.LevelError:
			tag = errTag
		}
		lines = append(lines, tag+tview.Escape(t.Message)+colorReset)
	}
	return strings.Join(lines, "\n")
}
