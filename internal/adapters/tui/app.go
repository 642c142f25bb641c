package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/andrescamacho/spaceconquest-go/internal/application/actions"
	"github.com/andrescamacho/spaceconquest-go/internal/application/countdown"
	"github.com/andrescamacho/spaceconquest-go/internal/application/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/application/game"
	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/application/reveal"
	domainGalaxy "github.com/andrescamacho/spaceconquest-go/internal/domain/galaxy"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/config"
)

// Page names
const (
	pageLogin     = "login"
	pageDashboard = "dashboard"
	pageGalaxy    = "galaxy"
	pageRanking   = "ranking"
	pageReports   = "reports"
	pageReport    = "report"
	pagePrompt    = "prompt"
	pageHelp      = "help"
)

const reportsShown = 50

var (
	uiBorderColor = tcell.ColorGray
	uiTitleColor  = tcell.ColorHotPink
)

// App is the interactive terminal client
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	scheduler *frameScheduler
	game      *game.Controller
	prefs     *config.UserConfigHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	header     *tview.TextView
	resources  *tview.TextView
	expedition *tview.TextView
	toasts     *tview.TextView
	buildings  *tview.List
	fleet      *tview.List
	defenses   *tview.List
	galaxyText *tview.TextView
	ranking    *tview.TextView
	reports    *tview.TextView
	modalText  *tview.TextView
	loginForm  *tview.Form
	loginNote  *tview.TextView

	focus focusRing

	mu          sync.Mutex
	timers      Timers
	speed       float64
	fleetRows   []unitRow
	defenseRows []unitRow
	buildRows   []buildingRow
	slots       []domainGalaxy.Slot
	slotIndex   int
	overlay     string
}

// New builds the application; refreshFPS caps redraws per second.
// prefs may be nil.
func New(ctrl *game.Controller, prefs *config.UserConfigHandler, refreshFPS int) *App {
	a := &App{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		game:   ctrl,
		prefs:  prefs,
		timers: Timers{},
		speed:  planet.DefaultSpeed,
	}
	a.scheduler = newFrameScheduler(func(fn func()) { a.app.QueueUpdateDraw(fn) }, refreshFPS, 100*time.Millisecond)

	a.header = newBoxedTextView("")
	a.header.SetBorder(false)
	a.resources = newBoxedTextView("Resources")
	a.expedition = newBoxedTextView("Expedition")
	a.toasts = newBoxedTextView("")
	a.toasts.SetBorder(false)
	a.buildings = newBoxedList("Construction [F6]")
	a.fleet = newBoxedList("Shipyard [F7]")
	a.defenses = newBoxedList("Defenses [F8]")
	a.galaxyText = newBoxedTextView("Galaxy")
	a.ranking = newBoxedTextView("Leaderboard")
	a.ranking.SetScrollable(true)
	a.reports = newBoxedTextView("Reports")
	a.reports.SetScrollable(true)
	a.modalText = newBoxedTextView("Combat Report")
	a.modalText.SetWrap(true)

	a.buildings.SetSelectedFunc(func(i int, _ string, _ string, _ rune) { a.upgrade(i) })
	a.fleet.SetSelectedFunc(func(i int, _ string, _ string, _ rune) { a.promptUnits(planet.CategoryFleet, i) })
	a.defenses.SetSelectedFunc(func(i int, _ string, _ string, _ rune) { a.promptUnits(planet.CategoryDefense, i) })

	dashboard := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(a.resources, 0, 1, false).
			AddItem(a.expedition, 0, 1, false), 7, 0, false).
		AddItem(a.buildings, 0, 3, true).
		AddItem(tview.NewFlex().
			AddItem(a.fleet, 0, 3, false).
			AddItem(a.defenses, 0, 2, false), 0, 2, false).
		AddItem(a.toasts, 3, 0, false).
		AddItem(buildFooter(), 1, 0, false)
	a.focus = newFocusRing(a.buildings, a.fleet, a.defenses)

	a.buildLoginForm()

	a.pages.AddPage(pageLogin, centered(a.loginForm, a.loginNote, 50, 11), true, false)
	a.pages.AddPage(pageDashboard, dashboard, true, false)
	a.pages.AddPage(pageGalaxy, withFooter(a.galaxyText, "Left/Right system  Up/Down slot  m map  a attack  s spy  r recycle  F2 back"), true, false)
	a.pages.AddPage(pageRanking, withFooter(a.ranking, "F2 back"), true, false)
	a.pages.AddPage(pageReports, withFooter(a.reports, "F2 back"), true, false)
	a.pages.AddPage(pageHelp, centered(buildHelp(), nil, 64, 18), true, false)
	a.pages.AddPage(pageReport, centered(a.modalText, nil, 70, 22), true, false)

	a.installKeybindings()
	a.app.SetRoot(a.pages, true)
	return a
}

// Run shows the dashboard, or the login form when no session is restored,
// and blocks until the user quits
func (a *App) Run(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)
	defer a.cancel()

	a.scheduler.Start()
	defer a.scheduler.Stop()
	a.watch()

	if a.game.Sessions.Current().Valid() {
		a.enterGame()
	} else {
		a.pages.SwitchToPage(pageLogin)
	}

	err := a.app.Run()
	a.cancel()
	a.wg.Wait()
	return err
}

// Stop leaves the event loop
func (a *App) Stop() {
	a.app.Stop()
}

// watch follows every source the display pulls from
func (a *App) watch() {
	events, cancelStore := a.game.Store.Subscribe(8)
	toasts, cancelToasts := a.game.Toasts.Subscribe()
	ended, cancelEnded := a.game.Sessions.Subscribe()

	a.game.Countdowns.SetOnChange(func(readings []countdown.Reading) {
		a.mu.Lock()
		a.timers = timersFrom(readings)
		a.mu.Unlock()
		a.schedulePlanet()
		a.scheduleToasts()
	})
	a.game.Reveal.SetOnChange(func(f reveal.Frame) {
		a.scheduler.Schedule("report", func() { a.showFrame(f) })
	})

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancelStore()
		defer cancelToasts()
		defer cancelEnded()
		for {
			select {
			case <-events:
				a.schedulePlanet()
			case <-toasts:
				a.scheduleToasts()
			case ev := <-ended:
				a.scheduler.Schedule("session", func() {
					a.loginNote.SetText(fmt.Sprintf("%sSession ended (%s). Please log in.%s", warnTag, ev.Reason, colorReset))
					a.pages.SwitchToPage(pageLogin)
					a.app.SetFocus(a.loginForm)
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// enterGame starts the background tasks and shows the dashboard
func (a *App) enterGame() {
	logger := logging.Component(a.ctx, "tui")
	// tasks of an ended session are already cancelled; reap them first
	if err := a.game.Stop(); err != nil {
		logger.Warn("previous session tasks ended with error", "error", err)
	}
	if err := a.game.Start(a.ctx); err != nil {
		logger.Error("failed to start background tasks", "error", err)
		a.pages.SwitchToPage(pageLogin)
		return
	}
	a.pages.SwitchToPage(pageDashboard)
	a.focus.set(a.app, 0)
	a.schedulePlanet()

	a.background(func(ctx context.Context) {
		cfg, err := a.game.GameConfig(ctx)
		if err != nil {
			logger.Warn("game config unavailable", "error", err)
			return
		}
		a.mu.Lock()
		a.speed = cfg.SpeedMultiplier
		a.mu.Unlock()
		a.schedulePlanet()
	})
}

// background runs fn off the UI goroutine, bounded by the app lifetime
func (a *App) background(fn func(ctx context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(a.ctx)
	}()
}

func (a *App) schedulePlanet() {
	a.scheduler.Schedule("planet", a.renderPlanet)
}

func (a *App) scheduleToasts() {
	a.scheduler.Schedule("toasts", func() {
		a.toasts.SetText(renderToasts(a.game.Toasts.Active()))
	})
}

// renderPlanet redraws every pane that reads the snapshot. Runs on the UI goroutine.
func (a *App) renderPlanet() {
	snap := a.game.Store.Snapshot()
	tracker := a.game.Dispatcher.Tracker()

	a.mu.Lock()
	timers := a.timers
	speed := a.speed
	a.buildRows = buildingRows(snap, timers, tracker.IsSubmitting(actions.KeyUpgrade))
	a.fleetRows = unitRows(snap, planet.CategoryFleet, timers, tracker.IsSubmitting(actions.KeyShipyard))
	a.defenseRows = unitRows(snap, planet.CategoryDefense, timers, tracker.IsSubmitting(actions.KeyShipyard))
	buildRows, fleetRows, defenseRows := a.buildRows, a.fleetRows, a.defenseRows
	a.mu.Unlock()

	username := ""
	if s := a.game.Sessions.Current(); s != nil {
		username = s.Username
	}
	a.header.SetText(renderHeader(snap, username, speed))
	a.resources.SetText(renderResources(snap, speed))
	text, _ := renderExpedition(snap, timers, tracker.IsSubmitting(actions.KeyExpedition))
	a.expedition.SetText(text)

	texts := make([]string, len(buildRows))
	for i, r := range buildRows {
		texts[i] = r.Text
	}
	setListItems(a.buildings, texts)
	setListItems(a.fleet, unitTexts(fleetRows))
	setListItems(a.defenses, unitTexts(defenseRows))
}

func unitTexts(rows []unitRow) []string {
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Text
	}
	return texts
}

// setListItems replaces item texts while keeping the selection
func setListItems(list *tview.List, texts []string) {
	if list.GetItemCount() != len(texts) {
		current := list.GetCurrentItem()
		list.Clear()
		for _, t := range texts {
			list.AddItem(t, "", 0, nil)
		}
		if current < len(texts) {
			list.SetCurrentItem(current)
		}
		return
	}
	for i, t := range texts {
		list.SetItemText(i, t, "")
	}
}

// submit dispatches cmd off the UI goroutine; outcomes arrive as toasts
func (a *App) submit(cmd actions.Command) {
	a.background(func(ctx context.Context) {
		_, _ = a.game.Submit(ctx, cmd)
		a.schedulePlanet()
	})
	a.schedulePlanet()
}

func (a *App) upgrade(index int) {
	a.mu.Lock()
	if index < 0 || index >= len(a.buildRows) || !a.buildRows[index].Enabled {
		a.mu.Unlock()
		return
	}
	building := a.buildRows[index].Building
	a.mu.Unlock()

	a.submit(&actions.UpgradeBuildingCommand{Building: building})
}

func (a *App) promptUnits(category planet.UnitCategory, index int) {
	a.mu.Lock()
	rows := a.fleetRows
	if category == planet.CategoryDefense {
		rows = a.defenseRows
	}
	if index < 0 || index >= len(rows) || !rows[index].Enabled {
		a.mu.Unlock()
		return
	}
	unit := rows[index].Unit
	a.mu.Unlock()

	a.prompt("Build "+unit.Label(), []string{"Quantity"}, func(values []int) {
		a.submit(&actions.BuildUnitsCommand{Unit: unit, Quantity: values[0]})
	})
}

func (a *App) launchExpedition() {
	_, enabled := renderExpedition(a.game.Store.Snapshot(), a.currentTimers(), a.game.Dispatcher.Tracker().IsSubmitting(actions.KeyExpedition))
	if enabled {
		a.submit(&actions.LaunchExpeditionCommand{})
	}
}

func (a *App) currentTimers() Timers {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timers
}

// prompt asks for one or more positive integers in an overlay form
func (a *App) prompt(title string, labels []string, done func([]int)) {
	form := tview.NewForm()
	for _, label := range labels {
		form.AddInputField(label, "1", 10, tview.InputFieldInteger, nil)
	}
	closePrompt := func() {
		a.pages.RemovePage(pagePrompt)
		a.overlay = ""
		a.focus.set(a.app, a.focus.index)
	}
	form.AddButton("OK", func() {
		values := make([]int, 0, len(labels))
		for _, label := range labels {
			field, _ := form.GetFormItemByLabel(label).(*tview.InputField)
			n, err := strconv.Atoi(strings.TrimSpace(field.GetText()))
			if err != nil || n < 0 {
				return
			}
			values = append(values, n)
		}
		closePrompt()
		done(values)
	})
	form.AddButton("Cancel", closePrompt)
	form.SetCancelFunc(closePrompt)
	form.SetBorder(true).SetTitle(title).SetTitleAlign(tview.AlignLeft)
	form.SetBorderColor(uiBorderColor)
	form.SetTitleColor(uiTitleColor)

	a.overlay = pagePrompt
	a.pages.AddPage(pagePrompt, centered(form, nil, 40, 5+2*len(labels)), true, true)
	a.app.SetFocus(form)
}

func (a *App) buildLoginForm() {
	a.loginNote = tview.NewTextView().SetDynamicColors(true)
	last := ""
	if a.prefs != nil {
		if cfg, err := a.prefs.Load(); err == nil {
			last = cfg.LastUsername
		}
	}

	a.loginForm = tview.NewForm().
		AddInputField("Username", last, 24, nil, nil).
		AddPasswordField("Password", "", 24, '*', nil).
		AddButton("Login", func() { a.authenticate(false) }).
		AddButton("Register", func() { a.authenticate(true) }).
		AddButton("Quit", a.Stop)
	a.loginForm.SetBorder(true).SetTitle(accentText("Command Uplink")).SetTitleAlign(tview.AlignLeft)
	a.loginForm.SetBorderColor(uiBorderColor)
}

func (a *App) authenticate(register bool) {
	username := a.loginForm.GetFormItemByLabel("Username").(*tview.InputField).GetText()
	password := a.loginForm.GetFormItemByLabel("Password").(*tview.InputField).GetText()
	a.loginNote.SetText(mutedTag + "Contacting command..." + colorReset)

	a.background(func(ctx context.Context) {
		s, err := a.game.Login(ctx, username, password, register)
		if err != nil {
			a.scheduler.Schedule("session", func() {
				a.loginNote.SetText(errTag + tview.Escape(err.Error()) + colorReset)
			})
			return
		}
		if a.prefs != nil {
			if err := a.prefs.SetLastUsername(s.Username); err != nil {
				logging.Component(ctx, "tui").Warn("failed to save preferences", "error", err)
			}
		}
		a.scheduler.Schedule("session", func() {
			a.loginForm.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
			a.loginNote.SetText("")
			a.enterGame()
		})
	})
}

// showFrame opens, updates or closes the combat modal
func (a *App) showFrame(f reveal.Frame) {
	if !f.Open() {
		a.pages.HidePage(pageReport)
		if a.overlay == pageReport {
			a.overlay = ""
			a.focus.set(a.app, a.focus.index)
		}
		return
	}
	title := "Report"
	if f.Report.IsDefense {
		title = "Incoming Attack"
	}
	a.modalText.SetTitle(accentText(title))
	a.modalText.SetText(renderReportFrame(f))
	if a.overlay != pageReport {
		a.overlay = pageReport
		a.pages.ShowPage(pageReport)
		a.pages.SendToFront(pageReport)
	}
}

// Galaxy page

func (a *App) showGalaxy() {
	a.pages.SwitchToPage(pageGalaxy)
	a.loadGalaxy()
}

func (a *App) loadGalaxy() {
	view := a.game.Galaxy
	a.galaxyText.SetText(mutedTag + "Scanning " + view.Current().String() + "..." + colorReset)

	a.background(func(ctx context.Context) {
		addr := view.Current()
		if view.Mode() == galaxy.ModeMap {
			m, err := view.Map(ctx)
			a.scheduler.Schedule("galaxy", func() {
				if err != nil {
					a.galaxyText.SetText(errTag + tview.Escape(err.Error()) + colorReset)
					return
				}
				_, _, w, h := a.galaxyText.GetInnerRect()
				a.galaxyText.SetText(renderStarMap(m, addr.System, max(w, 20), max(h-2, 10)))
			})
			return
		}

		slots, err := view.Scan(ctx, addr)
		a.scheduler.Schedule("galaxy", func() {
			if err != nil {
				a.galaxyText.SetText(errTag + tview.Escape(err.Error()) + colorReset)
				return
			}
			a.mu.Lock()
			a.slots = slots
			if a.slotIndex >= len(slots) {
				a.slotIndex = 0
			}
			index := a.slotIndex
			a.mu.Unlock()
			a.galaxyText.SetText(renderSlots(addr, slots, index))
		})
	})

	if a.prefs != nil {
		addr := view.Current()
		_ = a.prefs.SetLastSystem(addr.Galaxy, addr.System)
	}
}

func (a *App) moveSlot(delta int) {
	a.mu.Lock()
	n := len(a.slots)
	if n == 0 {
		a.mu.Unlock()
		return
	}
	a.slotIndex = (a.slotIndex + delta + n) % n
	slots, index := a.slots, a.slotIndex
	a.mu.Unlock()
	a.galaxyText.SetText(renderSlots(a.game.Galaxy.Current(), slots, index))
}

func (a *App) selectedSlot() (domainGalaxy.Slot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.slotIndex < 0 || a.slotIndex >= len(a.slots) {
		return domainGalaxy.Slot{}, false
	}
	return a.slots[a.slotIndex], true
}

func (a *App) mission(kind actions.Key) {
	slot, ok := a.selectedSlot()
	if !ok {
		return
	}
	switch kind {
	case actions.KeyAttack:
		if !slot.CanAttack() {
			return
		}
		a.prompt("Attack "+slot.PlanetName, []string{"Hunters", "Cruisers"}, func(v []int) {
			a.submit(&actions.AttackCommand{TargetPlanetID: slot.PlanetID, Hunters: v[0], Cruisers: v[1]})
		})
	case actions.KeySpy:
		if !slot.CanSpy() {
			return
		}
		a.prompt("Spy on "+slot.PlanetName, []string{"Probes"}, func(v []int) {
			a.submit(&actions.SpyCommand{TargetPlanetID: slot.PlanetID, Probes: v[0]})
		})
	case actions.KeyRecycle:
		if !slot.CanRecycle() {
			return
		}
		a.prompt("Recycle debris at "+slot.PlanetName, []string{"Recyclers"}, func(v []int) {
			a.submit(&actions.RecycleCommand{TargetPlanetID: slot.PlanetID, Recyclers: v[0]})
		})
	}
}

// World pages

func (a *App) showRanking() {
	a.pages.SwitchToPage(pageRanking)
	a.ranking.SetText(mutedTag + "Loading..." + colorReset)
	a.background(func(ctx context.Context) {
		resp, err := a.game.Ranking(ctx)
		a.scheduler.Schedule("ranking", func() {
			if err != nil {
				a.ranking.SetText(errTag + tview.Escape(err.Error()) + colorReset)
				return
			}
			a.ranking.SetText(renderRanking(resp))
		})
	})
}

func (a *App) showReports() {
	a.pages.SwitchToPage(pageReports)
	a.reports.SetText(mutedTag + "Loading..." + colorReset)
	a.background(func(ctx context.Context) {
		entries, err := a.game.Reports(ctx, reportsShown)
		a.scheduler.Schedule("reports", func() {
			if err != nil {
				a.reports.SetText(errTag + tview.Escape(err.Error()) + colorReset)
				return
			}
			a.reports.SetText(renderReports(entries, time.Now()))
		})
	})
}

func (a *App) installKeybindings() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}

		// Overlays own the keyboard
		switch a.overlay {
		case pageReport:
			switch event.Key() {
			case tcell.KeyEnter, tcell.KeyEsc:
				a.game.Reveal.Close()
			case tcell.KeyRune:
				if event.Rune() == ' ' {
					a.game.Reveal.Skip()
				}
			}
			return nil
		case pagePrompt:
			return event
		case pageHelp:
			if event.Key() == tcell.KeyEsc || event.Key() == tcell.KeyF1 {
				a.pages.HidePage(pageHelp)
				a.overlay = ""
			}
			return nil
		}

		front, _ := a.pages.GetFrontPage()
		if front == pageLogin {
			return event
		}

		switch event.Key() {
		case tcell.KeyF1:
			a.overlay = pageHelp
			a.pages.ShowPage(pageHelp)
			return nil
		case tcell.KeyF2:
			a.pages.SwitchToPage(pageDashboard)
			a.focus.set(a.app, a.focus.index)
			return nil
		case tcell.KeyF3:
			a.showGalaxy()
			return nil
		case tcell.KeyF4:
			a.showRanking()
			return nil
		case tcell.KeyF5:
			a.showReports()
			return nil
		case tcell.KeyF6, tcell.KeyF7, tcell.KeyF8:
			a.pages.SwitchToPage(pageDashboard)
			a.focus.set(a.app, int(event.Key()-tcell.KeyF6))
			return nil
		case tcell.KeyTab:
			a.focus.cycle(a.app, 1)
			return nil
		case tcell.KeyBacktab:
			a.focus.cycle(a.app, -1)
			return nil
		case tcell.KeyCtrlL:
			a.background(func(ctx context.Context) { _ = a.game.Logout(ctx) })
			return nil
		}

		if front == pageGalaxy {
			return a.galaxyKeys(event)
		}

		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'q':
				a.Stop()
				return nil
			case 'e':
				a.launchExpedition()
				return nil
			case 'g':
				a.showGalaxy()
				return nil
			}
		}
		return event
	})
}

func (a *App) galaxyKeys(event *tcell.EventKey) *tcell.EventKey {
	view := a.game.Galaxy
	switch event.Key() {
	case tcell.KeyLeft:
		view.Prev()
		a.loadGalaxy()
		return nil
	case tcell.KeyRight:
		view.Next()
		a.loadGalaxy()
		return nil
	case tcell.KeyUp:
		a.moveSlot(-1)
		return nil
	case tcell.KeyDown:
		a.moveSlot(1)
		return nil
	case tcell.KeyEsc:
		a.pages.SwitchToPage(pageDashboard)
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'm':
			view.ToggleMode()
			a.loadGalaxy()
		case 'a':
			a.mission(actions.KeyAttack)
		case 's':
			a.mission(actions.KeySpy)
		case 'r':
			a.mission(actions.KeyRecycle)
		case 'q':
			a.Stop()
		}
		return nil
	}
	return event
}

// Layout helpers

func newBoxedTextView(title string) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	tv.SetBorder(true)
	if title != "" {
		tv.SetTitle(accentText(title)).SetTitleAlign(tview.AlignLeft)
	}
	tv.SetBorderColor(uiBorderColor)
	tv.SetTitleColor(uiTitleColor)
	return tv
}

func newBoxedList(title string) *tview.List {
	list := tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true)
	list.SetBorder(true).SetTitle(accentText(title)).SetTitleAlign(tview.AlignLeft)
	list.SetBorderColor(uiBorderColor)
	return list
}

func buildFooter() *tview.TextView {
	return tview.NewTextView().SetDynamicColors(true).SetText(
		accentText("F1") + "Help  " + accentText("F3") + "Galaxy  " + accentText("F4") + "Ranking  " +
			accentText("F5") + "Reports  " + accentText("e") + "Expedition  " + accentText("Ctrl+L") + "Logout  [q]Quit",
	)
}

func withFooter(body tview.Primitive, keys string) tview.Primitive {
	footer := tview.NewTextView().SetDynamicColors(true).SetText(mutedTag + keys + colorReset)
	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(footer, 1, 0, false)
}

func buildHelp() tview.Primitive {
	help := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	help.SetText(strings.TrimSpace(fmt.Sprintf(`
KEYBOARD HELP

PAGES
  %sF2%s Dashboard  %sF3%s Galaxy  %sF4%s Ranking  %sF5%s Reports
  F6/F7/F8 or Tab  Focus construction / shipyard / defenses

DASHBOARD
  Enter  Upgrade or build the selected row
  e      Launch expedition
  Ctrl+L Logout    q / Ctrl+C Quit

REPORT
  Space  Reveal everything   Enter / Esc  Close
`, accentTag, colorReset, accentTag, colorReset, accentTag, colorReset, accentTag, colorReset)))
	help.SetBorder(true).SetTitle("Help")
	help.SetBorderColor(uiBorderColor)
	help.SetTitleColor(uiTitleColor)
	return help
}

// centered places body (and an optional note below it) in the middle of the screen
func centered(body tview.Primitive, note tview.Primitive, width, height int) tview.Primitive {
	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(body, height, 1, true)
	if note != nil {
		column.AddItem(note, 2, 0, false)
	}
	column.AddItem(nil, 0, 1, false)
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(column, width, 1, true).
		AddItem(nil, 0, 1, false)
}

// focusRing cycles focus between the dashboard lists
type focusRing struct {
	items []*tview.List
	index int
}

func newFocusRing(items ...*tview.List) focusRing {
	return focusRing{items: items}
}

func (r *focusRing) set(app *tview.Application, idx int) {
	if len(r.items) == 0 {
		return
	}
	if idx < 0 || idx >= len(r.items) {
		idx = 0
	}
	r.index = idx
	for i, item := range r.items {
		if i == idx {
			item.SetBorderColor(uiTitleColor)
		} else {
			item.SetBorderColor(uiBorderColor)
		}
	}
	app.SetFocus(r.items[idx])
}

func (r *focusRing) cycle(app *tview.Application, delta int) {
	if len(r.items) == 0 {
		return
	}
	r.set(app, (r.index+delta+len(r.items))%len(r.items))
}
