package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/persistence"
	"github.com/andrescamacho/spaceconquest-go/internal/application/actions"
	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/game"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/config"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/database"
	"github.com/andrescamacho/spaceconquest-go/test/helpers"
)

const waitTimeout = 2 * time.Second

// gameContext holds one client wired against the fake game server
type gameContext struct {
	client *helpers.MockGameClient
	db     *gorm.DB
	cfg    *config.Config
	game   *game.Controller
	ctx    context.Context

	ended       <-chan auth.Ended
	unsubscribe func()

	loginErr error
	startErr error
	restored string

	response  *actions.ActionResponse
	actionErr error

	seqs      map[int]uint64
	discarded map[int]bool
}

func InitializeGameScenario(sc *godog.ScenarioContext) {
	c := &gameContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		c.close()
		return ctx, nil
	})

	// Given steps
	sc.Step(`^an account "([^"]*)" with password "([^"]*)"$`, c.anAccountWithPassword)
	sc.Step(`^I am logged in as "([^"]*)"$`, c.iAmLoggedInAs)
	sc.Step(`^my planet has:$`, c.myPlanetHas)
	sc.Step(`^my planet has an unread report:$`, c.myPlanetHasAnUnreadReport)
	sc.Step(`^the next expedition returns:$`, c.theNextExpeditionReturns)
	sc.Step(`^(\d+) polls are in flight$`, c.pollsAreInFlight)
	sc.Step(`^the planet has been received$`, c.thePlanetHasBeenReceived)

	// When steps
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, c.iLogInAsWithPassword)
	sc.Step(`^the client restarts$`, c.theClientRestarts)
	sc.Step(`^I start polling$`, c.iStartPolling)
	sc.Step(`^the server revokes my token$`, c.theServerRevokesMyToken)
	sc.Step(`^I log out$`, c.iLogOut)
	sc.Step(`^I refresh the planet$`, c.iRefreshThePlanet)
	sc.Step(`^I upgrade "([^"]*)"$`, c.iUpgrade)
	sc.Step(`^I build (\d+) "([^"]*)"$`, c.iBuild)
	sc.Step(`^I launch an expedition$`, c.iLaunchAnExpedition)
	sc.Step(`^I attack my own planet with (\d+) hunters$`, c.iAttackMyOwnPlanetWithHunters)
	sc.Step(`^poll (\d+) answers with (\d+) metal$`, c.pollAnswersWithMetal)
	sc.Step(`^the planet state is reset$`, c.thePlanetStateIsReset)
	sc.Step(`^the construction finishes on the server$`, c.theConstructionFinishesOnTheServer)

	// Then steps
	sc.Step(`^the login succeeds$`, c.theLoginSucceeds)
	sc.Step(`^the login fails with "([^"]*)"$`, c.theLoginFailsWith)
	sc.Step(`^a session is saved for "([^"]*)"$`, c.aSessionIsSavedFor)
	sc.Step(`^no session is saved$`, c.noSessionIsSaved)
	sc.Step(`^the restored session belongs to "([^"]*)"$`, c.theRestoredSessionBelongsTo)
	sc.Step(`^starting fails because nobody is logged in$`, c.startingFailsBecauseNobodyIsLoggedIn)
	sc.Step(`^the server received (\d+) "([^"]*)" requests$`, c.theServerReceivedRequests)
	sc.Step(`^the session ends with reason "([^"]*)"$`, c.theSessionEndsWithReason)
	sc.Step(`^no planet is stored$`, c.noPlanetIsStored)
	sc.Step(`^polling stops$`, c.pollingStops)
	sc.Step(`^the action fails with "([^"]*)"$`, c.theActionFailsWith)
	sc.Step(`^the action fails$`, c.theActionFails)
	sc.Step(`^the action succeeds with "([^"]*)"$`, c.theActionSucceedsWith)
	sc.Step(`^a toast says "([^"]*)"$`, c.aToastSays)
	sc.Step(`^the report outcome is "([^"]*)"$`, c.theReportOutcomeIs)
	sc.Step(`^the report outcome shown is "([^"]*)"$`, c.theReportOutcomeShownIs)
	sc.Step(`^the combat report modal is open$`, c.theCombatReportModalIsOpen)
	sc.Step(`^the planet shows an expedition underway$`, c.thePlanetShowsAnExpeditionUnderway)
	sc.Step(`^the stored planet has (\d+) metal$`, c.theStoredPlanetHasMetal)
	sc.Step(`^poll (\d+) was discarded$`, c.pollWasDiscarded)
}

func (c *gameContext) reset() error {
	c.close()

	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.Sync.PollInterval = 20 * time.Millisecond
	cfg.Sync.CountdownTick = 10 * time.Millisecond
	cfg.Actions.SubmitTimeout = time.Second
	cfg.UI.RevealInterval = time.Millisecond

	c.client = helpers.NewMockGameClient()
	c.db = db
	c.cfg = cfg
	c.ctx = context.Background()
	c.loginErr, c.startErr, c.actionErr = nil, nil, nil
	c.restored = ""
	c.response = nil
	c.seqs = make(map[int]uint64)
	c.discarded = make(map[int]bool)
	return c.newController()
}

func (c *gameContext) newController() error {
	ctrl, err := game.New(game.Options{
		Config:   c.cfg,
		Client:   c.client,
		Sessions: persistence.NewGormSessionRepository(c.db),
	})
	if err != nil {
		return err
	}
	c.game = ctrl
	c.ended, c.unsubscribe = ctrl.Sessions.Subscribe()
	return nil
}

func (c *gameContext) close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.game != nil {
		_ = c.game.Close()
		c.game = nil
	}
	if c.db != nil {
		_ = database.Close(c.db)
		c.db = nil
	}
}

// eventually polls cond until it holds or waitTimeout elapses
func eventually(cond func() bool, failure string, args ...interface{}) error {
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf(failure, args...)
}

// Given

func (c *gameContext) anAccountWithPassword(username, password string) error {
	c.client.AddAccount(username, password)
	return nil
}

func (c *gameContext) iAmLoggedInAs(username string) error {
	_, err := c.game.Login(c.ctx, username, "secret", false)
	return err
}

func (c *gameContext) myPlanetHas(table *godog.Table) error {
	payload, err := payloadFromTable(table, planet.Payload{"id": helpers.DefaultPlanetID, "name": "Homeworld"})
	if err != nil {
		return err
	}
	c.client.SetPlanet(payload)
	return nil
}

func (c *gameContext) myPlanetHasAnUnreadReport(doc *godog.DocString) error {
	c.client.UpdatePlanet(func(p planet.Payload) {
		p["unread_report"] = doc.Content
	})
	return nil
}

func (c *gameContext) theNextExpeditionReturns(doc *godog.DocString) error {
	end := time.Now().Add(10 * time.Minute).UTC().Format(time.RFC3339)
	c.client.SetActionResult(helpers.MethodLaunchExpedition, &ports.ActionResult{
		Status: "success",
		Planet: planet.Payload{
			"id":                 helpers.DefaultPlanetID,
			"name":               "Homeworld",
			"light_hunter_count": float64(0),
			"expedition_end":     end,
		},
		Report: []byte(doc.Content),
	})
	return nil
}

func (c *gameContext) pollsAreInFlight(n int) error {
	for i := 1; i <= n; i++ {
		c.seqs[i] = c.game.Store.NextSeq()
	}
	return nil
}

func (c *gameContext) thePlanetHasBeenReceived() error {
	return eventually(func() bool { return c.game.Store.Snapshot() != nil },
		"no planet received within %s", waitTimeout)
}

// When

func (c *gameContext) iLogInAsWithPassword(username, password string) error {
	_, c.loginErr = c.game.Login(c.ctx, username, password, false)
	return nil
}

func (c *gameContext) theClientRestarts() error {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	if err := c.game.Close(); err != nil {
		return err
	}
	if err := c.newController(); err != nil {
		return err
	}
	s, err := c.game.Init(c.ctx)
	if err != nil {
		return err
	}
	if s != nil {
		c.restored = s.Username
	}
	return nil
}

func (c *gameContext) iStartPolling() error {
	c.startErr = c.game.Start(c.ctx)
	return nil
}

func (c *gameContext) theServerRevokesMyToken() error {
	c.client.SetError(helpers.MethodGetPlanet, shared.NewAuthorizationError(401, "token revoked"))
	return nil
}

func (c *gameContext) iLogOut() error {
	return c.game.Logout(c.ctx)
}

func (c *gameContext) iRefreshThePlanet() error {
	return c.game.Refresh(c.ctx)
}

func (c *gameContext) submit(cmd actions.Command) error {
	c.response, c.actionErr = c.game.Submit(c.ctx, cmd)
	return nil
}

func (c *gameContext) iUpgrade(building string) error {
	return c.submit(&actions.UpgradeBuildingCommand{Building: planet.BuildingType(building)})
}

func (c *gameContext) iBuild(qty int, unit string) error {
	return c.submit(&actions.BuildUnitsCommand{Unit: planet.UnitType(unit), Quantity: qty})
}

func (c *gameContext) iLaunchAnExpedition() error {
	return c.submit(&actions.LaunchExpeditionCommand{})
}

func (c *gameContext) iAttackMyOwnPlanetWithHunters(hunters int) error {
	return c.submit(&actions.AttackCommand{TargetPlanetID: helpers.DefaultPlanetID, Hunters: hunters})
}

func (c *gameContext) pollAnswersWithMetal(n, metal int) error {
	seq, ok := c.seqs[n]
	if !ok {
		return fmt.Errorf("poll %d was never issued", n)
	}
	snap := planet.Normalize(planet.Payload{"id": helpers.DefaultPlanetID, "metal_amount": float64(metal)})
	_, applied := c.game.Store.Apply(seq, snap)
	c.discarded[n] = !applied
	return nil
}

func (c *gameContext) thePlanetStateIsReset() error {
	c.game.Store.Reset()
	return nil
}

func (c *gameContext) theConstructionFinishesOnTheServer() error {
	c.client.UpdatePlanet(func(p planet.Payload) {
		delete(p, "construction_end")
		delete(p, "construction_type")
		p["metal_mine_level"] = float64(1)
	})
	return nil
}

// Then

func (c *gameContext) theLoginSucceeds() error {
	return c.loginErr
}

func (c *gameContext) theLoginFailsWith(text string) error {
	if c.loginErr == nil {
		return fmt.Errorf("expected login to fail")
	}
	if !strings.Contains(c.loginErr.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, c.loginErr.Error())
	}
	return nil
}

func (c *gameContext) aSessionIsSavedFor(username string) error {
	s, err := persistence.NewGormSessionRepository(c.db).Load(c.ctx)
	if err != nil {
		return err
	}
	if s == nil || s.Username != username {
		return fmt.Errorf("expected saved session for %q, got %+v", username, s)
	}
	return nil
}

func (c *gameContext) noSessionIsSaved() error {
	repo := persistence.NewGormSessionRepository(c.db)
	return eventually(func() bool {
		s, err := repo.Load(c.ctx)
		return err == nil && s == nil
	}, "a session is still saved")
}

func (c *gameContext) theRestoredSessionBelongsTo(username string) error {
	if c.restored != username {
		return fmt.Errorf("expected restored session for %q, got %q", username, c.restored)
	}
	return nil
}

func (c *gameContext) startingFailsBecauseNobodyIsLoggedIn() error {
	if !shared.IsNoSessionError(c.startErr) {
		return fmt.Errorf("expected no-session error, got %v", c.startErr)
	}
	return nil
}

func (c *gameContext) theServerReceivedRequests(count int, method string) error {
	if got := c.client.CallCount(method); got != count {
		return fmt.Errorf("expected %d %s requests, got %d", count, method, got)
	}
	return nil
}

func (c *gameContext) theSessionEndsWithReason(reason string) error {
	select {
	case ev := <-c.ended:
		if string(ev.Reason) != reason {
			return fmt.Errorf("expected session end reason %q, got %q", reason, ev.Reason)
		}
		return nil
	case <-time.After(waitTimeout):
		return fmt.Errorf("session did not end within %s", waitTimeout)
	}
}

func (c *gameContext) noPlanetIsStored() error {
	return eventually(func() bool { return c.game.Store.Snapshot() == nil },
		"a planet is still stored")
}

func (c *gameContext) pollingStops() error {
	settle := 5 * c.cfg.Sync.PollInterval
	return eventually(func() bool { return c.pollsSettled(settle) }, "polling did not stop")
}

func (c *gameContext) pollsSettled(window time.Duration) bool {
	before := c.client.CallCount(helpers.MethodGetPlanet)
	time.Sleep(window)
	return c.client.CallCount(helpers.MethodGetPlanet) == before
}

func (c *gameContext) theActionFailsWith(text string) error {
	if err := c.theActionFails(); err != nil {
		return err
	}
	if !strings.Contains(c.actionErr.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, c.actionErr.Error())
	}
	return nil
}

func (c *gameContext) theActionFails() error {
	if c.actionErr == nil {
		return fmt.Errorf("expected the action to fail")
	}
	return nil
}

func (c *gameContext) theActionSucceedsWith(message string) error {
	if c.actionErr != nil {
		return fmt.Errorf("expected success, got %v", c.actionErr)
	}
	if c.response.Message != message {
		return fmt.Errorf("expected message %q, got %q", message, c.response.Message)
	}
	return nil
}

func (c *gameContext) aToastSays(text string) error {
	var seen []string
	for _, t := range c.game.Toasts.Active() {
		if strings.Contains(t.Message, text) {
			return nil
		}
		seen = append(seen, t.Message)
	}
	return fmt.Errorf("no toast containing %q, have %q", text, seen)
}

func (c *gameContext) theReportOutcomeIs(outcome string) error {
	if c.response == nil || c.response.Report == nil {
		return fmt.Errorf("the response carried no report")
	}
	return expectOutcome(c.response.Report, outcome)
}

func (c *gameContext) theReportOutcomeShownIs(outcome string) error {
	frame := c.game.Reveal.Frame()
	if !frame.Open() {
		return fmt.Errorf("no report is shown")
	}
	return expectOutcome(frame.Report, outcome)
}

func expectOutcome(rep *report.Report, outcome string) error {
	if got := string(rep.Outcome()); got != outcome {
		return fmt.Errorf("expected outcome %s, got %s", outcome, got)
	}
	return nil
}

func (c *gameContext) theCombatReportModalIsOpen() error {
	if !c.game.Reveal.Frame().Open() {
		return fmt.Errorf("the combat report modal is closed")
	}
	return nil
}

func (c *gameContext) thePlanetShowsAnExpeditionUnderway() error {
	snap := c.game.Store.Snapshot()
	if !snap.ExpeditionActive() {
		return fmt.Errorf("expected an expedition underway")
	}
	if snap.Fleet.LightHunter != 0 {
		return fmt.Errorf("expected the hunters to be away, %d at home", snap.Fleet.LightHunter)
	}
	return nil
}

func (c *gameContext) theStoredPlanetHasMetal(metal int) error {
	snap := c.game.Store.Snapshot()
	if snap == nil {
		return fmt.Errorf("no planet stored")
	}
	if snap.Resources.Metal != float64(metal) {
		return fmt.Errorf("expected %d metal, got %.0f", metal, snap.Resources.Metal)
	}
	return nil
}

func (c *gameContext) pollWasDiscarded(n int) error {
	if !c.discarded[n] {
		return fmt.Errorf("poll %d was applied", n)
	}
	return nil
}
