package actions

import (
	"context"
	"errors"

	"github.com/andrescamacho/spaceconquest-go/internal/application/auth"
	"github.com/andrescamacho/spaceconquest-go/internal/application/logging"
	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/application/notify"
	"github.com/andrescamacho/spaceconquest-go/internal/application/polling"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// Toast messages for failures that carry no server text
const (
	LostLinkToast      = "Lost link with command."
	SessionExpiredText = "Session expired, please log in again."
	NotLoggedInText    = "Not logged in."
)

// Toaster shows transient messages
type Toaster interface {
	Push(level notify.Level, message string) notify.Toast
}

// Dispatcher submits actions through the mediator and turns their outcome
// into trigger state and toasts
type Dispatcher struct {
	mediator mediator.Mediator
	tracker  *Tracker
	toasts   Toaster
	sessions polling.SessionSource
	store    *polling.Store
}

func NewDispatcher(m mediator.Mediator, tracker *Tracker, toasts Toaster, sessions polling.SessionSource, store *polling.Store) *Dispatcher {
	return &Dispatcher{
		mediator: m,
		tracker:  tracker,
		toasts:   toasts,
		sessions: sessions,
		store:    store,
	}
}

// Tracker exposes trigger state to the display
func (d *Dispatcher) Tracker() *Tracker {
	return d.tracker
}

// Submit sends cmd once. It never retries; failures are shown as toasts and
// returned.
func (d *Dispatcher) Submit(ctx context.Context, cmd Command) (*ActionResponse, error) {
	key := cmd.Key()
	if err := d.tracker.Begin(key); err != nil {
		return nil, err
	}

	resp, err := d.mediator.Send(ctx, cmd)
	if err != nil {
		d.tracker.Fail(key, err)
		d.reportFailure(ctx, key, err)
		return nil, err
	}

	d.tracker.Await(key, cmd.Confirmation())
	if d.store != nil {
		d.tracker.Observe(d.store.Snapshot())
	}

	result, _ := resp.(*ActionResponse)
	if result == nil {
		result = &ActionResponse{}
	}
	if result.Message != "" && d.toasts != nil {
		d.toasts.Push(notify.LevelSuccess, result.Message)
	}
	return result, nil
}

func (d *Dispatcher) reportFailure(ctx context.Context, key Key, err error) {
	logger := logging.Component(ctx, "actions")

	var (
		level   = notify.LevelError
		message string
	)
	switch {
	case shared.IsNoSessionError(err):
		message = NotLoggedInText
	case shared.IsAuthorizationError(err):
		message = SessionExpiredText
		logger.Warn("server rejected session during action", "action", string(key))
		if d.store != nil {
			d.store.Reset()
		}
		if d.sessions != nil {
			if termErr := d.sessions.Terminate(ctx, auth.ReasonUnauthorized); termErr != nil {
				logger.Error("failed to clear session", "error", termErr)
			}
		}
	case shared.IsBusinessError(err):
		message = businessMessage(err)
		level = notify.LevelWarning
	default:
		message = LostLinkToast
		logger.Warn(polling.LostLinkMessage, "action", string(key), "error", err)
	}

	if d.toasts != nil {
		d.toasts.Push(level, message)
	}
}

// businessMessage extracts the innermost business text so server messages
// are shown verbatim rather than with our wrapping prefix
func businessMessage(err error) string {
	for _, extract := range []func(error) (string, bool){
		asMessage[*shared.InsufficientResourcesError],
		asMessage[*shared.QueueBusyError],
		asMessage[*shared.BusinessError],
		asMessage[*shared.ValidationError],
	} {
		if msg, ok := extract(err); ok {
			return msg
		}
	}
	return err.Error()
}

func asMessage[T error](err error) (string, bool) {
	var target T
	if errors.As(err, &target) {
		return target.Error(), true
	}
	return "", false
}
