package shared

import (
	"fmt"
	"time"
)

// SubmissionStatus represents the state of a user-triggered action
type SubmissionStatus string

const (
	// SubmissionStatusIdle indicates the trigger is available
	SubmissionStatusIdle SubmissionStatus = "IDLE"

	// SubmissionStatusSubmitting indicates a request is in flight or awaiting
	// the snapshot that confirms it
	SubmissionStatusSubmitting SubmissionStatus = "SUBMITTING"
)

// SubmissionOutcome records how the last submission left the submitting state
type SubmissionOutcome string

const (
	SubmissionOutcomeNone      SubmissionOutcome = ""
	SubmissionOutcomeConfirmed SubmissionOutcome = "CONFIRMED"
	SubmissionOutcomeFailed    SubmissionOutcome = "FAILED"
	SubmissionOutcomeExpired   SubmissionOutcome = "EXPIRED"
)

// SubmissionStateMachine manages the IDLE → SUBMITTING → IDLE cycle of one action.
//
// Invariants:
// - Only one submission may be outstanding at a time
// - Every exit from SUBMITTING records an outcome
// - Clock is injected for testability
//
// Not safe for concurrent use; owners guard it.
type SubmissionStateMachine struct {
	status      SubmissionStatus
	outcome     SubmissionOutcome
	submittedAt *time.Time
	settledAt   *time.Time
	lastError   error
	clock       Clock
}

// NewSubmissionStateMachine creates a new state machine in IDLE state
func NewSubmissionStateMachine(clock Clock) *SubmissionStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}
	return &SubmissionStateMachine{
		status: SubmissionStatusIdle,
		clock:  clock,
	}
}

// Getters

func (sm *SubmissionStateMachine) Status() SubmissionStatus {
	return sm.status
}

func (sm *SubmissionStateMachine) Outcome() SubmissionOutcome {
	return sm.outcome
}

// SubmittedAt returns when the current or last submission began (nil if never)
func (sm *SubmissionStateMachine) SubmittedAt() *time.Time {
	return sm.submittedAt
}

// SettledAt returns when the last submission left SUBMITTING (nil if still pending)
func (sm *SubmissionStateMachine) SettledAt() *time.Time {
	return sm.settledAt
}

func (sm *SubmissionStateMachine) LastError() error {
	return sm.lastError
}

// State transition methods

// Begin transitions from IDLE to SUBMITTING
func (sm *SubmissionStateMachine) Begin() error {
	if sm.status != SubmissionStatusIdle {
		return fmt.Errorf("cannot submit from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = SubmissionStatusSubmitting
	sm.outcome = SubmissionOutcomeNone
	sm.submittedAt = &now
	sm.settledAt = nil
	sm.lastError = nil
	return nil
}

// Confirm returns to IDLE once the server state reflects the action
func (sm *SubmissionStateMachine) Confirm() error {
	return sm.settle(SubmissionOutcomeConfirmed, nil)
}

// Fail returns to IDLE after a rejected or failed request
func (sm *SubmissionStateMachine) Fail(err error) error {
	return sm.settle(SubmissionOutcomeFailed, err)
}

// Expire returns to IDLE when no confirmation arrived in time
func (sm *SubmissionStateMachine) Expire() error {
	return sm.settle(SubmissionOutcomeExpired, nil)
}

func (sm *SubmissionStateMachine) settle(outcome SubmissionOutcome, err error) error {
	if sm.status != SubmissionStatusSubmitting {
		return fmt.Errorf("cannot settle from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = SubmissionStatusIdle
	sm.outcome = outcome
	sm.settledAt = &now
	sm.lastError = err
	return nil
}

// State query methods

func (sm *SubmissionStateMachine) IsSubmitting() bool {
	return sm.status == SubmissionStatusSubmitting
}

// PendingFor reports how long the current submission has been outstanding.
// Returns 0 when idle.
func (sm *SubmissionStateMachine) PendingFor() time.Duration {
	if sm.status != SubmissionStatusSubmitting || sm.submittedAt == nil {
		return 0
	}
	return sm.clock.Now().Sub(*sm.submittedAt)
}
