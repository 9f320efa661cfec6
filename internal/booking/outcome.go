package booking

import "errors"

// ErrInvalidInput marks malformed dates and unrecognized slots. Surfaced
// before any session or store access.
var ErrInvalidInput = errors.New("invalid input")

// Outcome is the terminal result of one state-machine run.
type Outcome string

const (
	OutcomeAlreadyBooked   Outcome = "already_booked"
	OutcomeBooked          Outcome = "booked"
	OutcomeSlotNotFound    Outcome = "slot_not_found"
	OutcomeControlNotFound Outcome = "sign_up_control_not_found"
	OutcomeFailed          Outcome = "failed"
)

// FailReason narrows OutcomeFailed.
type FailReason string

const (
	ReasonAuthFailure         FailReason = "auth_failure"
	ReasonConfirmationTimeout FailReason = "confirmation_timeout"
	ReasonInternal            FailReason = "internal"
)

// Result is what a run resolves to. Err is set only for OutcomeFailed and
// carries the underlying step error for logging.
type Result struct {
	Outcome Outcome
	Reason  FailReason
	Err     error
}

func failed(reason FailReason, err error) Result {
	return Result{Outcome: OutcomeFailed, Reason: reason, Err: err}
}
