// Package booking holds the request/outcome model and the state machine
// that drives one booking attempt end to end.
package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/gym"
	"github.com/example/wod-booker/internal/store"
)

// bookedMarker is the value stored under a booking key. The historical
// store already holds "1" markers, so the format stays.
const bookedMarker = "1"

// Account pairs the caller identity used in booking keys with the gym
// credentials used to act on its behalf.
type Account struct {
	Name        string
	Credentials gym.Credentials
}

// Machine runs the booking flow:
//
//	CheckCache -> OpenSession -> LocateSlot -> OpenDetail ->
//	LocateSignUpControl -> Confirm
//
// Every run resolves to exactly one terminal Result. Slot or control not
// being present is a benign outcome, not an error: the calendar may simply
// not list the class yet. The session is closed on every exit path.
type Machine struct {
	Sessions *gym.Controller
	Nav      *gym.Navigator
	Store    store.Store

	// TTL bounds the lifetime of booked markers. Must cover the booking's
	// validity window so repeats within it short-circuit.
	TTL time.Duration

	Log *zap.Logger
}

// Execute runs one attempt for req under acct. req must have been built
// through NewRequest; Execute performs no input validation of its own.
//
// The cache check and the final write are not atomic: two concurrent
// invocations for the same key can both reach Confirm. The remote UI
// no-ops the second sign-up, which is the accepted second line of defense.
func (m *Machine) Execute(ctx context.Context, acct Account, req Request) Result {
	log := m.Log.With(
		zap.String("account", acct.Name),
		zap.String("date", req.Date.String()),
		zap.String("slot", string(req.Slot)),
		zap.Bool("dry_run", req.DryRun),
	)
	key := req.Key(acct.Name)

	// Cheap check first; a hit avoids burning a browser session.
	switch v, err := m.Store.Get(ctx, key); {
	case err == nil && v == bookedMarker:
		log.Info("already booked, cache hit")
		return Result{Outcome: OutcomeAlreadyBooked}
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return failed(ReasonInternal, err)
	}

	sess, err := m.Sessions.Open(ctx, acct.Credentials)
	if err != nil {
		log.Warn("authentication failed", zap.Error(err))
		return failed(ReasonAuthFailure, err)
	}
	defer sess.Close()

	slot, err := m.Nav.FindSlot(ctx, sess, req.Slot.Label())
	if err != nil {
		return failed(ReasonInternal, err)
	}
	if slot == nil {
		log.Info("slot not on calendar")
		return Result{Outcome: OutcomeSlotNotFound}
	}

	if err := m.Nav.OpenSlotDetail(ctx, sess, slot); err != nil {
		return failed(ReasonInternal, err)
	}

	already, err := m.Nav.AlreadySignedUp(ctx, sess)
	if err != nil {
		return failed(ReasonInternal, err)
	}
	if already {
		// The site knows about a booking the store missed; backfill the
		// marker so the next run short-circuits. Best effort.
		if !req.DryRun {
			if err := m.Store.Put(ctx, key, bookedMarker, m.TTL); err != nil {
				log.Warn("backfill booked marker failed", zap.Error(err))
			}
		}
		log.Info("already signed up on site")
		return Result{Outcome: OutcomeAlreadyBooked}
	}

	control, err := m.Nav.FindSignUpControl(ctx, sess)
	if err != nil {
		return failed(ReasonInternal, err)
	}
	if control == nil {
		log.Info("sign-up control not found")
		return Result{Outcome: OutcomeControlNotFound}
	}

	if err := m.Nav.ConfirmSignUp(ctx, sess, control, req.DryRun); err != nil {
		if errors.Is(err, gym.ErrConfirmTimeout) {
			// The click went out but the indicator never showed. Remote
			// state is unknown; never treat this as success.
			log.Warn("confirmation timed out")
			return failed(ReasonConfirmationTimeout, err)
		}
		return failed(ReasonInternal, err)
	}

	// A probe must never mark the slot as booked.
	if !req.DryRun {
		if err := m.Store.Put(ctx, key, bookedMarker, m.TTL); err != nil {
			return failed(ReasonInternal, err)
		}
	}
	log.Info("class booked")
	return Result{Outcome: OutcomeBooked}
}
