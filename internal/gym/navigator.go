package gym

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/browser"
)

// ErrConfirmTimeout reports that the sign-up click was issued but the
// success indicator never appeared. The remote state is unknown at that
// point, so this is a failure, never a silent success.
var ErrConfirmTimeout = errors.New("gym: sign-up confirmation timed out")

// Navigator performs the calendar steps over an open Session.
type Navigator struct {
	// SignUpLabels are the captions recognized as the sign-up control.
	// Matching is case-insensitive on trimmed text.
	SignUpLabels []string
	Log          *zap.Logger
}

// FindSlot enumerates the calendar's text elements and returns the first
// one whose trimmed text equals the target label exactly. No fuzzy
// matching; the calendar's label format is the source of truth. A nil
// element with nil error means the calendar does not list the slot.
func (n *Navigator) FindSlot(ctx context.Context, s *Session, label string) (browser.Element, error) {
	if err := s.page.WaitFor(ctx, selCalendar); err != nil {
		return nil, err
	}
	els, err := s.page.Elements(ctx, selCalendarSpans)
	if err != nil {
		return nil, err
	}
	for _, el := range els {
		text, err := el.Text(ctx)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == label {
			return el, nil
		}
	}
	n.Log.Debug("slot label not on calendar", zap.String("label", label), zap.Int("spans", len(els)))
	return nil, nil
}

// OpenSlotDetail clicks the slot and waits for the detail panel.
func (n *Navigator) OpenSlotDetail(ctx context.Context, s *Session, slot browser.Element) error {
	if err := slot.Click(ctx); err != nil {
		return fmt.Errorf("open slot detail: %w", err)
	}
	return s.page.WaitFor(ctx, selDetailPanel)
}

// AlreadySignedUp probes the detail panel for the success indicator, which
// the site shows when the account is already enrolled in the class.
func (n *Navigator) AlreadySignedUp(ctx context.Context, s *Session) (bool, error) {
	return s.page.Exists(ctx, selSuccessAlert)
}

// FindSignUpControl enumerates the detail panel's text elements and matches
// them against the recognized sign-up captions. First match wins; nil with
// nil error means no control is present.
func (n *Navigator) FindSignUpControl(ctx context.Context, s *Session) (browser.Element, error) {
	els, err := s.page.Elements(ctx, selDetailSpans)
	if err != nil {
		return nil, err
	}
	for _, el := range els {
		text, err := el.Text(ctx)
		if err != nil {
			return nil, err
		}
		if n.isSignUpLabel(text) {
			return el, nil
		}
	}
	return nil, nil
}

func (n *Navigator) isSignUpLabel(text string) bool {
	text = strings.TrimSpace(text)
	for _, l := range n.SignUpLabels {
		if strings.EqualFold(text, l) {
			return true
		}
	}
	return false
}

// ConfirmSignUp clicks the control and waits for the success indicator,
// bounded by the session's step timeout. Dry run skips the click and leaves
// the remote state untouched.
func (n *Navigator) ConfirmSignUp(ctx context.Context, s *Session, control browser.Element, dryRun bool) error {
	if dryRun {
		n.Log.Info("dry run, skipping sign-up click")
		return nil
	}
	if err := control.Click(ctx); err != nil {
		return fmt.Errorf("click sign-up control: %w", err)
	}
	if err := s.page.WaitFor(ctx, selSuccessAlert); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			return ErrConfirmTimeout
		}
		return err
	}
	return nil
}

// ReadWorkout waits for the workout card on the slot detail panel and
// returns its text, with the markup's line breaks normalized to newlines.
func (n *Navigator) ReadWorkout(ctx context.Context, s *Session) (string, error) {
	if err := s.page.WaitFor(ctx, selWorkoutCard); err != nil {
		return "", err
	}
	html, err := s.page.InnerHTML(ctx, selWorkoutCard)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(html, "<br>", "\n"), nil
}
