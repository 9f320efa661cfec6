// Package gym drives the remote gym-scheduling site: session login and the
// calendar navigation steps the booking flow is made of.
package gym

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/browser"
)

// ErrAuth reports a failed login: wrong credentials, unreachable login page
// or a post-login page that never showed the calendar.
var ErrAuth = errors.New("gym: authentication failed")

// Credentials for one gym account. Read-only input, never persisted.
type Credentials struct {
	Email    string
	Password string
}

// Controller owns browser sessions against one gym site.
type Controller struct {
	Browser     browser.Browser
	SiteURL     string
	StepTimeout time.Duration
	Log         *zap.Logger
}

// Session is an authenticated page. It is owned exclusively by a single
// invocation and must be closed on every exit path.
type Session struct {
	page browser.Page
	log  *zap.Logger

	closeOnce sync.Once
}

// Open starts a fresh page, walks the login flow and returns only once the
// calendar container is confirmed present. The remote UI can silently fail
// authentication without an HTTP error, so "submit succeeded" alone is
// never trusted. The page is released here on every failure path.
func (c *Controller) Open(ctx context.Context, creds Credentials) (*Session, error) {
	page, err := c.Browser.NewPage(ctx, c.StepTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	s := &Session{page: page, log: c.Log}

	if err := c.login(ctx, page, creds); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (c *Controller) login(ctx context.Context, page browser.Page, creds Credentials) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"open login page", func() error { return page.Navigate(ctx, c.SiteURL) }},
		{"wait login entry", func() error { return page.WaitFor(ctx, selLoginEntry) }},
		{"activate login form", func() error { return page.Click(ctx, selLoginEntry) }},
		{"wait username field", func() error { return page.WaitFor(ctx, selUsernameInput) }},
		{"wait password field", func() error { return page.WaitFor(ctx, selPasswordInput) }},
		{"wait submit button", func() error { return page.WaitFor(ctx, selSubmitButton) }},
		{"type username", func() error { return page.Type(ctx, selUsernameInput, creds.Email) }},
		{"type password", func() error { return page.Type(ctx, selPasswordInput, creds.Password) }},
		{"submit", func() error { return page.Click(ctx, selSubmitButton) }},
		{"wait calendar", func() error { return page.WaitFor(ctx, selCalendar) }},
	}
	for _, st := range steps {
		if err := st.run(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrAuth, st.name, err)
		}
	}
	return nil
}

// Close releases the page. Idempotent; a failing close is logged and
// swallowed so it can never mask the primary outcome.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := s.page.Close(); err != nil {
			s.log.Warn("session close failed", zap.Error(err))
		}
	})
}
