// Package browser abstracts the handful of page interactions the booking
// flow needs: open a page, wait for an element, enumerate elements, click,
// read text, type text. The remote site is driven purely through CSS
// selectors and visible text, so keeping this surface small keeps the
// brittle selector logic swappable.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout reports that an element did not appear within the step
// bound. Callers distinguish it from hard driver failures.
var ErrWaitTimeout = errors.New("browser: wait for element timed out")

// Element is a handle to a located DOM node.
type Element interface {
	Text(ctx context.Context) (string, error)
	Click(ctx context.Context) error
}

// Page is one open tab. All waits are bounded by the timeout given at page
// creation; a miss surfaces as ErrWaitTimeout.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string) error
	// Exists probes for a selector without waiting.
	Exists(ctx context.Context, selector string) (bool, error)
	Elements(ctx context.Context, selector string) ([]Element, error)
	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	InnerHTML(ctx context.Context, selector string) (string, error)
	Close() error
}

// Browser creates pages. Implementations own the underlying engine process.
type Browser interface {
	NewPage(ctx context.Context, stepTimeout time.Duration) (Page, error)
	Close() error
}
