// Package wod fetches and caches the daily workout description scraped
// from a class detail panel.
package wod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/booking"
	"github.com/example/wod-booker/internal/gym"
	"github.com/example/wod-booker/internal/store"
)

// ErrClassNotFound reports that the crawl slot is not on the calendar, so
// there is no detail panel to read the workout from.
var ErrClassNotFound = errors.New("wod: class not found on calendar")

// Crawler reads the workout text behind the configured crawl slot and
// caches it per day. Content is written at most once per calendar day and
// never proactively invalidated.
type Crawler struct {
	Sessions *gym.Controller
	Nav      *gym.Navigator
	Store    store.Store

	// Account whose login is used for crawling.
	Account booking.Account

	// Slot whose detail panel carries the workout card.
	Slot booking.Slot

	// TTL for cached content; zero keeps it until overwritten.
	TTL time.Duration

	Log *zap.Logger
}

// Fetch returns the day's workout text, crawling it on a cache miss.
func (c *Crawler) Fetch(ctx context.Context, day booking.Date) (string, error) {
	key := booking.WodKey(day)
	if v, err := c.Store.Get(ctx, key); err == nil {
		return v, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	sess, err := c.Sessions.Open(ctx, c.Account.Credentials)
	if err != nil {
		return "", fmt.Errorf("crawl login: %w", err)
	}
	defer sess.Close()

	slot, err := c.Nav.FindSlot(ctx, sess, c.Slot.Label())
	if err != nil {
		return "", err
	}
	if slot == nil {
		return "", ErrClassNotFound
	}
	if err := slot.Click(ctx); err != nil {
		return "", fmt.Errorf("open crawl slot: %w", err)
	}

	content, err := c.Nav.ReadWorkout(ctx, sess)
	if err != nil {
		return "", err
	}
	if content != "" {
		if err := c.Store.Put(ctx, key, content, c.TTL); err != nil {
			return "", err
		}
	}
	c.Log.Info("workout crawled", zap.String("day", day.String()), zap.Int("bytes", len(content)))
	return content, nil
}
