// Package scheduler is the timer-driven entry point: once per day, at the
// configured wall-clock time, it books the default slot for every opted-in
// account and refreshes the WOD cache.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/booking"
	"github.com/example/wod-booker/internal/config"
	"github.com/example/wod-booker/internal/gym"
)

// Booker matches the state machine's entry point.
type Booker interface {
	Execute(ctx context.Context, acct booking.Account, req booking.Request) booking.Result
}

// WodFetcher refreshes the day's workout cache.
type WodFetcher interface {
	Fetch(ctx context.Context, day booking.Date) (string, error)
}

// Scheduler fires the daily run. Duplicate fires are harmless: the booking
// machine short-circuits on the idempotency store and the WOD fetch is
// cached, so the store is the real once-per-day guard.
type Scheduler struct {
	Machine  Booker
	Wod      WodFetcher
	Accounts []config.Account

	// At is the local wall-clock trigger time, "15:04" layout.
	At       string
	Interval time.Duration
	Log      *zap.Logger

	// now is a clock hook for tests.
	now     func() time.Time
	lastRun string
}

func (s *Scheduler) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.tick(ctx)
		}
	}
}

// Due reports whether the daily run should fire at now.
func (s *Scheduler) Due(now time.Time) bool {
	at, err := time.Parse("15:04", s.At)
	if err != nil {
		return false
	}
	trigger := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	return !now.Before(trigger) && s.lastRun != now.Format("2006-01-02")
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.clock()
	if !s.Due(now) {
		return
	}
	s.lastRun = now.Format("2006-01-02")
	s.runDaily(ctx, now)
}

func (s *Scheduler) runDaily(ctx context.Context, now time.Time) {
	today := booking.Today(now)
	for _, a := range s.Accounts {
		if !a.Scheduled {
			continue
		}
		req, err := booking.NewRequest(today, a.DefaultSlot, false)
		if err != nil {
			s.Log.Error("scheduled booking skipped", zap.String("account", a.Name), zap.Error(err))
			continue
		}
		res := s.Machine.Execute(ctx, booking.Account{
			Name:        a.Name,
			Credentials: gym.Credentials{Email: a.Email, Password: a.Password},
		}, req)
		s.Log.Info("scheduled booking finished",
			zap.String("account", a.Name),
			zap.String("outcome", string(res.Outcome)),
		)
	}

	if s.Wod != nil {
		if _, err := s.Wod.Fetch(ctx, today); err != nil {
			s.Log.Warn("scheduled wod crawl failed", zap.Error(err))
		}
	}
}
