package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/booking"
	"github.com/example/wod-booker/internal/config"
)

type fakeBooker struct {
	calls []booking.Request
	names []string
}

func (f *fakeBooker) Execute(_ context.Context, acct booking.Account, req booking.Request) booking.Result {
	f.calls = append(f.calls, req)
	f.names = append(f.names, acct.Name)
	return booking.Result{Outcome: booking.OutcomeBooked}
}

type fakeWod struct{ calls int }

func (f *fakeWod) Fetch(context.Context, booking.Date) (string, error) {
	f.calls++
	return "", nil
}

func newScheduler(b *fakeBooker, w *fakeWod) *Scheduler {
	s := &Scheduler{
		Machine: b,
		Accounts: []config.Account{
			{Name: "vini", Email: "v@example.com", Password: "pw", Token: "t1", Scheduled: true, DefaultSlot: "18:00-19:00"},
			{Name: "ana", Email: "a@example.com", Password: "pw", Token: "t2", Scheduled: false, DefaultSlot: "19:00-20:00"},
		},
		At:  "07:30",
		Log: zap.NewNop(),
	}
	if w != nil {
		s.Wod = w
	}
	return s
}

func TestSchedulerFiresOncePerDay(t *testing.T) {
	b := &fakeBooker{}
	w := &fakeWod{}
	s := newScheduler(b, w)

	now := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.tick(context.Background())
	assert.Empty(t, b.calls, "before the trigger time nothing runs")

	now = time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	s.tick(context.Background())
	require.Len(t, b.calls, 1, "only scheduled accounts run")
	assert.Equal(t, []string{"vini"}, b.names)
	assert.Equal(t, booking.Date{Year: 2024, Month: 6, Day: 1}, b.calls[0].Date)
	assert.Equal(t, booking.Slot1800, b.calls[0].Slot)
	assert.False(t, b.calls[0].DryRun)
	assert.Equal(t, 1, w.calls)

	// Later ticks the same day are no-ops.
	now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s.tick(context.Background())
	assert.Len(t, b.calls, 1)

	// The next day fires again.
	now = time.Date(2024, 6, 2, 7, 31, 0, 0, time.UTC)
	s.tick(context.Background())
	assert.Len(t, b.calls, 2)
	assert.Equal(t, booking.Date{Year: 2024, Month: 6, Day: 2}, b.calls[1].Date)
}

func TestSchedulerSkipsAccountWithBadSlot(t *testing.T) {
	b := &fakeBooker{}
	s := newScheduler(b, nil)
	s.Accounts[0].DefaultSlot = "23:00-23:30"

	s.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }
	s.tick(context.Background())

	assert.Empty(t, b.calls, "unrecognized default slot must not reach the machine")
}

func TestSchedulerDueMalformedTime(t *testing.T) {
	s := newScheduler(&fakeBooker{}, nil)
	s.At = "half past seven"
	assert.False(t, s.Due(time.Now()))
}
