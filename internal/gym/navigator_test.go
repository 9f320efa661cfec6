package gym_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/browser/browsertest"
	"github.com/example/wod-booker/internal/gym"
)

const (
	selLoginEntry    = ".login__button"
	selUsernameInput = `[formcontrolname="username"]`
	selPasswordInput = `[formcontrolname="password"]`
	selSubmitButton  = `button[type="submit"]`
	selCalendar      = ".calendar-dv__content"
	selCalendarSpans = ".calendar-dv__content span"
)

func openSession(t *testing.T, spans ...string) (*gym.Session, *gym.Navigator, *browsertest.Page) {
	t.Helper()
	var page *browsertest.Page
	fb := &browsertest.Browser{Script: func() *browsertest.Page {
		page = browsertest.NewPage()
		for _, sel := range []string{selLoginEntry, selUsernameInput, selPasswordInput, selSubmitButton} {
			page.Present[sel] = true
		}
		page.ClickHooks[selSubmitButton] = func() { page.Present[selCalendar] = true }
		for _, text := range spans {
			page.ElementSets[selCalendarSpans] = append(page.ElementSets[selCalendarSpans],
				&browsertest.Element{TextValue: text})
		}
		return page
	}}
	ctl := &gym.Controller{
		Browser:     fb,
		SiteURL:     "https://gym.example/web/en/login",
		StepTimeout: 50 * time.Millisecond,
		Log:         zap.NewNop(),
	}
	sess, err := ctl.Open(context.Background(), gym.Credentials{Email: "e", Password: "p"})
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	nav := &gym.Navigator{SignUpLabels: []string{"Sign up", "Aanmelden"}, Log: zap.NewNop()}
	return sess, nav, page
}

func TestFindSlotMatchesExactTrimmedText(t *testing.T) {
	sess, nav, _ := openSession(t,
		"CrossFit",
		"  18:00 - 19:00  ", // surrounding whitespace is trimmed
		"18:00 - 19:00 (full)",
	)
	el, err := nav.FindSlot(context.Background(), sess, "18:00 - 19:00")
	require.NoError(t, err)
	require.NotNil(t, el)
	text, err := el.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "  18:00 - 19:00  ", text)
}

func TestFindSlotRejectsNearMisses(t *testing.T) {
	sess, nav, _ := openSession(t,
		"18:00-19:00",          // compact form is not the calendar form
		"18:00 - 19:00 (full)", // no substring matching
	)
	el, err := nav.FindSlot(context.Background(), sess, "18:00 - 19:00")
	require.NoError(t, err)
	assert.Nil(t, el)
}

func TestFindSlotFirstMatchWins(t *testing.T) {
	sess, nav, page := openSession(t, "18:00 - 19:00", "18:00 - 19:00")
	el, err := nav.FindSlot(context.Background(), sess, "18:00 - 19:00")
	require.NoError(t, err)
	require.NotNil(t, el)
	require.NoError(t, el.Click(context.Background()))
	assert.Equal(t, 1, page.ElementSets[selCalendarSpans][0].Clicks)
	assert.Equal(t, 0, page.ElementSets[selCalendarSpans][1].Clicks)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	sess, _, page := openSession(t)
	sess.Close()
	sess.Close()
	assert.Equal(t, 1, page.CloseCalls)
}
