package gym

// CSS selectors for the sportbit web UI. These are the only part of the
// system coupled to the remote DOM and they do break when the site ships a
// redesign; keep every selector here.
const (
	selLoginEntry    = ".login__button"
	selUsernameInput = `[formcontrolname="username"]`
	selPasswordInput = `[formcontrolname="password"]`
	selSubmitButton  = `button[type="submit"]`

	selCalendar      = ".calendar-dv__content"
	selCalendarSpans = ".calendar-dv__content span"

	selDetailPanel = ".koptekst-icoon-reset"
	selDetailSpans = ".event-info-blok__content span"

	selSuccessAlert = ".alert.success"
	selWorkoutCard  = ".workout-card__content"
)
