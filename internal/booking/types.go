package booking

import (
	"fmt"
	"strings"
	"time"
)

// Slot identifies one of the fixed class time ranges the gym offers, in the
// compact caller form ("18:00-19:00"). The calendar UI renders the same
// range with spaces around the dash; slotLabels is the single source of
// truth for that mapping.
type Slot string

const (
	Slot0930 Slot = "09:30-10:30"
	Slot1030 Slot = "10:30-11:30"
	Slot1700 Slot = "17:00-18:00"
	Slot1800 Slot = "18:00-19:00"
	Slot1900 Slot = "19:00-20:00"
)

var slotLabels = map[Slot]string{
	Slot0930: "09:30 - 10:30",
	Slot1030: "10:30 - 11:30",
	Slot1700: "17:00 - 18:00",
	Slot1800: "18:00 - 19:00",
	Slot1900: "19:00 - 20:00",
}

// ParseSlot validates a compact slot identifier against the recognized set.
func ParseSlot(s string) (Slot, error) {
	sl := Slot(strings.TrimSpace(s))
	if _, ok := slotLabels[sl]; !ok {
		return "", fmt.Errorf("%w: unrecognized time slot %q", ErrInvalidInput, s)
	}
	return sl, nil
}

// Label returns the calendar's display form of the slot ("18:00 - 19:00").
func (s Slot) Label() string {
	return slotLabels[s]
}

// compact returns the slot with colons stripped, as used in booking keys.
func (s Slot) compact() string {
	return strings.ReplaceAll(string(s), ":", "")
}

// Date is a calendar day. Months and days are not zero-padded in keys,
// matching the historical key format already present in the store.
type Date struct {
	Year  int
	Month int
	Day   int
}

func Today(now time.Time) Date {
	return Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%d-%d-%d", d.Year, d.Month, d.Day)
}

func (d Date) valid() bool {
	if d.Year < 2000 || d.Year > 2200 || d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return false
	}
	return true
}

// Request is one booking invocation. Immutable once built.
type Request struct {
	Date   Date
	Slot   Slot
	DryRun bool
}

// NewRequest validates inputs before any session or store access happens.
func NewRequest(d Date, slot string, dryRun bool) (Request, error) {
	sl, err := ParseSlot(slot)
	if err != nil {
		return Request{}, err
	}
	if !d.valid() {
		return Request{}, fmt.Errorf("%w: invalid date %s", ErrInvalidInput, d)
	}
	return Request{Date: d, Slot: sl, DryRun: dryRun}, nil
}

// Key derives the idempotency key for this request under the given account.
// Identical (account, date, slot) always yields the same key.
func (r Request) Key(account string) string {
	return fmt.Sprintf("booked:%s:%s-%s", account, r.Date, r.Slot.compact())
}

// WodKey is the content-cache key for a day's workout description.
func WodKey(d Date) string {
	return fmt.Sprintf("wod:%s", d)
}
