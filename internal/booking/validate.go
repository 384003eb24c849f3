package booking

import (
	"time"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

// Operating hours.  Slots must start no earlier than OpenHour and end
// no later than CloseHour, on whole hours.
const (
	OpenHour  = 8
	CloseHour = 22
)

// PendingTTL is how long an unconfirmed reservation survives before
// the sweep reclaims it as abandoned.
const PendingTTL = 3 * time.Minute

// ValidateSlot checks a requested booking window against the rules
// from the reservation form: the date must not be in the past, both
// times must fall on whole hours inside opening hours, the end must
// follow the start, and a same-day slot must still be ahead of the
// clock.  On success it returns the duration in whole hours.
func ValidateSlot(now, date, start, end time.Time) (int, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return 0, ErrPastDate
	}
	if start.Minute() != 0 || start.Second() != 0 || end.Minute() != 0 || end.Second() != 0 {
		return 0, ErrNotWholeHour
	}
	startHour, endHour := start.Hour(), end.Hour()
	if endHour <= startHour {
		return 0, ErrEndBeforeStart
	}
	if startHour < OpenHour || endHour > CloseHour {
		return 0, ErrOutsideHours
	}
	// start and end carry only the clock; anchor them to the booking day
	// before comparing against the wall clock.
	startAt := day.Add(time.Duration(startHour) * time.Hour)
	if day.Equal(today) && !startAt.After(now) {
		return 0, ErrStartInPast
	}
	return endHour - startHour, nil
}

// CheckPayable gates the payment step: only a reservation with a slot
// assigned and not yet confirmed can be paid for.
func CheckPayable(r model.Reservation) error {
	switch r.Status {
	case model.StatusPendingNoSlot:
		return ErrNoSlot
	case model.StatusConfirmed:
		return ErrAlreadyConfirmed
	}
	return nil
}
