// Package booking implements the room-reservation core: capacity to
// floor mapping, randomized room allocation, overlap conflict checks,
// slot validation, pricing and the expiry sweep.  Handlers translate
// the sentinel errors below into HTTP responses.
package booking

import "errors"

// Validation failures.  No mutation is performed when any of these are
// returned.
var (
	ErrBadCapacity    = errors.New("capacity must be 1, 2 or 5")
	ErrPastDate       = errors.New("date must not be in the past")
	ErrNotWholeHour   = errors.New("start and end must be on the hour")
	ErrStartInPast    = errors.New("start time must be in the future")
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrOutsideHours   = errors.New("reservations run between 08:00 and 22:00")
)

// ErrNoRoomAvailable is returned when every room on the requested
// floor conflicts with the requested slot.  The reservation is left
// untouched.
var ErrNoRoomAvailable = errors.New("no room available for the requested slot")

// Wizard state violations.
var (
	ErrNoSlot           = errors.New("reservation has no time slot yet")
	ErrAlreadyConfirmed = errors.New("reservation is already confirmed")
)

// Membership pricing failures.
var (
	ErrBadTier          = errors.New("membership tier must be Premium or Deluxe")
	ErrBadRenewalPeriod = errors.New("renewal period must be 1, 3 or 6 months")
)
