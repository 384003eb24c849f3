package booking

import (
	"time"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

// MembershipPeriodDays is the length of one purchased membership month.
const MembershipPeriodDays = 30

// RenewalDays computes the duration of a renewed membership: the
// purchased days plus whatever the current membership had left unused.
// Elapsed time is counted in whole days, so a partially used day still
// counts as remaining.  Renewal resets the start date, which is why
// the remainder is folded into the new duration instead of keeping the
// old clock.
func RenewalDays(current *model.Membership, months int, now time.Time) int {
	days := months * MembershipPeriodDays
	if current == nil {
		return days
	}
	elapsed := int(now.Sub(current.StartDate).Hours() / 24)
	remaining := current.DurationDays - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return days + remaining
}
