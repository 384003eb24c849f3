package booking

import (
	"math"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

// Hourly room rates by capacity tier, in whole currency units.
var hourlyRates = map[int]int{
	1: 15000,
	2: 30000,
	5: 75000,
}

// Membership discount multipliers applied to room bookings.  Basic and
// absent memberships pay full price.
var tierMultipliers = map[string]float64{
	model.TierPremium: 0.95,
	model.TierDeluxe:  0.90,
}

// Monthly membership base prices (30-day period).
var signupBase = map[string]int{
	model.TierPremium: 150000,
	model.TierDeluxe:  250000,
}

// HourlyRate returns the per-hour room rate for a capacity tier.
func HourlyRate(people int) (int, error) {
	rate, ok := hourlyRates[people]
	if !ok {
		return 0, ErrBadCapacity
	}
	return rate, nil
}

// Price computes the total cost of a room booking: hourly rate times
// duration, discounted by the membership tier and rounded to the
// nearest unit.
func Price(people, durationHours int, membershipTier string) (int, error) {
	rate, err := HourlyRate(people)
	if err != nil {
		return 0, err
	}
	total := float64(rate * durationHours)
	if mult, ok := tierMultipliers[membershipTier]; ok {
		total *= mult
	}
	return int(math.Round(total)), nil
}

// SignupCost returns the price of a fresh 30-day membership.  The very
// first signup of a user is charged half price; the discount is
// consumed by the initial_signup_used flag and never returns.
func SignupCost(tier string, firstSignup bool) (int, error) {
	base, ok := signupBase[tier]
	if !ok {
		return 0, ErrBadTier
	}
	if firstSignup {
		return base / 2, nil
	}
	return base, nil
}

// RenewalCost prices a renewal for 1, 3 or 6 months.  The bulk
// discount is baked into the multiplier: three months at 80% of base
// each, six months at 70%.
func RenewalCost(tier string, months int) (int, error) {
	base, ok := signupBase[tier]
	if !ok {
		return 0, ErrBadTier
	}
	switch months {
	case 1:
		return base, nil
	case 3:
		return int(math.Round(float64(base) * 0.8 * 3)), nil
	case 6:
		return int(math.Round(float64(base) * 0.7 * 6)), nil
	default:
		return 0, ErrBadRenewalPeriod
	}
}
