package model

import "time"

// Membership tier names.  Basic is the implicit tier of every user and
// never has a memberships row of its own; Premium and Deluxe are the
// purchasable tiers.
const (
    TierBasic   = "Basic"
    TierPremium = "Premium"
    TierDeluxe  = "Deluxe"
)

// Membership represents a purchased membership period as stored in the
// `memberships` table.  Expiry is not a stored fact: a membership is
// active iff is_active is set AND now < start_date + duration_days.
// Every read applies that predicate; the stored flag is only lowered
// opportunistically so admin listings stay truthful.
//
// Fields:
//  ID                – primary key identifier.
//  UserID            – owning user.
//  Email             – copy of the user's email at signup time.
//  Name              – copy of the username at signup time.
//  PhoneNumber       – digits-only contact number.
//  Gender            – 'Male' or 'Female'.
//  Tier              – 'Premium' or 'Deluxe'.
//  StartDate         – start of the current paid period.
//  DurationDays      – length of the paid period in days.
//  IsActive          – stored active flag (see note above).
//  InitialSignupUsed – whether the half-price first signup was consumed.
//  CreatedAt         – creation timestamp.
type Membership struct {
    ID                uint64    // memberships.id
    UserID            uint64    // memberships.user_id
    Email             string    // memberships.email
    Name              string    // memberships.name
    PhoneNumber       string    // memberships.phone_number
    Gender            string    // memberships.gender
    Tier              string    // memberships.tier
    StartDate         time.Time // memberships.start_date
    DurationDays      int       // memberships.duration_days
    IsActive          bool      // memberships.is_active
    InitialSignupUsed bool      // memberships.initial_signup_used
    CreatedAt         time.Time // memberships.created_at
}

// ExpiresAt returns the end of the paid period.
func (m *Membership) ExpiresAt() time.Time {
    return m.StartDate.AddDate(0, 0, m.DurationDays)
}

// ActiveAt reports whether the membership is in force at the given
// instant.  This is the read-time predicate; callers must not rely on
// IsActive alone.
func (m *Membership) ActiveAt(now time.Time) bool {
    return m.IsActive && now.Before(m.ExpiresAt())
}

// RemainingDays returns the number of unused days at the given instant,
// rounded up.  Expired memberships report zero.
func (m *Membership) RemainingDays(now time.Time) int {
    left := m.ExpiresAt().Sub(now)
    if left <= 0 {
        return 0
    }
    days := int(left.Hours() / 24)
    if left.Hours() > float64(days)*24 {
        days++
    }
    return days
}
