package model

import "time"

// Reservation status values.  The booking wizard advances a reservation
// through these states in order; each transition is validated against the
// persisted status rather than session data, so a stale or replayed
// request cannot skip a step.
const (
    StatusPendingNoSlot  = "PENDING_NO_SLOT"  // room picked, no time slot yet
    StatusPendingSlotSet = "PENDING_SLOT_SET" // slot assigned, payment outstanding
    StatusConfirmed      = "CONFIRMED"        // payment recorded
)

// Reservation records a meeting-room booking as stored in the
// `reservations` table.  A reservation is created without a time slot
// (room provisionally assigned), receives its slot on confirmation and
// becomes CONFIRMED once a payment method is recorded.  Pending rows
// older than the abandonment window and confirmed rows past their end
// time are removed by the expiry sweep.
//
// Fields:
//  ID            – primary key identifier.
//  Username      – owner of the reservation.
//  Floor         – capacity tier floor (1–3).
//  Room          – room label, e.g. "204".  May change at slot assignment.
//  Date          – calendar day of the booking (nil until the slot step).
//  StartTime     – slot start (nil until the slot step).
//  EndTime       – slot end (nil until the slot step).
//  DurationHours – whole hours between start and end.
//  PaymentMethod – recorded at the payment step.
//  Status        – one of the Status* constants above.
//  CreatedAt     – creation timestamp, drives pending expiry.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
    ID            uint64     // reservations.id
    Username      string     // reservations.username
    Floor         int        // reservations.floor
    Room          string     // reservations.room
    Date          *time.Time // reservations.res_date (nullable)
    StartTime     *time.Time // reservations.start_time (nullable)
    EndTime       *time.Time // reservations.end_time (nullable)
    DurationHours int        // reservations.duration_hours
    PaymentMethod string     // reservations.payment_method
    Status        string     // reservations.status
    CreatedAt     time.Time  // reservations.created_at
    UpdatedAt     time.Time  // reservations.updated_at
}

// HasSlot reports whether a time slot has been assigned.
func (r *Reservation) HasSlot() bool {
    return r.Date != nil && r.StartTime != nil && r.EndTime != nil
}
