// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a meeting-room reservation
// is paid for and confirmed. It carries enough for downstream consumers
// to log or notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	Username      string `json:"username"`
	Floor         int    `json:"floor"`
	Room          string `json:"room"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	DurationHours int    `json:"duration_hours"`
	Membership    string `json:"membership"`
	PaymentMethod string `json:"payment_method"`
	TotalAmount   int    `json:"total_amount"`
	ConfirmedAt   string `json:"confirmed_at"`
}
