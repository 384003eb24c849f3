package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/MarcoBenedictus/GameSuite/internal/booking"
	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

// ReservationRepo provides data access to the `reservations` table.
// Rows move through the wizard states PENDING_NO_SLOT →
// PENDING_SLOT_SET → CONFIRMED; every transition here is guarded by a
// WHERE clause on the current status so a stale request cannot skip or
// repeat a step.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, username, floor, room, res_date, start_time, end_time,
       duration_hours, payment_method, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var (
		res           model.Reservation
		date          sql.NullTime
		start, end    sql.NullTime
		paymentMethod sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.Username, &res.Floor, &res.Room, &date, &start, &end,
		&res.DurationHours, &paymentMethod, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return model.Reservation{}, err
	}
	if date.Valid {
		d := date.Time
		res.Date = &d
	}
	if start.Valid {
		s := start.Time
		res.StartTime = &s
	}
	if end.Valid {
		e := end.Time
		res.EndTime = &e
	}
	if paymentMethod.Valid {
		res.PaymentMethod = paymentMethod.String
	}
	return res, nil
}

// slotBounds anchors bare clock values to the booking day so the
// DATETIME columns always carry the full instant in UTC.
func slotBounds(date, start, end time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	s := day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)
	e := day.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)
	return s, e
}

// Create inserts a provisional reservation with a room but no time
// slot and returns its ID.
func (r *ReservationRepo) Create(ctx context.Context, username string, floor int, room string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reservations (username, floor, room, status) VALUES (?,?,?,?)",
		username, floor, room, model.StatusPendingNoSlot)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a reservation by id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? LIMIT 1", id)
	return scanReservation(row)
}

// GetByIDForUser fetches a reservation and enforces ownership.  It
// returns sql.ErrNoRows when the reservation does not exist and
// ErrForbidden when it belongs to a different user.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id uint64, username string) (model.Reservation, error) {
	res, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if res.Username != username {
		return model.Reservation{}, ErrForbidden
	}
	return res, nil
}

// WithSlotTx runs fn inside a single database transaction and commits
// only when fn returns nil; any error rolls the whole assignment back.
func (r *ReservationRepo) WithSlotTx(ctx context.Context, fn func(booking.SlotTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(slotTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// slotTx is the transactional slot-assignment surface handed to
// WithSlotTx callbacks.
type slotTx struct {
	tx *sql.Tx
}

// HasConflict reports whether any pending-with-slot or confirmed
// reservation for the same room and date overlaps the half-open
// interval [start, end).  The matching rows are locked FOR UPDATE so
// that two concurrent slot assignments serialize instead of both
// observing a free room (check-then-act race closed at the database).
func (t slotTx) HasConflict(ctx context.Context, room string, date, start, end time.Time) (bool, error) {
	const q = `SELECT id FROM reservations
               WHERE room = ? AND res_date = ?
                 AND status IN (?, ?)
                 AND start_time < ? AND end_time > ?
               LIMIT 1
               FOR UPDATE`
	s, e := slotBounds(date, start, end)
	var id uint64
	err := t.tx.QueryRowContext(ctx, q,
		room, date.UTC().Format("2006-01-02"),
		model.StatusPendingSlotSet, model.StatusConfirmed,
		e, s).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AssignSlot writes the date, time slot and (possibly reassigned)
// room onto a pending reservation and advances it to PENDING_SLOT_SET.
// The update is guarded on the pending states; it returns sql.ErrNoRows
// when the reservation is missing or already confirmed.
func (t slotTx) AssignSlot(ctx context.Context, id uint64, room string, date, start, end time.Time, durationHours int) error {
	const q = `UPDATE reservations
               SET room=?, res_date=?, start_time=?, end_time=?, duration_hours=?, status=?
               WHERE id=? AND status IN (?, ?)`
	s, e := slotBounds(date, start, end)
	res, err := t.tx.ExecContext(ctx, q,
		room, date.UTC().Format("2006-01-02"), s, e, durationHours,
		model.StatusPendingSlotSet,
		id, model.StatusPendingNoSlot, model.StatusPendingSlotSet)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Confirm records the payment method and advances the reservation to
// CONFIRMED.  Only a PENDING_SLOT_SET row can be confirmed; anything
// else yields sql.ErrNoRows.
func (r *ReservationRepo) Confirm(ctx context.Context, id uint64, paymentMethod string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET payment_method=?, status=? WHERE id=? AND status=?",
		paymentMethod, model.StatusConfirmed, id, model.StatusPendingSlotSet)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByUser returns all reservations for a user, newest date first.
func (r *ReservationRepo) ListByUser(ctx context.Context, username string) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE username=? ORDER BY res_date DESC, start_time",
		username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListByFloor returns all reservations on a floor ordered by start
// time.  Used by the admin per-floor views.
func (r *ReservationRepo) ListByFloor(ctx context.Context, floor int) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE floor=? ORDER BY start_time",
		floor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Delete removes a reservation by id.  Deleting an absent row is a
// no-op, which keeps overlapping sweeps idempotent.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	return err
}

// SweepExpired applies the two expiry rules in one batch: pending rows
// created before pendingBefore are abandoned wizard sessions, and
// confirmed rows whose end time is before now are finished bookings.
// It returns the deleted counts (pending, confirmed).
func (r *ReservationRepo) SweepExpired(ctx context.Context, pendingBefore, now time.Time) (int64, int64, error) {
	resPending, err := r.db.ExecContext(ctx,
		"DELETE FROM reservations WHERE status IN (?, ?) AND created_at < ?",
		model.StatusPendingNoSlot, model.StatusPendingSlotSet, pendingBefore.UTC())
	if err != nil {
		return 0, 0, err
	}
	deletedPending, err := resPending.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	resConfirmed, err := r.db.ExecContext(ctx,
		"DELETE FROM reservations WHERE status=? AND end_time < ?",
		model.StatusConfirmed, now.UTC())
	if err != nil {
		return deletedPending, 0, err
	}
	deletedConfirmed, err := resConfirmed.RowsAffected()
	if err != nil {
		return deletedPending, 0, err
	}
	return deletedPending, deletedConfirmed, nil
}
