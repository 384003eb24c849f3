package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

// MembershipRepo provides data access to the `memberships` table.
// Activity is decided at read time from start_date + duration_days;
// the stored is_active flag is an optimisation that gets lowered
// lazily when an expired row is observed.
type MembershipRepo struct {
	db *sql.DB
}

// NewMembershipRepo returns a new MembershipRepo bound to the given database.
func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{db: db} }

const membershipColumns = `id, user_id, email, name, phone_number, gender, tier,
       start_date, duration_days, is_active, initial_signup_used, created_at`

func scanMembership(row interface{ Scan(...any) error }) (model.Membership, error) {
	var m model.Membership
	err := row.Scan(
		&m.ID, &m.UserID, &m.Email, &m.Name, &m.PhoneNumber, &m.Gender, &m.Tier,
		&m.StartDate, &m.DurationDays, &m.IsActive, &m.InitialSignupUsed, &m.CreatedAt,
	)
	return m, err
}

// Create inserts a membership row and returns its ID.
func (r *MembershipRepo) Create(ctx context.Context, m *model.Membership) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships
           (user_id, email, name, phone_number, gender, tier, start_date, duration_days, is_active, initial_signup_used)
         VALUES (?,?,?,?,?,?,?,?,?,?)`,
		m.UserID, m.Email, m.Name, m.PhoneNumber, m.Gender, m.Tier,
		m.StartDate.UTC(), m.DurationDays, m.IsActive, m.InitialSignupUsed)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// LatestByUser returns the most recent membership row for a user,
// active or not.  sql.ErrNoRows when the user never signed up.
func (r *MembershipRepo) LatestByUser(ctx context.Context, userID uint64) (model.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT 1",
		userID)
	return scanMembership(row)
}

// ActiveByUser returns the user's membership that is in force right
// now.  The expiry predicate is computed in the query, not read from
// the stored flag, so a row whose period has lapsed is never returned
// even if is_active was not yet lowered.  When an expired row is
// observed it is deactivated in passing.
func (r *MembershipRepo) ActiveByUser(ctx context.Context, userID uint64, now time.Time) (model.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+membershipColumns+` FROM memberships
         WHERE user_id=? AND is_active=1
           AND ? < DATE_ADD(start_date, INTERVAL duration_days DAY)
         ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID, now.UTC())
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		// Lower the flag on any lapsed rows so admin listings agree
		// with the computed expiry.  Best effort.
		_, _ = r.db.ExecContext(ctx,
			`UPDATE memberships SET is_active=0
             WHERE user_id=? AND is_active=1
               AND ? >= DATE_ADD(start_date, INTERVAL duration_days DAY)`,
			userID, now.UTC())
		return model.Membership{}, sql.ErrNoRows
	}
	if err != nil {
		return model.Membership{}, err
	}
	return m, nil
}

// Extend resets the start date and writes a new duration onto an
// existing membership row.  Used by renewal, where the new duration
// already includes the days left unused.
func (r *MembershipRepo) Extend(ctx context.Context, id uint64, start time.Time, durationDays int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE memberships SET start_date=?, duration_days=?, is_active=1 WHERE id=?",
		start.UTC(), durationDays, id)
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

// Deactivate lowers the stored active flag.
func (r *MembershipRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE memberships SET is_active=0 WHERE id=?", id)
	return err
}

// Update rewrites the admin-editable fields of a membership.
func (r *MembershipRepo) Update(ctx context.Context, id uint64, tier string, durationDays int, isActive bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE memberships SET tier=?, duration_days=?, is_active=? WHERE id=?",
		tier, durationDays, isActive, id)
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

// Delete removes a membership by id.
func (r *MembershipRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM memberships WHERE id=?", id)
	return err
}

// List returns every membership ordered by holder name.  Used by the
// admin membership screen.
func (r *MembershipRepo) List(ctx context.Context) ([]model.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+membershipColumns+" FROM memberships ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
