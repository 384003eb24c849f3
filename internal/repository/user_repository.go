package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
	"github.com/MarcoBenedictus/GameSuite/internal/utils"
)

// UserRepo provides data access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,password_hash,membership,phone_number,gender,role,created_at,updated_at"

// scanUser maps one users row onto the model.  phone_number and gender
// stay NULL until membership signup fills them in, so they go through
// NullString and surface as empty strings.
func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var (
		u             model.User
		phone, gender sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Membership,
		&phone, &gender, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.PhoneNumber = phone.String
	u.Gender = gender.String
	return u, nil
}

// Create inserts a user and returns its ID.  Email is normalized to
// lower case; the membership tier starts at Basic.
func (r *UserRepo) Create(ctx context.Context, email, username, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash, membership, role) VALUES (?,?,?,?,?)",
		email, username, hash, model.TierBasic, role)
	if err != nil {
		// MySQL duplicate key on either unique column
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByLogin fetches a user by email or username.  The login form
// accepts either, so both unique columns are tried in one query.
func (r *UserRepo) GetByLogin(ctx context.Context, emailOrUsername string) (model.User, error) {
	v := strings.TrimSpace(emailOrUsername)
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? OR username=? LIMIT 1",
		strings.ToLower(v), v)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// GetByUsername fetches a user by their unique username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username))
	return scanUser(row)
}

// UpdateMembership writes the denormalized membership tier and the
// contact details captured during membership signup back onto the user
// row.
func (r *UserRepo) UpdateMembership(ctx context.Context, id uint64, tier, phone, gender string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET membership=?, phone_number=?, gender=? WHERE id=?",
		tier, phone, gender, id)
	return err
}

// List returns all users ordered by username.  Used by the admin
// membership screen.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
