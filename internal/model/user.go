package model

import "time"

// User represents an application account as stored in the `users`
// table.  The json tags are omitted because these structs are used
// internally by the repository layer; handlers define their own
// response types.  Membership carries a denormalized copy of the
// user's current membership tier so that pricing can be applied
// without joining the memberships table on every booking.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Username     – unique display name, also the chat identity.
//  PasswordHash – bcrypt hashed password.
//  Membership   – denormalized tier ('Basic', 'Premium', 'Deluxe').
//  PhoneNumber  – digits-only phone number, empty until membership signup.
//  Gender       – 'Male' or 'Female', empty until membership signup.
//  Role         – 'USER' or 'ADMIN'.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    Membership   string    // users.membership
    PhoneNumber  string    // users.phone_number
    Gender       string    // users.gender
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and carries expiry and revocation
// metadata.  The plain token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
