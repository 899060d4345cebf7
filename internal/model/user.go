package model

import "time"

// Roles assignable to a user.  Plain guests register as RoleUser;
// RoleAdmin is granted out of band and unlocks catalog and booking
// mutation endpoints.
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// ResetCodeHash and ResetExpires exist only between a password-reset
// request and its consumption.  The emailed one-time code is never
// stored in the clear; only its SHA-256 hash.
//
// Fields:
//  ID            – primary key identifier of the user.
//  Name          – display name.
//  Email         – unique email address (stored lower-cased).
//  PasswordHash  – bcrypt hashed password.
//  Role          – role name (user or admin).
//  ResetCodeHash – SHA-256 hex digest of the active reset code (nullable).
//  ResetExpires  – expiry of the reset code (nullable).
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type User struct {
    ID            uint64     // users.id
    Name          string     // users.name
    Email         string     // users.email
    PasswordHash  string     // users.password_hash
    Role          string     // users.role
    ResetCodeHash *string    // users.reset_code_hash (nullable)
    ResetExpires  *time.Time // users.reset_expires (nullable)
    CreatedAt     time.Time  // users.created_at
    UpdatedAt     time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.  Storing one row per token (instead of a single
// rewritable field on the user) means concurrent refreshes never
// clobber each other.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
