package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID        int64     // Unique identifier
	Username  string    // Display / login name (unique)
	Email     string    // Contact address (unique)
	Password  string    // Bcrypt hashed password
	Role      string    // user or admin
	CreatedAt time.Time // Account creation timestamp
	UpdatedAt time.Time // Last profile update timestamp
}

// UserUpdate enumerates the columns a profile edit may change.
// Nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByEmail retrieves a user by their email.
	// Used during login to verify credentials.
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetByIDs retrieves users for the given ids. Missing ids are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]User, error)

	// Insert creates a new user account.
	// Backfills the ID in the provided User object upon success.
	Insert(ctx context.Context, u *User) error

	// Update applies the non-nil fields of up to the user with the given id.
	Update(ctx context.Context, id int64, up UserUpdate) error
}

// AuthToken bundles a signed token with its identifier and expiry, so the
// caller can revoke it later.
type AuthToken struct {
	Raw       string
	ID        string
	ExpiresAt time.Time
}

// TokenStore remembers revoked token ids until their natural expiry.
type TokenStore interface {
	// Revoke marks a token id as revoked for the given duration.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether the token id has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserUsecase defines the business logic contract for account operations.
type UserUsecase interface {
	// Register creates a new account and returns it with a fresh token.
	// Returns ErrConflict if the username or email is taken.
	Register(ctx context.Context, username, email, password string) (User, AuthToken, error)

	// Login verifies credentials and returns the user with a fresh token.
	// Returns ErrUnauthorized on unknown email or wrong password.
	Login(ctx context.Context, email, password string) (User, AuthToken, error)

	// GetByID retrieves a user for token verification.
	GetByID(ctx context.Context, id int64) (User, error)

	// UpdateProfile applies a self-service profile edit and returns the
	// updated user with a re-issued token.
	UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (User, AuthToken, error)

	// Logout revokes the presented token until it would have expired.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// ProfileUpdate carries a self-service profile edit request.
// Empty strings mean "leave unchanged".
type ProfileUpdate struct {
	Username        string
	Email           string
	CurrentPassword string
	NewPassword     string
}
