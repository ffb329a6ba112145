package domain

import (
	"context"
	"time"
)

// UserRow represents a user record returned from the database.
// It includes the password hash so the Logic layer can verify credentials;
// the hash must never be serialized outward.
type UserRow struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Age          *int
	DOB          *time.Time
	Contact      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileUpdate carries a partial profile change. Nil fields are left
// untouched by the update.
type ProfileUpdate struct {
	Name    *string
	Age     *int
	DOB     *time.Time
	Contact *string
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// GetByEmail returns the user matching the given (normalized) email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// GetByID returns the user with the given ID.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int) (*UserRow, error)

	// ExistsByEmail returns true when a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new user and returns the generated user ID.
	Create(ctx context.Context, name, email, passwordHash string) (int, error)

	// Update applies a partial profile change and returns the updated row.
	// Returns (nil, nil) when the user no longer exists.
	Update(ctx context.Context, id int, upd ProfileUpdate) (*UserRow, error)
}
