package users

import (
	"context"
)

type Repository interface {
	// CreateWithProfile inserts the user and its profile row atomically.
	// A duplicate email yields common.ErrorAlreadyExists.
	CreateWithProfile(ctx context.Context, user *User, profile *Profile) (*User, error)

	// GetUserByEmail returns common.ErrorNotFound when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetProfile returns common.ErrorNotFound when the profile row is absent.
	GetProfile(ctx context.Context, userID string) (*Profile, error)

	// MarkWelcomeSeen flips has_seen_welcome to true. Idempotent.
	MarkWelcomeSeen(ctx context.Context, userID string) error
}
