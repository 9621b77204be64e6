package activities

import (
	"context"
	"time"
)

// Repository describes storage operations for activities. Every query is
// scoped to a single user id; mutations on rows the user does not own
// return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, activity *Activity) (*Activity, error)

	// ListByUser returns the user's activities ordered by date, newest first.
	// A non-positive limit returns all rows.
	ListByUser(ctx context.Context, userID string, limit int) ([]Activity, error)

	// Update rewrites description and date of an owned row and returns the
	// row as stored. A zero Date leaves the stored date unchanged.
	Update(ctx context.Context, activity *Activity) (*Activity, error)

	Delete(ctx context.Context, id string, userID string) error

	// CountSince returns how many of the user's activities fall on or after
	// the given time.
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
}
