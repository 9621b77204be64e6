package goals

import "context"

type Repository interface {
	Create(ctx context.Context, goal *Goal) (*Goal, error)

	// ListByUser returns the user's goals, newest first.
	ListByUser(ctx context.Context, userID string) ([]Goal, error)

	// Update rewrites goal_text of an owned row; not-owned rows yield
	// common.ErrorNotFound.
	Update(ctx context.Context, goal *Goal) (*Goal, error)

	Delete(ctx context.Context, id string, userID string) error
}
