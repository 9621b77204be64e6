package reminders

import "context"

type Repository interface {
	// Upsert inserts the user's reminder blob or replaces the existing one.
	Upsert(ctx context.Context, reminder *Reminder) (*Reminder, error)

	// Get returns common.ErrorNotFound when the user has never saved
	// reminders.
	Get(ctx context.Context, userID string) (*Reminder, error)
}
