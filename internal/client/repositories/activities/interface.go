package activities

import (
	"context"
	"time"
)

// Activity is a locally cached copy of a server-side activity row.
type Activity struct {
	ID          string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// Repository caches the signed-in user's activities so lists render without
// a round trip. The server response is authoritative; the cache is updated
// from it, never the other way around.
type Repository interface {
	List(ctx context.Context) ([]Activity, error)
	Upsert(ctx context.Context, activity *Activity) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, list []Activity) error
	Clear(ctx context.Context) error
}
