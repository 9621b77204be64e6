package refreshtokens

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error

	// PurgeExpired deletes all tokens past their expiry and returns the
	// number of rows removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
