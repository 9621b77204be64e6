package metadata

import "context"

// Repository is a small key/value store used for session state: saved
// tokens, the signed-in user's profile fields, and similar bits.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
