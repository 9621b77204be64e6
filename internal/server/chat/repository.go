package chat

import "context"

type Repository interface {
	Create(ctx context.Context, message *ChatMessage) error

	// ListRecent returns up to limit exchanges, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]ChatMessage, error)
}
