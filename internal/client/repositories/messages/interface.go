package messages

import (
	"context"
	"time"
)

// Roles for transcript rows.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleNotice    = "notice"
)

// Message is one line of the locally cached conversation transcript.
type Message struct {
	ID        string
	Role      string
	Content   string
	Timestamp time.Time
}

// Repository stores the conversation transcript so the REPL can redraw it
// and survive restarts without refetching everything.
type Repository interface {
	Append(ctx context.Context, msg *Message) error
	ListRecent(ctx context.Context, limit int) ([]Message, error)
	ReplaceAll(ctx context.Context, list []Message) error
	Clear(ctx context.Context) error
}
