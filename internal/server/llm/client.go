// Package llm abstracts the external text-generation API behind a small
// interface so the chat service can be tested without network access.
package llm

import "context"

// Role values for prompt messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a chat-completion prompt.
type Message struct {
	Role    string
	Content string
}

// Completer issues one blocking completion request and returns the generated
// text verbatim. Implementations must honor context cancellation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
