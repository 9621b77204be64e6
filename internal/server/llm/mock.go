package llm

import "context"

// MockCompleter is a canned Completer for tests. It records every prompt it
// receives.
type MockCompleter struct {
	Response string
	Err      error
	Calls    [][]Message
}

func NewMockCompleter(response string) *MockCompleter {
	return &MockCompleter{Response: response}
}

func (m *MockCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
