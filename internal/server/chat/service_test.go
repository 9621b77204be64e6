package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitabuddy/vitabuddy/internal/common"
	"github.com/vitabuddy/vitabuddy/internal/logging"
	"github.com/vitabuddy/vitabuddy/internal/server/activities"
	"github.com/vitabuddy/vitabuddy/internal/server/goals"
	"github.com/vitabuddy/vitabuddy/internal/server/llm"
	"github.com/vitabuddy/vitabuddy/internal/server/reminders"
)

type fakeRepo struct {
	created    []*ChatMessage
	createErr  error
	history    []ChatMessage
	historyErr error
}

func (f *fakeRepo) Create(ctx context.Context, message *ChatMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, message)
	return nil
}

func (f *fakeRepo) ListRecent(ctx context.Context, userID string, limit int) ([]ChatMessage, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if limit < len(f.history) {
		return f.history[:limit], nil
	}
	return f.history, nil
}

type fakeActivitySource struct {
	list []activities.Activity
	err  error
}

func (f *fakeActivitySource) Recent(ctx context.Context, userID string) ([]activities.Activity, error) {
	return f.list, f.err
}

type fakeReminderSource struct {
	text string
}

func (f *fakeReminderSource) Get(ctx context.Context, userID string) (*reminders.Reminder, error) {
	return &reminders.Reminder{UserID: userID, Reminders: f.text}, nil
}

type fakeGoalSource struct {
	list []goals.Goal
}

func (f *fakeGoalSource) List(ctx context.Context, userID string) ([]goals.Goal, error) {
	return f.list, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func newTestService(repo *fakeRepo, completer llm.Completer) *Service {
	return NewService(
		repo,
		completer,
		&fakeActivitySource{list: []activities.Activity{
			{Description: "ran 5k", Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		}},
		&fakeReminderSource{text: "no dairy"},
		&fakeGoalSource{list: []goals.Goal{{GoalText: "sleep 8 hours"}}},
		"default prompt",
		testLogger(),
	)
}

func TestRespond_AssemblesContextFromStore(t *testing.T) {
	repo := &fakeRepo{}
	completer := llm.NewMockCompleter("nice work!")
	s := newTestService(repo, completer)

	resp, err := s.Respond(context.Background(), "u1", "how am I doing?", nil, "", true)
	require.NoError(t, err)
	assert.Equal(t, "nice work!", resp)

	require.Len(t, completer.Calls, 1)
	prompt := completer.Calls[0]
	require.GreaterOrEqual(t, len(prompt), 3)
	assert.Equal(t, "default prompt", prompt[0].Content)
	assert.Contains(t, prompt[1].Content, "ran 5k")
	assert.Contains(t, prompt[1].Content, "no dairy")
	assert.Contains(t, prompt[1].Content, "sleep 8 hours")
	assert.Equal(t, "how am I doing?", prompt[len(prompt)-1].Content)
}

func TestRespond_SuppliedContextWins(t *testing.T) {
	repo := &fakeRepo{}
	completer := llm.NewMockCompleter("ok")
	s := newTestService(repo, completer)

	supplied := &Context{ThingsToKeepInMind: "training for a race"}
	_, err := s.Respond(context.Background(), "u1", "hi", supplied, "", true)
	require.NoError(t, err)

	prompt := completer.Calls[0]
	assert.Contains(t, prompt[1].Content, "training for a race")
	assert.NotContains(t, prompt[1].Content, "ran 5k")
}

func TestRespond_CustomSystemPrompt(t *testing.T) {
	repo := &fakeRepo{}
	completer := llm.NewMockCompleter("ok")
	s := newTestService(repo, completer)

	_, err := s.Respond(context.Background(), "u1", "hi", nil, "you are a pirate", true)
	require.NoError(t, err)

	assert.Equal(t, "you are a pirate", completer.Calls[0][0].Content)
}

func TestRespond_EmptyMessageIsValidationError(t *testing.T) {
	s := newTestService(&fakeRepo{}, llm.NewMockCompleter("ok"))

	_, err := s.Respond(context.Background(), "u1", "   ", nil, "", true)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRespond_PersistsExchange(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, llm.NewMockCompleter("answer"))

	_, err := s.Respond(context.Background(), "u1", "question", nil, "", true)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "u1", repo.created[0].UserID)
	assert.Equal(t, "question", repo.created[0].UserMessage)
	assert.Equal(t, "answer", repo.created[0].BotResponse)
	assert.NotEmpty(t, repo.created[0].ID)
}

func TestRespond_EphemeralExchangeNotPersisted(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, llm.NewMockCompleter("good morning!"))

	resp, err := s.Respond(context.Background(), "u1",
		"Hi! I'm your AI health buddy. How can I help you today?", nil, "", false)
	require.NoError(t, err)
	assert.Equal(t, "good morning!", resp)

	// synthetic greetings must never appear in history as a user message
	assert.Empty(t, repo.created)
}

func TestRespond_PersistFailureNotSurfaced(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("insert failed")}
	s := newTestService(repo, llm.NewMockCompleter("answer"))

	resp, err := s.Respond(context.Background(), "u1", "question", nil, "", true)
	require.NoError(t, err)
	assert.Equal(t, "answer", resp)
}

func TestRespond_HistoryFailureNotSurfaced(t *testing.T) {
	repo := &fakeRepo{historyErr: errors.New("query failed")}
	s := newTestService(repo, llm.NewMockCompleter("answer"))

	resp, err := s.Respond(context.Background(), "u1", "question", nil, "", true)
	require.NoError(t, err)
	assert.Equal(t, "answer", resp)
}

func TestRespond_CompleterFailureSurfaced(t *testing.T) {
	completer := &llm.MockCompleter{Err: errors.New("upstream down")}
	s := newTestService(&fakeRepo{}, completer)

	_, err := s.Respond(context.Background(), "u1", "question", nil, "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestRespond_ReplaysHistoryChronologically(t *testing.T) {
	repo := &fakeRepo{history: []ChatMessage{
		{UserMessage: "newest q", BotResponse: "newest a"},
		{UserMessage: "oldest q", BotResponse: "oldest a"},
	}}
	completer := llm.NewMockCompleter("ok")
	s := newTestService(repo, completer)

	_, err := s.Respond(context.Background(), "u1", "current", nil, "", true)
	require.NoError(t, err)

	prompt := completer.Calls[0]
	require.Len(t, prompt, 7)
	assert.Equal(t, "oldest q", prompt[2].Content)
	assert.Equal(t, "oldest a", prompt[3].Content)
	assert.Equal(t, "newest q", prompt[4].Content)
	assert.Equal(t, "newest a", prompt[5].Content)
	assert.Equal(t, "current", prompt[6].Content)
}

func TestHistory_ClampsLimit(t *testing.T) {
	history := make([]ChatMessage, 150)
	repo := &fakeRepo{history: history}
	s := newTestService(repo, llm.NewMockCompleter("ok"))

	got, err := s.History(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 100)

	got, err = s.History(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	got, err = s.History(context.Background(), "u1", 500)
	require.NoError(t, err)
	assert.Len(t, got, 100)
}
