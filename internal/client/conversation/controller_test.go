package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitabuddy/vitabuddy/internal/client/api"
)

type stubBackend struct {
	mu            sync.Mutex
	chatCalls     int32
	chatPrompts   []string
	chatEphemeral []bool
	chatErr       error
	response      string
	profile       *api.Profile
	history       []api.ChatExchange
	historyErr    error
}

func (s *stubBackend) Chat(ctx context.Context, message string, systemPrompt string, ephemeral bool) (string, error) {
	atomic.AddInt32(&s.chatCalls, 1)
	s.mu.Lock()
	s.chatPrompts = append(s.chatPrompts, systemPrompt)
	s.chatEphemeral = append(s.chatEphemeral, ephemeral)
	s.mu.Unlock()
	if s.chatErr != nil {
		return "", s.chatErr
	}
	return s.response, nil
}

func (s *stubBackend) Profile(ctx context.Context) (*api.Profile, error) {
	if s.profile == nil {
		return nil, errors.New("no profile")
	}
	return s.profile, nil
}

func (s *stubBackend) ChatHistory(ctx context.Context, limit int) ([]api.ChatExchange, error) {
	return s.history, s.historyErr
}

func TestUnauthenticatedGreeting_NoNetworkCalls(t *testing.T) {
	backend := &stubBackend{}
	c := NewController(backend, nil)

	transcript := c.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, SenderAssistant, transcript[0].Sender)
	assert.Equal(t, CannedGreeting, transcript[0].Content)
	assert.Equal(t, int32(0), atomic.LoadInt32(&backend.chatCalls))
	assert.Equal(t, StateIdle, c.State())
}

func TestSend_RequiresSignIn(t *testing.T) {
	c := NewController(&stubBackend{}, nil)

	_, err := c.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestOnSignIn_WelcomeFiresExactlyOnce_Concurrent(t *testing.T) {
	backend := &stubBackend{
		response: "Happy Monday! Ready to crush it?",
		profile:  &api.Profile{ID: "u1", HasSeenWelcome: true},
	}
	c := NewController(backend, nil)

	const triggers = 20
	var wg sync.WaitGroup
	for i := 0; i < triggers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.OnSignIn(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.chatCalls))
	assert.Equal(t, StateWelcomeDelivered, c.State())
}

func TestOnSignIn_NewUserVariantAndPrompt(t *testing.T) {
	backend := &stubBackend{
		response: "Welcome aboard!",
		profile:  &api.Profile{ID: "u1", HasSeenWelcome: false},
	}
	c := NewController(backend, nil)
	c.now = func() time.Time { return time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC) }

	isNewUser, err := c.OnSignIn(context.Background())
	require.NoError(t, err)
	assert.True(t, isNewUser)

	require.Len(t, backend.chatPrompts, 1)
	assert.Contains(t, backend.chatPrompts[0], "Monday")
	assert.Contains(t, backend.chatPrompts[0], "9:30 AM")

	transcript := c.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, "Welcome aboard!", transcript[0].Content)
}

func TestWelcomeIsEphemeral_UserSendIsNot(t *testing.T) {
	backend := &stubBackend{
		response: "hello!",
		profile:  &api.Profile{ID: "u1", HasSeenWelcome: true},
	}
	c := NewController(backend, nil)

	_, err := c.OnSignIn(context.Background())
	require.NoError(t, err)

	_, err = c.Send(context.Background(), "how's my week looking?")
	require.NoError(t, err)

	// the synthetic welcome must not be stored as history; real sends must be
	require.Len(t, backend.chatEphemeral, 2)
	assert.True(t, backend.chatEphemeral[0])
	assert.False(t, backend.chatEphemeral[1])
}

func TestOnSignIn_HistoryRebuildSkipsWelcome(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	backend := &stubBackend{
		profile: &api.Profile{ID: "u1", HasSeenWelcome: true},
		history: []api.ChatExchange{
			{UserMessage: "second", BotResponse: "reply two", Timestamp: ts.Add(time.Minute)},
			{UserMessage: "first", BotResponse: "reply one", Timestamp: ts},
		},
	}
	c := NewController(backend, nil)

	_, err := c.OnSignIn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&backend.chatCalls))

	transcript := c.Transcript()
	require.Len(t, transcript, 4)
	assert.Equal(t, "first", transcript[0].Content)
	assert.Equal(t, "reply one", transcript[1].Content)
	assert.Equal(t, "second", transcript[2].Content)
	assert.Equal(t, "reply two", transcript[3].Content)
}

func TestOnSignIn_FailureAllowsRetry(t *testing.T) {
	backend := &stubBackend{
		chatErr: errors.New("upstream down"),
		profile: &api.Profile{ID: "u1", HasSeenWelcome: true},
	}
	c := NewController(backend, nil)

	_, err := c.OnSignIn(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateIdle, c.State())

	backend.chatErr = nil
	backend.response = "hello again"

	_, err = c.OnSignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateWelcomeDelivered, c.State())
}

func TestSend_OptimisticAppendAndTyping(t *testing.T) {
	backend := &stubBackend{
		response: "Nice work on that run!",
		profile:  &api.Profile{ID: "u1", HasSeenWelcome: true},
	}
	c := NewController(backend, nil)
	_, err := c.OnSignIn(context.Background())
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), "I went for a run")
	require.NoError(t, err)
	assert.Equal(t, "Nice work on that run!", resp)
	assert.False(t, c.Typing())

	transcript := c.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, SenderUser, transcript[1].Sender)
	assert.Equal(t, "I went for a run", transcript[1].Content)
	assert.Equal(t, SenderAssistant, transcript[2].Sender)
}

func TestSend_UserLineKeptOnFailure(t *testing.T) {
	backend := &stubBackend{
		response: "hi",
		profile:  &api.Profile{ID: "u1", HasSeenWelcome: true},
	}
	c := NewController(backend, nil)
	_, err := c.OnSignIn(context.Background())
	require.NoError(t, err)

	backend.chatErr = errors.New("boom")
	_, err = c.Send(context.Background(), "are you there?")
	require.Error(t, err)

	transcript := c.Transcript()
	last := transcript[len(transcript)-1]
	assert.Equal(t, SenderUser, last.Sender)
	assert.Equal(t, "are you there?", last.Content)
}

func TestSend_SecondSendWhileOutstandingIsRejected(t *testing.T) {
	backend := &stubBackend{
		response: "hi",
		profile:  &api.Profile{ID: "u1", HasSeenWelcome: true},
	}
	c := NewController(backend, nil)
	_, err := c.OnSignIn(context.Background())
	require.NoError(t, err)

	// simulate an outstanding call
	c.setTyping(true)

	_, err = c.Send(context.Background(), "second message")
	assert.ErrorIs(t, err, ErrBusy)

	c.setTyping(false)
	_, err = c.Send(context.Background(), "second message")
	assert.NoError(t, err)
}

func TestOnSignOut_ReseedsCannedGreeting(t *testing.T) {
	backend := &stubBackend{
		response: "hi",
		profile:  &api.Profile{ID: "u1", HasSeenWelcome: true},
	}
	c := NewController(backend, nil)
	_, err := c.OnSignIn(context.Background())
	require.NoError(t, err)

	c.OnSignOut(context.Background())

	assert.Equal(t, StateIdle, c.State())
	transcript := c.Transcript()
	require.Len(t, transcript, 1)
	assert.True(t, strings.HasPrefix(transcript[0].Content, "Hey there, welcome to VitaBuddy!"))

	_, err = c.Send(context.Background(), "hello?")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}
