// Package conversation owns the chat transcript: the typing indicator,
// welcome-message bootstrapping, and dispatch of user messages to the
// completion proxy.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitabuddy/vitabuddy/internal/client/api"
	"github.com/vitabuddy/vitabuddy/internal/client/repositories/messages"
)

// State tracks welcome-message bootstrapping. The welcome call fires exactly
// once per session: the Idle -> WelcomeRequested transition happens under the
// controller mutex, so concurrent sign-in triggers collapse to one call.
type State int

const (
	StateIdle State = iota
	StateWelcomeRequested
	StateWelcomeDelivered
)

// Transcript sender labels.
const (
	SenderUser      = "You"
	SenderAssistant = "HealthBuddy"
)

// CannedGreeting is shown to unauthenticated users. It involves no network
// call.
const CannedGreeting = "Hey there, welcome to VitaBuddy! 🎉\n" +
	"I'm here to help you feel your best—and the more I get to know you, the better I can support you on your journey.\n" +
	"Tap the Profile tab to create an account or log in, and let's get started!\n" +
	"Can't wait to team up with you! 💪✨"

const (
	welcomeMessageNewUser   = "Hi! I'm your AI health buddy. How can I help you today?"
	welcomeMessageReturning = "Welcome back! How can I help you today?"

	welcomeSystemPromptFormat = "You are a supportive, positive, and energetic AI health buddy. " +
		"Your role is to help users maintain and improve their long-term and sustainable healthy habits. " +
		"You have access to their recent activities. " +
		"It's currently %s at %s. Let's start with some brief small talk based on day of week and time of day " +
		"and celebrate any recent wins to motivate them. Keep response to 2-3 sentences max."

	historyRebuildLimit = 100
)

var (
	ErrBusy         = errors.New("a message is already in flight")
	ErrNotSignedIn  = errors.New("not signed in")
	ErrEmptyMessage = errors.New("message is empty")
)

// Backend is the slice of the API client the controller needs.
type Backend interface {
	Chat(ctx context.Context, message string, systemPrompt string, ephemeral bool) (string, error)
	Profile(ctx context.Context) (*api.Profile, error)
	ChatHistory(ctx context.Context, limit int) ([]api.ChatExchange, error)
}

// Message is one transcript line.
type Message struct {
	Sender    string
	Content   string
	Timestamp time.Time
}

// Controller is safe for concurrent use; one mutex guards state, transcript,
// and the in-flight flags.
type Controller struct {
	mu         sync.Mutex
	state      State
	typing     bool
	signedIn   bool
	transcript []Message

	backend Backend
	cache   messages.Repository
	now     func() time.Time
}

// NewController starts in the unauthenticated state with the canned greeting
// seeded into the transcript. cache may be nil; caching is best-effort.
func NewController(backend Backend, cache messages.Repository) *Controller {
	c := &Controller{
		backend: backend,
		cache:   cache,
		now:     time.Now,
	}
	c.transcript = []Message{{Sender: SenderAssistant, Content: CannedGreeting, Timestamp: c.now()}}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Typing reports whether a proxy call is outstanding.
func (c *Controller) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// Transcript returns a copy of the current transcript.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = append(c.transcript, msg)
}

func (c *Controller) setTyping(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typing = v
}

// OnSignIn handles the auth-state notification. It rebuilds the transcript
// from server history when there is one, otherwise it fires the single
// welcome proxy call. Returns whether the signed-in user has not seen the
// one-time welcome notice yet.
//
// Re-entrant calls and concurrent calls are safe: only the caller that wins
// the Idle -> WelcomeRequested transition proceeds.
func (c *Controller) OnSignIn(ctx context.Context) (isNewUser bool, err error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return false, nil
	}
	c.state = StateWelcomeRequested
	c.signedIn = true
	c.transcript = nil
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if err != nil {
			// allow a retry on the next sign-in notification
			c.state = StateIdle
		} else {
			c.state = StateWelcomeDelivered
		}
		c.mu.Unlock()
	}()

	profile, err := c.backend.Profile(ctx)
	if err != nil {
		return false, fmt.Errorf("error loading profile: %w", err)
	}
	isNewUser = !profile.HasSeenWelcome

	history, err := c.backend.ChatHistory(ctx, historyRebuildLimit)
	if err != nil {
		return isNewUser, fmt.Errorf("error loading chat history: %w", err)
	}

	if len(history) > 0 {
		c.rebuildTranscript(ctx, history)
		return isNewUser, nil
	}

	if err := c.sendWelcome(ctx, isNewUser); err != nil {
		return isNewUser, err
	}

	return isNewUser, nil
}

// rebuildTranscript converts newest-first history rows into chronological
// transcript lines and mirrors them into the local cache.
func (c *Controller) rebuildTranscript(ctx context.Context, history []api.ChatExchange) {
	var lines []Message
	var cached []messages.Message

	for i := len(history) - 1; i >= 0; i-- {
		ex := history[i]
		if ex.UserMessage != "" {
			lines = append(lines, Message{Sender: SenderUser, Content: ex.UserMessage, Timestamp: ex.Timestamp})
			cached = append(cached, messages.Message{
				ID: uuid.NewString(), Role: messages.RoleUser, Content: ex.UserMessage, Timestamp: ex.Timestamp,
			})
		}
		if ex.BotResponse != "" {
			lines = append(lines, Message{Sender: SenderAssistant, Content: ex.BotResponse, Timestamp: ex.Timestamp})
			cached = append(cached, messages.Message{
				ID: uuid.NewString(), Role: messages.RoleAssistant, Content: ex.BotResponse, Timestamp: ex.Timestamp,
			})
		}
	}

	c.mu.Lock()
	c.transcript = lines
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.ReplaceAll(ctx, cached); err != nil {
			log.Printf("failed to cache transcript: %s", err)
		}
	}
}

func (c *Controller) sendWelcome(ctx context.Context, isNewUser bool) error {
	message := welcomeMessageReturning
	if isNewUser {
		message = welcomeMessageNewUser
	}

	now := c.now()
	systemPrompt := fmt.Sprintf(welcomeSystemPromptFormat,
		now.Weekday().String(), now.Format("3:04 PM"))

	c.setTyping(true)
	defer c.setTyping(false)

	// the welcome is synthetic; it must not be stored as a user message
	response, err := c.backend.Chat(ctx, message, systemPrompt, true)
	if err != nil {
		return fmt.Errorf("welcome call failed: %w", err)
	}

	c.append(Message{Sender: SenderAssistant, Content: response, Timestamp: c.now()})
	c.cacheLine(ctx, messages.RoleAssistant, response)
	return nil
}

// Send dispatches one user message. The user's line is appended before the
// proxy call resolves; a second send while one is outstanding returns
// ErrBusy.
func (c *Controller) Send(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", ErrEmptyMessage
	}

	c.mu.Lock()
	if !c.signedIn {
		c.mu.Unlock()
		return "", ErrNotSignedIn
	}
	if c.typing {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.typing = true
	c.transcript = append(c.transcript, Message{Sender: SenderUser, Content: text, Timestamp: c.now()})
	c.mu.Unlock()

	defer c.setTyping(false)

	c.cacheLine(ctx, messages.RoleUser, text)

	response, err := c.backend.Chat(ctx, text, "", false)
	if err != nil {
		return "", fmt.Errorf("error getting response: %w", err)
	}

	c.append(Message{Sender: SenderAssistant, Content: response, Timestamp: c.now()})
	c.cacheLine(ctx, messages.RoleAssistant, response)

	return response, nil
}

// cacheLine mirrors a transcript line into the local cache. Failures are
// logged and never surfaced.
func (c *Controller) cacheLine(ctx context.Context, role string, content string) {
	if c.cache == nil {
		return
	}
	err := c.cache.Append(ctx, &messages.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
	})
	if err != nil {
		log.Printf("failed to cache message: %s", err)
	}
}

// OnSignOut clears the session and reseeds the canned greeting.
func (c *Controller) OnSignOut(ctx context.Context) {
	c.mu.Lock()
	c.state = StateIdle
	c.signedIn = false
	c.typing = false
	c.transcript = []Message{{Sender: SenderAssistant, Content: CannedGreeting, Timestamp: c.now()}}
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.Clear(ctx); err != nil {
			log.Printf("failed to clear message cache: %s", err)
		}
	}
}
