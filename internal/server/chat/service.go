package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitabuddy/vitabuddy/internal/common"
	"github.com/vitabuddy/vitabuddy/internal/logging"
	"github.com/vitabuddy/vitabuddy/internal/server/activities"
	"github.com/vitabuddy/vitabuddy/internal/server/goals"
	"github.com/vitabuddy/vitabuddy/internal/server/llm"
	"github.com/vitabuddy/vitabuddy/internal/server/reminders"
)

// historyPageLimit caps the transcript-rebuild endpoint.
const historyPageLimit = 100

// ActivitySource provides the newest activities for context assembly.
type ActivitySource interface {
	Recent(ctx context.Context, userID string) ([]activities.Activity, error)
}

// ReminderSource provides the user's free-text reminder blob.
type ReminderSource interface {
	Get(ctx context.Context, userID string) (*reminders.Reminder, error)
}

// GoalSource provides the user's goals.
type GoalSource interface {
	List(ctx context.Context, userID string) ([]goals.Goal, error)
}

type Service struct {
	repo           Repository
	completer      llm.Completer
	activitySource ActivitySource
	reminderSource ReminderSource
	goalSource     GoalSource
	defaultPrompt  string
	logger         logging.Logger
	now            func() time.Time
}

func NewService(
	repo Repository,
	completer llm.Completer,
	activitySource ActivitySource,
	reminderSource ReminderSource,
	goalSource GoalSource,
	defaultPrompt string,
	logger logging.Logger,
) *Service {
	return &Service{
		repo:           repo,
		completer:      completer,
		activitySource: activitySource,
		reminderSource: reminderSource,
		goalSource:     goalSource,
		defaultPrompt:  defaultPrompt,
		logger:         logger.With("module", "chat"),
		now:            time.Now,
	}
}

// assembleContext builds the situational context from the store: newest
// activities, the reminder blob, and the goal list.
func (s *Service) assembleContext(ctx context.Context, userID string) (Context, error) {
	var c Context

	recent, err := s.activitySource.Recent(ctx, userID)
	if err != nil {
		return c, fmt.Errorf("error loading recent activities: %w", err)
	}
	for _, a := range recent {
		c.RecentActivities = append(c.RecentActivities, ActivityContext{
			Description: a.Description,
			Date:        a.Date,
		})
	}

	reminder, err := s.reminderSource.Get(ctx, userID)
	if err != nil {
		return c, fmt.Errorf("error loading reminders: %w", err)
	}
	c.ThingsToKeepInMind = reminder.Reminders

	goalList, err := s.goalSource.List(ctx, userID)
	if err != nil {
		return c, fmt.Errorf("error loading goals: %w", err)
	}
	for _, g := range goalList {
		c.Goals = append(c.Goals, GoalContext{Description: g.GoalText})
	}

	return c, nil
}

// Respond forwards one user message to the completion API and returns the
// generated text. When suppliedContext is nil the context is assembled from
// the store. With persist set the exchange is stored best-effort: a failed
// insert is logged, never surfaced. Synthetic prompts such as the sign-in
// welcome pass persist=false so they never show up in history as a user
// message.
func (s *Service) Respond(ctx context.Context, userID string, message string, suppliedContext *Context, systemPrompt string, persist bool) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is required", common.ErrorValidation)
	}

	var promptContext Context
	if suppliedContext != nil {
		promptContext = *suppliedContext
	} else {
		assembled, err := s.assembleContext(ctx, userID)
		if err != nil {
			return "", err
		}
		promptContext = assembled
	}

	if systemPrompt == "" {
		systemPrompt = s.defaultPrompt
	}

	history, err := s.repo.ListRecent(ctx, userID, historyLimit)
	if err != nil {
		// memory is an enhancement; answer without it
		s.logger.Warn(ctx, "failed to load chat history", "error", err)
		history = nil
	}

	messages := BuildMessages(systemPrompt, FormatContext(promptContext), history, message)

	response, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("error getting completion: %w", err)
	}

	if persist {
		exchange := &ChatMessage{
			ID:          uuid.NewString(),
			UserID:      userID,
			UserMessage: message,
			BotResponse: response,
			Timestamp:   s.now(),
		}
		if err := s.repo.Create(ctx, exchange); err != nil {
			s.logger.Error(ctx, "failed to store chat message", "error", err)
		}
	}

	return response, nil
}

// History returns up to limit recent exchanges for transcript rebuild,
// newest first. Limit is clamped to historyPageLimit.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]ChatMessage, error) {
	if limit <= 0 || limit > historyPageLimit {
		limit = historyPageLimit
	}
	return s.repo.ListRecent(ctx, userID, limit)
}
