package goals

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vitabuddy/vitabuddy/internal/common"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID string, goalText string) (*Goal, error) {
	goalText = strings.TrimSpace(goalText)
	if goalText == "" {
		return nil, fmt.Errorf("%w: goal text is required", common.ErrorValidation)
	}

	return s.repo.Create(ctx, &Goal{
		ID:       uuid.NewString(),
		UserID:   userID,
		GoalText: goalText,
	})
}

func (s *Service) List(ctx context.Context, userID string) ([]Goal, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID string, id string, goalText string) (*Goal, error) {
	goalText = strings.TrimSpace(goalText)
	if goalText == "" {
		return nil, fmt.Errorf("%w: goal text is required", common.ErrorValidation)
	}

	return s.repo.Update(ctx, &Goal{ID: id, UserID: userID, GoalText: goalText})
}

func (s *Service) Delete(ctx context.Context, userID string, id string) error {
	return s.repo.Delete(ctx, id, userID)
}
