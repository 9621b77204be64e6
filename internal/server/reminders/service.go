package reminders

import (
	"context"
	"errors"

	"github.com/vitabuddy/vitabuddy/internal/common"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Save(ctx context.Context, userID string, text string) (*Reminder, error) {
	return s.repo.Upsert(ctx, &Reminder{UserID: userID, Reminders: text})
}

// Get returns the user's reminder text. A user who never saved reminders
// gets an empty blob, not an error.
func (s *Service) Get(ctx context.Context, userID string) (*Reminder, error) {
	reminder, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &Reminder{UserID: userID, Reminders: ""}, nil
		}
		return nil, err
	}
	return reminder, nil
}
