package activities

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitabuddy/vitabuddy/internal/common"
)

// RecentLimit is how many of the newest activities are handed to the chat
// context assembler.
const RecentLimit = 5

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create stores a new activity. An empty description is a validation error;
// a zero date defaults to the creation time.
func (s *Service) Create(ctx context.Context, userID string, description string, date time.Time) (*Activity, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", common.ErrorValidation)
	}

	if date.IsZero() {
		date = s.now()
	}

	activity := &Activity{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: description,
		Date:        date,
	}

	return s.repo.Create(ctx, activity)
}

func (s *Service) List(ctx context.Context, userID string) ([]Activity, error) {
	return s.repo.ListByUser(ctx, userID, 0)
}

// Recent returns up to RecentLimit newest activities.
func (s *Service) Recent(ctx context.Context, userID string) ([]Activity, error) {
	return s.repo.ListByUser(ctx, userID, RecentLimit)
}

// Update edits an owned activity. Rows owned by other users surface as
// common.ErrorNotFound, never as a permission error. A zero date keeps the
// stored date, so description-only edits do not touch it.
func (s *Service) Update(ctx context.Context, userID string, id string, description string, date time.Time) (*Activity, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", common.ErrorValidation)
	}

	return s.repo.Update(ctx, &Activity{
		ID:          id,
		UserID:      userID,
		Description: description,
		Date:        date,
	})
}

func (s *Service) Delete(ctx context.Context, userID string, id string) error {
	return s.repo.Delete(ctx, id, userID)
}

// Stats counts the user's activities over the trailing 7/30/365 days.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	now := s.now()

	week, err := s.repo.CountSince(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	month, err := s.repo.CountSince(ctx, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	year, err := s.repo.CountSince(ctx, userID, now.AddDate(0, 0, -365))
	if err != nil {
		return nil, err
	}

	return &Stats{Week: week, Month: month, Year: year}, nil
}
