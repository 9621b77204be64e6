package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vitabuddy/vitabuddy/internal/client/api"
	"github.com/vitabuddy/vitabuddy/internal/client/repositories/activities"
)

// ActivityBackend is the slice of the API client the activity service needs.
type ActivityBackend interface {
	ListActivities(ctx context.Context) ([]api.Activity, error)
	CreateActivity(ctx context.Context, description string, date *time.Time) (*api.Activity, error)
	UpdateActivity(ctx context.Context, id string, description string, date *time.Time) (*api.Activity, error)
	DeleteActivity(ctx context.Context, id string) error
	ActivityStats(ctx context.Context) (*api.Stats, error)
}

// ActivityService is the activity store client. The row returned by a
// mutating call is authoritative: the local cache is updated from it and
// there is no background re-fetch. Refresh pulls the server list explicitly.
type ActivityService struct {
	backend ActivityBackend
	cache   activities.Repository
}

func NewActivityService(backend ActivityBackend, cache activities.Repository) *ActivityService {
	return &ActivityService{backend: backend, cache: cache}
}

func toCached(a *api.Activity) *activities.Activity {
	return &activities.Activity{
		ID:          a.ID,
		Description: a.Description,
		Date:        a.Date,
		CreatedAt:   a.CreatedAt,
	}
}

// Refresh replaces the local cache with the server's list and returns it.
func (s *ActivityService) Refresh(ctx context.Context) ([]api.Activity, error) {
	list, err := s.backend.ListActivities(ctx)
	if err != nil {
		return nil, err
	}

	cached := make([]activities.Activity, 0, len(list))
	for _, a := range list {
		cached = append(cached, *toCached(&a))
	}
	if err := s.cache.ReplaceAll(ctx, cached); err != nil {
		log.Printf("failed to refresh activity cache: %s", err)
	}

	return list, nil
}

// List returns the cached activities; on a cold cache it falls back to a
// server fetch.
func (s *ActivityService) List(ctx context.Context) ([]api.Activity, error) {
	cached, err := s.cache.List(ctx)
	if err != nil || len(cached) == 0 {
		return s.Refresh(ctx)
	}

	list := make([]api.Activity, 0, len(cached))
	for _, a := range cached {
		list = append(list, api.Activity{
			ID:          a.ID,
			Description: a.Description,
			Date:        a.Date,
			CreatedAt:   a.CreatedAt,
		})
	}
	return list, nil
}

// Log creates an activity. date may be nil to let the server use the
// creation time.
func (s *ActivityService) Log(ctx context.Context, description string, date *time.Time) (*api.Activity, error) {
	created, err := s.backend.CreateActivity(ctx, description, date)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Upsert(ctx, toCached(created)); err != nil {
		log.Printf("failed to cache activity: %s", err)
	}
	return created, nil
}

func (s *ActivityService) Edit(ctx context.Context, id string, description string, date *time.Time) (*api.Activity, error) {
	updated, err := s.backend.UpdateActivity(ctx, id, description, date)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Upsert(ctx, toCached(updated)); err != nil {
		log.Printf("failed to cache activity: %s", err)
	}
	return updated, nil
}

// Delete removes the activity from the store first; the cached row goes away
// only after the store confirms.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteActivity(ctx, id); err != nil {
		return fmt.Errorf("error deleting activity: %w", err)
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		log.Printf("failed to evict cached activity: %s", err)
	}
	return nil
}

func (s *ActivityService) Stats(ctx context.Context) (*api.Stats, error) {
	return s.backend.ActivityStats(ctx)
}
