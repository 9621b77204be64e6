// Package scheduler runs the background maintenance jobs. Currently that is
// a single janitor that purges expired refresh tokens.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vitabuddy/vitabuddy/internal/logging"
)

// TokenPurger deletes refresh tokens past their expiry and reports how many
// rows went away.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type Scheduler struct {
	scheduler gocron.Scheduler
	logger    logging.Logger
}

// New wires the purge job at the given interval. The job is registered but
// not started; call Run.
func New(purger TokenPurger, interval time.Duration, logger logging.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	log := logger.With("module", "scheduler")

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			purged, err := purger.PurgeExpiredTokens(ctx)
			if err != nil {
				log.Error(ctx, "token purge failed", "error", err)
				return
			}
			if purged > 0 {
				log.Info(ctx, "purged expired refresh tokens", "count", purged)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Scheduler{scheduler: s, logger: log}, nil
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.scheduler.Start()
	s.logger.Info(ctx, "Starting scheduler")

	<-ctx.Done()

	s.logger.Info(ctx, "Stopping scheduler...")
	return s.scheduler.Shutdown()
}
