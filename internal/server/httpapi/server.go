// Package httpapi exposes the public HTTP/JSON API: auth, profile,
// activities, goals, reminders, and the completion proxy endpoint.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/vitabuddy/vitabuddy/internal/logging"
	"github.com/vitabuddy/vitabuddy/internal/server/activities"
	"github.com/vitabuddy/vitabuddy/internal/server/chat"
	"github.com/vitabuddy/vitabuddy/internal/server/goals"
	"github.com/vitabuddy/vitabuddy/internal/server/reminders"
	"github.com/vitabuddy/vitabuddy/internal/server/users"
)

type Server struct {
	address        string
	allowedOrigins []string
	logger         logging.Logger
	users          *users.Service
	activities     *activities.Service
	goals          *goals.Service
	reminders      *reminders.Service
	chat           *chat.Service
}

func NewServer(
	address string,
	allowedOrigins []string,
	logger logging.Logger,
	us *users.Service,
	as *activities.Service,
	gs *goals.Service,
	rs *reminders.Service,
	cs *chat.Service,
) *Server {
	return &Server{
		address:        address,
		allowedOrigins: allowedOrigins,
		logger:         logger.With("module", "http_server"),
		users:          us,
		activities:     as,
		goals:          gs,
		reminders:      rs,
		chat:           cs,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
