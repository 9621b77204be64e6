// Package server initializes and runs the VitaBuddy backend: it wires the
// Postgres repositories, the domain services, the completion proxy, the HTTP
// endpoint, and the token-purge scheduler, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vitabuddy/vitabuddy/internal/logging"
	"github.com/vitabuddy/vitabuddy/internal/server/activities"
	"github.com/vitabuddy/vitabuddy/internal/server/chat"
	"github.com/vitabuddy/vitabuddy/internal/server/config"
	"github.com/vitabuddy/vitabuddy/internal/server/goals"
	"github.com/vitabuddy/vitabuddy/internal/server/httpapi"
	"github.com/vitabuddy/vitabuddy/internal/server/llm"
	"github.com/vitabuddy/vitabuddy/internal/server/reminders"
	"github.com/vitabuddy/vitabuddy/internal/server/scheduler"
	"github.com/vitabuddy/vitabuddy/internal/server/shared/db"
	"github.com/vitabuddy/vitabuddy/internal/server/users"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	repoManager     db.RepositoryManager
	userService     *users.Service
	activityService *activities.Service
	goalService     *goals.Service
	reminderService *reminders.Service
	chatService     *chat.Service
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(rm.Users(), rm.RefreshTokens(), cfg)
	as := activities.NewService(rm.Activities())
	gs := goals.NewService(rm.Goals())
	rs := reminders.NewService(rm.Reminders())

	completer := llm.NewOpenAIClient(cfg.CompletionAPIKey, cfg.CompletionBaseURL, cfg.CompletionModel)
	cs := chat.NewService(rm.ChatMessages(), completer, as, rs, gs, cfg.SystemPrompt, logger)

	return &App{
		config:          cfg,
		logger:          logger,
		repoManager:     rm,
		userService:     us,
		activityService: as,
		goalService:     gs,
		reminderService: rs,
		chatService:     cs,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(
		app.config.EndpointAddr,
		app.config.AllowedOrigins,
		app.logger,
		app.userService,
		app.activityService,
		app.goalService,
		app.reminderService,
		app.chatService,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startScheduler(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := scheduler.New(app.userService, app.config.TokenPurgeInterval, app.logger)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startScheduler(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repoManager.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
