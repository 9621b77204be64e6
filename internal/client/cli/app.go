// Package cli implements the interactive terminal client: a REPL where plain
// lines are chat messages and slash-style commands manage activities, goals,
// reminders, and the session.
package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/vitabuddy/vitabuddy/internal/client/api"
	"github.com/vitabuddy/vitabuddy/internal/client/config"
	"github.com/vitabuddy/vitabuddy/internal/client/conversation"
	"github.com/vitabuddy/vitabuddy/internal/client/localdb"
	"github.com/vitabuddy/vitabuddy/internal/client/services"
)

type App struct {
	config          *config.Config
	api             *api.Client
	local           *localdb.Repositories
	authService     *services.AuthService
	activityService *services.ActivityService
	conversation    *conversation.Controller
	session         *services.Session
	reader          *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	local, err := localdb.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		log.Printf("error initializing local database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewClient(c.ServerEndpointAddr, c.RequestTimeout)

	as := services.NewAuthService(apiClient, local)
	acts := services.NewActivityService(apiClient, local.Activities)
	conv := conversation.NewController(apiClient, local.Messages)

	return &App{
		config:          c,
		api:             apiClient,
		local:           local,
		authService:     as,
		activityService: acts,
		conversation:    conv,
		reader:          bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.local.Close(); err != nil {
			log.Printf("error closing local database: %s", err)
		}
	}()

	// restore a saved session so a restart skips the password prompt
	session, err := a.authService.RestoreSession(ctx)
	if err != nil {
		log.Printf("error restoring session: %s", err)
	}
	if session != nil {
		a.session = session
		if _, err := a.conversation.OnSignIn(ctx); err != nil {
			log.Printf("could not reach server, sign in again when online: %s", err)
			a.session = nil
		}
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}
