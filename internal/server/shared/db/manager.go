// Package db wires the Postgres connection, runs migrations, and hands out
// the repository set the services are built from.
package db

import (
	"context"
	"database/sql"

	"github.com/vitabuddy/vitabuddy/internal/server/activities"
	"github.com/vitabuddy/vitabuddy/internal/server/chat"
	"github.com/vitabuddy/vitabuddy/internal/server/goals"
	"github.com/vitabuddy/vitabuddy/internal/server/refreshtokens"
	"github.com/vitabuddy/vitabuddy/internal/server/reminders"
	"github.com/vitabuddy/vitabuddy/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Activities() activities.Repository
	Goals() goals.Repository
	Reminders() reminders.Repository
	ChatMessages() chat.Repository
}
