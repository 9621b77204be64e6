package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/vitabuddy/vitabuddy/internal/server/activities"
	"github.com/vitabuddy/vitabuddy/internal/server/chat"
	"github.com/vitabuddy/vitabuddy/internal/server/goals"
	"github.com/vitabuddy/vitabuddy/internal/server/migrations"
	"github.com/vitabuddy/vitabuddy/internal/server/refreshtokens"
	"github.com/vitabuddy/vitabuddy/internal/server/reminders"
	"github.com/vitabuddy/vitabuddy/internal/server/users"
)

type PostgresRepositoryManager struct {
	db            *sql.DB
	users         users.Repository
	refreshTokens refreshtokens.Repository
	activities    activities.Repository
	goals         goals.Repository
	reminders     reminders.Repository
	chatMessages  chat.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *PostgresRepositoryManager) Activities() activities.Repository {
	return m.activities
}

func (m *PostgresRepositoryManager) Goals() goals.Repository {
	return m.goals
}

func (m *PostgresRepositoryManager) Reminders() reminders.Repository {
	return m.reminders
}

func (m *PostgresRepositoryManager) ChatMessages() chat.Repository {
	return m.chatMessages
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	usersRepo, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	refreshTokensRepo, err := refreshtokens.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("refresh token repo creation error: %w", err)
	}

	activitiesRepo, err := activities.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("activity repo creation error: %w", err)
	}

	goalsRepo, err := goals.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("goal repo creation error: %w", err)
	}

	remindersRepo, err := reminders.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("reminder repo creation error: %w", err)
	}

	chatRepo, err := chat.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("chat repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:            db,
		users:         usersRepo,
		refreshTokens: refreshTokensRepo,
		activities:    activitiesRepo,
		goals:         goalsRepo,
		reminders:     remindersRepo,
		chatMessages:  chatRepo,
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
