// Package localdb opens the client's SQLite cache, runs migrations, and
// hands out the local repository set.
package localdb

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/vitabuddy/vitabuddy/internal/client/migrations"
	"github.com/vitabuddy/vitabuddy/internal/client/repositories/activities"
	"github.com/vitabuddy/vitabuddy/internal/client/repositories/messages"
	"github.com/vitabuddy/vitabuddy/internal/client/repositories/metadata"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Metadata   metadata.Repository
	Activities activities.Repository
	Messages   messages.Repository
	conn       *sql.DB
}

func (r *Repositories) Close() error {
	return r.conn.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		Metadata:   metadata.NewSQLiteRepository(db),
		Activities: activities.NewSQLiteRepository(db),
		Messages:   messages.NewSQLiteRepository(db),
		conn:       db,
	}, nil
}
