package reminders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vitabuddy/vitabuddy/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, reminder *Reminder) (*Reminder, error) {

	query :=
		`INSERT INTO user_reminders (user_id, reminders)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET reminders = excluded.reminders
		 RETURNING user_id, reminders
		 `

	saved := &Reminder{}
	err := r.db.QueryRowContext(ctx, query, reminder.UserID, reminder.Reminders).
		Scan(&saved.UserID, &saved.Reminders)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return saved, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Reminder, error) {

	query :=
		`SELECT user_id, reminders FROM user_reminders
		 WHERE user_id = $1
		 `

	reminder := &Reminder{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&reminder.UserID, &reminder.Reminders)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return reminder, nil
}
