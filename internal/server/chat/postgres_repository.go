package chat

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, message *ChatMessage) error {

	query :=
		`INSERT INTO chat_messages (id, user_id, user_message, bot_response, ts)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.UserID, message.UserMessage, message.BotResponse, message.Timestamp)

	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID string, limit int) ([]ChatMessage, error) {

	query :=
		`SELECT id, user_id, user_message, bot_response, ts FROM chat_messages
		 WHERE user_id = $1
		 ORDER BY ts DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []ChatMessage
	for rows.Next() {
		var item ChatMessage
		if err := rows.Scan(&item.ID, &item.UserID, &item.UserMessage, &item.BotResponse, &item.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
