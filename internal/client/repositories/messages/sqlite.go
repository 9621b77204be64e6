package messages

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vitabuddy/vitabuddy/internal/dbx"
)

type SQLiteRepository struct {
	conn *sql.DB
}

func NewSQLiteRepository(conn *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{conn: conn}
}

func (r *SQLiteRepository) Append(ctx context.Context, msg *Message) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO messages (id, role, content, ts) VALUES (?, ?, ?, ?)`,
		msg.ID, msg.Role, msg.Content, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListRecent returns the newest limit messages in chronological order.
func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]Message, error) {
	rows, err := r.conn.QueryContext(ctx, `
		SELECT id, role, content, ts FROM (
			SELECT id, role, content, ts FROM messages ORDER BY ts DESC LIMIT ?
		) ORDER BY ts ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var result []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}

	return result, nil
}

// ReplaceAll swaps the transcript for the server's history in one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, list []Message) error {
	return dbx.WithTx(ctx, r.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages`); err != nil {
			return fmt.Errorf("failed to clear messages: %w", err)
		}
		for _, m := range list {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO messages (id, role, content, ts) VALUES (?, ?, ?, ?)`,
				m.ID, m.Role, m.Content, m.Timestamp)
			if err != nil {
				return fmt.Errorf("failed to insert message: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM messages`)
	if err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
