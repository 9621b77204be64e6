package activities

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

func (r *SQLiteRepository) List(ctx context.Context) ([]Activity, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, description, date, created_at FROM activities ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var result []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Description, &a.Date, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, activity *Activity) error {
	_, err := r.conn.ExecContext(ctx, `
		INSERT INTO activities (id, description, date, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET description = excluded.description, date = excluded.date
	`, activity.ID, activity.Description, activity.Date, activity.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert activity[%s]: %w", activity.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity[%s]: %w", id, err)
	}
	return nil
}

// ReplaceAll swaps the whole cache for the server's list in one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, list []Activity) error {
	return dbx.WithTx(ctx, r.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
			return fmt.Errorf("failed to clear activities: %w", err)
		}
		for _, a := range list {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO activities (id, description, date, created_at) VALUES (?, ?, ?, ?)`,
				a.ID, a.Description, a.Date, a.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert activity[%s]: %w", a.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM activities`)
	if err != nil {
		return fmt.Errorf("failed to clear activities: %w", err)
	}
	return nil
}
