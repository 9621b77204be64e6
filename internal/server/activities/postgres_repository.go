package activities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vitabuddy/vitabuddy/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, activity *Activity) (*Activity, error) {

	query :=
		`INSERT INTO activities (id, user_id, description, date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		activity.ID, activity.UserID, activity.Description, activity.Date).Scan(&activity.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return activity, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]Activity, error) {

	query :=
		`SELECT id, user_id, description, date, created_at FROM activities
		 WHERE user_id = $1
		 ORDER BY date DESC
		 `
	args := []any{userID}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []Activity
	for rows.Next() {
		var item Activity
		if err := rows.Scan(&item.ID, &item.UserID, &item.Description, &item.Date, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update filters by both id and user_id, so a row owned by someone else is
// indistinguishable from a missing one.
func (r *PostgresRepository) Update(ctx context.Context, activity *Activity) (*Activity, error) {

	query :=
		`UPDATE activities SET description = $1, date = COALESCE($2, date)
		 WHERE id = $3 AND user_id = $4
		 RETURNING id, user_id, description, date, created_at
		 `

	// a zero date means "keep the stored date"
	var date any
	if !activity.Date.IsZero() {
		date = activity.Date
	}

	updated := &Activity{}
	err := r.db.QueryRowContext(ctx, query,
		activity.Description, date, activity.ID, activity.UserID).
		Scan(&updated.ID, &updated.UserID, &updated.Description, &updated.Date, &updated.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, userID string) error {

	query := `DELETE FROM activities WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {

	query :=
		`SELECT count(*) FROM activities
		 WHERE user_id = $1 AND date >= $2
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}

	return count, nil
}
