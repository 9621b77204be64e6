package goals

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

func (r *PostgresRepository) Create(ctx context.Context, goal *Goal) (*Goal, error) {

	query :=
		`INSERT INTO goals (id, user_id, goal_text)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		goal.ID, goal.UserID, goal.GoalText).Scan(&goal.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return goal, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Goal, error) {

	query :=
		`SELECT id, user_id, goal_text, created_at FROM goals
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []Goal
	for rows.Next() {
		var item Goal
		if err := rows.Scan(&item.ID, &item.UserID, &item.GoalText, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, goal *Goal) (*Goal, error) {

	query :=
		`UPDATE goals SET goal_text = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, user_id, goal_text, created_at
		 `

	updated := &Goal{}
	err := r.db.QueryRowContext(ctx, query, goal.GoalText, goal.ID, goal.UserID).
		Scan(&updated.ID, &updated.UserID, &updated.GoalText, &updated.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, userID string) error {

	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`

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
