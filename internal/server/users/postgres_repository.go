package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vitabuddy/vitabuddy/internal/common"
	"github.com/vitabuddy/vitabuddy/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CreateWithProfile inserts both rows in one transaction, so a failed profile
// insert never leaves an orphaned auth identity behind.
func (r *PostgresRepository) CreateWithProfile(ctx context.Context, user *User, profile *Profile) (*User, error) {

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO users (id, email, password_hash)
			 VALUES ($1, $2, $3)
			 RETURNING created_at
			 `

		if err := tx.QueryRowContext(ctx, query,
			user.ID, user.Email, user.PasswordHash).Scan(&user.CreatedAt); err != nil {
			return err
		}

		query =
			`INSERT INTO profiles (id, name, email, has_seen_welcome)
			 VALUES ($1, $2, $3, $4)
			 `

		_, err := tx.ExecContext(ctx, query,
			profile.ID, profile.Name, profile.Email, profile.HasSeenWelcome)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT id, email, password_hash, created_at FROM users
		 WHERE email = $1
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	query :=
		`SELECT id, name, email, has_seen_welcome FROM profiles
		 WHERE id = $1
		 `

	profile := &Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&profile.ID, &profile.Name, &profile.Email, &profile.HasSeenWelcome)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) MarkWelcomeSeen(ctx context.Context, userID string) error {
	query :=
		`UPDATE profiles SET has_seen_welcome = true
		 WHERE id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}
