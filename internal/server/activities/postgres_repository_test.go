package activities

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vitabuddy/vitabuddy/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo, err := NewPostgresRepository(db)
	if err != nil {
		t.Fatalf("NewPostgresRepository error: %v", err)
	}
	return repo, mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO activities .* RETURNING created_at`).
		WithArgs("a1", "u1", "ran 5k", date).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	activity, err := repo.Create(context.Background(), &Activity{
		ID:          "a1",
		UserID:      "u1",
		Description: "ran 5k",
		Date:        date,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !activity.CreatedAt.Equal(created) {
		t.Fatalf("want created_at %v, got %v", created, activity.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByUser_WithLimit(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "description", "date", "created_at"}).
		AddRow("a2", "u1", "newer", now, now).
		AddRow("a1", "u1", "older", now.Add(-time.Hour), now)

	mock.ExpectQuery(`SELECT id, user_id, description, date, created_at FROM activities .* ORDER BY date DESC .* LIMIT \$2`).
		WithArgs("u1", 5).
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 rows, got %d", len(list))
	}
	if list[0].Description != "newer" {
		t.Fatalf("want newest first, got %q", list[0].Description)
	}
}

func TestUpdate_ZeroDateKeepsStoredDate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	stored := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// NULL date falls back to the stored value via COALESCE
	mock.ExpectQuery(`UPDATE activities SET description = \$1, date = COALESCE\(\$2, date\)`).
		WithArgs("new description", nil, "a1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "description", "date", "created_at"}).
			AddRow("a1", "u1", "new description", stored, created))

	updated, err := repo.Update(context.Background(), &Activity{
		ID: "a1", UserID: "u1", Description: "new description",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Date.Equal(stored) {
		t.Fatalf("want stored date %v, got %v", stored, updated.Date)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_NonZeroDateIsWritten(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	date := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE activities SET description = \$1, date = COALESCE\(\$2, date\)`).
		WithArgs("moved", date, "a1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "description", "date", "created_at"}).
			AddRow("a1", "u1", "moved", date, created))

	updated, err := repo.Update(context.Background(), &Activity{
		ID: "a1", UserID: "u1", Description: "moved", Date: date,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Date.Equal(date) {
		t.Fatalf("want date %v, got %v", date, updated.Date)
	}
}

func TestUpdate_NotOwnedReturnsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE activities SET description = \$1, date = COALESCE\(\$2, date\)`).
		WithArgs("x", sqlmock.AnyArg(), "a1", "intruder").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &Activity{
		ID: "a1", UserID: "intruder", Description: "x",
	})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete_NotOwnedRowsAffected0(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM activities WHERE id = \$1 AND user_id = \$2`).
		WithArgs("a1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "a1", "intruder")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM activities WHERE id = \$1 AND user_id = \$2`).
		WithArgs("a1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "a1", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCountSince(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	since := time.Now().AddDate(0, 0, -7)
	mock.ExpectQuery(`SELECT count\(\*\) FROM activities`).
		WithArgs("u1", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountSince(context.Background(), "u1", since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("want 3, got %d", count)
	}
}

func TestCountSince_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM activities`).
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnError(errors.New("db is down"))

	_, err := repo.CountSince(context.Background(), "u1", time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
}
