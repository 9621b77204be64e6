package messages

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE messages (
  id      TEXT PRIMARY KEY,
  role    TEXT NOT NULL,
  content TEXT NOT NULL,
  ts      TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestAppendAndListRecent_ChronologicalOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, r.Append(ctx, &Message{
			ID:        content,
			Role:      RoleUser,
			Content:   content,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := r.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Content)
	assert.Equal(t, "third", got[1].Content)
}

func TestReplaceAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Append(ctx, &Message{
		ID: "old", Role: RoleUser, Content: "old", Timestamp: time.Now(),
	}))

	replacement := []Message{
		{ID: "n1", Role: RoleUser, Content: "hello", Timestamp: time.Now()},
		{ID: "n2", Role: RoleAssistant, Content: "hi there", Timestamp: time.Now()},
	}
	require.NoError(t, r.ReplaceAll(ctx, replacement))

	got, err := r.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, m := range got {
		assert.NotEqual(t, "old", m.Content)
	}
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Append(ctx, &Message{
		ID: "m1", Role: RoleAssistant, Content: "hello", Timestamp: time.Now(),
	}))
	require.NoError(t, r.Clear(ctx))

	got, err := r.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
