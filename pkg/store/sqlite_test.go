package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("", zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "sessions.db")

	s, err := OpenSQLite(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
}

func TestUpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Upsert(ctx, 100, "own_t1", []byte("state-1")))

	rec, ok, err := db.GetByPid(ctx, 100)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 100, rec.Pid)
	assert.Equal(t, "own_t1", rec.Owner)
	assert.Equal(t, []byte("state-1"), rec.State)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, 5*time.Second)
}

func TestGetMissing(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.GetByPid(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsertReplacesWholeRecord(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Upsert(ctx, 100, "own_t1", []byte("v1")))

	first, _, err := db.GetByPid(ctx, 100)
	require.NoError(t, err)

	require.NoError(t, db.Upsert(ctx, 100, "own_t2", []byte("v2")))

	rec, ok, err := db.GetByPid(ctx, 100)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "own_t2", rec.Owner)
	assert.Equal(t, []byte("v2"), rec.State)
	// Replacement resets the creation time
	assert.False(t, rec.CreatedAt.Before(first.CreatedAt))

	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertRejectsEmptyOwner(t *testing.T) {
	db := openTestDB(t)

	err := db.Upsert(context.Background(), 100, "", []byte("state"))
	assert.Error(t, err)
}

func TestDeleteOlderThan(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Upsert(ctx, 100, "own_t1", []byte("a")))
	require.NoError(t, db.Upsert(ctx, 200, "own_t2", []byte("b")))

	t.Run("fresh records survive a day threshold", func(t *testing.T) {
		deleted, err := db.DeleteOlderThan(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})

	t.Run("zero threshold removes everything", func(t *testing.T) {
		deleted, err := db.DeleteOlderThan(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)

		_, ok, err := db.GetByPid(ctx, 100)
		require.NoError(t, err)
		assert.False(t, ok)

		count, err := db.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("negative age is an error", func(t *testing.T) {
		_, err := db.DeleteOlderThan(ctx, -time.Hour)
		assert.Error(t, err)
	})
}

func TestList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Upsert(ctx, 100, "own_t1", []byte("a")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, db.Upsert(ctx, 200, "own_t2", []byte("b")))

	records, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, 200, records[0].Pid)
	assert.Equal(t, 100, records[1].Pid)
}

func TestDurabilityAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	db, err := OpenSQLite(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Upsert(ctx, 100, "own_t1", []byte("persisted")))
	require.NoError(t, db.Close())

	reopened, err := OpenSQLite(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	rec, ok, err := reopened.GetByPid(ctx, 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("persisted"), rec.State)
}
