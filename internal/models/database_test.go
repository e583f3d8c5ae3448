package models

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKeyValueRoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	_, found, err := db.Get(ctx, "@sp:shows")
	require.NoError(t, err)
	assert.False(t, found, "unwritten key should not be found")

	require.NoError(t, db.Set(ctx, "@sp:shows", `[{"tmdbId":1}]`))
	value, found, err := db.Get(ctx, "@sp:shows")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"tmdbId":1}]`, value)

	require.NoError(t, db.Remove(ctx, "@sp:shows"))
	_, found, err = db.Get(ctx, "@sp:shows")
	require.NoError(t, err)
	assert.False(t, found)

	// Removing again is a no-op
	assert.NoError(t, db.Remove(ctx, "@sp:shows"))
}

func TestKeyValueCanceledContext(t *testing.T) {
	db := newTestDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := db.Get(ctx, "key")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, db.Set(ctx, "key", "value"), context.Canceled)
	assert.ErrorIs(t, db.Remove(ctx, "key"), context.Canceled)
}

func TestSnapshots(t *testing.T) {
	db := newTestDatabase(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := db.GetLatestSnapshot(100)
	assert.True(t, IsNotFound(err))

	require.NoError(t, db.CreateSnapshot(&ShowSnapshot{TMDBID: 100, PayloadHash: "a", FetchedAt: base}))
	require.NoError(t, db.CreateSnapshot(&ShowSnapshot{TMDBID: 100, PayloadHash: "b", FetchedAt: base.Add(time.Hour)}))
	require.NoError(t, db.CreateSnapshot(&ShowSnapshot{TMDBID: 200, PayloadHash: "c", FetchedAt: base.Add(2 * time.Hour)}))

	latest, err := db.GetLatestSnapshot(100)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.PayloadHash)

	all, err := db.GetSnapshotsByTMDBID(100)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].PayloadHash)

	require.NoError(t, db.DeleteSnapshotsByTMDBID(100))
	_, err = db.GetLatestSnapshot(100)
	assert.True(t, IsNotFound(err))

	other, err := db.GetLatestSnapshot(200)
	require.NoError(t, err)
	assert.Equal(t, "c", other.PayloadHash)
}
