package shows

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestStore(t *testing.T) (*Store, *models.Database) {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "shows.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db, utils.NewLoggerWithOutput(io.Discard, "debug", "text"))
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.now = clock.now
	return store, db
}

func TestLoad_EmptyWhenNeverWritten(t *testing.T) {
	store, _ := newTestStore(t)

	shows, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, shows)
	assert.Empty(t, shows)
}

func TestAdd_IgnoresDuplicates(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, models.TrackedShow{TMDBID: 100, Title: "Dark", Status: models.StatusUnknown})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.Add(ctx, models.TrackedShow{TMDBID: 100, Title: "Dark (again)"})
	require.NoError(t, err)
	assert.False(t, added)

	shows, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, "Dark", shows[0].Title)
	assert.False(t, shows[0].CreatedAt.IsZero())
	assert.Equal(t, shows[0].CreatedAt, shows[0].UpdatedAt)
}

func TestAdd_RejectsInvalidID(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Add(context.Background(), models.TrackedShow{Title: "No id"})
	assert.ErrorIs(t, err, ErrInvalidShow)
}

func TestRemove(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []int{1, 2, 3} {
		_, err := store.Add(ctx, models.TrackedShow{TMDBID: id, Title: "Show"})
		require.NoError(t, err)
	}

	require.NoError(t, store.Remove(ctx, 2))
	require.NoError(t, store.Remove(ctx, 42), "removing an unknown id is a no-op")

	shows, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, []int{shows[0].TMDBID, shows[1].TMDBID})
}

func TestUpsert_PreservesCreatedAt(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, models.TrackedShow{TMDBID: 100, Title: "Dark", Status: models.StatusUnknown})
	require.NoError(t, err)
	before, err := store.Load(ctx)
	require.NoError(t, err)

	err = store.Upsert(ctx, models.TrackedShow{
		TMDBID:    100,
		Title:     "Dark",
		Status:    "Ended",
		CreatedAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	after, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Ended", after[0].Status)
	assert.True(t, before[0].CreatedAt.Equal(after[0].CreatedAt), "createdAt must not change")
	assert.True(t, after[0].UpdatedAt.After(before[0].UpdatedAt), "updatedAt must move forward")
}

func TestUpsert_InsertsWhenAbsent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, models.TrackedShow{TMDBID: 7, Title: "Fargo", CreatedAt: created}))

	shows, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.True(t, created.Equal(shows[0].CreatedAt))
}

func TestPatch(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, models.TrackedShow{TMDBID: 100, Title: "Dark", NextAirDate: "2020-06-27"})
	require.NoError(t, err)
	original, err := store.Load(ctx)
	require.NoError(t, err)

	found, err := store.Patch(ctx, 100, func(show *models.TrackedShow) {
		show.Status = "Ended"
		show.NextAirDate = ""
		show.TMDBID = 999
		show.CreatedAt = time.Time{}
	})
	require.NoError(t, err)
	assert.True(t, found)

	shows, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, 100, shows[0].TMDBID, "patch cannot change the id")
	assert.Equal(t, "Ended", shows[0].Status)
	assert.Empty(t, shows[0].NextAirDate)
	assert.True(t, original[0].CreatedAt.Equal(shows[0].CreatedAt))
	assert.True(t, original[0].UpdatedAt.Equal(shows[0].UpdatedAt), "patch leaves updatedAt to the caller")

	found, err = store.Patch(ctx, 404, func(show *models.TrackedShow) { show.Status = "Ended" })
	require.NoError(t, err)
	assert.False(t, found)
}

func TestToggleFavorite(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, models.TrackedShow{TMDBID: 1, Title: "Severance"})
	require.NoError(t, err)

	favorite, found, err := store.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, favorite)

	shows, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, shows[0].IsFavorite)
	assert.True(t, shows[0].UpdatedAt.After(shows[0].CreatedAt))

	favorite, _, err = store.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.False(t, favorite)

	_, found, err = store.ToggleFavorite(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSortConfig(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	cfg, err := store.LoadSortConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSortConfig(), cfg)

	want := models.SortConfig{Key: models.SortKeyNextAirDate, Direction: models.SortAscending}
	require.NoError(t, store.SaveSortConfig(ctx, want))
	cfg, err = store.LoadSortConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, cfg)

	assert.Error(t, store.SaveSortConfig(ctx, models.SortConfig{Key: "popularity", Direction: models.SortAscending}))

	require.NoError(t, db.Set(ctx, sortConfigKey, `{"key":"popularity","direction":"sideways","favoritesFirst":false}`))
	cfg, err = store.LoadSortConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SortConfig{Key: models.SortKeyDateAdded, Direction: models.SortDescending}, cfg)
}

func TestLoad_CorruptDataIsAnError(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, db.Set(ctx, showsKey, "{not json"))
	_, err := store.Load(ctx)
	assert.Error(t, err)
}

type failingKV struct {
	err error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Remove(context.Context, string) error              { return f.err }

func TestStorageFaultsPropagate(t *testing.T) {
	boom := errors.New("disk full")
	store := NewStore(failingKV{err: boom}, utils.NewLoggerWithOutput(io.Discard, "info", "text"))
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = store.Add(ctx, models.TrackedShow{TMDBID: 1})
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, store.Remove(ctx, 1), boom)
	assert.ErrorIs(t, store.Upsert(ctx, models.TrackedShow{TMDBID: 1}), boom)

	_, err = store.Patch(ctx, 1, func(*models.TrackedShow) {})
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, store.SaveSortConfig(ctx, models.DefaultSortConfig()), boom)
}
