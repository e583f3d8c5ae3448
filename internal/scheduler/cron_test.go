package scheduler

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/services/tmdb"
	"github.com/amaumene/showpulse/internal/shows"
	"github.com/amaumene/showpulse/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct{}

func (staticSource) SearchShows(ctx context.Context, query string) (*tmdb.SearchResult, error) {
	return &tmdb.SearchResult{Page: 1}, nil
}

func (staticSource) GetShowDetails(ctx context.Context, tmdbID int) (*tmdb.Details, error) {
	return &tmdb.Details{ID: tmdbID, Status: "Ended"}, nil
}

func newTestRefresh(t *testing.T) (*controllers.RefreshController, *models.Database) {
	t.Helper()
	logger := utils.NewLoggerWithOutput(io.Discard, "info", "text")
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "showpulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := shows.NewStore(db, logger)
	_, err = store.Add(context.Background(), models.TrackedShow{TMDBID: 1, Title: "Dark", Status: "unknown"})
	require.NoError(t, err)

	return controllers.NewRefreshController(db, store, staticSource{}, logger), db
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	refresh, _ := newTestRefresh(t)
	s := NewScheduler(refresh, "not a cron expression", false, utils.NewLoggerWithOutput(io.Discard, "info", "text"))

	assert.Error(t, s.Start())
}

func TestStartRunsRefreshOnStart(t *testing.T) {
	refresh, db := newTestRefresh(t)
	s := NewScheduler(refresh, "0 */6 * * *", true, utils.NewLoggerWithOutput(io.Discard, "info", "text"))

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, err := db.GetLatestSnapshot(1)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
}
