package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/services/tmdb"
	"github.com/amaumene/showpulse/internal/shows"
	"github.com/sirupsen/logrus"
)

// watchedFields are the parts of a TMDB record whose changes are worth recording
type watchedFields struct {
	Status      string `json:"status"`
	NextAirDate string `json:"next_air_date"`
	LastAirDate string `json:"last_air_date"`
}

// RefreshResult summarizes one refresh run
type RefreshResult struct {
	Checked int
	Changed int
	Failed  int
}

// RefreshController re-fetches tracked shows and records changes
type RefreshController struct {
	db     *models.Database
	store  *shows.Store
	source MetadataSource
	logger *logrus.Logger
	now    func() time.Time
}

// NewRefreshController creates a new refresh controller
func NewRefreshController(db *models.Database, store *shows.Store, source MetadataSource, logger *logrus.Logger) *RefreshController {
	return &RefreshController{
		db:     db,
		store:  store,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// RefreshAll checks every tracked show against TMDB. Shows whose status or air dates
// changed since the last snapshot get a new snapshot and their library entry updated.
// Per-show failures are logged and skipped.
func (c *RefreshController) RefreshAll(ctx context.Context) (RefreshResult, error) {
	c.logger.Info("Starting tracked show refresh")

	list, err := c.store.Load(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to load tracked shows: %w", err)
	}

	var result RefreshResult
	for _, show := range list {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Checked++
		changed, err := c.refreshShow(ctx, show)
		if err != nil {
			result.Failed++
			c.logger.WithError(err).WithFields(logrus.Fields{
				"tmdb_id": show.TMDBID,
				"title":   show.Title,
			}).Warn("Failed to refresh show")
			continue
		}
		if changed {
			result.Changed++
		}
	}

	c.logger.WithFields(logrus.Fields{
		"checked": result.Checked,
		"changed": result.Changed,
		"failed":  result.Failed,
	}).Info("Tracked show refresh completed")
	return result, nil
}

// Forget deletes the recorded snapshots of a show
func (c *RefreshController) Forget(tmdbID int) error {
	if err := c.db.DeleteSnapshotsByTMDBID(tmdbID); err != nil {
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}
	return nil
}

func (c *RefreshController) refreshShow(ctx context.Context, show models.TrackedShow) (bool, error) {
	details, err := c.source.GetShowDetails(ctx, show.TMDBID)
	if err != nil {
		return false, err
	}

	fields := watchedFields{
		Status:      details.Status,
		NextAirDate: details.NextAirDate(),
		LastAirDate: details.LastAirDate(),
	}
	payload, hash, err := hashFields(fields)
	if err != nil {
		return false, err
	}

	latest, err := c.db.GetLatestSnapshot(show.TMDBID)
	if err != nil && !models.IsNotFound(err) {
		return false, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	if latest != nil && latest.PayloadHash == hash {
		return false, nil
	}

	now := c.now()
	found, err := c.store.Patch(ctx, show.TMDBID, func(stored *models.TrackedShow) {
		applyRefresh(stored, details)
		stored.UpdatedAt = now
	})
	if err != nil {
		return false, fmt.Errorf("failed to update show: %w", err)
	}
	if !found {
		c.logger.WithField("tmdb_id", show.TMDBID).Debug("Show removed during refresh")
		return false, nil
	}

	// The snapshot is recorded only once the library entry holds the new fields
	snapshot := &models.ShowSnapshot{
		TMDBID:      show.TMDBID,
		PayloadHash: hash,
		Payload:     payload,
		FetchedAt:   now,
	}
	if err := c.db.CreateSnapshot(snapshot); err != nil {
		return false, fmt.Errorf("failed to create snapshot: %w", err)
	}

	c.logChange(show, latest, fields)
	return true, nil
}

func (c *RefreshController) logChange(show models.TrackedShow, previous *models.ShowSnapshot, current watchedFields) {
	entry := c.logger.WithFields(logrus.Fields{
		"tmdb_id": show.TMDBID,
		"title":   show.Title,
	})

	if previous == nil {
		entry.Info("Show added to tracking")
		return
	}

	var old watchedFields
	if err := json.Unmarshal([]byte(previous.Payload), &old); err != nil {
		entry.WithError(err).Warn("Show changed, previous snapshot unreadable")
		return
	}

	fields := logrus.Fields{}
	if old.Status != current.Status {
		fields["old_status"] = old.Status
		fields["new_status"] = current.Status
	}
	if old.NextAirDate != current.NextAirDate {
		fields["old_next_air_date"] = old.NextAirDate
		fields["new_next_air_date"] = current.NextAirDate
	}
	if old.LastAirDate != current.LastAirDate {
		fields["old_last_air_date"] = old.LastAirDate
		fields["new_last_air_date"] = current.LastAirDate
	}
	entry.WithFields(fields).Info("Show changed")
}

// applyRefresh updates enrichable fields and the display fields TMDB may have renamed
func applyRefresh(show *models.TrackedShow, details *tmdb.Details) {
	ApplyDetails(show, details)
	if details.Name != "" {
		show.Title = details.Name
	}
	if poster := tmdb.PosterURL(details.PosterPath); poster != "" {
		show.PosterURL = poster
	}
}

func hashFields(fields watchedFields) (string, string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return string(data), hex.EncodeToString(sum[:]), nil
}
