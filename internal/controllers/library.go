package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/services/tmdb"
	"github.com/amaumene/showpulse/internal/shows"
	"github.com/amaumene/showpulse/internal/utils"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyTracked is returned when adding a show that is already in the list
	ErrAlreadyTracked = errors.New("show is already tracked")
	// ErrMissingTitle is returned when adding a show without a title
	ErrMissingTitle = errors.New("show title is required")
	// ErrInvalidSort is returned for unknown sort keys or directions
	ErrInvalidSort = errors.New("invalid sort configuration")
	// ErrMetadataUnavailable wraps failures of the metadata source
	ErrMetadataUnavailable = errors.New("metadata source request failed")
)

// AddShowRequest carries the search result fields used for a lightweight add
type AddShowRequest struct {
	TMDBID       int    `json:"tmdbId"`
	Title        string `json:"title"`
	PosterPath   string `json:"posterPath,omitempty"`
	FirstAirDate string `json:"firstAirDate,omitempty"`
}

// SortUpdate changes the persisted sort preference.
// An empty Direction applies the default direction for the selected key.
type SortUpdate struct {
	Key            models.SortKey       `json:"key"`
	Direction      models.SortDirection `json:"direction,omitempty"`
	FavoritesFirst *bool                `json:"favoritesFirst,omitempty"`
}

// ListResult is the filtered and sorted view of the library
type ListResult struct {
	Shows       []models.TrackedShow `json:"shows"`
	Options     models.FilterOptions `json:"options"`
	Sort        models.SortConfig    `json:"sort"`
	Description string               `json:"description"`
	Total       int                  `json:"total"`
	Hydrating   bool                 `json:"hydrating"`

	// Badges holds the display status of each listed show, keyed by tmdbId
	Badges map[int]StatusBadge `json:"badges"`
}

// StatusBadge is the label and coloring a client shows for a status
type StatusBadge struct {
	Label    string                `json:"label"`
	Category models.StatusCategory `json:"category"`
	utils.StatusColorPair
}

// DetailsResult is the TMDB record of a show plus its library entry, if tracked
type DetailsResult struct {
	Details *tmdb.Details       `json:"details"`
	Tracked *models.TrackedShow `json:"tracked,omitempty"`
}

// LibraryController handles the user's tracked show list
type LibraryController struct {
	store     *shows.Store
	source    MetadataSource
	hydration *HydrationController
	refresh   *RefreshController
	logger    *logrus.Logger
	now       func() time.Time
}

// NewLibraryController creates a new library controller.
// source, hydration and refresh may be nil when no TMDB key is configured; metadata operations then fail.
func NewLibraryController(store *shows.Store, source MetadataSource, hydration *HydrationController, refresh *RefreshController, logger *logrus.Logger) *LibraryController {
	return &LibraryController{
		store:     store,
		source:    source,
		hydration: hydration,
		refresh:   refresh,
		logger:    logger,
		now:       time.Now,
	}
}

// List loads the library, starts background hydration for incomplete entries,
// then filters and sorts it. A nil sort uses the persisted preference.
func (c *LibraryController) List(ctx context.Context, filter models.FilterState, sort *models.SortConfig) (*ListResult, error) {
	all, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var config models.SortConfig
	if sort != nil {
		config = *sort
	} else {
		config, err = c.store.LoadSortConfig(ctx)
		if err != nil {
			return nil, err
		}
	}

	hydrating := false
	if c.hydration != nil {
		if lo.SomeBy(all, c.hydration.NeedsHydration) {
			c.hydration.HydrateInBackground(all, nil)
		}
		hydrating = c.hydration.Running()
	}

	listed := utils.SortShows(utils.FilterShows(all, filter), config)
	return &ListResult{
		Shows:       listed,
		Options:     utils.BuildFilterOptions(all),
		Sort:        config,
		Description: utils.SortDescription(config),
		Total:       len(all),
		Hydrating:   hydrating,
		Badges: lo.SliceToMap(listed, func(show models.TrackedShow) (int, StatusBadge) {
			return show.TMDBID, statusBadge(show.Status)
		}),
	}, nil
}

func statusBadge(status string) StatusBadge {
	label := utils.NormalizeStatus(status)
	if utils.IsUnknownStatus(status) {
		label = "Unknown"
	}
	return StatusBadge{
		Label:           label,
		Category:        utils.CategorizeStatus(status),
		StatusColorPair: utils.StatusColors(status),
	}
}

// FilterOptions returns the selectable filter values of the whole library
func (c *LibraryController) FilterOptions(ctx context.Context) (models.FilterOptions, error) {
	all, err := c.store.Load(ctx)
	if err != nil {
		return models.FilterOptions{}, err
	}
	return utils.BuildFilterOptions(all), nil
}

// AddShow tracks a show from search result data. Metadata is filled in later by hydration.
func (c *LibraryController) AddShow(ctx context.Context, req AddShowRequest) (*models.TrackedShow, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	now := c.now()
	show := models.TrackedShow{
		TMDBID:       req.TMDBID,
		Title:        title,
		PosterURL:    tmdb.PosterURL(req.PosterPath),
		Status:       models.StatusUnknown,
		FirstAirDate: req.FirstAirDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	added, err := c.store.Add(ctx, show)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyTracked
	}

	c.logger.WithFields(logrus.Fields{
		"tmdb_id": show.TMDBID,
		"title":   show.Title,
	}).Info("Show added to library")
	return &show, nil
}

// Remove stops tracking a show. Unknown ids are ignored.
func (c *LibraryController) Remove(ctx context.Context, tmdbID int) error {
	if err := c.store.Remove(ctx, tmdbID); err != nil {
		return err
	}
	if c.refresh != nil {
		if err := c.refresh.Forget(tmdbID); err != nil {
			c.logger.WithError(err).WithField("tmdb_id", tmdbID).Warn("Failed to delete show snapshots")
		}
	}
	c.logger.WithField("tmdb_id", tmdbID).Info("Show removed from library")
	return nil
}

// ToggleFavorite flips the favorite flag. found is false when the show is not tracked.
func (c *LibraryController) ToggleFavorite(ctx context.Context, tmdbID int) (favorite bool, found bool, err error) {
	return c.store.ToggleFavorite(ctx, tmdbID)
}

// Search queries TMDB for shows matching query
func (c *LibraryController) Search(ctx context.Context, query string) (*tmdb.SearchResult, error) {
	if c.source == nil {
		return nil, tmdb.ErrMissingAPIKey
	}
	result, err := c.source.SearchShows(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}
	return result, nil
}

// Details fetches the full TMDB record of a show. A tracked show is refreshed
// in the library with the fetched fields.
func (c *LibraryController) Details(ctx context.Context, tmdbID int) (*DetailsResult, error) {
	if c.source == nil {
		return nil, tmdb.ErrMissingAPIKey
	}

	details, err := c.source.GetShowDetails(ctx, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}
	result := &DetailsResult{Details: details}

	now := c.now()
	found, err := c.store.Patch(ctx, tmdbID, func(show *models.TrackedShow) {
		applyRefresh(show, details)
		show.UpdatedAt = now
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update tracked show: %w", err)
	}
	if !found {
		return result, nil
	}

	refreshed, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if show, ok := lo.Find(refreshed, func(show models.TrackedShow) bool { return show.TMDBID == tmdbID }); ok {
		result.Tracked = &show
	}
	return result, nil
}

// SortConfig returns the persisted sort preference
func (c *LibraryController) SortConfig(ctx context.Context) (models.SortConfig, error) {
	return c.store.LoadSortConfig(ctx)
}

// SaveSortConfig persists a complete sort preference
func (c *LibraryController) SaveSortConfig(ctx context.Context, config models.SortConfig) error {
	if err := validateSort(config.Key, config.Direction); err != nil {
		return err
	}
	if config.Direction == "" {
		return fmt.Errorf("%w: sort direction is required", ErrInvalidSort)
	}
	return c.store.SaveSortConfig(ctx, config)
}

// UpdateSort applies a key selection to the persisted preference and saves the result
func (c *LibraryController) UpdateSort(ctx context.Context, update SortUpdate) (models.SortConfig, error) {
	if err := validateSort(update.Key, update.Direction); err != nil {
		return models.SortConfig{}, err
	}

	current, err := c.store.LoadSortConfig(ctx)
	if err != nil {
		return models.SortConfig{}, err
	}

	next := utils.SelectSortKey(current, update.Key)
	if update.Direction != "" {
		next.Direction = update.Direction
	}
	if update.FavoritesFirst != nil {
		next.FavoritesFirst = *update.FavoritesFirst
	}

	if err := c.store.SaveSortConfig(ctx, next); err != nil {
		return models.SortConfig{}, err
	}
	return next, nil
}

func validateSort(key models.SortKey, direction models.SortDirection) error {
	if !key.Valid() {
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidSort, key)
	}
	if direction != "" && !direction.Valid() {
		return fmt.Errorf("%w: unknown sort direction %q", ErrInvalidSort, direction)
	}
	return nil
}
