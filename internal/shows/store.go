// Package shows persists the tracked show list and the sort preference
// as JSON values in a string-keyed store.
package shows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amaumene/showpulse/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	showsKey      = "@sp:shows"
	sortConfigKey = "@sp:sortConfig"
)

// ErrInvalidShow is returned when a show has no usable TMDB id
var ErrInvalidShow = errors.New("show must have a positive TMDB id")

// KeyValueStore is the persistence collaborator of the show store
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Mutation changes a stored show in place
type Mutation func(show *models.TrackedShow)

// Store owns the tracked show list
type Store struct {
	kv     KeyValueStore
	logger *logrus.Logger
	now    func() time.Time

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// NewStore creates a new show store
func NewStore(kv KeyValueStore, logger *logrus.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// Load returns every tracked show. A list that was never written is empty.
func (s *Store) Load(ctx context.Context) ([]models.TrackedShow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add stores show unless its id is already tracked. It reports whether the show was added.
func (s *Store) Add(ctx context.Context, show models.TrackedShow) (bool, error) {
	if show.TMDBID <= 0 {
		return false, ErrInvalidShow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shows, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if indexOf(shows, show.TMDBID) != -1 {
		return false, nil
	}

	now := s.now()
	if show.CreatedAt.IsZero() {
		show.CreatedAt = now
	}
	if show.UpdatedAt.IsZero() {
		show.UpdatedAt = now
	}

	if err := s.save(ctx, append(shows, show)); err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"tmdb_id": show.TMDBID,
		"title":   show.Title,
	}).Debug("Added show")
	return true, nil
}

// Remove deletes the show with the given id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, tmdbID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shows, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(shows, tmdbID)
	if i == -1 {
		return nil
	}

	return s.save(ctx, append(shows[:i], shows[i+1:]...))
}

// Upsert replaces the stored show with the same id, keeping its CreatedAt,
// or inserts show as is when the id is not tracked yet.
func (s *Store) Upsert(ctx context.Context, show models.TrackedShow) error {
	if show.TMDBID <= 0 {
		return ErrInvalidShow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shows, err := s.load(ctx)
	if err != nil {
		return err
	}

	if i := indexOf(shows, show.TMDBID); i != -1 {
		show.CreatedAt = shows[i].CreatedAt
		show.UpdatedAt = s.now()
		shows[i] = show
	} else {
		shows = append(shows, show)
	}

	return s.save(ctx, shows)
}

// Patch applies mutate to the stored show with the given id and reports whether it existed.
// The id and CreatedAt cannot be changed; UpdatedAt is left to the mutation.
func (s *Store) Patch(ctx context.Context, tmdbID int, mutate Mutation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shows, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	i := indexOf(shows, tmdbID)
	if i == -1 {
		return false, nil
	}

	patched := shows[i]
	mutate(&patched)
	patched.TMDBID = shows[i].TMDBID
	patched.CreatedAt = shows[i].CreatedAt
	shows[i] = patched

	if err := s.save(ctx, shows); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleFavorite flips the favorite flag of a show and returns the new value.
// found is false when the id is not tracked.
func (s *Store) ToggleFavorite(ctx context.Context, tmdbID int) (favorite bool, found bool, err error) {
	now := s.now()
	found, err = s.Patch(ctx, tmdbID, func(show *models.TrackedShow) {
		show.IsFavorite = !show.IsFavorite
		show.UpdatedAt = now
		favorite = show.IsFavorite
	})
	return favorite, found, err
}

// LoadSortConfig returns the persisted sort preference, or the default when none is stored.
// Unknown keys or directions in stored data are replaced by their defaults.
func (s *Store) LoadSortConfig(ctx context.Context) (models.SortConfig, error) {
	value, found, err := s.kv.Get(ctx, sortConfigKey)
	if err != nil {
		return models.DefaultSortConfig(), fmt.Errorf("failed to read sort config: %w", err)
	}
	if !found {
		return models.DefaultSortConfig(), nil
	}

	var config models.SortConfig
	if err := json.Unmarshal([]byte(value), &config); err != nil {
		return models.DefaultSortConfig(), fmt.Errorf("failed to decode sort config: %w", err)
	}

	defaults := models.DefaultSortConfig()
	if !config.Key.Valid() {
		s.logger.WithField("key", config.Key).Warn("Stored sort key is unknown, using default")
		config.Key = defaults.Key
	}
	if !config.Direction.Valid() {
		config.Direction = defaults.Direction
	}
	return config, nil
}

// SaveSortConfig persists the sort preference
func (s *Store) SaveSortConfig(ctx context.Context, config models.SortConfig) error {
	if !config.Key.Valid() {
		return fmt.Errorf("unknown sort key %q", config.Key)
	}
	if !config.Direction.Valid() {
		return fmt.Errorf("unknown sort direction %q", config.Direction)
	}

	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode sort config: %w", err)
	}
	if err := s.kv.Set(ctx, sortConfigKey, string(data)); err != nil {
		return fmt.Errorf("failed to write sort config: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) ([]models.TrackedShow, error) {
	value, found, err := s.kv.Get(ctx, showsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read shows: %w", err)
	}
	if !found || value == "" {
		return []models.TrackedShow{}, nil
	}

	var shows []models.TrackedShow
	if err := json.Unmarshal([]byte(value), &shows); err != nil {
		return nil, fmt.Errorf("failed to decode shows: %w", err)
	}
	if shows == nil {
		shows = []models.TrackedShow{}
	}
	return shows, nil
}

func (s *Store) save(ctx context.Context, shows []models.TrackedShow) error {
	data, err := json.Marshal(shows)
	if err != nil {
		return fmt.Errorf("failed to encode shows: %w", err)
	}
	if err := s.kv.Set(ctx, showsKey, string(data)); err != nil {
		return fmt.Errorf("failed to write shows: %w", err)
	}
	return nil
}

func indexOf(shows []models.TrackedShow, tmdbID int) int {
	for i := range shows {
		if shows[i].TMDBID == tmdbID {
			return i
		}
	}
	return -1
}
