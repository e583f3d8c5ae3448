package models

import "time"

// TrackedShow is a user's saved reference to a TMDB show.
// TMDBID is the natural key: the list never holds two entries with the same id.
type TrackedShow struct {
	TMDBID    int    `json:"tmdbId"`
	Title     string `json:"title"`
	PosterURL string `json:"posterUrl,omitempty"`

	// Filled in by hydration after a lightweight add
	Status       string   `json:"status,omitempty"`
	NextAirDate  string   `json:"nextAirDate,omitempty"`
	LastAirDate  string   `json:"lastAirDate,omitempty"`
	FirstAirDate string   `json:"firstAirDate,omitempty"`
	Network      string   `json:"network,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	VoteAverage  *float64 `json:"voteAverage,omitempty"`

	IsFavorite bool `json:"isFavorite"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SortConfig is the persisted list ordering preference
type SortConfig struct {
	Key            SortKey       `json:"key"`
	Direction      SortDirection `json:"direction"`
	FavoritesFirst bool          `json:"favoritesFirst"`
}

// DefaultSortConfig returns the ordering used before the user picks one
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Key:            SortKeyDateAdded,
		Direction:      SortDescending,
		FavoritesFirst: true,
	}
}

// FilterState holds the transient list filters. Empty values are inactive.
type FilterState struct {
	Status        string   `json:"status,omitempty"`
	Network       string   `json:"network,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	FavoritesOnly bool     `json:"favoritesOnly"`
}

// Active reports whether any filter criterion is set
func (f FilterState) Active() bool {
	return f.Status != "" || f.Network != "" || len(f.Genres) > 0 || f.FavoritesOnly
}

// FilterOptions are the selectable filter values derived from the current list
type FilterOptions struct {
	Status  []string `json:"status"`
	Network []string `json:"network"`
	Genres  []string `json:"genres"`
}
