package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/amaumene/showpulse/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// airDateLayouts are tried in order when parsing TMDB dates
var airDateLayouts = []string{"2006-01-02", time.RFC3339}

var sortKeyLabels = map[models.SortKey]string{
	models.SortKeyTitle:        "Title",
	models.SortKeyDateAdded:    "Date Added",
	models.SortKeyFirstAirDate: "First Air Date",
	models.SortKeyNextAirDate:  "Next Air Date",
	models.SortKeyLastAirDate:  "Last Air Date",
	models.SortKeyRating:       "TMDB Rating",
}

// sortValue is the primary sort value of a show; present is false when the value is missing
type sortValue struct {
	present bool
	date    time.Time
	number  float64
	text    string
}

type sortEntry struct {
	show  models.TrackedShow
	value sortValue
}

// showSorter compares shows under one SortConfig.
// collate.Collator is not safe for concurrent use, so each sort builds its own.
type showSorter struct {
	config   models.SortConfig
	collator *collate.Collator
}

// SortShows returns a sorted copy of shows. The input slice is left untouched.
//
// Order:
// 1. Favorites before non-favorites when FavoritesFirst is set
// 2. Primary key in the configured direction, missing values always last
// 3. Title A→Z, then TMDB id ascending
func SortShows(shows []models.TrackedShow, config models.SortConfig) []models.TrackedShow {
	sorted := make([]models.TrackedShow, len(shows))
	copy(sorted, shows)
	if len(sorted) < 2 {
		return sorted
	}

	s := &showSorter{
		config:   config,
		collator: newTitleCollator(),
	}

	entries := make([]sortEntry, len(sorted))
	for i, show := range sorted {
		entries[i] = sortEntry{show: show, value: primarySortValue(show, config.Key)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return s.compare(entries[i], entries[j]) < 0
	})

	for i, entry := range entries {
		sorted[i] = entry.show
	}
	return sorted
}

// newTitleCollator compares letters only: case, accents and width are ignored
func newTitleCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth)
}

func (s *showSorter) compare(a, b sortEntry) int {
	if s.config.FavoritesFirst && a.show.IsFavorite != b.show.IsFavorite {
		if a.show.IsFavorite {
			return -1
		}
		return 1
	}

	if c := s.comparePrimary(a.value, b.value); c != 0 {
		return c
	}

	if c := s.collator.CompareString(a.show.Title, b.show.Title); c != 0 {
		return c
	}

	switch {
	case a.show.TMDBID < b.show.TMDBID:
		return -1
	case a.show.TMDBID > b.show.TMDBID:
		return 1
	default:
		return 0
	}
}

// comparePrimary orders present values by the sort direction and puts missing values last
func (s *showSorter) comparePrimary(a, b sortValue) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return 1
	case !b.present:
		return -1
	}

	var c int
	switch s.config.Key {
	case models.SortKeyTitle:
		c = s.collator.CompareString(a.text, b.text)
	case models.SortKeyRating:
		c = compareFloat(a.number, b.number)
	default:
		c = a.date.Compare(b.date)
	}

	if s.config.Direction == models.SortDescending {
		c = -c
	}
	return c
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func primarySortValue(show models.TrackedShow, key models.SortKey) sortValue {
	switch key {
	case models.SortKeyTitle:
		return sortValue{present: true, text: strings.ToLower(show.Title)}
	case models.SortKeyDateAdded:
		if show.CreatedAt.IsZero() {
			return sortValue{}
		}
		return sortValue{present: true, date: show.CreatedAt}
	case models.SortKeyFirstAirDate:
		return dateSortValue(show.FirstAirDate)
	case models.SortKeyNextAirDate:
		return dateSortValue(show.NextAirDate)
	case models.SortKeyLastAirDate:
		return dateSortValue(show.LastAirDate)
	case models.SortKeyRating:
		if show.VoteAverage == nil {
			return sortValue{}
		}
		return sortValue{present: true, number: *show.VoteAverage}
	default:
		return sortValue{}
	}
}

func dateSortValue(raw string) sortValue {
	t, ok := ParseAirDate(raw)
	if !ok {
		return sortValue{}
	}
	return sortValue{present: true, date: t}
}

// ParseAirDate parses a TMDB date (YYYY-MM-DD or RFC 3339)
func ParseAirDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range airDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseSortKey parses a sort key name, case-insensitively
func ParseSortKey(raw string) (models.SortKey, error) {
	for _, key := range models.SortKeys {
		if strings.EqualFold(string(key), strings.TrimSpace(raw)) {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}

// ParseSortDirection parses "asc" or "desc", case-insensitively
func ParseSortDirection(raw string) (models.SortDirection, error) {
	d := models.SortDirection(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown sort direction %q", raw)
	}
	return d, nil
}

// SelectSortKey switches the primary key of config.
// Next air date defaults to ascending (soonest first); other keys keep the current direction.
func SelectSortKey(config models.SortConfig, key models.SortKey) models.SortConfig {
	config.Key = key
	if key == models.SortKeyNextAirDate {
		config.Direction = models.SortAscending
	}
	return config
}

// SortDirectionLabel returns the human-readable direction for a key
func SortDirectionLabel(key models.SortKey, direction models.SortDirection) string {
	asc := direction == models.SortAscending
	switch key {
	case models.SortKeyTitle:
		return pick(asc, "A→Z", "Z→A")
	case models.SortKeyNextAirDate:
		return pick(asc, "Soonest First", "Latest First")
	case models.SortKeyRating:
		return pick(asc, "Lowest First", "Highest First")
	default:
		return pick(asc, "Oldest First", "Newest First")
	}
}

// SortDescription summarizes a sort config, e.g. "Sort: Title (A→Z) • Favorites First"
func SortDescription(config models.SortConfig) string {
	label, ok := sortKeyLabels[config.Key]
	if !ok {
		label = string(config.Key)
	}

	description := fmt.Sprintf("Sort: %s (%s)", label, SortDirectionLabel(config.Key, config.Direction))
	if config.FavoritesFirst {
		description += " • Favorites First"
	}
	return description
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
