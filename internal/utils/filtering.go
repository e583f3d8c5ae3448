package utils

import (
	"strings"

	"github.com/amaumene/showpulse/internal/models"
	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterShows returns the shows matching every active criterion of f.
// Matching shows keep their input order; with no active filter the input is returned as is.
func FilterShows(shows []models.TrackedShow, f models.FilterState) []models.TrackedShow {
	if !f.Active() {
		return shows
	}

	return lo.Filter(shows, func(show models.TrackedShow, _ int) bool {
		return matchesFilter(show, f)
	})
}

func matchesFilter(show models.TrackedShow, f models.FilterState) bool {
	if f.Status != "" && !strings.EqualFold(show.Status, f.Status) {
		return false
	}

	// Network names come from TMDB verbatim, so the match is exact
	if f.Network != "" && show.Network != f.Network {
		return false
	}

	if len(f.Genres) > 0 && !lo.Every(show.Genres, f.Genres) {
		return false
	}

	if f.FavoritesOnly && !show.IsFavorite {
		return false
	}

	return true
}

// BuildFilterOptions collects the distinct filter values present in shows.
// "unknown" statuses are left out since they only mark shows awaiting hydration.
// Statuses differing only in case collapse to the first spelling seen.
func BuildFilterOptions(shows []models.TrackedShow) models.FilterOptions {
	var statuses, networks, genres []string

	for _, show := range shows {
		if !IsUnknownStatus(show.Status) {
			statuses = append(statuses, show.Status)
		}
		if show.Network != "" {
			networks = append(networks, show.Network)
		}
		for _, genre := range show.Genres {
			if genre != "" {
				genres = append(genres, genre)
			}
		}
	}

	return models.FilterOptions{
		Status:  sortedUnique(lo.UniqBy(statuses, strings.ToLower)),
		Network: sortedUnique(networks),
		Genres:  sortedUnique(genres),
	}
}

func sortedUnique(values []string) []string {
	unique := lo.Uniq(values)
	collate.New(language.English, collate.IgnoreCase).SortStrings(unique)
	return unique
}
