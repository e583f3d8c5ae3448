package utils

import (
	"testing"

	"github.com/amaumene/showpulse/internal/models"
	"github.com/stretchr/testify/assert"
)

func sampleShows() []models.TrackedShow {
	return []models.TrackedShow{
		{TMDBID: 1, Title: "Drama Only", Status: "Ended", Network: "HBO", Genres: []string{"Drama"}},
		{TMDBID: 2, Title: "Dramedy", Status: "Returning Series", Network: "FX", Genres: []string{"Drama", "Comedy"}, IsFavorite: true},
		{TMDBID: 3, Title: "Sitcom", Status: "returning series", Network: "NBC", Genres: []string{"Comedy"}},
		{TMDBID: 4, Title: "Fresh Add", Status: "unknown"},
	}
}

func TestFilterShows_NoFilterIsIdentity(t *testing.T) {
	shows := sampleShows()
	assert.Equal(t, shows, FilterShows(shows, models.FilterState{}))
}

func TestFilterShows_GenresUseAndSemantics(t *testing.T) {
	got := FilterShows(sampleShows(), models.FilterState{Genres: []string{"Drama", "Comedy"}})
	assert.Equal(t, []int{2}, ids(got))

	got = FilterShows(sampleShows(), models.FilterState{Genres: []string{"Comedy"}})
	assert.Equal(t, []int{2, 3}, ids(got), "filtering keeps input order")
}

func TestFilterShows_Status(t *testing.T) {
	got := FilterShows(sampleShows(), models.FilterState{Status: "RETURNING SERIES"})
	assert.Equal(t, []int{2, 3}, ids(got))
}

func TestFilterShows_NetworkIsCaseSensitive(t *testing.T) {
	assert.Equal(t, []int{1}, ids(FilterShows(sampleShows(), models.FilterState{Network: "HBO"})))
	assert.Empty(t, FilterShows(sampleShows(), models.FilterState{Network: "hbo"}))
}

func TestFilterShows_AllCriteriaCombined(t *testing.T) {
	f := models.FilterState{
		Status:        "returning series",
		Genres:        []string{"Comedy"},
		FavoritesOnly: true,
	}
	assert.Equal(t, []int{2}, ids(FilterShows(sampleShows(), f)))

	f.Network = "NBC"
	assert.Empty(t, FilterShows(sampleShows(), f))
}

func TestFilterShows_FavoritesOnly(t *testing.T) {
	assert.Equal(t, []int{2}, ids(FilterShows(sampleShows(), models.FilterState{FavoritesOnly: true})))
}

func TestBuildFilterOptions(t *testing.T) {
	shows := append(sampleShows(), models.TrackedShow{TMDBID: 5, Title: "Blank", Status: "", Network: "HBO", Genres: []string{"", "Drama"}})

	opts := BuildFilterOptions(shows)
	assert.Equal(t, []string{"Ended", "Returning Series"}, opts.Status)
	assert.Equal(t, []string{"FX", "HBO", "NBC"}, opts.Network)
	assert.Equal(t, []string{"Comedy", "Drama"}, opts.Genres)
}

func TestBuildFilterOptions_Empty(t *testing.T) {
	opts := BuildFilterOptions(nil)
	assert.Empty(t, opts.Status)
	assert.Empty(t, opts.Network)
	assert.Empty(t, opts.Genres)
}
