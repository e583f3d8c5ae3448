package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SearchResult is one page of TV search results
type SearchResult struct {
	Page         int          `json:"page"`
	Results      []SearchShow `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

// SearchShow is a TV search candidate
type SearchShow struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
	Overview     string `json:"overview,omitempty"`
}

// Details holds the full TMDB record of a TV show
type Details struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	Overview         string       `json:"overview,omitempty"`
	PosterPath       string       `json:"poster_path,omitempty"`
	FirstAirDate     string       `json:"first_air_date,omitempty"`
	Status           string       `json:"status,omitempty"`
	NextEpisodeToAir *Episode     `json:"next_episode_to_air,omitempty"`
	LastEpisodeToAir *Episode     `json:"last_episode_to_air,omitempty"`
	Networks         []Network    `json:"networks,omitempty"`
	VoteAverage      *float64     `json:"vote_average,omitempty"`
	VoteCount        int          `json:"vote_count,omitempty"`
	Genres           []Genre      `json:"genres,omitempty"`
	ExternalIDs      *ExternalIDs `json:"external_ids,omitempty"`
}

// Episode is the air date reference of the next or last episode
type Episode struct {
	AirDate string `json:"air_date,omitempty"`
}

// Network is a broadcaster or streaming service
type Network struct {
	Name string `json:"name"`
}

// Genre is a TMDB genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ExternalIDs links the show to other databases
type ExternalIDs struct {
	IMDBID      *string `json:"imdb_id,omitempty"`
	TVDBID      *int    `json:"tvdb_id,omitempty"`
	FacebookID  *string `json:"facebook_id,omitempty"`
	InstagramID *string `json:"instagram_id,omitempty"`
	TwitterID   *string `json:"twitter_id,omitempty"`
}

// NextAirDate returns the next episode air date, or "" when none is scheduled
func (d *Details) NextAirDate() string {
	if d.NextEpisodeToAir == nil {
		return ""
	}
	return d.NextEpisodeToAir.AirDate
}

// LastAirDate returns the last episode air date, or "" when nothing aired yet
func (d *Details) LastAirDate() string {
	if d.LastEpisodeToAir == nil {
		return ""
	}
	return d.LastEpisodeToAir.AirDate
}

// NetworkName returns the first network, or "" when TMDB lists none
func (d *Details) NetworkName() string {
	if len(d.Networks) == 0 {
		return ""
	}
	return d.Networks[0].Name
}

// GenreNames returns the genre names in TMDB order
func (d *Details) GenreNames() []string {
	if len(d.Genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// SearchShows searches TV shows by name. A blank query returns an empty page without a request.
func (c *Client) SearchShows(ctx context.Context, query string) (*SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return &SearchResult{Page: 1, Results: []SearchShow{}, TotalPages: 1}, nil
	}

	cacheKey := "search:" + strings.ToLower(q)
	if v, ok := c.cached(cacheKey); ok {
		return v.(*SearchResult), nil
	}

	params := url.Values{}
	params.Set("query", q)
	params.Set("include_adult", "false")
	params.Set("language", "en-US")
	params.Set("page", "1")

	var result SearchResult
	if err := c.doRequest(ctx, "/search/tv", params, &result); err != nil {
		return nil, fmt.Errorf("failed to search shows: %w", err)
	}
	if result.Results == nil {
		result.Results = []SearchShow{}
	}

	c.store(cacheKey, &result)
	return &result, nil
}

// GetShowDetails retrieves the full record of a TV show, including external ids
func (c *Client) GetShowDetails(ctx context.Context, tmdbID int) (*Details, error) {
	if tmdbID <= 0 {
		return nil, ErrInvalidID
	}

	cacheKey := "details:" + strconv.Itoa(tmdbID)
	if v, ok := c.cached(cacheKey); ok {
		return v.(*Details), nil
	}

	params := url.Values{}
	params.Set("language", "en-US")
	params.Set("append_to_response", "external_ids")

	var details Details
	if err := c.doRequest(ctx, fmt.Sprintf("/tv/%d", tmdbID), params, &details); err != nil {
		return nil, fmt.Errorf("failed to get show details: %w", err)
	}

	c.store(cacheKey, &details)
	return &details, nil
}
