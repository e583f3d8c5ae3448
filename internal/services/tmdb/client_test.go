package tmdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/amaumene/showpulse/internal/config"
	"github.com/amaumene/showpulse/internal/utils"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cacheMinutes int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.Config{
		TMDBAPIKey:          "test-key",
		TMDBBaseURL:         server.URL,
		TMDBCacheTTLMinutes: cacheMinutes,
	}, utils.NewLoggerWithOutput(io.Discard, "info", "text"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(&config.Config{TMDBAPIKey: "  "}, utils.NewLoggerWithOutput(io.Discard, "info", "text"))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSearchShows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "severance" {
			t.Errorf("Expected trimmed query, got %q", q.Get("query"))
		}
		if q.Get("api_key") != "test-key" {
			t.Errorf("Expected api key to be sent")
		}
		if q.Get("include_adult") != "false" || q.Get("language") != "en-US" || q.Get("page") != "1" {
			t.Errorf("Unexpected query parameters: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"page":1,"results":[{"id":95396,"name":"Severance","poster_path":"/sev.jpg","first_air_date":"2022-02-18","overview":"Work."},{"id":1,"name":"Nulls","poster_path":null,"first_air_date":null}],"total_pages":1,"total_results":2}`)
	}, 0)

	result, err := client.SearchShows(context.Background(), "  severance ")
	if err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(result.Results))
	}
	if result.Results[0].ID != 95396 || result.Results[0].PosterPath != "/sev.jpg" {
		t.Errorf("Unexpected first result: %+v", result.Results[0])
	}
	if result.Results[1].PosterPath != "" || result.Results[1].FirstAirDate != "" {
		t.Errorf("Null fields should decode as empty: %+v", result.Results[1])
	}
}

func TestSearchShowsBlankQuery(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}, 0)

	result, err := client.SearchShows(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}
	if result.Page != 1 || result.TotalResults != 0 || len(result.Results) != 0 {
		t.Errorf("Expected empty first page, got %+v", result)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("Blank query should not hit the API")
	}
}

func TestGetShowDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/100" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("append_to_response") != "external_ids" {
			t.Errorf("Expected external ids to be requested")
		}
		io.WriteString(w, `{
			"id": 100,
			"name": "Dark",
			"status": "Ended",
			"first_air_date": "2017-12-01",
			"next_episode_to_air": null,
			"last_episode_to_air": {"air_date": "2020-06-27"},
			"networks": [{"name": "Netflix"}, {"name": "Other"}],
			"vote_average": 8.4,
			"genres": [{"id": 18, "name": "Drama"}, {"id": 9648, "name": "Mystery"}],
			"external_ids": {"imdb_id": "tt5753856", "tvdb_id": 334824}
		}`)
	}, 0)

	details, err := client.GetShowDetails(context.Background(), 100)
	if err != nil {
		t.Fatalf("GetShowDetails failed: %v", err)
	}
	if details.Status != "Ended" {
		t.Errorf("Expected status Ended, got %q", details.Status)
	}
	if details.NextAirDate() != "" {
		t.Errorf("Expected no next air date, got %q", details.NextAirDate())
	}
	if details.LastAirDate() != "2020-06-27" {
		t.Errorf("Unexpected last air date %q", details.LastAirDate())
	}
	if details.NetworkName() != "Netflix" {
		t.Errorf("Expected first network, got %q", details.NetworkName())
	}
	if got := details.GenreNames(); len(got) != 2 || got[1] != "Mystery" {
		t.Errorf("Unexpected genres %v", got)
	}
	if details.VoteAverage == nil || *details.VoteAverage != 8.4 {
		t.Errorf("Unexpected rating %v", details.VoteAverage)
	}
	if details.ExternalIDs == nil || details.ExternalIDs.IMDBID == nil || *details.ExternalIDs.IMDBID != "tt5753856" {
		t.Errorf("Unexpected external ids %+v", details.ExternalIDs)
	}
}

func TestGetShowDetailsInvalidID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Invalid id should not hit the API")
	}, 0)

	if _, err := client.GetShowDetails(context.Background(), 0); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("Expected ErrInvalidID, got %v", err)
	}
}

func TestNon2xxReturnsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"status_message":"Invalid API key"}`)
	}, 0)

	_, err := client.GetShowDetails(context.Background(), 5)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", apiErr.StatusCode)
	}
}

func TestResponsesAreCached(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		io.WriteString(w, `{"id": 7, "name": "Fargo", "status": "Returning Series"}`)
	}, 10)

	for i := 0; i < 3; i++ {
		if _, err := client.GetShowDetails(context.Background(), 7); err != nil {
			t.Fatalf("GetShowDetails failed: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 request with caching, got %d", got)
	}
}

func TestPosterURL(t *testing.T) {
	if PosterURL("") != "" {
		t.Error("Expected empty URL for empty path")
	}
	if got := PosterURL("/abc.jpg"); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Errorf("Unexpected poster URL %s", got)
	}
}
