package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/showpulse/internal/config"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const imageBaseURL = "https://image.tmdb.org/t/p/w500"

var (
	// ErrMissingAPIKey is returned when no TMDB API key is configured
	ErrMissingAPIKey = errors.New("TMDB API key is not configured")
	// ErrInvalidID is returned for non-positive TMDB ids
	ErrInvalidID = errors.New("invalid TMDB id")
)

// APIError is returned when TMDB answers with a non-2xx status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB API error (%d): %s", e.StatusCode, e.Body)
}

// Client handles communication with the TMDB API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.TMDBAPIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(cfg.TMDBBaseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	if cfg.TMDBCacheTTLMinutes > 0 {
		ttl := time.Duration(cfg.TMDBCacheTTLMinutes) * time.Minute
		c.cache = gocache.New(ttl, 2*ttl)
	}
	if cfg.TMDBRequestsPerSecond > 0 {
		burst := int(cfg.TMDBRequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.TMDBRequestsPerSecond), burst)
	}

	return c, nil
}

// doRequest performs a GET request against the TMDB API and decodes the JSON response
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)

	fullURL := c.baseURL + path + "?" + query.Encode()
	c.logger.WithField("path", path).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		body := strings.TrimSpace(string(bodyBytes))
		if body == "" {
			body = http.StatusText(resp.StatusCode)
		}
		c.logger.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("TMDB API request failed")
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) cached(key string) (interface{}, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) store(key string, value interface{}) {
	if c.cache != nil {
		c.cache.SetDefault(key, value)
	}
}

// PosterURL returns the full poster URL for a TMDB poster path, or "" when there is none
func PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return imageBaseURL + posterPath
}
