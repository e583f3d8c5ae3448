package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey            string
	TMDBBaseURL           string
	TMDBCacheTTLMinutes   int     // How long search/details responses are reused (default: 15)
	TMDBRequestsPerSecond float64 // Outbound request pacing, 0 disables it (default: 20)
	HydrationBatchSize    int     // Shows hydrated concurrently per batch (default: 2)

	// Refresh
	RefreshSchedule string // Cron expression for the tracked show refresh
	RefreshOnStart  bool

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/showpulse.db

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_CACHE_TTL_MINUTES", 15)
	viper.SetDefault("TMDB_REQUESTS_PER_SECOND", 20)
	viper.SetDefault("HYDRATION_BATCH_SIZE", 2)
	viper.SetDefault("REFRESH_SCHEDULE", "0 */6 * * *")
	viper.SetDefault("REFRESH_ON_START", false)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "showpulse")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		TMDBAPIKey:            viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL:           viper.GetString("TMDB_BASE_URL"),
		TMDBCacheTTLMinutes:   viper.GetInt("TMDB_CACHE_TTL_MINUTES"),
		TMDBRequestsPerSecond: viper.GetFloat64("TMDB_REQUESTS_PER_SECOND"),
		HydrationBatchSize:    viper.GetInt("HYDRATION_BATCH_SIZE"),

		RefreshSchedule: viper.GetString("REFRESH_SCHEDULE"),
		RefreshOnStart:  viper.GetBool("REFRESH_ON_START"),

		ServerPort: viper.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "showpulse.db"),

		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	if config.HydrationBatchSize < 1 {
		return nil, fmt.Errorf("HYDRATION_BATCH_SIZE must be at least 1, got %d", config.HydrationBatchSize)
	}

	return config, nil
}

// RequireTMDB validates the settings needed to talk to TMDB.
// Listing the local library works without a key, so the check is not part of Load.
func (c *Config) RequireTMDB() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	return nil
}
