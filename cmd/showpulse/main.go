package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/amaumene/showpulse/internal/config"
	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/services/tmdb"
	"github.com/amaumene/showpulse/internal/shows"
	"github.com/amaumene/showpulse/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootFlags struct {
	LogLevel string
}

var rootCmd = &cobra.Command{
	Use:   "showpulse",
	Short: "ShowPulse tracks the TV shows you follow",
	Long: `ShowPulse keeps a personal list of TV shows, fills in their metadata from TMDB
and periodically checks them for status and air date changes.`,
	Example: `showpulse
  showpulse serve --log-level debug
  showpulse list --sort nextAirDate --favorites
  showpulse search "severance"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error), overrides LOG_LEVEL")
	rootCmd.AddCommand(serveCmd, listCmd, searchCmd, refreshCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the components shared by every command
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *models.Database
	store  *shows.Store
	source controllers.MetadataSource // nil without a TMDB key
}

// setup loads configuration and opens the database. With requireTMDB the TMDB
// client must be available; otherwise it is created only when a key is configured.
func setup(logOutput io.Writer, requireTMDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if rootFlags.LogLevel != "" {
		cfg.LogLevel = rootFlags.LogLevel
	}
	if requireTMDB {
		if err := cfg.RequireTMDB(); err != nil {
			return nil, err
		}
	}

	logger := utils.NewLoggerWithOutput(logOutput, cfg.LogLevel, cfg.LogFormat)
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Debug("Configuration loaded")

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		store:  shows.NewStore(db, logger),
	}

	if cfg.TMDBAPIKey != "" {
		client, err := tmdb.NewClient(cfg, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize TMDB client: %w", err)
		}
		a.source = client
	}

	return a, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close database")
	}
}
