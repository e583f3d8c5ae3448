package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/showpulse/internal/api"
	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/scheduler"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled refresh",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	// 1. Load configuration, open database and TMDB client
	a, err := setup(os.Stdout, true)
	if err != nil {
		return err
	}
	defer a.close()

	logger := a.logger
	logger.Info("Starting ShowPulse")

	// 2. Initialize controllers
	hydrationCtrl := controllers.NewHydrationController(a.source, a.store, a.cfg.HydrationBatchSize, logger)
	refreshCtrl := controllers.NewRefreshController(a.db, a.store, a.source, logger)
	libraryCtrl := controllers.NewLibraryController(a.store, a.source, hydrationCtrl, refreshCtrl, logger)
	logger.Info("Controllers initialized")

	// 3. Initialize scheduler
	sched := scheduler.NewScheduler(refreshCtrl, a.cfg.RefreshSchedule, a.cfg.RefreshOnStart, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 4. Initialize HTTP server
	server := api.NewServer(a.cfg, a.store, libraryCtrl, hydrationCtrl, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 5. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("ShowPulse is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	// Let a detached hydration pass finish its writes before the database closes
	hydrationCtrl.Wait()

	logger.Info("ShowPulse stopped")
	return nil
}
