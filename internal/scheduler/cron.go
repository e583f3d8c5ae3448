package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	refreshCtrl *controllers.RefreshController
	schedule    string
	runOnStart  bool
	logger      *logrus.Logger

	// a refresh never overlaps the previous one
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewScheduler creates a new scheduler
func NewScheduler(refreshCtrl *controllers.RefreshController, schedule string, runOnStart bool, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		refreshCtrl: refreshCtrl,
		schedule:    schedule,
		runOnStart:  runOnStart,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Scheduler started")

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runRefresh()
		}()
	}

	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// runRefresh executes the refresh job
func (s *Scheduler) runRefresh() {
	if !s.mu.TryLock() {
		s.logger.Warn("Previous refresh still running, skipping")
		return
	}
	defer s.mu.Unlock()

	s.logger.Info("Running scheduled refresh")
	ctx := context.Background()

	if _, err := s.refreshCtrl.RefreshAll(ctx); err != nil {
		s.logger.WithError(err).Error("Refresh job failed")
	} else {
		s.logger.Info("Refresh job completed successfully")
	}
}
