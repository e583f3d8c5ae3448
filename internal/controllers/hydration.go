package controllers

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/services/tmdb"
	"github.com/amaumene/showpulse/internal/shows"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// MetadataSource is the remote TV metadata provider
type MetadataSource interface {
	SearchShows(ctx context.Context, query string) (*tmdb.SearchResult, error)
	GetShowDetails(ctx context.Context, tmdbID int) (*tmdb.Details, error)
}

var hydrationItems = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "showpulse_hydration_items_total",
	Help: "Shows processed by metadata hydration, by result.",
}, []string{"result"})

// HydrationResult summarizes one hydration pass
type HydrationResult struct {
	Candidates int `json:"candidates"`
	Hydrated   int `json:"hydrated"`
	Skipped    int `json:"skipped"` // removed while the fetch was in flight
	Failed     int `json:"failed"`
}

// HydrationController fills in metadata for shows added from search results
type HydrationController struct {
	source    MetadataSource
	store     *shows.Store
	batchSize int
	logger    *logrus.Logger

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewHydrationController creates a new hydration controller
func NewHydrationController(source MetadataSource, store *shows.Store, batchSize int, logger *logrus.Logger) *HydrationController {
	if batchSize < 1 {
		batchSize = 1
	}
	return &HydrationController{
		source:    source,
		store:     store,
		batchSize: batchSize,
		logger:    logger,
	}
}

// NeedsHydration reports whether show is still in the state left by a lightweight add:
// no classified status and neither air date.
func (c *HydrationController) NeedsHydration(show models.TrackedShow) bool {
	status := strings.TrimSpace(show.Status)
	if status != "" && !strings.EqualFold(status, models.StatusUnknown) {
		return false
	}
	return show.NextAirDate == "" && show.LastAirDate == ""
}

// Hydrate fetches details for every qualifying show and patches them into the store.
// Shows are processed in batches of batchSize; a batch settles completely before the next
// one starts. Failures are logged and counted, never returned.
func (c *HydrationController) Hydrate(ctx context.Context, list []models.TrackedShow) HydrationResult {
	candidates := lo.Filter(list, func(show models.TrackedShow, _ int) bool {
		return c.NeedsHydration(show)
	})

	result := HydrationResult{Candidates: len(candidates)}
	if len(candidates) == 0 {
		return result
	}

	c.logger.WithFields(logrus.Fields{
		"count":      len(candidates),
		"batch_size": c.batchSize,
	}).Info("Hydrating shows")

	var hydrated, skipped, failed atomic.Int32
	for _, batch := range lo.Chunk(candidates, c.batchSize) {
		p := pool.New().WithMaxGoroutines(len(batch))
		for _, show := range batch {
			p.Go(func() {
				found, err := c.hydrateShow(ctx, show)
				switch {
				case err != nil:
					failed.Add(1)
					hydrationItems.WithLabelValues("failed").Inc()
					c.logger.WithError(err).WithFields(logrus.Fields{
						"tmdb_id": show.TMDBID,
						"title":   show.Title,
					}).Warn("Failed to hydrate show")
				case !found:
					skipped.Add(1)
					hydrationItems.WithLabelValues("skipped").Inc()
					c.logger.WithField("tmdb_id", show.TMDBID).Debug("Show removed before hydration finished")
				default:
					hydrated.Add(1)
					hydrationItems.WithLabelValues("hydrated").Inc()
				}
			})
		}
		p.Wait()
	}

	result.Hydrated = int(hydrated.Load())
	result.Skipped = int(skipped.Load())
	result.Failed = int(failed.Load())

	c.logger.WithFields(logrus.Fields{
		"hydrated": result.Hydrated,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	}).Info("Hydration completed")
	return result
}

// HydrateInBackground starts a detached hydration pass over list and returns immediately.
// It reports false when a pass is already running. onDone, if set, receives the result.
func (c *HydrationController) HydrateInBackground(list []models.TrackedShow, onDone func(HydrationResult)) bool {
	if !c.running.CompareAndSwap(false, true) {
		return false
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.running.Store(false)

		result := c.Hydrate(context.Background(), list)
		if onDone != nil {
			onDone(result)
		}
	}()
	return true
}

// Running reports whether a background pass is in progress
func (c *HydrationController) Running() bool {
	return c.running.Load()
}

// Wait blocks until the background pass, if any, has finished
func (c *HydrationController) Wait() {
	c.wg.Wait()
}

func (c *HydrationController) hydrateShow(ctx context.Context, show models.TrackedShow) (bool, error) {
	details, err := c.source.GetShowDetails(ctx, show.TMDBID)
	if err != nil {
		return false, err
	}

	return c.store.Patch(ctx, show.TMDBID, func(stored *models.TrackedShow) {
		ApplyDetails(stored, details)
	})
}

// ApplyDetails copies the enrichable fields of details onto show.
// Fields TMDB leaves out are cleared rather than kept.
func ApplyDetails(show *models.TrackedShow, details *tmdb.Details) {
	show.Status = details.Status
	show.NextAirDate = details.NextAirDate()
	show.LastAirDate = details.LastAirDate()
	show.FirstAirDate = details.FirstAirDate
	show.Network = details.NetworkName()
	show.Genres = details.GenreNames()
	show.VoteAverage = details.VoteAverage
}
