package handlers

import (
	"net/http"

	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/shows"
	"github.com/amaumene/showpulse/internal/utils"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	store  *shows.Store
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(store *shows.Store, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		store:  store,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalShows     int            `json:"total_shows"`
	Favorites      int            `json:"favorites"`
	Positive       int            `json:"positive"`
	Pending        int            `json:"pending"`
	Negative       int            `json:"negative"`
	Unclassified   int            `json:"unclassified"`
	ShowsByNetwork map[string]int `json:"shows_by_network"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load shows")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := StatusResponse{
		TotalShows:     len(list),
		ShowsByNetwork: make(map[string]int),
	}

	for _, show := range list {
		// Count by status category
		switch utils.CategorizeStatus(show.Status) {
		case models.StatusPositive:
			response.Positive++
		case models.StatusPending:
			response.Pending++
		case models.StatusNegative:
			response.Negative++
		default:
			response.Unclassified++
		}

		if show.IsFavorite {
			response.Favorites++
		}

		// Count by network
		if show.Network != "" {
			response.ShowsByNetwork[show.Network]++
		}
	}

	writeJSON(w, http.StatusOK, response)
}
