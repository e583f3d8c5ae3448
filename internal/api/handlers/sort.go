package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/utils"
	"github.com/sirupsen/logrus"
)

// SortHandler handles the persisted sort preference
type SortHandler struct {
	library *controllers.LibraryController
	logger  *logrus.Logger
}

// NewSortHandler creates a new sort handler
func NewSortHandler(library *controllers.LibraryController, logger *logrus.Logger) *SortHandler {
	return &SortHandler{
		library: library,
		logger:  logger,
	}
}

// SortResponse is the sort preference with its display description
type SortResponse struct {
	models.SortConfig
	Description string `json:"description"`
}

// Get handles GET /api/sort
func (h *SortHandler) Get(w http.ResponseWriter, r *http.Request) {
	config, err := h.library.SortConfig(r.Context())
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, SortResponse{SortConfig: config, Description: utils.SortDescription(config)})
}

// Put handles PUT /api/sort
func (h *SortHandler) Put(w http.ResponseWriter, r *http.Request) {
	var update controllers.SortUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.WithError(err).Debug("Failed to decode sort update")
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	config, err := h.library.UpdateSort(r.Context(), update)
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"key":       config.Key,
		"direction": config.Direction,
	}).Debug("Sort preference saved")
	writeJSON(w, http.StatusOK, SortResponse{SortConfig: config, Description: utils.SortDescription(config)})
}
