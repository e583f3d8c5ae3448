package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/utils"
	"github.com/sirupsen/logrus"
)

// ShowsHandler handles the tracked show list
type ShowsHandler struct {
	library *controllers.LibraryController
	logger  *logrus.Logger
}

// NewShowsHandler creates a new shows handler
func NewShowsHandler(library *controllers.LibraryController, logger *logrus.Logger) *ShowsHandler {
	return &ShowsHandler{
		library: library,
		logger:  logger,
	}
}

// FavoriteResponse is returned after toggling a favorite
type FavoriteResponse struct {
	TMDBID     int  `json:"tmdbId"`
	IsFavorite bool `json:"isFavorite"`
	Tracked    bool `json:"tracked"`
}

// List handles GET /api/shows
func (h *ShowsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.FilterState{
		Status:  query.Get("status"),
		Network: query.Get("network"),
		Genres:  query["genre"],
	}
	if raw := query.Get("favorites"); raw != "" {
		favoritesOnly, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "favorites must be a boolean")
			return
		}
		filter.FavoritesOnly = favoritesOnly
	}

	sort, err := h.sortOverride(r)
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}

	result, err := h.library.List(r.Context(), filter, sort)
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// sortOverride builds a one-off sort from the query string on top of the persisted
// preference. It returns nil when no sort parameter is given.
func (h *ShowsHandler) sortOverride(r *http.Request) (*models.SortConfig, error) {
	query := r.URL.Query()
	rawKey, rawDirection, rawFavorites := query.Get("sort"), query.Get("direction"), query.Get("favoritesFirst")
	if rawKey == "" && rawDirection == "" && rawFavorites == "" {
		return nil, nil
	}

	config, err := h.library.SortConfig(r.Context())
	if err != nil {
		return nil, err
	}

	if rawKey != "" {
		key, err := utils.ParseSortKey(rawKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", controllers.ErrInvalidSort, err)
		}
		config = utils.SelectSortKey(config, key)
	}
	if rawDirection != "" {
		direction, err := utils.ParseSortDirection(rawDirection)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", controllers.ErrInvalidSort, err)
		}
		config.Direction = direction
	}
	if rawFavorites != "" {
		favoritesFirst, err := strconv.ParseBool(rawFavorites)
		if err != nil {
			return nil, fmt.Errorf("%w: favoritesFirst must be a boolean", controllers.ErrInvalidSort)
		}
		config.FavoritesFirst = favoritesFirst
	}
	return &config, nil
}

// Filters handles GET /api/shows/filters
func (h *ShowsHandler) Filters(w http.ResponseWriter, r *http.Request) {
	options, err := h.library.FilterOptions(r.Context())
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// Add handles POST /api/shows
func (h *ShowsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req controllers.AddShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Debug("Failed to decode add request")
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	show, err := h.library.AddShow(r.Context(), req)
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, show)
}

// Details handles GET /api/shows/{id}
func (h *ShowsHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid show id")
		return
	}

	result, err := h.library.Details(r.Context(), id)
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Remove handles DELETE /api/shows/{id}
func (h *ShowsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid show id")
		return
	}

	if err := h.library.Remove(r.Context(), id); err != nil {
		writeControllerError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite handles POST /api/shows/{id}/favorite
func (h *ShowsHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid show id")
		return
	}

	favorite, found, err := h.library.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteResponse{TMDBID: id, IsFavorite: favorite, Tracked: found})
}

// Search handles GET /api/search
func (h *ShowsHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.library.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeControllerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
