package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/services/tmdb"
	"github.com/amaumene/showpulse/internal/shows"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed API request
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeControllerError maps controller errors to HTTP statuses.
// Anything unrecognized is a persistence fault.
func writeControllerError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	var apiErr *tmdb.APIError

	switch {
	case errors.Is(err, controllers.ErrAlreadyTracked):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, controllers.ErrMissingTitle),
		errors.Is(err, controllers.ErrInvalidSort),
		errors.Is(err, shows.ErrInvalidShow),
		errors.Is(err, tmdb.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tmdb.ErrMissingAPIKey):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		writeError(w, http.StatusNotFound, "show not found")
	case errors.Is(err, controllers.ErrMetadataUnavailable):
		logger.WithError(err).Warn("Metadata request failed")
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
