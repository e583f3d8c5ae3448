package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	hydrating func() bool
	logger    *logrus.Logger
}

// NewHealthHandler creates a new health handler.
// hydrating reports whether a background hydration pass is running and may be nil.
func NewHealthHandler(hydrating func() bool, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{hydrating: hydrating, logger: logger}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Hydrating bool   `json:"hydrating"`
}

// ServeHTTP handles the health check endpoint
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{Status: "healthy"}
	if h.hydrating != nil {
		response.Hydrating = h.hydrating()
	}
	writeJSON(w, http.StatusOK, response)
}
