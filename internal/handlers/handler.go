package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jflessau/catenary/internal/config"
	"github.com/jflessau/catenary/internal/plane"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	cfg    *config.Config
	plane  *plane.Plane
	queue  chan<- plane.Inbound
	logger zerolog.Logger
}

// NewHandler creates a new Handler with the given store and ingest
// queue.
func NewHandler(cfg *config.Config, p *plane.Plane, queue chan<- plane.Inbound, logger zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, plane: p, queue: queue, logger: logger}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
