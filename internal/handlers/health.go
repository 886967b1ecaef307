package handlers

import (
	"net/http"
	"time"
)

const version = "0.1.0"

// Check represents the status of a health check.
type Check struct {
	Status   string `json:"status"` // "pass" or "fail"
	Messages int    `json:"messages,omitempty"`
	Authors  int    `json:"authors,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// Health handles the health check endpoint. The store lives in this
// process, so a reachable handler means a reachable plane; the check
// reports its occupancy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	messageCount, authorCount := h.plane.Stats()

	resp := HealthResponse{
		Status:  "healthy",
		Version: version,
		Checks: map[string]Check{
			"plane": {Status: "pass", Messages: messageCount, Authors: authorCount},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	h.JSON(w, http.StatusOK, resp)
}

// RootResponse represents the root endpoint response.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:    "catenary",
		Version: version,
	})
}
