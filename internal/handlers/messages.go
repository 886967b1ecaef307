package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/jflessau/catenary/internal/api/middleware"
	"github.com/jflessau/catenary/internal/geo"
	"github.com/jflessau/catenary/internal/plane"
	"github.com/jflessau/catenary/internal/trace"
)

// TraceInput is the wire form of a client's trace.
type TraceInput struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Speed float64 `json:"speed"`
	Slope float64 `json:"slope"`
}

func (t TraceInput) trace() trace.Trace {
	return trace.Trace{
		Location: geo.Point{Lat: t.Lat, Lon: t.Lon},
		Speed:    t.Speed,
		Slope:    t.Slope,
	}
}

// SendMessageRequest represents the post message request.
type SendMessageRequest struct {
	Text  string     `json:"text"`
	Trace TraceInput `json:"trace"`
}

// SendMessageResponse represents the post message response.
type SendMessageResponse struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// ListMessagesResponse represents the message listing response.
type ListMessagesResponse struct {
	Messages []plane.View `json:"messages"`
}

// VoteRequest represents the vote request.
type VoteRequest struct {
	Up bool `json:"up"`
}

// SendMessage enqueues a message for the ingest writer.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		h.Error(w, http.StatusUnauthorized, "identity required")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Blank messages are accepted and dropped, not rejected.
	if strings.TrimSpace(req.Text) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	in := plane.NewInbound(viewer, req.Text, req.Trace.trace(), h.cfg.MaxMessageLength, h.logger)

	select {
	case h.queue <- in:
	default:
		h.logger.Error().Msg("ingest queue full, dropping message")
		h.Error(w, http.StatusServiceUnavailable, "try again in a moment")
		return
	}

	h.JSON(w, http.StatusAccepted, SendMessageResponse{
		ID:        in.ID,
		Timestamp: in.Timestamp.UnixMilli(),
	})
}

// ListMessages returns the messages visible from the viewer's trace,
// oldest first.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	viewerTrace, err := traceFromQuery(r)
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid trace parameters")
		return
	}

	var viewerID *uuid.UUID
	if viewer, ok := middleware.ViewerFromContext(r.Context()); ok {
		viewerID = &viewer
	}

	views := h.plane.Messages(viewerTrace, viewerID)

	h.JSON(w, http.StatusOK, ListMessagesResponse{Messages: views})
}

// VoteMessage applies the viewer's up or down vote to a message.
func (h *Handler) VoteMessage(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		h.Error(w, http.StatusUnauthorized, "identity required")
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := ulid.Parse(idStr)
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid message ID format")
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	h.plane.Vote(id.String(), viewer, req.Up)

	w.WriteHeader(http.StatusNoContent)
}

func traceFromQuery(r *http.Request) (trace.Trace, error) {
	var input TraceInput
	var err error

	parse := func(key string) float64 {
		value, parseErr := strconv.ParseFloat(r.URL.Query().Get(key), 64)
		if parseErr != nil && err == nil {
			err = parseErr
		}
		return value
	}

	input.Lat = parse("lat")
	input.Lon = parse("lon")
	input.Speed = parse("speed")
	input.Slope = parse("slope")

	return input.trace(), err
}
