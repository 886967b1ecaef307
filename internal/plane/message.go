package plane

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/jflessau/catenary/internal/metrics"
	"github.com/jflessau/catenary/internal/trace"
)

// Vote is the requesting viewer's own stance on a message.
type Vote string

const (
	VoteNone Vote = "none"
	VoteUp   Vote = "up"
	VoteDown Vote = "down"
)

// Inbound is a message as it arrives from the transport layer, before
// the plane has resolved a display name for its author.
type Inbound struct {
	ID        string
	Author    uuid.UUID
	Text      string
	Trace     trace.Trace
	Timestamp time.Time
}

// NewInbound assigns a fresh id and capture timestamp. Oversized text
// is truncated to maxLength runes and logged, never rejected.
func NewInbound(author uuid.UUID, text string, tr trace.Trace, maxLength uint, logger zerolog.Logger) Inbound {
	if runes := []rune(text); uint(len(runes)) > maxLength {
		logger.Warn().
			Int("length", len(runes)).
			Uint("max", maxLength).
			Msg("message too long, truncating")
		metrics.MessagesTruncated.Inc()
		text = string(runes[:maxLength])
	}

	return Inbound{
		ID:        ulid.Make().String(),
		Author:    author,
		Text:      strings.TrimSpace(text),
		Trace:     tr,
		Timestamp: time.Now().UTC(),
	}
}

// Message is a stored chat message. Upvoters and downvoters are kept
// disjoint by the vote toggling logic.
type Message struct {
	ID          string
	Author      uuid.UUID
	DisplayName string
	Text        string
	Trace       trace.Trace
	Upvoters    map[uuid.UUID]struct{}
	Downvoters  map[uuid.UUID]struct{}
	Timestamp   time.Time
}

// View is the outbound projection of a message for one viewer. Derived
// on read, never stored.
type View struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
	Upvotes     int    `json:"upvotes"`
	Downvotes   int    `json:"downvotes"`
	ViewerVote  Vote   `json:"viewer_vote"`
	Timestamp   int64  `json:"ts"` // Unix ms
}

func (m *Message) view(viewerID *uuid.UUID) View {
	vote := VoteNone
	if viewerID != nil {
		if _, ok := m.Upvoters[*viewerID]; ok {
			vote = VoteUp
		} else if _, ok := m.Downvoters[*viewerID]; ok {
			vote = VoteDown
		}
	}

	return View{
		ID:          m.ID,
		DisplayName: m.DisplayName,
		Text:        m.Text,
		Upvotes:     len(m.Upvoters),
		Downvotes:   len(m.Downvoters),
		ViewerVote:  vote,
		Timestamp:   m.Timestamp.UnixMilli(),
	}
}
