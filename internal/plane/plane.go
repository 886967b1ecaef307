// Package plane holds the process-wide in-memory store of recent
// messages and filters reads by geospatial and kinematic proximity.
package plane

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jflessau/catenary/internal/config"
	"github.com/jflessau/catenary/internal/metrics"
	"github.com/jflessau/catenary/internal/names"
	"github.com/jflessau/catenary/internal/trace"
)

// Cap on messages scanned per listing, a safety valve rather than a
// product feature.
const maxListedMessages = 10_000

// Plane is the shared message store for one server process. A single
// mutex guards all state: the ingest writer blocks on it, readers and
// voters try-acquire and degrade gracefully when it is held.
type Plane struct {
	mu sync.Mutex

	messages      []Message // newest first, len <= capacity
	namesByAuthor map[uuid.UUID]string

	capacity int
	maxAge   time.Duration
	matcher  trace.Matcher
	names    names.Supplier
	clock    func() time.Time
	logger   zerolog.Logger
}

// New creates an empty plane sized from the config snapshot.
func New(cfg *config.Config, supplier names.Supplier, logger zerolog.Logger) *Plane {
	return &Plane{
		messages:      []Message{},
		namesByAuthor: make(map[uuid.UUID]string),
		capacity:      int(cfg.MaxMessagesInMemory),
		maxAge:        time.Duration(cfg.MaxMessageAgeMinutes) * time.Minute,
		matcher:       trace.NewMatcher(cfg),
		names:         supplier,
		clock:         time.Now,
		logger:        logger,
	}
}

// AddMessage resolves the author's display name, stores the message at
// the front and enforces the age and capacity bounds. This is the only
// growing mutation path; it runs on the single ingest writer and blocks
// on the lock.
func (p *Plane) AddMessage(in Inbound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name, ok := p.namesByAuthor[in.Author]
	if !ok {
		name = p.names.NextName()
		if name == "" {
			name = names.Fallback
		}
		// A name, once assigned to an author, never changes.
		p.namesByAuthor[in.Author] = name
	}

	msg := Message{
		ID:          in.ID,
		Author:      in.Author,
		DisplayName: name,
		Text:        in.Text,
		Trace:       in.Trace,
		Upvoters:    make(map[uuid.UUID]struct{}),
		Downvoters:  make(map[uuid.UUID]struct{}),
		Timestamp:   in.Timestamp,
	}
	p.messages = append([]Message{msg}, p.messages...)

	p.deleteOldMessages()

	for len(p.messages) > p.capacity {
		p.messages = p.messages[:len(p.messages)-1]
	}
}

// Messages returns the viewer's visible messages, oldest first. If the
// lock is currently held the call returns an empty list instead of
// blocking; clients poll on a short interval and self-correct on the
// next attempt.
func (p *Plane) Messages(viewer trace.Trace, viewerID *uuid.UUID) []View {
	if !p.mu.TryLock() {
		p.logger.Warn().Msg("plane lock held, returning empty message list")
		metrics.PlaneLockContention.WithLabelValues("list").Inc()
		return []View{}
	}
	defer p.mu.Unlock()

	p.deleteOldMessages()

	views := make([]View, 0)
	for i := range p.messages {
		if i >= maxListedMessages {
			break
		}
		msg := &p.messages[i]
		if !p.matcher.Overlaps(viewer, msg.Trace) {
			continue
		}
		views = append(views, msg.view(viewerID))
	}

	// Storage is newest-first, display is oldest-first. Stable so that
	// messages sharing a millisecond keep the same order between polls.
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Timestamp < views[j].Timestamp
	})

	return views
}

// Vote toggles the viewer's vote on a message. Upvoting an already
// upvoted message retracts the vote; upvoting a downvoted message
// switches it, so a viewer is never in both sets. A held lock or an
// unknown id degrades to a logged no-op.
func (p *Plane) Vote(id string, viewerID uuid.UUID, up bool) {
	if !p.mu.TryLock() {
		p.logger.Warn().Str("id", id).Msg("plane lock held, dropping vote")
		metrics.PlaneLockContention.WithLabelValues("vote").Inc()
		return
	}
	defer p.mu.Unlock()

	var msg *Message
	for i := range p.messages {
		if p.messages[i].ID == id {
			msg = &p.messages[i]
			break
		}
	}
	if msg == nil {
		p.logger.Warn().Str("id", id).Msg("couldn't find message to vote on")
		return
	}

	if up {
		if _, ok := msg.Upvoters[viewerID]; ok {
			delete(msg.Upvoters, viewerID)
		} else {
			msg.Upvoters[viewerID] = struct{}{}
			delete(msg.Downvoters, viewerID)
		}
	} else if _, ok := msg.Downvoters[viewerID]; ok {
		delete(msg.Downvoters, viewerID)
	} else {
		msg.Downvoters[viewerID] = struct{}{}
		delete(msg.Upvoters, viewerID)
	}

	direction := "down"
	if up {
		direction = "up"
	}
	metrics.VotesCast.WithLabelValues(direction).Inc()
}

// Stats returns the current message and known-author counts.
func (p *Plane) Stats() (messageCount, authorCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages), len(p.namesByAuthor)
}

func (p *Plane) deleteOldMessages() {
	now := p.clock()
	kept := p.messages[:0]
	expired := 0
	for _, msg := range p.messages {
		if now.Sub(msg.Timestamp) < p.maxAge {
			kept = append(kept, msg)
		} else {
			expired++
		}
	}
	p.messages = kept

	if expired > 0 {
		metrics.MessagesExpired.Add(float64(expired))
	}
}
