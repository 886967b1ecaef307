package plane

import (
	"context"

	"github.com/jflessau/catenary/internal/metrics"
)

// Ingest drains in and appends each message to the plane in arrival
// order. It is meant to run as the single dedicated writer goroutine
// and returns when ctx is cancelled or in is closed.
func (p *Plane) Ingest(ctx context.Context, in <-chan Inbound) {
	p.logger.Info().Msg("starting message ingest")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("stopping message ingest")
			return
		case msg, ok := <-in:
			if !ok {
				p.logger.Warn().Msg("ingest channel closed")
				return
			}
			p.AddMessage(msg)
			metrics.MessagesPosted.Inc()
		}
	}
}
