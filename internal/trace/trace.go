package trace

import (
	"math"

	"github.com/jflessau/catenary/internal/config"
	"github.com/jflessau/catenary/internal/geo"
)

// Trace is a validated instantaneous position, speed and bearing
// derived from recent motion. It is produced fresh on every derivation
// attempt and never partially valid.
type Trace struct {
	Location geo.Point `json:"location"`
	Speed    float64   `json:"speed"` // meters per second
	Slope    float64   `json:"slope"` // degrees
}

// Matcher decides whether the owners of two traces share a chat
// visibility scope. It is a stateless predicate over config thresholds.
type Matcher struct {
	minSpeed     float64
	maxMove      float64
	maxSlopeDiff float64
}

// NewMatcher builds a matcher from the config snapshot.
func NewMatcher(cfg *config.Config) Matcher {
	return Matcher{
		minSpeed:     cfg.MinSpeedMetersPerSecond,
		maxMove:      cfg.TraceMatchMaxMoveSeconds,
		maxSlopeDiff: cfg.TraceMatchMaxSlopeDiffDegrees,
	}
}

// Overlaps reports whether other's messages are visible to the owner
// of self. Both parties must be in transit. The distance bound uses
// only self's speed, so Overlaps(a, b) and Overlaps(b, a) can
// disagree; callers always evaluate from the viewer's trace as self.
func (m Matcher) Overlaps(self, other Trace) bool {
	if self.Speed < m.minSpeed || other.Speed < m.minSpeed {
		return false
	}

	distance := geo.Distance(self.Location, other.Location)
	slopeDiff := math.Abs(other.Slope - self.Slope)

	return distance < self.Speed*m.maxMove && slopeDiff < m.maxSlopeDiff
}
