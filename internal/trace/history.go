package trace

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jflessau/catenary/internal/config"
	"github.com/jflessau/catenary/internal/geo"
)

// Tolerance below the minimum speed before a trace is rejected as too
// slow, to avoid flapping right at the boundary.
const speedEpsilon = 1e-3

type sample struct {
	point      geo.Point
	capturedAt time.Time
}

// History is a bounded, time-windowed record of one client's raw
// location samples, newest first. Each client session owns its History
// exclusively, so no locking is needed.
type History struct {
	samples []sample

	capacity     int
	maxAge       time.Duration
	minTimeDelta float64 // seconds
	minSpeed     float64 // meters per second

	clock  func() time.Time
	logger zerolog.Logger
}

// NewHistory creates an empty history sized from the config snapshot.
func NewHistory(cfg *config.Config, logger zerolog.Logger) *History {
	return &History{
		samples:      make([]sample, 0, cfg.MaxLocationsInHistory),
		capacity:     int(cfg.MaxLocationsInHistory),
		maxAge:       time.Duration(cfg.MaxLocationAgeSeconds) * time.Second,
		minTimeDelta: cfg.MinLocationTimeDeltaSeconds,
		minSpeed:     cfg.MinSpeedMetersPerSecond,
		clock:        time.Now,
		logger:       logger,
	}
}

// AddLocation records a raw sample with the current timestamp. An
// out-of-range or non-finite point is clamped to (0, 0) rather than
// rejected; the caller never fails, the bad sample just won't match
// anyone. If the history exceeds capacity the oldest sample is dropped.
func (h *History) AddLocation(p geo.Point) {
	if !p.Valid() {
		h.logger.Warn().
			Float64("lat", p.Lat).
			Float64("lon", p.Lon).
			Msg("invalid location, clamping to origin")
		p = geo.Point{}
	}

	h.samples = append([]sample{{point: p, capturedAt: h.clock()}}, h.samples...)
	if len(h.samples) > h.capacity {
		h.samples = h.samples[:h.capacity]
	}
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Trace derives a validated position, speed and bearing from the
// retained samples, or explains why it can't. The state machine runs
// fresh on every call:
//
//  1. drop samples older than the location TTL
//  2. fewer samples than capacity -> WaitingForMoreLocations
//  3. window spans too little time -> WaitingForTimeToPass
//  4. speed below the minimum      -> TooSlow
//  5. otherwise a Trace at the newest sample's position
//
// The "earliest" sample is the oldest one still inside the retained
// window (index capacity-1), not the oldest ever observed.
func (h *History) Trace() (Trace, *NoTrace) {
	h.purge()

	if len(h.samples) < h.capacity {
		return Trace{}, &NoTrace{
			Kind:              KindWaitingForMoreLocations,
			ReceivedLocations: len(h.samples),
			RequiredLocations: h.capacity,
		}
	}

	latest := h.samples[0]
	earliest := h.samples[h.capacity-1]

	duration := latest.capturedAt.Sub(earliest.capturedAt).Seconds()
	if duration < h.minTimeDelta {
		return Trace{}, &NoTrace{Kind: KindWaitingForTimeToPass}
	}

	distance := geo.Distance(earliest.point, latest.point)
	speed := distance / duration
	if speed < h.minSpeed-speedEpsilon {
		return Trace{}, &NoTrace{
			Kind:          KindTooSlow,
			CurrentSpeed:  speed,
			RequiredSpeed: h.minSpeed,
		}
	}

	slope := geo.Bearing(earliest.point, latest.point)

	h.logger.Debug().
		Float64("duration_s", duration).
		Float64("distance_m", distance).
		Float64("speed_mps", speed).
		Float64("slope_deg", slope).
		Msg("trace derived")

	return Trace{Location: latest.point, Speed: speed, Slope: slope}, nil
}

func (h *History) purge() {
	now := h.clock()
	kept := h.samples[:0]
	for _, s := range h.samples {
		if now.Sub(s.capturedAt) < h.maxAge {
			kept = append(kept, s)
		}
	}
	h.samples = kept
}
