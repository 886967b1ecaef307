package trace

import (
	"testing"

	"github.com/jflessau/catenary/internal/config"
	"github.com/jflessau/catenary/internal/geo"
)

func TestOverlapsSpeedGate(t *testing.T) {
	cfg := config.Default("8080", "test")
	m := NewMatcher(cfg)

	slow := cfg.MinSpeedMetersPerSecond - 1
	fast := cfg.MinSpeedMetersPerSecond + 1
	at := geo.Point{Lat: 53.55, Lon: 9.99}

	tests := []struct {
		name       string
		selfSpeed  float64
		otherSpeed float64
		want       bool
	}{
		{"self too slow", slow, fast, false},
		{"other too slow", fast, slow, false},
		{"both too slow", slow, slow, false},
		{"both in transit", fast, fast, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			self := Trace{Location: at, Speed: tt.selfSpeed}
			other := Trace{Location: at, Speed: tt.otherSpeed}
			if got := m.Overlaps(self, other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsSlopeDiff(t *testing.T) {
	cfg := config.Default("8080", "test")
	m := NewMatcher(cfg)

	at := geo.Point{Lat: 53.55, Lon: 9.99}
	speed := cfg.MinSpeedMetersPerSecond + 1

	tests := []struct {
		name       string
		otherSlope float64
		want       bool
	}{
		{"same slope", 0, true},
		{"small diff", cfg.TraceMatchMaxSlopeDiffDegrees - 1, true},
		{"exactly at threshold", cfg.TraceMatchMaxSlopeDiffDegrees, false},
		{"big diff", cfg.TraceMatchMaxSlopeDiffDegrees + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			self := Trace{Location: at, Speed: speed, Slope: 0}
			other := Trace{Location: at, Speed: speed, Slope: tt.otherSlope}
			if got := m.Overlaps(self, other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsDistanceBound(t *testing.T) {
	cfg := config.Default("8080", "test")
	m := NewMatcher(cfg)

	europapassage := geo.Point{Lat: 53.552196, Lon: 9.994872}
	kunsthalle := geo.Point{Lat: 53.555574, Lon: 10.000226}     // ~516 m away
	schwanenwik := geo.Point{Lat: 53.564007, Lon: 10.015946}    // ~1914 m away
	gurlittinsel := geo.Point{Lat: 53.559220, Lon: 10.007939}   // ~750 m from Schwanenwik

	// A bus crawling through rush hour still reaches Kunsthalle within
	// its 180 s horizon (6 m/s * 180 s = 1080 m > 516 m).
	self := Trace{Location: kunsthalle, Speed: 6, Slope: 0}
	other := Trace{Location: europapassage, Speed: 12, Slope: 0}
	if !m.Overlaps(self, other) {
		t.Error("Kunsthalle viewer should see Europapassage at 6 m/s")
	}

	// Schwanenwik is out of reach for a slow viewer (10 m/s * 180 s =
	// 1800 m < 1914 m).
	self = Trace{Location: schwanenwik, Speed: 10, Slope: 0}
	if m.Overlaps(self, other) {
		t.Error("Schwanenwik viewer at 10 m/s should not see Europapassage")
	}

	// A regular bus from Gurlittinsel easily covers 750 m.
	self = Trace{Location: gurlittinsel, Speed: 13, Slope: 0}
	other = Trace{Location: schwanenwik, Speed: 12, Slope: 0}
	if !m.Overlaps(self, other) {
		t.Error("Gurlittinsel viewer at 13 m/s should see Schwanenwik")
	}
}

func TestOverlapsAsymmetry(t *testing.T) {
	cfg := config.Default("8080", "test")
	m := NewMatcher(cfg)

	// ~1914 m apart. A at 12 m/s reaches 2160 m, B at 10 m/s only
	// 1800 m: the bound uses the viewer's own speed, so direction
	// matters.
	a := Trace{Location: geo.Point{Lat: 53.552196, Lon: 9.994872}, Speed: 12, Slope: 0}
	b := Trace{Location: geo.Point{Lat: 53.564007, Lon: 10.015946}, Speed: 10, Slope: 0}

	if !m.Overlaps(a, b) {
		t.Error("Overlaps(a, b) = false, want true")
	}
	if m.Overlaps(b, a) {
		t.Error("Overlaps(b, a) = true, want false")
	}
}
