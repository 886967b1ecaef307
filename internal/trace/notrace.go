package trace

// Kind names the condition preventing a trace derivation.
type Kind string

const (
	// Terminal for this attempt, surfaced to the user as guidance.
	KindNoPermission        Kind = "no_permission"
	KindPositionUnavailable Kind = "position_unavailable"
	KindTimeout             Kind = "timeout"

	// Retryable; the caller's polling loop resolves these on its own.
	KindWaitingForMoreLocations Kind = "waiting_for_more_locations"
	KindWaitingForTimeToPass    Kind = "waiting_for_time_to_pass"
	KindTooSlow                 Kind = "too_slow"
)

// NoTrace is a diagnostic explaining why no trace is currently
// derivable. It is an ordinary value, not an error to wrap; exactly one
// is produced per failed derivation.
type NoTrace struct {
	Kind Kind `json:"kind"`

	// Set for KindWaitingForMoreLocations.
	ReceivedLocations int `json:"received_locations,omitempty"`
	RequiredLocations int `json:"required_locations,omitempty"`

	// Set for KindTooSlow.
	CurrentSpeed  float64 `json:"current_speed,omitempty"`
	RequiredSpeed float64 `json:"required_speed,omitempty"`
}

// Terminal reports whether the condition cannot resolve without user
// action (re-granting permission, device coming back, retry).
func (n NoTrace) Terminal() bool {
	switch n.Kind {
	case KindNoPermission, KindPositionUnavailable, KindTimeout:
		return true
	}
	return false
}

// Guidance returns the user-facing hint for the condition.
func (n NoTrace) Guidance() string {
	switch n.Kind {
	case KindNoPermission:
		return "Please allow location access and reload the page."
	case KindPositionUnavailable, KindTimeout:
		return "Failed to locate you. Please try again in a few moments."
	case KindWaitingForMoreLocations:
		return "Matching you with other users..."
	case KindWaitingForTimeToPass:
		return "Calculating your speed. Please wait."
	case KindTooSlow:
		return "You are moving too slowly to be matched with other users."
	}
	return ""
}

// Sensor condition identifiers as reported by the device geolocation
// collaborator. The numeric codes follow the W3C Geolocation API.
const (
	sensorPermissionDenied    = 1
	sensorPositionUnavailable = 2
)

// FromSensorCode maps a device geolocation failure code to its
// diagnostic. The derivation state machine itself never produces these
// three; they originate upstream and share the result type so callers
// handle one uniform set of states.
func FromSensorCode(code int) NoTrace {
	switch code {
	case sensorPermissionDenied:
		return NoTrace{Kind: KindNoPermission}
	case sensorPositionUnavailable:
		return NoTrace{Kind: KindPositionUnavailable}
	default:
		return NoTrace{Kind: KindTimeout}
	}
}
