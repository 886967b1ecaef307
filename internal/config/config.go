package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Defaults for every tunable threshold. Each can be overridden via an
// environment variable of the same (upper-cased) name.
const (
	defaultMaxMessagesInMemory           uint    = 100_000
	defaultMaxMessageLength              uint    = 144
	defaultMaxMessageAgeMinutes          int     = 10
	defaultMaxLocationsInHistory         uint    = 4
	defaultMaxLocationAgeSeconds         uint    = 60
	defaultMinLocationTimeDeltaSeconds   float64 = 1.5
	defaultMinSpeedMetersPerSecond       float64 = 3.0
	defaultTraceMatchMaxMoveSeconds      float64 = 180.0
	defaultTraceMatchMaxSlopeDiffDegrees float64 = 32.0
)

// Config holds all configuration for the application. It is built once
// at startup and shared read-only afterwards.
type Config struct {
	Port string
	Env  string

	// Message store
	MaxMessagesInMemory  uint `validate:"gt=0"`
	MaxMessageLength     uint `validate:"gt=0"`
	MaxMessageAgeMinutes int  `validate:"gt=0"`

	// Location history
	MaxLocationsInHistory       uint    `validate:"gte=2"`
	MaxLocationAgeSeconds       uint    `validate:"gt=0"`
	MinLocationTimeDeltaSeconds float64 `validate:"gt=0"`
	MinSpeedMetersPerSecond     float64 `validate:"gte=0"`

	// Trace matching
	TraceMatchMaxMoveSeconds      float64 `validate:"gt=0"`
	TraceMatchMaxSlopeDiffDegrees float64 `validate:"gt=0"`
}

// Load reads configuration from environment variables. In development,
// it loads from a .env file if present. Unparseable values fall back to
// their defaults; a snapshot that fails validation as a whole falls
// back to all-default thresholds rather than failing startup.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MaxMessagesInMemory:  uintEnv("MAX_MESSAGES_IN_MEMORY", defaultMaxMessagesInMemory),
		MaxMessageLength:     uintEnv("MAX_MESSAGE_LENGTH", defaultMaxMessageLength),
		MaxMessageAgeMinutes: intEnv("MAX_MESSAGE_AGE_MINUTES", defaultMaxMessageAgeMinutes),

		MaxLocationsInHistory:       uintEnv("MAX_LOCATIONS_IN_HISTORY", defaultMaxLocationsInHistory),
		MaxLocationAgeSeconds:       uintEnv("MAX_LOCATION_AGE_SECONDS", defaultMaxLocationAgeSeconds),
		MinLocationTimeDeltaSeconds: floatEnv("MIN_LOCATION_TIME_DELTA_SECONDS", defaultMinLocationTimeDeltaSeconds),
		MinSpeedMetersPerSecond:     floatEnv("MIN_SPEED_METERS_PER_SECOND", defaultMinSpeedMetersPerSecond),

		TraceMatchMaxMoveSeconds:      floatEnv("TRACE_MATCH_MAX_MOVE_SECONDS", defaultTraceMatchMaxMoveSeconds),
		TraceMatchMaxSlopeDiffDegrees: floatEnv("TRACE_MATCH_MAX_SLOPE_DIFF_DEGREES", defaultTraceMatchMaxSlopeDiffDegrees),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Default(cfg.Port, cfg.Env)
	}

	return cfg
}

// Default returns a snapshot with every threshold at its default value.
func Default(port, env string) *Config {
	return &Config{
		Port: port,
		Env:  env,

		MaxMessagesInMemory:  defaultMaxMessagesInMemory,
		MaxMessageLength:     defaultMaxMessageLength,
		MaxMessageAgeMinutes: defaultMaxMessageAgeMinutes,

		MaxLocationsInHistory:       defaultMaxLocationsInHistory,
		MaxLocationAgeSeconds:       defaultMaxLocationAgeSeconds,
		MinLocationTimeDeltaSeconds: defaultMinLocationTimeDeltaSeconds,
		MinSpeedMetersPerSecond:     defaultMinSpeedMetersPerSecond,

		TraceMatchMaxMoveSeconds:      defaultTraceMatchMaxMoveSeconds,
		TraceMatchMaxSlopeDiffDegrees: defaultTraceMatchMaxSlopeDiffDegrees,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func uintEnv(key string, defaultValue uint) uint {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return uint(parsed)
}

func intEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func floatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
