package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	AdminToken      string
	FeedbackDelay   time.Duration
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	StreakTimezone  *time.Location
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:           envOr("ADDR", ":8080"),
		DBPath:         envOr("DB_PATH", "file:peyvin.db"),
		LogLevel:       envOr("LOG_LEVEL", "INFO"),
		AdminToken:     envOr("ADMIN_TOKEN", ""),
		FeedbackDelay:  time.Duration(envIntOr("FEEDBACK_DELAY_MS", 1500)) * time.Millisecond,
		SessionTTL:     time.Duration(envIntOr("SESSION_TTL_MINUTES", 30)) * time.Minute,
		SweepInterval:  time.Duration(envIntOr("SESSION_SWEEP_SECONDS", 60)) * time.Second,
		StreakTimezone: envLocationOr("STREAK_TZ", time.Local),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envLocationOr(key string, def *time.Location) *time.Location {
	if v := os.Getenv(key); v != "" {
		if loc, err := time.LoadLocation(v); err == nil {
			return loc
		}
		log.Printf("invalid value for %s=%q, using server-local time zone", key, v)
	}
	return def
}
