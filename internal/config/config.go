package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds algo configuration loaded from environment variables.
type Config struct {
	Strategy  string
	Transport string // stdio or websocket
	HostURL   string
	// HostSecret signs the websocket handshake token.
	HostSecret string
	// DatabaseURL and RedisURL enable the match journal sinks when set.
	DatabaseURL    string
	RedisURL       string
	LayoutFile     string
	Seed           int64
	MatchID        string
	JournalTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Strategy:       envOrDefault("ALGO_STRATEGY", "funnel"),
		Transport:      envOrDefault("ALGO_TRANSPORT", "stdio"),
		HostURL:        envOrDefault("HOST_URL", "ws://localhost:8009/algo"),
		HostSecret:     envOrDefault("HOST_SECRET", "dev-secret-change-me"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LayoutFile:     os.Getenv("LAYOUT_FILE"),
		Seed:           envInt64("SEED", 0),
		MatchID:        os.Getenv("MATCH_ID"),
		JournalTimeout: envDuration("JOURNAL_TIMEOUT", 2*time.Second),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring malformed integer")
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring malformed duration")
		return fallback
	}
	return d
}
