// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with
// an error. A local .env file is honored when present (dev convenience,
// never required).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the tracker service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	// Deadline reminder sweep.
	SweepIntervalMinutes int
	SweepLookahead       time.Duration
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	// Best effort: absent .env just means real env vars are in use.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("TRACKER_PORT")
	if port == "" {
		port = "8082"
	}

	interval := 15
	if s := os.Getenv("DEADLINE_SWEEP_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("DEADLINE_SWEEP_MINUTES must be a positive integer, got %q", s)
		}
		interval = v
	}

	lookaheadHours := 24
	if s := os.Getenv("DEADLINE_LOOKAHEAD_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("DEADLINE_LOOKAHEAD_HOURS must be a positive integer, got %q", s)
		}
		lookaheadHours = v
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		SweepIntervalMinutes: interval,
		SweepLookahead:       time.Duration(lookaheadHours) * time.Hour,
	}, nil
}
