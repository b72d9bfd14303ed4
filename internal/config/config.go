package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Unlimited marks a plan with no monthly search allowance cap.
const Unlimited = -1

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL       string
	JWTSecret         string
	Port              string
	PlacesAPIKey      string
	PlanAllowances    map[string]int
	RateLimitSearch   RateLimitConfig
	DetailConcurrency int
	PlacesTimeout     time.Duration
	TokenTTL          time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret"),
		Port:              getEnv("PORT", "8080"),
		PlacesAPIKey:      os.Getenv("GOOGLE_PLACES_API_KEY"),
		DetailConcurrency: parseInt(getEnv("DETAIL_CONCURRENCY", "6"), 6),
		PlacesTimeout:     parseDuration(getEnv("PLACES_TIMEOUT", "10s"), 10*time.Second),
		TokenTTL:          parseDuration(getEnv("JWT_TTL", "168h"), 168*time.Hour),
	}

	allowances, err := parsePlanAllowances(getEnv("PLAN_ALLOWANCES", "starter:100,professional:500,agency:unlimited"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLAN_ALLOWANCES value: %w", err)
	}
	cfg.PlanAllowances = allowances

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEARCH", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEARCH value: %w", err)
	}
	cfg.RateLimitSearch = rl

	return cfg, nil
}

// parsePlanAllowances reads a "tier:limit,..." table; "unlimited" maps to Unlimited.
func parsePlanAllowances(value string) (map[string]int, error) {
	table := make(map[string]int)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected format <tier>:<limit>, got %q", pair)
		}
		tier := strings.ToLower(strings.TrimSpace(parts[0]))
		raw := strings.ToLower(strings.TrimSpace(parts[1]))
		if tier == "" {
			return nil, fmt.Errorf("empty tier name in %q", pair)
		}
		if raw == "unlimited" {
			table[tier] = Unlimited
			continue
		}
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid limit for tier %s: %q", tier, parts[1])
		}
		table[tier] = limit
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("allowance table must not be empty")
	}
	return table, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
