package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule represents rate limiting configuration for a group of endpoints.
// A Path ending in "/" matches by prefix.
type Rule struct {
	Path   string
	Method string
	Limit  int // Maximum requests per window; 0 means unlimited
	Window time.Duration
	Burst  int // Burst capacity, defaults to Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Rules           []Rule
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the endpoint-specific limits. Submitting a review
// triggers a model call, so it gets a much stricter budget than reads.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/reviews", Method: "POST", Limit: getEnvInt("RATE_LIMIT_REVIEWS_PER_MINUTE", 10), Window: time.Minute, Burst: 3},
	}
}

// match finds the rule for a request. Health checks are unlimited; unmatched
// requests fall back to the default limit.
func (c *Config) match(path, method string) Rule {
	if path == "/health" && method == "GET" {
		return Rule{Limit: 0}
	}

	for _, r := range c.Rules {
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return r
		}
		if strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}

	return Rule{Path: "*", Limit: c.DefaultLimit, Window: c.DefaultWindow, Burst: c.DefaultLimit}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
