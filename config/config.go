package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// API
	BaseURL       string
	DefaultSource string
	PageSize      int

	// Display
	Language string // display language; "en" disables title translation

	// Rate limiting
	RatePerSecond float64
	RateBurst     int
	MaxConcurrent int // concurrent title translations per result page

	// Wishlist
	WishlistPollInterval time.Duration

	// Region fallback for local/regional sources
	DefaultCountry string

	// HTTP server (MCP)
	HTTPPort string
	APIKey   string

	// Logging
	Verbose bool
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:              "https://api.wanslu.shop",
		DefaultSource:        "wholesale",
		PageSize:             20,
		Language:             "en",
		RatePerSecond:        5.0,
		RateBurst:            8,
		MaxConcurrent:        4,
		WishlistPollInterval: 30 * time.Second,
		DefaultCountry:       "US",
		HTTPPort:             "8080",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("WANSLU_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("WANSLU_SOURCE"); v != "" {
		c.DefaultSource = v
	}
	if v := os.Getenv("WANSLU_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PageSize = n
		}
	}
	if v := os.Getenv("WANSLU_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("WANSLU_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("WANSLU_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("WANSLU_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("WANSLU_WISHLIST_POLL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.WishlistPollInterval = d
		}
	}
	if v := os.Getenv("WANSLU_COUNTRY"); v != "" {
		c.DefaultCountry = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("WANSLU_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("WANSLU_VERBOSE"); v == "true" || v == "1" {
		c.Verbose = true
	}
}
