package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	scouterr "sjsage522/vintedscout/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Upstream endpoints
	ItemsURL   string
	ProfileURL string
	WebsiteURL string

	// Static request headers
	Accept       string
	AuthCookie   string
	UserAgent    string
	CacheControl string

	// Zero leaves the transport default in place
	RequestTimeout time.Duration

	// Profile lookup pacing
	PauseMin             time.Duration
	PauseMax             time.Duration
	ProfileRatePerMinute int

	// Memcache configuration, empty address keeps the upstream cooldown in process
	MemcacheAddr string
	BlockTime    time.Duration

	// Redis configuration, empty address disables match publishing
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Zero runs the search once
	RunInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		ItemsURL:             getEnv("ITEMS_URL", "https://www.vinted.fr/api/v2/catalog/items"),
		ProfileURL:           getEnv("PROFILE_URL", "https://www.vinted.fr/api/v2/users/"),
		WebsiteURL:           getEnv("WEBSITE_URL", "https://www.vinted.fr"),
		Accept:               getEnv("ACCEPT", "application/json, text/plain, */*"),
		AuthCookie:           getEnv("AUTH_COOKIE", ""),
		UserAgent:            getEnv("USER_AGENT", ""),
		CacheControl:         getEnv("CACHE_CONTROL", "no-cache"),
		RequestTimeout:       time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 0)) * time.Second,
		PauseMin:             time.Duration(getEnvInt("PAUSE_MIN_MS", 1000)) * time.Millisecond,
		PauseMax:             time.Duration(getEnvInt("PAUSE_MAX_MS", 3000)) * time.Millisecond,
		ProfileRatePerMinute: getEnvInt("PROFILE_RATE_PER_MINUTE", 60),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		BlockTime:            time.Duration(getEnvInt("BLOCK_TIME_SECONDS", 300)) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "vinted:matches"),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 1000),
		RunInterval:          time.Duration(getEnvInt("RUN_INTERVAL_SECONDS", 0)) * time.Second,
		Environment:          getEnv("SCOUT_ENVIRONMENT", "development"),
	}
}

// Headers returns the static headers sent with every upstream request.
// Empty values are left out.
func (c *Config) Headers() map[string]string {
	headers := make(map[string]string, 4)
	set := func(name, value string) {
		if value != "" {
			headers[name] = value
		}
	}
	set("Accept", c.Accept)
	set("Cookie", c.AuthCookie)
	set("User-Agent", c.UserAgent)
	set("Cache-Control", c.CacheControl)
	return headers
}

// Validate checks that the configuration can drive a run
func (c *Config) Validate() error {
	for key, raw := range map[string]string{
		"ITEMS_URL":   c.ItemsURL,
		"PROFILE_URL": c.ProfileURL,
		"WEBSITE_URL": c.WebsiteURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return scouterr.NewConfiguration(key, "must be an absolute URL")
		}
	}
	if c.PauseMin < 0 || c.PauseMax < c.PauseMin {
		return scouterr.NewConfiguration("PAUSE_MIN_MS", "pause bounds must satisfy 0 <= min <= max")
	}
	if c.ProfileRatePerMinute < 0 {
		return scouterr.NewConfiguration("PROFILE_RATE_PER_MINUTE", "must not be negative")
	}
	if c.RequestTimeout < 0 {
		return scouterr.NewConfiguration("REQUEST_TIMEOUT_SECONDS", "must not be negative")
	}
	if c.RunInterval < 0 {
		return scouterr.NewConfiguration("RUN_INTERVAL_SECONDS", "must not be negative")
	}
	if c.RedisAddr != "" && c.RedisStream == "" {
		return scouterr.NewConfiguration("REDIS_STREAM", "required when REDIS_ADDR is set")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}
