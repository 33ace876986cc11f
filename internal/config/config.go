package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string
	ViewsDir   string
	StaticDir  string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// Session
	SessionSecret      string        // Used for encrypting cookies (min 32 chars)
	SessionIdleTimeout time.Duration // Form state is dropped after this much inactivity
	RedisURL           string        // Optional session storage, e.g. "redis://localhost:6379/0"

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Limits
	RateLimitMax          int // Requests per minute per IP
	KeystrokeRateLimitMax int // Field updates per minute per IP, counted apart from RateLimitMax

	// Features
	MetricsEnabled bool

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Lost & Found QR"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)

	// Form content, from CONFIG_FILE
	Form *FormConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		ServerAddr:         getEnv("SERVER_ADDR", ":3000"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:3000"),
		ViewsDir:           getEnv("VIEWS_DIR", "./views"),
		StaticDir:          getEnv("STATIC_DIR", "./static"),
		TLSEnabled:         getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:        getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:         getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:          getEnv("TLS_CA_FILE", ""),
		SessionSecret:      getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		RedisURL:           getEnv("REDIS_URL", ""),
		CORSOrigins:        getEnv("CORS_ORIGINS", ""),
		RateLimitMax:          getEnvInt("RATE_LIMIT_MAX", 100),
		KeystrokeRateLimitMax: getEnvInt("KEYSTROKE_RATE_LIMIT_MAX", 1200),
		MetricsEnabled:     getEnv("METRICS_ENABLED", "") != "",

		SiteTitle:   getEnv("SITE_TITLE", "Lost & Found QR"),
		SiteTagline: getEnv("SITE_TAGLINE", "Turn your contact details into a WhatsApp QR code"),
		SiteFooter:  getEnv("SITE_FOOTER", "Lost & Found QR - print it, stick it, get your things back"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),

		Form: DefaultFormConfig(),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// UsesRedis returns true if session state should be kept in Redis.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}
