// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/mediflow/contact-api/pkg/captcha"
	"github.com/mediflow/contact-api/pkg/logger"
	"github.com/mediflow/contact-api/pkg/mailer"
	"github.com/mediflow/contact-api/pkg/mailer/resend"
)

// Sentinel errors for configuration validation.
var (
	// ErrMissingRecipient indicates CONTACT_TO_EMAIL is not set. There is
	// deliberately no fallback address: shipping a hardcoded destination
	// is a hard failure, not a default.
	ErrMissingRecipient = errors.New("config: destination recipient (CONTACT_TO_EMAIL) is required")

	// ErrMissingMailCredentials indicates the mail relay credentials are incomplete.
	ErrMissingMailCredentials = errors.New("config: mail relay credentials (RESEND_API_KEY, RESEND_FROM_EMAIL) are required")
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8787"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// ContactConfig holds submission pipeline settings.
type ContactConfig struct {
	// ToEmail is the fixed notification recipient. Required.
	ToEmail string `envconfig:"CONTACT_TO_EMAIL"`
}

// RateLimitConfig holds admission control settings. When RedisURL is set
// the counter store is shared across service instances; otherwise an
// in-process store is used.
type RateLimitConfig struct {
	RedisURL     string        `envconfig:"REDIS_URL"`
	MaxPerWindow int           `envconfig:"RATE_LIMIT_MAX" default:"5"`
	Window       time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// Config aggregates all service configuration.
type Config struct {
	Server    ServerConfig
	Contact   ContactConfig
	RateLimit RateLimitConfig
	Captcha   captcha.Config
	Mailer    mailer.Config
	Resend    resend.Config
	Sentry    logger.SentryConfig
}

// Load parses configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces settings that must be present at startup. The
// CAPTCHA secrets are intentionally not checked: their absence disables
// bot verification rather than failing.
func (c *Config) Validate() error {
	if c.Contact.ToEmail == "" {
		return ErrMissingRecipient
	}
	if c.Resend.APIKey == "" || c.Resend.SenderEmail == "" {
		return ErrMissingMailCredentials
	}
	return nil
}
