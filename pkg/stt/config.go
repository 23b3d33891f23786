package stt

import (
	"log/slog"
	"time"
)

// Config holds recognizer configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Provider credentials
	APIKey  string
	BaseURL string

	// Locale policy: the primary locale is attempted first; the secondary
	// is tried only after an infrastructure failure of the primary attempt.
	PrimaryLocale   string
	SecondaryLocale string

	// Audio input
	SampleRate int

	// Timeouts
	Timeout time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring recognizers.
type Option func(*Config)

// WithAPIKey sets the API key for the recognizer.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithLocales sets the primary and secondary recognition locales.
func WithLocales(primary, secondary string) Option {
	return func(c *Config) {
		c.PrimaryLocale = primary
		c.SecondaryLocale = secondary
	}
}

// WithSampleRate sets the expected input sample rate in Hz.
func WithSampleRate(rate int) Option {
	return func(c *Config) {
		c.SampleRate = rate
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithLogger sets the structured logger for the recognizer.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns sensible default configuration.
// Arabic (Egypt) first with an English (US) fallback mirrors the
// assistant's primary audience.
func DefaultConfig() *Config {
	return &Config{
		PrimaryLocale:   "ar-EG",
		SecondaryLocale: "en-US",
		SampleRate:      16000,
		Timeout:         30 * time.Second,
		Logger:          slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}
