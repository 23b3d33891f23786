package tts

import (
	"log/slog"
	"time"
)

// DefaultChunkSize is the maximum characters per engine call. The hosted
// engine rejects long utterances, so longer text is split into chunks of
// this size. Chunks are cut by character count, not word boundaries.
const DefaultChunkSize = 200

// Config holds TTS provider configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Endpoint
	BaseURL string

	// Voice selection
	DefaultLocale string

	// Chunking
	ChunkSize int

	// Timeouts
	Timeout time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring TTS providers.
type Option func(*Config)

// WithBaseURL overrides the default engine base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithDefaultLocale sets the locale used when a language has no
// registered voice.
func WithDefaultLocale(locale string) Option {
	return func(c *Config) {
		c.DefaultLocale = locale
	}
}

// WithChunkSize sets the maximum characters per engine call.
func WithChunkSize(size int) Option {
	return func(c *Config) {
		c.ChunkSize = size
	}
}

// WithTimeout sets the per-chunk request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithLogger sets the structured logger for the provider.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultLocale: DefaultLocale,
		ChunkSize:     DefaultChunkSize,
		Timeout:       30 * time.Second,
		Logger:        slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
