package tts

import (
	"context"
	"log/slog"
)

// Chain tries multiple TTS providers in order until one succeeds.
// Useful for fallback scenarios, e.g. hosted engine with a local
// engine as backup.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a provider chain. Providers are tried in the order
// given.
func NewChain(providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		logger:    slog.Default().With("component", "tts.chain"),
	}
}

// Synthesize tries each provider in order, returning the first
// successful result. A (nil, nil) empty-text no-op from the first
// provider is returned as-is; it is not a failure.
func (c *Chain) Synthesize(ctx context.Context, text, language string) (*AudioResult, error) {
	if len(c.providers) == 0 {
		return nil, ErrProviderUnavailable
	}

	var errs []error
	for i, p := range c.providers {
		result, err := p.Synthesize(ctx, text, language)
		if err == nil {
			return result, nil
		}

		c.logger.Warn("provider failed, trying next",
			"provider_index", i,
			"error", err,
		)
		errs = append(errs, err)
	}

	return nil, &ChainError{Errors: errs}
}

// Health returns nil if at least one provider is healthy.
func (c *Chain) Health(ctx context.Context) error {
	if len(c.providers) == 0 {
		return ErrProviderUnavailable
	}

	var errs []error
	for _, p := range c.providers {
		if err := p.Health(ctx); err == nil {
			return nil
		} else {
			errs = append(errs, err)
		}
	}
	return &ChainError{Errors: errs}
}

// Close closes all providers in the chain. The first error encountered
// is returned after all providers have been closed.
func (c *Chain) Close() error {
	var first error
	for _, p := range c.providers {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Verify Chain implements Provider at compile time.
var _ Provider = (*Chain)(nil)
