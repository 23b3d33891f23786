package tts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nabatlab/go-nabat/internal/httpc"
)

const (
	googleTTSBaseURL = "https://translate.google.com"
	providerGoogle   = "google"
)

// Google implements Provider using the Google Translate TTS endpoint.
// Output is MP3. Text longer than the configured chunk size is split
// into fixed-size character chunks, synthesized sequentially and
// concatenated; chunk boundaries may fall mid-word.
type Google struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewGoogle creates a new Google Translate TTS provider.
func NewGoogle(opts ...Option) (*Google, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = googleTTSBaseURL
	}

	return &Google{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "tts.google"),
		baseURL: baseURL,
	}, nil
}

// Synthesize converts text to MP3 audio in the locale matching language.
func (g *Google) Synthesize(ctx context.Context, text, language string) (*AudioResult, error) {
	if text == "" {
		return nil, nil
	}

	start := time.Now()
	locale := ResolveLocale(language, g.config.DefaultLocale)
	chunks := chunkRunes(text, g.config.ChunkSize)

	var audio []byte
	for _, chunk := range chunks {
		data, err := g.fetchChunk(ctx, chunk, locale)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}

	latency := time.Since(start).Milliseconds()

	g.logger.Debug("synthesized audio",
		"locale", locale,
		"chars", len(text),
		"chunks", len(chunks),
		"bytes", len(audio),
		"latency_ms", latency,
	)

	return &AudioResult{
		Audio:     audio,
		MIME:      MIMEMP3,
		Locale:    locale,
		CharCount: len(text),
		Chunks:    len(chunks),
		LatencyMs: latency,
	}, nil
}

// fetchChunk synthesizes a single chunk of text.
func (g *Google) fetchChunk(ctx context.Context, chunk, locale string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", locale)
	q.Set("q", chunk)

	endpoint := fmt.Sprintf("%s/translate_tts?%s", g.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, WrapError(providerGoogle, fmt.Errorf("create request: %w", err))
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, WrapError(providerGoogle, fmt.Errorf("tts request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Provider:   providerGoogle,
		}
	}

	return io.ReadAll(resp.Body)
}

// Health checks engine connectivity with a one-word synthesis.
func (g *Google) Health(ctx context.Context) error {
	_, err := g.fetchChunk(ctx, "ok", g.config.DefaultLocale)
	return err
}

// Close releases resources held by the provider.
func (g *Google) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// chunkRunes splits text into fixed-size rune chunks. Boundaries fall
// wherever the count lands, including mid-word.
func chunkRunes(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Verify Google implements Provider at compile time.
var _ Provider = (*Google)(nil)
