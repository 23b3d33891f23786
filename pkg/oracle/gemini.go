package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nabatlab/go-nabat/internal/httpc"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.0-flash"
)

// promptTemplate constrains the model to the plant domain, pins the
// answer language to the question language, and fixes the refusal
// wording for off-topic questions.
const promptTemplate = "You are a plant expert. Answer concisely in the same language as the question. " +
	"If not plant-related, say 'أسئلة النباتات فقط' in Arabic or 'Plant questions only' in English.\n\n" +
	"Question: %s"

// Gemini implements Oracle using the Gemini REST API.
//
// A single failed call is surfaced immediately as an error result; no
// retries are attempted at this layer.
type Gemini struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// Config holds Gemini client configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Option is a functional option for configuring the Gemini client.
type Option func(*Config)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.Timeout = timeout }
}

// WithLogger sets the structured logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:   DefaultModel,
		Timeout: 60 * time.Second,
		Logger:  slog.Default(),
	}
}

// NewGemini creates a new Gemini oracle.
func NewGemini(opts ...Option) (*Gemini, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	return &Gemini{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "oracle.gemini"),
		baseURL: baseURL,
	}, nil
}

// Answer consults Gemini with the domain-constrained prompt.
func (g *Gemini) Answer(ctx context.Context, question string) Result {
	if question == "" {
		return Result{Text: MsgNoInformation, Err: true}
	}

	start := time.Now()

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{
				{"text": fmt.Sprintf(promptTemplate, question)},
			}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error("marshal request", "error", err)
		return Result{Text: MsgExpertUnavailable, Err: true}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, g.config.Model, g.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		g.logger.Error("create request", "error", err)
		return Result{Text: MsgExpertUnavailable, Err: true}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("gemini request failed", "error", err)
		return Result{Text: MsgExpertUnavailable, Err: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		g.logger.Error("gemini request rejected",
			"status", resp.StatusCode,
			"body", truncate(string(errBody), 200),
		)
		return Result{Text: MsgExpertUnavailable, Err: true}
	}

	text, ok := extractText(resp.Body)
	if !ok {
		g.logger.Warn("gemini response missing text")
		return Result{Text: MsgSystemError, Err: true}
	}

	g.logger.Debug("answer generated",
		"question_chars", len(question),
		"answer_chars", len(text),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return Result{Text: text}
}

// extractText pulls the first candidate's text out of a generateContent
// response. Returns false when the response shape carries no text — the
// explicit "extractable text present" predicate.
func extractText(r io.Reader) (string, bool) {
	var decoded struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(r).Decode(&decoded); err != nil {
		return "", false
	}
	if len(decoded.Candidates) == 0 {
		return "", false
	}

	parts := decoded.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", false
	}
	return parts[0].Text, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Verify Gemini implements Oracle at compile time.
var _ Oracle = (*Gemini)(nil)
