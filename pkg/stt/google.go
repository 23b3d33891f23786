package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nabatlab/go-nabat/internal/httpc"
)

const (
	googleSpeechBaseURL = "https://speech.googleapis.com/v1"
	providerGoogle      = "google"
)

// Google implements Recognizer using the Google Speech REST API.
//
// Recognition is attempted in the primary locale first. An engine
// outage on that attempt triggers a single retry in the secondary
// locale; an unintelligible utterance does not, because re-listening
// in another language will not make silence audible.
type Google struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewGoogle creates a new Google Speech recognizer.
func NewGoogle(opts ...Option) (*Google, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = googleSpeechBaseURL
	}

	return &Google{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "stt.google"),
		baseURL: baseURL,
	}, nil
}

// Recognize converts a mono PCM WAV buffer to text.
func (g *Google) Recognize(ctx context.Context, audio []byte) (*Result, error) {
	if len(audio) == 0 {
		return nil, WrapError(providerGoogle, ErrNoAudio)
	}

	result, err := g.recognizeLocale(ctx, audio, g.config.PrimaryLocale)
	if err == nil {
		return result, nil
	}

	// Inaudible input is a final outcome, not a reason to switch locale.
	if errors.Is(err, ErrUnintelligible) {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result, err2 := g.recognizeLocale(ctx, audio, g.config.SecondaryLocale)
	if err2 == nil {
		return result, nil
	}

	// The retry only ran because the engine failed, so a silent retry
	// is still an engine failure: surface the primary error, not
	// ErrUnintelligible.
	if errors.Is(err2, ErrUnintelligible) {
		return nil, fmt.Errorf("%s retry heard nothing after engine failure: %w",
			g.config.SecondaryLocale, err)
	}

	return nil, fmt.Errorf("both locales failed (%s: %v): %w",
		g.config.PrimaryLocale, err, err2)
}

// recognizeLocale performs a single recognition call in one locale.
func (g *Google) recognizeLocale(ctx context.Context, audio []byte, locale string) (*Result, error) {
	start := time.Now()

	payload := map[string]any{
		"config": map[string]any{
			"encoding":        "LINEAR16",
			"sampleRateHertz": g.config.SampleRate,
			"languageCode":    locale,
		},
		"audio": map[string]any{
			"content": base64.StdEncoding.EncodeToString(audio),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerGoogle, fmt.Errorf("marshal payload: %w", err))
	}

	url := fmt.Sprintf("%s/speech:recognize?key=%s", g.baseURL, g.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerGoogle, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, WrapError(providerGoogle, fmt.Errorf("recognize request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, g.parseError(resp)
	}

	var decoded struct {
		Results []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, WrapError(providerGoogle, fmt.Errorf("decode response: %w", err))
	}

	// The API returns an empty result set when it heard nothing usable.
	if len(decoded.Results) == 0 || len(decoded.Results[0].Alternatives) == 0 {
		return nil, WrapError(providerGoogle, ErrUnintelligible)
	}

	alt := decoded.Results[0].Alternatives[0]
	if alt.Transcript == "" {
		return nil, WrapError(providerGoogle, ErrUnintelligible)
	}

	g.logger.Debug("recognized speech",
		"locale", locale,
		"chars", len(alt.Transcript),
		"confidence", alt.Confidence,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Result{
		Text:       alt.Transcript,
		Locale:     locale,
		Confidence: alt.Confidence,
	}, nil
}

// Health checks API connectivity and API key validity.
func (g *Google) Health(ctx context.Context) error {
	// A zero-length recognition request validates routing and the key
	// without spending audio quota.
	_, err := g.recognizeLocale(ctx, []byte{0}, g.config.PrimaryLocale)
	if err == nil || errors.Is(err, ErrUnintelligible) {
		return nil
	}
	return err
}

// Close releases resources held by the recognizer.
func (g *Google) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// parseError reads and parses an error response.
func (g *Google) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerGoogle,
	}
}

// Verify Google implements Recognizer at compile time.
var _ Recognizer = (*Google)(nil)
