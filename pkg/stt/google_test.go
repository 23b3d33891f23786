package stt_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nabatlab/go-nabat/pkg/stt"
)

type recordedRequest struct {
	Locale string
}

// speechServer fakes the Google Speech REST endpoint and records the
// locale of every recognition attempt.
type speechServer struct {
	mu       sync.Mutex
	requests []recordedRequest

	// respond decides the outcome per locale
	respond func(locale string, w http.ResponseWriter)
}

func (s *speechServer) handler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Config struct {
			LanguageCode string `json:"languageCode"`
		} `json:"config"`
		Audio struct {
			Content string `json:"content"`
		} `json:"audio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, recordedRequest{Locale: body.Config.LanguageCode})
	s.mu.Unlock()

	s.respond(body.Config.LanguageCode, w)
}

func (s *speechServer) locales() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	for i, r := range s.requests {
		out[i] = r.Locale
	}
	return out
}

func transcriptResponse(w http.ResponseWriter, text string) {
	json.NewEncoder(w).Encode(map[string]any{
		"results": []map[string]any{
			{"alternatives": []map[string]any{
				{"transcript": text, "confidence": 0.92},
			}},
		},
	})
}

func newTestRecognizer(t *testing.T, srv *speechServer) (*stt.Google, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(srv.handler))
	t.Cleanup(ts.Close)

	rec, err := stt.NewGoogle(
		stt.WithAPIKey("test-key"),
		stt.WithBaseURL(ts.URL),
	)
	if err != nil {
		t.Fatalf("NewGoogle: %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	return rec, ts
}

func TestGoogleRecognizePrimaryLocale(t *testing.T) {
	srv := &speechServer{
		respond: func(locale string, w http.ResponseWriter) {
			transcriptResponse(w, "كيف أروي الصبار؟")
		},
	}
	rec, _ := newTestRecognizer(t, srv)

	result, err := rec.Recognize(context.Background(), []byte("wav-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "كيف أروي الصبار؟" {
		t.Errorf("unexpected transcript: %q", result.Text)
	}
	if result.Locale != "ar-EG" {
		t.Errorf("expected primary locale ar-EG, got %s", result.Locale)
	}
	if got := srv.locales(); len(got) != 1 {
		t.Errorf("expected single attempt, got %v", got)
	}
}

func TestGoogleRecognizeFallsBackToSecondaryLocale(t *testing.T) {
	srv := &speechServer{
		respond: func(locale string, w http.ResponseWriter) {
			if locale == "ar-EG" {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "backend exploded"},
				})
				return
			}
			transcriptResponse(w, "how do I water a cactus")
		},
	}
	rec, _ := newTestRecognizer(t, srv)

	result, err := rec.Recognize(context.Background(), []byte("wav-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Locale != "en-US" {
		t.Errorf("expected fallback locale en-US, got %s", result.Locale)
	}

	locales := srv.locales()
	if len(locales) != 2 || locales[0] != "ar-EG" || locales[1] != "en-US" {
		t.Errorf("expected [ar-EG en-US] attempt order, got %v", locales)
	}
}

func TestGoogleRecognizeUnintelligibleIsTerminal(t *testing.T) {
	srv := &speechServer{
		respond: func(locale string, w http.ResponseWriter) {
			// Empty result set: the engine heard nothing usable.
			w.Write([]byte("{}"))
		},
	}
	rec, _ := newTestRecognizer(t, srv)

	_, err := rec.Recognize(context.Background(), []byte("wav-bytes"))
	if !errors.Is(err, stt.ErrUnintelligible) {
		t.Fatalf("expected ErrUnintelligible, got %v", err)
	}

	// No second locale attempt for inaudible input.
	if got := srv.locales(); len(got) != 1 {
		t.Errorf("expected single attempt, got %v", got)
	}
}

func TestGoogleRecognizeSilentRetryIsEngineFailure(t *testing.T) {
	srv := &speechServer{
		respond: func(locale string, w http.ResponseWriter) {
			if locale == "ar-EG" {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			// Secondary attempt hears nothing usable.
			w.Write([]byte("{}"))
		},
	}
	rec, _ := newTestRecognizer(t, srv)

	_, err := rec.Recognize(context.Background(), []byte("wav-bytes"))
	if err == nil {
		t.Fatal("expected error")
	}

	// The retry only ran because the engine failed; silence on that
	// retry must not reclassify the outcome as unintelligible.
	if errors.Is(err, stt.ErrUnintelligible) {
		t.Errorf("expected engine failure to surface, got %v", err)
	}

	var apiErr *stt.APIError
	if !errors.As(err, &apiErr) || !apiErr.IsServerError() {
		t.Errorf("expected the primary APIError to be preserved, got %v", err)
	}

	if got := srv.locales(); len(got) != 2 {
		t.Errorf("expected two attempts, got %v", got)
	}
}

func TestGoogleRecognizeBothLocalesFail(t *testing.T) {
	srv := &speechServer{
		respond: func(locale string, w http.ResponseWriter) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	}
	rec, _ := newTestRecognizer(t, srv)

	_, err := rec.Recognize(context.Background(), []byte("wav-bytes"))
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *stt.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsServerError() {
		t.Errorf("expected server error classification for %d", apiErr.StatusCode)
	}

	if got := srv.locales(); len(got) != 2 {
		t.Errorf("expected two attempts, got %v", got)
	}
}

func TestGoogleRecognizeEmptyAudio(t *testing.T) {
	srv := &speechServer{
		respond: func(locale string, w http.ResponseWriter) {
			t.Error("no request expected for empty audio")
		},
	}
	rec, _ := newTestRecognizer(t, srv)

	_, err := rec.Recognize(context.Background(), nil)
	if !errors.Is(err, stt.ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestGoogleRequiresAPIKey(t *testing.T) {
	_, err := stt.NewGoogle()
	if err != stt.ErrNoAPIKey {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := stt.DefaultConfig()
	cfg.Apply(
		stt.WithAPIKey("k"),
		stt.WithLocales("ar-SA", "fr-FR"),
		stt.WithSampleRate(44100),
	)

	if cfg.PrimaryLocale != "ar-SA" || cfg.SecondaryLocale != "fr-FR" {
		t.Errorf("locales not applied: %s/%s", cfg.PrimaryLocale, cfg.SecondaryLocale)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("sample rate not applied: %d", cfg.SampleRate)
	}
}

func TestDefaultLocalePolicy(t *testing.T) {
	cfg := stt.DefaultConfig()
	if cfg.PrimaryLocale != "ar-EG" {
		t.Errorf("expected primary ar-EG, got %s", cfg.PrimaryLocale)
	}
	if cfg.SecondaryLocale != "en-US" {
		t.Errorf("expected secondary en-US, got %s", cfg.SecondaryLocale)
	}
}

func TestMockRecognizer(t *testing.T) {
	mock := stt.WithResult("hello", "en-US")
	ctx := context.Background()

	result, err := mock.Recognize(ctx, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "hello" {
		t.Errorf("unexpected text %q", result.Text)
	}
	if mock.CallCount("Recognize") != 1 {
		t.Errorf("expected 1 Recognize call, got %d", mock.CallCount("Recognize"))
	}

	mock.Reset()
	if len(mock.Calls()) != 0 {
		t.Error("expected calls to be cleared")
	}
}
