package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ttsServer is a test double for the hosted engine that records every
// chunk request.
type ttsServer struct {
	mu       sync.Mutex
	requests []ttsRequest
	status   int
	audio    []byte
}

type ttsRequest struct {
	Locale string
	Text   string
}

func newTTSServer() *ttsServer {
	return &ttsServer{status: http.StatusOK, audio: []byte("MP3DATA")}
}

func (s *ttsServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		s.mu.Lock()
		s.requests = append(s.requests, ttsRequest{
			Locale: q.Get("tl"),
			Text:   q.Get("q"),
		})
		status := s.status
		audio := s.audio
		s.mu.Unlock()

		if status != http.StatusOK {
			http.Error(w, "engine error", status)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}
}

func (s *ttsServer) recorded() []ttsRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ttsRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func TestGoogleSynthesize(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		engine := newTTSServer()
		srv := httptest.NewServer(engine.handler())
		defer srv.Close()

		provider, err := NewGoogle(WithBaseURL(srv.URL))
		if err != nil {
			t.Fatalf("NewGoogle: %v", err)
		}
		defer provider.Close()

		result, err := provider.Synthesize(context.Background(), "hello there", "en")
		if err != nil {
			t.Fatalf("Synthesize: %v", err)
		}

		if got := len(engine.recorded()); got != 1 {
			t.Errorf("expected 1 engine call, got %d", got)
		}
		if result.Chunks != 1 {
			t.Errorf("expected 1 chunk, got %d", result.Chunks)
		}
		if result.MIME != MIMEMP3 {
			t.Errorf("expected MIME %q, got %q", MIMEMP3, result.MIME)
		}
		if string(result.Audio) != "MP3DATA" {
			t.Errorf("unexpected audio: %q", result.Audio)
		}
	})

	t.Run("long text splits into fixed-size chunks", func(t *testing.T) {
		engine := newTTSServer()
		srv := httptest.NewServer(engine.handler())
		defer srv.Close()

		provider, err := NewGoogle(WithBaseURL(srv.URL), WithChunkSize(10))
		if err != nil {
			t.Fatalf("NewGoogle: %v", err)
		}
		defer provider.Close()

		// 25 chars with chunk size 10: chunks of 10, 10 and 5.
		text := strings.Repeat("a", 25)
		result, err := provider.Synthesize(context.Background(), text, "en")
		if err != nil {
			t.Fatalf("Synthesize: %v", err)
		}

		reqs := engine.recorded()
		if len(reqs) != 3 {
			t.Fatalf("expected 3 engine calls, got %d", len(reqs))
		}
		if len(reqs[0].Text) != 10 || len(reqs[1].Text) != 10 || len(reqs[2].Text) != 5 {
			t.Errorf("unexpected chunk sizes: %d, %d, %d",
				len(reqs[0].Text), len(reqs[1].Text), len(reqs[2].Text))
		}
		if result.Chunks != 3 {
			t.Errorf("expected 3 chunks in result, got %d", result.Chunks)
		}
		if want := "MP3DATAMP3DATAMP3DATA"; string(result.Audio) != want {
			t.Errorf("expected concatenated audio %q, got %q", want, result.Audio)
		}
	})

	t.Run("chunks count runes not bytes", func(t *testing.T) {
		engine := newTTSServer()
		srv := httptest.NewServer(engine.handler())
		defer srv.Close()

		provider, err := NewGoogle(WithBaseURL(srv.URL), WithChunkSize(5))
		if err != nil {
			t.Fatalf("NewGoogle: %v", err)
		}
		defer provider.Close()

		// 8 Arabic letters, multi-byte in UTF-8. Rune chunking gives
		// two chunks; byte chunking would give more.
		text := "النباتات"
		result, err := provider.Synthesize(context.Background(), text, "ar")
		if err != nil {
			t.Fatalf("Synthesize: %v", err)
		}
		if result.Chunks != 2 {
			t.Errorf("expected 2 chunks, got %d", result.Chunks)
		}
	})

	t.Run("empty text is a no-op", func(t *testing.T) {
		engine := newTTSServer()
		srv := httptest.NewServer(engine.handler())
		defer srv.Close()

		provider, err := NewGoogle(WithBaseURL(srv.URL))
		if err != nil {
			t.Fatalf("NewGoogle: %v", err)
		}
		defer provider.Close()

		result, err := provider.Synthesize(context.Background(), "", "en")
		if err != nil {
			t.Errorf("expected nil error for empty text, got %v", err)
		}
		if result != nil {
			t.Errorf("expected nil result for empty text, got %+v", result)
		}
		if got := len(engine.recorded()); got != 0 {
			t.Errorf("expected 0 engine calls, got %d", got)
		}
	})

	t.Run("unknown language falls back to default locale", func(t *testing.T) {
		engine := newTTSServer()
		srv := httptest.NewServer(engine.handler())
		defer srv.Close()

		provider, err := NewGoogle(WithBaseURL(srv.URL))
		if err != nil {
			t.Fatalf("NewGoogle: %v", err)
		}
		defer provider.Close()

		if _, err := provider.Synthesize(context.Background(), "hello", "zz"); err != nil {
			t.Fatalf("Synthesize: %v", err)
		}

		reqs := engine.recorded()
		if len(reqs) != 1 {
			t.Fatalf("expected 1 engine call, got %d", len(reqs))
		}
		if reqs[0].Locale != DefaultLocale {
			t.Errorf("expected locale %q, got %q", DefaultLocale, reqs[0].Locale)
		}
	})

	t.Run("arabic language selects arabic voice", func(t *testing.T) {
		engine := newTTSServer()
		srv := httptest.NewServer(engine.handler())
		defer srv.Close()

		provider, err := NewGoogle(WithBaseURL(srv.URL))
		if err != nil {
			t.Fatalf("NewGoogle: %v", err)
		}
		defer provider.Close()

		if _, err := provider.Synthesize(context.Background(), "مرحبا", "ar"); err != nil {
			t.Fatalf("Synthesize: %v", err)
		}

		reqs := engine.recorded()
		if len(reqs) != 1 || reqs[0].Locale != "ar" {
			t.Errorf("expected one call with locale ar, got %+v", reqs)
		}
	})

	t.Run("server error returns APIError", func(t *testing.T) {
		engine := newTTSServer()
		engine.status = http.StatusServiceUnavailable
		srv := httptest.NewServer(engine.handler())
		defer srv.Close()

		provider, err := NewGoogle(WithBaseURL(srv.URL))
		if err != nil {
			t.Fatalf("NewGoogle: %v", err)
		}
		defer provider.Close()

		_, err = provider.Synthesize(context.Background(), "hello", "en")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("expected *APIError, got %T: %v", err, err)
		}
		if !apiErr.IsServerError() {
			t.Errorf("expected server error, got status %d", apiErr.StatusCode)
		}
	})
}

func TestGoogleHealth(t *testing.T) {
	engine := newTTSServer()
	srv := httptest.NewServer(engine.handler())
	defer srv.Close()

	provider, err := NewGoogle(WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGoogle: %v", err)
	}
	defer provider.Close()

	if err := provider.Health(context.Background()); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}
}

func TestChunkRunes(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want int
	}{
		{"shorter than size", "hi", 200, 1},
		{"exactly size", strings.Repeat("x", 200), 200, 1},
		{"one over size", strings.Repeat("x", 201), 200, 2},
		{"multiple chunks", strings.Repeat("x", 450), 200, 3},
		{"multibyte runes", strings.Repeat("ن", 12), 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkRunes(tt.text, tt.size)
			if len(chunks) != tt.want {
				t.Errorf("expected %d chunks, got %d", tt.want, len(chunks))
			}
			if joined := strings.Join(chunks, ""); joined != tt.text {
				t.Errorf("chunks do not reassemble to input")
			}
		})
	}
}
