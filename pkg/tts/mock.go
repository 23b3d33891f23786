package tts

import (
	"context"
	"sync"
	"time"
)

// Mock is a mock TTS provider for testing. It records every call and
// returns configurable results.
type Mock struct {
	mu sync.Mutex

	// SynthesizeFunc overrides the default Synthesize behavior.
	SynthesizeFunc func(ctx context.Context, text, language string) (*AudioResult, error)

	// HealthFunc overrides the default Health behavior.
	HealthFunc func(ctx context.Context) error

	// CloseFunc overrides the default Close behavior.
	CloseFunc func() error

	calls []MockCall
}

// MockCall records a single call made to the mock.
type MockCall struct {
	Method   string
	Text     string
	Language string
	Time     time.Time
}

// NewMock creates a mock provider that returns a small MP3-tagged
// result for any non-empty text.
func NewMock() *Mock {
	return &Mock{}
}

// WithAudio returns a mock that synthesizes the given bytes for any
// non-empty text.
func (m *Mock) WithAudio(audio []byte) *Mock {
	m.SynthesizeFunc = func(ctx context.Context, text, language string) (*AudioResult, error) {
		if text == "" {
			return nil, nil
		}
		return &AudioResult{
			Audio:     audio,
			MIME:      MIMEMP3,
			Locale:    ResolveLocale(language, DefaultLocale),
			CharCount: len(text),
			Chunks:    1,
		}, nil
	}
	return m
}

// WithError returns a mock whose Synthesize always fails with err.
func (m *Mock) WithError(err error) *Mock {
	m.SynthesizeFunc = func(ctx context.Context, text, language string) (*AudioResult, error) {
		return nil, err
	}
	return m
}

// Synthesize implements Provider.
func (m *Mock) Synthesize(ctx context.Context, text, language string) (*AudioResult, error) {
	m.record("Synthesize", text, language)

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, language)
	}

	if text == "" {
		return nil, nil
	}
	return &AudioResult{
		Audio:     []byte("mock-mp3"),
		MIME:      MIMEMP3,
		Locale:    ResolveLocale(language, DefaultLocale),
		CharCount: len(text),
		Chunks:    1,
	}, nil
}

// Health implements Provider.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health", "", "")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close implements Provider.
func (m *Mock) Close() error {
	m.record("Close", "", "")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method, text, language string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method:   method,
		Text:     text,
		Language: language,
		Time:     time.Now(),
	})
}

// Calls returns a copy of all recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of calls to the named method.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
