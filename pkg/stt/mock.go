package stt

import (
	"context"
	"sync"
	"time"
)

// Mock implements Recognizer for testing.
// All methods can be customized via function fields.
type Mock struct {
	// RecognizeFunc is called when Recognize is invoked.
	// If nil, returns a fixed transcript.
	RecognizeFunc func(ctx context.Context, audio []byte) (*Result, error)

	// HealthFunc is called when Health is invoked.
	// If nil, returns nil (healthy).
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called when Close is invoked.
	// If nil, returns nil.
	CloseFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method     string
	AudioBytes int
	Time       time.Time
}

// NewMock creates a new mock recognizer with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		RecognizeFunc: func(ctx context.Context, audio []byte) (*Result, error) {
			return &Result{Text: "mock transcript", Locale: "ar-EG"}, nil
		},
	}
}

// WithResult returns a mock that always recognizes the given text.
func WithResult(text, locale string) *Mock {
	return &Mock{
		RecognizeFunc: func(ctx context.Context, audio []byte) (*Result, error) {
			return &Result{Text: text, Locale: locale}, nil
		},
	}
}

// WithRecognizeError returns a mock whose Recognize always fails.
func WithRecognizeError(err error) *Mock {
	return &Mock{
		RecognizeFunc: func(ctx context.Context, audio []byte) (*Result, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Recognize calls RecognizeFunc and records the call.
func (m *Mock) Recognize(ctx context.Context, audio []byte) (*Result, error) {
	m.recordCall("Recognize", len(audio))
	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, audio)
	}
	return nil, WrapError("mock", ErrNoAudio)
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.recordCall("Health", 0)
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.recordCall("Close", 0)
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// recordCall adds a call to the tracking list.
func (m *Mock) recordCall(method string, audioBytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method:     method,
		AudioBytes: audioBytes,
		Time:       time.Now(),
	})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Recognizer at compile time.
var _ Recognizer = (*Mock)(nil)
