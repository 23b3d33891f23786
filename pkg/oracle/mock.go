package oracle

import (
	"context"
	"sync"
	"time"
)

// Mock implements Oracle for testing.
type Mock struct {
	// AnswerFunc is called when Answer is invoked.
	// If nil, returns a fixed non-error answer.
	AnswerFunc func(ctx context.Context, question string) Result

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Question string
	Time     time.Time
}

// NewMock creates a new mock oracle with a fixed answer.
func NewMock() *Mock {
	return &Mock{
		AnswerFunc: func(ctx context.Context, question string) Result {
			return Result{Text: "mock answer"}
		},
	}
}

// WithAnswer returns a mock that always answers with the given text.
func WithAnswer(text string) *Mock {
	return &Mock{
		AnswerFunc: func(ctx context.Context, question string) Result {
			return Result{Text: text}
		},
	}
}

// WithErrorResult returns a mock that always returns the given status
// message as an error result.
func WithErrorResult(msg string) *Mock {
	return &Mock{
		AnswerFunc: func(ctx context.Context, question string) Result {
			return Result{Text: msg, Err: true}
		},
	}
}

// Answer calls AnswerFunc and records the call.
func (m *Mock) Answer(ctx context.Context, question string) Result {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Question: question, Time: time.Now()})
	m.mu.Unlock()

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question)
	}
	return Result{Text: MsgSystemError, Err: true}
}

// Calls returns all recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of recorded invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastQuestion returns the question of the most recent call, or "".
func (m *Mock) LastQuestion() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1].Question
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Oracle at compile time.
var _ Oracle = (*Mock)(nil)
