// Package oracle wraps the external language-model service that answers
// plant questions. Every outcome — including transport failures — is a
// Result; raw errors never cross the package boundary, so callers can
// hand Result.Text to the user unconditionally.
package oracle

import (
	"context"
	"errors"
)

// User-facing status messages. Err results carry one of these instead of
// a domain answer. Arabic is the assistant's primary audience language.
const (
	// MsgNoInformation is returned for empty input.
	MsgNoInformation = "لا يمكنني الحصول على المعلومات الآن"

	// MsgSystemError is returned when the model responded without
	// extractable text.
	MsgSystemError = "حدث خطأ في النظام. يرجى المحاولة لاحقاً"

	// MsgExpertUnavailable is returned on transport or quota failures.
	MsgExpertUnavailable = "خدمة الخبراء غير متوفرة حالياً"
)

// ErrNoAPIKey is returned when the API key is missing.
var ErrNoAPIKey = errors.New("oracle: API key required")

// Result is the outcome of a single oracle consultation.
type Result struct {
	// Text is either the model's answer or a user-facing status message.
	Text string

	// Err marks Text as an apology/status message rather than an answer.
	Err bool
}

// Oracle answers a user question within the plant domain.
type Oracle interface {
	// Answer consults the model. The returned Result is always usable;
	// failures are folded into it per the package contract.
	Answer(ctx context.Context, question string) Result
}

// Unavailable is an Oracle with no backing service. The networked
// variant falls back to it when no credential is configured, so a
// misconfigured deployment degrades instead of crashing.
type Unavailable struct{}

// Answer reports the expert service as unreachable.
func (Unavailable) Answer(_ context.Context, question string) Result {
	if question == "" {
		return Result{Text: MsgNoInformation, Err: true}
	}
	return Result{Text: MsgExpertUnavailable, Err: true}
}

// Verify Unavailable implements Oracle at compile time.
var _ Oracle = Unavailable{}
