// Package stt provides a unified interface for speech-to-text engines.
//
// The package supports a hosted backend (Google Speech) and a local one
// (whisper.cpp). All recognizers implement the Recognizer interface,
// enabling seamless switching without changing caller code.
//
// Recognition failures are tagged, not thrown: an inaudible utterance is
// ErrUnintelligible, an engine outage is an *APIError. Callers map those
// to user-facing behavior.
//
// Example usage:
//
//	rec, _ := stt.NewGoogle(
//	    stt.WithAPIKey(os.Getenv("GOOGLE_SPEECH_API_KEY")),
//	)
//	defer rec.Close()
//
//	result, _ := rec.Recognize(ctx, wavBytes)
//	// result.Text contains the recognized utterance
package stt

import "context"

// Recognizer defines the speech-to-text interface.
type Recognizer interface {
	// Recognize converts a mono PCM WAV buffer to text.
	// Returns ErrUnintelligible when the engine heard no usable speech.
	Recognize(ctx context.Context, audio []byte) (*Result, error)

	// Health checks engine availability and credential validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the recognizer.
	Close() error
}

// Result is a successful recognition outcome.
type Result struct {
	// Text is the recognized utterance.
	Text string

	// Locale is the locale code that produced the recognition,
	// e.g. "ar-EG" for the primary attempt or "en-US" for the fallback.
	Locale string

	// Confidence is the engine's confidence score, 0 when not reported.
	Confidence float64
}
