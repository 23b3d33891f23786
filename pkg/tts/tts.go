// Package tts provides a unified interface for text-to-speech providers.
//
// The package ships a hosted Google Translate TTS client plus a Chain
// that falls back across providers and a Mock for tests. All providers
// implement the Provider interface, enabling seamless switching without
// changing caller code.
//
// Example usage:
//
//	provider, _ := tts.NewGoogle()
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, "Hello world", "en")
//	// result.Audio contains MP3 audio bytes
package tts

import "context"

// MIMEMP3 is the MIME type of synthesized audio on the transport path.
const MIMEMP3 = "audio/mp3"

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio in the voice/locale matching the
	// ISO-639-1 language code. Empty text is a no-op: providers return
	// (nil, nil) without contacting the engine.
	Synthesize(ctx context.Context, text, language string) (*AudioResult, error)

	// Health checks provider connectivity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult represents a complete audio synthesis result.
type AudioResult struct {
	// Audio contains the raw encoded audio data.
	Audio []byte

	// MIME is the audio MIME type, audio/mp3 for the hosted engine.
	MIME string

	// Locale is the engine locale that produced the audio.
	Locale string

	// CharCount is the number of characters synthesized.
	CharCount int

	// Chunks is how many engine calls the text was split into.
	Chunks int

	// LatencyMs is the total synthesis time in milliseconds.
	LatencyMs int64
}
