// Package config provides configuration helpers for go-nabat commands.
package config

import (
	"fmt"
	"os"
)

// Default service configuration.
const (
	DefaultPort        = "5001"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// GeminiKey returns the Gemini API key from GEMINI_API_KEY.
// Returns "" when not set; callers decide how to degrade.
func GeminiKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// GeminiKeyRequired returns the Gemini API key from GEMINI_API_KEY.
// Exits the process if not set.
func GeminiKeyRequired() string {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable is required")
		fmt.Fprintln(os.Stderr, "Usage: GEMINI_API_KEY=... go run ./cmd/...")
		os.Exit(1)
	}
	return key
}

// SpeechKey returns the Google Speech API key from GOOGLE_SPEECH_API_KEY.
// Falls back to the Gemini key, which belongs to the same credential family.
func SpeechKey() string {
	if key := os.Getenv("GOOGLE_SPEECH_API_KEY"); key != "" {
		return key
	}
	return GeminiKey()
}

// GeminiModel returns the Gemini model name from GEMINI_MODEL or the default.
func GeminiModel() string {
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		return model
	}
	return DefaultGeminiModel
}

// Port returns the HTTP port from PORT or the default.
func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return DefaultPort
}

// LogLevel returns the log level from LOG_LEVEL or "info".
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// WhisperModel returns the path to a local whisper model from WHISPER_MODEL.
// Empty when local recognition is not configured.
func WhisperModel() string {
	return os.Getenv("WHISPER_MODEL")
}
