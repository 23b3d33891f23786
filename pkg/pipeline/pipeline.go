// Package pipeline wires speech recognition, language detection, the
// answer oracle and speech synthesis into a single conversation turn.
//
// Process never returns an error: every sub-call failure degrades to a
// textual message per the component contracts, so callers always get a
// well-formed Response.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nabatlab/go-nabat/pkg/audiocodec"
	"github.com/nabatlab/go-nabat/pkg/langid"
	"github.com/nabatlab/go-nabat/pkg/oracle"
	"github.com/nabatlab/go-nabat/pkg/stt"
	"github.com/nabatlab/go-nabat/pkg/tts"
)

// Request is one inbound conversation turn. Both fields are optional;
// audio may carry a data-URI prefix.
type Request struct {
	Text  string `json:"message"`
	Audio string `json:"audio"`
}

// Response is the assembled result of one conversation turn.
type Response struct {
	// UserMessage is the resolved user text: recognized speech when
	// audio was supplied, otherwise the typed message.
	UserMessage string `json:"user_message"`

	// ResponseText is the answer or apology text.
	ResponseText string `json:"response"`

	// Err marks ResponseText as an apology/status message rather than
	// a domain answer. The HTTP status is always 200; callers inspect
	// this flag.
	Err bool `json:"error"`

	// Audio is the spoken answer as a data:audio/mp3;base64 URI, or
	// nil when synthesis was skipped or failed.
	Audio *string `json:"audio"`

	// UserAudio echoes the original audio payload unchanged.
	UserAudio *string `json:"user_audio"`
}

// Config holds pipeline configuration.
type Config struct {
	// SpeakErrors synthesizes apology/status messages too. Off for the
	// networked server (errors are text-only), on for the interactive
	// terminal loop which speaks everything.
	SpeakErrors bool

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring the pipeline.
type Option func(*Config)

// WithSpeakErrors controls whether error messages are synthesized.
func WithSpeakErrors(speak bool) Option {
	return func(c *Config) {
		c.SpeakErrors = speak
	}
}

// WithLogger sets the structured logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Pipeline processes conversation turns. Collaborators are read-only
// after construction, so one Pipeline serves concurrent requests
// without locks.
type Pipeline struct {
	recognizer  stt.Recognizer
	detector    *langid.Detector
	oracle      oracle.Oracle
	synthesizer tts.Provider
	speakErrors bool
	logger      *slog.Logger
}

// New creates a conversation pipeline. recognizer may be nil when no
// speech input is expected; supplied audio then degrades to any typed
// text on the request.
func New(recognizer stt.Recognizer, detector *langid.Detector, o oracle.Oracle, synthesizer tts.Provider, opts ...Option) *Pipeline {
	cfg := &Config{Logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Pipeline{
		recognizer:  recognizer,
		detector:    detector,
		oracle:      o,
		synthesizer: synthesizer,
		speakErrors: cfg.SpeakErrors,
		logger:      cfg.Logger.With("component", "pipeline"),
	}
}

// Process runs one conversation turn end to end.
func (p *Pipeline) Process(ctx context.Context, req Request) Response {
	requestID := uuid.NewString()
	logger := p.logger.With("request_id", requestID)

	userText := req.Text
	if req.Audio != "" {
		// Recognition output, including the fallback messages, overrides
		// any simultaneously supplied text. A decode failure degrades to
		// the typed text instead.
		if recognized, ok := p.transcribe(ctx, logger, req.Audio); ok {
			userText = recognized
		}
	}

	questionLang := p.detector.DetectOrDefault(userText, "ar")
	logger.Info("processing turn",
		"has_audio", req.Audio != "",
		"question_lang", questionLang,
		"chars", len(userText),
	)

	answer := p.oracle.Answer(ctx, userText)

	var audioURI *string
	if !answer.Err || p.speakErrors {
		if uri := p.speak(ctx, logger, answer.Text); uri != "" {
			audioURI = &uri
		}
	}

	var userAudio *string
	if req.Audio != "" {
		echo := req.Audio
		userAudio = &echo
	}

	logger.Info("turn complete",
		"error", answer.Err,
		"spoken", audioURI != nil,
	)

	return Response{
		UserMessage:  userText,
		ResponseText: answer.Text,
		Err:          answer.Err,
		Audio:        audioURI,
		UserAudio:    userAudio,
	}
}

// transcribe decodes and recognizes the audio payload. The returned
// string is the resolved user text, which on soft failures is one of
// the fixed fallback messages. ok is false only when the payload could
// not be decoded or no recognizer is configured.
func (p *Pipeline) transcribe(ctx context.Context, logger *slog.Logger, payload string) (string, bool) {
	if p.recognizer == nil {
		logger.Warn("audio supplied but no recognizer configured")
		return "", false
	}

	audio, err := audiocodec.Decode(payload)
	if err != nil {
		logger.Warn("audio decode failed, falling back to text", "error", err)
		return "", false
	}

	result, err := p.recognizer.Recognize(ctx, audio)
	if err != nil {
		if errors.Is(err, stt.ErrUnintelligible) {
			logger.Info("speech unintelligible")
			return MsgUnintelligible, true
		}
		logger.Error("speech recognition failed", "error", err)
		return MsgAudioFailure, true
	}

	if result.Text == "" {
		return "", false
	}

	logger.Debug("speech recognized", "locale", result.Locale, "chars", len(result.Text))
	return result.Text, true
}

// speak synthesizes the answer text and returns it as a data URI, or
// an empty string when synthesis was skipped or failed.
func (p *Pipeline) speak(ctx context.Context, logger *slog.Logger, text string) string {
	if p.synthesizer == nil {
		return ""
	}

	lang := p.detector.DetectOrDefault(text, "en")

	result, err := p.synthesizer.Synthesize(ctx, text, lang)
	if err != nil {
		logger.Error("speech synthesis failed", "error", err, "lang", lang)
		return ""
	}
	if result == nil || len(result.Audio) == 0 {
		return ""
	}

	return audiocodec.Encode(result.Audio, result.MIME)
}
