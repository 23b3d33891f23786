package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

const providerWhisper = "whisper"

// Whisper implements Recognizer with a local whisper.cpp model.
// Useful when no hosted speech credential is configured.
type Whisper struct {
	model  whisper.Model
	logger *slog.Logger

	// whisper.cpp inference is not safe to run concurrently on the
	// same backend state.
	mu sync.Mutex
}

// NewWhisper loads a whisper.cpp model from the given path.
func NewWhisper(modelPath string, opts ...Option) (*Whisper, error) {
	if modelPath == "" {
		return nil, WrapError(providerWhisper, errors.New("empty model path"))
	}

	cfg := DefaultConfig()
	cfg.Apply(opts...)

	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, WrapError(providerWhisper, fmt.Errorf("load model: %w", err))
	}

	return &Whisper{
		model:  model,
		logger: cfg.Logger.With("component", "stt.whisper"),
	}, nil
}

// Recognize converts a mono PCM WAV buffer to text.
func (w *Whisper) Recognize(ctx context.Context, audio []byte) (*Result, error) {
	if len(audio) == 0 {
		return nil, WrapError(providerWhisper, ErrNoAudio)
	}

	samples, err := decodeWAV16kMono(audio)
	if err != nil {
		return nil, WrapError(providerWhisper, fmt.Errorf("decode audio: %w", err))
	}
	if len(samples) == 0 {
		return nil, WrapError(providerWhisper, ErrUnintelligible)
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return nil, WrapError(providerWhisper, fmt.Errorf("new context: %w", err))
	}

	if err := wctx.SetLanguage("auto"); err != nil {
		return nil, WrapError(providerWhisper, fmt.Errorf("set language: %w", err))
	}
	wctx.SetTranslate(false)

	w.mu.Lock()
	err = wctx.Process(samples, nil, nil, nil)
	w.mu.Unlock()
	if err != nil {
		return nil, WrapError(providerWhisper, fmt.Errorf("process: %w", err))
	}

	var sb strings.Builder
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, WrapError(providerWhisper, fmt.Errorf("next segment: %w", err))
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.TrimSpace(seg.Text))
	}

	text := strings.TrimSpace(sb.String())
	if text == "" || text == "[BLANK_AUDIO]" {
		return nil, WrapError(providerWhisper, ErrUnintelligible)
	}

	lang := wctx.DetectedLanguage()
	if lang == "" {
		lang = wctx.Language()
	}

	w.logger.Debug("recognized speech",
		"language", lang,
		"chars", len(text),
		"samples", len(samples),
	)

	return &Result{Text: text, Locale: lang}, nil
}

// Health reports whether the model is loaded.
func (w *Whisper) Health(ctx context.Context) error {
	if w.model == nil {
		return WrapError(providerWhisper, errors.New("model not loaded"))
	}
	return nil
}

// Close releases the loaded model.
func (w *Whisper) Close() error {
	if w.model == nil {
		return nil
	}
	return w.model.Close()
}

// Verify Whisper implements Recognizer at compile time.
var _ Recognizer = (*Whisper)(nil)
