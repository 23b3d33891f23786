// nabat-server: HTTP service for the plant question assistant.
// Accepts typed or spoken questions on POST /chat and returns the
// answer as text plus synthesized Arabic/English speech.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nabatlab/go-nabat/internal/config"
	"github.com/nabatlab/go-nabat/internal/log"
	"github.com/nabatlab/go-nabat/pkg/langid"
	"github.com/nabatlab/go-nabat/pkg/oracle"
	"github.com/nabatlab/go-nabat/pkg/pipeline"
	"github.com/nabatlab/go-nabat/pkg/stt"
	"github.com/nabatlab/go-nabat/pkg/tts"
	"github.com/nabatlab/go-nabat/pkg/web"
)

var (
	port      = pflag.String("port", "", "HTTP port (overrides PORT)")
	staticDir = pflag.String("static", "./web", "directory with the presentation page")
	debug     = pflag.Bool("debug", false, "enable request logging")
)

func main() {
	pflag.Parse()

	// Local development convenience; absence is not an error.
	godotenv.Load()

	log.Init(config.LogLevel())
	logger := log.L()

	listenPort := *port
	if listenPort == "" {
		listenPort = config.Port()
	}

	// Missing credential is deliberately non-fatal here: the server
	// stays up and answers every question with a fixed status message.
	var answerer oracle.Oracle
	if key := config.GeminiKey(); key != "" {
		gemini, err := oracle.NewGemini(
			oracle.WithAPIKey(key),
			oracle.WithModel(config.GeminiModel()),
			oracle.WithLogger(logger),
		)
		if err != nil {
			logger.Error("oracle init failed", "error", err)
			os.Exit(1)
		}
		answerer = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, answers will be degraded")
		answerer = &oracle.Unavailable{}
	}

	recognizer := buildRecognizer(logger)
	if recognizer != nil {
		defer recognizer.Close()
	}

	synthesizer, err := tts.NewGoogle(tts.WithLogger(logger))
	if err != nil {
		logger.Error("tts init failed", "error", err)
		os.Exit(1)
	}
	defer synthesizer.Close()

	p := pipeline.New(recognizer, langid.New(), answerer, synthesizer,
		pipeline.WithLogger(logger))

	server := web.NewServer(p, web.Config{
		Port:      listenPort,
		StaticDir: *staticDir,
		Debug:     *debug,
		Logger:    logger,
	})

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

// buildRecognizer picks the speech backend: a local whisper model when
// configured, the hosted Speech API when a key is present, otherwise
// none (audio requests degrade to typed text).
func buildRecognizer(logger *slog.Logger) stt.Recognizer {
	if modelPath := config.WhisperModel(); modelPath != "" {
		recognizer, err := stt.NewWhisper(modelPath)
		if err != nil {
			logger.Error("whisper init failed", "error", err, "model", modelPath)
			os.Exit(1)
		}
		logger.Info("using local whisper recognition", "model", modelPath)
		return recognizer
	}

	if key := config.SpeechKey(); key != "" {
		recognizer, err := stt.NewGoogle(stt.WithAPIKey(key))
		if err != nil {
			logger.Error("speech init failed", "error", err)
			os.Exit(1)
		}
		return recognizer
	}

	logger.Warn("no speech backend configured, audio input disabled")
	return nil
}
