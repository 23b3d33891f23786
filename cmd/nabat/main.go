// nabat: interactive terminal loop for the plant question assistant.
// Questions are typed on stdin; every response, including apologies,
// is spoken on the local speaker.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nabatlab/go-nabat/internal/config"
	"github.com/nabatlab/go-nabat/internal/log"
	"github.com/nabatlab/go-nabat/internal/player"
	"github.com/nabatlab/go-nabat/pkg/audiocodec"
	"github.com/nabatlab/go-nabat/pkg/langid"
	"github.com/nabatlab/go-nabat/pkg/oracle"
	"github.com/nabatlab/go-nabat/pkg/pipeline"
	"github.com/nabatlab/go-nabat/pkg/tts"
)

const goodbye = "مع السلامة"

var mute = pflag.Bool("mute", false, "print answers without speaking them")

func main() {
	pflag.Parse()

	godotenv.Load()
	log.Init(config.LogLevel())
	logger := log.L()

	// The terminal variant treats the missing credential as fatal,
	// unlike the server which degrades.
	key := config.GeminiKeyRequired()

	gemini, err := oracle.NewGemini(
		oracle.WithAPIKey(key),
		oracle.WithModel(config.GeminiModel()),
		oracle.WithLogger(logger),
	)
	if err != nil {
		logger.Error("oracle init failed", "error", err)
		os.Exit(1)
	}

	synthesizer, err := tts.NewGoogle(tts.WithLogger(logger))
	if err != nil {
		logger.Error("tts init failed", "error", err)
		os.Exit(1)
	}
	defer synthesizer.Close()

	p := pipeline.New(nil, langid.New(), gemini, synthesizer,
		pipeline.WithSpeakErrors(true),
		pipeline.WithLogger(logger))

	spk := player.New()
	defer spk.Close()

	fmt.Println("Plant assistant ready. Ask a question, or type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") {
			sayGoodbye(ctx, synthesizer, spk, *mute)
			return
		}

		resp := p.Process(ctx, pipeline.Request{Text: question})
		fmt.Println(resp.ResponseText)

		if !*mute {
			play(spk, resp.Audio, logger.Warn)
		}
	}
}

// play decodes the data-URI audio from a pipeline response and blocks
// until playback finishes.
func play(spk *player.Player, audio *string, warn func(string, ...any)) {
	if audio == nil {
		return
	}
	data, err := audiocodec.Decode(*audio)
	if err != nil {
		warn("audio decode failed", "error", err)
		return
	}
	if err := spk.Play(data); err != nil {
		warn("playback failed", "error", err)
	}
}

// sayGoodbye speaks the farewell before exiting.
func sayGoodbye(ctx context.Context, synthesizer tts.Provider, spk *player.Player, mute bool) {
	fmt.Println(goodbye)
	if mute {
		return
	}
	result, err := synthesizer.Synthesize(ctx, goodbye, "ar")
	if err != nil || result == nil {
		return
	}
	spk.Play(result.Audio)
}
