// Package player plays synthesized MP3 audio on the local speaker.
// Used by the interactive terminal variant; the HTTP server returns
// audio to the browser instead.
package player

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Player decodes and plays MP3 buffers. The speaker device is
// initialized once on first use; playback is serialized so overlapping
// turns do not talk over each other.
type Player struct {
	mu          sync.Mutex
	initialized bool
}

// New creates a Player. The audio device is opened lazily on the
// first Play call.
func New() *Player {
	return &Player{}
}

// Play decodes the MP3 buffer and blocks until playback finishes.
func (p *Player) Play(audio []byte) error {
	if len(audio) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	streamer, format, err := mp3.Decode(nopCloser{bytes.NewReader(audio)})
	if err != nil {
		return fmt.Errorf("player: decode mp3: %w", err)
	}
	defer streamer.Close()

	if !p.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("player: init speaker: %w", err)
		}
		p.initialized = true
	}

	done := make(chan bool)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		done <- true
	})))
	<-done

	return nil
}

// Close releases the audio device.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	return nil
}

// nopCloser adapts a bytes.Reader to the io.ReadCloser mp3.Decode wants.
type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }
