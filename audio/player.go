// Package audio plays short interface cues through the system speaker
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/gameloop/logging"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	DefaultVolume     = 0.5

	// speakerBuffer trades latency for underrun safety
	speakerBuffer = 100 * time.Millisecond
)

// Settings configures a Player
type Settings struct {
	Enabled    bool
	SampleRate int
	Volume     float64
}

// Player mixes cues into a single speaker stream
// A disabled or uninitialized player accepts calls and plays nothing
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	enabled     bool
	muted       bool
	initialized bool
	logger      logr.Logger
}

// NewPlayer creates a player; Initialize opens the speaker
func NewPlayer(s Settings, logger logr.Logger) *Player {
	rate := beep.SampleRate(s.SampleRate)
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &Player{
		mixer:   &beep.Mixer{},
		rate:    rate,
		volume:  s.Volume,
		enabled: s.Enabled,
		logger:  logger.WithName("audio"),
	}
}

// Initialize opens the speaker and starts the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.enabled {
		return nil
	}

	if err := speaker.Init(p.rate, p.rate.N(speakerBuffer)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(p.mixer)
	p.initialized = true
	p.logger.V(logging.VERBOSE).Info("Audio initialized", "sampleRate", int(p.rate))
	return nil
}

// Play mixes cue into the output
func (p *Player) Play(cue Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}

	s, err := NewCueStreamer(cue, p.rate, p.volume)
	if err != nil {
		p.logger.Error(err, "Cue dropped", "cue", cue.String())
		return
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// ToggleMute flips the mute state and returns the new value
// Muting drops sounds already in the mixer
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.muted = !p.muted
	if p.muted {
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
	}
	return p.muted
}

// Muted reports the mute state
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Active returns the number of cues still playing
func (p *Player) Active() int {
	speaker.Lock()
	defer speaker.Unlock()
	return p.mixer.Len()
}

// Close stops all sounds and releases the speaker
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}

	speaker.Clear()
	speaker.Close()
	p.mixer.Clear()
	p.initialized = false
	return nil
}
