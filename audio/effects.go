package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Cue identifies a short interface sound
type Cue int

const (
	CueTick Cue = iota
	CueConfirm
	CueError
	CueQuit
)

func (c Cue) String() string {
	switch c {
	case CueTick:
		return "tick"
	case CueConfirm:
		return "confirm"
	case CueError:
		return "error"
	case CueQuit:
		return "quit"
	default:
		return fmt.Sprintf("Cue(%d)", int(c))
	}
}

// Cue durations
const (
	TickDuration    = 30 * time.Millisecond
	ConfirmDuration = 120 * time.Millisecond
	ErrorDuration   = 150 * time.Millisecond
	QuitNote        = 90 * time.Millisecond

	cueAttack  = 5 * time.Millisecond
	cueRelease = 20 * time.Millisecond
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite oscillator of the given wave shape
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope wraps s with an attack/sustain/release volume curve
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; math.Log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// NewCueStreamer builds the streamer for cue at the given sample rate and volume
func NewCueStreamer(cue Cue, rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	var s beep.Streamer

	switch cue {
	case CueTick:
		osc := NewOscillator(1200, TickDuration, WaveSquare, rate)
		s = NewEnvelope(osc, TickDuration, cueAttack, cueRelease, rate)

	case CueConfirm:
		sine, err := generators.SineTone(rate, 880)
		if err != nil {
			return nil, fmt.Errorf("confirm tone: %w", err)
		}
		s = NewEnvelope(beep.Take(rate.N(ConfirmDuration), sine), ConfirmDuration, cueAttack, cueRelease, rate)

	case CueError:
		osc := NewOscillator(100, ErrorDuration, WaveSaw, rate)
		s = NewEnvelope(osc, ErrorDuration, cueAttack, cueRelease, rate)

	case CueQuit:
		// Descending two-note figure (E5, A4)
		n1 := NewEnvelope(NewOscillator(659.25, QuitNote, WaveSine, rate), QuitNote, cueAttack, cueRelease, rate)
		n2 := NewEnvelope(NewOscillator(440.0, QuitNote, WaveSine, rate), QuitNote, cueAttack, cueRelease, rate)
		s = beep.Seq(n1, n2)

	default:
		return nil, fmt.Errorf("unknown cue %v", cue)
	}

	return newVolume(s, volume), nil
}
