// Package sound turns game events into short synthesized tones.
//
// A Backend is optional. Without one, or when a backend fails, playing a
// sound is a silent no-op so the game never stops over audio.
package sound

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomz197/termpong/internal/loop/config"
)

// Kind is the game event a sound stands for.
type Kind int

const (
	KindPaddle Kind = iota
	KindWall
	KindMiss
)

func (k Kind) String() string {
	switch k {
	case KindPaddle:
		return "paddle"
	case KindWall:
		return "wall"
	case KindMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// Waveform is the oscillator shape of a tone.
type Waveform int

const (
	WaveSquare Waveform = iota
	WaveTriangle
	WaveSawtooth
)

func (w Waveform) String() string {
	switch w {
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	case WaveSawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// Tone describes one short beep.
type Tone struct {
	Waveform  Waveform
	Frequency float64 // Hz
	Gain      float64 // 0..1
	Duration  time.Duration
}

// ToneFor returns the tone for an event kind. Paddle hits get a random
// pitch in [440, 520) Hz so rallies don't sound monotonous.
func ToneFor(kind Kind, rng *rand.Rand) Tone {
	t := Tone{Duration: config.ToneDuration}
	switch kind {
	case KindPaddle:
		t.Waveform = WaveSquare
		t.Frequency = 440 + rng.Float64()*80
		t.Gain = 0.1
	case KindWall:
		t.Waveform = WaveTriangle
		t.Frequency = 330
		t.Gain = 0.07
	case KindMiss:
		t.Waveform = WaveSawtooth
		t.Frequency = 220
		t.Gain = 0.2
	}
	return t
}

// Backend plays tones on some output device.
type Backend interface {
	Play(t Tone) error
}

// Player is anything that can play an event sound.
type Player interface {
	Play(kind Kind)
}

// Emitter maps event kinds to tones and hands them to a backend.
type Emitter struct {
	backend Backend
	rng     *rand.Rand
	logger  zerolog.Logger
}

// Compile-time check that Emitter implements Player.
var _ Player = (*Emitter)(nil)

// NewEmitter creates an emitter. backend may be nil.
func NewEmitter(backend Backend, rng *rand.Rand, logger zerolog.Logger) *Emitter {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Emitter{
		backend: backend,
		rng:     rng,
		logger:  logger,
	}
}

// Play synthesizes and plays the tone for kind. Errors are logged and dropped.
func (e *Emitter) Play(kind Kind) {
	if e == nil || e.backend == nil {
		return
	}
	tone := ToneFor(kind, e.rng)
	if err := e.backend.Play(tone); err != nil {
		e.logger.Debug().Err(err).Stringer("kind", kind).Msg("sound backend failed")
	}
}
