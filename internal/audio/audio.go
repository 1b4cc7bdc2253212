// Package audio plays short synthesized cues for session events.
package audio

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/skyfall/internal/loop"
)

const sampleRate = beep.SampleRate(44100)

// Cue durations.
const (
	shotDuration    = 40 * time.Millisecond
	explodeDuration = 120 * time.Millisecond
	hitDuration     = 180 * time.Millisecond
	noteDuration    = 90 * time.Millisecond
)

// Player turns session events into sounds. It implements loop.Observer.
// A Player that failed to initialise stays silent.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	logger      *log.Logger
	rng         *rand.Rand
}

// Compile-time check that Player implements loop.Observer.
var _ loop.Observer = (*Player)(nil)

// NewPlayer creates a silent player. volume is in [0, 1].
func NewPlayer(volume float64, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		mixer:  &beep.Mixer{},
		volume: max(min(volume, 1), 0),
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Initialize opens the audio device and starts the mixer.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences every playing cue.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Notify plays the cue for e, if any.
func (p *Player) Notify(e loop.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s := p.cue(e)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// cue builds the streamer for an event, or nil for silent events.
func (p *Player) cue(e loop.Event) beep.Streamer {
	var s beep.Streamer
	switch e.Type {
	case loop.EventShot:
		s = tone(880, shotDuration)
	case loop.EventEnemyDestroyed:
		s = p.noise(explodeDuration)
	case loop.EventPlayerDamaged:
		s = square(110, hitDuration)
	case loop.EventPhaseChanged:
		switch e.Phase {
		case loop.PhaseLevelComplete:
			s = melody(523.25, 659.25, 783.99, 1046.5)
		case loop.PhaseGameOver:
			s = melody(392, 329.63, 261.63, 196)
		}
	}
	if s == nil {
		return nil
	}
	return p.withVolume(s)
}

func (p *Player) withVolume(s beep.Streamer) beep.Streamer {
	if p.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(p.volume)}
}

// tone is a sine wave of the given length.
func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil
	}
	return beep.Take(sampleRate.N(d), sine)
}

// melody plays each note for noteDuration, one after another.
func melody(freqs ...float64) beep.Streamer {
	notes := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		if n := tone(f, noteDuration); n != nil {
			notes = append(notes, n)
		}
	}
	return beep.Seq(notes...)
}

// square is a square wave of the given length.
func square(freq float64, d time.Duration) beep.Streamer {
	phase := 0.0
	step := freq / float64(sampleRate)
	return beep.Take(sampleRate.N(d), beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.5
			if phase >= 0.5 {
				v = -0.5
			}
			samples[i][0], samples[i][1] = v, v
			phase += step
			phase -= math.Floor(phase)
		}
		return len(samples), true
	}))
}

// noise is a white-noise burst that fades out linearly.
func (p *Player) noise(d time.Duration) beep.Streamer {
	total := sampleRate.N(d)
	pos := 0
	return beep.Take(total, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			fade := 1 - float64(pos)/float64(total)
			v := (p.rng.Float64()*2 - 1) * 0.6 * max(fade, 0)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	}))
}
