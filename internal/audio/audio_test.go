package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/skyfall/internal/loop"
)

// drain streams s to the end and returns the number of samples produced.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = max(peak, smp[0], -smp[0])
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never ended")
	return 0, 0
}

func TestCueLengths(t *testing.T) {
	p := NewPlayer(1, nil)

	tests := []struct {
		name  string
		event loop.Event
		want  time.Duration
	}{
		{"shot", loop.Event{Type: loop.EventShot}, shotDuration},
		{"explosion", loop.Event{Type: loop.EventEnemyDestroyed}, explodeDuration},
		{"hit", loop.Event{Type: loop.EventPlayerDamaged}, hitDuration},
		{"level complete", loop.Event{Type: loop.EventPhaseChanged, Phase: loop.PhaseLevelComplete}, 4 * noteDuration},
		{"game over", loop.Event{Type: loop.EventPhaseChanged, Phase: loop.PhaseGameOver}, 4 * noteDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := p.cue(tt.event)
			if s == nil {
				t.Fatal("no cue")
			}
			n, peak := drain(t, s)
			if want := sampleRate.N(tt.want); n != want {
				t.Fatalf("cue length = %d samples, want %d", n, want)
			}
			if peak == 0 || peak > 1 {
				t.Fatalf("peak amplitude = %v, want (0, 1]", peak)
			}
		})
	}
}

func TestSilentEvents(t *testing.T) {
	p := NewPlayer(1, nil)
	for _, e := range []loop.Event{
		{Type: loop.EventPhaseChanged, Phase: loop.PhasePlaying},
		{Type: loop.EventPhaseChanged, Phase: loop.PhaseMenu},
	} {
		if p.cue(e) != nil {
			t.Fatalf("unexpected cue for %+v", e)
		}
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	p := NewPlayer(0, nil)
	_, peak := drain(t, p.cue(loop.Event{Type: loop.EventShot}))
	if peak != 0 {
		t.Fatalf("peak = %v at zero volume", peak)
	}
}

func TestNotifyWithoutDeviceIsNoOp(t *testing.T) {
	p := NewPlayer(1, nil)
	p.Notify(loop.Event{Type: loop.EventShot})
	p.Close()
}
