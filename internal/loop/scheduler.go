package loop

import (
	"time"

	"github.com/tomz197/skyfall/internal/loop/config"
)

// Scheduler drives the simulation tick and the enemy spawn cadence.
// Start (re)arms both timers, Stop cancels both.
type Scheduler interface {
	Start(spawnInterval time.Duration)
	Stop()
}

// timer is a cancellable ticker handle. Its channel is nil while stopped,
// so a select on it never fires after Stop.
type timer struct {
	t *time.Ticker
}

func (h *timer) start(d time.Duration) {
	h.stop()
	h.t = time.NewTicker(d)
}

func (h *timer) stop() {
	if h.t != nil {
		h.t.Stop()
		h.t = nil
	}
}

func (h *timer) c() <-chan time.Time {
	if h.t == nil {
		return nil
	}
	return h.t.C
}

// TickerScheduler is a Scheduler backed by two time.Tickers.
type TickerScheduler struct {
	tickTime time.Duration
	frame    timer
	spawn    timer
}

// NewTickerScheduler creates a stopped scheduler ticking every tickTime.
// A zero tickTime uses config.TickTime.
func NewTickerScheduler(tickTime time.Duration) *TickerScheduler {
	if tickTime <= 0 {
		tickTime = config.TickTime
	}
	return &TickerScheduler{tickTime: tickTime}
}

// Start arms the frame timer and a spawn timer with the given interval.
func (s *TickerScheduler) Start(spawnInterval time.Duration) {
	s.frame.start(s.tickTime)
	s.spawn.start(spawnInterval)
}

// Stop cancels both timers.
func (s *TickerScheduler) Stop() {
	s.frame.stop()
	s.spawn.stop()
}

// Running reports whether the timers are armed.
func (s *TickerScheduler) Running() bool {
	return s.frame.t != nil
}

// Frame returns the simulation tick channel, nil while stopped.
func (s *TickerScheduler) Frame() <-chan time.Time {
	return s.frame.c()
}

// Spawn returns the spawn channel, nil while stopped.
func (s *TickerScheduler) Spawn() <-chan time.Time {
	return s.spawn.c()
}
