package sim

import "time"

// BaseFireDelay is the minimum delay between shots at fire-rate level 1.
const BaseFireDelay = 300 * time.Millisecond

// FireDelay returns the minimum delay between shots for a fire-rate level.
func FireDelay(fireRate int) time.Duration {
	if fireRate < 1 {
		fireRate = 1
	}
	return BaseFireDelay / time.Duration(fireRate)
}

// FireGate rate-limits shots. Rejected shots are dropped, not queued.
type FireGate struct {
	last  time.Time
	fired bool
}

// Allow reports whether a shot at now is accepted, and records it if so.
// A shot is accepted only when strictly more than FireDelay(fireRate) has
// passed since the last accepted shot.
func (g *FireGate) Allow(now time.Time, fireRate int) bool {
	if g.fired && now.Sub(g.last) <= FireDelay(fireRate) {
		return false
	}
	g.last = now
	g.fired = true
	return true
}

// Reset forgets the last shot.
func (g *FireGate) Reset() {
	*g = FireGate{}
}
