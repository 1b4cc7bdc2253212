// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield resolution in logical units.
// Actual rendering scales to fit terminal size.
const (
	FieldWidth  = 800
	FieldHeight = 600
)

// Player
const (
	InitialHealth = 100
	StartLevel    = 1
)

// Health bar colour thresholds (percent).
const (
	HealthGood    = 50
	HealthWarning = 25
)

// Explosion effect
const (
	ExplosionParticles = 12
	ExplosionSpeed     = 120.0 // Units per second
	ExplosionLifetime  = 0.5   // Seconds
)

// Max render resolution - terminal dimensions above these are clamped and
// the render area is centered with a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Frame rates. The simulation tick only runs while playing; the UI frame
// keeps menus and overlays responsive in every phase.
const (
	TickRate    = 60
	TickTime    = time.Second / TickRate
	UIFrameRate = 30
	UIFrameTime = time.Second / UIFrameRate
)
