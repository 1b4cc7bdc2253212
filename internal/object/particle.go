package object

import (
	"math"
	"math/rand"
	"sync"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived explosion fragment. Purely visual.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity (units per second)
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
}

// newParticle takes a particle from the pool and initialises it.
func newParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
	}
	return p
}

// update advances the particle by dt seconds and reports whether it expired.
func (p *Particle) update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Effects holds the explosion particles of one session.
type Effects struct {
	rng       *rand.Rand
	particles []*Particle
}

// NewEffects creates an empty effect set drawing randomness from rng.
func NewEffects(rng *rand.Rand) *Effects {
	return &Effects{rng: rng}
}

// SpawnExplosion creates particles in a circular burst centered at (x, y).
func (fx *Effects) SpawnExplosion(x, y float64, count int, speed, lifetime float64) {
	for i := 0; i < count; i++ {
		angle := fx.rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + fx.rng.Float64())
		// Random lifetime variation (50% to 100%)
		life := lifetime * (0.5 + fx.rng.Float64()*0.5)

		fx.particles = append(fx.particles, newParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// Update advances every particle and returns expired ones to the pool.
func (fx *Effects) Update(dt float64) {
	fx.particles, _ = removeIf(fx.particles, func(_ int, p *Particle) bool {
		if p.update(dt) {
			particlePool.Put(p)
			return true
		}
		return false
	})
}

// Len returns the number of live particles.
func (fx *Effects) Len() int {
	return len(fx.particles)
}

// Clear releases every particle.
func (fx *Effects) Clear() {
	for _, p := range fx.particles {
		particlePool.Put(p)
	}
	clear(fx.particles)
	fx.particles = fx.particles[:0]
}

// Draw renders live particles. Particles below 25% of their lifetime are skipped.
func (fx *Effects) Draw(ctx DrawContext) error {
	for _, p := range fx.particles {
		if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
			continue
		}
		ctx.Canvas.FillRect(p.X, p.Y, 4, 4)
	}
	return nil
}
