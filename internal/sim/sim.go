// Package sim advances the entity store by one tick: movement, escapes,
// bullet hits and scoring.
package sim

import (
	"github.com/tomz197/skyfall/internal/level"
	"github.com/tomz197/skyfall/internal/object"
	"github.com/tomz197/skyfall/internal/physics"
)

// Signal is a set of events raised during a tick.
type Signal uint8

const (
	EnemyDestroyed Signal = 1 << iota
	PlayerDamaged
	LevelQuotaReached
	PlayerDied
)

// Has reports whether every bit of o is set in s.
func (s Signal) Has(o Signal) bool {
	return s&o == o
}

// PointsPerKill is multiplied by the level number for each destroyed enemy.
const PointsPerKill = 10

// Params are the session values a tick reads.
type Params struct {
	Level     level.Config
	Damage    int // Damage per bullet hit
	Health    int // Player health before the tick
	Destroyed int // Enemies destroyed so far this level
}

// Kill records where an enemy was destroyed.
type Kill struct {
	X, Y float64 // Center of the destroyed enemy
}

// Result is the outcome of one tick.
type Result struct {
	HealthDelta int // Never takes health below zero
	ScoreDelta  int
	Destroyed   int // Enemies destroyed this tick
	Escaped     int // Enemies that passed the bottom this tick
	Hits        int // Bullets that struck an enemy
	Signals     Signal
	Kills       []Kill
}

// Stepper runs ticks against a store. It keeps its broad-phase grid and
// scratch sets between ticks. Not safe for concurrent use.
type Stepper struct {
	grid  *physics.SpatialGrid
	spent map[int]struct{}
	kills []Kill
}

// cellSize covers the largest entity dimension so that overlapping boxes
// always fall in adjacent cells.
const cellSize = max(object.EnemySize, object.BulletWidth, object.BulletHeight)

// NewStepper creates a stepper sized for the given field.
func NewStepper(screen object.Screen) *Stepper {
	return &Stepper{
		grid:  physics.NewSpatialGrid(float64(screen.Width), float64(screen.Height), cellSize),
		spent: make(map[int]struct{}),
	}
}

// Step runs one tick with a throwaway Stepper.
func Step(store *object.Store, p Params) Result {
	return NewStepper(store.Screen).Step(store, p)
}

// Step advances the store by one tick.
//
// Enemies past the bottom are removed and damage the player. Each remaining
// enemy, in store order, takes at most one bullet: the earliest live
// bullet in store order that overlaps it. A bullet is consumed by at most
// one enemy. Removals are applied after the scan.
func (st *Stepper) Step(store *object.Store, p Params) Result {
	var res Result

	store.Advance()
	store.RemoveBulletsIf(func(_ int, b *object.Bullet) bool {
		return b.OffScreen()
	})

	health := p.Health
	res.Escaped = store.RemoveEnemiesIf(func(_ int, e *object.Enemy) bool {
		if !e.Escaped(store.Screen.Height) {
			return false
		}
		res.Signals |= PlayerDamaged
		store.Player.Hit()
		if health > 0 {
			health = max(health-p.Level.EnemyDamage, 0)
			if health == 0 {
				res.Signals |= PlayerDied
			}
		}
		return true
	})
	res.HealthDelta = health - p.Health

	st.grid.Clear()
	clear(st.spent)
	for i, b := range store.Bullets {
		st.grid.Insert(b.X, b.Y, i)
	}

	st.kills = st.kills[:0]
	destroyed := p.Destroyed
	store.RemoveEnemiesIf(func(_ int, e *object.Enemy) bool {
		hit := st.firstHit(store.Bullets, e)
		if hit < 0 {
			return false
		}
		st.spent[hit] = struct{}{}
		res.Hits++
		if !e.Damage(p.Damage) {
			return false
		}

		res.Destroyed++
		res.ScoreDelta += PointsPerKill * p.Level.Level
		res.Signals |= EnemyDestroyed
		st.kills = append(st.kills, Kill{X: e.X + object.EnemySize/2, Y: e.Y + object.EnemySize/2})

		destroyed++
		if destroyed == p.Level.EnemiesRequired {
			res.Signals |= LevelQuotaReached
		}
		return true
	})

	if len(st.spent) > 0 {
		store.RemoveBulletsIf(func(i int, _ *object.Bullet) bool {
			_, ok := st.spent[i]
			return ok
		})
	}
	if len(st.kills) > 0 {
		res.Kills = append([]Kill(nil), st.kills...)
	}
	return res
}

// firstHit returns the lowest index of an unspent bullet overlapping e, or -1.
func (st *Stepper) firstHit(bullets []*object.Bullet, e *object.Enemy) int {
	box := e.Bounds()
	best := -1
	st.grid.QueryAround(e.X, e.Y, func(i int) bool {
		if best >= 0 && i >= best {
			return false
		}
		if _, ok := st.spent[i]; ok {
			return false
		}
		if physics.Overlap(bullets[i].Bounds(), box) {
			best = i
		}
		return false
	})
	return best
}
