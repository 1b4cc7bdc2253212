package object

import (
	"math/rand"

	"github.com/tomz197/skyfall/internal/level"
)

// Store owns the player and the live bullets and enemies. Collections keep
// insertion order; collision tie-breaks depend on it.
type Store struct {
	Screen  Screen
	Player  *Player
	Bullets []*Bullet
	Enemies []*Enemy
}

// NewStore creates an empty store with a freshly spawned player.
func NewStore(screen Screen) *Store {
	return &Store{
		Screen: screen,
		Player: NewPlayer(screen),
	}
}

// SpawnEnemy appends an enemy at horizontal position x.
func (s *Store) SpawnEnemy(cfg level.Config, x float64) *Enemy {
	e := NewEnemy(x, cfg)
	s.Enemies = append(s.Enemies, e)
	return e
}

// SpawnEnemyRandom appends an enemy at a uniformly random x within the field.
func (s *Store) SpawnEnemyRandom(cfg level.Config, rng *rand.Rand) *Enemy {
	return s.SpawnEnemy(cfg, rng.Float64()*float64(s.Screen.Width-EnemySize))
}

// FireBullet appends the bullets of one shot from a player at playerX and
// returns them: one bullet, or three when multi-shot is unlocked.
func (s *Store) FireBullet(playerX float64, upgrades Upgrades) []*Bullet {
	speed := BulletSpeed(upgrades.BulletSpeed)
	x := playerX + PlayerWidth/2 - BulletWidth/2
	y := s.Player.Y

	start := len(s.Bullets)
	if upgrades.MultiShot {
		for _, off := range MultiShotOffsets {
			s.Bullets = append(s.Bullets, &Bullet{X: x + off, Y: y, Speed: speed})
		}
	} else {
		s.Bullets = append(s.Bullets, &Bullet{X: x, Y: y, Speed: speed})
	}
	return s.Bullets[start:]
}

// MovePlayer steers the player in direction dir (negative left, positive
// right, zero stop) and applies one tick of movement.
func (s *Store) MovePlayer(dir int) {
	s.Player.Steer(dir < 0, dir > 0)
	s.Player.Update(s.Screen)
}

// ResetPlayer recentres the player.
func (s *Store) ResetPlayer() {
	s.Player.Reset(s.Screen)
}

// Advance moves every bullet up and every enemy down by its speed.
func (s *Store) Advance() {
	for _, b := range s.Bullets {
		b.Advance()
	}
	for _, e := range s.Enemies {
		e.Advance()
	}
}

// RemoveBulletsIf drops every bullet for which remove returns true and
// reports how many were dropped. remove sees each bullet with its index
// before compaction.
func (s *Store) RemoveBulletsIf(remove func(i int, b *Bullet) bool) int {
	var n int
	s.Bullets, n = removeIf(s.Bullets, remove)
	return n
}

// RemoveEnemiesIf drops every enemy for which remove returns true and
// reports how many were dropped. remove sees each enemy with its index
// before compaction.
func (s *Store) RemoveEnemiesIf(remove func(i int, e *Enemy) bool) int {
	var n int
	s.Enemies, n = removeIf(s.Enemies, remove)
	return n
}

// Clear drops every bullet and enemy.
func (s *Store) Clear() {
	clear(s.Bullets)
	clear(s.Enemies)
	s.Bullets = s.Bullets[:0]
	s.Enemies = s.Enemies[:0]
}

// Draw renders every entity. Enemies go first so bullets stay visible on top.
func (s *Store) Draw(ctx DrawContext) error {
	for _, e := range s.Enemies {
		if err := e.Draw(ctx); err != nil {
			return err
		}
	}
	for _, b := range s.Bullets {
		if err := b.Draw(ctx); err != nil {
			return err
		}
	}
	return s.Player.Draw(ctx)
}

// removeIf compacts items in place, keeping order, and nils the freed tail
// so dropped entities can be collected.
func removeIf[T any](items []*T, remove func(int, *T) bool) ([]*T, int) {
	kept := items[:0]
	for i, it := range items {
		if !remove(i, it) {
			kept = append(kept, it)
		}
	}
	n := len(items) - len(kept)
	clear(items[len(kept):])
	return kept, n
}
