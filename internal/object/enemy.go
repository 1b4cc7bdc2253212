package object

import (
	"github.com/tomz197/skyfall/internal/level"
	"github.com/tomz197/skyfall/internal/physics"
)

// EnemySize is the side length of an enemy.
const EnemySize = 40

// Enemy falls at a constant speed until shot down or past the bottom edge.
type Enemy struct {
	X, Y      float64
	Speed     float64
	Health    int
	MaxHealth int
}

// NewEnemy creates an enemy just above the top edge, with speed and health
// taken from the level configuration.
func NewEnemy(x float64, cfg level.Config) *Enemy {
	return &Enemy{
		X:         x,
		Y:         -EnemySize,
		Speed:     cfg.EnemySpeed,
		Health:    cfg.EnemyHealth,
		MaxHealth: cfg.EnemyHealth,
	}
}

// Advance moves the enemy one tick downward.
func (e *Enemy) Advance() {
	e.Y += e.Speed
}

// Damage subtracts n hit points and reports whether the enemy is destroyed.
func (e *Enemy) Damage(n int) bool {
	e.Health -= n
	return e.Health <= 0
}

// DisplayHealth returns the health clamped to [0, MaxHealth].
func (e *Enemy) DisplayHealth() int {
	return min(max(e.Health, 0), e.MaxHealth)
}

// Escaped reports whether the enemy has passed the bottom of a field of the given height.
func (e *Enemy) Escaped(height int) bool {
	return e.Y > float64(height)
}

// Bounds returns the enemy's bounding box.
func (e *Enemy) Bounds() physics.Rect {
	return physics.Rect{X: e.X, Y: e.Y, W: EnemySize, H: EnemySize}
}

// Draw renders the enemy outline. Damaged enemies get a health bar above them.
func (e *Enemy) Draw(ctx DrawContext) error {
	ctx.Canvas.StrokeRect(e.X, e.Y, EnemySize, EnemySize)
	ctx.Canvas.FillRect(e.X+10, e.Y+10, 20, 5)
	ctx.Canvas.FillRect(e.X+10, e.Y+25, 20, 5)

	if e.Health < e.MaxHealth && e.MaxHealth > 0 {
		frac := float64(e.DisplayHealth()) / float64(e.MaxHealth)
		ctx.Canvas.FillRect(e.X, e.Y-8, EnemySize*frac, 4)
	}
	return nil
}
