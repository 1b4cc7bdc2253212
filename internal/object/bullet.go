package object

import "github.com/tomz197/skyfall/internal/physics"

// Bullet dimensions.
const (
	BulletWidth  = 6
	BulletHeight = 15
)

// MultiShotOffsets are the horizontal offsets of a triple shot.
var MultiShotOffsets = [3]float64{-15, 0, 15}

// Bullet travels straight up at a constant speed.
type Bullet struct {
	X, Y  float64
	Speed float64 // Always > 0
}

// BulletSpeed returns the speed of a bullet for the given bullet-speed upgrade level.
func BulletSpeed(level int) float64 {
	return 8 + 2*float64(level)
}

// Advance moves the bullet one tick upward.
func (b *Bullet) Advance() {
	b.Y -= b.Speed
}

// OffScreen reports whether the bullet has fully left the top of the field.
func (b *Bullet) OffScreen() bool {
	return b.Y < -BulletHeight
}

// Bounds returns the bullet's bounding box.
func (b *Bullet) Bounds() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: BulletWidth, H: BulletHeight}
}

// Draw renders the bullet.
func (b *Bullet) Draw(ctx DrawContext) error {
	ctx.Canvas.FillRect(b.X, b.Y, BulletWidth, BulletHeight)
	return nil
}
