package object

import "github.com/tomz197/skyfall/internal/physics"

// Player dimensions and kinematics.
const (
	PlayerWidth      = 40
	PlayerHeight     = 40
	PlayerSpeed      = 6.0
	PlayerFlashTicks = 30 // Ticks of blinking after taking damage
)

// Player is the ship at the bottom of the field. Only X changes after spawn.
type Player struct {
	X, Y       float64
	DX         float64 // -PlayerSpeed, 0 or +PlayerSpeed
	FlashTicks int     // Remaining hit-flash ticks
}

// NewPlayer creates a player centered horizontally, 60 units above the bottom.
func NewPlayer(screen Screen) *Player {
	p := &Player{}
	p.Reset(screen)
	return p
}

// Reset recentres the player and clears its velocity and flash timer.
func (p *Player) Reset(screen Screen) {
	p.X = float64(screen.Width)/2 - PlayerWidth/2
	p.Y = float64(screen.Height) - 60
	p.DX = 0
	p.FlashTicks = 0
}

// Steer sets the horizontal velocity from the held direction keys.
// Holding both cancels out.
func (p *Player) Steer(left, right bool) {
	p.DX = 0
	if left {
		p.DX -= PlayerSpeed
	}
	if right {
		p.DX += PlayerSpeed
	}
}

// Update moves the player by DX, clamps it to the field and decays the
// hit-flash timer.
func (p *Player) Update(screen Screen) {
	p.X = physics.Clamp(p.X+p.DX, 0, float64(screen.Width)-PlayerWidth)
	if p.FlashTicks > 0 {
		p.FlashTicks--
	}
}

// Hit starts the hit-flash timer.
func (p *Player) Hit() {
	p.FlashTicks = PlayerFlashTicks
}

// Draw renders the ship as a hull with a cannon on top.
func (p *Player) Draw(ctx DrawContext) error {
	if !ShouldRenderBlink(p.FlashTicks) {
		return nil
	}
	ctx.Canvas.FillRect(p.X, p.Y+PlayerHeight/3, PlayerWidth, PlayerHeight*2/3)
	ctx.Canvas.FillRect(p.X+PlayerWidth/2-5, p.Y, 10, PlayerHeight/3)
	return nil
}
