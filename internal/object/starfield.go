package object

import (
	"math"
	"time"
)

const starCount = 50

// DrawStarfield renders a slowly scrolling background of stars. elapsed is
// the time since the session started and drives the scroll.
func DrawStarfield(ctx DrawContext, screen Screen, elapsed time.Duration) {
	w := float64(screen.Width)
	h := float64(screen.Height)
	if w <= 0 || h <= 0 {
		return
	}
	ms := float64(elapsed.Milliseconds())
	for i := 0; i < starCount; i++ {
		x := math.Mod(float64(i)*137.5, w)
		y := math.Mod(float64(i)*217.3+ms*0.1, h)
		ctx.Canvas.SetFloat(x, y)
	}
}
