// Package object holds the game entities: the player, bullets and enemies,
// plus the store that owns their live collections.
package object

import (
	"io"

	"github.com/tomz197/skyfall/internal/draw"
)

// Playfield dimensions in logical units. y grows downward.
const (
	FieldWidth  = 800
	FieldHeight = 600
)

// Screen represents the playfield dimensions.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen returns a Screen of the given size with its center precomputed.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// DefaultScreen is the standard 800x600 playfield.
var DefaultScreen = NewScreen(FieldWidth, FieldHeight)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // High-resolution canvas (2x vertical)
	Writer io.Writer    // Direct terminal output (for text)
}

// ShouldRenderBlink reports whether an object with ticks of flash remaining
// should be drawn this tick. The blink period is 10 ticks.
func ShouldRenderBlink(ticks int) bool {
	if ticks <= 0 {
		return true
	}
	return ticks%10 >= 5
}
