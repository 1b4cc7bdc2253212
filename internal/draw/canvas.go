package draw

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int    // Actual terminal columns
	termHeight     int    // Actual terminal rows
	subPixelHeight int    // termHeight * 2
	pixels         []bool // Flat slice: [y * termWidth + x] - true if pixel is set

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when the terminal is larger than
	// the max render resolution. 0-based columns/rows to skip.
	offsetCol int
	offsetRow int

	cells     []byte // Glyph emitted for each cell by the last Render
	renderBuf []byte // Reused output buffer
}

// Cell glyph codes used for diff rendering.
const (
	cellEmpty byte = iota
	cellUpper
	cellLower
	cellFull
	cellUnknown // Forces the cell to be written on the next Render
)

var cellGlyphs = [...]rune{cellEmpty: BlockEmpty, cellUpper: BlockUpperHalf, cellLower: BlockLowerHalf, cellFull: BlockFull}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]bool, subPixelHeight*termWidth)
		c.cells = make([]byte, termHeight*termWidth)
		c.ForceRedraw()
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// Offset returns the column and row offset used for centering.
func (c *Canvas) Offset() (col, row int) {
	return c.offsetCol, c.offsetRow
}

// ForceRedraw makes the next Render write every cell, including empty ones.
// Call it after the terminal was cleared or overwritten by text.
func (c *Canvas) ForceRedraw() {
	for i := range c.cells {
		c.cells[i] = cellUnknown
	}
}

// MarkTextDirty marks width cells starting at the 1-based canvas position
// (col, row) as overwritten by text, so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+width, c.termWidth); x++ {
		c.cells[row*c.termWidth+x] = cellUnknown
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

// Pixel reports whether the pixel at terminal sub-pixel coordinates is set.
func (c *Canvas) Pixel(x, y int) bool {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return false
	}
	return c.pixels[y*c.termWidth+x]
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setPixel(px, py)
}

// FillRect fills a logical rectangle. Anything with a positive size covers
// at least one pixel, so small objects never vanish on small terminals.
func (c *Canvas) FillRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, x1 := c.span(x, w, c.scaleX)
	y0, y1 := c.span(y, h, c.scaleY)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.setPixel(px, py)
		}
	}
}

// StrokeRect draws the outline of a logical rectangle.
func (c *Canvas) StrokeRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, x1 := c.span(x, w, c.scaleX)
	y0, y1 := c.span(y, h, c.scaleY)
	for px := x0; px <= x1; px++ {
		c.setPixel(px, y0)
		c.setPixel(px, y1)
	}
	for py := y0; py <= y1; py++ {
		c.setPixel(x0, py)
		c.setPixel(x1, py)
	}
}

// span converts a logical [start, start+size) interval into inclusive pixel bounds.
func (c *Canvas) span(start, size, scale float64) (lo, hi int) {
	lo = int(math.Floor(start * scale))
	hi = int(math.Ceil((start+size)*scale)) - 1
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Render outputs the canvas to the writer using half-block characters.
// Only cells that changed since the previous Render are written.
func (c *Canvas) Render(w io.Writer) {
	buf := c.renderBuf[:0]

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		cellOffset := row * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			var code byte
			switch {
			case top && bottom:
				code = cellFull
			case top:
				code = cellUpper
			case bottom:
				code = cellLower
			default:
				code = cellEmpty
			}

			if c.cells[cellOffset+col] == code {
				continue
			}
			c.cells[cellOffset+col] = code
			buf = appendCursor(buf, col+1+c.offsetCol, row+1+c.offsetRow)
			buf = utf8.AppendRune(buf, cellGlyphs[code])
		}
	}

	c.renderBuf = buf
	for len(buf) > 0 {
		n := min(len(buf), maxChunkSize)
		w.Write(buf[:n])
		buf = buf[n:]
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	io.WriteString(w, buf.String())
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}
