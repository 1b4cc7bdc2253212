package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// maxChunkSize is the largest write handed to the underlying writer.
// Slightly under a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// ChunkWriter collects one frame of terminal output and flushes it in
// MTU-sized chunks. Positions passed to it are 1-based canvas coordinates;
// the centering offset is added automatically.
type ChunkWriter struct {
	frame  []byte
	out    *bufio.Writer
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the centering offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Write implements io.Writer so the canvas can render into the frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.frame = append(cw.frame, p...)
	return len(p), nil
}

// WriteAt queues s at canvas position (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.frame = appendCursor(cw.frame, col+cw.offCol, row+cw.offRow)
	cw.frame = append(cw.frame, s...)
}

// ClearScreen queues a full terminal clear.
func (cw *ChunkWriter) ClearScreen() {
	cw.frame = append(cw.frame, seqClear...)
}

// Flush sends the queued frame and starts a new one.
func (cw *ChunkWriter) Flush() error {
	for data := cw.frame; len(data) > 0; {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.Write(data[:n]); err != nil {
			cw.frame = cw.frame[:0]
			return err
		}
		data = data[n:]
	}
	cw.frame = cw.frame[:0]
	return cw.out.Flush()
}

var _ io.Writer = (*ChunkWriter)(nil)

// appendCursor appends an absolute cursor move to the 1-based terminal cell.
func appendCursor(b []byte, col, row int) []byte {
	b = append(b, "\033["...)
	b = strconv.AppendInt(b, int64(row), 10)
	b = append(b, ';')
	b = strconv.AppendInt(b, int64(col), 10)
	return append(b, 'H')
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
