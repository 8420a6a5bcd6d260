// Package draw renders to ANSI terminals: a scaled half-block canvas plus
// helpers for cursor, screen and mouse control.
//
// Output is batched. Canvas.Render and the ChunkWriter build each frame in
// memory and write it in chunks sized for one network packet, which keeps
// SSH sessions smooth.
package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ChunkWriter collects one frame of text overlay and cursor moves, then
// sends it with Flush. Positions are canvas cells; the centering offset is
// added on the way out. Canvas.Render can write into it directly.
type ChunkWriter struct {
	frame  strings.Builder
	out    *bufio.Writer
	digits [20]byte // Scratch space for cursor coordinates
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter writing to w with the given
// centering offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset changes the centering offset, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// MoveCursor queues a move to canvas cell (col, row), both 1-based.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.frame.WriteString("\033[")
	cw.frame.Write(strconv.AppendInt(cw.digits[:0], int64(row+cw.offRow), 10))
	cw.frame.WriteByte(';')
	cw.frame.Write(strconv.AppendInt(cw.digits[:0], int64(col+cw.offCol), 10))
	cw.frame.WriteByte('H')
}

// Write queues raw bytes.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

// WriteString queues raw text.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame.WriteString(s)
}

// WriteAt queues s at canvas cell (col, row). Positions left of or above
// the canvas are pulled back to its edge.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(max(col, 1), max(row, 1))
	cw.frame.WriteString(s)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the queued frame in packet-sized chunks and starts a new one.
func (cw *ChunkWriter) Flush() error {
	defer cw.frame.Reset()
	if err := writeChunked(cw.out, cw.frame.String()); err != nil {
		return err
	}
	return cw.out.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Terminal control sequences.
const (
	seqClearScreen = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqMouseOn     = "\033[?1003h\033[?1006h" // Any-motion tracking, SGR encoding
	seqMouseOff    = "\033[?1006l\033[?1003l"
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) { io.WriteString(w, seqClearScreen) }

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) { io.WriteString(w, seqHideCursor) }

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) { io.WriteString(w, seqShowCursor) }

// EnableMouse turns on mouse reporting for every pointer move, even with no
// button held.
func EnableMouse(w io.Writer) { io.WriteString(w, seqMouseOn) }

// DisableMouse turns mouse reporting back off.
func DisableMouse(w io.Writer) { io.WriteString(w, seqMouseOff) }

// TerminalSizeRawWith returns actual terminal dimensions using the provided size function.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	return sizeFunc()
}
