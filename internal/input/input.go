// Package input turns raw terminal bytes into per-frame key and pointer state.
package input

import (
	"bufio"
	"bytes"
	"strconv"
	"sync"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// maxPending caps how many bytes of an unfinished escape sequence are kept
// between reads. Real mouse reports are far shorter.
const maxPending = 32

// Input represents the current frame's input state.
type Input struct {
	Quit  bool
	Up    bool
	Down  bool
	Space bool
	Enter bool

	// Pointer is set when the mouse moved since the last frame.
	// PointerCol and PointerRow are 1-based terminal cells.
	Pointer    bool
	PointerCol int
	PointerRow int

	Pressed []byte
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	up    time.Time
	down  time.Time
	space time.Time
	enter time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // Start of an escape sequence split across reads
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r fails or the stream is closed.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:   make(chan byte, 256),
		now:  time.Now,
		done: make(chan struct{}),
	}
}

// Close stops the reader goroutine once its current read returns.
// Safe to call more than once.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and SGR mouse reports.
// Uses key state persistence to allow detecting held keys.
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	now := s.now()
	buf := s.pending
	carried := len(buf)
	s.pending = nil
	closed := false

	// Drain all available bytes
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// Only bytes that arrived this frame count as presses. A sequence still
	// unfinished after a frame with no new bytes is dropped, so a lone ESC
	// is flushed after one frame.
	fresh := len(buf) > carried
	input := Input{}
	if fresh {
		input.Pressed = append([]byte(nil), buf[carried:]...)
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			n, complete := parseCSI(buf[i:], s, &input, now)
			if !complete {
				if fresh && len(buf)-i <= maxPending {
					s.pending = append([]byte(nil), buf[i:]...)
				}
				break
			}
			i += n - 1
			continue
		}
		if b == '\x1b' && i+1 == len(buf) {
			// Lone ESC may be the start of a sequence; keep it for next frame.
			if fresh {
				s.pending = []byte{b}
			}
			break
		}

		applyByteToState(&s.state, b, now)
	}

	input.Quit = closed || now.Sub(s.state.quit) < keyHoldDuration
	input.Up = now.Sub(s.state.up) < keyHoldDuration
	input.Down = now.Sub(s.state.down) < keyHoldDuration
	input.Space = now.Sub(s.state.space) < keyHoldDuration
	input.Enter = now.Sub(s.state.enter) < keyHoldDuration

	return input
}

// parseCSI parses an escape sequence starting with ESC [ at seq[0].
// It returns the sequence length and whether the sequence was complete.
func parseCSI(seq []byte, s *Stream, input *Input, now time.Time) (int, bool) {
	if len(seq) < 3 {
		return 0, false
	}

	switch seq[2] {
	case 'A': // Up arrow
		s.state.up = now
		return 3, true
	case 'B': // Down arrow
		s.state.down = now
		return 3, true
	case '<': // SGR mouse: ESC [ < button ; col ; row (M|m)
		end := bytes.IndexAny(seq[3:], "Mm")
		if end < 0 {
			return 0, false
		}
		body := seq[3 : 3+end]
		if col, row, ok := parseMouse(body); ok {
			input.Pointer = true
			input.PointerCol = col
			input.PointerRow = row
		}
		return 3 + end + 1, true
	}

	// Other CSI sequences end at the first byte in 0x40..0x7e.
	for j := 2; j < len(seq); j++ {
		if seq[j] >= 0x40 && seq[j] <= 0x7e {
			return j + 1, true
		}
	}
	return 0, false
}

// parseMouse parses "button;col;row" from an SGR mouse report.
func parseMouse(body []byte) (col, row int, ok bool) {
	parts := bytes.Split(body, []byte{';'})
	if len(parts) != 3 {
		return 0, 0, false
	}
	if _, err := strconv.Atoi(string(parts[0])); err != nil {
		return 0, 0, false
	}
	col, err := strconv.Atoi(string(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	row, err = strconv.Atoi(string(parts[2]))
	if err != nil {
		return 0, 0, false
	}
	return col, row, true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C arrives as a byte in raw mode
		state.quit = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	}
}

// ResetKeyInput clears held keys so a key press from one screen
// doesn't carry over into the next.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}
