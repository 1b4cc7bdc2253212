// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// escTimeout is how long an unfinished escape sequence waits for its
// remaining bytes before a bare ESC counts as a key press.
const escTimeout = 50 * time.Millisecond

// Input represents the current frame's input state.
//
// Left, Right and Fire are hold states and stay true for keyHoldDuration
// after the last press, which lets two keys be held together. The other
// fields are discrete presses and only reflect bytes read in this poll.
type Input struct {
	Left  bool
	Right bool
	Fire  bool

	Enter   bool
	Space   bool
	Pause   bool
	Restart bool
	Menu    bool
	Quit    bool
	Number  int  // Last digit pressed this poll, -1 if none
	Closed  bool // The underlying reader has ended
	Pressed []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	fire  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool

	pending []byte    // Unfinished "ESC" or "ESC [" from an earlier poll
	escAt   time.Time // When pending was first seen
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, time.Now())
	in.Closed = s.closed
	return in
}

// ResetKeyInput forgets held keys, so a key held across a screen change
// does not leak into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// parse applies the bytes of one poll to the key state and builds the frame input.
// An escape sequence split across polls is completed on a later poll.
func (s *Stream) parse(read []byte, now time.Time) Input {
	in := Input{Number: -1, Pressed: read}

	buf := read
	if len(s.pending) > 0 {
		buf = append(s.pending, read...)
		s.pending = nil
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			s.applyByte(&in, b, now)
			continue
		}

		rest := buf[i+1:]
		if len(rest) == 0 || (len(rest) == 1 && rest[0] == '[') {
			if s.escAt.IsZero() {
				s.escAt = now
			}
			if now.Sub(s.escAt) < escTimeout && !s.closed {
				s.pending = append([]byte(nil), buf[i:]...)
				break
			}
			// Nothing followed in time
			s.escAt = time.Time{}
			in.Menu = len(rest) == 0
			break
		}
		s.escAt = time.Time{}

		if rest[0] != '[' {
			in.Menu = true
			continue
		}
		// CSI sequence: ESC [ <code>
		switch rest[1] {
		case 'C': // Right arrow
			s.state.right = now
		case 'D': // Left arrow
			s.state.left = now
		}
		i += 2
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Fire = now.Sub(s.state.fire) < keyHoldDuration
	return in
}

// applyByte records a single-byte key press.
func (s *Stream) applyByte(in *Input, b byte, now time.Time) {
	switch b {
	case 'a', 'A', 'h', 'H':
		s.state.left = now
	case 'd', 'D', 'l', 'L':
		s.state.right = now
	case ' ':
		s.state.fire = now
		in.Space = true
	case '\n', '\r':
		in.Enter = true
	case 'p', 'P':
		in.Pause = true
	case 'r', 'R':
		in.Restart = true
	case 'm', 'M':
		in.Menu = true
	case 'q', 'Q', 0x03: // q or Ctrl+C
		in.Quit = true
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Number = int(b - '0')
	}
}
