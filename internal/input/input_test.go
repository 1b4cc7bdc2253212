package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParseArrowsHold(t *testing.T) {
	s := &Stream{}
	now := time.Unix(100, 0)

	in := s.parse([]byte("\x1b[D"), now)
	if !in.Left || in.Right || in.Menu {
		t.Fatalf("left arrow parsed as %+v", in)
	}

	in = s.parse(nil, now.Add(10*time.Millisecond))
	if !in.Left {
		t.Fatal("left released before hold duration")
	}

	in = s.parse([]byte("\x1b[C"), now.Add(20*time.Millisecond))
	if !in.Left || !in.Right {
		t.Fatalf("both directions should be held: %+v", in)
	}

	in = s.parse(nil, now.Add(100*time.Millisecond))
	if in.Left || in.Right {
		t.Fatalf("keys still held after hold duration: %+v", in)
	}
}

func TestParseDiscreteKeys(t *testing.T) {
	tests := []struct {
		name  string
		bytes string
		check func(Input) bool
	}{
		{"enter", "\r", func(in Input) bool { return in.Enter }},
		{"space fires", " ", func(in Input) bool { return in.Space && in.Fire }},
		{"pause", "p", func(in Input) bool { return in.Pause }},
		{"restart", "r", func(in Input) bool { return in.Restart }},
		{"menu", "m", func(in Input) bool { return in.Menu }},
		{"escape then key", "\x1bp", func(in Input) bool { return in.Menu && in.Pause }},
		{"quit", "q", func(in Input) bool { return in.Quit }},
		{"ctrl-c", "\x03", func(in Input) bool { return in.Quit }},
		{"digit", "3", func(in Input) bool { return in.Number == 3 }},
		{"last digit wins", "24", func(in Input) bool { return in.Number == 4 }},
		{"wasd", "a", func(in Input) bool { return in.Left }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{}
			in := s.parse([]byte(tt.bytes), time.Now())
			if !tt.check(in) {
				t.Fatalf("parse(%q) = %+v", tt.bytes, in)
			}
		})
	}
}

func TestDiscreteKeysDoNotRepeat(t *testing.T) {
	s := &Stream{}
	now := time.Unix(0, 0)
	s.parse([]byte("p"), now)
	in := s.parse(nil, now.Add(time.Millisecond))
	if in.Pause {
		t.Fatal("pause reported again on an empty poll")
	}
}

func TestArrowIsNotMenu(t *testing.T) {
	s := &Stream{}
	if in := s.parse([]byte("\x1b[A"), time.Now()); in.Menu {
		t.Fatal("up arrow parsed as escape")
	}
}

func TestSplitArrowSequence(t *testing.T) {
	for _, split := range [][2]string{{"\x1b", "[D"}, {"\x1b[", "D"}} {
		s := &Stream{}
		now := time.Unix(100, 0)

		in := s.parse([]byte(split[0]), now)
		if in.Menu || in.Left {
			t.Fatalf("partial %q parsed as %+v", split[0], in)
		}

		in = s.parse([]byte(split[1]), now.Add(16*time.Millisecond))
		if !in.Left || in.Menu {
			t.Fatalf("%q then %q parsed as %+v", split[0], split[1], in)
		}
	}
}

func TestLoneEscapeAfterTimeout(t *testing.T) {
	s := &Stream{}
	now := time.Unix(100, 0)

	if in := s.parse([]byte("\x1b"), now); in.Menu {
		t.Fatal("escape reported before its sequence could finish")
	}
	if in := s.parse(nil, now.Add(16*time.Millisecond)); in.Menu {
		t.Fatal("escape reported before timeout")
	}
	if in := s.parse(nil, now.Add(escTimeout)); !in.Menu {
		t.Fatal("lone escape not reported after timeout")
	}
	if in := s.parse(nil, now.Add(2*escTimeout)); in.Menu {
		t.Fatal("lone escape reported twice")
	}
}

func TestUnfinishedCSIIsDropped(t *testing.T) {
	s := &Stream{}
	now := time.Unix(100, 0)
	s.parse([]byte("\x1b["), now)
	in := s.parse(nil, now.Add(escTimeout))
	if in.Menu || in.Left || in.Right {
		t.Fatalf("stale CSI prefix parsed as %+v", in)
	}
	if in := s.parse([]byte("D"), now.Add(2*escTimeout)); !in.Right || in.Left {
		t.Fatalf("byte after dropped prefix parsed as %+v", in)
	}
}

func TestResetKeyInput(t *testing.T) {
	s := &Stream{}
	now := time.Now()
	s.parse([]byte("a "), now)
	ResetKeyInput(s)
	if in := s.parse(nil, now); in.Left || in.Fire {
		t.Fatalf("held keys survived reset: %+v", in)
	}
}

func TestReadInputReportsClose(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("q")))

	deadline := time.Now().Add(2 * time.Second)
	var quit bool
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		quit = quit || in.Quit
		if in.Closed {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !quit {
		t.Fatal("quit key not read")
	}
	if !s.closed {
		t.Fatal("stream not marked closed")
	}
}
