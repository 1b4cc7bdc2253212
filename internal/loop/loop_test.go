package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/skyfall/internal/input"
	"github.com/tomz197/skyfall/internal/loop/server"
	"github.com/tomz197/skyfall/internal/object"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, r io.Reader, w io.Writer) *Client {
	t.Helper()
	c := NewClient(bufio.NewReader(r), w, ClientOptions{
		TermSizeFunc: fixedSize(100, 40),
		Rand:         rand.New(rand.NewSource(1)),
	})
	t.Cleanup(c.sched.Stop)
	return c
}

func press(f func(*input.Input)) input.Input {
	in := input.Input{Number: -1}
	f(&in)
	return in
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(200, 100)
	if w != 160 || h != 60 || col != 20 || row != 20 {
		t.Fatalf("clampTermSize(200, 100) = %d %d %d %d", w, h, col, row)
	}
	w, h, col, row = clampTermSize(80, 24)
	if w != 80 || h != 24 || col != 0 || row != 0 {
		t.Fatalf("clampTermSize(80, 24) = %d %d %d %d", w, h, col, row)
	}
}

func TestApplyActionsPerPhase(t *testing.T) {
	c := newTestClient(t, strings.NewReader(""), io.Discard)
	s := c.Session()

	if c.applyActions(press(func(in *input.Input) { in.Pause = true })) {
		t.Fatal("pause accepted in menu")
	}
	if !c.applyActions(press(func(in *input.Input) { in.Space = true })) || s.Phase() != PhasePlaying {
		t.Fatal("space did not start the game")
	}
	if !c.sched.Running() {
		t.Fatal("scheduler not running while playing")
	}

	c.applyActions(press(func(in *input.Input) { in.Pause = true }))
	if s.Phase() != PhasePaused || c.sched.Running() {
		t.Fatalf("phase %v, running %v", s.Phase(), c.sched.Running())
	}
	c.applyActions(press(func(in *input.Input) { in.Pause = true }))
	if s.Phase() != PhasePlaying {
		t.Fatalf("phase %v after second pause", s.Phase())
	}

	s.phase = PhaseLevelComplete
	c.applyActions(press(func(in *input.Input) { in.Number = 2 }))
	if s.Phase() != PhasePlaying || s.Upgrades().FireRate != 2 || s.Level() != 2 {
		t.Fatalf("upgrade choice failed: phase %v upgrades %+v", s.Phase(), s.Upgrades())
	}

	s.phase = PhaseGameOver
	if c.applyActions(press(func(in *input.Input) { in.Space = true })) {
		t.Fatal("space restarted from game over")
	}
	c.applyActions(press(func(in *input.Input) { in.Menu = true }))
	if s.Phase() != PhaseMenu {
		t.Fatalf("phase %v, want menu", s.Phase())
	}
}

func TestConsumedUpgradeIgnored(t *testing.T) {
	c := newTestClient(t, strings.NewReader(""), io.Discard)
	s := c.Session()
	s.Start()
	s.upgrades.MultiShot = true
	s.phase = PhaseLevelComplete

	if c.applyActions(press(func(in *input.Input) { in.Number = 4 })) {
		t.Fatal("consumed upgrade accepted")
	}
	if s.Phase() != PhaseLevelComplete {
		t.Fatalf("phase %v, want levelComplete", s.Phase())
	}
}

func TestUpgradeSelectableWhenAllMaxed(t *testing.T) {
	u := object.Upgrades{Damage: 5, FireRate: 5, BulletSpeed: 5, MultiShot: true}
	if !upgradeSelectable(u, object.UpgradeDamage) {
		t.Fatal("no way forward with every upgrade maxed")
	}
}

func TestDrawScreens(t *testing.T) {
	var buf bytes.Buffer
	c := newTestClient(t, strings.NewReader(""), &buf)
	s := c.Session()

	render := func() string {
		t.Helper()
		buf.Reset()
		if err := c.drawFrame(); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}

	if out := render(); !strings.Contains(out, "Controls") {
		t.Fatal("menu screen missing controls")
	}

	s.Start()
	s.score = 70
	if out := render(); !strings.Contains(out, "Score: 70") || !strings.Contains(out, "HP: 100") {
		t.Fatalf("HUD missing fields: %q", out)
	}

	s.Pause()
	if out := render(); !strings.Contains(out, "P A U S E D") {
		t.Fatal("paused overlay missing")
	}

	s.phase = PhaseLevelComplete
	s.upgrades.MultiShot = true
	out := render()
	if !strings.Contains(out, "Level 1/5") || !strings.Contains(out, "Unlocked") {
		t.Fatalf("upgrade list missing levels: %q", out)
	}

	s.phase = PhaseGameOver
	if out := render(); !strings.Contains(out, "Final Score: 70") {
		t.Fatal("game over screen missing final score")
	}
}

func TestHealthBar(t *testing.T) {
	if got := healthBar(100, 10); got != strings.Repeat("█", 10) {
		t.Fatalf("full bar = %q", got)
	}
	if got := healthBar(0, 10); got != strings.Repeat("░", 10) {
		t.Fatalf("empty bar = %q", got)
	}
	if got := healthBar(45, 10); got != strings.Repeat("█", 5)+strings.Repeat("░", 5) {
		t.Fatalf("half bar = %q", got)
	}
}

func TestRunQuits(t *testing.T) {
	c := newTestClient(t, strings.NewReader("q"), io.Discard)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := newTestClient(t, pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunRegistersWithServer(t *testing.T) {
	srv := server.NewServer(nil)
	pr, pw := io.Pipe()
	defer pw.Close()

	c := NewClient(bufio.NewReader(pr), io.Discard, ClientOptions{
		TermSizeFunc: fixedSize(80, 24),
		Registry:     srv,
		Username:     "tester",
	})

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.ActiveClients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	pw.Write([]byte("q"))
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if srv.ActiveClients() != 0 {
		t.Fatal("client not unregistered after Run")
	}
}
