// Package loop runs a game session on a terminal: it owns the session state
// machine, drives it from the scheduler and renders it.
package loop

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/skyfall/internal/draw"
	"github.com/tomz197/skyfall/internal/input"
	"github.com/tomz197/skyfall/internal/level"
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/loop/server"
	"github.com/tomz197/skyfall/internal/object"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Logger       *log.Logger
	Policy       *level.Policy
	Observer     Observer        // Optional extra observer, e.g. sound cues
	Registry     server.Registry // Optional; enables shutdown events
	Renderer     *lipgloss.Renderer
	Rand         *rand.Rand
	Inactivity   bool // Disconnect idle clients
}

// Client handles rendering and input for a single terminal.
type Client struct {
	session      *Session
	sched        *TickerScheduler
	registry     server.Registry
	handle       *server.ClientHandle
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	styles       styles
	username     string

	running       bool
	lastInput     time.Time
	inactivity    bool
	isInactive    bool
	shutdown      bool
	shutdownTimer float64
	lastFrame     time.Time

	prevView viewKey // What was on screen last frame
}

// viewKey identifies which overlay is on screen. A change forces a full clear.
type viewKey struct {
	phase    Phase
	inactive bool
	shutdown bool
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}

	sched := NewTickerScheduler(config.TickTime)
	c := &Client{
		sched:        sched,
		registry:     opts.Registry,
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger,
		styles:       newStyles(renderer),
		username:     opts.Username,
		running:      true,
		lastInput:    time.Now(),
		inactivity:   opts.Inactivity,
		prevView:     viewKey{phase: -1},
	}

	c.session = NewSession(Options{
		Scheduler: sched,
		Rand:      opts.Rand,
		Logger:    logger,
		Observer:  Observers{ObserverFunc(c.onEvent), opts.Observer},
		Policy:    opts.Policy,
		Screen:    object.NewScreen(config.FieldWidth, config.FieldHeight),
	})

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	c.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, config.FieldWidth, config.FieldHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)

	return c
}

// Session returns the client's session.
func (c *Client) Session() *Session {
	return c.session
}

// Run starts the client loop. Blocks until the player quits, the input
// ends, the server shuts the client down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if c.registry != nil {
		c.handle = c.registry.RegisterClient(c.username)
		defer c.registry.UnregisterClient(c.handle.ID)
	}
	defer c.sched.Stop()

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	var events <-chan server.ClientEvent
	if c.handle != nil {
		events = c.handle.EventsCh
	}

	ui := time.NewTicker(config.UIFrameTime)
	defer ui.Stop()

	c.lastFrame = time.Now()
	for c.running {
		select {
		case <-ctx.Done():
			c.running = false
		case now := <-c.sched.Frame():
			if err := c.frame(now); err != nil {
				return err
			}
		case <-c.sched.Spawn():
			c.session.Spawn()
		case now := <-ui.C:
			// The simulation tick renders while playing.
			if c.session.Phase() == PhasePlaying && !c.shutdown {
				continue
			}
			if err := c.frame(now); err != nil {
				return err
			}
		case event, ok := <-events:
			if !ok {
				c.running = false
				continue
			}
			c.processServerEvent(event)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// frame polls input, advances the session and draws one frame.
func (c *Client) frame(now time.Time) error {
	delta := now.Sub(c.lastFrame)
	c.lastFrame = now

	in := c.processInput()
	if !c.running {
		return nil
	}
	c.updateScreen()

	switch {
	case c.shutdown:
		c.shutdownTimer -= delta.Seconds()
		if c.shutdownTimer <= 0 {
			c.running = false
			return nil
		}
	case c.isInactive:
		c.session.Pause()
	default:
		if !c.applyActions(in) && c.session.Phase() == PhasePlaying {
			c.session.Tick(now, Controls{Left: in.Left, Right: in.Right, Fire: in.Fire})
		}
	}

	return c.drawFrame()
}

// processInput reads input and tracks inactivity.
func (c *Client) processInput() input.Input {
	in := input.ReadInput(c.inputStream)

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.isInactive = false
	} else if c.inactivity {
		idle := time.Since(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting inactive client", "user", c.username)
			c.running = false
		} else if idle > config.InactivityWarnUser {
			c.isInactive = true
		}
	}

	if in.Quit || in.Closed {
		c.running = false
	}
	return in
}

// applyActions maps discrete key presses to session transitions for the
// current phase. It reports whether a transition happened.
func (c *Client) applyActions(in input.Input) bool {
	s := c.session
	changed := false

	switch s.Phase() {
	case PhaseMenu:
		if in.Enter || in.Space {
			changed = s.Start()
		}
	case PhasePlaying:
		switch {
		case in.Pause:
			changed = s.Pause()
		case in.Restart:
			changed = s.RestartLevel()
		case in.Menu:
			changed = s.ReturnToMenu()
		}
	case PhasePaused:
		switch {
		case in.Pause || in.Enter:
			changed = s.Resume()
		case in.Restart:
			changed = s.RestartLevel()
		case in.Menu:
			changed = s.ReturnToMenu()
		}
	case PhaseLevelComplete:
		switch {
		case in.Number >= 1 && in.Number <= len(object.UpgradeKinds):
			kind := object.UpgradeKinds[in.Number-1]
			if upgradeSelectable(s.Upgrades(), kind) {
				changed = s.ChooseUpgrade(kind)
			}
		case in.Menu:
			changed = s.ReturnToMenu()
		}
	case PhaseGameOver:
		switch {
		case in.Enter:
			changed = s.Restart()
		case in.Menu:
			changed = s.ReturnToMenu()
		}
	}

	if changed {
		input.ResetKeyInput(c.inputStream)
	}
	return changed
}

// upgradeSelectable hides consumed upgrades, unless every upgrade is
// consumed and the player still needs a way forward.
func upgradeSelectable(u object.Upgrades, kind object.UpgradeKind) bool {
	if u.Available(kind) {
		return true
	}
	for _, k := range object.UpgradeKinds {
		if u.Available(k) {
			return false
		}
	}
	return true
}

// processServerEvent handles an event from the server.
func (c *Client) processServerEvent(event server.ClientEvent) {
	switch event.Type {
	case server.EventServerShutdown:
		c.session.Pause()
		c.shutdown = true
		c.shutdownTimer = config.ShutdownDisplaySeconds
	}
}

// onEvent reacts to session events that affect the client.
func (c *Client) onEvent(e Event) {
	if e.Type == EventPhaseChanged && e.Phase == PhaseGameOver {
		c.logger.Info("game over", "user", c.username, "score", c.session.Score(), "level", c.session.Level())
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	prevCol, prevRow := c.canvas.Offset()
	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != prevCol || offsetRow != prevRow {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// Run plays a single local session until the player quits or ctx is cancelled.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts ClientOptions) error {
	return NewClient(bufio.NewReader(r), w, opts).Run(ctx)
}
