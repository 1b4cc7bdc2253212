package loop

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyfall/internal/level"
	"github.com/tomz197/skyfall/internal/loop/config"
	"github.com/tomz197/skyfall/internal/object"
	"github.com/tomz197/skyfall/internal/sim"
)

// Phase is a state of the session.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhasePaused
	PhaseLevelComplete
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseLevelComplete:
		return "levelComplete"
	case PhaseGameOver:
		return "gameOver"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Controls is the hold state sampled once per tick.
type Controls struct {
	Left  bool
	Right bool
	Fire  bool
}

// EventType identifies a session event.
type EventType int

const (
	EventPhaseChanged EventType = iota
	EventShot
	EventEnemyDestroyed
	EventPlayerDamaged
)

// Event is reported to the session's Observer.
type Event struct {
	Type  EventType
	Phase Phase   // Phase after the event
	From  Phase   // Previous phase, for EventPhaseChanged
	X, Y  float64 // Position, for EventEnemyDestroyed
}

// Observer receives session events. Notify is called synchronously from
// the session's goroutine and must not block.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }

// Observers fans an event out to several observers.
type Observers []Observer

// Notify forwards e to every non-nil observer.
func (os Observers) Notify(e Event) {
	for _, o := range os {
		if o != nil {
			o.Notify(e)
		}
	}
}

// Options configures a Session. Zero values pick defaults.
type Options struct {
	Scheduler Scheduler
	Rand      *rand.Rand
	Logger    *log.Logger
	Observer  Observer
	Policy    *level.Policy
	Screen    object.Screen
}

// Session owns the state of one game: phase, level, score, health,
// upgrades and entities. Every method must be called from one goroutine.
type Session struct {
	phase     Phase
	level     int
	score     int
	health    int
	destroyed int
	spawned   int
	upgrades  object.Upgrades
	started   time.Time

	store   *object.Store
	effects *object.Effects
	stepper *sim.Stepper
	gate    sim.FireGate

	sched    Scheduler
	rng      *rand.Rand
	logger   *log.Logger
	observer Observer
	policy   level.Policy
}

// NewSession creates a session in the menu phase.
func NewSession(opts Options) *Session {
	screen := opts.Screen
	if screen.Width == 0 || screen.Height == 0 {
		screen = object.NewScreen(config.FieldWidth, config.FieldHeight)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	policy := level.Default
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = NewTickerScheduler(0)
	}

	s := &Session{
		phase:    PhaseMenu,
		store:    object.NewStore(screen),
		effects:  object.NewEffects(rng),
		stepper:  sim.NewStepper(screen),
		sched:    sched,
		rng:      rng,
		logger:   logger,
		observer: opts.Observer,
		policy:   policy,
		started:  time.Now(),
	}
	s.reset()
	return s
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Level returns the current level number.
func (s *Session) Level() int { return s.level }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Health returns the player's health in [0, 100].
func (s *Session) Health() int { return s.health }

// Destroyed returns the number of enemies destroyed on the current level.
func (s *Session) Destroyed() int { return s.destroyed }

// Spawned returns the number of enemies spawned on the current level.
func (s *Session) Spawned() int { return s.spawned }

// Upgrades returns the current upgrades.
func (s *Session) Upgrades() object.Upgrades { return s.upgrades }

// Store returns the entity store. Callers outside the session only read it.
func (s *Session) Store() *object.Store { return s.store }

// Effects returns the explosion effects.
func (s *Session) Effects() *object.Effects { return s.effects }

// Elapsed returns the time since the session was created.
func (s *Session) Elapsed() time.Duration { return time.Since(s.started) }

// LevelConfig returns the difficulty parameters of the current level.
func (s *Session) LevelConfig() level.Config {
	return s.policy.Config(s.level)
}

// Start begins a new game from the menu.
func (s *Session) Start() bool {
	if s.phase != PhaseMenu {
		return false
	}
	s.reset()
	s.enter(PhasePlaying)
	return true
}

// Restart begins a new game after a game over.
func (s *Session) Restart() bool {
	if s.phase != PhaseGameOver {
		return false
	}
	s.reset()
	s.enter(PhasePlaying)
	return true
}

// Pause freezes a running game.
func (s *Session) Pause() bool {
	if s.phase != PhasePlaying {
		return false
	}
	s.enter(PhasePaused)
	return true
}

// Resume continues a paused game.
func (s *Session) Resume() bool {
	if s.phase != PhasePaused {
		return false
	}
	s.enter(PhasePlaying)
	return true
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Session) TogglePause() bool {
	if s.phase == PhasePaused {
		return s.Resume()
	}
	return s.Pause()
}

// ChooseUpgrade applies one upgrade and starts the next level. Upgrades
// already at their cap stay there; the level still advances.
func (s *Session) ChooseUpgrade(kind object.UpgradeKind) bool {
	if s.phase != PhaseLevelComplete {
		return false
	}
	if !s.upgrades.Apply(kind) {
		s.logger.Debug("upgrade already maxed", "upgrade", kind)
	}
	s.level++
	s.health = config.InitialHealth
	s.resetLevel()
	s.enter(PhasePlaying)
	return true
}

// RestartLevel replays the current level from scratch, keeping score,
// health and upgrades.
func (s *Session) RestartLevel() bool {
	if s.phase != PhasePlaying && s.phase != PhasePaused {
		return false
	}
	s.resetLevel()
	s.enter(PhasePlaying)
	return true
}

// ReturnToMenu abandons the current game.
func (s *Session) ReturnToMenu() bool {
	if s.phase == PhaseMenu {
		return false
	}
	s.reset()
	s.enter(PhaseMenu)
	return true
}

// Spawn adds one enemy from the current level policy. Ignored unless playing.
func (s *Session) Spawn() *object.Enemy {
	if s.phase != PhasePlaying {
		return nil
	}
	s.spawned++
	return s.store.SpawnEnemyRandom(s.LevelConfig(), s.rng)
}

// Tick runs one simulation step at time now. Ignored unless playing.
func (s *Session) Tick(now time.Time, c Controls) sim.Result {
	if s.phase != PhasePlaying {
		return sim.Result{}
	}

	dir := 0
	if c.Left {
		dir--
	}
	if c.Right {
		dir++
	}
	s.store.MovePlayer(dir)

	cfg := s.LevelConfig()
	res := s.stepper.Step(s.store, sim.Params{
		Level:     cfg,
		Damage:    s.upgrades.Damage,
		Health:    s.health,
		Destroyed: s.destroyed,
	})
	s.health += res.HealthDelta
	s.score += res.ScoreDelta
	s.destroyed += res.Destroyed

	for _, k := range res.Kills {
		s.effects.SpawnExplosion(k.X, k.Y, config.ExplosionParticles, config.ExplosionSpeed, config.ExplosionLifetime)
		s.notify(Event{Type: EventEnemyDestroyed, Phase: s.phase, X: k.X, Y: k.Y})
	}
	s.effects.Update(config.TickTime.Seconds())
	if res.Signals.Has(sim.PlayerDamaged) {
		s.notify(Event{Type: EventPlayerDamaged, Phase: s.phase})
	}

	switch {
	case res.Signals.Has(sim.PlayerDied):
		s.enter(PhaseGameOver)
		return res
	case res.Signals.Has(sim.LevelQuotaReached):
		s.enter(PhaseLevelComplete)
		return res
	}

	if c.Fire && s.gate.Allow(now, s.upgrades.FireRate) {
		s.store.FireBullet(s.store.Player.X, s.upgrades)
		s.notify(Event{Type: EventShot, Phase: s.phase})
	}
	return res
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	Phase     Phase
	Level     int
	Score     int
	Health    int
	Destroyed int
	Required  int
	Upgrades  object.Upgrades
	Elapsed   time.Duration
	Store     *object.Store
	Effects   *object.Effects
}

// Snapshot returns the current state for a render sink.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:     s.phase,
		Level:     s.level,
		Score:     s.score,
		Health:    s.health,
		Destroyed: s.destroyed,
		Required:  s.LevelConfig().EnemiesRequired,
		Upgrades:  s.upgrades,
		Elapsed:   s.Elapsed(),
		Store:     s.store,
		Effects:   s.effects,
	}
}

// reset returns the session to the values of a fresh game.
func (s *Session) reset() {
	s.level = config.StartLevel
	s.score = 0
	s.health = config.InitialHealth
	s.upgrades = object.BaseUpgrades()
	s.resetLevel()
}

// resetLevel clears the playfield for a fresh attempt at the current level.
func (s *Session) resetLevel() {
	s.destroyed = 0
	s.spawned = 0
	s.store.Clear()
	s.store.ResetPlayer()
	s.effects.Clear()
	s.gate.Reset()
}

// enter switches phase. Entering playing (re)arms the scheduler from the
// current level; every other phase stops it.
func (s *Session) enter(phase Phase) {
	from := s.phase
	s.phase = phase

	if phase == PhasePlaying {
		s.sched.Start(s.LevelConfig().SpawnInterval)
	} else {
		s.sched.Stop()
	}

	s.logger.Debug("phase changed",
		"from", from,
		"to", phase,
		"level", s.level,
		"score", s.score,
		"health", s.health,
	)
	s.notify(Event{Type: EventPhaseChanged, Phase: phase, From: from})
}

func (s *Session) notify(e Event) {
	if s.observer != nil {
		s.observer.Notify(e)
	}
}
