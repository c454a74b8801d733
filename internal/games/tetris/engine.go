package tetris

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
)

// BaseTick is the gravity interval at level 1 without slowdown.
const BaseTick = time.Second

// SlowdownFactor stretches every tick interval while a slowdown is active.
const SlowdownFactor = 1.25

// Publisher receives the signals an engine emits.
type Publisher interface {
	Publish(s multiplayer.Signal) int
}

// Driver advances an engine by one scheduling tick once a piece is active.
type Driver interface {
	Drive(e *Engine)
}

// Gravity is the Driver of a human-controlled board: one row per tick.
type Gravity struct{}

// Drive moves the active piece down one row.
func (Gravity) Drive(e *Engine) {
	e.MoveDown()
}

// EngineConfig configures a new Engine.
type EngineConfig struct {
	ID        multiplayer.PlayerID
	Rand      *rand.Rand            // seeded from the clock when nil
	Publisher Publisher             // may be nil for a standalone board
	Inbox     *multiplayer.Inbox    // may be nil for a standalone board
	Driver    Driver                // Gravity when nil
	Draw      func(*rand.Rand) Kind // next-piece source; uniform over Kinds when nil
	Logger    *log.Logger
}

// Engine owns one board. Commands and ticks replace the current State with the
// next one computed by the pure State transitions; signals from the other board
// are queued in the inbox and applied at the start of the next Tick.
type Engine struct {
	id       multiplayer.PlayerID
	state    State
	rng      *rand.Rand
	draw     func(*rand.Rand) Kind
	bus      Publisher
	inbox    *multiplayer.Inbox
	driver   Driver
	slowdown bool
	logger   *log.Logger
}

// NewEngine creates an engine with an empty board.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		id:     cfg.ID,
		rng:    cfg.Rand,
		draw:   cfg.Draw,
		bus:    cfg.Publisher,
		inbox:  cfg.Inbox,
		driver: cfg.Driver,
		logger: cfg.Logger,
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.draw == nil {
		e.draw = RandomKind
	}
	if e.driver == nil {
		e.driver = Gravity{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.state = NewState(e.draw(e.rng))
	return e
}

// RandomKind draws uniformly from the seven kinds.
func RandomKind(rng *rand.Rand) Kind {
	return Kinds[rng.Intn(len(Kinds))]
}

// RandomEasyKind draws uniformly from the easy kinds.
func RandomEasyKind(rng *rand.Rand) Kind {
	return EasyKinds[rng.Intn(len(EasyKinds))]
}

// ID returns the side this engine plays.
func (e *Engine) ID() multiplayer.PlayerID {
	return e.id
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// SetState replaces the current state. Intended for scenario setup.
func (e *Engine) SetState(s State) {
	e.state = s
}

// Slowdown reports whether the global slowdown is applied to this engine.
func (e *Engine) Slowdown() bool {
	return e.slowdown
}

// Interval returns the delay until the next tick for a scheduler that runs
// divisor times faster than the base gravity.
func (e *Engine) Interval(divisor int) time.Duration {
	if divisor < 1 {
		divisor = 1
	}
	d := float64(BaseTick) / float64(divisor*e.state.Level())
	if e.slowdown {
		d *= SlowdownFactor
	}
	return time.Duration(d)
}

// HandleSignals applies every queued signal and returns how many were applied.
func (e *Engine) HandleSignals() int {
	if e.inbox == nil {
		return 0
	}
	n := 0
	for _, s := range e.inbox.Drain() {
		if e.Apply(s) {
			n++
		}
	}
	return n
}

// Apply reacts to one signal. Signals this engine emitted itself are ignored.
func (e *Engine) Apply(s multiplayer.Signal) bool {
	if from := multiplayer.Sender(s); from != 0 && from == e.id {
		return false
	}
	switch v := s.(type) {
	case multiplayer.SpeedChange:
		e.slowdown = v.Slowdown
	case multiplayer.GiftPiece:
		e.state = e.state.ForceNext(RandomEasyKind(e.rng))
		e.logger.Debug("gift received", "player", e.id, "next", e.state.Next)
	case multiplayer.ExchangeLines:
		e.state = e.state.ExchangeWith(v.Line)
		e.logger.Debug("exchange received", "player", e.id, "line", v.Line)
	default:
		return false
	}
	return true
}

// Tick is one scheduling opportunity: pending signals are applied, then a piece
// is spawned if none is active, otherwise the driver moves it.
func (e *Engine) Tick() {
	e.HandleSignals()
	if e.state.GameOver || e.state.Paused {
		return
	}
	if !e.state.HasActive {
		e.spawn()
		return
	}
	e.driver.Drive(e)
}

func (e *Engine) spawn() {
	e.state = e.state.Spawn(e.draw(e.rng))
	if e.state.GameOver {
		e.logger.Info("board topped out", "player", e.id, "score", e.state.Score)
	}
}

// MoveHorizontal shifts the active piece; rejected moves are no-ops.
func (e *Engine) MoveHorizontal(dir int) {
	e.state = e.state.MoveHorizontal(dir)
}

// Rotate turns the active piece clockwise with wall kicks.
func (e *Engine) Rotate() {
	e.state = e.state.Rotate()
}

// MoveDown drops the active piece one row, locking it on contact and
// emitting the cross-board signal the clear earned.
func (e *Engine) MoveDown() LockResult {
	next, res := e.state.MoveDown()
	e.state = next
	if res.Locked {
		e.afterLock(res)
	}
	return res
}

func (e *Engine) afterLock(res LockResult) {
	if res.Lines > 0 {
		e.logger.Debug("lines cleared", "player", e.id, "lines", res.Lines, "points", res.Points, "score", e.state.Score)
	}
	if e.bus == nil {
		return
	}
	if res.Gift {
		e.bus.Publish(multiplayer.GiftPiece{From: e.id})
	}
	if res.ExchangeLine >= 0 {
		e.bus.Publish(multiplayer.ExchangeLines{From: e.id, Line: res.ExchangeLine})
	}
}

// SetPaused sets the paused flag. Game over stays readable while paused.
func (e *Engine) SetPaused(p bool) {
	e.state = e.state.WithPaused(p)
}

// TogglePause flips the paused flag.
func (e *Engine) TogglePause() {
	e.SetPaused(!e.state.Paused)
}

// Reset starts a fresh game: empty board, new next piece, flags cleared and
// any queued signal discarded.
func (e *Engine) Reset() {
	if e.inbox != nil {
		e.inbox.Clear()
	}
	e.slowdown = false
	e.state = NewState(e.draw(e.rng))
}
