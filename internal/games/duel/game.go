// Package duel runs two tetris boards side by side, one driven by the player
// (or a planner in demo mode) and one by the planner, coupled through a
// multiplayer.Mediator. Time is virtual: every Step advances the match clock
// by one frame, so a run is fully determined by its seed and input.
package duel

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetris-duel/internal/core"
	"github.com/vovakirdan/tetris-duel/internal/games/tetris"
	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
	"github.com/vovakirdan/tetris-duel/internal/registry"
)

// Slowdown rules.
const (
	SlowdownStep   = 200              // every multiple of this score engages a slowdown
	SlowdownWindow = 10 * time.Second // how long a slowdown lasts
)

// Scheduler divisors: the planner board ticks twice as often as the player board.
const (
	humanDivisor = 1
	cpuDivisor   = 2
)

// maxCatchUp bounds how many engine ticks one frame may run.
const maxCatchUp = 4

// Package-level settings applied to every new Game.
var (
	pkgLogger = log.New(io.Discard)
	pkgTheme  = DefaultTheme()
)

// SetLogger sets the logger used by games created afterwards.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	pkgLogger = l
}

// SetTheme sets the colors and glyph used by games created afterwards.
func SetTheme(t Theme) {
	pkgTheme = t
}

// side is one board plus its scheduler.
type side struct {
	id      multiplayer.PlayerID
	label   string
	engine  *tetris.Engine
	planner *tetris.Planner // nil for a human board
	divisor int

	armed bool
	due   time.Duration
	score int // score seen at the end of the previous frame
}

func (s *side) arm(now time.Duration) {
	s.armed = true
	s.due = now + s.engine.Interval(s.divisor)
}

func (s *side) cancel() {
	s.armed = false
}

// Game implements registry.Game for a two-board match.
type Game struct {
	mode    multiplayer.MatchMode
	runtime core.RuntimeConfig
	frame   time.Duration
	rng     *rand.Rand
	logger  *log.Logger
	theme   Theme

	bus   *multiplayer.Mediator
	sides [2]*side

	matchID   multiplayer.MatchID
	now       time.Duration
	ticks     int
	slowUntil time.Duration
	slowOn    bool

	paused bool
	over   bool
	result Outcome
}

// New creates a player vs CPU duel.
func New() *Game {
	return &Game{mode: multiplayer.MatchModeVsCPU}
}

// NewDemo creates a CPU vs CPU match.
func NewDemo() *Game {
	return &Game{mode: multiplayer.MatchModeCPUvsCPU}
}

func init() {
	registry.Register("duel", func() registry.Game {
		return New()
	})
	registry.Register("demo", func() registry.Game {
		return NewDemo()
	})
}

// ID returns the registry identifier.
func (g *Game) ID() string {
	if g.mode == multiplayer.MatchModeCPUvsCPU {
		return "demo"
	}
	return "duel"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == multiplayer.MatchModeCPUvsCPU {
		return "Tetris Duel: CPU vs CPU"
	}
	return "Tetris Duel: You vs CPU"
}

// Mode returns who drives each board.
func (g *Game) Mode() multiplayer.MatchMode {
	return g.mode
}

// Reset builds both boards from scratch.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	g.runtime = cfg
	g.frame = time.Second / time.Duration(cfg.TickRate)
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.logger = pkgLogger
	g.theme = pkgTheme

	g.bus = multiplayer.NewMediator(g.logger)
	g.sides[0] = g.newSide(multiplayer.Player1, g.mode == multiplayer.MatchModeCPUvsCPU)
	g.sides[1] = g.newSide(multiplayer.Player2, true)

	g.restart()
}

func (g *Game) newSide(id multiplayer.PlayerID, cpu bool) *side {
	s := &side{id: id, divisor: humanDivisor, label: "YOU"}
	var driver tetris.Driver = tetris.Gravity{}
	if cpu {
		s.planner = tetris.NewPlanner()
		s.divisor = cpuDivisor
		s.label = "CPU"
		if g.mode == multiplayer.MatchModeCPUvsCPU {
			s.label = "CPU " + id.String()
		}
		driver = s.planner
	}
	s.engine = tetris.NewEngine(tetris.EngineConfig{
		ID:        id,
		Rand:      rand.New(rand.NewSource(g.rng.Int63())),
		Publisher: g.bus,
		Inbox:     g.bus.Attach(id, 0),
		Driver:    driver,
		Logger:    g.logger,
	})
	return s
}

// restart resets both engines, the mediator and every timer.
func (g *Game) restart() {
	g.bus.Reset()
	for _, s := range g.sides {
		s.engine.Reset()
		s.score = 0
	}
	g.matchID = multiplayer.NewMatchID()
	g.now = 0
	g.ticks = 0
	g.slowUntil = 0
	g.slowOn = false
	g.paused = false
	g.over = false
	g.result = Outcome{}
	for _, s := range g.sides {
		s.arm(g.now)
	}
	g.logger.Info("match started", "match", g.matchID.Short(), "mode", g.mode)
}

// Step advances the match by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.over {
		if in.Has(core.ActionRestart) {
			g.restart()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.restart()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.SetPaused(!g.paused)
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.ticks++
	g.now += g.frame

	for _, s := range g.sides {
		s.engine.HandleSignals()
	}

	if g.mode == multiplayer.MatchModeVsCPU {
		g.applyInput(g.sides[0].engine, in)
	}

	for _, s := range g.sides {
		for i := 0; i < maxCatchUp && s.armed && g.now >= s.due; i++ {
			s.engine.Tick()
			s.arm(s.due)
		}
	}

	g.updateSlowdown()
	g.checkGameOver()

	return core.StepResult{State: g.State()}
}

func (g *Game) applyInput(e *tetris.Engine, in core.InputFrame) {
	if in.Has(core.ActionRotate) {
		e.Rotate()
	}
	if in.Has(core.ActionLeft) {
		e.MoveHorizontal(-1)
	}
	if in.Has(core.ActionRight) {
		e.MoveHorizontal(1)
	}
	if in.Has(core.ActionDown) {
		e.MoveDown()
	}
}

// updateSlowdown engages the slowdown when a score crosses a multiple of
// SlowdownStep and lifts it when the window runs out. A new crossing while
// the slowdown is on extends the window.
func (g *Game) updateSlowdown() {
	for _, s := range g.sides {
		score := s.engine.State().Score
		if score/SlowdownStep > s.score/SlowdownStep {
			g.slowUntil = g.now + SlowdownWindow
			if !g.slowOn {
				g.slowOn = true
				g.bus.Publish(multiplayer.SpeedChange{Slowdown: true})
				g.logger.Info("slowdown engaged", "player", s.id, "score", score)
			}
		}
		s.score = score
	}

	if g.slowOn && g.now >= g.slowUntil {
		g.slowOn = false
		g.bus.Publish(multiplayer.SpeedChange{Slowdown: false})
		g.logger.Info("slowdown lifted")
	}
}

func (g *Game) checkGameOver() {
	for _, s := range g.sides {
		if s.engine.State().GameOver {
			g.finish(multiplayer.EndReasonTopOut)
			return
		}
	}
}

// Stop ends the match early, for example when a headless run hits its frame cap.
func (g *Game) Stop(reason multiplayer.MatchEndReason) {
	if !g.over {
		g.finish(reason)
	}
}

// finish freezes both boards and records the outcome.
func (g *Game) finish(reason multiplayer.MatchEndReason) {
	g.over = true
	for _, s := range g.sides {
		s.engine.SetPaused(true)
		s.cancel()
	}
	g.result = g.outcome(reason)
	g.logger.Info("match over",
		"match", g.matchID.Short(),
		"reason", reason,
		"winner", g.result.Winner,
		"p1", g.result.Scores[0],
		"p2", g.result.Scores[1],
	)
}

// SetPaused pauses or resumes both boards. Pausing cancels the pending
// ticks; resuming re-arms them from the current time.
func (g *Game) SetPaused(p bool) {
	if g.over || g.paused == p {
		return
	}
	g.paused = p
	for _, s := range g.sides {
		s.engine.SetPaused(p)
		if p {
			s.cancel()
		} else {
			s.arm(g.now)
		}
	}
}

// Engine returns the engine of the given side, or nil.
func (g *Game) Engine(id multiplayer.PlayerID) *tetris.Engine {
	for _, s := range g.sides {
		if s != nil && s.id == id {
			return s.engine
		}
	}
	return nil
}

// Over reports whether the match has ended.
func (g *Game) Over() bool {
	return g.over
}

// Result returns the outcome of a finished match.
func (g *Game) Result() (Outcome, bool) {
	return g.result, g.over
}

// Elapsed returns the virtual time since the match started.
func (g *Game) Elapsed() time.Duration {
	return g.now
}

// SlowdownLeft returns the remaining slowdown time, or zero.
func (g *Game) SlowdownLeft() time.Duration {
	if !g.slowOn {
		return 0
	}
	return g.slowUntil - g.now
}

// State reports the left board's score with the match flags.
func (g *Game) State() core.GameState {
	score := 0
	if g.sides[0] != nil {
		score = g.sides[0].engine.State().Score
	}
	return core.GameState{
		Score:    score,
		GameOver: g.over,
		Paused:   g.paused,
	}
}
