package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tetris-duel/internal/core"
	"github.com/vovakirdan/tetris-duel/internal/games/duel"
	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
	"github.com/vovakirdan/tetris-duel/internal/registry"
	"github.com/vovakirdan/tetris-duel/internal/storage"
)

// helpLines is the number of rows reserved below the game screen.
const helpLines = 1

var screenshotKey = key.NewBinding(key.WithKeys("ctrl+s"))

// resultReporter is implemented by games that produce a match outcome.
type resultReporter interface {
	Mode() multiplayer.MatchMode
	Result() (duel.Outcome, bool)
}

// Model is the Bubble Tea model for running one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	record     storage.Standings
	hasRecord  bool
	inSession  bool // running under a SessionModel, Back returns to its menu
	gen        int  // tick generation, see TickMsg
	quitting   bool
	backToMenu bool
	saved      bool // whether the current game over has been recorded
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, keys KeyMap) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-helpLines, 1)),
		store:      store,
		config:     cfg,
		keys:       keys,
		help:       h,
		inputFrame: core.NewInputFrame(),
	}
	m.loadRecord()
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.gen)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Actions are collected until the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, screenshotKey) {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && m.inSession && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
	}

	return m, nil
}

// handleResize processes window resize events. The match keeps running;
// the game draws a notice while the window is too small.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-helpLines, 1))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes one simulation frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	wasOver := m.gameState.GameOver

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// A restart after game over starts a new round to record.
	if wasOver && !m.gameState.GameOver {
		m.saved = false
	}

	if m.gameState.GameOver && !m.saved {
		m.saveRound()
		m.saved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate, m.gen)
}

// saveRound records the finished match. Storage is best effort: the game
// continues regardless.
func (m *Model) saveRound() {
	rep, ok := m.game.(resultReporter)
	if !ok || m.store == nil {
		return
	}
	outcome, done := rep.Result()
	if !done {
		return
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveRound(outcome)
	m.loadRecord()
}

// loadRecord refreshes the session record shown under the boards.
func (m *Model) loadRecord() {
	rep, ok := m.game.(resultReporter)
	if !ok || m.store == nil {
		return
	}
	st, err := m.store.Standings(rep.Mode())
	if err != nil {
		return
	}
	m.record = st
	m.hasRecord = true
}

// saveScreenshot saves the current screen as plain text under the XDG data dir.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path, err := xdg.DataFile(filepath.Join("tetris-duel", "screenshots", name))
	if err != nil {
		return
	}

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// statusLine renders the session record followed by the key help.
func (m Model) statusLine() string {
	line := m.help.View(m.keys)
	if !m.hasRecord || m.record.Rounds == 0 {
		return helpStyle.Render(line)
	}
	r := m.record
	rec := winStyle.Render(fmt.Sprintf("W %d", r.Wins)) + " " +
		lossStyle.Render(fmt.Sprintf("L %d", r.Losses)) + " " +
		helpStyle.Render(fmt.Sprintf("D %d  best %d", r.Draws, r.Best))
	return rec + helpStyle.Render("  |  "+line)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.statusLine()
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, keys KeyMap) error {
	model := NewModel(game, store, cfg, keys)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
