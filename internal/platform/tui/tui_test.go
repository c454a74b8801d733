package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetris-duel/internal/config"
	"github.com/vovakirdan/tetris-duel/internal/core"
	"github.com/vovakirdan/tetris-duel/internal/games/duel"
	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
	"github.com/vovakirdan/tetris-duel/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKeyMapDefaults(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"a", runes("a"), core.ActionLeft},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{"l", runes("l"), core.ActionRight},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown},
		{"arrow up rotates", tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotate},
		{"w", runes("w"), core.ActionRotate},
		{"p", runes("p"), core.ActionPause},
		{"r", runes("r"), core.ActionRestart},
		{"b", runes("b"), core.ActionBack},
		{"q", runes("q"), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runes("z"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, km.MapKey(tt.msg))
		})
	}
}

func TestKeyMapFromConfig(t *testing.T) {
	keys := config.Default().Keys
	keys.Left = []string{"X"}
	keys.Rotate = []string{"space"}
	km := NewKeyMap(keys)

	assert.Equal(t, core.ActionLeft, km.MapKey(runes("x")))
	assert.Equal(t, core.ActionNone, km.MapKey(runes("a")), "default binding replaced")
	assert.Equal(t, []string{" "}, km.Rotate.Keys())
	assert.Equal(t, "space", km.Rotate.Help().Key)
}

func TestMapKeyToFrame(t *testing.T) {
	km := DefaultKeyMap()
	frame := core.NewInputFrame()

	assert.False(t, km.MapKeyToFrame(runes("a"), &frame))
	assert.False(t, km.MapKeyToFrame(runes("w"), &frame))
	assert.True(t, frame.Has(core.ActionLeft))
	assert.True(t, frame.Has(core.ActionRotate))

	assert.True(t, km.MapKeyToFrame(runes("q"), &frame))
	assert.False(t, frame.Has(core.ActionQuit))
}

func TestModelRecordsFinishedRound(t *testing.T) {
	store := testStore(t)
	game := duel.New()
	m := NewModel(game, store, testConfig(), DefaultKeyMap())
	require.NotNil(t, m.Init())

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	assert.NotNil(t, cmd, "ticking continues")
	assert.Positive(t, game.Elapsed())
	assert.False(t, m.gameState.GameOver)

	game.Stop(multiplayer.EndReasonTickLimit)
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	assert.True(t, m.gameState.GameOver)
	assert.True(t, m.saved)

	// A second frame after game over must not record the round again.
	next, _ = m.Update(TickMsg{})
	m = next.(Model)

	rounds, err := store.RecentRounds(10)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, multiplayer.EndReasonTickLimit, rounds[0].Reason)
	assert.True(t, m.hasRecord)
	assert.Equal(t, 1, m.record.Rounds)
	assert.Contains(t, m.statusLine(), "D 1")
}

func TestModelIgnoresStaleTicks(t *testing.T) {
	game := duel.New()
	m := NewModel(game, nil, testConfig(), DefaultKeyMap())
	m.Init()

	next, cmd := m.Update(TickMsg{Gen: 3})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Zero(t, game.Elapsed())

	m.Update(TickMsg{})
	assert.Positive(t, game.Elapsed())
}

func TestModelWithoutStore(t *testing.T) {
	game := duel.New()
	m := NewModel(game, nil, testConfig(), DefaultKeyMap())
	m.Init()

	game.Stop(multiplayer.EndReasonTickLimit)
	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	assert.True(t, m.gameState.GameOver)
	assert.False(t, m.hasRecord)
}

func TestModelQuit(t *testing.T) {
	m := NewModel(duel.New(), nil, testConfig(), DefaultKeyMap())
	m.Init()

	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	assert.True(t, m.IsQuitting())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestModelView(t *testing.T) {
	m := NewModel(duel.New(), nil, testConfig(), DefaultKeyMap())
	m.Init()

	next, _ := m.Update(TickMsg{})
	m = next.(Model)
	view := m.View()
	assert.Contains(t, view, "SCORE")
	assert.Contains(t, view, "rotate")
}

func TestModelResizeKeepsMatch(t *testing.T) {
	game := duel.New()
	m := NewModel(game, nil, testConfig(), DefaultKeyMap())
	m.Init()
	m.Update(TickMsg{})
	elapsed := game.Elapsed()

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	assert.Equal(t, 100, m.screen.Width())
	assert.Equal(t, 30-helpLines, m.screen.Height())
	assert.Equal(t, elapsed, game.Elapsed())
}

func TestMenuItemsOrder(t *testing.T) {
	items := MenuItems()
	require.Len(t, items, 2)
	assert.Equal(t, "duel", items[0].GameID)
	assert.Equal(t, multiplayer.MatchModeVsCPU, items[0].Mode)
	assert.Equal(t, "demo", items[1].GameID)
	assert.Equal(t, multiplayer.MatchModeCPUvsCPU, items[1].Mode)
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(nil, testConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	assert.Equal(t, 1, m.cursor, "cursor stops at the last item")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	require.NotNil(t, m.Selected())
	assert.Equal(t, "demo", m.Selected().GameID)
}

func session(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	s, ok := next.(SessionModel)
	require.True(t, ok)
	return s
}

func TestSessionGameAndBack(t *testing.T) {
	store := testStore(t)
	m := NewSessionModel(store, testConfig(), DefaultKeyMap())

	m = session(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, screenGame, m.current)
	assert.Equal(t, 1, m.game.gen)

	// Back only works once the match is paused or over.
	m = session(t, m, runes("b"))
	assert.Equal(t, screenGame, m.current)

	m = session(t, m, runes("p"))
	m = session(t, m, TickMsg{Gen: 1})
	require.True(t, m.game.gameState.Paused)

	m = session(t, m, runes("b"))
	assert.Equal(t, screenMenu, m.current)

	// A tick left over from the abandoned game is harmless.
	m = session(t, m, TickMsg{Gen: 1})
	assert.Equal(t, screenMenu, m.current)

	m = session(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, m.game.gen)
}

func TestSessionHistory(t *testing.T) {
	m := NewSessionModel(testStore(t), testConfig(), DefaultKeyMap())

	m = session(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, screenHistory, m.current)
	assert.Contains(t, m.View(), "ROUND HISTORY")
	assert.Contains(t, m.View(), "No rounds played yet")

	m = session(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenMenu, m.current)
}

func TestSessionQuit(t *testing.T) {
	m := NewSessionModel(nil, testConfig(), DefaultKeyMap())

	next, cmd := m.Update(runes("q"))
	s := next.(SessionModel)
	assert.True(t, s.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, s.View())
}

func TestHistoryRows(t *testing.T) {
	store := testStore(t)
	_, err := store.SaveRound(duel.Outcome{
		MatchID: "abcdef0123",
		Mode:    multiplayer.MatchModeVsCPU,
		Winner:  multiplayer.Player2,
		Scores:  [2]int{50, 300},
		Lines:   [2]int{1, 5},
	})
	require.NoError(t, err)
	_, err = store.SaveRound(duel.Outcome{
		MatchID: "demo-1",
		Mode:    multiplayer.MatchModeCPUvsCPU,
		Winner:  multiplayer.Player1,
	})
	require.NoError(t, err)

	h := NewHistoryModel(store, 100, 30)
	require.Len(t, h.rounds, 2)

	rows := h.table.Rows()
	assert.Equal(t, "demo-1", rows[0][0])
	assert.Equal(t, "P1", rows[0][2])
	assert.Equal(t, "abcdef01", rows[1][0])
	assert.Equal(t, "CPU", rows[1][2])
	assert.Equal(t, "50-300", rows[1][3])

	next, _ := h.Update(tea.KeyMsg{Type: tea.KeyTab})
	h = next.(HistoryModel)
	require.Len(t, h.rounds, 1, "vs CPU filter")
	assert.Equal(t, "abcdef0123", h.rounds[0].MatchID)
}

func TestWinnerLabel(t *testing.T) {
	assert.Equal(t, "Draw", winnerLabel(multiplayer.MatchModeVsCPU, 0))
	assert.Equal(t, "You", winnerLabel(multiplayer.MatchModeVsCPU, multiplayer.Player1))
	assert.Equal(t, "CPU", winnerLabel(multiplayer.MatchModeVsCPU, multiplayer.Player2))
	assert.Equal(t, "P2", winnerLabel(multiplayer.MatchModeCPUvsCPU, multiplayer.Player2))
	assert.Equal(t, "1:05", formatDuration(65))
}
