package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
	"github.com/vovakirdan/tetris-duel/internal/storage"
)

// maxRounds bounds how many rounds the history loads.
const maxRounds = 100

// historyFilters are the views cycled with the history key.
var historyFilters = []struct {
	title string
	mode  multiplayer.MatchMode
	all   bool
}{
	{title: "All rounds", all: true},
	{title: multiplayer.MatchModeVsCPU.String(), mode: multiplayer.MatchModeVsCPU},
	{title: multiplayer.MatchModeCPUvsCPU.String(), mode: multiplayer.MatchModeCPUvsCPU},
}

// HistoryModel is the Bubble Tea model for the round history screen.
type HistoryModel struct {
	store     *storage.Store
	rounds    []storage.Round
	filter    int
	table     table.Model
	help      help.Model
	keys      MenuKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.Width = width

	m := HistoryModel{
		store:  store,
		keys:   DefaultMenuKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadRounds()
	return m
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Match", Width: 9},
		{Title: "Mode", Width: 11},
		{Title: "Winner", Width: 7},
		{Title: "Score", Width: 11},
		{Title: "Lines", Width: 7},
		{Title: "G/E", Width: 7},
		{Title: "Time", Width: 6},
		{Title: "End", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRounds reloads the rounds matching the current filter.
func (m *HistoryModel) loadRounds() {
	m.rounds = nil
	if m.store != nil {
		rounds, err := m.store.RecentRounds(maxRounds)
		if err == nil {
			f := historyFilters[m.filter]
			for _, r := range rounds {
				if f.all || r.Mode == f.mode {
					m.rounds = append(m.rounds, r)
				}
			}
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded rounds.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.rounds))
	for i, r := range m.rounds {
		rows[i] = table.Row{
			multiplayer.MatchID(r.MatchID).Short(),
			r.Mode.String(),
			winnerLabel(r.Mode, r.Winner),
			fmt.Sprintf("%d-%d", r.Score1, r.Score2),
			fmt.Sprintf("%d-%d", r.Lines1, r.Lines2),
			fmt.Sprintf("%d/%d", r.Gifts1+r.Gifts2, r.Exch1+r.Exch2),
			formatDuration(r.Duration.Seconds()),
			r.Reason.String(),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// winnerLabel names the winning side from the local player's point of view.
func winnerLabel(mode multiplayer.MatchMode, w multiplayer.PlayerID) string {
	switch {
	case w == 0:
		return "Draw"
	case mode == multiplayer.MatchModeVsCPU && w == multiplayer.Player1:
		return "You"
	case mode == multiplayer.MatchModeVsCPU:
		return "CPU"
	default:
		return w.String()
	}
}

func formatDuration(secs float64) string {
	s := int(secs)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.History):
			m.filter = (m.filter + 1) % len(historyFilters)
			m.loadRounds()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("ROUND HISTORY - %s", historyFilters[m.filter].title)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.standingsLine(), m.width))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render(m.renderTableContent()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(historyHelp{m.keys})))

	return b.String()
}

// standingsLine summarizes the player's record against the CPU.
func (m HistoryModel) standingsLine() string {
	if m.store == nil {
		return "History unavailable"
	}
	st, err := m.store.Standings(multiplayer.MatchModeVsCPU)
	if err != nil {
		return "History unavailable"
	}
	return fmt.Sprintf("You vs CPU: %d played, %s, %s, %d drawn, best %d",
		st.Rounds,
		winStyle.Render(fmt.Sprintf("%d won", st.Wins)),
		lossStyle.Render(fmt.Sprintf("%d lost", st.Losses)),
		st.Draws, st.Best)
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.rounds) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No rounds played yet.\nFinish a match to see it here!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// historyHelp relabels the menu bindings for the history screen.
type historyHelp struct {
	keys MenuKeyMap
}

func (h historyHelp) ShortHelp() []key.Binding {
	filter := h.keys.History
	filter.SetHelp(filter.Help().Key, "filter")
	return []key.Binding{h.keys.Up, h.keys.Down, filter, h.keys.Back, h.keys.Quit}
}

func (h historyHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
