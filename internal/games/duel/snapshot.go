package duel

import (
	"time"

	"github.com/vovakirdan/tetris-duel/internal/games/tetris"
	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
)

// Outcome summarizes a finished match.
type Outcome struct {
	MatchID   multiplayer.MatchID
	Mode      multiplayer.MatchMode
	Reason    multiplayer.MatchEndReason
	Winner    multiplayer.PlayerID // 0 on a draw
	Scores    [2]int
	Lines     [2]int
	Pieces    [2]int
	Gifts     [2]int // gifts sent by each side
	Exchanges [2]int // exchanges sent by each side
	Ticks     int
	Duration  time.Duration
}

// Draw reports whether both sides finished level.
func (o Outcome) Draw() bool {
	return o.Winner == 0
}

func (g *Game) outcome(reason multiplayer.MatchEndReason) Outcome {
	st := g.bus.Stats()
	o := Outcome{
		MatchID:  g.matchID,
		Mode:     g.mode,
		Reason:   reason,
		Ticks:    g.ticks,
		Duration: g.now,
	}
	for i, s := range g.sides {
		es := s.engine.State()
		o.Scores[i] = es.Score
		o.Lines[i] = es.Lines
		o.Pieces[i] = es.Pieces
		o.Gifts[i] = st.Gifts[s.id]
		o.Exchanges[i] = st.Exchanges[s.id]
	}
	switch {
	case o.Scores[0] > o.Scores[1]:
		o.Winner = multiplayer.Player1
	case o.Scores[1] > o.Scores[0]:
		o.Winner = multiplayer.Player2
	}
	return o
}

// BoardSnapshot is a read-only view of one side.
type BoardSnapshot struct {
	Player    multiplayer.PlayerID
	Label     string
	Board     tetris.Board
	Active    tetris.Piece
	HasActive bool
	Ghost     tetris.Point
	Next      tetris.Kind
	Score     int
	Level     int
	Lines     int
	GameOver  bool
	Slowdown  bool
}

// Snapshot is a read-only view of the whole match.
type Snapshot struct {
	MatchID      multiplayer.MatchID
	Mode         multiplayer.MatchMode
	Tick         int
	Elapsed      time.Duration
	Boards       [2]BoardSnapshot
	Paused       bool
	Over         bool
	SlowdownLeft time.Duration
	Result       Outcome
}

// Snapshot captures the current state of both boards.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		MatchID:      g.matchID,
		Mode:         g.mode,
		Tick:         g.ticks,
		Elapsed:      g.now,
		Paused:       g.paused,
		Over:         g.over,
		SlowdownLeft: g.SlowdownLeft(),
		Result:       g.result,
	}
	for i, s := range g.sides {
		if s == nil {
			continue
		}
		es := s.engine.State()
		ghost, _ := es.Ghost()
		snap.Boards[i] = BoardSnapshot{
			Player:    s.id,
			Label:     s.label,
			Board:     es.Board,
			Active:    es.Active,
			HasActive: es.HasActive,
			Ghost:     ghost,
			Next:      es.Next,
			Score:     es.Score,
			Level:     es.Level(),
			Lines:     es.Lines,
			GameOver:  es.GameOver,
			Slowdown:  s.engine.Slowdown(),
		}
	}
	return snap
}
