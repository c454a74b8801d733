package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsAndLevel(t *testing.T) {
	tests := []struct {
		lines int
		want  int
	}{
		{0, 0},
		{1, 50},
		{2, 100},
		{3, 200},
		{4, 300},
		{5, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, PointsFor(tc.lines), "lines=%d", tc.lines)
	}

	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(999))
	assert.Equal(t, 2, LevelFor(1000))
	assert.Equal(t, 4, LevelFor(3250))
}

func TestSpawnOOnEmptyBoard(t *testing.T) {
	s := NewState(O).Spawn(T)

	require.True(t, s.HasActive)
	assert.False(t, s.GameOver)
	assert.Equal(t, Piece{Kind: O, Pos: Point{X: 4, Y: 0}}, s.Active)
	assert.Equal(t, T, s.Next)
	assert.Equal(t, 1, s.Level())
}

func TestStackingOTopsOut(t *testing.T) {
	s := NewState(O)
	locks := 0
	for i := 0; i < 50 && !s.GameOver; i++ {
		s = s.Spawn(O)
		if s.GameOver {
			break
		}
		var res LockResult
		s, res = s.Drop()
		require.True(t, res.Locked)
		locks++
	}

	assert.True(t, s.GameOver)
	assert.Equal(t, Height/2, locks)
	assert.False(t, s.HasActive)

	// Game over is sticky.
	s = s.Spawn(O)
	assert.True(t, s.GameOver)
	assert.False(t, s.HasActive)
}

func TestLockSingleLine(t *testing.T) {
	b := mustBoard(t, "ZZZZZZZZZ.")

	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"level 1", 0, 50},
		{"level 2", 1000, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := State{
				Board:     b,
				Active:    Piece{Kind: I, Pos: Point{X: 9, Y: 3}, Rot: 1},
				HasActive: true,
				Score:     tc.score,
			}
			s, res := s.Drop()

			assert.Equal(t, 1, res.Lines)
			assert.Equal(t, tc.want, res.Points)
			assert.Equal(t, tc.score+tc.want, s.Score)
			assert.Len(t, s.Board, Height)
			assert.Equal(t, 3, Filled(s.Board))
			assert.Equal(t, -1, res.ExchangeLine)
			assert.False(t, res.Gift)
		})
	}
}

func TestLockLevelUsesScoreBeforePoints(t *testing.T) {
	b := mustBoard(t, "ZZZZZZZZZ.")
	s := State{
		Board:     b,
		Active:    Piece{Kind: I, Pos: Point{X: 9, Y: 16}, Rot: 1},
		HasActive: true,
		Score:     980,
	}
	s, res := s.Lock()
	assert.Equal(t, 50, res.Points)
	assert.Equal(t, 1030, s.Score)
	assert.Equal(t, 2, s.Level())
}

func TestTwoLinesGift(t *testing.T) {
	b := mustBoard(t,
		"T.........",
		"ZZZZZZZZZ.",
		"T.........",
		"ZZZZZZZZZ.",
	)
	s := State{Board: b, Active: Piece{Kind: I, Pos: Point{X: 9, Y: 16}, Rot: 1}, HasActive: true}
	s, res := s.MoveDown()

	require.True(t, res.Locked)
	assert.Equal(t, 2, res.Lines)
	assert.True(t, res.Gift)
	assert.Equal(t, 100, s.Score)
	assert.Equal(t, -1, res.ExchangeLine)
	assert.Equal(t, 4, Filled(s.Board))
}

func TestAdjacentFullRowsClearOnePerPass(t *testing.T) {
	b := mustBoard(t,
		"..ZZZZZZZZ",
		"..ZZZZZZZZ",
	)
	s := State{Board: b, Active: Piece{Kind: O, Pos: Point{X: 0, Y: 18}}, HasActive: true, Next: O}
	s, res := s.Lock()

	assert.Equal(t, 1, res.Lines)
	assert.False(t, res.Gift)
	assert.Equal(t, 19, FullestLine(s.Board))

	// The surviving row clears on the next lock.
	s = s.Spawn(O)
	s, res = s.Drop()
	assert.Equal(t, 1, res.Lines)
	assert.Equal(t, 100, s.Score)
}

func TestFourLinesExchange(t *testing.T) {
	t.Run("full row survives", func(t *testing.T) {
		b := mustBoard(t,
			"J.........",
			"SSSSSSSSSS",
			"L.........",
			"SSSSSSSSSS",
			"O.........",
			"SSSSSSSSSS",
			"SSSSSSSSSS",
			"SSSSSSSSSS",
		)
		s := State{Board: b, Active: Piece{Kind: O, Pos: Point{X: 6, Y: 0}}, HasActive: true}
		s, res := s.Lock()

		assert.Equal(t, 4, res.Lines)
		assert.Equal(t, 19, res.ExchangeLine)
		assert.False(t, res.Gift)
		assert.Equal(t, 300, s.Score)
	})

	t.Run("no full row left", func(t *testing.T) {
		b := mustBoard(t,
			"SSSSSSSSSS",
			"J.........",
			"SSSSSSSSSS",
			"L.........",
			"SSSSSSSSSS",
			"O.........",
			"SSSSSSSSSS",
		)
		s := State{Board: b, Active: Piece{Kind: O, Pos: Point{X: 6, Y: 0}}, HasActive: true}
		s, res := s.Lock()

		assert.Equal(t, 4, res.Lines)
		assert.Equal(t, -1, res.ExchangeLine)
		assert.Equal(t, -1, FullestLine(s.Board))
	})

	t.Run("three lines never exchange", func(t *testing.T) {
		b := mustBoard(t,
			"TTTTTTTTTT",
			"J.........",
			"TTTTTTTTTT",
			"L.........",
			"TTTTTTTTTT",
		)
		s := State{Board: b, Active: Piece{Kind: O, Pos: Point{X: 6, Y: 0}}, HasActive: true}
		_, res := s.Lock()

		assert.Equal(t, 3, res.Lines)
		assert.Equal(t, 200, res.Points)
		assert.Equal(t, -1, res.ExchangeLine)
		assert.False(t, res.Gift)
	})
}

func TestMoveHorizontal(t *testing.T) {
	s := NewState(O).Spawn(O)

	moved := s.MoveHorizontal(-1)
	assert.Equal(t, 3, moved.Active.Pos.X)

	// Unchanged receiver.
	assert.Equal(t, 4, s.Active.Pos.X)

	for i := 0; i < 10; i++ {
		s = s.MoveHorizontal(1)
	}
	assert.Equal(t, Width-2, s.Active.Pos.X)
}

func TestCommandsIgnoredWhenNotLive(t *testing.T) {
	live := NewState(T).Spawn(T)

	tests := []struct {
		name string
		s    State
	}{
		{"no active piece", NewState(T)},
		{"paused", live.WithPaused(true)},
		{"game over", func() State { s := live; s.GameOver = true; return s }()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.s, tc.s.MoveHorizontal(1))
			assert.Equal(t, tc.s, tc.s.Rotate())
			got, res := tc.s.MoveDown()
			assert.Equal(t, tc.s, got)
			assert.False(t, res.Locked)
		})
	}
}

func TestRotate(t *testing.T) {
	t.Run("in place", func(t *testing.T) {
		s := NewState(T).Spawn(T).Rotate()
		assert.Equal(t, Rotation(1), s.Active.Rot)
		assert.Equal(t, SpawnPoint, s.Active.Pos)
	})

	t.Run("kick prefers closer and left", func(t *testing.T) {
		s := State{Active: Piece{Kind: I, Pos: Point{X: 8, Y: 5}, Rot: 1}, HasActive: true}
		s = s.Rotate()
		assert.Equal(t, Rotation(2), s.Active.Rot)
		assert.Equal(t, 6, s.Active.Pos.X)
	})

	t.Run("kick one left", func(t *testing.T) {
		s := State{Active: Piece{Kind: T, Pos: Point{X: 8, Y: 5}, Rot: 1}, HasActive: true}
		s = s.Rotate()
		assert.Equal(t, Rotation(2), s.Active.Rot)
		assert.Equal(t, 7, s.Active.Pos.X)
	})

	t.Run("rejected in a shaft", func(t *testing.T) {
		rows := make([]string, 15)
		for i := range rows {
			rows[i] = "TTTT.TTTTT"
		}
		s := State{
			Board:     mustBoard(t, rows...),
			Active:    Piece{Kind: I, Pos: Point{X: 4, Y: 10}, Rot: 1},
			HasActive: true,
		}
		assert.Equal(t, s, s.Rotate())
	})

	t.Run("four rotations return home", func(t *testing.T) {
		s := NewState(L).Spawn(L).MoveHorizontal(-1)
		start := s.Active
		for i := 0; i < 4; i++ {
			s = s.Rotate()
		}
		assert.Equal(t, start, s.Active)
	})
}

func TestExchangeWith(t *testing.T) {
	b := mustBoard(t,
		"J.........",
		"SSSSSSSSSS",
	)
	s := State{Board: b}

	got := s.ExchangeWith(19)
	assert.True(t, RowEmpty(got.Board, 19))
	assert.True(t, RowFull(got.Board, 17))

	assert.Equal(t, s, s.ExchangeWith(-1))
	assert.Equal(t, s, s.ExchangeWith(Height))

	var full Board
	for y := range full {
		full[y][3] = Z
	}
	s = State{Board: full}
	assert.Equal(t, s, s.ExchangeWith(4))
}

func TestGhost(t *testing.T) {
	s := NewState(O).Spawn(O)
	at, ok := s.Ghost()
	require.True(t, ok)
	assert.Equal(t, Point{X: 4, Y: 18}, at)

	_, ok = NewState(O).Ghost()
	assert.False(t, ok)
}
