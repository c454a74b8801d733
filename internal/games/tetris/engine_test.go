package tetris

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
)

type duelPair struct {
	bus    *multiplayer.Mediator
	p1, p2 *Engine
}

func newPair(t *testing.T) duelPair {
	t.Helper()
	bus := multiplayer.NewMediator(nil)
	mk := func(id multiplayer.PlayerID, seed int64) *Engine {
		return NewEngine(EngineConfig{
			ID:        id,
			Rand:      rand.New(rand.NewSource(seed)),
			Publisher: bus,
			Inbox:     bus.Attach(id, 0),
		})
	}
	return duelPair{bus: bus, p1: mk(multiplayer.Player1, 1), p2: mk(multiplayer.Player2, 2)}
}

func TestEngineTickSpawnsThenFalls(t *testing.T) {
	e := NewEngine(EngineConfig{ID: 1, Rand: rand.New(rand.NewSource(7))})
	next := e.State().Next

	e.Tick()
	s := e.State()
	require.True(t, s.HasActive)
	assert.Equal(t, next, s.Active.Kind)
	assert.Equal(t, SpawnPoint, s.Active.Pos)

	e.Tick()
	assert.Equal(t, 1, e.State().Active.Pos.Y)
}

func TestEngineTopsOutWithOnlyO(t *testing.T) {
	e := NewEngine(EngineConfig{
		ID:   1,
		Rand: rand.New(rand.NewSource(1)),
		Draw: func(*rand.Rand) Kind { return O },
	})
	for i := 0; i < 1000 && !e.State().GameOver; i++ {
		e.Tick()
	}

	s := e.State()
	require.True(t, s.GameOver)
	assert.Equal(t, Height/2, s.Pieces)

	e.Tick()
	e.MoveHorizontal(-1)
	e.Rotate()
	assert.Equal(t, s, e.State())
}

func TestEngineGiftReachesOtherBoardOnly(t *testing.T) {
	d := newPair(t)

	b := mustBoard(t,
		"T.........",
		"ZZZZZZZZZ.",
		"T.........",
		"ZZZZZZZZZ.",
	)
	d.p1.SetState(State{Board: b, Active: Piece{Kind: I, Pos: Point{X: 9, Y: 16}, Rot: 1}, HasActive: true, Next: T})
	d.p2.SetState(d.p2.State().ForceNext(T))

	res := d.p1.MoveDown()
	require.True(t, res.Gift)

	// Not applied until the receiver's next scheduling opportunity.
	assert.Equal(t, T, d.p2.State().Next)
	assert.Equal(t, 1, d.p2.HandleSignals())
	assert.Contains(t, []Kind{O, I}, d.p2.State().Next)

	assert.Zero(t, d.p1.HandleSignals())
	assert.Equal(t, T, d.p1.State().Next)
	assert.Equal(t, 1, d.bus.Stats().Gifts[multiplayer.Player1])
}

func TestEngineExchangeFlow(t *testing.T) {
	d := newPair(t)

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
	d.p2.SetState(State{Board: b, Active: Piece{Kind: O, Pos: Point{X: 6, Y: 11}}, HasActive: true})
	res := d.p2.MoveDown()
	require.True(t, res.Locked)
	require.Equal(t, 19, res.ExchangeLine)

	target := mustBoard(t,
		"ZZZZ......",
		"ZZZZZ.....",
	)
	d.p1.SetState(State{Board: target})
	d.p1.Tick()

	got := d.p1.State().Board
	assert.True(t, RowEmpty(got, 19))
	assert.Equal(t, 9, Filled(got))
	assert.Equal(t, Z, got[17][4])
}

func TestEngineIgnoresOwnSignals(t *testing.T) {
	d := newPair(t)
	d.p1.SetState(d.p1.State().ForceNext(T))

	assert.False(t, d.p1.Apply(multiplayer.GiftPiece{From: multiplayer.Player1}))
	assert.False(t, d.p1.Apply(multiplayer.ExchangeLines{From: multiplayer.Player1, Line: 3}))
	assert.Equal(t, T, d.p1.State().Next)

	assert.True(t, d.p1.Apply(multiplayer.GiftPiece{From: multiplayer.Player2}))
}

func TestEngineSignalsApplyWhilePaused(t *testing.T) {
	d := newPair(t)
	d.p2.SetPaused(true)
	d.p2.SetState(d.p2.State().ForceNext(T))

	d.bus.Publish(multiplayer.GiftPiece{From: multiplayer.Player1})
	d.p2.Tick()

	s := d.p2.State()
	assert.Contains(t, []Kind{O, I}, s.Next)
	assert.False(t, s.HasActive, "paused engine must not spawn")
}

func TestEngineSpeedChange(t *testing.T) {
	d := newPair(t)

	d.bus.Publish(multiplayer.SpeedChange{Slowdown: true})
	d.p1.HandleSignals()
	d.p2.HandleSignals()
	assert.True(t, d.p1.Slowdown())
	assert.True(t, d.p2.Slowdown())

	d.bus.Publish(multiplayer.SpeedChange{Slowdown: false})
	d.p1.HandleSignals()
	assert.False(t, d.p1.Slowdown())
}

func TestEngineInterval(t *testing.T) {
	e := NewEngine(EngineConfig{ID: 1, Rand: rand.New(rand.NewSource(1))})

	assert.Equal(t, time.Second, e.Interval(1))
	assert.Equal(t, 500*time.Millisecond, e.Interval(2))

	e.Apply(multiplayer.SpeedChange{Slowdown: true})
	assert.Equal(t, 1250*time.Millisecond, e.Interval(1))
	assert.Equal(t, 625*time.Millisecond, e.Interval(2))

	s := e.State()
	s.Score = 2500
	e.SetState(s)
	assert.InDelta(t, float64(time.Second)*1.25/3, float64(e.Interval(1)), 1)
}

func TestEnginePauseSuppressesCommands(t *testing.T) {
	e := NewEngine(EngineConfig{ID: 1, Rand: rand.New(rand.NewSource(3))})
	e.Tick()
	e.TogglePause()
	before := e.State()

	e.Tick()
	e.MoveHorizontal(1)
	e.Rotate()
	res := e.MoveDown()

	assert.False(t, res.Locked)
	assert.Equal(t, before, e.State())

	e.TogglePause()
	assert.False(t, e.State().Paused)
}

func TestEngineReset(t *testing.T) {
	d := newPair(t)
	d.p1.Tick()
	d.p1.Apply(multiplayer.SpeedChange{Slowdown: true})
	d.bus.Publish(multiplayer.GiftPiece{From: multiplayer.Player2})

	s := d.p1.State()
	s.Score = 700
	d.p1.SetState(s)

	d.p1.Reset()

	got := d.p1.State()
	assert.Zero(t, got.Score)
	assert.Equal(t, 1, got.Level())
	assert.False(t, got.HasActive)
	assert.False(t, got.GameOver)
	assert.Zero(t, Filled(got.Board))
	assert.False(t, d.p1.Slowdown())
	assert.Zero(t, d.p1.HandleSignals())
}
