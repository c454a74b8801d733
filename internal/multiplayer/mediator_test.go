package multiplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerIDOther(t *testing.T) {
	assert.Equal(t, Player2, Player1.Other())
	assert.Equal(t, Player1, Player2.Other())
	assert.Equal(t, "P1", Player1.String())
}

func TestNewMatchIDUnique(t *testing.T) {
	a, b := NewMatchID(), NewMatchID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a.Short(), 8)
}

func TestMediatorRouting(t *testing.T) {
	tests := []struct {
		name   string
		signal Signal
		want1  int
		want2  int
	}{
		{"speed change reaches both", SpeedChange{Slowdown: true}, 1, 1},
		{"gift from P1 reaches P2 only", GiftPiece{From: Player1}, 0, 1},
		{"gift from P2 reaches P1 only", GiftPiece{From: Player2}, 1, 0},
		{"exchange from P1 reaches P2 only", ExchangeLines{From: Player1, Line: 19}, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMediator(nil)
			in1 := m.Attach(Player1, 4)
			in2 := m.Attach(Player2, 4)

			m.Publish(tc.signal)

			assert.Equal(t, tc.want1, in1.Len())
			assert.Equal(t, tc.want2, in2.Len())
		})
	}
}

func TestMediatorDeliveryIsDeferred(t *testing.T) {
	m := NewMediator(nil)
	in2 := m.Attach(Player2, 4)
	m.Attach(Player1, 4)

	m.Publish(ExchangeLines{From: Player1, Line: 7})
	m.Publish(GiftPiece{From: Player1})

	got := in2.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, ExchangeLines{From: Player1, Line: 7}, got[0])
	assert.Equal(t, GiftPiece{From: Player1}, got[1])
	assert.Zero(t, in2.Len())
}

func TestMediatorStatsAndReset(t *testing.T) {
	m := NewMediator(nil)
	m.Attach(Player1, 4)
	in2 := m.Attach(Player2, 4)

	m.Publish(GiftPiece{From: Player1})
	m.Publish(GiftPiece{From: Player1})
	m.Publish(ExchangeLines{From: Player2, Line: 3})
	m.Publish(SpeedChange{Slowdown: false})

	st := m.Stats()
	assert.Equal(t, 2, st.Gifts[Player1])
	assert.Equal(t, 1, st.Exchanges[Player2])
	assert.Equal(t, 1, st.Speed)

	m.Reset()
	assert.Zero(t, in2.Len())
	assert.Empty(t, m.Stats().Gifts)
}

func TestAttachTwiceReturnsSameInbox(t *testing.T) {
	m := NewMediator(nil)
	a := m.Attach(Player1, 2)
	b := m.Attach(Player1, 8)
	assert.Same(t, a, b)
}

func TestInboxDropsOldestWhenFull(t *testing.T) {
	b := NewInbox(Player1, 2)
	b.Send(ExchangeLines{Line: 1})
	b.Send(ExchangeLines{Line: 2})
	b.Send(ExchangeLines{Line: 3})

	got := b.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, ExchangeLines{Line: 2}, got[0])
	assert.Equal(t, ExchangeLines{Line: 3}, got[1])
}

func TestSender(t *testing.T) {
	assert.Equal(t, Player2, Sender(GiftPiece{From: Player2}))
	assert.Equal(t, Player1, Sender(ExchangeLines{From: Player1}))
	assert.Equal(t, PlayerID(0), Sender(SpeedChange{}))
}
