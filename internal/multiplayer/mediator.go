package multiplayer

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Stats counts the cross-board effects each side has triggered.
type Stats struct {
	Gifts     map[PlayerID]int
	Exchanges map[PlayerID]int
	Speed     int // SpeedChange signals routed
}

// Mediator routes signals between the engines of one duel.
// SpeedChange goes to every attached inbox; GiftPiece and ExchangeLines go to
// every inbox except the sender's.
type Mediator struct {
	mu      sync.Mutex
	inboxes map[PlayerID]*Inbox
	order   []PlayerID
	stats   Stats
	logger  *log.Logger
}

// NewMediator creates an empty mediator. A nil logger discards output.
func NewMediator(logger *log.Logger) *Mediator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Mediator{
		inboxes: make(map[PlayerID]*Inbox),
		logger:  logger,
	}
	m.resetStats()
	return m
}

// Attach registers a side and returns its inbox.
// Attaching the same side twice returns the existing inbox.
func (m *Mediator) Attach(id PlayerID, capacity int) *Inbox {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.inboxes[id]; ok {
		return b
	}
	b := NewInbox(id, capacity)
	m.inboxes[id] = b
	m.order = append(m.order, id)
	return b
}

// Publish enqueues a signal for its recipients and returns how many inboxes received it.
func (m *Mediator) Publish(s Signal) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := Sender(s)
	switch v := s.(type) {
	case GiftPiece:
		m.stats.Gifts[v.From]++
	case ExchangeLines:
		m.stats.Exchanges[v.From]++
	case SpeedChange:
		m.stats.Speed++
	}

	delivered := 0
	for _, id := range m.order {
		if from != 0 && id == from {
			continue
		}
		m.inboxes[id].Send(s)
		delivered++
	}
	m.logger.Debug("signal routed", "signal", describe(s), "from", from, "recipients", delivered)
	return delivered
}

// Stats returns a copy of the routing counters.
func (m *Mediator) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := Stats{
		Gifts:     make(map[PlayerID]int, len(m.stats.Gifts)),
		Exchanges: make(map[PlayerID]int, len(m.stats.Exchanges)),
		Speed:     m.stats.Speed,
	}
	for k, v := range m.stats.Gifts {
		out.Gifts[k] = v
	}
	for k, v := range m.stats.Exchanges {
		out.Exchanges[k] = v
	}
	return out
}

// Reset drops every queued signal and zeroes the counters.
func (m *Mediator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.inboxes {
		b.Clear()
	}
	m.resetStats()
}

func (m *Mediator) resetStats() {
	m.stats = Stats{
		Gifts:     make(map[PlayerID]int),
		Exchanges: make(map[PlayerID]int),
	}
}

func describe(s Signal) string {
	switch v := s.(type) {
	case SpeedChange:
		if v.Slowdown {
			return "speed:slow"
		}
		return "speed:normal"
	case GiftPiece:
		return "gift"
	case ExchangeLines:
		return "exchange"
	default:
		return "unknown"
	}
}
