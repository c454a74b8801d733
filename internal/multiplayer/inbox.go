package multiplayer

// DefaultInboxSize is used when Attach is given a non-positive capacity.
const DefaultInboxSize = 32

// Inbox queues signals for one engine until it drains them at its next
// scheduling opportunity. Handlers never run synchronously with Publish.
type Inbox struct {
	owner   PlayerID
	signals chan Signal
}

// NewInbox creates an inbox for the given side.
// capacity controls how many signals can be buffered before the oldest is dropped.
func NewInbox(owner PlayerID, capacity int) *Inbox {
	if capacity < 1 {
		capacity = DefaultInboxSize
	}
	return &Inbox{
		owner:   owner,
		signals: make(chan Signal, capacity),
	}
}

// Owner returns the side this inbox belongs to.
func (b *Inbox) Owner() PlayerID {
	return b.owner
}

// Send enqueues a signal without blocking.
// If the buffer is full, the oldest signal is dropped.
func (b *Inbox) Send(s Signal) {
	select {
	case b.signals <- s:
		return
	default:
	}

	select {
	case <-b.signals:
	default:
	}
	select {
	case b.signals <- s:
	default:
	}
}

// Drain removes and returns every queued signal in arrival order.
func (b *Inbox) Drain() []Signal {
	var out []Signal
	for {
		select {
		case s := <-b.signals:
			out = append(out, s)
		default:
			return out
		}
	}
}

// Len returns the number of queued signals.
func (b *Inbox) Len() int {
	return len(b.signals)
}

// Clear discards every queued signal.
func (b *Inbox) Clear() {
	_ = b.Drain()
}
