package multiplayer

// Signal is a message carried between engines by the Mediator.
// Delivery is fire-and-forget: no acknowledgement and no back-pressure.
type Signal interface {
	signal()
}

// SpeedChange toggles the global slowdown. It is delivered to every engine.
type SpeedChange struct {
	Slowdown bool
}

func (SpeedChange) signal() {}

// GiftPiece forces the receiver's next piece to an easy kind.
// Emitted after a 2-line clear and delivered to the other engine only.
type GiftPiece struct {
	From PlayerID
}

func (GiftPiece) signal() {}

// ExchangeLines asks the receiver to swap its emptiest row with row Line.
// Emitted after a 4-line clear and delivered to the other engine only.
type ExchangeLines struct {
	From PlayerID
	Line int
}

func (ExchangeLines) signal() {}

// Sender returns the emitting side of a signal, or 0 for broadcasts.
func Sender(s Signal) PlayerID {
	switch v := s.(type) {
	case GiftPiece:
		return v.From
	case ExchangeLines:
		return v.From
	default:
		return 0
	}
}
