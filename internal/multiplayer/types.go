// Package multiplayer couples the two boards of a duel. Engines never reference
// each other: they exchange typed signals through a Mediator that owns one
// Inbox per player.
package multiplayer

import "github.com/google/uuid"

// PlayerID identifies one side of a duel.
// Player1 is the left board (the human in a vs CPU match), Player2 the right one.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Other returns the opposing side.
func (p PlayerID) Other() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// String returns a human-readable name for the side.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return "none"
	}
}

// MatchID uniquely identifies a duel.
type MatchID string

// NewMatchID returns a fresh random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// Short returns the first eight characters, enough for display.
func (id MatchID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// MatchMode defines who drives each board.
type MatchMode int

const (
	// MatchModeVsCPU puts a human on Player1 and the planner on Player2.
	MatchModeVsCPU MatchMode = iota

	// MatchModeCPUvsCPU drives both boards with the planner.
	MatchModeCPUvsCPU
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeVsCPU:
		return "vs CPU"
	case MatchModeCPUvsCPU:
		return "CPU vs CPU"
	default:
		return "Unknown"
	}
}

// MatchEndReason explains why a match ended.
type MatchEndReason int

const (
	// EndReasonTopOut means a board failed to spawn a piece.
	EndReasonTopOut MatchEndReason = iota
	// EndReasonTickLimit means a headless run hit its frame cap.
	EndReasonTickLimit
)

// String returns a human-readable end reason.
func (r MatchEndReason) String() string {
	switch r {
	case EndReasonTopOut:
		return "top out"
	case EndReasonTickLimit:
		return "tick limit"
	default:
		return "unknown"
	}
}
