package tetris

import "math"

// Placement is a resting position scored by Evaluate.
type Placement struct {
	Pos   Point
	Rot   Rotation
	Score int
}

// Command is a single incremental step toward a placement.
type Command int

const (
	CmdNone Command = iota
	CmdRotate
	CmdLeft
	CmdRight
	CmdDrop
)

// String returns a human-readable name for the command.
func (c Command) String() string {
	switch c {
	case CmdRotate:
		return "rotate"
	case CmdLeft:
		return "left"
	case CmdRight:
		return "right"
	case CmdDrop:
		return "drop"
	default:
		return "none"
	}
}

// Evaluate scores kind k resting at anchor at with rotation r on b.
// Lower resting rows score +2 per row; each piece cell above an empty board
// cell costs 4; each occupied left or right neighbour of a piece cell adds 1.
// The board is read without the piece merged.
func Evaluate(b Board, k Kind, at Point, r Rotation) int {
	score := at.Y * 2
	for _, c := range Cells(k, r) {
		x, y := at.X+c.X, at.Y+c.Y
		if x < 0 || x >= Width {
			continue
		}
		if y < Height-1 && y+1 >= 0 && b[y+1][x] == Empty {
			score -= 4
		}
		if y < 0 {
			continue
		}
		if x > 0 && b[y][x-1] != Empty {
			score++
		}
		if x < Width-1 && b[y][x+1] != Empty {
			score++
		}
	}
	return score
}

// RestingRow drops kind k straight down column x from row 0 and returns the
// last legal row. ok is false when the piece does not fit at row 0.
func RestingRow(b Board, k Kind, x int, r Rotation) (y int, ok bool) {
	at := Point{X: x}
	if Collides(b, k, at, r) {
		return 0, false
	}
	for !Collides(b, k, at.Add(Point{Y: 1}), r) {
		at.Y++
	}
	return at.Y, true
}

// BestPlacement searches every rotation and every anchor column from two left
// of the board to two right of it. The strictly greatest score wins, so ties
// keep the earliest rotation, then the earliest column.
func BestPlacement(b Board, k Kind) (Placement, bool) {
	best := Placement{Score: math.MinInt}
	found := false
	for r := Rotation(0); r < 4; r++ {
		for x := -2; x < Width+2; x++ {
			y, ok := RestingRow(b, k, x, r)
			if !ok {
				continue
			}
			at := Point{X: x, Y: y}
			if s := Evaluate(b, k, at, r); s > best.Score {
				best = Placement{Pos: at, Rot: r, Score: s}
				found = true
			}
		}
	}
	return best, found
}

// NextCommand returns the step toward target in priority order: rotation,
// then column, then drop.
func NextCommand(p Piece, target Placement) Command {
	switch {
	case p.Rot != target.Rot:
		return CmdRotate
	case p.Pos.X > target.Pos.X:
		return CmdLeft
	case p.Pos.X < target.Pos.X:
		return CmdRight
	default:
		return CmdDrop
	}
}

// Planner is the Driver of an autonomous board. Each Drive recomputes the best
// placement for the active piece and issues exactly one command toward it.
type Planner struct {
	last Command
}

// NewPlanner creates a planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// LastCommand returns the command issued by the most recent Drive.
func (p *Planner) LastCommand() Command {
	return p.last
}

// Drive issues one command. A rotation or shift the board rejects falls through
// to the next priority so the piece always makes progress.
func (p *Planner) Drive(e *Engine) {
	p.last = CmdNone
	s := e.State()
	if !s.Live() {
		return
	}
	target, ok := BestPlacement(s.Board, s.Active.Kind)
	if !ok {
		p.last = CmdDrop
		e.MoveDown()
		return
	}

	cmd := NextCommand(s.Active, target)
	if cmd == CmdRotate {
		e.Rotate()
		if e.State().Active != s.Active {
			p.last = CmdRotate
			return
		}
		cmd = NextCommand(Piece{Kind: s.Active.Kind, Pos: s.Active.Pos, Rot: target.Rot}, target)
	}
	if cmd == CmdLeft || cmd == CmdRight {
		dir := -1
		if cmd == CmdRight {
			dir = 1
		}
		e.MoveHorizontal(dir)
		if e.State().Active != s.Active {
			p.last = cmd
			return
		}
	}
	p.last = CmdDrop
	e.MoveDown()
}
