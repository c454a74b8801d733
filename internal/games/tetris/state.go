package tetris

// SpawnPoint is the anchor of every freshly spawned piece: horizontally centered, top row.
var SpawnPoint = Point{X: Width/2 - 1, Y: 0}

// Wall-kick offsets tried in order when an in-place rotation collides.
var kicks = [...]int{-1, 1, -2, 2}

var linePoints = [...]int{0, 50, 100, 200, 300}

// PointsFor returns the base score for clearing n lines at once.
func PointsFor(lines int) int {
	if lines < 0 || lines >= len(linePoints) {
		return 0
	}
	return linePoints[lines]
}

// LevelFor derives the level from a score.
func LevelFor(score int) int {
	return score/1000 + 1
}

// Piece is the falling tetromino.
type Piece struct {
	Kind Kind
	Pos  Point
	Rot  Rotation
}

// Cells returns the absolute board coordinates the piece covers.
func (p Piece) Cells() []Point {
	rel := Cells(p.Kind, p.Rot)
	out := make([]Point, len(rel))
	for i, c := range rel {
		out[i] = p.Pos.Add(c)
	}
	return out
}

// LockResult describes what a lock did to the board.
type LockResult struct {
	Locked       bool
	Lines        int
	Points       int
	Gift         bool // exactly two lines were cleared
	ExchangeLine int  // fullest remaining row after a four-line clear, or -1
}

var noLock = LockResult{ExchangeLine: -1}

// State is the complete state of one board. Every transition is a pure function
// that returns the next State and leaves the receiver untouched.
type State struct {
	Board     Board
	Active    Piece
	HasActive bool
	Next      Kind
	Score     int
	Lines     int
	Pieces    int
	GameOver  bool
	Paused    bool
}

// NewState returns an empty board with next queued.
func NewState(next Kind) State {
	return State{Next: next}
}

// Level is always derived from the score.
func (s State) Level() int {
	return LevelFor(s.Score)
}

// Live reports whether the board accepts movement commands.
func (s State) Live() bool {
	return s.HasActive && !s.GameOver && !s.Paused
}

// Spawn installs the queued kind at SpawnPoint and queues following.
// If the spawn anchor collides the state becomes GameOver instead.
// It does nothing while a piece is active or the game is over.
func (s State) Spawn(following Kind) State {
	if s.HasActive || s.GameOver {
		return s
	}
	if Collides(s.Board, s.Next, SpawnPoint, 0) {
		s.GameOver = true
		return s
	}
	s.Active = Piece{Kind: s.Next, Pos: SpawnPoint}
	s.HasActive = true
	s.Next = following
	s.Pieces++
	return s
}

// MoveHorizontal shifts the active piece by dir columns when legal.
func (s State) MoveHorizontal(dir int) State {
	if !s.Live() || dir == 0 {
		return s
	}
	at := s.Active.Pos.Add(Point{X: dir})
	if Collides(s.Board, s.Active.Kind, at, s.Active.Rot) {
		return s
	}
	s.Active.Pos = at
	return s
}

// Rotate turns the active piece a quarter clockwise, trying the kick offsets
// when the in-place rotation collides. If every candidate collides the state is unchanged.
func (s State) Rotate() State {
	if !s.Live() {
		return s
	}
	next := s.Active.Rot.Next()
	if !Collides(s.Board, s.Active.Kind, s.Active.Pos, next) {
		s.Active.Rot = next
		return s
	}
	for _, dx := range kicks {
		at := s.Active.Pos.Add(Point{X: dx})
		if !Collides(s.Board, s.Active.Kind, at, next) {
			s.Active.Pos = at
			s.Active.Rot = next
			return s
		}
	}
	return s
}

// MoveDown drops the active piece one row, locking it when the row below is blocked.
func (s State) MoveDown() (State, LockResult) {
	if !s.Live() {
		return s, noLock
	}
	at := s.Active.Pos.Add(Point{Y: 1})
	if !Collides(s.Board, s.Active.Kind, at, s.Active.Rot) {
		s.Active.Pos = at
		return s, noLock
	}
	return s.Lock()
}

// Lock merges the active piece into the board, clears completed rows and scores them.
func (s State) Lock() (State, LockResult) {
	if !s.HasActive {
		return s, noLock
	}
	board := Place(s.Board, s.Active.Kind, s.Active.Pos, s.Active.Rot)
	board, lines := ClearLines(board)

	res := LockResult{
		Locked:       true,
		Lines:        lines,
		Points:       PointsFor(lines) * s.Level(),
		Gift:         lines == 2,
		ExchangeLine: -1,
	}
	if lines == 4 {
		res.ExchangeLine = FullestLine(board)
	}

	s.Board = board
	s.Score += res.Points
	s.Lines += lines
	s.Active = Piece{}
	s.HasActive = false
	return s, res
}

// Drop moves the active piece down until it locks.
func (s State) Drop() (State, LockResult) {
	for s.Live() {
		var res LockResult
		s, res = s.MoveDown()
		if res.Locked {
			return s, res
		}
	}
	return s, noLock
}

// Ghost returns where the active piece would come to rest.
func (s State) Ghost() (Point, bool) {
	if !s.HasActive {
		return Point{}, false
	}
	at := s.Active.Pos
	for !Collides(s.Board, s.Active.Kind, at.Add(Point{Y: 1}), s.Active.Rot) {
		at.Y++
	}
	return at, true
}

// ForceNext replaces the queued kind.
func (s State) ForceNext(k Kind) State {
	s.Next = k
	return s
}

// ExchangeWith swaps this board's lowest empty row with row line.
// It does nothing when either row is missing.
func (s State) ExchangeWith(line int) State {
	if line < 0 || line >= Height {
		return s
	}
	empty := EmptiestLine(s.Board)
	if empty < 0 {
		return s
	}
	s.Board = SwapRows(s.Board, empty, line)
	return s
}

// WithPaused sets the paused flag.
func (s State) WithPaused(p bool) State {
	s.Paused = p
	return s
}
