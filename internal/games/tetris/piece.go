// Package tetris implements one board of the duel: piece geometry, collision,
// locking and line clears as pure functions over value types, an Engine that
// holds the current State, and a Planner that drives an Engine autonomously.
package tetris

import "github.com/vovakirdan/tetris-duel/internal/core"

// Kind is a tetromino tag. The zero value marks an empty board cell.
type Kind uint8

const (
	Empty Kind = iota
	I
	J
	L
	O
	S
	T
	Z
)

// Kinds lists the seven drawable kinds in draw order.
var Kinds = [...]Kind{I, J, L, O, S, T, Z}

// EasyKinds are the kinds a gift can force.
var EasyKinds = [...]Kind{O, I}

// String returns the single-letter name of the kind.
func (k Kind) String() string {
	switch k {
	case I:
		return "I"
	case J:
		return "J"
	case L:
		return "L"
	case O:
		return "O"
	case S:
		return "S"
	case T:
		return "T"
	case Z:
		return "Z"
	default:
		return "."
	}
}

// ParseKind resolves a single-letter kind name. '.' and ' ' map to Empty.
func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'I':
		return I, true
	case 'J':
		return J, true
	case 'L':
		return L, true
	case 'O':
		return O, true
	case 'S':
		return S, true
	case 'T':
		return T, true
	case 'Z':
		return Z, true
	case '.', ' ':
		return Empty, true
	default:
		return Empty, false
	}
}

// Color returns the default display color of the kind.
func (k Kind) Color() core.Color {
	switch k {
	case I:
		return core.ColorCyan
	case J:
		return core.ColorBlue
	case L:
		return core.ColorOrange
	case O:
		return core.ColorYellow
	case S:
		return core.ColorGreen
	case T:
		return core.ColorMagenta
	case Z:
		return core.ColorRed
	default:
		return core.ColorDefault
	}
}

// Rotation is a clockwise quarter-turn count in [0, 4).
type Rotation uint8

// Next returns the rotation one quarter turn further clockwise.
func (r Rotation) Next() Rotation {
	return (r + 1) % 4
}

// Degrees returns the rotation in degrees.
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// Shape is a row-major occupancy grid.
type Shape [][]bool

// Equal reports whether two shapes occupy the same cells.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for y := range s {
		if len(s[y]) != len(o[y]) {
			return false
		}
		for x := range s[y] {
			if s[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}

// RotateCW returns the shape turned 90 degrees clockwise.
// Cell (x, y) of an h-row shape moves to (h-1-y, x).
func RotateCW(s Shape) Shape {
	h := len(s)
	if h == 0 {
		return Shape{}
	}
	w := len(s[0])
	out := make(Shape, w)
	for y := range out {
		out[y] = make([]bool, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[x][h-1-y] = s[y][x]
		}
	}
	return out
}

func shape(rows ...string) Shape {
	s := make(Shape, len(rows))
	for y, row := range rows {
		s[y] = make([]bool, len(row))
		for x, c := range row {
			s[y][x] = c == '#'
		}
	}
	return s
}

var canonical = map[Kind]Shape{
	I: shape("####"),
	J: shape("#..", "###"),
	L: shape("..#", "###"),
	O: shape("##", "##"),
	S: shape(".##", "##."),
	T: shape(".#.", "###"),
	Z: shape("##.", ".##"),
}

// Cells of each kind per rotation, relative to the anchor.
var rotations [Z + 1][4][]Point

func init() {
	for _, k := range Kinds {
		s := canonical[k]
		for r := 0; r < 4; r++ {
			rotations[k][r] = cellsOf(s)
			s = RotateCW(s)
		}
	}
}

func cellsOf(s Shape) []Point {
	var pts []Point
	for y, row := range s {
		for x, on := range row {
			if on {
				pts = append(pts, Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// ShapeOf returns the occupancy grid of kind k after r clockwise quarter turns.
func ShapeOf(k Kind, r Rotation) Shape {
	s, ok := canonical[k]
	if !ok {
		return Shape{}
	}
	for i := Rotation(0); i < r%4; i++ {
		s = RotateCW(s)
	}
	return s
}

// Cells returns the occupied offsets of kind k at rotation r.
// The returned slice is shared and must not be modified.
func Cells(k Kind, r Rotation) []Point {
	if k == Empty || k > Z {
		return nil
	}
	return rotations[k][r%4]
}
