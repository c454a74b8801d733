package tetris

import (
	"fmt"
	"strings"
)

// Board dimensions. They never change.
const (
	Width  = 10
	Height = 20
)

// Board is the settled grid. Row 0 is the top.
type Board [Height][Width]Kind

// Point is a board coordinate; Y grows downward.
type Point struct {
	X, Y int
}

// Add returns the component-wise sum.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Collides reports whether kind k at anchor at with rotation r overlaps a wall,
// the floor or a settled cell. Cells above the top edge never collide.
func Collides(b Board, k Kind, at Point, r Rotation) bool {
	for _, c := range Cells(k, r) {
		x, y := at.X+c.X, at.Y+c.Y
		if x < 0 || x >= Width || y >= Height {
			return true
		}
		if y >= 0 && b[y][x] != Empty {
			return true
		}
	}
	return false
}

// Place merges the piece into the board. Cells above the top edge are dropped.
func Place(b Board, k Kind, at Point, r Rotation) Board {
	for _, c := range Cells(k, r) {
		x, y := at.X+c.X, at.Y+c.Y
		if y < 0 || y >= Height || x < 0 || x >= Width {
			continue
		}
		b[y][x] = k
	}
	return b
}

// ClearLines removes completed rows in one bottom-to-top pass and returns the
// new board with the number removed. Each removed row is replaced by an empty
// row at the top; a row that slides into a just-cleared index is not re-examined
// in the same pass.
func ClearLines(b Board) (Board, int) {
	cleared := 0
	for y := Height - 1; y >= 0; y-- {
		if !RowFull(b, y) {
			continue
		}
		copy(b[1:y+1], b[0:y])
		b[0] = [Width]Kind{}
		cleared++
	}
	return b, cleared
}

// RowFull reports whether row y has no empty cell.
func RowFull(b Board, y int) bool {
	if y < 0 || y >= Height {
		return false
	}
	for _, c := range b[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// RowEmpty reports whether row y has no occupied cell.
func RowEmpty(b Board, y int) bool {
	if y < 0 || y >= Height {
		return false
	}
	for _, c := range b[y] {
		if c != Empty {
			return false
		}
	}
	return true
}

// FullestLine returns the lowest fully occupied row, or -1.
func FullestLine(b Board) int {
	for y := Height - 1; y >= 0; y-- {
		if RowFull(b, y) {
			return y
		}
	}
	return -1
}

// EmptiestLine returns the lowest fully empty row, or -1.
func EmptiestLine(b Board) int {
	for y := Height - 1; y >= 0; y-- {
		if RowEmpty(b, y) {
			return y
		}
	}
	return -1
}

// SwapRows exchanges rows a and b. Out-of-range indices leave the board unchanged.
func SwapRows(b Board, i, j int) Board {
	if i < 0 || i >= Height || j < 0 || j >= Height {
		return b
	}
	b[i], b[j] = b[j], b[i]
	return b
}

// Filled returns the number of occupied cells.
func Filled(b Board) int {
	n := 0
	for y := range b {
		for _, c := range b[y] {
			if c != Empty {
				n++
			}
		}
	}
	return n
}

// StackHeight returns the number of rows from the highest occupied cell to the floor.
func StackHeight(b Board) int {
	for y := 0; y < Height; y++ {
		if !RowEmpty(b, y) {
			return Height - y
		}
	}
	return 0
}

// String renders the board with one letter per cell and '.' for empty.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for y := range b {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range b[y] {
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}

// ParseBoard builds a board from text rows aligned to the bottom.
// Missing rows at the top are empty. Each row must be exactly Width wide.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) > Height {
		return b, fmt.Errorf("tetris: board has %d rows, max %d", len(rows), Height)
	}
	offset := Height - len(rows)
	for i, row := range rows {
		runes := []rune(row)
		if len(runes) != Width {
			return b, fmt.Errorf("tetris: row %d has width %d, want %d", i, len(runes), Width)
		}
		for x, r := range runes {
			k, ok := ParseKind(r)
			if !ok {
				return b, fmt.Errorf("tetris: row %d: unknown cell %q", i, r)
			}
			b[offset+i][x] = k
		}
	}
	return b, nil
}
