package duel

import (
	"fmt"

	"github.com/vovakirdan/tetris-duel/internal/core"
	"github.com/vovakirdan/tetris-duel/internal/games/tetris"
	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
)

// Layout constants. Each board cell is two characters wide.
const (
	cellW    = 2
	boardW   = tetris.Width*cellW + 2 // including borders
	boardH   = tetris.Height + 2
	panelW   = 12
	sideW    = boardW + 1 + panelW
	MinWidth = 2*sideW + 2
	// MinHeight is one header row plus the boards.
	MinHeight = boardH + 1
)

const ghostRune = '·'

// Theme controls how pieces are drawn.
type Theme struct {
	Colors map[tetris.Kind]core.Color
	Cell   rune
}

// DefaultTheme returns the classic piece colors with a solid block glyph.
func DefaultTheme() Theme {
	colors := make(map[tetris.Kind]core.Color, len(tetris.Kinds))
	for _, k := range tetris.Kinds {
		colors[k] = k.Color()
	}
	return Theme{Colors: colors, Cell: '█'}
}

// Color returns the color for a kind, falling back to the kind's default.
func (t Theme) Color(k tetris.Kind) core.Color {
	if c, ok := t.Colors[k]; ok {
		return c
	}
	return k.Color()
}

// Render draws both boards, their HUD panels and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if dst.Width() < MinWidth || dst.Height() < MinHeight {
		renderTooSmall(dst)
		return
	}

	snap := g.Snapshot()
	left := (dst.Width() - MinWidth) / 2
	top := (dst.Height() - MinHeight) / 2

	g.renderHeader(dst, snap, left, top)
	for i, b := range snap.Boards {
		x := left + 1 + i*sideW
		g.renderBoard(dst, b, x, top+1, i == 0 && snap.Mode == multiplayer.MatchModeVsCPU)
		g.renderPanel(dst, b, x+boardW+1, top+1)
	}

	switch {
	case snap.Over:
		renderOverlay(dst, resultTitle(snap.Result), fmt.Sprintf("%d - %d  |  R to restart", snap.Result.Scores[0], snap.Result.Scores[1]))
	case snap.Paused:
		renderOverlay(dst, "PAUSED", "P to resume")
	}
}

func renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", MinWidth, MinHeight+1))
}

func (g *Game) renderHeader(dst *core.Screen, snap Snapshot, x, y int) {
	dst.DrawText(x+1, y, "TETRIS DUEL")
	dst.DrawText(x+14, y, snap.MatchID.Short())
	if left := snap.SlowdownLeft; left > 0 {
		msg := fmt.Sprintf("SLOW %2ds", int(left.Seconds()+0.999))
		dst.DrawTextColored(x+MinWidth-len(msg)-1, y, msg, core.ColorBrightYellow)
	}
}

func (g *Game) renderBoard(dst *core.Screen, b BoardSnapshot, x, y int, ghost bool) {
	dst.DrawBox(core.NewRect(x, y, boardW, boardH))

	for row := 0; row < tetris.Height; row++ {
		for col := 0; col < tetris.Width; col++ {
			if k := b.Board[row][col]; k != tetris.Empty {
				g.drawCell(dst, x, y, col, row, k)
			}
		}
	}

	if !b.HasActive {
		return
	}
	if ghost && b.Ghost != b.Active.Pos {
		for _, c := range tetris.Cells(b.Active.Kind, b.Active.Rot) {
			p := b.Ghost.Add(c)
			if p.Y >= 0 && b.Board[p.Y][p.X] == tetris.Empty {
				sx := x + 1 + p.X*cellW
				dst.SetColored(sx, y+1+p.Y, ghostRune, core.ColorGray)
				dst.SetColored(sx+1, y+1+p.Y, ghostRune, core.ColorGray)
			}
		}
	}
	for _, p := range b.Active.Cells() {
		if p.Y >= 0 {
			g.drawCell(dst, x, y, p.X, p.Y, b.Active.Kind)
		}
	}
}

func (g *Game) drawCell(dst *core.Screen, x, y, col, row int, k tetris.Kind) {
	sx := x + 1 + col*cellW
	c := g.theme.Color(k)
	for i := 0; i < cellW; i++ {
		dst.SetColored(sx+i, y+1+row, g.theme.Cell, c)
	}
}

func (g *Game) renderPanel(dst *core.Screen, b BoardSnapshot, x, y int) {
	dst.DrawText(x, y+1, b.Label)

	dst.DrawText(x, y+3, "NEXT")
	for _, c := range tetris.Cells(b.Next, 0) {
		g.drawCell(dst, x-1, y+3, c.X, c.Y, b.Next)
	}

	dst.DrawText(x, y+8, "SCORE")
	dst.DrawText(x, y+9, fmt.Sprintf("%d", b.Score))
	dst.DrawText(x, y+11, "LEVEL")
	dst.DrawText(x, y+12, fmt.Sprintf("%d", b.Level))
	dst.DrawText(x, y+14, "LINES")
	dst.DrawText(x, y+15, fmt.Sprintf("%d", b.Lines))

	if b.Slowdown {
		dst.DrawTextColored(x, y+17, "SLOWED", core.ColorBrightYellow)
	}
	if b.GameOver {
		dst.DrawTextColored(x, y+19, "TOPPED", core.ColorBrightRed)
	}
}

func resultTitle(o Outcome) string {
	switch {
	case o.Draw():
		return "DRAW!"
	case o.Mode == multiplayer.MatchModeVsCPU && o.Winner == multiplayer.Player1:
		return "YOU WIN!"
	case o.Mode == multiplayer.MatchModeVsCPU:
		return "CPU WINS!"
	default:
		return fmt.Sprintf("CPU %s WINS!", o.Winner)
	}
}

// renderOverlay draws a message box in the center of the screen.
func renderOverlay(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))
	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
