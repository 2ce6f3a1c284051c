package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/joycexyl/valentine-pacman/internal/session"
	tm "github.com/joycexyl/valentine-pacman/internal/tilemap"
)

// cellWidth is the number of terminal columns per maze cell.
const cellWidth = 2

const (
	glyphPellet = '·'
	glyphPlayer = '@'
	glyphGhost  = 'M'
	glyphRose   = '*'
	glyphHeart  = '♥'
	powerBarLen = 10
)

var (
	styleBase    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleWall    = styleBase.Background(tcell.NewHexColor(0x8B0000))
	stylePellet  = styleBase.Foreground(tcell.NewHexColor(0xFFE66D))
	stylePlayer  = styleBase.Foreground(tcell.NewHexColor(0xFFFF00)).Bold(true)
	stylePowered = styleBase.Foreground(tcell.NewHexColor(0xFFD700)).Background(tcell.NewHexColor(0x5A0030)).Bold(true)
	styleRose    = styleBase.Foreground(tcell.NewHexColor(0xFF1493)).Bold(true)
	styleHeart   = styleBase.Foreground(tcell.NewHexColor(0xFF69B4))
	styleTitle   = styleBase.Foreground(tcell.NewHexColor(0xFFD700)).Bold(true)
	styleHint    = styleBase.Foreground(tcell.ColorGray)

	// Indexed by entities.Policy.
	ghostStyles = []tcell.Style{
		styleBase.Foreground(tcell.NewHexColor(0xFF6B6B)),
		styleBase.Foreground(tcell.NewHexColor(0xFF69B4)),
		styleBase.Foreground(tcell.NewHexColor(0x9B59B6)),
		styleBase.Foreground(tcell.NewHexColor(0xE6E6FA)),
	}
)

// cellOf maps a world coordinate to its terminal cell.
func cellOf(x, y, cellSize float64) (int, int) {
	return int(math.Floor(x/cellSize)) * cellWidth, int(math.Floor(y / cellSize))
}

func putString(c Canvas, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.SetContent(x, y, r, nil, style)
		x++
	}
}

func (a *App) render(c Canvas) {
	snap := a.sess.Snapshot()
	b := a.sess.Grid()
	cs := b.CellSize()

	drawBoard(c, b)
	if snap.Bonus.Active {
		x, y := cellOf(snap.Bonus.X, snap.Bonus.Y, cs)
		c.SetContent(x, y, glyphRose, nil, styleRose)
	}
	for _, p := range snap.Projectiles {
		x, y := cellOf(p.X, p.Y, cs)
		c.SetContent(x, y, glyphHeart, nil, styleHeart)
	}
	for _, g := range snap.Ghosts {
		if !g.Active {
			continue
		}
		x, y := cellOf(g.X, g.Y, cs)
		c.SetContent(x, y, glyphGhost, nil, ghostStyles[int(g.Policy)%len(ghostStyles)])
	}
	px, py := cellOf(snap.Player.X, snap.Player.Y, cs)
	ps := stylePlayer
	if snap.Powered {
		ps = stylePowered
	}
	c.SetContent(px, py, glyphPlayer, nil, ps)

	row := b.Rows()
	putString(c, 0, row, hudLine(a.name, snap, a.highScore()), styleBase)
	if snap.Powered {
		putString(c, 0, row+1, powerLine(snap), styleHeart)
	}

	lines := a.overlayLines(snap)
	width := b.Cols() * cellWidth
	y := (b.Rows() - len(lines)) / 2
	for i, line := range lines {
		style := styleBase
		switch {
		case i == 0:
			style = styleTitle
		case i == len(lines)-1:
			style = styleHint
		}
		x := (width - len([]rune(line))) / 2
		if x < 0 {
			x = 0
		}
		putString(c, x, y+i, line, style)
	}
}

func drawBoard(c Canvas, b session.Board) {
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < b.Cols(); col++ {
			x := col * cellWidth
			switch b.TileAt(col, row) {
			case tm.TileWall:
				c.SetContent(x, row, ' ', nil, styleWall)
				c.SetContent(x+1, row, ' ', nil, styleWall)
			case tm.TilePellet:
				c.SetContent(x, row, glyphPellet, nil, stylePellet)
				c.SetContent(x+1, row, ' ', nil, styleBase)
			default:
				c.SetContent(x, row, ' ', nil, styleBase)
				c.SetContent(x+1, row, ' ', nil, styleBase)
			}
		}
	}
}

func hudLine(name string, snap session.Snapshot, hi int) string {
	return fmt.Sprintf("%s  Score: %d  High: %d  Lives: %d  Round: %d", name, snap.Score, hi, snap.Lives, snap.Round)
}

func powerLine(snap session.Snapshot) string {
	filled := int(math.Round(snap.PowerFraction * powerBarLen))
	filled = max(0, min(powerBarLen, filled))
	return fmt.Sprintf("Love [%s%s] %.1fs", strings.Repeat("♥", filled), strings.Repeat("-", powerBarLen-filled), snap.PowerRemaining)
}

// overlayLines returns the centered text for the current state, title first
// and hint last, or nil during play.
func (a *App) overlayLines(snap session.Snapshot) []string {
	switch snap.State {
	case session.StateMenu:
		return []string{"Valentine Pac-Man", "Arrows or WASD move, Space pauses", "Enter to start, Q to quit"}
	case session.StatePaused:
		return []string{"Paused", fmt.Sprintf("Score: %d", snap.Score), "Space to resume"}
	case session.StateGameOver:
		lines := []string{fmt.Sprintf("Game Over  Final score: %d", snap.Score)}
		for i, r := range a.leaders {
			lines = append(lines, fmt.Sprintf("%2d. %-12s %6d", i+1, r.Name, r.Score))
		}
		return append(lines, "Enter to play again, Q to quit")
	}
	return nil
}
