package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/joycexyl/valentine-pacman/internal/entities"
	"github.com/joycexyl/valentine-pacman/internal/session"
	tm "github.com/joycexyl/valentine-pacman/internal/tilemap"
)

const glyphW = 7 // basicfont.Face7x13 advance

var (
	colorWall          = color.RGBA{R: 0x8B, A: 0xFF}
	colorPellet        = color.RGBA{R: 0xFF, G: 0xE6, B: 0x6D, A: 0xFF}
	colorPacman        = color.RGBA{R: 0xFF, G: 0xFF, A: 0xFF}
	colorPacmanPowered = color.RGBA{R: 0xFF, G: 0xD7, A: 0xFF}
	colorRose          = color.RGBA{R: 0xFF, G: 0x14, B: 0x93, A: 0xFF}
	colorStem          = color.RGBA{R: 0x22, G: 0x8B, B: 0x22, A: 0xFF}
	colorHeart         = color.RGBA{R: 0xFF, G: 0x69, B: 0xB4, A: 0xFF}
	colorTitle         = color.RGBA{R: 0xFF, G: 0xD7, A: 0xFF}
	colorHint          = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	colorShade         = color.RGBA{A: 0xB0}

	// Indexed by entities.Policy.
	ghostColors = []color.RGBA{
		{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF},
		{R: 0xFF, G: 0x69, B: 0xB4, A: 0xFF},
		{R: 0x9B, G: 0x59, B: 0xB6, A: 0xFF},
		{R: 0xE6, G: 0xE6, B: 0xFA, A: 0xFF},
	}
)

var whiteSubImage *ebiten.Image

// fillPath fills p with a solid color through DrawTriangles.
func fillPath(dst *ebiten.Image, p *vector.Path, clr color.RGBA) {
	if whiteSubImage == nil {
		white := ebiten.NewImage(3, 3)
		white.Fill(color.White)
		whiteSubImage = white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := float32(clr.R)/0xFF, float32(clr.G)/0xFF, float32(clr.B)/0xFF, float32(clr.A)/0xFF
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, g, b, a
	}
	dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	// Draw at native resolution then scale up
	nativeW, nativeH := g.NativeSize()
	if g.off == nil || g.off.Bounds().Dx() != nativeW || g.off.Bounds().Dy() != nativeH {
		g.off = ebiten.NewImage(nativeW, nativeH)
	}
	off := g.off
	off.Clear()

	snap := g.sess.Snapshot()
	drawMaze(off, g.sess.Grid())
	drawBonus(off, snap.Bonus)
	for _, p := range snap.Projectiles {
		drawHeart(off, p.X, p.Y, snap.ProjectileRadius)
	}
	for _, gh := range snap.Ghosts {
		drawGhost(off, gh)
	}
	drawPlayer(off, snap)

	hi, hiName := g.highScore()
	text.Draw(off, hudText(g.playerName, snap, hi, hiName), basicfont.Face7x13, 4, 12, color.White)
	drawPowerBar(off, snap, nativeW, nativeH)

	if lines := g.overlayLines(snap); len(lines) > 0 {
		drawOverlay(off, lines, nativeW, nativeH)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(g.scale, g.scale)
	screen.DrawImage(off, op)
}

func drawMaze(dst *ebiten.Image, b session.Board) {
	cs := float32(b.CellSize())
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < b.Cols(); col++ {
			x, y := float32(col)*cs, float32(row)*cs
			switch b.TileAt(col, row) {
			case tm.TileWall:
				vector.DrawFilledRect(dst, x, y, cs, cs, colorWall, false)
			case tm.TilePellet:
				vector.DrawFilledCircle(dst, x+cs/2, y+cs/2, cs*0.15, colorPellet, true)
			}
		}
	}
}

func drawPlayer(dst *ebiten.Image, snap session.Snapshot) {
	p := snap.Player
	clr := colorPacman
	if snap.Powered {
		clr = colorPacmanPowered
		// Stand-in for a glow: a faint rose halo.
		vector.StrokeCircle(dst, float32(p.X), float32(p.Y), float32(p.Radius)+2, 1.5, colorRose, true)
	}
	mouth := float32(p.MouthPhase)
	if mouth < 0.02 {
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), float32(p.Radius), clr, true)
		return
	}
	angle := float32(p.Facing.Angle())
	var path vector.Path
	path.MoveTo(float32(p.X), float32(p.Y))
	path.Arc(float32(p.X), float32(p.Y), float32(p.Radius), angle+mouth, angle+2*math.Pi-mouth, vector.Clockwise)
	path.Close()
	fillPath(dst, &path, clr)
}

func drawGhost(dst *ebiten.Image, gh session.GhostView) {
	if !gh.Active {
		return
	}
	clr := ghostColors[int(gh.Policy)%len(ghostColors)]
	x, y, r := float32(gh.X), float32(gh.Y), float32(gh.Radius)
	top := y - r*0.2

	var body vector.Path
	body.Arc(x, top, r, math.Pi, 0, vector.Clockwise)
	body.LineTo(x+r, y+r)
	body.LineTo(x+r*0.6, y+r*0.6)
	body.LineTo(x+r*0.2, y+r)
	body.LineTo(x-r*0.2, y+r*0.6)
	body.LineTo(x-r*0.6, y+r)
	body.LineTo(x-r, y+r)
	body.Close()
	fillPath(dst, &body, clr)

	// Pupils look where the ghost is heading.
	dx, dy := entities.DirDelta(gh.Dir)
	px, py := float32(dx)*r*0.08, float32(dy)*r*0.08
	for _, ex := range []float32{x - r*0.3, x + r*0.3} {
		vector.DrawFilledCircle(dst, ex, top, r*0.25, color.White, true)
		vector.DrawFilledCircle(dst, ex+px, top+py, r*0.15, color.Black, true)
	}
}

func drawBonus(dst *ebiten.Image, b session.BonusView) {
	if !b.Active {
		return
	}
	r := float32(b.Radius * (math.Sin(b.PulsePhase)*0.2 + 1))
	x, y := float32(b.X), float32(b.Y)
	vector.DrawFilledRect(dst, x-1, y, 2, r*1.2, colorStem, false)
	vector.DrawFilledCircle(dst, x, y-r*0.2, r*0.8, colorRose, true)
	vector.StrokeCircle(dst, x, y-r*0.2, r*0.45, 1, color.RGBA{R: 0xC0, B: 0x60, A: 0xFF}, true)
}

func drawHeart(dst *ebiten.Image, x, y, r float64) {
	fx, fy, fr := float32(x), float32(y), float32(r)
	vector.DrawFilledCircle(dst, fx-fr*0.45, fy-fr*0.25, fr*0.55, colorHeart, true)
	vector.DrawFilledCircle(dst, fx+fr*0.45, fy-fr*0.25, fr*0.55, colorHeart, true)
	var tip vector.Path
	tip.MoveTo(fx-fr, fy-fr*0.1)
	tip.LineTo(fx+fr, fy-fr*0.1)
	tip.LineTo(fx, fy+fr)
	tip.Close()
	fillPath(dst, &tip, colorHeart)
}

func drawPowerBar(dst *ebiten.Image, snap session.Snapshot, w, h int) {
	if !snap.Powered {
		return
	}
	const barW, barH = 80, 6
	x := float32(w - barW - 4)
	y := float32(h - barH - 4)
	vector.StrokeRect(dst, x, y, barW, barH, 1, colorHeart, false)
	vector.DrawFilledRect(dst, x, y, float32(barW*snap.PowerFraction), barH, colorRose, false)
	label := powerText(snap)
	text.Draw(dst, label, basicfont.Face7x13, int(x)-len(label)*glyphW-4, int(y)+barH, colorHeart)
}

func drawOverlay(dst *ebiten.Image, lines []string, w, h int) {
	vector.DrawFilledRect(dst, 0, 0, float32(w), float32(h), colorShade, false)
	y := h/2 - len(lines)*14/2
	for i, line := range lines {
		clr := color.Color(color.White)
		switch {
		case i == 0:
			clr = colorTitle
		case i == len(lines)-1:
			clr = colorHint
		}
		text.Draw(dst, line, basicfont.Face7x13, (w-len(line)*glyphW)/2, y, clr)
		y += 14
	}
}

func hudText(name string, snap session.Snapshot, hi int, hiName string) string {
	hiLabel := "High"
	if hiName != "" {
		hiLabel = fmt.Sprintf("High(%s)", hiName)
	}
	if name == "" {
		name = "Player"
	}
	return fmt.Sprintf("%s  Score: %d  %s: %d  Lives: %d  Round: %d", name, snap.Score, hiLabel, hi, snap.Lives, snap.Round)
}

func powerText(snap session.Snapshot) string {
	if !snap.Powered {
		return "0s"
	}
	return fmt.Sprintf("%.1fs", snap.PowerRemaining)
}

// overlayLines returns the centered text for the current screen, title first
// and hint last, or nil during play.
func (g *Game) overlayLines(snap session.Snapshot) []string {
	switch {
	case g.enteringName:
		return []string{
			"Valentine Pac-Man",
			"Enter name: " + g.playerName + "_",
			"Arrows or WASD move, Space pauses",
			"Enter to start, Esc to quit",
		}
	case g.showingLeaderboard:
		lines := []string{"High Scores"}
		if snap.State == session.StateGameOver {
			lines[0] = fmt.Sprintf("Game Over  Final score: %d", snap.Score)
		}
		for i, r := range g.leaders {
			lines = append(lines, fmt.Sprintf("%2d. %-12s  %6d", i+1, r.Name, r.Score))
		}
		if snap.State == session.StateGameOver {
			return append(lines, "Enter to play again, Q to exit")
		}
		return append(lines, "L to resume, Q to exit")
	case snap.State == session.StatePaused:
		return []string{"Paused", fmt.Sprintf("Score: %d", snap.Score), "Space to resume"}
	case snap.State == session.StateGameOver:
		return []string{"Game Over", fmt.Sprintf("Final score: %d", snap.Score), "Enter to play again"}
	}
	return nil
}
