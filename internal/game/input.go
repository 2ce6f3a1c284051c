package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/joycexyl/valentine-pacman/internal/session"
)

// input is one frame of keyboard state.
type input struct {
	dx, dy      int
	chars       []rune
	backspace   bool
	enter       bool
	pause       bool
	fullscreen  bool
	quit        bool
	escape      bool
	leaderboard bool
}

// steerKeys are checked in order; the first held binding wins.
var steerKeys = []struct {
	keys   []ebiten.Key
	dx, dy int
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, 0, -1},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, 0, 1},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, -1, 0},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, 1, 0},
}

const leaderboardKey = ebiten.KeyL

func readInput() input {
	var in input
steer:
	for _, b := range steerKeys {
		for _, k := range b.keys {
			if ebiten.IsKeyPressed(k) {
				in.dx, in.dy = b.dx, b.dy
				break steer
			}
		}
	}
	in.chars = ebiten.AppendInputChars(nil)
	in.backspace = inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	in.enter = inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter)
	in.pause = inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyP)
	in.fullscreen = inpututil.IsKeyJustPressed(ebiten.KeyF)
	in.escape = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	in.quit = inpututil.IsKeyJustPressed(ebiten.KeyQ) || in.escape
	in.leaderboard = inpututil.IsKeyJustPressed(leaderboardKey)
	return in
}

func validNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == ' ' || r == '_' || r == '-'
}

func (g *Game) handleInput(in input) {
	// Name entry takes precedence; letter keys would otherwise act while typing.
	if g.enteringName {
		g.handleNameEntry(in)
		return
	}
	if in.fullscreen {
		g.fullscreen = !g.fullscreen
		ebiten.SetFullscreen(g.fullscreen)
	}

	if in.quit {
		// First Q shows the leaderboard, the second one exits. Viewing does
		// not submit; the score is saved on exit or at game over.
		if g.showingLeaderboard {
			g.quit = true
			return
		}
		g.setLeaderboard(true)
		return
	}
	if in.leaderboard {
		g.setLeaderboard(!g.showingLeaderboard)
		return
	}

	if in.dx != 0 || in.dy != 0 {
		g.sess.SetDesiredDirection(in.dx, in.dy)
	}
	if in.pause && !g.showingLeaderboard {
		if err := g.sess.TogglePause(); err != nil && !errors.Is(err, session.ErrInvalidTransition) {
			g.log.Warn().Err(err).Msg("toggle pause")
		}
		g.clock.Reset()
	}
	if in.enter && g.sess.State() == session.StateGameOver {
		g.restart()
	}
}

func (g *Game) handleNameEntry(in input) {
	for _, r := range in.chars {
		if len([]rune(g.playerName)) >= maxNameLen {
			break
		}
		if validNameRune(r) {
			g.playerName += string(r)
		}
	}
	if in.backspace {
		rs := []rune(g.playerName)
		if len(rs) > 0 {
			g.playerName = string(rs[:len(rs)-1])
		}
	}
	// Q is a valid name letter, so only Escape quits here.
	if in.escape {
		g.quit = true
		return
	}
	if in.enter && len([]rune(g.playerName)) > 0 {
		g.enteringName = false
		if err := g.sess.Start(); err != nil {
			g.log.Warn().Err(err).Msg("start session")
		}
		g.clock.Reset()
	}
}

func (g *Game) restart() {
	g.submitScore()
	g.sess.Restart()
	g.submitted = false
	g.showingLeaderboard = false
	g.clock.Reset()
}

// setLeaderboard shows or hides the leaderboard. The simulation does not run
// while it is visible.
func (g *Game) setLeaderboard(show bool) {
	if show {
		g.refreshLeaders()
	} else {
		g.clock.Reset()
	}
	g.showingLeaderboard = show
}
