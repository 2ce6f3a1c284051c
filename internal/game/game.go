// Package game is the Ebiten front-end: it feeds keyboard input and wall-clock
// deltas into a session, draws the result and plays sounds for its events.
package game

import (
	"context"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/joycexyl/valentine-pacman/internal/leaderboard"
	"github.com/joycexyl/valentine-pacman/internal/session"
)

const (
	maxNameLen     = 12
	leaderboardLen = 10
	storeTimeout   = 2 * time.Second
)

// FrameSink receives the state after every frame, e.g. to feed spectators.
type FrameSink interface {
	Publish(snap session.Snapshot, board session.Board)
}

type Options struct {
	Session *session.Session
	Store   leaderboard.Store
	Audio   *AudioManager
	Logger  zerolog.Logger
	Sink    FrameSink
	// Done, when closed, ends the game as if the player had quit.
	Done <-chan struct{}
	// Scale multiplies the native maze resolution; see FitScale.
	Scale float64
}

type Game struct {
	sess  *session.Session
	store leaderboard.Store
	audio *AudioManager
	log   zerolog.Logger
	sink  FrameSink
	clock *session.Clock
	done  <-chan struct{}

	best               *leaderboard.Record
	leaders            []leaderboard.Record
	playerName         string
	enteringName       bool
	showingLeaderboard bool
	submitted          bool
	fullscreen         bool
	quit               bool
	scale              float64

	off *ebiten.Image
}

func New(opts Options) *Game {
	g := &Game{
		sess:         opts.Session,
		store:        opts.Store,
		audio:        opts.Audio,
		log:          opts.Logger,
		sink:         opts.Sink,
		clock:        session.NewClock(),
		done:         opts.Done,
		enteringName: true,
		scale:        opts.Scale,
	}
	if g.scale <= 0 || math.IsNaN(g.scale) || math.IsInf(g.scale, 0) {
		g.scale = 1
	}
	g.refreshLeaders()
	return g
}

// NativeSize is the maze size in world units.
func (g *Game) NativeSize() (int, int) {
	b := g.sess.Grid()
	cs := b.CellSize()
	return int(float64(b.Cols()) * cs), int(float64(b.Rows()) * cs)
}

func (g *Game) ScreenWidth() int {
	w, _ := g.NativeSize()
	return int(float64(w) * g.scale)
}

func (g *Game) ScreenHeight() int {
	_, h := g.NativeSize()
	return int(float64(h) * g.scale)
}

// FitScale picks the scale that fits a native-sized board within 75% of the
// display, falling back to 1 when the display size is unknown.
func FitScale(nativeW, nativeH, displayW, displayH int) float64 {
	const fit = 0.75
	if nativeW <= 0 || nativeH <= 0 || displayW <= 0 || displayH <= 0 {
		return 1
	}
	scaleW := float64(displayW) * fit / float64(nativeW)
	scaleH := float64(displayH) * fit / float64(nativeH)
	s := math.Min(scaleW, scaleH)
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

func (g *Game) Update() error {
	g.handleInput(readInput())
	select {
	case <-g.done:
		g.quit = true
	default:
	}
	if g.quit {
		g.submitScore()
		return ebiten.Termination
	}
	g.advance(g.clock.Delta())
	return nil
}

// advance steps the session, reacts to what happened and publishes the frame.
func (g *Game) advance(dt float64) {
	if g.showingLeaderboard {
		dt = 0
	}
	g.sess.Step(dt)
	for _, e := range g.sess.Events() {
		g.audio.PlayEvent(e.Kind)
		if e.Kind == session.EventGameOver {
			g.log.Info().Int("score", g.sess.Score()).Str("player", g.playerName).Msg("game over")
			g.submitScore()
			g.showingLeaderboard = true
		}
	}
	if g.sink != nil {
		g.sink.Publish(g.sess.Snapshot(), g.sess.Grid())
	}
}

// submitScore records the current score once per game.
func (g *Game) submitScore() {
	if g.submitted || g.store == nil || g.playerName == "" || g.sess.Score() <= 0 {
		return
	}
	g.submitted = true
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	rec := leaderboard.Record{Name: g.playerName, Score: g.sess.Score(), SessionID: g.sess.ID}
	if err := g.store.Submit(ctx, rec); err != nil {
		g.log.Warn().Err(err).Msg("save high score")
		return
	}
	g.refreshLeaders()
}

func (g *Game) refreshLeaders() {
	if g.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	list, err := g.store.Top(ctx, leaderboardLen)
	if err != nil {
		g.log.Warn().Err(err).Msg("load leaderboard")
		return
	}
	g.leaders = list
	g.best = nil
	if len(list) > 0 {
		g.best = &list[0]
	}
}

// highScore is the best of the stored record and the running score.
func (g *Game) highScore() (int, string) {
	score, name := 0, ""
	if g.best != nil {
		score, name = g.best.Score, g.best.Name
	}
	if s := g.sess.Score(); s > score {
		score, name = s, g.playerName
	}
	return score, name
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.ScreenWidth(), g.ScreenHeight()
}
