// Package tui runs a session in a terminal. Each maze cell is drawn as two
// character columns so the board keeps roughly square proportions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/joycexyl/valentine-pacman/internal/leaderboard"
	"github.com/joycexyl/valentine-pacman/internal/session"
)

const (
	frameInterval  = 16 * time.Millisecond
	leaderboardLen = 10
	storeTimeout   = 2 * time.Second
	defaultName    = "Player"
)

// Canvas is the part of tcell.Screen the renderer writes to.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// FrameSink receives the state after every frame.
type FrameSink interface {
	Publish(snap session.Snapshot, board session.Board)
}

type Options struct {
	Session    *session.Session
	Store      leaderboard.Store
	Sound      *SoundManager
	Logger     zerolog.Logger
	Sink       FrameSink
	PlayerName string
}

type App struct {
	sess  *session.Session
	store leaderboard.Store
	sound *SoundManager
	log   zerolog.Logger
	sink  FrameSink
	clock *session.Clock

	name      string
	leaders   []leaderboard.Record
	submitted bool
	quit      bool
}

func New(opts Options) *App {
	a := &App{
		sess:  opts.Session,
		store: opts.Store,
		sound: opts.Sound,
		log:   opts.Logger,
		sink:  opts.Sink,
		clock: session.NewClock(),
		name:  opts.PlayerName,
	}
	if a.name == "" {
		a.name = defaultName
	}
	a.refreshLeaders()
	return a
}

// Run opens the terminal and plays until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()
	return a.loop(ctx, screen)
}

func (a *App) loop(ctx context.Context, screen tcell.Screen) error {
	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.submitScore()
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				a.handleKey(ev)
			case *tcell.EventResize:
				screen.Sync()
			}
			if a.quit {
				a.submitScore()
				return nil
			}
		case <-ticker.C:
			a.advance(a.clock.Delta())
			screen.Clear()
			a.render(screen)
			screen.Show()
		}
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		a.quit = true
	case tcell.KeyUp:
		a.sess.SetDesiredDirection(0, -1)
	case tcell.KeyDown:
		a.sess.SetDesiredDirection(0, 1)
	case tcell.KeyLeft:
		a.sess.SetDesiredDirection(-1, 0)
	case tcell.KeyRight:
		a.sess.SetDesiredDirection(1, 0)
	case tcell.KeyEnter:
		a.enter()
	case tcell.KeyRune:
		a.handleRune(ev.Rune())
	}
}

func (a *App) handleRune(r rune) {
	switch r {
	case 'q', 'Q':
		a.quit = true
	case ' ', 'p', 'P':
		if err := a.sess.TogglePause(); err != nil && !errors.Is(err, session.ErrInvalidTransition) {
			a.log.Warn().Err(err).Msg("toggle pause")
		}
		a.clock.Reset()
	case 'w', 'k':
		a.sess.SetDesiredDirection(0, -1)
	case 's', 'j':
		a.sess.SetDesiredDirection(0, 1)
	case 'a', 'h':
		a.sess.SetDesiredDirection(-1, 0)
	case 'd', 'l':
		a.sess.SetDesiredDirection(1, 0)
	}
}

// enter starts from the menu and restarts after a game over.
func (a *App) enter() {
	switch a.sess.State() {
	case session.StateMenu:
		if err := a.sess.Start(); err != nil {
			a.log.Warn().Err(err).Msg("start session")
		}
	case session.StateGameOver:
		a.submitScore()
		a.sess.Restart()
		a.submitted = false
	default:
		return
	}
	a.clock.Reset()
}

func (a *App) advance(dt float64) {
	a.sess.Step(dt)
	for _, e := range a.sess.Events() {
		a.sound.PlayEvent(e.Kind)
		if e.Kind == session.EventGameOver {
			a.log.Info().Int("score", a.sess.Score()).Str("player", a.name).Msg("game over")
			a.submitScore()
		}
	}
	if a.sink != nil {
		a.sink.Publish(a.sess.Snapshot(), a.sess.Grid())
	}
}

func (a *App) submitScore() {
	if a.submitted || a.store == nil || a.sess.Score() <= 0 {
		return
	}
	a.submitted = true
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	rec := leaderboard.Record{Name: a.name, Score: a.sess.Score(), SessionID: a.sess.ID}
	if err := a.store.Submit(ctx, rec); err != nil {
		a.log.Warn().Err(err).Msg("save high score")
		return
	}
	a.refreshLeaders()
}

func (a *App) refreshLeaders() {
	if a.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	list, err := a.store.Top(ctx, leaderboardLen)
	if err != nil {
		a.log.Warn().Err(err).Msg("load leaderboard")
		return
	}
	a.leaders = list
}

func (a *App) highScore() int {
	hi := a.sess.Score()
	if len(a.leaders) > 0 && a.leaders[0].Score > hi {
		hi = a.leaders[0].Score
	}
	return hi
}
