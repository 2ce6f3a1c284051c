package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joycexyl/valentine-pacman/internal/entities"
	tm "github.com/joycexyl/valentine-pacman/internal/tilemap"
)

type State int

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("invalid session transition")

// Session owns one game: the maze overlay, every entity, score, lives and
// the menu/playing/paused/game-over state. It is not safe for concurrent use;
// drive it from a single loop.
type Session struct {
	ID string

	tuning Tuning
	grid   *tm.TileMap

	player *entities.Player
	ghosts []*entities.Ghost
	bonus  *entities.Bonus
	shots  *entities.ProjectilePool

	state State
	score int
	lives int
	round int
	tick  int64

	bonusTimer float64
	shotTimer  float64

	rng    *rand.Rand
	log    zerolog.Logger
	events []Event
}

type Option func(*Session)

// WithSeed makes ghost choices and bonus placement reproducible.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

// New builds a session in the menu state. The maze is cloned so several
// sessions can share one template.
func New(maze *tm.TileMap, tuning Tuning, opts ...Option) (*Session, error) {
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	if maze.TileSize != tuning.CellSize {
		return nil, fmt.Errorf("%w: maze cell size %d does not match cell_size %d", ErrBadTuning, maze.TileSize, tuning.CellSize)
	}
	if !maze.IsWalkable(tuning.PlayerCol, tuning.PlayerRow) {
		return nil, fmt.Errorf("%w: player spawn %d,%d is not walkable", ErrBadTuning, tuning.PlayerCol, tuning.PlayerRow)
	}
	for i, g := range tuning.Ghosts {
		if !maze.IsWalkable(g.Col, g.Row) {
			return nil, fmt.Errorf("%w: ghost %d spawn %d,%d is not walkable", ErrBadTuning, i, g.Col, g.Row)
		}
	}

	s := &Session{
		tuning: tuning,
		grid:   maze.Clone(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.log = s.log.With().Str("session", s.ID).Logger()
	s.init()
	return s, nil
}

// init creates every entity and resets score, lives and timers.
func (s *Session) init() {
	t := s.tuning
	cs := s.grid.CellSize()

	s.grid.Reset()
	s.player = entities.NewPlayer(s.grid, t.PlayerCol, t.PlayerRow, t.PlayerSpeed, t.PlayerRadius*cs)
	s.ghosts = s.ghosts[:0]
	for _, sp := range t.Ghosts {
		g := entities.NewGhost(s.grid, sp.Col, sp.Row, sp.Policy, t.GhostSpeed, t.GhostRadius*cs)
		g.Epsilon = t.GhostEpsilon
		g.ChaseRate = t.AmbushChase
		s.ghosts = append(s.ghosts, g)
	}
	s.bonus = entities.NewBonus(t.BonusLifetime, t.BonusRadius*cs)
	s.shots = entities.NewProjectilePool(t.ProjectileSlots, t.ProjectileSpeed, t.ProjectileRadius*cs)
	s.shots.MaxTravel = t.ProjectileRange

	s.score = 0
	s.lives = t.Lives
	s.round = 1
	s.tick = 0
	s.bonusTimer = s.nextBonusInterval()
	s.shotTimer = 0
	s.events = s.events[:0]
}

func (s *Session) nextBonusInterval() float64 {
	t := s.tuning
	return t.BonusMinInterval + s.rng.Float64()*(t.BonusMaxInterval-t.BonusMinInterval)
}

func (s *Session) setState(next State) {
	s.log.Info().Stringer("from", s.state).Stringer("to", next).Int("score", s.score).Msg("session state changed")
	s.state = next
}

// Start leaves the menu and begins a fresh game.
func (s *Session) Start() error {
	if s.state != StateMenu {
		return fmt.Errorf("%w: start from %v", ErrInvalidTransition, s.state)
	}
	s.init()
	s.setState(StatePlaying)
	return nil
}

func (s *Session) Pause() error {
	if s.state != StatePlaying {
		return fmt.Errorf("%w: pause from %v", ErrInvalidTransition, s.state)
	}
	s.setState(StatePaused)
	return nil
}

func (s *Session) Resume() error {
	if s.state != StatePaused {
		return fmt.Errorf("%w: resume from %v", ErrInvalidTransition, s.state)
	}
	s.setState(StatePlaying)
	return nil
}

// TogglePause flips between playing and paused.
func (s *Session) TogglePause() error {
	if s.state == StatePaused {
		return s.Resume()
	}
	return s.Pause()
}

// Restart reinitializes every entity, the score and the lives and starts
// playing, whatever the current state.
func (s *Session) Restart() {
	s.init()
	s.setState(StatePlaying)
}

// SetDesiredDirection records a directional intent; the last one before the
// next step wins. Non-cardinal vectors are ignored, as is input outside play.
func (s *Session) SetDesiredDirection(dx, dy int) {
	if s.state != StatePlaying && s.state != StatePaused {
		return
	}
	d := entities.DirectionFromDelta(dx, dy)
	if d == entities.DirNone {
		return
	}
	s.player.SetDesiredDirection(d)
}

func (s *Session) State() State { return s.state }

func (s *Session) Score() int { return s.score }

func (s *Session) Lives() int { return s.lives }

func (s *Session) Tuning() Tuning { return s.tuning }

// Events returns what happened during the last Step. The slice is reused by
// the next Step.
func (s *Session) Events() []Event { return s.events }

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
	s.log.Debug().Stringer("event", e.Kind).Int("points", e.Points).Int("score", s.score).Msg("game event")
}

func (s *Session) addScore(points int) {
	s.score += points
}
