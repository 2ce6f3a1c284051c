package session

import (
	"github.com/joycexyl/valentine-pacman/internal/entities"
	tm "github.com/joycexyl/valentine-pacman/internal/tilemap"
)

// Board is the read-only view of the maze handed to renderers.
type Board interface {
	Cols() int
	Rows() int
	CellSize() float64
	IsWall(col, row int) bool
	TileAt(col, row int) tm.Tile
	RemainingPellets() int
	TotalPellets() int
}

func (s *Session) Grid() Board { return s.grid }

type PlayerView struct {
	X, Y       float64
	Radius     float64
	Facing     entities.Direction
	Moving     bool
	MouthPhase float64
}

type GhostView struct {
	X, Y         float64
	Radius       float64
	Dir          entities.Direction
	Policy       entities.Policy
	Active       bool
	RespawnTimer float64
}

type BonusView struct {
	X, Y       float64
	Radius     float64
	Active     bool
	Remaining  float64
	PulsePhase float64
}

type ProjectileView struct {
	X, Y float64
}

// Snapshot is a copy of everything a renderer or spectator needs after a
// step. It shares no memory with the session.
type Snapshot struct {
	State State
	Tick  int64
	Round int
	Score int
	Lives int

	Powered        bool
	PowerFraction  float64
	PowerRemaining float64

	PelletsLeft  int
	PelletsTotal int

	Player           PlayerView
	Ghosts           []GhostView
	Bonus            BonusView
	Projectiles      []ProjectileView
	ProjectileRadius float64
}

func (s *Session) Snapshot() Snapshot {
	p := s.player
	snap := Snapshot{
		State:          s.state,
		Tick:           s.tick,
		Round:          s.round,
		Score:          s.score,
		Lives:          s.lives,
		Powered:        p.Powered,
		PowerFraction:  p.PowerFraction(),
		PowerRemaining: p.PowerTimer,
		PelletsLeft:    s.grid.RemainingPellets(),
		PelletsTotal:   s.grid.TotalPellets(),
		Player: PlayerView{
			X:          p.X,
			Y:          p.Y,
			Radius:     p.Radius,
			Facing:     p.Facing,
			Moving:     p.CurrentDir != entities.DirNone,
			MouthPhase: p.MouthPhase,
		},
		Bonus: BonusView{
			X:          s.bonus.X,
			Y:          s.bonus.Y,
			Radius:     s.bonus.Radius,
			Active:     s.bonus.Active,
			Remaining:  s.bonus.Timer,
			PulsePhase: s.bonus.PulsePhase,
		},
		ProjectileRadius: s.shots.Radius,
	}
	snap.Ghosts = make([]GhostView, 0, len(s.ghosts))
	for _, g := range s.ghosts {
		snap.Ghosts = append(snap.Ghosts, GhostView{
			X:            g.X,
			Y:            g.Y,
			Radius:       g.Radius,
			Dir:          g.Dir,
			Policy:       g.Policy,
			Active:       g.Active,
			RespawnTimer: g.RespawnTimer,
		})
	}
	slots := s.shots.Slots()
	for i := range slots {
		if slots[i].Active {
			snap.Projectiles = append(snap.Projectiles, ProjectileView{X: slots[i].X, Y: slots[i].Y})
		}
	}
	return snap
}
