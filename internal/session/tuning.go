package session

import (
	"errors"
	"fmt"

	"github.com/joycexyl/valentine-pacman/internal/entities"
)

// GhostSpawn places one ghost and fixes its personality.
type GhostSpawn struct {
	Col    int             `yaml:"col"`
	Row    int             `yaml:"row"`
	Policy entities.Policy `yaml:"policy"`
}

// Tuning holds every gameplay constant. Times are seconds, speeds are world
// units per second and radii are fractions of a cell.
type Tuning struct {
	CellSize int     `yaml:"cell_size"`
	Lives    int     `yaml:"lives"`
	MaxStep  float64 `yaml:"max_step"`

	PlayerCol    int     `yaml:"player_col"`
	PlayerRow    int     `yaml:"player_row"`
	PlayerSpeed  float64 `yaml:"player_speed"`
	PlayerRadius float64 `yaml:"player_radius"`
	PowerTime    float64 `yaml:"power_time"`

	Ghosts       []GhostSpawn `yaml:"ghosts"`
	GhostSpeed   float64      `yaml:"ghost_speed"`
	GhostRadius  float64      `yaml:"ghost_radius"`
	GhostEpsilon float64      `yaml:"ghost_epsilon"`
	AmbushChase  float64      `yaml:"ambush_chase"`
	RespawnDelay float64      `yaml:"respawn_delay"`

	BonusLifetime    float64 `yaml:"bonus_lifetime"`
	BonusRadius      float64 `yaml:"bonus_radius"`
	BonusMinInterval float64 `yaml:"bonus_min_interval"`
	BonusMaxInterval float64 `yaml:"bonus_max_interval"`
	BonusAttempts    int     `yaml:"bonus_attempts"`

	ShotInterval     float64 `yaml:"shot_interval"`
	ProjectileSlots  int     `yaml:"projectile_slots"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	ProjectileRadius float64 `yaml:"projectile_radius"`
	ProjectileRange  float64 `yaml:"projectile_range"`

	PelletPoints int `yaml:"pellet_points"`
	BonusPoints  int `yaml:"bonus_points"`
	GhostPoints  int `yaml:"ghost_points"`
	ClearPoints  int `yaml:"clear_points"`
}

// DefaultTuning is the standard Valentine game on the 28x31 maze.
func DefaultTuning() Tuning {
	return Tuning{
		CellSize: 20,
		Lives:    3,
		MaxStep:  0.05,

		PlayerCol:    14,
		PlayerRow:    23,
		PlayerSpeed:  100,
		PlayerRadius: 0.4,
		PowerTime:    8,

		Ghosts: []GhostSpawn{
			{Col: 12, Row: 14, Policy: entities.PolicyAggressive},
			{Col: 14, Row: 14, Policy: entities.PolicyAmbush},
			{Col: 15, Row: 14, Policy: entities.PolicyRandom},
			{Col: 16, Row: 14, Policy: entities.PolicyScatter},
		},
		GhostSpeed:   85,
		GhostRadius:  0.4,
		GhostEpsilon: 2,
		AmbushChase:  0.7,
		RespawnDelay: 8,

		BonusLifetime:    8,
		BonusRadius:      0.35,
		BonusMinInterval: 10,
		BonusMaxInterval: 20,
		BonusAttempts:    100,

		ShotInterval:     0.5,
		ProjectileSlots:  8,
		ProjectileSpeed:  200,
		ProjectileRadius: 0.25,

		PelletPoints: 10,
		BonusPoints:  50,
		GhostPoints:  200,
		ClearPoints:  1000,
	}
}

var ErrBadTuning = errors.New("invalid tuning")

// Validate checks values that would break the simulation. Spawn cells are
// checked against the maze by New.
func (t Tuning) Validate() error {
	switch {
	case t.CellSize <= 0:
		return fmt.Errorf("%w: cell_size must be positive", ErrBadTuning)
	case t.Lives <= 0:
		return fmt.Errorf("%w: lives must be positive", ErrBadTuning)
	case t.MaxStep <= 0:
		return fmt.Errorf("%w: max_step must be positive", ErrBadTuning)
	case t.PlayerSpeed*t.MaxStep >= float64(t.CellSize):
		return fmt.Errorf("%w: player can cross a whole cell in one step", ErrBadTuning)
	case t.GhostSpeed*t.MaxStep >= float64(t.CellSize):
		return fmt.Errorf("%w: ghosts can cross a whole cell in one step", ErrBadTuning)
	case len(t.Ghosts) == 0:
		return fmt.Errorf("%w: at least one ghost is required", ErrBadTuning)
	case t.BonusMinInterval < 0 || t.BonusMaxInterval < t.BonusMinInterval:
		return fmt.Errorf("%w: bonus interval range is empty", ErrBadTuning)
	case t.ProjectileSlots <= 0:
		return fmt.Errorf("%w: projectile_slots must be positive", ErrBadTuning)
	case t.ShotInterval <= 0:
		return fmt.Errorf("%w: shot_interval must be positive", ErrBadTuning)
	case t.AmbushChase < 0 || t.AmbushChase > 1:
		return fmt.Errorf("%w: ambush_chase must be within [0,1]", ErrBadTuning)
	}
	return nil
}
