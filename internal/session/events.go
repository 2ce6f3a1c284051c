package session

import "fmt"

type EventKind int

const (
	EventPellet EventKind = iota
	EventBonusSpawned
	EventBonusCollected
	EventBonusExpired
	EventShot
	EventGhostEliminated
	EventGhostRespawned
	EventLifeLost
	EventRoundCleared
	EventGameOver
)

var eventNames = [...]string{
	EventPellet:          "pellet",
	EventBonusSpawned:    "bonus_spawned",
	EventBonusCollected:  "bonus_collected",
	EventBonusExpired:    "bonus_expired",
	EventShot:            "shot",
	EventGhostEliminated: "ghost_eliminated",
	EventGhostRespawned:  "ghost_respawned",
	EventLifeLost:        "life_lost",
	EventRoundCleared:    "round_cleared",
	EventGameOver:        "game_over",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// Event is something that happened during a step. Points is the score it
// awarded, Ghost the ghost index for ghost events, Col/Row the cell involved.
type Event struct {
	Kind   EventKind
	Points int
	Ghost  int
	Col    int
	Row    int
}
