package entities

import (
	"math"
	"math/rand"
)

type Ghost struct {
	X, Y   float64
	Dir    Direction
	Policy Policy

	Active       bool
	RespawnTimer float64

	SpawnCol, SpawnRow int

	Speed  float64
	Radius float64
	// Epsilon is how close to a cell center counts as "at" it.
	Epsilon float64
	// ChaseRate is the chance an ambush ghost chases instead of wandering.
	ChaseRate float64

	decided    bool
	decidedCol int
	decidedRow int
}

func NewGhost(m Maze, col, row int, policy Policy, speed, radius float64) *Ghost {
	g := &Ghost{
		Policy:    policy,
		SpawnCol:  col,
		SpawnRow:  row,
		Speed:     speed,
		Radius:    radius,
		Epsilon:   2,
		ChaseRate: 0.7,
	}
	g.Respawn(m)
	return g
}

// Respawn reactivates the ghost at its spawn cell heading up.
func (g *Ghost) Respawn(m Maze) {
	g.X, g.Y = CellCenter(m, g.SpawnCol, g.SpawnRow)
	g.Dir = DirUp
	g.Active = true
	g.RespawnTimer = 0
	g.decided = false
}

// Eliminate takes the ghost out of play until the countdown elapses.
func (g *Ghost) Eliminate(respawnDelay float64) {
	g.Active = false
	g.RespawnTimer = respawnDelay
}

func (g *Ghost) Cell(m Maze) (col, row int) {
	return CellOf(m, g.X, g.Y)
}

// Update advances the ghost toward or away from the target cell according to
// its policy. It reports whether an inactive ghost respawned this step.
func (g *Ghost) Update(dt float64, m Maze, targetCol, targetRow int, rng *rand.Rand) bool {
	if dt <= 0 {
		return false
	}
	if !g.Active {
		g.RespawnTimer -= dt
		if g.RespawnTimer <= 0 {
			g.Respawn(m)
			return true
		}
		return false
	}

	col, row := CellOf(m, g.X, g.Y)
	cx, cy := CellCenter(m, col, row)
	centered := math.Abs(g.X-cx) < g.Epsilon && math.Abs(g.Y-cy) < g.Epsilon
	fresh := !g.decided || g.decidedCol != col || g.decidedRow != row || g.Dir == DirNone
	if centered && fresh {
		g.X, g.Y = cx, cy
		g.Dir = g.choose(m, col, row, targetCol, targetRow, rng)
		g.decided = true
		g.decidedCol, g.decidedRow = col, row
	}
	g.advance(dt, m)
	return false
}

func (g *Ghost) choose(m Maze, col, row, targetCol, targetRow int, rng *rand.Rand) Direction {
	dx := targetCol - col
	dy := targetRow - row

	var buf [4]candidate
	cands := buf[:0]
	for _, d := range Cardinal {
		if !neighborWalkable(m, col, row, d) {
			continue
		}
		var score int
		switch d {
		case DirUp:
			score = -dy
		case DirDown:
			score = dy
		case DirLeft:
			score = -dx
		case DirRight:
			score = dx
		}
		cands = append(cands, candidate{dir: d, score: score})
	}
	if len(cands) == 0 {
		return DirNone
	}

	// No reversing unless the ghost is in a dead end.
	if len(cands) > 1 && g.Dir != DirNone {
		rev := g.Dir.Reverse()
		kept := cands[:0]
		for _, c := range cands {
			if c.dir != rev {
				kept = append(kept, c)
			}
		}
		cands = kept
	}
	return choosers[g.Policy](cands, rng, g.ChaseRate)
}

// advance moves straight ahead, stopping exactly on the next cell center so
// the following step can make a decision there.
func (g *Ghost) advance(dt float64, m Maze) {
	if g.Dir == DirNone || g.Speed <= 0 {
		return
	}
	dx, dy := DirDelta(g.Dir)
	fx, fy := float64(dx), float64(dy)
	step := g.Speed * dt
	nx := g.X + fx*step
	ny := g.Y + fy*step

	col, row := CellOf(m, nx, ny)
	cx, cy := CellCenter(m, col, row)
	before := (cx-g.X)*fx + (cy-g.Y)*fy
	after := (cx-nx)*fx + (cy-ny)*fy
	if before > 0 && after < 0 {
		nx, ny = cx, cy
	}
	g.X = wrapX(m, nx)
	g.Y = ny
}
