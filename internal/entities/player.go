package entities

import "math"

type Player struct {
	X, Y       float64
	CurrentDir Direction
	DesiredDir Direction
	// Facing is the last non-zero direction; it orients rendering and aims shots.
	Facing Direction

	Speed  float64
	Radius float64

	Powered       bool
	PowerTimer    float64
	PowerDuration float64

	MouthPhase float64
	MouthSpeed float64
	MouthMax   float64

	SpawnCol, SpawnRow int
}

// NewPlayer places a player at the center of its spawn cell, facing right.
func NewPlayer(m Maze, col, row int, speed, radius float64) *Player {
	p := &Player{
		Speed:      speed,
		Radius:     radius,
		MouthSpeed: 8,
		MouthMax:   0.4,
		SpawnCol:   col,
		SpawnRow:   row,
	}
	p.Reset(m)
	return p
}

// Reset returns the player to its spawn cell. The powered state survives.
func (p *Player) Reset(m Maze) {
	p.X, p.Y = CellCenter(m, p.SpawnCol, p.SpawnRow)
	p.CurrentDir = DirNone
	p.DesiredDir = DirNone
	p.Facing = DirRight
	p.MouthPhase = 0
}

// SetDesiredDirection queues a turn; it is applied once the lane ahead is open.
func (p *Player) SetDesiredDirection(d Direction) {
	p.DesiredDir = d
}

// ActivatePower sets the powered state. Re-triggering resets the timer.
func (p *Player) ActivatePower(duration float64) {
	p.Powered = true
	p.PowerDuration = duration
	p.PowerTimer = duration
}

// PowerFraction is the remaining share of the power-up in [0,1].
func (p *Player) PowerFraction() float64 {
	if !p.Powered || p.PowerDuration <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, p.PowerTimer/p.PowerDuration))
}

func (p *Player) Cell(m Maze) (col, row int) {
	return CellOf(m, p.X, p.Y)
}

func (p *Player) FacingAngle() float64 { return p.Facing.Angle() }

func (p *Player) Update(dt float64, m Maze) {
	if dt <= 0 {
		return
	}
	if p.Powered {
		p.PowerTimer -= dt
		if p.PowerTimer <= 0 {
			p.Powered = false
			p.PowerTimer = 0
		}
	}

	p.tryTurn(m)

	if p.advance(dt, m) {
		p.MouthPhase += p.MouthSpeed * dt
		if p.MouthPhase > p.MouthMax {
			p.MouthPhase = 0
		}
	} else {
		p.MouthPhase = 0
	}

	if p.CurrentDir != DirNone {
		p.Facing = p.CurrentDir
	}
}

// tryTurn commits the desired direction when the cell one step past the
// nearest cell center is open. Perpendicular turns snap onto the new lane.
func (p *Player) tryTurn(m Maze) {
	d := p.DesiredDir
	if d == DirNone {
		return
	}
	col, row := nearestCell(m, p.X, p.Y)
	col = wrapCol(m, col)
	if !m.IsWalkable(col, row) || !neighborWalkable(m, col, row, d) {
		return
	}
	if p.CurrentDir == DirNone || d.Horizontal() != p.CurrentDir.Horizontal() {
		cx, cy := CellCenter(m, col, row)
		if d.Horizontal() {
			p.Y = cy
		} else {
			p.X = cx
		}
	}
	p.CurrentDir = d
	p.DesiredDir = DirNone
}

// advance moves along CurrentDir and reports whether the player moved.
// A lane that ends in a wall stops the player at the last cell's center;
// the direction is kept so the player resumes as soon as it turns.
func (p *Player) advance(dt float64, m Maze) bool {
	if p.CurrentDir == DirNone || p.Speed <= 0 {
		return false
	}
	dx, dy := DirDelta(p.CurrentDir)
	step := p.Speed * dt

	col, row := CellOf(m, p.X, p.Y)
	if !neighborWalkable(m, col, row, p.CurrentDir) {
		cx, cy := CellCenter(m, col, row)
		ahead := (cx-p.X)*float64(dx) + (cy-p.Y)*float64(dy)
		if ahead <= 0 {
			return false
		}
		step = math.Min(step, ahead)
	}

	nx := wrapX(m, p.X+float64(dx)*step)
	ny := p.Y + float64(dy)*step
	ncol, nrow := CellOf(m, nx, ny)
	if !m.IsWalkable(ncol, nrow) {
		return false
	}
	p.X, p.Y = nx, ny
	return true
}
