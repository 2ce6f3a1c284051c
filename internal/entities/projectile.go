package entities

import "math"

// Projectile is one heart shot.
type Projectile struct {
	X, Y     float64
	VX, VY   float64
	Active   bool
	Traveled float64
}

// ProjectilePool holds a fixed number of reusable shots. Firing with every
// slot busy drops the shot.
type ProjectilePool struct {
	Speed  float64
	Radius float64
	// MaxTravel retires a shot after this distance; zero means no limit.
	MaxTravel float64

	slots []Projectile
}

func NewProjectilePool(size int, speed, radius float64) *ProjectilePool {
	return &ProjectilePool{
		Speed:  speed,
		Radius: radius,
		slots:  make([]Projectile, size),
	}
}

// Slots exposes the pool for collision checks and rendering.
func (p *ProjectilePool) Slots() []Projectile { return p.slots }

func (p *ProjectilePool) ActiveCount() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].Active {
			n++
		}
	}
	return n
}

// Fire launches from (x,y) along dir using the first idle slot.
func (p *ProjectilePool) Fire(x, y float64, dir Direction) bool {
	if dir == DirNone {
		dir = DirRight
	}
	for i := range p.slots {
		s := &p.slots[i]
		if s.Active {
			continue
		}
		dx, dy := DirDelta(dir)
		*s = Projectile{
			X:      x,
			Y:      y,
			VX:     float64(dx) * p.Speed,
			VY:     float64(dy) * p.Speed,
			Active: true,
		}
		return true
	}
	return false
}

// Update moves every active shot and retires the ones that left the field,
// hit a wall or ran out of range.
func (p *ProjectilePool) Update(dt float64, m Maze) {
	if dt <= 0 {
		return
	}
	w := float64(m.Cols()) * m.CellSize()
	h := float64(m.Rows()) * m.CellSize()
	for i := range p.slots {
		s := &p.slots[i]
		if !s.Active {
			continue
		}
		s.X += s.VX * dt
		s.Y += s.VY * dt
		s.Traveled += math.Hypot(s.VX, s.VY) * dt
		if s.X < 0 || s.X >= w || s.Y < 0 || s.Y >= h {
			s.Active = false
			continue
		}
		if col, row := CellOf(m, s.X, s.Y); !m.IsWalkable(col, row) {
			s.Active = false
			continue
		}
		if p.MaxTravel > 0 && s.Traveled >= p.MaxTravel {
			s.Active = false
		}
	}
}

// Deactivate retires slot i, used after a hit.
func (p *ProjectilePool) Deactivate(i int) {
	p.slots[i].Active = false
}

func (p *ProjectilePool) Reset() {
	for i := range p.slots {
		p.slots[i] = Projectile{}
	}
}
