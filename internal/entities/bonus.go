package entities

import "math/rand"

// Bonus is the rose power-up. It appears on a random open cell and withers
// after Lifetime seconds if nobody picks it up.
type Bonus struct {
	X, Y     float64
	Col, Row int
	Active   bool

	Timer    float64
	Lifetime float64
	Radius   float64

	PulsePhase float64
}

func NewBonus(lifetime, radius float64) *Bonus {
	return &Bonus{Lifetime: lifetime, Radius: radius}
}

// Spawn tries up to attempts random cells and activates on the first open
// one. It reports false when every attempt hit a wall.
func (b *Bonus) Spawn(m Maze, rng *rand.Rand, attempts int) bool {
	for i := 0; i < attempts; i++ {
		col := rng.Intn(m.Cols())
		row := rng.Intn(m.Rows())
		if !m.IsWalkable(col, row) {
			continue
		}
		b.Col, b.Row = col, row
		b.X, b.Y = CellCenter(m, col, row)
		b.Active = true
		b.Timer = b.Lifetime
		b.PulsePhase = 0
		return true
	}
	return false
}

// Update counts the lifetime down and reports whether the bonus expired.
func (b *Bonus) Update(dt float64) bool {
	if !b.Active || dt <= 0 {
		return false
	}
	b.Timer -= dt
	b.PulsePhase += dt * 5
	if b.Timer <= 0 {
		b.Active = false
		b.Timer = 0
		return true
	}
	return false
}

func (b *Bonus) Overlaps(x, y, r float64) bool {
	return b.Active && Overlap(b.X, b.Y, b.Radius, x, y, r)
}

func (b *Bonus) Collect() {
	b.Active = false
	b.Timer = 0
}
