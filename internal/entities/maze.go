package entities

import "math"

// Maze is the walkability view entities move over. *tilemap.TileMap satisfies it.
type Maze interface {
	IsWalkable(col, row int) bool
	Cols() int
	Rows() int
	CellSize() float64
}

// CellOf floors a world position to its grid cell.
func CellOf(m Maze, x, y float64) (col, row int) {
	cs := m.CellSize()
	return int(math.Floor(x / cs)), int(math.Floor(y / cs))
}

// CellCenter returns the world position of a cell's center.
func CellCenter(m Maze, col, row int) (x, y float64) {
	cs := m.CellSize()
	return (float64(col) + 0.5) * cs, (float64(row) + 0.5) * cs
}

// nearestCell returns the cell whose center is closest to the position.
func nearestCell(m Maze, x, y float64) (col, row int) {
	cs := m.CellSize()
	return int(math.Round(x/cs - 0.5)), int(math.Round(y/cs - 0.5))
}

// wrapCol folds a column index onto the grid horizontally.
func wrapCol(m Maze, col int) int {
	w := m.Cols()
	return ((col % w) + w) % w
}

// wrapX folds a world x coordinate back into [0, width).
func wrapX(m Maze, x float64) float64 {
	w := float64(m.Cols()) * m.CellSize()
	if x < 0 {
		x += w
	}
	if x >= w {
		x -= w
	}
	return x
}

// neighborWalkable checks the cell one step from (col,row) with horizontal wrap.
func neighborWalkable(m Maze, col, row int, d Direction) bool {
	dx, dy := DirDelta(d)
	return m.IsWalkable(wrapCol(m, col+dx), row+dy)
}

// Overlap is the circle test used for every entity pair:
// the distance between centers is below the sum of radii.
func Overlap(ax, ay, ar, bx, by, br float64) bool {
	dx := ax - bx
	dy := ay - by
	r := ar + br
	return dx*dx+dy*dy < r*r
}
