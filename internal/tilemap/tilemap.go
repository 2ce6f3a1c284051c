package tilemap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Tile int

const (
	TilePath Tile = iota
	TileWall
	TilePellet
)

var (
	ErrEmptyMaze  = errors.New("maze has no rows")
	ErrRaggedMaze = errors.New("maze rows differ in width")
)

// TileMap is the maze grid. The template never changes after load; the
// overlay tracks which pellets are still uncollected in the current round.
type TileMap struct {
	Width    int
	Height   int
	TileSize int

	template  [][]Tile
	overlay   [][]Tile
	remaining int
	total     int
}

// NewDefaultMap returns the built-in maze with cells tileSize world units wide.
func NewDefaultMap(tileSize int) *TileMap {
	m, err := Parse(defaultMaze, tileSize)
	if err != nil {
		panic(fmt.Sprintf("tilemap: default maze: %v", err))
	}
	return m
}

// Parse builds a map from text rows: '#' is a wall, '.' a pellet and any
// other byte an open path.
func Parse(lines []string, tileSize int) (*TileMap, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, ErrEmptyMaze
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", tileSize)
	}
	w := len(lines[0])
	grid := make([][]Tile, len(lines))
	total := 0
	for y, line := range lines {
		if len(line) != w {
			return nil, fmt.Errorf("row %d: %w (got %d, want %d)", y, ErrRaggedMaze, len(line), w)
		}
		grid[y] = make([]Tile, w)
		for x := 0; x < w; x++ {
			switch line[x] {
			case '#':
				grid[y][x] = TileWall
			case '.':
				grid[y][x] = TilePellet
				total++
			default:
				grid[y][x] = TilePath
			}
		}
	}
	m := &TileMap{
		Width:    w,
		Height:   len(lines),
		TileSize: tileSize,
		template: grid,
		total:    total,
	}
	m.Reset()
	return m, nil
}

// Load reads a maze in the Parse format. Trailing blank lines are ignored.
func Load(r io.Reader, tileSize int) (*TileMap, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read maze: %w", err)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return Parse(lines, tileSize)
}

// Clone returns a map sharing the immutable template with a fresh overlay.
func (m *TileMap) Clone() *TileMap {
	c := &TileMap{
		Width:    m.Width,
		Height:   m.Height,
		TileSize: m.TileSize,
		template: m.template,
		total:    m.total,
	}
	c.Reset()
	return c
}

// Reset restores every pellet from the template.
func (m *TileMap) Reset() {
	if m.overlay == nil {
		m.overlay = make([][]Tile, m.Height)
	}
	for y := range m.template {
		m.overlay[y] = append(m.overlay[y][:0], m.template[y]...)
	}
	m.remaining = m.total
}

func (m *TileMap) inBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

func (m *TileMap) mustInBounds(x, y int) {
	if !m.inBounds(x, y) {
		panic(fmt.Sprintf("tilemap: cell (%d,%d) outside %dx%d grid", x, y, m.Width, m.Height))
	}
}

// IsWalkable reports false for walls and for anything off the grid.
func (m *TileMap) IsWalkable(x, y int) bool {
	if !m.inBounds(x, y) {
		return false
	}
	return m.template[y][x] != TileWall
}

func (m *TileMap) IsWall(x, y int) bool {
	return !m.IsWalkable(x, y)
}

// TileAt returns the current tile, pellets included. It panics off the grid.
func (m *TileMap) TileAt(x, y int) Tile {
	m.mustInBounds(x, y)
	return m.overlay[y][x]
}

// CollectPelletAt clears a pellet and reports whether one was there.
// Callers must pass a cell on the grid.
func (m *TileMap) CollectPelletAt(x, y int) bool {
	m.mustInBounds(x, y)
	if m.overlay[y][x] != TilePellet {
		return false
	}
	m.overlay[y][x] = TilePath
	m.remaining--
	return true
}

func (m *TileMap) RemainingPellets() int { return m.remaining }

func (m *TileMap) TotalPellets() int { return m.total }

func (m *TileMap) Cols() int { return m.Width }

func (m *TileMap) Rows() int { return m.Height }

func (m *TileMap) CellSize() float64 { return float64(m.TileSize) }
