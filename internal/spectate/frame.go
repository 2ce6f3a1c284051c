// Package spectate streams session frames to read-only websocket clients.
package spectate

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/joycexyl/valentine-pacman/internal/session"
	tm "github.com/joycexyl/valentine-pacman/internal/tilemap"
)

type Point struct {
	X   float64 `msgpack:"x"`
	Y   float64 `msgpack:"y"`
	Dir string  `msgpack:"dir,omitempty"`
}

type GhostFrame struct {
	Point  `msgpack:",inline"`
	Policy string `msgpack:"policy"`
	Active bool   `msgpack:"active"`
}

// Frame is one spectator update. Pellets is a row-major bitmap with one bit
// per cell, least significant bit first.
type Frame struct {
	Session string       `msgpack:"sid"`
	Tick    int64        `msgpack:"tick"`
	State   string       `msgpack:"state"`
	Score   int          `msgpack:"score"`
	Lives   int          `msgpack:"lives"`
	Round   int          `msgpack:"round"`
	Power   float64      `msgpack:"power"`
	Cols    int          `msgpack:"cols"`
	Rows    int          `msgpack:"rows"`
	Cell    float64      `msgpack:"cell"`
	Pellets []byte       `msgpack:"pellets"`
	Player  Point        `msgpack:"player"`
	Ghosts  []GhostFrame `msgpack:"ghosts"`
	Bonus   *Point       `msgpack:"bonus,omitempty"`
	Hearts  []Point      `msgpack:"hearts,omitempty"`
}

func NewFrame(id string, snap session.Snapshot, b session.Board) Frame {
	f := Frame{
		Session: id,
		Tick:    snap.Tick,
		State:   snap.State.String(),
		Score:   snap.Score,
		Lives:   snap.Lives,
		Round:   snap.Round,
		Cols:    b.Cols(),
		Rows:    b.Rows(),
		Cell:    b.CellSize(),
		Pellets: pelletBitmap(b),
		Player:  Point{X: snap.Player.X, Y: snap.Player.Y, Dir: snap.Player.Facing.String()},
		Ghosts:  make([]GhostFrame, 0, len(snap.Ghosts)),
	}
	if snap.Powered {
		f.Power = snap.PowerFraction
	}
	for _, g := range snap.Ghosts {
		f.Ghosts = append(f.Ghosts, GhostFrame{
			Point:  Point{X: g.X, Y: g.Y, Dir: g.Dir.String()},
			Policy: g.Policy.String(),
			Active: g.Active,
		})
	}
	if snap.Bonus.Active {
		f.Bonus = &Point{X: snap.Bonus.X, Y: snap.Bonus.Y}
	}
	for _, p := range snap.Projectiles {
		f.Hearts = append(f.Hearts, Point{X: p.X, Y: p.Y})
	}
	return f
}

func pelletBitmap(b session.Board) []byte {
	cols := b.Cols()
	bits := make([]byte, (cols*b.Rows()+7)/8)
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < cols; col++ {
			if b.TileAt(col, row) == tm.TilePellet {
				i := row*cols + col
				bits[i/8] |= 1 << (i % 8)
			}
		}
	}
	return bits
}

// HasPellet reports whether the cell still holds a pellet in this frame.
func (f *Frame) HasPellet(col, row int) bool {
	if col < 0 || row < 0 || col >= f.Cols || row >= f.Rows {
		return false
	}
	i := row*f.Cols + col
	if i/8 >= len(f.Pellets) {
		return false
	}
	return f.Pellets[i/8]&(1<<(i%8)) != 0
}

func Encode(f Frame) ([]byte, error) {
	return msgpack.Marshal(&f)
}

func Decode(data []byte) (Frame, error) {
	var f Frame
	err := msgpack.Unmarshal(data, &f)
	return f, err
}
