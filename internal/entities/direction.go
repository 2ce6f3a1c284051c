package entities

import "math"

type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Cardinal lists the four movement directions in the order ghosts evaluate them.
var Cardinal = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

func DirDelta(d Direction) (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// DirectionFromDelta maps a unit vector to a direction. Anything that is not
// exactly one of the four cardinal unit vectors yields DirNone.
func DirectionFromDelta(dx, dy int) Direction {
	switch {
	case dx == 0 && dy == -1:
		return DirUp
	case dx == 0 && dy == 1:
		return DirDown
	case dx == -1 && dy == 0:
		return DirLeft
	case dx == 1 && dy == 0:
		return DirRight
	default:
		return DirNone
	}
}

func (d Direction) Reverse() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Horizontal reports whether d moves along the x axis.
func (d Direction) Horizontal() bool { return d == DirLeft || d == DirRight }

// Angle is the render/aim angle in radians, screen coordinates (y down).
func (d Direction) Angle() float64 {
	switch d {
	case DirLeft:
		return math.Pi
	case DirUp:
		return -math.Pi / 2
	case DirDown:
		return math.Pi / 2
	default:
		return 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}
