package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Pos is an integer block coordinate.
type Pos struct {
	X, Y, Z int32
}

// Side identifies one of the six faces of a block.
type Side uint8

const (
	SideDown Side = iota
	SideUp
	SideNorth // -z
	SideSouth // +z
	SideWest  // -x
	SideEast  // +x
)

// Sides lists all six faces in index order.
var Sides = [6]Side{SideDown, SideUp, SideNorth, SideSouth, SideWest, SideEast}

// Horizontal lists the four horizontal axes in flow order: -x, +x, -z, +z.
// Every per-direction array in the liquid code is indexed by this order.
var Horizontal = [4]Side{SideWest, SideEast, SideNorth, SideSouth}

var sideOffsets = [6]Pos{
	SideDown:  {0, -1, 0},
	SideUp:    {0, 1, 0},
	SideNorth: {0, 0, -1},
	SideSouth: {0, 0, 1},
	SideWest:  {-1, 0, 0},
	SideEast:  {1, 0, 0},
}

// Offset returns the unit step for the side.
func (s Side) Offset() Pos { return sideOffsets[s] }

// Opposite returns the face pointing the other way.
func (s Side) Opposite() Side {
	if s%2 == 0 {
		return s + 1
	}
	return s - 1
}

func (s Side) String() string {
	switch s {
	case SideDown:
		return "down"
	case SideUp:
		return "up"
	case SideNorth:
		return "north"
	case SideSouth:
		return "south"
	case SideWest:
		return "west"
	case SideEast:
		return "east"
	}
	return "unknown"
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Add returns p translated by o.
func (p Pos) Add(o Pos) Pos {
	return Pos{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Side returns the neighbouring position across the given face.
func (p Pos) Side(s Side) Pos {
	return p.Add(sideOffsets[s])
}

// Below and Above are shorthands used heavily by the liquid code.
func (p Pos) Below() Pos { return Pos{p.X, p.Y - 1, p.Z} }
func (p Pos) Above() Pos { return Pos{p.X, p.Y + 1, p.Z} }

// Vec3 returns the minimum corner of the block as a vector.
func (p Pos) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}
}
