package component

import "github.com/go-gl/mathgl/mgl64"

// Body is the collision shape of a physical entity: a box HalfWidth wide on
// each horizontal side of the position and Height tall.
// Pure data, zero methods. Mutations happen in systems.
type Body struct {
	HalfWidth float64
	Height    float64
}

// Motion stores position and velocity in blocks and blocks per tick.
type Motion struct {
	Pos mgl64.Vec3
	Vel mgl64.Vec3

	InLiquid bool // overlapped any liquid cell last tick
}
