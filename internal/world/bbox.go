package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BBox is an axis-aligned bounding box in world units.
type BBox struct {
	Min, Max mgl64.Vec3
}

// BoxAround returns a box centred horizontally on pos with its base at pos.Y.
func BoxAround(pos mgl64.Vec3, halfWidth, height float64) BBox {
	return BBox{
		Min: mgl64.Vec3{pos[0] - halfWidth, pos[1], pos[2] - halfWidth},
		Max: mgl64.Vec3{pos[0] + halfWidth, pos[1] + height, pos[2] + halfWidth},
	}
}

// Intersects reports whether the boxes overlap with non-zero volume.
func (b BBox) Intersects(o BBox) bool {
	return b.Min[0] < o.Max[0] && b.Max[0] > o.Min[0] &&
		b.Min[1] < o.Max[1] && b.Max[1] > o.Min[1] &&
		b.Min[2] < o.Max[2] && b.Max[2] > o.Min[2]
}

// Cells calls fn for every block position the box overlaps.
func (b BBox) Cells(fn func(Pos)) {
	lo := Pos{floor(b.Min[0]), floor(b.Min[1]), floor(b.Min[2])}
	hi := Pos{ceil(b.Max[0]) - 1, ceil(b.Max[1]) - 1, ceil(b.Max[2]) - 1}
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				fn(Pos{x, y, z})
			}
		}
	}
}

// Translate returns the box moved by d.
func (b BBox) Translate(d mgl64.Vec3) BBox {
	return BBox{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func floor(v float64) int32 { return int32(math.Floor(v)) }
func ceil(v float64) int32  { return int32(math.Ceil(v)) }
