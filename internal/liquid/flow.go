package liquid

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/voxelflow/server/internal/world"
)

// fallingProbe is the fixed probe order for the falling-stream check: the
// four cardinal neighbours at the same height, then the same four one up.
var fallingProbe = [8]world.Pos{
	{X: 0, Y: 0, Z: -1}, {X: 0, Y: 0, Z: 1}, {X: -1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: -1}, {X: 0, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
}

var fallingBias = mgl64.Vec3{0, -6, 0}

// FlowVector returns the normalised direction the liquid at p streams in.
// Results are memoised until the grid revision changes.
func (l *Liquid) FlowVector(p world.Pos) mgl64.Vec3 {
	rev := l.world.Revision()
	if rev != l.flowRev {
		clear(l.flowCache)
		l.flowRev = rev
	}
	if v, ok := l.flowCache[p]; ok {
		return v
	}
	v := l.computeFlowVector(p)
	l.flowCache[p] = v
	return v
}

func (l *Liquid) computeFlowVector(p world.Pos) mgl64.Vec3 {
	self := l.world.BlockAt(p)
	raw := l.DecayOf(self)
	if raw < 0 {
		return mgl64.Vec3{}
	}
	decay := effective(raw)

	var v mgl64.Vec3
	for _, dir := range world.Horizontal {
		off := dir.Offset().Vec3()
		side := l.world.BlockAt(p.Side(dir))
		sideDecay := l.EffectiveDecayOf(side)
		if sideDecay >= 0 {
			v = v.Add(off.Mul(float64(sideDecay - decay)))
			continue
		}
		if !side.CanBeFlowedInto() {
			continue
		}
		belowDecay := l.EffectiveDecayOf(l.world.BlockAt(side.Pos.Below()))
		if belowDecay >= 0 {
			v = v.Add(off.Mul(float64(belowDecay - (decay - 8))))
		}
	}

	if raw >= FallingBit && l.columnObstructed(p) {
		v = normalize(v).Add(fallingBias)
	}
	return normalize(v)
}

func (l *Liquid) columnObstructed(p world.Pos) bool {
	for _, off := range fallingProbe {
		if !l.world.BlockAt(p.Add(off)).CanBeFlowedInto() {
			return true
		}
	}
	return false
}

// ApplyFlowVelocity adds the flow vector at p to acc. Physics calls it for
// every cell of this liquid a body overlaps.
func (l *Liquid) ApplyFlowVelocity(p world.Pos, acc mgl64.Vec3) mgl64.Vec3 {
	return acc.Add(l.FlowVector(p))
}

// normalize returns the unit vector of v, or zero for a zero vector.
func normalize(v mgl64.Vec3) mgl64.Vec3 {
	n := v.Len()
	if n == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / n)
}
