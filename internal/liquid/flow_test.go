package liquid

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecNear(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}

func TestFlowVectorSymmetricBasin(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 4)
	f.put(pos(0, 0, 0), idWater, 0)
	if v := f.water.FlowVector(pos(0, 0, 0)); v != (mgl64.Vec3{}) {
		t.Errorf("source on a flat floor: flow = %v, want zero", v)
	}

	for _, p := range []struct{ x, z int32 }{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		f.put(pos(p.x, 0, p.z), idWater, 2)
	}
	if v := f.water.FlowVector(pos(0, 0, 0)); v != (mgl64.Vec3{}) {
		t.Errorf("source ringed by equal decay: flow = %v, want zero", v)
	}
}

func TestFlowVectorGradient(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 4)
	f.put(pos(0, 0, 0), idWater, 0)
	f.put(pos(1, 0, 0), idWater, 2)

	got := f.water.FlowVector(pos(0, 0, 0))
	if !vecNear(got, mgl64.Vec3{1, 0, 0}) {
		t.Errorf("flow = %v, want +x towards the higher decay", got)
	}
	// the flowing cell sees the source behind it and keeps pointing away
	got = f.water.FlowVector(pos(1, 0, 0))
	if !vecNear(got, mgl64.Vec3{1, 0, 0}) {
		t.Errorf("downstream flow = %v, want +x", got)
	}
}

func TestFlowVectorDownhillPull(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 4)
	f.put(pos(1, -1, 0), idWater, 0) // liquid under the open +x neighbour
	f.put(pos(0, 0, 0), idWater, 3)

	got := f.water.FlowVector(pos(0, 0, 0))
	if !vecNear(got, mgl64.Vec3{1, 0, 0}) {
		t.Errorf("flow = %v, want pulled towards the drop at +x", got)
	}
}

func TestFlowVectorSkipsSolidSides(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 4)
	f.put(pos(0, 0, 0), idWater, 1)
	f.put(pos(-1, 0, 0), idStone, 0)
	f.put(pos(-1, -1, 0), idAir, 0)
	f.put(pos(-1, -2, 0), idWater, 0) // hidden behind the wall
	f.put(pos(0, 0, 1), idWater, 4)

	got := f.water.FlowVector(pos(0, 0, 0))
	if !vecNear(got, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("flow = %v, want +z only", got)
	}
}

func TestFlowVectorFallingColumn(t *testing.T) {
	f := newFixture(t)
	p := pos(0, 5, 0)
	f.put(p, idWater, 8)
	f.put(pos(1, 5, 0), idStone, 0) // obstruction on one cardinal side

	got := f.water.FlowVector(p)
	if !vecNear(got, mgl64.Vec3{0, -1, 0}) {
		t.Errorf("obstructed falling column = %v, want straight down", got)
	}

	f.put(pos(-1, 5, 0), idWater, 3)
	got = f.water.FlowVector(p)
	if got.Y() >= 0 || math.Abs(got.Y()) <= math.Abs(got.X()) {
		t.Errorf("falling column with side gradient = %v, want dominated by -y", got)
	}
	if math.Abs(got.Len()-1) > 1e-9 {
		t.Errorf("flow not normalised: |%v| = %v", got, got.Len())
	}
}

func TestFlowVectorFallingProbeReachesOneUp(t *testing.T) {
	f := newFixture(t)
	p := pos(0, 5, 0)
	f.put(p, idWater, 9)
	if v := f.water.FlowVector(p); v != (mgl64.Vec3{}) {
		t.Fatalf("unobstructed falling cell = %v, want zero", v)
	}
	f.put(pos(0, 6, 1), idStone, 0) // +z one block up
	if v := f.water.FlowVector(p); !vecNear(v, mgl64.Vec3{0, -1, 0}) {
		t.Errorf("obstruction one up = %v, want straight down", v)
	}
	f.put(pos(0, 6, 1), idAir, 0)
	f.put(pos(1, 6, 1), idStone, 0) // diagonal: not probed
	if v := f.water.FlowVector(p); v != (mgl64.Vec3{}) {
		t.Errorf("diagonal obstruction = %v, want zero", v)
	}
}

func TestFlowVectorCacheFollowsRevision(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 4)
	p := pos(0, 0, 0)
	f.put(p, idWater, 0)
	first := f.water.FlowVector(p)
	if first != (mgl64.Vec3{}) {
		t.Fatalf("first = %v", first)
	}
	f.put(pos(0, 0, -1), idWater, 5)
	if v := f.water.FlowVector(p); !vecNear(v, mgl64.Vec3{0, 0, -1}) {
		t.Errorf("after grid change = %v, want -z", v)
	}
}

func TestFlowVectorNotThisLiquid(t *testing.T) {
	f := newFixture(t)
	f.put(pos(0, 0, 0), idLava, 0)
	if v := f.water.FlowVector(pos(0, 0, 0)); v != (mgl64.Vec3{}) {
		t.Errorf("water flow at lava = %v", v)
	}
	if v := f.set.FlowVector(pos(3, 3, 3)); v != (mgl64.Vec3{}) {
		t.Errorf("set flow at air = %v", v)
	}
}

func TestApplyFlowVelocity(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 4)
	f.put(pos(0, 0, 0), idWater, 0)
	f.put(pos(1, 0, 0), idWater, 2)

	acc := mgl64.Vec3{0, 0.5, 0}
	got := f.water.ApplyFlowVelocity(pos(0, 0, 0), acc)
	if !vecNear(got, mgl64.Vec3{1, 0.5, 0}) {
		t.Errorf("ApplyFlowVelocity = %v", got)
	}
}
