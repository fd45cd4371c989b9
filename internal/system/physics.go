package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/voxelflow/server/internal/component"
	"github.com/voxelflow/server/internal/core/ecs"
	coresys "github.com/voxelflow/server/internal/core/system"
	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/world"
)

const (
	gravity       = 0.08
	liquidGravity = 0.02
	airDrag       = 0.98
	liquidDrag    = 0.8
)

// PhysicsSystem pushes bodies along the flow of every liquid cell they
// overlap, then moves them with per-axis block collision. Phase 3
// (PostUpdate), after the grid settled for the tick.
type PhysicsSystem struct {
	grid    *world.Grid
	liquids *liquid.Set
	bodies  *ecs.Store[component.Body]
	motions *ecs.Store[component.Motion]
	impulse float64
}

func NewPhysicsSystem(grid *world.Grid, liquids *liquid.Set,
	bodies *ecs.Store[component.Body],
	motions *ecs.Store[component.Motion],
	flowImpulse float64) *PhysicsSystem {
	return &PhysicsSystem{
		grid:    grid,
		liquids: liquids,
		bodies:  bodies,
		motions: motions,
		impulse: flowImpulse,
	}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *PhysicsSystem) Update(_ time.Duration) {
	ecs.Join(s.bodies, s.motions, func(_ ecs.EntityID, b *component.Body, m *component.Motion) {
		s.step(b, m)
	})
}

// FlowAt sums the flow vectors of every liquid cell box overlaps and
// reports whether it touched any liquid.
func (s *PhysicsSystem) FlowAt(box world.BBox) (mgl64.Vec3, bool) {
	var acc mgl64.Vec3
	touched := false
	box.Cells(func(p world.Pos) {
		l, ok := s.liquids.At(p)
		if !ok {
			return
		}
		touched = true
		acc = l.ApplyFlowVelocity(p, acc)
	})
	return acc, touched
}

func (s *PhysicsSystem) step(b *component.Body, m *component.Motion) {
	box := world.BoxAround(m.Pos, b.HalfWidth, b.Height)
	flow, in := s.FlowAt(box)
	m.InLiquid = in

	if n := flow.Len(); n > 0 {
		m.Vel = m.Vel.Add(flow.Mul(s.impulse / n))
	}
	if in {
		m.Vel[1] -= liquidGravity
	} else {
		m.Vel[1] -= gravity
	}

	for axis := 0; axis < 3; axis++ {
		var d mgl64.Vec3
		d[axis] = m.Vel[axis]
		if d[axis] == 0 {
			continue
		}
		if s.collides(box.Translate(d)) {
			m.Vel[axis] = 0
			continue
		}
		box = box.Translate(d)
		m.Pos = m.Pos.Add(d)
	}

	drag := airDrag
	if in {
		drag = liquidDrag
	}
	m.Vel = m.Vel.Mul(drag)
}

func (s *PhysicsSystem) collides(box world.BBox) bool {
	hit := false
	box.Cells(func(p world.Pos) {
		if !hit && s.grid.BlockAt(p).IsSolid() {
			hit = true
		}
	})
	return hit
}
