package liquid

import (
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// scanOrder is the neighbour order used when recomputing decay.
var scanOrder = [4]world.Side{world.SideNorth, world.SideSouth, world.SideWest, world.SideEast}

// OnPlaced schedules the first update of a freshly placed liquid cell.
func (l *Liquid) OnPlaced(p world.Pos) { l.OnNeighborChanged(p) }

// OnNeighborChanged runs the harden check and schedules a delayed update.
func (l *Liquid) OnNeighborChanged(p world.Pos) {
	if l.DecayOf(l.world.BlockAt(p)) < 0 {
		return
	}
	l.harden(p)
	l.sched.ScheduleDelayedUpdate(p, l.TickRate())
}

// OnScheduledUpdate runs one step of the liquid state machine at p.
func (l *Liquid) OnScheduledUpdate(p world.Pos) {
	decay := l.DecayOf(l.world.BlockAt(p))
	if decay < 0 {
		l.log.Debug("stale scheduled update", zap.Stringer("pos", p))
		return
	}
	loss := l.LevelLossPerBlock()

	if decay > 0 {
		newDecay := l.recomputeDecay(p, loss)
		if newDecay != decay {
			decay = newDecay
			if decay < 0 {
				l.world.SetBlock(p, world.Air, true, true)
				l.log.Debug("liquid dried up", zap.Stringer("pos", p))
			} else {
				l.world.SetBlock(p, l.StateAt(decay), true, true)
				l.sched.ScheduleDelayedUpdate(p, l.TickRate())
			}
		}
	}
	if decay < 0 {
		return
	}

	below := l.world.BlockAt(p.Below())
	if into, ok := l.variant.SolidifyBelow(below); ok {
		l.world.SetBlock(below.Pos, into, true, true)
		l.log.Debug("solidified block below", zap.Stringer("pos", below.Pos))
	} else {
		l.flowInto(below, decay|FallingBit)
	}

	if decay == 0 || !below.CanBeFlowedInto() {
		level := decay + loss
		if decay >= FallingBit {
			level = 1
		}
		if level >= FallingBit {
			l.harden(p)
			return
		}
		optimal := l.OptimalDirections(p)
		for i, dir := range world.Horizontal {
			if optimal[i] {
				l.flowInto(l.world.BlockAt(p.Side(dir)), level)
			}
		}
	}

	l.harden(p)
}

// recomputeDecay derives the decay a non-source cell at p should hold from
// its surroundings; NotThisLiquid means it should dry up.
func (l *Liquid) recomputeDecay(p world.Pos, loss int) int {
	smallest, sources := l.smallestNeighborDecay(p)
	newDecay := smallest + loss
	if smallest < 0 || newDecay >= FallingBit {
		newDecay = NotThisLiquid
	}

	if top := l.DecayOf(l.world.BlockAt(p.Above())); top >= 0 {
		if top >= FallingBit {
			newDecay = top
		} else {
			newDecay = top | FallingBit
		}
	}

	if sources >= 2 && l.variant.InfiniteSource() {
		bottom := l.world.BlockAt(p.Below())
		if bottom.IsSolid() || l.DecayOf(bottom) == 0 {
			newDecay = 0
		}
	}
	return newDecay
}

// smallestNeighborDecay returns the lowest effective decay among the four
// horizontal neighbours holding this liquid (NotThisLiquid if none) and how
// many of them are sources.
func (l *Liquid) smallestNeighborDecay(p world.Pos) (smallest, sources int) {
	smallest = NotThisLiquid
	for _, dir := range scanOrder {
		d := l.DecayOf(l.world.BlockAt(p.Side(dir)))
		if d < 0 {
			continue
		}
		if d == 0 {
			sources++
		}
		d = effective(d)
		if smallest < 0 || d < smallest {
			smallest = d
		}
	}
	return smallest, sources
}

// flowInto spreads this liquid into target at decay. Cells already holding
// any liquid are left alone; other flowable blocks are broken first.
func (l *Liquid) flowInto(target world.Block, decay int) {
	if !target.CanBeFlowedInto() || target.IsLiquid() {
		return
	}
	if !target.IsAir() {
		l.world.BreakBlock(target.Pos)
	}
	if !l.world.SetBlock(target.Pos, l.StateAt(decay), true, true) {
		return
	}
	l.sched.ScheduleDelayedUpdate(target.Pos, l.TickRate())
}

// harden runs the variant's contact reaction for the cell at p.
func (l *Liquid) harden(p world.Pos) {
	self := l.world.BlockAt(p)
	if l.DecayOf(self) < 0 {
		return
	}
	var sides [6]world.Block
	for _, s := range world.Sides {
		sides[s] = l.world.BlockAt(p.Side(s))
	}
	into, ok := l.variant.Harden(self, sides)
	if !ok || into == self.State {
		return
	}
	l.world.SetBlock(p, into, true, true)
	l.log.Debug("liquid hardened", zap.Stringer("pos", p), zap.Uint16("into", into.ID))
}
