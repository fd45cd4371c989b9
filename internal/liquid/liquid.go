// Package liquid implements level-based liquid spread over the block grid:
// decay bookkeeping, flow direction vectors, the bounded drop search and the
// scheduled-update state machine.
package liquid

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// World is the grid surface the liquid code reads and mutates.
type World interface {
	BlockAt(p world.Pos) world.Block
	SetBlock(p world.Pos, s world.State, updateNeighbors, network bool) bool
	BreakBlock(p world.Pos)
	Revision() uint64
}

// Scheduler queues delayed updates that come back through OnScheduledUpdate.
type Scheduler interface {
	ScheduleDelayedUpdate(p world.Pos, delay int)
}

// Liquid drives one liquid block type. All methods must be called from the
// goroutine that owns the world.
type Liquid struct {
	id      uint16
	variant Variant
	world   World
	sched   Scheduler
	log     *zap.Logger

	// flow vectors memoised for the grid revision in flowRev
	flowRev   uint64
	flowCache map[world.Pos]mgl64.Vec3
}

// New binds variant behaviour to block type id.
func New(id uint16, v Variant, w World, s Scheduler, log *zap.Logger) *Liquid {
	if log == nil {
		log = zap.NewNop()
	}
	return &Liquid{
		id:        id,
		variant:   v,
		world:     w,
		sched:     s,
		log:       log.With(zap.String("liquid", v.Name())),
		flowCache: make(map[world.Pos]mgl64.Vec3),
	}
}

// ID returns the block type id this liquid occupies.
func (l *Liquid) ID() uint16 { return l.id }

// Variant returns the per-liquid behaviour.
func (l *Liquid) Variant() Variant { return l.variant }

// TickRate is the number of ticks between scheduled re-evaluations.
func (l *Liquid) TickRate() int { return l.variant.TickRate() }

// LevelLossPerBlock is the decay added per block of horizontal flow.
func (l *Liquid) LevelLossPerBlock() int { return l.variant.LevelLossPerBlock() }

// StateAt returns the grid state for this liquid at decay.
func (l *Liquid) StateAt(decay int) world.State {
	return world.State{ID: l.id, Meta: uint8(decay) & world.MetaMask}
}

// Set holds every liquid of a world, keyed by block type id.
type Set struct {
	byID  map[uint16]*Liquid
	order []*Liquid
	world World
	log   *zap.Logger
}

func NewSet(w World, log *zap.Logger) *Set {
	if log == nil {
		log = zap.NewNop()
	}
	return &Set{byID: make(map[uint16]*Liquid, 4), world: w, log: log}
}

// Add registers l. A second liquid on the same id replaces the first.
func (s *Set) Add(l *Liquid) {
	if _, ok := s.byID[l.id]; !ok {
		s.order = append(s.order, l)
	} else {
		for i, o := range s.order {
			if o.id == l.id {
				s.order[i] = l
			}
		}
	}
	s.byID[l.id] = l
}

// ByID returns the liquid occupying block type id.
func (s *Set) ByID(id uint16) (*Liquid, bool) {
	l, ok := s.byID[id]
	return l, ok
}

// At returns the liquid currently stored at p.
func (s *Set) At(p world.Pos) (*Liquid, bool) {
	return s.ByID(s.world.BlockAt(p).State.ID)
}

// All returns the liquids in registration order.
func (s *Set) All() []*Liquid { return s.order }

// OnNeighborChanged routes a neighbour notification to the liquid at p.
// Non-liquid cells ignore it.
func (s *Set) OnNeighborChanged(p world.Pos) {
	if l, ok := s.At(p); ok {
		l.OnNeighborChanged(p)
	}
}

// OnScheduledUpdate routes a due update to whatever liquid holds p now.
// An update for a cell that no longer holds any liquid is dropped.
func (s *Set) OnScheduledUpdate(p world.Pos) {
	l, ok := s.At(p)
	if !ok {
		s.log.Debug("stale scheduled update", zap.Stringer("pos", p))
		return
	}
	l.OnScheduledUpdate(p)
}

// FlowVector returns the flow vector at p, or zero if p holds no liquid.
func (s *Set) FlowVector(p world.Pos) mgl64.Vec3 {
	if l, ok := s.At(p); ok {
		return l.FlowVector(p)
	}
	return mgl64.Vec3{}
}
