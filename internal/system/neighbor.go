package system

import (
	"time"

	"github.com/voxelflow/server/internal/core/event"
	coresys "github.com/voxelflow/server/internal/core/system"
	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// NeighborSystem swaps the event bus and delivers last tick's grid events.
// Neighbour changes reach the liquid at that cell, which schedules its
// delayed update. Phase 1 (PreUpdate).
type NeighborSystem struct {
	bus *event.Bus
	log *zap.Logger

	delivered int
	broken    int
}

func NewNeighborSystem(bus *event.Bus, liquids *liquid.Set, log *zap.Logger) *NeighborSystem {
	s := &NeighborSystem{bus: bus, log: log}
	event.Subscribe(bus, func(e world.NeighborChanged) {
		liquids.OnNeighborChanged(e.Pos)
	})
	event.Subscribe(bus, func(e world.BlockBroken) {
		s.broken++
		log.Debug("block broken by liquid", zap.Stringer("pos", e.Pos), zap.Uint16("id", e.State.ID))
	})
	return s
}

func (s *NeighborSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *NeighborSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.delivered = s.bus.DispatchAll()
}

// Delivered returns the number of events dispatched in the last tick.
func (s *NeighborSystem) Delivered() int { return s.delivered }

// Broken returns the total number of blocks broken by flowing liquid.
func (s *NeighborSystem) Broken() int { return s.broken }
