package system

import (
	"time"

	coresys "github.com/voxelflow/server/internal/core/system"
	"github.com/voxelflow/server/internal/world"
)

// ChangeSink receives the grid writes flagged for broadcast in one tick.
type ChangeSink func(tick int64, changes []world.Change)

// BroadcastSystem drains the grid's change list once per tick and hands it
// to the registered sinks (viewers, metrics). Phase 4 (Output).
type BroadcastSystem struct {
	grid  *world.Grid
	sched *world.Scheduler
	sinks []ChangeSink
}

func NewBroadcastSystem(grid *world.Grid, sched *world.Scheduler) *BroadcastSystem {
	return &BroadcastSystem{grid: grid, sched: sched}
}

func (s *BroadcastSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

// AddSink registers a consumer of grid changes.
func (s *BroadcastSystem) AddSink(fn ChangeSink) {
	s.sinks = append(s.sinks, fn)
}

func (s *BroadcastSystem) Update(_ time.Duration) {
	changes := s.grid.DrainChanges()
	if len(changes) == 0 {
		return
	}
	for _, fn := range s.sinks {
		fn(s.sched.CurrentTick(), changes)
	}
}
