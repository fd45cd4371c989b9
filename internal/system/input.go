package system

import (
	"sync"
	"time"

	coresys "github.com/voxelflow/server/internal/core/system"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// Edit is an external block placement, e.g. a viewer dropping a source.
type Edit struct {
	Pos   world.Pos
	State world.State
}

// InputSystem applies queued edits to the grid at tick start. Edits may be
// queued from any goroutine; they are applied on the game loop. Phase 0
// (Input).
type InputSystem struct {
	grid       *world.Grid
	maxPerTick int
	log        *zap.Logger

	mu      sync.Mutex
	pending []Edit
}

func NewInputSystem(grid *world.Grid, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{grid: grid, maxPerTick: maxPerTick, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Queue adds an edit for the next tick.
func (s *InputSystem) Queue(e Edit) {
	s.mu.Lock()
	s.pending = append(s.pending, e)
	s.mu.Unlock()
}

func (s *InputSystem) Update(_ time.Duration) {
	s.mu.Lock()
	batch := s.pending
	if s.maxPerTick > 0 && len(batch) > s.maxPerTick {
		batch = batch[:s.maxPerTick]
		s.pending = append([]Edit(nil), s.pending[s.maxPerTick:]...)
	} else {
		s.pending = nil
	}
	s.mu.Unlock()

	for _, e := range batch {
		if !s.grid.SetBlock(e.Pos, e.State, true, true) {
			s.log.Debug("edit rejected", zap.Stringer("pos", e.Pos))
		}
	}
}
