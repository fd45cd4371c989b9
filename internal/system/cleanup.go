package system

import (
	"time"

	"github.com/voxelflow/server/internal/component"
	"github.com/voxelflow/server/internal/core/ecs"
	coresys "github.com/voxelflow/server/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem queues bodies that fell below the world floor for
// destruction, then flushes the deferred destruction queue. Phase 6 (Cleanup).
type CleanupSystem struct {
	world   *ecs.World
	motions *ecs.Store[component.Motion]
	floor   float64
	log     *zap.Logger
}

func NewCleanupSystem(w *ecs.World, motions *ecs.Store[component.Motion], minY int32, log *zap.Logger) *CleanupSystem {
	// one chunk of slack under the lowest cell
	return &CleanupSystem{world: w, motions: motions, floor: float64(minY) - 16, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.motions.Each(func(id ecs.EntityID, m *component.Motion) {
		if m.Pos.Y() < s.floor {
			s.world.MarkForDestruction(id)
		}
	})
	if n := s.world.FlushDestroyQueue(); n > 0 {
		s.log.Debug("bodies removed", zap.Int("count", n), zap.Int("live", s.world.Live()))
	}
}
