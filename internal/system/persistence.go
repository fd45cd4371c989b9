package system

import (
	"context"
	"time"

	coresys "github.com/voxelflow/server/internal/core/system"
	"github.com/voxelflow/server/internal/persist"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// ChunkStore persists encoded chunks. Implemented by persist.ChunkRepo.
type ChunkStore interface {
	Save(ctx context.Context, worldName string, rows []persist.ChunkRow) error
}

// UpdateStore persists the scheduler queue. Implemented by persist.UpdateRepo.
type UpdateStore interface {
	Replace(ctx context.Context, worldName string, tick int64, updates []world.ScheduledUpdate) error
}

// PersistenceSystem periodically saves dirty chunks and the pending update
// queue. Phase 5 (Persist).
type PersistenceSystem struct {
	name      string
	grid      *world.Grid
	sched     *world.Scheduler
	chunks    ChunkStore
	updates   UpdateStore
	log       *zap.Logger
	tickCount int
	interval  int // auto-save every N ticks
}

func NewPersistenceSystem(worldName string, grid *world.Grid, sched *world.Scheduler,
	chunks ChunkStore, updates UpdateStore, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		name:     worldName,
		grid:     grid,
		sched:    sched,
		chunks:   chunks,
		updates:  updates,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	if err := s.SaveAll(context.Background()); err != nil {
		s.log.Error("auto-save failed", zap.Error(err))
	}
}

// SaveAll writes every dirty chunk and the full update queue immediately.
// Called on graceful shutdown. Dirty flags are cleared only after the
// chunk write succeeded.
func (s *PersistenceSystem) SaveAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dirty := s.grid.DirtyChunks()
	rows := make([]persist.ChunkRow, len(dirty))
	for i, cp := range dirty {
		rows[i] = persist.ChunkRow{Pos: cp, Data: s.grid.ExportChunk(cp)}
	}
	if err := s.chunks.Save(ctx, s.name, rows); err != nil {
		return err
	}
	s.grid.ClearDirty(dirty)

	queue := s.sched.Snapshot()
	if err := s.updates.Replace(ctx, s.name, s.sched.CurrentTick(), queue); err != nil {
		return err
	}
	s.log.Info("world saved",
		zap.String("world", s.name),
		zap.Int("chunks", len(rows)),
		zap.Int("updates", len(queue)),
		zap.Int64("tick", s.sched.CurrentTick()))
	return nil
}
