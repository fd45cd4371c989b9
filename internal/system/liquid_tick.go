package system

import (
	"time"

	coresys "github.com/voxelflow/server/internal/core/system"
	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// LiquidSystem fires every scheduled block update due this tick, then
// advances the scheduler clock. Updates scheduled while running land on a
// later tick. Phase 2 (Update).
type LiquidSystem struct {
	sched   *world.Scheduler
	liquids *liquid.Set
	limit   int
	log     *zap.Logger

	lastRun int
	total   int64
}

func NewLiquidSystem(sched *world.Scheduler, liquids *liquid.Set, maxPerTick int, log *zap.Logger) *LiquidSystem {
	return &LiquidSystem{sched: sched, liquids: liquids, limit: maxPerTick, log: log}
}

func (s *LiquidSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LiquidSystem) Update(_ time.Duration) {
	s.lastRun = s.sched.RunDue(s.limit, s.liquids.OnScheduledUpdate)
	s.total += int64(s.lastRun)
	if s.limit > 0 && s.lastRun == s.limit {
		s.log.Debug("liquid update budget exhausted",
			zap.Int("limit", s.limit), zap.Int("pending", s.sched.Len()))
	}
	s.sched.Advance()
}

// LastRun returns the number of updates fired in the last tick.
func (s *LiquidSystem) LastRun() int { return s.lastRun }

// Total returns the number of updates fired since start.
func (s *LiquidSystem) Total() int64 { return s.total }
