// Package sim assembles a runnable liquid world: the grid, the update
// scheduler, the liquids loaded from data tables, physics bodies and the
// phase-ordered system runner.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/voxelflow/server/internal/component"
	"github.com/voxelflow/server/internal/config"
	"github.com/voxelflow/server/internal/core/ecs"
	"github.com/voxelflow/server/internal/core/event"
	coresys "github.com/voxelflow/server/internal/core/system"
	"github.com/voxelflow/server/internal/data"
	"github.com/voxelflow/server/internal/handler"
	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/net/packet"
	"github.com/voxelflow/server/internal/persist"
	"github.com/voxelflow/server/internal/system"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// Options are the world parameters taken from config.
type Options struct {
	WorldName         string
	MinY, MaxY        int32
	FlowImpulse       float64
	MaxUpdatesPerTick int
	TickRate          time.Duration
}

// OptionsFrom extracts Options from a loaded config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		WorldName:         cfg.World.Name,
		MinY:              cfg.World.MinY,
		MaxY:              cfg.World.MaxY,
		FlowImpulse:       cfg.Liquid.FlowImpulse,
		MaxUpdatesPerTick: cfg.Liquid.MaxUpdatesPerTick,
		TickRate:          cfg.Server.TickRate,
	}
}

// Hooks resolves scripted harden functions. Implemented by scripting.Engine.
type Hooks interface {
	HasFunction(name string) bool
	HardenFunc(fn string, reg world.Registry) liquid.HardenFunc
}

// Sim is one running world. Not safe for concurrent use except Queue.
type Sim struct {
	opts   Options
	blocks *data.BlockTable
	log    *zap.Logger

	Bus     *event.Bus
	Grid    *world.Grid
	Sched   *world.Scheduler
	Liquids *liquid.Set

	Entities *ecs.World
	Bodies   *ecs.Store[component.Body]
	Motions  *ecs.Store[component.Motion]

	Runner    *coresys.Runner
	Input     *system.InputSystem
	Neighbor  *system.NeighborSystem
	Ticker    *system.LiquidSystem
	Physics   *system.PhysicsSystem
	Broadcast *system.BroadcastSystem
	Persist   *system.PersistenceSystem // nil until AttachPersistence
	Feed      *system.FeedSystem        // nil until AttachFeed
}

// New builds a world with every liquid of liquids. hooks may be nil, in
// which case scripted liquids fall back to their data-driven rule.
func New(blocks *data.BlockTable, liquids *data.LiquidTable, hooks Hooks, opts Options, log *zap.Logger) (*Sim, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 50 * time.Millisecond
	}
	s := &Sim{opts: opts, blocks: blocks, log: log}

	s.Bus = event.NewBus()
	s.Grid = world.NewGrid(blocks, s.Bus, opts.MinY, opts.MaxY)
	s.Sched = world.NewScheduler()
	s.Liquids = liquid.NewSet(s.Grid, log)

	for _, def := range liquids.All() {
		v := *def.Variant
		if def.HardenScript != "" {
			switch {
			case hooks == nil:
				log.Warn("no script engine, harden script ignored",
					zap.String("liquid", v.Label), zap.String("script", def.HardenScript))
			case !hooks.HasFunction(def.HardenScript):
				return nil, fmt.Errorf("liquid %s: harden script %q not defined", v.Label, def.HardenScript)
			default:
				v.Hook = hooks.HardenFunc(def.HardenScript, blocks)
			}
		}
		s.Liquids.Add(liquid.New(def.BlockID, &v, s.Grid, s.Sched, log))
	}

	s.Entities = ecs.NewWorld()
	s.Bodies = ecs.NewStore[component.Body]()
	s.Motions = ecs.NewStore[component.Motion]()
	s.Entities.Track(s.Bodies)
	s.Entities.Track(s.Motions)

	s.Runner = coresys.NewRunner()
	s.Input = system.NewInputSystem(s.Grid, 0, log)
	s.Neighbor = system.NewNeighborSystem(s.Bus, s.Liquids, log)
	s.Ticker = system.NewLiquidSystem(s.Sched, s.Liquids, opts.MaxUpdatesPerTick, log)
	s.Physics = system.NewPhysicsSystem(s.Grid, s.Liquids, s.Bodies, s.Motions, opts.FlowImpulse)
	s.Broadcast = system.NewBroadcastSystem(s.Grid, s.Sched)
	s.Runner.Register(s.Input)
	s.Runner.Register(s.Neighbor)
	s.Runner.Register(s.Ticker)
	s.Runner.Register(s.Physics)
	s.Runner.Register(s.Broadcast)
	s.Runner.Register(system.NewCleanupSystem(s.Entities, s.Motions, opts.MinY, log))

	log.Info("world assembled",
		zap.String("world", opts.WorldName),
		zap.Int("liquids", len(s.Liquids.All())),
		zap.Int32("min_y", opts.MinY),
		zap.Int32("max_y", opts.MaxY))
	return s, nil
}

// Blocks returns the block table the world was built from.
func (s *Sim) Blocks() *data.BlockTable { return s.blocks }

// Step runs one full tick.
func (s *Sim) Step() {
	s.Runner.Tick(s.opts.TickRate)
}

// StepN runs n ticks.
func (s *Sim) StepN(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Tick returns the scheduler clock.
func (s *Sim) Tick() int64 { return s.Sched.CurrentTick() }

// Queue places a block at the start of the next tick. Safe to call from any
// goroutine.
func (s *Sim) Queue(p world.Pos, st world.State) {
	s.Input.Queue(system.Edit{Pos: p, State: st})
}

// Place writes a block immediately with neighbour updates on.
func (s *Sim) Place(p world.Pos, st world.State) bool {
	return s.Grid.SetBlock(p, st, true, true)
}

// SpawnBody adds a physics body standing at pos.
func (s *Sim) SpawnBody(pos mgl64.Vec3, halfWidth, height float64) ecs.EntityID {
	id := s.Entities.CreateEntity()
	s.Bodies.Set(id, &component.Body{HalfWidth: halfWidth, Height: height})
	s.Motions.Set(id, &component.Motion{Pos: pos})
	return id
}

// ApplyScene writes scene fills and spawns its bodies. It returns the
// number of cells written.
func (s *Sim) ApplyScene(scene *data.Scene) (int, error) {
	n, err := scene.Apply(s.Grid, s.blocks)
	if err != nil {
		return n, err
	}
	for _, b := range scene.Bodies {
		s.SpawnBody(mgl64.Vec3{b.Pos[0], b.Pos[1], b.Pos[2]}, b.HalfWidth, b.Height)
	}
	s.log.Info("scene applied",
		zap.String("scene", scene.Name),
		zap.Int("cells", n),
		zap.Int("bodies", len(scene.Bodies)))
	return n, nil
}

// ChunkLoader reads saved chunks. Implemented by persist.ChunkRepo.
type ChunkLoader interface {
	LoadAll(ctx context.Context, worldName string) ([]persist.ChunkRow, error)
}

// UpdateLoader reads a saved update queue. Implemented by persist.UpdateRepo.
type UpdateLoader interface {
	LoadAll(ctx context.Context, worldName string) ([]world.ScheduledUpdate, error)
}

// Restore loads the saved chunks and update queue of this world. It reports
// false when nothing was stored.
func (s *Sim) Restore(ctx context.Context, chunks ChunkLoader, updates UpdateLoader) (bool, error) {
	rows, err := chunks.LoadAll(ctx, s.opts.WorldName)
	if err != nil {
		return false, fmt.Errorf("load chunks: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	for _, r := range rows {
		if err := s.Grid.ImportChunk(r.Pos, r.Data); err != nil {
			return false, fmt.Errorf("chunk %v: %w", r.Pos, err)
		}
	}
	queue, err := updates.LoadAll(ctx, s.opts.WorldName)
	if err != nil {
		return false, fmt.Errorf("load updates: %w", err)
	}
	s.Sched.Restore(queue)
	s.log.Info("world restored",
		zap.String("world", s.opts.WorldName),
		zap.Int("chunks", len(rows)),
		zap.Int("updates", len(queue)))
	return true, nil
}

// AttachPersistence registers periodic saving every interval ticks.
func (s *Sim) AttachPersistence(chunks system.ChunkStore, updates system.UpdateStore, interval int) *system.PersistenceSystem {
	s.Persist = system.NewPersistenceSystem(s.opts.WorldName, s.Grid, s.Sched, chunks, updates, s.log, interval)
	s.Runner.Register(s.Persist)
	return s.Persist
}

// AttachFeed serves watcher sessions from source: packets are dispatched at
// tick start and grid changes are streamed at tick end.
func (s *Sim) AttachFeed(source system.SessionSource, maxPacketsPerTick int) *system.FeedSystem {
	reg := packet.NewRegistry(s.log)
	handler.RegisterAll(reg, &handler.Deps{
		WorldName: s.opts.WorldName,
		Grid:      s.Grid,
		Sched:     s.Sched,
		Liquids:   s.Liquids,
		Blocks:    s.blocks,
		Queue:     s.Queue,
		Log:       s.log,
	})
	s.Feed = system.NewFeedSystem(source, reg, maxPacketsPerTick, s.log)
	s.Runner.Register(s.Feed)
	s.Broadcast.AddSink(s.Feed.Sink())
	return s.Feed
}
