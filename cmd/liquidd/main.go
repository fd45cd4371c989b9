package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/voxelflow/server/internal/config"
	gonet "github.com/voxelflow/server/internal/net"
	"github.com/voxelflow/server/internal/persist"
	"github.com/voxelflow/server/internal/sim"
	"github.com/voxelflow/server/internal/system"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(serverName, worldName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             voxelflow  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        liquid simulation server           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(world: %s)\033[0m\n\n", serverName, worldName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("LIQUID_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.World.Name)

	// 1. Data tables and scripts
	printSection("data")
	assets, err := sim.LoadAssets(cfg, log)
	if err != nil {
		return err
	}
	defer assets.Close()
	printStat("block types", assets.Blocks.Count())
	printStat("liquids", assets.Liquids.Count())
	printOK("lua engine ready")
	fmt.Println()

	// 2. World
	s, err := assets.Build(sim.OptionsFrom(cfg), log)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}

	// 3. Storage: restore a saved world, or lay out the scene
	printSection("storage")
	var (
		saver *system.PersistenceSystem
		db    *persist.DB
	)
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err = persist.NewDB(ctx, cfg.Database, cfg.Server.Name, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		applied, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat("migrations applied", applied)

		chunkRepo := persist.NewChunkRepo(db)
		updateRepo := persist.NewUpdateRepo(db)
		restored, err := s.Restore(ctx, chunkRepo, updateRepo)
		if err != nil {
			return fmt.Errorf("restore world: %w", err)
		}
		if restored {
			printStat("chunks loaded", s.Grid.ChunkCount())
			printStat("updates pending", s.Sched.Len())
			if tick, ok, err := updateRepo.SavedTick(ctx, cfg.World.Name); err != nil {
				log.Warn("read saved tick", zap.Error(err))
			} else if ok {
				log.Info("world resumed", zap.Int64("saved_at_tick", tick))
			}
		} else if err := applyScene(s, assets); err != nil {
			return err
		}
		saver = s.AttachPersistence(chunkRepo, updateRepo, cfg.Persist.SaveInterval)
	} else {
		printOK("database disabled, world is not saved")
		if err := applyScene(s, assets); err != nil {
			return err
		}
	}
	fmt.Println()

	// 4. Watcher feed
	if cfg.Feed.Enabled {
		srv, err := gonet.NewServer(cfg.Feed.BindAddress, gonet.Limits{
			InQueue:       cfg.Feed.InQueueSize,
			OutQueue:      cfg.Feed.OutQueueSize,
			PacketsPerSec: cfg.Feed.MaxPacketsPerSec,
		}, log)
		if err != nil {
			return fmt.Errorf("feed listen: %w", err)
		}
		defer srv.Shutdown()
		s.AttachFeed(srv, cfg.Feed.MaxPacketsPerTick)
		go srv.AcceptLoop()
		printOK(fmt.Sprintf("watcher feed on %s", srv.Addr()))
		fmt.Println()
	}

	s.Broadcast.AddSink(func(tick int64, changes []world.Change) {
		if ce := log.Check(zapcore.DebugLevel, "grid changes"); ce != nil {
			ce.Write(zap.Int64("tick", tick), zap.Int("cells", len(changes)))
		}
	})

	// 5. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Server.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.Server.TickRate))
	fmt.Println()

	const statInterval = 1200 // 1 minute at 20 TPS
	for {
		select {
		case <-ticker.C:
			s.Step()
			if s.Runner.Ticks()%statInterval == 0 {
				slow, slowDur := s.Runner.Slowest()
				fields := []zap.Field{
					zap.Int64("tick", s.Tick()),
					zap.Int("pending", s.Sched.Len()),
					zap.Int64("updates_fired", s.Ticker.Total()),
					zap.Int("chunks", s.Grid.ChunkCount()),
					zap.Int("bodies", s.Entities.Live()),
					zap.Int("watchers", watchers(s)),
					zap.Duration("tick_time", s.Runner.LastTick()),
					zap.Stringer("slowest_phase", slow),
					zap.Duration("slowest_time", slowDur),
				}
				if s.Feed != nil {
					fields = append(fields, s.Feed.StatFields()...)
				}
				if db != nil {
					fields = append(fields, db.StatFields()...)
				}
				log.Info("world stats", fields...)
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if saver != nil {
				if err := saver.SaveAll(context.Background()); err != nil {
					log.Error("final save failed", zap.Error(err))
				}
			}
			log.Info("server stopped")
			return nil
		}
	}
}

func watchers(s *sim.Sim) int {
	if s.Feed == nil {
		return 0
	}
	return s.Feed.Len()
}

func applyScene(s *sim.Sim, assets *sim.Assets) error {
	if assets.Scene == nil {
		printOK("no scene configured, world starts empty")
		return nil
	}
	n, err := s.ApplyScene(assets.Scene)
	if err != nil {
		return fmt.Errorf("apply scene: %w", err)
	}
	printStat("scene cells", n)
	printStat("bodies", len(assets.Scene.Bodies))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
