package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voxelflow/server/internal/config"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// DB owns the pgx pool shared by the chunk and update repositories.
type DB struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// PoolConfig turns the database section into a pgx pool config. appName is
// reported to PostgreSQL as application_name.
func PoolConfig(cfg config.DatabaseConfig, appName string) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pc.MaxConns = int32(cfg.MaxOpenConns)
	}
	if idle := int32(cfg.MaxIdleConns); idle > 0 {
		pc.MinConns = min(idle, pc.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if appName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = appName
	}
	return pc, nil
}

// NewDB connects and pings before returning.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, appName string, log *zap.Logger) (*DB, error) {
	pc, err := PoolConfig(cfg, appName)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Info("database connected",
		zap.String("host", pc.ConnConfig.Host),
		zap.String("database", pc.ConnConfig.Database),
		zap.Int32("max_conns", pc.MaxConns))
	return &DB{Pool: pool, log: log}, nil
}

// StatFields summarises pool usage for the periodic stats log.
func (db *DB) StatFields() []zap.Field {
	st := db.Pool.Stat()
	return []zap.Field{
		zap.Int32("db_conns", st.TotalConns()),
		zap.Int32("db_idle", st.IdleConns()),
		zap.Int64("db_acquires", st.AcquireCount()),
		zap.Duration("db_wait", st.AcquireDuration()),
	}
}

func (db *DB) Close() {
	db.Pool.Close()
}
