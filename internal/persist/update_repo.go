package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/voxelflow/server/internal/world"
)

// UpdateRepo stores the scheduler's pending updates as remaining delays, so
// a restarted world resumes flowing where it stopped.
type UpdateRepo struct {
	db *DB
}

func NewUpdateRepo(db *DB) *UpdateRepo {
	return &UpdateRepo{db: db}
}

// Replace swaps the stored queue of a world for updates, in firing order,
// and records the tick it was taken at.
func (r *UpdateRepo) Replace(ctx context.Context, worldName string, tick int64, updates []world.ScheduledUpdate) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_updates WHERE world = $1`, worldName); err != nil {
		return fmt.Errorf("clear updates: %w", err)
	}
	if len(updates) > 0 {
		src := make([][]any, len(updates))
		for i, u := range updates {
			src[i] = []any{worldName, int32(i), u.Pos.X, u.Pos.Y, u.Pos.Z, int32(u.Due)}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"scheduled_updates"},
			[]string{"world", "seq", "x", "y", "z", "delay"},
			pgx.CopyFromRows(src),
		); err != nil {
			return fmt.Errorf("copy updates: %w", err)
		}
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO world_meta (world, tick, saved_at) VALUES ($1, $2, now())
		 ON CONFLICT (world) DO UPDATE SET tick = EXCLUDED.tick, saved_at = now()`,
		worldName, tick,
	); err != nil {
		return fmt.Errorf("save world meta: %w", err)
	}
	return tx.Commit(ctx)
}

// LoadAll returns the stored queue in firing order, each Due holding the
// remaining delay in ticks.
func (r *UpdateRepo) LoadAll(ctx context.Context, worldName string) ([]world.ScheduledUpdate, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT x, y, z, delay FROM scheduled_updates WHERE world = $1 ORDER BY seq`, worldName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []world.ScheduledUpdate
	for rows.Next() {
		var u world.ScheduledUpdate
		var delay int32
		if err := rows.Scan(&u.Pos.X, &u.Pos.Y, &u.Pos.Z, &delay); err != nil {
			return nil, err
		}
		u.Due = int64(delay)
		result = append(result, u)
	}
	return result, rows.Err()
}

// SavedTick returns the tick recorded by the last Replace, or false when the
// world was never saved.
func (r *UpdateRepo) SavedTick(ctx context.Context, worldName string) (int64, bool, error) {
	var tick int64
	err := r.db.Pool.QueryRow(ctx, `SELECT tick FROM world_meta WHERE world = $1`, worldName).Scan(&tick)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return tick, true, nil
}
