package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/voxelflow/server/internal/world"
)

// ChunkRow is one encoded chunk. Nil Data means the chunk is all air and its
// row should be removed.
type ChunkRow struct {
	Pos  world.ChunkPos
	Data []byte
}

type ChunkRepo struct {
	db *DB
}

func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Save upserts rows in one transaction. Rows with nil data are deleted.
func (r *ChunkRepo) Save(ctx context.Context, worldName string, rows []ChunkRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range rows {
		if row.Data == nil {
			batch.Queue(
				`DELETE FROM world_chunks WHERE world = $1 AND cx = $2 AND cy = $3 AND cz = $4`,
				worldName, row.Pos.X, row.Pos.Y, row.Pos.Z,
			)
			continue
		}
		batch.Queue(
			`INSERT INTO world_chunks (world, cx, cy, cz, data, updated_at)
			 VALUES ($1, $2, $3, $4, $5, now())
			 ON CONFLICT (world, cx, cy, cz) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
			worldName, row.Pos.X, row.Pos.Y, row.Pos.Z, row.Data,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	return tx.Commit(ctx)
}

// LoadAll returns every stored chunk of a world.
func (r *ChunkRepo) LoadAll(ctx context.Context, worldName string) ([]ChunkRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT cx, cy, cz, data FROM world_chunks WHERE world = $1 ORDER BY cx, cy, cz`, worldName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ChunkRow
	for rows.Next() {
		var row ChunkRow
		if err := rows.Scan(&row.Pos.X, &row.Pos.Y, &row.Pos.Z, &row.Data); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
