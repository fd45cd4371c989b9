package sim

import (
	"fmt"

	"github.com/voxelflow/server/internal/config"
	"github.com/voxelflow/server/internal/data"
	"github.com/voxelflow/server/internal/scripting"
	"go.uber.org/zap"
)

// Assets are the data tables and scripts a world is built from.
type Assets struct {
	Blocks  *data.BlockTable
	Liquids *data.LiquidTable
	Scene   *data.Scene // nil when no scene is configured
	Scripts *scripting.Engine
}

// LoadAssets reads every table named in cfg and starts the Lua engine.
func LoadAssets(cfg *config.Config, log *zap.Logger) (*Assets, error) {
	blocks, err := data.LoadBlockTable(cfg.Data.Blocks)
	if err != nil {
		return nil, fmt.Errorf("load block table: %w", err)
	}
	liquids, err := data.LoadLiquidTable(cfg.Data.Liquids, blocks)
	if err != nil {
		return nil, fmt.Errorf("load liquid table: %w", err)
	}
	a := &Assets{Blocks: blocks, Liquids: liquids}
	if cfg.Data.Scene != "" {
		if a.Scene, err = data.LoadScene(cfg.Data.Scene); err != nil {
			return nil, fmt.Errorf("load scene: %w", err)
		}
	}
	if a.Scripts, err = scripting.NewEngine(cfg.Scripting.Dir, log); err != nil {
		return nil, fmt.Errorf("lua engine: %w", err)
	}
	return a, nil
}

// Build assembles a world from the assets.
func (a *Assets) Build(opts Options, log *zap.Logger) (*Sim, error) {
	return New(a.Blocks, a.Liquids, a.Scripts, opts, log)
}

// Close releases the Lua VM.
func (a *Assets) Close() {
	if a.Scripts != nil {
		a.Scripts.Close()
	}
}
