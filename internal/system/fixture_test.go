package system

import (
	"testing"

	"github.com/voxelflow/server/internal/core/event"
	"github.com/voxelflow/server/internal/data"
	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const testBlocks = `
blocks:
  - {id: 0, name: air, flowable: true}
  - {id: 1, name: stone, solid: true}
  - {id: 8, name: water, liquid: true}
  - {id: 37, name: dandelion, flowable: true}
`

const (
	idStone  uint16 = 1
	idWater  uint16 = 8
	idFlower uint16 = 37
)

type testWorld struct {
	log    *zap.Logger
	blocks *data.BlockTable
	bus    *event.Bus
	grid   *world.Grid
	sched  *world.Scheduler
	set    *liquid.Set
}

// newTestWorld builds a grid spanning y 0..31 with water registered. With
// events off the grid has no bus.
func newTestWorld(t *testing.T, events bool) *testWorld {
	t.Helper()
	blocks, err := data.ParseBlockTable([]byte(testBlocks))
	if err != nil {
		t.Fatal(err)
	}
	w := &testWorld{log: zaptest.NewLogger(t), blocks: blocks, sched: world.NewScheduler()}
	if events {
		w.bus = event.NewBus()
	}
	w.grid = world.NewGrid(blocks, w.bus, 0, 31)
	w.set = liquid.NewSet(w.grid, w.log)
	w.set.Add(liquid.New(idWater, &liquid.Standard{Label: "water", Rate: 5, LevelLoss: 1, Infinite: true},
		w.grid, w.sched, w.log))
	return w
}

func (w *testWorld) floor(y, r int32) {
	w.grid.Fill(world.Pos{X: -r, Y: y, Z: -r}, world.Pos{X: r, Y: y, Z: r}, world.State{ID: idStone}, false)
}
