package liquid

import (
	"testing"

	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap/zaptest"
)

const (
	idAir    uint16 = 0
	idStone  uint16 = 1
	idCobble uint16 = 4
	idWater  uint16 = 8
	idLava   uint16 = 10
	idFlower uint16 = 37
	idObsid  uint16 = 49
)

type testRegistry map[uint16]*world.BlockType

func newTestRegistry() testRegistry {
	r := testRegistry{}
	for _, bt := range []*world.BlockType{
		{ID: idAir, Name: "air", Flowable: true},
		{ID: idStone, Name: "stone", Solid: true},
		{ID: idCobble, Name: "cobblestone", Solid: true},
		{ID: idWater, Name: "water", Flowable: true, Liquid: true},
		{ID: idLava, Name: "lava", Flowable: true, Liquid: true},
		{ID: idFlower, Name: "flower", Flowable: true},
		{ID: idObsid, Name: "obsidian", Solid: true},
	} {
		r[bt.ID] = bt
	}
	return r
}

func (r testRegistry) Type(id uint16) *world.BlockType {
	if bt, ok := r[id]; ok {
		return bt
	}
	return &world.BlockType{ID: id, Name: "unknown", Solid: true}
}

func (r testRegistry) Lookup(name string) (*world.BlockType, bool) {
	for _, bt := range r {
		if bt.Name == name {
			return bt, true
		}
	}
	return nil, false
}

func waterVariant() *Standard {
	return &Standard{Label: "water", Rate: 5, LevelLoss: 1, Infinite: true}
}

func lavaVariant() *Standard {
	return &Standard{
		Label:     "lava",
		Rate:      30,
		LevelLoss: 2,
		Below:     &Contact{With: idWater, Into: world.State{ID: idStone}},
		Rule: &HardenRule{
			With: idWater,
			Steps: []HardenStep{
				{MaxDecay: 0, Into: world.State{ID: idObsid}},
				{MaxDecay: 4, Into: world.State{ID: idCobble}},
			},
		},
	}
}

type fixture struct {
	grid  *world.Grid
	sched *world.Scheduler
	set   *Set
	water *Liquid
	lava  *Liquid
}

// newFixture builds an event-free grid spanning y -16..31 with water and
// lava registered.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	g := world.NewGrid(newTestRegistry(), nil, -16, 31)
	s := world.NewScheduler()
	f := &fixture{grid: g, sched: s, set: NewSet(g, log)}
	f.water = New(idWater, waterVariant(), g, s, log)
	f.lava = New(idLava, lavaVariant(), g, s, log)
	f.set.Add(f.water)
	f.set.Add(f.lava)
	return f
}

func (f *fixture) put(p world.Pos, id uint16, meta uint8) {
	f.grid.SetBlock(p, world.State{ID: id, Meta: meta}, false, false)
}

// floor lays stone at y over the square |x|,|z| <= r.
func (f *fixture) floor(y, r int32) {
	f.grid.Fill(world.Pos{X: -r, Y: y, Z: -r}, world.Pos{X: r, Y: y, Z: r}, world.State{ID: idStone}, false)
}

func (f *fixture) state(p world.Pos) world.State {
	return f.grid.State(p)
}

func (f *fixture) pending(p world.Pos) bool {
	_, ok := f.sched.Pending(p)
	return ok
}

func pos(x, y, z int32) world.Pos { return world.Pos{X: x, Y: y, Z: z} }
