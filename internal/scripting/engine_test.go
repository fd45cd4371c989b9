package scripting

import (
	"testing"

	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap/zaptest"
)

const hardenSrc = `
function lava_harden(ctx)
  for side, block in pairs(ctx.sides) do
    if side ~= "down" and block == "water" then
      if ctx.decay == 0 then return "obsidian" end
      if ctx.decay <= 4 then return "cobblestone" end
    end
  end
  return nil
end

function melt(ctx) return "cheese" end

function broken(ctx) error("boom") end
`

type reg map[string]*world.BlockType

func (r reg) Type(id uint16) *world.BlockType {
	for _, bt := range r {
		if bt.ID == id {
			return bt
		}
	}
	return nil
}

func (r reg) Lookup(name string) (*world.BlockType, bool) {
	bt, ok := r[name]
	return bt, ok
}

var (
	lavaType  = &world.BlockType{ID: 10, Name: "lava", Liquid: true, Flowable: true}
	waterType = &world.BlockType{ID: 8, Name: "water", Liquid: true, Flowable: true}
	airType   = &world.BlockType{ID: 0, Name: "air", Flowable: true}
	testReg   = reg{
		"lava":        lavaType,
		"water":       waterType,
		"air":         airType,
		"obsidian":    {ID: 49, Name: "obsidian", Solid: true},
		"cobblestone": {ID: 4, Name: "cobblestone", Solid: true},
	}
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngineFromSource(hardenSrc, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngineFromSource: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestHarden(t *testing.T) {
	e := newTestEngine(t)
	if !e.HasFunction("lava_harden") || e.HasFunction("nope") {
		t.Fatal("HasFunction mismatch")
	}

	ctx := HardenContext{Liquid: "lava", Decay: 0}
	for i := range ctx.Sides {
		ctx.Sides[i] = "air"
	}
	if _, ok := e.Harden("lava_harden", ctx); ok {
		t.Error("hardened without water")
	}

	ctx.Sides[world.SideDown] = "water"
	if _, ok := e.Harden("lava_harden", ctx); ok {
		t.Error("hardened on water below")
	}

	ctx.Sides[world.SideWest] = "water"
	if got, ok := e.Harden("lava_harden", ctx); !ok || got != "obsidian" {
		t.Errorf("decay 0 = %q,%v", got, ok)
	}
	ctx.Decay = 3
	if got, ok := e.Harden("lava_harden", ctx); !ok || got != "cobblestone" {
		t.Errorf("decay 3 = %q,%v", got, ok)
	}
	ctx.Decay = 6
	if _, ok := e.Harden("lava_harden", ctx); ok {
		t.Error("decay 6 hardened")
	}
}

func TestHardenErrors(t *testing.T) {
	e := newTestEngine(t)
	if _, ok := e.Harden("missing", HardenContext{}); ok {
		t.Error("missing function reported a reaction")
	}
	if _, ok := e.Harden("broken", HardenContext{}); ok {
		t.Error("erroring function reported a reaction")
	}
	// the VM stays usable after a protected error
	if got, ok := e.Harden("melt", HardenContext{}); !ok || got != "cheese" {
		t.Errorf("melt = %q,%v", got, ok)
	}
}

func TestHardenFunc(t *testing.T) {
	e := newTestEngine(t)
	fn := e.HardenFunc("lava_harden", testReg)

	self := world.Block{State: world.State{ID: 10, Meta: 2}, Type: lavaType}
	var sides [6]world.Block
	for i := range sides {
		sides[i] = world.Block{Type: airType}
	}
	sides[world.SideNorth] = world.Block{State: world.State{ID: 8}, Type: waterType}

	got, ok := fn(self, sides)
	if !ok || got != (world.State{ID: 4}) {
		t.Errorf("HardenFunc = %v,%v, want cobblestone", got, ok)
	}

	// a name outside the registry is ignored
	melt := e.HardenFunc("melt", testReg)
	if _, ok := melt(self, sides); ok {
		t.Error("unknown result block accepted")
	}
}

func TestNewEngineLoadsScripts(t *testing.T) {
	e, err := NewEngine("../../scripts", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()
	if !e.HasFunction("lava_harden") {
		t.Error("lava_harden not loaded")
	}

	empty, err := NewEngine(t.TempDir(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewEngine on empty dir: %v", err)
	}
	empty.Close()
}

func TestNewEngineFromSourceSyntaxError(t *testing.T) {
	if _, err := NewEngineFromSource("function (", zaptest.NewLogger(t)); err == nil {
		t.Error("syntax error accepted")
	}
}
