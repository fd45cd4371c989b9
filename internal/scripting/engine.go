package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for liquid reaction scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	for _, sub := range []string{"core", "liquid"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// NewEngineFromSource creates an engine running a single chunk of Lua.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load lua source: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasFunction reports whether a global Lua function called name exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// HardenContext holds pre-packed data for a liquid contact check.
type HardenContext struct {
	Liquid string
	Decay  int
	Sides  [6]string // block names indexed by world.Side
}

// Harden calls the Lua function fn with ctx. It returns the name of the
// block the liquid turns into, or false to leave it alone. Script errors
// are logged and treated as no reaction.
func (e *Engine) Harden(fn string, ctx HardenContext) (string, bool) {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		e.log.Error("lua harden function not found", zap.String("name", fn))
		return "", false
	}

	t := e.vm.NewTable()
	t.RawSetString("liquid", lua.LString(ctx.Liquid))
	t.RawSetString("decay", lua.LNumber(ctx.Decay))
	sides := e.vm.NewTable()
	for _, s := range world.Sides {
		sides.RawSetString(s.String(), lua.LString(ctx.Sides[s]))
	}
	t.RawSetString("sides", sides)

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua harden error", zap.String("func", fn), zap.Error(err))
		return "", false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	name, ok := result.(lua.LString)
	if !ok || name == "" {
		return "", false
	}
	return string(name), true
}

// HardenFunc adapts the Lua function fn into a liquid harden hook, resolving
// block names through reg. Unknown result names are logged and ignored.
func (e *Engine) HardenFunc(fn string, reg world.Registry) liquid.HardenFunc {
	return func(self world.Block, sides [6]world.Block) (world.State, bool) {
		ctx := HardenContext{
			Liquid: typeName(self.Type),
			Decay:  int(self.State.Meta & world.MetaMask),
		}
		for i, b := range sides {
			ctx.Sides[i] = typeName(b.Type)
		}
		name, ok := e.Harden(fn, ctx)
		if !ok {
			return world.State{}, false
		}
		bt, found := reg.Lookup(name)
		if !found {
			e.log.Warn("lua harden returned unknown block",
				zap.String("func", fn), zap.String("block", name))
			return world.State{}, false
		}
		return world.State{ID: bt.ID}, true
	}
}

func typeName(bt *world.BlockType) string {
	if bt == nil {
		return ""
	}
	return bt.Name
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
