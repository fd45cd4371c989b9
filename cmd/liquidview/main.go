package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/voxelflow/server/internal/component"
	"github.com/voxelflow/server/internal/config"
	"github.com/voxelflow/server/internal/core/ecs"
	"github.com/voxelflow/server/internal/data"
	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/sim"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// surface glyphs from nearly empty to full
var levelGlyphs = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type viewer struct {
	screen tcell.Screen
	sim    *sim.Sim
	blocks *data.BlockTable
	styles map[uint16]tcell.Style
	glyphs map[uint16]rune

	// slice origin: screen column 0 is originX, the bottom row is originY
	originX, originY, sliceZ int32
	paused                   bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
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

	// the terminal belongs to the viewer, so only errors go to stderr
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	zapCfg.OutputPaths = []string{"stderr"}
	log, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	assets, err := sim.LoadAssets(cfg, log)
	if err != nil {
		return err
	}
	defer assets.Close()

	s, err := assets.Build(sim.OptionsFrom(cfg), log)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	if assets.Scene != nil {
		if _, err := s.ApplyScene(assets.Scene); err != nil {
			return fmt.Errorf("apply scene: %w", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	v := newViewer(screen, s, assets.Blocks)
	return v.loop(cfg.Server.TickRate)
}

func newViewer(screen tcell.Screen, s *sim.Sim, blocks *data.BlockTable) *viewer {
	v := &viewer{
		screen:  screen,
		sim:     s,
		blocks:  blocks,
		styles:  make(map[uint16]tcell.Style),
		glyphs:  make(map[uint16]rune),
		originX: -4,
		originY: -1,
	}
	for _, e := range blocks.Entries() {
		style := tcell.StyleDefault
		if e.Color != "" {
			style = style.Foreground(tcell.GetColor(e.Color))
		}
		v.styles[e.ID] = style
		g := ' '
		for _, r := range e.Glyph {
			g = r
			break
		}
		v.glyphs[e.ID] = g
	}
	return v
}

func (v *viewer) loop(tickRate time.Duration) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	v.draw()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if v.handleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
			v.draw()
		case <-ticker.C:
			if !v.paused {
				v.sim.Step()
				v.draw()
			}
		}
	}
}

// handleKey applies one key press and reports whether to quit.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.originX--
	case tcell.KeyRight:
		v.originX++
	case tcell.KeyUp:
		v.originY++
	case tcell.KeyDown:
		v.originY--
	case tcell.KeyPgUp:
		v.sliceZ++
	case tcell.KeyPgDn:
		v.sliceZ--
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			v.paused = !v.paused
		case '.':
			if v.paused {
				v.sim.Step()
			}
		case 'w':
			v.drop("water")
		case 'l':
			v.drop("lava")
		}
	}
	return false
}

// drop queues a source block at the top centre of the visible slice.
func (v *viewer) drop(name string) {
	st, err := v.blocks.State(name)
	if err != nil {
		return
	}
	w, h := v.screen.Size()
	p := world.Pos{X: v.originX + int32(w/2), Y: v.originY + int32(h-3), Z: v.sliceZ}
	v.sim.Queue(p, st)
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	rows := h - 1 // last row is the status line
	for sy := 0; sy < rows; sy++ {
		y := v.originY + int32(rows-1-sy)
		for sx := 0; sx < w; sx++ {
			p := world.Pos{X: v.originX + int32(sx), Y: y, Z: v.sliceZ}
			r, style := v.cell(v.sim.Grid.BlockAt(p))
			v.screen.SetContent(sx, sy, r, nil, style)
		}
	}

	v.sim.Motions.Each(func(_ ecs.EntityID, m *component.Motion) {
		if int32(math.Floor(m.Pos.Z())) != v.sliceZ {
			return
		}
		sx := int(math.Floor(m.Pos.X())) - int(v.originX)
		sy := rows - 1 - (int(math.Floor(m.Pos.Y())) - int(v.originY))
		if sx >= 0 && sx < w && sy >= 0 && sy < rows {
			v.screen.SetContent(sx, sy, 'o', nil, tcell.StyleDefault.Bold(true))
		}
	})

	status := fmt.Sprintf(" tick %d  z=%d  pending %d  bodies %d  %s",
		v.sim.Tick(), v.sliceZ, v.sim.Sched.Len(), v.sim.Entities.Live(), v.mode())
	style := tcell.StyleDefault.Reverse(true)
	for i, r := range []rune(status) {
		if i >= w {
			break
		}
		v.screen.SetContent(i, h-1, r, nil, style)
	}
	v.screen.Show()
}

func (v *viewer) mode() string {
	if v.paused {
		return "[paused]  space run  . step  w/l drop  q quit"
	}
	return "space pause  arrows pan  pgup/pgdn z  w/l drop  q quit"
}

func (v *viewer) cell(b world.Block) (rune, tcell.Style) {
	if b.IsAir() {
		return ' ', tcell.StyleDefault
	}
	style := v.styles[b.State.ID]
	if b.IsLiquid() {
		fill := 1 - liquid.FluidHeightPercent(b.State.Meta)
		i := int(fill*float64(len(levelGlyphs))+0.5) - 1
		if i < 0 {
			i = 0
		}
		if i >= len(levelGlyphs) {
			i = len(levelGlyphs) - 1
		}
		return levelGlyphs[i], style
	}
	if g, ok := v.glyphs[b.State.ID]; ok {
		return g, style
	}
	return '?', style
}
