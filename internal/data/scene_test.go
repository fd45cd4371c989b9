package data

import (
	"testing"

	"github.com/voxelflow/server/internal/world"
)

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(`
name: pond
fills:
  - {block: stone, from: [-2, 0, -2], to: [2, 0, 2]}
  - {block: water, at: [0, 1, 0]}
  - {block: water, meta: 3, at: [1, 1, 0]}
bodies:
  - {pos: [0.5, 2, 0.5]}
  - {pos: [1, 2, 1], half_width: 0.5, height: 1}
`))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if s.Name != "pond" || len(s.Fills) != 3 || len(s.Bodies) != 2 {
		t.Fatalf("scene = %+v", s)
	}
	if b := s.Bodies[0]; b.HalfWidth != 0.3 || b.Height != 1.8 {
		t.Errorf("default body = %+v", b)
	}
	if b := s.Bodies[1]; b.HalfWidth != 0.5 || b.Height != 1 {
		t.Errorf("sized body = %+v", b)
	}

	bt := mustBlocks(t)
	g := world.NewGrid(bt, nil, -8, 8)
	n, err := s.Apply(g, bt)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n != 27 {
		t.Errorf("Apply wrote %d cells, want 27", n)
	}
	if got := g.State(world.Pos{X: 2, Y: 0, Z: -2}); got != (world.State{ID: 1}) {
		t.Errorf("floor corner = %v", got)
	}
	if got := g.State(world.Pos{X: 1, Y: 1, Z: 0}); got != (world.State{ID: 8, Meta: 3}) {
		t.Errorf("flowing cell = %v", got)
	}
}

func TestParseSceneNeedsBox(t *testing.T) {
	if _, err := ParseScene([]byte("fills:\n  - {block: stone, from: [0, 0, 0]}\n")); err == nil {
		t.Error("fill with only from accepted")
	}
}

func TestSceneApplyUnknownBlock(t *testing.T) {
	s, err := ParseScene([]byte("fills:\n  - {block: basalt, at: [0, 0, 0]}\n"))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	bt := mustBlocks(t)
	if _, err := s.Apply(world.NewGrid(bt, nil, 0, 4), bt); err == nil {
		t.Error("Apply accepted an unknown block")
	}
}

func TestLoadSceneShipped(t *testing.T) {
	s, err := LoadScene("../../data/yaml/scene_demo.yaml")
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if len(s.Fills) == 0 {
		t.Error("demo scene has no fills")
	}
}
