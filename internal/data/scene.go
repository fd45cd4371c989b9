package data

import (
	"fmt"
	"os"

	"github.com/voxelflow/server/internal/world"
	"gopkg.in/yaml.v3"
)

// SceneFill writes one block over an inclusive box. At is shorthand for a
// single cell.
type SceneFill struct {
	Block string    `yaml:"block"`
	Meta  uint8     `yaml:"meta"`
	From  *[3]int32 `yaml:"from"`
	To    *[3]int32 `yaml:"to"`
	At    *[3]int32 `yaml:"at"`
}

// SceneBody is a physics body dropped into the world at start.
type SceneBody struct {
	Pos       [3]float64 `yaml:"pos"`
	HalfWidth float64    `yaml:"half_width"`
	Height    float64    `yaml:"height"`
}

// Scene is the initial layout applied to an empty world.
type Scene struct {
	Name   string      `yaml:"name"`
	Fills  []SceneFill `yaml:"fills"`
	Bodies []SceneBody `yaml:"bodies"`
}

// LoadScene loads a scene YAML file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	return ParseScene(raw)
}

// ParseScene decodes scene YAML bytes.
func ParseScene(raw []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	for i, f := range s.Fills {
		if f.At == nil && (f.From == nil || f.To == nil) {
			return nil, fmt.Errorf("scene fill %d (%s): need at, or from and to", i, f.Block)
		}
	}
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if b.HalfWidth <= 0 {
			b.HalfWidth = 0.3
		}
		if b.Height <= 0 {
			b.Height = 1.8
		}
	}
	return &s, nil
}

// Apply writes the scene's fills into g in order, with neighbour updates on
// so placed liquids get their first scheduled tick. It returns the number of
// cells written.
func (s *Scene) Apply(g *world.Grid, blocks *BlockTable) (int, error) {
	n := 0
	for i, f := range s.Fills {
		st, err := blocks.State(f.Block)
		if err != nil {
			return n, fmt.Errorf("scene fill %d: %w", i, err)
		}
		st.Meta = f.Meta
		from, to := f.From, f.To
		if f.At != nil {
			from, to = f.At, f.At
		}
		n += g.Fill(toPos(*from), toPos(*to), st, true)
	}
	return n, nil
}

func toPos(v [3]int32) world.Pos {
	return world.Pos{X: v[0], Y: v[1], Z: v[2]}
}
