package data

import (
	"fmt"
	"os"

	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/world"
	"gopkg.in/yaml.v3"
)

type contactYAML struct {
	Contact string `yaml:"contact"`
	Into    string `yaml:"into"`
}

type hardenStepYAML struct {
	MaxDecay int    `yaml:"max_decay"`
	Into     string `yaml:"into"`
}

type hardenYAML struct {
	Contact string           `yaml:"contact"`
	Steps   []hardenStepYAML `yaml:"steps"`
	Script  string           `yaml:"script"` // lua function; overrides steps
}

type liquidYAMLEntry struct {
	Block          string       `yaml:"block"`
	TickRate       int          `yaml:"tick_rate"`
	LevelLoss      int          `yaml:"level_loss"`
	InfiniteSource bool         `yaml:"infinite_source"`
	SolidifyBelow  *contactYAML `yaml:"solidify_below"`
	Harden         *hardenYAML  `yaml:"harden"`
}

type liquidListFile struct {
	Liquids []liquidYAMLEntry `yaml:"liquids"`
}

// LiquidDef is a liquid variant with every block name resolved.
type LiquidDef struct {
	BlockID      uint16
	Variant      *liquid.Standard
	HardenScript string
}

// LiquidTable holds the liquid variants of liquid_list.yaml in file order.
type LiquidTable struct {
	defs []*LiquidDef
}

// LoadLiquidTable loads liquid_list.yaml, resolving names against blocks.
func LoadLiquidTable(path string, blocks *BlockTable) (*LiquidTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read liquid list %s: %w", path, err)
	}
	return ParseLiquidTable(raw, blocks)
}

// ParseLiquidTable builds a table from YAML bytes.
func ParseLiquidTable(raw []byte, blocks *BlockTable) (*LiquidTable, error) {
	var f liquidListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse liquid list: %w", err)
	}
	t := &LiquidTable{defs: make([]*LiquidDef, 0, len(f.Liquids))}
	seen := make(map[uint16]bool, len(f.Liquids))
	for _, e := range f.Liquids {
		def, err := resolveLiquid(e, blocks)
		if err != nil {
			return nil, fmt.Errorf("liquid %q: %w", e.Block, err)
		}
		if seen[def.BlockID] {
			return nil, fmt.Errorf("liquid %q: defined twice", e.Block)
		}
		seen[def.BlockID] = true
		t.defs = append(t.defs, def)
	}
	return t, nil
}

func resolveLiquid(e liquidYAMLEntry, blocks *BlockTable) (*LiquidDef, error) {
	bt, ok := blocks.Lookup(e.Block)
	if !ok {
		return nil, fmt.Errorf("unknown block")
	}
	if !bt.Liquid {
		return nil, fmt.Errorf("block is not marked liquid")
	}
	v := &liquid.Standard{
		Label:     e.Block,
		Rate:      e.TickRate,
		LevelLoss: e.LevelLoss,
		Infinite:  e.InfiniteSource,
	}
	if c := e.SolidifyBelow; c != nil {
		with, into, err := resolveContact(blocks, c.Contact, c.Into)
		if err != nil {
			return nil, fmt.Errorf("solidify_below: %w", err)
		}
		v.Below = &liquid.Contact{With: with, Into: into}
	}
	def := &LiquidDef{BlockID: bt.ID, Variant: v}
	if h := e.Harden; h != nil {
		def.HardenScript = h.Script
		with, err := blocks.State(h.Contact)
		if err != nil && h.Script == "" {
			return nil, fmt.Errorf("harden: %w", err)
		}
		rule := &liquid.HardenRule{With: with.ID}
		for _, s := range h.Steps {
			into, err := blocks.State(s.Into)
			if err != nil {
				return nil, fmt.Errorf("harden step: %w", err)
			}
			rule.Steps = append(rule.Steps, liquid.HardenStep{MaxDecay: s.MaxDecay, Into: into})
		}
		if len(rule.Steps) > 0 {
			v.Rule = rule
		}
	}
	return def, nil
}

func resolveContact(blocks *BlockTable, contact, into string) (uint16, world.State, error) {
	with, err := blocks.State(contact)
	if err != nil {
		return 0, world.State{}, err
	}
	to, err := blocks.State(into)
	if err != nil {
		return 0, world.State{}, err
	}
	return with.ID, to, nil
}

// All returns every liquid definition in file order.
func (t *LiquidTable) All() []*LiquidDef {
	return t.defs
}

// Get returns the definition for a liquid block id, or nil.
func (t *LiquidTable) Get(id uint16) *LiquidDef {
	for _, d := range t.defs {
		if d.BlockID == id {
			return d
		}
	}
	return nil
}

// Count returns the number of liquids loaded.
func (t *LiquidTable) Count() int {
	return len(t.defs)
}
